package model

import "errors"

var (
	ErrServiceNotFound = errors.New("service not found")
	ErrPackageNotFound = errors.New("package not found")
	ErrSlugExists      = errors.New("a service with this name already exists")
	ErrInactiveService = errors.New("service is not available")
	ErrInactivePackage = errors.New("package is not available")
)
