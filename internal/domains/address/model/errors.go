package model

import "errors"

var (
	ErrAddressNotFound = errors.New("address not found")
	ErrNotOwner        = errors.New("address does not belong to user")
)
