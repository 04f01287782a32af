package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"pujaseva-backend/internal/domains/catalog/model"
	"pujaseva-backend/internal/domains/catalog/service"
	"pujaseva-backend/internal/shared/response"
)

// 5 MB cap on catalog images
const maxImageSize = 5 << 20

type CatalogHandler struct {
	service service.CatalogService
}

func NewCatalogHandler(service service.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// ===== PUBLIC =====

// ListServices GET /api/v1/services
func (h *CatalogHandler) ListServices(c *gin.Context) {
	var q model.ListServicesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "INVALID_QUERY", "Invalid query parameters")
		return
	}
	q.Normalize()

	services, total, err := h.service.ListServices(c.Request.Context(), &q)
	if err != nil {
		response.InternalServerError(c, "CAT_001", "Failed to load services")
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, services, &response.Meta{
		Page:  q.Page,
		Limit: q.Limit,
		Total: total,
	})
}

// GetServiceBySlug GET /api/v1/services/:slug
func (h *CatalogHandler) GetServiceBySlug(c *gin.Context) {
	svc, err := h.service.GetServiceBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, model.ErrServiceNotFound) {
			response.NotFound(c, "CAT_002", "Service not found")
			return
		}
		response.InternalServerError(c, "CAT_001", "Failed to load service")
		return
	}

	response.Success(c, http.StatusOK, svc)
}

// ===== ADMIN =====

// CreateService POST /api/v1/admin/services
func (h *CatalogHandler) CreateService(c *gin.Context) {
	var req model.SaveServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "INVALID_BODY", "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err)
		return
	}

	svc, err := h.service.CreateService(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, model.ErrSlugExists) {
			response.ValidationFailed(c, "name", "A service with this name already exists")
			return
		}
		response.InternalServerError(c, "CAT_001", "Failed to create service")
		return
	}

	response.Success(c, http.StatusCreated, svc)
}

// UpdateService PUT /api/v1/admin/services/:id
func (h *CatalogHandler) UpdateService(c *gin.Context) {
	serviceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "INVALID_ID", "Invalid service id")
		return
	}

	var req model.SaveServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "INVALID_BODY", "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err)
		return
	}

	svc, err := h.service.UpdateService(c.Request.Context(), serviceID, &req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, svc)
}

// UploadServiceImage POST /api/v1/admin/services/:id/image
func (h *CatalogHandler) UploadServiceImage(c *gin.Context) {
	serviceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "INVALID_ID", "Invalid service id")
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		response.BadRequest(c, "INVALID_BODY", "Missing image file")
		return
	}
	if fileHeader.Size > maxImageSize {
		response.BadRequest(c, "CAT_003", "Image exceeds the 5 MB limit")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.BadRequest(c, "INVALID_BODY", "Unable to read image file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		response.BadRequest(c, "INVALID_BODY", "Unable to read image file")
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType != "image/jpeg" && contentType != "image/png" && contentType != "image/webp" {
		response.BadRequest(c, "CAT_004", "Only JPEG, PNG and WebP images are allowed")
		return
	}

	svc, err := h.service.UploadServiceImage(c.Request.Context(), serviceID, fileHeader.Filename, data, contentType)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, svc)
}

// CreatePackage POST /api/v1/admin/services/:id/packages
func (h *CatalogHandler) CreatePackage(c *gin.Context) {
	serviceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "INVALID_ID", "Invalid service id")
		return
	}

	var req model.SavePackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "INVALID_BODY", "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err)
		return
	}

	pkg, err := h.service.CreatePackage(c.Request.Context(), serviceID, &req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, pkg)
}

// UpdatePackage PUT /api/v1/admin/packages/:id
func (h *CatalogHandler) UpdatePackage(c *gin.Context) {
	packageID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "INVALID_ID", "Invalid package id")
		return
	}

	var req model.SavePackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "INVALID_BODY", "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err)
		return
	}

	pkg, err := h.service.UpdatePackage(c.Request.Context(), packageID, &req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, pkg)
}

func (h *CatalogHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrServiceNotFound):
		response.NotFound(c, "CAT_002", "Service not found")
	case errors.Is(err, model.ErrPackageNotFound):
		response.NotFound(c, "CAT_005", "Package not found")
	case errors.Is(err, model.ErrSlugExists):
		response.ValidationFailed(c, "name", "A service with this name already exists")
	default:
		response.InternalServerError(c, "CAT_001", "Failed to save catalog item")
	}
}
