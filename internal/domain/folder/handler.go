package folder

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rehearse/internal/pkg/response"
	"rehearse/internal/pkg/validator"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Create handles POST /folders
func (h *Handler) Create(c *gin.Context) {
	userID := c.GetInt64("user_id")

	var req CreateFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid folder data", errs)
		return
	}

	f, err := h.service.Create(c.Request.Context(), userID, &req)
	if err != nil {
		if err == ErrDuplicateName {
			response.Error(c, http.StatusConflict, "DUPLICATE_NAME", err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to create folder")
		return
	}

	response.Success(c, http.StatusCreated, f)
}

// List handles GET /folders
func (h *Handler) List(c *gin.Context) {
	userID := c.GetInt64("user_id")

	folders, err := h.service.List(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to list folders")
		return
	}

	response.Success(c, http.StatusOK, folders)
}

// Get handles GET /folders/:id
func (h *Handler) Get(c *gin.Context) {
	userID := c.GetInt64("user_id")

	f, err := h.service.GetByID(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		if err == ErrFolderNotFound {
			response.Error(c, http.StatusNotFound, "FOLDER_NOT_FOUND", err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to load folder")
		return
	}

	response.Success(c, http.StatusOK, f)
}

// Update handles PUT /folders/:id
func (h *Handler) Update(c *gin.Context) {
	userID := c.GetInt64("user_id")

	var req UpdateFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid folder data", errs)
		return
	}

	f, err := h.service.Update(c.Request.Context(), c.Param("id"), userID, &req)
	if err != nil {
		switch err {
		case ErrFolderNotFound:
			response.Error(c, http.StatusNotFound, "FOLDER_NOT_FOUND", err.Error())
		case ErrDuplicateName:
			response.Error(c, http.StatusConflict, "DUPLICATE_NAME", err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to update folder")
		}
		return
	}

	response.Success(c, http.StatusOK, f)
}

// Delete handles DELETE /folders/:id
func (h *Handler) Delete(c *gin.Context) {
	userID := c.GetInt64("user_id")

	if err := h.service.Delete(c.Request.Context(), c.Param("id"), userID); err != nil {
		if err == ErrFolderNotFound {
			response.Error(c, http.StatusNotFound, "FOLDER_NOT_FOUND", err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to delete folder")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "folder deleted"})
}
