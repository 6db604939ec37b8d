package note

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rehearse/internal/domain/folder"
	"rehearse/internal/pkg/response"
	"rehearse/internal/pkg/validator"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Create handles POST /folders/:id/notes
func (h *Handler) Create(c *gin.Context) {
	userID := c.GetInt64("user_id")

	var req CreateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid note data", errs)
		return
	}

	n, err := h.service.Create(c.Request.Context(), c.Param("id"), userID, &req)
	if err != nil {
		writeError(c, err, "failed to create note")
		return
	}

	response.Success(c, http.StatusCreated, n)
}

// List handles GET /folders/:id/notes
func (h *Handler) List(c *gin.Context) {
	userID := c.GetInt64("user_id")

	notes, err := h.service.List(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		writeError(c, err, "failed to list notes")
		return
	}

	response.Success(c, http.StatusOK, notes)
}

// Get handles GET /folders/:id/notes/:noteId
func (h *Handler) Get(c *gin.Context) {
	userID := c.GetInt64("user_id")

	n, err := h.service.Get(c.Request.Context(), c.Param("id"), c.Param("noteId"), userID)
	if err != nil {
		writeError(c, err, "failed to load note")
		return
	}

	response.Success(c, http.StatusOK, n)
}

// Update handles PUT /folders/:id/notes/:noteId
func (h *Handler) Update(c *gin.Context) {
	userID := c.GetInt64("user_id")

	var req UpdateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid note data", errs)
		return
	}

	n, err := h.service.Update(c.Request.Context(), c.Param("id"), c.Param("noteId"), userID, &req)
	if err != nil {
		writeError(c, err, "failed to update note")
		return
	}

	response.Success(c, http.StatusOK, n)
}

// Delete handles DELETE /folders/:id/notes/:noteId
func (h *Handler) Delete(c *gin.Context) {
	userID := c.GetInt64("user_id")

	if err := h.service.Delete(c.Request.Context(), c.Param("id"), c.Param("noteId"), userID); err != nil {
		writeError(c, err, "failed to delete note")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "note deleted"})
}

func writeError(c *gin.Context, err error, fallback string) {
	switch err {
	case folder.ErrFolderNotFound:
		response.Error(c, http.StatusNotFound, "FOLDER_NOT_FOUND", err.Error())
	case ErrNoteNotFound:
		response.Error(c, http.StatusNotFound, "NOTE_NOT_FOUND", err.Error())
	case ErrDuplicateTitle:
		response.Error(c, http.StatusConflict, "DUPLICATE_TITLE", err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", fallback)
	}
}
