package file

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"rehearse/internal/domain/folder"
	"rehearse/internal/pkg/filepolicy"
	"rehearse/internal/pkg/response"
)

type Handler struct {
	service *Service
	hub     *Hub
}

func NewHandler(service *Service, hub *Hub) *Handler {
	return &Handler{service: service, hub: hub}
}

// Upload handles POST /folders/:id/files — multipart body, single
// field "file".
func (h *Handler) Upload(c *gin.Context) {
	userID := c.GetInt64("user_id")

	fh, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "NO_FILE", "no file provided")
		return
	}

	f, err := h.service.Upload(c.Request.Context(), c.Param("id"), userID, fh)
	if err != nil {
		h.writeUploadError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, f)
}

func (h *Handler) writeUploadError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, filepolicy.ErrFileTooLarge):
		response.Error(c, http.StatusBadRequest, "FILE_TOO_LARGE", err.Error())
	case errors.Is(err, filepolicy.ErrUnsupportedType):
		response.Error(c, http.StatusBadRequest, "UNSUPPORTED_TYPE", err.Error())
	case errors.Is(err, filepolicy.ErrEmptyFile):
		response.Error(c, http.StatusBadRequest, "EMPTY_FILE", err.Error())
	case errors.Is(err, ErrDuplicateName):
		response.Error(c, http.StatusConflict, "DUPLICATE_NAME", err.Error())
	case errors.Is(err, folder.ErrFolderNotFound):
		response.Error(c, http.StatusNotFound, "FOLDER_NOT_FOUND", err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, "STORAGE_ERROR", "upload failed")
	}
}

// List handles GET /folders/:id/files — newest first.
func (h *Handler) List(c *gin.Context) {
	userID := c.GetInt64("user_id")

	files, err := h.service.List(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		if errors.Is(err, folder.ErrFolderNotFound) {
			response.Error(c, http.StatusNotFound, "FOLDER_NOT_FOUND", err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to list files")
		return
	}

	response.Success(c, http.StatusOK, files)
}

// Get handles GET /folders/:id/files/:fileId — metadata only.
func (h *Handler) Get(c *gin.Context) {
	userID := c.GetInt64("user_id")

	f, err := h.service.GetInFolder(c.Request.Context(), c.Param("id"), c.Param("fileId"), userID)
	if err != nil {
		h.writeLookupError(c, err)
		return
	}

	response.Success(c, http.StatusOK, f)
}

// Delete handles DELETE /folders/:id/files/:fileId — storage object
// first, then the metadata row.
func (h *Handler) Delete(c *gin.Context) {
	userID := c.GetInt64("user_id")

	if err := h.service.Delete(c.Request.Context(), c.Param("id"), c.Param("fileId"), userID); err != nil {
		h.writeLookupError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "file deleted"})
}

// Download handles GET /files/:fileId/download — full bytes as an
// attachment under the original filename. The response streams from the
// handle the lookup opened, so the served bytes are the object that was
// resolved, not whatever sits at the path later.
func (h *Handler) Download(c *gin.Context) {
	userID := c.GetInt64("user_id")

	f, src, err := h.service.OpenForRead(c.Request.Context(), c.Param("fileId"), userID)
	if err != nil {
		h.writeLookupError(c, err)
		return
	}
	defer src.Close()

	c.DataFromReader(http.StatusOK, f.Size, f.MimeType, src, map[string]string{
		"Content-Disposition": contentDisposition("attachment", f.OriginalName),
	})
}

// View handles GET /files/:fileId/view — inline disposition with a
// short private cache lifetime for previewable types.
func (h *Handler) View(c *gin.Context) {
	userID := c.GetInt64("user_id")

	f, src, err := h.service.OpenForRead(c.Request.Context(), c.Param("fileId"), userID)
	if err != nil {
		h.writeLookupError(c, err)
		return
	}
	defer src.Close()

	c.Header("Cache-Control", "private, max-age=3600")
	c.DataFromReader(http.StatusOK, f.Size, f.MimeType, src, map[string]string{
		"Content-Disposition": contentDisposition("inline", f.OriginalName),
	})
}

var dispositionEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// contentDisposition quotes the original name so hostile filenames
// cannot break out of the header value.
func contentDisposition(kind, filename string) string {
	return fmt.Sprintf(`%s; filename="%s"`, kind, dispositionEscaper.Replace(filename))
}

func (h *Handler) writeLookupError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, folder.ErrFolderNotFound):
		response.Error(c, http.StatusNotFound, "FOLDER_NOT_FOUND", err.Error())
	case errors.Is(err, ErrFileNotFound):
		response.Error(c, http.StatusNotFound, "FILE_NOT_FOUND", err.Error())
	case errors.Is(err, ErrMissingOnDisk):
		response.Error(c, http.StatusNotFound, "FILE_NOT_FOUND", err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "file operation failed")
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Events handles GET /folders/:id/events — a websocket feed of
// file.added / file.deleted events for one folder.
func (h *Handler) Events(c *gin.Context) {
	userID := c.GetInt64("user_id")
	folderID := c.Param("id")

	// Subscribing requires the same ownership as listing.
	if _, err := h.service.folders.GetByID(c.Request.Context(), folderID, userID); err != nil {
		if errors.Is(err, folder.ErrFolderNotFound) {
			response.Error(c, http.StatusNotFound, "FOLDER_NOT_FOUND", err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to subscribe")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("events: websocket upgrade failed: %v", err)
		return
	}

	h.hub.Register(folderID, conn)
	defer h.hub.Unregister(folderID, conn)

	// The feed is one-way; the read loop only notices the peer going
	// away.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
