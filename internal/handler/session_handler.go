package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/olsss/timetable-api/internal/dto"
	appErrors "github.com/olsss/timetable-api/pkg/errors"
	"github.com/olsss/timetable-api/pkg/response"
)

type sessionManager interface {
	Create(ctx context.Context) (*dto.SessionResponse, error)
	LoadCatalog(ctx context.Context, id string, file io.Reader) (*dto.LoadCatalogResponse, error)
	Status(ctx context.Context, id string) (*dto.SessionStatusResponse, error)
	ClearData(ctx context.Context, id string) error
	ClearRoster(ctx context.Context, id string) error
}

// SessionHandler exposes session lifecycle endpoints.
type SessionHandler struct {
	service        sessionManager
	maxUploadBytes int64
}

// NewSessionHandler constructs the handler.
func NewSessionHandler(svc sessionManager, maxUploadBytes int64) *SessionHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = 5 * 1024 * 1024
	}
	return &SessionHandler{service: svc, maxUploadBytes: maxUploadBytes}
}

// Create godoc
// @Summary Create a scheduling session
// @Tags Sessions
// @Produce json
// @Success 201 {object} response.Envelope
// @Router /sessions [post]
func (h *SessionHandler) Create(c *gin.Context) {
	result, err := h.service.Create(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// LoadCatalog godoc
// @Summary Upload a catalog CSV into the session
// @Description Replaces any previously loaded catalog. Rows that cannot be normalized are reported, not fatal.
// @Tags Sessions
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Session ID"
// @Param file formData file true "Catalog CSV"
// @Success 200 {object} response.Envelope
// @Router /sessions/{id}/catalog [post]
func (h *SessionHandler) LoadCatalog(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "missing file upload"))
		return
	}
	if fileHeader.Size > h.maxUploadBytes {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "uploaded file exceeds the size limit"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrUnreadableFile.Code, appErrors.ErrUnreadableFile.Status, "could not open uploaded file"))
		return
	}
	defer file.Close()

	result, err := h.service.LoadCatalog(c.Request.Context(), c.Param("id"), file)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// Status godoc
// @Summary Session status summary
// @Tags Sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Router /sessions/{id}/status [get]
func (h *SessionHandler) Status(c *gin.Context) {
	result, err := h.service.Status(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// ClearData godoc
// @Summary Delete the session and everything in it
// @Tags Sessions
// @Param id path string true "Session ID"
// @Success 204
// @Router /sessions/{id} [delete]
func (h *SessionHandler) ClearData(c *gin.Context) {
	if err := h.service.ClearData(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ClearRoster godoc
// @Summary Clear all selected sections, keeping the catalog
// @Tags Sessions
// @Param id path string true "Session ID"
// @Success 204
// @Router /sessions/{id}/roster [delete]
func (h *SessionHandler) ClearRoster(c *gin.Context) {
	if err := h.service.ClearRoster(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
