package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/olsss/timetable-api/internal/dto"
	"github.com/olsss/timetable-api/internal/timetable"
	appErrors "github.com/olsss/timetable-api/pkg/errors"
	"github.com/olsss/timetable-api/pkg/response"
)

type pairingManager interface {
	Pair(ctx context.Context, id string, req dto.PairRequest) error
	Unpair(ctx context.Context, id, course string) error
	Pairs(ctx context.Context, id string) (*dto.PairsResponse, error)
	PairSuggestions(ctx context.Context, id string) ([]timetable.SuggestedPair, error)
	ExportPairings(ctx context.Context, id string) (*dto.PairingsDocument, error)
	ImportPairings(ctx context.Context, id string, doc dto.PairingsDocument) error
}

// PairingHandler exposes course pairing endpoints.
type PairingHandler struct {
	service pairingManager
}

// NewPairingHandler constructs the handler.
func NewPairingHandler(svc pairingManager) *PairingHandler {
	return &PairingHandler{service: svc}
}

// Create godoc
// @Summary Pair two courses so they always schedule together
// @Description Fails with 409 when either course already belongs to a pairing group.
// @Tags Pairings
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param payload body dto.PairRequest true "Pair payload"
// @Success 201 {object} response.Envelope
// @Router /sessions/{id}/pairs [post]
func (h *PairingHandler) Create(c *gin.Context) {
	var req dto.PairRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid pair payload"))
		return
	}
	if err := h.service.Pair(c.Request.Context(), c.Param("id"), req); err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"courseA": req.CourseA, "courseB": req.CourseB})
}

// Delete godoc
// @Summary Dissolve the pairing group a course belongs to
// @Tags Pairings
// @Param id path string true "Session ID"
// @Param code path string true "Course code"
// @Success 204
// @Router /sessions/{id}/pairs/{code} [delete]
func (h *PairingHandler) Delete(c *gin.Context) {
	if err := h.service.Unpair(c.Request.Context(), c.Param("id"), c.Param("code")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// List godoc
// @Summary List pairing groups and current suggestions
// @Tags Pairings
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Router /sessions/{id}/pairs [get]
func (h *PairingHandler) List(c *gin.Context) {
	result, err := h.service.Pairs(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// Suggestions godoc
// @Summary Detected course-pair suggestions
// @Tags Pairings
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Router /sessions/{id}/pairs/suggestions [get]
func (h *PairingHandler) Suggestions(c *gin.Context) {
	result, err := h.service.PairSuggestions(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// Export godoc
// @Summary Export the pairing map as a portable JSON document
// @Tags Pairings
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Router /sessions/{id}/pairings/export [get]
func (h *PairingHandler) Export(c *gin.Context) {
	result, err := h.service.ExportPairings(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// Import godoc
// @Summary Replace the pairing map from a JSON document
// @Tags Pairings
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param payload body dto.PairingsDocument true "Pairings document"
// @Success 200 {object} response.Envelope
// @Router /sessions/{id}/pairings [put]
func (h *PairingHandler) Import(c *gin.Context) {
	var doc dto.PairingsDocument
	if err := c.ShouldBindJSON(&doc); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid pairings document"))
		return
	}
	if err := h.service.ImportPairings(c.Request.Context(), c.Param("id"), doc); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"imported": len(doc.Pairings)})
}
