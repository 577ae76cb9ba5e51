package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/olsss/timetable-api/internal/dto"
	appErrors "github.com/olsss/timetable-api/pkg/errors"
	"github.com/olsss/timetable-api/pkg/response"
)

type combinationGenerator interface {
	Generate(ctx context.Context, sessionID string, req dto.GenerateRequest) (*dto.GenerateResponse, error)
}

type fileExporter interface {
	SelectionsCSV(ctx context.Context, sessionID string) ([]byte, error)
	CombinationPDF(ctx context.Context, sessionID string, index int) ([]byte, error)
}

// GeneratorHandler exposes generation and export endpoints.
type GeneratorHandler struct {
	generator combinationGenerator
	exporter  fileExporter
}

// NewGeneratorHandler constructs the handler.
func NewGeneratorHandler(generator combinationGenerator, exporter fileExporter) *GeneratorHandler {
	return &GeneratorHandler{generator: generator, exporter: exporter}
}

// Generate godoc
// @Summary Generate all valid timetable combinations
// @Description Enumerates the cartesian product of the selected sections and keeps the conflict-free combinations. Truncated results carry truncated=true. Without selections the run succeeds empty.
// @Tags Generator
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param payload body dto.GenerateRequest false "Optional search bounds"
// @Success 200 {object} response.Envelope
// @Router /sessions/{id}/generate [post]
func (h *GeneratorHandler) Generate(c *gin.Context) {
	var req dto.GenerateRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid generation payload"))
			return
		}
	}
	result, err := h.generator.Generate(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// ExportSelectionsCSV godoc
// @Summary Download the selected sections as CSV
// @Tags Exports
// @Produce text/csv
// @Param id path string true "Session ID"
// @Success 200 {file} file
// @Router /sessions/{id}/export/selections.csv [get]
func (h *GeneratorHandler) ExportSelectionsCSV(c *gin.Context) {
	payload, err := h.exporter.SelectionsCSV(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="selected_sections.csv"`)
	c.Data(http.StatusOK, "text/csv", payload)
}

// ExportCombinationPDF godoc
// @Summary Download one generated combination as a timetable PDF
// @Tags Exports
// @Accept json
// @Produce application/pdf
// @Param id path string true "Session ID"
// @Param payload body dto.ExportCombinationRequest true "Combination index"
// @Success 200 {file} file
// @Router /sessions/{id}/export/combination.pdf [post]
func (h *GeneratorHandler) ExportCombinationPDF(c *gin.Context) {
	var req dto.ExportCombinationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid export payload"))
		return
	}
	payload, err := h.exporter.CombinationPDF(c.Request.Context(), c.Param("id"), req.Index)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="timetable_%d.pdf"`, req.Index+1))
	c.Data(http.StatusOK, "application/pdf", payload)
}
