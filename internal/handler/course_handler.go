package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/olsss/timetable-api/internal/dto"
	appErrors "github.com/olsss/timetable-api/pkg/errors"
	"github.com/olsss/timetable-api/pkg/response"
)

type courseReader interface {
	Courses(ctx context.Context, id string) ([]dto.CourseInfo, error)
	Sections(ctx context.Context, id, course string) (*dto.SectionListResponse, error)
	SetSelection(ctx context.Context, id, course string, req dto.SetSelectionRequest) (*dto.SelectionResponse, error)
	Selections(ctx context.Context, id string) (*dto.SelectionResponse, error)
}

// CourseHandler exposes catalog browsing and selection endpoints.
type CourseHandler struct {
	service courseReader
}

// NewCourseHandler constructs the handler.
func NewCourseHandler(svc courseReader) *CourseHandler {
	return &CourseHandler{service: svc}
}

// List godoc
// @Summary List the courses of the loaded catalog
// @Tags Courses
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Router /sessions/{id}/courses [get]
func (h *CourseHandler) List(c *gin.Context) {
	result, err := h.service.Courses(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// Sections godoc
// @Summary List the sections of one course
// @Tags Courses
// @Produce json
// @Param id path string true "Session ID"
// @Param code path string true "Course code"
// @Success 200 {object} response.Envelope
// @Router /sessions/{id}/courses/{code}/sections [get]
func (h *CourseHandler) Sections(c *gin.Context) {
	result, err := h.service.Sections(c.Request.Context(), c.Param("id"), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// SetSelection godoc
// @Summary Replace the selected sections of one course
// @Description An empty sectionIds list clears the course and whatever it auto-paired. A paired partner course is selected alongside when compatible sections exist.
// @Tags Courses
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param code path string true "Course code"
// @Param payload body dto.SetSelectionRequest true "Selection payload"
// @Success 200 {object} response.Envelope
// @Router /sessions/{id}/selections/{code} [put]
func (h *CourseHandler) SetSelection(c *gin.Context) {
	var req dto.SetSelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid selection payload"))
		return
	}
	result, err := h.service.SetSelection(c.Request.Context(), c.Param("id"), c.Param("code"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// Selections godoc
// @Summary Current selection state of the session
// @Tags Courses
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Router /sessions/{id}/selections [get]
func (h *CourseHandler) Selections(c *gin.Context) {
	result, err := h.service.Selections(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}
