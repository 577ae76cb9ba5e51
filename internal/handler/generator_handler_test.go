package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olsss/timetable-api/internal/dto"
	"github.com/olsss/timetable-api/internal/models"
	appErrors "github.com/olsss/timetable-api/pkg/errors"
)

type generatorServiceMock struct {
	resp *dto.GenerateResponse
	err  error
}

func (m *generatorServiceMock) Generate(context.Context, string, dto.GenerateRequest) (*dto.GenerateResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.resp, nil
}

type exportServiceMock struct {
	csv []byte
	pdf []byte
	err error
}

func (m *exportServiceMock) SelectionsCSV(context.Context, string) ([]byte, error) {
	return m.csv, m.err
}

func (m *exportServiceMock) CombinationPDF(context.Context, string, int) ([]byte, error) {
	return m.pdf, m.err
}

func TestGeneratorHandlerGenerate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewGeneratorHandler(&generatorServiceMock{resp: &dto.GenerateResponse{
		Count:        1,
		Status:       "1 valid timetables",
		Combinations: []models.WeekScheduleView{{}},
	}}, &exportServiceMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/sessions/abc/generate", nil)
	c.Params = gin.Params{{Key: "id", Value: "abc"}}

	h.Generate(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "1 valid timetables")
}

func TestGeneratorHandlerGenerateWithBounds(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewGeneratorHandler(&generatorServiceMock{resp: &dto.GenerateResponse{Status: "no courses selected"}}, &exportServiceMock{})

	body, _ := json.Marshal(dto.GenerateRequest{MaxCombinations: 10, TimeoutMs: 500})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/sessions/abc/generate", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: "abc"}}

	h.Generate(c)

	require.Equal(t, http.StatusOK, w.Code)
}

func TestGeneratorHandlerGenerateNoCatalog(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewGeneratorHandler(&generatorServiceMock{err: appErrors.ErrPreconditionFailed}, &exportServiceMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/sessions/abc/generate", nil)
	c.Params = gin.Params{{Key: "id", Value: "abc"}}

	h.Generate(c)

	require.Equal(t, http.StatusPreconditionFailed, w.Code)
}

func TestGeneratorHandlerExportCSV(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewGeneratorHandler(&generatorServiceMock{}, &exportServiceMock{csv: []byte("Course Code,Section\n")})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/sessions/abc/export/selections.csv", nil)
	c.Params = gin.Params{{Key: "id", Value: "abc"}}

	h.ExportSelectionsCSV(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "selected_sections.csv")
}

func TestGeneratorHandlerExportPDF(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewGeneratorHandler(&generatorServiceMock{}, &exportServiceMock{pdf: []byte("%PDF-1.4")})

	body, _ := json.Marshal(dto.ExportCombinationRequest{Index: 0})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/sessions/abc/export/combination.pdf", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: "abc"}}

	h.ExportCombinationPDF(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
}
