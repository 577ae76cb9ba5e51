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
	"github.com/olsss/timetable-api/internal/timetable"
	appErrors "github.com/olsss/timetable-api/pkg/errors"
)

type pairingServiceMock struct {
	pairErr   error
	pairsResp *dto.PairsResponse
}

func (m *pairingServiceMock) Pair(context.Context, string, dto.PairRequest) error {
	return m.pairErr
}

func (m *pairingServiceMock) Unpair(context.Context, string, string) error { return m.pairErr }

func (m *pairingServiceMock) Pairs(context.Context, string) (*dto.PairsResponse, error) {
	return m.pairsResp, nil
}

func (m *pairingServiceMock) PairSuggestions(context.Context, string) ([]timetable.SuggestedPair, error) {
	return nil, nil
}

func (m *pairingServiceMock) ExportPairings(context.Context, string) (*dto.PairingsDocument, error) {
	return &dto.PairingsDocument{Pairings: map[string][]string{}}, nil
}

func (m *pairingServiceMock) ImportPairings(context.Context, string, dto.PairingsDocument) error {
	return m.pairErr
}

func TestPairingHandlerCreate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewPairingHandler(&pairingServiceMock{})

	body, _ := json.Marshal(dto.PairRequest{CourseA: "CS 101", CourseB: "CS 101L"})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/sessions/abc/pairs", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: "abc"}}

	h.Create(c)

	require.Equal(t, http.StatusCreated, w.Code)
}

func TestPairingHandlerCreateConflict(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewPairingHandler(&pairingServiceMock{pairErr: appErrors.ErrAlreadyPaired})

	body, _ := json.Marshal(dto.PairRequest{CourseA: "CS 101", CourseB: "MATH 201"})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/sessions/abc/pairs", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: "abc"}}

	h.Create(c)

	require.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "ALREADY_PAIRED")
}

func TestPairingHandlerCreateInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewPairingHandler(&pairingServiceMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/sessions/abc/pairs", bytes.NewReader([]byte("not json")))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: "abc"}}

	h.Create(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPairingHandlerList(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewPairingHandler(&pairingServiceMock{pairsResp: &dto.PairsResponse{
		Groups: [][]string{{"CS 101", "CS 101L"}},
	}})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/sessions/abc/pairs", nil)
	c.Params = gin.Params{{Key: "id", Value: "abc"}}

	h.List(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "CS 101L")
}
