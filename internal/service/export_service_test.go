package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/olsss/timetable-api/internal/dto"
	"github.com/olsss/timetable-api/pkg/config"
)

func TestSelectionsCSVExport(t *testing.T) {
	sessions := newSessionServiceForTest(t, nil, time.Hour)
	id := createWithCatalog(t, sessions)

	_, err := sessions.SetSelection(context.Background(), id, "HIST 110", dto.SetSelectionRequest{SectionIDs: []string{"L1"}})
	require.NoError(t, err)

	exporter := NewExportService(sessions, nil, nil, zap.NewNop())
	payload, err := exporter.SelectionsCSV(context.Background(), id)
	require.NoError(t, err)

	content := string(payload)
	lines := strings.Split(strings.TrimSpace(content), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Course Code,Section,Title,Day,Start,End,Room,Instructor", lines[0])
	assert.Contains(t, lines[1], "HIST 110,L1,World History,TTh,9:00 AM,10:15 AM")
}

func TestSelectionsCSVEmptySelection(t *testing.T) {
	sessions := newSessionServiceForTest(t, nil, time.Hour)
	id := createWithCatalog(t, sessions)

	exporter := NewExportService(sessions, nil, nil, zap.NewNop())
	payload, err := exporter.SelectionsCSV(context.Background(), id)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(payload)), "\n")
	assert.Len(t, lines, 1)
}

func TestCombinationPDFExport(t *testing.T) {
	sessions := newSessionServiceForTest(t, nil, time.Hour)
	id := createWithCatalog(t, sessions)

	_, err := sessions.SetSelection(context.Background(), id, "HIST 110", dto.SetSelectionRequest{SectionIDs: []string{"L1"}})
	require.NoError(t, err)

	generator := NewGeneratorService(sessions, NewMetricsService(), nil, zap.NewNop(), config.GeneratorConfig{MaxCombinations: 10, Timeout: time.Second})
	result, err := generator.Generate(context.Background(), id, dto.GenerateRequest{})
	require.NoError(t, err)
	require.Equal(t, 1, result.Count)

	exporter := NewExportService(sessions, nil, nil, zap.NewNop())
	payload, err := exporter.CombinationPDF(context.Background(), id, 0)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(payload), "%PDF"))
}

func TestCombinationPDFRequiresGeneration(t *testing.T) {
	sessions := newSessionServiceForTest(t, nil, time.Hour)
	id := createWithCatalog(t, sessions)

	exporter := NewExportService(sessions, nil, nil, zap.NewNop())
	_, err := exporter.CombinationPDF(context.Background(), id, 0)
	require.Error(t, err)
}
