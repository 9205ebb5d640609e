package service

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/course-planner/internal/dto"
	"github.com/noah-isme/course-planner/internal/models"
	"github.com/noah-isme/course-planner/internal/scheduler"
	appErrors "github.com/noah-isme/course-planner/pkg/errors"
	"github.com/noah-isme/course-planner/pkg/export"
	"github.com/noah-isme/course-planner/pkg/storage"
)

func sampleView(t *testing.T) dto.CandidateView {
	t.Helper()
	section := models.NewSection(models.SectionParams{
		Course: "CSCI3100", Instructor: "Prof. Lyu", LectureCode: "5678", TutorialCode: "5679",
		Meetings: []models.WeeklyInterval{
			{Day: models.Monday, Start: models.NewClockTime(10, 30), End: models.NewClockTime(12, 15)},
			{Day: models.Wednesday, Start: models.NewClockTime(14, 30), End: models.NewClockTime(15, 15)},
		},
	})
	assignment := models.NewAssignment(section)
	grid, err := scheduler.BuildGrid(assignment)
	require.NoError(t, err)
	return dto.CandidateView{
		Rank:     1,
		Score:    -140,
		Sections: assignment.Sections(),
		Choices:  scheduler.BuildChoices(assignment),
		Grid:     grid,
	}
}

func newExportServiceForTest(t *testing.T) (*ExportService, *storage.LocalStorage) {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewDownloadSigner("secret", time.Hour)
	cfg := ExportConfig{APIPrefix: "/api/v1", ResultTTL: time.Hour}
	svc := NewExportService(store, signer, cfg, zap.NewNop(), export.NewCSVExporter(','), export.NewPDFExporter(28))
	return svc, store
}

func TestExportServiceRenderTimetableCSV(t *testing.T) {
	svc, _ := newExportServiceForTest(t)

	file, err := svc.Render(sampleView(t), models.ExportFormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "timetable-rank-1.csv", file.Filename)
	assert.Equal(t, "text/csv", file.ContentType)

	body := string(file.Payload)
	assert.True(t, strings.HasPrefix(body, "Time,Monday,Tuesday,Wednesday,Thursday,Friday,Saturday\n"))
	assert.Contains(t, body, "10:00 - 11:00")
	assert.Contains(t, body, "CSCI3100\n10:30 - 12:15\nProf. Lyu")
	assert.Contains(t, body, "22:00 - 23:00")
}

func TestExportServiceRenderChoices(t *testing.T) {
	svc, _ := newExportServiceForTest(t)

	file, err := svc.Render(sampleView(t), models.ExportFormatChoices)
	require.NoError(t, err)
	assert.Equal(t, "choices-rank-1.csv", file.Filename)
	assert.Equal(t, "course,codes\nCSCI3100,5678/5679\n", string(file.Payload))
}

func TestExportServiceRenderEmptyChoicesKeepsHeader(t *testing.T) {
	svc, _ := newExportServiceForTest(t)

	file, err := svc.Render(dto.CandidateView{Rank: 1, Score: -200}, models.ExportFormatChoices)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(file.Payload), "course,codes\n"))
}

func TestExportServiceRenderPDF(t *testing.T) {
	svc, _ := newExportServiceForTest(t)

	file, err := svc.Render(sampleView(t), models.ExportFormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, strings.HasPrefix(string(file.Payload), "%PDF"))
}

func TestExportServiceRenderRejectsUnknownFormat(t *testing.T) {
	svc, _ := newExportServiceForTest(t)

	_, err := svc.Render(sampleView(t), models.ExportFormat("xlsx"))
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestExportServicePublishAndResolve(t *testing.T) {
	svc, store := newExportServiceForTest(t)

	link, err := svc.Publish("session-1", sampleView(t), models.ExportFormatCSV)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(link.URL, "/api/v1/planner/downloads/"))
	assert.Equal(t, "csv", link.Format)
	assert.True(t, link.ExpiresAt.After(time.Now()))

	info, err := os.Stat(store.Path("session-1/timetable-rank-1.csv"))
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	token := strings.TrimPrefix(link.URL, "/api/v1/planner/downloads/")
	file, err := svc.Resolve(token)
	require.NoError(t, err)
	assert.Equal(t, "timetable-rank-1.csv", file.Filename)
	assert.Equal(t, "text/csv", file.ContentType)
	assert.NotEmpty(t, file.Payload)
}

func TestExportServiceResolveRejectsTamperedToken(t *testing.T) {
	svc, _ := newExportServiceForTest(t)

	link, err := svc.Publish("session-1", sampleView(t), models.ExportFormatPDF)
	require.NoError(t, err)
	token := strings.TrimPrefix(link.URL, "/api/v1/planner/downloads/")

	_, err = svc.Resolve(token + "x")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestExportServiceWithoutStorage(t *testing.T) {
	svc := NewExportService(nil, nil, ExportConfig{}, nil, nil, nil)

	_, err := svc.Render(sampleView(t), models.ExportFormatCSV)
	require.NoError(t, err)

	_, err = svc.Publish("session-1", sampleView(t), models.ExportFormatCSV)
	require.Error(t, err)

	removed, err := svc.Cleanup(0)
	require.NoError(t, err)
	assert.Empty(t, removed)
}

func TestExportServiceCleanup(t *testing.T) {
	svc, store := newExportServiceForTest(t)

	_, err := svc.Publish("session-1", sampleView(t), models.ExportFormatCSV)
	require.NoError(t, err)
	old := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(store.Path("session-1/timetable-rank-1.csv"), old, old))

	removed, err := svc.Cleanup(0)
	require.NoError(t, err)
	assert.Equal(t, []string{"session-1/timetable-rank-1.csv"}, removed)
}
