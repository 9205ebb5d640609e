package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/course-planner/internal/dto"
	"github.com/noah-isme/course-planner/internal/models"
	"github.com/noah-isme/course-planner/internal/scheduler"
	appErrors "github.com/noah-isme/course-planner/pkg/errors"
	"github.com/noah-isme/course-planner/pkg/export"
	"github.com/noah-isme/course-planner/pkg/storage"
)

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Read(filename string) ([]byte, error)
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type csvRenderer interface {
	Render(records interface{}) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

type downloadSigner interface {
	Issue(owner, path string) (string, storage.Ticket, error)
	Verify(token string) (storage.Ticket, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

// ExportFile is a rendered export ready to be written or served.
type ExportFile struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// TimetableRow is one hourly row of the weekly timetable.
type TimetableRow struct {
	Time      string `csv:"Time"`
	Monday    string `csv:"Monday"`
	Tuesday   string `csv:"Tuesday"`
	Wednesday string `csv:"Wednesday"`
	Thursday  string `csv:"Thursday"`
	Friday    string `csv:"Friday"`
	Saturday  string `csv:"Saturday"`
}

// ChoiceRow is one course of the enrollment list.
type ChoiceRow struct {
	Course string `csv:"course"`
	Codes  string `csv:"codes"`
}

// ExportService renders candidate timetables and keeps published files behind signed links.
type ExportService struct {
	storage fileStorage
	csv     csvRenderer
	pdf     pdfRenderer
	signer  downloadSigner
	logger  *zap.Logger
	cfg     ExportConfig
}

// NewExportService constructs an ExportService. storage and signer are only needed
// for Publish, Resolve and Cleanup.
func NewExportService(store fileStorage, signer downloadSigner, cfg ExportConfig, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	if csv == nil {
		csv = export.NewCSVExporter(',')
	}
	if pdf == nil {
		pdf = export.NewPDFExporter(28)
	}
	return &ExportService{
		storage: store,
		csv:     csv,
		pdf:     pdf,
		signer:  signer,
		logger:  logger,
		cfg:     cfg,
	}
}

// Render produces the requested rendering of a candidate.
func (s *ExportService) Render(view dto.CandidateView, format models.ExportFormat) (*ExportFile, error) {
	var (
		payload     []byte
		err         error
		contentType string
	)
	switch format {
	case models.ExportFormatCSV:
		payload, err = s.csv.Render(TimetableRows(view.Grid))
		contentType = "text/csv"
	case models.ExportFormatPDF:
		payload, err = s.pdf.Render(TimetableDataset(view.Grid), fmt.Sprintf("Timetable #%d (score %d)", view.Rank, view.Score))
		contentType = "application/pdf"
	case models.ExportFormatChoices:
		payload, err = s.csv.Render(ChoiceRows(view.Choices))
		contentType = "text/csv"
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	return &ExportFile{Filename: buildFilename(view.Rank, format), ContentType: contentType, Payload: payload}, nil
}

// Publish renders a candidate, stores it under the session and returns a signed link.
func (s *ExportService) Publish(sessionID string, view dto.CandidateView, format models.ExportFormat) (*dto.ExportLinkResponse, error) {
	if s.storage == nil || s.signer == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "export storage is not configured")
	}
	file, err := s.Render(view, format)
	if err != nil {
		return nil, err
	}
	relPath, err := s.storage.Save(sessionID+"/"+file.Filename, file.Payload)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store export")
	}
	token, ticket, err := s.signer.Issue(sessionID, relPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign export link")
	}

	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api/v1"
	}
	s.logger.Info("export published",
		zap.String("session_id", sessionID),
		zap.String("path", relPath),
		zap.String("format", string(format)),
	)
	return &dto.ExportLinkResponse{
		Filename:  file.Filename,
		Format:    string(format),
		URL:       fmt.Sprintf("%s/planner/downloads/%s", prefix, token),
		ExpiresAt: ticket.ExpiresAt.UTC(),
	}, nil
}

// Resolve checks a download token and loads the file it grants.
func (s *ExportService) Resolve(token string) (*ExportFile, error) {
	if s.storage == nil || s.signer == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "download not found")
	}
	ticket, err := s.signer.Verify(token)
	if err != nil {
		if errors.Is(err, storage.ErrExpiredTicket) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "download link expired")
		}
		return nil, appErrors.Clone(appErrors.ErrNotFound, "download not found")
	}
	payload, err := s.storage.Read(ticket.Path)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "download not found")
	}
	name := ticket.Path
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		name = name[idx+1:]
	}
	return &ExportFile{Filename: name, ContentType: contentTypeFor(name), Payload: payload}, nil
}

// Cleanup removes files older than ttl (defaults to configured ResultTTL when ttl <= 0).
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if s.storage == nil {
		return nil, nil
	}
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	return s.storage.CleanupOlderThan(ttl)
}

// RunRetention deletes expired exports every interval until ctx is done.
func (s *ExportService) RunRetention(ctx context.Context, interval time.Duration) {
	if s.storage == nil {
		return
	}
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := s.Cleanup(0)
			if err != nil {
				s.logger.Warn("export retention failed", zap.Error(err))
				continue
			}
			if len(removed) > 0 {
				s.logger.Info("expired exports removed", zap.Int("count", len(removed)))
			}
		}
	}
}

// TimetableRows lays the grid out as one row per hourly slot.
func TimetableRows(grid scheduler.Grid) []TimetableRow {
	rows := make([]TimetableRow, 0, scheduler.SlotCount)
	for slot := 0; slot < scheduler.SlotCount; slot++ {
		rows = append(rows, TimetableRow{
			Time:      scheduler.SlotLabel(slot),
			Monday:    grid.Cell(models.Monday, slot),
			Tuesday:   grid.Cell(models.Tuesday, slot),
			Wednesday: grid.Cell(models.Wednesday, slot),
			Thursday:  grid.Cell(models.Thursday, slot),
			Friday:    grid.Cell(models.Friday, slot),
			Saturday:  grid.Cell(models.Saturday, slot),
		})
	}
	return rows
}

// TimetableDataset is the tabular form of the grid used by the PDF renderer.
func TimetableDataset(grid scheduler.Grid) export.Dataset {
	headers := []string{"Time"}
	for _, day := range models.Weekdays() {
		headers = append(headers, day.String())
	}
	rows := make([]map[string]string, 0, scheduler.SlotCount)
	for slot := 0; slot < scheduler.SlotCount; slot++ {
		row := map[string]string{"Time": scheduler.SlotLabel(slot)}
		for _, day := range models.Weekdays() {
			row[day.String()] = grid.Cell(day, slot)
		}
		rows = append(rows, row)
	}
	return export.Dataset{Headers: headers, Rows: rows}
}

// ChoiceRows flattens the enrollment list. An empty list yields a single blank row so
// the CSV still carries its header.
func ChoiceRows(choices []scheduler.CourseChoice) []ChoiceRow {
	rows := make([]ChoiceRow, 0, len(choices))
	for _, choice := range choices {
		rows = append(rows, ChoiceRow{Course: choice.Course, Codes: choice.CodeList()})
	}
	if len(rows) == 0 {
		rows = append(rows, ChoiceRow{})
	}
	return rows
}

func buildFilename(rank int, format models.ExportFormat) string {
	switch format {
	case models.ExportFormatChoices:
		return fmt.Sprintf("choices-rank-%d.csv", rank)
	default:
		return fmt.Sprintf("timetable-rank-%d.%s", rank, format)
	}
}

func contentTypeFor(name string) string {
	switch {
	case strings.HasSuffix(name, ".pdf"):
		return "application/pdf"
	case strings.HasSuffix(name, ".csv"):
		return "text/csv"
	default:
		return "application/octet-stream"
	}
}
