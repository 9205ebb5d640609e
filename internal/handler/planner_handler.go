package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/course-planner/internal/dto"
	"github.com/noah-isme/course-planner/internal/middleware"
	"github.com/noah-isme/course-planner/internal/models"
	"github.com/noah-isme/course-planner/internal/service"
	appErrors "github.com/noah-isme/course-planner/pkg/errors"
	"github.com/noah-isme/course-planner/pkg/response"
)

type plannerService interface {
	Generate(ctx context.Context, req dto.GenerateRequest) (*dto.SessionResponse, error)
	Get(ctx context.Context, id string) (*dto.SessionResponse, error)
	Best(ctx context.Context, id string) (*dto.CandidateView, error)
	Navigate(ctx context.Context, id, direction string) (*dto.NavigationResponse, error)
	Seek(ctx context.Context, id string, req dto.CursorRequest) (*dto.CandidateView, error)
	Candidate(ctx context.Context, id string, rank int) (*dto.CandidateView, error)
	Candidates(ctx context.Context, id string, query dto.CandidateListQuery) ([]dto.CandidateSummary, *models.Pagination, error)
	Delete(ctx context.Context, id string) error
	PurgeCache(ctx context.Context) (int, error)
}

type exportService interface {
	Render(view dto.CandidateView, format models.ExportFormat) (*service.ExportFile, error)
	Publish(sessionID string, view dto.CandidateView, format models.ExportFormat) (*dto.ExportLinkResponse, error)
	Resolve(token string) (*service.ExportFile, error)
}

// PlannerHandler exposes timetable planning endpoints.
type PlannerHandler struct {
	planner plannerService
	exports exportService
}

// NewPlannerHandler constructs the handler.
func NewPlannerHandler(planner *service.PlannerService, exports *service.ExportService) *PlannerHandler {
	h := &PlannerHandler{planner: planner}
	if exports != nil {
		h.exports = exports
	}
	return h
}

// Register mounts the planner routes on group.
func (h *PlannerHandler) Register(group *gin.RouterGroup) {
	planner := group.Group("/planner")
	planner.POST("/sessions", h.Generate)
	planner.GET("/sessions/:id", h.Get)
	planner.DELETE("/sessions/:id", h.Delete)
	planner.GET("/sessions/:id/best", h.Best)
	planner.POST("/sessions/:id/navigate", h.Navigate)
	planner.PUT("/sessions/:id/cursor", h.Seek)
	planner.GET("/sessions/:id/candidates", h.Candidates)
	planner.GET("/sessions/:id/candidates/:rank", h.Candidate)
	planner.GET("/sessions/:id/export", h.Export)
	planner.POST("/sessions/:id/exports", h.Publish)
	planner.GET("/downloads/:token", h.Download)
	planner.DELETE("/cache", h.PurgeCache)
}

// Generate godoc
// @Summary Generate ranked timetables for a course catalog
// @Description Searches every conflict-free combination of sections and opens a session positioned on the lowest-cost timetable.
// @Tags Planner
// @Accept json
// @Produce json
// @Param payload body dto.GenerateRequest true "Catalog and preferred day off"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 413 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /planner/sessions [post]
func (h *PlannerHandler) Generate(c *gin.Context) {
	var req dto.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid planner payload"))
		return
	}
	session, err := h.planner.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, session.Cached)
	response.JSON(c, http.StatusCreated, session, nil, middleware.ExtractMeta(c))
}

// Get godoc
// @Summary Get a planning session
// @Tags Planner
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /planner/sessions/{id} [get]
func (h *PlannerHandler) Get(c *gin.Context) {
	session, err := h.planner.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session, nil)
}

// Delete godoc
// @Summary Discard a planning session
// @Tags Planner
// @Param id path string true "Session ID"
// @Success 204
// @Router /planner/sessions/{id} [delete]
func (h *PlannerHandler) Delete(c *gin.Context) {
	if err := h.planner.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Best godoc
// @Summary Best timetable of a session
// @Description Responds 204 when the catalog has no conflict-free timetable.
// @Tags Planner
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Success 204
// @Router /planner/sessions/{id}/best [get]
func (h *PlannerHandler) Best(c *gin.Context) {
	view, err := h.planner.Best(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if view == nil {
		response.NoContent(c)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

// Navigate godoc
// @Summary Read the candidate under the cursor and step
// @Description Returns the candidate at the cursor, then moves the cursor one rank in the given direction. The cursor never leaves the ranking.
// @Tags Planner
// @Produce json
// @Param id path string true "Session ID"
// @Param direction query string false "forward or backward" default(forward)
// @Success 200 {object} response.Envelope
// @Success 204
// @Router /planner/sessions/{id}/navigate [post]
func (h *PlannerHandler) Navigate(c *gin.Context) {
	direction := c.DefaultQuery("direction", "forward")
	step, err := h.planner.Navigate(c.Request.Context(), c.Param("id"), direction)
	if err != nil {
		response.Error(c, err)
		return
	}
	if step == nil {
		response.NoContent(c)
		return
	}
	response.JSON(c, http.StatusOK, step, nil)
}

// Seek godoc
// @Summary Move the cursor to a rank
// @Tags Planner
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param payload body dto.CursorRequest true "1-based rank"
// @Success 200 {object} response.Envelope
// @Router /planner/sessions/{id}/cursor [put]
func (h *PlannerHandler) Seek(c *gin.Context) {
	var req dto.CursorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid cursor payload"))
		return
	}
	view, err := h.planner.Seek(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

// Candidates godoc
// @Summary List ranked candidates
// @Tags Planner
// @Produce json
// @Param id path string true "Session ID"
// @Param page query int false "Page"
// @Param limit query int false "Page size (max 100)"
// @Success 200 {object} response.Envelope
// @Router /planner/sessions/{id}/candidates [get]
func (h *PlannerHandler) Candidates(c *gin.Context) {
	var query dto.CandidateListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query parameters"))
		return
	}
	items, pagination, err := h.planner.Candidates(c.Request.Context(), c.Param("id"), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

// Candidate godoc
// @Summary Get the candidate at a rank
// @Tags Planner
// @Produce json
// @Param id path string true "Session ID"
// @Param rank path int true "1-based rank"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /planner/sessions/{id}/candidates/{rank} [get]
func (h *PlannerHandler) Candidate(c *gin.Context) {
	rank, err := parseRank(c.Param("rank"), 0)
	if err != nil {
		response.Error(c, err)
		return
	}
	view, err := h.planner.Candidate(c.Request.Context(), c.Param("id"), rank)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

// Export godoc
// @Summary Download a candidate timetable
// @Tags Planner
// @Produce text/csv
// @Produce application/pdf
// @Param id path string true "Session ID"
// @Param format query string false "csv, pdf or choices" default(csv)
// @Param rank query int false "1-based rank" default(1)
// @Success 200 {file} file
// @Router /planner/sessions/{id}/export [get]
func (h *PlannerHandler) Export(c *gin.Context) {
	if h.exports == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "export service not configured"))
		return
	}
	format, err := parseFormat(c.DefaultQuery("format", string(models.ExportFormatCSV)))
	if err != nil {
		response.Error(c, err)
		return
	}
	rank, err := parseRank(c.Query("rank"), 1)
	if err != nil {
		response.Error(c, err)
		return
	}
	view, err := h.planner.Candidate(c.Request.Context(), c.Param("id"), rank)
	if err != nil {
		response.Error(c, err)
		return
	}
	file, err := h.exports.Render(*view, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Payload)
}

// Publish godoc
// @Summary Store a candidate export behind a signed link
// @Tags Planner
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param payload body dto.ExportRequest true "Export request"
// @Success 201 {object} response.Envelope
// @Router /planner/sessions/{id}/exports [post]
func (h *PlannerHandler) Publish(c *gin.Context) {
	if h.exports == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "export service not configured"))
		return
	}
	var req dto.ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid export payload"))
		return
	}
	format, err := parseFormat(req.Format)
	if err != nil {
		response.Error(c, err)
		return
	}
	rank := req.Rank
	if rank <= 0 {
		rank = 1
	}
	id := c.Param("id")
	view, err := h.planner.Candidate(c.Request.Context(), id, rank)
	if err != nil {
		response.Error(c, err)
		return
	}
	link, err := h.exports.Publish(id, *view, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, link)
}

// Download godoc
// @Summary Fetch a stored export through its signed token
// @Tags Planner
// @Produce text/csv
// @Produce application/pdf
// @Param token path string true "Download token"
// @Success 200 {file} file
// @Failure 404 {object} response.Envelope
// @Router /planner/downloads/{token} [get]
func (h *PlannerHandler) Download(c *gin.Context) {
	if h.exports == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "download not found"))
		return
	}
	token := strings.TrimSpace(c.Param("token"))
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "token is required"))
		return
	}
	file, err := h.exports.Resolve(token)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Payload)
}

// PurgeCache godoc
// @Summary Drop every cached ranking
// @Tags Planner
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /planner/cache [delete]
func (h *PlannerHandler) PurgeCache(c *gin.Context) {
	removed, err := h.planner.PurgeCache(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"removed": removed}, nil)
}

func parseRank(raw string, fallback int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" && fallback > 0 {
		return fallback, nil
	}
	rank, err := strconv.Atoi(raw)
	if err != nil || rank < 1 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "rank must be a positive integer")
	}
	return rank, nil
}

func parseFormat(raw string) (models.ExportFormat, error) {
	format := models.ExportFormat(strings.ToLower(strings.TrimSpace(raw)))
	if !format.Valid() {
		return "", appErrors.Clone(appErrors.ErrValidation, "format must be csv, pdf or choices")
	}
	return format, nil
}
