package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/course-planner/internal/catalog"
	"github.com/noah-isme/course-planner/internal/dto"
	"github.com/noah-isme/course-planner/internal/models"
	"github.com/noah-isme/course-planner/internal/scheduler"
	appErrors "github.com/noah-isme/course-planner/pkg/errors"
)

const defaultCandidatePageSize = 20

type scheduleSearcher interface {
	Search(ctx context.Context, catalog models.Catalog, dayOff models.DayOff) (*scheduler.Ranking, scheduler.SearchStats, error)
}

type resultCache interface {
	Key(parts ...string) string
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Purge(ctx context.Context) (int, error)
}

// PlannerConfig governs planner limits and session lifetime.
type PlannerConfig struct {
	DefaultDayOff string
	SessionTTL    time.Duration
	MaxCourses    int
	MaxSections   int
	SearchTimeout time.Duration
	CacheTTL      time.Duration
}

// PlannerService runs schedule searches and keeps their rankings as browsable sessions.
type PlannerService struct {
	engine    scheduleSearcher
	cache     resultCache
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	store     *sessionStore
	cfg       PlannerConfig
}

// NewPlannerService wires planner dependencies. cache and metrics may be nil.
func NewPlannerService(engine scheduleSearcher, cache resultCache, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, cfg PlannerConfig) *PlannerService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if engine == nil {
		engine = scheduler.NewEngine(logger)
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 30 * time.Minute
	}
	if cfg.SearchTimeout <= 0 {
		cfg.SearchTimeout = 10 * time.Second
	}
	return &PlannerService{
		engine:    engine,
		cache:     cache,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		store:     newSessionStore(cfg.SessionTTL),
		cfg:       cfg,
	}
}

type cachedCandidate struct {
	Score    int64            `json:"score"`
	Sections []models.Section `json:"sections"`
}

type cachedResult struct {
	Stats      scheduler.SearchStats `json:"stats"`
	Candidates []cachedCandidate     `json:"candidates"`
}

// Generate validates the catalog, searches it (or reuses a cached ranking) and opens
// a planning session positioned on the best candidate.
func (s *PlannerService) Generate(ctx context.Context, req dto.GenerateRequest) (*dto.SessionResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid planner payload")
	}
	if err := s.checkLimits(req.Courses); err != nil {
		return nil, err
	}
	snapshot, err := catalog.Build(req.Courses)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
	if err := checkGridFit(snapshot); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnprocessable.Code, appErrors.ErrUnprocessable.Status, err.Error())
	}

	dayOffRaw := req.DayOff
	if dayOffRaw == "" {
		dayOffRaw = s.cfg.DefaultDayOff
	}
	dayOff := models.ParseDayOff(dayOffRaw)

	ranking, stats, cached, err := s.rank(ctx, snapshot, dayOff)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	session := &planningSession{
		id:        uuid.NewString(),
		dayOff:    dayOff,
		catalog:   snapshot,
		ranking:   ranking,
		stats:     stats,
		cached:    cached,
		createdAt: now,
	}
	s.store.Save(session)
	s.metrics.SetActiveSessions(s.store.Len())

	s.logger.Info("planner session created",
		zap.String("session_id", session.id),
		zap.String("day_off", dayOff.String()),
		zap.Int("courses", snapshot.Len()),
		zap.Int("sections", snapshot.SectionCount()),
		zap.Int("candidates", ranking.Len()),
		zap.Bool("cached", cached),
	)

	return s.describe(session)
}

// Get returns the session summary including the best candidate.
func (s *PlannerService) Get(ctx context.Context, id string) (*dto.SessionResponse, error) {
	session, err := s.session(id)
	if err != nil {
		return nil, err
	}
	return s.describe(session)
}

// Best returns the lowest-cost candidate, or nil when the search found none.
func (s *PlannerService) Best(ctx context.Context, id string) (*dto.CandidateView, error) {
	session, err := s.session(id)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	best, ok := session.ranking.Best()
	if !ok {
		return nil, nil
	}
	return candidateView(0, best)
}

// Navigate returns the candidate under the cursor and steps the cursor in the given
// direction. A nil response means there was nothing to read.
func (s *PlannerService) Navigate(ctx context.Context, id, direction string) (*dto.NavigationResponse, error) {
	dir, ok := scheduler.ParseDirection(direction)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "direction must be forward or backward")
	}
	session, err := s.session(id)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()

	position := session.ranking.Position()
	candidate, ok := session.ranking.Next(dir)
	if !ok {
		return nil, nil
	}
	view, err := candidateView(position, candidate)
	if err != nil {
		return nil, err
	}
	return &dto.NavigationResponse{Candidate: *view, Next: session.ranking.Position() + 1}, nil
}

// Seek moves the cursor to a 1-based rank and returns the candidate there.
func (s *PlannerService) Seek(ctx context.Context, id string, req dto.CursorRequest) (*dto.CandidateView, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid cursor payload")
	}
	session, err := s.session(id)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()

	if !session.ranking.Seek(req.Rank - 1) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("rank %d is out of range", req.Rank))
	}
	candidate, _ := session.ranking.At(req.Rank - 1)
	return candidateView(req.Rank-1, candidate)
}

// Candidate returns the candidate at a 1-based rank without touching the cursor.
func (s *PlannerService) Candidate(ctx context.Context, id string, rank int) (*dto.CandidateView, error) {
	session, err := s.session(id)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()

	candidate, ok := session.ranking.At(rank - 1)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("rank %d is out of range", rank))
	}
	return candidateView(rank-1, candidate)
}

// Candidates pages through a session's ranking in rank order.
func (s *PlannerService) Candidates(ctx context.Context, id string, query dto.CandidateListQuery) ([]dto.CandidateSummary, *models.Pagination, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid pagination")
	}
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = defaultCandidatePageSize
	}
	session, err := s.session(id)
	if err != nil {
		return nil, nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()

	total := session.ranking.Len()
	pagination := &models.Pagination{Page: query.Page, PageSize: query.Limit, TotalCount: total}
	if query.Page-1 > total/query.Limit {
		return []dto.CandidateSummary{}, pagination, nil
	}
	start := (query.Page - 1) * query.Limit
	end := start + query.Limit
	if end > total {
		end = total
	}
	items := make([]dto.CandidateSummary, 0, end-start)
	for i := start; i < end; i++ {
		candidate, ok := session.ranking.At(i)
		if !ok {
			break
		}
		items = append(items, dto.CandidateSummary{
			Rank:    i + 1,
			Score:   candidate.Score,
			Choices: scheduler.BuildChoices(candidate.Assignment),
		})
	}
	return items, pagination, nil
}

// Delete discards a session.
func (s *PlannerService) Delete(ctx context.Context, id string) error {
	if !s.store.Delete(id) {
		return appErrors.Clone(appErrors.ErrNotFound, "planning session not found")
	}
	s.metrics.SetActiveSessions(s.store.Len())
	s.logger.Info("planner session deleted", zap.String("session_id", id))
	return nil
}

// PurgeCache drops every cached ranking.
func (s *PlannerService) PurgeCache(ctx context.Context) (int, error) {
	if s.cache == nil {
		return 0, nil
	}
	removed, err := s.cache.Purge(ctx)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to purge planner cache")
	}
	return removed, nil
}

// SweepSessions removes expired sessions until ctx is done.
func (s *PlannerService) SweepSessions(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := s.store.Sweep(); removed > 0 {
				s.logger.Debug("expired planner sessions removed", zap.Int("removed", removed))
			}
			s.metrics.SetActiveSessions(s.store.Len())
		}
	}
}

func (s *PlannerService) rank(ctx context.Context, snapshot models.Catalog, dayOff models.DayOff) (*scheduler.Ranking, scheduler.SearchStats, bool, error) {
	var key string
	if s.cache != nil {
		fingerprint, err := Fingerprint(snapshot, dayOff)
		if err != nil {
			return nil, scheduler.SearchStats{}, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fingerprint catalog")
		}
		key = s.cache.Key("result", fingerprint)
		var hit cachedResult
		if ok, err := s.cache.Get(ctx, key, &hit); err == nil && ok {
			s.metrics.ObserveSearch(SearchOutcomeCached, 0, len(hit.Candidates), 0)
			return restoreRanking(hit), hit.Stats, true, nil
		}
	}

	searchCtx, cancel := context.WithTimeout(ctx, s.cfg.SearchTimeout)
	defer cancel()
	started := time.Now()
	ranking, stats, err := s.engine.Search(searchCtx, snapshot, dayOff)
	elapsed := time.Since(started)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			s.metrics.ObserveSearch(SearchOutcomeTimeout, elapsed, 0, stats.Expanded)
			s.logger.Warn("planner search timed out", zap.Duration("timeout", s.cfg.SearchTimeout), zap.Int("expanded", stats.Expanded))
			return nil, stats, false, appErrors.Wrap(err, appErrors.ErrTimeout.Code, appErrors.ErrTimeout.Status, appErrors.ErrTimeout.Message)
		}
		s.metrics.ObserveSearch(SearchOutcomeError, elapsed, 0, stats.Expanded)
		return nil, stats, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "schedule search failed")
	}
	s.metrics.ObserveSearch(SearchOutcomeOK, elapsed, ranking.Len(), stats.Expanded)

	if key != "" {
		_ = s.cache.Set(ctx, key, snapshotRanking(ranking, stats), s.cfg.CacheTTL)
	}
	return ranking, stats, false, nil
}

func (s *PlannerService) checkLimits(courses []catalog.CourseSpec) error {
	if s.cfg.MaxCourses > 0 && len(courses) > s.cfg.MaxCourses {
		return appErrors.Clone(appErrors.ErrTooLarge, fmt.Sprintf("catalog has %d courses; the limit is %d", len(courses), s.cfg.MaxCourses))
	}
	sections := 0
	for _, course := range courses {
		sections += len(course.Sections)
	}
	if s.cfg.MaxSections > 0 && sections > s.cfg.MaxSections {
		return appErrors.Clone(appErrors.ErrTooLarge, fmt.Sprintf("catalog has %d sections; the limit is %d", sections, s.cfg.MaxSections))
	}
	return nil
}

func (s *PlannerService) session(id string) (*planningSession, error) {
	session, ok := s.store.Get(id)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "planning session not found or expired")
	}
	return session, nil
}

func (s *PlannerService) describe(session *planningSession) (*dto.SessionResponse, error) {
	expiresAt := s.store.ExpiresAt(session)

	session.mu.Lock()
	defer session.mu.Unlock()

	resp := &dto.SessionResponse{
		ID:         session.id,
		DayOff:     session.dayOff.String(),
		Courses:    session.catalog.Len(),
		Sections:   session.catalog.SectionCount(),
		Candidates: session.ranking.Len(),
		Cursor:     session.ranking.Position() + 1,
		Cached:     session.cached,
		Stats:      session.stats,
		CreatedAt:  session.createdAt,
		ExpiresAt:  expiresAt.UTC(),
	}
	if best, ok := session.ranking.Best(); ok {
		view, err := candidateView(0, best)
		if err != nil {
			return nil, err
		}
		resp.Best = view
	}
	return resp, nil
}

func candidateView(position int, candidate models.Candidate) (*dto.CandidateView, error) {
	grid, err := scheduler.BuildGrid(candidate.Assignment)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnprocessable.Code, appErrors.ErrUnprocessable.Status, "timetable cannot be rendered")
	}
	return &dto.CandidateView{
		Rank:     position + 1,
		Score:    candidate.Score,
		Sections: candidate.Assignment.Sections(),
		Choices:  scheduler.BuildChoices(candidate.Assignment),
		Grid:     grid,
	}, nil
}

// checkGridFit rejects catalogs containing meetings the timetable grid cannot show.
func checkGridFit(snapshot models.Catalog) error {
	for i := 0; i < snapshot.Len(); i++ {
		course := snapshot.Course(i)
		for _, section := range course.Sections {
			for _, m := range section.Meetings() {
				if _, err := scheduler.CellIndex(m.Day, m.Start); err != nil {
					return fmt.Errorf("%s section %s: %w", course.Name, section.LectureCode(), err)
				}
			}
		}
	}
	return nil
}

// Fingerprint hashes the normalised catalog together with the day off.
func Fingerprint(snapshot models.Catalog, dayOff models.DayOff) (string, error) {
	payload, err := json.Marshal(struct {
		DayOff  string               `json:"dayOff"`
		Courses []catalog.CourseSpec `json:"courses"`
	}{DayOff: dayOff.String(), Courses: catalog.Specs(snapshot)})
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}

func snapshotRanking(ranking *scheduler.Ranking, stats scheduler.SearchStats) cachedResult {
	candidates := ranking.Candidates()
	out := cachedResult{Stats: stats, Candidates: make([]cachedCandidate, 0, len(candidates))}
	for _, c := range candidates {
		out.Candidates = append(out.Candidates, cachedCandidate{Score: c.Score, Sections: c.Assignment.Sections()})
	}
	return out
}

func restoreRanking(result cachedResult) *scheduler.Ranking {
	ranking := scheduler.NewRanking()
	for _, c := range result.Candidates {
		ranking.Offer(c.Score, models.NewAssignment(c.Sections...))
	}
	return ranking
}
