package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/course-planner/internal/models"
)

const defaultPollEvery = 1024

// SearchStats summarises one search run.
type SearchStats struct {
	Expanded   int           `json:"expanded"`
	DeadEnds   int           `json:"deadEnds"`
	Complete   int           `json:"complete"`
	Duplicates int           `json:"duplicates"`
	Elapsed    time.Duration `json:"elapsed"`
}

// Engine enumerates every conflict-free assignment of one section per course.
type Engine struct {
	logger    *zap.Logger
	pollEvery int
}

// NewEngine constructs an Engine.
func NewEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger, pollEvery: defaultPollEvery}
}

type frame struct {
	next     int
	occupied weekTable
	partial  models.Assignment
}

// Search explores the catalog depth first. Courses are filled in catalog order and
// each course's sections are tried in stored order. Every complete assignment is
// scored and offered to a fresh Ranking. Courses whose sections all conflict with
// the current partial assignment end that branch silently.
//
// The context is checked periodically; on cancellation the partial ranking is
// discarded and the context error returned.
func (e *Engine) Search(ctx context.Context, catalog models.Catalog, dayOff models.DayOff) (*Ranking, SearchStats, error) {
	started := time.Now()
	ranking := NewRanking()
	var stats SearchStats

	stack := []frame{{partial: models.NewAssignment()}}
	for len(stack) > 0 {
		if stats.Expanded%e.pollEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, stats, err
			}
		}
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		stats.Expanded++

		if top.next == catalog.Len() {
			stats.Complete++
			if !ranking.Offer(Score(top.partial, dayOff), top.partial) {
				stats.Duplicates++
			}
			continue
		}

		sections := catalog.Course(top.next).Sections
		pushed := 0
		for i := len(sections) - 1; i >= 0; i-- {
			section := sections[i]
			if !top.occupied.admits(section) {
				continue
			}
			stack = append(stack, frame{
				next:     top.next + 1,
				occupied: top.occupied.extend(section),
				partial:  top.partial.With(section),
			})
			pushed++
		}
		if pushed == 0 {
			stats.DeadEnds++
		}
	}

	stats.Elapsed = time.Since(started)
	e.logger.Debug("schedule search finished",
		zap.Int("courses", catalog.Len()),
		zap.Int("candidates", ranking.Len()),
		zap.Int("expanded", stats.Expanded),
		zap.Int("dead_ends", stats.DeadEnds),
		zap.Int("duplicates", stats.Duplicates),
		zap.Duration("elapsed", stats.Elapsed),
	)
	return ranking, stats, nil
}
