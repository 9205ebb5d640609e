package scheduler

import (
	"sort"

	"github.com/noah-isme/course-planner/internal/models"
)

// Direction selects which way the cursor moves after a read.
type Direction int

const (
	Backward Direction = iota
	Forward
)

// ParseDirection maps "forward"/"next" and "backward"/"prev" to a Direction.
func ParseDirection(raw string) (Direction, bool) {
	switch raw {
	case "forward", "next":
		return Forward, true
	case "backward", "prev", "previous":
		return Backward, true
	default:
		return Forward, false
	}
}

func (d Direction) String() string {
	if d == Backward {
		return "backward"
	}
	return "forward"
}

// Ranking keeps distinct candidates in ascending score order and a browsing cursor.
// A Ranking belongs to one planning session and is not safe for concurrent use.
type Ranking struct {
	candidates []models.Candidate
	cursor     int
}

// NewRanking returns an empty ranking with the cursor at position 0.
func NewRanking() *Ranking {
	return &Ranking{}
}

// Offer inserts a candidate unless a set-equal assignment is already held. Ties on
// score keep discovery order. It reports whether the candidate was stored.
func (r *Ranking) Offer(score int64, a models.Assignment) bool {
	for _, existing := range r.candidates {
		if existing.Assignment.Equal(a) {
			return false
		}
	}
	pos := sort.Search(len(r.candidates), func(i int) bool {
		return r.candidates[i].Score > score
	})
	r.candidates = append(r.candidates, models.Candidate{})
	copy(r.candidates[pos+1:], r.candidates[pos:])
	r.candidates[pos] = models.Candidate{Score: score, Assignment: a}
	return true
}

// Len returns the number of stored candidates.
func (r *Ranking) Len() int { return len(r.candidates) }

// Position returns the cursor.
func (r *Ranking) Position() int { return r.cursor }

// Best returns the lowest-cost candidate.
func (r *Ranking) Best() (models.Candidate, bool) {
	return r.At(0)
}

// At returns the candidate at rank i.
func (r *Ranking) At(i int) (models.Candidate, bool) {
	if i < 0 || i >= len(r.candidates) {
		return models.Candidate{}, false
	}
	return r.candidates[i], true
}

// Candidates returns a copy of the stored candidates in rank order.
func (r *Ranking) Candidates() []models.Candidate {
	out := make([]models.Candidate, len(r.candidates))
	copy(out, r.candidates)
	return out
}

// Seek moves the cursor to i. Out-of-range positions are rejected.
func (r *Ranking) Seek(i int) bool {
	if i < 0 || i >= len(r.candidates) {
		return false
	}
	r.cursor = i
	return true
}

// Next returns the candidate under the cursor and then moves the cursor one step in
// the given direction. The cursor stops at either end of the list instead of leaving
// it. Nothing is returned, and the cursor stays, when it is outside the list.
func (r *Ranking) Next(direction Direction) (models.Candidate, bool) {
	c, ok := r.At(r.cursor)
	if !ok {
		return models.Candidate{}, false
	}
	switch direction {
	case Forward:
		if r.cursor < len(r.candidates)-1 {
			r.cursor++
		}
	case Backward:
		if r.cursor > 0 {
			r.cursor--
		}
	}
	return c, true
}
