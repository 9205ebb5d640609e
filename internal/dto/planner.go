package dto

import (
	"time"

	"github.com/noah-isme/course-planner/internal/catalog"
	"github.com/noah-isme/course-planner/internal/models"
	"github.com/noah-isme/course-planner/internal/scheduler"
)

// GenerateRequest submits a catalog and a day-off preference for planning. An empty
// course list is valid and yields a single empty timetable.
type GenerateRequest struct {
	DayOff  string               `json:"dayOff" validate:"omitempty,max=16"`
	Courses []catalog.CourseSpec `json:"courses" validate:"omitempty,dive"`
}

// CandidateView is one ranked timetable. Rank is 1-based.
type CandidateView struct {
	Rank     int                      `json:"rank"`
	Score    int64                    `json:"score"`
	Sections []models.Section         `json:"sections"`
	Choices  []scheduler.CourseChoice `json:"choices"`
	Grid     scheduler.Grid           `json:"grid"`
}

// CandidateSummary is the light listing form of a candidate.
type CandidateSummary struct {
	Rank    int                      `json:"rank"`
	Score   int64                    `json:"score"`
	Choices []scheduler.CourseChoice `json:"choices"`
}

// SessionResponse describes a planning session.
type SessionResponse struct {
	ID         string                `json:"id"`
	DayOff     string                `json:"dayOff"`
	Courses    int                   `json:"courses"`
	Sections   int                   `json:"sections"`
	Candidates int                   `json:"candidates"`
	Cursor     int                   `json:"cursor"`
	Cached     bool                  `json:"cached"`
	Stats      scheduler.SearchStats `json:"stats"`
	CreatedAt  time.Time             `json:"createdAt"`
	ExpiresAt  time.Time             `json:"expiresAt"`
	Best       *CandidateView        `json:"best,omitempty"`
}

// NavigationResponse returns the candidate read by a cursor step and the new cursor rank.
type NavigationResponse struct {
	Candidate CandidateView `json:"candidate"`
	Next      int           `json:"next"`
}

// CursorRequest places the cursor on a 1-based rank.
type CursorRequest struct {
	Rank int `json:"rank" validate:"required,min=1"`
}

// CandidateListQuery pages through a session's candidates.
type CandidateListQuery struct {
	Page  int `form:"page" validate:"omitempty,min=1"`
	Limit int `form:"limit" validate:"omitempty,min=1,max=100"`
}

// ExportRequest asks for a persisted export with a signed download link.
type ExportRequest struct {
	Format string `json:"format" validate:"required,oneof=csv pdf choices"`
	Rank   int    `json:"rank" validate:"omitempty,min=1"`
}

// ExportLinkResponse points at a stored export.
type ExportLinkResponse struct {
	Filename  string    `json:"filename"`
	Format    string    `json:"format"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}
