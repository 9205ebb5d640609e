package models

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// ClockTime is a time of day in minutes since midnight.
type ClockTime int

// NewClockTime builds a ClockTime from hour and minute.
func NewClockTime(hour, minute int) ClockTime {
	return ClockTime(hour*60 + minute)
}

// ParseClockTime parses an HH:MM string.
func ParseClockTime(raw string) (ClockTime, error) {
	t, err := time.Parse("15:04", raw)
	if err != nil {
		return 0, fmt.Errorf("parse clock time %q: %w", raw, err)
	}
	return NewClockTime(t.Hour(), t.Minute()), nil
}

// Hour returns the hour component.
func (c ClockTime) Hour() int { return int(c) / 60 }

// Minute returns the minute component.
func (c ClockTime) Minute() int { return int(c) % 60 }

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

// WeeklyInterval is one contiguous meeting on a weekday. Start is always before End.
type WeeklyInterval struct {
	Day   Weekday
	Start ClockTime
	End   ClockTime
}

// Overlaps applies the half-open overlap test.
func (w WeeklyInterval) Overlaps(other WeeklyInterval) bool {
	return w.Start < other.End && w.End > other.Start
}

// SectionKey is the structural identity of a section.
type SectionKey struct {
	Course     string
	Instructor string
	Lecture    string
	Lab        string
	Tutorial   string
}

// Section is one schedulable offering of a course. It is immutable once built.
type Section struct {
	key      SectionKey
	meetings [WeekdayCount][]WeeklyInterval
}

// SectionParams carries the raw fields used by NewSection.
type SectionParams struct {
	Course       string
	Instructor   string
	LectureCode  string
	LabCode      string
	TutorialCode string
	Meetings     []WeeklyInterval
}

// NewSection copies the supplied meetings into a new section. Meetings on invalid
// weekdays are dropped; meetings on the same day are kept in start order.
func NewSection(p SectionParams) Section {
	s := Section{key: SectionKey{
		Course:     p.Course,
		Instructor: p.Instructor,
		Lecture:    p.LectureCode,
		Lab:        p.LabCode,
		Tutorial:   p.TutorialCode,
	}}
	for _, m := range p.Meetings {
		if !m.Day.Valid() {
			continue
		}
		s.meetings[m.Day] = append(s.meetings[m.Day], m)
	}
	for day := range s.meetings {
		list := s.meetings[day]
		sort.SliceStable(list, func(i, j int) bool { return list[i].Start < list[j].Start })
	}
	return s
}

func (s Section) Key() SectionKey      { return s.key }
func (s Section) Course() string       { return s.key.Course }
func (s Section) Instructor() string   { return s.key.Instructor }
func (s Section) LectureCode() string  { return s.key.Lecture }
func (s Section) LabCode() string      { return s.key.Lab }
func (s Section) TutorialCode() string { return s.key.Tutorial }

// On returns the meetings held on day. Callers must not modify the returned slice.
func (s Section) On(day Weekday) []WeeklyInterval {
	if !day.Valid() {
		return nil
	}
	return s.meetings[day]
}

// Days lists the weekdays this section occupies in calendar order.
func (s Section) Days() []Weekday {
	var days []Weekday
	for _, day := range Weekdays() {
		if len(s.meetings[day]) > 0 {
			days = append(days, day)
		}
	}
	return days
}

// Meetings returns a copy of every meeting ordered by weekday then start.
func (s Section) Meetings() []WeeklyInterval {
	var out []WeeklyInterval
	for _, day := range Weekdays() {
		out = append(out, s.meetings[day]...)
	}
	return out
}

// Codes returns the registration codes in enrollment order: lecture, lab, tutorial.
func (s Section) Codes() []string {
	codes := []string{s.key.Lecture}
	if s.key.Lab != "" {
		codes = append(codes, s.key.Lab)
	}
	if s.key.Tutorial != "" {
		codes = append(codes, s.key.Tutorial)
	}
	return codes
}

type meetingJSON struct {
	Day   string `json:"day"`
	Start string `json:"start"`
	End   string `json:"end"`
}

type sectionJSON struct {
	Course       string        `json:"course"`
	Instructor   string        `json:"instructor"`
	LectureCode  string        `json:"lectureCode"`
	LabCode      string        `json:"labCode,omitempty"`
	TutorialCode string        `json:"tutorialCode,omitempty"`
	Meetings     []meetingJSON `json:"meetings"`
}

// MarshalJSON encodes the section with human readable days and times.
func (s Section) MarshalJSON() ([]byte, error) {
	payload := sectionJSON{
		Course:       s.key.Course,
		Instructor:   s.key.Instructor,
		LectureCode:  s.key.Lecture,
		LabCode:      s.key.Lab,
		TutorialCode: s.key.Tutorial,
		Meetings:     []meetingJSON{},
	}
	for _, m := range s.Meetings() {
		payload.Meetings = append(payload.Meetings, meetingJSON{Day: m.Day.String(), Start: m.Start.String(), End: m.End.String()})
	}
	return json.Marshal(payload)
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (s *Section) UnmarshalJSON(data []byte) error {
	var payload sectionJSON
	if err := json.Unmarshal(data, &payload); err != nil {
		return err
	}
	params := SectionParams{
		Course:       payload.Course,
		Instructor:   payload.Instructor,
		LectureCode:  payload.LectureCode,
		LabCode:      payload.LabCode,
		TutorialCode: payload.TutorialCode,
	}
	for _, m := range payload.Meetings {
		day, ok := ParseWeekday(m.Day)
		if !ok {
			return fmt.Errorf("unknown weekday %q", m.Day)
		}
		start, err := ParseClockTime(m.Start)
		if err != nil {
			return err
		}
		end, err := ParseClockTime(m.End)
		if err != nil {
			return err
		}
		params.Meetings = append(params.Meetings, WeeklyInterval{Day: day, Start: start, End: end})
	}
	*s = NewSection(params)
	return nil
}
