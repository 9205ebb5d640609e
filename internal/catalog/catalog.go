// Package catalog validates raw course offerings and turns them into the immutable
// snapshot consumed by the scheduler.
package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/noah-isme/course-planner/internal/models"
)

// ErrInvalidCatalog wraps every validation failure reported by Build.
var ErrInvalidCatalog = errors.New("invalid catalog")

// MeetingSpec is one weekly meeting in its textual form.
type MeetingSpec struct {
	Day   string `json:"day" yaml:"day" validate:"required"`
	Start string `json:"start" yaml:"start" validate:"required"`
	End   string `json:"end" yaml:"end" validate:"required"`
}

// SectionSpec describes one offering of a course.
type SectionSpec struct {
	Instructor   string        `json:"instructor" yaml:"instructor"`
	LectureCode  string        `json:"lectureCode" yaml:"lecture_code" validate:"required"`
	LabCode      string        `json:"labCode,omitempty" yaml:"lab_code,omitempty"`
	TutorialCode string        `json:"tutorialCode,omitempty" yaml:"tutorial_code,omitempty"`
	Meetings     []MeetingSpec `json:"meetings" yaml:"meetings" validate:"dive"`
}

// CourseSpec lists the alternative sections of one course.
type CourseSpec struct {
	Name     string        `json:"name" yaml:"name" validate:"required"`
	Sections []SectionSpec `json:"sections" yaml:"sections" validate:"dive"`
}

// Build validates specs and returns a catalog snapshot. Courses sharing a name are
// merged in first-seen order.
func Build(specs []CourseSpec) (models.Catalog, error) {
	courses := make([]models.Course, 0, len(specs))
	for i, spec := range specs {
		name := strings.TrimSpace(spec.Name)
		if name == "" {
			return models.Catalog{}, fmt.Errorf("%w: course %d has no name", ErrInvalidCatalog, i+1)
		}
		course := models.Course{Name: name, Sections: make([]models.Section, 0, len(spec.Sections))}
		for j, section := range spec.Sections {
			built, err := buildSection(name, section)
			if err != nil {
				return models.Catalog{}, fmt.Errorf("%w: %s section %d: %v", ErrInvalidCatalog, name, j+1, err)
			}
			course.Sections = append(course.Sections, built)
		}
		courses = append(courses, course)
	}
	return models.NewCatalog(courses), nil
}

func buildSection(course string, spec SectionSpec) (models.Section, error) {
	lecture := strings.TrimSpace(spec.LectureCode)
	if lecture == "" {
		return models.Section{}, errors.New("lecture code is required")
	}
	meetings := make([]models.WeeklyInterval, 0, len(spec.Meetings))
	for _, m := range spec.Meetings {
		interval, err := parseMeeting(m)
		if err != nil {
			return models.Section{}, err
		}
		meetings = append(meetings, interval)
	}
	return models.NewSection(models.SectionParams{
		Course:       course,
		Instructor:   strings.TrimSpace(spec.Instructor),
		LectureCode:  lecture,
		LabCode:      strings.TrimSpace(spec.LabCode),
		TutorialCode: strings.TrimSpace(spec.TutorialCode),
		Meetings:     meetings,
	}), nil
}

func parseMeeting(m MeetingSpec) (models.WeeklyInterval, error) {
	day, ok := models.ParseWeekday(m.Day)
	if !ok {
		return models.WeeklyInterval{}, fmt.Errorf("unknown weekday %q", m.Day)
	}
	start, err := models.ParseClockTime(strings.TrimSpace(m.Start))
	if err != nil {
		return models.WeeklyInterval{}, err
	}
	end, err := models.ParseClockTime(strings.TrimSpace(m.End))
	if err != nil {
		return models.WeeklyInterval{}, err
	}
	if start >= end {
		return models.WeeklyInterval{}, fmt.Errorf("meeting on %s starts at %s but ends at %s", day, start, end)
	}
	return models.WeeklyInterval{Day: day, Start: start, End: end}, nil
}

// Specs converts a catalog back into its textual form.
func Specs(catalog models.Catalog) []CourseSpec {
	out := make([]CourseSpec, 0, catalog.Len())
	for i := 0; i < catalog.Len(); i++ {
		course := catalog.Course(i)
		spec := CourseSpec{Name: course.Name, Sections: make([]SectionSpec, 0, len(course.Sections))}
		for _, s := range course.Sections {
			section := SectionSpec{
				Instructor:   s.Instructor(),
				LectureCode:  s.LectureCode(),
				LabCode:      s.LabCode(),
				TutorialCode: s.TutorialCode(),
			}
			for _, m := range s.Meetings() {
				section.Meetings = append(section.Meetings, MeetingSpec{Day: m.Day.String(), Start: m.Start.String(), End: m.End.String()})
			}
			spec.Sections = append(spec.Sections, section)
		}
		out = append(out, spec)
	}
	return out
}

// Summary reports the size of a catalog.
type Summary struct {
	Courses   int            `json:"courses"`
	Sections  int            `json:"sections"`
	PerCourse map[string]int `json:"perCourse"`
}

// Summarize counts courses and sections.
func Summarize(catalog models.Catalog) Summary {
	summary := Summary{Courses: catalog.Len(), Sections: catalog.SectionCount(), PerCourse: make(map[string]int, catalog.Len())}
	for i := 0; i < catalog.Len(); i++ {
		course := catalog.Course(i)
		summary.PerCourse[course.Name] = len(course.Sections)
	}
	return summary
}
