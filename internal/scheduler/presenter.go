package scheduler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/noah-isme/course-planner/internal/models"
)

// Grid geometry: one row per hourly slot from FirstHour, one column per weekday.
const (
	FirstHour = 9
	SlotCount = 14
	GridSize  = SlotCount * models.WeekdayCount
)

// ErrOutsideGrid is returned when a meeting starts outside the displayable hours.
var ErrOutsideGrid = errors.New("meeting outside timetable grid")

// Grid is the flattened timetable: cell = slot*6 + weekday.
type Grid [GridSize]string

// Cell returns the text shown for day at the given slot.
func (g Grid) Cell(day models.Weekday, slot int) string {
	idx, err := cellIndex(day, slot)
	if err != nil {
		return ""
	}
	return g[idx]
}

// CellIndex maps a weekday and a start time to its grid cell.
func CellIndex(day models.Weekday, start models.ClockTime) (int, error) {
	return cellIndex(day, start.Hour()-FirstHour)
}

func cellIndex(day models.Weekday, slot int) (int, error) {
	if !day.Valid() {
		return 0, fmt.Errorf("%w: weekday %d", ErrOutsideGrid, int(day))
	}
	if slot < 0 || slot >= SlotCount {
		return 0, fmt.Errorf("%w: %s %02d:00", ErrOutsideGrid, day, slot+FirstHour)
	}
	return slot*models.WeekdayCount + int(day), nil
}

// BuildGrid places every meeting of the assignment in its start-hour cell. Meetings
// sharing a cell are separated by a blank line.
func BuildGrid(a models.Assignment) (Grid, error) {
	var grid Grid
	for _, section := range a.Sections() {
		for _, m := range section.Meetings() {
			idx, err := CellIndex(m.Day, m.Start)
			if err != nil {
				return Grid{}, fmt.Errorf("place %s: %w", section.Course(), err)
			}
			text := fmt.Sprintf("%s\n%s - %s\n%s", section.Course(), m.Start, m.End, section.Instructor())
			if grid[idx] != "" {
				text = grid[idx] + "\n\n" + text
			}
			grid[idx] = text
		}
	}
	return grid, nil
}

// SlotLabel returns the "HH:MM - HH:MM" label for a grid row.
func SlotLabel(slot int) string {
	start := models.NewClockTime(FirstHour+slot, 0)
	end := models.NewClockTime(FirstHour+slot+1, 0)
	return fmt.Sprintf("%s - %s", start, end)
}

// CourseChoice is the enrollment payload for one course.
type CourseChoice struct {
	Course string   `json:"course"`
	Codes  []string `json:"codes"`
}

// BuildChoices lists the registration codes of each member section in assignment order.
func BuildChoices(a models.Assignment) []CourseChoice {
	sections := a.Sections()
	out := make([]CourseChoice, 0, len(sections))
	for _, s := range sections {
		out = append(out, CourseChoice{Course: s.Course(), Codes: s.Codes()})
	}
	return out
}

// CodeList joins the codes with a slash, as shown in exports.
func (c CourseChoice) CodeList() string {
	return strings.Join(c.Codes, "/")
}
