package scheduler

import "github.com/noah-isme/course-planner/internal/models"

// Available reports whether none of the proposed intervals overlap any occupied one.
// Both lists must already be restricted to the same weekday.
func Available(occupied, proposed []models.WeeklyInterval) bool {
	for _, p := range proposed {
		for _, o := range occupied {
			if p.Overlaps(o) {
				return false
			}
		}
	}
	return true
}

// weekTable holds the intervals occupied on each weekday.
type weekTable [models.WeekdayCount][]models.WeeklyInterval

// admits reports whether every weekday the section meets on is still free.
func (w *weekTable) admits(section models.Section) bool {
	for _, day := range section.Days() {
		if !Available(w[day], section.On(day)) {
			return false
		}
	}
	return true
}

// extend returns a copy of w with the section's meetings added. Only the weekday lists
// the section touches are reallocated; the others are shared read-only.
func (w *weekTable) extend(section models.Section) weekTable {
	next := *w
	for _, day := range section.Days() {
		meetings := section.On(day)
		list := make([]models.WeeklyInterval, 0, len(w[day])+len(meetings))
		list = append(list, w[day]...)
		next[day] = append(list, meetings...)
	}
	return next
}
