package scheduler

import (
	"sort"

	"github.com/noah-isme/course-planner/internal/models"
)

// Fitness weights. Scores are costs: lower is better.
const (
	DayOffClassCost    int64 = 100
	FreeDayOffCredit   int64 = 200
	SingleClassDayCost int64 = 20
)

// Timetable merges the meetings of every section in a and returns them per weekday,
// sorted by start time.
func Timetable(a models.Assignment) [models.WeekdayCount][]models.WeeklyInterval {
	var table [models.WeekdayCount][]models.WeeklyInterval
	for _, section := range a.Sections() {
		for _, day := range section.Days() {
			table[day] = append(table[day], section.On(day)...)
		}
	}
	for day := range table {
		list := table[day]
		sort.SliceStable(list, func(i, j int) bool { return list[i].Start < list[j].Start })
	}
	return table
}

// Score evaluates a complete assignment against the preferred day off.
//
// Each class on the day off costs DayOffClassCost; a day off with no classes earns
// FreeDayOffCredit. An unrecognised day off never matches and always earns the credit.
// Every weekday, the day off included, adds the idle minutes between consecutive
// classes, and a weekday holding a single class adds SingleClassDayCost.
func Score(a models.Assignment, dayOff models.DayOff) int64 {
	table := Timetable(a)

	var score int64
	if day, ok := dayOff.Day(); ok && len(table[day]) > 0 {
		score += int64(len(table[day])) * DayOffClassCost
	} else {
		score -= FreeDayOffCredit
	}

	for _, day := range models.Weekdays() {
		list := table[day]
		switch {
		case len(list) == 1:
			score += SingleClassDayCost
		case len(list) > 1:
			for i := 1; i < len(list); i++ {
				score += int64(list[i].Start - list[i-1].End)
			}
		}
	}
	return score
}
