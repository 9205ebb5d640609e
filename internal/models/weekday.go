package models

import "strings"

// Weekday identifies one of the six teaching days. Sunday is never scheduled.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

// WeekdayCount is the number of schedulable weekdays.
const WeekdayCount = 6

var weekdayNames = [WeekdayCount]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// Weekdays returns the schedulable days in calendar order.
func Weekdays() []Weekday {
	return []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}
}

// Valid reports whether d is one of the six schedulable days.
func (d Weekday) Valid() bool {
	return d >= Monday && d <= Saturday
}

func (d Weekday) String() string {
	if !d.Valid() {
		return "Unknown"
	}
	return weekdayNames[d]
}

// ParseWeekday accepts full day names and three letter abbreviations, case-insensitively.
func ParseWeekday(raw string) (Weekday, bool) {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == "" {
		return 0, false
	}
	for i, name := range weekdayNames {
		lower := strings.ToLower(name)
		if value == lower || value == lower[:3] {
			return Weekday(i), true
		}
	}
	return 0, false
}

// DayOff is the preferred free day. The zero value matches no weekday.
type DayOff struct {
	day   Weekday
	valid bool
}

// ParseDayOff never fails: empty or unrecognised input yields a DayOff that is never found.
func ParseDayOff(raw string) DayOff {
	day, ok := ParseWeekday(raw)
	return DayOff{day: day, valid: ok}
}

// DayOffOn builds a DayOff for a known weekday.
func DayOffOn(day Weekday) DayOff {
	return DayOff{day: day, valid: day.Valid()}
}

// Day returns the preferred weekday and whether it is recognised.
func (d DayOff) Day() (Weekday, bool) {
	return d.day, d.valid
}

func (d DayOff) String() string {
	if !d.valid {
		return ""
	}
	return d.day.String()
}
