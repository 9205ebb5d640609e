package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWeekday(t *testing.T) {
	cases := map[string]struct {
		day Weekday
		ok  bool
	}{
		"Monday":     {Monday, true},
		"saturday":   {Saturday, true},
		" WED ":      {Wednesday, true},
		"thu":        {Thursday, true},
		"Sunday":     {0, false},
		"":           {0, false},
		"Funday":     {0, false},
		"Wednesdays": {0, false},
	}
	for raw, want := range cases {
		day, ok := ParseWeekday(raw)
		assert.Equal(t, want.ok, ok, raw)
		if want.ok {
			assert.Equal(t, want.day, day, raw)
		}
	}
}

func TestParseDayOffUnknownNeverMatches(t *testing.T) {
	_, ok := ParseDayOff("").Day()
	assert.False(t, ok)
	_, ok = ParseDayOff("Sunday").Day()
	assert.False(t, ok)

	day, ok := ParseDayOff("friday").Day()
	require.True(t, ok)
	assert.Equal(t, Friday, day)
	assert.Equal(t, "Friday", DayOffOn(Friday).String())
}

func TestClockTime(t *testing.T) {
	c, err := ParseClockTime("09:30")
	require.NoError(t, err)
	assert.Equal(t, 9, c.Hour())
	assert.Equal(t, 30, c.Minute())
	assert.Equal(t, "09:30", c.String())

	_, err = ParseClockTime("9h30")
	assert.Error(t, err)
}

func TestWeeklyIntervalOverlapIsHalfOpen(t *testing.T) {
	a := WeeklyInterval{Day: Monday, Start: NewClockTime(9, 0), End: NewClockTime(10, 0)}
	touching := WeeklyInterval{Day: Monday, Start: NewClockTime(10, 0), End: NewClockTime(11, 0)}
	inside := WeeklyInterval{Day: Monday, Start: NewClockTime(9, 30), End: NewClockTime(9, 45)}

	assert.False(t, a.Overlaps(touching))
	assert.False(t, touching.Overlaps(a))
	assert.True(t, a.Overlaps(inside))
	assert.True(t, inside.Overlaps(a))
}

func TestNewSectionCopiesAndOrdersMeetings(t *testing.T) {
	meetings := []WeeklyInterval{
		{Day: Tuesday, Start: NewClockTime(14, 0), End: NewClockTime(15, 0)},
		{Day: Tuesday, Start: NewClockTime(9, 0), End: NewClockTime(10, 0)},
		{Day: Monday, Start: NewClockTime(11, 0), End: NewClockTime(12, 0)},
	}
	s := NewSection(SectionParams{Course: "CSCI3180", Instructor: "Dr. Pick", LectureCode: "8232", TutorialCode: "8810", Meetings: meetings})
	meetings[0].Start = NewClockTime(7, 0)

	assert.Equal(t, []Weekday{Monday, Tuesday}, s.Days())
	tue := s.On(Tuesday)
	require.Len(t, tue, 2)
	assert.Equal(t, NewClockTime(9, 0), tue[0].Start)
	assert.Equal(t, NewClockTime(14, 0), tue[1].Start)
	assert.Equal(t, []string{"8232", "8810"}, s.Codes())
	assert.Empty(t, s.On(Saturday))
}

func TestSectionJSONRoundTrip(t *testing.T) {
	s := NewSection(SectionParams{
		Course: "ELTU3502", Instructor: "Ms. Leung", LectureCode: "4980", LabCode: "L1",
		Meetings: []WeeklyInterval{{Day: Thursday, Start: NewClockTime(10, 30), End: NewClockTime(12, 15)}},
	})
	raw, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"day":"Thursday"`)

	var decoded Section
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, s.Key(), decoded.Key())
	assert.Equal(t, s.Meetings(), decoded.Meetings())
}

func TestCatalogMergesDuplicateCourses(t *testing.T) {
	a1 := NewSection(SectionParams{Course: "A", LectureCode: "a1"})
	b1 := NewSection(SectionParams{Course: "B", LectureCode: "b1"})
	a2 := NewSection(SectionParams{Course: "A", LectureCode: "a2"})

	input := []Course{{Name: "A", Sections: []Section{a1}}, {Name: "B", Sections: []Section{b1}}, {Name: "A", Sections: []Section{a2}}}
	catalog := NewCatalog(input)
	input[0].Sections[0] = b1

	assert.Equal(t, 2, catalog.Len())
	assert.Equal(t, []string{"A", "B"}, catalog.Names())
	assert.Equal(t, 3, catalog.SectionCount())
	require.Len(t, catalog.Course(0).Sections, 2)
	assert.Equal(t, "a1", catalog.Course(0).Sections[0].LectureCode())
}

func TestAssignmentSetEquality(t *testing.T) {
	a1 := NewSection(SectionParams{Course: "A", LectureCode: "a1"})
	b1 := NewSection(SectionParams{Course: "B", LectureCode: "b1"})
	b2 := NewSection(SectionParams{Course: "B", LectureCode: "b2"})

	left := NewAssignment(a1).With(b1)
	right := NewAssignment(b1, a1)
	other := NewAssignment(a1, b2)

	assert.True(t, left.Equal(right))
	assert.False(t, left.Equal(other))
	assert.False(t, left.Equal(NewAssignment(a1)))
	assert.Equal(t, []string{"A", "B"}, left.Courses())

	base := NewAssignment(a1)
	_ = base.With(b1)
	assert.Equal(t, 1, base.Len())
}
