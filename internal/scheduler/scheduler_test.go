package scheduler

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/course-planner/internal/models"
)

func at(h, m int) models.ClockTime { return models.NewClockTime(h, m) }

func meet(day models.Weekday, start, end models.ClockTime) models.WeeklyInterval {
	return models.WeeklyInterval{Day: day, Start: start, End: end}
}

func section(course, code string, meetings ...models.WeeklyInterval) models.Section {
	return models.NewSection(models.SectionParams{
		Course:      course,
		Instructor:  "Dr. " + course,
		LectureCode: code,
		Meetings:    meetings,
	})
}

func search(t *testing.T, courses []models.Course, dayOff models.DayOff) (*Ranking, SearchStats) {
	t.Helper()
	ranking, stats, err := NewEngine(zap.NewNop()).Search(context.Background(), models.NewCatalog(courses), dayOff)
	require.NoError(t, err)
	require.NotNil(t, ranking)
	return ranking, stats
}

func TestAvailableHalfOpen(t *testing.T) {
	occupied := []models.WeeklyInterval{meet(models.Monday, at(9, 0), at(10, 0))}

	assert.True(t, Available(occupied, []models.WeeklyInterval{meet(models.Monday, at(10, 0), at(11, 0))}))
	assert.True(t, Available(occupied, []models.WeeklyInterval{meet(models.Monday, at(8, 0), at(9, 0))}))
	assert.False(t, Available(occupied, []models.WeeklyInterval{meet(models.Monday, at(9, 30), at(10, 30))}))
	assert.False(t, Available(occupied, []models.WeeklyInterval{meet(models.Monday, at(8, 0), at(11, 0))}))
	assert.True(t, Available(nil, []models.WeeklyInterval{meet(models.Monday, at(8, 0), at(11, 0))}))
	assert.True(t, Available(occupied, nil))
}

func TestSearchRejectsConflictingPair(t *testing.T) {
	a1 := section("A", "A1", meet(models.Monday, at(9, 0), at(10, 0)))
	b1 := section("B", "B1", meet(models.Monday, at(9, 30), at(10, 30)))
	b2 := section("B", "B2", meet(models.Tuesday, at(9, 0), at(10, 0)))

	ranking, stats := search(t, []models.Course{
		{Name: "A", Sections: []models.Section{a1}},
		{Name: "B", Sections: []models.Section{b1, b2}},
	}, models.DayOffOn(models.Wednesday))

	require.Equal(t, 1, ranking.Len())
	best, ok := ranking.Best()
	require.True(t, ok)
	assert.Equal(t, int64(-160), best.Score)
	assert.True(t, best.Assignment.Equal(models.NewAssignment(a1, b2)))
	assert.Equal(t, 1, stats.Complete)
	assert.Zero(t, stats.Duplicates)
}

func TestSearchEmptyCatalogYieldsEmptyAssignment(t *testing.T) {
	for _, dayOff := range []models.DayOff{models.DayOffOn(models.Friday), models.ParseDayOff(""), models.ParseDayOff("Sunday")} {
		ranking, _ := search(t, nil, dayOff)
		require.Equal(t, 1, ranking.Len())
		best, _ := ranking.Best()
		assert.Equal(t, int64(-200), best.Score)
		assert.Zero(t, best.Assignment.Len())
	}
}

func TestSearchKeepsDistinctCompatibleSections(t *testing.T) {
	a1 := section("A", "A1", meet(models.Monday, at(9, 0), at(10, 0)))
	b1 := section("B", "B1", meet(models.Tuesday, at(9, 0), at(10, 0)))
	b2 := section("B", "B2", meet(models.Thursday, at(14, 0), at(15, 0)))

	ranking, _ := search(t, []models.Course{
		{Name: "A", Sections: []models.Section{a1}},
		{Name: "B", Sections: []models.Section{b1, b2}},
	}, models.DayOffOn(models.Saturday))

	require.Equal(t, 2, ranking.Len())
	first, _ := ranking.At(0)
	second, _ := ranking.At(1)
	assert.False(t, first.Assignment.Equal(second.Assignment))
	assert.Equal(t, first.Score, second.Score)
	// equal scores keep discovery order
	assert.True(t, first.Assignment.Contains(b1.Key()))
	assert.True(t, second.Assignment.Contains(b2.Key()))
}

func TestSearchDeadEndCourseProducesNothing(t *testing.T) {
	a1 := section("A", "A1", meet(models.Monday, at(9, 0), at(12, 0)))
	b1 := section("B", "B1", meet(models.Monday, at(10, 0), at(11, 0)))

	ranking, stats := search(t, []models.Course{
		{Name: "A", Sections: []models.Section{a1}},
		{Name: "B", Sections: []models.Section{b1}},
	}, models.DayOffOn(models.Friday))

	assert.Zero(t, ranking.Len())
	_, ok := ranking.Best()
	assert.False(t, ok)
	assert.Equal(t, 1, stats.DeadEnds)
}

func TestSearchDropsDuplicateSections(t *testing.T) {
	a1 := section("A", "A1", meet(models.Monday, at(9, 0), at(10, 0)))

	ranking, stats := search(t, []models.Course{
		{Name: "A", Sections: []models.Section{a1, a1}},
	}, models.DayOffOn(models.Friday))

	assert.Equal(t, 1, ranking.Len())
	assert.Equal(t, 2, stats.Complete)
	assert.Equal(t, 1, stats.Duplicates)
}

// gridCatalog builds n courses with k sections each spread across the week.
func gridCatalog(n, k int) []models.Course {
	courses := make([]models.Course, 0, n)
	for c := 0; c < n; c++ {
		name := fmt.Sprintf("C%02d", c)
		sections := make([]models.Section, 0, k)
		for s := 0; s < k; s++ {
			day := models.Weekday((c + s) % models.WeekdayCount)
			start := at(9+(c*2+s)%10, 0)
			second := models.Weekday((c + 2*s + 1) % models.WeekdayCount)
			sections = append(sections, section(name, fmt.Sprintf("%s-%d", name, s),
				meet(day, start, start+90),
				meet(second, at(14, 30), at(16, 0)),
			))
		}
		courses = append(courses, models.Course{Name: name, Sections: sections})
	}
	return courses
}

func TestSearchPropertiesHold(t *testing.T) {
	courses := gridCatalog(5, 4)
	catalog := models.NewCatalog(courses)
	ranking, _ := search(t, courses, models.DayOffOn(models.Wednesday))
	require.NotZero(t, ranking.Len())

	candidates := ranking.Candidates()
	for i, c := range candidates {
		assert.ElementsMatch(t, catalog.Names(), c.Assignment.Courses())

		table := Timetable(c.Assignment)
		for _, day := range models.Weekdays() {
			list := table[day]
			for j := 1; j < len(list); j++ {
				assert.LessOrEqual(t, list[j-1].End, list[j].Start, "overlap on %s", day)
			}
		}

		assert.Equal(t, Score(c.Assignment, models.DayOffOn(models.Wednesday)), c.Score)
		if i > 0 {
			assert.LessOrEqual(t, candidates[i-1].Score, c.Score)
		}
		for j := i + 1; j < len(candidates); j++ {
			assert.False(t, c.Assignment.Equal(candidates[j].Assignment))
		}
	}
}

func TestSearchHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ranking, _, err := NewEngine(nil).Search(ctx, models.NewCatalog(gridCatalog(3, 3)), models.DayOff{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, ranking)
}

func TestScore(t *testing.T) {
	a := section("A", "A1",
		meet(models.Monday, at(9, 0), at(10, 0)),
		meet(models.Monday, at(11, 30), at(12, 30)),
	)
	b := section("B", "B1",
		meet(models.Monday, at(13, 0), at(14, 0)),
		meet(models.Friday, at(9, 0), at(10, 0)),
	)
	assignment := models.NewAssignment(a, b)

	// Monday gaps 90 + 30, Friday single +20.
	assert.Equal(t, int64(-200+120+20), Score(assignment, models.DayOffOn(models.Wednesday)))
	// Friday holds one class: +100 instead of the free-day credit.
	assert.Equal(t, int64(100+120+20), Score(assignment, models.DayOffOn(models.Friday)))
	// Monday as day off: three classes plus its own gaps.
	assert.Equal(t, int64(300+120+20), Score(assignment, models.DayOffOn(models.Monday)))
	assert.Equal(t, int64(-200+120+20), Score(assignment, models.ParseDayOff("someday")))
}

func TestRankingOfferKeepsOrderAndDedups(t *testing.T) {
	r := NewRanking()
	x := models.NewAssignment(section("A", "x"))
	y := models.NewAssignment(section("A", "y"))
	z := models.NewAssignment(section("A", "z"))
	w := models.NewAssignment(section("A", "w"))

	assert.True(t, r.Offer(50, x))
	assert.True(t, r.Offer(-10, y))
	assert.True(t, r.Offer(50, z))
	assert.False(t, r.Offer(0, x))
	assert.True(t, r.Offer(20, w))

	var scores []int64
	for _, c := range r.Candidates() {
		scores = append(scores, c.Score)
	}
	assert.Equal(t, []int64{-10, 20, 50, 50}, scores)
	third, _ := r.At(2)
	assert.True(t, third.Assignment.Equal(x))
}

func TestRankingCursorBoundaries(t *testing.T) {
	r := NewRanking()
	_, ok := r.Next(Forward)
	assert.False(t, ok)
	assert.Equal(t, 0, r.Position())

	for i, code := range []string{"a", "b", "c"} {
		r.Offer(int64(i), models.NewAssignment(section("A", code)))
	}

	c, ok := r.Next(Backward)
	require.True(t, ok)
	assert.Equal(t, int64(0), c.Score)
	assert.Equal(t, 0, r.Position())

	for want := int64(0); want < 3; want++ {
		c, ok = r.Next(Forward)
		require.True(t, ok)
		assert.Equal(t, want, c.Score)
	}
	assert.Equal(t, 2, r.Position())

	c, ok = r.Next(Forward)
	require.True(t, ok)
	assert.Equal(t, int64(2), c.Score)
	assert.Equal(t, 2, r.Position())

	c, ok = r.Next(Backward)
	require.True(t, ok)
	assert.Equal(t, int64(2), c.Score)
	assert.Equal(t, 1, r.Position())

	assert.False(t, r.Seek(3))
	assert.True(t, r.Seek(0))
	assert.Equal(t, 0, r.Position())
}

func TestParseDirection(t *testing.T) {
	d, ok := ParseDirection("backward")
	assert.True(t, ok)
	assert.Equal(t, Backward, d)
	d, ok = ParseDirection("next")
	assert.True(t, ok)
	assert.Equal(t, Forward, d)
	_, ok = ParseDirection("sideways")
	assert.False(t, ok)
}

func TestBuildGrid(t *testing.T) {
	a := section("CSCI3100", "8232",
		meet(models.Monday, at(9, 30), at(10, 15)),
		meet(models.Saturday, at(22, 0), at(22, 45)),
	)
	b := section("ELTU3502", "4980", meet(models.Monday, at(9, 0), at(9, 30)))

	grid, err := BuildGrid(models.NewAssignment(a, b))
	require.NoError(t, err)

	assert.Equal(t, "CSCI3100\n09:30 - 10:15\nDr. CSCI3100\n\nELTU3502\n09:00 - 09:30\nDr. ELTU3502", grid.Cell(models.Monday, 0))
	assert.Equal(t, "CSCI3100\n22:00 - 22:45\nDr. CSCI3100", grid[GridSize-1])
	assert.Empty(t, grid.Cell(models.Tuesday, 0))
}

func TestBuildGridRejectsOutOfRangeHours(t *testing.T) {
	early := section("A", "a", meet(models.Monday, at(8, 0), at(9, 0)))
	_, err := BuildGrid(models.NewAssignment(early))
	assert.ErrorIs(t, err, ErrOutsideGrid)

	late := section("B", "b", meet(models.Friday, at(23, 0), at(23, 30)))
	_, err = BuildGrid(models.NewAssignment(late))
	assert.ErrorIs(t, err, ErrOutsideGrid)

	idx, err := CellIndex(models.Tuesday, at(10, 0))
	require.NoError(t, err)
	assert.Equal(t, 7, idx)
	assert.Equal(t, "10:00 - 11:00", SlotLabel(1))
}

func TestBuildChoices(t *testing.T) {
	a := models.NewSection(models.SectionParams{Course: "A", LectureCode: "L1", LabCode: "LB", TutorialCode: "T1"})
	b := models.NewSection(models.SectionParams{Course: "B", LectureCode: "L2", TutorialCode: "T2"})

	choices := BuildChoices(models.NewAssignment(a, b))
	assert.Equal(t, []CourseChoice{
		{Course: "A", Codes: []string{"L1", "LB", "T1"}},
		{Course: "B", Codes: []string{"L2", "T2"}},
	}, choices)
	assert.Equal(t, "L2/T2", choices[1].CodeList())
}
