package models

// Course groups the alternative sections offered for one course name.
type Course struct {
	Name     string
	Sections []Section
}

// Catalog is an ordered, read-only snapshot of courses and their sections.
type Catalog struct {
	courses []Course
}

// NewCatalog copies courses into a snapshot. Entries sharing a name are merged into
// the first occurrence so each course name appears once, in first-seen order.
func NewCatalog(courses []Course) Catalog {
	index := make(map[string]int, len(courses))
	out := make([]Course, 0, len(courses))
	for _, c := range courses {
		sections := make([]Section, len(c.Sections))
		copy(sections, c.Sections)
		if pos, ok := index[c.Name]; ok {
			out[pos].Sections = append(out[pos].Sections, sections...)
			continue
		}
		index[c.Name] = len(out)
		out = append(out, Course{Name: c.Name, Sections: sections})
	}
	return Catalog{courses: out}
}

// Len returns the number of distinct courses.
func (c Catalog) Len() int { return len(c.courses) }

// Course returns the i-th course. The returned sections must not be modified.
func (c Catalog) Course(i int) Course { return c.courses[i] }

// Names lists course names in catalog order.
func (c Catalog) Names() []string {
	names := make([]string, len(c.courses))
	for i, course := range c.courses {
		names[i] = course.Name
	}
	return names
}

// SectionCount returns the total number of sections across all courses.
func (c Catalog) SectionCount() int {
	total := 0
	for _, course := range c.courses {
		total += len(course.Sections)
	}
	return total
}
