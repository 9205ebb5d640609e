package models

// Assignment is a selection of sections holding at most one section per course.
// Values are never mutated in place; With returns a new Assignment.
type Assignment struct {
	sections []Section
}

// NewAssignment builds an assignment from the given sections.
func NewAssignment(sections ...Section) Assignment {
	out := make([]Section, len(sections))
	copy(out, sections)
	return Assignment{sections: out}
}

// With returns a copy of a extended by s.
func (a Assignment) With(s Section) Assignment {
	out := make([]Section, len(a.sections)+1)
	copy(out, a.sections)
	out[len(a.sections)] = s
	return Assignment{sections: out}
}

// Len returns the number of sections.
func (a Assignment) Len() int { return len(a.sections) }

// Sections returns a copy of the member sections in insertion order.
func (a Assignment) Sections() []Section {
	out := make([]Section, len(a.sections))
	copy(out, a.sections)
	return out
}

// Courses lists the covered course names in insertion order.
func (a Assignment) Courses() []string {
	names := make([]string, len(a.sections))
	for i, s := range a.sections {
		names[i] = s.Course()
	}
	return names
}

// Contains reports whether a section with the given identity is a member.
func (a Assignment) Contains(key SectionKey) bool {
	for _, s := range a.sections {
		if s.key == key {
			return true
		}
	}
	return false
}

// Equal compares membership as sets of section identities.
func (a Assignment) Equal(other Assignment) bool {
	if len(a.sections) != len(other.sections) {
		return false
	}
	for _, s := range a.sections {
		if !other.Contains(s.key) {
			return false
		}
	}
	return true
}

// Candidate is a scored, complete assignment held by the ranking store.
type Candidate struct {
	Score      int64      `json:"score"`
	Assignment Assignment `json:"-"`
}
