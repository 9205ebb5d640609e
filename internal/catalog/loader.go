package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gocarina/gocsv"
	"gopkg.in/yaml.v3"

	"github.com/noah-isme/course-planner/internal/models"
)

// DefaultDelimiter separates CSV catalog columns.
const DefaultDelimiter = ';'

// MeetingRow is one CSV line. Rows sharing the course, instructor and codes belong to
// the same section.
type MeetingRow struct {
	Course       string `csv:"course"`
	Instructor   string `csv:"instructor"`
	LectureCode  string `csv:"lecture_code"`
	LabCode      string `csv:"lab_code"`
	TutorialCode string `csv:"tutorial_code"`
	Day          string `csv:"day"`
	Start        string `csv:"start"`
	End          string `csv:"end"`
}

type sectionRef struct {
	course  int
	section int
}

// GroupRows folds meeting rows into course specs, preserving first-seen order of
// courses and sections.
func GroupRows(rows []MeetingRow) []CourseSpec {
	var specs []CourseSpec
	courseIdx := make(map[string]int)
	sectionIdx := make(map[models.SectionKey]sectionRef)

	for _, row := range rows {
		name := strings.TrimSpace(row.Course)
		ci, ok := courseIdx[name]
		if !ok {
			ci = len(specs)
			courseIdx[name] = ci
			specs = append(specs, CourseSpec{Name: name})
		}
		key := models.SectionKey{
			Course:     name,
			Instructor: strings.TrimSpace(row.Instructor),
			Lecture:    strings.TrimSpace(row.LectureCode),
			Lab:        strings.TrimSpace(row.LabCode),
			Tutorial:   strings.TrimSpace(row.TutorialCode),
		}
		ref, ok := sectionIdx[key]
		if !ok {
			ref = sectionRef{course: ci, section: len(specs[ci].Sections)}
			sectionIdx[key] = ref
			specs[ci].Sections = append(specs[ci].Sections, SectionSpec{
				Instructor:   key.Instructor,
				LectureCode:  key.Lecture,
				LabCode:      key.Lab,
				TutorialCode: key.Tutorial,
			})
		}
		if row.Day == "" && row.Start == "" && row.End == "" {
			continue
		}
		section := &specs[ref.course].Sections[ref.section]
		section.Meetings = append(section.Meetings, MeetingSpec{Day: row.Day, Start: row.Start, End: row.End})
	}
	return specs
}

// LoadCSV reads meeting rows separated by delim and builds a catalog.
func LoadCSV(r io.Reader, delim rune) (models.Catalog, error) {
	reader := csv.NewReader(r)
	reader.Comma = delim
	reader.TrimLeadingSpace = true

	var rows []MeetingRow
	if err := gocsv.UnmarshalCSV(reader, &rows); err != nil {
		return models.Catalog{}, fmt.Errorf("decode catalog csv: %w", err)
	}
	return Build(GroupRows(rows))
}

type yamlDocument struct {
	Courses []CourseSpec `yaml:"courses"`
}

// LoadYAML reads a document of the form `courses: [{name, sections: [...]}]`.
func LoadYAML(r io.Reader) (models.Catalog, error) {
	var doc yamlDocument
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil && err != io.EOF {
		return models.Catalog{}, fmt.Errorf("decode catalog yaml: %w", err)
	}
	return Build(doc.Courses)
}

// LoadFile picks the decoder from the file extension (.csv, .yaml, .yml).
func LoadFile(path string, delim rune) (models.Catalog, error) {
	file, err := os.Open(path)
	if err != nil {
		return models.Catalog{}, fmt.Errorf("open catalog: %w", err)
	}
	defer file.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return LoadCSV(file, delim)
	case ".yaml", ".yml":
		return LoadYAML(file)
	default:
		return models.Catalog{}, fmt.Errorf("%w: unsupported catalog format %q", ErrInvalidCatalog, filepath.Ext(path))
	}
}
