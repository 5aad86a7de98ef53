// Package catalog loads course catalogs from YAML and imports them into the platform.
package catalog

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"learning-platform/backend/models"
	"learning-platform/backend/services"
)

//go:embed schema.json
var schemaJSON string

var schema = gojsonschema.NewStringLoader(schemaJSON)

type Question struct {
	Question string   `yaml:"question"`
	Options  []string `yaml:"options"`
	Answer   int      `yaml:"answer"`
}

type QuizSet struct {
	Title     string     `yaml:"title"`
	Questions []Question `yaml:"questions"`
}

type Lesson struct {
	Title           string `yaml:"title"`
	Description     string `yaml:"description"`
	DocumentURL     string `yaml:"document_url"`
	InstructorNotes string `yaml:"instructor_notes"`
	// Quiz names a quiz set by title, from this catalog or already stored.
	Quiz string `yaml:"quiz"`
}

type Course struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Lessons     []Lesson `yaml:"lessons"`
}

type Offering struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	PriceCents  int64  `yaml:"price_cents"`
	ImageURL    string `yaml:"image_url"`
	Active      *bool  `yaml:"active"`
}

type Catalog struct {
	QuizSets  []QuizSet  `yaml:"quiz_sets"`
	Courses   []Course   `yaml:"courses"`
	Offerings []Offering `yaml:"offerings"`
}

// ValidationError lists every schema violation of a catalog document.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid catalog: " + strings.Join(e.Problems, "; ")
}

// Parse validates data against the catalog schema and decodes it.
func Parse(data []byte) (*Catalog, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing catalog yaml: %w", err)
	}
	if doc == nil {
		return &Catalog{}, nil
	}

	res, err := gojsonschema.Validate(schema, gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("validating catalog: %w", err)
	}
	if !res.Valid() {
		verr := &ValidationError{}
		for _, e := range res.Errors() {
			verr.Problems = append(verr.Problems, e.String())
		}
		return nil, verr
	}

	var cat Catalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}
	return &cat, nil
}

// Load reads and parses a catalog file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	return Parse(data)
}

// Result counts what an import created and what it left alone.
type Result struct {
	QuizSetsCreated  int `json:"quiz_sets_created"`
	CoursesCreated   int `json:"courses_created"`
	CoursesSkipped   int `json:"courses_skipped"`
	LessonsCreated   int `json:"lessons_created"`
	OfferingsCreated int `json:"offerings_created"`
}

// Import creates every quiz set, course and offering whose title is not stored yet.
// Existing entries are never modified, so importing the same catalog twice is a no-op.
func Import(ctx context.Context, svc *services.Services, cat *Catalog) (Result, error) {
	var res Result

	sets, err := svc.Quizzes.ListQuizSets(ctx)
	if err != nil {
		return res, err
	}
	quizIDs := make(map[string]uint, len(sets))
	for _, s := range sets {
		quizIDs[s.Title] = s.ID
	}
	for _, qs := range cat.QuizSets {
		if _, ok := quizIDs[qs.Title]; ok {
			continue
		}
		questions := make([]models.QuizQuestion, 0, len(qs.Questions))
		for _, q := range qs.Questions {
			questions = append(questions, models.QuizQuestion{Question: q.Question, Options: q.Options, CorrectAnswer: q.Answer})
		}
		created, err := svc.Quizzes.CreateQuizSet(ctx, qs.Title, questions)
		if err != nil {
			return res, fmt.Errorf("quiz set %q: %w", qs.Title, err)
		}
		quizIDs[qs.Title] = created.ID
		res.QuizSetsCreated++
	}

	courses, err := svc.Courses.ListCourses(ctx)
	if err != nil {
		return res, err
	}
	existing := make(map[string]bool, len(courses))
	for _, c := range courses {
		existing[c.Title] = true
	}
	for _, c := range cat.Courses {
		if existing[c.Title] {
			res.CoursesSkipped++
			continue
		}
		if err := checkQuizRefs(c, quizIDs); err != nil {
			return res, err
		}
		course, err := svc.Courses.CreateCourse(ctx, c.Title, c.Description)
		if err != nil {
			return res, fmt.Errorf("course %q: %w", c.Title, err)
		}
		for _, l := range c.Lessons {
			lesson := models.Lesson{
				Title:           l.Title,
				Description:     l.Description,
				DocumentURL:     l.DocumentURL,
				InstructorNotes: l.InstructorNotes,
			}
			if l.Quiz != "" {
				id := quizIDs[l.Quiz]
				lesson.QuizSetID = &id
			}
			if _, err := svc.Courses.AddLesson(ctx, course.ID, lesson); err != nil {
				return res, fmt.Errorf("lesson %q of course %q: %w", l.Title, c.Title, err)
			}
			res.LessonsCreated++
		}
		existing[c.Title] = true
		res.CoursesCreated++
	}

	offerings, err := svc.Offerings.List(ctx, false)
	if err != nil {
		return res, err
	}
	offered := make(map[string]bool, len(offerings))
	for _, o := range offerings {
		offered[o.Title] = true
	}
	for _, o := range cat.Offerings {
		if offered[o.Title] {
			continue
		}
		active := o.Active == nil || *o.Active
		_, err := svc.Offerings.Create(ctx, models.ServiceOffering{
			Title:       o.Title,
			Description: o.Description,
			PriceCents:  o.PriceCents,
			ImageURL:    o.ImageURL,
			Active:      active,
		})
		if err != nil {
			return res, fmt.Errorf("offering %q: %w", o.Title, err)
		}
		offered[o.Title] = true
		res.OfferingsCreated++
	}

	slog.Info("catalog imported",
		"quiz_sets", res.QuizSetsCreated,
		"courses", res.CoursesCreated,
		"skipped", res.CoursesSkipped,
		"lessons", res.LessonsCreated,
		"offerings", res.OfferingsCreated,
	)
	return res, nil
}

func checkQuizRefs(c Course, quizIDs map[string]uint) error {
	for _, l := range c.Lessons {
		if l.Quiz == "" {
			continue
		}
		if _, ok := quizIDs[l.Quiz]; !ok {
			return fmt.Errorf("lesson %q of course %q: unknown quiz %q", l.Title, c.Title, l.Quiz)
		}
	}
	return nil
}
