package catalog

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"learning-platform/backend/services"
	"learning-platform/backend/store"
)

func newServices() *services.Services {
	return services.New(store.NewMemoryStore(), services.Defaults{PassMarkPercentage: 70, EnforcePassMark: true},
		slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestLoad(t *testing.T) {
	cat, err := Load("testdata/catalog.yaml")
	require.NoError(t, err)

	require.Len(t, cat.QuizSets, 1)
	assert.Len(t, cat.QuizSets[0].Questions, 2)
	assert.Equal(t, 1, cat.QuizSets[0].Questions[0].Answer)
	require.Len(t, cat.Courses, 1)
	assert.Len(t, cat.Courses[0].Lessons, 3)
	assert.Equal(t, "Stoic basics", cat.Courses[0].Lessons[1].Quiz)
	require.Len(t, cat.Offerings, 1)
	assert.Equal(t, int64(4500), cat.Offerings[0].PriceCents)
}

func TestLoad_SchemaViolations(t *testing.T) {
	_, err := Load("testdata/invalid.yaml")
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.GreaterOrEqual(t, len(verr.Problems), 2)
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr bool
	}{
		{"empty", "", false},
		{"one option", "quiz_sets:\n  - title: q\n    questions:\n      - question: x\n        options: [a]\n        answer: 0\n", true},
		{"negative answer", "quiz_sets:\n  - title: q\n    questions:\n      - question: x\n        options: [a, b]\n        answer: -1\n", true},
		{"bad yaml", "courses: [", true},
		{"course only", "courses:\n  - title: c\n", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestImport_Idempotent(t *testing.T) {
	ctx := context.Background()
	svc := newServices()
	cat, err := Load("testdata/catalog.yaml")
	require.NoError(t, err)

	res, err := Import(ctx, svc, cat)
	require.NoError(t, err)
	assert.Equal(t, Result{QuizSetsCreated: 1, CoursesCreated: 1, LessonsCreated: 3, OfferingsCreated: 1}, res)

	courses, err := svc.Courses.ListCourses(ctx)
	require.NoError(t, err)
	require.Len(t, courses, 1)
	lessons := courses[0].Lessons
	require.Len(t, lessons, 3)
	assert.Equal(t, 1, lessons[0].SequenceOrder)
	assert.Equal(t, 3, lessons[2].SequenceOrder)
	require.NotNil(t, lessons[1].QuizSetID)

	res, err = Import(ctx, svc, cat)
	require.NoError(t, err)
	assert.Equal(t, Result{CoursesSkipped: 1}, res)

	courses, err = svc.Courses.ListCourses(ctx)
	require.NoError(t, err)
	assert.Len(t, courses, 1)
}

func TestImport_UnknownQuiz(t *testing.T) {
	cat := &Catalog{Courses: []Course{{Title: "c", Lessons: []Lesson{{Title: "l", Quiz: "missing"}}}}}

	_, err := Import(context.Background(), newServices(), cat)
	assert.ErrorContains(t, err, "unknown quiz")
}

func TestImport_InvalidAnswerIndex(t *testing.T) {
	cat := &Catalog{QuizSets: []QuizSet{{Title: "q", Questions: []Question{{Question: "x", Options: []string{"a", "b"}, Answer: 5}}}}}

	_, err := Import(context.Background(), newServices(), cat)
	assert.ErrorIs(t, err, services.ErrInvalidQuestion)
}
