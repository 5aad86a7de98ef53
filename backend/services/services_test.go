package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"learning-platform/backend/models"
	"learning-platform/backend/store"
)

var errBoom = errors.New("store unavailable")

// flakyStore fails selected writes.
type flakyStore struct {
	*store.MemoryStore
	failSave       bool
	failCreateNext bool
	failStudents   bool
}

func (f *flakyStore) SaveProgress(ctx context.Context, p *models.StudentProgress) error {
	if f.failSave {
		return errBoom
	}
	return f.MemoryStore.SaveProgress(ctx, p)
}

func (f *flakyStore) CreateProgressIfAbsent(ctx context.Context, p *models.StudentProgress) (bool, error) {
	if f.failCreateNext {
		return false, errBoom
	}
	return f.MemoryStore.CreateProgressIfAbsent(ctx, p)
}

func (f *flakyStore) ListStudents(ctx context.Context) ([]models.Student, error) {
	if f.failStudents {
		return nil, errBoom
	}
	return f.MemoryStore.ListStudents(ctx)
}

type fixture struct {
	svc     *Services
	store   *flakyStore
	course  *models.Course
	student *models.Student
	admin   *models.Student
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newFixture builds a course with n lessons assigned to one student.
func newFixture(t *testing.T, n int) *fixture {
	t.Helper()
	ctx := context.Background()
	st := &flakyStore{MemoryStore: store.NewMemoryStore()}
	svc := New(st, Defaults{PassMarkPercentage: 70, EnforcePassMark: true}, quietLogger())

	course, err := svc.Courses.CreateCourse(ctx, "Ethics", "")
	require.NoError(t, err)
	for i := 0; i < n; i++ {
		_, err := svc.Courses.AddLesson(ctx, course.ID, models.Lesson{Title: "lesson"})
		require.NoError(t, err)
	}
	course, err = svc.Courses.GetCourse(ctx, course.ID)
	require.NoError(t, err)

	student, err := svc.Students.Register(ctx, "Ann", "ann@example.com", "secret")
	require.NoError(t, err)
	require.NoError(t, svc.Students.AssignCourse(ctx, student.ID, course.ID))

	admin, err := svc.Students.CreateStudent(ctx, StudentInput{Name: "Root", Email: "root@example.com", Password: "pw", Role: models.RoleAdmin})
	require.NoError(t, err)

	return &fixture{svc: svc, store: st, course: course, student: student, admin: admin}
}

func (f *fixture) lesson(order int) models.Lesson {
	return f.course.Lessons[order-1]
}

func (f *fixture) key(order int) models.ProgressKey {
	return models.ProgressKey{UserID: f.student.ID, CourseID: f.course.ID, LessonID: f.lesson(order).ID}
}

// attachQuiz gives the lesson at order a quiz of n questions whose correct answer is always 0.
func (f *fixture) attachQuiz(t *testing.T, order, n int) *models.QuizSet {
	t.Helper()
	ctx := context.Background()
	var qs []models.QuizQuestion
	for i := 0; i < n; i++ {
		qs = append(qs, models.QuizQuestion{Question: "q", Options: []string{"right", "wrong"}, CorrectAnswer: 0})
	}
	set, err := f.svc.Quizzes.CreateQuizSet(ctx, "quiz", qs)
	require.NoError(t, err)

	lesson := f.lesson(order)
	lesson.QuizSetID = &set.ID
	_, err = f.svc.Courses.UpdateLesson(ctx, f.course.ID, lesson)
	require.NoError(t, err)
	f.course.Lessons[order-1] = lesson
	return set
}

func intPtr(v int) *int { return &v }

func answers(correct, total int) []int {
	out := make([]int, total)
	for i := correct; i < total; i++ {
		out[i] = 1
	}
	return out
}
