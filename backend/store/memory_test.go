package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"learning-platform/backend/models"
)

func seedCourse(t *testing.T, s Store, lessons int) (*models.Course, *models.Student) {
	t.Helper()
	ctx := context.Background()

	course := &models.Course{Title: "Stoicism"}
	for i := 1; i <= lessons; i++ {
		course.Lessons = append(course.Lessons, models.Lesson{Title: "L", SequenceOrder: i})
	}
	require.NoError(t, s.CreateCourse(ctx, course))

	student := &models.Student{Name: "Ann", Email: "ann@example.com", PasswordHash: "x", Role: models.RoleStudent}
	require.NoError(t, s.CreateStudent(ctx, student))
	require.NoError(t, s.AssignCourse(ctx, student.ID, course.ID))
	return course, student
}

func TestMemoryStore_CourseLessonsSorted(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	course := &models.Course{Title: "Logic", Lessons: []models.Lesson{
		{Title: "third", SequenceOrder: 3},
		{Title: "first", SequenceOrder: 1},
		{Title: "second", SequenceOrder: 2},
	}}
	require.NoError(t, s.CreateCourse(ctx, course))

	got, err := s.GetCourse(ctx, course.ID)
	require.NoError(t, err)
	require.Len(t, got.Lessons, 3)
	assert.Equal(t, "first", got.Lessons[0].Title)
	assert.Equal(t, "third", got.Lessons[2].Title)
	for _, l := range got.Lessons {
		assert.Equal(t, course.ID, l.CourseID)
	}
}

func TestMemoryStore_NotFound(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_, err := s.GetCourse(ctx, 42)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.GetProgress(ctx, models.ProgressKey{UserID: 1, CourseID: 1, LessonID: 1})
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.GetQuizSettings(ctx)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.DeleteLesson(ctx, 9, nil), ErrNotFound)
	_, err = s.ToggleAssignmentLock(ctx, 1, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.CreateStudent(ctx, &models.Student{Name: "A", Email: "a@example.com"}))
	err := s.CreateStudent(ctx, &models.Student{Name: "B", Email: "A@example.com"})
	assert.ErrorIs(t, err, ErrConflict)

	got, err := s.GetStudentByEmail(ctx, "A@EXAMPLE.COM")
	require.NoError(t, err)
	assert.Equal(t, "A", got.Name)
}

func TestMemoryStore_SaveProgressUpserts(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	course, student := seedCourse(t, s, 2)
	key := models.ProgressKey{UserID: student.ID, CourseID: course.ID, LessonID: course.Lessons[0].ID}

	p := models.NewStudentProgress(key)
	p.TimeSpent = 30
	require.NoError(t, s.SaveProgress(ctx, &p))
	firstID := p.ID

	p.TimeSpent = 60
	p.Completed = true
	require.NoError(t, s.SaveProgress(ctx, &p))
	assert.Equal(t, firstID, p.ID)

	rows, err := s.ListProgress(ctx, ProgressFilter{UserID: student.ID})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(60), rows[0].TimeSpent)
	assert.True(t, rows[0].Completed)
}

func TestMemoryStore_CreateProgressIfAbsent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	course, student := seedCourse(t, s, 1)
	key := models.ProgressKey{UserID: student.ID, CourseID: course.ID, LessonID: course.Lessons[0].ID}

	p := models.NewStudentProgress(key)
	p.TimeSpent = 99
	created, err := s.CreateProgressIfAbsent(ctx, &p)
	require.NoError(t, err)
	assert.True(t, created)

	again := models.NewStudentProgress(key)
	created, err = s.CreateProgressIfAbsent(ctx, &again)
	require.NoError(t, err)
	assert.False(t, created)

	got, err := s.GetProgress(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, int64(99), got.TimeSpent)
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	course, student := seedCourse(t, s, 1)
	key := models.ProgressKey{UserID: student.ID, CourseID: course.ID, LessonID: course.Lessons[0].ID}

	score := 5
	p := models.NewStudentProgress(key)
	p.QuizScore = &score
	require.NoError(t, s.SaveProgress(ctx, &p))

	got, err := s.GetProgress(ctx, key)
	require.NoError(t, err)
	*got.QuizScore = 10

	again, err := s.GetProgress(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, 5, *again.QuizScore)
}

func TestMemoryStore_ToggleAssignmentLockMirrorsProgress(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	course, student := seedCourse(t, s, 2)

	for _, l := range course.Lessons {
		p := models.NewStudentProgress(models.ProgressKey{UserID: student.ID, CourseID: course.ID, LessonID: l.ID})
		require.NoError(t, s.SaveProgress(ctx, &p))
	}

	locked, err := s.ToggleAssignmentLock(ctx, student.ID, course.ID)
	require.NoError(t, err)
	assert.True(t, locked)

	rows, err := s.ListProgress(ctx, ProgressFilter{UserID: student.ID, CourseID: course.ID})
	require.NoError(t, err)
	for _, r := range rows {
		assert.True(t, r.Locked)
	}

	locked, err = s.ToggleAssignmentLock(ctx, student.ID, course.ID)
	require.NoError(t, err)
	assert.False(t, locked)
}

func TestMemoryStore_LessonLocks(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	course, student := seedCourse(t, s, 2)
	key := models.ProgressKey{UserID: student.ID, CourseID: course.ID, LessonID: course.Lessons[1].ID}

	locked, err := s.IsLessonLocked(ctx, key)
	require.NoError(t, err)
	assert.False(t, locked)

	require.NoError(t, s.LockLesson(ctx, key))
	require.NoError(t, s.LockLesson(ctx, key))
	locks, err := s.ListLessonLocks(ctx, student.ID, course.ID)
	require.NoError(t, err)
	assert.Len(t, locks, 1)

	require.NoError(t, s.UnlockLesson(ctx, key))
	locked, err = s.IsLessonLocked(ctx, key)
	require.NoError(t, err)
	assert.False(t, locked)
}

func TestMemoryStore_DeleteLessonReorders(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	course, student := seedCourse(t, s, 3)
	first, second, third := course.Lessons[0], course.Lessons[1], course.Lessons[2]

	key := models.ProgressKey{UserID: student.ID, CourseID: course.ID, LessonID: second.ID}
	p := models.NewStudentProgress(key)
	require.NoError(t, s.SaveProgress(ctx, &p))
	require.NoError(t, s.LockLesson(ctx, key))

	require.NoError(t, s.DeleteLesson(ctx, second.ID, map[uint]int{third.ID: 2}))

	lessons, err := s.ListLessons(ctx, course.ID)
	require.NoError(t, err)
	require.Len(t, lessons, 2)
	assert.Equal(t, first.ID, lessons[0].ID)
	assert.Equal(t, third.ID, lessons[1].ID)
	assert.Equal(t, 2, lessons[1].SequenceOrder)

	_, err = s.GetProgress(ctx, key)
	assert.ErrorIs(t, err, ErrNotFound)
	locked, err := s.IsLessonLocked(ctx, key)
	require.NoError(t, err)
	assert.False(t, locked)
}

func TestMemoryStore_SetLessonOrdersRejectsForeignLesson(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	course, _ := seedCourse(t, s, 1)
	other := &models.Course{Title: "Other", Lessons: []models.Lesson{{Title: "x", SequenceOrder: 1}}}
	require.NoError(t, s.CreateCourse(ctx, other))

	err := s.SetLessonOrders(ctx, course.ID, map[uint]int{other.Lessons[0].ID: 5})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_DeleteQuizSetDetachesLessons(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	course, _ := seedCourse(t, s, 1)

	set := &models.QuizSet{Title: "Q", Questions: []models.QuizQuestion{
		{Question: "?", Options: []string{"a", "b"}, CorrectAnswer: 1},
	}}
	require.NoError(t, s.CreateQuizSet(ctx, set))

	lesson := course.Lessons[0]
	lesson.QuizSetID = &set.ID
	require.NoError(t, s.UpdateLesson(ctx, &lesson))

	require.NoError(t, s.DeleteQuizSet(ctx, set.ID))

	got, err := s.GetLesson(ctx, lesson.ID)
	require.NoError(t, err)
	assert.Nil(t, got.QuizSetID)
	_, err = s.GetQuestion(ctx, set.Questions[0].ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_UnassignCascades(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	course, student := seedCourse(t, s, 1)
	key := models.ProgressKey{UserID: student.ID, CourseID: course.ID, LessonID: course.Lessons[0].ID}
	p := models.NewStudentProgress(key)
	require.NoError(t, s.SaveProgress(ctx, &p))

	require.NoError(t, s.UnassignCourse(ctx, student.ID, course.ID))

	_, err := s.GetAssignment(ctx, student.ID, course.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	rows, err := s.ListProgress(ctx, ProgressFilter{UserID: student.ID})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestMemoryStore_QuizSettingsSingleton(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	settings := &models.QuizSettings{PassMarkPercentage: 80, EnforcePassMark: false}
	require.NoError(t, s.SaveQuizSettings(ctx, settings))
	require.NoError(t, s.SaveQuizSettings(ctx, &models.QuizSettings{PassMarkPercentage: 60, EnforcePassMark: true}))

	got, err := s.GetQuizSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 60, got.PassMarkPercentage)
	assert.True(t, got.EnforcePassMark)
}

func TestMemoryStore_ListOfferingsActiveOnly(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.CreateOffering(ctx, &models.ServiceOffering{Title: "Tutoring", Active: true}))
	require.NoError(t, s.CreateOffering(ctx, &models.ServiceOffering{Title: "Retired", Active: false}))

	all, err := s.ListOfferings(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	active, err := s.ListOfferings(ctx, true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Tutoring", active[0].Title)
}

// checkLessonOrders covers the per-course order constraint on any Store.
func checkLessonOrders(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()
	course, _ := seedCourse(t, s, 3)
	first, last := course.Lessons[0], course.Lessons[2]

	err := s.CreateLesson(ctx, &models.Lesson{CourseID: course.ID, Title: "dup", SequenceOrder: 2})
	assert.ErrorIs(t, err, ErrConflict)

	// another course may reuse the order
	other := &models.Course{Title: "Other", Lessons: []models.Lesson{{Title: "x", SequenceOrder: 2}}}
	require.NoError(t, s.CreateCourse(ctx, other))

	require.NoError(t, s.SetLessonOrders(ctx, course.ID, map[uint]int{first.ID: 3, last.ID: 1}))
	lessons, err := s.ListLessons(ctx, course.ID)
	require.NoError(t, err)
	require.Len(t, lessons, 3)
	assert.Equal(t, last.ID, lessons[0].ID)
	assert.Equal(t, first.ID, lessons[2].ID)

	require.NoError(t, s.DeleteLesson(ctx, last.ID, map[uint]int{lessons[1].ID: 1, first.ID: 2}))
	lessons, err = s.ListLessons(ctx, course.ID)
	require.NoError(t, err)
	require.Len(t, lessons, 2)
	assert.Equal(t, []int{1, 2}, []int{lessons[0].SequenceOrder, lessons[1].SequenceOrder})
	assert.Equal(t, first.ID, lessons[1].ID)
}

// checkInactiveOffering makes sure Active=false survives a create.
func checkInactiveOffering(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	hidden := &models.ServiceOffering{Title: "hidden", Active: false}
	require.NoError(t, s.CreateOffering(ctx, hidden))
	require.NoError(t, s.CreateOffering(ctx, &models.ServiceOffering{Title: "shown", Active: true}))

	got, err := s.GetOffering(ctx, hidden.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)

	active, err := s.ListOfferings(ctx, true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "shown", active[0].Title)
}

func TestMemoryStore_LessonOrderUnique(t *testing.T) {
	checkLessonOrders(t, NewMemoryStore())
}

func TestMemoryStore_InactiveOffering(t *testing.T) {
	checkInactiveOffering(t, NewMemoryStore())
}
