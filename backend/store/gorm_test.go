package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"learning-platform/backend/models"
)

func newGormStore(t *testing.T) *GormStore {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres container test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	ctr, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("learning"),
		tcpostgres.WithUsername("learning"),
		tcpostgres.WithPassword("learning"),
		tcpostgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	s := NewGormStore(db)
	require.NoError(t, s.Migrate(ctx))
	return s
}

func TestGormStore_Roundtrip(t *testing.T) {
	s := newGormStore(t)
	ctx := context.Background()
	course, student := seedCourse(t, s, 3)

	got, err := s.GetCourse(ctx, course.ID)
	require.NoError(t, err)
	require.Len(t, got.Lessons, 3)
	assert.Equal(t, 1, got.Lessons[0].SequenceOrder)

	err = s.CreateStudent(ctx, &models.Student{Name: "Dup", Email: student.Email, PasswordHash: "x"})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = s.GetLesson(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGormStore_ProgressUpsertAndCreateIfAbsent(t *testing.T) {
	s := newGormStore(t)
	ctx := context.Background()
	course, student := seedCourse(t, s, 2)
	key := models.ProgressKey{UserID: student.ID, CourseID: course.ID, LessonID: course.Lessons[0].ID}

	p := models.NewStudentProgress(key)
	p.TimeSpent = 10
	require.NoError(t, s.SaveProgress(ctx, &p))
	p.TimeSpent = 25
	p.Completed = true
	require.NoError(t, s.SaveProgress(ctx, &p))

	got, err := s.GetProgress(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, int64(25), got.TimeSpent)
	assert.True(t, got.Completed)

	fresh := models.NewStudentProgress(key)
	created, err := s.CreateProgressIfAbsent(ctx, &fresh)
	require.NoError(t, err)
	assert.False(t, created)

	next := models.NewStudentProgress(models.ProgressKey{UserID: student.ID, CourseID: course.ID, LessonID: course.Lessons[1].ID})
	created, err = s.CreateProgressIfAbsent(ctx, &next)
	require.NoError(t, err)
	assert.True(t, created)
}

func TestGormStore_LocksAndSettings(t *testing.T) {
	s := newGormStore(t)
	ctx := context.Background()
	course, student := seedCourse(t, s, 1)
	key := models.ProgressKey{UserID: student.ID, CourseID: course.ID, LessonID: course.Lessons[0].ID}

	locked, err := s.ToggleAssignmentLock(ctx, student.ID, course.ID)
	require.NoError(t, err)
	assert.True(t, locked)

	require.NoError(t, s.LockLesson(ctx, key))
	require.NoError(t, s.LockLesson(ctx, key))
	isLocked, err := s.IsLessonLocked(ctx, key)
	require.NoError(t, err)
	assert.True(t, isLocked)
	require.NoError(t, s.UnlockLesson(ctx, key))

	_, err = s.GetQuizSettings(ctx)
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, s.SaveQuizSettings(ctx, &models.QuizSettings{PassMarkPercentage: 55, EnforcePassMark: true}))
	require.NoError(t, s.SaveQuizSettings(ctx, &models.QuizSettings{PassMarkPercentage: 65, EnforcePassMark: false}))
	settings, err := s.GetQuizSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 65, settings.PassMarkPercentage)
	assert.False(t, settings.EnforcePassMark)
}

func TestGormStore_LessonOrderUnique(t *testing.T) {
	checkLessonOrders(t, newGormStore(t))
}

func TestGormStore_InactiveOffering(t *testing.T) {
	checkInactiveOffering(t, newGormStore(t))
}
