package learning

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"learning-platform/backend/models"
)

func TestSnapshot(t *testing.T) {
	lessons := lessonsFor(1, 2)
	lessons[1].QuizSetID = uintPtr(5)
	snap := &Snapshot{
		Courses:  []models.Course{{ID: 1, Lessons: lessons}},
		QuizSets: []models.QuizSet{quizWith(5, 0, 1, 2, 3)},
		Progress: []models.StudentProgress{
			{UserID: 1, CourseID: 1, LessonID: lessons[0].ID, Completed: true, TimeSpent: 60},
			{UserID: 1, CourseID: 1, LessonID: lessons[1].ID, QuizScore: intPtr(3)},
		},
		Assignments: []models.CourseAssignment{{UserID: 1, CourseID: 1}, {UserID: 2, CourseID: 1, Locked: true}},
		LessonLocks: []models.LessonLock{{UserID: 2, CourseID: 1, LessonID: lessons[0].ID}},
	}

	assert.True(t, snap.IsLessonAccessible(1, 1, 2))
	assert.False(t, snap.IsLessonAccessible(2, 1, 1))
	assert.Equal(t, QuizTotals{Score: 3, Total: 4}, snap.TotalQuizScore(1, 1))

	assert.False(t, snap.IsCourseLockedForUser(models.Student{ID: 1}, 1))
	assert.True(t, snap.IsCourseLockedForUser(models.Student{ID: 2}, 1))
	assert.False(t, snap.IsCourseLockedForUser(models.Student{ID: 2, Role: models.RoleAdmin}, 1))

	_, ok := snap.QuizSet(nil)
	assert.False(t, ok)
	_, ok = snap.QuizSet(uintPtr(99))
	assert.False(t, ok)

	summaries := snap.Summaries()
	assert.Len(t, summaries, 2)
	assert.Equal(t, 1, summaries[0].CompletedLessons)
	assert.Equal(t, 50.0, summaries[0].CompletionRate)
	assert.Equal(t, int64(60), summaries[0].TimeSpent)
	assert.True(t, summaries[1].Locked)
}
