package reports

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"learning-platform/backend/learning"
	"learning-platform/backend/models"
)

func intPtr(v int) *int { return &v }

func testSnapshot() *learning.Snapshot {
	quizID := uint(9)
	return &learning.Snapshot{
		Courses: []models.Course{{
			ID:    1,
			Title: "Logic",
			Lessons: []models.Lesson{
				{ID: 11, CourseID: 1, Title: "Syllogisms", SequenceOrder: 1, QuizSetID: &quizID},
				{ID: 12, CourseID: 1, Title: "Fallacies", SequenceOrder: 2},
			},
		}},
		Students: []models.Student{
			{ID: 5, Name: "Ann", Email: "ann@example.com"},
			{ID: 6, Name: "Bob", Email: "bob@example.com"},
		},
		QuizSets: []models.QuizSet{{ID: quizID, Questions: make([]models.QuizQuestion, 4)}},
		Progress: []models.StudentProgress{
			{UserID: 5, CourseID: 1, LessonID: 11, Completed: true, TimeSpent: 300, QuizScore: intPtr(3), QuizAttempts: 1},
		},
		Assignments: []models.CourseAssignment{
			{UserID: 5, CourseID: 1},
			{UserID: 6, CourseID: 1, Locked: true},
		},
		LessonLocks: []models.LessonLock{{UserID: 5, CourseID: 1, LessonID: 12}},
	}
}

func TestCourseProgress(t *testing.T) {
	f, err := CourseProgress(testSnapshot(), 1)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(progressSheet)
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, "Student", rows[0][0])
	assert.Equal(t, []string{"Ann", "ann@example.com", "1", "Syllogisms", "yes", "300", "no", "3", "1", "no"}, rows[1])
	assert.Equal(t, "yes", rows[2][9])

	summary, err := f.GetRows(summarySheet)
	require.NoError(t, err)
	require.Len(t, summary, 3)
	assert.Equal(t, "1", summary[1][2])
	assert.Equal(t, "4", summary[1][7])
	assert.Equal(t, "yes", summary[2][8])
}

func TestCourseProgress_UnknownCourse(t *testing.T) {
	_, err := CourseProgress(testSnapshot(), 42)
	assert.Error(t, err)
}
