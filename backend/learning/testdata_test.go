package learning

import (
	"gorm.io/datatypes"

	"learning-platform/backend/models"
)

func uintPtr(v uint) *uint { return &v }
func intPtr(v int) *int    { return &v }

func lessonsFor(courseID uint, n int) []models.Lesson {
	lessons := make([]models.Lesson, 0, n)
	for i := 1; i <= n; i++ {
		lessons = append(lessons, models.Lesson{ID: uint(courseID*100) + uint(i), CourseID: courseID, SequenceOrder: i})
	}
	return lessons
}

func quizWith(id uint, correct ...int) models.QuizSet {
	qs := models.QuizSet{ID: id}
	for i, c := range correct {
		qs.Questions = append(qs.Questions, models.QuizQuestion{
			ID:            uint(i + 1),
			QuizSetID:     id,
			Options:       datatypes.JSONSlice[string]{"a", "b", "c", "d"},
			CorrectAnswer: c,
			Position:      i,
		})
	}
	return qs
}
