package learning

import "learning-platform/backend/models"

// IsLessonAccessible decides whether the lesson at order can be opened by a student.
//
// An explicit lesson lock always wins. The first lesson has no prerequisite. Any later lesson
// needs the previous lesson completed, except when the previous order cannot be resolved,
// in which case the check fails open.
func IsLessonAccessible(lessons []models.Lesson, progress []models.StudentProgress, locked map[uint]bool, userID, courseID uint, order int) bool {
	lesson, ok := LessonAt(lessons, courseID, order)
	if !ok {
		return false
	}
	if locked[lesson.ID] {
		return false
	}
	if order == 1 {
		return true
	}

	prev, ok := LessonAt(lessons, courseID, order-1)
	if !ok {
		return true
	}
	rec, ok := findProgress(progress, models.ProgressKey{UserID: userID, CourseID: courseID, LessonID: prev.ID})
	return ok && rec.Completed
}

func findProgress(records []models.StudentProgress, key models.ProgressKey) (models.StudentProgress, bool) {
	for _, r := range records {
		if r.Key() == key {
			return r, true
		}
	}
	return models.StudentProgress{}, false
}
