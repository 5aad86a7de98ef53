package learning

import "learning-platform/backend/models"

// QuizTotals is the quiz score a student holds in a course against the maximum attainable.
type QuizTotals struct {
	Score int `json:"score"`
	Total int `json:"total"`
}

// Percentage returns Score/Total*100. ok is false when the course has no quiz questions.
func (t QuizTotals) Percentage() (pct float64, ok bool) {
	if t.Total == 0 {
		return 0, false
	}
	return float64(t.Score*100) / float64(t.Total), true
}

// StudentProgress filters records down to one student in one course. Order is not meaningful.
func StudentProgress(records []models.StudentProgress, userID, courseID uint) []models.StudentProgress {
	var out []models.StudentProgress
	for _, r := range records {
		if r.UserID == userID && r.CourseID == courseID {
			out = append(out, r)
		}
	}
	return out
}

func CompletedLessonsCount(records []models.StudentProgress, userID, courseID uint) int {
	n := 0
	for _, r := range records {
		if r.UserID == userID && r.CourseID == courseID && r.Completed {
			n++
		}
	}
	return n
}

// TotalTimeSpent sums timeSpent seconds for one student in one course.
func TotalTimeSpent(records []models.StudentProgress, userID, courseID uint) int64 {
	var total int64
	for _, r := range records {
		if r.UserID == userID && r.CourseID == courseID {
			total += r.TimeSpent
		}
	}
	return total
}

// TotalQuizScore sums the stored quiz scores of a student in a course. Total counts the questions
// of every quiz attached to a lesson of the course, attempted or not. Lessons pointing at a quiz set
// that no longer exists contribute nothing.
func TotalQuizScore(records []models.StudentProgress, lessons []models.Lesson, quizSets []models.QuizSet, userID, courseID uint) QuizTotals {
	var totals QuizTotals
	for _, r := range records {
		if r.UserID == userID && r.CourseID == courseID && r.QuizScore != nil {
			totals.Score += *r.QuizScore
		}
	}

	questionCounts := make(map[uint]int, len(quizSets))
	for _, qs := range quizSets {
		questionCounts[qs.ID] = len(qs.Questions)
	}
	for _, l := range lessons {
		if l.CourseID != courseID || l.QuizSetID == nil {
			continue
		}
		totals.Total += questionCounts[*l.QuizSetID]
	}
	return totals
}

// CompletionPercentage is completed/len(lessons)*100, or 0 for an empty course.
func CompletionPercentage(completed, lessonCount int) float64 {
	if lessonCount == 0 {
		return 0
	}
	return float64(completed*100) / float64(lessonCount)
}
