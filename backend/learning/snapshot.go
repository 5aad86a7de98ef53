package learning

import "learning-platform/backend/models"

// Snapshot is the application state the UI works from: one read-through copy of every table,
// passed explicitly to the rules instead of living in globals.
type Snapshot struct {
	Courses     []models.Course           `json:"courses"`
	Students    []models.Student          `json:"students"`
	QuizSets    []models.QuizSet          `json:"quiz_sets"`
	Progress    []models.StudentProgress  `json:"progress"`
	Assignments []models.CourseAssignment `json:"assignments"`
	LessonLocks []models.LessonLock       `json:"lesson_locks"`
	Settings    models.QuizSettings       `json:"settings"`
}

func (s *Snapshot) Course(id uint) (models.Course, bool) {
	for _, c := range s.Courses {
		if c.ID == id {
			return c, true
		}
	}
	return models.Course{}, false
}

// QuizSet resolves an optional reference; a nil or dangling id yields ok=false.
func (s *Snapshot) QuizSet(id *uint) (models.QuizSet, bool) {
	if id == nil {
		return models.QuizSet{}, false
	}
	for _, qs := range s.QuizSets {
		if qs.ID == *id {
			return qs, true
		}
	}
	return models.QuizSet{}, false
}

func (s *Snapshot) Lessons(courseID uint) []models.Lesson {
	c, ok := s.Course(courseID)
	if !ok {
		return nil
	}
	return SortLessons(c.Lessons)
}

func (s *Snapshot) StudentProgress(userID, courseID uint) []models.StudentProgress {
	return StudentProgress(s.Progress, userID, courseID)
}

func (s *Snapshot) CompletedLessonsCount(userID, courseID uint) int {
	return CompletedLessonsCount(s.Progress, userID, courseID)
}

func (s *Snapshot) TotalQuizScore(userID, courseID uint) QuizTotals {
	return TotalQuizScore(s.Progress, s.Lessons(courseID), s.QuizSets, userID, courseID)
}

// LessonLocksFor returns the lessons of a course explicitly locked for a student.
func (s *Snapshot) LessonLocksFor(userID, courseID uint) map[uint]bool {
	locked := make(map[uint]bool)
	for _, l := range s.LessonLocks {
		if l.UserID == userID && l.CourseID == courseID {
			locked[l.LessonID] = true
		}
	}
	return locked
}

func (s *Snapshot) IsLessonAccessible(userID, courseID uint, order int) bool {
	return IsLessonAccessible(s.Lessons(courseID), s.Progress, s.LessonLocksFor(userID, courseID), userID, courseID, order)
}

// IsCourseLockedForUser is true only when the student's assignment carries the lock flag.
// Admins are never locked out.
func (s *Snapshot) IsCourseLockedForUser(student models.Student, courseID uint) bool {
	if student.IsAdmin() {
		return false
	}
	for _, a := range s.Assignments {
		if a.UserID == student.ID && a.CourseID == courseID {
			return a.Locked
		}
	}
	return false
}

// CourseSummary is the per-student-per-course aggregate shown on dashboards.
type CourseSummary struct {
	UserID           uint       `json:"user_id"`
	CourseID         uint       `json:"course_id"`
	LessonCount      int        `json:"lesson_count"`
	CompletedLessons int        `json:"completed_lessons"`
	TimeSpent        int64      `json:"time_spent"`
	Quiz             QuizTotals `json:"quiz"`
	CompletionRate   float64    `json:"completion_rate"`
	Locked           bool       `json:"locked"`
}

// Summaries builds one CourseSummary per course assignment.
func (s *Snapshot) Summaries() []CourseSummary {
	out := make([]CourseSummary, 0, len(s.Assignments))
	for _, a := range s.Assignments {
		lessons := s.Lessons(a.CourseID)
		completed := s.CompletedLessonsCount(a.UserID, a.CourseID)
		out = append(out, CourseSummary{
			UserID:           a.UserID,
			CourseID:         a.CourseID,
			LessonCount:      len(lessons),
			CompletedLessons: completed,
			TimeSpent:        TotalTimeSpent(s.Progress, a.UserID, a.CourseID),
			Quiz:             s.TotalQuizScore(a.UserID, a.CourseID),
			CompletionRate:   CompletionPercentage(completed, len(lessons)),
			Locked:           a.Locked,
		})
	}
	return out
}
