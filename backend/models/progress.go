package models

import "time"

// ProgressKey identifies one student's interaction with one lesson.
type ProgressKey struct {
	UserID   uint `json:"user_id"`
	CourseID uint `json:"course_id"`
	LessonID uint `json:"lesson_id"`
}

// StudentProgress holds at most one row per ProgressKey.
// QuizSetID is copied from the lesson and Locked from the course assignment.
type StudentProgress struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"not null;uniqueIndex:idx_progress_key" json:"user_id"`
	CourseID     uint      `gorm:"not null;uniqueIndex:idx_progress_key" json:"course_id"`
	LessonID     uint      `gorm:"not null;uniqueIndex:idx_progress_key" json:"lesson_id"`
	Completed    bool      `gorm:"not null;default:false" json:"completed"`
	TimeSpent    int64     `gorm:"not null;default:0" json:"time_spent"`
	PDFViewed    bool      `gorm:"column:pdf_viewed;not null;default:false" json:"pdf_viewed"`
	QuizScore    *int      `json:"quiz_score"`
	QuizAttempts int       `gorm:"not null;default:0" json:"quiz_attempts"`
	QuizSetID    *uint     `json:"quiz_set_id"`
	Locked       bool      `gorm:"not null;default:false" json:"locked"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (p StudentProgress) Key() ProgressKey {
	return ProgressKey{UserID: p.UserID, CourseID: p.CourseID, LessonID: p.LessonID}
}

// NewStudentProgress returns a row with every counter at its default.
func NewStudentProgress(key ProgressKey) StudentProgress {
	return StudentProgress{UserID: key.UserID, CourseID: key.CourseID, LessonID: key.LessonID}
}

// LessonLock rows exist only while the lesson is locked for that student.
type LessonLock struct {
	UserID    uint      `gorm:"primaryKey" json:"user_id"`
	CourseID  uint      `gorm:"primaryKey" json:"course_id"`
	LessonID  uint      `gorm:"primaryKey" json:"lesson_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (l LessonLock) Key() ProgressKey {
	return ProgressKey{UserID: l.UserID, CourseID: l.CourseID, LessonID: l.LessonID}
}

// All lists every model for migrations.
func All() []interface{} {
	return []interface{}{
		&Course{},
		&Lesson{},
		&QuizSet{},
		&QuizQuestion{},
		&QuizSettings{},
		&Student{},
		&CourseAssignment{},
		&StudentProgress{},
		&LessonLock{},
		&ServiceOffering{},
	}
}
