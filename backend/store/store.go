// Package store persists the platform's tables. Store is the only fallible, asynchronous
// boundary of the system; everything above it works on the values it returns.
package store

import (
	"context"
	"errors"

	"learning-platform/backend/models"
)

var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("record already exists")
)

// ProgressFilter narrows ListProgress. Zero fields match anything.
type ProgressFilter struct {
	UserID   uint
	CourseID uint
}

func (f ProgressFilter) matches(p models.StudentProgress) bool {
	return (f.UserID == 0 || p.UserID == f.UserID) && (f.CourseID == 0 || p.CourseID == f.CourseID)
}

type CourseStore interface {
	CreateCourse(ctx context.Context, course *models.Course) error
	// GetCourse returns the course with its lessons sorted by order.
	GetCourse(ctx context.Context, id uint) (*models.Course, error)
	ListCourses(ctx context.Context) ([]models.Course, error)
	UpdateCourse(ctx context.Context, course *models.Course) error
	// DeleteCourse removes the course with its lessons, assignments, progress and lesson locks.
	DeleteCourse(ctx context.Context, id uint) error
}

type LessonStore interface {
	CreateLesson(ctx context.Context, lesson *models.Lesson) error
	GetLesson(ctx context.Context, id uint) (*models.Lesson, error)
	// ListLessons returns the lessons of a course sorted by order.
	ListLessons(ctx context.Context, courseID uint) ([]models.Lesson, error)
	UpdateLesson(ctx context.Context, lesson *models.Lesson) error
	// DeleteLesson removes the lesson with its progress and locks, then applies
	// the new orders of the remaining lessons, all in one transaction.
	DeleteLesson(ctx context.Context, id uint, reorder map[uint]int) error
	SetLessonOrders(ctx context.Context, courseID uint, orders map[uint]int) error
}

type QuizStore interface {
	CreateQuizSet(ctx context.Context, set *models.QuizSet) error
	// GetQuizSet returns the set with questions sorted by position.
	GetQuizSet(ctx context.Context, id uint) (*models.QuizSet, error)
	ListQuizSets(ctx context.Context) ([]models.QuizSet, error)
	UpdateQuizSet(ctx context.Context, set *models.QuizSet) error
	// DeleteQuizSet removes the set and its questions and detaches it from lessons.
	DeleteQuizSet(ctx context.Context, id uint) error
	CreateQuestion(ctx context.Context, q *models.QuizQuestion) error
	GetQuestion(ctx context.Context, id uint) (*models.QuizQuestion, error)
	UpdateQuestion(ctx context.Context, q *models.QuizQuestion) error
	DeleteQuestion(ctx context.Context, id uint) error

	// GetQuizSettings returns ErrNotFound until the singleton row is saved.
	GetQuizSettings(ctx context.Context) (*models.QuizSettings, error)
	SaveQuizSettings(ctx context.Context, settings *models.QuizSettings) error
}

type StudentStore interface {
	CreateStudent(ctx context.Context, student *models.Student) error
	GetStudent(ctx context.Context, id uint) (*models.Student, error)
	GetStudentByEmail(ctx context.Context, email string) (*models.Student, error)
	ListStudents(ctx context.Context) ([]models.Student, error)
	UpdateStudent(ctx context.Context, student *models.Student) error
	// DeleteStudent removes the student with assignments, progress and lesson locks.
	DeleteStudent(ctx context.Context, id uint) error
}

type AssignmentStore interface {
	// AssignCourse is a no-op when the assignment already exists.
	AssignCourse(ctx context.Context, userID, courseID uint) error
	// UnassignCourse removes the assignment with the student's progress and lesson locks in that course.
	UnassignCourse(ctx context.Context, userID, courseID uint) error
	GetAssignment(ctx context.Context, userID, courseID uint) (*models.CourseAssignment, error)
	// ListAssignments lists one student's assignments, or all of them for userID 0.
	ListAssignments(ctx context.Context, userID uint) ([]models.CourseAssignment, error)
	// ToggleAssignmentLock flips the lock flag atomically and mirrors it onto the progress rows.
	ToggleAssignmentLock(ctx context.Context, userID, courseID uint) (bool, error)
}

type ProgressStore interface {
	GetProgress(ctx context.Context, key models.ProgressKey) (*models.StudentProgress, error)
	ListProgress(ctx context.Context, filter ProgressFilter) ([]models.StudentProgress, error)
	// SaveProgress inserts or updates the row for p's key.
	SaveProgress(ctx context.Context, p *models.StudentProgress) error
	// CreateProgressIfAbsent inserts p unless a row for its key exists. It reports whether it inserted.
	CreateProgressIfAbsent(ctx context.Context, p *models.StudentProgress) (bool, error)
}

type LessonLockStore interface {
	IsLessonLocked(ctx context.Context, key models.ProgressKey) (bool, error)
	ListLessonLocks(ctx context.Context, userID, courseID uint) ([]models.LessonLock, error)
	// ListAllLessonLocks returns every lock row.
	ListAllLessonLocks(ctx context.Context) ([]models.LessonLock, error)
	LockLesson(ctx context.Context, key models.ProgressKey) error
	UnlockLesson(ctx context.Context, key models.ProgressKey) error
}

type OfferingStore interface {
	CreateOffering(ctx context.Context, o *models.ServiceOffering) error
	GetOffering(ctx context.Context, id uint) (*models.ServiceOffering, error)
	ListOfferings(ctx context.Context, activeOnly bool) ([]models.ServiceOffering, error)
	UpdateOffering(ctx context.Context, o *models.ServiceOffering) error
	DeleteOffering(ctx context.Context, id uint) error
}

// Store is the full set of tables.
type Store interface {
	CourseStore
	LessonStore
	QuizStore
	StudentStore
	AssignmentStore
	ProgressStore
	LessonLockStore
	OfferingStore
}
