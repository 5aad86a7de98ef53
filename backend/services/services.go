// Package services runs the platform's workflows against a store.Store. Every write goes to the
// store first; callers only see state the store has confirmed.
package services

import (
	"errors"
	"log/slog"

	"learning-platform/backend/store"
)

var (
	ErrQuizNotPassed      = errors.New("quiz attempt does not reach the pass mark")
	ErrNoQuiz             = errors.New("lesson has no quiz")
	ErrInvalidQuestion    = errors.New("invalid quiz question")
	ErrLessonNotInCourse  = errors.New("lesson does not belong to course")
	ErrCourseLocked       = errors.New("course is locked for this student")
	ErrLessonLocked       = errors.New("lesson is not accessible")
	ErrNotAssigned        = errors.New("course is not assigned to this student")
	ErrInvalidSettings    = errors.New("pass mark must be between 0 and 100")
	ErrInvalidTime        = errors.New("time spent must not be negative")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidRole        = errors.New("invalid role")
)

// Defaults seed the quiz settings row the first time it is read.
type Defaults struct {
	PassMarkPercentage int
	EnforcePassMark    bool
}

// Services bundles every workflow over one store.
type Services struct {
	Courses   *CourseService
	Quizzes   *QuizService
	Students  *StudentService
	Locks     *LockService
	Progress  *ProgressService
	Offerings *OfferingService

	store store.Store
	log   *slog.Logger
}

func New(st store.Store, defaults Defaults, log *slog.Logger) *Services {
	if log == nil {
		log = slog.Default()
	}
	quizzes := &QuizService{store: st, defaults: defaults, log: log.With("service", "quizzes")}
	locks := &LockService{store: st, log: log.With("service", "locks")}
	return &Services{
		Courses:   &CourseService{store: st, log: log.With("service", "courses")},
		Quizzes:   quizzes,
		Students:  &StudentService{store: st, log: log.With("service", "students")},
		Locks:     locks,
		Progress:  &ProgressService{store: st, quizzes: quizzes, locks: locks, log: log.With("service", "progress")},
		Offerings: &OfferingService{store: st},
		store:     st,
		log:       log,
	}
}
