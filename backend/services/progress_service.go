package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"learning-platform/backend/learning"
	"learning-platform/backend/models"
	"learning-platform/backend/store"
)

type ProgressService struct {
	store   store.Store
	quizzes *QuizService
	locks   *LockService
	log     *slog.Logger
}

// CompletionResult is what MarkLessonComplete confirmed. NextLesson is nil on the last lesson.
// NextErr carries a failed next-lesson bootstrap, which does not undo the completion.
type CompletionResult struct {
	Progress    models.StudentProgress `json:"progress"`
	NextLesson  *models.Lesson         `json:"next_lesson,omitempty"`
	NextCreated bool                   `json:"next_created"`
	NextErr     error                  `json:"-"`
}

// QuestionView is a quiz question without its answer.
type QuestionView struct {
	ID       uint     `json:"id"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

type QuizView struct {
	ID        uint           `json:"id"`
	Title     string         `json:"title"`
	Questions []QuestionView `json:"questions"`
}

func newQuizView(set *models.QuizSet) *QuizView {
	if set == nil {
		return nil
	}
	v := &QuizView{ID: set.ID, Title: set.Title, Questions: make([]QuestionView, 0, len(set.Questions))}
	for _, q := range set.Questions {
		v.Questions = append(v.Questions, QuestionView{ID: q.ID, Question: q.Question, Options: q.Options})
	}
	return v
}

// LessonView is one opened lesson as a student sees it.
type LessonView struct {
	Lesson   models.Lesson          `json:"lesson"`
	Progress models.StudentProgress `json:"progress"`
	Quiz     *QuizView              `json:"quiz,omitempty"`
	Next     *models.Lesson         `json:"next,omitempty"`
}

type QuizResult struct {
	Evaluation learning.Evaluation `json:"evaluation"`
	Completion *CompletionResult   `json:"completion,omitempty"`
}

type LessonStatus struct {
	LessonID   uint   `json:"lesson_id"`
	Title      string `json:"title"`
	Order      int    `json:"order"`
	HasQuiz    bool   `json:"has_quiz"`
	Completed  bool   `json:"completed"`
	TimeSpent  int64  `json:"time_spent"`
	QuizScore  *int   `json:"quiz_score"`
	Locked     bool   `json:"locked"`
	Accessible bool   `json:"accessible"`
}

// CourseOverview is the per-lesson state of one course for one student.
type CourseOverview struct {
	CourseID         uint                `json:"course_id"`
	Title            string              `json:"title"`
	Description      string              `json:"description"`
	Lessons          []LessonStatus      `json:"lessons"`
	CompletedLessons int                 `json:"completed_lessons"`
	TimeSpent        int64               `json:"time_spent"`
	Quiz             learning.QuizTotals `json:"quiz"`
	QuizPercentage   *float64            `json:"quiz_percentage"`
	CompletionRate   float64             `json:"completion_rate"`
}

// CourseCard summarizes one assigned course.
type CourseCard struct {
	CourseID         uint    `json:"course_id"`
	Title            string  `json:"title"`
	Description      string  `json:"description"`
	Locked           bool    `json:"locked"`
	LessonCount      int     `json:"lesson_count"`
	CompletedLessons int     `json:"completed_lessons"`
	CompletionRate   float64 `json:"completion_rate"`
}

// lessonInCourse loads a lesson and checks its course.
func (s *ProgressService) lessonInCourse(ctx context.Context, courseID, lessonID uint) (*models.Lesson, error) {
	lesson, err := s.store.GetLesson(ctx, lessonID)
	if err != nil {
		return nil, err
	}
	if lesson.CourseID != courseID {
		return nil, ErrLessonNotInCourse
	}
	return lesson, nil
}

// IsLessonAccessible applies the sequential access rule to the store's current locks and progress.
func (s *ProgressService) IsLessonAccessible(ctx context.Context, userID, courseID uint, order int) (bool, error) {
	lessons, err := s.store.ListLessons(ctx, courseID)
	if err != nil {
		return false, err
	}
	lesson, ok := learning.LessonAt(lessons, courseID, order)
	if !ok {
		return false, nil
	}
	locked, err := s.store.IsLessonLocked(ctx, models.ProgressKey{UserID: userID, CourseID: courseID, LessonID: lesson.ID})
	if err != nil {
		return false, err
	}
	progress, err := s.store.ListProgress(ctx, store.ProgressFilter{UserID: userID, CourseID: courseID})
	if err != nil {
		return false, err
	}
	return learning.IsLessonAccessible(lessons, progress, map[uint]bool{lesson.ID: locked}, userID, courseID, order), nil
}

// ensureAccess checks the course lock, then the lesson rule. Admins preview everything.
func (s *ProgressService) ensureAccess(ctx context.Context, student models.Student, lesson models.Lesson) error {
	if student.IsAdmin() {
		return nil
	}
	if _, err := s.store.GetAssignment(ctx, student.ID, lesson.CourseID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotAssigned
		}
		return err
	}
	courseLocked, err := s.locks.IsCourseLockedForUser(ctx, student, lesson.CourseID)
	if err != nil {
		return err
	}
	if courseLocked {
		return ErrCourseLocked
	}
	ok, err := s.IsLessonAccessible(ctx, student.ID, lesson.CourseID, lesson.SequenceOrder)
	if err != nil {
		return err
	}
	if !ok {
		return ErrLessonLocked
	}
	return nil
}

// newProgressRow builds a default row for a lesson, carrying its quiz set and the course lock flag.
func (s *ProgressService) newProgressRow(ctx context.Context, userID uint, lesson models.Lesson) (models.StudentProgress, error) {
	p := models.NewStudentProgress(models.ProgressKey{UserID: userID, CourseID: lesson.CourseID, LessonID: lesson.ID})
	p.QuizSetID = lesson.QuizSetID
	a, err := s.store.GetAssignment(ctx, userID, lesson.CourseID)
	switch {
	case err == nil:
		p.Locked = a.Locked
	case !errors.Is(err, store.ErrNotFound):
		return p, err
	}
	return p, nil
}

// currentProgress returns the stored row for the lesson, or a fresh default one.
func (s *ProgressService) currentProgress(ctx context.Context, userID uint, lesson models.Lesson) (models.StudentProgress, error) {
	key := models.ProgressKey{UserID: userID, CourseID: lesson.CourseID, LessonID: lesson.ID}
	p, err := s.store.GetProgress(ctx, key)
	if err == nil {
		return *p, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return models.StudentProgress{}, err
	}
	return s.newProgressRow(ctx, userID, lesson)
}

// RecordView opens the lesson at order, creating its progress row on first interaction.
func (s *ProgressService) RecordView(ctx context.Context, student models.Student, courseID uint, order int, pdfViewed bool) (*LessonView, error) {
	lessons, err := s.store.ListLessons(ctx, courseID)
	if err != nil {
		return nil, err
	}
	lesson, ok := learning.LessonAt(lessons, courseID, order)
	if !ok {
		return nil, fmt.Errorf("lesson %d of course %d: %w", order, courseID, store.ErrNotFound)
	}
	if err := s.ensureAccess(ctx, student, lesson); err != nil {
		return nil, err
	}

	view := &LessonView{Lesson: lesson}
	if next, ok := learning.NextLesson(lessons, lesson); ok {
		view.Next = &next
	}
	quiz, err := s.quizzes.quizFor(ctx, lesson)
	if err != nil {
		return nil, err
	}
	view.Quiz = newQuizView(quiz)

	p, err := s.currentProgress(ctx, student.ID, lesson)
	if err != nil {
		return nil, err
	}
	if student.IsAdmin() {
		view.Progress = p
		return view, nil
	}
	p.PDFViewed = p.PDFViewed || pdfViewed
	if err := s.store.SaveProgress(ctx, &p); err != nil {
		return nil, err
	}
	view.Progress = p
	return view, nil
}

// AddTimeSpent adds seconds to the lesson's time counter.
func (s *ProgressService) AddTimeSpent(ctx context.Context, student models.Student, courseID, lessonID uint, seconds int64) (*models.StudentProgress, error) {
	if seconds < 0 {
		return nil, ErrInvalidTime
	}
	lesson, err := s.lessonInCourse(ctx, courseID, lessonID)
	if err != nil {
		return nil, err
	}
	if err := s.ensureAccess(ctx, student, *lesson); err != nil {
		return nil, err
	}
	p, err := s.currentProgress(ctx, student.ID, *lesson)
	if err != nil {
		return nil, err
	}
	p.TimeSpent += seconds
	if err := s.store.SaveProgress(ctx, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// passesGate enforces the pass mark for quiz-bearing lessons. With no new score the stored one is checked.
// A quiz without questions has nothing to fail.
func (s *ProgressService) passesGate(ctx context.Context, lesson models.Lesson, quizScore *int, stored *int) error {
	quiz, err := s.quizzes.quizFor(ctx, lesson)
	if err != nil || quiz == nil {
		return err
	}
	if len(quiz.Questions) == 0 {
		return nil
	}
	settings, err := s.quizzes.Settings(ctx)
	if err != nil {
		return err
	}
	if !settings.EnforcePassMark {
		return nil
	}
	score := quizScore
	if score == nil {
		score = stored
	}
	if score == nil || !learning.ScorePasses(*score, len(quiz.Questions), settings) {
		return ErrQuizNotPassed
	}
	return nil
}

// MarkLessonComplete marks the lesson complete, stores quizScore when given, and creates the
// next lesson's progress row if it has none. A failed completion write aborts before the next
// row is touched; a failed next-row write is logged and reported in NextErr only.
func (s *ProgressService) MarkLessonComplete(ctx context.Context, userID, courseID, lessonID uint, quizScore *int) (*CompletionResult, error) {
	lesson, err := s.lessonInCourse(ctx, courseID, lessonID)
	if err != nil {
		return nil, err
	}
	p, err := s.currentProgress(ctx, userID, *lesson)
	if err != nil {
		return nil, err
	}
	if err := s.passesGate(ctx, *lesson, quizScore, p.QuizScore); err != nil {
		return nil, err
	}

	p.Completed = true
	p.QuizSetID = lesson.QuizSetID
	if quizScore != nil {
		score := *quizScore
		p.QuizScore = &score
		p.QuizAttempts++
	}
	if err := s.store.SaveProgress(ctx, &p); err != nil {
		return nil, fmt.Errorf("completing lesson %d: %w", lessonID, err)
	}
	s.log.Info("lesson completed", "user_id", userID, "course_id", courseID, "lesson_id", lessonID)

	result := &CompletionResult{Progress: p}
	lessons, err := s.store.ListLessons(ctx, courseID)
	if err != nil {
		s.bootstrapFailed(result, lessonID, err)
		return result, nil
	}
	next, ok := learning.NextLesson(lessons, *lesson)
	if !ok {
		return result, nil
	}
	result.NextLesson = &next

	row, err := s.newProgressRow(ctx, userID, next)
	if err != nil {
		s.bootstrapFailed(result, lessonID, err)
		return result, nil
	}
	created, err := s.store.CreateProgressIfAbsent(ctx, &row)
	if err != nil {
		s.bootstrapFailed(result, lessonID, err)
		return result, nil
	}
	result.NextCreated = created
	return result, nil
}

// bootstrapFailed records a next-lesson failure without failing the completion.
func (s *ProgressService) bootstrapFailed(result *CompletionResult, lessonID uint, err error) {
	s.log.Error("next lesson bootstrap failed", "lesson_id", lessonID, "error", err)
	result.NextErr = err
}

// Complete is the student-facing completion of a lesson without a new quiz score.
func (s *ProgressService) Complete(ctx context.Context, student models.Student, courseID, lessonID uint) (*CompletionResult, error) {
	lesson, err := s.lessonInCourse(ctx, courseID, lessonID)
	if err != nil {
		return nil, err
	}
	if err := s.ensureAccess(ctx, student, *lesson); err != nil {
		return nil, err
	}
	return s.MarkLessonComplete(ctx, student.ID, courseID, lessonID, nil)
}

// SubmitQuiz scores answers. When commit is set and the attempt passes, the lesson is completed with
// the raw score. A committed failing attempt returns the evaluation with ErrQuizNotPassed.
func (s *ProgressService) SubmitQuiz(ctx context.Context, student models.Student, courseID, lessonID uint, answers []int, commit bool) (*QuizResult, error) {
	lesson, err := s.lessonInCourse(ctx, courseID, lessonID)
	if err != nil {
		return nil, err
	}
	if err := s.ensureAccess(ctx, student, *lesson); err != nil {
		return nil, err
	}
	quiz, err := s.quizzes.quizFor(ctx, *lesson)
	if err != nil {
		return nil, err
	}
	if quiz == nil {
		return nil, ErrNoQuiz
	}
	settings, err := s.quizzes.Settings(ctx)
	if err != nil {
		return nil, err
	}

	result := &QuizResult{Evaluation: learning.EvaluateQuiz(*quiz, answers, settings)}
	if !commit {
		return result, nil
	}
	if !result.Evaluation.Passed {
		return result, ErrQuizNotPassed
	}
	raw := result.Evaluation.RawScore
	completion, err := s.MarkLessonComplete(ctx, student.ID, courseID, lessonID, &raw)
	if err != nil {
		return result, err
	}
	result.Completion = completion
	return result, nil
}

// CourseOverview lists every lesson of a course with the student's state.
func (s *ProgressService) CourseOverview(ctx context.Context, student models.Student, courseID uint) (*CourseOverview, error) {
	course, err := s.store.GetCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if !student.IsAdmin() {
		if _, err := s.store.GetAssignment(ctx, student.ID, courseID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, ErrNotAssigned
			}
			return nil, err
		}
	}
	courseLocked, err := s.locks.IsCourseLockedForUser(ctx, student, courseID)
	if err != nil {
		return nil, err
	}
	if courseLocked {
		return nil, ErrCourseLocked
	}

	progress, err := s.store.ListProgress(ctx, store.ProgressFilter{UserID: student.ID, CourseID: courseID})
	if err != nil {
		return nil, err
	}
	locks, err := s.locks.GetLessonLocks(ctx, student.ID, courseID)
	if err != nil {
		return nil, err
	}
	quizSets, err := s.store.ListQuizSets(ctx)
	if err != nil {
		return nil, err
	}

	lessons := learning.SortLessons(course.Lessons)
	byLesson := make(map[uint]models.StudentProgress, len(progress))
	for _, p := range progress {
		byLesson[p.LessonID] = p
	}

	out := &CourseOverview{
		CourseID:    course.ID,
		Title:       course.Title,
		Description: course.Description,
		Lessons:     make([]LessonStatus, 0, len(lessons)),
	}
	for _, l := range lessons {
		p := byLesson[l.ID]
		out.Lessons = append(out.Lessons, LessonStatus{
			LessonID:   l.ID,
			Title:      l.Title,
			Order:      l.SequenceOrder,
			HasQuiz:    l.QuizSetID != nil,
			Completed:  p.Completed,
			TimeSpent:  p.TimeSpent,
			QuizScore:  p.QuizScore,
			Locked:     locks[l.ID],
			Accessible: student.IsAdmin() || learning.IsLessonAccessible(lessons, progress, locks, student.ID, courseID, l.SequenceOrder),
		})
	}
	out.CompletedLessons = learning.CompletedLessonsCount(progress, student.ID, courseID)
	out.TimeSpent = learning.TotalTimeSpent(progress, student.ID, courseID)
	out.Quiz = learning.TotalQuizScore(progress, lessons, quizSets, student.ID, courseID)
	if pct, ok := out.Quiz.Percentage(); ok {
		out.QuizPercentage = &pct
	}
	out.CompletionRate = learning.CompletionPercentage(out.CompletedLessons, len(lessons))
	return out, nil
}

// StudentCourses lists the courses assigned to a student with completion figures.
func (s *ProgressService) StudentCourses(ctx context.Context, student models.Student) ([]CourseCard, error) {
	assignments, err := s.store.ListAssignments(ctx, student.ID)
	if err != nil {
		return nil, err
	}
	progress, err := s.store.ListProgress(ctx, store.ProgressFilter{UserID: student.ID})
	if err != nil {
		return nil, err
	}

	cards := make([]CourseCard, 0, len(assignments))
	for _, a := range assignments {
		course, err := s.store.GetCourse(ctx, a.CourseID)
		if err != nil {
			return nil, err
		}
		completed := learning.CompletedLessonsCount(progress, student.ID, a.CourseID)
		cards = append(cards, CourseCard{
			CourseID:         course.ID,
			Title:            course.Title,
			Description:      course.Description,
			Locked:           a.Locked,
			LessonCount:      len(course.Lessons),
			CompletedLessons: completed,
			CompletionRate:   learning.CompletionPercentage(completed, len(course.Lessons)),
		})
	}
	return cards, nil
}
