package services

import (
	"context"
	"log/slog"

	"learning-platform/backend/learning"
	"learning-platform/backend/models"
	"learning-platform/backend/store"
)

type CourseService struct {
	store store.Store
	log   *slog.Logger
}

func (s *CourseService) CreateCourse(ctx context.Context, title, description string) (*models.Course, error) {
	course := &models.Course{Title: title, Description: description}
	if err := s.store.CreateCourse(ctx, course); err != nil {
		return nil, err
	}
	s.log.Info("course created", "course_id", course.ID)
	return course, nil
}

func (s *CourseService) GetCourse(ctx context.Context, id uint) (*models.Course, error) {
	return s.store.GetCourse(ctx, id)
}

func (s *CourseService) ListCourses(ctx context.Context) ([]models.Course, error) {
	return s.store.ListCourses(ctx)
}

func (s *CourseService) UpdateCourse(ctx context.Context, id uint, title, description string) (*models.Course, error) {
	course := &models.Course{ID: id, Title: title, Description: description}
	if err := s.store.UpdateCourse(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *CourseService) DeleteCourse(ctx context.Context, id uint) error {
	if err := s.store.DeleteCourse(ctx, id); err != nil {
		return err
	}
	s.log.Info("course deleted", "course_id", id)
	return nil
}

// checkQuizRef fails when a lesson points at a quiz set that does not exist.
func (s *CourseService) checkQuizRef(ctx context.Context, lesson models.Lesson) error {
	if lesson.QuizSetID == nil {
		return nil
	}
	_, err := s.store.GetQuizSet(ctx, *lesson.QuizSetID)
	return err
}

// AddLesson appends a lesson to the end of the course. A concurrent add that took the same
// order first makes this one fail with store.ErrConflict.
func (s *CourseService) AddLesson(ctx context.Context, courseID uint, lesson models.Lesson) (*models.Lesson, error) {
	if _, err := s.store.GetCourse(ctx, courseID); err != nil {
		return nil, err
	}
	if err := s.checkQuizRef(ctx, lesson); err != nil {
		return nil, err
	}
	lessons, err := s.store.ListLessons(ctx, courseID)
	if err != nil {
		return nil, err
	}
	lesson.ID = 0
	lesson.CourseID = courseID
	lesson.SequenceOrder = learning.NextOrder(lessons)
	if err := s.store.CreateLesson(ctx, &lesson); err != nil {
		return nil, err
	}
	s.log.Info("lesson added", "course_id", courseID, "lesson_id", lesson.ID, "order", lesson.SequenceOrder)
	return &lesson, nil
}

// UpdateLesson changes a lesson's content. Its order is kept; use MoveLesson to reorder.
func (s *CourseService) UpdateLesson(ctx context.Context, courseID uint, lesson models.Lesson) (*models.Lesson, error) {
	existing, err := s.store.GetLesson(ctx, lesson.ID)
	if err != nil {
		return nil, err
	}
	if existing.CourseID != courseID {
		return nil, ErrLessonNotInCourse
	}
	if err := s.checkQuizRef(ctx, lesson); err != nil {
		return nil, err
	}
	lesson.CourseID = courseID
	lesson.SequenceOrder = existing.SequenceOrder
	if err := s.store.UpdateLesson(ctx, &lesson); err != nil {
		return nil, err
	}
	return &lesson, nil
}

func toOrderMap(changes []learning.OrderChange) map[uint]int {
	out := make(map[uint]int, len(changes))
	for _, c := range changes {
		out[c.LessonID] = c.Order
	}
	return out
}

// DeleteLesson removes a lesson and renumbers the rest to 1..N.
func (s *CourseService) DeleteLesson(ctx context.Context, courseID, lessonID uint) error {
	lessons, err := s.store.ListLessons(ctx, courseID)
	if err != nil {
		return err
	}
	found := false
	for _, l := range lessons {
		if l.ID == lessonID {
			found = true
			break
		}
	}
	if !found {
		if _, err := s.store.GetLesson(ctx, lessonID); err != nil {
			return err
		}
		return ErrLessonNotInCourse
	}

	reorder := toOrderMap(learning.RenumberWithout(lessons, lessonID))
	if err := s.store.DeleteLesson(ctx, lessonID, reorder); err != nil {
		return err
	}
	s.log.Info("lesson deleted", "course_id", courseID, "lesson_id", lessonID, "renumbered", len(reorder))
	return nil
}

// MoveLesson places a lesson at order and returns the course's lessons in their new order.
func (s *CourseService) MoveLesson(ctx context.Context, courseID, lessonID uint, order int) ([]models.Lesson, error) {
	lessons, err := s.store.ListLessons(ctx, courseID)
	if err != nil {
		return nil, err
	}
	found := false
	for _, l := range lessons {
		if l.ID == lessonID {
			found = true
			break
		}
	}
	if !found {
		return nil, ErrLessonNotInCourse
	}

	changes := learning.Move(lessons, lessonID, order)
	if len(changes) > 0 {
		if err := s.store.SetLessonOrders(ctx, courseID, toOrderMap(changes)); err != nil {
			return nil, err
		}
	}
	return learning.SortLessons(learning.ApplyOrder(lessons, changes)), nil
}
