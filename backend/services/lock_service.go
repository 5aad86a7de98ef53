package services

import (
	"context"
	"errors"
	"log/slog"

	"learning-platform/backend/models"
	"learning-platform/backend/store"
)

// LockService owns the two lock mechanisms: the course lock flag on an assignment
// and the presence-based lesson lock rows. They are checked separately.
type LockService struct {
	store store.Store
	log   *slog.Logger
}

// ToggleCourseLock flips the assignment's lock flag and returns the new value.
func (s *LockService) ToggleCourseLock(ctx context.Context, userID, courseID uint) (bool, error) {
	locked, err := s.store.ToggleAssignmentLock(ctx, userID, courseID)
	if err != nil {
		return false, err
	}
	s.log.Info("course lock toggled", "user_id", userID, "course_id", courseID, "locked", locked)
	return locked, nil
}

// IsCourseLockedForUser is true only when the student's assignment has the lock flag set.
// Admins are never locked out; no assignment means unlocked.
func (s *LockService) IsCourseLockedForUser(ctx context.Context, student models.Student, courseID uint) (bool, error) {
	if student.IsAdmin() {
		return false, nil
	}
	a, err := s.store.GetAssignment(ctx, student.ID, courseID)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return a.Locked, nil
}

// ToggleLessonLock inserts the lock row when absent and deletes it when present.
// It returns the resulting state. Concurrent toggles on one key are last-write-wins.
func (s *LockService) ToggleLessonLock(ctx context.Context, key models.ProgressKey) (bool, error) {
	lesson, err := s.store.GetLesson(ctx, key.LessonID)
	if err != nil {
		return false, err
	}
	if lesson.CourseID != key.CourseID {
		return false, ErrLessonNotInCourse
	}

	locked, err := s.store.IsLessonLocked(ctx, key)
	if err != nil {
		return false, err
	}
	if locked {
		err = s.store.UnlockLesson(ctx, key)
	} else {
		err = s.store.LockLesson(ctx, key)
	}
	if err != nil {
		return locked, err
	}
	s.log.Info("lesson lock toggled", "user_id", key.UserID, "course_id", key.CourseID, "lesson_id", key.LessonID, "locked", !locked)
	return !locked, nil
}

func (s *LockService) IsLessonLocked(ctx context.Context, key models.ProgressKey) (bool, error) {
	return s.store.IsLessonLocked(ctx, key)
}

// GetLessonLocks returns an entry for every lesson of the course, false when unlocked.
func (s *LockService) GetLessonLocks(ctx context.Context, userID, courseID uint) (map[uint]bool, error) {
	lessons, err := s.store.ListLessons(ctx, courseID)
	if err != nil {
		return nil, err
	}
	locks, err := s.store.ListLessonLocks(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}

	out := make(map[uint]bool, len(lessons))
	for _, l := range lessons {
		out[l.ID] = false
	}
	for _, l := range locks {
		if _, ok := out[l.LessonID]; ok {
			out[l.LessonID] = true
		}
	}
	return out, nil
}
