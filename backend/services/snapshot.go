package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"learning-platform/backend/learning"
	"learning-platform/backend/store"
)

// LoadSnapshot reads every table in parallel. When a read fails the others still
// complete; the partial snapshot is returned together with the first error.
func (s *Services) LoadSnapshot(ctx context.Context) (*learning.Snapshot, error) {
	snap := &learning.Snapshot{}
	var g errgroup.Group

	g.Go(func() error {
		courses, err := s.store.ListCourses(ctx)
		snap.Courses = courses
		return err
	})
	g.Go(func() error {
		students, err := s.store.ListStudents(ctx)
		snap.Students = students
		return err
	})
	g.Go(func() error {
		sets, err := s.store.ListQuizSets(ctx)
		snap.QuizSets = sets
		return err
	})
	g.Go(func() error {
		progress, err := s.store.ListProgress(ctx, store.ProgressFilter{})
		snap.Progress = progress
		return err
	})
	g.Go(func() error {
		assignments, err := s.store.ListAssignments(ctx, 0)
		snap.Assignments = assignments
		return err
	})
	g.Go(func() error {
		locks, err := s.store.ListAllLessonLocks(ctx)
		snap.LessonLocks = locks
		return err
	})
	g.Go(func() error {
		settings, err := s.Quizzes.Settings(ctx)
		snap.Settings = settings
		return err
	})

	if err := g.Wait(); err != nil {
		s.log.Error("snapshot load incomplete", "error", err)
		return snap, err
	}
	return snap, nil
}
