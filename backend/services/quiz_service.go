package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"learning-platform/backend/models"
	"learning-platform/backend/store"
)

type QuizService struct {
	store    store.Store
	defaults Defaults
	log      *slog.Logger
}

// Settings returns the quiz settings, saving the configured defaults on first read.
func (s *QuizService) Settings(ctx context.Context) (models.QuizSettings, error) {
	settings, err := s.store.GetQuizSettings(ctx)
	if err == nil {
		return *settings, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return models.QuizSettings{}, err
	}

	row := models.NewQuizSettings(s.defaults.PassMarkPercentage, s.defaults.EnforcePassMark)
	if err := s.store.SaveQuizSettings(ctx, &row); err != nil {
		return models.QuizSettings{}, fmt.Errorf("seeding quiz settings: %w", err)
	}
	s.log.Info("quiz settings seeded", "pass_mark", row.PassMarkPercentage, "enforce", row.EnforcePassMark)
	return row, nil
}

func (s *QuizService) UpdateSettings(ctx context.Context, passMark int, enforce bool) (models.QuizSettings, error) {
	if passMark < 0 || passMark > 100 {
		return models.QuizSettings{}, ErrInvalidSettings
	}
	row := models.NewQuizSettings(passMark, enforce)
	if err := s.store.SaveQuizSettings(ctx, &row); err != nil {
		return models.QuizSettings{}, err
	}
	s.log.Info("quiz settings updated", "pass_mark", passMark, "enforce", enforce)
	return row, nil
}

// ValidateQuestion checks that a question has text, at least two options and an answer index inside them.
func ValidateQuestion(q models.QuizQuestion) error {
	switch {
	case strings.TrimSpace(q.Question) == "":
		return fmt.Errorf("%w: question text is empty", ErrInvalidQuestion)
	case len(q.Options) < 2:
		return fmt.Errorf("%w: %q needs at least two options", ErrInvalidQuestion, q.Question)
	case !q.ValidAnswer():
		return fmt.Errorf("%w: %q has answer %d outside %d options", ErrInvalidQuestion, q.Question, q.CorrectAnswer, len(q.Options))
	}
	return nil
}

// CreateQuizSet validates every question and stores them in the given order.
func (s *QuizService) CreateQuizSet(ctx context.Context, title string, questions []models.QuizQuestion) (*models.QuizSet, error) {
	for i := range questions {
		if err := ValidateQuestion(questions[i]); err != nil {
			return nil, err
		}
		questions[i].ID = 0
		questions[i].Position = i + 1
	}
	set := &models.QuizSet{Title: title, Questions: questions}
	if err := s.store.CreateQuizSet(ctx, set); err != nil {
		return nil, err
	}
	s.log.Info("quiz set created", "quiz_set_id", set.ID, "questions", len(questions))
	return set, nil
}

func (s *QuizService) GetQuizSet(ctx context.Context, id uint) (*models.QuizSet, error) {
	return s.store.GetQuizSet(ctx, id)
}

func (s *QuizService) ListQuizSets(ctx context.Context) ([]models.QuizSet, error) {
	return s.store.ListQuizSets(ctx)
}

func (s *QuizService) RenameQuizSet(ctx context.Context, id uint, title string) (*models.QuizSet, error) {
	set := &models.QuizSet{ID: id, Title: title}
	if err := s.store.UpdateQuizSet(ctx, set); err != nil {
		return nil, err
	}
	return set, nil
}

func (s *QuizService) DeleteQuizSet(ctx context.Context, id uint) error {
	if err := s.store.DeleteQuizSet(ctx, id); err != nil {
		return err
	}
	s.log.Info("quiz set deleted", "quiz_set_id", id)
	return nil
}

// AddQuestion appends a question to the end of a quiz set.
func (s *QuizService) AddQuestion(ctx context.Context, setID uint, q models.QuizQuestion) (*models.QuizQuestion, error) {
	if err := ValidateQuestion(q); err != nil {
		return nil, err
	}
	set, err := s.store.GetQuizSet(ctx, setID)
	if err != nil {
		return nil, err
	}
	q.ID = 0
	q.QuizSetID = setID
	q.Position = len(set.Questions) + 1
	for _, existing := range set.Questions {
		if existing.Position >= q.Position {
			q.Position = existing.Position + 1
		}
	}
	if err := s.store.CreateQuestion(ctx, &q); err != nil {
		return nil, err
	}
	return &q, nil
}

// UpdateQuestion replaces a question of setID. Position is kept when zero.
func (s *QuizService) UpdateQuestion(ctx context.Context, setID uint, q models.QuizQuestion) (*models.QuizQuestion, error) {
	if err := ValidateQuestion(q); err != nil {
		return nil, err
	}
	existing, err := s.store.GetQuestion(ctx, q.ID)
	if err != nil {
		return nil, err
	}
	if existing.QuizSetID != setID {
		return nil, fmt.Errorf("question %d of quiz set %d: %w", q.ID, setID, store.ErrNotFound)
	}
	if q.Position == 0 {
		q.Position = existing.Position
	}
	q.QuizSetID = setID
	if err := s.store.UpdateQuestion(ctx, &q); err != nil {
		return nil, err
	}
	return &q, nil
}

func (s *QuizService) DeleteQuestion(ctx context.Context, setID, questionID uint) error {
	existing, err := s.store.GetQuestion(ctx, questionID)
	if err != nil {
		return err
	}
	if existing.QuizSetID != setID {
		return fmt.Errorf("question %d of quiz set %d: %w", questionID, setID, store.ErrNotFound)
	}
	return s.store.DeleteQuestion(ctx, questionID)
}

// quizFor resolves a lesson's quiz set. A missing or dangling reference yields nil.
func (s *QuizService) quizFor(ctx context.Context, lesson models.Lesson) (*models.QuizSet, error) {
	if lesson.QuizSetID == nil {
		return nil, nil
	}
	set, err := s.store.GetQuizSet(ctx, *lesson.QuizSetID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	return set, err
}
