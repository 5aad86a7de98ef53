package controllers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"learning-platform/backend/config"
	"learning-platform/backend/models"
	"learning-platform/backend/services"
	"learning-platform/backend/utils"
)

type QuizController struct {
	Svc *services.Services
	Cfg *config.Config
	log *slog.Logger
}

func NewQuizController(svc *services.Services, cfg *config.Config, log *slog.Logger) *QuizController {
	return &QuizController{Svc: svc, Cfg: cfg, log: log.With("controller", "quizzes")}
}

type QuestionRequest struct {
	Question      string   `json:"question" validate:"required"`
	Options       []string `json:"options" validate:"required,min=2,dive,required"`
	CorrectAnswer int      `json:"correct_answer" validate:"gte=0"`
}

func (r QuestionRequest) question() models.QuizQuestion {
	return models.QuizQuestion{Question: r.Question, Options: r.Options, CorrectAnswer: r.CorrectAnswer}
}

type QuizSetRequest struct {
	Title     string            `json:"title" validate:"required"`
	Questions []QuestionRequest `json:"questions" validate:"dive"`
}

type QuizSettingsRequest struct {
	PassMarkPercentage int  `json:"pass_mark_percentage" validate:"gte=0,lte=100"`
	EnforcePassMark    bool `json:"enforce_pass_mark"`
}

func (qc *QuizController) ListQuizSets(c *fiber.Ctx) error {
	sets, err := qc.Svc.Quizzes.ListQuizSets(c.UserContext())
	if err != nil {
		return respondError(c, qc.log, err)
	}
	return c.JSON(fiber.Map{"quiz_sets": sets})
}

func (qc *QuizController) GetQuizSet(c *fiber.Ctx) error {
	ids, err := paramIDs(c, "id")
	if ids == nil {
		return err
	}
	set, err := qc.Svc.Quizzes.GetQuizSet(c.UserContext(), ids[0])
	if err != nil {
		return respondError(c, qc.log, err)
	}
	return c.JSON(set)
}

// CreateQuizSet godoc
// @Summary Create a quiz set with its questions
// @Tags quizzes
// @Router /admin/quizzes [post]
func (qc *QuizController) CreateQuizSet(c *fiber.Ctx) error {
	var input QuizSetRequest
	if ok, err := parseBody(c, &input); !ok {
		return err
	}
	questions := make([]models.QuizQuestion, 0, len(input.Questions))
	for _, q := range input.Questions {
		questions = append(questions, q.question())
	}
	set, err := qc.Svc.Quizzes.CreateQuizSet(c.UserContext(), input.Title, questions)
	if err != nil {
		return respondError(c, qc.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Quiz set created",
		"quiz_set": set,
	})
}

// UpdateQuizSet renames a quiz set. Questions are edited through their own routes.
func (qc *QuizController) UpdateQuizSet(c *fiber.Ctx) error {
	ids, err := paramIDs(c, "id")
	if ids == nil {
		return err
	}
	var input struct {
		Title string `json:"title" validate:"required"`
	}
	if ok, err := parseBody(c, &input); !ok {
		return err
	}
	set, err := qc.Svc.Quizzes.RenameQuizSet(c.UserContext(), ids[0], input.Title)
	if err != nil {
		return respondError(c, qc.log, err)
	}
	return c.JSON(fiber.Map{
		"message":  "Quiz set updated",
		"quiz_set": set,
	})
}

func (qc *QuizController) DeleteQuizSet(c *fiber.Ctx) error {
	ids, err := paramIDs(c, "id")
	if ids == nil {
		return err
	}
	if err := qc.Svc.Quizzes.DeleteQuizSet(c.UserContext(), ids[0]); err != nil {
		return respondError(c, qc.log, err)
	}
	return utils.NoContent(c)
}

func (qc *QuizController) AddQuestion(c *fiber.Ctx) error {
	ids, err := paramIDs(c, "id")
	if ids == nil {
		return err
	}
	var input QuestionRequest
	if ok, err := parseBody(c, &input); !ok {
		return err
	}
	q, err := qc.Svc.Quizzes.AddQuestion(c.UserContext(), ids[0], input.question())
	if err != nil {
		return respondError(c, qc.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Question added",
		"question": q,
	})
}

func (qc *QuizController) UpdateQuestion(c *fiber.Ctx) error {
	ids, err := paramIDs(c, "id", "questionId")
	if ids == nil {
		return err
	}
	var input QuestionRequest
	if ok, err := parseBody(c, &input); !ok {
		return err
	}
	q := input.question()
	q.ID = ids[1]
	updated, err := qc.Svc.Quizzes.UpdateQuestion(c.UserContext(), ids[0], q)
	if err != nil {
		return respondError(c, qc.log, err)
	}
	return c.JSON(fiber.Map{
		"message":  "Question updated",
		"question": updated,
	})
}

func (qc *QuizController) DeleteQuestion(c *fiber.Ctx) error {
	ids, err := paramIDs(c, "id", "questionId")
	if ids == nil {
		return err
	}
	if err := qc.Svc.Quizzes.DeleteQuestion(c.UserContext(), ids[0], ids[1]); err != nil {
		return respondError(c, qc.log, err)
	}
	return utils.NoContent(c)
}

// GetSettings returns the quiz settings, creating the default row on first read.
func (qc *QuizController) GetSettings(c *fiber.Ctx) error {
	settings, err := qc.Svc.Quizzes.Settings(c.UserContext())
	if err != nil {
		return respondError(c, qc.log, err)
	}
	return c.JSON(settings)
}

func (qc *QuizController) UpdateSettings(c *fiber.Ctx) error {
	var input QuizSettingsRequest
	if ok, err := parseBody(c, &input); !ok {
		return err
	}
	settings, err := qc.Svc.Quizzes.UpdateSettings(c.UserContext(), input.PassMarkPercentage, input.EnforcePassMark)
	if err != nil {
		return respondError(c, qc.log, err)
	}
	return c.JSON(settings)
}
