package controllers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"learning-platform/backend/config"
	"learning-platform/backend/middleware"
	"learning-platform/backend/services"
)

type ProgressController struct {
	Svc *services.Services
	Cfg *config.Config
	log *slog.Logger
}

func NewProgressController(svc *services.Services, cfg *config.Config, log *slog.Logger) *ProgressController {
	return &ProgressController{Svc: svc, Cfg: cfg, log: log.With("controller", "progress")}
}

type TimeSpentRequest struct {
	Seconds int64 `json:"seconds" validate:"gte=0"`
}

type QuizAttemptRequest struct {
	Answers []int `json:"answers" validate:"required"`
	Commit  bool  `json:"commit"`
}

// AddTimeSpent godoc
// @Summary Add seconds to the caller's time on a lesson
// @Tags progress
// @Router /courses/{id}/lessons/{lessonId}/time [post]
func (pc *ProgressController) AddTimeSpent(c *fiber.Ctx) error {
	ids, err := paramIDs(c, "id", "lessonId")
	if ids == nil {
		return err
	}
	var input TimeSpentRequest
	if ok, err := parseBody(c, &input); !ok {
		return err
	}
	progress, err := pc.Svc.Progress.AddTimeSpent(c.UserContext(), middleware.CurrentUser(c), ids[0], ids[1], input.Seconds)
	if err != nil {
		return respondError(c, pc.log, err)
	}
	return c.JSON(fiber.Map{"progress": progress})
}

// CompleteLesson godoc
// @Summary Mark a lesson complete. Quiz lessons need a passing score on record.
// @Tags progress
// @Router /courses/{id}/lessons/{lessonId}/complete [post]
func (pc *ProgressController) CompleteLesson(c *fiber.Ctx) error {
	ids, err := paramIDs(c, "id", "lessonId")
	if ids == nil {
		return err
	}
	result, err := pc.Svc.Progress.Complete(c.UserContext(), middleware.CurrentUser(c), ids[0], ids[1])
	if err != nil {
		return respondError(c, pc.log, err)
	}
	return c.JSON(completionBody(result))
}

// SubmitQuiz godoc
// @Summary Score a quiz attempt. With commit set a passing attempt completes the lesson.
// @Tags progress
// @Router /courses/{id}/lessons/{lessonId}/quiz [post]
func (pc *ProgressController) SubmitQuiz(c *fiber.Ctx) error {
	ids, err := paramIDs(c, "id", "lessonId")
	if ids == nil {
		return err
	}
	var input QuizAttemptRequest
	if ok, err := parseBody(c, &input); !ok {
		return err
	}
	result, err := pc.Svc.Progress.SubmitQuiz(c.UserContext(), middleware.CurrentUser(c), ids[0], ids[1], input.Answers, input.Commit)
	if errors.Is(err, services.ErrQuizNotPassed) && result != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":      err.Error(),
			"evaluation": result.Evaluation,
		})
	}
	if err != nil {
		return respondError(c, pc.log, err)
	}

	body := fiber.Map{"evaluation": result.Evaluation}
	if result.Completion != nil {
		body["completion"] = completionBody(result.Completion)
	}
	return c.JSON(body)
}

func completionBody(r *services.CompletionResult) fiber.Map {
	body := fiber.Map{
		"progress":     r.Progress,
		"next_lesson":  r.NextLesson,
		"next_created": r.NextCreated,
	}
	if r.NextErr != nil {
		body["next_error"] = r.NextErr.Error()
	}
	return body
}
