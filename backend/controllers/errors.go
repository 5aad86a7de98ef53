package controllers

import (
	"errors"
	"log/slog"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"learning-platform/backend/services"
	"learning-platform/backend/store"
	"learning-platform/backend/utils"
)

// statusFor maps service and store errors onto HTTP statuses. Unknown errors are 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, store.ErrConflict):
		return fiber.StatusConflict
	case errors.Is(err, services.ErrCourseLocked),
		errors.Is(err, services.ErrLessonLocked),
		errors.Is(err, services.ErrNotAssigned):
		return fiber.StatusForbidden
	case errors.Is(err, services.ErrQuizNotPassed):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, services.ErrInvalidCredentials):
		return fiber.StatusUnauthorized
	case errors.Is(err, services.ErrInvalidQuestion),
		errors.Is(err, services.ErrInvalidSettings),
		errors.Is(err, services.ErrInvalidTime),
		errors.Is(err, services.ErrInvalidRole),
		errors.Is(err, services.ErrLessonNotInCourse),
		errors.Is(err, services.ErrNoQuiz):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

func respondError(c *fiber.Ctx, log *slog.Logger, err error) error {
	status := statusFor(err)
	if status == fiber.StatusInternalServerError {
		log.Error("request failed", "path", c.Path(), "error", err)
		return utils.InternalServerError(c, "Internal server error")
	}
	return utils.Error(c, status, err)
}

// parseBody decodes and validates a JSON body. It writes the error response itself and
// reports whether the handler may continue.
func parseBody(c *fiber.Ctx, dst interface{}) (bool, error) {
	if err := c.BodyParser(dst); err != nil {
		return false, utils.BadRequest(c, "Cannot parse JSON")
	}
	if errs := utils.ValidateStruct(dst); errs != nil {
		return false, utils.ValidationError(c, errs)
	}
	return true, nil
}

func paramID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.Atoi(c.Params(name))
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Invalid "+name)
	}
	return uint(id), nil
}

// paramIDs parses several path parameters at once and answers 400 on the first bad one.
func paramIDs(c *fiber.Ctx, names ...string) ([]uint, error) {
	out := make([]uint, len(names))
	for i, name := range names {
		id, err := paramID(c, name)
		if err != nil {
			return nil, utils.Error(c, fiber.StatusBadRequest, err)
		}
		out[i] = id
	}
	return out, nil
}
