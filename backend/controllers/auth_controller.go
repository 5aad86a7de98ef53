package controllers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"learning-platform/backend/config"
	"learning-platform/backend/models"
	"learning-platform/backend/services"
	"learning-platform/backend/utils"
)

type AuthController struct {
	Svc *services.Services
	Cfg *config.Config
	log *slog.Logger
}

func NewAuthController(svc *services.Services, cfg *config.Config, log *slog.Logger) *AuthController {
	return &AuthController{Svc: svc, Cfg: cfg, log: log.With("controller", "auth")}
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Register godoc
// @Summary Register a new student
// @Tags auth
// @Router /auth/register [post]
func (ac *AuthController) Register(c *fiber.Ctx) error {
	var input RegisterRequest
	if ok, err := parseBody(c, &input); !ok {
		return err
	}

	student, err := ac.Svc.Students.Register(c.UserContext(), input.Name, input.Email, input.Password)
	if err != nil {
		return respondError(c, ac.log, err)
	}
	return ac.issueToken(c, fiber.StatusCreated, student)
}

// Login godoc
// @Summary Authenticate and return a JWT
// @Tags auth
// @Router /auth/login [post]
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var input LoginRequest
	if ok, err := parseBody(c, &input); !ok {
		return err
	}

	student, err := ac.Svc.Students.Authenticate(c.UserContext(), input.Email, input.Password)
	if err != nil {
		return respondError(c, ac.log, err)
	}
	return ac.issueToken(c, fiber.StatusOK, student)
}

func (ac *AuthController) issueToken(c *fiber.Ctx, status int, student *models.Student) error {
	token, err := utils.GenerateJWTToken(student.ID, student.Role, ac.Cfg)
	if err != nil {
		ac.log.Error("sign token", "user_id", student.ID, "error", err)
		return utils.InternalServerError(c, "Could not generate token")
	}
	return c.Status(status).JSON(fiber.Map{
		"token": token,
		"user":  student,
	})
}
