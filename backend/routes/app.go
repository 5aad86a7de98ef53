package routes

import (
	"errors"
	"log/slog"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"learning-platform/backend/config"
	"learning-platform/backend/controllers"
	"learning-platform/backend/middleware"
	"learning-platform/backend/services"
)

// NewApp builds the fiber app with its middleware chain and every route.
func NewApp(svc *services.Services, cfg *config.Config, log *slog.Logger, checks map[string]controllers.HealthCheck) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "learning-platform",
		JSONEncoder:  sonic.Marshal,
		JSONDecoder:  sonic.Unmarshal,
		ErrorHandler: errorHandler(log),
	})

	app.Use(middleware.LoggingMiddleware(log))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
	}))

	SetupRoutes(app, svc, cfg, log, checks)
	return app
}

func errorHandler(log *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
		}
		if code == fiber.StatusInternalServerError {
			log.Error("unhandled error", "path", c.Path(), "error", err)
			return c.Status(code).JSON(fiber.Map{"error": "Internal server error"})
		}
		return c.Status(code).JSON(fiber.Map{"error": err.Error()})
	}
}
