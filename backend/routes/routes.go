package routes

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"learning-platform/backend/config"
	"learning-platform/backend/controllers"
	"learning-platform/backend/middleware"
	"learning-platform/backend/services"
)

func SetupRoutes(app *fiber.App, svc *services.Services, cfg *config.Config, log *slog.Logger, checks map[string]controllers.HealthCheck) {
	app.Get("/health", controllers.NewHealthController(checks).Health)

	// Auth routes
	authController := controllers.NewAuthController(svc, cfg, log)
	app.Post("/api/auth/register", authController.Register)
	app.Post("/api/auth/login", authController.Login)

	// Middleware
	authMiddleware := middleware.AuthMiddleware(cfg)
	adminMiddleware := middleware.AdminMiddleware()

	coursesController := controllers.NewCoursesController(svc, cfg, log)
	progressController := controllers.NewProgressController(svc, cfg, log)
	quizController := controllers.NewQuizController(svc, cfg, log)
	studentController := controllers.NewStudentController(svc, cfg, log)
	offeringController := controllers.NewOfferingController(svc, cfg, log)
	analyticsController := controllers.NewAnalyticsController(svc, cfg, log)

	app.Get("/api/profile", authMiddleware, studentController.GetProfile)
	app.Get("/api/offerings", authMiddleware, offeringController.ListActive)

	// Student course routes
	courses := app.Group("/api/courses", authMiddleware)
	courses.Get("/", coursesController.GetUserCourses)
	courses.Get("/:id", coursesController.GetCourseDetails)
	courses.Get("/:id/lessons/:order", coursesController.GetLesson)
	courses.Post("/:id/lessons/:lessonId/time", progressController.AddTimeSpent)
	courses.Post("/:id/lessons/:lessonId/complete", progressController.CompleteLesson)
	courses.Post("/:id/lessons/:lessonId/quiz", progressController.SubmitQuiz)

	admin := app.Group("/api/admin", authMiddleware, adminMiddleware)
	admin.Get("/analytics", analyticsController.GetDashboard)

	// Admin routes for courses
	adminCourses := admin.Group("/courses")
	adminCourses.Get("/", coursesController.ListCourses)
	adminCourses.Post("/", coursesController.CreateCourse)
	adminCourses.Put("/:id", coursesController.UpdateCourse)
	adminCourses.Delete("/:id", coursesController.DeleteCourse)
	adminCourses.Get("/:id/report", analyticsController.GetCourseReport)
	adminCourses.Post("/:id/lessons", coursesController.AddLesson)
	adminCourses.Put("/:id/lessons/:lessonId", coursesController.UpdateLesson)
	adminCourses.Delete("/:id/lessons/:lessonId", coursesController.DeleteLesson)
	adminCourses.Put("/:id/lessons/:lessonId/order", coursesController.MoveLesson)

	// Admin routes for quizzes
	adminQuizzes := admin.Group("/quizzes")
	adminQuizzes.Get("/", quizController.ListQuizSets)
	adminQuizzes.Post("/", quizController.CreateQuizSet)
	adminQuizzes.Get("/:id", quizController.GetQuizSet)
	adminQuizzes.Put("/:id", quizController.UpdateQuizSet)
	adminQuizzes.Delete("/:id", quizController.DeleteQuizSet)
	adminQuizzes.Post("/:id/questions", quizController.AddQuestion)
	adminQuizzes.Put("/:id/questions/:questionId", quizController.UpdateQuestion)
	adminQuizzes.Delete("/:id/questions/:questionId", quizController.DeleteQuestion)
	admin.Get("/quiz-settings", quizController.GetSettings)
	admin.Put("/quiz-settings", quizController.UpdateSettings)

	// Admin routes for students
	adminStudents := admin.Group("/students")
	adminStudents.Get("/", studentController.ListStudents)
	adminStudents.Post("/", studentController.CreateStudent)
	adminStudents.Get("/:id", studentController.GetStudent)
	adminStudents.Put("/:id", studentController.UpdateStudent)
	adminStudents.Delete("/:id", studentController.DeleteStudent)
	adminStudents.Post("/:id/courses/:courseId", studentController.AssignCourse)
	adminStudents.Delete("/:id/courses/:courseId", studentController.UnassignCourse)
	adminStudents.Post("/:id/courses/:courseId/lock", studentController.ToggleCourseLock)
	adminStudents.Get("/:id/courses/:courseId/lesson-locks", studentController.GetLessonLocks)
	adminStudents.Post("/:id/courses/:courseId/lessons/:lessonId/lock", studentController.ToggleLessonLock)

	// Admin routes for offerings
	adminOfferings := admin.Group("/offerings")
	adminOfferings.Get("/", offeringController.ListAll)
	adminOfferings.Post("/", offeringController.CreateOffering)
	adminOfferings.Put("/:id", offeringController.UpdateOffering)
	adminOfferings.Delete("/:id", offeringController.DeleteOffering)
}
