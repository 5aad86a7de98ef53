package controllers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"learning-platform/backend/config"
	"learning-platform/backend/middleware"
	"learning-platform/backend/models"
	"learning-platform/backend/services"
	"learning-platform/backend/utils"
)

type CoursesController struct {
	Svc *services.Services
	Cfg *config.Config
	log *slog.Logger
}

func NewCoursesController(svc *services.Services, cfg *config.Config, log *slog.Logger) *CoursesController {
	return &CoursesController{Svc: svc, Cfg: cfg, log: log.With("controller", "courses")}
}

type CourseRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
}

type LessonRequest struct {
	Title           string `json:"title" validate:"required"`
	Description     string `json:"description"`
	DocumentURL     string `json:"document_url" validate:"omitempty,url"`
	InstructorNotes string `json:"instructor_notes"`
	QuizSetID       *uint  `json:"quiz_set_id"`
}

func (r LessonRequest) lesson() models.Lesson {
	return models.Lesson{
		Title:           r.Title,
		Description:     r.Description,
		DocumentURL:     r.DocumentURL,
		InstructorNotes: r.InstructorNotes,
		QuizSetID:       r.QuizSetID,
	}
}

type MoveLessonRequest struct {
	Order int `json:"order" validate:"required,min=1"`
}

// GetUserCourses godoc
// @Summary Courses assigned to the caller, with completion aggregates
// @Tags courses
// @Router /courses [get]
func (cc *CoursesController) GetUserCourses(c *fiber.Ctx) error {
	cards, err := cc.Svc.Progress.StudentCourses(c.UserContext(), middleware.CurrentUser(c))
	if err != nil {
		return respondError(c, cc.log, err)
	}
	return c.JSON(fiber.Map{"courses": cards})
}

// GetCourseDetails godoc
// @Summary Per-lesson state of one course
// @Tags courses
// @Router /courses/{id} [get]
func (cc *CoursesController) GetCourseDetails(c *fiber.Ctx) error {
	ids, err := paramIDs(c, "id")
	if ids == nil {
		return err
	}
	overview, err := cc.Svc.Progress.CourseOverview(c.UserContext(), middleware.CurrentUser(c), ids[0])
	if err != nil {
		return respondError(c, cc.log, err)
	}
	return c.JSON(overview)
}

// GetLesson godoc
// @Summary Open a lesson by its order. ?pdf_viewed=true marks the document as viewed.
// @Tags courses
// @Router /courses/{id}/lessons/{order} [get]
func (cc *CoursesController) GetLesson(c *fiber.Ctx) error {
	ids, err := paramIDs(c, "id", "order")
	if ids == nil {
		return err
	}
	view, err := cc.Svc.Progress.RecordView(c.UserContext(), middleware.CurrentUser(c), ids[0], int(ids[1]), c.QueryBool("pdf_viewed"))
	if err != nil {
		return respondError(c, cc.log, err)
	}
	return c.JSON(view)
}

func (cc *CoursesController) ListCourses(c *fiber.Ctx) error {
	courses, err := cc.Svc.Courses.ListCourses(c.UserContext())
	if err != nil {
		return respondError(c, cc.log, err)
	}
	return c.JSON(fiber.Map{"courses": courses})
}

func (cc *CoursesController) CreateCourse(c *fiber.Ctx) error {
	var input CourseRequest
	if ok, err := parseBody(c, &input); !ok {
		return err
	}
	course, err := cc.Svc.Courses.CreateCourse(c.UserContext(), input.Title, input.Description)
	if err != nil {
		return respondError(c, cc.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Course created",
		"course":  course,
	})
}

func (cc *CoursesController) UpdateCourse(c *fiber.Ctx) error {
	ids, err := paramIDs(c, "id")
	if ids == nil {
		return err
	}
	var input CourseRequest
	if ok, err := parseBody(c, &input); !ok {
		return err
	}
	course, err := cc.Svc.Courses.UpdateCourse(c.UserContext(), ids[0], input.Title, input.Description)
	if err != nil {
		return respondError(c, cc.log, err)
	}
	return c.JSON(fiber.Map{
		"message": "Course updated",
		"course":  course,
	})
}

// DeleteCourse removes the course with its lessons, progress, assignments and lesson locks.
func (cc *CoursesController) DeleteCourse(c *fiber.Ctx) error {
	ids, err := paramIDs(c, "id")
	if ids == nil {
		return err
	}
	if err := cc.Svc.Courses.DeleteCourse(c.UserContext(), ids[0]); err != nil {
		return respondError(c, cc.log, err)
	}
	return utils.NoContent(c)
}

func (cc *CoursesController) AddLesson(c *fiber.Ctx) error {
	ids, err := paramIDs(c, "id")
	if ids == nil {
		return err
	}
	var input LessonRequest
	if ok, err := parseBody(c, &input); !ok {
		return err
	}
	lesson, err := cc.Svc.Courses.AddLesson(c.UserContext(), ids[0], input.lesson())
	if err != nil {
		return respondError(c, cc.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Lesson added",
		"lesson":  lesson,
	})
}

func (cc *CoursesController) UpdateLesson(c *fiber.Ctx) error {
	ids, err := paramIDs(c, "id", "lessonId")
	if ids == nil {
		return err
	}
	var input LessonRequest
	if ok, err := parseBody(c, &input); !ok {
		return err
	}
	lesson := input.lesson()
	lesson.ID = ids[1]
	updated, err := cc.Svc.Courses.UpdateLesson(c.UserContext(), ids[0], lesson)
	if err != nil {
		return respondError(c, cc.log, err)
	}
	return c.JSON(fiber.Map{
		"message": "Lesson updated",
		"lesson":  updated,
	})
}

// DeleteLesson removes a lesson and closes the gap in the course order.
func (cc *CoursesController) DeleteLesson(c *fiber.Ctx) error {
	ids, err := paramIDs(c, "id", "lessonId")
	if ids == nil {
		return err
	}
	if err := cc.Svc.Courses.DeleteLesson(c.UserContext(), ids[0], ids[1]); err != nil {
		return respondError(c, cc.log, err)
	}
	return utils.NoContent(c)
}

func (cc *CoursesController) MoveLesson(c *fiber.Ctx) error {
	ids, err := paramIDs(c, "id", "lessonId")
	if ids == nil {
		return err
	}
	var input MoveLessonRequest
	if ok, err := parseBody(c, &input); !ok {
		return err
	}
	lessons, err := cc.Svc.Courses.MoveLesson(c.UserContext(), ids[0], ids[1], input.Order)
	if err != nil {
		return respondError(c, cc.log, err)
	}
	return c.JSON(fiber.Map{"lessons": lessons})
}
