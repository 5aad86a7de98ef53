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

type StudentController struct {
	Svc *services.Services
	Cfg *config.Config
	log *slog.Logger
}

func NewStudentController(svc *services.Services, cfg *config.Config, log *slog.Logger) *StudentController {
	return &StudentController{Svc: svc, Cfg: cfg, log: log.With("controller", "students")}
}

type CreateStudentRequest struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	Role            string `json:"role" validate:"omitempty,oneof=student admin"`
	ProfileImageURL string `json:"profile_image_url" validate:"omitempty,url"`
}

// UpdateStudentRequest leaves empty fields unchanged.
type UpdateStudentRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email" validate:"omitempty,email"`
	Password        string `json:"password" validate:"omitempty,min=6"`
	Role            string `json:"role" validate:"omitempty,oneof=student admin"`
	ProfileImageURL string `json:"profile_image_url" validate:"omitempty,url"`
}

// GetProfile godoc
// @Summary The caller's account and course assignments
// @Tags users
// @Router /profile [get]
func (sc *StudentController) GetProfile(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	student, err := sc.Svc.Students.GetStudent(c.UserContext(), user.ID)
	if err != nil {
		return respondError(c, sc.log, err)
	}
	assignments, err := sc.Svc.Students.Assignments(c.UserContext(), user.ID)
	if err != nil {
		return respondError(c, sc.log, err)
	}
	return c.JSON(fiber.Map{
		"user":        student,
		"assignments": assignments,
	})
}

func (sc *StudentController) ListStudents(c *fiber.Ctx) error {
	students, err := sc.Svc.Students.ListStudents(c.UserContext())
	if err != nil {
		return respondError(c, sc.log, err)
	}
	return c.JSON(fiber.Map{"students": students})
}

func (sc *StudentController) GetStudent(c *fiber.Ctx) error {
	ids, err := paramIDs(c, "id")
	if ids == nil {
		return err
	}
	student, err := sc.Svc.Students.GetStudent(c.UserContext(), ids[0])
	if err != nil {
		return respondError(c, sc.log, err)
	}
	assignments, err := sc.Svc.Students.Assignments(c.UserContext(), ids[0])
	if err != nil {
		return respondError(c, sc.log, err)
	}
	return c.JSON(fiber.Map{
		"student":     student,
		"assignments": assignments,
	})
}

func (sc *StudentController) CreateStudent(c *fiber.Ctx) error {
	var input CreateStudentRequest
	if ok, err := parseBody(c, &input); !ok {
		return err
	}
	student, err := sc.Svc.Students.CreateStudent(c.UserContext(), services.StudentInput(input))
	if err != nil {
		return respondError(c, sc.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Student created",
		"student": student,
	})
}

func (sc *StudentController) UpdateStudent(c *fiber.Ctx) error {
	ids, err := paramIDs(c, "id")
	if ids == nil {
		return err
	}
	var input UpdateStudentRequest
	if ok, err := parseBody(c, &input); !ok {
		return err
	}
	student, err := sc.Svc.Students.UpdateStudent(c.UserContext(), ids[0], services.StudentInput(input))
	if err != nil {
		return respondError(c, sc.log, err)
	}
	return c.JSON(fiber.Map{
		"message": "Student updated",
		"student": student,
	})
}

// DeleteStudent removes the account with its assignments, progress and lesson locks.
func (sc *StudentController) DeleteStudent(c *fiber.Ctx) error {
	ids, err := paramIDs(c, "id")
	if ids == nil {
		return err
	}
	if err := sc.Svc.Students.DeleteStudent(c.UserContext(), ids[0]); err != nil {
		return respondError(c, sc.log, err)
	}
	return utils.NoContent(c)
}

func (sc *StudentController) AssignCourse(c *fiber.Ctx) error {
	ids, err := paramIDs(c, "id", "courseId")
	if ids == nil {
		return err
	}
	if err := sc.Svc.Students.AssignCourse(c.UserContext(), ids[0], ids[1]); err != nil {
		return respondError(c, sc.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Course assigned"})
}

// UnassignCourse drops the assignment together with the student's progress and lesson locks in it.
func (sc *StudentController) UnassignCourse(c *fiber.Ctx) error {
	ids, err := paramIDs(c, "id", "courseId")
	if ids == nil {
		return err
	}
	if err := sc.Svc.Students.UnassignCourse(c.UserContext(), ids[0], ids[1]); err != nil {
		return respondError(c, sc.log, err)
	}
	return utils.NoContent(c)
}

// ToggleCourseLock godoc
// @Summary Flip the course lock of one assignment
// @Tags students
// @Router /admin/students/{id}/courses/{courseId}/lock [post]
func (sc *StudentController) ToggleCourseLock(c *fiber.Ctx) error {
	ids, err := paramIDs(c, "id", "courseId")
	if ids == nil {
		return err
	}
	locked, err := sc.Svc.Locks.ToggleCourseLock(c.UserContext(), ids[0], ids[1])
	if err != nil {
		return respondError(c, sc.log, err)
	}
	return c.JSON(fiber.Map{"locked": locked})
}

func (sc *StudentController) GetLessonLocks(c *fiber.Ctx) error {
	ids, err := paramIDs(c, "id", "courseId")
	if ids == nil {
		return err
	}
	locks, err := sc.Svc.Locks.GetLessonLocks(c.UserContext(), ids[0], ids[1])
	if err != nil {
		return respondError(c, sc.log, err)
	}
	return c.JSON(fiber.Map{"locks": locks})
}

func (sc *StudentController) ToggleLessonLock(c *fiber.Ctx) error {
	ids, err := paramIDs(c, "id", "courseId", "lessonId")
	if ids == nil {
		return err
	}
	key := models.ProgressKey{UserID: ids[0], CourseID: ids[1], LessonID: ids[2]}
	locked, err := sc.Svc.Locks.ToggleLessonLock(c.UserContext(), key)
	if err != nil {
		return respondError(c, sc.log, err)
	}
	return c.JSON(fiber.Map{"lesson_id": key.LessonID, "locked": locked})
}
