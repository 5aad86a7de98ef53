package controllers

import (
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"learning-platform/backend/config"
	"learning-platform/backend/learning"
	"learning-platform/backend/reports"
	"learning-platform/backend/services"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type AnalyticsController struct {
	Svc *services.Services
	Cfg *config.Config
	log *slog.Logger
}

func NewAnalyticsController(svc *services.Services, cfg *config.Config, log *slog.Logger) *AnalyticsController {
	return &AnalyticsController{Svc: svc, Cfg: cfg, log: log.With("controller", "analytics")}
}

// GetDashboard godoc
// @Summary Per-student-per-course aggregates. ?course_id= narrows to one course.
// @Tags analytics
// @Router /admin/analytics [get]
func (ac *AnalyticsController) GetDashboard(c *fiber.Ctx) error {
	courseID := uint(c.QueryInt("course_id", 0))

	snap, err := ac.Svc.LoadSnapshot(c.UserContext())
	if err != nil {
		return respondError(c, ac.log, err)
	}

	summaries := make([]learning.CourseSummary, 0, len(snap.Assignments))
	for _, s := range snap.Summaries() {
		if courseID != 0 && s.CourseID != courseID {
			continue
		}
		summaries = append(summaries, s)
	}
	return c.JSON(fiber.Map{
		"courses":   len(snap.Courses),
		"students":  len(snap.Students),
		"quiz_sets": len(snap.QuizSets),
		"settings":  snap.Settings,
		"summaries": summaries,
	})
}

// GetCourseReport godoc
// @Summary Progress workbook of one course
// @Tags analytics
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Router /admin/courses/{id}/report [get]
func (ac *AnalyticsController) GetCourseReport(c *fiber.Ctx) error {
	ids, err := paramIDs(c, "id")
	if ids == nil {
		return err
	}
	ctx := c.UserContext()
	if _, err := ac.Svc.Courses.GetCourse(ctx, ids[0]); err != nil {
		return respondError(c, ac.log, err)
	}

	snap, err := ac.Svc.LoadSnapshot(ctx)
	if err != nil {
		return respondError(c, ac.log, err)
	}
	book, err := reports.CourseProgress(snap, ids[0])
	if err != nil {
		return respondError(c, ac.log, err)
	}
	defer book.Close()

	buf, err := book.WriteToBuffer()
	if err != nil {
		return respondError(c, ac.log, err)
	}
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="course-%d-progress.xlsx"`, ids[0]))
	return c.Send(buf.Bytes())
}
