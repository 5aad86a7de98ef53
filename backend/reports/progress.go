// Package reports renders progress exports.
package reports

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"learning-platform/backend/learning"
	"learning-platform/backend/models"
)

const (
	progressSheet = "Progress"
	summarySheet  = "Summary"
)

var progressHeader = []any{
	"Student", "Email", "Order", "Lesson", "Completed", "Time spent (s)",
	"PDF viewed", "Quiz score", "Quiz attempts", "Lesson locked",
}

var summaryHeader = []any{
	"Student", "Email", "Completed lessons", "Lessons", "Completion %",
	"Time spent (s)", "Quiz score", "Quiz total", "Course locked",
}

// CourseProgress builds a workbook with one row per assigned student and lesson of the course,
// plus a summary sheet with one row per student.
func CourseProgress(snap *learning.Snapshot, courseID uint) (*excelize.File, error) {
	course, ok := snap.Course(courseID)
	if !ok {
		return nil, fmt.Errorf("course %d not in snapshot", courseID)
	}
	lessons := snap.Lessons(courseID)

	students := make(map[uint]models.Student, len(snap.Students))
	for _, s := range snap.Students {
		students[s.ID] = s
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", progressSheet); err != nil {
		f.Close()
		return nil, err
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		f.Close()
		return nil, err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, err
	}

	w := &sheetWriter{f: f}
	w.row(progressSheet, 1, progressHeader)
	w.row(summarySheet, 1, summaryHeader)

	progressRow, summaryRow := 2, 2
	for _, sum := range snap.Summaries() {
		if sum.CourseID != course.ID {
			continue
		}
		st := students[sum.UserID]
		locks := snap.LessonLocksFor(sum.UserID, course.ID)
		records := snap.StudentProgress(sum.UserID, course.ID)
		byLesson := make(map[uint]models.StudentProgress, len(records))
		for _, r := range records {
			byLesson[r.LessonID] = r
		}

		for _, l := range lessons {
			p, seen := byLesson[l.ID]
			var score any = ""
			if p.QuizScore != nil {
				score = *p.QuizScore
			}
			w.row(progressSheet, progressRow, []any{
				st.Name, st.Email, l.SequenceOrder, l.Title, yesNo(seen && p.Completed), p.TimeSpent,
				yesNo(p.PDFViewed), score, p.QuizAttempts, yesNo(locks[l.ID]),
			})
			progressRow++
		}

		w.row(summarySheet, summaryRow, []any{
			st.Name, st.Email, sum.CompletedLessons, sum.LessonCount, sum.CompletionRate,
			sum.TimeSpent, sum.Quiz.Score, sum.Quiz.Total, yesNo(sum.Locked),
		})
		summaryRow++
	}

	for _, sheet := range []string{progressSheet, summarySheet} {
		w.err = firstErr(w.err, f.SetRowStyle(sheet, 1, 1, bold))
		w.err = firstErr(w.err, f.SetColWidth(sheet, "A", "D", 24))
	}
	if w.err != nil {
		f.Close()
		return nil, w.err
	}
	f.SetActiveSheet(0)
	return f, nil
}

// sheetWriter keeps the first write error.
type sheetWriter struct {
	f   *excelize.File
	err error
}

func (w *sheetWriter) row(sheet string, row int, values []any) {
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		w.err = err
		return
	}
	w.err = w.f.SetSheetRow(sheet, cell, &values)
}

func firstErr(a, b error) error {
	if a != nil {
		return a
	}
	return b
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
