package learning

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"learning-platform/backend/models"
)

func TestIsLessonAccessible(t *testing.T) {
	const user, course = uint(1), uint(1)
	lessons := lessonsFor(course, 3)
	l1, l2, l3 := lessons[0], lessons[1], lessons[2]

	tests := []struct {
		name     string
		lessons  []models.Lesson
		progress []models.StudentProgress
		locked   map[uint]bool
		order    int
		want     bool
	}{
		{
			name:    "first lesson is open",
			lessons: lessons,
			order:   1,
			want:    true,
		},
		{
			name:    "first lesson explicitly locked",
			lessons: lessons,
			locked:  map[uint]bool{l1.ID: true},
			order:   1,
			want:    false,
		},
		{
			name:    "missing lesson",
			lessons: lessons,
			order:   9,
			want:    false,
		},
		{
			name:    "previous lesson without progress",
			lessons: lessons,
			order:   2,
			want:    false,
		},
		{
			name:     "previous lesson not completed",
			lessons:  lessons,
			progress: []models.StudentProgress{{UserID: user, CourseID: course, LessonID: l1.ID}},
			order:    2,
			want:     false,
		},
		{
			name:     "previous lesson completed",
			lessons:  lessons,
			progress: []models.StudentProgress{{UserID: user, CourseID: course, LessonID: l1.ID, Completed: true}},
			order:    2,
			want:     true,
		},
		{
			name:     "lock wins over completed prerequisite",
			lessons:  lessons,
			progress: []models.StudentProgress{{UserID: user, CourseID: course, LessonID: l1.ID, Completed: true}},
			locked:   map[uint]bool{l2.ID: true},
			order:    2,
			want:     false,
		},
		{
			name:     "another student's completion does not count",
			lessons:  lessons,
			progress: []models.StudentProgress{{UserID: 2, CourseID: course, LessonID: l1.ID, Completed: true}},
			order:    2,
			want:     false,
		},
		{
			name:    "gap before the lesson fails open",
			lessons: []models.Lesson{l1, l3},
			order:   3,
			want:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsLessonAccessible(tt.lessons, tt.progress, tt.locked, user, course, tt.order)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsLessonAccessible_Deterministic(t *testing.T) {
	lessons := lessonsFor(1, 2)
	progress := []models.StudentProgress{{UserID: 1, CourseID: 1, LessonID: lessons[0].ID, Completed: true}}
	locked := map[uint]bool{}

	first := IsLessonAccessible(lessons, progress, locked, 1, 1, 2)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, IsLessonAccessible(lessons, progress, locked, 1, 1, 2))
	}
	assert.Len(t, progress, 1)
	assert.Empty(t, locked)
}
