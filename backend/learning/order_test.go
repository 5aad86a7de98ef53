package learning

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"learning-platform/backend/models"
)

func orders(lessons []models.Lesson) []int {
	out := make([]int, 0, len(lessons))
	for _, l := range SortLessons(lessons) {
		out = append(out, l.SequenceOrder)
	}
	return out
}

func TestRenumberWithout_ClosesGap(t *testing.T) {
	lessons := lessonsFor(1, 3)

	changes := RenumberWithout(lessons, lessons[1].ID)

	assert.Equal(t, []OrderChange{{LessonID: lessons[2].ID, Order: 2}}, changes)

	rest := ApplyOrder([]models.Lesson{lessons[0], lessons[2]}, changes)
	assert.Equal(t, []int{1, 2}, orders(rest))
}

func TestRenumber_AlreadyDense(t *testing.T) {
	assert.Empty(t, Renumber(lessonsFor(1, 4)))
}

func TestMove(t *testing.T) {
	lessons := lessonsFor(1, 4)

	t.Run("move last to first", func(t *testing.T) {
		changes := Move(lessons, lessons[3].ID, 1)
		moved := SortLessons(ApplyOrder(lessons, changes))
		assert.Equal(t, []int{1, 2, 3, 4}, orders(moved))
		assert.Equal(t, lessons[3].ID, moved[0].ID)
		assert.Equal(t, lessons[0].ID, moved[1].ID)
	})

	t.Run("clamps out of range", func(t *testing.T) {
		changes := Move(lessons, lessons[0].ID, 42)
		moved := SortLessons(ApplyOrder(lessons, changes))
		assert.Equal(t, lessons[0].ID, moved[3].ID)
	})

	t.Run("unknown lesson", func(t *testing.T) {
		assert.Nil(t, Move(lessons, 9999, 1))
	})
}

func TestNextOrderAndNextLesson(t *testing.T) {
	lessons := lessonsFor(1, 3)

	assert.Equal(t, 4, NextOrder(lessons))
	assert.Equal(t, 1, NextOrder(nil))

	next, ok := NextLesson(lessons, lessons[0])
	assert.True(t, ok)
	assert.Equal(t, lessons[1].ID, next.ID)

	_, ok = NextLesson(lessons, lessons[2])
	assert.False(t, ok)
}
