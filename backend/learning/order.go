package learning

import (
	"sort"

	"learning-platform/backend/models"
)

// OrderChange moves one lesson to a new SequenceOrder.
type OrderChange struct {
	LessonID uint
	Order    int
}

// SortLessons returns a copy of lessons sorted by SequenceOrder, ties broken by ID.
func SortLessons(lessons []models.Lesson) []models.Lesson {
	out := make([]models.Lesson, len(lessons))
	copy(out, lessons)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].SequenceOrder != out[j].SequenceOrder {
			return out[i].SequenceOrder < out[j].SequenceOrder
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func LessonAt(lessons []models.Lesson, courseID uint, order int) (models.Lesson, bool) {
	for _, l := range lessons {
		if l.CourseID == courseID && l.SequenceOrder == order {
			return l, true
		}
	}
	return models.Lesson{}, false
}

// NextLesson is the lesson at lesson.SequenceOrder+1 in the same course.
func NextLesson(lessons []models.Lesson, lesson models.Lesson) (models.Lesson, bool) {
	return LessonAt(lessons, lesson.CourseID, lesson.SequenceOrder+1)
}

// NextOrder is the order a newly appended lesson gets.
func NextOrder(lessons []models.Lesson) int {
	highest := 0
	for _, l := range lessons {
		if l.SequenceOrder > highest {
			highest = l.SequenceOrder
		}
	}
	return highest + 1
}

// Renumber closes gaps so the remaining lessons are ordered 1..N, keeping their relative order.
// Only lessons whose order changes are returned.
func Renumber(lessons []models.Lesson) []OrderChange {
	var changes []OrderChange
	for i, l := range SortLessons(lessons) {
		if l.SequenceOrder != i+1 {
			changes = append(changes, OrderChange{LessonID: l.ID, Order: i + 1})
		}
	}
	return changes
}

// RenumberWithout renumbers the lessons left after removing removedID.
func RenumberWithout(lessons []models.Lesson, removedID uint) []OrderChange {
	rest := make([]models.Lesson, 0, len(lessons))
	for _, l := range lessons {
		if l.ID != removedID {
			rest = append(rest, l)
		}
	}
	return Renumber(rest)
}

// Move places lessonID at newOrder (clamped to 1..N) and shifts the others to keep the sequence dense.
func Move(lessons []models.Lesson, lessonID uint, newOrder int) []OrderChange {
	sorted := SortLessons(lessons)
	idx := -1
	for i, l := range sorted {
		if l.ID == lessonID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	if newOrder < 1 {
		newOrder = 1
	}
	if newOrder > len(sorted) {
		newOrder = len(sorted)
	}

	moved := sorted[idx]
	rest := append(append([]models.Lesson{}, sorted[:idx]...), sorted[idx+1:]...)
	reordered := make([]models.Lesson, 0, len(sorted))
	reordered = append(reordered, rest[:newOrder-1]...)
	reordered = append(reordered, moved)
	reordered = append(reordered, rest[newOrder-1:]...)

	var changes []OrderChange
	for i, l := range reordered {
		if l.SequenceOrder != i+1 {
			changes = append(changes, OrderChange{LessonID: l.ID, Order: i + 1})
		}
	}
	return changes
}

// ApplyOrder returns a copy of lessons with changes applied.
func ApplyOrder(lessons []models.Lesson, changes []OrderChange) []models.Lesson {
	byID := make(map[uint]int, len(changes))
	for _, c := range changes {
		byID[c.LessonID] = c.Order
	}
	out := make([]models.Lesson, len(lessons))
	for i, l := range lessons {
		if o, ok := byID[l.ID]; ok {
			l.SequenceOrder = o
		}
		out[i] = l
	}
	return out
}
