package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"learning-platform/backend/models"
)

type assignmentKey struct {
	userID   uint
	courseID uint
}

// MemoryStore is an in-memory Store. It backs tests and the "memory" store driver.
type MemoryStore struct {
	mu sync.RWMutex

	nextID      uint
	courses     map[uint]models.Course
	lessons     map[uint]models.Lesson
	quizSets    map[uint]models.QuizSet
	questions   map[uint]models.QuizQuestion
	settings    *models.QuizSettings
	students    map[uint]models.Student
	assignments map[assignmentKey]models.CourseAssignment
	progress    map[models.ProgressKey]models.StudentProgress
	locks       map[models.ProgressKey]models.LessonLock
	offerings   map[uint]models.ServiceOffering
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		courses:     make(map[uint]models.Course),
		lessons:     make(map[uint]models.Lesson),
		quizSets:    make(map[uint]models.QuizSet),
		questions:   make(map[uint]models.QuizQuestion),
		students:    make(map[uint]models.Student),
		assignments: make(map[assignmentKey]models.CourseAssignment),
		progress:    make(map[models.ProgressKey]models.StudentProgress),
		locks:       make(map[models.ProgressKey]models.LessonLock),
		offerings:   make(map[uint]models.ServiceOffering),
	}
}

func (s *MemoryStore) id() uint {
	s.nextID++
	return s.nextID
}

func notFound(kind string, id any) error {
	return fmt.Errorf("%s %v: %w", kind, id, ErrNotFound)
}

// --- courses ---

func (s *MemoryStore) CreateCourse(_ context.Context, course *models.Course) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lessons := course.Lessons
	seen := make(map[int]bool, len(lessons))
	for _, l := range lessons {
		if seen[l.SequenceOrder] {
			return fmt.Errorf("lesson order %d: %w", l.SequenceOrder, ErrConflict)
		}
		seen[l.SequenceOrder] = true
	}

	now := time.Now()
	course.ID = s.id()
	course.CreatedAt, course.UpdatedAt = now, now
	course.Lessons = nil
	s.courses[course.ID] = *course
	for i := range lessons {
		lessons[i].CourseID = course.ID
		s.insertLesson(&lessons[i])
	}
	course.Lessons = lessons
	return nil
}

func (s *MemoryStore) GetCourse(_ context.Context, id uint) (*models.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.courses[id]
	if !ok {
		return nil, notFound("course", id)
	}
	c.Lessons = s.courseLessons(id)
	return &c, nil
}

func (s *MemoryStore) ListCourses(_ context.Context) ([]models.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Course, 0, len(s.courses))
	for _, c := range s.courses {
		c.Lessons = s.courseLessons(c.ID)
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) UpdateCourse(_ context.Context, course *models.Course) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.courses[course.ID]
	if !ok {
		return notFound("course", course.ID)
	}
	existing.Title = course.Title
	existing.Description = course.Description
	existing.UpdatedAt = time.Now()
	s.courses[course.ID] = existing
	*course = existing
	course.Lessons = s.courseLessons(course.ID)
	return nil
}

func (s *MemoryStore) DeleteCourse(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.courses[id]; !ok {
		return notFound("course", id)
	}
	delete(s.courses, id)
	for lid, l := range s.lessons {
		if l.CourseID == id {
			delete(s.lessons, lid)
		}
	}
	for k := range s.assignments {
		if k.courseID == id {
			delete(s.assignments, k)
		}
	}
	s.dropProgress(func(k models.ProgressKey) bool { return k.CourseID == id })
	return nil
}

// --- lessons ---

func (s *MemoryStore) insertLesson(lesson *models.Lesson) {
	now := time.Now()
	lesson.ID = s.id()
	lesson.CreatedAt, lesson.UpdatedAt = now, now
	s.lessons[lesson.ID] = *lesson
}

func (s *MemoryStore) courseLessons(courseID uint) []models.Lesson {
	var out []models.Lesson
	for _, l := range s.lessons {
		if l.CourseID == courseID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SequenceOrder != out[j].SequenceOrder {
			return out[i].SequenceOrder < out[j].SequenceOrder
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (s *MemoryStore) CreateLesson(_ context.Context, lesson *models.Lesson) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.courses[lesson.CourseID]; !ok {
		return notFound("course", lesson.CourseID)
	}
	for _, l := range s.lessons {
		if l.CourseID == lesson.CourseID && l.SequenceOrder == lesson.SequenceOrder {
			return fmt.Errorf("lesson order %d: %w", lesson.SequenceOrder, ErrConflict)
		}
	}
	s.insertLesson(lesson)
	return nil
}

func (s *MemoryStore) GetLesson(_ context.Context, id uint) (*models.Lesson, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.lessons[id]
	if !ok {
		return nil, notFound("lesson", id)
	}
	return &l, nil
}

func (s *MemoryStore) ListLessons(_ context.Context, courseID uint) ([]models.Lesson, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.courseLessons(courseID), nil
}

func (s *MemoryStore) UpdateLesson(_ context.Context, lesson *models.Lesson) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.lessons[lesson.ID]
	if !ok {
		return notFound("lesson", lesson.ID)
	}
	lesson.CourseID = existing.CourseID
	lesson.CreatedAt = existing.CreatedAt
	lesson.UpdatedAt = time.Now()
	s.lessons[lesson.ID] = *lesson
	return nil
}

func (s *MemoryStore) DeleteLesson(_ context.Context, id uint, reorder map[uint]int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.lessons[id]; !ok {
		return notFound("lesson", id)
	}
	delete(s.lessons, id)
	s.dropProgress(func(k models.ProgressKey) bool { return k.LessonID == id })
	s.applyOrders(reorder)
	return nil
}

func (s *MemoryStore) SetLessonOrders(_ context.Context, courseID uint, orders map[uint]int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id := range orders {
		l, ok := s.lessons[id]
		if !ok || l.CourseID != courseID {
			return notFound("lesson", id)
		}
	}
	s.applyOrders(orders)
	return nil
}

func (s *MemoryStore) applyOrders(orders map[uint]int) {
	for id, order := range orders {
		if l, ok := s.lessons[id]; ok {
			l.SequenceOrder = order
			l.UpdatedAt = time.Now()
			s.lessons[id] = l
		}
	}
}

// dropProgress deletes progress rows and lesson locks whose key matches.
func (s *MemoryStore) dropProgress(match func(models.ProgressKey) bool) {
	for k := range s.progress {
		if match(k) {
			delete(s.progress, k)
		}
	}
	for k := range s.locks {
		if match(k) {
			delete(s.locks, k)
		}
	}
}

// --- quizzes ---

func (s *MemoryStore) CreateQuizSet(_ context.Context, set *models.QuizSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	set.ID = s.id()
	set.CreatedAt, set.UpdatedAt = now, now
	for i := range set.Questions {
		set.Questions[i].QuizSetID = set.ID
		set.Questions[i].ID = s.id()
		s.questions[set.Questions[i].ID] = copyQuestion(set.Questions[i])
	}
	stored := *set
	stored.Questions = nil
	s.quizSets[set.ID] = stored
	return nil
}

func (s *MemoryStore) quizSetWithQuestions(set models.QuizSet) models.QuizSet {
	set.Questions = []models.QuizQuestion{}
	for _, q := range s.questions {
		if q.QuizSetID == set.ID {
			set.Questions = append(set.Questions, copyQuestion(q))
		}
	}
	sort.Slice(set.Questions, func(i, j int) bool {
		if set.Questions[i].Position != set.Questions[j].Position {
			return set.Questions[i].Position < set.Questions[j].Position
		}
		return set.Questions[i].ID < set.Questions[j].ID
	})
	return set
}

func (s *MemoryStore) GetQuizSet(_ context.Context, id uint) (*models.QuizSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	set, ok := s.quizSets[id]
	if !ok {
		return nil, notFound("quiz set", id)
	}
	set = s.quizSetWithQuestions(set)
	return &set, nil
}

func (s *MemoryStore) ListQuizSets(_ context.Context) ([]models.QuizSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.QuizSet, 0, len(s.quizSets))
	for _, set := range s.quizSets {
		out = append(out, s.quizSetWithQuestions(set))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) UpdateQuizSet(_ context.Context, set *models.QuizSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.quizSets[set.ID]
	if !ok {
		return notFound("quiz set", set.ID)
	}
	existing.Title = set.Title
	existing.UpdatedAt = time.Now()
	s.quizSets[set.ID] = existing
	*set = s.quizSetWithQuestions(existing)
	return nil
}

func (s *MemoryStore) DeleteQuizSet(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.quizSets[id]; !ok {
		return notFound("quiz set", id)
	}
	delete(s.quizSets, id)
	for qid, q := range s.questions {
		if q.QuizSetID == id {
			delete(s.questions, qid)
		}
	}
	for lid, l := range s.lessons {
		if l.QuizSetID != nil && *l.QuizSetID == id {
			l.QuizSetID = nil
			s.lessons[lid] = l
		}
	}
	return nil
}

func copyQuestion(q models.QuizQuestion) models.QuizQuestion {
	q.Options = append(q.Options[:0:0], q.Options...)
	return q
}

func (s *MemoryStore) CreateQuestion(_ context.Context, q *models.QuizQuestion) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.quizSets[q.QuizSetID]; !ok {
		return notFound("quiz set", q.QuizSetID)
	}
	q.ID = s.id()
	s.questions[q.ID] = copyQuestion(*q)
	return nil
}

func (s *MemoryStore) GetQuestion(_ context.Context, id uint) (*models.QuizQuestion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q, ok := s.questions[id]
	if !ok {
		return nil, notFound("question", id)
	}
	q = copyQuestion(q)
	return &q, nil
}

func (s *MemoryStore) UpdateQuestion(_ context.Context, q *models.QuizQuestion) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.questions[q.ID]
	if !ok {
		return notFound("question", q.ID)
	}
	q.QuizSetID = existing.QuizSetID
	s.questions[q.ID] = copyQuestion(*q)
	return nil
}

func (s *MemoryStore) DeleteQuestion(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.questions[id]; !ok {
		return notFound("question", id)
	}
	delete(s.questions, id)
	return nil
}

func (s *MemoryStore) GetQuizSettings(_ context.Context) (*models.QuizSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.settings == nil {
		return nil, notFound("quiz settings", "singleton")
	}
	cp := *s.settings
	return &cp, nil
}

func (s *MemoryStore) SaveQuizSettings(_ context.Context, settings *models.QuizSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := models.NewQuizSettings(settings.PassMarkPercentage, settings.EnforcePassMark)
	cp.UpdatedAt = time.Now()
	s.settings = &cp
	*settings = cp
	return nil
}

// --- students ---

func (s *MemoryStore) CreateStudent(_ context.Context, student *models.Student) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.students {
		if strings.EqualFold(existing.Email, student.Email) {
			return fmt.Errorf("student email %s: %w", student.Email, ErrConflict)
		}
	}
	now := time.Now()
	student.ID = s.id()
	student.CreatedAt, student.UpdatedAt = now, now
	s.students[student.ID] = *student
	return nil
}

func (s *MemoryStore) GetStudent(_ context.Context, id uint) (*models.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.students[id]
	if !ok {
		return nil, notFound("student", id)
	}
	return &st, nil
}

func (s *MemoryStore) GetStudentByEmail(_ context.Context, email string) (*models.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, st := range s.students {
		if strings.EqualFold(st.Email, email) {
			return &st, nil
		}
	}
	return nil, notFound("student", email)
}

func (s *MemoryStore) ListStudents(_ context.Context) ([]models.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Student, 0, len(s.students))
	for _, st := range s.students {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) UpdateStudent(_ context.Context, student *models.Student) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.students[student.ID]
	if !ok {
		return notFound("student", student.ID)
	}
	for id, other := range s.students {
		if id != student.ID && strings.EqualFold(other.Email, student.Email) {
			return fmt.Errorf("student email %s: %w", student.Email, ErrConflict)
		}
	}
	student.CreatedAt = existing.CreatedAt
	student.UpdatedAt = time.Now()
	s.students[student.ID] = *student
	return nil
}

func (s *MemoryStore) DeleteStudent(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.students[id]; !ok {
		return notFound("student", id)
	}
	delete(s.students, id)
	for k := range s.assignments {
		if k.userID == id {
			delete(s.assignments, k)
		}
	}
	s.dropProgress(func(k models.ProgressKey) bool { return k.UserID == id })
	return nil
}

// --- assignments ---

func (s *MemoryStore) AssignCourse(_ context.Context, userID, courseID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.students[userID]; !ok {
		return notFound("student", userID)
	}
	if _, ok := s.courses[courseID]; !ok {
		return notFound("course", courseID)
	}
	k := assignmentKey{userID, courseID}
	if _, ok := s.assignments[k]; ok {
		return nil
	}
	s.assignments[k] = models.CourseAssignment{UserID: userID, CourseID: courseID, CreatedAt: time.Now()}
	return nil
}

func (s *MemoryStore) UnassignCourse(_ context.Context, userID, courseID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := assignmentKey{userID, courseID}
	if _, ok := s.assignments[k]; !ok {
		return notFound("assignment", fmt.Sprintf("%d/%d", userID, courseID))
	}
	delete(s.assignments, k)
	s.dropProgress(func(pk models.ProgressKey) bool { return pk.UserID == userID && pk.CourseID == courseID })
	return nil
}

func (s *MemoryStore) GetAssignment(_ context.Context, userID, courseID uint) (*models.CourseAssignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.assignments[assignmentKey{userID, courseID}]
	if !ok {
		return nil, notFound("assignment", fmt.Sprintf("%d/%d", userID, courseID))
	}
	return &a, nil
}

func (s *MemoryStore) ListAssignments(_ context.Context, userID uint) ([]models.CourseAssignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.CourseAssignment
	for k, a := range s.assignments {
		if userID == 0 || k.userID == userID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UserID != out[j].UserID {
			return out[i].UserID < out[j].UserID
		}
		return out[i].CourseID < out[j].CourseID
	})
	return out, nil
}

func (s *MemoryStore) ToggleAssignmentLock(_ context.Context, userID, courseID uint) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := assignmentKey{userID, courseID}
	a, ok := s.assignments[k]
	if !ok {
		return false, notFound("assignment", fmt.Sprintf("%d/%d", userID, courseID))
	}
	a.Locked = !a.Locked
	s.assignments[k] = a
	for pk, p := range s.progress {
		if pk.UserID == userID && pk.CourseID == courseID {
			p.Locked = a.Locked
			s.progress[pk] = p
		}
	}
	return a.Locked, nil
}

// --- progress ---

func copyProgress(p models.StudentProgress) models.StudentProgress {
	if p.QuizScore != nil {
		v := *p.QuizScore
		p.QuizScore = &v
	}
	if p.QuizSetID != nil {
		v := *p.QuizSetID
		p.QuizSetID = &v
	}
	return p
}

func (s *MemoryStore) GetProgress(_ context.Context, key models.ProgressKey) (*models.StudentProgress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.progress[key]
	if !ok {
		return nil, notFound("progress", key)
	}
	p = copyProgress(p)
	return &p, nil
}

func (s *MemoryStore) ListProgress(_ context.Context, filter ProgressFilter) ([]models.StudentProgress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.StudentProgress
	for _, p := range s.progress {
		if filter.matches(p) {
			out = append(out, copyProgress(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) SaveProgress(_ context.Context, p *models.StudentProgress) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if existing, ok := s.progress[p.Key()]; ok {
		p.ID = existing.ID
		p.CreatedAt = existing.CreatedAt
	} else {
		p.ID = s.id()
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	s.progress[p.Key()] = copyProgress(*p)
	return nil
}

func (s *MemoryStore) CreateProgressIfAbsent(_ context.Context, p *models.StudentProgress) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.progress[p.Key()]; ok {
		return false, nil
	}
	now := time.Now()
	p.ID = s.id()
	p.CreatedAt, p.UpdatedAt = now, now
	s.progress[p.Key()] = copyProgress(*p)
	return true, nil
}

// --- lesson locks ---

func (s *MemoryStore) IsLessonLocked(_ context.Context, key models.ProgressKey) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.locks[key]
	return ok, nil
}

func (s *MemoryStore) ListLessonLocks(_ context.Context, userID, courseID uint) ([]models.LessonLock, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.LessonLock
	for k, l := range s.locks {
		if k.UserID == userID && k.CourseID == courseID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LessonID < out[j].LessonID })
	return out, nil
}

func (s *MemoryStore) ListAllLessonLocks(_ context.Context) ([]models.LessonLock, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.LessonLock, 0, len(s.locks))
	for _, l := range s.locks {
		out = append(out, l)
	}
	return out, nil
}

func (s *MemoryStore) LockLesson(_ context.Context, key models.ProgressKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.locks[key]; ok {
		return nil
	}
	s.locks[key] = models.LessonLock{UserID: key.UserID, CourseID: key.CourseID, LessonID: key.LessonID, CreatedAt: time.Now()}
	return nil
}

func (s *MemoryStore) UnlockLesson(_ context.Context, key models.ProgressKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.locks, key)
	return nil
}

// --- offerings ---

func (s *MemoryStore) CreateOffering(_ context.Context, o *models.ServiceOffering) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	o.ID = s.id()
	o.CreatedAt, o.UpdatedAt = now, now
	s.offerings[o.ID] = *o
	return nil
}

func (s *MemoryStore) GetOffering(_ context.Context, id uint) (*models.ServiceOffering, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.offerings[id]
	if !ok {
		return nil, notFound("offering", id)
	}
	return &o, nil
}

func (s *MemoryStore) ListOfferings(_ context.Context, activeOnly bool) ([]models.ServiceOffering, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.ServiceOffering
	for _, o := range s.offerings {
		if activeOnly && !o.Active {
			continue
		}
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) UpdateOffering(_ context.Context, o *models.ServiceOffering) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.offerings[o.ID]
	if !ok {
		return notFound("offering", o.ID)
	}
	o.CreatedAt = existing.CreatedAt
	o.UpdatedAt = time.Now()
	s.offerings[o.ID] = *o
	return nil
}

func (s *MemoryStore) DeleteOffering(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.offerings[id]; !ok {
		return notFound("offering", id)
	}
	delete(s.offerings, id)
	return nil
}

var _ Store = (*MemoryStore)(nil)
