package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"learning-platform/backend/models"
)

const uniqueViolation = "23505"

// GormStore is the PostgreSQL-backed Store.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Migrate creates or updates every table.
func (s *GormStore) Migrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(models.All()...)
}

// wrap maps driver errors onto the package sentinels.
func wrap(err error, kind string, id any) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(kind, id)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%s %v: %w", kind, id, ErrConflict)
	}
	return fmt.Errorf("%s %v: %w", kind, id, err)
}

// mustAffect turns a zero-row write into ErrNotFound.
func mustAffect(res *gorm.DB, kind string, id any) error {
	if res.Error != nil {
		return wrap(res.Error, kind, id)
	}
	if res.RowsAffected == 0 {
		return notFound(kind, id)
	}
	return nil
}

func byOrder(db *gorm.DB) *gorm.DB {
	return db.Order("sequence_order ASC, id ASC")
}

func byPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC, id ASC")
}

// --- courses ---

func (s *GormStore) CreateCourse(ctx context.Context, course *models.Course) error {
	return wrap(s.db.WithContext(ctx).Create(course).Error, "course", course.Title)
}

func (s *GormStore) GetCourse(ctx context.Context, id uint) (*models.Course, error) {
	var course models.Course
	err := s.db.WithContext(ctx).Preload("Lessons", byOrder).First(&course, id).Error
	if err != nil {
		return nil, wrap(err, "course", id)
	}
	return &course, nil
}

func (s *GormStore) ListCourses(ctx context.Context) ([]models.Course, error) {
	var courses []models.Course
	err := s.db.WithContext(ctx).Preload("Lessons", byOrder).Order("id ASC").Find(&courses).Error
	if err != nil {
		return nil, wrap(err, "courses", "all")
	}
	return courses, nil
}

func (s *GormStore) UpdateCourse(ctx context.Context, course *models.Course) error {
	res := s.db.WithContext(ctx).Model(&models.Course{ID: course.ID}).
		Updates(map[string]any{"title": course.Title, "description": course.Description})
	if err := mustAffect(res, "course", course.ID); err != nil {
		return err
	}
	updated, err := s.GetCourse(ctx, course.ID)
	if err != nil {
		return err
	}
	*course = *updated
	return nil
}

func (s *GormStore) DeleteCourse(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("course_id = ?", id).Delete(&models.LessonLock{}).Error; err != nil {
			return wrap(err, "lesson locks of course", id)
		}
		if err := tx.Where("course_id = ?", id).Delete(&models.StudentProgress{}).Error; err != nil {
			return wrap(err, "progress of course", id)
		}
		if err := tx.Where("course_id = ?", id).Delete(&models.CourseAssignment{}).Error; err != nil {
			return wrap(err, "assignments of course", id)
		}
		if err := tx.Where("course_id = ?", id).Delete(&models.Lesson{}).Error; err != nil {
			return wrap(err, "lessons of course", id)
		}
		return mustAffect(tx.Delete(&models.Course{}, id), "course", id)
	})
}

// --- lessons ---

func (s *GormStore) CreateLesson(ctx context.Context, lesson *models.Lesson) error {
	db := s.db.WithContext(ctx)
	var n int64
	if err := db.Model(&models.Course{}).Where("id = ?", lesson.CourseID).Count(&n).Error; err != nil {
		return wrap(err, "course", lesson.CourseID)
	}
	if n == 0 {
		return notFound("course", lesson.CourseID)
	}
	return wrap(db.Create(lesson).Error, "lesson", lesson.Title)
}

func (s *GormStore) GetLesson(ctx context.Context, id uint) (*models.Lesson, error) {
	var lesson models.Lesson
	if err := s.db.WithContext(ctx).First(&lesson, id).Error; err != nil {
		return nil, wrap(err, "lesson", id)
	}
	return &lesson, nil
}

func (s *GormStore) ListLessons(ctx context.Context, courseID uint) ([]models.Lesson, error) {
	var lessons []models.Lesson
	err := s.db.WithContext(ctx).Scopes(byOrder).Where("course_id = ?", courseID).Find(&lessons).Error
	if err != nil {
		return nil, wrap(err, "lessons of course", courseID)
	}
	return lessons, nil
}

func (s *GormStore) UpdateLesson(ctx context.Context, lesson *models.Lesson) error {
	res := s.db.WithContext(ctx).Model(&models.Lesson{ID: lesson.ID}).
		Select("title", "description", "document_url", "instructor_notes", "quiz_set_id", "sequence_order").
		Updates(lesson)
	if err := mustAffect(res, "lesson", lesson.ID); err != nil {
		return err
	}
	updated, err := s.GetLesson(ctx, lesson.ID)
	if err != nil {
		return err
	}
	*lesson = *updated
	return nil
}

func (s *GormStore) DeleteLesson(ctx context.Context, id uint, reorder map[uint]int) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("lesson_id = ?", id).Delete(&models.LessonLock{}).Error; err != nil {
			return wrap(err, "lesson locks of lesson", id)
		}
		if err := tx.Where("lesson_id = ?", id).Delete(&models.StudentProgress{}).Error; err != nil {
			return wrap(err, "progress of lesson", id)
		}
		if err := mustAffect(tx.Delete(&models.Lesson{}, id), "lesson", id); err != nil {
			return err
		}
		return setOrders(tx, 0, reorder)
	})
}

func (s *GormStore) SetLessonOrders(ctx context.Context, courseID uint, orders map[uint]int) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return setOrders(tx, courseID, orders)
	})
}

// setOrders updates sequence_order per lesson. courseID 0 skips the course check.
// Orders are parked at their negatives first so swaps never collide on idx_lesson_course_order.
func setOrders(tx *gorm.DB, courseID uint, orders map[uint]int) error {
	for _, phase := range []int{-1, 1} {
		for id, order := range orders {
			q := tx.Model(&models.Lesson{}).Where("id = ?", id)
			if courseID != 0 {
				q = q.Where("course_id = ?", courseID)
			}
			if err := mustAffect(q.Update("sequence_order", phase*order), "lesson", id); err != nil {
				return err
			}
		}
	}
	return nil
}

// --- quizzes ---

func (s *GormStore) CreateQuizSet(ctx context.Context, set *models.QuizSet) error {
	return wrap(s.db.WithContext(ctx).Create(set).Error, "quiz set", set.Title)
}

func (s *GormStore) GetQuizSet(ctx context.Context, id uint) (*models.QuizSet, error) {
	var set models.QuizSet
	if err := s.db.WithContext(ctx).Preload("Questions", byPosition).First(&set, id).Error; err != nil {
		return nil, wrap(err, "quiz set", id)
	}
	return &set, nil
}

func (s *GormStore) ListQuizSets(ctx context.Context) ([]models.QuizSet, error) {
	var sets []models.QuizSet
	err := s.db.WithContext(ctx).Preload("Questions", byPosition).Order("id ASC").Find(&sets).Error
	if err != nil {
		return nil, wrap(err, "quiz sets", "all")
	}
	return sets, nil
}

func (s *GormStore) UpdateQuizSet(ctx context.Context, set *models.QuizSet) error {
	res := s.db.WithContext(ctx).Model(&models.QuizSet{ID: set.ID}).Update("title", set.Title)
	if err := mustAffect(res, "quiz set", set.ID); err != nil {
		return err
	}
	updated, err := s.GetQuizSet(ctx, set.ID)
	if err != nil {
		return err
	}
	*set = *updated
	return nil
}

func (s *GormStore) DeleteQuizSet(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Lesson{}).Where("quiz_set_id = ?", id).Update("quiz_set_id", nil).Error; err != nil {
			return wrap(err, "lessons of quiz set", id)
		}
		if err := tx.Where("quiz_set_id = ?", id).Delete(&models.QuizQuestion{}).Error; err != nil {
			return wrap(err, "questions of quiz set", id)
		}
		return mustAffect(tx.Delete(&models.QuizSet{}, id), "quiz set", id)
	})
}

func (s *GormStore) CreateQuestion(ctx context.Context, q *models.QuizQuestion) error {
	db := s.db.WithContext(ctx)
	var n int64
	if err := db.Model(&models.QuizSet{}).Where("id = ?", q.QuizSetID).Count(&n).Error; err != nil {
		return wrap(err, "quiz set", q.QuizSetID)
	}
	if n == 0 {
		return notFound("quiz set", q.QuizSetID)
	}
	return wrap(db.Create(q).Error, "question", q.Question)
}

func (s *GormStore) GetQuestion(ctx context.Context, id uint) (*models.QuizQuestion, error) {
	var q models.QuizQuestion
	if err := s.db.WithContext(ctx).First(&q, id).Error; err != nil {
		return nil, wrap(err, "question", id)
	}
	return &q, nil
}

func (s *GormStore) UpdateQuestion(ctx context.Context, q *models.QuizQuestion) error {
	res := s.db.WithContext(ctx).Model(&models.QuizQuestion{ID: q.ID}).
		Select("question", "options", "correct_answer", "position").
		Updates(q)
	if err := mustAffect(res, "question", q.ID); err != nil {
		return err
	}
	updated, err := s.GetQuestion(ctx, q.ID)
	if err != nil {
		return err
	}
	*q = *updated
	return nil
}

func (s *GormStore) DeleteQuestion(ctx context.Context, id uint) error {
	return mustAffect(s.db.WithContext(ctx).Delete(&models.QuizQuestion{}, id), "question", id)
}

func (s *GormStore) GetQuizSettings(ctx context.Context) (*models.QuizSettings, error) {
	var settings models.QuizSettings
	if err := s.db.WithContext(ctx).First(&settings).Error; err != nil {
		return nil, wrap(err, "quiz settings", "singleton")
	}
	return &settings, nil
}

func (s *GormStore) SaveQuizSettings(ctx context.Context, settings *models.QuizSettings) error {
	row := models.NewQuizSettings(settings.PassMarkPercentage, settings.EnforcePassMark)
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"pass_mark_percentage", "enforce_pass_mark", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return wrap(err, "quiz settings", "singleton")
	}
	*settings = row
	return nil
}

// --- students ---

func (s *GormStore) CreateStudent(ctx context.Context, student *models.Student) error {
	return wrap(s.db.WithContext(ctx).Create(student).Error, "student email", student.Email)
}

func (s *GormStore) GetStudent(ctx context.Context, id uint) (*models.Student, error) {
	var st models.Student
	if err := s.db.WithContext(ctx).First(&st, id).Error; err != nil {
		return nil, wrap(err, "student", id)
	}
	return &st, nil
}

func (s *GormStore) GetStudentByEmail(ctx context.Context, email string) (*models.Student, error) {
	var st models.Student
	if err := s.db.WithContext(ctx).Where("LOWER(email) = LOWER(?)", email).First(&st).Error; err != nil {
		return nil, wrap(err, "student", email)
	}
	return &st, nil
}

func (s *GormStore) ListStudents(ctx context.Context) ([]models.Student, error) {
	var students []models.Student
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&students).Error; err != nil {
		return nil, wrap(err, "students", "all")
	}
	return students, nil
}

func (s *GormStore) UpdateStudent(ctx context.Context, student *models.Student) error {
	res := s.db.WithContext(ctx).Model(&models.Student{ID: student.ID}).
		Select("name", "email", "password_hash", "role", "profile_image_url").
		Updates(student)
	if err := mustAffect(res, "student", student.ID); err != nil {
		return err
	}
	updated, err := s.GetStudent(ctx, student.ID)
	if err != nil {
		return err
	}
	*student = *updated
	return nil
}

func (s *GormStore) DeleteStudent(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&models.LessonLock{}).Error; err != nil {
			return wrap(err, "lesson locks of student", id)
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.StudentProgress{}).Error; err != nil {
			return wrap(err, "progress of student", id)
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.CourseAssignment{}).Error; err != nil {
			return wrap(err, "assignments of student", id)
		}
		return mustAffect(tx.Delete(&models.Student{}, id), "student", id)
	})
}

// --- assignments ---

func (s *GormStore) AssignCourse(ctx context.Context, userID, courseID uint) error {
	db := s.db.WithContext(ctx)
	if _, err := s.GetStudent(ctx, userID); err != nil {
		return err
	}
	if _, err := s.GetCourse(ctx, courseID); err != nil {
		return err
	}
	a := models.CourseAssignment{UserID: userID, CourseID: courseID}
	err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&a).Error
	return wrap(err, "assignment", fmt.Sprintf("%d/%d", userID, courseID))
}

func (s *GormStore) UnassignCourse(ctx context.Context, userID, courseID uint) error {
	id := fmt.Sprintf("%d/%d", userID, courseID)
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		where := tx.Where("user_id = ? AND course_id = ?", userID, courseID)
		if err := mustAffect(where.Delete(&models.CourseAssignment{}), "assignment", id); err != nil {
			return err
		}
		if err := tx.Where("user_id = ? AND course_id = ?", userID, courseID).Delete(&models.StudentProgress{}).Error; err != nil {
			return wrap(err, "progress of assignment", id)
		}
		return wrap(tx.Where("user_id = ? AND course_id = ?", userID, courseID).Delete(&models.LessonLock{}).Error,
			"lesson locks of assignment", id)
	})
}

func (s *GormStore) GetAssignment(ctx context.Context, userID, courseID uint) (*models.CourseAssignment, error) {
	var a models.CourseAssignment
	err := s.db.WithContext(ctx).Where("user_id = ? AND course_id = ?", userID, courseID).First(&a).Error
	if err != nil {
		return nil, wrap(err, "assignment", fmt.Sprintf("%d/%d", userID, courseID))
	}
	return &a, nil
}

func (s *GormStore) ListAssignments(ctx context.Context, userID uint) ([]models.CourseAssignment, error) {
	q := s.db.WithContext(ctx).Order("user_id ASC, course_id ASC")
	if userID != 0 {
		q = q.Where("user_id = ?", userID)
	}
	var out []models.CourseAssignment
	if err := q.Find(&out).Error; err != nil {
		return nil, wrap(err, "assignments of student", userID)
	}
	return out, nil
}

func (s *GormStore) ToggleAssignmentLock(ctx context.Context, userID, courseID uint) (bool, error) {
	var locked bool
	id := fmt.Sprintf("%d/%d", userID, courseID)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var a models.CourseAssignment
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND course_id = ?", userID, courseID).First(&a).Error
		if err != nil {
			return wrap(err, "assignment", id)
		}
		locked = !a.Locked
		err = tx.Model(&models.CourseAssignment{}).
			Where("user_id = ? AND course_id = ?", userID, courseID).
			Update("locked", locked).Error
		if err != nil {
			return wrap(err, "assignment", id)
		}
		return wrap(tx.Model(&models.StudentProgress{}).
			Where("user_id = ? AND course_id = ?", userID, courseID).
			Update("locked", locked).Error, "progress of assignment", id)
	})
	return locked, err
}

// --- progress ---

func (s *GormStore) GetProgress(ctx context.Context, key models.ProgressKey) (*models.StudentProgress, error) {
	var p models.StudentProgress
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ? AND lesson_id = ?", key.UserID, key.CourseID, key.LessonID).
		First(&p).Error
	if err != nil {
		return nil, wrap(err, "progress", key)
	}
	return &p, nil
}

func (s *GormStore) ListProgress(ctx context.Context, filter ProgressFilter) ([]models.StudentProgress, error) {
	q := s.db.WithContext(ctx).Order("id ASC")
	if filter.UserID != 0 {
		q = q.Where("user_id = ?", filter.UserID)
	}
	if filter.CourseID != 0 {
		q = q.Where("course_id = ?", filter.CourseID)
	}
	var out []models.StudentProgress
	if err := q.Find(&out).Error; err != nil {
		return nil, wrap(err, "progress", filter)
	}
	return out, nil
}

var progressKeyColumns = []clause.Column{{Name: "user_id"}, {Name: "course_id"}, {Name: "lesson_id"}}

func (s *GormStore) SaveProgress(ctx context.Context, p *models.StudentProgress) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: progressKeyColumns,
		DoUpdates: clause.AssignmentColumns([]string{
			"completed", "time_spent", "pdf_viewed", "quiz_score", "quiz_attempts",
			"quiz_set_id", "locked", "updated_at",
		}),
	}).Create(p).Error
	if err != nil {
		return wrap(err, "progress", p.Key())
	}
	stored, err := s.GetProgress(ctx, p.Key())
	if err != nil {
		return err
	}
	*p = *stored
	return nil
}

func (s *GormStore) CreateProgressIfAbsent(ctx context.Context, p *models.StudentProgress) (bool, error) {
	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   progressKeyColumns,
		DoNothing: true,
	}).Create(p)
	if res.Error != nil {
		return false, wrap(res.Error, "progress", p.Key())
	}
	return res.RowsAffected == 1, nil
}

// --- lesson locks ---

func (s *GormStore) IsLessonLocked(ctx context.Context, key models.ProgressKey) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.LessonLock{}).
		Where("user_id = ? AND course_id = ? AND lesson_id = ?", key.UserID, key.CourseID, key.LessonID).
		Count(&n).Error
	if err != nil {
		return false, wrap(err, "lesson lock", key)
	}
	return n > 0, nil
}

func (s *GormStore) ListLessonLocks(ctx context.Context, userID, courseID uint) ([]models.LessonLock, error) {
	var out []models.LessonLock
	err := s.db.WithContext(ctx).Where("user_id = ? AND course_id = ?", userID, courseID).
		Order("lesson_id ASC").Find(&out).Error
	if err != nil {
		return nil, wrap(err, "lesson locks", fmt.Sprintf("%d/%d", userID, courseID))
	}
	return out, nil
}

func (s *GormStore) ListAllLessonLocks(ctx context.Context) ([]models.LessonLock, error) {
	var out []models.LessonLock
	if err := s.db.WithContext(ctx).Find(&out).Error; err != nil {
		return nil, wrap(err, "lesson locks", "all")
	}
	return out, nil
}

func (s *GormStore) LockLesson(ctx context.Context, key models.ProgressKey) error {
	lock := models.LessonLock{UserID: key.UserID, CourseID: key.CourseID, LessonID: key.LessonID}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&lock).Error
	return wrap(err, "lesson lock", key)
}

func (s *GormStore) UnlockLesson(ctx context.Context, key models.ProgressKey) error {
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ? AND lesson_id = ?", key.UserID, key.CourseID, key.LessonID).
		Delete(&models.LessonLock{}).Error
	return wrap(err, "lesson lock", key)
}

// --- offerings ---

func (s *GormStore) CreateOffering(ctx context.Context, o *models.ServiceOffering) error {
	return wrap(s.db.WithContext(ctx).Create(o).Error, "offering", o.Title)
}

func (s *GormStore) GetOffering(ctx context.Context, id uint) (*models.ServiceOffering, error) {
	var o models.ServiceOffering
	if err := s.db.WithContext(ctx).First(&o, id).Error; err != nil {
		return nil, wrap(err, "offering", id)
	}
	return &o, nil
}

func (s *GormStore) ListOfferings(ctx context.Context, activeOnly bool) ([]models.ServiceOffering, error) {
	q := s.db.WithContext(ctx).Order("id ASC")
	if activeOnly {
		q = q.Where("active = ?", true)
	}
	var out []models.ServiceOffering
	if err := q.Find(&out).Error; err != nil {
		return nil, wrap(err, "offerings", "all")
	}
	return out, nil
}

func (s *GormStore) UpdateOffering(ctx context.Context, o *models.ServiceOffering) error {
	res := s.db.WithContext(ctx).Model(&models.ServiceOffering{ID: o.ID}).
		Select("title", "description", "price_cents", "image_url", "active").
		Updates(o)
	if err := mustAffect(res, "offering", o.ID); err != nil {
		return err
	}
	updated, err := s.GetOffering(ctx, o.ID)
	if err != nil {
		return err
	}
	*o = *updated
	return nil
}

func (s *GormStore) DeleteOffering(ctx context.Context, id uint) error {
	return mustAffect(s.db.WithContext(ctx).Delete(&models.ServiceOffering{}, id), "offering", id)
}

var _ Store = (*GormStore)(nil)
