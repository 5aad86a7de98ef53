package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"learning-platform/backend/models"
	"learning-platform/backend/store"
)

type StudentService struct {
	store store.Store
	log   *slog.Logger
}

// StudentInput carries the writable student fields. An empty Password keeps the current hash.
type StudentInput struct {
	Name            string
	Email           string
	Password        string
	Role            string
	ProfileImageURL string
}

func validRole(role string) bool {
	return role == models.RoleStudent || role == models.RoleAdmin
}

// Register creates a student account.
func (s *StudentService) Register(ctx context.Context, name, email, password string) (*models.Student, error) {
	return s.CreateStudent(ctx, StudentInput{Name: name, Email: email, Password: password, Role: models.RoleStudent})
}

func (s *StudentService) CreateStudent(ctx context.Context, in StudentInput) (*models.Student, error) {
	if in.Role == "" {
		in.Role = models.RoleStudent
	}
	if !validRole(in.Role) {
		return nil, ErrInvalidRole
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	st := &models.Student{
		Name:            in.Name,
		Email:           strings.TrimSpace(in.Email),
		PasswordHash:    string(hash),
		Role:            in.Role,
		ProfileImageURL: in.ProfileImageURL,
	}
	if err := s.store.CreateStudent(ctx, st); err != nil {
		return nil, err
	}
	s.log.Info("student created", "user_id", st.ID, "role", st.Role)
	return st, nil
}

// Authenticate checks credentials. Unknown emails and wrong passwords give the same error.
func (s *StudentService) Authenticate(ctx context.Context, email, password string) (*models.Student, error) {
	st, err := s.store.GetStudentByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(st.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return st, nil
}

func (s *StudentService) GetStudent(ctx context.Context, id uint) (*models.Student, error) {
	return s.store.GetStudent(ctx, id)
}

func (s *StudentService) ListStudents(ctx context.Context) ([]models.Student, error) {
	return s.store.ListStudents(ctx)
}

// UpdateStudent overwrites the given fields; empty strings keep the current value.
func (s *StudentService) UpdateStudent(ctx context.Context, id uint, in StudentInput) (*models.Student, error) {
	st, err := s.store.GetStudent(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != "" {
		st.Name = in.Name
	}
	if in.Email != "" {
		st.Email = strings.TrimSpace(in.Email)
	}
	if in.Role != "" {
		if !validRole(in.Role) {
			return nil, ErrInvalidRole
		}
		st.Role = in.Role
	}
	if in.ProfileImageURL != "" {
		st.ProfileImageURL = in.ProfileImageURL
	}
	if in.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		st.PasswordHash = string(hash)
	}
	if err := s.store.UpdateStudent(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *StudentService) DeleteStudent(ctx context.Context, id uint) error {
	if err := s.store.DeleteStudent(ctx, id); err != nil {
		return err
	}
	s.log.Info("student deleted", "user_id", id)
	return nil
}

func (s *StudentService) AssignCourse(ctx context.Context, userID, courseID uint) error {
	if err := s.store.AssignCourse(ctx, userID, courseID); err != nil {
		return err
	}
	s.log.Info("course assigned", "user_id", userID, "course_id", courseID)
	return nil
}

func (s *StudentService) UnassignCourse(ctx context.Context, userID, courseID uint) error {
	if err := s.store.UnassignCourse(ctx, userID, courseID); err != nil {
		return err
	}
	s.log.Info("course unassigned", "user_id", userID, "course_id", courseID)
	return nil
}

func (s *StudentService) Assignments(ctx context.Context, userID uint) ([]models.CourseAssignment, error) {
	return s.store.ListAssignments(ctx, userID)
}
