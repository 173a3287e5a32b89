package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/ligna-erp/ligna-api/internal/models"
	"github.com/ligna-erp/ligna-api/internal/repository"
	"github.com/ligna-erp/ligna-api/pkg/logger"
)

// UserService handles user management operations
type UserService struct {
	userRepo            repository.UserRepository
	emailService        *EmailService
	notificationService *NotificationService
}

// NewUserService creates a new user service
func NewUserService(userRepo repository.UserRepository, emailService *EmailService, notificationService *NotificationService) *UserService {
	return &UserService{
		userRepo:            userRepo,
		emailService:        emailService,
		notificationService: notificationService,
	}
}

// CreateUserInput carries the fields for a new user
type CreateUserInput struct {
	Email     string
	FullName  string
	Phone     string
	Role      string
	Password  string
	CreatedBy *uint
}

// CreateUser creates a user, generating a temporary password when none
// is supplied, and mails the credentials.
func (s *UserService) CreateUser(ctx context.Context, input CreateUserInput) (*models.User, error) {
	password := input.Password
	if password == "" {
		generated, err := randomPassword()
		if err != nil {
			return nil, err
		}
		password = generated
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:             input.Email,
		EncryptedPassword: string(hash),
		FullName:          input.FullName,
		Phone:             input.Phone,
		Role:              input.Role,
		CreatedBy:         input.CreatedBy,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	logger.Info("user created", "email", user.Email, "role", user.Role)

	if s.emailService != nil {
		if err := s.emailService.SendAccountCreated(ctx, user, password); err != nil {
			logger.Error("failed to send account email", "email", user.Email, "error", err)
		}
	}
	if s.notificationService != nil {
		s.notificationService.NotifyAdmins(ctx,
			"New user",
			fmt.Sprintf("User %s (%s) was created", user.FullName, user.Email),
			models.NotificationTypeNewUser)
	}
	return user, nil
}

// GetUser returns a user by id
func (s *UserService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return user, err
}

// UpdateUser updates mutable user fields
func (s *UserService) UpdateUser(ctx context.Context, id uint, fullName, phone, role, status string) (*models.User, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if fullName != "" {
		user.FullName = fullName
	}
	if phone != "" {
		user.Phone = phone
	}
	if role != "" {
		user.Role = role
	}
	if status != "" {
		user.Status = status
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ChangePassword verifies the current password and sets a new one
func (s *UserService) ChangePassword(ctx context.Context, id uint, current, newPassword string) error {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.EncryptedPassword), []byte(current)); err != nil {
		return ErrInvalidPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.EncryptedPassword = string(hash)
	return s.userRepo.Update(ctx, user)
}

// ListUsers returns users matching the query
func (s *UserService) ListUsers(ctx context.Context, query *repository.ListQuery) ([]models.User, int64, error) {
	return s.userRepo.List(ctx, query)
}

// DeactivateUser soft deletes a user
func (s *UserService) DeactivateUser(ctx context.Context, id uint) error {
	if _, err := s.GetUser(ctx, id); err != nil {
		return err
	}
	return s.userRepo.SoftDelete(ctx, id)
}

// RestoreUser reverses a soft delete
func (s *UserService) RestoreUser(ctx context.Context, id uint) error {
	return s.userRepo.Restore(ctx, id)
}

func randomPassword() (string, error) {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
