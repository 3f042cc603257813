package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/kriswind/everything-app/dto"
	"github.com/kriswind/everything-app/model"
	"github.com/kriswind/everything-app/services"
	"github.com/kriswind/everything-app/utils"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// UserRepository is the slice of the users collection this service needs.
type UserRepository interface {
	AddUser(ctx context.Context, user *model.User) error
	FindUserByUsername(ctx context.Context, username string) (*model.User, error)
	FindUser(ctx context.Context, userID string) (*model.User, error)
	Enable2FA(ctx context.Context, userID, secret string) error
	Disable2FA(ctx context.Context, userID string) error
	DeleteUser(ctx context.Context, userID string) (int64, error)
}

type UserService struct {
	Repo UserRepository
}

var (
	ErrUsernameTaken     = errors.New("username already exists")
	ErrUserNotFound      = errors.New("user not found")
	ErrInvalidTwoFactor  = errors.New("invalid 2FA code")
	ErrTwoFactorEnabled  = errors.New("2FA is already enabled")
	ErrTwoFactorDisabled = errors.New("2FA is not enabled")
	ErrIncorrectPassword = errors.New("incorrect password")
)

// CreateUser registers a new account with a hashed password.
func (s *UserService) CreateUser(ctx context.Context, req *dto.RegisterRequest) (*model.User, error) {
	existing, err := s.Repo.FindUserByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}

	hashed, err := services.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		UserID:    utils.NewID(),
		Username:  req.Username,
		Email:     req.Email,
		Password:  hashed,
		CreatedAt: time.Now(),
	}

	if err := s.Repo.AddUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate verifies credentials and, when enabled, the TOTP code. A nil
// user with a nil error means 2FA is required but no code was supplied.
func (s *UserService) Authenticate(ctx context.Context, req *dto.LoginRequest) (*model.User, bool, error) {
	user, err := s.Repo.FindUserByUsername(ctx, req.Username)
	if err != nil {
		return nil, false, err
	}
	if user == nil {
		return nil, false, ErrUserNotFound
	}

	match, err := services.VerifyPassword(user.Password, req.Password)
	if err != nil || !match {
		return nil, false, ErrIncorrectPassword
	}

	if user.TwoFactorEnabled {
		if req.TwoFactorCode == "" {
			return nil, true, nil
		}
		if !totp.Validate(req.TwoFactorCode, user.TwoFactorSecret) {
			return nil, false, ErrInvalidTwoFactor
		}
	}

	return user, false, nil
}

// BeginEnable2FA generates a new TOTP secret for the user. The secret is
// not active until VerifyAndEnable2FA confirms a code against it.
func (s *UserService) BeginEnable2FA(ctx context.Context, userID string) (*otp.Key, error) {
	user, err := s.Repo.FindUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if user.TwoFactorEnabled {
		return nil, ErrTwoFactorEnabled
	}

	return totp.Generate(totp.GenerateOpts{
		Issuer:      utils.JWTIssuer,
		AccountName: user.Username,
	})
}

// VerifyAndEnable2FA confirms the first code and persists the secret.
func (s *UserService) VerifyAndEnable2FA(ctx context.Context, userID, secret, code string) error {
	if !totp.Validate(code, secret) {
		return ErrInvalidTwoFactor
	}
	return s.Repo.Enable2FA(ctx, userID, secret)
}

// Disable2FA turns off 2FA after re-verifying a current code.
func (s *UserService) Disable2FA(ctx context.Context, userID, code string) error {
	user, err := s.Repo.FindUser(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	if !user.TwoFactorEnabled {
		return ErrTwoFactorDisabled
	}
	if !totp.Validate(code, user.TwoFactorSecret) {
		return ErrInvalidTwoFactor
	}
	return s.Repo.Disable2FA(ctx, userID)
}

// DeleteAccount removes the user after verifying their password.
func (s *UserService) DeleteAccount(ctx context.Context, userID, password string) error {
	user, err := s.Repo.FindUser(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	if !services.ComparePasswords(user.Password, password) {
		return ErrIncorrectPassword
	}

	deleted, err := s.Repo.DeleteUser(ctx, userID)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return ErrUserNotFound
	}
	return nil
}
