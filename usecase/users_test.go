package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/kriswind/everything-app/dto"
	"github.com/kriswind/everything-app/model"

	"github.com/pquerna/otp/totp"
)

type fakeUserRepo struct {
	users map[string]*model.User // keyed by user_id
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*model.User)}
}

func (r *fakeUserRepo) AddUser(ctx context.Context, user *model.User) error {
	copied := *user
	r.users[user.UserID] = &copied
	return nil
}

func (r *fakeUserRepo) FindUserByUsername(ctx context.Context, username string) (*model.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindUser(ctx context.Context, userID string) (*model.User, error) {
	u, ok := r.users[userID]
	if !ok {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) Enable2FA(ctx context.Context, userID, secret string) error {
	u := r.users[userID]
	u.TwoFactorSecret = secret
	u.TwoFactorEnabled = true
	return nil
}

func (r *fakeUserRepo) Disable2FA(ctx context.Context, userID string) error {
	u := r.users[userID]
	u.TwoFactorSecret = ""
	u.TwoFactorEnabled = false
	return nil
}

func (r *fakeUserRepo) DeleteUser(ctx context.Context, userID string) (int64, error) {
	if _, ok := r.users[userID]; !ok {
		return 0, nil
	}
	delete(r.users, userID)
	return 1, nil
}

func registerTestUser(t *testing.T, svc *UserService) *model.User {
	t.Helper()
	user, err := svc.CreateUser(context.Background(), &dto.RegisterRequest{
		Username: "adalovelace",
		Email:    "ada@example.com",
		Password: "sup3rsecret!",
	})
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	return user
}

func TestCreateUserHashesPassword(t *testing.T) {
	svc := &UserService{Repo: newFakeUserRepo()}
	user := registerTestUser(t, svc)

	if user.UserID == "" {
		t.Error("New user should have an id")
	}
	if user.Password == "sup3rsecret!" {
		t.Error("Password must be stored hashed")
	}
}

func TestCreateUserRejectsDuplicateUsername(t *testing.T) {
	svc := &UserService{Repo: newFakeUserRepo()}
	registerTestUser(t, svc)

	_, err := svc.CreateUser(context.Background(), &dto.RegisterRequest{
		Username: "adalovelace",
		Email:    "other@example.com",
		Password: "sup3rsecret!",
	})
	if err != ErrUsernameTaken {
		t.Errorf("Expected ErrUsernameTaken, got %v", err)
	}
}

func TestAuthenticate(t *testing.T) {
	svc := &UserService{Repo: newFakeUserRepo()}
	registerTestUser(t, svc)

	user, needs2FA, err := svc.Authenticate(context.Background(), &dto.LoginRequest{
		Username: "adalovelace",
		Password: "sup3rsecret!",
	})
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if needs2FA {
		t.Error("2FA should not be required for a fresh account")
	}
	if user == nil || user.Username != "adalovelace" {
		t.Errorf("Unexpected user: %+v", user)
	}
}

func TestAuthenticateWrongPassword(t *testing.T) {
	svc := &UserService{Repo: newFakeUserRepo()}
	registerTestUser(t, svc)

	_, _, err := svc.Authenticate(context.Background(), &dto.LoginRequest{
		Username: "adalovelace",
		Password: "wr0ngpass!",
	})
	if err != ErrIncorrectPassword {
		t.Errorf("Expected ErrIncorrectPassword, got %v", err)
	}
}

func TestAuthenticateUnknownUser(t *testing.T) {
	svc := &UserService{Repo: newFakeUserRepo()}

	_, _, err := svc.Authenticate(context.Background(), &dto.LoginRequest{
		Username: "nobody",
		Password: "whatever1!",
	})
	if err != ErrUserNotFound {
		t.Errorf("Expected ErrUserNotFound, got %v", err)
	}
}

func TestTwoFactorFlow(t *testing.T) {
	svc := &UserService{Repo: newFakeUserRepo()}
	user := registerTestUser(t, svc)

	key, err := svc.BeginEnable2FA(context.Background(), user.UserID)
	if err != nil {
		t.Fatalf("BeginEnable2FA failed: %v", err)
	}

	code, err := totp.GenerateCode(key.Secret(), time.Now())
	if err != nil {
		t.Fatalf("Failed to generate TOTP code: %v", err)
	}

	if err := svc.VerifyAndEnable2FA(context.Background(), user.UserID, key.Secret(), "000000"); err != ErrInvalidTwoFactor {
		t.Errorf("Expected ErrInvalidTwoFactor for a bogus code, got %v", err)
	}

	if err := svc.VerifyAndEnable2FA(context.Background(), user.UserID, key.Secret(), code); err != nil {
		t.Fatalf("VerifyAndEnable2FA failed: %v", err)
	}

	// Login without a code now signals that 2FA is pending.
	_, needs2FA, err := svc.Authenticate(context.Background(), &dto.LoginRequest{
		Username: "adalovelace",
		Password: "sup3rsecret!",
	})
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if !needs2FA {
		t.Fatal("Expected 2FA to be required")
	}

	// Login with a fresh code completes.
	code, _ = totp.GenerateCode(key.Secret(), time.Now())
	authed, needs2FA, err := svc.Authenticate(context.Background(), &dto.LoginRequest{
		Username:      "adalovelace",
		Password:      "sup3rsecret!",
		TwoFactorCode: code,
	})
	if err != nil || needs2FA || authed == nil {
		t.Fatalf("2FA login failed: user=%v needs2FA=%v err=%v", authed, needs2FA, err)
	}

	// Disabling requires a valid current code.
	code, _ = totp.GenerateCode(key.Secret(), time.Now())
	if err := svc.Disable2FA(context.Background(), user.UserID, code); err != nil {
		t.Fatalf("Disable2FA failed: %v", err)
	}
	if err := svc.Disable2FA(context.Background(), user.UserID, code); err != ErrTwoFactorDisabled {
		t.Errorf("Expected ErrTwoFactorDisabled, got %v", err)
	}
}

func TestDeleteAccount(t *testing.T) {
	svc := &UserService{Repo: newFakeUserRepo()}
	user := registerTestUser(t, svc)

	if err := svc.DeleteAccount(context.Background(), user.UserID, "wr0ngpass!"); err != ErrIncorrectPassword {
		t.Errorf("Expected ErrIncorrectPassword, got %v", err)
	}
	if err := svc.DeleteAccount(context.Background(), user.UserID, "sup3rsecret!"); err != nil {
		t.Fatalf("DeleteAccount failed: %v", err)
	}
	if err := svc.DeleteAccount(context.Background(), user.UserID, "sup3rsecret!"); err != ErrUserNotFound {
		t.Errorf("Expected ErrUserNotFound after deletion, got %v", err)
	}
}
