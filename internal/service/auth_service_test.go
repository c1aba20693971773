package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/rafaelduarte/taskapi/internal/apperrors"
	"github.com/rafaelduarte/taskapi/internal/auth"
	"github.com/rafaelduarte/taskapi/internal/models"
	"github.com/rafaelduarte/taskapi/internal/storage"
)

func newAuthService() (*AuthService, *auth.JWTManager) {
	jwtManager := auth.NewJWTManager("test-secret-key", time.Hour)
	return NewAuthService(storage.NewMemoryUserStore(), jwtManager), jwtManager
}

func TestRegister_Success(t *testing.T) {
	svc, jwtManager := newAuthService()
	ctx := context.Background()

	resp, err := svc.Register(ctx, models.RegisterRequest{
		Name:     "Test User",
		Email:    "test@example.com",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.User.ID == "" {
		t.Error("expected user id to be set")
	}
	if resp.User.Role != models.RoleUser {
		t.Errorf("expected role 'user', got '%s'", resp.User.Role)
	}
	if resp.Token == "" {
		t.Error("expected token in response")
	}

	claims, err := jwtManager.ValidateToken(resp.Token)
	if err != nil {
		t.Fatalf("issued token failed verification: %v", err)
	}
	if claims.UserID != resp.User.ID {
		t.Errorf("token subject %s does not match user %s", claims.UserID, resp.User.ID)
	}
	if claims.Role != resp.User.Role {
		t.Errorf("token role %s does not match user role %s", claims.Role, resp.User.Role)
	}
}

func TestRegister_NeverSerializesPassword(t *testing.T) {
	svc, _ := newAuthService()

	resp, err := svc.Register(context.Background(), models.RegisterRequest{
		Name:     "Test User",
		Email:    "test@example.com",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	encoded, err := json.Marshal(resp.User)
	if err != nil {
		t.Fatalf("failed to marshal user: %v", err)
	}

	if strings.Contains(strings.ToLower(string(encoded)), "password") {
		t.Errorf("serialized user must not contain a password field: %s", encoded)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	req := models.RegisterRequest{Name: "Test User", Email: "test@example.com", Password: "password123"}
	if _, err := svc.Register(ctx, req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := svc.Register(ctx, req)
	if apperrors.Code(err) != apperrors.CodeEmailAlreadyExists {
		t.Errorf("expected EMAIL_ALREADY_EXISTS, got: %v", err)
	}
}

func TestRegister_DuplicateEmailCaseInsensitive(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, models.RegisterRequest{
		Name: "Test User", Email: "test@example.com", Password: "password123",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := svc.Register(ctx, models.RegisterRequest{
		Name: "Other User", Email: "TEST@Example.COM", Password: "password456",
	})
	if apperrors.Code(err) != apperrors.CodeEmailAlreadyExists {
		t.Errorf("expected EMAIL_ALREADY_EXISTS for case variant, got: %v", err)
	}
}

func TestRegister_Validation(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	cases := []models.RegisterRequest{
		{Name: "Test User", Email: "not-an-email", Password: "password123"},
		{Name: "Test User", Email: "test@example.com", Password: "short"},
		{Name: "x", Email: "test@example.com", Password: "password123"},
		{Name: "", Email: "", Password: ""},
	}

	for _, req := range cases {
		_, err := svc.Register(ctx, req)
		if apperrors.Code(err) != apperrors.CodeValidation {
			t.Errorf("expected VALIDATION_ERROR for %+v, got: %v", req, err)
		}
	}
}

func TestLogin_Success(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, models.RegisterRequest{
		Name: "Test User", Email: "test@example.com", Password: "password123",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	resp, err := svc.Login(ctx, models.LoginRequest{Email: "Test@Example.com", Password: "password123"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Token == "" {
		t.Error("expected fresh token on login")
	}
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, models.RegisterRequest{
		Name: "Test User", Email: "user@test.com", Password: "password123",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, wrongPassErr := svc.Login(ctx, models.LoginRequest{Email: "user@test.com", Password: "wrongpassword"})
	_, unknownErr := svc.Login(ctx, models.LoginRequest{Email: "nobody@test.com", Password: "password123"})

	if wrongPassErr == nil || unknownErr == nil {
		t.Fatal("expected both logins to fail")
	}

	wrongPass, _ := apperrors.From(wrongPassErr)
	unknown, _ := apperrors.From(unknownErr)

	if wrongPass.Code != apperrors.CodeInvalidCredentials {
		t.Errorf("expected INVALID_CREDENTIALS, got %s", wrongPass.Code)
	}
	if wrongPass.Code != unknown.Code || wrongPass.Message != unknown.Message || wrongPass.Status != unknown.Status {
		t.Errorf("wrong-password and unknown-email failures must be identical: %+v vs %+v", wrongPass, unknown)
	}
}

func TestProfile(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	resp, err := svc.Register(ctx, models.RegisterRequest{
		Name: "Test User", Email: "test@example.com", Password: "password123",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	user, err := svc.Profile(ctx, resp.User.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Email != "test@example.com" {
		t.Errorf("unexpected profile email: %s", user.Email)
	}

	_, err = svc.Profile(ctx, "no-such-user")
	if apperrors.Code(err) != apperrors.CodeNotFound {
		t.Errorf("expected NOT_FOUND for unknown user, got: %v", err)
	}
}

func TestSeedAdmin(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	if err := svc.SeedAdmin(ctx, "admin@example.com", "adminpassword", "Admin"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// idempotent
	if err := svc.SeedAdmin(ctx, "admin@example.com", "adminpassword", "Admin"); err != nil {
		t.Fatalf("expected second seed to be a no-op, got: %v", err)
	}

	resp, err := svc.Login(ctx, models.LoginRequest{Email: "admin@example.com", Password: "adminpassword"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.User.Role != models.RoleAdmin {
		t.Errorf("expected seeded account to be admin, got '%s'", resp.User.Role)
	}
}
