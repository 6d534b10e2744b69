package service

import (
	"context"
	"testing"
	"time"

	authdomain "github.com/inspirationparticle/utro/internal/auth/domain"
	"github.com/inspirationparticle/utro/internal/auth/repository"
	"github.com/inspirationparticle/utro/internal/auth/token"
	"github.com/inspirationparticle/utro/internal/clock"
	"github.com/inspirationparticle/utro/internal/uuidv7"
	"github.com/inspirationparticle/utro/pkg/db"
	"go.uber.org/zap"
)

func newTestService(t *testing.T, ttl time.Duration) authdomain.Service {
	t.Helper()

	dbConn, err := db.NewTest()
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	if err := dbConn.AutoMigrate(&authdomain.User{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	clk := clock.NewFakeClock(time.Now().UTC())
	tokens := token.NewManager("test-secret", ttl)
	return New(zap.NewNop(), repository.New(dbConn), tokens, uuidv7.New(), clk)
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newTestService(t, 24*time.Hour)

	user, err := svc.Register(context.Background(), authdomain.RegisterRequest{
		Username: "alice",
		Email:    "Alice@Example.com",
		FullName: "Alice Doe",
		Password: "correct-password",
	})
	if err != nil {
		t.Fatalf("failed to register: %v", err)
	}
	if user.Provider != "local" {
		t.Fatalf("expected provider local, got %s", user.Provider)
	}
	if user.Email == nil || *user.Email != "alice@example.com" {
		t.Fatalf("expected lowercased email, got %v", user.Email)
	}
	if !uuidv7.IsWellFormed(user.ID) {
		t.Fatalf("expected version 7 id, got %s", user.ID)
	}

	result, err := svc.Login(context.Background(), authdomain.LoginRequest{
		Username: "alice",
		Password: "correct-password",
	})
	if err != nil {
		t.Fatalf("failed to login: %v", err)
	}
	if result.Token == "" {
		t.Fatal("expected token")
	}

	authed, err := svc.Authenticate(context.Background(), result.Token)
	if err != nil {
		t.Fatalf("failed to authenticate: %v", err)
	}
	if authed.ID != user.ID {
		t.Fatalf("expected user %s, got %s", user.ID, authed.ID)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newTestService(t, 24*time.Hour)

	if _, err := svc.Register(context.Background(), authdomain.RegisterRequest{
		Username: "bob",
		Password: "correct-password",
	}); err != nil {
		t.Fatalf("failed to register: %v", err)
	}

	_, err := svc.Login(context.Background(), authdomain.LoginRequest{
		Username: "bob",
		Password: "wrong-password",
	})
	if err != authdomain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginUnknownUser(t *testing.T) {
	svc := newTestService(t, 24*time.Hour)

	_, err := svc.Login(context.Background(), authdomain.LoginRequest{
		Username: "ghost",
		Password: "whatever-password",
	})
	if err != authdomain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc := newTestService(t, 24*time.Hour)

	if _, err := svc.Register(context.Background(), authdomain.RegisterRequest{
		Username: "carol",
		Password: "strong-password",
	}); err != nil {
		t.Fatalf("failed to register: %v", err)
	}

	_, err := svc.Register(context.Background(), authdomain.RegisterRequest{
		Username: "carol",
		Password: "another-password",
	})
	if err != authdomain.ErrUserExists {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestRegisterShortPassword(t *testing.T) {
	svc := newTestService(t, 24*time.Hour)

	_, err := svc.Register(context.Background(), authdomain.RegisterRequest{
		Username: "dave",
		Password: "short",
	})
	if err != authdomain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthenticateExpiredToken(t *testing.T) {
	svc := newTestService(t, -time.Hour)

	if _, err := svc.Register(context.Background(), authdomain.RegisterRequest{
		Username: "erin",
		Password: "strong-password",
	}); err != nil {
		t.Fatalf("failed to register: %v", err)
	}

	result, err := svc.Login(context.Background(), authdomain.LoginRequest{
		Username: "erin",
		Password: "strong-password",
	})
	if err != nil {
		t.Fatalf("failed to login: %v", err)
	}

	if _, err := svc.Authenticate(context.Background(), result.Token); err != authdomain.ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
