package services

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lecturelab/lectura-backend/internal/db"
	"github.com/lecturelab/lectura-backend/internal/realtime"
	"github.com/lecturelab/lectura-backend/internal/repos"
	"github.com/lecturelab/lectura-backend/internal/requestdata"
)

// newTestStore opens the in-memory demo store, the same fallback the server
// uses when Postgres is not configured.
func newTestStore(t *testing.T) *gorm.DB {
	t.Helper()
	t.Setenv("POSTGRES_HOST", "")
	store, err := db.NewStore(testLogger(t))
	if err != nil {
		t.Fatalf("db.NewStore: %v", err)
	}
	if !store.Demo() {
		t.Fatalf("expected demo store")
	}
	if err := store.AutoMigrateAll(); err != nil {
		t.Fatalf("AutoMigrateAll: %v", err)
	}
	return store.DB()
}

func newTestAuthService(t *testing.T) AuthService {
	t.Helper()
	t.Setenv("SENDGRID_API_KEY", "")
	t.Setenv("SENDGRID_FROM_EMAIL", "")
	t.Setenv("SENDGRID_WELCOME_TEMPLATE_ID", "")
	t.Setenv("REDIS_ADDR", "")

	gdb := newTestStore(t)
	log := testLogger(t)
	bus, err := realtime.NewBus(log)
	if err != nil {
		t.Fatalf("realtime.NewBus: %v", err)
	}
	t.Cleanup(func() { _ = bus.Close() })

	return NewAuthService(
		gdb,
		log,
		repos.NewUserRepo(gdb, log),
		repos.NewUserTokenRepo(gdb, log),
		NewEmailService(log),
		bus,
		"test-secret",
		time.Hour,
		24*time.Hour,
	)
}

func uniqueEmail() string {
	return fmt.Sprintf("%s@example.com", uuid.New())
}

func TestRegisterUserSimulatedWelcomeEmail(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	email := uniqueEmail()
	user, welcome, err := svc.RegisterUser(ctx, email, "correct horse battery", "Ada")
	if err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}
	if user.Email != email {
		t.Fatalf("user email = %q, want %q", user.Email, email)
	}
	if welcome == nil || !welcome.Simulated {
		t.Fatalf("welcome outcome = %+v, want simulated", welcome)
	}
	if welcome.Subject != "Welcome to Lectura" {
		t.Fatalf("subject = %q", welcome.Subject)
	}
	if !strings.Contains(welcome.Body, "Ada") {
		t.Fatalf("body does not greet the user: %q", welcome.Body)
	}
}

func TestRegisterUserYieldsDemoSession(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	email := uniqueEmail()
	user, _, err := svc.RegisterUser(ctx, email, "correct horse battery", "Ada")
	if err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}

	accessToken, refreshToken, err := svc.LoginUser(ctx, email, "correct horse battery")
	if err != nil {
		t.Fatalf("LoginUser: %v", err)
	}
	if accessToken == "" || refreshToken == "" {
		t.Fatalf("empty token pair after login")
	}

	authedCtx, err := svc.SetContextFromToken(ctx, accessToken)
	if err != nil {
		t.Fatalf("SetContextFromToken: %v", err)
	}
	rd := requestdata.GetRequestData(authedCtx)
	if rd == nil || rd.UserID != user.ID {
		t.Fatalf("request data = %+v, want user %s", rd, user.ID)
	}
}

func TestRegisterUserRejectsDuplicateEmail(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	email := uniqueEmail()
	if _, _, err := svc.RegisterUser(ctx, email, "correct horse battery", "Ada"); err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}
	if _, _, err := svc.RegisterUser(ctx, email, "correct horse battery", "Ada"); err == nil {
		t.Fatalf("duplicate registration accepted")
	}
}
