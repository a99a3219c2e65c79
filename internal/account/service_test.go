package account_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/campusbites/canteenhub/internal/account"
	"github.com/campusbites/canteenhub/internal/auth"
	"github.com/campusbites/canteenhub/internal/domain/user"
	"github.com/campusbites/canteenhub/internal/repo/memory"
)

func newService(t *testing.T) (*account.Service, *memory.UsersRepo, *auth.Manager) {
	t.Helper()

	users := memory.NewUsersRepo()
	tokens := auth.NewManager("test-secret-key", time.Hour)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	return account.NewService(users, tokens, log), users, tokens
}

func TestRegisterThenLogin(t *testing.T) {
	svc, _, tokens := newService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, "A B", "a@b.com", "pw12345", "")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if u.Role != user.RoleStudent {
		t.Fatalf("got role %q, want default student", u.Role)
	}

	if u.PasswordHash == "pw12345" {
		t.Fatal("password stored in plaintext")
	}

	token, summary, err := svc.Login(ctx, "a@b.com", "pw12345")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	if summary.ID != u.ID || summary.Name != "A B" || summary.Type != user.RoleStudent {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	claims, err := tokens.Verify(token)
	if err != nil {
		t.Fatalf("issued token did not verify: %v", err)
	}

	if claims.UserID != u.ID || claims.Role != user.RoleStudent {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		fullName string
		email    string
		password string
		role     string
	}{
		{name: "missing name", email: "a@b.com", password: "pw12345"},
		{name: "missing email", fullName: "A B", password: "pw12345"},
		{name: "missing password", fullName: "A B", email: "a@b.com"},
		{name: "unknown role", fullName: "A B", email: "a@b.com", password: "pw12345", role: "superuser"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tc.fullName, tc.email, tc.password, tc.role)

			if !errors.Is(err, account.ErrValidation) {
				t.Fatalf("got %v, want ErrValidation", err)
			}
		})
	}
}

func TestRegisterDuplicateEmailLeavesOriginalIntact(t *testing.T) {
	svc, users, _ := newService(t)
	ctx := context.Background()

	first, err := svc.Register(ctx, "A B", "a@b.com", "pw12345", "")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, err = svc.Register(ctx, "Someone Else", "a@b.com", "other-pw", "")

	if !errors.Is(err, account.ErrEmailTaken) {
		t.Fatalf("got %v, want ErrEmailTaken", err)
	}

	stored, err := users.GetByEmail(ctx, "a@b.com")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}

	if stored.ID != first.ID || stored.FullName != "A B" {
		t.Fatalf("original record mutated by failed duplicate: %+v", stored)
	}

	if users.Len() != 1 {
		t.Fatalf("got %d records, want 1", users.Len())
	}
}

func TestConcurrentDuplicateRegistration(t *testing.T) {
	svc, users, _ := newService(t)
	ctx := context.Background()

	const attempts = 8

	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Register(ctx, "A B", "race@b.com", "pw12345", "")
		}(i)
	}

	wg.Wait()

	wins := 0
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, account.ErrEmailTaken):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if wins != 1 {
		t.Fatalf("got %d successful registrations, want exactly 1", wins)
	}

	if users.Len() != 1 {
		t.Fatalf("got %d records, want 1", users.Len())
	}
}

func TestLoginDoesNotRevealAccountExistence(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "A B", "a@b.com", "pw12345", ""); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, _, unknownErr := svc.Login(ctx, "nobody@b.com", "pw12345")
	_, _, wrongPwErr := svc.Login(ctx, "a@b.com", "wrong-password")

	if !errors.Is(unknownErr, account.ErrInvalidCredentials) {
		t.Fatalf("unknown email: got %v, want ErrInvalidCredentials", unknownErr)
	}

	if !errors.Is(wrongPwErr, account.ErrInvalidCredentials) {
		t.Fatalf("wrong password: got %v, want ErrInvalidCredentials", wrongPwErr)
	}

	// both failures must collapse to the same error value

	if !errors.Is(unknownErr, wrongPwErr) {
		t.Fatalf("errors differ: %v vs %v", unknownErr, wrongPwErr)
	}
}

func TestLoginValidation(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	if _, _, err := svc.Login(ctx, "", "pw12345"); !errors.Is(err, account.ErrValidation) {
		t.Fatalf("missing email: got %v, want ErrValidation", err)
	}

	if _, _, err := svc.Login(ctx, "a@b.com", ""); !errors.Is(err, account.ErrValidation) {
		t.Fatalf("missing password: got %v, want ErrValidation", err)
	}
}
