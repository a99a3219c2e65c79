package account

import (
	"context"
	"errors"
	"log/slog"

	"github.com/campusbites/canteenhub/internal/domain/user"
	"github.com/campusbites/canteenhub/internal/security"
)

var (
	ErrValidation = errors.New("missing required fields")
	// ErrEmailTaken re-exports the store sentinel so callers depend on
	// one package for the whole taxonomy.
	ErrEmailTaken = user.ErrEmailTaken
	// ErrInvalidCredentials covers both unknown email and wrong password.
	// Splitting them would tell an attacker which emails have accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type UserReader interface {
	GetByEmail(ctx context.Context, email string) (user.User, error)
}

type UserWriter interface {
	Create(ctx context.Context, email, passwordHash, fullName, role string) (user.User, error)
}

type UserStore interface {
	UserReader
	UserWriter
}

type TokenIssuer interface {
	Issue(userID, role string) (string, error)
}

// Service composes the password hasher, the credential store and the
// token manager into the register/login flows.
type Service struct {
	users  UserStore
	tokens TokenIssuer
	log    *slog.Logger
}

func NewService(users UserStore, tokens TokenIssuer, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}

	return &Service{
		users:  users,
		tokens: tokens,
		log:    log,
	}
}

// Register hashes the password and creates the user. An empty role
// defaults to student.
func (s *Service) Register(ctx context.Context, fullName, email, password, role string) (user.User, error) {
	if fullName == "" || email == "" || password == "" {
		return user.User{}, ErrValidation
	}

	if role == "" {
		role = user.RoleStudent
	}

	if !user.ValidRole(role) {
		return user.User{}, ErrValidation
	}

	hash, err := security.HashPassword(password)

	if err != nil {
		// hashing failure is an infrastructure problem, not a bad request
		s.log.ErrorContext(ctx, "password hash failed", "err", err)
		return user.User{}, err
	}

	u, err := s.users.Create(ctx, email, hash, fullName, role)

	if err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			return user.User{}, ErrEmailTaken
		}

		s.log.ErrorContext(ctx, "user create failed", "err", err)
		return user.User{}, err
	}

	return u, nil
}

// Login verifies credentials and issues a one-hour token. Lookup miss
// and hash mismatch are deliberately indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (string, user.Summary, error) {
	if email == "" || password == "" {
		return "", user.Summary{}, ErrValidation
	}

	u, err := s.users.GetByEmail(ctx, email)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return "", user.Summary{}, ErrInvalidCredentials
		}

		s.log.ErrorContext(ctx, "user lookup failed", "err", err)
		return "", user.Summary{}, err
	}

	if err := security.CheckPassword(u.PasswordHash, password); err != nil {
		return "", user.Summary{}, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(u.ID, u.Role)

	if err != nil {
		s.log.ErrorContext(ctx, "token issue failed", "err", err)
		return "", user.Summary{}, err
	}

	return token, u.Summary(), nil
}
