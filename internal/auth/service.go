// internal/auth/service.go
//
// Credential verification and account creation.
//
// Context
// -------
// The service owns the only two write/verify paths against the
// credential store.  Passwords are bcrypt-hashed at signup and verified
// with CompareHashAndPassword at login; the comparison is constant-time
// by construction, and the same "invalid credentials" error covers both
// the unknown-email and wrong-password cases so responses do not reveal
// which half failed.
//
// Error taxonomy
// --------------
//	ErrInvalidCredentials → 401 at the boundary.
//	ErrEmailTaken         → 409.
//	ErrBadRole            → 400.
//	anything else         → 500, logged.

package auth

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/prepdesk/prepdesk/internal/metrics"
	"github.com/prepdesk/prepdesk/internal/user"
)

var (
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	ErrEmailTaken         = errors.New("auth: email already registered")
	ErrBadRole            = errors.New("auth: unknown role")
)

// Store is the slice of the user repository the service depends on.
// *user.Repository satisfies it; tests may substitute a stub.
type Store interface {
	ByEmail(ctx context.Context, email string) (*user.Record, error)
	ByID(ctx context.Context, id int64) (*user.Record, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	Insert(ctx context.Context, fullName, email, passwordHash string, role user.Role) (*user.Record, error)
}

// Service bundles the store with the logger.  Construct once in cmd/web.
type Service struct {
	store Store
	log   *zap.SugaredLogger
}

// NewService wires the service.  A nil logger falls back to the global.
func NewService(store Store, log *zap.SugaredLogger) *Service {
	if log == nil {
		log = zap.S()
	}
	return &Service{store: store, log: log}
}

// Login verifies {email, password} against the stored hash and returns
// the identity projection on success.
func (s *Service) Login(ctx context.Context, email, password string) (*user.Identity, error) {
	rec, err := s.store.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			metrics.LoginFailureTotal.Inc()
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login lookup: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(rec.PasswordHash), []byte(password)) != nil {
		metrics.LoginFailureTotal.Inc()
		s.log.Infow("login rejected", "user_id", rec.ID)
		return nil, ErrInvalidCredentials
	}

	metrics.LoginSuccessTotal.Inc()
	s.log.Infow("login ok", "user_id", rec.ID, "role", rec.Role)
	return rec.Identity(), nil
}

// Signup creates a new account.  Role defaults to student when empty;
// an unknown role is rejected before touching the store.  Duplicate
// emails fail with ErrEmailTaken and leave the store untouched.
func (s *Service) Signup(ctx context.Context, fullName, email, password string, role user.Role) (*user.Identity, error) {
	if role == "" {
		role = user.RoleStudent
	}
	if !role.Valid() {
		return nil, ErrBadRole
	}

	taken, err := s.store.EmailExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("signup probe: %w", err)
	}
	if taken {
		metrics.SignupConflictTotal.Inc()
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("signup hash: %w", err)
	}

	rec, err := s.store.Insert(ctx, fullName, email, string(hash), role)
	if err != nil {
		return nil, fmt.Errorf("signup insert: %w", err)
	}

	metrics.SignupTotal.Inc()
	s.log.Infow("signup ok", "user_id", rec.ID, "role", rec.Role)
	return rec.Identity(), nil
}

// Resolve maps a user id from a verified session cookie to the identity
// projection.  A vanished id resolves to (nil, nil): the cookie was
// once valid, so the caller answers 200 {user:null} rather than 401.
func (s *Service) Resolve(ctx context.Context, id int64) (*user.Identity, error) {
	rec, err := s.store.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("resolve lookup: %w", err)
	}
	metrics.IdentityResolveTotal.Inc()
	return rec.Identity(), nil
}
