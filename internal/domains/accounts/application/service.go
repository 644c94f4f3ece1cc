package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/adiwjy/go-procurement-api/internal/domains/accounts/domain"
	"github.com/adiwjy/go-procurement-api/internal/domains/accounts/ports"
	"github.com/adiwjy/go-procurement-api/internal/routing"
)

// ErrInvalidInput signals the request violated an account invariant.
var ErrInvalidInput = errors.New("invalid account input")

const defaultSessionTTL = 24 * time.Hour

// Service exposes the account bounded context use cases. Profile resolution
// itself is pure; the service adds the store round trips around it.
type Service struct {
	repo       ports.Repository
	directory  ports.Directory
	sessions   ports.SessionStore
	sessionTTL time.Duration
	mailer     ports.VerificationMailer
}

// Option customizes the service.
type Option func(*Service)

// WithSessionStore wires session persistence.
func WithSessionStore(sessions ports.SessionStore) Option {
	return func(s *Service) {
		if sessions != nil {
			s.sessions = sessions
		}
	}
}

// WithSessionTTL overrides how long a stored session lives.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.sessionTTL = ttl
		}
	}
}

// WithVerificationMailer wires the registration mail channel.
func WithVerificationMailer(mailer ports.VerificationMailer) Option {
	return func(s *Service) {
		if mailer != nil {
			s.mailer = mailer
		}
	}
}

// NewService wires the account service with its dependencies.
func NewService(repo ports.Repository, directory ports.Directory, opts ...Option) *Service {
	s := &Service{
		repo:       repo,
		directory:  directory,
		sessions:   ports.NoopSessionStore,
		sessionTTL: defaultSessionTTL,
		mailer:     ports.NoopVerificationMailer,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// ResolveActiveProfile is the pure resolver: active profile plus the default
// route for its role. It never mutates the account.
func ResolveActiveProfile(account *domain.Account) (ports.ResolvedProfile, error) {
	if account == nil {
		return ports.ResolvedProfile{}, domain.ErrInvalidAccount
	}
	profile, err := account.ActiveProfile()
	if err != nil {
		return ports.ResolvedProfile{}, err
	}
	route, err := routing.RouteFor(profile.Role)
	if err != nil {
		return ports.ResolvedProfile{}, err
	}
	return ports.ResolvedProfile{Profile: profile, Route: route}, nil
}

// Resolve loads the principal's account and resolves its active profile.
func (s *Service) Resolve(ctx context.Context, principalID string) (ports.ResolvedProfile, error) {
	proj, err := s.repo.GetByPrincipal(ctx, principalID)
	if err != nil {
		return ports.ResolvedProfile{}, err
	}
	return ResolveActiveProfile(proj.Entity)
}

// SwitchProfile validates the index, persists it, and returns the newly
// active profile. An out-of-range index leaves the stored state unchanged.
func (s *Service) SwitchProfile(ctx context.Context, principalID string, index int) (ports.ResolvedProfile, error) {
	proj, err := s.repo.GetByPrincipal(ctx, principalID)
	if err != nil {
		return ports.ResolvedProfile{}, err
	}
	account := proj.Entity
	profile, err := account.SwitchProfile(index)
	if err != nil {
		return ports.ResolvedProfile{}, err
	}
	if err := s.repo.PersistSelectedProfileIndex(ctx, principalID, index); err != nil {
		return ports.ResolvedProfile{}, err
	}
	route, err := routing.RouteFor(profile.Role)
	if err != nil {
		return ports.ResolvedProfile{}, err
	}
	return ports.ResolvedProfile{Profile: profile, Route: route}, nil
}

// GetByPrincipal loads an account.
func (s *Service) GetByPrincipal(ctx context.Context, principalID string) (*ports.AccountProjection, error) {
	return s.repo.GetByPrincipal(ctx, principalID)
}

// LookupNIK checks a registration attempt against the pre-registered
// directory: the NIK must exist, be unused, and carry an eligible role.
func (s *Service) LookupNIK(ctx context.Context, nik string) (*domain.DirectoryEntry, error) {
	nik = strings.TrimSpace(nik)
	if nik == "" {
		return nil, fmt.Errorf("%w: nik is required", ErrInvalidInput)
	}
	if _, err := s.repo.GetByNIK(ctx, nik); err == nil {
		return nil, domain.ErrNIKTaken
	} else if !errors.Is(err, ports.ErrNotFound) {
		return nil, err
	}
	entry, err := s.directory.LookupNIK(ctx, nik)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, domain.ErrNIKNotRegistered
		}
		return nil, err
	}
	if !entry.EligibleToRegister() {
		return nil, domain.ErrRoleNotEligible
	}
	return entry, nil
}

// Register creates the account for a pre-registered employee with a single
// profile and email verification pending, then fires the verification mail.
// New registrants start as requesters unless a role is supplied.
func (s *Service) Register(ctx context.Context, input ports.RegisterInput) (*ports.AccountProjection, error) {
	entry, err := s.LookupNIK(ctx, input.NIK)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Email) == "" {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, domain.ErrEmptyEmail)
	}
	role := input.Role
	if role == "" {
		role = domain.RoleRequester
	}
	account, err := domain.NewAccount(input.PrincipalID, entry.NIK, entry.NamaLengkap, entry.Divisi, []domain.Profile{
		{Email: input.Email, Entity: input.Entity, Role: role},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	saved, err := s.repo.Create(ctx, account)
	if err != nil {
		return nil, err
	}
	// Mail delivery must not undo the created account.
	_ = s.mailer.SendVerification(context.WithoutCancel(ctx), input.Email)
	return saved, nil
}

// Login resolves the principal's active profile and establishes a session.
// A still-live session is reused so repeated logins hold one token.
func (s *Service) Login(ctx context.Context, principalID string) (ports.Session, ports.ResolvedProfile, error) {
	resolved, err := s.Resolve(ctx, principalID)
	if err != nil {
		return ports.Session{}, ports.ResolvedProfile{}, err
	}
	token, err := s.sessions.Get(ctx, principalID)
	if errors.Is(err, ports.ErrNotFound) {
		token = uuid.NewString()
		err = s.sessions.Save(ctx, principalID, token, s.sessionTTL)
	}
	if err != nil {
		return ports.Session{}, ports.ResolvedProfile{}, err
	}
	return ports.Session{PrincipalID: principalID, Token: token}, resolved, nil
}

// Logout drops the principal's session. A session that already expired is
// not an error.
func (s *Service) Logout(ctx context.Context, principalID string) error {
	if strings.TrimSpace(principalID) == "" {
		return fmt.Errorf("%w: principal id is required", ErrInvalidInput)
	}
	if err := s.sessions.Delete(ctx, principalID); err != nil && !errors.Is(err, ports.ErrNotFound) {
		return err
	}
	return nil
}

var _ ports.Service = (*Service)(nil)
