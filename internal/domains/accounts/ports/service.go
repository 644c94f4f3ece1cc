package ports

import (
	"context"

	"github.com/adiwjy/go-procurement-api/internal/domains/accounts/domain"
)

// ResolvedProfile is the outcome of profile resolution: the active profile
// plus the route that profile's role lands on. The route is advisory; the
// navigation layer decides whether to redirect.
type ResolvedProfile struct {
	Profile domain.Profile
	Route   string
}

// RegisterInput carries a self-registration attempt. The NIK must exist in
// the pre-registered directory and be unused.
type RegisterInput struct {
	PrincipalID string
	NIK         string
	Email       string
	Entity      string
	Role        domain.Role
}

// Session identifies a signed-in principal. The token is opaque to this
// service; the identity layer in front validates it against the store.
type Session struct {
	PrincipalID string
	Token       string
}

// Service defines the account use cases exposed to adapters.
type Service interface {
	Login(ctx context.Context, principalID string) (Session, ResolvedProfile, error)
	Logout(ctx context.Context, principalID string) error
	Resolve(ctx context.Context, principalID string) (ResolvedProfile, error)
	SwitchProfile(ctx context.Context, principalID string, index int) (ResolvedProfile, error)
	GetByPrincipal(ctx context.Context, principalID string) (*AccountProjection, error)
	LookupNIK(ctx context.Context, nik string) (*domain.DirectoryEntry, error)
	Register(ctx context.Context, input RegisterInput) (*AccountProjection, error)
}

// VerificationMailer sends the email-verification message after a
// successful registration. Delivery is fire-and-forget: a failure is logged
// by the caller and never rolls back the created account.
type VerificationMailer interface {
	SendVerification(ctx context.Context, email string) error
}

// NoopVerificationMailer is a safe default when no mail channel is wired.
var NoopVerificationMailer VerificationMailer = noopVerificationMailer{}

type noopVerificationMailer struct{}

func (noopVerificationMailer) SendVerification(_ context.Context, _ string) error {
	return nil
}
