// Package observability decorates the account service with tracing, logging,
// and metrics.
package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/adiwjy/go-procurement-api/internal/domains/accounts/domain"
	"github.com/adiwjy/go-procurement-api/internal/domains/accounts/ports"
)

const tracerName = "github.com/adiwjy/go-procurement-api/internal/domains/accounts/adapters/observability/service"

// Service wraps the account port. Principal IDs are traced; emails are not.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithTracer injects a tracer implementation.
func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

// WithMeter injects the meter used to create service metrics instruments.
func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wires a decorator around the core service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  defaultLogger(),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	if s.logger == nil {
		s.logger = defaultLogger()
	}
	return s
}

func (s *Service) Login(ctx context.Context, principalID string) (ports.Session, ports.ResolvedProfile, error) {
	ctx, span := s.startSpan(ctx, "Service.Login", attribute.String("account.principal", principalID))
	defer span.End()

	session, resolved, err := s.inner.Login(ctx, principalID)
	if err != nil {
		return ports.Session{}, ports.ResolvedProfile{}, s.handleError(ctx, span, err, "failed to log in", slog.String("principal", principalID))
	}
	s.metrics.recordLogin(ctx, resolved.Profile.Role)
	s.logInfo(ctx, "principal logged in",
		slog.String("principal", principalID),
		slog.String("role", string(resolved.Profile.Role)),
	)
	return session, resolved, nil
}

func (s *Service) Logout(ctx context.Context, principalID string) error {
	ctx, span := s.startSpan(ctx, "Service.Logout", attribute.String("account.principal", principalID))
	defer span.End()

	if err := s.inner.Logout(ctx, principalID); err != nil {
		return s.handleError(ctx, span, err, "failed to log out", slog.String("principal", principalID))
	}
	s.logInfo(ctx, "principal logged out", slog.String("principal", principalID))
	return nil
}

func (s *Service) Resolve(ctx context.Context, principalID string) (ports.ResolvedProfile, error) {
	ctx, span := s.startSpan(ctx, "Service.Resolve", attribute.String("account.principal", principalID))
	defer span.End()

	result, err := s.inner.Resolve(ctx, principalID)
	if err != nil {
		return ports.ResolvedProfile{}, s.handleError(ctx, span, err, "failed to resolve profile", slog.String("principal", principalID))
	}
	span.SetAttributes(attribute.String("account.role", string(result.Profile.Role)))
	return result, nil
}

func (s *Service) SwitchProfile(ctx context.Context, principalID string, index int) (ports.ResolvedProfile, error) {
	ctx, span := s.startSpan(ctx, "Service.SwitchProfile",
		attribute.String("account.principal", principalID),
		attribute.Int("account.profile.index", index),
	)
	defer span.End()

	result, err := s.inner.SwitchProfile(ctx, principalID, index)
	if err != nil {
		return ports.ResolvedProfile{}, s.handleError(ctx, span, err, "failed to switch profile",
			slog.String("principal", principalID),
			slog.Int("index", index),
		)
	}
	s.metrics.recordSwitch(ctx, result.Profile.Role)
	s.logInfo(ctx, "profile switched",
		slog.String("principal", principalID),
		slog.Int("index", index),
		slog.String("role", string(result.Profile.Role)),
	)
	return result, nil
}

func (s *Service) GetByPrincipal(ctx context.Context, principalID string) (*ports.AccountProjection, error) {
	ctx, span := s.startSpan(ctx, "Service.GetByPrincipal", attribute.String("account.principal", principalID))
	defer span.End()

	result, err := s.inner.GetByPrincipal(ctx, principalID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load account", slog.String("principal", principalID))
	}
	return result, nil
}

func (s *Service) LookupNIK(ctx context.Context, nik string) (*domain.DirectoryEntry, error) {
	ctx, span := s.startSpan(ctx, "Service.LookupNIK")
	defer span.End()

	result, err := s.inner.LookupNIK(ctx, nik)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "nik lookup rejected")
	}
	return result, nil
}

func (s *Service) Register(ctx context.Context, input ports.RegisterInput) (*ports.AccountProjection, error) {
	ctx, span := s.startSpan(ctx, "Service.Register", attribute.String("account.principal", input.PrincipalID))
	defer span.End()

	s.logInfo(ctx, "registering account", slog.String("principal", input.PrincipalID))
	result, err := s.inner.Register(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to register account", slog.String("principal", input.PrincipalID))
	}
	s.metrics.recordRegistered(ctx)
	s.logInfo(ctx, "account registered", slog.String("principal", input.PrincipalID))
	return result, nil
}

func (s *Service) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := s.tracer
	if tracer == nil {
		tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if err == nil {
		return nil
	}
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	if s.logger != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
	}
	return err
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type serviceMetrics struct {
	registered metric.Int64Counter
	switches   metric.Int64Counter
	logins     metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	registered, _ := m.Int64Counter("accounts.service.registered", metric.WithDescription("Number of accounts registered"))
	switches, _ := m.Int64Counter("accounts.service.profile_switches", metric.WithDescription("Number of profile switches"))
	logins, _ := m.Int64Counter("accounts.service.logins", metric.WithDescription("Number of successful logins"))
	return serviceMetrics{
		registered: registered,
		switches:   switches,
		logins:     logins,
	}
}

func (m serviceMetrics) recordRegistered(ctx context.Context) {
	if m.registered == nil {
		return
	}
	m.registered.Add(ctx, 1)
}

func (m serviceMetrics) recordLogin(ctx context.Context, role domain.Role) {
	if m.logins == nil {
		return
	}
	m.logins.Add(ctx, 1, metric.WithAttributes(attribute.String("account.role", string(role))))
}

func (m serviceMetrics) recordSwitch(ctx context.Context, role domain.Role) {
	if m.switches == nil {
		return
	}
	m.switches.Add(ctx, 1, metric.WithAttributes(attribute.String("account.role", string(role))))
}

var _ ports.Service = (*Service)(nil)
