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

	reqtypes "github.com/adiwjy/go-procurement-api/internal/domains/requests/application/types"
	"github.com/adiwjy/go-procurement-api/internal/domains/requests/domain"
	"github.com/adiwjy/go-procurement-api/internal/domains/requests/ports"
)

const tracerName = "github.com/adiwjy/go-procurement-api/internal/domains/requests/adapters/observability/service"

// Service decorates the request lifecycle port with tracing, logging, and
// metrics.
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

// CreateRequest opens a new request with instrumentation.
func (s *Service) CreateRequest(ctx context.Context, input reqtypes.CreateRequestInput) (*reqtypes.RequestProjection, error) {
	ctx, span := s.startSpan(ctx, "Service.CreateRequest", attribute.String("request.number", input.RequestNumber))
	defer span.End()

	s.logInfo(ctx, "creating request", slog.String("request.number", input.RequestNumber), slog.Int("items", len(input.Items)))
	result, err := s.inner.CreateRequest(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create request", slog.String("request.number", input.RequestNumber))
	}
	if result != nil && result.Entity != nil {
		s.metrics.recordSubmitted(ctx)
		s.logInfo(ctx, "request created", slog.String("request.number", result.Entity.RequestNumber), slog.String("status", string(result.Entity.Status)))
	}
	return result, nil
}

// Submit overwrites the item list and restarts the approval chain.
func (s *Service) Submit(ctx context.Context, input reqtypes.SubmitInput) (*reqtypes.RequestProjection, error) {
	ctx, span := s.startSpan(ctx, "Service.Submit",
		attribute.String("request.number", input.RequestNumber),
		attribute.Int("request.items", len(input.Items)),
	)
	defer span.End()

	s.logInfo(ctx, "submitting request", slog.String("request.number", input.RequestNumber), slog.Int("items", len(input.Items)))
	result, err := s.inner.Submit(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to submit request", slog.String("request.number", input.RequestNumber))
	}
	if result != nil && result.Entity != nil {
		s.metrics.recordSubmitted(ctx)
		s.logInfo(ctx, "request submitted", slog.String("request.number", result.Entity.RequestNumber), slog.String("status", string(result.Entity.Status)))
	}
	return result, nil
}

// Decide records one stage actor's outcome.
func (s *Service) Decide(ctx context.Context, input reqtypes.DecideInput) (*reqtypes.RequestProjection, error) {
	ctx, span := s.startSpan(ctx, "Service.Decide",
		attribute.String("request.number", input.RequestNumber),
		attribute.String("request.stage", string(input.Stage)),
		attribute.String("request.outcome", string(input.Outcome)),
	)
	defer span.End()

	s.logInfo(ctx, "recording decision",
		slog.String("request.number", input.RequestNumber),
		slog.String("stage", string(input.Stage)),
		slog.String("outcome", string(input.Outcome)),
	)
	result, err := s.inner.Decide(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to record decision",
			slog.String("request.number", input.RequestNumber),
			slog.String("stage", string(input.Stage)),
		)
	}
	if result != nil && result.Entity != nil {
		s.metrics.recordDecision(ctx, input.Stage, input.Outcome)
		s.logInfo(ctx, "decision recorded",
			slog.String("request.number", result.Entity.RequestNumber),
			slog.String("stage", string(input.Stage)),
			slog.String("status", string(result.Entity.Status)),
		)
	}
	return result, nil
}

// GetByNumber loads a single record.
func (s *Service) GetByNumber(ctx context.Context, input reqtypes.RequestIdentifier) (*reqtypes.RequestProjection, error) {
	ctx, span := s.startSpan(ctx, "Service.GetByNumber", attribute.String("request.number", input.RequestNumber))
	defer span.End()

	result, err := s.inner.GetByNumber(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load request", slog.String("request.number", input.RequestNumber))
	}
	return result, nil
}

// ListByStatus feeds the queue views.
func (s *Service) ListByStatus(ctx context.Context, statuses []string) ([]*reqtypes.RequestProjection, error) {
	ctx, span := s.startSpan(ctx, "Service.ListByStatus", attribute.StringSlice("request.statuses", statuses))
	defer span.End()

	result, err := s.inner.ListByStatus(ctx, statuses)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list requests by status", slog.Any("statuses", statuses))
	}
	span.SetAttributes(attribute.Int("request.result.count", len(result)))
	return result, nil
}

// List exposes all requests.
func (s *Service) List(ctx context.Context) ([]*reqtypes.RequestProjection, error) {
	ctx, span := s.startSpan(ctx, "Service.List")
	defer span.End()

	result, err := s.inner.List(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list requests")
	}
	span.SetAttributes(attribute.Int("request.result.count", len(result)))
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

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if err == nil {
		return nil
	}
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type serviceMetrics struct {
	submitted metric.Int64Counter
	decisions metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	submitted, _ := m.Int64Counter("requests.service.submitted", metric.WithDescription("Number of request submissions"))
	decisions, _ := m.Int64Counter("requests.service.decisions", metric.WithDescription("Number of approval decisions recorded"))
	return serviceMetrics{
		submitted: submitted,
		decisions: decisions,
	}
}

func (m serviceMetrics) recordSubmitted(ctx context.Context) {
	addCounter(ctx, m.submitted, 1)
}

func (m serviceMetrics) recordDecision(ctx context.Context, stage domain.Stage, outcome domain.Outcome) {
	addCounter(ctx, m.decisions, 1,
		attribute.String("request.stage", string(stage)),
		attribute.String("request.outcome", string(outcome)),
	)
}

func addCounter(ctx context.Context, counter metric.Int64Counter, value int64, attrs ...attribute.KeyValue) {
	if counter == nil {
		return
	}
	counter.Add(ctx, value, metric.WithAttributes(attrs...))
}

var _ ports.Service = (*Service)(nil)
