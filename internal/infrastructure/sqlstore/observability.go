package sqlstore

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/oksasatya/go-user-crud/internal/domain/repository"
)

const instrumentationName = "github.com/oksasatya/go-user-crud/internal/infrastructure/sqlstore"

type metrics struct {
	count    metric.Int64Counter
	duration metric.Float64Histogram
	errors   metric.Int64Counter
}

type observability struct {
	logger  *logrus.Logger
	tracer  trace.Tracer
	metrics *metrics
	slow    time.Duration
}

// defaultObservability reports to the global OpenTelemetry providers, which are
// no-ops unless the binary installs an SDK.
func defaultObservability() *observability {
	return &observability{
		tracer:  otel.Tracer(instrumentationName),
		metrics: newMetrics(otel.Meter(instrumentationName)),
		slow:    200 * time.Millisecond,
	}
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithLogger logs failed and slow units of work.
func WithLogger(logger *logrus.Logger) SessionOption {
	return func(s *Session) { s.obs.logger = logger }
}

func WithTracer(tracer trace.Tracer) SessionOption {
	return func(s *Session) { s.obs.tracer = tracer }
}

func WithMeter(meter metric.Meter) SessionOption {
	return func(s *Session) { s.obs.metrics = newMetrics(meter) }
}

func WithSlowThreshold(d time.Duration) SessionOption {
	return func(s *Session) { s.obs.slow = d }
}

func newMetrics(meter metric.Meter) *metrics {
	count, _ := meter.Int64Counter("usercrud.db.tx.count",
		metric.WithDescription("Units of work executed"),
		metric.WithUnit("{tx}"),
	)
	duration, _ := meter.Float64Histogram("usercrud.db.tx.duration",
		metric.WithDescription("Unit of work duration in milliseconds"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000),
	)
	errs, _ := meter.Int64Counter("usercrud.db.tx.errors",
		metric.WithDescription("Units of work that failed or rolled back"),
		metric.WithUnit("{error}"),
	)
	return &metrics{count: count, duration: duration, errors: errs}
}

func (s *Session) startSpan(ctx context.Context, op string) (context.Context, trace.Span) {
	return s.obs.tracer.Start(ctx, "users."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", s.dialect.Name()),
			attribute.String("db.operation", op),
		),
	)
}

func (s *Session) finish(ctx context.Context, span trace.Span, op string, d time.Duration, err error) {
	defer span.End()

	// A missing row is an answer, not a failure.
	failed := err != nil && !errors.Is(err, repository.ErrNotFound)
	if failed {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	if m := s.obs.metrics; m != nil {
		attrs := metric.WithAttributes(
			attribute.String("db.operation", op),
			attribute.String("db.system", s.dialect.Name()),
		)
		m.count.Add(ctx, 1, attrs)
		m.duration.Record(ctx, float64(d.Microseconds())/1000, attrs)
		if failed {
			m.errors.Add(ctx, 1, attrs)
		}
	}

	if s.obs.logger == nil {
		return
	}
	fields := logrus.Fields{"op": op, "duration": d.String()}
	switch {
	case failed:
		s.obs.logger.WithFields(fields).WithError(err).Error("unit of work failed")
	case d > s.obs.slow:
		s.obs.logger.WithFields(fields).Warn("slow unit of work")
	default:
		s.obs.logger.WithFields(fields).Debug("unit of work finished")
	}
}
