package sqlstore_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/oksasatya/go-user-crud/internal/domain/entity"
	"github.com/oksasatya/go-user-crud/internal/domain/repository"
	"github.com/oksasatya/go-user-crud/internal/infrastructure/sqlstore"
	"github.com/oksasatya/go-user-crud/internal/infrastructure/sqlstore/sqlstoretest"
)

type telemetry struct {
	spans  *tracetest.SpanRecorder
	reader *sdkmetric.ManualReader
}

func newTelemetrySession(t *testing.T) (*sqlstore.Session, *telemetry) {
	t.Helper()
	tel := &telemetry{spans: tracetest.NewSpanRecorder(), reader: sdkmetric.NewManualReader()}
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(tel.spans))
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(tel.reader))
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
		_ = mp.Shutdown(context.Background())
	})
	s := sqlstoretest.NewSession(t,
		sqlstore.WithTracer(tp.Tracer("sqlstore-test")),
		sqlstore.WithMeter(mp.Meter("sqlstore-test")),
	)
	return s, tel
}

func (tel *telemetry) counter(t *testing.T, name string) int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, tel.reader.Collect(context.Background(), &rm))
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok, "%s is not an int64 sum", name)
			var total int64
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
			return total
		}
	}
	return 0
}

func TestTransactionRecordsSpans(t *testing.T) {
	s, tel := newTelemetrySession(t)
	repo := sqlstore.NewUserRepository(s)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &entity.User{Name: "Span", Email: "span@test.com", Age: 20}))
	_, err := repo.FindByID(ctx, 999)
	require.ErrorIs(t, err, repository.ErrNotFound)
	err = s.Transaction(ctx, "explode", func(tx *sqlx.Tx) error { return errors.New("boom") })
	require.Error(t, err)

	spans := tel.spans.Ended()
	require.Len(t, spans, 3)

	assert.Equal(t, "users.create", spans[0].Name())
	assert.Equal(t, codes.Unset, spans[0].Status().Code)

	assert.Equal(t, "users.find_by_id", spans[1].Name())
	assert.Equal(t, codes.Unset, spans[1].Status().Code)

	assert.Equal(t, "users.explode", spans[2].Name())
	assert.Equal(t, codes.Error, spans[2].Status().Code)
	assert.Equal(t, "boom", spans[2].Status().Description)
}

func TestTransactionRecordsMetrics(t *testing.T) {
	s, tel := newTelemetrySession(t)
	repo := sqlstore.NewUserRepository(s)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &entity.User{Name: "Metric", Email: "metric@test.com", Age: 20}))
	_, err := repo.FindAll(ctx)
	require.NoError(t, err)
	_, err = repo.FindByID(ctx, 999)
	require.ErrorIs(t, err, repository.ErrNotFound)
	_ = s.Transaction(ctx, "explode", func(tx *sqlx.Tx) error { return errors.New("boom") })

	assert.Equal(t, int64(4), tel.counter(t, "usercrud.db.tx.count"))
	assert.Equal(t, int64(1), tel.counter(t, "usercrud.db.tx.errors"))
}
