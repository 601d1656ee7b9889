package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type tracedProduct struct {
	ID    uint   `gorm:"primaryKey"`
	Name  string `gorm:"size:100"`
	Stock int
}

func newTracingTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&tracedProduct{}))
	return db
}

func newSpanRecorder(t *testing.T) (*sdktrace.TracerProvider, *tracetest.SpanRecorder) {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return tp, recorder
}

func TestDefaultDBTracingConfig(t *testing.T) {
	cfg := DefaultDBTracingConfig()

	assert.False(t, cfg.Enabled)
	assert.False(t, cfg.LogFullSQL, "SQL text stays out of spans by default")
	assert.True(t, cfg.WithoutVariables, "bind variables stay out of spans by default")
	assert.Equal(t, 200*time.Millisecond, cfg.SlowQueryThresh)
	assert.Equal(t, "postgresql", cfg.DBSystem)
}

func TestDBTracingPlugin_RegisterOtelGorm(t *testing.T) {
	t.Run("disabled config registers nothing", func(t *testing.T) {
		db := newTracingTestDB(t)
		plugin := NewDBTracingPlugin(DefaultDBTracingConfig(), zap.NewNop())

		require.NoError(t, plugin.RegisterOtelGorm(db))

		// No callbacks were installed, so a second registration still works.
		require.NoError(t, plugin.RegisterOtelGorm(db))
	})

	t.Run("enabled config registers otelgorm and hooks", func(t *testing.T) {
		db := newTracingTestDB(t)
		cfg := DBTracingConfig{
			Enabled:          true,
			SlowQueryThresh:  200 * time.Millisecond,
			DBSystem:         "sqlite",
			WithoutVariables: true,
		}
		plugin := NewDBTracingPlugin(cfg, zap.NewNop())

		require.NoError(t, plugin.RegisterOtelGorm(db))

		// Re-registering the same plugin collides on callback names.
		assert.Error(t, plugin.RegisterOtelGorm(db))
	})

	t.Run("full SQL mode registers", func(t *testing.T) {
		db := newTracingTestDB(t)
		cfg := DBTracingConfig{
			Enabled:         true,
			LogFullSQL:      true,
			SlowQueryThresh: 200 * time.Millisecond,
			DBSystem:        "sqlite",
		}
		plugin := NewDBTracingPlugin(cfg, zap.NewNop())

		require.NoError(t, plugin.RegisterOtelGorm(db))
	})
}

func TestDBTracingPlugin_SpanAnnotations(t *testing.T) {
	db := newTracingTestDB(t)
	tp, recorder := newSpanRecorder(t)

	cfg := DBTracingConfig{
		Enabled:         true,
		SlowQueryThresh: 200 * time.Millisecond,
		DBSystem:        "sqlite",
	}
	plugin := NewDBTracingPlugin(cfg, zap.NewNop())

	ctx, span := tp.Tracer("test").Start(context.Background(), "db-annotations")

	rows := []tracedProduct{{Name: "kb-1"}, {Name: "kb-2"}, {Name: "kb-3"}}
	result := db.WithContext(ctx).Create(&rows)
	require.NoError(t, result.Error)

	plugin.annotateSpan(result.Statement.DB)
	span.End()

	spans := recorder.Ended()
	require.NotEmpty(t, spans)

	var gotRows, gotTable bool
	for _, attr := range spans[0].Attributes() {
		switch attr.Key {
		case "db.rows_affected":
			gotRows = true
			assert.Equal(t, int64(3), attr.Value.AsInt64())
		case "db.sql.table":
			gotTable = true
			assert.Equal(t, "traced_products", attr.Value.AsString())
		}
	}
	assert.True(t, gotRows, "db.rows_affected should be set")
	assert.True(t, gotTable, "db.sql.table should be set")
}

func TestDBTracingPlugin_RecordNotFoundIsNotAnError(t *testing.T) {
	db := newTracingTestDB(t)
	tp, recorder := newSpanRecorder(t)

	plugin := NewDBTracingPlugin(DBTracingConfig{
		Enabled:         true,
		SlowQueryThresh: 200 * time.Millisecond,
		DBSystem:        "sqlite",
	}, zap.NewNop())

	ctx, span := tp.Tracer("test").Start(context.Background(), "missing-row")

	var row tracedProduct
	tx := db.WithContext(ctx).First(&row, 99999)
	require.ErrorIs(t, tx.Error, gorm.ErrRecordNotFound)

	plugin.annotateSpan(tx)
	span.End()

	spans := recorder.Ended()
	require.NotEmpty(t, spans)
	assert.NotEqual(t, codes.Error, spans[0].Status().Code)
}

func TestDBTracingPlugin_SlowQueryMarker(t *testing.T) {
	db := newTracingTestDB(t)
	tp, recorder := newSpanRecorder(t)

	// Threshold of one nanosecond so any statement counts as slow.
	plugin := NewDBTracingPlugin(DBTracingConfig{
		Enabled:         true,
		SlowQueryThresh: time.Nanosecond,
		DBSystem:        "sqlite",
	}, zap.NewNop())

	ctx, span := tp.Tracer("test").Start(context.Background(), "slow-query")
	ctx = context.WithValue(ctx, queryStartTimeKey, time.Now().Add(-10*time.Millisecond))

	var row tracedProduct
	tx := db.WithContext(ctx).Where("name = ?", "absent").Limit(1).Find(&row)
	require.NoError(t, tx.Error)

	plugin.annotateSpan(tx)
	span.End()

	spans := recorder.Ended()
	require.NotEmpty(t, spans)

	var slow bool
	for _, attr := range spans[0].Attributes() {
		if attr.Key == "db.slow_query" && attr.Value.AsBool() {
			slow = true
		}
	}
	assert.True(t, slow, "db.slow_query should be set past the threshold")

	var warned bool
	for _, event := range spans[0].Events() {
		if event.Name == "slow_query_warning" {
			warned = true
		}
	}
	assert.True(t, warned, "slow_query_warning event should be recorded")
}

func TestDBTracingPlugin_NoSpanNoPanic(t *testing.T) {
	db := newTracingTestDB(t)
	plugin := NewDBTracingPlugin(DefaultDBTracingConfig(), zap.NewNop())

	// Without a recording span in context the callback is a no-op.
	assert.NotPanics(t, func() {
		plugin.annotateSpan(db.WithContext(context.Background()).Session(&gorm.Session{}))
	})
	assert.NotPanics(t, func() {
		plugin.annotateSpan(db.Session(&gorm.Session{}))
	})
}

func TestDBTracingPlugin_EndToEndWithOtelGorm(t *testing.T) {
	db := newTracingTestDB(t)
	tp, recorder := newSpanRecorder(t)

	plugin := NewDBTracingPlugin(DBTracingConfig{
		Enabled:         true,
		LogFullSQL:      true,
		SlowQueryThresh: 200 * time.Millisecond,
		DBSystem:        "sqlite",
	}, zap.NewNop())
	require.NoError(t, plugin.RegisterOtelGorm(db))

	ctx, span := tp.Tracer("test").Start(context.Background(), "round-trip")

	require.NoError(t, db.WithContext(ctx).Create(&tracedProduct{Name: "headset", Stock: 4}).Error)

	var found tracedProduct
	require.NoError(t, db.WithContext(ctx).First(&found, "name = ?", "headset").Error)
	assert.Equal(t, 4, found.Stock)

	span.End()
	assert.NotEmpty(t, recorder.Ended())
}
