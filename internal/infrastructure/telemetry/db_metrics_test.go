package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestDefaultDBMetricsConfig(t *testing.T) {
	cfg := DefaultDBMetricsConfig()

	assert.True(t, cfg.Enabled)
	assert.Equal(t, 200*time.Millisecond, cfg.SlowQueryThreshold)
	assert.Equal(t, 15*time.Second, cfg.PoolStatsInterval)
}

func TestNewDBMetrics_AppliesDefaults(t *testing.T) {
	_, mp := newManualMeter(t)

	m, err := NewDBMetrics(mp.Meter("test"), DBMetricsConfig{Enabled: true}, nil)
	require.NoError(t, err)

	assert.Equal(t, 200*time.Millisecond, m.config.SlowQueryThreshold)
	assert.Equal(t, 15*time.Second, m.config.PoolStatsInterval)
}

func TestDBMetrics_RecordQuery(t *testing.T) {
	reader, mp := newManualMeter(t)
	m, err := NewDBMetrics(mp.Meter("test"), DefaultDBMetricsConfig(), zap.NewNop())
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordQuery(ctx, "select", "payment_transactions", 5*time.Millisecond)
	m.RecordQuery(ctx, "SELECT", "payment_transactions", 300*time.Millisecond)
	m.RecordQuery(ctx, "", "", time.Second)

	totals := collectSum(t, reader, "db_query_total")
	assert.Equal(t, int64(2), totals[key(AttrDBOperation.String("SELECT"))])
	assert.Equal(t, int64(1), totals[key(AttrDBOperation.String("UNKNOWN"))])

	slow := collectSum(t, reader, "db_slow_query_total")
	assert.Equal(t, int64(1), slow[key(AttrDBTable.String("payment_transactions"))])
	assert.Equal(t, int64(1), slow[key(AttrDBTable.String("unknown"))])
}

func TestDBMetricsPlugin_CountsGormOperations(t *testing.T) {
	reader, mp := newManualMeter(t)
	db := setupTestDB(t)

	m, err := registerDBMetrics(db, mp.Meter("db.client"), DefaultDBMetricsConfig(), zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, m)

	require.NoError(t, db.Create(&probeRow{Name: "a"}).Error)
	require.NoError(t, db.Model(&probeRow{}).Where("name = ?", "a").Update("name", "b").Error)
	var rows []probeRow
	require.NoError(t, db.Find(&rows).Error)
	var n int64
	require.NoError(t, db.Raw("SELECT COUNT(*) FROM probe_rows").Scan(&n).Error)

	totals := collectSum(t, reader, "db_query_total")
	assert.Equal(t, int64(1), totals[key(AttrDBOperation.String("INSERT"))])
	assert.Equal(t, int64(1), totals[key(AttrDBOperation.String("UPDATE"))])
	assert.Equal(t, int64(2), totals[key(AttrDBOperation.String("SELECT"))])
}

func TestRegisterDBMetrics_Disabled(t *testing.T) {
	db := setupTestDB(t)

	m, err := RegisterDBMetrics(db, nil, DefaultDBMetricsConfig(), nil)
	require.NoError(t, err)
	assert.Nil(t, m)

	m, err = RegisterDBMetrics(db, &MeterProvider{}, DBMetricsConfig{}, nil)
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestDBMetrics_PoolStats(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	sqlDB, _, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()
	sqlDB.SetMaxOpenConns(7)

	reader, mp := newManualMeter(t)
	m, err := NewDBMetrics(mp.Meter("test"), DBMetricsConfig{Enabled: true, PoolStatsInterval: time.Hour}, zap.NewNop())
	require.NoError(t, err)
	m.SetSQLDB(sqlDB)

	m.StartPoolStatsCollection(context.Background())
	m.Stop()
	m.Stop()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	var maxConns int64 = -1
	var states []string
	for _, sm := range rm.ScopeMetrics {
		for _, metric := range sm.Metrics {
			gauge, ok := metric.Data.(metricdata.Gauge[int64])
			if !ok {
				continue
			}
			for _, dp := range gauge.DataPoints {
				switch metric.Name {
				case "db_pool_connections_max":
					maxConns = dp.Value
				case "db_pool_connections":
					state, _ := dp.Attributes.Value(AttrDBState)
					states = append(states, state.AsString())
				}
			}
		}
	}
	assert.Equal(t, int64(7), maxConns)
	assert.ElementsMatch(t, []string{"idle", "in_use", "open"}, states)
}

func TestDBMetrics_StartWithoutPool(t *testing.T) {
	_, mp := newManualMeter(t)
	m, err := NewDBMetrics(mp.Meter("test"), DefaultDBMetricsConfig(), zap.NewNop())
	require.NoError(t, err)

	m.StartPoolStatsCollection(context.Background())
	m.Stop()
}
