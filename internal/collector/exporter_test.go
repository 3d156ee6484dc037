package collector

import (
	"context"
	"testing"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Schera-ole/monitor/internal/config"
	models "github.com/Schera-ole/monitor/internal/model"
	"github.com/Schera-ole/monitor/internal/repository"
	"github.com/Schera-ole/monitor/internal/service"
)

func gather(t *testing.T, svc *service.MetricsService) map[string]*dto.MetricFamily {
	t.Helper()
	reg, err := NewPrometheusRegistry(NewExporter(svc, zap.NewNop().Sugar()))
	require.NoError(t, err)

	families, err := reg.Gather()
	require.NoError(t, err)

	byName := make(map[string]*dto.MetricFamily, len(families))
	for _, f := range families {
		byName[f.GetName()] = f
	}
	return byName
}

func TestExporter_ExposesStoredSamples(t *testing.T) {
	svc := service.NewMetricsService(repository.NewMemStorage())
	ctx := context.Background()
	require.NoError(t, svc.SetMetrics(ctx, []models.Metric{{Name: "cpu_usage_percent", Type: config.GaugeType, Value: 33.0}}))
	require.NoError(t, svc.SetMetrics(ctx, []models.Metric{{Name: "context_switches_total", Type: config.CounterType, Value: int64(7)}}))

	families := gather(t, svc)

	cpu, ok := families["monitor_cpu_usage_percent"]
	require.True(t, ok)
	assert.Equal(t, dto.MetricType_GAUGE, cpu.GetType())
	assert.Equal(t, 33.0, cpu.GetMetric()[0].GetGauge().GetValue())
	assert.Equal(t, "Total CPU usage in percent.", cpu.GetHelp())

	ctxt, ok := families["monitor_context_switches_total"]
	require.True(t, ok)
	assert.Equal(t, dto.MetricType_COUNTER, ctxt.GetType())
	assert.Equal(t, 7.0, ctxt.GetMetric()[0].GetCounter().GetValue())

	_, ok = families["go_goroutines"]
	assert.True(t, ok)
}

func TestExporter_NothingCollectedYet(t *testing.T) {
	svc := service.NewMetricsService(repository.NewMemStorage())

	families := gather(t, svc)

	for name := range families {
		assert.NotContains(t, name, "monitor_cpu")
	}
}
