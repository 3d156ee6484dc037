package status

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestReporter_RecordOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "monitor_status")
	reporter := NewReporter(path, zap.NewNop().Sugar())

	reporter.Record(Starting)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, Starting+"\n", string(data))

	reporter.Record(MonitoringStarted)
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, MonitoringStarted+"\n", string(data))
}

func TestReporter_Read(t *testing.T) {
	path := filepath.Join(t.TempDir(), "monitor_status")
	reporter := NewReporter(path, zap.NewNop().Sugar())

	_, err := reporter.Read()
	assert.Error(t, err)

	reporter.Record(UnresolvedMetric("disk"))
	status, err := reporter.Read()
	require.NoError(t, err)
	assert.Equal(t, "Error: No update function found for metric 'disk'", status)
}

func TestReporter_RecordFailureIsSwallowed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "monitor_status")
	reporter := NewReporter(path, zap.NewNop().Sugar())

	assert.NotPanics(t, func() { reporter.Record(Starting) })
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}
