package collector

import (
	"context"
	"errors"
	"testing"

	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/load"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/net"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Schera-ole/monitor/internal/repository"
	"github.com/Schera-ole/monitor/internal/service"
)

type fakeSource struct {
	err      error
	diskPath string
}

func (f *fakeSource) CPUPercent(ctx context.Context) (float64, error) {
	return 12.5, f.err
}

func (f *fakeSource) VirtualMemory(ctx context.Context) (*mem.VirtualMemoryStat, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &mem.VirtualMemoryStat{Total: 1000, Used: 250, Available: 700, UsedPercent: 25}, nil
}

func (f *fakeSource) DiskUsage(ctx context.Context, path string) (*disk.UsageStat, error) {
	f.diskPath = path
	if f.err != nil {
		return nil, f.err
	}
	return &disk.UsageStat{Path: path, Total: 200, Used: 50, UsedPercent: 25}, nil
}

func (f *fakeSource) DiskIOCounters(ctx context.Context) (map[string]disk.IOCountersStat, error) {
	if f.err != nil {
		return nil, f.err
	}
	return map[string]disk.IOCountersStat{
		"sda": {ReadCount: 1, WriteCount: 2, ReadBytes: 10, WriteBytes: 20},
		"sdb": {ReadCount: 3, WriteCount: 4, ReadBytes: 30, WriteBytes: 40},
	}, nil
}

func (f *fakeSource) NetIOCounters(ctx context.Context) ([]net.IOCountersStat, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []net.IOCountersStat{{Name: "all", BytesSent: 100, BytesRecv: 200, PacketsSent: 3, PacketsRecv: 4, Errin: 1, Errout: 1}}, nil
}

func (f *fakeSource) LoadAvg(ctx context.Context) (*load.AvgStat, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &load.AvgStat{Load1: 0.5, Load5: 0.25, Load15: 0.125}, nil
}

func (f *fakeSource) LoadMisc(ctx context.Context) (*load.MiscStat, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &load.MiscStat{ProcsRunning: 2, ProcsBlocked: 1, Ctxt: 9000}, nil
}

func (f *fakeSource) ProcessCount(ctx context.Context) (int, error) {
	return 42, f.err
}

func (f *fakeSource) Uptime(ctx context.Context) (uint64, error) {
	return 3600, f.err
}

func newTestCollector(t *testing.T, source Source) (*Collector, *service.MetricsService) {
	t.Helper()
	svc := service.NewMetricsService(repository.NewMemStorage())
	return New(svc, zap.NewNop().Sugar(), WithSource(source), WithDiskPath("/data")), svc
}

func value(t *testing.T, svc *service.MetricsService, name string) any {
	t.Helper()
	v, err := svc.GetMetricByName(context.Background(), name)
	require.NoError(t, err, name)
	return v
}

func TestCollector_Descriptors(t *testing.T) {
	c, _ := newTestCollector(t, &fakeSource{})
	reg, err := c.Registry()
	require.NoError(t, err)

	assert.Equal(t, []string{CPU, Memory, Disk, DiskIO, Network, Processes, ContextSwitches, Load, Uptime}, reg.Names())
	for _, d := range c.Descriptors() {
		assert.NotNil(t, d.Update, d.Name)
	}
}

func TestCollector_UpdatesStoreSamples(t *testing.T) {
	source := &fakeSource{}
	c, svc := newTestCollector(t, source)

	for _, d := range c.Descriptors() {
		d.Update()
	}

	assert.Equal(t, 12.5, value(t, svc, "cpu_usage_percent"))
	assert.Equal(t, 25.0, value(t, svc, "memory_usage_percent"))
	assert.Equal(t, 1000.0, value(t, svc, "memory_total_bytes"))
	assert.Equal(t, 25.0, value(t, svc, "disk_usage_percent"))
	assert.Equal(t, "/data", source.diskPath)
	assert.Equal(t, int64(4), value(t, svc, "disk_reads_total"))
	assert.Equal(t, int64(60), value(t, svc, "disk_written_bytes_total"))
	assert.Equal(t, int64(100), value(t, svc, "network_bytes_sent_total"))
	assert.Equal(t, int64(2), value(t, svc, "network_errors_total"))
	assert.Equal(t, 42.0, value(t, svc, "processes_total"))
	assert.Equal(t, 2.0, value(t, svc, "processes_running"))
	assert.Equal(t, int64(9000), value(t, svc, "context_switches_total"))
	assert.Equal(t, 0.5, value(t, svc, "load1"))
	assert.Equal(t, 3600.0, value(t, svc, "uptime_seconds"))
}

func TestCollector_SourceFailureKeepsLastSample(t *testing.T) {
	source := &fakeSource{}
	c, svc := newTestCollector(t, source)

	c.UpdateCPU()
	source.err = errors.New("boom")
	assert.NotPanics(t, c.UpdateCPU)

	assert.Equal(t, 12.5, value(t, svc, "cpu_usage_percent"))
}

func TestCollector_SourceFailureStoresNothing(t *testing.T) {
	c, svc := newTestCollector(t, &fakeSource{err: errors.New("boom")})

	for _, d := range c.Descriptors() {
		d.Update()
	}

	samples, err := svc.ListMetrics(context.Background())
	require.NoError(t, err)
	assert.Empty(t, samples)
}

func TestCounter_Clamps(t *testing.T) {
	m := counter("huge", ^uint64(0))
	assert.Equal(t, int64(^uint64(0)>>1), m.Value)
}
