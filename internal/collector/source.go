package collector

import (
	"context"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/load"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/net"
	"github.com/shirou/gopsutil/v4/process"
)

// Source reads raw system statistics.
type Source interface {
	CPUPercent(ctx context.Context) (float64, error)
	VirtualMemory(ctx context.Context) (*mem.VirtualMemoryStat, error)
	DiskUsage(ctx context.Context, path string) (*disk.UsageStat, error)
	DiskIOCounters(ctx context.Context) (map[string]disk.IOCountersStat, error)
	NetIOCounters(ctx context.Context) ([]net.IOCountersStat, error)
	LoadAvg(ctx context.Context) (*load.AvgStat, error)
	LoadMisc(ctx context.Context) (*load.MiscStat, error)
	ProcessCount(ctx context.Context) (int, error)
	Uptime(ctx context.Context) (uint64, error)
}

// SystemSource reads statistics of the local host through gopsutil.
type SystemSource struct{}

// CPUPercent returns total CPU usage since the previous call.
// The first call compares against boot time.
func (SystemSource) CPUPercent(ctx context.Context) (float64, error) {
	percents, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil {
		return 0, err
	}
	if len(percents) == 0 {
		return 0, errNoData
	}
	return percents[0], nil
}

func (SystemSource) VirtualMemory(ctx context.Context) (*mem.VirtualMemoryStat, error) {
	return mem.VirtualMemoryWithContext(ctx)
}

func (SystemSource) DiskUsage(ctx context.Context, path string) (*disk.UsageStat, error) {
	return disk.UsageWithContext(ctx, path)
}

func (SystemSource) DiskIOCounters(ctx context.Context) (map[string]disk.IOCountersStat, error) {
	return disk.IOCountersWithContext(ctx)
}

// NetIOCounters returns counters aggregated over all interfaces.
func (SystemSource) NetIOCounters(ctx context.Context) ([]net.IOCountersStat, error) {
	return net.IOCountersWithContext(ctx, false)
}

func (SystemSource) LoadAvg(ctx context.Context) (*load.AvgStat, error) {
	return load.AvgWithContext(ctx)
}

func (SystemSource) LoadMisc(ctx context.Context) (*load.MiscStat, error) {
	return load.MiscWithContext(ctx)
}

func (SystemSource) ProcessCount(ctx context.Context) (int, error) {
	pids, err := process.PidsWithContext(ctx)
	if err != nil {
		return 0, err
	}
	return len(pids), nil
}

func (SystemSource) Uptime(ctx context.Context) (uint64, error) {
	return host.UptimeWithContext(ctx)
}
