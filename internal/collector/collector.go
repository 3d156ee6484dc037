// Package collector provides the update callbacks of every collectible metric.
//
// Each callback samples the system through a Source and stores the result in
// the shared sample store, from which the exposition server reads.
package collector

import (
	"context"
	"errors"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/Schera-ole/monitor/internal/config"
	models "github.com/Schera-ole/monitor/internal/model"
	"github.com/Schera-ole/monitor/internal/registry"
	"github.com/Schera-ole/monitor/internal/service"
)

var errNoData = errors.New("no data available")

// defaultTimeout bounds one update callback, storage write included.
const defaultTimeout = 2 * time.Second

// Registered metric names.
const (
	CPU             = "cpu"
	Memory          = "memory"
	Disk            = "disk"
	DiskIO          = "disk_io"
	Network         = "network"
	Processes       = "processes"
	ContextSwitches = "context_switches"
	Load            = "load"
	Uptime          = "uptime"
)

// Collector owns the update callbacks.
type Collector struct {
	source   Source
	service  *service.MetricsService
	diskPath string
	timeout  time.Duration
	logger   *zap.SugaredLogger
}

// Option configures a Collector.
type Option func(*Collector)

// WithSource replaces the gopsutil source.
func WithSource(source Source) Option {
	return func(c *Collector) { c.source = source }
}

// WithDiskPath sets the mount point used for disk usage. Defaults to "/".
func WithDiskPath(path string) Option {
	return func(c *Collector) { c.diskPath = path }
}

// WithTimeout bounds a single update.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Collector) { c.timeout = timeout }
}

// New creates a Collector writing samples through svc.
func New(svc *service.MetricsService, logger *zap.SugaredLogger, opts ...Option) *Collector {
	c := &Collector{
		source:   SystemSource{},
		service:  svc,
		diskPath: "/",
		timeout:  defaultTimeout,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Descriptors returns the registry entries for every collectible metric.
func (c *Collector) Descriptors() []registry.Descriptor {
	return []registry.Descriptor{
		{Name: CPU, Update: c.UpdateCPU},
		{Name: Memory, Update: c.UpdateMemory},
		{Name: Disk, Update: c.UpdateDisk},
		{Name: DiskIO, Update: c.UpdateDiskIO},
		{Name: Network, Update: c.UpdateNetwork},
		{Name: Processes, Update: c.UpdateProcesses},
		{Name: ContextSwitches, Update: c.UpdateContextSwitches},
		{Name: Load, Update: c.UpdateLoad},
		{Name: Uptime, Update: c.UpdateUptime},
	}
}

// Registry builds the metric registry backed by this collector.
func (c *Collector) Registry() (*registry.Registry, error) {
	return registry.New(c.Descriptors()...)
}

func (c *Collector) UpdateCPU() {
	c.update(CPU, func(ctx context.Context) ([]models.Metric, error) {
		percent, err := c.source.CPUPercent(ctx)
		if err != nil {
			return nil, err
		}
		return []models.Metric{gauge("cpu_usage_percent", percent)}, nil
	})
}

func (c *Collector) UpdateMemory() {
	c.update(Memory, func(ctx context.Context) ([]models.Metric, error) {
		vm, err := c.source.VirtualMemory(ctx)
		if err != nil {
			return nil, err
		}
		return []models.Metric{
			gauge("memory_usage_percent", vm.UsedPercent),
			gauge("memory_total_bytes", float64(vm.Total)),
			gauge("memory_used_bytes", float64(vm.Used)),
			gauge("memory_available_bytes", float64(vm.Available)),
		}, nil
	})
}

func (c *Collector) UpdateDisk() {
	c.update(Disk, func(ctx context.Context) ([]models.Metric, error) {
		usage, err := c.source.DiskUsage(ctx, c.diskPath)
		if err != nil {
			return nil, err
		}
		return []models.Metric{
			gauge("disk_usage_percent", usage.UsedPercent),
			gauge("disk_total_bytes", float64(usage.Total)),
			gauge("disk_used_bytes", float64(usage.Used)),
		}, nil
	})
}

func (c *Collector) UpdateDiskIO() {
	c.update(DiskIO, func(ctx context.Context) ([]models.Metric, error) {
		counters, err := c.source.DiskIOCounters(ctx)
		if err != nil {
			return nil, err
		}
		var reads, writes, readBytes, writeBytes uint64
		for _, stat := range counters {
			reads += stat.ReadCount
			writes += stat.WriteCount
			readBytes += stat.ReadBytes
			writeBytes += stat.WriteBytes
		}
		return []models.Metric{
			counter("disk_reads_total", reads),
			counter("disk_writes_total", writes),
			counter("disk_read_bytes_total", readBytes),
			counter("disk_written_bytes_total", writeBytes),
		}, nil
	})
}

func (c *Collector) UpdateNetwork() {
	c.update(Network, func(ctx context.Context) ([]models.Metric, error) {
		counters, err := c.source.NetIOCounters(ctx)
		if err != nil {
			return nil, err
		}
		if len(counters) == 0 {
			return nil, errNoData
		}
		stat := counters[0]
		return []models.Metric{
			counter("network_bytes_sent_total", stat.BytesSent),
			counter("network_bytes_received_total", stat.BytesRecv),
			counter("network_packets_sent_total", stat.PacketsSent),
			counter("network_packets_received_total", stat.PacketsRecv),
			counter("network_errors_total", stat.Errin+stat.Errout),
			counter("network_drops_total", stat.Dropin+stat.Dropout),
		}, nil
	})
}

func (c *Collector) UpdateProcesses() {
	c.update(Processes, func(ctx context.Context) ([]models.Metric, error) {
		total, err := c.source.ProcessCount(ctx)
		if err != nil {
			return nil, err
		}
		samples := []models.Metric{gauge("processes_total", float64(total))}

		// Running/blocked counts are only reported on some platforms.
		if misc, err := c.source.LoadMisc(ctx); err == nil {
			samples = append(samples,
				gauge("processes_running", float64(misc.ProcsRunning)),
				gauge("processes_blocked", float64(misc.ProcsBlocked)),
			)
		}
		return samples, nil
	})
}

func (c *Collector) UpdateContextSwitches() {
	c.update(ContextSwitches, func(ctx context.Context) ([]models.Metric, error) {
		misc, err := c.source.LoadMisc(ctx)
		if err != nil {
			return nil, err
		}
		if misc.Ctxt < 0 {
			return nil, errNoData
		}
		return []models.Metric{counter("context_switches_total", uint64(misc.Ctxt))}, nil
	})
}

func (c *Collector) UpdateLoad() {
	c.update(Load, func(ctx context.Context) ([]models.Metric, error) {
		avg, err := c.source.LoadAvg(ctx)
		if err != nil {
			return nil, err
		}
		return []models.Metric{
			gauge("load1", avg.Load1),
			gauge("load5", avg.Load5),
			gauge("load15", avg.Load15),
		}, nil
	})
}

func (c *Collector) UpdateUptime() {
	c.update(Uptime, func(ctx context.Context) ([]models.Metric, error) {
		uptime, err := c.source.Uptime(ctx)
		if err != nil {
			return nil, err
		}
		return []models.Metric{gauge("uptime_seconds", float64(uptime))}, nil
	})
}

// update samples and stores one metric. Failures are logged; the previous
// stored values are kept so scrapers still see the last good sample.
func (c *Collector) update(name string, sample func(ctx context.Context) ([]models.Metric, error)) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	samples, err := sample(ctx)
	if err != nil {
		c.logger.Warnf("error collecting %s: %v", name, err)
		return
	}
	if err := c.service.SetMetrics(ctx, samples); err != nil {
		c.logger.Errorf("error storing %s samples: %v", name, err)
	}
}

func gauge(name string, value float64) models.Metric {
	return models.Metric{Name: name, Type: config.GaugeType, Value: value}
}

func counter(name string, value uint64) models.Metric {
	if value > math.MaxInt64 {
		value = math.MaxInt64
	}
	return models.Metric{Name: name, Type: config.CounterType, Value: int64(value)}
}
