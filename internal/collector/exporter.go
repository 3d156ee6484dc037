package collector

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/Schera-ole/monitor/internal/config"
	"github.com/Schera-ole/monitor/internal/service"
)

const namespace = "monitor"

var sampleHelp = map[string]string{
	"cpu_usage_percent":              "Total CPU usage in percent.",
	"memory_usage_percent":           "Used memory in percent.",
	"memory_total_bytes":             "Total physical memory in bytes.",
	"memory_used_bytes":              "Used physical memory in bytes.",
	"memory_available_bytes":         "Memory available for new processes in bytes.",
	"disk_usage_percent":             "Used disk space in percent.",
	"disk_total_bytes":               "Total disk space in bytes.",
	"disk_used_bytes":                "Used disk space in bytes.",
	"disk_reads_total":               "Completed disk reads.",
	"disk_writes_total":              "Completed disk writes.",
	"disk_read_bytes_total":          "Bytes read from disks.",
	"disk_written_bytes_total":       "Bytes written to disks.",
	"network_bytes_sent_total":       "Bytes sent over all interfaces.",
	"network_bytes_received_total":   "Bytes received over all interfaces.",
	"network_packets_sent_total":     "Packets sent over all interfaces.",
	"network_packets_received_total": "Packets received over all interfaces.",
	"network_errors_total":           "Receive and transmit errors over all interfaces.",
	"network_drops_total":            "Dropped packets over all interfaces.",
	"processes_total":                "Number of processes.",
	"processes_running":              "Number of runnable processes.",
	"processes_blocked":              "Number of processes blocked on I/O.",
	"context_switches_total":         "Context switches since boot.",
	"load1":                          "1-minute load average.",
	"load5":                          "5-minute load average.",
	"load15":                         "15-minute load average.",
	"uptime_seconds":                 "System uptime in seconds.",
}

const scrapeTimeout = 5 * time.Second

// Exporter exposes the stored samples as Prometheus metrics.
//
// It is an unchecked collector: the set of metrics depends on which update
// callbacks have run, so nothing is described up front.
type Exporter struct {
	service *service.MetricsService
	logger  *zap.SugaredLogger

	scrapeErrors prometheus.Counter
}

// NewExporter creates an Exporter reading from svc.
func NewExporter(svc *service.MetricsService, logger *zap.SugaredLogger) *Exporter {
	return &Exporter{
		service: svc,
		logger:  logger,
		scrapeErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scrape_errors_total",
			Help:      "Scrapes that failed to read the sample store.",
		}),
	}
}

// Describe sends nothing, which registers the Exporter as unchecked.
func (e *Exporter) Describe(ch chan<- *prometheus.Desc) {}

// Collect reads every stored sample and sends it as a constant metric.
func (e *Exporter) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), scrapeTimeout)
	defer cancel()

	samples, err := e.service.ListMetrics(ctx)
	if err != nil {
		e.logger.Errorf("error reading samples for scrape: %v", err)
		e.scrapeErrors.Inc()
		return
	}

	for _, sample := range samples {
		help, ok := sampleHelp[sample.Name]
		if !ok {
			help = "Sample collected by the monitor agent."
		}
		desc := prometheus.NewDesc(prometheus.BuildFQName(namespace, "", sample.Name), help, nil, nil)

		switch sample.Type {
		case config.GaugeType:
			if v, ok := sample.Value.(float64); ok {
				ch <- prometheus.MustNewConstMetric(desc, prometheus.GaugeValue, v)
			}
		case config.CounterType:
			if v, ok := sample.Value.(int64); ok {
				ch <- prometheus.MustNewConstMetric(desc, prometheus.CounterValue, float64(v))
			}
		}
	}
}

// NewPrometheusRegistry returns a registry holding the exporter plus Go runtime
// and process metrics of the agent itself.
func NewPrometheusRegistry(exporter *Exporter) (*prometheus.Registry, error) {
	reg := prometheus.NewRegistry()
	for _, c := range []prometheus.Collector{
		exporter,
		exporter.scrapeErrors,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return reg, nil
}
