// Package config provides configuration for the monitor agent.
package config

import "time"

const (
	// GaugeType represents the type string for gauge metrics.
	GaugeType = "gauge"

	// CounterType represents the type string for counter metrics.
	CounterType = "counter"
)

const (
	// DefaultFIFOPath is the named pipe the agent reads commands from.
	DefaultFIFOPath = "/tmp/monitor_fifo"

	// DefaultStatusPath is the file holding the agent's last status line.
	DefaultStatusPath = "/tmp/monitor_status"

	// DefaultBufferSize bounds a single command payload (payload is BufferSize-1 bytes).
	DefaultBufferSize = 256

	// DefaultMaxMetrics is the maximum number of metric names accepted per command.
	DefaultMaxMetrics = 10

	// DefaultUpdateInterval is the sleep between two update cycles, in seconds.
	DefaultUpdateInterval = 1

	// DefaultAddress is where the exposition server listens.
	DefaultAddress = ":8000"

	// ListCommand is the reserved first token asking for the list of metrics.
	ListCommand = "1"

	// ShutdownTimeout bounds the exposition server shutdown.
	ShutdownTimeout = 5 * time.Second
)
