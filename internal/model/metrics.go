// Package models defines the data structures shared across the monitor agent.
package models

const (
	Counter = "counter"
	Gauge   = "gauge"
)

// MetricsDTO represents a stored sample in HTTP responses.
type MetricsDTO struct {
	// ID is the sample name (for example "cpu_usage_percent")
	ID string `json:"id"`

	// MType is the type of the sample (either "counter" or "gauge")
	MType string `json:"type"`

	// Delta is the value for counter samples (omitted for gauges)
	Delta *int64 `json:"delta,omitempty"`

	// Value is the value for gauge samples (omitted for counters)
	Value *float64 `json:"value,omitempty"`
}

// Metric represents a single sample with its name, type, and value.
type Metric struct {
	// Name is the unique identifier for the sample
	Name string

	// Type is the type of the sample (either "counter" or "gauge")
	Type string

	// Value is the sample value (int64 for counters, float64 for gauges)
	Value any
}

// Command outcomes recorded in audit events.
const (
	OutcomeListed   = "listed"
	OutcomeStarted  = "started"
	OutcomeRejected = "rejected"
	OutcomeEmpty    = "empty"
)

// AuditEvent represents an audit log entry for a consumed control command.
type AuditEvent struct {
	// TS is the timestamp of the event in RFC 3339 format
	TS string `json:"ts"`

	// Metrics is the list of metric names carried by the command
	Metrics []string `json:"metrics"`

	// Outcome tells what the agent did with the command
	Outcome string `json:"outcome"`

	// Detail carries the failure reason for rejected commands
	Detail string `json:"detail,omitempty"`
}
