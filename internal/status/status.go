// Package status persists the agent's last state transition to a file.
//
// The file holds a single line and is truncated on every write. Readers poll
// it; there is a single writer, so no locking is done.
package status

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
)

const (
	Starting          = "Starting monitoring from FIFO"
	MonitoringStarted = "Metrics monitoring started"
	ExpositionFailed  = "Error creating HTTP server thread"
)

// UnresolvedMetric formats the status written when a requested metric is unknown.
func UnresolvedMetric(name string) string {
	return fmt.Sprintf("Error: No update function found for metric '%s'", name)
}

// Reporter writes status lines to a well-known file.
type Reporter struct {
	path   string
	logger *zap.SugaredLogger
}

// NewReporter creates a Reporter writing to path.
func NewReporter(path string, logger *zap.SugaredLogger) *Reporter {
	return &Reporter{path: path, logger: logger}
}

// Path returns the status file path.
func (r *Reporter) Path() string {
	return r.path
}

// Record overwrites the status file with status. Failures are logged, never returned.
func (r *Reporter) Record(status string) {
	file, err := os.OpenFile(r.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		r.logger.Errorf("couldn't open status file %s: %v", r.path, err)
		return
	}
	defer file.Close()

	if _, err := fmt.Fprintf(file, "%s\n", status); err != nil {
		r.logger.Errorf("couldn't write status file %s: %v", r.path, err)
		return
	}
	r.logger.Debugf("status recorded: %s", status)
}

// Read returns the current status line without its terminator.
func (r *Reporter) Read() (string, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return "", fmt.Errorf("error reading status file: %w", err)
	}
	return strings.TrimRight(string(data), "\n"), nil
}
