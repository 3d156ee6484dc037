// Package monitor implements a system monitoring agent controlled through a
// named pipe.
//
// The agent prints the metrics it can collect, then waits for one command on
// the control channel (/tmp/monitor_fifo by default). A command is a comma
// separated list of metric names, for example "cpu, memory". The special
// command "1" prints the available metrics again and exits.
//
// Requested names are resolved against a static registry. One unknown name
// rejects the whole command: the status file (/tmp/monitor_status by default)
// names the metric and monitoring does not start. Otherwise the HTTP
// exposition server is started and the selected collectors run once per
// interval until the process receives SIGINT or SIGTERM.
//
// Features:
//   - Prometheus scrape endpoint at /metrics plus a plain value listing
//   - System metrics through gopsutil
//   - In-memory or PostgreSQL sample storage
//   - Status file updated on every state transition
//   - Audit trail of consumed commands to a file or HTTP endpoint
//   - Optional launch of local Grafana and Prometheus servers
//
// The agent supports configuration via command-line flags and environment
// variables.
package monitor
