package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"
)

type AgentConfig struct {
	FIFOPath       string
	StatusPath     string
	MaxMetrics     int
	BufferSize     int
	UpdateInterval int
	Address        string
	DatabaseDSN    string
	AuditFile      string
	AuditURL       string
	LaunchServers  bool
}

// Interval returns the update interval as a duration.
func (c *AgentConfig) Interval() time.Duration {
	return time.Duration(c.UpdateInterval) * time.Second
}

// DefaultAgentConfig returns the configuration used when no flags or env are set.
func DefaultAgentConfig() *AgentConfig {
	return &AgentConfig{
		FIFOPath:       DefaultFIFOPath,
		StatusPath:     DefaultStatusPath,
		MaxMetrics:     DefaultMaxMetrics,
		BufferSize:     DefaultBufferSize,
		UpdateInterval: DefaultUpdateInterval,
		Address:        DefaultAddress,
		LaunchServers:  true,
	}
}

// NewAgentConfig parses command-line args and applies environment overrides.
// Environment variables take precedence over flags.
func NewAgentConfig(args []string) (*AgentConfig, error) {
	config := DefaultAgentConfig()

	fs := flag.NewFlagSet("agent", flag.ContinueOnError)
	fifoPath := fs.String("f", config.FIFOPath, "path of the control named pipe")
	statusPath := fs.String("s", config.StatusPath, "path of the status file")
	maxMetrics := fs.Int("m", config.MaxMetrics, "max metrics accepted per command")
	bufferSize := fs.Int("b", config.BufferSize, "command buffer size")
	updateInterval := fs.Int("i", config.UpdateInterval, "seconds between update cycles")
	address := fs.String("a", config.Address, "exposition server address")
	databaseDSN := fs.String("d", config.DatabaseDSN, "database dsn for sample storage")
	auditFile := fs.String("audit-file", config.AuditFile, "path to the command audit file")
	auditURL := fs.String("audit-url", config.AuditURL, "url receiving command audit events")
	launchServers := fs.Bool("l", config.LaunchServers, "launch grafana and prometheus")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	envStrVars := map[string]*string{
		"FIFO_PATH":    fifoPath,
		"STATUS_PATH":  statusPath,
		"ADDRESS":      address,
		"DATABASE_DSN": databaseDSN,
		"AUDIT_FILE":   auditFile,
		"AUDIT_URL":    auditURL,
	}

	envIntVars := map[string]*int{
		"MAX_METRICS":     maxMetrics,
		"BUFFER_SIZE":     bufferSize,
		"UPDATE_INTERVAL": updateInterval,
	}

	for envVar, flag := range envStrVars {
		if envValue := os.Getenv(envVar); envValue != "" {
			*flag = envValue
		}
	}

	for envVar, flag := range envIntVars {
		if envValue := os.Getenv(envVar); envValue != "" {
			value, err := strconv.Atoi(envValue)
			if err != nil {
				return nil, fmt.Errorf("invalid %s value %q: %w", envVar, envValue, err)
			}
			*flag = value
		}
	}

	if envLaunch := os.Getenv("LAUNCH_SERVERS"); envLaunch != "" {
		launch, err := strconv.ParseBool(envLaunch)
		if err != nil {
			return nil, fmt.Errorf("invalid LAUNCH_SERVERS value %q: %w", envLaunch, err)
		}
		*launchServers = launch
	}

	if *maxMetrics <= 0 {
		return nil, fmt.Errorf("max metrics must be positive, got %d", *maxMetrics)
	}
	if *bufferSize < 2 {
		return nil, fmt.Errorf("buffer size must be at least 2, got %d", *bufferSize)
	}
	if *updateInterval <= 0 {
		return nil, fmt.Errorf("update interval must be positive, got %d", *updateInterval)
	}

	config.FIFOPath = *fifoPath
	config.StatusPath = *statusPath
	config.MaxMetrics = *maxMetrics
	config.BufferSize = *bufferSize
	config.UpdateInterval = *updateInterval
	config.Address = *address
	config.DatabaseDSN = *databaseDSN
	config.AuditFile = *auditFile
	config.AuditURL = *auditURL
	config.LaunchServers = *launchServers

	return config, nil
}
