// Package launcher starts the external observability servers.
package launcher

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	internalerrors "github.com/Schera-ole/monitor/internal/errors"
)

// DefaultGrace is how long a spawned process must survive to count as started.
const DefaultGrace = 500 * time.Millisecond

// Program describes one external process.
type Program struct {
	Name string
	Path string
	Args []string
}

// GrafanaProgram returns the Grafana server installed under home.
func GrafanaProgram(home string) Program {
	root := filepath.Join(home, "grafana")
	return Program{
		Name: "Grafana",
		Path: filepath.Join(root, "bin", "grafana"),
		Args: []string{"server", "--config", filepath.Join(root, "conf", "defaults.ini"), "--homepath", root},
	}
}

// PrometheusProgram returns the Prometheus server installed under home.
func PrometheusProgram(home string) Program {
	root := filepath.Join(home, "prometheus")
	return Program{
		Name: "Prometheus",
		Path: filepath.Join(root, "prometheus"),
		Args: []string{"--config.file=" + filepath.Join(root, "prometheus.yml")},
	}
}

// DefaultPrograms returns Grafana and Prometheus for the current user.
func DefaultPrograms() ([]Program, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("%w: resolve home directory: %v", internalerrors.ErrLaunchFailed, err)
	}
	return []Program{GrafanaProgram(home), PrometheusProgram(home)}, nil
}

type process struct {
	name string
	cmd  *exec.Cmd
	done chan struct{}
}

// Launcher spawns processes in the background and keeps track of them.
type Launcher struct {
	grace  time.Duration
	stdout io.Writer
	stderr io.Writer
	logger *zap.SugaredLogger

	mu        sync.Mutex
	processes []*process
}

type Option func(*Launcher)

func WithGrace(d time.Duration) Option {
	return func(l *Launcher) { l.grace = d }
}

// WithOutput forwards child output. By default it is discarded.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(l *Launcher) {
		l.stdout = stdout
		l.stderr = stderr
	}
}

func New(logger *zap.SugaredLogger, opts ...Option) *Launcher {
	l := &Launcher{
		grace:  DefaultGrace,
		logger: logger,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Start spawns the process described by prog. It fails if the process cannot
// be spawned or exits with a non-zero code within the grace window.
func (l *Launcher) Start(prog Program) error {
	cmd := exec.Command(prog.Path, prog.Args...)
	cmd.Stdout = l.stdout
	cmd.Stderr = l.stderr
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%w: %s: %v", internalerrors.ErrLaunchFailed, prog.Name, err)
	}

	p := &process{name: prog.Name, cmd: cmd, done: make(chan struct{})}
	waitErr := make(chan error, 1)
	go func() {
		waitErr <- cmd.Wait()
		close(p.done)
	}()

	timer := time.NewTimer(l.grace)
	defer timer.Stop()
	select {
	case err := <-waitErr:
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("%w: %s exited with code %d", internalerrors.ErrLaunchFailed, prog.Name, exitErr.ExitCode())
		}
		if err != nil {
			return fmt.Errorf("%w: %s: %v", internalerrors.ErrLaunchFailed, prog.Name, err)
		}
		l.logger.Infof("%s started successfully", prog.Name)
		return nil
	case <-timer.C:
	}

	l.mu.Lock()
	l.processes = append(l.processes, p)
	l.mu.Unlock()
	l.logger.Infof("%s started successfully (pid %d)", prog.Name, cmd.Process.Pid)
	return nil
}

// StartAll starts every program. Failures are logged and do not stop the rest.
// It returns the number of processes started.
func (l *Launcher) StartAll(programs ...Program) int {
	started := 0
	for _, prog := range programs {
		if err := l.Start(prog); err != nil {
			l.logger.Errorf("Failed to start %s: %v", prog.Name, err)
			continue
		}
		started++
	}
	return started
}

// Stop kills the spawned processes that are still running, waits for them
// and returns how many it stopped.
func (l *Launcher) Stop() int {
	l.mu.Lock()
	processes := l.processes
	l.processes = nil
	l.mu.Unlock()

	stopped := 0
	for _, p := range processes {
		select {
		case <-p.done:
			continue
		default:
		}
		if err := p.cmd.Process.Kill(); err != nil {
			l.logger.Warnf("kill %s: %v", p.name, err)
		}
		<-p.done
		stopped++
	}
	return stopped
}
