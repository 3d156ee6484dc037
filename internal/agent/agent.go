// Package agent wires the control channel, dispatcher, status file, exposition
// server and monitoring loop into the agent's control flow.
package agent

import (
	"context"
	"errors"
	"io"

	"go.uber.org/zap"

	"github.com/Schera-ole/monitor/internal/audit"
	"github.com/Schera-ole/monitor/internal/channel"
	"github.com/Schera-ole/monitor/internal/config"
	"github.com/Schera-ole/monitor/internal/dispatch"
	"github.com/Schera-ole/monitor/internal/exposition"
	models "github.com/Schera-ole/monitor/internal/model"
	"github.com/Schera-ole/monitor/internal/monitor"
	"github.com/Schera-ole/monitor/internal/registry"
	"github.com/Schera-ole/monitor/internal/status"
)

// CommandReader blocks until one control command arrives.
type CommandReader interface {
	Receive(ctx context.Context) (channel.Command, error)
}

// StatusRecorder persists the agent's last state transition.
type StatusRecorder interface {
	Record(status string)
}

// ExpositionStarter starts the HTTP exposition server.
type ExpositionStarter interface {
	Start(ctx context.Context) (*exposition.Task, error)
}

// Agent runs one command from the control channel to completion.
type Agent struct {
	Registry   *registry.Registry
	Reader     CommandReader
	Status     StatusRecorder
	Loop       *monitor.Loop
	Exposition ExpositionStarter
	Audit      audit.AuditLogger
	Stdout     io.Writer
	Logger     *zap.SugaredLogger
}

// Run shows the registry, waits for a command and acts on it.
//
// A list command prints the registry and returns. A command naming an unknown
// metric is reported to the status file and returns nil without monitoring.
// Otherwise the exposition server is started and the loop runs until ctx is
// cancelled. Only channel and exposition startup failures are returned.
func (a *Agent) Run(ctx context.Context) error {
	a.Registry.Show(a.Stdout)
	a.Status.Record(status.Starting)

	cmd, err := a.Reader.Receive(ctx)
	if err != nil {
		if ctx.Err() != nil {
			a.Logger.Info("stopped while waiting for a command")
			return nil
		}
		return err
	}

	switch {
	case cmd.List:
		a.Registry.Show(a.Stdout)
		a.Audit.Log(cmd.Metrics, models.OutcomeListed, "")
		return nil
	case cmd.Empty():
		a.Audit.Log(nil, models.OutcomeEmpty, "")
		return nil
	}

	task, err := a.Exposition.Start(ctx)
	if err != nil {
		a.Status.Record(status.ExpositionFailed)
		return err
	}
	defer stopExposition(task, a.Logger)

	table, err := dispatch.Resolve(cmd.Metrics, a.Registry)
	if err != nil {
		var unresolved *dispatch.UnresolvedError
		if errors.As(err, &unresolved) {
			a.Status.Record(status.UnresolvedMetric(unresolved.Name))
		}
		a.Logger.Errorf("Error: %v", err)
		a.Audit.Log(cmd.Metrics, models.OutcomeRejected, err.Error())
		return nil
	}

	a.Status.Record(status.MonitoringStarted)
	a.Audit.Log(cmd.Metrics, models.OutcomeStarted, "")

	loopCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case err := <-task.Err():
			a.Logger.Errorf("%v", err)
		case <-loopCtx.Done():
		}
	}()

	if err := a.Loop.Run(loopCtx, table); err != nil && loopCtx.Err() == nil {
		return err
	}
	a.Logger.Info("monitoring stopped")
	return nil
}

func stopExposition(task *exposition.Task, logger *zap.SugaredLogger) {
	ctx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()
	if err := task.Stop(ctx); err != nil {
		logger.Warnf("exposition shutdown: %v", err)
	}
}
