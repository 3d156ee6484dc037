// Package monitor runs the periodic update loop over a dispatch table.
package monitor

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/Schera-ole/monitor/internal/dispatch"
)

// State of the loop.
type State int32

const (
	// Idle means no table has been dispatched yet, or the loop has returned.
	Idle State = iota
	// Running means the loop is invoking callbacks.
	Running
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	default:
		return "idle"
	}
}

// Loop invokes every dispatched callback once per cycle and sleeps between cycles.
type Loop struct {
	interval time.Duration
	logger   *zap.SugaredLogger

	state  atomic.Int32
	cycles atomic.Int64
}

// NewLoop creates an idle loop sleeping interval between cycles.
func NewLoop(interval time.Duration, logger *zap.SugaredLogger) *Loop {
	return &Loop{interval: interval, logger: logger}
}

// State returns the current loop state.
func (l *Loop) State() State {
	return State(l.state.Load())
}

// Cycles returns the number of completed cycles.
func (l *Loop) Cycles() int64 {
	return l.cycles.Load()
}

// Run executes the table until ctx is cancelled and returns ctx.Err().
// An empty table is a no-op and returns nil immediately.
//
// Callbacks are called synchronously in table order and must not block.
// A nil callback is logged and skipped on every cycle.
func (l *Loop) Run(ctx context.Context, table dispatch.Table) error {
	if len(table) == 0 {
		return nil
	}

	l.state.Store(int32(Running))
	defer l.state.Store(int32(Idle))
	l.logger.Infof("monitoring %d metrics every %s: %v", len(table), l.interval, table.Names())

	timer := time.NewTimer(0)
	defer timer.Stop()
	<-timer.C

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		for i, entry := range table {
			if entry.Update == nil {
				l.logger.Errorf("update function for slot %d (%s) is nil", i, entry.Name)
				continue
			}
			entry.Update()
		}
		l.cycles.Add(1)

		timer.Reset(l.interval)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
}
