// Package channel implements the named-pipe command handoff.
//
// An external controller writes a comma separated list of metric names into
// the pipe. The agent consumes exactly one payload, then closes and removes
// the pipe; a new command requires a new agent run.
package channel

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"

	"github.com/Schera-ole/monitor/internal/config"
	internalerrors "github.com/Schera-ole/monitor/internal/errors"
)

const (
	fifoMode = 0666
	delim    = ","

	unblockRetry = 10 * time.Millisecond
)

// Command is one decoded payload.
type Command struct {
	// List is set when the first token is the list-available-metrics command.
	List bool

	// Metrics holds the parsed tokens in payload order.
	Metrics []string
}

// Empty reports whether the command carries nothing to do.
func (c Command) Empty() bool {
	return !c.List && len(c.Metrics) == 0
}

// Reader reads commands from a named pipe.
type Reader struct {
	path       string
	bufferSize int
	maxMetrics int
	logger     *zap.SugaredLogger
}

// NewReader creates a Reader from the agent configuration.
func NewReader(cfg *config.AgentConfig, logger *zap.SugaredLogger) *Reader {
	return &Reader{
		path:       cfg.FIFOPath,
		bufferSize: cfg.BufferSize,
		maxMetrics: cfg.MaxMetrics,
		logger:     logger,
	}
}

// Path returns the pipe path.
func (r *Reader) Path() string {
	return r.path
}

// Create makes the named pipe. An existing node at path is left untouched.
func (r *Reader) Create() error {
	err := unix.Mkfifo(r.path, fifoMode)
	if err == nil || errors.Is(err, unix.EEXIST) {
		return nil
	}
	return fmt.Errorf("%w: mkfifo %s: %w", internalerrors.ErrChannelCreate, r.path, err)
}

// Receive creates the pipe if needed, waits for a writer, and decodes one payload.
// The pipe is removed before returning, whatever the outcome of the read.
//
// Create and open failures are returned and are meant to be fatal. A read
// failure is logged and results in an empty Command. If ctx is cancelled while
// waiting for a writer, ctx.Err() is returned.
func (r *Reader) Receive(ctx context.Context) (Command, error) {
	if err := r.Create(); err != nil {
		return Command{}, err
	}

	file, err := r.open(ctx)
	if err != nil {
		r.remove()
		if ctx.Err() != nil {
			return Command{}, ctx.Err()
		}
		return Command{}, fmt.Errorf("%w: %s: %w", internalerrors.ErrChannelOpen, r.path, err)
	}
	defer r.remove()
	defer file.Close()

	payload, err := r.read(file)
	if err != nil {
		r.logger.Errorf("%v", err)
		return Command{}, nil
	}
	if len(payload) == 0 {
		r.logger.Warnf("control channel %s yielded no data", r.path)
		return Command{}, nil
	}

	return ParseCommand(ParseMetrics(payload, r.maxMetrics)), nil
}

func (r *Reader) open(ctx context.Context) (*os.File, error) {
	type result struct {
		file *os.File
		err  error
	}
	done := make(chan result, 1)
	go func() {
		file, err := os.OpenFile(r.path, os.O_RDONLY, 0)
		done <- result{file: file, err: err}
	}()

	select {
	case res := <-done:
		return res.file, res.err
	case <-ctx.Done():
	}

	// The pending open only returns once a writer shows up, so provide one.
	for {
		if w, err := os.OpenFile(r.path, os.O_WRONLY|unix.O_NONBLOCK, 0); err == nil {
			w.Close()
		}
		select {
		case res := <-done:
			if res.file != nil {
				res.file.Close()
			}
			return nil, ctx.Err()
		case <-time.After(unblockRetry):
		}
	}
}

func (r *Reader) read(file *os.File) (string, error) {
	data, err := io.ReadAll(io.LimitReader(file, int64(r.bufferSize-1)))
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", internalerrors.ErrChannelRead, r.path, err)
	}
	return string(data), nil
}

func (r *Reader) remove() {
	if err := os.Remove(r.path); err != nil && !os.IsNotExist(err) {
		r.logger.Warnf("couldn't remove control channel %s: %v", r.path, err)
	}
}

// ParseMetrics splits payload on commas and trims whitespace around each token.
// At most max tokens are returned, in payload order.
//
// Only zero-length segments (",,", a leading or trailing comma) are skipped. A
// whitespace-only segment becomes an empty name, which no registry resolves,
// so "cpu, ,memory" and "cpu,\n" are rejected rather than partially accepted.
func ParseMetrics(payload string, max int) []string {
	metrics := make([]string, 0, max)
	for _, segment := range strings.Split(payload, delim) {
		if len(metrics) >= max {
			break
		}
		if segment == "" {
			continue
		}
		metrics = append(metrics, strings.TrimSpace(segment))
	}
	return metrics
}

// ParseCommand interprets parsed tokens. A first token equal to the list
// command turns the whole payload into a list request.
func ParseCommand(tokens []string) Command {
	return Command{
		List:    len(tokens) > 0 && tokens[0] == config.ListCommand,
		Metrics: tokens,
	}
}
