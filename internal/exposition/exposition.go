// Package exposition runs the HTTP server that exposes collected metrics.
package exposition

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Schera-ole/monitor/internal/config"
	internalerrors "github.com/Schera-ole/monitor/internal/errors"
)

// ReadHeaderTimeout is the timeout for reading request headers.
const ReadHeaderTimeout = 5 * time.Second

// Server serves a handler on a fixed address.
type Server struct {
	address string
	handler http.Handler
	logger  *zap.SugaredLogger
}

// Task is a handle to a running server.
type Task struct {
	server   *http.Server
	listener net.Listener
	errChan  chan error
	done     chan struct{}
	stopOnce sync.Once
	stopErr  error
	logger   *zap.SugaredLogger
}

func NewServer(address string, handler http.Handler, logger *zap.SugaredLogger) *Server {
	return &Server{
		address: address,
		handler: handler,
		logger:  logger,
	}
}

// Start binds the listening socket and serves in a goroutine. A nil error
// means the server accepts connections. Cancelling ctx shuts the server down.
func (s *Server) Start(ctx context.Context) (*Task, error) {
	listener, err := net.Listen("tcp", s.address)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internalerrors.ErrExpositionStart, err)
	}

	task := &Task{
		server: &http.Server{
			Handler:           s.handler,
			ReadHeaderTimeout: ReadHeaderTimeout,
		},
		listener: listener,
		errChan:  make(chan error, 1),
		done:     make(chan struct{}),
		logger:   s.logger,
	}

	go func() {
		defer close(task.done)
		s.logger.Infof("Starting exposition server on %s", listener.Addr())
		err := task.server.Serve(listener)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			select {
			case task.errChan <- fmt.Errorf("exposition server failed: %w", err):
			default:
			}
		}
	}()

	go func() {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
			defer cancel()
			task.Stop(shutdownCtx)
		case <-task.done:
		}
	}()

	return task, nil
}

// Addr returns the bound address.
func (t *Task) Addr() net.Addr {
	return t.listener.Addr()
}

// Err reports a serve failure after a successful start.
func (t *Task) Err() <-chan error {
	return t.errChan
}

// Done is closed once the server goroutine has returned.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Stop shuts the server down gracefully. It is safe to call more than once.
func (t *Task) Stop(ctx context.Context) error {
	t.stopOnce.Do(func() {
		t.logger.Info("Shutting down exposition server...")
		t.stopErr = t.server.Shutdown(ctx)
	})
	return t.stopErr
}
