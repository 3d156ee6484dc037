package exposition

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	internalerrors "github.com/Schera-ole/monitor/internal/errors"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
}

func TestStartServesAndStops(t *testing.T) {
	server := NewServer("127.0.0.1:0", okHandler(), zap.NewNop().Sugar())
	task, err := server.Start(context.Background())
	require.NoError(t, err)

	resp, err := http.Get("http://" + task.Addr().String() + "/")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, "ok", string(body))

	require.NoError(t, task.Stop(context.Background()))
	require.NoError(t, task.Stop(context.Background()))

	select {
	case <-task.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("server goroutine did not exit")
	}
	select {
	case err := <-task.Err():
		t.Fatalf("unexpected serve error: %v", err)
	default:
	}
}

func TestStartFailsOnBusyAddress(t *testing.T) {
	busy, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer busy.Close()

	server := NewServer(busy.Addr().String(), okHandler(), zap.NewNop().Sugar())
	task, err := server.Start(context.Background())
	assert.Nil(t, task)
	assert.True(t, errors.Is(err, internalerrors.ErrExpositionStart))
}

func TestContextCancelShutsDown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	server := NewServer("127.0.0.1:0", okHandler(), zap.NewNop().Sugar())
	task, err := server.Start(ctx)
	require.NoError(t, err)

	cancel()
	select {
	case <-task.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop after cancel")
	}

	_, err = http.Get("http://" + task.Addr().String() + "/")
	assert.Error(t, err)
}
