package bootstrap

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/watchme/emotion-hume/config"
)

func stringsReader(s string) io.Reader { return strings.NewReader(s) }

func TestRunServicesWithShutdown_RequiresConfig(t *testing.T) {
	require.Error(t, RunServicesWithShutdown(context.Background(), nil))
	require.Error(t, RunServicesWithShutdown(context.Background(), &ServiceOrchestrationConfig{}))
}

func TestRunServicesWithShutdown_StopsOnContextCancel(t *testing.T) {
	c, err := NewServices(&ServiceDeps{Config: minimalConfig(), Logger: discardLogger()})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- RunServicesWithShutdown(ctx, &ServiceOrchestrationConfig{
			Config: &config.AppConfig{
				HTTP: config.HTTPConfig{Addr: "127.0.0.1:0", ShutdownTimeout: time.Second},
			},
			Services: c,
			Logger:   discardLogger(),
		})
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("RunServicesWithShutdown did not return after cancel")
	}
}

func TestRunServicesWithShutdown_ReturnsListenError(t *testing.T) {
	c, err := NewServices(&ServiceDeps{Config: minimalConfig(), Logger: discardLogger()})
	require.NoError(t, err)

	err = RunServicesWithShutdown(context.Background(), &ServiceOrchestrationConfig{
		Config: &config.AppConfig{
			HTTP: config.HTTPConfig{Addr: "127.0.0.1:-1", ShutdownTimeout: time.Second},
		},
		Services: c,
		Logger:   discardLogger(),
	})
	require.Error(t, err)
}
