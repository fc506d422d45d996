package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/think3er/ippo-backend/internal/testutil"
)

func Test_ServerApp(t *testing.T) {
	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	port, err := testutil.RandomPort()
	require.NoError(t, err, "failed to get random port to start server")
	listenAddr := fmt.Sprintf("localhost:%d", port)

	// Ignore the real process environment, flags carry the whole config
	noEnv := func(string) string { return "" }

	t.Run("stops on context cancel", func(t *testing.T) {
		cfg, err := newConfig(noEnv, os.Getwd, []string{
			"--address", listenAddr,
			"--log-level", "debug",
			"--environment", "dev",
			"--database", pg.DSN,
			"--secret-key", "secret",
		})
		require.NoError(t, err)

		srv, err := NewServerApp(t.Context(), cfg)
		require.NoError(t, err, "app should start with a reachable database")

		ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond) // Half Second
		t.Cleanup(cancel)

		err = srv.Run(ctx)
		require.ErrorIs(t, err, http.ErrServerClosed, "graceful stop reports the closed server")
	})

	t.Run("missing secret key fails", func(t *testing.T) {
		cfg, err := newConfig(noEnv, os.Getwd, []string{
			"--address", listenAddr,
			"--environment", "dev",
			"--database", pg.DSN,
		})
		require.NoError(t, err)

		_, err = NewServerApp(t.Context(), cfg)
		require.Error(t, err, "app must not start without a secret key")
	})
}
