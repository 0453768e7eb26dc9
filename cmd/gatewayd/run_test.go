package main

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/localmodel/gateway/pkg/logging"
)

func TestRunWithGracefulShutdown_StopsOnContextCancel(t *testing.T) {
	httpServer := &http.Server{Addr: "127.0.0.1:0", Handler: http.NewServeMux()}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- runWithGracefulShutdown(ctx, logging.NewLogrusAdapter(logrus.New()), httpServer)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("runWithGracefulShutdown did not return after context cancellation")
	}
}
