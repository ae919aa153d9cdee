// Package cmd provides command implementations for the maned-lookout application.
// It includes the StartWeb function which initializes and starts the HTTP server
// with the application services and shuts it down on SIGINT or SIGTERM.
package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpserver "github.com/OliveiraNt/maned-lookout/internal/adapters/http"
	"github.com/OliveiraNt/maned-lookout/internal/application"
	"github.com/OliveiraNt/maned-lookout/internal/config"
	"github.com/OliveiraNt/maned-lookout/internal/utils"
)

const shutdownTimeout = 30 * time.Second

// StartWeb serves the JSON API until the process is signalled, then drains
// in-flight requests and runs cleanup.
func StartWeb(clusterService *application.ClusterService, settings config.Settings, cleanup func()) {
	server := httpserver.New(
		clusterService,
		application.NewTopicService(clusterService),
		application.NewConsumerGroupsService(clusterService),
		application.NewAnalyticsService(clusterService),
	)
	srv := server.NewHTTPServer(":"+settings.HTTPPort, settings.OperationTimeout+5*time.Second)

	go func() {
		utils.Logger.Info("HTTP API starting", "port", settings.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.Logger.Fatal("HTTP API terminated", "err", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	utils.Logger.Info("shutting down", "signal", sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		utils.Logger.Error("HTTP API forced to shutdown", "err", err)
	}
	if cleanup != nil {
		cleanup()
	}
	utils.Logger.Info("server exited")
}
