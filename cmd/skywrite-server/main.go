package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/dfryer1193/skywrite/internal/metrics"
	"github.com/dfryer1193/skywrite/internal/middleware"
	"github.com/dfryer1193/skywrite/internal/rest"
	"github.com/dfryer1193/skywrite/scheduler/application"
	"github.com/dfryer1193/skywrite/scheduler/persistence"
	"github.com/dfryer1193/skywrite/shared/bsky"
	"github.com/dfryer1193/skywrite/shared/config"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const shutdownTimeout = 5 * time.Second

func main() {
	cfg := config.Load()

	// Initialize dependencies. The store is volatile; everything is lost on
	// restart.
	store := persistence.NewMemoryStore()
	publisher := bsky.NewClient(cfg.BskyServiceURL, &http.Client{Timeout: 30 * time.Second})
	scheduler := application.NewSchedulerService(store, publisher, cfg.LoginTimeout)

	gin.SetMode(gin.ReleaseMode)
	service := gin.New()
	service.Use(middleware.LoggingMiddleware())
	service.Use(gin.CustomRecovery(middleware.HandlePanics()))

	rest.NewApi(service, scheduler, metrics.New())

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: service,
	}

	go func() {
		log.Info().Msg("Starting server on port :" + fmt.Sprint(cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	log.Info().Msg("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to shutdown server")
	}

	log.Info().Msg("Server stopped")
}
