package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/Wilfred007/ink-project/internal/config"
	"github.com/Wilfred007/ink-project/internal/handler"
	"github.com/Wilfred007/ink-project/internal/service"
	"github.com/Wilfred007/ink-project/internal/snapshot"
	"github.com/Wilfred007/ink-project/internal/store"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg := config.Load()

	taskService := service.NewTaskService(store.New())

	var writer *snapshot.Writer
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
		if err != nil {
			log.Fatal("Failed to connect to Database.")
		}
		defer pool.Close()

		if err := pool.Ping(context.Background()); err != nil {
			log.Fatal("Failed to ping the Database.")
		}
		logger.Info("Successfully connected to the Database!")

		snaps := snapshot.NewPostgresStore(pool)

		state, err := snaps.Load(context.Background())
		switch {
		case err == nil:
			taskService.Restore(state)
			logger.Info("State restored from snapshot",
				zap.Int("tasks", len(state.Tasks)),
				zap.Uint32("next_id", state.NextID),
			)
		case errors.Is(err, snapshot.ErrNoSnapshot):
			logger.Info("No snapshot found, starting with an empty store")
		default:
			logger.Fatal("Failed to load snapshot", zap.Error(err))
		}

		writer = snapshot.NewWriter(taskService, snaps, logger, cfg.SnapshotInterval)
		writer.Start(context.Background())
	} else {
		logger.Info("DATABASE_URL not set, running memory-only")
	}

	taskHandler := handler.NewTaskHandler(taskService, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"ok"}`)
	})

	r.Route("/api/tasks", func(r chi.Router) {
		r.Post("/", taskHandler.Create)
		r.Get("/", taskHandler.List)
		r.Get("/{id}", taskHandler.Get)
		r.Post("/{id}/complete", taskHandler.Complete)
		r.Delete("/{id}", taskHandler.Delete)
	})

	srv := http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server started at ", zap.String("port", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed: ", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Shutdown error: ", zap.Error(err))
	}

	if writer != nil {
		writer.Stop()
	}
	logger.Info("Server stopped")
}
