package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/agrofarm-api/internal/config"
	"github.com/phrazzld/agrofarm-api/internal/platform/postgres"
	"github.com/phrazzld/agrofarm-api/internal/service"
	"github.com/phrazzld/agrofarm-api/internal/store"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	producerService service.ProducerService
	cropService     service.CropService
	farmService     service.FarmService
}

// newApplication wires the stores and services over an established database
// connection.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	txRunner := store.NewTxRunner(db)
	producerStore := postgres.NewPostgresProducerStore(db, logger)
	cropStore := postgres.NewPostgresCropStore(db, logger)
	farmStore := postgres.NewPostgresFarmStore(db, logger)

	var err error
	app.producerService, err = service.NewProducerService(txRunner, producerStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create producer service: %w", err)
	}

	app.cropService, err = service.NewCropService(txRunner, cropStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create crop service: %w", err)
	}

	app.farmService, err = service.NewFarmService(txRunner, farmStore, producerStore, cropStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create farm service: %w", err)
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run serves HTTP until ctx is canceled, then shuts down gracefully.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup releases application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", slog.String("error", err.Error()))
		}
	}

	app.logger.Info("Application shutdown completed")
}
