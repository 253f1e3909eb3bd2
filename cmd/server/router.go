package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/agrofarm-api/internal/api"
	apiMiddleware "github.com/phrazzld/agrofarm-api/internal/api/middleware"
)

// setupRouter creates the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))

	producerHandler := api.NewProducerHandler(app.producerService, app.config.Pagination, app.logger)
	cropHandler := api.NewCropHandler(app.cropService, app.config.Pagination, app.logger)
	farmHandler := api.NewFarmHandler(app.farmService, app.config.Pagination, app.logger)

	r.Route("/api", func(r chi.Router) {
		r.Route("/producers", func(r chi.Router) {
			r.Post("/", producerHandler.CreateProducer)
			r.Get("/", producerHandler.ListProducers)
			r.Get("/{id}", producerHandler.GetProducer)
			r.Put("/{id}", producerHandler.UpdateProducer)
			r.Delete("/{id}", producerHandler.DeleteProducer)
		})

		r.Route("/crops", func(r chi.Router) {
			r.Post("/", cropHandler.CreateCrop)
			r.Get("/", cropHandler.ListCrops)
			r.Get("/{id}", cropHandler.GetCrop)
			r.Put("/{id}", cropHandler.RenameCrop)
			r.Delete("/{id}", cropHandler.DeleteCrop)
		})

		r.Route("/farms", func(r chi.Router) {
			r.Post("/", farmHandler.CreateFarm)
			r.Get("/", farmHandler.ListFarms)
			r.Get("/{id}", farmHandler.GetFarm)
			r.Put("/{id}", farmHandler.UpdateFarm)
			r.Delete("/{id}", farmHandler.DeleteFarm)
			r.Post("/{id}/crops", farmHandler.AddCrops)
			r.Delete("/{id}/crops", farmHandler.RemoveCrops)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
