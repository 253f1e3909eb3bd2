package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/agrofarm-api/internal/api/shared"
	"github.com/phrazzld/agrofarm-api/internal/config"
	"github.com/phrazzld/agrofarm-api/internal/platform/logger"
	"github.com/phrazzld/agrofarm-api/internal/service"
	"github.com/phrazzld/agrofarm-api/internal/store"
)

// ProducerHandler handles producer-related HTTP requests
type ProducerHandler struct {
	producerService service.ProducerService
	pagination      config.PaginationConfig
	logger          *slog.Logger
}

// NewProducerHandler creates a new ProducerHandler
func NewProducerHandler(
	producerService service.ProducerService,
	pagination config.PaginationConfig,
	logger *slog.Logger,
) *ProducerHandler {
	if producerService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("producerService cannot be nil for ProducerHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &ProducerHandler{
		producerService: producerService,
		pagination:      pagination,
		logger:          logger.With(slog.String("component", "producer_handler")),
	}
}

// CreateProducer handles POST /api/producers requests.
func (h *ProducerHandler) CreateProducer(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CreateProducerRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	details, err := req.details()
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	producer, err := h.producerService.CreateProducer(r.Context(), details)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create producer")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, producerToResponse(producer))
}

// GetProducer handles GET /api/producers/{id} requests.
func (h *ProducerHandler) GetProducer(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, ok := pathUUIDOrRespond(w, r, "id", log)
	if !ok {
		return
	}

	producer, err := h.producerService.GetProducer(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get producer")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, producerToResponse(producer))
}

// UpdateProducer handles PUT /api/producers/{id} requests.
func (h *ProducerHandler) UpdateProducer(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, ok := pathUUIDOrRespond(w, r, "id", log)
	if !ok {
		return
	}

	var req UpdateProducerRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	patch, err := req.patch()
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	producer, err := h.producerService.UpdateProducer(r.Context(), id, patch)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update producer")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, producerToResponse(producer))
}

// DeleteProducer handles DELETE /api/producers/{id} requests.
func (h *ProducerHandler) DeleteProducer(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, ok := pathUUIDOrRespond(w, r, "id", log)
	if !ok {
		return
	}

	if err := h.producerService.DeleteProducer(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "Failed to delete producer")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListProducers handles GET /api/producers requests.
// Query parameters: page, size, name (substring match).
func (h *ProducerHandler) ListProducers(w http.ResponseWriter, r *http.Request) {
	pageReq, err := getPageRequest(r, h.pagination)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	filter := store.ProducerFilter{Name: r.URL.Query().Get("name")}

	page, err := h.producerService.ListProducers(r.Context(), filter, pageReq)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list producers")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, pageToResponse(page, producerToResponse))
}
