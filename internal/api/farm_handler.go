package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/phrazzld/agrofarm-api/internal/api/shared"
	"github.com/phrazzld/agrofarm-api/internal/config"
	"github.com/phrazzld/agrofarm-api/internal/platform/logger"
	"github.com/phrazzld/agrofarm-api/internal/service"
	"github.com/phrazzld/agrofarm-api/internal/store"
)

// FarmHandler handles farm-related HTTP requests, including the farm's crop
// associations.
type FarmHandler struct {
	farmService service.FarmService
	pagination  config.PaginationConfig
	logger      *slog.Logger
}

// NewFarmHandler creates a new FarmHandler
func NewFarmHandler(
	farmService service.FarmService,
	pagination config.PaginationConfig,
	logger *slog.Logger,
) *FarmHandler {
	if farmService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("farmService cannot be nil for FarmHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &FarmHandler{
		farmService: farmService,
		pagination:  pagination,
		logger:      logger.With(slog.String("component", "farm_handler")),
	}
}

// CreateFarm handles POST /api/farms requests.
func (h *FarmHandler) CreateFarm(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CreateFarmRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	farm, err := h.farmService.CreateFarm(r.Context(), req.input())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create farm")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, farmToResponse(farm))
}

// GetFarm handles GET /api/farms/{id} requests.
func (h *FarmHandler) GetFarm(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, ok := pathUUIDOrRespond(w, r, "id", log)
	if !ok {
		return
	}

	farm, err := h.farmService.GetFarm(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get farm")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, farmToResponse(farm))
}

// UpdateFarm handles PUT /api/farms/{id} requests. Omitted fields keep their
// stored values, and area changes are validated against the merged result.
func (h *FarmHandler) UpdateFarm(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, ok := pathUUIDOrRespond(w, r, "id", log)
	if !ok {
		return
	}

	var req UpdateFarmRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	farm, err := h.farmService.UpdateFarm(r.Context(), id, req.input())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update farm")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, farmToResponse(farm))
}

// DeleteFarm handles DELETE /api/farms/{id} requests.
func (h *FarmHandler) DeleteFarm(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, ok := pathUUIDOrRespond(w, r, "id", log)
	if !ok {
		return
	}

	if err := h.farmService.DeleteFarm(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "Failed to delete farm")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListFarms handles GET /api/farms requests.
// Query parameters: page, size, producer_id, state, crop_id.
func (h *FarmHandler) ListFarms(w http.ResponseWriter, r *http.Request) {
	pageReq, err := getPageRequest(r, h.pagination)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	producerID, err := getQueryUUID(r, "producer_id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	cropID, err := getQueryUUID(r, "crop_id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	filter := store.FarmFilter{
		ProducerID: producerID,
		State:      strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("state"))),
		CropID:     cropID,
	}

	page, err := h.farmService.ListFarms(r.Context(), filter, pageReq)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list farms")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, pageToResponse(page, farmToResponse))
}

// AddCrops handles POST /api/farms/{id}/crops requests. It responds with the
// updated farm.
func (h *FarmHandler) AddCrops(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, ok := pathUUIDOrRespond(w, r, "id", log)
	if !ok {
		return
	}

	var req FarmCropsRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	farm, err := h.farmService.AddCropsToFarm(r.Context(), id, req.CropIDs)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to add crops to farm")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, farmToResponse(farm))
}

// RemoveCrops handles DELETE /api/farms/{id}/crops requests.
func (h *FarmHandler) RemoveCrops(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, ok := pathUUIDOrRespond(w, r, "id", log)
	if !ok {
		return
	}

	var req FarmCropsRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	if err := h.farmService.RemoveCropsFromFarm(r.Context(), id, req.CropIDs); err != nil {
		HandleAPIError(w, r, err, "Failed to remove crops from farm")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
