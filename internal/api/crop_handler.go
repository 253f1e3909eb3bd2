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

// CropHandler handles crop-related HTTP requests
type CropHandler struct {
	cropService service.CropService
	pagination  config.PaginationConfig
	logger      *slog.Logger
}

// NewCropHandler creates a new CropHandler
func NewCropHandler(
	cropService service.CropService,
	pagination config.PaginationConfig,
	logger *slog.Logger,
) *CropHandler {
	if cropService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("cropService cannot be nil for CropHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &CropHandler{
		cropService: cropService,
		pagination:  pagination,
		logger:      logger.With(slog.String("component", "crop_handler")),
	}
}

// CreateCrop handles POST /api/crops requests.
func (h *CropHandler) CreateCrop(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CropRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	crop, err := h.cropService.CreateCrop(r.Context(), req.Name)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create crop")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, cropToResponse(crop))
}

// GetCrop handles GET /api/crops/{id} requests.
func (h *CropHandler) GetCrop(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, ok := pathUUIDOrRespond(w, r, "id", log)
	if !ok {
		return
	}

	crop, err := h.cropService.GetCrop(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get crop")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, cropToResponse(crop))
}

// RenameCrop handles PUT /api/crops/{id} requests.
func (h *CropHandler) RenameCrop(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, ok := pathUUIDOrRespond(w, r, "id", log)
	if !ok {
		return
	}

	var req CropRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	crop, err := h.cropService.RenameCrop(r.Context(), id, req.Name)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to rename crop")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, cropToResponse(crop))
}

// DeleteCrop handles DELETE /api/crops/{id} requests.
func (h *CropHandler) DeleteCrop(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, ok := pathUUIDOrRespond(w, r, "id", log)
	if !ok {
		return
	}

	if err := h.cropService.DeleteCrop(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "Failed to delete crop")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListCrops handles GET /api/crops requests.
func (h *CropHandler) ListCrops(w http.ResponseWriter, r *http.Request) {
	pageReq, err := getPageRequest(r, h.pagination)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	filter := store.CropFilter{Name: r.URL.Query().Get("name")}

	page, err := h.cropService.ListCrops(r.Context(), filter, pageReq)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list crops")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, pageToResponse(page, cropToResponse))
}
