package http

import (
	"encoding/json"
	"net/http"

	"github.com/chronohq/attendance-engine-go/internal/domain/workplace"
	"github.com/chronohq/attendance-engine-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type WorkplaceHandler interface {
	CreateZone(w http.ResponseWriter, r *http.Request)
	ListZones(w http.ResponseWriter, r *http.Request)
}

type workplaceHandlerImpl struct {
	zoneService workplace.ZoneService
}

func NewWorkplaceHandler(zoneService workplace.ZoneService) WorkplaceHandler {
	return &workplaceHandlerImpl{zoneService: zoneService}
}

// CreateZone implements WorkplaceHandler.
func (h *workplaceHandlerImpl) CreateZone(w http.ResponseWriter, r *http.Request) {
	var req workplace.CreateZoneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.WorkplaceID = chi.URLParam(r, "id")

	result, err := h.zoneService.CreateZone(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Geofence zone registered", result)
}

// ListZones implements WorkplaceHandler.
func (h *workplaceHandlerImpl) ListZones(w http.ResponseWriter, r *http.Request) {
	workplaceID := chi.URLParam(r, "id")

	result, err := h.zoneService.ListZones(r.Context(), workplaceID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
