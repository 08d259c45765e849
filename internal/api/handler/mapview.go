package handler

import (
	"encoding/json"
	"net/http"

	"github.com/watersight/watersight/internal/api/models"
	"github.com/watersight/watersight/internal/api/response"
	"github.com/watersight/watersight/internal/controller"
	"github.com/watersight/watersight/internal/mapdata"
	"github.com/watersight/watersight/internal/viewstate"
)

// MapHandler serves map data and the view state machine.
type MapHandler struct {
	mapData    *mapdata.Service
	controller *controller.Controller
}

// NewMapHandler creates a new MapHandler.
func NewMapHandler(svc *mapdata.Service, c *controller.Controller) *MapHandler {
	return &MapHandler{mapData: svc, controller: c}
}

// GetMapData handles GET /v1/map/data, returning the sublocation boundaries
// as a GeoJSON feature collection.
func (h *MapHandler) GetMapData(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.mapData.GetSnapshot(r.Context())
	if err != nil {
		response.ServiceUnavailable(w, r, "map data is currently unavailable")
		return
	}
	response.JSON(w, r, http.StatusOK, snapshot.FeatureCollection())
}

// GetWaterPoints handles GET /v1/map/water-points.
func (h *MapHandler) GetWaterPoints(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.mapData.GetSnapshot(r.Context())
	if err != nil {
		response.ServiceUnavailable(w, r, "water point data is currently unavailable")
		return
	}
	response.JSON(w, r, http.StatusOK, snapshot.WaterPointCollection())
}

// GetView handles GET /v1/map/view.
func (h *MapHandler) GetView(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, r, http.StatusOK, h.controller.ViewState())
}

// PutView handles PUT /v1/map/view. The body either selects a tab or, in the
// both view, toggles a single layer.
func (h *MapHandler) PutView(w http.ResponseWriter, r *http.Request) {
	var req models.ViewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid request body", nil)
		return
	}

	if req.Toggle != "" {
		v, ok := viewstate.ParseView(req.Toggle)
		if !ok || v == viewstate.ViewBoth {
			response.BadRequest(w, r, "invalid layer toggle", []models.FieldError{
				{Field: "toggle", Message: "must be sublocations or waterpoints", Code: "invalid"},
			})
			return
		}
		response.JSON(w, r, http.StatusOK, h.controller.ToggleLayer(v))
		return
	}

	v, ok := viewstate.ParseView(req.View)
	if !ok {
		response.BadRequest(w, r, "invalid view", []models.FieldError{
			{Field: "view", Message: "must be sublocations, waterpoints or both", Code: "invalid"},
		})
		return
	}
	response.JSON(w, r, http.StatusOK, h.controller.SelectView(v))
}
