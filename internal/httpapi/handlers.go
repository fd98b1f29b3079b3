package httpapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"droneDispatch/internal/logx"
	"droneDispatch/models"
	"droneDispatch/repository"
)

// Handler serves the operator REST API.
type Handler struct {
	fleet    fleetUsecase
	dispatch dispatchUsecase
	logger   logx.Logger
}

// NewHandler wires the fleet and dispatch use cases into HTTP handlers.
func NewHandler(fleet fleetUsecase, dispatch dispatchUsecase, logger logx.Logger) *Handler {
	if logger == nil {
		logger = logx.Nop()
	}
	return &Handler{fleet: fleet, dispatch: dispatch, logger: logger}
}

// Healthz handles GET /healthz.
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(h.logger, w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// NotFound returns a JSON 404 error for unknown routes.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(h.logger, w, r, http.StatusNotFound, "route not found")
}

// CreateDrone handles POST /drones.
func (h *Handler) CreateDrone(w http.ResponseWriter, r *http.Request) {
	var req createDroneRequest
	if !decodeJSON(h.logger, w, r, &req) {
		return
	}
	d, err := h.fleet.RegisterDrone(r.Context(), req.toModel())
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	w.Header().Set("Location", "/api/v1/drones/"+d.ID)
	writeJSON(h.logger, w, r, http.StatusCreated, d)
}

// ListDrones handles GET /drones?status=&code=&limit=&after=.
func (h *Handler) ListDrones(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	p := repository.ListDronesParams{CodeContains: q.Get("code"), AfterCode: q.Get("after")}
	if s := q.Get("status"); s != "" {
		st := models.DroneStatus(s)
		p.Status = &st
	}
	if s := q.Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 0 {
			writeError(h.logger, w, r, http.StatusBadRequest, "invalid limit")
			return
		}
		p.PageSize = v
	}
	list, err := h.fleet.ListDrones(r.Context(), p)
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	if list == nil {
		list = []models.Drone{}
	}
	writeJSON(h.logger, w, r, http.StatusOK, list)
}

// GetDrone handles GET /drones/{id}.
func (h *Handler) GetDrone(w http.ResponseWriter, r *http.Request) {
	d, err := h.fleet.GetDrone(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, d)
}

// GetDroneByCode handles GET /drones/code/{code}.
func (h *Handler) GetDroneByCode(w http.ResponseWriter, r *http.Request) {
	d, err := h.fleet.GetDroneByCode(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, d)
}

// DecommissionDrone handles DELETE /drones/{id}.
func (h *Handler) DecommissionDrone(w http.ResponseWriter, r *http.Request) {
	if err := h.fleet.DecommissionDrone(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ReportTelemetry handles PATCH /drones/{id}/telemetry.
func (h *Handler) ReportTelemetry(w http.ResponseWriter, r *http.Request) {
	var req telemetryRequest
	if !decodeJSON(h.logger, w, r, &req) {
		return
	}
	d, err := h.fleet.ReportTelemetry(r.Context(), chi.URLParam(r, "id"), req.toTelemetry())
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, d)
}

// SetDroneStatus handles PATCH /drones/{id}/status.
func (h *Handler) SetDroneStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if !decodeJSON(h.logger, w, r, &req) {
		return
	}
	d, err := h.fleet.SetDroneStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, d)
}

// CreateRestaurant handles POST /restaurants.
func (h *Handler) CreateRestaurant(w http.ResponseWriter, r *http.Request) {
	var req createRestaurantRequest
	if !decodeJSON(h.logger, w, r, &req) {
		return
	}
	rest, err := h.fleet.CreateRestaurant(r.Context(), &models.Restaurant{ID: req.ID, Name: req.Name, Lat: req.Lat, Lng: req.Lng})
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	w.Header().Set("Location", "/api/v1/restaurants/"+rest.ID)
	writeJSON(h.logger, w, r, http.StatusCreated, rest)
}

// ListRestaurants handles GET /restaurants.
func (h *Handler) ListRestaurants(w http.ResponseWriter, r *http.Request) {
	list, err := h.fleet.ListRestaurants(r.Context())
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	if list == nil {
		list = []models.Restaurant{}
	}
	writeJSON(h.logger, w, r, http.StatusOK, list)
}

// GetRestaurant handles GET /restaurants/{id}.
func (h *Handler) GetRestaurant(w http.ResponseWriter, r *http.Request) {
	rest, err := h.fleet.GetRestaurant(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, rest)
}

// CreateOrder handles POST /orders. The order is queued; dispatch happens on the next
// pass or through POST /orders/{id}/dispatch.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if !decodeJSON(h.logger, w, r, &req) {
		return
	}
	o, err := h.dispatch.PlaceOrder(r.Context(), req.toModel())
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	w.Header().Set("Location", "/api/v1/orders/"+o.ID)
	writeJSON(h.logger, w, r, http.StatusCreated, o)
}

// GetOrder handles GET /orders/{id}.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.dispatch.GetOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, o)
}

// Queue handles GET /orders/queue.
func (h *Handler) Queue(w http.ResponseWriter, r *http.Request) {
	q, err := h.dispatch.Queue(r.Context())
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, map[string]any{"depth": len(q), "orders": q})
}

// Recommend handles GET /orders/{id}/recommendation.
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	rec, err := h.dispatch.Recommend(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, rec)
}

// Dispatch handles POST /orders/{id}/dispatch. A request that finds no eligible drone
// still succeeds with assigned=false.
func (h *Handler) Dispatch(w http.ResponseWriter, r *http.Request) {
	res, err := h.dispatch.DispatchOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, res)
}

// Complete handles POST /orders/{id}/complete with {"delivered": bool}.
func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	var req completeRequest
	if !decodeJSON(h.logger, w, r, &req) {
		return
	}
	o, err := h.dispatch.Complete(r.Context(), chi.URLParam(r, "id"), req.Delivered)
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, o)
}

// Cancel handles POST /orders/{id}/cancel.
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	o, err := h.dispatch.Cancel(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, o)
}

// RunDispatch handles POST /dispatch/run: one scheduling pass over the queue.
func (h *Handler) RunDispatch(w http.ResponseWriter, r *http.Request) {
	rep, err := h.dispatch.DispatchPending(r.Context())
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, rep)
}
