package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"solartrack/internal/cache"
	"solartrack/internal/metrics"
	"solartrack/internal/model"
	"solartrack/internal/store"
	"solartrack/internal/ws"
)

const (
	defaultListLimit = 1000
	maxListLimit     = 10000
)

type handler struct {
	units   store.UnitRepo
	records store.RecordRepo
	events  store.AnomalyRepo
	cache   *cache.Cache
	feed    *ws.Feed
	pinger  Pinger
}

type unitRequest struct {
	Name          string     `json:"name"`
	CapacityWatts float64    `json:"capacity_watts"`
	Location      string     `json:"location"`
	Status        string     `json:"status"`
	InstalledAt   *time.Time `json:"installed_at"`
}

func (req *unitRequest) toUnit() (model.SolarUnit, string) {
	if req.Name == "" {
		return model.SolarUnit{}, "name is required"
	}
	if req.CapacityWatts <= 0 {
		return model.SolarUnit{}, "capacity_watts must be positive"
	}
	status := model.StatusActive
	if req.Status != "" {
		status = model.UnitStatus(req.Status)
		if !status.Valid() {
			return model.SolarUnit{}, "unknown status " + req.Status
		}
	}
	installed := time.Now().UTC()
	if req.InstalledAt != nil {
		installed = req.InstalledAt.UTC()
	}
	return model.SolarUnit{
		Name:          req.Name,
		CapacityWatts: req.CapacityWatts,
		Location:      req.Location,
		Status:        status,
		InstalledAt:   installed,
	}, ""
}

func (h *handler) createUnit(w http.ResponseWriter, r *http.Request) {
	var req unitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	unit, msg := req.toUnit()
	if msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}
	unit.ID = uuid.NewString()

	if err := h.units.Create(r.Context(), &unit); err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, unit)
}

func (h *handler) listUnits(w http.ResponseWriter, r *http.Request) {
	units, err := h.units.List(r.Context())
	if err != nil {
		respondStoreError(w, err)
		return
	}
	if units == nil {
		units = []model.SolarUnit{}
	}
	respondJSON(w, http.StatusOK, units)
}

func (h *handler) getUnit(w http.ResponseWriter, r *http.Request) {
	unit, err := h.units.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, unit)
}

func (h *handler) updateUnit(w http.ResponseWriter, r *http.Request) {
	var req unitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	unit, msg := req.toUnit()
	if msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}
	unit.ID = mux.Vars(r)["id"]

	if err := h.units.Update(r.Context(), &unit); err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, unit)
}

func (h *handler) deleteUnit(w http.ResponseWriter, r *http.Request) {
	if err := h.units.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		respondStoreError(w, err)
		return
	}
	h.cache.Invalidate(r.Context())
	respondJSON(w, http.StatusNoContent, nil)
}

type recordRequest struct {
	UnitID           string    `json:"unit_id"`
	Timestamp        time.Time `json:"timestamp"`
	EnergyProducedWh float64   `json:"energy_produced_wh"`
	IntervalHours    float64   `json:"interval_hours"`
}

func (h *handler) createRecord(w http.ResponseWriter, r *http.Request) {
	var req recordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.UnitID == "" {
		respondError(w, http.StatusBadRequest, "unit_id is required")
		return
	}
	if req.Timestamp.IsZero() {
		respondError(w, http.StatusBadRequest, "timestamp is required")
		return
	}
	if req.EnergyProducedWh < 0 {
		respondError(w, http.StatusBadRequest, "energy_produced_wh must not be negative")
		return
	}
	if req.IntervalHours == 0 {
		req.IntervalHours = model.DefaultIntervalHours
	}
	if req.IntervalHours < 0 {
		respondError(w, http.StatusBadRequest, "interval_hours must be positive")
		return
	}

	rec := model.EnergyRecord{
		ID:               uuid.NewString(),
		UnitID:           req.UnitID,
		Timestamp:        req.Timestamp.UTC(),
		EnergyProducedWh: req.EnergyProducedWh,
		IntervalHours:    req.IntervalHours,
	}
	if err := h.records.Insert(r.Context(), &rec); err != nil {
		respondStoreError(w, err)
		return
	}

	metrics.RecordsInserted.Inc()
	h.cache.Invalidate(r.Context())
	h.feed.PublishRecord(rec)
	respondJSON(w, http.StatusCreated, rec)
}

func (h *handler) deleteRecord(w http.ResponseWriter, r *http.Request) {
	if err := h.records.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		respondStoreError(w, err)
		return
	}
	h.cache.Invalidate(r.Context())
	respondJSON(w, http.StatusNoContent, nil)
}

func (h *handler) listRecords(w http.ResponseWriter, r *http.Request) {
	unitID := mux.Vars(r)["id"]
	if _, err := h.units.Get(r.Context(), unitID); err != nil {
		respondStoreError(w, err)
		return
	}

	tr, err := parseTimeRange(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	limit, err := parseLimit(r, defaultListLimit)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	records, err := h.records.ListByUnit(r.Context(), unitID, tr, limit)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	if records == nil {
		records = []model.EnergyRecord{}
	}
	respondJSON(w, http.StatusOK, records)
}

func (h *handler) listAnomalies(w http.ResponseWriter, r *http.Request) {
	unitID := mux.Vars(r)["id"]
	if _, err := h.units.Get(r.Context(), unitID); err != nil {
		respondStoreError(w, err)
		return
	}

	limit, err := parseLimit(r, 100)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	events, err := h.events.ListByUnit(r.Context(), unitID, limit)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	if events == nil {
		events = []model.AnomalyEvent{}
	}
	respondJSON(w, http.StatusOK, events)
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	if h.pinger != nil {
		if err := h.pinger.Ping(r.Context()); err != nil {
			respondJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "degraded",
				"error":  err.Error(),
			})
			return
		}
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// parseTimeRange reads optional RFC 3339 start/end query parameters. The
// range is half-open; a missing end means "everything from start on".
func parseTimeRange(r *http.Request) (model.TimeRange, error) {
	tr := model.TimeRange{End: maxTime}
	q := r.URL.Query()
	if v := q.Get("start"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return tr, errInvalidParam("start")
		}
		tr.Start = t.UTC()
	}
	if v := q.Get("end"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return tr, errInvalidParam("end")
		}
		tr.End = t.UTC()
	}
	return tr, nil
}

func parseLimit(r *http.Request, def int) (int, error) {
	v := r.URL.Query().Get("limit")
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, errInvalidParam("limit")
	}
	if n > maxListLimit {
		n = maxListLimit
	}
	return n, nil
}

var maxTime = time.Date(9999, 1, 1, 0, 0, 0, 0, time.UTC)

func errInvalidParam(name string) error {
	return fmt.Errorf("invalid %s parameter", name)
}
