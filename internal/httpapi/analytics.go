package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"solartrack/internal/store"
)

type totalsResponse struct {
	Totals []store.UnitTotal `json:"totals"`
}

type periodsResponse struct {
	Bucket  store.Bucket        `json:"bucket"`
	Periods []store.PeriodTotal `json:"periods"`
}

// analyticsTotal serves lifetime production per unit, cache-aside.
func (h *handler) analyticsTotal(w http.ResponseWriter, r *http.Request) {
	unitID := r.URL.Query().Get("unit_id")
	key := "total:" + unitID

	if data, ok := h.cache.Get(r.Context(), key); ok {
		writeCachedJSON(w, data)
		return
	}

	totals, err := h.records.Totals(r.Context(), unitID)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	if totals == nil {
		totals = []store.UnitTotal{}
	}

	h.respondCaching(w, r, key, totalsResponse{Totals: totals})
}

// analyticsPeriod serves calendar-bucketed production totals, cache-aside.
func (h *handler) analyticsPeriod(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	bucket, err := store.ParseBucket(q.Get("bucket"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	tr, err := parseTimeRange(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	unitID := q.Get("unit_id")
	key := fmt.Sprintf("period:%s:%s:%d:%d", bucket, unitID, tr.Start.Unix(), tr.End.Unix())

	if data, ok := h.cache.Get(r.Context(), key); ok {
		writeCachedJSON(w, data)
		return
	}

	periods, err := h.records.PeriodTotals(r.Context(), unitID, bucket, tr)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	if periods == nil {
		periods = []store.PeriodTotal{}
	}

	h.respondCaching(w, r, key, periodsResponse{Bucket: bucket, Periods: periods})
}

// respondCaching writes v as JSON and stores the same bytes in the cache.
func (h *handler) respondCaching(w http.ResponseWriter, r *http.Request, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("encoding analytics response")
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	h.cache.Set(r.Context(), key, data)
	writeCachedJSON(w, data)
}

func writeCachedJSON(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		log.Error().Err(err).Msg("writing analytics response")
	}
}
