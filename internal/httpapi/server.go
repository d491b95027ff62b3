// Package httpapi exposes the REST and WebSocket surface of the service.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"solartrack/internal/cache"
	"solartrack/internal/config"
	"solartrack/internal/store"
	"solartrack/internal/ws"
)

// Pinger checks backing-store health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps bundles everything the HTTP layer serves. Cache, Hub, and Pinger
// are optional.
type Deps struct {
	Units   store.UnitRepo
	Records store.RecordRepo
	Events  store.AnomalyRepo
	Cache   *cache.Cache
	Hub     *ws.Hub
	Pinger  Pinger
}

// Server is the HTTP front end.
type Server struct {
	srv    *http.Server
	router *mux.Router
}

// New builds the router and wires all routes.
func New(cfg config.HTTPConfig, deps Deps) *Server {
	h := &handler{
		units:   deps.Units,
		records: deps.Records,
		events:  deps.Events,
		cache:   deps.Cache,
		feed:    ws.NewFeed(deps.Hub),
		pinger:  deps.Pinger,
	}

	r := mux.NewRouter()
	r.Use(requestIDMiddleware, observeMiddleware)

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/units", h.createUnit).Methods(http.MethodPost)
	api.HandleFunc("/units", h.listUnits).Methods(http.MethodGet)
	api.HandleFunc("/units/{id}", h.getUnit).Methods(http.MethodGet)
	api.HandleFunc("/units/{id}", h.updateUnit).Methods(http.MethodPut)
	api.HandleFunc("/units/{id}", h.deleteUnit).Methods(http.MethodDelete)

	api.HandleFunc("/records", h.createRecord).Methods(http.MethodPost)
	api.HandleFunc("/records/{id}", h.deleteRecord).Methods(http.MethodDelete)
	api.HandleFunc("/units/{id}/records", h.listRecords).Methods(http.MethodGet)
	api.HandleFunc("/units/{id}/anomalies", h.listAnomalies).Methods(http.MethodGet)

	api.HandleFunc("/analytics/total", h.analyticsTotal).Methods(http.MethodGet)
	api.HandleFunc("/analytics/period", h.analyticsPeriod).Methods(http.MethodGet)

	r.HandleFunc("/health", h.health).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	if deps.Hub != nil {
		r.Handle("/ws", ws.NewHandler(deps.Hub))
	}

	return &Server{
		srv: &http.Server{
			Addr:         cfg.Addr,
			Handler:      r,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
		router: r,
	}
}

// Router exposes the handler tree, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", s.srv.Addr).Msg("http server listening")
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	log.Info().Msg("shutting down http server")
	return s.srv.Shutdown(shutdownCtx)
}
