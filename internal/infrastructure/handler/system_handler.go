package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/devi-jewellers/rate-service/internal/config"
	"github.com/devi-jewellers/rate-service/internal/domain/repository"
	"github.com/devi-jewellers/rate-service/internal/infrastructure/journal"
	"github.com/devi-jewellers/rate-service/internal/infrastructure/logger"
	"github.com/devi-jewellers/rate-service/internal/infrastructure/middleware"
)

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// JournalReader reads recent sync cycle history.
type JournalReader interface {
	Recent(n int) ([]journal.Entry, error)
}

// SystemHandler serves health, setup and diagnostics endpoints
type SystemHandler struct {
	cfg     *config.Config
	rates   repository.RateRepository
	gold    repository.GoldRateRepository
	images  repository.ImageRepository
	pool    Pinger
	journal JournalReader
	logger  logger.Logger
}

// NewSystemHandler creates a system handler. The pool and journal are optional
// and the diagnostics report simply marks them unavailable when nil.
func NewSystemHandler(cfg *config.Config, rates repository.RateRepository, gold repository.GoldRateRepository,
	images repository.ImageRepository, pool Pinger, journalReader JournalReader, log logger.Logger) *SystemHandler {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &SystemHandler{
		cfg:     cfg,
		rates:   rates,
		gold:    gold,
		images:  images,
		pool:    pool,
		journal: journalReader,
		logger:  log,
	}
}

// Healthz reports liveness
func (h *SystemHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ping answers a connectivity probe from the storefront
func (h *SystemHandler) Ping(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, http.StatusOK, map[string]string{"message": "pong"})
}

// SetupInit ensures every table exists. Idempotent; used once against a fresh
// database and harmless afterwards.
func (h *SystemHandler) SetupInit(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	for _, ensure := range []func(context.Context) error{
		h.rates.EnsureSchema,
		h.gold.EnsureSchema,
		h.images.EnsureSchema,
	} {
		if err := ensure(r.Context()); err != nil {
			h.logger.Error("Schema setup failed", map[string]interface{}{
				"request_id": requestID,
				"error":      err.Error(),
			})
			sendErrorResponse(w, h.logger, "Schema setup failed",
				"One of the tables could not be created", http.StatusInternalServerError, requestID)
			return
		}
	}

	h.logger.Info("Schema setup complete", map[string]interface{}{
		"request_id": requestID,
	})
	sendJSON(w, http.StatusOK, map[string]string{"status": "initialized"})
}

// diagnosticsReport is the diagnostics endpoint body. Check failures land in
// the report, never in the HTTP status; the endpoint itself always answers 200
// so it stays usable when the database is down.
type diagnosticsReport struct {
	Env      map[string]bool `json:"env"`
	FeedURL  string          `json:"feedUrl"`
	Database string          `json:"database"`
	Journal  []journal.Entry `json:"journal,omitempty"`
}

// Diagnostics reports configuration presence, database connectivity and
// recent sync history
func (h *SystemHandler) Diagnostics(w http.ResponseWriter, r *http.Request) {
	report := diagnosticsReport{
		Env: map[string]bool{
			"DATABASE_URL":        h.cfg.DatabaseURL != "",
			"REMOTE_DATABASE_URL": h.cfg.RemoteDatabaseURL != "",
			"REST_BASE_URL":       h.cfg.RESTBaseURL != "",
			"REST_ACCESS_TOKEN":   h.cfg.RESTAccessToken != "",
		},
		FeedURL: h.cfg.FeedURL,
	}

	if h.pool == nil {
		report.Database = "not configured"
	} else {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()
		if err := h.pool.Ping(ctx); err != nil {
			report.Database = "error: " + err.Error()
		} else {
			report.Database = "ok"
		}
	}

	if h.journal != nil {
		entries, err := h.journal.Recent(20)
		if err != nil {
			h.logger.Warn("Failed to read journal", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			report.Journal = entries
		}
	}

	sendJSON(w, http.StatusOK, report)
}

// RegisterRoutes registers the system handler routes
func (h *SystemHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/healthz", h.Healthz).Methods("GET")
	router.HandleFunc("/api/ping", h.Ping).Methods("GET")
	router.HandleFunc("/api/setup/init", h.SetupInit).Methods("GET")
	router.HandleFunc("/api/rates/diagnostics", h.Diagnostics).Methods("GET")
}
