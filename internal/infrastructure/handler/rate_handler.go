package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/devi-jewellers/rate-service/internal/application/service"
	"github.com/devi-jewellers/rate-service/internal/domain/entity"
	"github.com/devi-jewellers/rate-service/internal/infrastructure/cache"
	"github.com/devi-jewellers/rate-service/internal/infrastructure/logger"
	"github.com/devi-jewellers/rate-service/internal/infrastructure/middleware"
)

// liveCacheControl mirrors the edge cache policy for the live endpoint.
const liveCacheControl = "s-maxage=300, stale-while-revalidate"

// RateHandler handles HTTP requests for rates
type RateHandler struct {
	rates  *service.RateService
	sync   *service.SyncService
	cache  *cache.RateCache
	logger logger.Logger
}

// NewRateHandler creates a new rate handler
func NewRateHandler(rates *service.RateService, sync *service.SyncService, liveCache *cache.RateCache, log logger.Logger) *RateHandler {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &RateHandler{
		rates:  rates,
		sync:   sync,
		cache:  liveCache,
		logger: log,
	}
}

// GetRates returns the stored current reading
func (h *RateHandler) GetRates(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	reading, err := h.rates.Latest(r.Context())
	if err != nil {
		status := statusForError(err)
		if status == http.StatusNotFound {
			sendErrorResponse(w, h.logger, "No rates found",
				"No rates have been stored yet", status, requestID)
			return
		}
		h.logger.Error("Failed to read rates", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
		sendErrorResponse(w, h.logger, "Internal server error",
			"An unexpected error occurred while reading rates", status, requestID)
		return
	}

	sendJSON(w, http.StatusOK, reading)
}

// PutRates reconciles a manually supplied reading into the current row
func (h *RateHandler) PutRates(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req SaveRatesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid request body", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
		sendErrorResponse(w, h.logger, "Invalid request body",
			"The request body could not be parsed as valid JSON", http.StatusBadRequest, requestID)
		return
	}

	saved, err := h.rates.Save(r.Context(), &entity.RateReading{
		Vedhani:      req.Vedhani,
		Ornaments22K: req.Ornaments22K,
		Ornaments18K: req.Ornaments18K,
		Silver:       req.Silver,
	})
	if err != nil {
		h.logger.Error("Failed to save rates", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
		sendErrorResponse(w, h.logger, "Internal server error",
			"An unexpected error occurred while saving rates", statusForError(err), requestID)
		return
	}

	sendJSON(w, http.StatusOK, saved)
}

// GetLive returns a freshly normalized reading straight from the upstream
// feed, without persisting it. A short in-memory cache absorbs bursts between
// edge cache misses.
func (h *RateHandler) GetLive(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	w.Header().Set("Cache-Control", liveCacheControl)

	if cached := h.cache.Get(); cached != nil {
		sendJSON(w, http.StatusOK, cached)
		return
	}

	reading, err := h.sync.Fetch(r.Context())
	if err != nil {
		h.logger.Warn("Live fetch failed", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
		sendErrorResponse(w, h.logger, "Upstream feed unavailable",
			"The rate feed could not be fetched or parsed", statusForError(err), requestID)
		return
	}

	h.cache.Put(reading)
	sendJSON(w, http.StatusOK, reading)
}

// PostSync runs one cycle of the main sync pipeline
func (h *RateHandler) PostSync(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	saved, err := h.sync.Sync(r.Context())
	if err != nil {
		status := statusForError(err)
		h.logger.Error("Sync failed", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
		if status == http.StatusBadGateway {
			sendErrorResponse(w, h.logger, "Upstream feed unavailable",
				"The rate feed could not be fetched or parsed", status, requestID)
			return
		}
		sendErrorResponse(w, h.logger, "Internal server error",
			"An unexpected error occurred during sync", status, requestID)
		return
	}

	sendJSON(w, http.StatusOK, saved)
}

// PostSyncGoldRates runs one cycle of the gold-rates provenance pipeline
func (h *RateHandler) PostSyncGoldRates(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	saved, err := h.sync.SyncGoldRates(r.Context())
	if err != nil {
		status := statusForError(err)
		h.logger.Error("Gold-rates sync failed", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
		if status == http.StatusBadGateway {
			sendErrorResponse(w, h.logger, "Upstream feed unavailable",
				"The rate feed could not be fetched or parsed", status, requestID)
			return
		}
		sendErrorResponse(w, h.logger, "Internal server error",
			"An unexpected error occurred during gold-rates sync", status, requestID)
		return
	}

	sendJSON(w, http.StatusOK, saved)
}

// PostImportRemote copies the latest reading out of the remote database
func (h *RateHandler) PostImportRemote(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	saved, usedTable, err := h.sync.ImportFromRemote(r.Context())
	if err != nil {
		status := statusForError(err)
		if status == http.StatusNotFound {
			sendErrorResponse(w, h.logger, "No remote rates found",
				"None of the remote candidate tables held a usable row", status, requestID)
			return
		}
		h.logger.Error("Remote import failed", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
		sendErrorResponse(w, h.logger, "Internal server error",
			"An unexpected error occurred during remote import", status, requestID)
		return
	}

	sendJSON(w, http.StatusOK, ImportResponse{RateReading: saved, SourceTable: usedTable})
}

// RegisterRoutes registers the rate handler routes
func (h *RateHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/rates", h.GetRates).Methods("GET")
	router.HandleFunc("/api/rates", h.PutRates).Methods("PUT")
	router.HandleFunc("/api/rates/live", h.GetLive).Methods("GET")
	router.HandleFunc("/api/rates/sync", h.PostSync).Methods("POST")
	router.HandleFunc("/api/rates/sync-gold-rates", h.PostSyncGoldRates).Methods("POST")
	router.HandleFunc("/api/rates/import-remote", h.PostImportRemote).Methods("POST")
}
