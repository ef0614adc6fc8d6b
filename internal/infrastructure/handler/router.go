package handler

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/devi-jewellers/rate-service/internal/infrastructure/logger"
	"github.com/devi-jewellers/rate-service/internal/infrastructure/middleware"
)

// NewRouter assembles the full HTTP surface.
func NewRouter(rates *RateHandler, images *ImageHandler, system *SystemHandler, log logger.Logger) *mux.Router {
	router := mux.NewRouter()

	router.Use(middleware.RequestIDMiddleware)
	router.Use(middleware.CORSMiddleware)
	router.Use(middleware.LoggingMiddleware(log))

	system.RegisterRoutes(router)
	rates.RegisterRoutes(router)
	images.RegisterRoutes(router)

	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	router.MethodNotAllowedHandler = methodNotAllowedHandler(router, log)

	return router
}

// methodNotAllowedHandler answers 405 with an Allow header listing the methods
// the matched path does accept.
func methodNotAllowedHandler(router *mux.Router, log logger.Logger) http.Handler {
	probeMethods := []string{
		http.MethodGet, http.MethodPost, http.MethodPut,
		http.MethodDelete, http.MethodOptions,
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed := make([]string, 0, len(probeMethods))
		for _, method := range probeMethods {
			probe := r.Clone(r.Context())
			probe.Method = method

			var match mux.RouteMatch
			if router.Match(probe, &match) && match.MatchErr == nil {
				allowed = append(allowed, method)
			}
		}

		if len(allowed) > 0 {
			w.Header().Set("Allow", strings.Join(allowed, ", "))
		}
		sendErrorResponse(w, log, "Method not allowed",
			"The requested method is not supported on this path",
			http.StatusMethodNotAllowed, middleware.GetRequestID(r.Context()))
	})
}
