package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/devi-jewellers/rate-service/internal/application/service"
	"github.com/devi-jewellers/rate-service/internal/domain/entity"
	"github.com/devi-jewellers/rate-service/internal/infrastructure/logger"
	"github.com/devi-jewellers/rate-service/internal/infrastructure/middleware"
)

// ImageHandler handles HTTP requests for image metadata
type ImageHandler struct {
	images *service.ImageService
	logger logger.Logger
}

// NewImageHandler creates a new image handler
func NewImageHandler(images *service.ImageService, log logger.Logger) *ImageHandler {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &ImageHandler{
		images: images,
		logger: log,
	}
}

// ListImages returns every image, newest first
func (h *ImageHandler) ListImages(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	images, err := h.images.List(r.Context())
	if err != nil {
		h.logger.Error("Failed to list images", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
		sendErrorResponse(w, h.logger, "Internal server error",
			"An unexpected error occurred while listing images", statusForError(err), requestID)
		return
	}

	sendJSON(w, http.StatusOK, images)
}

// SaveImage registers an image record
func (h *ImageHandler) SaveImage(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req SaveImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid request body", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
		sendErrorResponse(w, h.logger, "Invalid request body",
			"The request body could not be parsed as valid JSON", http.StatusBadRequest, requestID)
		return
	}

	saved, err := h.images.Save(r.Context(), &entity.Image{
		URL:      req.URL,
		Category: req.Category,
		FileName: req.FileName,
	})
	if err != nil {
		if errors.Is(err, entity.ErrImageURLRequired) {
			sendErrorResponse(w, h.logger, "Missing image URL",
				"The url field is required", http.StatusBadRequest, requestID)
			return
		}
		h.logger.Error("Failed to save image", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
		sendErrorResponse(w, h.logger, "Internal server error",
			"An unexpected error occurred while saving the image", statusForError(err), requestID)
		return
	}

	sendJSON(w, http.StatusOK, saved)
}

// LatestImage returns the most recently uploaded image
func (h *ImageHandler) LatestImage(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	img, err := h.images.Latest(r.Context())
	if err != nil {
		status := statusForError(err)
		if status == http.StatusNotFound {
			sendErrorResponse(w, h.logger, "No images found",
				"No images have been registered yet", status, requestID)
			return
		}
		h.logger.Error("Failed to read latest image", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
		sendErrorResponse(w, h.logger, "Internal server error",
			"An unexpected error occurred while reading the latest image", status, requestID)
		return
	}

	sendJSON(w, http.StatusOK, img)
}

// ImagesByCategory returns the images filed under a category
func (h *ImageHandler) ImagesByCategory(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	vars := mux.Vars(r)
	category := vars["category"]

	images, err := h.images.ByCategory(r.Context(), category)
	if err != nil {
		h.logger.Error("Failed to list images by category", map[string]interface{}{
			"request_id": requestID,
			"category":   category,
			"error":      err.Error(),
		})
		sendErrorResponse(w, h.logger, "Internal server error",
			"An unexpected error occurred while listing images", statusForError(err), requestID)
		return
	}

	sendJSON(w, http.StatusOK, images)
}

// RegisterRoutes registers the image handler routes. The latest route must be
// registered before the category wildcard or mux would treat "latest" as a
// category.
func (h *ImageHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/images", h.ListImages).Methods("GET")
	router.HandleFunc("/api/images", h.SaveImage).Methods("POST")
	router.HandleFunc("/api/images/latest", h.LatestImage).Methods("GET")
	router.HandleFunc("/api/images/{category}", h.ImagesByCategory).Methods("GET")
}
