package prediction

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/carelens-ai/platform/pkg/common/logger"
	"github.com/gorilla/mux"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/predict", h.handlePredict).Methods(http.MethodPost)
	r.HandleFunc("/models", h.handleListModels).Methods(http.MethodGet)
}

// handlePredict accepts the raw intake form fields as a flat string map, the
// shape the web form submits.
func (h *Handler) handlePredict(w http.ResponseWriter, r *http.Request) {
	var raw map[string]string
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	payload, err := h.service.ProcessAndPredict(r.Context(), raw)
	if err != nil {
		var schemaErr *SchemaError
		switch {
		case errors.Is(err, ErrNotLoaded):
			http.Error(w, "prediction unavailable: models not loaded", http.StatusServiceUnavailable)
			return
		case errors.As(err, &schemaErr):
			http.Error(w, schemaErr.Error(), http.StatusBadRequest)
			return
		case errors.Is(err, ErrPersistence):
			// The prediction succeeded; report it and flag the storage gap.
			logger.Log.WithError(err).Warn("Returning prediction despite storage failure")
		default:
			logger.Log.WithError(err).Error("Prediction failed")
			http.Error(w, "prediction failed", http.StatusInternalServerError)
			return
		}
	}

	writeJSON(w, http.StatusOK, payload)
}

func (h *Handler) handleListModels(w http.ResponseWriter, r *http.Request) {
	if !h.service.bundle.Loaded() {
		writeJSON(w, http.StatusOK, map[string]interface{}{"loaded": false, "models": []string{}})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"loaded": true,
		"models": h.service.bundle.ClassifierNames(),
	})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
