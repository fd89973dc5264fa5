package insights

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/carelens-ai/platform/pkg/common/logger"
	"github.com/carelens-ai/platform/pkg/common/models"
	"github.com/carelens-ai/platform/pkg/prediction"
	"github.com/gorilla/mux"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/patients/{id}/summary", h.handleSummary).Methods(http.MethodGet)
	r.HandleFunc("/patients/{id}/chat", h.handleChat).Methods(http.MethodPost)
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	patientID := mux.Vars(r)["id"]

	summary, err := h.service.Summarize(r.Context(), patientID)
	if errors.Is(err, prediction.ErrAnalysisNotFound) {
		http.Error(w, "patient not found", http.StatusNotFound)
		return
	}
	if err != nil {
		logger.Log.WithError(err).WithField("patient_id", patientID).Error("summary generation failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	patientID := mux.Vars(r)["id"]

	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	req.PatientID = patientID
	if req.Message == "" {
		http.Error(w, "message required", http.StatusBadRequest)
		return
	}

	reply, err := h.service.Chat(r.Context(), req)
	if errors.Is(err, prediction.ErrAnalysisNotFound) {
		http.Error(w, "patient not found", http.StatusNotFound)
		return
	}
	if err != nil {
		logger.Log.WithError(err).WithField("patient_id", patientID).Error("chat exchange failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, reply)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
