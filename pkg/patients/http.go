package patients

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/carelens-ai/platform/pkg/common/logger"
	"github.com/carelens-ai/platform/pkg/common/models"
	"github.com/gorilla/mux"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/patients", h.handleList).Methods(http.MethodGet)
	r.HandleFunc("/patients/{id}", h.handleDetail).Methods(http.MethodGet)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	query := models.PatientListQuery{
		Search: r.URL.Query().Get("search"),
	}

	if raw := r.URL.Query().Get("risk_tier"); raw != "" {
		tier, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "risk_tier must be an integer", http.StatusBadRequest)
			return
		}
		query.RiskTier = &tier
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil {
			query.Limit = limit
		}
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		if offset, err := strconv.Atoi(raw); err == nil {
			query.Offset = offset
		}
	}

	result, err := h.service.List(r.Context(), query)
	if err != nil {
		logger.Log.WithError(err).Error("patient listing failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) handleDetail(w http.ResponseWriter, r *http.Request) {
	patientID := mux.Vars(r)["id"]

	detail, err := h.service.Detail(r.Context(), patientID)
	if errors.Is(err, ErrPatientNotFound) {
		http.Error(w, "patient not found", http.StatusNotFound)
		return
	}
	if err != nil {
		logger.Log.WithError(err).WithField("patient_id", patientID).Error("patient detail failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, detail)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
