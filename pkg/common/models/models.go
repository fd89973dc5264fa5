package models

import (
	"time"

	"github.com/google/uuid"
)

// Identity

type User struct {
	ID        uuid.UUID              `json:"id"`
	Email     string                 `json:"email"`
	FullName  string                 `json:"full_name"`
	IsAdmin   bool                   `json:"is_admin"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
}

type SignupRequest struct {
	FullName        string `json:"full_name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Event Bus models

const EventPredictionCompleted = "prediction.completed"

type Event struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"` // prediction.completed, identity.updated
	Source    string                 `json:"source"`
	Data      map[string]interface{} `json:"data"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]string      `json:"metadata,omitempty"`
}

// Risk assessment derived from the stratification bands. Tier, label,
// intervention and cost always come from the same band.
type RiskAssessment struct {
	RiskTier                  int     `json:"risk_tier"`
	RiskTierLabel             string  `json:"risk_tier_label"`
	CareIntervention          string  `json:"care_intervention"`
	AnnualInterventionCost    float64 `json:"annual_intervention_cost"`
	CostSavings               float64 `json:"cost_savings"`
	PreventedHospitalizations float64 `json:"prevented_hospitalizations"`
}

// ResultPayload is what the predict endpoint returns to the web layer.
type ResultPayload struct {
	PatientID              string  `json:"patient_id"`
	RiskTier               int     `json:"risk_tier"`
	RiskTierLabel          string  `json:"risk_tier_label"`
	Risk30dHospitalization float64 `json:"risk_30d_hospitalization"`
	Risk60dHospitalization float64 `json:"risk_60d_hospitalization"`
	Risk90dHospitalization float64 `json:"risk_90d_hospitalization"`
	MortalityRisk          float64 `json:"mortality_risk"`
	CareIntervention       string  `json:"care_intervention"`
}

// Dashboard read models

type PatientSummary struct {
	PatientID              string    `json:"patient_id"`
	DisplayName            string    `json:"display_name"`
	RiskTier               int       `json:"risk_tier"`
	RiskTierLabel          string    `json:"risk_tier_label"`
	Risk30dHospitalization float64   `json:"risk_30d_hospitalization"`
	CareIntervention       string    `json:"care_intervention"`
	UpdatedAt              time.Time `json:"updated_at"`
}

type PatientDetail struct {
	PatientSummary
	Risk60dHospitalization    float64                `json:"risk_60d_hospitalization"`
	Risk90dHospitalization    float64                `json:"risk_90d_hospitalization"`
	MortalityRisk             float64                `json:"mortality_risk"`
	AnnualInterventionCost    float64                `json:"annual_intervention_cost"`
	CostSavings               float64                `json:"cost_savings"`
	PreventedHospitalizations float64                `json:"prevented_hospitalizations"`
	Features                  map[string]interface{} `json:"features,omitempty"`
}

// PatientListQuery filters the dashboard listing. RiskTier is an explicit
// optional field rather than a probed attribute.
type PatientListQuery struct {
	Search   string `json:"search,omitempty"`
	RiskTier *int   `json:"risk_tier,omitempty"`
	Limit    int    `json:"limit,omitempty"`
	Offset   int    `json:"offset,omitempty"`
}

type PatientListResult struct {
	Items  []PatientSummary `json:"items"`
	Total  int64            `json:"total"`
	Limit  int              `json:"limit"`
	Offset int              `json:"offset"`
}

// Insights

type ChatRequest struct {
	PatientID string `json:"patient_id"`
	Message   string `json:"message"`
}

type ChatResponse struct {
	PatientID string `json:"patient_id"`
	Reply     string `json:"reply"`
}

type SummaryResponse struct {
	PatientID string    `json:"patient_id"`
	Summary   string    `json:"summary"`
	Cached    bool      `json:"cached"`
	CreatedAt time.Time `json:"created_at"`
}
