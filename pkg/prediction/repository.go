package prediction

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/carelens-ai/platform/pkg/common/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrAnalysisNotFound = errors.New("patient analysis not found")

// PatientAnalysisModel is the persisted analysis record, one row per patient.
// It carries the full normalized feature set, the raw classifier
// probabilities and the derived assessment.
type PatientAnalysisModel struct {
	PatientID                 string            `gorm:"primaryKey;column:patient_id"`
	Features                  datatypes.JSONMap `gorm:"column:features;type:jsonb"`
	Risk30dHospitalization    float64           `gorm:"column:risk_30d_hospitalization"`
	Risk60dHospitalization    float64           `gorm:"column:risk_60d_hospitalization"`
	Risk90dHospitalization    float64           `gorm:"column:risk_90d_hospitalization"`
	MortalityRisk             float64           `gorm:"column:mortality_risk"`
	RiskTier                  int               `gorm:"column:risk_tier;index"`
	RiskTierLabel             string            `gorm:"column:risk_tier_label"`
	CareIntervention          string            `gorm:"column:care_intervention"`
	AnnualInterventionCost    float64           `gorm:"column:annual_intervention_cost"`
	CostSavings               float64           `gorm:"column:cost_savings"`
	PreventedHospitalizations float64           `gorm:"column:prevented_hospitalizations"`
	CreatedAt                 time.Time         `gorm:"column:created_at"`
	UpdatedAt                 time.Time         `gorm:"column:updated_at"`
}

func (PatientAnalysisModel) TableName() string {
	return "patient_analysis"
}

// PatientIdentityModel maps patient identifiers to display names. Lifecycle
// is independent of the analysis record; the two share a key, not ownership.
type PatientIdentityModel struct {
	PatientID   string    `gorm:"primaryKey;column:patient_id"`
	DisplayName string    `gorm:"column:display_name"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (PatientIdentityModel) TableName() string {
	return "patient_identities"
}

// Repository is the result store writer. Writes are upserts keyed by patient
// id; Postgres serializes concurrent writers on the key, so repeated calls
// are idempotent and concurrent calls resolve last-write-wins.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&PatientAnalysisModel{}, &PatientIdentityModel{})
}

func (r *Repository) UpsertAnalysis(ctx context.Context, intake Intake, predictions PredictionResult, assessment models.RiskAssessment) error {
	features := make(map[string]interface{}, len(intake.Features))
	for name, value := range intake.Features {
		features[name] = value
	}

	now := time.Now().UTC()
	record := PatientAnalysisModel{
		PatientID:                 intake.PatientID,
		Features:                  datatypes.JSONMap(features),
		Risk30dHospitalization:    predictions["hospitalization_30d"],
		Risk60dHospitalization:    predictions["hospitalization_60d"],
		Risk90dHospitalization:    predictions["hospitalization_90d"],
		MortalityRisk:             predictions["mortality"],
		RiskTier:                  assessment.RiskTier,
		RiskTierLabel:             assessment.RiskTierLabel,
		CareIntervention:          assessment.CareIntervention,
		AnnualInterventionCost:    assessment.AnnualInterventionCost,
		CostSavings:               assessment.CostSavings,
		PreventedHospitalizations: assessment.PreventedHospitalizations,
		CreatedAt:                 now,
		UpdatedAt:                 now,
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "patient_id"}},
		UpdateAll: true,
	}).Create(&record).Error
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}

func (r *Repository) UpsertIdentity(ctx context.Context, patientID, displayName string) error {
	record := PatientIdentityModel{
		PatientID:   patientID,
		DisplayName: displayName,
		UpdatedAt:   time.Now().UTC(),
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "patient_id"}},
		UpdateAll: true,
	}).Create(&record).Error
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}

func (r *Repository) GetAnalysis(ctx context.Context, patientID string) (PatientAnalysisModel, error) {
	var record PatientAnalysisModel
	err := r.db.WithContext(ctx).First(&record, "patient_id = ?", patientID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return PatientAnalysisModel{}, ErrAnalysisNotFound
	}
	if err != nil {
		return PatientAnalysisModel{}, err
	}
	return record, nil
}
