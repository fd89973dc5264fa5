package patients

import (
	"context"
	"errors"
	"time"

	"github.com/carelens-ai/platform/pkg/common/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var ErrPatientNotFound = errors.New("patient not found")

// Repository reads the dashboard projections. It joins the analysis records
// with the optional identity records; patients without a stored display name
// still appear in the listing.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

const defaultPageSize = 50

type summaryRow struct {
	PatientID              string
	DisplayName            string
	RiskTier               int
	RiskTierLabel          string
	Risk30dHospitalization float64
	CareIntervention       string
	UpdatedAt              time.Time
}

type detailRow struct {
	summaryRow
	Risk60dHospitalization    float64
	Risk90dHospitalization    float64
	MortalityRisk             float64
	AnnualInterventionCost    float64
	CostSavings               float64
	PreventedHospitalizations float64
	Features                  datatypes.JSONMap
}

func (r *Repository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("patient_analysis AS a").
		Joins("LEFT JOIN patient_identities i ON i.patient_id = a.patient_id")
}

func (r *Repository) List(ctx context.Context, query models.PatientListQuery) (models.PatientListResult, error) {
	limit := query.Limit
	if limit <= 0 || limit > 500 {
		limit = defaultPageSize
	}
	offset := query.Offset
	if offset < 0 {
		offset = 0
	}

	q := r.baseQuery(ctx)
	if query.Search != "" {
		pattern := "%" + query.Search + "%"
		q = q.Where("a.patient_id ILIKE ? OR i.display_name ILIKE ?", pattern, pattern)
	}
	if query.RiskTier != nil {
		q = q.Where("a.risk_tier = ?", *query.RiskTier)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return models.PatientListResult{}, err
	}

	var rows []summaryRow
	err := q.Select(
		"a.patient_id",
		"COALESCE(i.display_name, '') AS display_name",
		"a.risk_tier",
		"a.risk_tier_label",
		"a.risk_30d_hospitalization",
		"a.care_intervention",
		"a.updated_at",
	).
		Order("a.risk_tier DESC, a.risk_30d_hospitalization DESC").
		Limit(limit).
		Offset(offset).
		Scan(&rows).Error
	if err != nil {
		return models.PatientListResult{}, err
	}

	items := make([]models.PatientSummary, 0, len(rows))
	for _, row := range rows {
		items = append(items, models.PatientSummary{
			PatientID:              row.PatientID,
			DisplayName:            DisplayName(row.PatientID, row.DisplayName),
			RiskTier:               row.RiskTier,
			RiskTierLabel:          row.RiskTierLabel,
			Risk30dHospitalization: row.Risk30dHospitalization,
			CareIntervention:       row.CareIntervention,
			UpdatedAt:              row.UpdatedAt,
		})
	}

	return models.PatientListResult{
		Items:  items,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	}, nil
}

// DisplayName returns the stored display name for a patient, or "" when no
// identity record exists.
func (r *Repository) DisplayName(ctx context.Context, patientID string) string {
	var name string
	err := r.db.WithContext(ctx).
		Table("patient_identities").
		Select("display_name").
		Where("patient_id = ?", patientID).
		Scan(&name).Error
	if err != nil {
		return ""
	}
	return name
}

func (r *Repository) Get(ctx context.Context, patientID string) (models.PatientDetail, error) {
	var row detailRow
	err := r.baseQuery(ctx).Select(
		"a.patient_id",
		"COALESCE(i.display_name, '') AS display_name",
		"a.risk_tier",
		"a.risk_tier_label",
		"a.risk_30d_hospitalization",
		"a.risk_60d_hospitalization",
		"a.risk_90d_hospitalization",
		"a.mortality_risk",
		"a.care_intervention",
		"a.annual_intervention_cost",
		"a.cost_savings",
		"a.prevented_hospitalizations",
		"a.features",
		"a.updated_at",
	).
		Where("a.patient_id = ?", patientID).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.PatientDetail{}, ErrPatientNotFound
	}
	if err != nil {
		return models.PatientDetail{}, err
	}

	return models.PatientDetail{
		PatientSummary: models.PatientSummary{
			PatientID:              row.PatientID,
			DisplayName:            DisplayName(row.PatientID, row.DisplayName),
			RiskTier:               row.RiskTier,
			RiskTierLabel:          row.RiskTierLabel,
			Risk30dHospitalization: row.Risk30dHospitalization,
			CareIntervention:       row.CareIntervention,
			UpdatedAt:              row.UpdatedAt,
		},
		Risk60dHospitalization:    row.Risk60dHospitalization,
		Risk90dHospitalization:    row.Risk90dHospitalization,
		MortalityRisk:             row.MortalityRisk,
		AnnualInterventionCost:    row.AnnualInterventionCost,
		CostSavings:               row.CostSavings,
		PreventedHospitalizations: row.PreventedHospitalizations,
		Features:                  map[string]interface{}(row.Features),
	}, nil
}
