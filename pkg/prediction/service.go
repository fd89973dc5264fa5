package prediction

import (
	"context"
	"math"

	"github.com/carelens-ai/platform/pkg/common/logger"
	"github.com/carelens-ai/platform/pkg/common/models"
	"github.com/carelens-ai/platform/pkg/observability/metrics"
)

// ResultStore persists analysis and identity records.
type ResultStore interface {
	UpsertAnalysis(ctx context.Context, intake Intake, predictions PredictionResult, assessment models.RiskAssessment) error
	UpsertIdentity(ctx context.Context, patientID, displayName string) error
}

// EventPublisher announces completed predictions on the event bus.
type EventPublisher interface {
	PublishEvent(ctx context.Context, eventType string, source string, data map[string]interface{}) error
}

const eventPredictionCompleted = models.EventPredictionCompleted

// Service runs the intake-to-assessment pipeline: normalize, score, stratify,
// persist. The bundle is injected once at startup and shared read-only.
type Service struct {
	bundle   *Bundle
	bands    BandConfig
	store    ResultStore
	producer EventPublisher
}

func NewService(bundle *Bundle, bands BandConfig, store ResultStore, producer EventPublisher) *Service {
	return &Service{
		bundle:   bundle,
		bands:    bands,
		store:    store,
		producer: producer,
	}
}

// ProcessAndPredict scores raw intake form fields and persists the result.
//
// Storage is best effort: when the prediction itself succeeds but the write
// fails, the payload is still returned together with an error wrapping
// ErrPersistence, and the caller decides how to report the partial success.
// ErrNotLoaded and *SchemaError abort before anything is persisted.
func (s *Service) ProcessAndPredict(ctx context.Context, raw map[string]string) (models.ResultPayload, error) {
	if !s.bundle.Loaded() {
		metrics.ObservePredictionError()
		return models.ResultPayload{}, ErrNotLoaded
	}

	intake, err := Normalize(raw, s.bundle.FeatureColumns())
	if err != nil {
		metrics.ObservePredictionError()
		return models.ResultPayload{}, err
	}

	predictions, err := Score(s.bundle, intake.Features)
	if err != nil {
		metrics.ObservePredictionError()
		return models.ResultPayload{}, err
	}

	assessment := Stratify(predictions, s.bands)

	payload := models.ResultPayload{
		PatientID:              intake.PatientID,
		RiskTier:               assessment.RiskTier,
		RiskTierLabel:          assessment.RiskTierLabel,
		Risk30dHospitalization: round4(predictions["hospitalization_30d"]),
		Risk60dHospitalization: round4(predictions["hospitalization_60d"]),
		Risk90dHospitalization: round4(predictions["hospitalization_90d"]),
		MortalityRisk:          round4(predictions["mortality"]),
		CareIntervention:       assessment.CareIntervention,
	}
	metrics.ObservePrediction(assessment.RiskTier)

	// Identity upsert is independent of the analysis record.
	if intake.DisplayName != "" && intake.PatientID != "" {
		if err := s.store.UpsertIdentity(ctx, intake.PatientID, intake.DisplayName); err != nil {
			logger.Log.WithError(err).WithField("patient_id", intake.PatientID).
				Warn("Failed to upsert patient identity")
		}
	}

	if err := s.store.UpsertAnalysis(ctx, intake, predictions, assessment); err != nil {
		metrics.ObservePersistenceFailure()
		logger.Log.WithError(err).WithField("patient_id", intake.PatientID).
			Error("Failed to persist patient analysis")
		return payload, err
	}

	s.publishCompleted(ctx, intake.PatientID, assessment)

	logger.Log.WithFields(map[string]interface{}{
		"patient_id": intake.PatientID,
		"risk_tier":  assessment.RiskTier,
	}).Info("Prediction completed")

	return payload, nil
}

func (s *Service) publishCompleted(ctx context.Context, patientID string, assessment models.RiskAssessment) {
	if s.producer == nil {
		return
	}
	data := map[string]interface{}{
		"patient_id":      patientID,
		"risk_tier":       assessment.RiskTier,
		"risk_tier_label": assessment.RiskTierLabel,
	}
	if err := s.producer.PublishEvent(ctx, eventPredictionCompleted, "risk-service", data); err != nil {
		logger.Log.WithError(err).Warn("Failed to publish prediction event")
	}
}

func round4(value float64) float64 {
	return math.Round(value*10000) / 10000
}
