package insights

import (
	"context"
	"fmt"
	"time"

	"github.com/carelens-ai/platform/pkg/common/logger"
	"github.com/carelens-ai/platform/pkg/common/models"
	"github.com/carelens-ai/platform/pkg/observability/metrics"
	"github.com/carelens-ai/platform/pkg/prediction"
	"github.com/redis/go-redis/v9"
)

const summarySystemInstruction = `You are a medical AI assistant. Based on the complete patient data provided, generate a concise clinical summary for a care coordinator. Highlight the risk tier, the dominant risk drivers among the recorded conditions, and the recommended intervention. Keep the summary under 200 words and do not invent data that is not in the record.`

const chatbotSystemInstruction = `You are an AI assistant specialized in patient risk analysis and intervention planning. Answer questions about the single patient whose record follows. Ground every answer in the record; if the record does not contain the information, say so. Do not provide medication dosing advice.`

// AnalysisReader loads stored analyses, typically prediction.Repository.
type AnalysisReader interface {
	GetAnalysis(ctx context.Context, patientID string) (prediction.PatientAnalysisModel, error)
}

// NameReader resolves display names for prompt context. Optional.
type NameReader interface {
	DisplayName(ctx context.Context, patientID string) string
}

// Completer produces an LLM completion for a system instruction and message.
type Completer interface {
	Complete(ctx context.Context, systemInstruction, userMessage string) (string, error)
}

// Service generates clinical summaries and chat replies grounded in the
// stored analysis. Summaries are cached in Redis; chat is stateless, one
// exchange per request.
type Service struct {
	reader   AnalysisReader
	names    NameReader
	llm      Completer
	cache    *redis.Client
	cacheTTL time.Duration
}

func NewService(reader AnalysisReader, names NameReader, llm Completer, cache *redis.Client, cacheTTL time.Duration) *Service {
	return &Service{
		reader:   reader,
		names:    names,
		llm:      llm,
		cache:    cache,
		cacheTTL: cacheTTL,
	}
}

func summaryCacheKey(patientID string) string {
	return fmt.Sprintf("insights:summary:%s", patientID)
}

func (s *Service) Summarize(ctx context.Context, patientID string) (models.SummaryResponse, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, summaryCacheKey(patientID)).Result()
		if err == nil && cached != "" {
			metrics.ObserveSummary(true)
			return models.SummaryResponse{
				PatientID: patientID,
				Summary:   cached,
				Cached:    true,
				CreatedAt: time.Now().UTC(),
			}, nil
		}
	}

	record, err := s.reader.GetAnalysis(ctx, patientID)
	if err != nil {
		return models.SummaryResponse{}, err
	}

	prompt := fmt.Sprintf("Generate the summary for the following patient:\n%s",
		FormatPatientContext(record, s.displayName(ctx, patientID)))

	summary, err := s.llm.Complete(ctx, summarySystemInstruction, prompt)
	if err != nil {
		return models.SummaryResponse{}, err
	}
	metrics.ObserveSummary(false)

	if s.cache != nil {
		if err := s.cache.Set(ctx, summaryCacheKey(patientID), summary, s.cacheTTL).Err(); err != nil {
			logger.Log.WithError(err).WithField("patient_id", patientID).
				Warn("Failed to cache patient summary")
		}
	}

	return models.SummaryResponse{
		PatientID: patientID,
		Summary:   summary,
		Cached:    false,
		CreatedAt: time.Now().UTC(),
	}, nil
}

func (s *Service) Chat(ctx context.Context, req models.ChatRequest) (models.ChatResponse, error) {
	record, err := s.reader.GetAnalysis(ctx, req.PatientID)
	if err != nil {
		return models.ChatResponse{}, err
	}

	system := chatbotSystemInstruction + "\n\n" + FormatPatientContext(record, s.displayName(ctx, req.PatientID))
	reply, err := s.llm.Complete(ctx, system, req.Message)
	if err != nil {
		return models.ChatResponse{}, err
	}
	metrics.ObserveChatExchange()

	return models.ChatResponse{
		PatientID: req.PatientID,
		Reply:     reply,
	}, nil
}

// HandlePredictionEvent reacts to a completed prediction by dropping the
// stale summary and regenerating it so the next dashboard load is warm.
func (s *Service) HandlePredictionEvent(ctx context.Context, event models.Event) error {
	patientID, _ := event.Data["patient_id"].(string)
	if patientID == "" {
		return nil
	}

	if s.cache != nil {
		if err := s.cache.Del(ctx, summaryCacheKey(patientID)).Err(); err != nil {
			logger.Log.WithError(err).WithField("patient_id", patientID).
				Warn("Failed to invalidate patient summary")
		}
	}

	if _, err := s.Summarize(ctx, patientID); err != nil {
		logger.Log.WithError(err).WithField("patient_id", patientID).
			Warn("Failed to warm patient summary")
	}
	return nil
}

func (s *Service) displayName(ctx context.Context, patientID string) string {
	if s.names == nil {
		return ""
	}
	return s.names.DisplayName(ctx, patientID)
}
