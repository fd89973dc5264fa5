package patients

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/carelens-ai/platform/pkg/common/logger"
	"github.com/carelens-ai/platform/pkg/common/models"
	"github.com/redis/go-redis/v9"
)

// PatientReader is the subset of the repository the service depends on.
type PatientReader interface {
	List(ctx context.Context, query models.PatientListQuery) (models.PatientListResult, error)
	Get(ctx context.Context, patientID string) (models.PatientDetail, error)
}

// Service serves the dashboard read models. Detail lookups go through a
// Redis read-through cache; the listing always hits Postgres because its
// filter space is unbounded.
type Service struct {
	repo     PatientReader
	cache    *redis.Client
	cacheTTL time.Duration
}

func NewService(repo PatientReader, cache *redis.Client, cacheTTL time.Duration) *Service {
	return &Service{repo: repo, cache: cache, cacheTTL: cacheTTL}
}

func (s *Service) List(ctx context.Context, query models.PatientListQuery) (models.PatientListResult, error) {
	return s.repo.List(ctx, query)
}

func detailCacheKey(patientID string) string {
	return fmt.Sprintf("patients:detail:%s", patientID)
}

func (s *Service) Detail(ctx context.Context, patientID string) (models.PatientDetail, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, detailCacheKey(patientID)).Result()
		if err == nil {
			var detail models.PatientDetail
			if json.Unmarshal([]byte(cached), &detail) == nil {
				return detail, nil
			}
		}
	}

	detail, err := s.repo.Get(ctx, patientID)
	if err != nil {
		return models.PatientDetail{}, err
	}

	s.cacheDetail(ctx, detail)
	return detail, nil
}

// InvalidateDetail drops the cached detail after a new prediction lands.
func (s *Service) InvalidateDetail(ctx context.Context, patientID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, detailCacheKey(patientID)).Err(); err != nil {
		logger.Log.WithError(err).WithField("patient_id", patientID).
			Warn("Failed to invalidate patient detail cache")
	}
}

func (s *Service) cacheDetail(ctx context.Context, detail models.PatientDetail) {
	if s.cache == nil {
		return
	}
	encoded, err := json.Marshal(detail)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, detailCacheKey(detail.PatientID), encoded, s.cacheTTL).Err(); err != nil {
		logger.Log.WithError(err).WithField("patient_id", detail.PatientID).
			Warn("Failed to cache patient detail")
	}
}

// DisplayName resolves what the dashboard shows for a patient. Records
// ingested without a name fall back to a truncated identifier.
func DisplayName(patientID, storedName string) string {
	if storedName != "" {
		return storedName
	}
	short := patientID
	if len(short) > 8 {
		short = short[:8]
	}
	return "Patient " + short
}
