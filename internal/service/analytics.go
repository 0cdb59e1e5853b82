package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/KartikVerma96/paregrose/internal/domain"
	"github.com/KartikVerma96/paregrose/internal/repository"
	apperrors "github.com/KartikVerma96/paregrose/pkg/errors"
)

type settingsReader interface {
	Get(ctx context.Context) (*domain.StoreSettings, error)
}

// AnalyticsService serves the dashboard snapshot from a short-lived cache.
type AnalyticsService struct {
	repo     repository.AnalyticsRepository
	cache    repository.AnalyticsCache
	settings settingsReader
	logger   *slog.Logger
}

func NewAnalyticsService(repo repository.AnalyticsRepository, cache repository.AnalyticsCache, settings settingsReader, logger *slog.Logger) *AnalyticsService {
	return &AnalyticsService{repo: repo, cache: cache, settings: settings, logger: logger}
}

// Overview returns the cached snapshot unless refresh is set or the cache
// is cold.
func (s *AnalyticsService) Overview(ctx context.Context, refresh bool) (*domain.AnalyticsOverview, error) {
	if !refresh && s.cache != nil {
		cached, err := s.cache.Get(ctx)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, "analytics cache read failed", slog.String("error", err.Error()))
		}
	}

	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	overview, err := s.repo.Overview(ctx, settings.LowStockThreshold)
	if err != nil {
		return nil, fmt.Errorf("compute analytics: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, overview); err != nil {
			s.logger.WarnContext(ctx, "analytics cache write failed", slog.String("error", err.Error()))
		}
	}
	return overview, nil
}
