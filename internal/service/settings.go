package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/KartikVerma96/paregrose/internal/domain"
	"github.com/KartikVerma96/paregrose/internal/event"
	"github.com/KartikVerma96/paregrose/internal/repository"
	apperrors "github.com/KartikVerma96/paregrose/pkg/errors"
)

// SettingsService reads store settings through a Redis cache and falls back
// to defaults until an admin saves them.
type SettingsService struct {
	repo   repository.SettingsRepository
	cache  repository.SettingsCache
	events *event.Emitter
	logger *slog.Logger
}

func NewSettingsService(repo repository.SettingsRepository, cache repository.SettingsCache, events *event.Emitter, logger *slog.Logger) *SettingsService {
	return &SettingsService{repo: repo, cache: cache, events: events, logger: logger}
}

// Get never fails on cache errors; it logs them and reads the database.
func (s *SettingsService) Get(ctx context.Context) (*domain.StoreSettings, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, "settings cache read failed", slog.String("error", err.Error()))
		}
	}

	settings, err := s.repo.Get(ctx)
	if errors.Is(err, apperrors.ErrNotFound) {
		settings = domain.DefaultSettings()
	} else if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, settings); err != nil {
			s.logger.WarnContext(ctx, "settings cache write failed", slog.String("error", err.Error()))
		}
	}
	return settings, nil
}

func (s *SettingsService) Public(ctx context.Context) (domain.PublicSettings, error) {
	settings, err := s.Get(ctx)
	if err != nil {
		return domain.PublicSettings{}, err
	}
	return settings.Public(), nil
}

// Update applies a partial update, persists it and drops the cached copy.
func (s *SettingsService) Update(ctx context.Context, in domain.UpdateSettingsInput) (*domain.StoreSettings, error) {
	if in.TaxRatePercent != nil {
		if in.TaxRatePercent.IsNegative() || in.TaxRatePercent.GreaterThan(domain.MaxTaxRatePercent) {
			return nil, apperrors.InvalidInput("tax_rate_percent must be between 0 and 100")
		}
	}
	if in.Currency != nil {
		upper := strings.ToUpper(*in.Currency)
		in.Currency = &upper
	}

	settings, err := s.repo.Get(ctx)
	if errors.Is(err, apperrors.ErrNotFound) {
		settings = domain.DefaultSettings()
	} else if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	in.Apply(settings)
	if err := s.repo.Save(ctx, settings); err != nil {
		return nil, fmt.Errorf("save settings: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.logger.WarnContext(ctx, "settings cache invalidation failed", slog.String("error", err.Error()))
		}
	}
	s.events.SettingsUpdated(ctx, settings)

	s.logger.InfoContext(ctx, "store settings updated")
	return settings, nil
}
