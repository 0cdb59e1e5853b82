package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/KartikVerma96/paregrose/internal/domain"
	"github.com/KartikVerma96/paregrose/internal/event"
	apperrors "github.com/KartikVerma96/paregrose/pkg/errors"
)

func TestSettingsService_Get(t *testing.T) {
	t.Run("cache hit skips database", func(t *testing.T) {
		repo, cache := new(mockSettingsRepo), new(mockSettingsCache)
		svc := NewSettingsService(repo, cache, event.Nop(), newTestLogger())
		cache.On("Get", mock.Anything).Return(&domain.StoreSettings{StoreName: "Cached"}, nil)

		s, err := svc.Get(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "Cached", s.StoreName)
		repo.AssertNotCalled(t, "Get", mock.Anything)
	})

	t.Run("never saved falls back to defaults", func(t *testing.T) {
		repo, cache := new(mockSettingsRepo), new(mockSettingsCache)
		svc := NewSettingsService(repo, cache, event.Nop(), newTestLogger())
		cache.On("Get", mock.Anything).Return(nil, apperrors.ErrNotFound)
		repo.On("Get", mock.Anything).Return(nil, apperrors.ErrNotFound)
		cache.On("Set", mock.Anything, mock.Anything).Return(nil)

		s, err := svc.Get(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "Paregrose", s.StoreName)
		assert.Equal(t, int64(9900), s.ShippingFee)
		assert.Equal(t, 5, s.LowStockThreshold)
		cache.AssertCalled(t, "Set", mock.Anything, mock.Anything)
	})

	t.Run("redis down still serves", func(t *testing.T) {
		repo, cache := new(mockSettingsRepo), new(mockSettingsCache)
		svc := NewSettingsService(repo, cache, event.Nop(), newTestLogger())
		cache.On("Get", mock.Anything).Return(nil, errors.New("dial tcp: refused"))
		repo.On("Get", mock.Anything).Return(&domain.StoreSettings{StoreName: "DB"}, nil)
		cache.On("Set", mock.Anything, mock.Anything).Return(errors.New("dial tcp: refused"))

		s, err := svc.Get(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "DB", s.StoreName)
	})
}

func TestSettingsService_Update(t *testing.T) {
	repo, cache := new(mockSettingsRepo), new(mockSettingsCache)
	events := &topicRecorder{}
	svc := NewSettingsService(repo, cache, event.NewEmitter(events, newTestLogger()), newTestLogger())

	repo.On("Get", mock.Anything).Return(nil, apperrors.ErrNotFound)
	repo.On("Save", mock.Anything, mock.MatchedBy(func(s *domain.StoreSettings) bool {
		return s.Currency == "USD" && s.TaxRatePercent.Equal(decimal.RequireFromString("12.35")) && s.StoreName == "Paregrose"
	})).Return(nil)
	cache.On("Invalidate", mock.Anything).Return(nil)

	rate := decimal.RequireFromString("12.345")
	s, err := svc.Update(context.Background(), domain.UpdateSettingsInput{
		Currency:       strPtr("usd"),
		TaxRatePercent: &rate,
	})
	require.NoError(t, err)
	assert.Equal(t, "USD", s.Currency)
	cache.AssertExpectations(t)
	assert.Equal(t, []string{event.TopicSettingsUpdated}, events.topics)
}

func TestSettingsService_Update_TaxOutOfRange(t *testing.T) {
	svc := NewSettingsService(new(mockSettingsRepo), nil, event.Nop(), newTestLogger())
	for _, v := range []string{"-1", "100.01"} {
		rate := decimal.RequireFromString(v)
		_, err := svc.Update(context.Background(), domain.UpdateSettingsInput{TaxRatePercent: &rate})
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput, v)
	}
}
