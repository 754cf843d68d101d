package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/polaris-studio/booking-backend/internal/domain/entities"
	"github.com/polaris-studio/booking-backend/internal/domain/providers"
	"github.com/polaris-studio/booking-backend/internal/domain/repositories"
	"github.com/polaris-studio/booking-backend/internal/infrastructure/observability"
	apperrors "github.com/polaris-studio/booking-backend/pkg/errors"
)

// Cache TTLs (in seconds). Schedule data changes rarely but every booking
// admission reads it, so short TTLs keep staleness bounded while absorbing
// most read traffic.
const (
	businessHourTTL = 300
	blockedDateTTL  = 300
)

func businessHourCacheKey(dayOfWeek int) string {
	return fmt.Sprintf("business-hours:%d", dayOfWeek)
}

func blockedDateCacheKey(date string) string {
	return fmt.Sprintf("blocked-dates:%s", date)
}

// CachedBusinessHourAdapter wraps a BusinessHourRepository with caching.
// Lookups by weekday are served from cache; writes invalidate the key.
type CachedBusinessHourAdapter struct {
	adapter repositories.BusinessHourRepository
	cache   providers.CacheProvider
	metrics *observability.Metrics
}

// NewCachedBusinessHourAdapter creates a new cached business hour adapter
func NewCachedBusinessHourAdapter(adapter repositories.BusinessHourRepository, cache providers.CacheProvider, metrics *observability.Metrics) repositories.BusinessHourRepository {
	return &CachedBusinessHourAdapter{
		adapter: adapter,
		cache:   cache,
		metrics: metrics,
	}
}

// GetByDay retrieves the row for a weekday with caching
func (a *CachedBusinessHourAdapter) GetByDay(ctx context.Context, dayOfWeek int) (*entities.BusinessHour, error) {
	cacheKey := businessHourCacheKey(dayOfWeek)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var hour entities.BusinessHour
		if err := json.Unmarshal(cached, &hour); err == nil {
			observability.RecordCacheHit(ctx, a.metrics, "business-hours")
			return &hour, nil
		}
		log.Warn().Err(err).Int("day_of_week", dayOfWeek).Msg("failed to unmarshal cached business hour")
	}
	observability.RecordCacheMiss(ctx, a.metrics, "business-hours")

	hour, err := a.adapter.GetByDay(ctx, dayOfWeek)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(hour); err == nil {
		if err := a.cache.Set(ctx, cacheKey, data, businessHourTTL); err != nil {
			log.Warn().Err(err).Int("day_of_week", dayOfWeek).Msg("failed to cache business hour")
		}
	}

	return hour, nil
}

// Upsert writes through and invalidates the cached weekday
func (a *CachedBusinessHourAdapter) Upsert(ctx context.Context, hour *entities.BusinessHour) error {
	if err := a.adapter.Upsert(ctx, hour); err != nil {
		return err
	}
	a.invalidate(ctx, businessHourCacheKey(hour.DayOfWeek))
	return nil
}

// List bypasses the cache; the full week is only read by admin screens
func (a *CachedBusinessHourAdapter) List(ctx context.Context) ([]*entities.BusinessHour, error) {
	return a.adapter.List(ctx)
}

// DeleteByDay deletes and invalidates the cached weekday
func (a *CachedBusinessHourAdapter) DeleteByDay(ctx context.Context, dayOfWeek int) error {
	if err := a.adapter.DeleteByDay(ctx, dayOfWeek); err != nil {
		return err
	}
	a.invalidate(ctx, businessHourCacheKey(dayOfWeek))
	return nil
}

func (a *CachedBusinessHourAdapter) invalidate(ctx context.Context, key string) {
	if err := a.cache.Delete(ctx, key); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("failed to invalidate cache key")
	}
}

// CachedBlockedDateAdapter wraps a BlockedDateRepository with caching.
//
// Both outcomes of a date lookup are cached: blocked dates as the record,
// unblocked dates as a negative entry, since the admission engine probes
// mostly-unblocked dates.
type CachedBlockedDateAdapter struct {
	adapter repositories.BlockedDateRepository
	cache   providers.CacheProvider
	metrics *observability.Metrics
}

// negative cache marker for dates that are not blocked
var notBlockedMarker = []byte("-")

// NewCachedBlockedDateAdapter creates a new cached blocked date adapter
func NewCachedBlockedDateAdapter(adapter repositories.BlockedDateRepository, cache providers.CacheProvider, metrics *observability.Metrics) repositories.BlockedDateRepository {
	return &CachedBlockedDateAdapter{
		adapter: adapter,
		cache:   cache,
		metrics: metrics,
	}
}

// GetByDate retrieves the row for a date with caching
func (a *CachedBlockedDateAdapter) GetByDate(ctx context.Context, date string) (*entities.BlockedDate, error) {
	cacheKey := blockedDateCacheKey(date)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		observability.RecordCacheHit(ctx, a.metrics, "blocked-dates")
		if string(cached) == string(notBlockedMarker) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("date %s is not blocked", date))
		}
		var blocked entities.BlockedDate
		if err := json.Unmarshal(cached, &blocked); err == nil {
			return &blocked, nil
		}
		log.Warn().Err(err).Str("date", date).Msg("failed to unmarshal cached blocked date")
	}
	observability.RecordCacheMiss(ctx, a.metrics, "blocked-dates")

	blocked, err := a.adapter.GetByDate(ctx, date)
	if err != nil {
		if apperrors.IsNotFound(err) {
			if cacheErr := a.cache.Set(ctx, cacheKey, notBlockedMarker, blockedDateTTL); cacheErr != nil {
				log.Warn().Err(cacheErr).Str("date", date).Msg("failed to cache negative blocked date")
			}
		}
		return nil, err
	}

	if data, err := json.Marshal(blocked); err == nil {
		if err := a.cache.Set(ctx, cacheKey, data, blockedDateTTL); err != nil {
			log.Warn().Err(err).Str("date", date).Msg("failed to cache blocked date")
		}
	}

	return blocked, nil
}

// Upsert writes through and invalidates the cached date
func (a *CachedBlockedDateAdapter) Upsert(ctx context.Context, blocked *entities.BlockedDate) error {
	if err := a.adapter.Upsert(ctx, blocked); err != nil {
		return err
	}
	a.invalidate(ctx, blockedDateCacheKey(blocked.Date))
	return nil
}

// List bypasses the cache
func (a *CachedBlockedDateAdapter) List(ctx context.Context) ([]*entities.BlockedDate, error) {
	return a.adapter.List(ctx)
}

// DeleteByDate deletes and invalidates the cached date
func (a *CachedBlockedDateAdapter) DeleteByDate(ctx context.Context, date string) error {
	if err := a.adapter.DeleteByDate(ctx, date); err != nil {
		return err
	}
	a.invalidate(ctx, blockedDateCacheKey(date))
	return nil
}

func (a *CachedBlockedDateAdapter) invalidate(ctx context.Context, key string) {
	if err := a.cache.Delete(ctx, key); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("failed to invalidate cache key")
	}
}
