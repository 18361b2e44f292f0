package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	ristretto_store "github.com/eko/gocache/store/ristretto/v4"

	"wearlyapi/stylist"
)

const weatherCacheTTL = 10 * time.Minute

type WeatherCacher interface {
	CurrentWeather(ctx context.Context, city string) (stylist.WeatherSnapshot, error)
}

// WeatherCacheService memoizes per-city weather lookups. Forecast data is
// stale-tolerant within the TTL, so every suggestion request in the window
// shares one upstream call.
type WeatherCacheService struct {
	cacheManager *cache.LoadableCache[stylist.WeatherSnapshot]
	provider     WeatherServiceProvider
}

func NewWeatherCacheService(provider WeatherServiceProvider) (*WeatherCacheService, error) {
	ristrettoCache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1000,
		MaxCost:     10000000,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create ristretto cache: %w", err)
	}

	ristrettoStore := ristretto_store.NewRistretto(ristrettoCache)

	service := &WeatherCacheService{provider: provider}

	loadFunction := func(ctx context.Context, key any) (stylist.WeatherSnapshot, []store.Option, error) {
		city, ok := key.(string)
		if !ok {
			return stylist.WeatherSnapshot{}, nil, fmt.Errorf("invalid key type: %T", key)
		}

		snapshot, err := service.provider.CurrentWeather(ctx, city)
		if err != nil {
			return stylist.WeatherSnapshot{}, nil, err
		}

		return snapshot, []store.Option{store.WithExpiration(weatherCacheTTL)}, nil
	}

	service.cacheManager = cache.NewLoadable[stylist.WeatherSnapshot](
		loadFunction,
		cache.New[stylist.WeatherSnapshot](ristrettoStore),
	)
	return service, nil
}

func (s *WeatherCacheService) CurrentWeather(ctx context.Context, city string) (stylist.WeatherSnapshot, error) {
	if strings.TrimSpace(city) == "" {
		return stylist.WeatherSnapshot{}, fmt.Errorf("empty city")
	}
	return s.cacheManager.Get(ctx, strings.ToLower(strings.TrimSpace(city)))
}

func (s *WeatherCacheService) Close() error {
	if s.cacheManager != nil {
		return s.cacheManager.Close()
	}
	return nil
}
