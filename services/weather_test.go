package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wearlyapi/stylist"
)

func TestCurrentWeatherOk(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.String()
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{
			"weather": [{"main": "Rain", "description": "light rain"}],
			"main": {"temp": 55.4, "feels_like": 52.1, "humidity": 80}
		}`))
	}))
	defer server.Close()

	service := &OpenWeatherService{APIKey: "test-key", BaseURL: server.URL, Client: server.Client()}
	snapshot, err := service.CurrentWeather(context.Background(), "New York")
	require.NoError(t, err)

	assert.InDelta(t, 55.4, snapshot.Temperature, 0.001)
	assert.InDelta(t, 52.1, snapshot.FeelsLike, 0.001)
	assert.InDelta(t, 80.0, snapshot.Humidity, 0.001)
	assert.Equal(t, stylist.ConditionRain, snapshot.Condition)
	assert.Equal(t, "light rain", snapshot.Description)
	assert.Contains(t, gotPath, "q=New+York")
	assert.Contains(t, gotPath, "units=imperial")
}

func TestCurrentWeatherUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"cod": "404", "message": "city not found"}`))
	}))
	defer server.Close()

	service := &OpenWeatherService{APIKey: "test-key", BaseURL: server.URL, Client: server.Client()}
	_, err := service.CurrentWeather(context.Background(), "Nowhereville")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestMapCondition(t *testing.T) {
	assert.Equal(t, stylist.ConditionRain, mapCondition("Rain"))
	assert.Equal(t, stylist.ConditionRain, mapCondition("Drizzle"))
	assert.Equal(t, stylist.ConditionRain, mapCondition("Thunderstorm"))
	assert.Equal(t, stylist.ConditionSnow, mapCondition("Snow"))
	assert.Equal(t, stylist.ConditionClear, mapCondition("Clear"))
	assert.Equal(t, stylist.ConditionCloudy, mapCondition("Clouds"))
	assert.Equal(t, stylist.ConditionCloudy, mapCondition("Mist"))
}

type countingWeatherProvider struct {
	calls    atomic.Int64
	snapshot stylist.WeatherSnapshot
	err      error
}

func (p *countingWeatherProvider) CurrentWeather(ctx context.Context, city string) (stylist.WeatherSnapshot, error) {
	p.calls.Add(1)
	if p.err != nil {
		return stylist.WeatherSnapshot{}, p.err
	}
	return p.snapshot, nil
}

func TestWeatherCacheSharesUpstreamCall(t *testing.T) {
	provider := &countingWeatherProvider{snapshot: stylist.WeatherSnapshot{Temperature: 70, Condition: stylist.ConditionClear}}
	service, err := NewWeatherCacheService(provider)
	require.NoError(t, err)
	defer service.Close()

	first, err := service.CurrentWeather(context.Background(), "Baku")
	require.NoError(t, err)
	assert.InDelta(t, 70.0, first.Temperature, 0.001)

	// ristretto applies buffered writes asynchronously
	time.Sleep(200 * time.Millisecond)

	// same city, different casing, still one upstream call
	_, err = service.CurrentWeather(context.Background(), "  BAKU ")
	require.NoError(t, err)
	assert.Equal(t, int64(1), provider.calls.Load())
}

func TestWeatherCacheEmptyCity(t *testing.T) {
	provider := &countingWeatherProvider{}
	service, err := NewWeatherCacheService(provider)
	require.NoError(t, err)
	defer service.Close()

	_, err = service.CurrentWeather(context.Background(), "   ")
	require.Error(t, err)
	assert.Equal(t, int64(0), provider.calls.Load())
}

func TestWeatherCachePropagatesProviderError(t *testing.T) {
	provider := &countingWeatherProvider{err: errors.New("upstream down")}
	service, err := NewWeatherCacheService(provider)
	require.NoError(t, err)
	defer service.Close()

	_, err = service.CurrentWeather(context.Background(), "Baku")
	require.Error(t, err)
}
