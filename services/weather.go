package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"wearlyapi/stylist"
)

// WeatherServiceProvider fetches current conditions for a city. Implementations
// return temperatures in Fahrenheit, converting at the boundary if the upstream
// speaks something else.
type WeatherServiceProvider interface {
	CurrentWeather(ctx context.Context, city string) (stylist.WeatherSnapshot, error)
}

const openWeatherBaseURL = "https://api.openweathermap.org/data/2.5"

type OpenWeatherService struct {
	APIKey  string
	BaseURL string
	Client  *http.Client
}

func NewOpenWeatherService(apiKey string) *OpenWeatherService {
	return &OpenWeatherService{
		APIKey:  apiKey,
		BaseURL: openWeatherBaseURL,
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type openWeatherResponse struct {
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  float64 `json:"humidity"`
	} `json:"main"`
}

func (s *OpenWeatherService) CurrentWeather(ctx context.Context, city string) (stylist.WeatherSnapshot, error) {
	baseURL := s.BaseURL
	if baseURL == "" {
		baseURL = openWeatherBaseURL
	}
	endpoint := fmt.Sprintf(
		"%s/weather?q=%s&units=imperial&appid=%s",
		baseURL, url.QueryEscape(city), s.APIKey,
	)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return stylist.WeatherSnapshot{}, fmt.Errorf("building weather request: %w", err)
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return stylist.WeatherSnapshot{}, fmt.Errorf("weather provider unavailable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return stylist.WeatherSnapshot{}, fmt.Errorf("weather provider returned %d: %s", resp.StatusCode, string(body))
	}

	var payload openWeatherResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return stylist.WeatherSnapshot{}, fmt.Errorf("decoding weather response: %w", err)
	}

	snapshot := stylist.WeatherSnapshot{
		Temperature: payload.Main.Temp,
		FeelsLike:   payload.Main.FeelsLike,
		Humidity:    payload.Main.Humidity,
		Condition:   stylist.ConditionCloudy,
	}
	if len(payload.Weather) > 0 {
		snapshot.Condition = mapCondition(payload.Weather[0].Main)
		snapshot.Description = payload.Weather[0].Description
	}
	return snapshot, nil
}

func mapCondition(main string) stylist.Condition {
	switch main {
	case "Rain", "Drizzle", "Thunderstorm":
		return stylist.ConditionRain
	case "Snow":
		return stylist.ConditionSnow
	case "Clear":
		return stylist.ConditionClear
	default:
		return stylist.ConditionCloudy
	}
}
