package builtin

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	toolcore "github.com/harunnryd/tsukai/internal/tool"
)

const defaultWeatherBaseURL = "https://api.open-meteo.com/v1/forecast"

func init() {
	toolcore.RegisterBuiltin("get_weather", func(options toolcore.BuiltinOptions) (toolcore.Tool, error) {
		timeout := options.WeatherTimeout
		if timeout <= 0 {
			timeout = toolcore.DefaultBuiltinHTTPTimeout
		}

		baseURL := strings.TrimSpace(options.WeatherBaseURL)
		if baseURL == "" {
			baseURL = defaultWeatherBaseURL
		}

		return &WeatherTool{
			Client:  &http.Client{Timeout: timeout},
			BaseURL: baseURL,
		}, nil
	})
}

type weatherCurrent struct {
	Temperature float64 `json:"temperature_2m"`
	WindSpeed   float64 `json:"wind_speed_10m"`
	WeatherCode int     `json:"weather_code"`
}

type weatherResponse struct {
	Current weatherCurrent `json:"current"`
}

// WeatherTool fetches current weather by coordinates.
type WeatherTool struct {
	Client  *http.Client
	BaseURL string
}

func (t *WeatherTool) Name() string { return "get_weather" }

func (t *WeatherTool) Description() string {
	return "Get the current weather for a latitude/longitude pair."
}

func (t *WeatherTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"latitude": map[string]interface{}{
				"type":        "number",
				"description": "Latitude in decimal degrees",
			},
			"longitude": map[string]interface{}{
				"type":        "number",
				"description": "Longitude in decimal degrees",
			},
		},
		"required": []string{"latitude", "longitude"},
	}
}

func (t *WeatherTool) Execute(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
	var args struct {
		Latitude  *float64 `json:"latitude"`
		Longitude *float64 `json:"longitude"`
	}
	if err := json.Unmarshal(input, &args); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}
	if args.Latitude == nil || args.Longitude == nil {
		return nil, fmt.Errorf("latitude and longitude are required")
	}
	if *args.Latitude < -90 || *args.Latitude > 90 {
		return nil, fmt.Errorf("latitude out of range")
	}
	if *args.Longitude < -180 || *args.Longitude > 180 {
		return nil, fmt.Errorf("longitude out of range")
	}

	endpoint, err := url.Parse(t.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid weather endpoint: %w", err)
	}
	q := endpoint.Query()
	q.Set("latitude", strconv.FormatFloat(*args.Latitude, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(*args.Longitude, 'f', -1, 64))
	q.Set("current", "temperature_2m,wind_speed_10m,weather_code")
	endpoint.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := t.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("weather request failed: %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}

	var payload weatherResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode weather response: %w", err)
	}

	return json.Marshal(map[string]interface{}{
		"latitude":       *args.Latitude,
		"longitude":      *args.Longitude,
		"temperature_c":  payload.Current.Temperature,
		"wind_speed_kmh": payload.Current.WindSpeed,
		"weather_code":   payload.Current.WeatherCode,
	})
}
