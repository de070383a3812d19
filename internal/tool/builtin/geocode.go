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

const defaultGeocodeBaseURL = "https://geocoding-api.open-meteo.com/v1/search"

func init() {
	toolcore.RegisterBuiltin("get_lat_long", func(options toolcore.BuiltinOptions) (toolcore.Tool, error) {
		timeout := options.GeocodeTimeout
		if timeout <= 0 {
			timeout = toolcore.DefaultBuiltinHTTPTimeout
		}

		baseURL := strings.TrimSpace(options.GeocodeBaseURL)
		if baseURL == "" {
			baseURL = defaultGeocodeBaseURL
		}

		return &GeocodeTool{
			Client:  &http.Client{Timeout: timeout},
			BaseURL: baseURL,
		}, nil
	})
}

type geocodeResult struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Country   string  `json:"country"`
}

type geocodeResponse struct {
	Results []geocodeResult `json:"results"`
}

// GeocodeTool resolves a place name to coordinates.
type GeocodeTool struct {
	Client  *http.Client
	BaseURL string
}

func (t *GeocodeTool) Name() string { return "get_lat_long" }

func (t *GeocodeTool) Description() string {
	return "Get the latitude and longitude of a place by name."
}

func (t *GeocodeTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"place": map[string]interface{}{
				"type":        "string",
				"description": "Place name in text format (for example: Las Vegas)",
			},
		},
		"required": []string{"place"},
	}
}

func (t *GeocodeTool) Execute(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
	var args struct {
		Place string `json:"place"`
	}
	if err := json.Unmarshal(input, &args); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}

	place := strings.TrimSpace(args.Place)
	if place == "" {
		return nil, fmt.Errorf("place is required")
	}

	endpoint, err := url.Parse(t.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid geocoding endpoint: %w", err)
	}
	q := endpoint.Query()
	q.Set("name", place)
	q.Set("count", "1")
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
		return nil, fmt.Errorf("geocoding request failed: %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}

	var payload geocodeResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode geocoding response: %w", err)
	}
	if len(payload.Results) == 0 {
		return nil, fmt.Errorf("no match for place %s", strconv.Quote(place))
	}

	match := payload.Results[0]
	return json.Marshal(map[string]interface{}{
		"place":     match.Name,
		"country":   match.Country,
		"latitude":  match.Latitude,
		"longitude": match.Longitude,
	})
}
