// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package amap plans routes through the AMap web service API.
//
// Route computation is delegated entirely to AMap: this package geocodes the
// endpoints, picks the direction endpoint for the travel mode, and condenses
// the response into a textual summary for the route panel.
package amap

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/filmpilot/filmpilot-tui/internal/model"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrLoadTimeout indicates the service did not become ready in time.
	ErrLoadTimeout = errors.New("amap service did not become ready before timeout")
	// ErrNotReady indicates the one-time readiness check failed.
	ErrNotReady = errors.New("amap service unavailable")
	// ErrNoRoute indicates the service returned no usable route.
	ErrNoRoute = errors.New("amap returned no route")
	// ErrBadResponse indicates an unparseable service response.
	ErrBadResponse = errors.New("invalid amap response")
)

// =============================================================================
// TRAVEL MODES
// =============================================================================

// modeEndpoints maps a route directive mode to its direction endpoint.
// Unrecognized modes fall back to driving.
var modeEndpoints = map[string]string{
	"Driving":      "/v3/direction/driving",
	"Walking":      "/v3/direction/walking",
	"Riding":       "/v5/direction/bicycling",
	"TruckDriving": "/v4/direction/truck",
	"Transfer":     "/v3/direction/transit/integrated",
}

// modeLabels maps a mode to its display name.
var modeLabels = map[string]string{
	"Driving":      "驾车",
	"Walking":      "步行",
	"Riding":       "骑行",
	"TruckDriving": "货车",
	"Transfer":     "公交",
}

// normalizeMode resolves unknown modes to the default.
func normalizeMode(mode string) string {
	if _, ok := modeEndpoints[mode]; !ok {
		return model.DefaultMode
	}
	return mode
}

// ModeLabel returns the display name for a travel mode.
func ModeLabel(mode string) string {
	return modeLabels[normalizeMode(mode)]
}

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig holds configuration options for the AMap client.
type ClientConfig struct {
	// BaseURL is the web service base URL (default: https://restapi.amap.com)
	BaseURL string

	// Key is the web service API key.
	Key string

	// Timeout for individual requests (default: 10s)
	Timeout time.Duration

	// ReadyTimeout bounds the one-time readiness check (default: 5s)
	ReadyTimeout time.Duration

	// RequestsPerSecond caps outgoing request rate (default: 3).
	RequestsPerSecond float64
}

// DefaultConfig returns the default AMap client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:           "https://restapi.amap.com",
		Key:               model.DefaultAmapSecurityKey,
		Timeout:           10 * time.Second,
		ReadyTimeout:      5 * time.Second,
		RequestsPerSecond: 3,
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client talks to the AMap web services. The readiness check runs at most
// once per client lifetime; its outcome, success or failure, is cached.
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
	limiter    *rate.Limiter

	readyOnce sync.Once
	readyErr  error
}

// NewClient creates an AMap client with default configuration.
func NewClient() *Client {
	return NewClientWithConfig(DefaultConfig())
}

// NewClientWithConfig creates an AMap client with custom configuration.
func NewClientWithConfig(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	if config.BaseURL == "" {
		config.BaseURL = "https://restapi.amap.com"
	}
	if config.Key == "" {
		config.Key = model.DefaultAmapSecurityKey
	}
	if config.Timeout == 0 {
		config.Timeout = 10 * time.Second
	}
	if config.ReadyTimeout == 0 {
		config.ReadyTimeout = 5 * time.Second
	}
	if config.RequestsPerSecond <= 0 {
		config.RequestsPerSecond = 3
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(config.RequestsPerSecond), 1),
	}
}

// ensureReady performs the lazy one-time service check, bounded by
// ReadyTimeout. Later calls return the cached outcome without another probe.
func (c *Client) ensureReady(ctx context.Context) error {
	c.readyOnce.Do(func() {
		probeCtx, cancel := context.WithTimeout(ctx, c.config.ReadyTimeout)
		defer cancel()

		_, err := c.LocateIP(probeCtx)
		if errors.Is(err, context.DeadlineExceeded) {
			c.readyErr = ErrLoadTimeout
			return
		}
		if err != nil {
			c.readyErr = fmt.Errorf("%w: %v", ErrNotReady, err)
		}
	})
	return c.readyErr
}

// =============================================================================
// GEOCODING
// =============================================================================

// Location is a geocoded point with its display name.
type Location struct {
	// Position is the "lng,lat" pair AMap endpoints consume.
	Position string
	// Name is the formatted address for display.
	Name string
}

type geocodeResponse struct {
	Status   string `json:"status"`
	Info     string `json:"info"`
	Geocodes []struct {
		Location         string `json:"location"`
		FormattedAddress string `json:"formatted_address"`
	} `json:"geocodes"`
}

// Geocode resolves a keyword within a city to coordinates.
func (c *Client) Geocode(ctx context.Context, keyword, city string) (Location, error) {
	params := url.Values{}
	params.Set("address", keyword)
	if city != "" {
		params.Set("city", city)
	}

	body, err := c.get(ctx, "/v3/geocode/geo", params)
	if err != nil {
		return Location{}, err
	}

	var resp geocodeResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return Location{}, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	if resp.Status != "1" || len(resp.Geocodes) == 0 {
		return Location{}, fmt.Errorf("%w: no geocode for %q (%s)", ErrNoRoute, keyword, resp.Info)
	}

	name := resp.Geocodes[0].FormattedAddress
	if name == "" {
		name = keyword
	}
	return Location{Position: resp.Geocodes[0].Location, Name: name}, nil
}

// =============================================================================
// IP LOCATION
// =============================================================================

type ipResponse struct {
	Status    string `json:"status"`
	Info      string `json:"info"`
	Rectangle string `json:"rectangle"`
}

// LocateIP estimates the caller's coordinates from their IP address.
// AMap answers with a bounding rectangle; the center is returned.
func (c *Client) LocateIP(ctx context.Context) (model.Coordinates, error) {
	body, err := c.get(ctx, "/v3/ip", url.Values{})
	if err != nil {
		return model.Coordinates{}, err
	}

	var resp ipResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return model.Coordinates{}, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	if resp.Status != "1" {
		return model.Coordinates{}, fmt.Errorf("%w: %s", ErrNotReady, resp.Info)
	}

	coords, err := rectangleCenter(resp.Rectangle)
	if err != nil {
		return model.Coordinates{}, err
	}
	return coords, nil
}

// rectangleCenter parses "lng1,lat1;lng2,lat2" into its midpoint.
func rectangleCenter(rect string) (model.Coordinates, error) {
	corners := strings.Split(rect, ";")
	if len(corners) != 2 {
		return model.Coordinates{}, fmt.Errorf("%w: rectangle %q", ErrBadResponse, rect)
	}

	var lngs, lats [2]float64
	for i, corner := range corners {
		parts := strings.Split(corner, ",")
		if len(parts) != 2 {
			return model.Coordinates{}, fmt.Errorf("%w: rectangle %q", ErrBadResponse, rect)
		}
		lng, err1 := strconv.ParseFloat(parts[0], 64)
		lat, err2 := strconv.ParseFloat(parts[1], 64)
		if err1 != nil || err2 != nil {
			return model.Coordinates{}, fmt.Errorf("%w: rectangle %q", ErrBadResponse, rect)
		}
		lngs[i] = lng
		lats[i] = lat
	}

	return model.Coordinates{
		Lat: (lats[0] + lats[1]) / 2,
		Lnt: (lngs[0] + lngs[1]) / 2,
	}, nil
}

// =============================================================================
// ROUTE PLANNING
// =============================================================================

// RouteSummary is the condensed result of a route request.
type RouteSummary struct {
	Mode        string
	Origin      string
	Destination string
	Distance    int // meters
	Duration    time.Duration
	Steps       []string
}

// amount is a numeric field AMap serializes inconsistently: a quoted string
// in v3/v5 responses, a bare number in v4.
type amount float64

func (a *amount) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*a = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*a = amount(f)
	return nil
}

type pathInfo struct {
	Distance amount `json:"distance"`
	Duration amount `json:"duration"`
	Steps    []struct {
		Instruction string `json:"instruction"`
	} `json:"steps"`
}

type directionResponse struct {
	Status  string `json:"status"`
	Info    string `json:"info"`
	Errcode *int   `json:"errcode"`
	Errmsg  string `json:"errmsg"`
	Route   *struct {
		Paths    []pathInfo `json:"paths"`
		Transits []struct {
			Distance amount `json:"distance"`
			Duration amount `json:"duration"`
		} `json:"transits"`
	} `json:"route"`
	Data *struct {
		Paths []pathInfo `json:"paths"`
	} `json:"data"`
}

// PlanRoute geocodes the endpoints of a route directive and asks the
// direction endpoint for the requested travel mode to plan it. A missing
// origin is resolved by IP location, falling back to the default origin.
func (c *Client) PlanRoute(ctx context.Context, payload model.RoutePayload) (*RouteSummary, error) {
	if err := c.ensureReady(ctx); err != nil {
		return nil, err
	}

	payload = payload.WithDefaults()
	mode := normalizeMode(payload.Mode)

	dest, err := c.Geocode(ctx, payload.Destination.Keyword, destCity(payload))
	if err != nil {
		return nil, err
	}

	origin, err := c.resolveOrigin(ctx, payload)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("origin", origin.Position)
	params.Set("destination", dest.Position)
	if mode == "Transfer" {
		// Transit planning requires the city.
		params.Set("city", payload.City)
	}

	body, err := c.get(ctx, modeEndpoints[mode], params)
	if err != nil {
		return nil, err
	}

	summary, err := parseDirection(body)
	if err != nil {
		return nil, err
	}

	summary.Mode = mode
	summary.Origin = origin.Name
	summary.Destination = dest.Name
	return summary, nil
}

// resolveOrigin geocodes the explicit origin when the directive carries one.
// Otherwise the user's position is estimated by IP, and if that fails the
// fixed default origin is used.
func (c *Client) resolveOrigin(ctx context.Context, payload model.RoutePayload) (Location, error) {
	if payload.Origin != nil && payload.Origin.IsValid() {
		city := payload.Origin.City
		if city == "" {
			city = payload.City
		}
		return c.Geocode(ctx, payload.Origin.Keyword, city)
	}

	if coords, err := c.LocateIP(ctx); err == nil {
		position := strconv.FormatFloat(coords.Lnt, 'f', 6, 64) + "," + strconv.FormatFloat(coords.Lat, 'f', 6, 64)
		return Location{Position: position, Name: "当前位置"}, nil
	}

	return c.Geocode(ctx, model.DefaultOrigin.Keyword, model.DefaultOrigin.City)
}

func destCity(payload model.RoutePayload) string {
	if payload.Destination.City != "" {
		return payload.Destination.City
	}
	return payload.City
}

// parseDirection extracts the first planned path from any of the direction
// endpoint response shapes.
func parseDirection(body []byte) (*RouteSummary, error) {
	var resp directionResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}

	if resp.Status != "" && resp.Status != "1" {
		return nil, fmt.Errorf("%w: %s", ErrNoRoute, resp.Info)
	}
	if resp.Errcode != nil && *resp.Errcode != 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoRoute, resp.Errmsg)
	}

	var paths []pathInfo
	switch {
	case resp.Route != nil && len(resp.Route.Paths) > 0:
		paths = resp.Route.Paths
	case resp.Data != nil && len(resp.Data.Paths) > 0:
		paths = resp.Data.Paths
	case resp.Route != nil && len(resp.Route.Transits) > 0:
		transit := resp.Route.Transits[0]
		return &RouteSummary{
			Distance: int(transit.Distance),
			Duration: time.Duration(transit.Duration) * time.Second,
		}, nil
	default:
		return nil, ErrNoRoute
	}

	path := paths[0]
	summary := &RouteSummary{
		Distance: int(path.Distance),
		Duration: time.Duration(path.Duration) * time.Second,
	}
	for _, step := range path.Steps {
		if step.Instruction != "" {
			summary.Steps = append(summary.Steps, step.Instruction)
		}
	}
	return summary, nil
}

// =============================================================================
// HELPERS
// =============================================================================

// get issues a GET against the web service with the API key attached.
func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params.Set("key", c.config.Key)
	params.Set("output", "JSON")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s", ErrNotReady, resp.Status)
	}
	return io.ReadAll(resp.Body)
}
