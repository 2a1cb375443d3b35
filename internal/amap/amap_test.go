// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package amap plans routes through the AMap web service API.
package amap

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/filmpilot/filmpilot-tui/internal/model"
)

// fakeAmap serves canned AMap web service responses and counts hits per path.
func fakeAmap(t *testing.T) (*httptest.Server, *map[string]*int32) {
	t.Helper()

	counters := map[string]*int32{
		"/v3/ip":                  new(int32),
		"/v3/geocode/geo":         new(int32),
		"/v3/direction/driving":   new(int32),
		"/v3/direction/walking":   new(int32),
		"/v5/direction/bicycling": new(int32),
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if counter, ok := counters[r.URL.Path]; ok {
			atomic.AddInt32(counter, 1)
		}
		if r.URL.Query().Get("key") == "" {
			t.Error("request missing key parameter")
		}

		switch r.URL.Path {
		case "/v3/ip":
			w.Write([]byte(`{"status":"1","info":"OK","rectangle":"117.10,38.90;117.30,39.10"}`))
		case "/v3/geocode/geo":
			w.Write([]byte(`{"status":"1","info":"OK","geocodes":[{"location":"117.346194,38.988726","formatted_address":"天津市津南区"}]}`))
		case "/v3/direction/driving", "/v3/direction/walking":
			w.Write([]byte(`{"status":"1","info":"OK","route":{"paths":[{"distance":"12500","duration":"1500","steps":[{"instruction":"向南行驶"},{"instruction":"左转"}]}]}}`))
		case "/v5/direction/bicycling":
			w.Write([]byte(`{"status":"1","info":"OK","route":{"paths":[{"distance":"4200","duration":"900","steps":[]}]}}`))
		case "/v3/direction/transit/integrated":
			w.Write([]byte(`{"status":"1","info":"OK","route":{"transits":[{"distance":"9000","duration":"2400"}]}}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	return server, &counters
}

func testClient(t *testing.T) (*Client, *map[string]*int32) {
	server, counters := fakeAmap(t)
	client := NewClientWithConfig(&ClientConfig{
		BaseURL:           server.URL,
		Key:               "test-key",
		RequestsPerSecond: 1000,
	})
	return client, counters
}

// =============================================================================
// CLIENT TESTS
// =============================================================================

func TestLocateIP_RectangleCenter(t *testing.T) {
	client, _ := testClient(t)

	coords, err := client.LocateIP(context.Background())
	if err != nil {
		t.Fatalf("LocateIP failed: %v", err)
	}

	if coords.Lnt < 117.19 || coords.Lnt > 117.21 {
		t.Errorf("Lnt = %f, want ~117.20", coords.Lnt)
	}
	if coords.Lat < 38.99 || coords.Lat > 39.01 {
		t.Errorf("Lat = %f, want ~39.00", coords.Lat)
	}
}

func TestGeocode(t *testing.T) {
	client, _ := testClient(t)

	loc, err := client.Geocode(context.Background(), "南开大学津南校区", "天津")
	if err != nil {
		t.Fatalf("Geocode failed: %v", err)
	}

	if loc.Position != "117.346194,38.988726" {
		t.Errorf("Position = %q", loc.Position)
	}
	if loc.Name != "天津市津南区" {
		t.Errorf("Name = %q", loc.Name)
	}
}

func TestPlanRoute_Driving(t *testing.T) {
	client, counters := testClient(t)

	payload := model.RoutePayload{
		Destination: model.Place{Keyword: "金逸影城", City: "天津"},
		Mode:        "Driving",
	}

	summary, err := client.PlanRoute(context.Background(), payload)
	if err != nil {
		t.Fatalf("PlanRoute failed: %v", err)
	}

	if summary.Mode != "Driving" {
		t.Errorf("Mode = %q", summary.Mode)
	}
	if summary.Distance != 12500 {
		t.Errorf("Distance = %d", summary.Distance)
	}
	if summary.Duration != 25*time.Minute {
		t.Errorf("Duration = %v", summary.Duration)
	}
	if len(summary.Steps) != 2 {
		t.Errorf("Steps = %v", summary.Steps)
	}

	if atomic.LoadInt32((*counters)["/v3/direction/driving"]) != 1 {
		t.Error("driving endpoint should be hit exactly once")
	}
}

func TestPlanRoute_UnknownModeFallsBackToDriving(t *testing.T) {
	client, counters := testClient(t)

	payload := model.RoutePayload{
		Destination: model.Place{Keyword: "影城", City: "天津"},
		Mode:        "Teleport",
	}

	summary, err := client.PlanRoute(context.Background(), payload)
	if err != nil {
		t.Fatalf("PlanRoute failed: %v", err)
	}

	if summary.Mode != "Driving" {
		t.Errorf("Mode = %q, want Driving", summary.Mode)
	}
	if atomic.LoadInt32((*counters)["/v3/direction/driving"]) != 1 {
		t.Error("unknown mode should use the driving endpoint")
	}
}

func TestPlanRoute_RidingUsesBicycling(t *testing.T) {
	client, counters := testClient(t)

	payload := model.RoutePayload{
		Destination: model.Place{Keyword: "影城", City: "天津"},
		Mode:        "Riding",
	}

	if _, err := client.PlanRoute(context.Background(), payload); err != nil {
		t.Fatalf("PlanRoute failed: %v", err)
	}

	if atomic.LoadInt32((*counters)["/v5/direction/bicycling"]) != 1 {
		t.Error("Riding should use the bicycling endpoint")
	}
}

func TestPlanRoute_ExplicitOriginIsGeocoded(t *testing.T) {
	client, counters := testClient(t)

	payload := model.RoutePayload{
		Origin:      &model.Place{Keyword: "南开大学津南校区", City: "天津"},
		Destination: model.Place{Keyword: "金逸影城", City: "天津"},
	}

	if _, err := client.PlanRoute(context.Background(), payload); err != nil {
		t.Fatalf("PlanRoute failed: %v", err)
	}

	// Origin plus destination.
	if got := atomic.LoadInt32((*counters)["/v3/geocode/geo"]); got != 2 {
		t.Errorf("geocode hits = %d, want 2", got)
	}
}

func TestEnsureReady_ProbesOnce(t *testing.T) {
	client, counters := testClient(t)

	payload := model.RoutePayload{Destination: model.Place{Keyword: "影城", City: "天津"}}

	client.PlanRoute(context.Background(), payload)
	client.PlanRoute(context.Background(), payload)

	// One readiness probe plus one origin lookup per plan.
	if got := atomic.LoadInt32((*counters)["/v3/ip"]); got != 3 {
		t.Errorf("ip hits = %d, want 3", got)
	}
}

func TestEnsureReady_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	client := NewClientWithConfig(&ClientConfig{
		BaseURL:           server.URL,
		Key:               "test-key",
		ReadyTimeout:      50 * time.Millisecond,
		RequestsPerSecond: 1000,
	})

	_, err := client.PlanRoute(context.Background(), model.RoutePayload{
		Destination: model.Place{Keyword: "影城", City: "天津"},
	})
	if !errors.Is(err, ErrLoadTimeout) {
		t.Errorf("error = %v, want ErrLoadTimeout", err)
	}

	// The failed probe is cached: no further attempts.
	_, err = client.PlanRoute(context.Background(), model.RoutePayload{
		Destination: model.Place{Keyword: "影城", City: "天津"},
	})
	if !errors.Is(err, ErrLoadTimeout) {
		t.Errorf("cached error = %v, want ErrLoadTimeout", err)
	}
}

func TestRectangleCenter_Invalid(t *testing.T) {
	if _, err := rectangleCenter("garbage"); err == nil {
		t.Error("expected error for malformed rectangle")
	}
}

// =============================================================================
// PANEL TESTS
// =============================================================================

func TestPanel_DebounceCoalesces(t *testing.T) {
	client, counters := testClient(t)

	updated := make(chan struct{}, 8)
	panel := NewPanel(client, func() { updated <- struct{}{} })
	panel.SetDebounce(50 * time.Millisecond)

	dest := model.Place{Keyword: "影城", City: "天津"}
	panel.SetRoute(model.RoutePayload{Destination: dest, Mode: "Driving"})
	panel.SetRoute(model.RoutePayload{Destination: dest, Mode: "Walking"})
	panel.SetRoute(model.RoutePayload{Destination: dest, Mode: "Driving"})

	select {
	case <-updated:
	case <-time.After(5 * time.Second):
		t.Fatal("panel never updated")
	}

	if got := atomic.LoadInt32((*counters)["/v3/direction/driving"]); got != 1 {
		t.Errorf("driving hits = %d, want 1 (coalesced)", got)
	}
	if got := atomic.LoadInt32((*counters)["/v3/direction/walking"]); got != 0 {
		t.Errorf("walking hits = %d, want 0 (superseded)", got)
	}
}

func TestPanel_DestructiveRerender(t *testing.T) {
	client, _ := testClient(t)

	updated := make(chan struct{}, 8)
	panel := NewPanel(client, func() { updated <- struct{}{} })
	panel.SetDebounce(0)

	panel.SetRoute(model.RoutePayload{Destination: model.Place{Keyword: "影城", City: "天津"}})
	<-updated

	if panel.Summary() == nil {
		t.Fatal("expected a summary after plan")
	}

	// A new input clears prior contents before the new plan lands.
	panel.SetRoute(model.RoutePayload{Destination: model.Place{Keyword: "博物馆", City: "天津"}})
	if !panel.Planning() {
		t.Error("panel should be planning after new input")
	}
	if panel.Summary() != nil {
		t.Error("prior summary should be destroyed on input change")
	}
	<-updated
}

func TestPanel_ClearCancelsPending(t *testing.T) {
	client, counters := testClient(t)

	panel := NewPanel(client, nil)
	panel.SetDebounce(50 * time.Millisecond)

	panel.SetRoute(model.RoutePayload{Destination: model.Place{Keyword: "影城", City: "天津"}})
	panel.Clear()

	time.Sleep(150 * time.Millisecond)

	if panel.View() != "" {
		t.Errorf("View = %q, want empty after clear", panel.View())
	}
	if got := atomic.LoadInt32((*counters)["/v3/direction/driving"]); got != 0 {
		t.Errorf("driving hits = %d, want 0 after clear", got)
	}
}

func TestPanel_ErrorShownInBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"0","info":"INVALID_USER_KEY"}`))
	}))
	defer server.Close()

	client := NewClientWithConfig(&ClientConfig{
		BaseURL:           server.URL,
		Key:               "bad-key",
		RequestsPerSecond: 1000,
	})

	updated := make(chan struct{}, 1)
	panel := NewPanel(client, func() { updated <- struct{}{} })
	panel.SetDebounce(0)

	panel.SetRoute(model.RoutePayload{Destination: model.Place{Keyword: "影城", City: "天津"}})
	<-updated

	if !strings.Contains(panel.View(), "路线规划失败") {
		t.Errorf("View = %q, want failure note", panel.View())
	}
}

// =============================================================================
// FORMATTING TESTS
// =============================================================================

func TestFormatSummary(t *testing.T) {
	s := &RouteSummary{
		Mode:        "Driving",
		Origin:      "南开大学津南校区",
		Destination: "金逸影城",
		Distance:    12500,
		Duration:    25 * time.Minute,
		Steps:       []string{"向南行驶", "左转"},
	}

	out := FormatSummary(s)

	for _, want := range []string{"驾车", "南开大学津南校区 → 金逸影城", "12.5 公里", "约 25 分钟", "1. 向南行驶"} {
		if !strings.Contains(out, want) {
			t.Errorf("FormatSummary missing %q in:\n%s", want, out)
		}
	}
}

func TestFormatDistance(t *testing.T) {
	tests := []struct {
		meters int
		want   string
	}{
		{500, "500 米"},
		{1000, "1.0 公里"},
		{12500, "12.5 公里"},
	}

	for _, tc := range tests {
		if got := formatDistance(tc.meters); got != tc.want {
			t.Errorf("formatDistance(%d) = %q, want %q", tc.meters, got, tc.want)
		}
	}
}

func TestModeLabel(t *testing.T) {
	if ModeLabel("Walking") != "步行" {
		t.Errorf("ModeLabel(Walking) = %q", ModeLabel("Walking"))
	}
	// Unknown modes label as driving.
	if ModeLabel("Teleport") != "驾车" {
		t.Errorf("ModeLabel(Teleport) = %q", ModeLabel("Teleport"))
	}
}
