// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the FilmPilot backend.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/filmpilot/filmpilot-tui/internal/model"
)

// =============================================================================
// RESPONSE INTERPRETATION TESTS
// =============================================================================

func TestParseWorkflowReply_PlainText(t *testing.T) {
	reply := ParseWorkflowReply([]byte(`"你好，想看什么类型的电影？"`))

	if reply.IsRoute() {
		t.Fatal("plain text should not be a route")
	}

	if reply.Text != "你好，想看什么类型的电影？" {
		t.Errorf("Text = %q", reply.Text)
	}
}

func TestParseWorkflowReply_StripsOneQuoteLayerOnly(t *testing.T) {
	reply := ParseWorkflowReply([]byte(`""quoted""`))

	if reply.Text != `"quoted"` {
		t.Errorf("Text = %q, want one inner quote layer preserved", reply.Text)
	}
}

func TestParseWorkflowReply_UnescapesNewlines(t *testing.T) {
	reply := ParseWorkflowReply([]byte(`"line one\nline two"`))

	if reply.Text != "line one\nline two" {
		t.Errorf("Text = %q", reply.Text)
	}
}

func TestParseWorkflowReply_RouteDirective(t *testing.T) {
	body := []byte(`{"map_action":true,"destination":{"keyword":"金逸影城","city":"天津"},"city":"天津","mode":"Walking"}`)

	reply := ParseWorkflowReply(body)

	if !reply.IsRoute() {
		t.Fatal("map_action payload should be a route")
	}

	if reply.Route.Destination.Keyword != "金逸影城" {
		t.Errorf("Destination.Keyword = %q", reply.Route.Destination.Keyword)
	}

	if reply.Route.Mode != "Walking" {
		t.Errorf("Mode = %q", reply.Route.Mode)
	}

	// Defaults are filled in for the optional keys.
	if reply.Route.JSKey != model.DefaultAmapJSKey {
		t.Errorf("JSKey = %q, want default", reply.Route.JSKey)
	}
}

func TestParseWorkflowReply_DoubleEncodedRoute(t *testing.T) {
	inner := `{"map_action":true,"destination":{"keyword":"IMAX","city":"天津"}}`
	outer, err := json.Marshal(inner)
	if err != nil {
		t.Fatal(err)
	}

	reply := ParseWorkflowReply(outer)

	if !reply.IsRoute() {
		t.Fatal("string-wrapped directive should still be a route")
	}

	if reply.Route.Destination.Keyword != "IMAX" {
		t.Errorf("Destination.Keyword = %q", reply.Route.Destination.Keyword)
	}
}

func TestParseWorkflowReply_DoubleEncodedText(t *testing.T) {
	// The backend sometimes returns a JSON string containing a JSON string.
	outer, err := json.Marshal(`"hello"`)
	if err != nil {
		t.Fatal(err)
	}

	reply := ParseWorkflowReply(outer)

	if reply.IsRoute() {
		t.Fatal("text should not be a route")
	}

	if reply.Text != "hello" {
		t.Errorf("Text = %q, want 'hello'", reply.Text)
	}
}

func TestParseWorkflowReply_FalseMapActionIsText(t *testing.T) {
	reply := ParseWorkflowReply([]byte(`{"map_action":false,"city":"天津"}`))

	if reply.IsRoute() {
		t.Fatal("map_action=false must not produce a route")
	}
}

func TestParseWorkflowReply_BoundedUnwrap(t *testing.T) {
	// More string layers than maxUnwrapDepth must terminate as text.
	body := []byte(`"x"`)
	for i := 0; i < maxUnwrapDepth+2; i++ {
		wrapped, err := json.Marshal(string(body))
		if err != nil {
			t.Fatal(err)
		}
		body = wrapped
	}

	reply := ParseWorkflowReply(body)

	if reply.IsRoute() {
		t.Fatal("over-wrapped payload should fall back to text")
	}
}

// =============================================================================
// CLIENT CONFIGURATION TESTS
// =============================================================================

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.BaseURL != "http://localhost:8000" {
		t.Errorf("BaseURL = %q", config.BaseURL)
	}

	if config.Timeout != 60*time.Second {
		t.Errorf("Timeout = %v", config.Timeout)
	}
}

func TestNewClientWithConfig_FillsZeroValues(t *testing.T) {
	client := NewClientWithConfig(&ClientConfig{})

	if client.config.BaseURL != "http://localhost:8000" {
		t.Errorf("BaseURL = %q", client.config.BaseURL)
	}

	if client.config.Timeout != 60*time.Second {
		t.Errorf("Timeout = %v", client.config.Timeout)
	}

	if client.config.RequestsPerSecond != 5 {
		t.Errorf("RequestsPerSecond = %f", client.config.RequestsPerSecond)
	}
}

func TestNewClientWithConfig_NilConfig(t *testing.T) {
	client := NewClientWithConfig(nil)

	if client.BaseURL() != "http://localhost:8000" {
		t.Errorf("BaseURL = %q", client.BaseURL())
	}
}

// =============================================================================
// WORKFLOW TESTS
// =============================================================================

func TestWorkflow_SendsContractFields(t *testing.T) {
	var got map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/workflow" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Write([]byte(`"ok"`))
	}))
	defer server.Close()

	client := NewClientWithConfig(&ClientConfig{BaseURL: server.URL})

	req := WorkflowRequest{
		CurrentInput:     "推荐一部电影",
		AgeRange:         "18-25岁",
		Gender:           "女",
		MoviePreferences: []string{"科幻"},
		Lat:              38.988726,
		Lnt:              117.346194,
		ConversationID:   3,
	}

	reply, err := client.Workflow(context.Background(), req)
	if err != nil {
		t.Fatalf("Workflow() error: %v", err)
	}

	if reply.Text != "ok" {
		t.Errorf("Text = %q", reply.Text)
	}

	for _, key := range []string{"currentInput", "ageRange", "gender", "moviePreferences", "lat", "lnt", "conversation_id"} {
		if _, ok := got[key]; !ok {
			t.Errorf("request body missing key %q", key)
		}
	}
}

func TestWorkflow_BadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClientWithConfig(&ClientConfig{BaseURL: server.URL})

	_, err := client.Workflow(context.Background(), WorkflowRequest{CurrentInput: "hi"})
	if err == nil {
		t.Fatal("expected error on 500")
	}

	if !errors.Is(err, ErrBadStatus) {
		t.Errorf("error = %v, want ErrBadStatus", err)
	}
}

func TestWorkflow_Unreachable(t *testing.T) {
	// Nothing listens here.
	client := NewClientWithConfig(&ClientConfig{BaseURL: "http://127.0.0.1:1", Timeout: time.Second})

	_, err := client.Workflow(context.Background(), WorkflowRequest{CurrentInput: "hi"})
	if err == nil {
		t.Fatal("expected error for unreachable backend")
	}

	if !errors.Is(err, ErrUnreachable) {
		t.Errorf("error = %v, want ErrUnreachable", err)
	}
}

// =============================================================================
// DAILY RECOMMENDATION TESTS
// =============================================================================

func TestDailyRecommendations(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/daily_recommendations" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.URL.Query().Get("count") != "3" {
			t.Errorf("count = %q", r.URL.Query().Get("count"))
		}
		json.NewEncoder(w).Encode([]Movie{
			{ID: 1, Title: "流浪地球", Rating: 7.9},
			{ID: 2, Title: "盗梦空间", Rating: 9.4},
			{ID: 3, Title: "星际穿越", Rating: 9.4},
		})
	}))
	defer server.Close()

	client := NewClientWithConfig(&ClientConfig{BaseURL: server.URL})

	movies, err := client.DailyRecommendations(context.Background(), 3)
	if err != nil {
		t.Fatalf("DailyRecommendations() error: %v", err)
	}

	if len(movies) != 3 {
		t.Fatalf("got %d movies, want 3", len(movies))
	}

	if movies[0].Title != "流浪地球" {
		t.Errorf("Title = %q", movies[0].Title)
	}
}

// =============================================================================
// AUTH TESTS
// =============================================================================

func TestLogin_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req authRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.UserID != "alice" {
			t.Errorf("user_id = %q", req.UserID)
		}
		json.NewEncoder(w).Encode(LoginResult{Success: true})
	}))
	defer server.Close()

	client := NewClientWithConfig(&ClientConfig{BaseURL: server.URL})

	result, err := client.Login(context.Background(), "alice", "secret")
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}

	if !result.Success {
		t.Error("Success should be true")
	}
}

func TestLogin_RejectedIsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(LoginResult{Success: false, Message: "用户名或密码错误"})
	}))
	defer server.Close()

	client := NewClientWithConfig(&ClientConfig{BaseURL: server.URL})

	result, err := client.Login(context.Background(), "alice", "wrong")
	if err != nil {
		t.Fatalf("rejected credentials must not be a transport error, got: %v", err)
	}

	if result.Success {
		t.Error("Success should be false")
	}

	if result.Message != "用户名或密码错误" {
		t.Errorf("Message = %q", result.Message)
	}
}

func TestRegister_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	client := NewClientWithConfig(&ClientConfig{BaseURL: server.URL})

	if err := client.Register(context.Background(), "bob", "secret"); err != nil {
		t.Fatalf("Register() error: %v", err)
	}
}

func TestRegister_SurfacesBackendMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"message": "用户已存在"})
	}))
	defer server.Close()

	client := NewClientWithConfig(&ClientConfig{BaseURL: server.URL})

	err := client.Register(context.Background(), "bob", "secret")
	if err == nil {
		t.Fatal("expected error on 409")
	}

	var clientErr *ClientError
	if !errors.As(err, &clientErr) {
		t.Fatalf("error type = %T", err)
	}

	if clientErr.Message != "用户已存在" {
		t.Errorf("Message = %q", clientErr.Message)
	}
}
