package server

import (
	"net/http/httptest"
	"testing"

	"github.com/evelinavait/fleettrack/internal/config"
)

func TestHealthRoute(t *testing.T) {
	s := NewServer(config.Config{ServerPort: ":0"}, nil, nil)
	defer s.Shutdown()

	req := httptest.NewRequest("GET", "/health", nil)
	resp, err := s.App.Test(req)
	if err != nil {
		t.Fatalf("test request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200 status")
	}
}

func TestMetricsRoute(t *testing.T) {
	s := NewServer(config.Config{ServerPort: ":0"}, nil, nil)
	defer s.Shutdown()

	req := httptest.NewRequest("GET", "/metrics", nil)
	resp, err := s.App.Test(req)
	if err != nil {
		t.Fatalf("test request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200 status")
	}
}
