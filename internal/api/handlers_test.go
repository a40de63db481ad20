package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stellar-collector/internal/models"
)

func createTestServer(statsPath string) *Server {
	return NewServer(&ServerConfig{
		Host:         "127.0.0.1",
		Port:         "0",
		CacheControl: "public, max-age=900",
		StatsPath:    statsPath,
	})
}

func TestStatus_NoStats(t *testing.T) {
	server := createTestServer(filepath.Join(t.TempDir(), "missing.json"))

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()
	server.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "Stellar Collector v"+Version+" Online") {
		t.Errorf("banner missing from response: %q", body)
	}
	if !strings.Contains(body, "Stats not generated yet") {
		t.Errorf("missing manifest should report stats not generated, got %q", body)
	}
}

func TestStatus_WithStats(t *testing.T) {
	statsPath := filepath.Join(t.TempDir(), "database-stats.json")
	stats := models.DatabaseStats{
		Systems:          123456,
		PointsOfInterest: 789,
		Stations:         models.StationStats{Stations: 4000, Carriers: 250},
		Trade:            models.MarketStats{TradeOrders: 99999, UniqueCommodities: 140},
		Timestamp:        "2026-08-30T12:00:00Z",
	}
	data, err := json.Marshal(stats)
	if err != nil {
		t.Fatalf("marshal stats: %v", err)
	}
	if err := os.WriteFile(statsPath, data, 0o644); err != nil {
		t.Fatalf("write stats: %v", err)
	}

	server := createTestServer(statsPath)

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()
	server.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	body := w.Body.String()
	for _, want := range []string{
		"* Star systems: 123456",
		"* Points of interest: 789",
		"* Stations: 4000",
		"* Fleet Carriers: 250",
		"* Trade orders: 99999",
		"* Unique commodities: 140",
		"Stats last updated: 2026-08-30T12:00:00Z",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("response missing %q", want)
		}
	}

	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("Content-Type = %q, want text/plain", ct)
	}
}

func TestStatus_MalformedStats(t *testing.T) {
	statsPath := filepath.Join(t.TempDir(), "database-stats.json")
	if err := os.WriteFile(statsPath, []byte("not json"), 0o644); err != nil {
		t.Fatalf("write stats: %v", err)
	}

	server := createTestServer(statsPath)

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()
	server.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Stats not generated yet") {
		t.Error("malformed manifest should be treated as not generated")
	}
}

func TestResponseHeaders(t *testing.T) {
	server := createTestServer(filepath.Join(t.TempDir(), "missing.json"))

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()
	server.router.ServeHTTP(w, req)

	if got := w.Header().Get("Cache-Control"); got != "public, max-age=900" {
		t.Errorf("Cache-Control = %q", got)
	}
	if got := w.Header().Get("Collector-Version"); got != Version {
		t.Errorf("Collector-Version = %q, want %q", got, Version)
	}
}

func TestUnknownRoute(t *testing.T) {
	server := createTestServer(filepath.Join(t.TempDir(), "missing.json"))

	req := httptest.NewRequest("GET", "/nope", nil)
	w := httptest.NewRecorder()
	server.router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}
