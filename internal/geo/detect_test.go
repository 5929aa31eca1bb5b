package geo

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func testDetector(url string) *Detector {
	return &Detector{
		URL:    url,
		Client: &http.Client{Timeout: 2 * time.Second},
	}
}

func TestDetect_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := ipAPIResponse{
			Status:   "success",
			Lat:      24.7136,
			Lon:      46.6753,
			City:     "Riyadh",
			Country:  "Saudi Arabia",
			Timezone: "Asia/Riyadh",
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	loc, err := testDetector(server.URL).Detect()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loc.Latitude != 24.7136 {
		t.Errorf("Latitude = %v, want %v", loc.Latitude, 24.7136)
	}
	if loc.Longitude != 46.6753 {
		t.Errorf("Longitude = %v, want %v", loc.Longitude, 46.6753)
	}
	if loc.City != "Riyadh" {
		t.Errorf("City = %q, want %q", loc.City, "Riyadh")
	}
	if loc.Timezone != "Asia/Riyadh" {
		t.Errorf("Timezone = %q, want %q", loc.Timezone, "Asia/Riyadh")
	}
}

func TestDetect_APIFailureStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := ipAPIResponse{
			Status:  "fail",
			Message: "reserved range",
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	_, err := testDetector(server.URL).Detect()
	if err == nil {
		t.Fatal("expected error for failed status, got nil")
	}
	if !strings.Contains(err.Error(), "reserved range") {
		t.Errorf("error should contain message, got: %v", err)
	}
}

func TestDetect_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := testDetector(server.URL).Detect()
	if err == nil {
		t.Fatal("expected error for HTTP 500, got nil")
	}
	if !strings.Contains(err.Error(), "500") {
		t.Errorf("error should mention 500, got: %v", err)
	}
}

func TestDetect_InvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("not json at all"))
	}))
	defer server.Close()

	_, err := testDetector(server.URL).Detect()
	if err == nil {
		t.Fatal("expected error for invalid JSON, got nil")
	}
	if !strings.Contains(err.Error(), "decode") {
		t.Errorf("error should mention decode, got: %v", err)
	}
}

func TestDetect_ConnectionRefused(t *testing.T) {
	_, err := testDetector("http://127.0.0.1:1").Detect() // nothing listening
	if err == nil {
		t.Fatal("expected error for connection refused, got nil")
	}
}

func TestNewDetector_Defaults(t *testing.T) {
	d := NewDetector()
	if d.URL != DefaultURL {
		t.Errorf("URL = %q, want %q", d.URL, DefaultURL)
	}
	if d.Client == nil || d.Client.Timeout == 0 {
		t.Error("Client should have a timeout set")
	}
}
