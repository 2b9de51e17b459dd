package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/d8p87o0/AllSpace/internal/cities"
	"go.uber.org/zap"
)

func newTestApp(t *testing.T) *application {
	t.Helper()

	dir, err := cities.Parse(strings.NewReader(`address,region_type,region,city_type,city,settlement
,,,г,Москва,
,,,г,Мурманск,
,,,г,Казань,
`))
	if err != nil {
		t.Fatal(err)
	}

	return &application{
		logger: zap.NewNop().Sugar(),
		cities: dir,
	}
}

func TestCitySuggestionsHandler(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/cities?q=м", nil)
	rr := httptest.NewRecorder()
	app.citySuggestionsHandler(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}

	var resp struct {
		Ok          bool     `json:"ok"`
		Suggestions []string `json:"suggestions"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Ok {
		t.Error("ok = false")
	}
	if len(resp.Suggestions) != 2 {
		t.Fatalf("suggestions = %v, want Москва and Мурманск", resp.Suggestions)
	}
}

func TestCitySuggestionsHandlerNoMatch(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/cities?q=зз", nil)
	rr := httptest.NewRecorder()
	app.citySuggestionsHandler(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	// Empty result must serialize as [], not null.
	if !strings.Contains(rr.Body.String(), `"suggestions":[]`) {
		t.Fatalf("body = %s", rr.Body.String())
	}
}

func TestRequestOrigin(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "http://example.com/api/places", nil)
	if got := requestOrigin(req); got != "http://example.com" {
		t.Fatalf("requestOrigin = %q", got)
	}

	req.Header.Set("X-Forwarded-Proto", "https")
	if got := requestOrigin(req); got != "https://example.com" {
		t.Fatalf("requestOrigin behind a proxy = %q", got)
	}
}
