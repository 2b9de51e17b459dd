package main

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCORSAllowsFrontendOrigin(t *testing.T) {
	app := newTestApp(t)
	app.config.frontendURL = "http://localhost:5173"
	h := app.mount()

	req := httptest.NewRequest(http.MethodOptions, "/api/cities", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Fatalf("Access-Control-Allow-Origin = %q, want the configured frontend origin", got)
	}
}

func TestCORSRejectsOtherOrigin(t *testing.T) {
	app := newTestApp(t)
	app.config.frontendURL = "http://localhost:5173"
	h := app.mount()

	req := httptest.NewRequest(http.MethodOptions, "/api/cities", nil)
	req.Header.Set("Origin", "http://evil.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("Access-Control-Allow-Origin = %q for an unlisted origin", got)
	}
}
