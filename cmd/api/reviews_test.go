package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func postReview(t *testing.T, app *application, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/places/1/reviews", strings.NewReader(body))
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("placeID", "1")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	rr := httptest.NewRecorder()
	app.createPlaceReviewHandler(rr, req)
	return rr
}

func TestCreateReviewRejectsOutOfRangeRating(t *testing.T) {
	app := &application{logger: zap.NewNop().Sugar()}

	// Validation runs before any store access, so out-of-range ratings must
	// come back 400 without touching the database.
	for _, body := range []string{`{"rating":0}`, `{"rating":6}`, `{"rating":-1}`} {
		rr := postReview(t, app, body)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("body %s: status = %d, want 400", body, rr.Code)
		}
	}
}

func TestReviewPayloadAcceptsBoundaryRatings(t *testing.T) {
	for _, rating := range []int{1, 5} {
		if err := Validate.Struct(ReviewPayload{Rating: rating}); err != nil {
			t.Errorf("rating %d rejected: %v", rating, err)
		}
	}
}
