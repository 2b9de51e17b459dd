package main

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/d8p87o0/AllSpace/internal/store"

	"github.com/go-chi/chi/v5"
)

func reviewIDFromURL(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "reviewID"), 10, 64)
	if err != nil {
		return 0, errors.New("invalid review ID")
	}
	return id, nil
}

// getPlaceReviewsHandler godoc
//
//	@Summary		List reviews for a place
//	@Description	Returns the reviews plus the freshly recomputed aggregate, so a stale cached rating heals on read
//	@Tags			reviews
//	@Produce		json
//	@Param			placeID	path	int	true	"Place ID"
//	@Success		200
//	@Failure		404	{object}	error
//	@Router			/places/{placeID}/reviews [get]
func (app *application) getPlaceReviewsHandler(w http.ResponseWriter, r *http.Request) {
	placeID, err := placeIDFromURL(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	reviews, err := app.store.Reviews.List(r.Context(), placeID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	if reviews == nil {
		reviews = []store.Review{}
	}

	// Recompute reports ErrNotFound when the place row is gone, which covers
	// the deleted-place case as well as a bad id.
	total, average, err := app.store.Reviews.Recompute(r.Context(), placeID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, map[string]any{
		"reviews":       reviews,
		"total_reviews": total,
		"average":       average,
	}); err != nil {
		app.internalServerError(w, r, err)
	}
}

type ReviewPayload struct {
	Rating int      `json:"rating" validate:"required,min=1,max=5"`
	Text   string   `json:"text" validate:"max=2000"`
	Photos []string `json:"photos" validate:"omitempty,max=10"`
}

// createPlaceReviewHandler godoc
//
//	@Summary		Create a review
//	@Description	Rating must be an integer between 1 and 5; out-of-range values are rejected, not clamped
//	@Tags			reviews
//	@Accept			json
//	@Produce		json
//	@Param			placeID	path	int				true	"Place ID"
//	@Param			payload	body	ReviewPayload	true	"Review"
//	@Success		201
//	@Failure		400	{object}	error
//	@Failure		404	{object}	error
//	@Security		ApiKeyAuth
//	@Router			/places/{placeID}/reviews [post]
func (app *application) createPlaceReviewHandler(w http.ResponseWriter, r *http.Request) {
	placeID, err := placeIDFromURL(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var payload ReviewPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if _, err := app.store.Places.GetByID(r.Context(), placeID); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	user := getUserFromContext(r)
	userID := user.ID

	review := &store.Review{
		PlaceID: placeID,
		UserID:  &userID,
		Rating:  payload.Rating,
		Text:    payload.Text,
		Photos:  payload.Photos,
	}

	if err := app.store.Reviews.Create(r.Context(), review); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, map[string]any{"review": review}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// updatePlaceReviewHandler godoc
//
//	@Summary		Update a review
//	@Description	Only the review's author or an admin may edit it
//	@Tags			reviews
//	@Accept			json
//	@Produce		json
//	@Param			placeID		path	int				true	"Place ID"
//	@Param			reviewID	path	int				true	"Review ID"
//	@Param			payload		body	ReviewPayload	true	"Review"
//	@Success		200
//	@Failure		400	{object}	error
//	@Failure		403	{object}	error
//	@Failure		404	{object}	error
//	@Security		ApiKeyAuth
//	@Router			/places/{placeID}/reviews/{reviewID} [put]
func (app *application) updatePlaceReviewHandler(w http.ResponseWriter, r *http.Request) {
	placeID, err := placeIDFromURL(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	reviewID, err := reviewIDFromURL(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var payload ReviewPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	review, err := app.store.Reviews.GetByID(r.Context(), reviewID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}
	if review.PlaceID != placeID {
		app.notFoundResponse(w, r, store.ErrNotFound)
		return
	}

	user := getUserFromContext(r)
	isOwner := review.UserID != nil && *review.UserID == user.ID
	if !isOwner && !user.IsAdmin() {
		app.forbiddenResponse(w, r)
		return
	}

	review.Rating = payload.Rating
	review.Text = payload.Text
	review.Photos = payload.Photos

	if err := app.store.Reviews.Update(r.Context(), review); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, map[string]any{"review": review}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// deletePlaceReviewHandler godoc
//
//	@Summary	Delete a review (admin)
//	@Tags		reviews
//	@Produce	json
//	@Param		placeID		path	int	true	"Place ID"
//	@Param		reviewID	path	int	true	"Review ID"
//	@Success	200
//	@Failure	404	{object}	error
//	@Security	ApiKeyAuth
//	@Router		/places/{placeID}/reviews/{reviewID} [delete]
func (app *application) deletePlaceReviewHandler(w http.ResponseWriter, r *http.Request) {
	placeID, err := placeIDFromURL(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	reviewID, err := reviewIDFromURL(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := app.store.Reviews.Delete(r.Context(), placeID, reviewID); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, nil); err != nil {
		app.internalServerError(w, r, err)
	}
}
