package main

import (
	"errors"
	"net/http"

	"github.com/d8p87o0/AllSpace/internal/photos"
	"github.com/d8p87o0/AllSpace/internal/store"
)

// requestOrigin reconstructs the scheme://host prefix photo URLs are
// qualified with.
func requestOrigin(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + r.Host
}

// getPlacePhotosHandler godoc
//
//	@Summary		Resolve a place's photo gallery
//	@Description	Stored image list first, then a media folder matched by name, then the cover alone
//	@Tags			places
//	@Produce		json
//	@Param			placeID	path	int	true	"Place ID"
//	@Success		200
//	@Failure		404	{object}	error
//	@Failure		409	{object}	error	"Place name matches several media folders"
//	@Router			/places/{placeID}/photos [get]
func (app *application) getPlacePhotosHandler(w http.ResponseWriter, r *http.Request) {
	placeID, err := placeIDFromURL(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	place, err := app.store.Places.GetByID(r.Context(), placeID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	urls, cover, err := app.photos.Resolve(place.Name, place.Images, place.Image, requestOrigin(r))
	if err != nil {
		switch {
		case errors.Is(err, photos.ErrAmbiguousFolder):
			app.conflictResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}
	if urls == nil {
		urls = []string{}
	}

	var coverField any
	if cover != "" {
		coverField = cover
	}

	if err := app.jsonResponse(w, http.StatusOK, map[string]any{"photos": urls, "cover": coverField}); err != nil {
		app.internalServerError(w, r, err)
	}
}
