package main

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/d8p87o0/AllSpace/internal/params"
	"github.com/d8p87o0/AllSpace/internal/store"

	"github.com/go-chi/chi/v5"
)

// defaultPlaceType is used when a submission leaves the category empty,
// matching the catalog's historical default.
const defaultPlaceType = "Коворкинг / антикафе"

func placeIDFromURL(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "placeID"), 10, 64)
	if err != nil {
		return 0, errors.New("invalid place ID")
	}
	return id, nil
}

// listPlacesHandler godoc
//
//	@Summary		List places
//	@Description	Catalog listing: approved places only unless an admin asks for pending ones
//	@Tags			places
//	@Produce		json
//	@Param			city	query	string	false	"City filter"
//	@Param			status	query	string	false	"Moderation status (admin only for non-approved)"
//	@Param			page	query	int		false	"Page"
//	@Param			limit	query	int		false	"Page size"
//	@Success		200
//	@Router			/places [get]
func (app *application) listPlacesHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	p := params.ParsePagination(q)

	status := q.Get("status")
	if status != "" && status != store.PlaceStatusApproved {
		user := getUserFromContext(r)
		if user == nil || !user.IsAdmin() {
			app.forbiddenResponse(w, r)
			return
		}
	}

	filter := store.PlaceFilter{
		City:   q.Get("city"),
		Status: status,
		Limit:  p.Limit,
		Offset: p.Offset,
	}

	places, total, err := app.store.Places.List(r.Context(), filter)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	if places == nil {
		places = []store.Place{}
	}
	p.ComputeMeta(total)

	if err := app.jsonResponse(w, http.StatusOK, map[string]any{"places": places, "pagination": p}); err != nil {
		app.internalServerError(w, r, err)
	}
}

type CreatePlacePayload struct {
	Name        string   `json:"name" validate:"required,max=200"`
	Type        string   `json:"type" validate:"max=200"`
	City        string   `json:"city" validate:"max=100"`
	Address     string   `json:"address" validate:"max=300"`
	Image       *string  `json:"image"`
	Images      []string `json:"images"`
	Badge       *string  `json:"badge"`
	Features    []string `json:"features"`
	Link        *string  `json:"link"`
	Description *string  `json:"description"`
	Hours       *string  `json:"hours"`
	Phone       *string  `json:"phone"`
}

// createPlaceHandler godoc
//
//	@Summary		Create or submit a place
//	@Description	An admin creates an approved place; anyone else submits one for moderation
//	@Tags			places
//	@Accept			json
//	@Produce		json
//	@Param			payload	body	CreatePlacePayload	true	"Place"
//	@Success		201
//	@Failure		400	{object}	error
//	@Router			/places [post]
func (app *application) createPlaceHandler(w http.ResponseWriter, r *http.Request) {
	var payload CreatePlacePayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if payload.Type == "" {
		payload.Type = defaultPlaceType
	}

	place := &store.Place{
		Name:        payload.Name,
		Type:        payload.Type,
		City:        payload.City,
		Address:     payload.Address,
		Image:       payload.Image,
		Images:      payload.Images,
		Badge:       payload.Badge,
		Features:    payload.Features,
		Link:        payload.Link,
		Description: payload.Description,
		Hours:       payload.Hours,
		Phone:       payload.Phone,
	}

	user := getUserFromContext(r)
	if user != nil && user.IsAdmin() {
		place.Status = store.PlaceStatusApproved
	} else {
		place.Status = store.PlaceStatusPending
		if user != nil {
			login := user.Login
			place.SubmittedBy = &login
		}
	}

	if err := app.store.Places.Create(r.Context(), place); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, map[string]any{"place": place}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// getPlaceHandler godoc
//
//	@Summary	Get a place
//	@Tags		places
//	@Produce	json
//	@Param		placeID	path	int	true	"Place ID"
//	@Success	200
//	@Failure	404	{object}	error
//	@Router		/places/{placeID} [get]
func (app *application) getPlaceHandler(w http.ResponseWriter, r *http.Request) {
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

	if err := app.jsonResponse(w, http.StatusOK, map[string]any{"place": place}); err != nil {
		app.internalServerError(w, r, err)
	}
}

type UpdatePlacePayload struct {
	Name        *string  `json:"name" validate:"omitempty,max=200"`
	Type        *string  `json:"type" validate:"omitempty,max=200"`
	City        *string  `json:"city" validate:"omitempty,max=100"`
	Address     *string  `json:"address" validate:"omitempty,max=300"`
	Image       *string  `json:"image"`
	Images      []string `json:"images"`
	Badge       *string  `json:"badge"`
	Features    []string `json:"features"`
	Link        *string  `json:"link"`
	Description *string  `json:"description"`
	Hours       *string  `json:"hours"`
	Phone       *string  `json:"phone"`
}

// updatePlaceHandler godoc
//
//	@Summary	Update a place (admin)
//	@Tags		places
//	@Accept		json
//	@Produce	json
//	@Param		placeID	path	int					true	"Place ID"
//	@Param		payload	body	UpdatePlacePayload	true	"Fields to update"
//	@Success	200
//	@Failure	404	{object}	error
//	@Security	ApiKeyAuth
//	@Router		/places/{placeID} [put]
func (app *application) updatePlaceHandler(w http.ResponseWriter, r *http.Request) {
	placeID, err := placeIDFromURL(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var payload UpdatePlacePayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	updates := map[string]interface{}{}
	setIf := func(key string, val *string) {
		if val != nil {
			updates[key] = *val
		}
	}
	setIf("name", payload.Name)
	setIf("type", payload.Type)
	setIf("city", payload.City)
	setIf("address", payload.Address)
	setIf("image", payload.Image)
	setIf("badge", payload.Badge)
	setIf("link", payload.Link)
	setIf("description", payload.Description)
	setIf("hours", payload.Hours)
	setIf("phone", payload.Phone)
	if payload.Images != nil {
		updates["images"] = payload.Images
	}
	if payload.Features != nil {
		updates["features"] = payload.Features
	}

	if len(updates) == 0 {
		app.badRequestResponse(w, r, errors.New("no fields to update"))
		return
	}

	if err := app.store.Places.Update(r.Context(), placeID, updates); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	place, err := app.store.Places.GetByID(r.Context(), placeID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, map[string]any{"place": place}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// deletePlaceHandler godoc
//
//	@Summary	Delete a place and its reviews (admin)
//	@Tags		places
//	@Produce	json
//	@Param		placeID	path	int	true	"Place ID"
//	@Success	200
//	@Failure	404	{object}	error
//	@Security	ApiKeyAuth
//	@Router		/places/{placeID} [delete]
func (app *application) deletePlaceHandler(w http.ResponseWriter, r *http.Request) {
	placeID, err := placeIDFromURL(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := app.store.Places.Delete(r.Context(), placeID); err != nil {
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

// approvePlaceHandler godoc
//
//	@Summary	Approve a pending place (admin)
//	@Tags		places
//	@Produce	json
//	@Param		placeID	path	int	true	"Place ID"
//	@Success	200
//	@Failure	404	{object}	error
//	@Security	ApiKeyAuth
//	@Router		/places/{placeID}/approve [post]
func (app *application) approvePlaceHandler(w http.ResponseWriter, r *http.Request) {
	placeID, err := placeIDFromURL(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := app.store.Places.SetStatus(r.Context(), placeID, store.PlaceStatusApproved); err != nil {
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

// rejectPlaceHandler godoc
//
//	@Summary	Reject a pending place (admin): removes the row
//	@Tags		places
//	@Produce	json
//	@Param		placeID	path	int	true	"Place ID"
//	@Success	200
//	@Failure	404	{object}	error
//	@Security	ApiKeyAuth
//	@Router		/places/{placeID}/reject [post]
func (app *application) rejectPlaceHandler(w http.ResponseWriter, r *http.Request) {
	placeID, err := placeIDFromURL(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := app.store.Places.Delete(r.Context(), placeID); err != nil {
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
