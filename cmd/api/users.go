package main

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/d8p87o0/AllSpace/internal/store"

	"github.com/go-chi/chi/v5"
)

func userIDFromURL(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		return 0, errors.New("invalid user ID")
	}
	return id, nil
}

type UpdateUserPayload struct {
	FirstName *string `json:"firstName" validate:"omitempty,max=50"`
	LastName  *string `json:"lastName" validate:"omitempty,max=50"`
	City      *string `json:"city" validate:"omitempty,max=100"`
	Email     *string `json:"email" validate:"omitempty,email,max=255"`
	Status    *string `json:"status" validate:"omitempty,max=100"`
}

// updateUserHandler godoc
//
//	@Summary		Edit a profile
//	@Description	Users edit their own profile; admins may edit anyone's. Review author names follow automatically since they are joined at read time.
//	@Tags			users
//	@Accept			json
//	@Produce		json
//	@Param			userID	path	int					true	"User ID"
//	@Param			payload	body	UpdateUserPayload	true	"Fields to update"
//	@Success		200
//	@Failure		400	{object}	error
//	@Failure		403	{object}	error
//	@Failure		404	{object}	error
//	@Security		ApiKeyAuth
//	@Router			/users/{userID} [put]
func (app *application) updateUserHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromURL(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	actor := getUserFromContext(r)
	if actor.ID != userID && !actor.IsAdmin() {
		app.forbiddenResponse(w, r)
		return
	}

	var payload UpdateUserPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	// Only an admin can hand out the admin status.
	if payload.Status != nil && *payload.Status == store.StatusAdmin && !actor.IsAdmin() {
		app.forbiddenResponse(w, r)
		return
	}

	updates := map[string]interface{}{}
	setIf := func(key string, val *string) {
		if val != nil {
			updates[key] = *val
		}
	}
	setIf("first_name", payload.FirstName)
	setIf("last_name", payload.LastName)
	setIf("city", payload.City)
	setIf("email", payload.Email)
	setIf("status", payload.Status)

	if len(updates) == 0 {
		app.badRequestResponse(w, r, errors.New("no fields to update"))
		return
	}

	if err := app.store.Users.Update(r.Context(), userID, updates); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	user, err := app.store.Users.GetByID(r.Context(), userID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, map[string]any{"user": user}); err != nil {
		app.internalServerError(w, r, err)
	}
}
