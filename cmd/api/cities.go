package main

import (
	"net/http"
)

const citySuggestionLimit = 10

// citySuggestionsHandler godoc
//
//	@Summary		Suggest cities
//	@Description	Returns up to 10 directory cities starting with the query
//	@Tags			cities
//	@Produce		json
//	@Param			q	query	string	false	"Name prefix"
//	@Success		200
//	@Router			/cities [get]
func (app *application) citySuggestionsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")

	suggestions := app.cities.Suggest(q, citySuggestionLimit)
	if suggestions == nil {
		suggestions = []string{}
	}

	if err := app.jsonResponse(w, http.StatusOK, map[string]any{"suggestions": suggestions}); err != nil {
		app.internalServerError(w, r, err)
	}
}
