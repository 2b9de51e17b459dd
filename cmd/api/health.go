package main

import "net/http"

// healthCheckHandler godoc
//
//	@Summary	Health check
//	@Tags		ops
//	@Produce	json
//	@Success	200
//	@Security	BasicAuth
//	@Router		/health [get]
func (app *application) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	data := map[string]any{
		"status":  "ok",
		"env":     app.config.env,
		"version": version,
	}

	if err := app.jsonResponse(w, http.StatusOK, data); err != nil {
		app.internalServerError(w, r, err)
	}
}
