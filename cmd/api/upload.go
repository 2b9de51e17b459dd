package main

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const (
	maxUploadFiles = 10
	maxUploadBytes = 15 * 1024 * 1024 // whole form
)

var allowedUploadTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// saveUploadedFile writes one multipart file into dir under a fresh uuid
// name, keeping the original extension, and returns the stored filename.
func saveUploadedFile(fileHeader *multipart.FileHeader, dir string) (string, error) {
	contentType := fileHeader.Header.Get("Content-Type")
	if !allowedUploadTypes[contentType] {
		return "", fmt.Errorf("unsupported file type %q", contentType)
	}

	src, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("open file: %w", err)
	}
	defer src.Close()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	name := uuid.New().String() + ext

	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}

	return name, nil
}

// uploadHandler godoc
//
//	@Summary		Upload photos
//	@Description	Accepts up to 10 images and returns their public URLs
//	@Tags			uploads
//	@Accept			mpfd
//	@Produce		json
//	@Param			files	formData	file	true	"Image files"
//	@Success		200
//	@Failure		400	{object}	error
//	@Security		ApiKeyAuth
//	@Router			/upload [post]
func (app *application) uploadHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("parse form: %w", err))
		return
	}

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		app.badRequestResponse(w, r, errors.New("no files in request"))
		return
	}
	if len(files) > maxUploadFiles {
		app.badRequestResponse(w, r, fmt.Errorf("maximum %d files allowed", maxUploadFiles))
		return
	}

	// A failed save aborts the whole upload; files already written stay on
	// disk as orphans, which the media root tolerates.
	urls := make([]string, 0, len(files))
	for _, fileHeader := range files {
		name, err := saveUploadedFile(fileHeader, app.config.media.uploadsDir)
		if err != nil {
			app.badRequestResponse(w, r, err)
			return
		}
		urls = append(urls, requestOrigin(r)+"/uploads/"+name)
	}

	if err := app.jsonResponse(w, http.StatusOK, map[string]any{"urls": urls}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// uploadAvatarHandler godoc
//
//	@Summary	Upload a user's avatar
//	@Tags		users
//	@Accept		mpfd
//	@Produce	json
//	@Param		userID	path		int		true	"User ID"
//	@Param		avatar	formData	file	true	"Avatar image"
//	@Success	200
//	@Failure	400	{object}	error
//	@Failure	403	{object}	error
//	@Security	ApiKeyAuth
//	@Router		/users/{userID}/avatar [post]
func (app *application) uploadAvatarHandler(w http.ResponseWriter, r *http.Request) {
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

	if err := r.ParseMultipartForm(2 << 20); err != nil { // 2 MB
		app.badRequestResponse(w, r, errors.New("unable to parse form, file size limit is 2MB"))
		return
	}

	files := r.MultipartForm.File["avatar"]
	if len(files) != 1 {
		app.badRequestResponse(w, r, errors.New("exactly one avatar file is required"))
		return
	}

	name, err := saveUploadedFile(files[0], app.config.media.uploadsDir)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	avatarURL := "/uploads/" + name
	if err := app.store.Users.SetAvatar(r.Context(), avatarURL, userID); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, map[string]any{"avatar": avatarURL}); err != nil {
		app.internalServerError(w, r, err)
	}
}
