package main

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"net/http"

	"github.com/d8p87o0/AllSpace/internal/mailer"
	"github.com/d8p87o0/AllSpace/internal/pending"
	"github.com/d8p87o0/AllSpace/internal/store"
)

type LoginPayload struct {
	Login    string `json:"login" validate:"required,max=50"`
	Password string `json:"password" validate:"required,max=72"`
}

// loginHandler godoc
//
//	@Summary		Log in
//	@Description	Checks credentials and returns the profile plus a bearer token
//	@Tags			authentication
//	@Accept			json
//	@Produce		json
//	@Param			payload	body	LoginPayload	true	"Credentials"
//	@Success		200
//	@Failure		400	{object}	error
//	@Failure		401	{object}	error
//	@Router			/login [post]
func (app *application) loginHandler(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	user, err := app.store.Users.GetByLogin(r.Context(), payload.Login)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			app.unauthorizedErrorResponse(w, r, errors.New("Неверный логин или пароль"))
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := user.Password.Compare(payload.Password); err != nil {
		app.unauthorizedErrorResponse(w, r, errors.New("Неверный логин или пароль"))
		return
	}

	role := "user"
	if user.IsAdmin() {
		role = "admin"
	}

	token, err := app.authenticator.GenerateToken(user.ID, role)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, map[string]any{"user": user, "token": token}); err != nil {
		app.internalServerError(w, r, err)
	}
}

type RegisterStartPayload struct {
	Login     string `json:"login" validate:"required,max=50"`
	Password  string `json:"password" validate:"required,min=3,max=72"`
	FirstName string `json:"firstName" validate:"max=50"`
	LastName  string `json:"lastName" validate:"max=50"`
	City      string `json:"city" validate:"required,max=100"`
	Email     string `json:"email" validate:"required,email,max=255"`
	Status    string `json:"status" validate:"max=100"`
}

// registerStartHandler godoc
//
//	@Summary		Start registration
//	@Description	Validates the profile, then emails a 6-digit verification code valid for 15 minutes
//	@Tags			authentication
//	@Accept			json
//	@Produce		json
//	@Param			payload	body	RegisterStartPayload	true	"Profile"
//	@Success		200
//	@Failure		400	{object}	error
//	@Failure		409	{object}	error
//	@Router			/register/start [post]
func (app *application) registerStartHandler(w http.ResponseWriter, r *http.Request) {
	var payload RegisterStartPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if !app.cities.Exists(payload.City) {
		app.badRequestResponse(w, r, errors.New("Город не найден в справочнике"))
		return
	}

	exists, err := app.store.Users.LoginExists(r.Context(), payload.Login)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	if exists {
		app.conflictResponse(w, r, errors.New("Пользователь с таким логином уже существует"))
		return
	}

	code, err := generateCode()
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.pending.Put(payload.Email, pending.Registration{
		Code:      code,
		Login:     payload.Login,
		Password:  payload.Password,
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		City:      payload.City,
		Email:     payload.Email,
		Status:    payload.Status,
	})

	vars := struct {
		Username   string
		Code       string
		TTLMinutes int
	}{
		Username:   payload.FirstName,
		Code:       code,
		TTLMinutes: int(app.config.mail.codeTTL.Minutes()),
	}

	// A failed send aborts the whole start: without the code the pending
	// record is useless.
	if err := app.mailer.Send(mailer.VerificationCodeTemplate, payload.FirstName, payload.Email, vars); err != nil {
		app.logger.Errorw("error sending verification code", "email", payload.Email, "error", err)
		app.pending.Delete(payload.Email)
		app.internalServerError(w, r, fmt.Errorf("Не удалось отправить код на почту: %w", err))
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, nil); err != nil {
		app.internalServerError(w, r, err)
	}
}

type RegisterVerifyPayload struct {
	Email string `json:"email" validate:"required,email,max=255"`
	Code  string `json:"code" validate:"required,len=6,numeric"`
}

// registerVerifyHandler godoc
//
//	@Summary		Verify email code
//	@Description	Consumes the pending registration and creates the user
//	@Tags			authentication
//	@Accept			json
//	@Produce		json
//	@Param			payload	body	RegisterVerifyPayload	true	"Email and code"
//	@Success		200
//	@Failure		400	{object}	error
//	@Failure		409	{object}	error
//	@Router			/register/verify [post]
func (app *application) registerVerifyHandler(w http.ResponseWriter, r *http.Request) {
	var payload RegisterVerifyPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	rec, err := app.pending.Get(payload.Email)
	if err != nil {
		switch {
		case errors.Is(err, pending.ErrExpired):
			app.badRequestResponse(w, r, errors.New("Код истёк, запросите новый"))
		default:
			app.badRequestResponse(w, r, errors.New("Нет ожидающей регистрации для этой почты"))
		}
		return
	}

	// A wrong code keeps the record so the user can retry until expiry.
	if rec.Code != payload.Code {
		app.badRequestResponse(w, r, errors.New("Неверный код"))
		return
	}

	// Re-check uniqueness: the login may have been taken while the code sat
	// in the user's inbox.
	exists, err := app.store.Users.LoginExists(r.Context(), rec.Login)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	if exists {
		app.conflictResponse(w, r, errors.New("Пользователь с таким логином уже существует"))
		return
	}

	user := &store.User{
		Login:     rec.Login,
		FirstName: rec.FirstName,
		LastName:  rec.LastName,
		City:      rec.City,
		Email:     rec.Email,
		Status:    rec.Status,
	}
	if err := user.Password.Set(rec.Password); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.store.Users.Create(r.Context(), user); err != nil {
		switch {
		case errors.Is(err, store.ErrDuplicateLogin):
			app.conflictResponse(w, r, errors.New("Пользователь с таким логином уже существует"))
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	app.pending.Delete(payload.Email)

	if err := app.jsonResponse(w, http.StatusOK, nil); err != nil {
		app.internalServerError(w, r, err)
	}
}

// generateCode produces a 6-digit numeric verification code.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
