package main

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/d8p87o0/AllSpace/docs" //this is required to generate swagger docs
	"github.com/d8p87o0/AllSpace/internal/auth"
	"github.com/d8p87o0/AllSpace/internal/cities"
	"github.com/d8p87o0/AllSpace/internal/mailer"
	"github.com/d8p87o0/AllSpace/internal/pending"
	"github.com/d8p87o0/AllSpace/internal/photos"
	"github.com/d8p87o0/AllSpace/internal/ratelimiter"
	"github.com/d8p87o0/AllSpace/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
)

type application struct {
	config        config
	store         store.Storage
	logger        *zap.SugaredLogger
	mailer        mailer.Client
	authenticator auth.Authenticator
	cities        *cities.Directory
	photos        *photos.Resolver
	pending       *pending.Store
	rateLimiter   *ratelimiter.FixedWindowRateLimiter
}

type config struct {
	addr        string
	env         string
	apiURL      string
	frontendURL string
	db          dbConfig
	mail        mailConfig
	auth        authConfig
	media       mediaConfig
	cityFile    string
	rateLimiter ratelimiter.Config
}

type dbConfig struct {
	addr        string
	maxConns    int32
	maxIdleTime string
}

type mailConfig struct {
	codeTTL   time.Duration
	fromEmail string
	smtp      smtpConfig
}

type smtpConfig struct {
	host string
	port int
	user string
	pass string
}

type authConfig struct {
	basic basicConfig
	token tokenConfig
}

type tokenConfig struct {
	secret string
	exp    time.Duration
	iss    string
}

type basicConfig struct {
	user string
	pass string
}

type mediaConfig struct {
	photosDir  string
	uploadsDir string
}

func (app *application) mount() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(app.RateLimiterMiddleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{app.config.frontendURL},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Requests that hold a connection longer than this are cut off through
	// ctx.Done().
	r.Use(middleware.Timeout(60 * time.Second))

	r.Route("/api", func(r chi.Router) {
		r.With(app.BasicAuthMiddleware()).Get("/health", app.healthCheckHandler)
		r.With(app.BasicAuthMiddleware()).Get("/debug/vars", expvar.Handler().ServeHTTP)

		docsURL := fmt.Sprintf("%s/swagger/doc.json", app.config.addr)
		r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL(docsURL)))

		r.Post("/login", app.loginHandler)
		r.Route("/register", func(r chi.Router) {
			r.Post("/start", app.registerStartHandler)
			r.Post("/verify", app.registerVerifyHandler)
		})

		r.Get("/cities", app.citySuggestionsHandler)

		r.Route("/places", func(r chi.Router) {
			r.With(app.OptionalAuthMiddleware).Get("/", app.listPlacesHandler)
			r.With(app.OptionalAuthMiddleware).Post("/", app.createPlaceHandler)

			r.Route("/{placeID}", func(r chi.Router) {
				r.Get("/", app.getPlaceHandler)
				r.With(app.AuthTokenMiddleware, app.RequireAdmin).Put("/", app.updatePlaceHandler)
				r.With(app.AuthTokenMiddleware, app.RequireAdmin).Delete("/", app.deletePlaceHandler)
				r.With(app.AuthTokenMiddleware, app.RequireAdmin).Post("/approve", app.approvePlaceHandler)
				r.With(app.AuthTokenMiddleware, app.RequireAdmin).Post("/reject", app.rejectPlaceHandler)

				r.Get("/photos", app.getPlacePhotosHandler)

				r.Get("/reviews", app.getPlaceReviewsHandler)
				r.With(app.AuthTokenMiddleware).Post("/reviews", app.createPlaceReviewHandler)
				r.With(app.AuthTokenMiddleware).Put("/reviews/{reviewID}", app.updatePlaceReviewHandler)
				r.With(app.AuthTokenMiddleware, app.RequireAdmin).Delete("/reviews/{reviewID}", app.deletePlaceReviewHandler)
			})
		})

		r.With(app.AuthTokenMiddleware).Post("/upload", app.uploadHandler)

		r.Route("/users", func(r chi.Router) {
			r.Use(app.AuthTokenMiddleware)
			r.Put("/{userID}", app.updateUserHandler)
			r.Post("/{userID}/avatar", app.uploadAvatarHandler)
		})
	})

	// Static media: the photo root and the upload root, mapped to their
	// public URL prefixes.
	fileServer(r, "/photos", http.Dir(app.config.media.photosDir))
	fileServer(r, "/uploads", http.Dir(app.config.media.uploadsDir))

	return r
}

func fileServer(r chi.Router, prefix string, root http.FileSystem) {
	fs := http.StripPrefix(prefix, http.FileServer(root))
	r.Get(prefix+"/*", func(w http.ResponseWriter, req *http.Request) {
		fs.ServeHTTP(w, req)
	})
}

func (app *application) run(mux http.Handler) error {
	// Docs
	docs.SwaggerInfo.Version = version
	docs.SwaggerInfo.Host = app.config.apiURL
	docs.SwaggerInfo.BasePath = "/api"

	srv := &http.Server{
		Addr:         app.config.addr,
		Handler:      mux,
		WriteTimeout: time.Second * 30,
		ReadTimeout:  time.Second * 10,
		IdleTimeout:  time.Minute,
	}

	shutdown := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)

		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		app.logger.Infow("signal caught", "signal", s.String())

		shutdown <- srv.Shutdown(ctx)
	}()

	app.logger.Infow("server has started", "addr", app.config.addr, "env", app.config.env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdown
	if err != nil {
		return err
	}

	app.logger.Infow("server has stopped", "addr", app.config.addr, "env", app.config.env)

	return nil
}
