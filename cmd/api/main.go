package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/d8p87o0/AllSpace/internal/auth"
	"github.com/d8p87o0/AllSpace/internal/cities"
	"github.com/d8p87o0/AllSpace/internal/db"
	"github.com/d8p87o0/AllSpace/internal/mailer"
	"github.com/d8p87o0/AllSpace/internal/pending"
	"github.com/d8p87o0/AllSpace/internal/photos"
	"github.com/d8p87o0/AllSpace/internal/ratelimiter"
	"github.com/d8p87o0/AllSpace/internal/store"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var version = "1.0.0"

// LoadRateLimiterConfig retrieves rate limiter settings from environment variables
func LoadRateLimiterConfig() ratelimiter.Config {
	defaultRequests := 200
	defaultEnabled := false

	requestsPerTimeFrame := defaultRequests
	if val, exists := os.LookupEnv("RATELIMITER_REQUESTS_COUNT"); exists {
		if parsedVal, err := strconv.Atoi(val); err == nil {
			requestsPerTimeFrame = parsedVal
		} else {
			fmt.Println("Invalid RATELIMITER_REQUESTS_COUNT, defaulting to", defaultRequests)
		}
	}

	enabled := defaultEnabled
	if val, exists := os.LookupEnv("RATE_LIMITER_ENABLED"); exists {
		if parsedVal, err := strconv.ParseBool(val); err == nil {
			enabled = parsedVal
		} else {
			fmt.Println("Invalid RATE_LIMITER_ENABLED, defaulting to", defaultEnabled)
		}
	}

	return ratelimiter.Config{
		RequestsPerTimeFrame: requestsPerTimeFrame,
		TimeFrame:            5 * time.Second,
		Enabled:              enabled,
	}
}

// NewLogger creates a new zap logger with color.
func NewLogger() (*zap.SugaredLogger, error) {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder

	consoleEncoder := zapcore.NewConsoleEncoder(encoderCfg)
	level := zapcore.InfoLevel

	core := zapcore.NewCore(consoleEncoder, zapcore.NewMultiWriteSyncer(zapcore.AddSync(os.Stdout)), level)

	return zap.New(core).Sugar(), nil
}

// seedAdmin creates the administrator account named by ADMIN_LOGIN and
// ADMIN_PASSWORD when it does not exist yet. Without it a fresh database has
// nobody who can approve places.
func seedAdmin(ctx context.Context, storage store.Storage, logger *zap.SugaredLogger) error {
	login := os.Getenv("ADMIN_LOGIN")
	password := os.Getenv("ADMIN_PASSWORD")
	if login == "" || password == "" {
		logger.Warn("ADMIN_LOGIN/ADMIN_PASSWORD not set, skipping admin seed")
		return nil
	}

	exists, err := storage.Users.LoginExists(ctx, login)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	admin := &store.User{
		Login:  login,
		Status: store.StatusAdmin,
	}
	if err := admin.Password.Set(password); err != nil {
		return err
	}

	if err := storage.Users.Create(ctx, admin); err != nil {
		return err
	}
	logger.Infow("admin account created", "login", login)
	return nil
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

//	@title			AllSpace API
//	@description	API for AllSpace, a catalog of places to work and meet.

//	@BasePath					/api
//	@securityDefinitions.apikey	ApiKeyAuth
//	@in							header
//	@name						Authorization

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	maxConns, err := strconv.Atoi(getenv("DB_MAX_CONNS", "25"))
	if err != nil {
		log.Fatalf("Invalid value for DB_MAX_CONNS: %v", err)
	}
	smtpPort, err := strconv.Atoi(getenv("SMTP_PORT", "465"))
	if err != nil {
		log.Fatalf("Invalid value for SMTP_PORT: %v", err)
	}

	cfg := config{
		addr:        getenv("ADDR", ":3001"),
		env:         getenv("ENV", "development"),
		apiURL:      getenv("EXTERNAL_URL", "localhost:3001"),
		frontendURL: getenv("FRONTEND_URL", "http://localhost:5173"),
		db: dbConfig{
			addr:        os.Getenv("DB_ADDR"),
			maxConns:    int32(maxConns),
			maxIdleTime: getenv("DB_MAX_IDLE_TIME", "15m"),
		},
		mail: mailConfig{
			codeTTL:   15 * time.Minute,
			fromEmail: getenv("FROM_EMAIL", os.Getenv("SMTP_USER")),
			smtp: smtpConfig{
				host: os.Getenv("SMTP_HOST"),
				port: smtpPort,
				user: os.Getenv("SMTP_USER"),
				pass: os.Getenv("SMTP_PASS"),
			},
		},
		auth: authConfig{
			basic: basicConfig{
				user: os.Getenv("AUTH_BASIC_USER"),
				pass: os.Getenv("AUTH_BASIC_PASS"),
			},
			token: tokenConfig{
				secret: os.Getenv("AUTH_TOKEN_SECRET"),
				exp:    time.Hour * 24 * 3, // 3 days
				iss:    "AllSpace",
			},
		},
		media: mediaConfig{
			photosDir:  getenv("PHOTOS_DIR", "./photos"),
			uploadsDir: getenv("UPLOADS_DIR", "./uploads"),
		},
		cityFile:    getenv("CITY_FILE", "./city.csv"),
		rateLimiter: LoadRateLimiterConfig(),
	}

	logger, err := NewLogger()
	if err != nil {
		fmt.Println("Error creating logger:", err)
		return
	}
	defer logger.Sync()

	// Database
	pool, err := db.New(cfg.db.addr, cfg.db.maxConns, cfg.db.maxIdleTime)
	if err != nil {
		logger.Fatal(err)
	}
	defer pool.Close()
	logger.Info("database connection pool established")

	if err := db.Migrate(context.Background(), pool); err != nil {
		logger.Fatal(err)
	}

	storage := store.NewStorage(pool)

	if err := seedAdmin(context.Background(), storage, logger); err != nil {
		logger.Fatal(err)
	}

	// City directory. An empty directory only blocks registrations, so a
	// broken reference file is logged loudly but does not stop the server.
	directory, err := cities.Load(cfg.cityFile)
	if err != nil {
		logger.Warnw("city directory not loaded, registrations will reject every city", "file", cfg.cityFile, "error", err)
	} else {
		logger.Infow("city directory loaded", "cities", directory.Len())
	}

	resolver := photos.NewResolver(cfg.media.photosDir)

	pendingStore := pending.NewStore(cfg.mail.codeTTL, time.Minute)

	smtp, err := mailer.NewSMTPClient(cfg.mail.smtp.host, cfg.mail.smtp.port, cfg.mail.smtp.user, cfg.mail.smtp.pass, cfg.mail.fromEmail)
	if err != nil {
		logger.Fatal(err)
	}

	rateLimiter := ratelimiter.NewFixedWindowLimiter(
		cfg.rateLimiter.RequestsPerTimeFrame,
		cfg.rateLimiter.TimeFrame,
	)

	jwtAuthenticator := auth.NewJWTAuthenticator(
		cfg.auth.token.secret,
		cfg.auth.token.exp,
		cfg.auth.token.iss,
		cfg.auth.token.iss,
	)

	app := &application{
		config:        cfg,
		logger:        logger,
		store:         storage,
		mailer:        smtp,
		authenticator: jwtAuthenticator,
		cities:        directory,
		photos:        resolver,
		pending:       pendingStore,
		rateLimiter:   rateLimiter,
	}

	// Metrics collected at /api/debug/vars
	expvar.NewString("version").Set(version)
	expvar.Publish("database", expvar.Func(func() any {
		s := pool.Stat()
		return map[string]any{
			"total_conns":    s.TotalConns(),
			"idle_conns":     s.IdleConns(),
			"acquired_conns": s.AcquiredConns(),
		}
	}))
	expvar.Publish("goroutines", expvar.Func(func() any {
		return runtime.NumGoroutine()
	}))

	mux := app.mount()

	logger.Fatal(app.run(mux))
}
