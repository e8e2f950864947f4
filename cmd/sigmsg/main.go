package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"sigmsg/internal/config"
	"sigmsg/internal/observability/logging"
	"sigmsg/internal/observability/metrics"
	"sigmsg/internal/service/impl"
	"sigmsg/internal/store"
	httptransport "sigmsg/internal/transport/http"
	"sigmsg/pkg/db"

	"github.com/joho/godotenv"
)

const serviceName = "sigmsg"

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = "dev"
	}

	logger := logging.NewLogger(logging.Config{
		ServiceName: serviceName,
		Environment: env,
		Level:       os.Getenv("LOG_LEVEL"),
	})
	slog.SetDefault(logger)

	logger.Info("starting service")

	cfg := config.Load()

	gdb, err := db.OpenGorm(db.Config{DSN: cfg.DatabaseURL, LogSQL: cfg.LogSQL})
	if err != nil {
		logger.Error("gorm open", "error", err)
		os.Exit(1)
	}

	st := store.New(gdb)
	if err := st.AutoMigrate(context.Background()); err != nil {
		logger.Error("auto-migrate", "error", err)
		os.Exit(1)
	}

	metrics.MustRegister(serviceName)

	pw := impl.NewPasswordServiceArgon2id()
	ts := impl.NewTokenServiceHS256(impl.TokenConfig{
		Issuer:     cfg.Issuer,
		Audience:   cfg.Audience,
		AccessTTL:  cfg.AccessTTL,
		RefreshTTL: cfg.RefreshTTL,
		SigningKey: []byte(cfg.SigningKey),
	}, st)
	as := impl.NewAuthServiceImpl(st, pw, ts)
	us := impl.NewUserServiceImpl(st, pw)
	cs := impl.NewChallengeServiceImpl(st, impl.ChallengeConfig{
		TOTPIssuer:   cfg.TOTPIssuer,
		AuthTokenTTL: cfg.AuthTokenTTL,
	})
	ms := impl.NewMessageServiceImpl(st)

	var origins []string
	if cfg.CORSOrigins != "" {
		for _, o := range strings.Split(cfg.CORSOrigins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
	}

	router := httptransport.NewRouter(httptransport.Services{
		Auth:       as,
		Users:      us,
		Tokens:     ts,
		Challenges: cs,
		Messages:   ms,
	}, httptransport.Options{
		CORSOrigins: origins,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("listening", "addr", srv.Addr, "issuer", cfg.Issuer)
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}
