package main

import (
	"context"
	"database/sql"
	"net/http"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"bling_travel/internal/adapters/bookingcom"
	"bling_travel/internal/adapters/gemini"
	server "bling_travel/internal/adapters/http_server"
	"bling_travel/internal/adapters/mailer"
	"bling_travel/internal/adapters/observability"
	redisad "bling_travel/internal/adapters/redis"
	"bling_travel/internal/app"
	"bling_travel/internal/domain"
	"bling_travel/internal/shared"
	mysqlrepo "bling_travel/internal/storage/mysql"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve(cfg.MetricsAddr)

	// db
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")

	// leaf collaborators
	catalog := mysqlrepo.NewCatalog(db)
	bookingsRepo := mysqlrepo.NewBookings(db)
	checkpoints := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, cfg.CheckpointTTL)

	hotelClient, err := bookingcom.New(cfg.HotelsBase, cfg.RapidAPIKey, cfg.CurrencyCode, 5)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize hotel client")
	}

	var mail domain.Mailer
	if cfg.SMTPEmail != "" {
		mail = mailer.New(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPEmail, cfg.SMTPPassword)
	} else {
		log.Warn().Msg("SMTP_EMAIL empty; booking confirmations disabled")
	}

	// dialogue core
	model, err := gemini.New(ctx, cfg.GeminiKey, cfg.GeminiModel)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize model client")
	}
	defer model.Close()

	hotels := app.NewHotelSearch(hotelClient)
	bookings := app.NewBookingService(bookingsRepo, mail)
	registry := app.NewRegistry(catalog, hotels, bookings)
	engine := app.NewEngine(model, registry, app.FrontDeskPolicy)
	sessions := app.NewSessions(engine, checkpoints)

	// http
	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Sessions: sessions})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
