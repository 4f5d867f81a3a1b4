package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/agkmart/agkmart-backend/api/routes"
	"github.com/agkmart/agkmart-backend/internal/delivery"
	"github.com/agkmart/agkmart-backend/internal/identity"
	"github.com/agkmart/agkmart-backend/internal/nearby"
	"github.com/agkmart/agkmart-backend/internal/notifications"
	"github.com/agkmart/agkmart-backend/internal/pilots"
	"github.com/agkmart/agkmart-backend/internal/tickets"
	"github.com/agkmart/agkmart-backend/pkg/config"
	"github.com/agkmart/agkmart-backend/pkg/db"
	"github.com/agkmart/agkmart-backend/pkg/logger"
	"github.com/agkmart/agkmart-backend/pkg/maps"
	"github.com/agkmart/agkmart-backend/pkg/metrics"
	"github.com/agkmart/agkmart-backend/pkg/migrate"
	"github.com/agkmart/agkmart-backend/pkg/outbox"
	"github.com/agkmart/agkmart-backend/pkg/redis"
	"github.com/agkmart/agkmart-backend/pkg/sms"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	smsSender, err := sms.FromConfig(cfg.Twilio, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create sms sender", err)
		os.Exit(1)
	}

	deliveryMetrics := metrics.NewDeliveryMetrics(prometheus.DefaultRegisterer)

	var geocoder *maps.Client
	if cfg.GoogleMaps.APIKey != "" {
		geocoder, err = maps.NewClient(cfg.GoogleMaps.APIKey)
		if err != nil {
			logg.Error(context.Background(), "failed to create maps client", err)
			os.Exit(1)
		}
	}

	pilotsRepo := pilots.NewRepository(dbClient.DB())
	ordersRepo := delivery.NewRepository(dbClient.DB())
	ticketsRepo := tickets.NewRepository(dbClient.DB())
	notificationsRepo := notifications.NewRepository(dbClient.DB())
	outboxSvc := outbox.NewService(outbox.NewRepository(dbClient.DB()), logg)

	identitySvc, err := identity.NewService(identity.ServiceParams{
		Pilots:    pilotsRepo,
		OTPStore:  redisClient,
		Limiter:   redisClient,
		SMSSender: smsSender,
		TxRunner:  dbClient,
		Outbox:    outboxSvc,
		Metrics:   deliveryMetrics,
		Logger:    logg,
		JWTConfig: cfg.JWT,
		OTPConfig: cfg.OTP,
		Limits:    cfg.AuthRateLimit,
		DevMode:   cfg.App.IsDev(),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create identity service", err)
		os.Exit(1)
	}

	pilotsSvc, err := pilots.NewService(pilotsRepo, dbClient, outboxSvc)
	if err != nil {
		logg.Error(context.Background(), "failed to create pilots service", err)
		os.Exit(1)
	}

	deliveryParams := delivery.ServiceParams{
		Orders:    ordersRepo,
		Pilots:    pilotsRepo,
		TxRunner:  dbClient,
		Outbox:    outboxSvc,
		Metrics:   deliveryMetrics,
		Logger:    logg,
		OTPConfig: cfg.OTP,
	}
	if geocoder != nil {
		deliveryParams.Geocoder = geocoder
	}
	deliverySvc, err := delivery.NewService(deliveryParams)
	if err != nil {
		logg.Error(context.Background(), "failed to create delivery service", err)
		os.Exit(1)
	}

	nearbyFinder, err := nearby.NewFinder(nearby.FinderParams{
		Pilots:  pilotsRepo,
		Orders:  ordersRepo,
		Metrics: deliveryMetrics,
		Config:  cfg.Nearby,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create nearby finder", err)
		os.Exit(1)
	}

	ticketsSvc, err := tickets.NewService(ticketsRepo, dbClient, outboxSvc, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create tickets service", err)
		os.Exit(1)
	}

	notificationsSvc, err := notifications.NewService(notificationsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create notifications service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, routes.Services{
			DBPinger:      dbClient,
			RedisPinger:   redisClient,
			Limiter:       redisClient,
			Identity:      identitySvc,
			Pilots:        pilotsSvc,
			Delivery:      deliverySvc,
			Nearby:        nearbyFinder,
			Tickets:       ticketsSvc,
			Notifications: notificationsSvc,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
