package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/lmarceau/privastore-backend/api/controllers"
	"github.com/lmarceau/privastore-backend/api/routes"
	"github.com/lmarceau/privastore-backend/internal/cart"
	"github.com/lmarceau/privastore-backend/internal/catalog"
	"github.com/lmarceau/privastore-backend/internal/orderlog"
	"github.com/lmarceau/privastore-backend/internal/orders"
	"github.com/lmarceau/privastore-backend/internal/payments"
	woowebhook "github.com/lmarceau/privastore-backend/internal/webhooks/woo"
	"github.com/lmarceau/privastore-backend/pkg/config"
	"github.com/lmarceau/privastore-backend/pkg/db"
	"github.com/lmarceau/privastore-backend/pkg/db/models"
	"github.com/lmarceau/privastore-backend/pkg/logger"
	"github.com/lmarceau/privastore-backend/pkg/metrics"
	"github.com/lmarceau/privastore-backend/pkg/redis"
	"github.com/lmarceau/privastore-backend/pkg/woocommerce"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "privastore-api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "privastore-api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := dbClient.DB().AutoMigrate(&models.OrderRecord{}); err != nil {
		logg.Error(context.Background(), "failed to migrate order log", err)
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

	wooClient, err := woocommerce.NewClient(context.Background(), cfg.Woo, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to build woocommerce client", err)
		os.Exit(1)
	}

	cartStorage, err := cart.NewRedisStorage(redisClient, cfg.Cart.TTL)
	if err != nil {
		logg.Error(context.Background(), "failed to build cart storage", err)
		os.Exit(1)
	}
	cartStore, err := cart.NewStore(cartStorage, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to build cart store", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(wooClient, cfg.Flags.AddonKeyHeuristic, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to build catalog service", err)
		os.Exit(1)
	}
	ordersService, err := orders.NewService(wooClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to build orders service", err)
		os.Exit(1)
	}
	paymentsService, err := payments.NewService(wooClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to build payments service", err)
		os.Exit(1)
	}
	webhookService, err := woowebhook.NewService(logg)
	if err != nil {
		logg.Error(context.Background(), "failed to build webhook service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:         cfg,
			Logger:         logg,
			CartStore:      cartStore,
			CatalogService: catalogService,
			OrdersService:  ordersService,
			PaymentsSvc:    paymentsService,
			OrderLog:       orderlog.NewRepository(dbClient.DB()),
			WebhookService: webhookService,
			WebhookSecrets: wooClient,
			HealthDeps: map[string]controllers.Pinger{
				"database":    dbClient,
				"redis":       redisClient,
				"woocommerce": wooClient,
			},
			Registry:    registry,
			HTTPMetrics: httpMetrics,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
