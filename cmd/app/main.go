package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/flyhigh/api"
	"github.com/Domenick1991/flyhigh/config"
	"github.com/Domenick1991/flyhigh/internal/bootstrap"
	"github.com/Domenick1991/flyhigh/internal/cache"
	"github.com/Domenick1991/flyhigh/internal/inventory"
	"github.com/Domenick1991/flyhigh/internal/kafka"
	"github.com/Domenick1991/flyhigh/internal/repository"
	"github.com/Domenick1991/flyhigh/internal/service/order"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Order.FlightCacheTTLSeconds)*time.Second)

	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()
	if err := producer.CheckConnection(ctx); err != nil {
		log.Printf("kafka unavailable, events will fail until it recovers: %v", err)
	}

	seatClient := inventory.NewHTTPClient(cfg.Inventory.BaseURL, time.Duration(cfg.Inventory.TimeoutSeconds)*time.Second)

	orderRepo := repository.NewOrderRepository(pool)
	orderService := order.NewOrderService(
		orderRepo,
		seatClient,
		redisCache,
		producer,
		cfg.Kafka.OrderEventsTopic,
		order.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
	)

	engine := gin.Default()
	api.NewOrderHandler(orderService).Register(engine.Group("/"))
	bootstrap.RegisterSwagger(engine, cfg.HTTP, "orders.swagger.json")

	if err := bootstrap.Run(ctx, cfg.HTTP.Address, engine); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
