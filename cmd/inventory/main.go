package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/flyhigh/api"
	"github.com/Domenick1991/flyhigh/config"
	"github.com/Domenick1991/flyhigh/internal/bootstrap"
	"github.com/Domenick1991/flyhigh/internal/cache"
	"github.com/Domenick1991/flyhigh/internal/service/seats"
	"github.com/gin-gonic/gin"
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

	store := cache.NewSeatStore(cfg.Redis)
	seatService := seats.NewSeatService(store)

	engine := gin.Default()
	api.NewInventoryHandler(seatService).Register(engine.Group("/"))

	if err := bootstrap.Run(ctx, cfg.Inventory.Address, engine); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
