package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"restaurant-checkout/internal/client"
	"restaurant-checkout/internal/config"
	"restaurant-checkout/internal/gateway"
	"restaurant-checkout/internal/logger"
	"restaurant-checkout/internal/repository"
	"restaurant-checkout/internal/server"
	"restaurant-checkout/internal/service"
	"syscall"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Log.Level, cfg.Log.Format)

	db := client.InitDB(cfg.DatabaseURL, cfg.SQLitePath)
	braintreeClient := client.NewBraintreeClient(&cfg.BrainTree)
	paylinkClient := client.NewPaylinkClient(&cfg.Paylink)

	orderRepo := repository.NewOrderRepository(db)
	addressRepo := repository.NewAddressRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	cartRepo := repository.NewCartRepository(db)
	locationRepo := repository.NewLocationRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	seedCtx := context.Background()
	if err := locationRepo.Seed(seedCtx); err != nil {
		logger.Warn("seed locations", "err", err)
	}
	if err := paymentRepo.Seed(seedCtx); err != nil {
		logger.Warn("seed payment methods", "err", err)
	}

	registry := gateway.NewRegistry(
		gateway.NewCODGateway(),
		gateway.NewBraintreeGateway(braintreeClient, paymentRepo),
		gateway.NewPaylinkGateway(paylinkClient, cfg.BaseURL),
	)

	orderManager := service.NewOrderManager(
		db, &cfg.Checkout,
		orderRepo,
		addressRepo,
		locationRepo,
		paymentRepo,
		registry,
	)
	cartValidator := service.NewCartValidator(locationRepo)

	checkout := service.NewCheckout(
		&cfg.Checkout,
		orderManager,
		cartValidator,
		cartRepo,
		customerRepo,
		service.NewCartBox(cfg.Checkout.CartBoxAlias),
	)

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	srv := server.NewServer(cfg, checkout, customerRepo)

	logger.Info("starting HTTP server", "addr", serverAddr)
	go func() {
		if err := srv.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", "err", err)
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	logger.Info("signal received, starting graceful shutdown")

	_, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(); err != nil {
		logger.Error("HTTP server shutdown error", "err", err)
	}
}
