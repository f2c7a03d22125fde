package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"giftlink/internal/config"
	"giftlink/internal/db"
	"giftlink/internal/httpserver"
	discountrepo "giftlink/internal/repository/discount"
	giftrepo "giftlink/internal/repository/gift"
	orderrepo "giftlink/internal/repository/order"
	productrepo "giftlink/internal/repository/product"
	"giftlink/internal/service/adminauth"
	checkoutsvc "giftlink/internal/service/checkout"
	pricingsvc "giftlink/internal/service/pricing"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	// Admin routes stay down without a secret and password (fail closed).
	adminAuth, err := adminauth.New(adminauth.Config{
		Secret:       []byte(cfg.SessionSecret),
		Password:     cfg.AdminPassword,
		PasswordHash: cfg.AdminPasswordHash,
		TTL:          cfg.SessionTTL,
	})
	if err != nil {
		logger.Fatalf("admin auth config: %v", err)
	}

	productRepo := productrepo.NewPostgres(dbpool, logger)
	discountRepo := discountrepo.NewPostgres(dbpool, logger)
	orderRepo := orderrepo.NewPostgres(dbpool, logger)
	giftRepo := giftrepo.NewPostgres(dbpool, logger)
	pricingService := pricingsvc.New(productRepo, discountRepo)
	checkoutService := checkoutsvc.New(pricingService, discountRepo, orderRepo, giftRepo)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		Products:       productRepo,
		Discounts:      discountRepo,
		Orders:         orderRepo,
		Gifts:          giftRepo,
		PricingSvc:     pricingService,
		CheckoutSvc:    checkoutService,
		AdminAuth:      adminAuth,
		SecureCookies:  cfg.Production(),
		AllowedOrigins: cfg.AllowedOrigins,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
