package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"dataco-storefront/internal/config"
	"dataco-storefront/internal/db"
	"dataco-storefront/internal/httpserver"
	cartrepo "dataco-storefront/internal/repository/cart"
	catalogrepo "dataco-storefront/internal/repository/catalog"
	checkoutrepo "dataco-storefront/internal/repository/checkout"
	customerrepo "dataco-storefront/internal/repository/customer"
	orderrepo "dataco-storefront/internal/repository/order"
	cartsvc "dataco-storefront/internal/service/cart"
	checkoutsvc "dataco-storefront/internal/service/checkout"
	deliverysvc "dataco-storefront/internal/service/delivery"
	"dataco-storefront/internal/service/geo"
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

	cartRepo := cartrepo.NewPostgres(dbpool)
	catalogReader := catalogrepo.NewPostgres(dbpool, logger)
	customerRepo := customerrepo.NewPostgres(dbpool)
	checkoutStore := checkoutrepo.NewPostgres(dbpool)
	orderRepo := orderrepo.NewPostgres(dbpool)
	geoResolver := geo.NewResolver(cfg.GeoAPIBaseURL, cfg.GeoTimeout, logger)

	cartService := cartsvc.New(cartRepo, catalogReader)
	checkoutService := checkoutsvc.New(cartRepo, catalogReader, checkoutStore, geoResolver, logger)
	deliveryService := deliverysvc.New(orderRepo)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		CustomerRepo: customerRepo,
		CartSvc:      cartService,
		CheckoutSvc:  checkoutService,
		DeliverySvc:  deliveryService,
		OrderRepo:    orderRepo,
		GeoResolver:  geoResolver,
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
