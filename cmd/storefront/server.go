package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/antonminaichev/storefront-orders/internal/gateway"
	"github.com/antonminaichev/storefront-orders/internal/logger"
	"github.com/antonminaichev/storefront-orders/internal/metrics"
	"github.com/antonminaichev/storefront-orders/internal/notify"
	"github.com/antonminaichev/storefront-orders/internal/order"
	"github.com/antonminaichev/storefront-orders/internal/prober"
	"github.com/antonminaichev/storefront-orders/internal/reconcile"
	"github.com/antonminaichev/storefront-orders/internal/router"
	"github.com/antonminaichev/storefront-orders/internal/storage"
	"github.com/antonminaichev/storefront-orders/internal/storage/memory"
	postgres "github.com/antonminaichev/storefront-orders/internal/storage/postgres"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	if err := run(); err != nil {
		panic(err)
	}
}

func run() error {
	cfg, err := NewConfig()
	if err != nil {
		log.Fatal(err)
	}
	if err := logger.Initialize(cfg.LogLevel); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var store storage.Store
	if cfg.DatabaseConnection != "" {
		pg, err := postgres.NewPostgresStore(cfg.DatabaseConnection)
		if err != nil {
			log.Fatalf("Failed to initialize Postgres store: %v", err)
		}
		if err := pg.Ping(ctx); err != nil {
			log.Fatalf("Unable to ping database: %v", err)
		}
		store = pg
	} else {
		// режим симуляции без БД — заказы живут в памяти
		store = memory.NewMemoryStore()
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Printf("Warning: failed to close store: %v", err)
		}
	}()

	var gwClient gateway.Client
	var gwResolver gateway.Resolver
	var sim *gateway.SimulatedClient
	if cfg.SimulatePayments {
		sim = gateway.NewSimulatedClient(cfg.SessionDelay, cfg.CheckoutTimeout)
		gwClient, gwResolver = sim, sim
	} else {
		live := gateway.NewLiveClient(cfg.GatewayAddress, cfg.GatewayEnvironment,
			cfg.ReturnURL, cfg.APITimeout, cfg.CheckoutTimeout)
		gwClient, gwResolver = live, live
	}

	notifier := &notify.HTTPNotifier{
		Client:          &http.Client{Timeout: 10 * time.Second},
		NotifierAddress: cfg.NotifierAddress,
	}

	pricing := order.Pricing{
		FreeDeliveryThreshold: cfg.FreeDeliveryThreshold,
		DeliveryFee:           cfg.DeliveryFee,
		PackagingFee:          cfg.PackagingFee,
		DiscountPercent:       cfg.DiscountPercent,
	}

	m := metrics.NewOrderMetrics(prometheus.DefaultRegisterer)

	orderSvc := order.NewService(store, notifier, gwClient, pricing, m)
	orderHandler := order.NewHandler(orderSvc, gwResolver, sim)

	prb := &prober.Prober{
		Client:         &http.Client{Timeout: 5 * time.Second},
		ProbeURL:       cfg.ProbeURL,
		GatewayAddress: cfg.GatewayAddress,
		Simulated:      cfg.SimulatePayments,
	}
	proberHandler := prober.NewHandler(prb)

	reconcileSvc := reconcile.NewService(store)
	reconcileHandler := reconcile.NewHandler(reconcileSvc)

	r := router.NewRouter(orderHandler, proberHandler, reconcileHandler, []byte(cfg.JWTSecret))

	srv := &http.Server{
		Addr:         cfg.Address,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Starting server on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe(): %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped gracefully")
	return nil
}
