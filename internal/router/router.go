package router

import (
	"github.com/antonminaichev/storefront-orders/internal/logger"
	"github.com/antonminaichev/storefront-orders/internal/metrics"
	"github.com/antonminaichev/storefront-orders/internal/middleware"
	"github.com/antonminaichev/storefront-orders/internal/order"
	"github.com/antonminaichev/storefront-orders/internal/prober"
	"github.com/antonminaichev/storefront-orders/internal/reconcile"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(
	orderH *order.Handler,
	proberH *prober.Handler,
	reconcileH *reconcile.Handler,
	jwtSecret []byte,
) chi.Router {
	r := chi.NewRouter()

	r.Use(logger.WithLogging)
	r.Use(chiMiddleware.Recoverer)

	r.Use(middleware.GzipHandler)

	// webhooks шлюза и health — без авторизации
	r.Post("/api/payment/callback/success", orderH.GatewaySuccess)
	r.Post("/api/payment/callback/failure", orderH.GatewayFailure)
	r.Post("/api/payment/simulate/{session}", orderH.SimulateOutcome)
	r.Get("/api/health/connectivity", proberH.Connectivity)
	r.Get("/api/health/gateway", proberH.Gateway)
	r.Handle("/metrics", metrics.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.JWTMiddleware(jwtSecret))

		r.Post("/api/checkout", orderH.Checkout)
		r.Get("/api/orders", orderH.ListOrders)
		r.Get("/api/orders/{id}", orderH.GetOrder)
		r.Post("/api/orders/{id}/cod", orderH.PayCashOnDelivery)
		r.Post("/api/orders/{id}/payment/session", orderH.CreatePaymentSession)
		r.Post("/api/orders/{id}/cancel", orderH.Cancel)

		r.Patch("/api/admin/orders/{id}/status", orderH.UpdateStatus)
		r.Get("/api/admin/reconcile", reconcileH.Diagnose)
	})

	return r
}
