package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// OrderMetrics — операционный боковой канал оркестратора: исходы платежей и
// результаты отправки уведомлений (проглоченные ошибки видны только здесь).
type OrderMetrics struct {
	PaymentOutcomes   *prometheus.CounterVec
	NotificationSends *prometheus.CounterVec
}

func NewOrderMetrics(reg prometheus.Registerer) *OrderMetrics {
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront",
		Subsystem: "orders",
		Name:      "payment_outcomes_total",
		Help:      "Terminal payment outcomes by kind.",
	}, []string{"outcome"})
	sends := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront",
		Subsystem: "orders",
		Name:      "notification_sends_total",
		Help:      "Notification dispatch attempts by kind and result.",
	}, []string{"kind", "result"})

	reg.MustRegister(outcomes, sends)
	return &OrderMetrics{PaymentOutcomes: outcomes, NotificationSends: sends}
}

func Handler() http.Handler {
	return promhttp.Handler()
}
