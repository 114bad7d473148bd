package obs

import "github.com/prometheus/client_golang/prometheus"

// Domain metric collectors for checkout orchestration. Registered once at
// startup via MustRegisterDomainMetrics; nil until then so library code can
// guard on presence.
var (
	CheckoutSessionTotal *prometheus.CounterVec
	PaymentIntentTotal   *prometheus.CounterVec
	GatewayCallDuration  *prometheus.HistogramVec
)

// MustRegisterDomainMetrics registers the checkout domain collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	CheckoutSessionTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "checkout_sessions_total",
		Help:      "Checkout session creation attempts by subject and result.",
	}, []string{"subject", "result"})
	PaymentIntentTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payment_intents_total",
		Help:      "Payment intent creation attempts by subject and result.",
	}, []string{"subject", "result"})
	GatewayCallDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "gateway_call_duration_ms",
		Help:      "Latency of payment gateway calls in milliseconds.",
		Buckets:   []float64{10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	}, []string{"operation"})

	for _, c := range []prometheus.Collector{CheckoutSessionTotal, PaymentIntentTotal, GatewayCallDuration} {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				panic(err)
			}
		}
	}
}
