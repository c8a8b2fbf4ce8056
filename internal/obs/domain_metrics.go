package obs

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// QuoteTotal counts quote computations by page surface and outcome.
	QuoteTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pricing",
		Name:      "quote_total",
		Help:      "Count of quote computations by page and result.",
	}, []string{"page", "result"})

	// PromoValidationTotal counts promo code validation outcomes.
	PromoValidationTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pricing",
		Name:      "promo_validation_total",
		Help:      "Count of promo code validation outcomes.",
	}, []string{"result"})

	// GrandTotalClamped counts aggregations whose raw total went negative
	// and was clamped to zero.
	GrandTotalClamped = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "pricing",
		Name:      "grand_total_clamped_total",
		Help:      "Number of aggregations clamped at a zero grand total.",
	})
)

// MustRegisterDomainMetrics registers the domain collectors. Collectors work
// unregistered, so code paths that increment them never depend on this
// having run.
func MustRegisterDomainMetrics(reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		QuoteTotal = registerCounterVec(reg, QuoteTotal)
		PromoValidationTotal = registerCounterVec(reg, PromoValidationTotal)
		GrandTotalClamped = registerCounter(reg, GrandTotalClamped)
	})
}
