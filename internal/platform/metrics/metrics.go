package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	CertificatesIssued  prometheus.Counter
	CertificatesRevoked prometheus.Counter
	Verifications       *prometheus.CounterVec
	ShareTokensMinted   prometheus.Counter
	ShareTokensRedeemed *prometheus.CounterVec
	RequestDuration     *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		CertificatesIssued: promauto.NewCounter(prometheus.CounterOpts{
			Name: "certivault_certificates_issued_total",
			Help: "Total number of certificates issued",
		}),
		CertificatesRevoked: promauto.NewCounter(prometheus.CounterOpts{
			Name: "certivault_certificates_revoked_total",
			Help: "Total number of certificates revoked",
		}),
		Verifications: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "certivault_verifications_total",
			Help: "Verification attempts by outcome",
		}, []string{"outcome"}),
		ShareTokensMinted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "certivault_share_tokens_minted_total",
			Help: "Total number of share tokens minted",
		}),
		ShareTokensRedeemed: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "certivault_share_tokens_redeemed_total",
			Help: "Share token redemptions by result",
		}, []string{"result"}),
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "certivault_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"route", "method", "status"}),
	}
}
