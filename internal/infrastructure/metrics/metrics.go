package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics. Record methods are nil-safe so
// handlers built without metrics in tests stay quiet.
type Metrics struct {
	// Transfer metrics
	TransfersCompleted prometheus.Counter
	TransfersBlocked   *prometheus.CounterVec
	TransferErrors     *prometheus.CounterVec
	TransferAmount     prometheus.Histogram
	TransferDuration   prometheus.Histogram

	// Account metrics
	AccountsCreated prometheus.Counter
	AuthAttempts    *prometheus.CounterVec

	// Fraud oracle metrics
	FraudChecks     *prometheus.CounterVec
	FraudScore      prometheus.Histogram

	// Rate limiting metrics
	RateLimitHits prometheus.Counter
}

// New creates all metrics and registers them with reg. The server passes
// prometheus.DefaultRegisterer; tests pass a fresh registry.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		TransfersCompleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "vaultbank_transfers_completed_total",
			Help: "Total number of completed transfers",
		}),
		TransfersBlocked: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vaultbank_transfers_blocked_total",
				Help: "Total number of transfers blocked by verification",
			},
			[]string{"reason"},
		),
		TransferErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vaultbank_transfer_errors_total",
				Help: "Total number of transfer errors by type",
			},
			[]string{"error_type"},
		),
		TransferAmount: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "vaultbank_transfer_amount",
			Help:    "Transfer amounts in minor units",
			Buckets: []float64{100, 1000, 10000, 100000, 500000, 1000000, 10000000},
		}),
		TransferDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "vaultbank_transfer_duration_seconds",
			Help:    "Duration of transfer operations",
			Buckets: prometheus.DefBuckets,
		}),

		AccountsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "vaultbank_accounts_created_total",
			Help: "Total number of accounts created",
		}),
		AuthAttempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vaultbank_auth_attempts_total",
				Help: "Total authentication attempts",
			},
			[]string{"status"},
		),

		FraudChecks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vaultbank_fraud_checks_total",
				Help: "Total fraud oracle consultations by outcome",
			},
			[]string{"outcome"},
		),
		FraudScore: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "vaultbank_fraud_score",
			Help:    "Risk scores returned by the fraud oracle",
			Buckets: []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		}),

		RateLimitHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "vaultbank_rate_limit_hits_total",
			Help: "Total requests rejected by the rate limiter",
		}),
	}
}

// RecordTransferCompleted records a successful transfer.
func (m *Metrics) RecordTransferCompleted(amount int64, seconds float64) {
	if m == nil {
		return
	}
	m.TransfersCompleted.Inc()
	m.TransferAmount.Observe(float64(amount))
	m.TransferDuration.Observe(seconds)
}

// RecordTransferBlocked records a transfer stopped by verification.
func (m *Metrics) RecordTransferBlocked(reason string) {
	if m == nil {
		return
	}
	m.TransfersBlocked.WithLabelValues(reason).Inc()
}

// RecordTransferError records a failed transfer by error type.
func (m *Metrics) RecordTransferError(errorType string) {
	if m == nil {
		return
	}
	m.TransferErrors.WithLabelValues(errorType).Inc()
}

// RecordAccountCreated records a successful registration.
func (m *Metrics) RecordAccountCreated() {
	if m == nil {
		return
	}
	m.AccountsCreated.Inc()
}

// RecordAuthAttempt records a login attempt with its outcome.
func (m *Metrics) RecordAuthAttempt(status string) {
	if m == nil {
		return
	}
	m.AuthAttempts.WithLabelValues(status).Inc()
}

// RecordFraudCheck records a fraud oracle consultation.
func (m *Metrics) RecordFraudCheck(outcome string, score float64) {
	if m == nil {
		return
	}
	m.FraudChecks.WithLabelValues(outcome).Inc()
	m.FraudScore.Observe(score)
}

// RecordRateLimitHit records a rate-limited request.
func (m *Metrics) RecordRateLimitHit() {
	if m == nil {
		return
	}
	m.RateLimitHits.Inc()
}
