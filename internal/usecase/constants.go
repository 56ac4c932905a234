package usecase

import "time"

const (
	// HighValueThreshold is the amount (minor units) at or above which a
	// transfer requires verification evidence.
	HighValueThreshold int64 = 100_000

	// ExtraScrutinyThreshold is the amount at or above which verification
	// must include a photographic capture.
	ExtraScrutinyThreshold int64 = 500_000

	// FraudScoreBlockThreshold is the oracle score above which a transfer
	// is blocked.
	FraudScoreBlockThreshold float64 = 70

	// InitialBalance is credited to every account at registration.
	InitialBalance int64 = 10_000_000

	// DefaultFraudCheckTimeout bounds a single verification gate call.
	DefaultFraudCheckTimeout = 5 * time.Second

	// UsernameCacheTTL is how long username-to-account-ID resolutions are
	// cached. The mapping is immutable, the TTL only bounds cache growth.
	UsernameCacheTTL = 10 * time.Minute
)
