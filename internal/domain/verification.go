package domain

// RiskLevel is the categorical output of the fraud oracle.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Score boundaries for risk classification.
const (
	mediumRiskScore = 40
	highRiskScore   = 70
)

// RiskLevelForScore maps a continuous fraud score to a risk level.
func RiskLevelForScore(score float64) RiskLevel {
	switch {
	case score < mediumRiskScore:
		return RiskLow
	case score < highRiskScore:
		return RiskMedium
	default:
		return RiskHigh
	}
}

// VerificationEvidence is caller-supplied proof that an out-of-band
// identity check passed. Required for transfers at or above the
// high-value threshold.
type VerificationEvidence struct {
	Verified bool
	// FaceImage is an optional photographic capture from the client,
	// required for amounts at or above the extra-scrutiny threshold.
	FaceImage string
}

// RiskAssessment is the fraud oracle's verdict on a transfer attempt.
type RiskAssessment struct {
	Score float64
	Level RiskLevel
}
