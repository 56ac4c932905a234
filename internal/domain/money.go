package domain

import "github.com/shopspring/decimal"

// MinorUnitScale is the number of decimal places between minor and major
// currency units. All amounts in the system are integer minor units; major
// units exist only for display.
const MinorUnitScale = 2

// MajorUnits converts an amount in minor units to major units.
func MajorUnits(minor int64) decimal.Decimal {
	return decimal.New(minor, -MinorUnitScale)
}

// FormatAmount renders an amount in minor units as a fixed-point major
// unit string, e.g. 150000 -> "1500.00".
func FormatAmount(minor int64) string {
	return MajorUnits(minor).StringFixed(MinorUnitScale)
}
