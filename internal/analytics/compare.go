package analytics

import "github.com/andresuchdata/dgm-dashboard/backend-go/internal/domain"

// Compare returns the delta of cy over ly. The percent change is 0 when ly
// is 0, so a metric appearing from nothing reads as flat rather than infinite.
func Compare(cy, ly float64) domain.Comparison {
	delta := cy - ly
	return domain.Comparison{
		CY:            cy,
		LY:            ly,
		AbsoluteDelta: delta,
		PercentDelta:  Margin(delta, ly),
	}
}

// Margin returns numerator / denominator * 100, or 0 for a zero denominator.
func Margin(numerator, denominator float64) float64 {
	if denominator == 0 {
		return 0
	}
	return numerator / denominator * 100
}

// ComparePair compares the two halves of a summed pair.
func ComparePair(p domain.MetricPair) domain.Comparison {
	return Compare(p.CY, p.LY)
}
