package scoring

import "gpurouter/pkg/known"

// Band availability classification of a 0-100 score
type Band int

const (
	BandNotAvailable Band = iota
	BandLow
	BandMedium
	BandHigh
)

func (b Band) String() string {
	switch b {
	case BandHigh:
		return "High"
	case BandMedium:
		return "Medium"
	case BandLow:
		return "Low"
	default:
		return "N/A"
	}
}

// MarshalText lets bands serialize as their names.
func (b Band) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// AvailabilityBand classifies a score; ok=false means the score is unknown.
// Thresholds are inclusive on the upper band.
func AvailabilityBand(score float64, ok bool) Band {
	switch {
	case !ok:
		return BandNotAvailable
	case score >= known.HighAvailabilityScore:
		return BandHigh
	case score >= known.MediumAvailabilityScore:
		return BandMedium
	default:
		return BandLow
	}
}

// PerformanceTier buckets a score into 1 (lowest) to 5 (highest).
func PerformanceTier(score float64) int {
	switch {
	case score >= 80:
		return 5
	case score >= 60:
		return 4
	case score >= 40:
		return 3
	case score >= 20:
		return 2
	default:
		return 1
	}
}
