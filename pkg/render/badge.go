package render

import (
	"strings"

	"github.com/jedib0t/go-pretty/v6/text"

	"gpurouter/pkg/models"
	"gpurouter/pkg/scoring"
)

// Badge display form of a classification
type Badge struct {
	Label string      `json:"label"`
	Icon  string      `json:"icon,omitempty"`
	Color text.Colors `json:"-"`
}

// String renders the badge with its terminal color.
func (b Badge) String() string {
	return b.Color.Sprint(b.Label)
}

// AvailabilityBadge maps an availability band to its label and color.
func AvailabilityBadge(band scoring.Band) Badge {
	switch band {
	case scoring.BandHigh:
		return Badge{Label: "✅ High", Color: text.Colors{text.FgHiGreen}}
	case scoring.BandMedium:
		return Badge{Label: "⚠️ Medium", Color: text.Colors{text.FgHiYellow}}
	case scoring.BandLow:
		return Badge{Label: "❌ Low", Color: text.Colors{text.FgHiRed}}
	default:
		return Badge{Label: "❌ N/A", Color: text.Colors{text.FgHiBlack}}
	}
}

// AvailabilityFor classifies and styles a score in one step.
func AvailabilityFor(score float64, ok bool) Badge {
	return AvailabilityBadge(scoring.AvailabilityBand(score, ok))
}

// ReliabilityBadge maps a provider tier to its label and star icon.
func ReliabilityBadge(tier models.ReliabilityTier) Badge {
	switch tier {
	case 1:
		return Badge{Label: "Tier 1", Icon: "⭐⭐⭐", Color: text.Colors{text.FgHiGreen}}
	case 2:
		return Badge{Label: "Tier 2", Icon: "⭐⭐", Color: text.Colors{text.FgWhite}}
	default:
		return Badge{Label: "Tier 3", Icon: "⭐", Color: text.Colors{text.FgHiYellow}}
	}
}

// PerformanceIndicator draws a score as one to five lightning bolts.
func PerformanceIndicator(score float64) string {
	return strings.Repeat("⚡", scoring.PerformanceTier(score))
}
