package offering

import (
	"math"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"gpurouter/pkg/models"
)

// LowestPrice returns the minimum hourly price; ok is false for no offerings.
func LowestPrice(offerings []models.Offering) (float64, bool) {
	if len(offerings) == 0 {
		return 0, false
	}
	lowest := math.Inf(1)
	for _, o := range offerings {
		lowest = math.Min(lowest, o.Pricing.PricePerHour)
	}
	return lowest, true
}

// HighestPrice returns the maximum hourly price; ok is false for no offerings.
func HighestPrice(offerings []models.Offering) (float64, bool) {
	if len(offerings) == 0 {
		return 0, false
	}
	highest := math.Inf(-1)
	for _, o := range offerings {
		highest = math.Max(highest, o.Pricing.PricePerHour)
	}
	return highest, true
}

// HighestValueScore returns the best value score; ok is false for no offerings.
func HighestValueScore(offerings []models.Offering) (float64, bool) {
	if len(offerings) == 0 {
		return 0, false
	}
	best := math.Inf(-1)
	for _, o := range offerings {
		best = math.Max(best, o.ValueScore)
	}
	return best, true
}

// AverageAvailability returns the mean availability score; ok is false for
// no offerings.
func AverageAvailability(offerings []models.Offering) (float64, bool) {
	if len(offerings) == 0 {
		return 0, false
	}
	var total float64
	for _, o := range offerings {
		total += o.Pricing.AvailabilityScore
	}
	return total / float64(len(offerings)), true
}

// DistinctProviderCount counts unique provider ids.
func DistinctProviderCount(offerings []models.Offering) int {
	seen := make(map[string]struct{}, len(offerings))
	for _, o := range offerings {
		seen[o.Provider.ID] = struct{}{}
	}
	return len(seen)
}

// Highlights picks the best value, lowest cost and highest availability
// offerings. Ties go to the earlier offering. All fields are nil for an empty
// input.
func Highlights(offerings []models.Offering) models.Highlights {
	if len(offerings) == 0 {
		return models.Highlights{}
	}
	first := func(key string, desc bool) *models.Offering {
		o := Sorted(offerings, key, desc)[0]
		return &o
	}
	return models.Highlights{
		BestValue:           first(ByValue, true),
		LowestCost:          first(ByPrice, false),
		HighestAvailability: first(ByAvailability, true),
	}
}

// GroupByProvider buckets offerings per provider. Each group is sorted by
// price, and groups are sorted by provider name.
func GroupByProvider(offerings []models.Offering) []models.ProviderGroup {
	index := make(map[string]int)
	var groups []models.ProviderGroup
	for _, o := range offerings {
		i, ok := index[o.Provider.ID]
		if !ok {
			i = len(groups)
			index[o.Provider.ID] = i
			groups = append(groups, models.ProviderGroup{Provider: o.Provider})
		}
		groups[i].Offerings = append(groups[i].Offerings, o)
	}
	for i := range groups {
		SortBy(groups[i].Offerings, ByPrice, false)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return strings.ToLower(groups[i].Provider.Name) < strings.ToLower(groups[j].Provider.Name)
	})
	return groups
}

// GroupByGPU buckets offerings per GPU in first-seen order, with the cheapest
// and best value entry of each group.
func GroupByGPU(offerings []models.Offering) []models.GPUGroup {
	index := make(map[string]int)
	var groups []models.GPUGroup
	for _, o := range offerings {
		i, ok := index[o.GPU.ID]
		if !ok {
			i = len(groups)
			index[o.GPU.ID] = i
			groups = append(groups, models.GPUGroup{GPU: o.GPU})
		}
		groups[i].Offerings = append(groups[i].Offerings, o)
	}
	for i := range groups {
		g := &groups[i]
		g.Cheapest = Sorted(g.Offerings, ByPrice, false)[0]
		g.BestValue = Sorted(g.Offerings, ByValue, true)[0]
		g.AverageAvailability, _ = AverageAvailability(g.Offerings)
	}
	return groups
}

// Filter narrows offerings. Zero fields match everything.
type Filter struct {
	Vendor    models.Vendor
	MinVRAM   int
	PriceType models.PriceType
	MaxPrice  float64
}

// Match reports whether o passes every set criterion.
func (f Filter) Match(o models.Offering) bool {
	if f.Vendor != "" && !strings.EqualFold(string(f.Vendor), string(o.GPU.Vendor)) {
		return false
	}
	if f.MinVRAM > 0 && o.GPU.VRAM < f.MinVRAM {
		return false
	}
	if f.PriceType != "" && f.PriceType != o.Pricing.PriceType {
		return false
	}
	if f.MaxPrice > 0 && o.Pricing.PricePerHour > f.MaxPrice {
		return false
	}
	return true
}

// Apply returns the offerings that match f.
func (f Filter) Apply(offerings []models.Offering) []models.Offering {
	out := make([]models.Offering, 0, len(offerings))
	for _, o := range offerings {
		if f.Match(o) {
			out = append(out, o)
		}
	}
	return out
}

// MatchGPU applies the GPU criteria of f (vendor, VRAM) to a bare GPU.
func (f Filter) MatchGPU(gpu models.GPU) bool {
	if f.Vendor != "" && !strings.EqualFold(string(f.Vendor), string(gpu.Vendor)) {
		return false
	}
	return f.MinVRAM <= 0 || gpu.VRAM >= f.MinVRAM
}

// EstimateCost prices running one GPU of the offering for hours, rounded to
// cents.
func EstimateCost(o models.Offering, hours float64) (models.CostEstimate, error) {
	if hours <= 0 || math.IsInf(hours, 0) || math.IsNaN(hours) {
		return models.CostEstimate{}, errors.Errorf("invalid duration %v hours", hours)
	}
	h := decimal.NewFromFloat(hours)
	total := decimal.NewFromFloat(o.Pricing.PricePerHour).Mul(h).Round(2)
	return models.CostEstimate{
		Offering: o,
		Hours:    h.String(),
		Total:    total.StringFixed(2),
	}, nil
}

// EstimateCosts prices every offering for hours, cheapest first.
func EstimateCosts(offerings []models.Offering, hours float64) ([]models.CostEstimate, error) {
	sorted := Sorted(offerings, ByPrice, false)
	out := make([]models.CostEstimate, 0, len(sorted))
	for _, o := range sorted {
		estimate, err := EstimateCost(o, hours)
		if err != nil {
			return nil, err
		}
		out = append(out, estimate)
	}
	return out, nil
}
