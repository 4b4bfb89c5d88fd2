// Package analytics combines the embedded market snapshot with statistics
// computed from the live catalog.
package analytics

import (
	_ "embed"
	"sync"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"gpurouter/pkg/models"
	"gpurouter/pkg/offering"
)

//go:embed market.yaml
var embeddedMarket []byte

var (
	loadMarketOnce sync.Once
	defaultMarket  *Market
	defaultErr     error
)

// PricePoint average hourly price per GPU id for one month
type PricePoint struct {
	Month  string             `json:"month" yaml:"month"`
	Prices map[string]float64 `json:"prices" yaml:"prices"`
}

// Trend headline market movement
type Trend struct {
	Title       string `json:"title" yaml:"title"`
	Change      string `json:"change" yaml:"change"`
	Period      string `json:"period" yaml:"period"`
	Direction   string `json:"direction" yaml:"direction"` // up or down
	Description string `json:"description" yaml:"description"`
}

// ProviderShare market share of one provider
type ProviderShare struct {
	Name        string  `json:"name" yaml:"name"`
	MarketShare float64 `json:"marketShare" yaml:"marketShare"` // percentage
	Growth      string  `json:"growth" yaml:"growth"`
	Reliability float64 `json:"reliability" yaml:"reliability"` // uptime percentage
}

// TopGPU usage share of one GPU model
type TopGPU struct {
	Name     string  `json:"name" yaml:"name"`
	Usage    float64 `json:"usage" yaml:"usage"` // percentage
	AvgPrice float64 `json:"avgPrice" yaml:"avgPrice"`
	Trend    string  `json:"trend" yaml:"trend"`
}

// Market static snapshot shipped with the binary
type Market struct {
	PriceHistory  []PricePoint    `json:"priceHistory" yaml:"priceHistory"`
	Trends        []Trend         `json:"trends" yaml:"trends"`
	ProviderShare []ProviderShare `json:"providerShare" yaml:"providerShare"`
	TopGPUs       []TopGPU        `json:"topGPUs" yaml:"topGPUs"`
}

// Count one labelled tally, kept as a slice for a stable display order.
type Count struct {
	Key   string `json:"key" yaml:"key"`
	Count int    `json:"count" yaml:"count"`
}

// Stats figures derived from the catalog
type Stats struct {
	GPUCount          int              `json:"gpuCount" yaml:"gpuCount"`
	ProviderCount     int              `json:"providerCount" yaml:"providerCount"`
	OfferingCount     int              `json:"offeringCount" yaml:"offeringCount"`
	GPUsByVendor      []Count          `json:"gpusByVendor" yaml:"gpusByVendor"`
	ProvidersByType   []Count          `json:"providersByType" yaml:"providersByType"`
	Cheapest          *models.Offering `json:"cheapest" yaml:"cheapest"`
	BestValue         *models.Offering `json:"bestValue" yaml:"bestValue"`
	MeanOnDemandPrice string           `json:"meanOnDemandPrice" yaml:"meanOnDemandPrice"` // USD, two decimals
}

// Report analytics view
type Report struct {
	Market `yaml:",inline"`
	Stats Stats `json:"stats" yaml:"stats"`
}

// DefaultMarket returns the embedded market snapshot, parsing it on first use.
func DefaultMarket() (*Market, error) {
	loadMarketOnce.Do(func() {
		defaultMarket, defaultErr = LoadMarket(embeddedMarket)
	})
	return defaultMarket, defaultErr
}

// LoadMarket parses and validates a market snapshot.
func LoadMarket(data []byte) (*Market, error) {
	var m Market
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(err, "failed to parse market data")
	}
	for _, s := range m.ProviderShare {
		if s.MarketShare < 0 || s.MarketShare > 100 {
			return nil, errors.Errorf("provider %q: market share %v out of range", s.Name, s.MarketShare)
		}
	}
	for _, g := range m.TopGPUs {
		if g.Usage < 0 || g.Usage > 100 {
			return nil, errors.Errorf("gpu %q: usage %v out of range", g.Name, g.Usage)
		}
	}
	for _, t := range m.Trends {
		if t.Direction != "up" && t.Direction != "down" {
			return nil, errors.Errorf("trend %q: unknown direction %q", t.Title, t.Direction)
		}
	}
	return &m, nil
}

// Build assembles a report from the market snapshot and the catalog.
func Build(market *Market, store offering.Source) Report {
	return Report{Market: *market, Stats: ComputeStats(store)}
}

// ComputeStats derives catalog statistics. Only pricing rows that resolve to
// a GPU and a provider are counted as offerings.
func ComputeStats(store offering.Source) Stats {
	gpus := store.GPUs()
	providers := store.Providers()
	engine := offering.New(store)
	offerings := engine.All()

	stats := Stats{
		GPUCount:          len(gpus),
		ProviderCount:     len(providers),
		OfferingCount:     len(offerings),
		GPUsByVendor:      countGPUsByVendor(gpus),
		ProvidersByType:   countProvidersByType(providers),
		MeanOnDemandPrice: meanOnDemand(offerings).StringFixed(2),
	}
	if len(offerings) > 0 {
		cheapest := offering.Sorted(offerings, offering.ByPrice, false)[0]
		stats.Cheapest = &cheapest
		best := engine.BestValue(1)[0]
		stats.BestValue = &best
	}
	return stats
}

func countGPUsByVendor(gpus []models.GPU) []Count {
	index := map[models.Vendor]int{}
	var counts []Count
	for _, gpu := range gpus {
		i, ok := index[gpu.Vendor]
		if !ok {
			i = len(counts)
			index[gpu.Vendor] = i
			counts = append(counts, Count{Key: string(gpu.Vendor)})
		}
		counts[i].Count++
	}
	return counts
}

func countProvidersByType(providers []models.Provider) []Count {
	counts := make([]Count, 0, len(models.ProviderTypes))
	for _, t := range models.ProviderTypes {
		n := 0
		for _, p := range providers {
			if p.Type == t {
				n++
			}
		}
		if n > 0 {
			counts = append(counts, Count{Key: string(t), Count: n})
		}
	}
	return counts
}

func meanOnDemand(offerings []models.Offering) decimal.Decimal {
	sum := decimal.Zero
	n := 0
	for _, o := range offerings {
		if o.Pricing.PriceType != models.PriceOnDemand {
			continue
		}
		sum = sum.Add(decimal.NewFromFloat(o.Pricing.PricePerHour))
		n++
	}
	if n == 0 {
		return decimal.Zero
	}
	return sum.Div(decimal.NewFromInt(int64(n))).Round(2)
}
