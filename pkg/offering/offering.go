// Package offering joins pricing rows to their GPU and provider and ranks the
// resulting offerings.
package offering

import (
	"gpurouter/pkg/models"
	"gpurouter/pkg/scoring"
)

// Source is the read side of the catalog the join needs.
type Source interface {
	GPU(id string) (models.GPU, bool)
	Provider(id string) (models.Provider, bool)
	GPUs() []models.GPU
	Providers() []models.Provider
	Pricing() []models.Pricing
	PricingForGPU(gpuID string) []models.Pricing
	PricingForProvider(providerID string) []models.Pricing
}

// Engine builds offerings over a catalog. It holds no state of its own and is
// safe for concurrent use.
type Engine struct {
	src     Source
	workers int
}

// New returns an Engine reading from src.
func New(src Source) *Engine {
	return &Engine{src: src, workers: defaultWorkers}
}

// WithWorkers sets the pool size used by SummarizeGPUs.
func (e *Engine) WithWorkers(n int) *Engine {
	if n > 0 {
		e.workers = n
	}
	return e
}

// Build assembles an offering and computes its scores.
func Build(gpu models.GPU, provider models.Provider, pricing models.Pricing) models.Offering {
	return models.Offering{
		GPU:              gpu,
		Provider:         provider,
		Pricing:          pricing,
		PerformanceScore: scoring.PerformanceScore(gpu),
		ValueScore:       scoring.ValueScore(gpu, pricing),
	}
}

// ResolveOrSkip is the best-effort join policy: a pricing row whose GPU or
// provider is not in the catalog produces no offering and no error.
func (e *Engine) ResolveOrSkip(pricing models.Pricing) (models.Offering, bool) {
	gpu, ok := e.src.GPU(pricing.GPUID)
	if !ok {
		return models.Offering{}, false
	}
	provider, ok := e.src.Provider(pricing.ProviderID)
	if !ok {
		return models.Offering{}, false
	}
	return Build(gpu, provider, pricing), true
}

// ForGPU returns the offerings of one GPU in catalog order. An unknown GPU
// yields an empty list.
func (e *Engine) ForGPU(gpuID string) []models.Offering {
	if _, ok := e.src.GPU(gpuID); !ok {
		return []models.Offering{}
	}
	return e.join(e.src.PricingForGPU(gpuID))
}

// ForProvider returns the offerings of one provider in catalog order.
func (e *Engine) ForProvider(providerID string) []models.Offering {
	if _, ok := e.src.Provider(providerID); !ok {
		return []models.Offering{}
	}
	return e.join(e.src.PricingForProvider(providerID))
}

// All returns every resolvable offering in catalog order.
func (e *Engine) All() []models.Offering {
	return e.join(e.src.Pricing())
}

// BestValue returns the n offerings with the highest value score.
func (e *Engine) BestValue(n int) []models.Offering {
	all := e.All()
	SortBy(all, ByValue, true)
	return head(all, n)
}

// Fastest returns the n offerings with the highest performance score.
func (e *Engine) Fastest(n int) []models.Offering {
	all := e.All()
	SortBy(all, ByPerformance, true)
	return head(all, n)
}

func (e *Engine) join(rows []models.Pricing) []models.Offering {
	out := make([]models.Offering, 0, len(rows))
	for _, row := range rows {
		if o, ok := e.ResolveOrSkip(row); ok {
			out = append(out, o)
		}
	}
	return out
}

func head(offerings []models.Offering, n int) []models.Offering {
	if n < 0 {
		n = 0
	}
	if n < len(offerings) {
		return offerings[:n]
	}
	return offerings
}
