package offering

import (
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/pkg/errors"

	"gpurouter/pkg/catalog"
	"gpurouter/pkg/models"
	"gpurouter/pkg/scoring"
)

const defaultWorkers = 8

// SummarizeGPUs builds one catalog row per GPU. Rows are computed on a worker
// pool and returned in input order.
func (e *Engine) SummarizeGPUs(gpus []models.GPU) ([]models.GPUSummary, error) {
	out := make([]models.GPUSummary, len(gpus))
	if len(gpus) == 0 {
		return out, nil
	}

	var wg sync.WaitGroup
	pool, err := ants.NewPoolWithFunc(e.workers, func(i interface{}) {
		defer wg.Done()
		idx := i.(int)
		out[idx] = e.summarizeGPU(gpus[idx])
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create summary pool")
	}
	defer pool.Release()

	for i := range gpus {
		wg.Add(1)
		if err := pool.Invoke(i); err != nil {
			wg.Done()
			wg.Wait()
			return nil, errors.Wrapf(err, "failed to summarize gpu %s", gpus[i].ID)
		}
	}
	wg.Wait()
	return out, nil
}

func (e *Engine) summarizeGPU(gpu models.GPU) models.GPUSummary {
	offerings := e.ForGPU(gpu.ID)
	summary := models.GPUSummary{
		GPU:              gpu,
		PerformanceScore: scoring.PerformanceScore(gpu),
		ProviderCount:    DistinctProviderCount(offerings),
	}
	if v, ok := LowestPrice(offerings); ok {
		summary.LowestPrice = &v
	}
	if v, ok := AverageAvailability(offerings); ok {
		summary.AverageAvailability = &v
	}
	if v, ok := HighestValueScore(offerings); ok {
		summary.BestValueScore = &v
	}
	return summary
}

// SummarizeProviders builds one row per provider in catalog order.
func (e *Engine) SummarizeProviders(providers []models.Provider) []models.ProviderSummary {
	out := make([]models.ProviderSummary, 0, len(providers))
	for _, provider := range providers {
		out = append(out, e.summarizeProvider(provider, e.ForProvider(provider.ID)))
	}
	return out
}

func (e *Engine) summarizeProvider(provider models.Provider, offerings []models.Offering) models.ProviderSummary {
	summary := models.ProviderSummary{
		Provider:      provider,
		OfferingCount: len(offerings),
	}
	if v, ok := LowestPrice(offerings); ok {
		summary.LowestPrice = &v
	}
	if v, ok := AverageAvailability(offerings); ok {
		summary.AverageAvailability = &v
	}
	return summary
}

// GPUDetail gathers the detail view of one GPU.
func (e *Engine) GPUDetail(gpuID string) (models.GPUDetail, error) {
	gpu, ok := e.src.GPU(gpuID)
	if !ok {
		return models.GPUDetail{}, errors.Wrapf(catalog.ErrNotFound, "gpu %q", gpuID)
	}
	offerings := e.ForGPU(gpuID)
	return models.GPUDetail{
		Summary:   e.summarizeGPU(gpu),
		Offerings: Sorted(offerings, ByPrice, false),
		Best:      Highlights(offerings),
		Providers: GroupByProvider(offerings),
	}, nil
}

// ProviderDetail gathers the detail view of one provider.
func (e *Engine) ProviderDetail(providerID string) (models.ProviderDetail, error) {
	provider, ok := e.src.Provider(providerID)
	if !ok {
		return models.ProviderDetail{}, errors.Wrapf(catalog.ErrNotFound, "provider %q", providerID)
	}
	offerings := e.ForProvider(providerID)
	detail := models.ProviderDetail{
		Summary: e.summarizeProvider(provider, offerings),
		Groups:  GroupByGPU(offerings),
	}
	if v, ok := HighestPrice(offerings); ok {
		detail.HighestPrice = &v
	}

	regions := make(map[string]struct{})
	for _, r := range provider.Regions {
		regions[r] = struct{}{}
	}
	for _, o := range offerings {
		regions[o.Pricing.Region] = struct{}{}
	}
	detail.TotalRegions = len(regions)

	for i := range detail.Groups {
		g := detail.Groups[i]
		if detail.MostAffordable == nil || g.Cheapest.Pricing.PricePerHour < detail.MostAffordable.Cheapest.Pricing.PricePerHour {
			detail.MostAffordable = &g
		}
	}
	return detail, nil
}
