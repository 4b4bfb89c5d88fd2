package offering

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gpurouter/pkg/catalog"
	"gpurouter/pkg/models"
	"gpurouter/pkg/scoring"
)

func defaultEngine(t *testing.T) (*Engine, *catalog.Store) {
	t.Helper()
	store, err := catalog.Default()
	require.NoError(t, err)
	return New(store), store
}

func testGPU(id string, vram int, fp16, bw float64) models.GPU {
	return models.GPU{
		ID:              id,
		Name:            id,
		Vendor:          models.VendorNVIDIA,
		VRAM:            vram,
		TFLOPS:          models.TFLOPS{FP16: fp16, FP32: fp16 / 2},
		MemoryBandwidth: bw,
		PowerDraw:       300,
	}
}

func testProvider(id, name string) models.Provider {
	return models.Provider{
		ID:              id,
		Name:            name,
		Type:            models.ProviderSpecialized,
		Regions:         []string{"US"},
		ReliabilityTier: 1,
		Uptime:          99.9,
		SupportLevel:    models.SupportStandard,
	}
}

func testPricing(gpuID, providerID string, price, availability float64) models.Pricing {
	return models.Pricing{
		GPUID:             gpuID,
		ProviderID:        providerID,
		PricePerHour:      price,
		PriceType:         models.PriceOnDemand,
		Availability:      models.AvailabilityHigh,
		AvailabilityScore: availability,
		Region:            "US-East",
		LastUpdated:       "2025-10-14",
	}
}

// danglingEngine has one pricing row per kind of broken reference.
func danglingEngine(t *testing.T) *Engine {
	t.Helper()
	store, err := catalog.New(
		[]models.GPU{testGPU("g1", 80, 312, 2.0), testGPU("g2", 24, 165, 1.0)},
		[]models.Provider{testProvider("p1", "Beta"), testProvider("p2", "alpha")},
		[]models.Pricing{
			testPricing("g1", "p1", 1.10, 95),
			testPricing("g1", "ghost", 0.10, 99),
			testPricing("g1", "p2", 0.89, 90),
			testPricing("ghost", "p1", 0.20, 50),
			testPricing("g2", "p1", 0.69, 85),
		},
	)
	require.NoError(t, err)
	return New(store)
}

func TestResolveOrSkip(t *testing.T) {
	e := danglingEngine(t)

	o, ok := e.ResolveOrSkip(testPricing("g1", "p1", 1.10, 95))
	require.True(t, ok)
	assert.Equal(t, "g1", o.GPU.ID)
	assert.Equal(t, "p1", o.Provider.ID)
	assert.Equal(t, scoring.PerformanceScore(o.GPU), o.PerformanceScore)
	assert.Equal(t, scoring.ValueScore(o.GPU, o.Pricing), o.ValueScore)

	_, ok = e.ResolveOrSkip(testPricing("g1", "ghost", 1, 1))
	assert.False(t, ok)
	_, ok = e.ResolveOrSkip(testPricing("ghost", "p1", 1, 1))
	assert.False(t, ok)
}

func TestForGPU_DropsUnresolvedProviders(t *testing.T) {
	e := danglingEngine(t)

	offerings := e.ForGPU("g1")
	require.Len(t, offerings, 2)
	assert.Equal(t, "p1", offerings[0].Provider.ID)
	assert.Equal(t, "p2", offerings[1].Provider.ID)
}

func TestForProvider_DropsUnresolvedGPUs(t *testing.T) {
	e := danglingEngine(t)

	offerings := e.ForProvider("p1")
	require.Len(t, offerings, 2)
	assert.Equal(t, "g1", offerings[0].GPU.ID)
	assert.Equal(t, "g2", offerings[1].GPU.ID)
}

func TestAll_DropsEveryUnresolvedRow(t *testing.T) {
	e := danglingEngine(t)
	assert.Len(t, e.All(), 3)
}

func TestForGPU_UnknownIsEmpty(t *testing.T) {
	e, _ := defaultEngine(t)

	offerings := e.ForGPU("nonexistent-id")
	assert.NotNil(t, offerings)
	assert.Empty(t, offerings)

	assert.Empty(t, e.ForProvider("nonexistent-id"))
}

func TestForGPU_DefaultCatalog(t *testing.T) {
	e, store := defaultEngine(t)

	for _, gpu := range store.GPUs() {
		offerings := e.ForGPU(gpu.ID)
		want := 0
		for _, p := range store.PricingForGPU(gpu.ID) {
			if _, ok := store.Provider(p.ProviderID); ok {
				want++
			}
		}
		assert.Len(t, offerings, want, gpu.ID)
		for _, o := range offerings {
			assert.Equal(t, gpu.ID, o.GPU.ID)
		}
	}

	assert.Len(t, e.ForGPU("nvidia-a100-80gb"), 3)
	assert.Len(t, e.All(), 43)
}

func TestA100Scenario_SameAcrossViews(t *testing.T) {
	e, _ := defaultEngine(t)

	find := func(offerings []models.Offering) models.Offering {
		for _, o := range offerings {
			if o.GPU.ID == "nvidia-a100-80gb" && o.Provider.ID == "runpod" && o.Pricing.PriceType == models.PriceOnDemand {
				return o
			}
		}
		t.Fatal("a100 runpod on-demand offering not found")
		return models.Offering{}
	}

	fromGPU := find(e.ForGPU("nvidia-a100-80gb"))
	fromProvider := find(e.ForProvider("runpod"))
	fromAll := find(e.All())

	assert.Equal(t, 0.89, fromGPU.Pricing.PricePerHour)
	for _, o := range []models.Offering{fromProvider, fromAll} {
		assert.Equal(t, math.Float64bits(fromGPU.PerformanceScore), math.Float64bits(o.PerformanceScore))
		assert.Equal(t, math.Float64bits(fromGPU.ValueScore), math.Float64bits(o.ValueScore))
	}
	assert.InDelta(t, 51.0668, fromGPU.ValueScore, 1e-3)
}

func TestBestValue(t *testing.T) {
	e, _ := defaultEngine(t)

	top := e.BestValue(3)
	require.Len(t, top, 3)
	for i := 1; i < len(top); i++ {
		assert.GreaterOrEqual(t, top[i-1].ValueScore, top[i].ValueScore)
	}
	assert.Equal(t, "nvidia-a100-80gb", top[0].GPU.ID)
	assert.Equal(t, models.PriceSpot, top[0].Pricing.PriceType)
	assert.Equal(t, "nvidia-h100-80gb", top[1].GPU.ID)
	assert.Equal(t, "amd-mi300x", top[2].GPU.ID)

	assert.Len(t, e.BestValue(1000), 43)
	assert.Empty(t, e.BestValue(0))
	assert.Empty(t, e.BestValue(-1))
}

func TestFastest_StableTies(t *testing.T) {
	e, _ := defaultEngine(t)

	top := e.Fastest(6)
	require.Len(t, top, 6)
	for i := 1; i < len(top); i++ {
		assert.GreaterOrEqual(t, top[i-1].PerformanceScore, top[i].PerformanceScore)
	}
	// equal scores keep catalog order
	assert.Equal(t, "datacrunch", top[0].Provider.ID)
	assert.Equal(t, "modal", top[1].Provider.ID)
	assert.Equal(t, "vultr", top[4].Provider.ID)
	assert.Equal(t, "tensorwave", top[5].Provider.ID)
}

func TestBestValue_FewerThanRequested(t *testing.T) {
	e := danglingEngine(t)
	assert.Len(t, e.BestValue(5), 3)
}

func TestAggregates(t *testing.T) {
	e := danglingEngine(t)
	offerings := e.All()

	lowest, ok := LowestPrice(offerings)
	require.True(t, ok)
	assert.Equal(t, 0.69, lowest)

	highest, ok := HighestPrice(offerings)
	require.True(t, ok)
	assert.Equal(t, 1.10, highest)

	avg, ok := AverageAvailability(offerings)
	require.True(t, ok)
	assert.InDelta(t, 90.0, avg, 1e-9)

	assert.Equal(t, 2, DistinctProviderCount(offerings))

	best, ok := HighestValueScore(offerings)
	require.True(t, ok)
	assert.Equal(t, e.BestValue(1)[0].ValueScore, best)
}

func TestAggregates_EmptyIsUnavailable(t *testing.T) {
	_, ok := LowestPrice(nil)
	assert.False(t, ok)
	_, ok = HighestPrice([]models.Offering{})
	assert.False(t, ok)
	_, ok = AverageAvailability(nil)
	assert.False(t, ok)
	_, ok = HighestValueScore(nil)
	assert.False(t, ok)
	assert.Equal(t, 0, DistinctProviderCount(nil))

	band := scoring.AvailabilityBand(AverageAvailability(nil))
	assert.Equal(t, scoring.BandNotAvailable, band)
}

func TestHighlights(t *testing.T) {
	e, _ := defaultEngine(t)

	h := Highlights(e.ForGPU("nvidia-h100-80gb"))
	require.NotNil(t, h.BestValue)
	require.NotNil(t, h.LowestCost)
	require.NotNil(t, h.HighestAvailability)

	assert.Equal(t, models.PriceSpot, h.BestValue.Pricing.PriceType)
	assert.Equal(t, 0.99, h.LowestCost.Pricing.PricePerHour)
	assert.Equal(t, "lambda-labs", h.HighestAvailability.Provider.ID)

	empty := Highlights(nil)
	assert.Nil(t, empty.BestValue)
	assert.Nil(t, empty.LowestCost)
	assert.Nil(t, empty.HighestAvailability)
}

func TestGroupByProvider(t *testing.T) {
	e := danglingEngine(t)

	groups := GroupByProvider(e.All())
	require.Len(t, groups, 2)
	// case-insensitive name order: alpha before Beta
	assert.Equal(t, "p2", groups[0].Provider.ID)
	assert.Equal(t, "p1", groups[1].Provider.ID)

	require.Len(t, groups[1].Offerings, 2)
	assert.Equal(t, 0.69, groups[1].Offerings[0].Pricing.PricePerHour)
	assert.Equal(t, 1.10, groups[1].Offerings[1].Pricing.PricePerHour)
}

func TestGroupByGPU(t *testing.T) {
	e, _ := defaultEngine(t)

	groups := GroupByGPU(e.ForProvider("runpod"))
	require.NotEmpty(t, groups)
	assert.Equal(t, "nvidia-h100-80gb", groups[0].GPU.ID)

	h100 := groups[0]
	require.Len(t, h100.Offerings, 2)
	assert.Equal(t, 0.99, h100.Cheapest.Pricing.PricePerHour)
	assert.Equal(t, models.PriceSpot, h100.BestValue.Pricing.PriceType)
	assert.InDelta(t, 62.5, h100.AverageAvailability, 1e-9)
}

func TestSortBy(t *testing.T) {
	e := danglingEngine(t)

	offerings := e.All()
	SortBy(offerings, ByPrice, false)
	assert.Equal(t, []float64{0.69, 0.89, 1.10}, prices(offerings))

	SortBy(offerings, ByPrice, true)
	assert.Equal(t, []float64{1.10, 0.89, 0.69}, prices(offerings))

	SortBy(offerings, ByAvailability, true)
	assert.Equal(t, 95.0, offerings[0].Pricing.AvailabilityScore)

	SortBy(offerings, ByProvider, false)
	assert.Equal(t, "alpha", offerings[0].Provider.Name)

	SortBy(offerings, ByGPU, false)
	assert.Equal(t, "g1", offerings[0].GPU.ID)

	original := e.All()
	_ = Sorted(original, ByPrice, true)
	assert.Equal(t, []float64{1.10, 0.89, 0.69}, prices(original))
}

func prices(offerings []models.Offering) []float64 {
	out := make([]float64, len(offerings))
	for i, o := range offerings {
		out[i] = o.Pricing.PricePerHour
	}
	return out
}

func TestParseSort(t *testing.T) {
	tests := []struct {
		key, order string
		wantKey    string
		wantDesc   bool
		wantErr    bool
	}{
		{key: "", order: "", wantKey: ByPrice},
		{key: "price", order: "desc", wantKey: ByPrice, wantDesc: true},
		{key: "Value", order: "", wantKey: ByValue, wantDesc: true},
		{key: "performance", order: "asc", wantKey: ByPerformance},
		{key: "availability", order: "", wantKey: ByAvailability, wantDesc: true},
		{key: "gpu", order: "", wantKey: ByGPU},
		{key: "savings", wantErr: true},
		{key: "price", order: "sideways", wantErr: true},
	}

	for _, tc := range tests {
		key, desc, err := ParseSort(tc.key, tc.order)
		if tc.wantErr {
			assert.Error(t, err, "%s/%s", tc.key, tc.order)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tc.wantKey, key)
		assert.Equal(t, tc.wantDesc, desc)
	}
}

func TestFilter(t *testing.T) {
	e, _ := defaultEngine(t)
	all := e.All()

	amd := Filter{Vendor: "amd"}.Apply(all)
	require.NotEmpty(t, amd)
	for _, o := range amd {
		assert.Equal(t, models.VendorAMD, o.GPU.Vendor)
	}

	spot := Filter{PriceType: models.PriceSpot}.Apply(all)
	assert.Len(t, spot, 2)

	cheapBig := Filter{MinVRAM: 80, MaxPrice: 1.0}.Apply(all)
	for _, o := range cheapBig {
		assert.GreaterOrEqual(t, o.GPU.VRAM, 80)
		assert.LessOrEqual(t, o.Pricing.PricePerHour, 1.0)
	}
	assert.Len(t, cheapBig, 3)

	assert.Len(t, Filter{}.Apply(all), len(all))
	assert.True(t, Filter{MinVRAM: 192}.MatchGPU(testGPU("x", 192, 1, 1)))
	assert.False(t, Filter{Vendor: models.VendorAMD}.MatchGPU(testGPU("x", 192, 1, 1)))
}

func TestEstimateCost(t *testing.T) {
	o := Build(testGPU("g", 80, 312, 2), testProvider("p", "P"), testPricing("g", "p", 0.89, 90))

	estimate, err := EstimateCost(o, 48)
	require.NoError(t, err)
	assert.Equal(t, "42.72", estimate.Total)
	assert.Equal(t, "48", estimate.Hours)

	estimate, err = EstimateCost(o, 1.5)
	require.NoError(t, err)
	assert.Equal(t, "1.34", estimate.Total)

	for _, hours := range []float64{0, -1, math.Inf(1), math.NaN()} {
		_, err = EstimateCost(o, hours)
		assert.Error(t, err)
	}
}

func TestEstimateCosts_CheapestFirst(t *testing.T) {
	e, _ := defaultEngine(t)

	estimates, err := EstimateCosts(e.ForGPU("nvidia-t4"), 10)
	require.NoError(t, err)
	require.Len(t, estimates, 3)
	assert.Equal(t, "1.80", estimates[0].Total)
	assert.Equal(t, "2.90", estimates[1].Total)
	assert.Equal(t, "3.50", estimates[2].Total)
}

func TestSummarizeGPUs_KeepsOrder(t *testing.T) {
	e, store := defaultEngine(t)
	gpus := store.GPUs()

	summaries, err := e.WithWorkers(3).SummarizeGPUs(gpus)
	require.NoError(t, err)
	require.Len(t, summaries, len(gpus))

	for i, s := range summaries {
		assert.Equal(t, gpus[i].ID, s.GPU.ID)
		assert.Equal(t, scoring.PerformanceScore(gpus[i]), s.PerformanceScore)
	}

	a100 := summaries[4]
	assert.Equal(t, "nvidia-a100-80gb", a100.GPU.ID)
	require.NotNil(t, a100.LowestPrice)
	assert.Equal(t, 0.40, *a100.LowestPrice)
	require.NotNil(t, a100.AverageAvailability)
	assert.InDelta(t, 85.0, *a100.AverageAvailability, 1e-9)
	assert.Equal(t, 2, a100.ProviderCount)
	require.NotNil(t, a100.BestValueScore)
	assert.Equal(t, e.BestValue(1)[0].ValueScore, *a100.BestValueScore)

	empty, err := e.SummarizeGPUs(nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestSummarizeGPUs_NoOfferings(t *testing.T) {
	store, err := catalog.New([]models.GPU{testGPU("lonely", 8, 10, 0.2)}, nil, nil)
	require.NoError(t, err)

	summaries, err := New(store).SummarizeGPUs(store.GPUs())
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Nil(t, summaries[0].LowestPrice)
	assert.Nil(t, summaries[0].AverageAvailability)
	assert.Nil(t, summaries[0].BestValueScore)
	assert.Equal(t, 0, summaries[0].ProviderCount)
}

func TestSummarizeProviders(t *testing.T) {
	e, store := defaultEngine(t)

	rows := e.SummarizeProviders(store.Providers())
	require.Len(t, rows, 15)

	byID := make(map[string]models.ProviderSummary)
	for _, r := range rows {
		byID[r.Provider.ID] = r
	}
	vast := byID["vast-ai"]
	assert.Equal(t, 5, vast.OfferingCount)
	require.NotNil(t, vast.LowestPrice)
	assert.Equal(t, 0.18, *vast.LowestPrice)

	aws := byID["aws-ec2"]
	assert.Equal(t, 0, aws.OfferingCount)
	assert.Nil(t, aws.LowestPrice)
	assert.Nil(t, aws.AverageAvailability)
}

func TestGPUDetail(t *testing.T) {
	e, _ := defaultEngine(t)

	detail, err := e.GPUDetail("nvidia-rtx-4090")
	require.NoError(t, err)
	assert.Equal(t, "nvidia-rtx-4090", detail.Summary.GPU.ID)
	require.Len(t, detail.Offerings, 2)
	assert.Equal(t, "vast-ai", detail.Offerings[0].Provider.ID)
	assert.Equal(t, "runpod", detail.Best.HighestAvailability.Provider.ID)
	assert.Len(t, detail.Providers, 2)

	_, err = e.GPUDetail("nonexistent-id")
	assert.True(t, errors.Is(err, catalog.ErrNotFound))
}

func TestProviderDetail(t *testing.T) {
	e, _ := defaultEngine(t)

	detail, err := e.ProviderDetail("vultr")
	require.NoError(t, err)
	assert.Equal(t, 4, detail.Summary.OfferingCount)
	require.NotNil(t, detail.HighestPrice)
	assert.Equal(t, 36.92, *detail.HighestPrice)
	assert.Equal(t, 2, detail.TotalRegions)
	require.Len(t, detail.Groups, 4)
	require.NotNil(t, detail.MostAffordable)
	assert.Equal(t, "amd-mi210", detail.MostAffordable.GPU.ID)

	empty, err := e.ProviderDetail("azure")
	require.NoError(t, err)
	assert.Empty(t, empty.Groups)
	assert.Nil(t, empty.MostAffordable)
	assert.Nil(t, empty.HighestPrice)
	assert.Equal(t, 1, empty.TotalRegions)

	_, err = e.ProviderDetail("nonexistent-id")
	assert.True(t, errors.Is(err, catalog.ErrNotFound))
}
