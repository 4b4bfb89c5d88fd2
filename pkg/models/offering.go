package models

// Offering - one pricing row joined to its GPU and provider, with derived scores.
// Built per query, never stored.
type Offering struct {
	GPU              GPU      `json:"gpu" yaml:"gpu"`
	Provider         Provider `json:"provider" yaml:"provider"`
	Pricing          Pricing  `json:"pricing" yaml:"pricing"`
	PerformanceScore float64  `json:"performanceScore" yaml:"performanceScore"`
	ValueScore       float64  `json:"valueScore" yaml:"valueScore"`
}

// GPUSummary catalog row for one GPU
type GPUSummary struct {
	GPU                 GPU      `json:"gpu" yaml:"gpu"`
	PerformanceScore    float64  `json:"performanceScore" yaml:"performanceScore"`
	LowestPrice         *float64 `json:"lowestPrice" yaml:"lowestPrice"`
	BestValueScore      *float64 `json:"bestValueScore" yaml:"bestValueScore"` // highest value score over its offerings
	AverageAvailability *float64 `json:"averageAvailability" yaml:"averageAvailability"`
	ProviderCount       int      `json:"providerCount" yaml:"providerCount"`
}

// ProviderSummary provider list row
type ProviderSummary struct {
	Provider            Provider `json:"provider" yaml:"provider"`
	OfferingCount       int      `json:"offeringCount" yaml:"offeringCount"`
	LowestPrice         *float64 `json:"lowestPrice" yaml:"lowestPrice"`
	AverageAvailability *float64 `json:"averageAvailability" yaml:"averageAvailability"`
}

// Highlights standout offerings for one GPU
type Highlights struct {
	BestValue           *Offering `json:"bestValue" yaml:"bestValue"`
	LowestCost          *Offering `json:"lowestCost" yaml:"lowestCost"`
	HighestAvailability *Offering `json:"highestAvailability" yaml:"highestAvailability"`
}

// ProviderGroup offerings of one provider, cheapest first
type ProviderGroup struct {
	Provider  Provider   `json:"provider" yaml:"provider"`
	Offerings []Offering `json:"offerings" yaml:"offerings"`
}

// GPUGroup offerings of one GPU at a single provider
type GPUGroup struct {
	GPU                 GPU        `json:"gpu" yaml:"gpu"`
	Offerings           []Offering `json:"offerings" yaml:"offerings"`
	Cheapest            Offering   `json:"cheapest" yaml:"cheapest"`
	BestValue           Offering   `json:"bestValue" yaml:"bestValue"`
	AverageAvailability float64    `json:"averageAvailability" yaml:"averageAvailability"`
}

// GPUDetail everything shown for a single GPU
type GPUDetail struct {
	Summary   GPUSummary      `json:"summary" yaml:"summary"`
	Offerings []Offering      `json:"offerings" yaml:"offerings"` // cheapest first
	Best      Highlights      `json:"highlights" yaml:"highlights"`
	Providers []ProviderGroup `json:"providers" yaml:"providers"`
}

// ProviderDetail everything shown for a single provider
type ProviderDetail struct {
	Summary        ProviderSummary `json:"summary" yaml:"summary"`
	HighestPrice   *float64        `json:"highestPrice" yaml:"highestPrice"`
	TotalRegions   int             `json:"totalRegions" yaml:"totalRegions"`
	Groups         []GPUGroup      `json:"groups" yaml:"groups"`
	MostAffordable *GPUGroup       `json:"mostAffordable" yaml:"mostAffordable"`
}

// CostEstimate total cost of one offering over a duration
type CostEstimate struct {
	Offering Offering `json:"offering" yaml:"offering"`
	Hours    string   `json:"hours" yaml:"hours"`
	Total    string   `json:"total" yaml:"total"` // USD, two decimals
}
