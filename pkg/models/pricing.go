package models

// PriceType billing model of a price point
type PriceType string

const (
	PriceOnDemand    PriceType = "on-demand"
	PriceSpot        PriceType = "spot"
	PriceReserved1yr PriceType = "reserved-1yr"
	PriceReserved3yr PriceType = "reserved-3yr"
)

func (p PriceType) Valid() bool {
	switch p {
	case PriceOnDemand, PriceSpot, PriceReserved1yr, PriceReserved3yr:
		return true
	}
	return false
}

// Availability hand-maintained label. AvailabilityScore is authoritative.
type Availability string

const (
	AvailabilityHigh     Availability = "high"
	AvailabilityMedium   Availability = "medium"
	AvailabilityLow      Availability = "low"
	AvailabilityWaitlist Availability = "waitlist"
)

func (a Availability) Valid() bool {
	switch a {
	case AvailabilityHigh, AvailabilityMedium, AvailabilityLow, AvailabilityWaitlist:
		return true
	}
	return false
}

// Pricing observed price point of one GPU at one provider
type Pricing struct {
	GPUID             string       `json:"gpuId" yaml:"gpuId"`
	ProviderID        string       `json:"providerId" yaml:"providerId"`
	PricePerHour      float64      `json:"pricePerHour" yaml:"pricePerHour"` // USD
	PriceType         PriceType    `json:"priceType" yaml:"priceType"`
	Availability      Availability `json:"availability" yaml:"availability"`
	AvailabilityScore float64      `json:"availabilityScore" yaml:"availabilityScore"` // 0-100
	Region            string       `json:"region" yaml:"region"`
	LastUpdated       string       `json:"lastUpdated" yaml:"lastUpdated"` // YYYY-MM-DD
	MinCommitment     string       `json:"minCommitment,omitempty" yaml:"minCommitment,omitempty"`
}
