package models

// ProviderType cloud vendor category
type ProviderType string

const (
	ProviderHyperscaler ProviderType = "hyperscaler"
	ProviderSpecialized ProviderType = "specialized"
	ProviderMarketplace ProviderType = "marketplace"
	ProviderEmerging    ProviderType = "emerging"
)

// ProviderTypes in display order.
var ProviderTypes = []ProviderType{ProviderSpecialized, ProviderHyperscaler, ProviderMarketplace, ProviderEmerging}

func (t ProviderType) Valid() bool {
	switch t {
	case ProviderHyperscaler, ProviderSpecialized, ProviderMarketplace, ProviderEmerging:
		return true
	}
	return false
}

// SupportLevel provider support offering
type SupportLevel string

const (
	SupportEnterprise SupportLevel = "enterprise"
	SupportStandard   SupportLevel = "standard"
	SupportCommunity  SupportLevel = "community"
)

func (s SupportLevel) Valid() bool {
	switch s {
	case SupportEnterprise, SupportStandard, SupportCommunity:
		return true
	}
	return false
}

// ReliabilityTier 1 is the most reliable, 3 the least.
type ReliabilityTier int

func (t ReliabilityTier) Valid() bool {
	return t >= 1 && t <= 3
}

// Provider cloud vendor
type Provider struct {
	ID              string          `json:"id" yaml:"id"`
	Name            string          `json:"name" yaml:"name"`
	Type            ProviderType    `json:"type" yaml:"type"`
	Website         string          `json:"website" yaml:"website"`
	Regions         []string        `json:"regions" yaml:"regions"`
	ReliabilityTier ReliabilityTier `json:"reliabilityTier" yaml:"reliabilityTier"`
	Uptime          float64         `json:"uptime" yaml:"uptime"` // percentage
	Features        []string        `json:"features" yaml:"features"`
	SupportLevel    SupportLevel    `json:"supportLevel" yaml:"supportLevel"`
}
