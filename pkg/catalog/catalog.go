// Package catalog holds the static GPU, provider and pricing records.
//
// The data is embedded at build time and loaded once into an immutable
// Store. Accessors hand out copies, so nothing outside this package can
// mutate the records after load.
package catalog

import (
	_ "embed"
	"os"
	"sync"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"gpurouter/pkg/models"
)

//go:embed catalog.yaml
var embeddedCatalog []byte

// ErrNotFound is returned by lookups of unknown ids.
var ErrNotFound = errors.New("not found")

var (
	loadDataOnce sync.Once
	defaultStore *Store
	defaultErr   error
)

// rawCatalog on-disk layout of catalog.yaml
type rawCatalog struct {
	GPUs      []models.GPU      `yaml:"gpus"`
	Providers []models.Provider `yaml:"providers"`
	Pricing   []models.Pricing  `yaml:"pricing"`
}

// Store read-only catalog indexed by id
type Store struct {
	gpus      []models.GPU
	providers []models.Provider
	pricing   []models.Pricing

	gpuIndex      map[string]int
	providerIndex map[string]int
}

// Default returns the embedded catalog, parsing it on first use.
func Default() (*Store, error) {
	loadDataOnce.Do(func() {
		defaultStore, defaultErr = Load(embeddedCatalog)
	})
	return defaultStore, defaultErr
}

// Load parses and validates a YAML catalog.
func Load(data []byte) (*Store, error) {
	var raw rawCatalog
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "failed to parse catalog")
	}
	return New(raw.GPUs, raw.Providers, raw.Pricing)
}

// LoadFile reads a catalog from disk instead of the embedded copy.
func LoadFile(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read catalog %s", path)
	}
	return Load(data)
}

// New builds a Store from records. Pricing rows pointing at unknown GPUs or
// providers are kept; the offering join skips them.
func New(gpus []models.GPU, providers []models.Provider, pricing []models.Pricing) (*Store, error) {
	s := &Store{
		gpus:          make([]models.GPU, 0, len(gpus)),
		providers:     make([]models.Provider, 0, len(providers)),
		pricing:       make([]models.Pricing, 0, len(pricing)),
		gpuIndex:      make(map[string]int, len(gpus)),
		providerIndex: make(map[string]int, len(providers)),
	}
	for _, gpu := range gpus {
		if err := validateGPU(gpu); err != nil {
			return nil, err
		}
		if _, ok := s.gpuIndex[gpu.ID]; ok {
			return nil, errors.Errorf("duplicate gpu id %q", gpu.ID)
		}
		s.gpuIndex[gpu.ID] = len(s.gpus)
		s.gpus = append(s.gpus, cloneGPU(gpu))
	}
	for _, provider := range providers {
		if err := validateProvider(provider); err != nil {
			return nil, err
		}
		if _, ok := s.providerIndex[provider.ID]; ok {
			return nil, errors.Errorf("duplicate provider id %q", provider.ID)
		}
		s.providerIndex[provider.ID] = len(s.providers)
		s.providers = append(s.providers, cloneProvider(provider))
	}
	for i, p := range pricing {
		if err := validatePricing(p); err != nil {
			return nil, errors.Wrapf(err, "pricing row %d", i)
		}
		s.pricing = append(s.pricing, p)
	}
	return s, nil
}

// GPUs returns every GPU in catalog order.
func (s *Store) GPUs() []models.GPU {
	out := make([]models.GPU, len(s.gpus))
	for i, gpu := range s.gpus {
		out[i] = cloneGPU(gpu)
	}
	return out
}

// Providers returns every provider in catalog order.
func (s *Store) Providers() []models.Provider {
	out := make([]models.Provider, len(s.providers))
	for i, provider := range s.providers {
		out[i] = cloneProvider(provider)
	}
	return out
}

// Pricing returns every pricing row in catalog order.
func (s *Store) Pricing() []models.Pricing {
	return append([]models.Pricing(nil), s.pricing...)
}

// GPU looks up a GPU by id.
func (s *Store) GPU(id string) (models.GPU, bool) {
	i, ok := s.gpuIndex[id]
	if !ok {
		return models.GPU{}, false
	}
	return cloneGPU(s.gpus[i]), true
}

// Provider looks up a provider by id.
func (s *Store) Provider(id string) (models.Provider, bool) {
	i, ok := s.providerIndex[id]
	if !ok {
		return models.Provider{}, false
	}
	return cloneProvider(s.providers[i]), true
}

// MustGPU is GPU with an error for unknown ids.
func (s *Store) MustGPU(id string) (models.GPU, error) {
	gpu, ok := s.GPU(id)
	if !ok {
		return models.GPU{}, errors.Wrapf(ErrNotFound, "gpu %q", id)
	}
	return gpu, nil
}

// MustProvider is Provider with an error for unknown ids.
func (s *Store) MustProvider(id string) (models.Provider, error) {
	provider, ok := s.Provider(id)
	if !ok {
		return models.Provider{}, errors.Wrapf(ErrNotFound, "provider %q", id)
	}
	return provider, nil
}

// PricingForGPU returns the pricing rows referencing gpuID.
func (s *Store) PricingForGPU(gpuID string) []models.Pricing {
	var out []models.Pricing
	for _, p := range s.pricing {
		if p.GPUID == gpuID {
			out = append(out, p)
		}
	}
	return out
}

// PricingForProvider returns the pricing rows referencing providerID.
func (s *Store) PricingForProvider(providerID string) []models.Pricing {
	var out []models.Pricing
	for _, p := range s.pricing {
		if p.ProviderID == providerID {
			out = append(out, p)
		}
	}
	return out
}

func validateGPU(gpu models.GPU) error {
	switch {
	case gpu.ID == "":
		return errors.New("gpu with empty id")
	case !gpu.Vendor.Valid():
		return errors.Errorf("gpu %q: invalid vendor %q", gpu.ID, gpu.Vendor)
	case gpu.VRAM <= 0:
		return errors.Errorf("gpu %q: vram must be positive", gpu.ID)
	case gpu.TFLOPS.FP16 <= 0:
		return errors.Errorf("gpu %q: fp16 throughput must be positive", gpu.ID)
	case gpu.TFLOPS.FP32 < 0:
		return errors.Errorf("gpu %q: fp32 throughput must not be negative", gpu.ID)
	case gpu.MemoryBandwidth <= 0:
		return errors.Errorf("gpu %q: memory bandwidth must be positive", gpu.ID)
	case gpu.PowerDraw <= 0:
		return errors.Errorf("gpu %q: power draw must be positive", gpu.ID)
	}
	for _, v := range []*float64{gpu.TFLOPS.FP4, gpu.TFLOPS.FP8, gpu.TFLOPS.FP64} {
		if v != nil && *v < 0 {
			return errors.Errorf("gpu %q: negative throughput", gpu.ID)
		}
	}
	return nil
}

func validateProvider(provider models.Provider) error {
	switch {
	case provider.ID == "":
		return errors.New("provider with empty id")
	case !provider.Type.Valid():
		return errors.Errorf("provider %q: invalid type %q", provider.ID, provider.Type)
	case len(provider.Regions) == 0:
		return errors.Errorf("provider %q: no regions", provider.ID)
	case !provider.ReliabilityTier.Valid():
		return errors.Errorf("provider %q: reliability tier must be 1, 2 or 3", provider.ID)
	case provider.Uptime < 0 || provider.Uptime > 100:
		return errors.Errorf("provider %q: uptime out of range", provider.ID)
	case !provider.SupportLevel.Valid():
		return errors.Errorf("provider %q: invalid support level %q", provider.ID, provider.SupportLevel)
	}
	return nil
}

func validatePricing(p models.Pricing) error {
	switch {
	case p.GPUID == "" || p.ProviderID == "":
		return errors.New("missing gpu or provider id")
	case p.PricePerHour < 0:
		return errors.Errorf("negative price %v", p.PricePerHour)
	case !p.PriceType.Valid():
		return errors.Errorf("invalid price type %q", p.PriceType)
	case !p.Availability.Valid():
		return errors.Errorf("invalid availability %q", p.Availability)
	case p.AvailabilityScore < 0 || p.AvailabilityScore > 100:
		return errors.Errorf("availability score %v out of range", p.AvailabilityScore)
	}
	if _, err := time.Parse(time.DateOnly, p.LastUpdated); err != nil {
		return errors.Wrapf(err, "invalid lastUpdated %q", p.LastUpdated)
	}
	return nil
}

func cloneGPU(gpu models.GPU) models.GPU {
	gpu.Features = append([]string(nil), gpu.Features...)
	gpu.TFLOPS.FP4 = cloneFloat(gpu.TFLOPS.FP4)
	gpu.TFLOPS.FP8 = cloneFloat(gpu.TFLOPS.FP8)
	gpu.TFLOPS.FP64 = cloneFloat(gpu.TFLOPS.FP64)
	return gpu
}

func cloneProvider(provider models.Provider) models.Provider {
	provider.Regions = append([]string(nil), provider.Regions...)
	provider.Features = append([]string(nil), provider.Features...)
	return provider
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
