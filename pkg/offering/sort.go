package offering

import (
	"sort"
	"strings"

	"github.com/pkg/errors"

	"gpurouter/pkg/models"
)

// Sort keys accepted on the command line and in queries.
const (
	ByPrice        = "price"
	ByValue        = "value"
	ByPerformance  = "performance"
	ByAvailability = "availability"
	ByGPU          = "gpu"
	ByProvider     = "provider"
)

// SortKeys lists the valid sort keys.
var SortKeys = []string{ByPrice, ByValue, ByPerformance, ByAvailability, ByGPU, ByProvider}

//---- public types

// PriceOrder implements sort.Interface based on the hourly price
type PriceOrder []models.Offering

func (a PriceOrder) Len() int           { return len(a) }
func (a PriceOrder) Less(i, j int) bool { return a[i].Pricing.PricePerHour < a[j].Pricing.PricePerHour }
func (a PriceOrder) Swap(i, j int)      { a[i], a[j] = a[j], a[i] }

// ValueOrder implements sort.Interface based on the value score
type ValueOrder []models.Offering

func (a ValueOrder) Len() int           { return len(a) }
func (a ValueOrder) Less(i, j int) bool { return a[i].ValueScore < a[j].ValueScore }
func (a ValueOrder) Swap(i, j int)      { a[i], a[j] = a[j], a[i] }

// PerformanceOrder implements sort.Interface based on the performance score
type PerformanceOrder []models.Offering

func (a PerformanceOrder) Len() int           { return len(a) }
func (a PerformanceOrder) Less(i, j int) bool { return a[i].PerformanceScore < a[j].PerformanceScore }
func (a PerformanceOrder) Swap(i, j int)      { a[i], a[j] = a[j], a[i] }

// AvailabilityOrder implements sort.Interface based on the availability score
type AvailabilityOrder []models.Offering

func (a AvailabilityOrder) Len() int { return len(a) }
func (a AvailabilityOrder) Less(i, j int) bool {
	return a[i].Pricing.AvailabilityScore < a[j].Pricing.AvailabilityScore
}
func (a AvailabilityOrder) Swap(i, j int) { a[i], a[j] = a[j], a[i] }

// GPUNameOrder implements sort.Interface based on the GPU name (case-insensitive)
type GPUNameOrder []models.Offering

func (a GPUNameOrder) Len() int { return len(a) }
func (a GPUNameOrder) Less(i, j int) bool {
	return strings.ToLower(a[i].GPU.Name) < strings.ToLower(a[j].GPU.Name)
}
func (a GPUNameOrder) Swap(i, j int) { a[i], a[j] = a[j], a[i] }

// ProviderNameOrder implements sort.Interface based on the provider name (case-insensitive)
type ProviderNameOrder []models.Offering

func (a ProviderNameOrder) Len() int { return len(a) }
func (a ProviderNameOrder) Less(i, j int) bool {
	return strings.ToLower(a[i].Provider.Name) < strings.ToLower(a[j].Provider.Name)
}
func (a ProviderNameOrder) Swap(i, j int) { a[i], a[j] = a[j], a[i] }

// SortBy sorts offerings in place by key. Ties keep their current order in
// both directions.
func SortBy(offerings []models.Offering, key string, desc bool) {
	var data sort.Interface

	switch key {
	case ByValue:
		data = ValueOrder(offerings)
	case ByPerformance:
		data = PerformanceOrder(offerings)
	case ByAvailability:
		data = AvailabilityOrder(offerings)
	case ByGPU:
		data = GPUNameOrder(offerings)
	case ByProvider:
		data = ProviderNameOrder(offerings)
	default:
		data = PriceOrder(offerings)
	}

	if desc {
		data = sort.Reverse(data)
	}

	sort.Stable(data)
}

// Sorted returns a sorted copy, leaving the input untouched.
func Sorted(offerings []models.Offering, key string, desc bool) []models.Offering {
	out := append([]models.Offering(nil), offerings...)
	SortBy(out, key, desc)
	return out
}

// ParseSort validates a sort key and order ("asc" or "desc"). An empty order
// picks the natural direction of the key: ascending for price and names,
// descending for scores.
func ParseSort(key, order string) (string, bool, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		key = ByPrice
	}
	valid := false
	for _, k := range SortKeys {
		if k == key {
			valid = true
			break
		}
	}
	if !valid {
		return "", false, errors.Errorf("invalid sort key %q, must be one of %s", key, strings.Join(SortKeys, "|"))
	}

	switch strings.ToLower(order) {
	case "asc":
		return key, false, nil
	case "desc":
		return key, true, nil
	case "":
		return key, key == ByValue || key == ByPerformance || key == ByAvailability, nil
	default:
		return "", false, errors.Errorf("invalid sort order %q, must be asc|desc", order)
	}
}
