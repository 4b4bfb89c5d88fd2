// Package scoring derives performance and value scores from catalog records.
package scoring

import (
	"math"

	"gpurouter/pkg/known"
	"gpurouter/pkg/models"
)

// PerformanceScore blends VRAM, fp16 compute and memory bandwidth, each
// normalized against the fixed reference maxima. The result is not clamped.
func PerformanceScore(gpu models.GPU) float64 {
	vramScore := float64(gpu.VRAM) / known.ReferenceMaxVRAM * 100
	computeScore := gpu.TFLOPS.FP16 / known.ReferenceMaxFP16 * 100
	bandwidthScore := gpu.MemoryBandwidth / known.ReferenceMaxBandwidth * 100

	// explicit conversions stop the compiler from fusing multiply-add, which
	// would change results across architectures
	return float64(vramScore*known.VRAMWeight) + float64(computeScore*known.ComputeWeight) + float64(bandwidthScore*known.BandwidthWeight)
}

// ValueScore rates price per unit of performance, higher is better.
// It is floored at zero and has no upper bound. A GPU with zero performance
// divides by zero, which yields +Inf and therefore a score of 0.
func ValueScore(gpu models.GPU, pricing models.Pricing) float64 {
	pricePerformance := PricePerformance(gpu, pricing)
	return math.Max(0, 100-float64(pricePerformance*known.ValueScale))
}

// PricePerformance USD per hour per unit of normalized performance.
func PricePerformance(gpu models.GPU, pricing models.Pricing) float64 {
	performance := PerformanceScore(gpu)
	return pricing.PricePerHour / (performance / 100)
}
