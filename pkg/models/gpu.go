package models

// Vendor GPU manufacturer
type Vendor string

const (
	VendorNVIDIA Vendor = "NVIDIA"
	VendorAMD    Vendor = "AMD"
	VendorGoogle Vendor = "Google"
	VendorIntel  Vendor = "Intel"
	VendorAWS    Vendor = "AWS"
)

// Valid reports whether v is a known vendor.
func (v Vendor) Valid() bool {
	switch v {
	case VendorNVIDIA, VendorAMD, VendorGoogle, VendorIntel, VendorAWS:
		return true
	}
	return false
}

// GPU hardware SKU
type GPU struct {
	ID              string   `json:"id" yaml:"id"`
	Name            string   `json:"name" yaml:"name"`
	Generation      string   `json:"generation" yaml:"generation"`
	Vendor          Vendor   `json:"vendor" yaml:"vendor"`
	VRAM            int      `json:"vram" yaml:"vram"` // GB
	VRAMType        string   `json:"vramType" yaml:"vramType"`
	TFLOPS          TFLOPS   `json:"tflops" yaml:"tflops"`
	MemoryBandwidth float64  `json:"memoryBandwidth" yaml:"memoryBandwidth"` // TB/s
	Interconnect    string   `json:"interconnect,omitempty" yaml:"interconnect,omitempty"`
	PowerDraw       int      `json:"powerDraw" yaml:"powerDraw"` // watts
	ReleaseYear     int      `json:"releaseYear" yaml:"releaseYear"`
	Features        []string `json:"features" yaml:"features"`
	Architecture    string   `json:"architecture" yaml:"architecture"`
}

// TFLOPS compute throughput by precision. FP16 and FP32 are always set.
type TFLOPS struct {
	FP4  *float64 `json:"fp4,omitempty" yaml:"fp4,omitempty"`
	FP8  *float64 `json:"fp8,omitempty" yaml:"fp8,omitempty"`
	FP16 float64  `json:"fp16" yaml:"fp16"`
	FP32 float64  `json:"fp32" yaml:"fp32"`
	FP64 *float64 `json:"fp64,omitempty" yaml:"fp64,omitempty"`
}
