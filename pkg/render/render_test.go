package render

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"gpurouter/pkg/analytics"
	"gpurouter/pkg/catalog"
	"gpurouter/pkg/models"
	"gpurouter/pkg/offering"
	"gpurouter/pkg/scoring"
)

func TestMain(m *testing.M) {
	text.DisableColors()
	os.Exit(m.Run())
}

func TestAvailabilityBadge(t *testing.T) {
	tests := []struct {
		score float64
		ok    bool
		want  string
	}{
		{score: 80, ok: true, want: "✅ High"},
		{score: 79, ok: true, want: "⚠️ Medium"},
		{score: 50, ok: true, want: "⚠️ Medium"},
		{score: 49, ok: true, want: "❌ Low"},
		{ok: false, want: "❌ N/A"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, AvailabilityFor(tc.score, tc.ok).Label)
	}
	assert.Equal(t, "✅ High", AvailabilityBadge(scoring.BandHigh).String())
}

func TestReliabilityBadge(t *testing.T) {
	one := ReliabilityBadge(1)
	assert.Equal(t, "Tier 1", one.Label)
	assert.Equal(t, "⭐⭐⭐", one.Icon)

	two := ReliabilityBadge(2)
	assert.Equal(t, "Tier 2", two.Label)
	assert.Equal(t, "⭐⭐", two.Icon)

	three := ReliabilityBadge(3)
	assert.Equal(t, "Tier 3", three.Label)
	assert.Equal(t, "⭐", three.Icon)
}

func TestPerformanceIndicator(t *testing.T) {
	assert.Equal(t, "⚡⚡⚡⚡⚡", PerformanceIndicator(87.7))
	assert.Equal(t, "⚡⚡⚡⚡", PerformanceIndicator(60))
	assert.Equal(t, "⚡⚡⚡", PerformanceIndicator(59.4))
	assert.Equal(t, "⚡⚡", PerformanceIndicator(35.8))
	assert.Equal(t, "⚡", PerformanceIndicator(18.2))
}

func engine(t *testing.T) *offering.Engine {
	t.Helper()
	store, err := catalog.Default()
	require.NoError(t, err)
	return offering.New(store)
}

func TestTables(t *testing.T) {
	e := engine(t)
	store, _ := catalog.Default()

	summaries, err := e.SummarizeGPUs(store.GPUs())
	require.NoError(t, err)
	gpuDetail, err := e.GPUDetail("nvidia-h100-80gb")
	require.NoError(t, err)
	providerDetail, err := e.ProviderDetail("runpod")
	require.NoError(t, err)
	estimates, err := offering.EstimateCosts(e.ForGPU("nvidia-t4"), 10)
	require.NoError(t, err)

	tests := []struct {
		name  string
		draw  func(w io.Writer)
		wants []string
	}{
		{
			name:  "gpu catalog",
			draw:  func(w io.Writer) { GPUTable(w, "GPUs", summaries) },
			wants: []string{"GPUs", "A100 80GB", "MI350X", "$0.40", "✅ High"},
		},
		{
			name:  "offerings",
			draw:  func(w io.Writer) { OfferingTable(w, "Best Value", e.BestValue(3)) },
			wants: []string{"Best Value", "RunPod", "spot", "$0.40", "78.0"},
		},
		{
			name:  "providers",
			draw:  func(w io.Writer) { ProviderTable(w, "", e.SummarizeProviders(store.Providers())) },
			wants: []string{"Lambda Labs", "Tier 1", "⭐⭐⭐", "❌ N/A"},
		},
		{
			name:  "provider groups",
			draw:  func(w io.Writer) { ProviderGroupsTable(w, "By provider", gpuDetail.Providers) },
			wants: []string{"Lambda Labs", "Nebius", "RunPod", "$0.99"},
		},
		{
			name:  "gpu groups",
			draw:  func(w io.Writer) { GPUGroupsTable(w, "", providerDetail.Groups) },
			wants: []string{"H100 80GB", "80 HBM3", "$0.99 spot"},
		},
		{
			name:  "highlights",
			draw:  func(w io.Writer) { HighlightsTable(w, "", gpuDetail.Best) },
			wants: []string{"Best Value", "Lowest Cost", "Highest Availability", "Lambda Labs"},
		},
		{
			name:  "empty highlights",
			draw:  func(w io.Writer) { HighlightsTable(w, "", models.Highlights{}) },
			wants: []string{"N/A"},
		},
		{
			name:  "costs",
			draw:  func(w io.Writer) { CostTable(w, "", estimates) },
			wants: []string{"Vast.ai", "$1.80", "$3.50"},
		},
		{
			name:  "gpu facts",
			draw:  func(w io.Writer) { KeyValueTable(w, "H100", GPUFacts(gpuDetail.Summary)) },
			wants: []string{"NVLink 4", "3.35 TB/s", "$0.99/hr"},
		},
		{
			name:  "provider facts",
			draw:  func(w io.Writer) { KeyValueTable(w, "RunPod", ProviderFacts(providerDetail)) },
			wants: []string{"Tier 2", "$0.29 - $2.39/hr", "T4 @ $0.29/hr"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			tc.draw(&buf)
			out := buf.String()
			for _, want := range tc.wants {
				assert.Contains(t, out, want)
			}
		})
	}
}

func TestPrinter(t *testing.T) {
	data := map[string]interface{}{"band": scoring.BandHigh, "price": 0.89}

	var buf bytes.Buffer
	p, err := NewPrinter(&buf, "json")
	require.NoError(t, err)
	require.NoError(t, p.Print(data, func(io.Writer) { t.Fatal("table called for json") }))

	var decoded map[string]interface{}
	require.NoError(t, sonic.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "High", decoded["band"])
	assert.Equal(t, 0.89, decoded["price"])

	buf.Reset()
	p, err = NewPrinter(&buf, "YAML")
	require.NoError(t, err)
	assert.Equal(t, "yaml", p.Format())
	require.NoError(t, p.Print(data, nil))
	var fromYAML map[string]interface{}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &fromYAML))
	assert.Equal(t, "High", fromYAML["band"])

	buf.Reset()
	p, err = NewPrinter(&buf, "")
	require.NoError(t, err)
	called := false
	require.NoError(t, p.Print(data, func(w io.Writer) {
		called = true
		_, _ = io.WriteString(w, "table")
	}))
	assert.True(t, called)
	assert.True(t, strings.HasPrefix(buf.String(), "table"))

	_, err = NewPrinter(&buf, "xml")
	assert.Error(t, err)
}

func TestAnalyticsReport(t *testing.T) {
	store, err := catalog.Default()
	require.NoError(t, err)
	market, err := analytics.DefaultMarket()
	require.NoError(t, err)

	var buf bytes.Buffer
	AnalyticsReport(&buf, analytics.Build(market, store), []string{"nvidia-h100-80gb", "nvidia-b200"})
	out := buf.String()

	for _, want := range []string{
		"Price History", "Oct 2025", "$2.10", "N/A",
		"H100 Price Drop", "-44%",
		"CoreWeave", "99.95",
		"A100 80GB", "stable",
		"Vendor NVIDIA", "Type specialized", "$2.01/hr", "T4 @ Vast.ai $0.18/hr",
	} {
		assert.Contains(t, out, want)
	}
}
