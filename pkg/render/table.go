// Package render prints catalog views as terminal tables, JSON or YAML.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"gpurouter/pkg/models"
)

const (
	gpuColumn          = "GPU"
	vendorColumn       = "Vendor"
	vramColumn         = "VRAM GB"
	fp16Column         = "FP16 TFLOPS"
	bandwidthColumn    = "Bandwidth TB/s"
	performanceColumn  = "Performance"
	valueColumn        = "Value"
	priceColumn        = "USD/Hour"
	fromColumn         = "From USD/Hour"
	providersColumn    = "Providers"
	availabilityColumn = "Availability"
	providerColumn     = "Provider"
	typeColumn         = "Type"
	priceTypeColumn    = "Price Type"
	regionColumn       = "Region"
	reliabilityColumn  = "Reliability"
	uptimeColumn       = "Uptime %"
	offeringsColumn    = "Offerings"
	supportColumn      = "Support"
	hoursColumn        = "Hours"
	totalColumn        = "Total USD"
	rankColumn         = "#"
)

const unavailable = "N/A"

func newTable(w io.Writer, title string) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	if title != "" {
		t.SetTitle(title)
	}
	t.SetStyle(table.StyleLight)
	t.Style().Title.Align = text.AlignCenter
	return t
}

// scoreColumn colors a 0-100 score column by band.
func scoreColumn(name string) table.ColumnConfig {
	return table.ColumnConfig{
		Name:  name,
		Align: text.AlignRight,
		Transformer: func(val interface{}) string {
			score, ok := val.(float64)
			if !ok {
				return fmt.Sprint(val)
			}
			var color text.Color
			switch {
			case score >= 80:
				color = text.FgHiGreen
			case score >= 50:
				color = text.FgHiYellow
			case score >= 25:
				color = text.FgHiMagenta
			default:
				color = text.FgHiRed
			}
			return text.Colors{color}.Sprintf("%.1f", score)
		},
	}
}

func priceColumnConfig(name string) table.ColumnConfig {
	return table.ColumnConfig{
		Name:        name,
		Align:       text.AlignRight,
		Transformer: text.NewNumberTransformer("$%.2f"),
	}
}

func optionalPrice(v *float64) interface{} {
	if v == nil {
		return unavailable
	}
	return *v
}

func optionalBadge(v *float64) Badge {
	if v == nil {
		return AvailabilityFor(0, false)
	}
	return AvailabilityFor(*v, true)
}

// GPUTable prints the GPU catalog.
func GPUTable(w io.Writer, title string, rows []models.GPUSummary) {
	t := newTable(w, title)
	t.AppendHeader(table.Row{gpuColumn, vendorColumn, vramColumn, fp16Column, bandwidthColumn,
		performanceColumn, fromColumn, providersColumn, availabilityColumn})
	for _, row := range rows {
		t.AppendRow(table.Row{
			row.GPU.Name,
			row.GPU.Vendor,
			row.GPU.VRAM,
			row.GPU.TFLOPS.FP16,
			row.GPU.MemoryBandwidth,
			fmt.Sprintf("%s %.1f", PerformanceIndicator(row.PerformanceScore), row.PerformanceScore),
			optionalPrice(row.LowestPrice),
			row.ProviderCount,
			optionalBadge(row.AverageAvailability).String(),
		})
	}
	t.SetColumnConfigs([]table.ColumnConfig{priceColumnConfig(fromColumn)})
	t.Render()
}

// OfferingTable prints offerings in the order given.
func OfferingTable(w io.Writer, title string, offerings []models.Offering) {
	t := newTable(w, title)
	t.AppendHeader(table.Row{rankColumn, gpuColumn, providerColumn, priceTypeColumn, regionColumn,
		priceColumn, availabilityColumn, performanceColumn, valueColumn})
	for i, o := range offerings {
		t.AppendRow(table.Row{
			i + 1,
			o.GPU.Name,
			o.Provider.Name,
			o.Pricing.PriceType,
			o.Pricing.Region,
			o.Pricing.PricePerHour,
			AvailabilityFor(o.Pricing.AvailabilityScore, true).String(),
			o.PerformanceScore,
			o.ValueScore,
		})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		priceColumnConfig(priceColumn),
		scoreColumn(performanceColumn),
		scoreColumn(valueColumn),
	})
	t.Render()
}

// ProviderTable prints the provider list.
func ProviderTable(w io.Writer, title string, rows []models.ProviderSummary) {
	t := newTable(w, title)
	t.AppendHeader(table.Row{providerColumn, typeColumn, reliabilityColumn, uptimeColumn, supportColumn,
		offeringsColumn, fromColumn, availabilityColumn})
	for _, row := range rows {
		reliability := ReliabilityBadge(row.Provider.ReliabilityTier)
		t.AppendRow(table.Row{
			row.Provider.Name,
			row.Provider.Type,
			reliability.Icon + " " + reliability.String(),
			row.Provider.Uptime,
			row.Provider.SupportLevel,
			row.OfferingCount,
			optionalPrice(row.LowestPrice),
			optionalBadge(row.AverageAvailability).String(),
		})
	}
	t.SetColumnConfigs([]table.ColumnConfig{priceColumnConfig(fromColumn)})
	t.Render()
}

// ProviderGroupsTable prints offerings grouped per provider, merging the
// provider cell across each group.
func ProviderGroupsTable(w io.Writer, title string, groups []models.ProviderGroup) {
	t := newTable(w, title)
	t.AppendHeader(table.Row{providerColumn, gpuColumn, priceTypeColumn, regionColumn, priceColumn, availabilityColumn, valueColumn})
	for _, g := range groups {
		for _, o := range g.Offerings {
			t.AppendRow(table.Row{
				g.Provider.Name,
				o.GPU.Name,
				o.Pricing.PriceType,
				o.Pricing.Region,
				o.Pricing.PricePerHour,
				AvailabilityFor(o.Pricing.AvailabilityScore, true).String(),
				o.ValueScore,
			})
		}
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: providerColumn, AutoMerge: true, Align: text.AlignLeft},
		priceColumnConfig(priceColumn),
		scoreColumn(valueColumn),
	})
	t.Style().Options.SeparateRows = true
	t.Render()
}

// GPUGroupsTable prints a provider's offerings grouped per GPU.
func GPUGroupsTable(w io.Writer, title string, groups []models.GPUGroup) {
	t := newTable(w, title)
	t.AppendHeader(table.Row{gpuColumn, vramColumn, offeringsColumn, "Cheapest", "Best Value", availabilityColumn})
	for _, g := range groups {
		t.AppendRow(table.Row{
			g.GPU.Name,
			fmt.Sprintf("%d %s", g.GPU.VRAM, g.GPU.VRAMType),
			len(g.Offerings),
			fmt.Sprintf("$%.2f %s", g.Cheapest.Pricing.PricePerHour, g.Cheapest.Pricing.PriceType),
			fmt.Sprintf("$%.2f (%.1f)", g.BestValue.Pricing.PricePerHour, g.BestValue.ValueScore),
			AvailabilityFor(g.AverageAvailability, true).String(),
		})
	}
	t.Render()
}

// HighlightsTable prints the best value, lowest cost and highest availability
// picks.
func HighlightsTable(w io.Writer, title string, h models.Highlights) {
	t := newTable(w, title)
	t.AppendHeader(table.Row{"Pick", providerColumn, priceTypeColumn, priceColumn, availabilityColumn, valueColumn})
	add := func(label string, o *models.Offering) {
		if o == nil {
			t.AppendRow(table.Row{label, unavailable, "", unavailable, AvailabilityFor(0, false).String(), unavailable})
			return
		}
		t.AppendRow(table.Row{
			label,
			o.Provider.Name,
			o.Pricing.PriceType,
			o.Pricing.PricePerHour,
			AvailabilityFor(o.Pricing.AvailabilityScore, true).String(),
			o.ValueScore,
		})
	}
	add("💰 Best Value", h.BestValue)
	add("🏷️ Lowest Cost", h.LowestCost)
	add("📈 Highest Availability", h.HighestAvailability)
	t.SetColumnConfigs([]table.ColumnConfig{priceColumnConfig(priceColumn), scoreColumn(valueColumn)})
	t.Render()
}

// CostTable prints cost estimates.
func CostTable(w io.Writer, title string, estimates []models.CostEstimate) {
	t := newTable(w, title)
	t.AppendHeader(table.Row{providerColumn, priceTypeColumn, regionColumn, priceColumn, hoursColumn, totalColumn})
	for _, e := range estimates {
		t.AppendRow(table.Row{
			e.Offering.Provider.Name,
			e.Offering.Pricing.PriceType,
			e.Offering.Pricing.Region,
			e.Offering.Pricing.PricePerHour,
			e.Hours,
			"$" + e.Total,
		})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		priceColumnConfig(priceColumn),
		{Name: totalColumn, Align: text.AlignRight},
	})
	t.Render()
}

// KeyValueTable prints label/value pairs, used for detail headers.
func KeyValueTable(w io.Writer, title string, pairs [][2]string) {
	t := newTable(w, title)
	for _, p := range pairs {
		t.AppendRow(table.Row{p[0], p[1]})
	}
	t.Render()
}

// GPUFacts header pairs of a GPU detail view.
func GPUFacts(s models.GPUSummary) [][2]string {
	gpu := s.GPU
	lowest := unavailable
	if s.LowestPrice != nil {
		lowest = fmt.Sprintf("$%.2f/hr", *s.LowestPrice)
	}
	pairs := [][2]string{
		{"Vendor", string(gpu.Vendor)},
		{"Generation", gpu.Generation},
		{"Architecture", gpu.Architecture},
		{"VRAM", fmt.Sprintf("%d GB %s", gpu.VRAM, gpu.VRAMType)},
		{"FP16", fmt.Sprintf("%g TFLOPS", gpu.TFLOPS.FP16)},
		{"FP32", fmt.Sprintf("%g TFLOPS", gpu.TFLOPS.FP32)},
		{"Memory Bandwidth", fmt.Sprintf("%g TB/s", gpu.MemoryBandwidth)},
		{"Power Draw", fmt.Sprintf("%d W", gpu.PowerDraw)},
		{"Release Year", fmt.Sprint(gpu.ReleaseYear)},
		{"Performance", fmt.Sprintf("%s %.1f", PerformanceIndicator(s.PerformanceScore), s.PerformanceScore)},
		{"Lowest Price", lowest},
		{"Providers", fmt.Sprint(s.ProviderCount)},
		{"Availability", optionalBadge(s.AverageAvailability).String()},
	}
	if gpu.Interconnect != "" {
		pairs = append(pairs, [2]string{"Interconnect", gpu.Interconnect})
	}
	if len(gpu.Features) > 0 {
		pairs = append(pairs, [2]string{"Features", strings.Join(gpu.Features, ", ")})
	}
	return pairs
}

// ProviderFacts header pairs of a provider detail view.
func ProviderFacts(d models.ProviderDetail) [][2]string {
	p := d.Summary.Provider
	reliability := ReliabilityBadge(p.ReliabilityTier)
	priceRange := unavailable
	if d.Summary.LowestPrice != nil && d.HighestPrice != nil {
		priceRange = fmt.Sprintf("$%.2f - $%.2f/hr", *d.Summary.LowestPrice, *d.HighestPrice)
	}
	affordable := unavailable
	if d.MostAffordable != nil {
		affordable = fmt.Sprintf("%s @ $%.2f/hr", d.MostAffordable.GPU.Name, d.MostAffordable.Cheapest.Pricing.PricePerHour)
	}
	return [][2]string{
		{"Type", string(p.Type)},
		{"Website", p.Website},
		{"Reliability", reliability.Icon + " " + reliability.String()},
		{"Uptime", fmt.Sprintf("%g%%", p.Uptime)},
		{"Support", string(p.SupportLevel)},
		{"Regions", fmt.Sprintf("%s (%d total)", strings.Join(p.Regions, ", "), d.TotalRegions)},
		{"Price Range", priceRange},
		{"Most Affordable", affordable},
		{"Availability", optionalBadge(d.Summary.AverageAvailability).String()},
		{"Features", strings.Join(p.Features, ", ")},
	}
}
