package render

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"gpurouter/pkg/analytics"
)

// AnalyticsReport prints every section of the analytics view.
func AnalyticsReport(w io.Writer, r analytics.Report, historyIDs []string) {
	StatsTable(w, "Catalog", r.Stats)
	PriceHistoryTable(w, "Price History (USD/Hour)", r.PriceHistory, historyIDs)
	TrendsTable(w, "Market Trends", r.Trends)
	ProviderShareTable(w, "Provider Market Share", r.ProviderShare)
	TopGPUsTable(w, "Most Used GPUs", r.TopGPUs)
}

// StatsTable prints catalog-derived statistics.
func StatsTable(w io.Writer, title string, s analytics.Stats) {
	pairs := [][2]string{
		{"GPUs", fmt.Sprint(s.GPUCount)},
		{"Providers", fmt.Sprint(s.ProviderCount)},
		{"Offerings", fmt.Sprint(s.OfferingCount)},
	}
	for _, c := range s.GPUsByVendor {
		pairs = append(pairs, [2]string{"Vendor " + c.Key, fmt.Sprint(c.Count)})
	}
	for _, c := range s.ProvidersByType {
		pairs = append(pairs, [2]string{"Type " + c.Key, fmt.Sprint(c.Count)})
	}
	pairs = append(pairs, [2]string{"Mean On-Demand", "$" + s.MeanOnDemandPrice + "/hr"})
	if s.Cheapest != nil {
		pairs = append(pairs, [2]string{"Cheapest", fmt.Sprintf("%s @ %s $%.2f/hr",
			s.Cheapest.GPU.Name, s.Cheapest.Provider.Name, s.Cheapest.Pricing.PricePerHour)})
	}
	if s.BestValue != nil {
		pairs = append(pairs, [2]string{"Best Value", fmt.Sprintf("%s @ %s (%.1f)",
			s.BestValue.GPU.Name, s.BestValue.Provider.Name, s.BestValue.ValueScore)})
	}
	KeyValueTable(w, title, pairs)
}

// PriceHistoryTable prints one row per month and one column per GPU id.
func PriceHistoryTable(w io.Writer, title string, points []analytics.PricePoint, ids []string) {
	t := newTable(w, title)
	header := table.Row{"Month"}
	configs := make([]table.ColumnConfig, 0, len(ids))
	for _, id := range ids {
		header = append(header, id)
		configs = append(configs, priceColumnConfig(id))
	}
	t.AppendHeader(header)
	for _, p := range points {
		row := table.Row{p.Month}
		for _, id := range ids {
			if price, ok := p.Prices[id]; ok {
				row = append(row, price)
			} else {
				row = append(row, unavailable)
			}
		}
		t.AppendRow(row)
	}
	t.SetColumnConfigs(configs)
	t.Render()
}

// TrendsTable prints market trend headlines.
func TrendsTable(w io.Writer, title string, trends []analytics.Trend) {
	t := newTable(w, title)
	t.AppendHeader(table.Row{"Trend", "Change", "Period", "Description"})
	for _, tr := range trends {
		color := text.Colors{text.FgHiGreen}
		if tr.Direction == "up" {
			color = text.Colors{text.FgHiRed}
		}
		t.AppendRow(table.Row{tr.Title, color.Sprint(tr.Change), tr.Period, tr.Description})
	}
	t.Render()
}

// ProviderShareTable prints provider market share.
func ProviderShareTable(w io.Writer, title string, shares []analytics.ProviderShare) {
	t := newTable(w, title)
	t.AppendHeader(table.Row{providerColumn, "Share %", "Growth", uptimeColumn})
	for _, s := range shares {
		t.AppendRow(table.Row{s.Name, s.MarketShare, s.Growth, s.Reliability})
	}
	t.SortBy([]table.SortBy{{Name: "Share %", Mode: table.DscNumeric}})
	t.Render()
}

// TopGPUsTable prints GPU usage share.
func TopGPUsTable(w io.Writer, title string, gpus []analytics.TopGPU) {
	t := newTable(w, title)
	t.AppendHeader(table.Row{gpuColumn, "Usage %", "Avg USD/Hour", "Trend"})
	for _, g := range gpus {
		t.AppendRow(table.Row{g.Name, g.Usage, g.AvgPrice, g.Trend})
	}
	t.SetColumnConfigs([]table.ColumnConfig{priceColumnConfig("Avg USD/Hour")})
	t.Render()
}
