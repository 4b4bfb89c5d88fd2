package app

import (
	"io"
	"sort"

	"github.com/spf13/cobra"

	"gpurouter/pkg/analytics"
	"gpurouter/pkg/options"
	"gpurouter/pkg/render"
)

func newAnalyticsCommand(global *options.GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "analytics",
		Short: "show market analytics and catalog statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunAnalytics(cmd, global)
		},
	}
}

func RunAnalytics(cmd *cobra.Command, global *options.GlobalOptions) error {
	printer, err := newPrinter(cmd, global)
	if err != nil {
		return err
	}
	store, err := loadStore(global)
	if err != nil {
		return err
	}
	market, err := analytics.DefaultMarket()
	if err != nil {
		return err
	}
	report := analytics.Build(market, store)
	return printer.Print(report, func(w io.Writer) {
		render.AnalyticsReport(w, report, historyIDs(report.PriceHistory))
	})
}

// historyIDs lists every GPU id present in the price history, sorted.
func historyIDs(points []analytics.PricePoint) []string {
	seen := map[string]struct{}{}
	var ids []string
	for _, p := range points {
		for id := range p.Prices {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				ids = append(ids, id)
			}
		}
	}
	sort.Strings(ids)
	return ids
}
