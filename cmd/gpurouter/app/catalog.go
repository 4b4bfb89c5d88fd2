package app

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"gpurouter/pkg/known"
	"gpurouter/pkg/models"
	"gpurouter/pkg/offering"
	"gpurouter/pkg/options"
	"gpurouter/pkg/render"
)

func newGPUsCommand(global *options.GlobalOptions) *cobra.Command {
	opts := options.NewCatalogOptions()
	cmd := &cobra.Command{
		Use:   "gpus",
		Short: "list the GPU catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunGPUs(cmd, global, opts)
		},
	}
	opts.AddFlags(cmd.Flags())
	return cmd
}

func RunGPUs(cmd *cobra.Command, global *options.GlobalOptions, opts *options.CatalogOptions) error {
	printer, err := newPrinter(cmd, global)
	if err != nil {
		return err
	}
	filter, err := opts.Filter()
	if err != nil {
		return err
	}
	key, desc, err := opts.SortOrder()
	if err != nil {
		return err
	}
	if key == offering.ByProvider {
		return errors.Errorf("sort key %q does not apply to the gpu list", key)
	}
	store, err := loadStore(global)
	if err != nil {
		return err
	}

	var gpus []models.GPU
	for _, gpu := range store.GPUs() {
		if filter.MatchGPU(gpu) {
			gpus = append(gpus, gpu)
		}
	}
	summaries, err := offering.New(store).SummarizeGPUs(gpus)
	if err != nil {
		return err
	}
	sortSummaries(summaries, key, desc)

	return printer.Print(summaries, func(w io.Writer) {
		for _, section := range byVendor(summaries) {
			render.GPUTable(w, fmt.Sprintf("%s GPUs", section[0].GPU.Vendor), section)
		}
	})
}

// sortSummaries orders catalog rows. Rows without offerings sort last on
// price, value and availability whatever the direction.
func sortSummaries(rows []models.GPUSummary, key string, desc bool) {
	less := func(a, b models.GPUSummary) (bool, bool) {
		switch key {
		case offering.ByPerformance:
			return a.PerformanceScore < b.PerformanceScore, a.PerformanceScore == b.PerformanceScore
		case offering.ByValue:
			return ptrLess(a.BestValueScore, b.BestValueScore)
		case offering.ByAvailability:
			return ptrLess(a.AverageAvailability, b.AverageAvailability)
		case offering.ByGPU:
			x, y := strings.ToLower(a.GPU.Name), strings.ToLower(b.GPU.Name)
			return x < y, x == y
		default:
			return ptrLess(a.LowestPrice, b.LowestPrice)
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if key == offering.ByPrice || key == offering.ByValue || key == offering.ByAvailability {
			ma, mb := missing(a, key), missing(b, key)
			if ma != mb {
				return mb
			}
			if ma {
				return false
			}
		}
		lt, eq := less(a, b)
		if eq {
			return false
		}
		if desc {
			return !lt
		}
		return lt
	})
}

func missing(s models.GPUSummary, key string) bool {
	switch key {
	case offering.ByAvailability:
		return s.AverageAvailability == nil
	case offering.ByValue:
		return s.BestValueScore == nil
	}
	return s.LowestPrice == nil
}

func ptrLess(a, b *float64) (bool, bool) {
	if a == nil || b == nil {
		return false, true
	}
	return *a < *b, *a == *b
}

// byVendor splits rows into per-vendor sections in first-seen order.
func byVendor(rows []models.GPUSummary) [][]models.GPUSummary {
	index := map[models.Vendor]int{}
	var sections [][]models.GPUSummary
	for _, row := range rows {
		i, ok := index[row.GPU.Vendor]
		if !ok {
			i = len(sections)
			index[row.GPU.Vendor] = i
			sections = append(sections, nil)
		}
		sections[i] = append(sections[i], row)
	}
	return sections
}

func newGPUCommand(global *options.GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "gpu <gpu-id>",
		Short: "show one GPU with its offerings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunGPU(cmd, global, args[0])
		},
	}
}

func RunGPU(cmd *cobra.Command, global *options.GlobalOptions, id string) error {
	printer, err := newPrinter(cmd, global)
	if err != nil {
		return err
	}
	store, err := loadStore(global)
	if err != nil {
		return err
	}
	detail, err := offering.New(store).GPUDetail(id)
	if err != nil {
		return err
	}
	return printer.Print(detail, func(w io.Writer) {
		render.KeyValueTable(w, detail.Summary.GPU.Name, render.GPUFacts(detail.Summary))
		render.HighlightsTable(w, "Highlights", detail.Best)
		render.OfferingTable(w, "Offerings by price", detail.Offerings)
		render.OfferingTable(w, "Offerings by value", offering.Sorted(detail.Offerings, offering.ByValue, true))
		render.OfferingTable(w, "Offerings by availability", offering.Sorted(detail.Offerings, offering.ByAvailability, true))
	})
}

// Comparison per-GPU comparison view
type Comparison struct {
	GPU        models.GPU             `json:"gpu" yaml:"gpu"`
	Offerings  []models.Offering      `json:"offerings" yaml:"offerings"`
	Highlights models.Highlights      `json:"highlights" yaml:"highlights"`
	Providers  []models.ProviderGroup `json:"providers" yaml:"providers"`
}

func newCompareCommand(global *options.GlobalOptions) *cobra.Command {
	opts := options.NewCatalogOptions()
	cmd := &cobra.Command{
		Use:   "compare <gpu-id>",
		Short: "compare every provider offering one GPU",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunCompare(cmd, global, opts, args[0])
		},
	}
	opts.AddFlags(cmd.Flags())
	return cmd
}

func RunCompare(cmd *cobra.Command, global *options.GlobalOptions, opts *options.CatalogOptions, id string) error {
	printer, err := newPrinter(cmd, global)
	if err != nil {
		return err
	}
	filter, err := opts.Filter()
	if err != nil {
		return err
	}
	key, desc, err := opts.SortOrder()
	if err != nil {
		return err
	}
	store, err := loadStore(global)
	if err != nil {
		return err
	}
	gpu, err := store.MustGPU(id)
	if err != nil {
		return err
	}

	offerings := filter.Apply(offering.New(store).ForGPU(id))
	view := Comparison{
		GPU:        gpu,
		Offerings:  offering.Sorted(offerings, key, desc),
		Highlights: offering.Highlights(offerings),
		Providers:  offering.GroupByProvider(offerings),
	}
	return printer.Print(view, func(w io.Writer) {
		render.OfferingTable(w, fmt.Sprintf("%s offerings", gpu.Name), view.Offerings)
		render.HighlightsTable(w, "Highlights", view.Highlights)
		render.ProviderGroupsTable(w, "By provider", view.Providers)
	})
}

func newTopCommand(global *options.GlobalOptions) *cobra.Command {
	opts := options.NewTopOptions()
	cmd := &cobra.Command{
		Use:   "top",
		Short: "rank offerings by value or performance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunTop(cmd, global, opts)
		},
	}
	opts.AddFlags(cmd.Flags())
	return cmd
}

func RunTop(cmd *cobra.Command, global *options.GlobalOptions, opts *options.TopOptions) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	printer, err := newPrinter(cmd, global)
	if err != nil {
		return err
	}
	store, err := loadStore(global)
	if err != nil {
		return err
	}
	engine := offering.New(store)

	ranked, title := engine.BestValue(opts.Limit), "Best Value"
	if opts.By == known.PerformanceMode {
		ranked, title = engine.Fastest(opts.Limit), "Fastest"
	}
	return printer.Print(ranked, func(w io.Writer) {
		render.OfferingTable(w, title, ranked)
	})
}

func newCostCommand(global *options.GlobalOptions) *cobra.Command {
	opts := options.NewCostOptions()
	cmd := &cobra.Command{
		Use:   "cost <gpu-id>",
		Short: "estimate the rental cost of one GPU at every provider",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunCost(cmd, global, opts, args[0])
		},
	}
	opts.AddFlags(cmd.Flags())
	return cmd
}

func RunCost(cmd *cobra.Command, global *options.GlobalOptions, opts *options.CostOptions, id string) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	printer, err := newPrinter(cmd, global)
	if err != nil {
		return err
	}
	store, err := loadStore(global)
	if err != nil {
		return err
	}
	gpu, err := store.MustGPU(id)
	if err != nil {
		return err
	}
	estimates, err := offering.EstimateCosts(offering.New(store).ForGPU(id), opts.Hours)
	if err != nil {
		return err
	}
	return printer.Print(estimates, func(w io.Writer) {
		render.CostTable(w, fmt.Sprintf("%s for %v hours", gpu.Name, opts.Hours), estimates)
	})
}
