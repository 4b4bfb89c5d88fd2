package app

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"gpurouter/pkg/models"
	"gpurouter/pkg/offering"
	"gpurouter/pkg/options"
	"gpurouter/pkg/render"
)

func newProvidersCommand(global *options.GlobalOptions) *cobra.Command {
	opts := options.NewProviderOptions()
	cmd := &cobra.Command{
		Use:   "providers",
		Short: "list cloud providers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunProviders(cmd, global, opts)
		},
	}
	opts.AddFlags(cmd.Flags())
	return cmd
}

func RunProviders(cmd *cobra.Command, global *options.GlobalOptions, opts *options.ProviderOptions) error {
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

	var providers []models.Provider
	for _, p := range store.Providers() {
		if opts.Type == "" || p.Type == models.ProviderType(opts.Type) {
			providers = append(providers, p)
		}
	}
	summaries := offering.New(store).SummarizeProviders(providers)

	return printer.Print(summaries, func(w io.Writer) {
		for _, t := range models.ProviderTypes {
			var section []models.ProviderSummary
			for _, s := range summaries {
				if s.Provider.Type == t {
					section = append(section, s)
				}
			}
			if len(section) > 0 {
				render.ProviderTable(w, fmt.Sprintf("%s (%d)", t, len(section)), section)
			}
		}
	})
}

func newProviderCommand(global *options.GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "provider <provider-id>",
		Short: "show one provider with its offerings grouped by GPU",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunProvider(cmd, global, args[0])
		},
	}
}

func RunProvider(cmd *cobra.Command, global *options.GlobalOptions, id string) error {
	printer, err := newPrinter(cmd, global)
	if err != nil {
		return err
	}
	store, err := loadStore(global)
	if err != nil {
		return err
	}
	detail, err := offering.New(store).ProviderDetail(id)
	if err != nil {
		return err
	}
	return printer.Print(detail, func(w io.Writer) {
		render.KeyValueTable(w, detail.Summary.Provider.Name, render.ProviderFacts(detail))
		render.GPUGroupsTable(w, "GPUs", detail.Groups)
	})
}
