package app

import (
	"context"
	"flag"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/spf13/cobra"

	"gpurouter/pkg/catalog"
	"gpurouter/pkg/options"
	"gpurouter/pkg/render"
)

func NewGPURouterCommand(ctx context.Context) *cobra.Command {
	opts := options.NewGlobalOptions()
	cmd := &cobra.Command{
		Use:                   "gpurouter",
		Long:                  "compare GPU cloud prices, performance and availability across providers",
		DisableFlagsInUseLine: true,
		SilenceUsage:          true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := options.Bind(cmd.Flags(), opts.ConfigFile); err != nil {
				return err
			}
			level, err := options.ParseLogLevel(opts.LogLevel)
			if err != nil {
				return err
			}
			hlog.SetLevel(level)
			hlog.SetOutput(cmd.ErrOrStderr())
			return nil
		},
	}
	cmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)
	opts.AddFlags(cmd.PersistentFlags())

	cmd.AddCommand(
		newGPUsCommand(opts),
		newGPUCommand(opts),
		newCompareCommand(opts),
		newTopCommand(opts),
		newCostCommand(opts),
		newProvidersCommand(opts),
		newProviderCommand(opts),
		newAnalyticsCommand(opts),
		newServeCommand(ctx, opts),
	)
	return cmd
}

// loadStore returns the embedded catalog unless --catalog names a file.
func loadStore(opts *options.GlobalOptions) (*catalog.Store, error) {
	if opts.CatalogFile != "" {
		return catalog.LoadFile(opts.CatalogFile)
	}
	return catalog.Default()
}

func newPrinter(cmd *cobra.Command, opts *options.GlobalOptions) (*render.Printer, error) {
	return render.NewPrinter(cmd.OutOrStdout(), opts.Output)
}
