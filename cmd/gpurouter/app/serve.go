package app

import (
	"context"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/spf13/cobra"

	"gpurouter/pkg/analytics"
	"gpurouter/pkg/chat"
	"gpurouter/pkg/options"
	"gpurouter/pkg/server"
)

func newServeCommand(ctx context.Context, global *options.GlobalOptions) *cobra.Command {
	opts := options.NewServeOptions()
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "serve the catalog views and the chat proxy over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunServe(ctx, global, opts)
		},
	}
	opts.AddFlags(cmd.Flags())
	return cmd
}

func RunServe(ctx context.Context, global *options.GlobalOptions, opts *options.ServeOptions) error {
	cfg, err := opts.ChatConfig()
	if err != nil {
		return err
	}
	completer, err := chat.NewClient(cfg)
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
	hlog.Infof("serving %d gpus, %d providers on %s (model %s)",
		len(store.GPUs()), len(store.Providers()), opts.Addr, cfg.Model)
	return server.New(opts.Addr, store, market, completer).Run(ctx)
}
