package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"forcemap/internal/api"
	"forcemap/internal/importer"
	"forcemap/internal/store"
)

var watchCSV string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the REST API (and the rendered dashboard, if present)",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.Open(cfg.Store.DatabasePath, logger)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		g, ctx := errgroup.WithContext(ctx)

		srv := api.New(cfg.Server.Addr, st, cfg.Dashboard.OutputDir, logger)
		g.Go(func() error { return srv.Run(ctx) })

		if watchCSV != "" {
			w := importer.NewWatcher(importer.New(st, logger), watchCSV, logger)
			g.Go(func() error { return w.Run(ctx) })
		}

		return g.Wait()
	},
}

func init() {
	serveCmd.Flags().StringVar(&watchCSV, "watch", "", "CSV export to re-import on change")
}
