package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"forcemap/internal/importer"
	"forcemap/internal/store"
)

var importCmd = &cobra.Command{
	Use:   "import CSV",
	Short: "Import a CSV case export into the store",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.Open(cfg.Store.DatabasePath, logger)
		if err != nil {
			return err
		}
		defer st.Close()

		res, err := importer.New(st, logger).ImportFile(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("imported %d cases (%d skipped)\n", res.Imported, res.Skipped)
		return nil
	},
}
