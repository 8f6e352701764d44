package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"forcemap/internal/client"
)

var yearsCmd = &cobra.Command{
	Use:   "years",
	Short: "List the years available from the API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(cfg.Server.BaseURL, logger)
		years, err := c.Years(cmd.Context())
		if err != nil {
			return err
		}

		for _, y := range years {
			fmt.Println(y)
		}
		return nil
	},
}
