package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"portfolio/internal/export"
)

func newExportCmd(c *cli) *cobra.Command {
	var (
		outDir      string
		concurrency int
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Render every page and SEO file into a static directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			srv, err := c.newSiteServer()
			if err != nil {
				return err
			}
			res, err := export.Run(cmd.Context(), srv, export.Options{
				OutDir:      outDir,
				Concurrency: concurrency,
				Logger:      c.logger,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d pages and %d files to %s\n", res.Pages, res.Files, outDir)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", "dist", "output directory")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "routes rendered at once (default GOMAXPROCS)")
	return cmd
}
