package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"portfolio/internal/app"
	"portfolio/internal/export"
	"portfolio/internal/i18n"
	"portfolio/internal/tools/linkgraph"
)

func newAuditCmd(c *cli) *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Render the site and report broken links, orphans and bad structured data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			srv, err := c.newSiteServer()
			if err != nil {
				return err
			}
			g, err := audit(cmd.Context(), srv, c.cfg.Origin, outPath)
			if err != nil {
				return err
			}
			c.logger.Info("audit finished",
				zap.Int("pages", g.Totals.Pages),
				zap.Int("links", g.Totals.Links),
				zap.Int("clusters", g.Totals.Clusters),
				zap.Int("problems", g.Totals.Problems))
			return report(cmd.OutOrStdout(), g)
		},
	}
	cmd.Flags().StringVar(&outPath, "out", "", "write the link graph as JSON to this path")
	return cmd
}

func audit(ctx context.Context, srv *app.Server, origin, outPath string) (linkgraph.Graph, error) {
	pages, err := export.Render(ctx, srv, 0)
	if err != nil {
		return linkgraph.Graph{}, err
	}
	static, err := srv.StaticFiles()
	if err != nil {
		return linkgraph.Graph{}, err
	}

	entries := make([]string, len(i18n.Supported))
	for i, l := range i18n.Supported {
		entries[i] = i18n.Path(l, "/")
	}
	return linkgraph.Build(linkgraph.Input{
		Origin:  origin,
		Pages:   pages,
		Files:   append(srv.RootFiles(), static...),
		Entries: entries,
	}, outPath)
}

// report prints every problem and fails when there is at least one.
func report(w io.Writer, g linkgraph.Graph) error {
	for _, p := range g.Problems {
		fmt.Fprintln(w, p)
	}
	if !g.OK() {
		return fmt.Errorf("audit found %d problems", len(g.Problems))
	}
	fmt.Fprintf(w, "ok: %d pages, %d links, %d clusters\n", g.Totals.Pages, g.Totals.Links, g.Totals.Clusters)
	return nil
}
