package main

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"portfolio/internal/app"
	"portfolio/internal/content"
	"portfolio/internal/seo"
)

func newValidateCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the content tables and the sitemap built from them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			site, err := c.loadSite()
			if err != nil {
				return err
			}
			srv, err := app.NewServer(c.cfg, content.NewStore(site), nil, c.logger)
			if err != nil {
				return err
			}
			n, err := validateSite(site, srv)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %d services, %d projects, %d posts, %d sitemap urls\n",
				len(site.Services), len(site.Projects), len(site.Posts), n)
			return nil
		},
	}
}

// validateSite checks content integrity, then renders the sitemap, parses it
// back and checks the URLs it lists. It returns the number of URLs.
func validateSite(site *content.Site, srv *app.Server) (int, error) {
	if err := content.Validate(site); err != nil {
		return 0, fmt.Errorf("content: %w", err)
	}

	var buf bytes.Buffer
	if err := seo.WriteXML(&buf, srv.SitemapEntries()); err != nil {
		return 0, err
	}
	locs, err := seo.ParseLocs(&buf)
	if err != nil {
		return 0, fmt.Errorf("sitemap: %w", err)
	}
	if err := srv.SEO().CheckSitemap(locs); err != nil {
		return 0, err
	}
	return len(locs), nil
}
