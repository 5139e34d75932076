package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"portfolio/internal/app"
	"portfolio/internal/content"
)

func newServeCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the site over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.serve(cmd.Context())
		},
	}
	flags := cmd.Flags()
	flags.String("port", "", "port to listen on (default 8080)")
	flags.Bool("watch", false, "reload content tables from --content-dir when they change")
	flags.Bool("negotiate-locale", false, "pick the locale of unprefixed URLs from Accept-Language")
	_ = c.v.BindPFlag("port", flags.Lookup("port"))
	_ = c.v.BindPFlag("watch_content", flags.Lookup("watch"))
	_ = c.v.BindPFlag("negotiate_locale", flags.Lookup("negotiate-locale"))
	return cmd
}

func (c *cli) serve(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	site, err := c.loadSite()
	if err != nil {
		return err
	}
	store := content.NewStore(site)

	var inquiries *app.InquiryStore
	if c.cfg.Database.Enabled() {
		store, closeDB, err := c.openInquiries(ctx)
		if err != nil {
			return err
		}
		defer closeDB()
		inquiries = store
	} else {
		c.logger.Warn("no database configured, contact form disabled")
	}

	handler, err := app.NewServer(c.cfg, store, inquiries, c.logger)
	if err != nil {
		return fmt.Errorf("init server: %w", err)
	}

	if c.cfg.WatchContent {
		go func() {
			if err := store.Watch(ctx, c.cfg.ContentDir, c.logger); err != nil {
				c.logger.Error("content: watch stopped", zap.Error(err))
			}
		}()
	}

	srv := &http.Server{
		Addr:         ":" + c.cfg.Port,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorLog:     zap.NewStdLog(c.logger),
	}

	errCh := make(chan error, 1)
	go func() {
		c.logger.Info("portfolio listening",
			zap.String("addr", srv.Addr),
			zap.String("origin", c.cfg.Origin),
			zap.String("default_locale", c.cfg.DefaultLocale.String()),
			zap.Bool("inquiries", inquiries != nil))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		c.logger.Error("graceful shutdown failed", zap.Error(err))
		return err
	}
	c.logger.Info("portfolio stopped")
	return nil
}
