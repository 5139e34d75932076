package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"portfolio/internal/app"
	"portfolio/internal/content"
)

// cli carries the state shared by every command.
type cli struct {
	v       *viper.Viper
	cfgFile string
	cfg     app.Config
	logger  *zap.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{v: viper.New()}
	app.SetDefaults(c.v)

	root := &cobra.Command{
		Use:   "portfolio",
		Short: "Bilingual portfolio site server",
		Long: `portfolio serves the English/Arabic portfolio site: locale-prefixed pages,
canonical redirects, SEO metadata, JSON-LD, sitemap.xml and robots.txt.

Configuration comes from flags, PORTFOLIO_* environment variables (plus PORT,
SITE_URL, GA_ID, MYSQL_DSN and DATABASE_URL) and an optional portfolio.yaml.`,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.logger != nil {
				_ = c.logger.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.cfgFile, "config", "", "config file (default is ./portfolio.yaml)")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("site-url", "", "public origin used in canonical URLs")
	flags.String("content-dir", "", "directory of content tables (default is the bundled content)")
	_ = c.v.BindPFlag("log_level", flags.Lookup("log-level"))
	_ = c.v.BindPFlag("site_url", flags.Lookup("site-url"))
	_ = c.v.BindPFlag("content_dir", flags.Lookup("content-dir"))

	root.AddCommand(
		newServeCmd(c),
		newExportCmd(c),
		newValidateCmd(c),
		newAuditCmd(c),
		newInquiriesCmd(c),
	)
	return root
}

// setup reads the config file, resolves Config and builds the logger.
func (c *cli) setup(cmd *cobra.Command, args []string) error {
	if c.cfgFile != "" {
		c.v.SetConfigFile(c.cfgFile)
	} else {
		c.v.AddConfigPath(".")
		c.v.SetConfigName("portfolio")
		c.v.SetConfigType("yaml")
	}
	app.BindEnv(c.v)

	if err := c.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if c.cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}

	cfg, err := app.LoadConfig(c.v)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	c.cfg = cfg

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	c.logger = logger
	if used := c.v.ConfigFileUsed(); used != "" {
		logger.Debug("config file loaded", zap.String("path", used))
	}
	return nil
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(lvl)
	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// loadSite returns the configured content: the tables in content_dir, or
// the bundled content.
func (c *cli) loadSite() (*content.Site, error) {
	if c.cfg.ContentDir == "" {
		return content.Embedded()
	}
	site, err := content.LoadDir(c.cfg.ContentDir)
	if err != nil {
		return nil, fmt.Errorf("load content from %s: %w", c.cfg.ContentDir, err)
	}
	return site, nil
}

// newSiteServer builds a server over the configured content without an
// inquiry store.
func (c *cli) newSiteServer() (*app.Server, error) {
	site, err := c.loadSite()
	if err != nil {
		return nil, err
	}
	return app.NewServer(c.cfg, content.NewStore(site), nil, c.logger)
}
