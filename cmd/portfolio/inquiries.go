package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"portfolio/internal/app"
)

func newInquiriesCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "inquiries [id]",
		Short: "Count stored contact inquiries, or show one by id",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !c.cfg.Database.Enabled() {
				return fmt.Errorf("inquiries: %w", app.ErrNoStore)
			}
			store, closeDB, err := c.openInquiries(cmd.Context())
			if err != nil {
				return err
			}
			defer closeDB()

			out := cmd.OutOrStdout()
			if len(args) == 0 {
				n, err := store.Count(cmd.Context())
				if err != nil {
					return fmt.Errorf("count inquiries: %w", err)
				}
				fmt.Fprintf(out, "%d inquiries\n", n)
				return nil
			}

			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("inquiry id %q: %w", args[0], err)
			}
			inq, err := store.Get(cmd.Context(), id)
			if errors.Is(err, app.ErrInquiryNotFound) {
				return fmt.Errorf("no inquiry %s", id)
			}
			if err != nil {
				return fmt.Errorf("get inquiry: %w", err)
			}
			fmt.Fprintf(out, "id: %s\nlocale: %s\ncreated: %s\nname: %s\nemail: %s\n\n%s\n",
				inq.ID, inq.Locale, inq.CreatedAt.UTC().Format(time.RFC3339), inq.Name, inq.Email, inq.Message)
			return nil
		},
	}
}

// openInquiries connects to the configured database, creates the schema and
// returns the inquiry store with a func that closes the pool.
func (c *cli) openInquiries(ctx context.Context) (*app.InquiryStore, func(), error) {
	if ctx == nil {
		ctx = context.Background()
	}
	db, err := app.NewDB(c.cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("open db: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("ping db: %w", err)
	}
	if err := app.Migrate(pingCtx, db, c.cfg.Database.Driver); err != nil {
		db.Close()
		return nil, nil, err
	}

	store := app.NewInquiryStore(db, c.cfg.Database.Driver)
	if n, err := store.Count(pingCtx); err == nil {
		c.logger.Info("inquiry store ready",
			zap.String("driver", c.cfg.Database.Driver), zap.Int("inquiries", n))
	}
	return store, func() { db.Close() }, nil
}
