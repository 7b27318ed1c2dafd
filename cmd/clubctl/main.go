// Command clubctl inspects and administers the club ledger from a shell.
// It acts with the owner's authority.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/ismayilasim8-dot/Football-empire-bot/internal/access"
	"github.com/ismayilasim8-dot/Football-empire-bot/internal/config"
	"github.com/ismayilasim8-dot/Football-empire-bot/internal/storage"
	"github.com/ismayilasim8-dot/Football-empire-bot/internal/storage/backend"
	"github.com/ismayilasim8-dot/Football-empire-bot/internal/upgrade"
)

type app struct {
	databaseURL string
	cfg         config.Config
	store       storage.Store
	gate        *access.Gate
	policy      *upgrade.Policy
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	root, a := newRootCmd()
	err := root.ExecuteContext(ctx)
	if cerr := a.close(); err == nil {
		err = cerr
	}
	stop()
	if err != nil {
		config.Exitf("clubctl: %v", err)
	}
}

// newRootCmd builds the command tree. The caller closes the returned app
// after execution.
func newRootCmd() (*cobra.Command, *app) {
	a := &app{policy: upgrade.Default()}

	root := &cobra.Command{
		Use:           "clubctl",
		Short:         "Operate the club ledger",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.open(cmd.Context())
		},
	}
	root.PersistentFlags().StringVar(&a.databaseURL, "database", "", "database url (default $DATABASE_URL)")

	root.AddCommand(
		newClubsCmd(a),
		newAdminsCmd(a),
		newMaintenanceCmd(a),
	)
	return root, a
}

func (a *app) open(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if a.databaseURL != "" {
		cfg.DatabaseURL = a.databaseURL
	}
	store, _, err := backend.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	a.cfg = cfg
	a.store = store
	a.gate = access.NewGate(cfg.Owner(), store)
	return nil
}

func (a *app) close() error {
	if a.store == nil {
		return nil
	}
	err := a.store.Close()
	a.store = nil
	return err
}
