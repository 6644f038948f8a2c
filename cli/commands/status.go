package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/danny270793/myorm/cli/internal/ui"
	"github.com/danny270793/myorm/cli/internal/watch"
	"github.com/danny270793/myorm/runtime/store"
	"github.com/danny270793/myorm/runtime/types"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which migrations are applied",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

var statusWatch bool

func init() {
	statusCmd.Flags().BoolVarP(&statusWatch, "watch", "w", false, "Re-render whenever the SQLite database file changes")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if err := printStatus(ctx); err != nil {
		return err
	}
	if !statusWatch {
		return nil
	}

	if err := checkWatchable(settings.Provider, settings.Database); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	ui.PrintInfo("Watching %s (Ctrl+C to stop)", settings.Database)
	w := &watch.Watcher{
		File:     settings.Database,
		OnChange: func() error { return printStatus(ctx) },
	}
	return w.Run(ctx)
}

// checkWatchable rejects targets that have no database file to follow.
func checkWatchable(provider, database string) error {
	d, err := store.DialectFor(provider)
	if err != nil {
		return err
	}
	if d.Name != store.SQLite {
		return fmt.Errorf("--watch needs a SQLite database file, got provider %s", provider)
	}
	if database == ":memory:" {
		return fmt.Errorf("--watch cannot follow an in-memory database")
	}
	return nil
}

func printStatus(ctx context.Context) error {
	h, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer h.Close()

	m, err := newMigrator(ctx, h)
	if err != nil {
		return err
	}
	status, err := m.Status(ctx)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(status))
	pending := 0
	for _, s := range status {
		state, at := "pending", ""
		if s.Applied {
			state, at = "applied", types.FormatISO(s.AppliedAt)
		} else {
			pending++
		}
		rows = append(rows, []string{strconv.Itoa(s.Number), s.Name, state, at})
	}

	ui.PrintSection("Migrations")
	if err := ui.PrintTable([]string{"Number", "Name", "State", "Applied at"}, rows); err != nil {
		return err
	}
	if pending > 0 {
		ui.PrintWarning("%d pending migration(s), run myorm migrate", pending)
	} else {
		ui.PrintSuccess("All migrations applied")
	}
	return nil
}
