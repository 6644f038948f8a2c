package commands

import (
	"github.com/spf13/cobra"

	"github.com/danny270793/myorm/cli/internal/ui"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending migrations",
	Long: `Apply every bundled migration that has no row in the migrations table,
in ascending number order. Applying stops at the first failure.

A migration whose schema change ran but whose tracking row could not be
written is reported as partially applied; it is never retried.`,
	Args: cobra.NoArgs,
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	h, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer h.Close()

	m, err := newMigrator(ctx, h)
	if err != nil {
		return err
	}

	spinner, _ := ui.Spinner("Applying migrations")
	applied, err := m.Up(ctx)
	if spinner != nil {
		_ = spinner.Stop()
	}

	for _, mig := range applied {
		ui.PrintSuccess("Applied %d %s", mig.Number(), mig.Name())
	}
	if err != nil {
		return err
	}
	if len(applied) == 0 {
		ui.PrintInfo("Database is up to date")
	}
	return nil
}
