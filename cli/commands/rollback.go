package commands

import (
	"fmt"
	"strconv"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/danny270793/myorm/cli/internal/ui"
)

var rollbackCmd = &cobra.Command{
	Use:   "rollback <number>",
	Short: "Revert one migration",
	Long: `Run the down step of a migration.

The row in the migrations table is kept, so the migration is still reported
as applied and migrate will not run it again. Applying it by hand afterwards
fails on the table's unique migration_number.`,
	Args: cobra.ExactArgs(1),
	RunE: runRollback,
}

var rollbackYes bool

func init() {
	rollbackCmd.Flags().BoolVarP(&rollbackYes, "yes", "y", false, "Skip the confirmation prompt")
	rootCmd.AddCommand(rollbackCmd)
}

func runRollback(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	number, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid migration number %q", args[0])
	}

	if !rollbackYes {
		confirmed := false
		prompt := &survey.Confirm{
			Message: fmt.Sprintf("Revert migration %d? Its tables and data will be dropped.", number),
		}
		if err := survey.AskOne(prompt, &confirmed); err != nil {
			return err
		}
		if !confirmed {
			ui.PrintInfo("Rollback cancelled")
			return nil
		}
	}

	h, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer h.Close()

	m, err := newMigrator(ctx, h)
	if err != nil {
		return err
	}

	mig, err := m.Down(ctx, number)
	if err != nil {
		return err
	}
	ui.PrintSuccess("Reverted %d %s", mig.Number(), mig.Name())
	ui.PrintWarning("The tracking row for migration %d was kept", mig.Number())
	return nil
}
