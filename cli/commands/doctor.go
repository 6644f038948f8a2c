package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danny270793/myorm/cli/internal/ui"
	"github.com/danny270793/myorm/cli/internal/version"
	"github.com/danny270793/myorm/runtime/store"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the database connection and engine version",
	Args:  cobra.NoArgs,
	RunE:  runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	dialect, err := store.DialectFor(settings.Provider)
	if err != nil {
		return err
	}
	ui.PrintInfo("Provider %s (driver %s)", dialect.Name, dialect.Driver)
	if settings.ConfigFile != "" {
		ui.PrintInfo("Config file %s", settings.ConfigFile)
	}

	h, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer h.Close()
	ui.PrintSuccess("Connected to %s", settings.Database)

	constraint, ok := version.EngineConstraint(dialect.Name)
	if !ok {
		return fmt.Errorf("no supported version range for %s", dialect.Name)
	}
	v, err := h.CheckEngineVersion(ctx, constraint)
	if err != nil {
		return err
	}
	ui.PrintSuccess("%s %s satisfies %s", dialect.Name, v, constraint)

	m, err := newMigrator(ctx, h)
	if err != nil {
		return err
	}
	pending, err := m.Pending(ctx)
	if err != nil {
		return err
	}
	if len(pending) > 0 {
		ui.PrintWarning("%d pending migration(s)", len(pending))
	} else {
		ui.PrintSuccess("No pending migrations")
	}
	return nil
}
