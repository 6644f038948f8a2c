package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/danny270793/myorm/cli/internal/ui"
	"github.com/danny270793/myorm/internal/app"
	"github.com/danny270793/myorm/migrate"
)

var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Describe the bundled models and migrations",
	Args:  cobra.NoArgs,
	// no database needed
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		if describeRaw {
			fmt.Print(describeMarkdown(app.Models(), app.Migrations()))
			return nil
		}
		return ui.PrintMarkdown(describeMarkdown(app.Models(), app.Migrations()))
	},
}

var describeRaw bool

func init() {
	describeCmd.Flags().BoolVar(&describeRaw, "raw", false, "Print markdown without rendering it")
	rootCmd.AddCommand(describeCmd)
}

func describeMarkdown(models []app.ModelInfo, migrations []migrate.Migration) string {
	var sb strings.Builder

	sb.WriteString("# Models\n\n")
	for _, m := range models {
		fmt.Fprintf(&sb, "## %s\n\nTable `%s`.\n\n", m.Name, m.Table)
		sb.WriteString("| Column | Type | SQL type |\n|---|---|---|\n")
		for _, f := range m.Fields {
			fmt.Fprintf(&sb, "| %s | %s | %s |\n", f.Name, f.Type, f.Type.SQLType())
		}
		sb.WriteString("\n")
	}

	sb.WriteString("# Migrations\n\n")
	for _, mig := range migrations {
		fmt.Fprintf(&sb, "%d. **%s** (number %d)\n", mig.Number(), mig.Name(), mig.Number())
	}
	return sb.String()
}
