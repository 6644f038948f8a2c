package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danny270793/myorm/cli/internal/version"
)

var versionCmd = &cobra.Command{
	Use:               "version",
	Short:             "Print version information",
	Args:              cobra.NoArgs,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.Get().FullString())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
