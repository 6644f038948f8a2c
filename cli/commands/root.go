package commands

import (
	"github.com/spf13/cobra"

	"github.com/danny270793/myorm/cli/internal/config"
	"github.com/danny270793/myorm/cli/internal/ui"
	"github.com/danny270793/myorm/cli/internal/version"
	"github.com/danny270793/myorm/internal/debug"
)

var rootCmd = &cobra.Command{
	Use:   "myorm",
	Short: "Migrations and models over SQLite, MySQL and PostgreSQL",
	Long: `myorm applies the bundled schema migrations, reports their status and
queries the tables they create.

The database is chosen by --database (or MYORM_DATABASE, DATABASE_URL, or the
database key of .myorm.yaml). SQLite is the default provider.`,
	Version:           version.Get().Version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadSettings,
}

var (
	flagConfig   string
	flagProvider string
	flagDatabase string
	flagDebug    bool

	settings *config.Config
)

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (default: .myorm.yaml in ., $HOME or $HOME/.config/myorm)")
	rootCmd.PersistentFlags().StringVarP(&flagProvider, "provider", "p", "", "Database provider: sqlite, mysql or postgres")
	rootCmd.PersistentFlags().StringVarP(&flagDatabase, "database", "d", "", "Database file or connection string")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Log every statement to stderr")
}

// Execute is the main entry point for the CLI
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		ui.PrintError("%v", err)
		return err
	}
	return nil
}

func loadSettings(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("provider") {
		cfg.Provider = flagProvider
	}
	if flags.Changed("database") {
		cfg.Database = flagDatabase
	}
	if flags.Changed("debug") {
		cfg.Debug = flagDebug
	}

	debug.Init(cfg.Debug)
	debug.Debug("configuration loaded", "provider", cfg.Provider, "database", cfg.Database, "file", cfg.ConfigFile)

	settings = cfg
	return nil
}
