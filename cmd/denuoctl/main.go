// Command denuoctl manages the published content document and operator credentials.
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/debemdeboas/denuo-web/internal/config"
	"github.com/debemdeboas/denuo-web/internal/db"
	"github.com/debemdeboas/denuo-web/internal/logger"
	"github.com/debemdeboas/denuo-web/internal/store"
)

var (
	promptStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Bold(true)
	outputStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
)

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "denuoctl",
		Short:         "Manage Denuo Web content and credentials",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()
			if err := config.LoadConfig(configPath); err != nil {
				return err
			}
			l := logger.NewWithWriter(config.AppConfig.Logging.Level, config.AppConfig.Logging.Format, cmd.ErrOrStderr())
			config.SetLogger(l)
			db.SetLogger(l)
			store.SetLogger(l)
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", config.Env(config.EnvConfigPath, "config.yaml"), "path to the YAML config file")

	root.AddCommand(
		newSeedCmd(),
		newExportCmd(),
		newHashPasswordCmd(),
		newKeygenCmd(),
		newGenConfigCmd(),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
