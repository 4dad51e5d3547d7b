// Package root contains the root command for the application
package root

import (
	"errors"
	"fmt"

	"fjacquet/ledger-import/internal/config"
	"fjacquet/ledger-import/internal/container"
	"fjacquet/ledger-import/internal/logging"
	"fjacquet/ledger-import/internal/report"

	"github.com/spf13/cobra"
)

// GlobalFlags are the persistent flags every command accepts.
type GlobalFlags struct {
	ConfigFile string
	LogLevel   string
	LogFormat  string
	Format     string
}

var (
	// Flags holds the parsed persistent flags.
	Flags = GlobalFlags{}

	appContainer *container.Container
	logger       logging.Logger = logging.GetLogger()

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "ledger-import",
		Short: "Stage bank statement exports, preview them and commit them into a ledger.",
		Long: `ledger-import turns CSV and XLSX bank statement exports into ledger records.

An upload is staged as a batch, mapped through a column profile into a
preview with subcategory and payoree suggestions, then committed into the
ledger with duplicate detection. Corrections made to ledger records teach
the suggestion engine.`,
		SilenceUsage:       true,
		PersistentPreRunE:  setup,
		PersistentPostRunE: func(*cobra.Command, []string) error { return Close() },
	}
)

func init() {
	Cmd.PersistentFlags().StringVarP(&Flags.ConfigFile, "config", "c", "", "Config file (default: config.yaml in $HOME/.ledger-import, .ledger-import or .)")
	Cmd.PersistentFlags().StringVar(&Flags.LogLevel, "log-level", "", "Log level override (debug, info, warn, error)")
	Cmd.PersistentFlags().StringVar(&Flags.LogFormat, "log-format", "", "Log format override (text, json)")
	Cmd.PersistentFlags().StringVarP(&Flags.Format, "format", "f", "", "Output format override (text, json, yaml)")
}

// setup loads the configuration and wires the container for the command.
func setup(cmd *cobra.Command, _ []string) error {
	config.LoadEnv()
	cfg, err := config.InitializeConfig(Flags.ConfigFile)
	if err != nil {
		return err
	}
	if Flags.LogLevel != "" {
		cfg.Log.Level = Flags.LogLevel
	}
	if Flags.LogFormat != "" {
		cfg.Log.Format = Flags.LogFormat
	}
	if Flags.Format != "" {
		if _, err := report.ParseFormat(Flags.Format); err != nil {
			return err
		}
		cfg.Report.Format = Flags.Format
	}

	log := config.ConfigureLoggingFromConfig(cfg)
	logging.SetDefault(log)
	logger = log.WithField("command", cmd.Name())

	c, err := container.NewContainer(cmd.Context(), cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	appContainer = c
	return nil
}

// Close releases the container. It is safe to call more than once.
func Close() error {
	if appContainer == nil {
		return nil
	}
	err := appContainer.Close()
	appContainer = nil
	return err
}

// GetContainer returns the container wired for the running command.
func GetContainer() (*container.Container, error) {
	if appContainer == nil {
		return nil, errors.New("container not initialized")
	}
	return appContainer, nil
}

// GetLogger returns the logger of the running command.
func GetLogger() logging.Logger {
	return logger
}
