// Formwiz is a terminal client for dynamic form gateways.
//
// It logs a student in with their roll number and name, fetches the
// multi-section form the gateway serves for them and walks them through
// it in an interactive wizard. The completed answers are written as JSON.
// It can also run a local development gateway and find gateways on the
// local network over mDNS.
//
// Usage:
//
//	formwiz [command] [flags]
//
// Running without arguments launches the interactive wizard.
// See 'formwiz --help' for available commands.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/muurk/formwiz/internal/config"
	"github.com/muurk/formwiz/internal/logging"
	"github.com/muurk/formwiz/internal/version"
)

func main() {
	err := rootCmd.Execute()
	logging.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// Global flags
var (
	configPath string
	endpoint   string
	logLevel   string
	logFile    string
)

// settings is loaded once per invocation, before any command runs.
var settings *config.Settings

var rootCmd = &cobra.Command{
	Use:   "formwiz",
	Short: "Dynamic form wizard for the terminal",
	Long: `A terminal client for dynamic form gateways.

Log in with your roll number and name, and formwiz fetches the form the
gateway prepared for you and walks you through it section by section.
Your answers are written as JSON when you submit.

If no command is specified, the interactive wizard will launch automatically.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadSettings(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: run wizard when no subcommand provided
		return runWizard(cmd, args)
	},
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Settings file (default is the per-user config directory)")
	rootCmd.PersistentFlags().StringVar(&endpoint, "endpoint", "", "Gateway base URL (overrides settings and "+config.EndpointEnvVar+")")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); empty keeps logging off")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to this file")

	addWizardFlags(rootCmd)

	rootCmd.AddCommand(versionCmd)
}

// loadSettings layers the settings file, the environment and the flags,
// then sets up logging.
func loadSettings(cmd *cobra.Command) error {
	var err error
	if configPath != "" {
		settings, err = config.LoadFrom(configPath)
		if err == nil {
			settings.ApplyEnv()
		}
	} else {
		settings, err = config.Load()
	}
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("endpoint") {
		settings.Gateway.Endpoint = endpoint
	}
	if flags.Changed("log-level") {
		settings.Logging.Level = logLevel
	}
	if flags.Changed("log-file") {
		settings.Logging.File = logFile
	}

	opts := logging.Options{
		Level: settings.Logging.Level,
		File:  settings.Logging.File,
	}
	// The dev gateway is a foreground server, so it logs to stdout by default
	if cmd.Name() == "serve" && opts.Level == "" {
		opts.Level = "info"
	}
	// The wizard owns the terminal, so its logs must go to a file
	if (cmd == cmd.Root() || cmd.Name() == "wizard") && opts.Level != "" && opts.File == "" {
		path, err := defaultLogFile()
		if err != nil {
			return err
		}
		opts.File = path
	}
	return logging.Initialize(opts)
}

// defaultLogFile is formwiz.log in the config directory.
func defaultLogFile() (string, error) {
	dir, err := config.GetConfigDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	return filepath.Join(dir, "formwiz.log"), nil
}

// saveSettings writes settings back to where they were loaded from.
func saveSettings() error {
	if configPath != "" {
		return settings.SaveTo(configPath)
	}
	return settings.Save()
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("formwiz %s\n", version.Full())
	},
}
