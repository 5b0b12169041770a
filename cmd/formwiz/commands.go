package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/muurk/formwiz/internal/config"
	"github.com/muurk/formwiz/internal/devgateway"
	"github.com/muurk/formwiz/internal/discovery"
	"github.com/muurk/formwiz/internal/form"
	"github.com/muurk/formwiz/internal/logging"
	"github.com/muurk/formwiz/internal/schema"
	"github.com/muurk/formwiz/internal/session"
	"github.com/muurk/formwiz/internal/ui"
	"github.com/muurk/formwiz/internal/wizard/tui"
)

// Wizard flags
var (
	discover   bool
	outputPath string
	altScreen  bool
	summary    bool
)

// Command flags
var (
	studentName  string
	outputFormat string
	formsDir     string
	serveHost    string
	servePort    int
	serveFormID  string
	advertise    bool
	watchForms   bool
	instanceName string
	scanTimeout  int
	forceInit    bool
)

func init() {
	rootCmd.AddCommand(wizardCmd)
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(gatewaysCmd)
	rootCmd.AddCommand(configCmd)

	addWizardFlags(wizardCmd)
}

// addWizardFlags registers the wizard flags on cmd. The root command and
// the wizard subcommand share them.
func addWizardFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&discover, "discover", false, "Use the first gateway found on the local network")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the submission JSON to this file instead of stdout")
	cmd.Flags().BoolVar(&altScreen, "alt-screen", true, "Run the wizard in the terminal's alternate screen")
	cmd.Flags().BoolVar(&summary, "summary", false, "Print a readable summary of the answers to stderr after submitting")
}

// wizardCmd launches the interactive TUI wizard
var wizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Launch the interactive form wizard",
	Long: `Launch the interactive TUI wizard.

The wizard asks for your roll number and name, registers you with the
gateway, loads your form and walks you through it one section at a time.
Fields are validated when you move on. After the last section the answers
are written as JSON to stdout, or to --output.`,
	Example: `  # Launch wizard against the configured gateway
  formwiz wizard
  # Or simply (wizard is default):
  formwiz

  # Use a local development gateway
  formwiz --endpoint http://localhost:8080

  # Find the gateway on the local network and save the answers
  formwiz --discover --output answers.json`,
	RunE: runWizard,
}

func runWizard(cmd *cobra.Command, args []string) error {
	if !ui.IsTerminal(os.Stdin) {
		return errors.New("the wizard needs an interactive terminal; use 'formwiz schema' for scripted access")
	}

	flags := cmd.Flags()
	if !flags.Changed("output") {
		outputPath = settings.Wizard.Output
	}
	if !flags.Changed("alt-screen") {
		altScreen = settings.Wizard.AltScreen
	}

	if discover {
		if err := useDiscoveredGateway(cmd.Context()); err != nil {
			return err
		}
	}

	client := settings.Gateway.NewGatewayClient()
	shell := session.New(client)

	// The roll number is only known once the user has logged in
	var submission bytes.Buffer
	submitter := form.SubmitFunc(func(ctx context.Context, f *schema.Form, values form.ValueMap) error {
		return form.NewJSONSubmitter(&submission, shell.Identity().ID).Submit(ctx, f, values)
	})

	var opts []tea.ProgramOption
	if altScreen {
		opts = append(opts, tea.WithAltScreen())
	}

	logging.Info("Starting wizard", zap.String("endpoint", client.BaseURL))
	final, err := tea.NewProgram(tui.NewAppModel(shell, submitter), opts...).Run()
	if err != nil {
		return fmt.Errorf("wizard error: %w", err)
	}

	if submission.Len() == 0 {
		logging.Info("Wizard closed without a submission")
		return nil
	}

	if err := writeSubmission(submission.Bytes()); err != nil {
		return err
	}

	if app, ok := final.(tui.AppModel); ok && summary && app.FormModel.Orchestrator != nil {
		printer := ui.NewPrinter(os.Stderr)
		printer.Println(ui.RenderSubmissionSummary(app.FormModel.Orchestrator.Form(), app.Submitted))
	}
	return nil
}

// writeSubmission sends the submission JSON to --output or stdout.
func writeSubmission(data []byte) error {
	if outputPath == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write submission: %w", err)
	}
	ui.NewPrinter(os.Stderr).PrintSuccess("Submission saved", ui.Param{Key: "File", Value: outputPath})
	return nil
}

// useDiscoveredGateway points the settings at the first gateway found over
// mDNS and remembers it.
func useDiscoveredGateway(ctx context.Context) error {
	scanner := discovery.NewScanner()
	scanner.Timeout = time.Duration(settings.Discovery.TimeoutSeconds) * time.Second

	fmt.Fprintf(os.Stderr, "Looking for a form gateway (timeout: %s)...\n", scanner.Timeout)
	gw, err := scanner.FindFirst(ctx)
	if err != nil {
		return fmt.Errorf("discovery failed: %w", err)
	}

	settings.Gateway.Endpoint = gw.BaseURL()
	settings.RememberGateway(gw.Instance, gw.BaseURL(), gw.FormID())
	if err := saveSettings(); err != nil {
		logging.Warn("Could not remember gateway", zap.Error(err))
	}
	return nil
}

// schemaCmd fetches a form without the TUI
var schemaCmd = &cobra.Command{
	Use:   "schema <rollNumber>",
	Short: "Fetch and print the form for a roll number",
	Long: `Register the roll number with the gateway and print the form it serves.

The default output is a readable outline of sections and fields. Use
--format json for the schema in the gateway's wire shape.`,
	Example: `  # Outline of the form for roll number 42
  formwiz schema 42 --name "Ada Lovelace"

  # JSON for scripting
  formwiz schema 42 --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runSchema,
}

func init() {
	schemaCmd.Flags().StringVar(&studentName, "name", "", "Name to register with (defaults to the roll number)")
	schemaCmd.Flags().StringVar(&outputFormat, "format", "outline", "Output format (outline, json)")
	schemaCmd.Flags().BoolVar(&discover, "discover", false, "Use the first gateway found on the local network")
}

func runSchema(cmd *cobra.Command, args []string) error {
	if outputFormat != "outline" && outputFormat != "json" {
		return fmt.Errorf("unknown format %q (use outline or json)", outputFormat)
	}
	if discover {
		if err := useDiscoveredGateway(cmd.Context()); err != nil {
			return err
		}
	}

	id := session.Identity{ID: args[0], Name: studentName}
	if id.Name == "" {
		id.Name = id.ID
	}

	shell := session.New(settings.Gateway.NewGatewayClient())
	f, err := shell.Login(cmd.Context(), id)
	if errors.Is(err, session.ErrSchemaMissing) {
		return fmt.Errorf("gateway has no form for roll number %s", id.ID)
	}
	if err != nil {
		return err
	}

	if outputFormat == "json" {
		data, err := json.MarshalIndent(f.ToWire(), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	printer := ui.NewPrinter(os.Stdout)
	printer.PrintHeader("Form schema", "formwiz schema "+id.ID,
		ui.Param{Key: "Gateway", Value: settings.Gateway.Endpoint},
		ui.Param{Key: "Fields", Value: fmt.Sprint(f.FieldCount())},
	)
	printer.Println(ui.RenderSchemaOutline(f))
	return nil
}

// serveCmd runs the development gateway
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a local development gateway",
	Long: `Serve forms from a directory over the gateway's HTTP API.

Every .json, .yaml or .yml file in --dir is loaded as a form. The server
answers /create-user and /get-form like a real gateway, so the wizard can
be pointed at it with --endpoint. With --advertise it is also announced
over mDNS for 'formwiz --discover'. With --watch, edits to the form files
are picked up without a restart.`,
	Example: `  # Serve the forms in ./forms on port 8080
  formwiz serve --dir ./forms

  # Serve a specific form and announce it on the network
  formwiz serve --dir ./forms --form student-registration --advertise

  # Reload forms while editing them
  formwiz serve --dir ./forms --watch`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&formsDir, "dir", "", "Directory of form files")
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Listen address (empty = all interfaces)")
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Listen port")
	serveCmd.Flags().StringVar(&serveFormID, "form", "", "Form id to serve (default is the first by id)")
	serveCmd.Flags().BoolVar(&advertise, "advertise", false, "Announce the gateway over mDNS")
	serveCmd.Flags().StringVar(&instanceName, "instance", "", "mDNS instance name (default formwiz-<hostname>)")
	serveCmd.Flags().BoolVar(&watchForms, "watch", false, "Reload the forms when files in --dir change")
	_ = serveCmd.MarkFlagRequired("dir")
}

func runServe(cmd *cobra.Command, args []string) error {
	catalog, err := devgateway.LoadCatalog(formsDir)
	if err != nil {
		return fmt.Errorf("failed to load forms: %w", err)
	}

	srv, err := devgateway.New(&devgateway.Config{
		Host:      serveHost,
		Port:      servePort,
		FormID:    serveFormID,
		Advertise: advertise,
		Instance:  instanceName,
		Dir:       formsDir,
		Watch:     watchForms,
	}, catalog)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	ui.NewPrinter(os.Stdout).PrintHeader("Development gateway", "formwiz serve",
		ui.Param{Key: "Forms", Value: fmt.Sprint(len(catalog.IDs()))},
		ui.Param{Key: "Serving", Value: srv.Form().Title},
		ui.Param{Key: "Listen", Value: fmt.Sprintf("%s:%d", serveHost, servePort)},
	)

	return srv.Start(cmd.Context())
}

// gatewaysCmd discovers gateways on the network
var gatewaysCmd = &cobra.Command{
	Use:   "gateways",
	Short: "Find form gateways on the local network",
	Long: `Browse for form gateways announced over mDNS (_formwiz._tcp).

Every gateway found is listed and remembered in the settings file.`,
	Example: `  # Scan for 5 seconds (default)
  formwiz gateways

  # Longer scan for busy networks
  formwiz gateways --timeout 15`,
	RunE: runGateways,
}

func init() {
	gatewaysCmd.Flags().IntVar(&scanTimeout, "timeout", 0, "Scan timeout in seconds (default from settings)")
}

func runGateways(cmd *cobra.Command, args []string) error {
	timeout := settings.Discovery.TimeoutSeconds
	if scanTimeout > 0 {
		timeout = scanTimeout
	}

	scanner := discovery.NewScanner()
	scanner.Timeout = time.Duration(timeout) * time.Second

	fmt.Printf("Scanning for form gateways (timeout: %ds)...\n\n", timeout)
	gateways, err := scanner.Scan(cmd.Context())
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	fmt.Println(ui.RenderGatewayList(gateways))
	if len(gateways) == 0 {
		fmt.Println("\nTroubleshooting:")
		fmt.Println("  - Start a gateway with 'formwiz serve --dir <forms> --advertise'")
		fmt.Println("  - Check that this machine and the gateway share a network")
		fmt.Println("  - Try increasing --timeout for slower networks")
		return nil
	}

	for _, gw := range gateways {
		settings.RememberGateway(gw.Instance, gw.BaseURL(), gw.FormID())
	}
	if err := saveSettings(); err != nil {
		logging.Warn("Could not remember gateways", zap.Error(err))
	}

	fmt.Printf("\nFound %d gateway(s). Use 'formwiz --endpoint <url>' to connect.\n", len(gateways))
	return nil
}

// configCmd manages the settings file
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the formwiz settings file",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// init must work even when the existing file cannot be parsed
		if cmd.Name() == "init" {
			return logging.InitializeFromEnv()
		}
		return loadSettings(cmd)
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a settings file with default values",
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			path string
			err  error
		)
		if configPath != "" {
			path = configPath
			if _, statErr := os.Stat(path); statErr == nil && !forceInit {
				return fmt.Errorf("config file already exists: %s", path)
			}
			err = config.NewSettings().SaveTo(path)
		} else {
			path, err = config.CreateDefaultConfig(forceInit)
		}
		if err != nil {
			return err
		}
		ui.NewPrinter(os.Stdout).PrintSuccess("Settings file created", ui.Param{Key: "Path", Value: path})
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := yaml.Marshal(settings)
		if err != nil {
			return fmt.Errorf("failed to marshal settings: %w", err)
		}
		fmt.Print(string(data))
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the settings file location",
	RunE: func(cmd *cobra.Command, args []string) error {
		if configPath != "" {
			fmt.Println(configPath)
			return nil
		}
		path, err := config.GetConfigPath()
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&forceInit, "force", false, "Overwrite an existing settings file")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
}
