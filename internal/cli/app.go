// Package cli implements expensectl, the terminal front end of the expense
// tracker. Each invocation is one session: the expense list is fetched into
// an in-memory store, then one view runs against it.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mmynk/expenses/internal/expenses"
	"github.com/mmynk/expenses/internal/remote"
	"github.com/mmynk/expenses/pkg/logging"
)

const defaultServer = "http://localhost:8080"

// App is the expensectl command-line application.
type App struct {
	rootCmd *cobra.Command
	console *Console

	// newClient builds the remote client; replaced in tests.
	newClient func(server, token string) Client
}

// Client is the remote capability a session needs.
type Client interface {
	remote.Client
	remote.Lister
}

// Options holds the resolved global settings.
type Options struct {
	Server       string
	Token        string
	ReportDir    string
	ReportFormat string
}

// NewApp creates the CLI application writing views to out.
func NewApp(out io.Writer) *App {
	app := &App{
		console: NewConsole(out),
		newClient: func(server, token string) Client {
			return remote.NewHTTP(server, token)
		},
	}

	rootCmd := &cobra.Command{
		Use:           "expensectl",
		Short:         "Track expenses against an expense service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			verbose, _ := cmd.Flags().GetBool("verbose")
			opts := logging.Options{}
			if verbose {
				level := logging.ParseLevel("debug")
				opts.Level = &level
			}
			logging.Setup(opts)
		},
	}
	rootCmd.SetOut(out)

	rootCmd.PersistentFlags().StringP("server", "s", "", "Expense service URL (default $EXPENSES_SERVER or "+defaultServer+")")
	rootCmd.PersistentFlags().String("token", "", "Bearer token (default $EXPENSES_TOKEN)")
	rootCmd.PersistentFlags().StringP("config-file", "C", "", "Path to a TOML, YAML, or JSON configuration file")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(
		app.listCmd(),
		app.recentCmd(),
		app.addCmd(),
		app.editCmd(),
		app.deleteCmd(),
		app.exportCmd(),
		app.tokenCmd(),
	)

	app.rootCmd = rootCmd
	return app
}

// Execute runs the CLI application.
func (app *App) Execute() error {
	return app.rootCmd.Execute()
}

// SetArgs overrides os.Args for the next Execute.
func (app *App) SetArgs(args []string) {
	app.rootCmd.SetArgs(args)
}

// options resolves global settings: flag, then environment, then config file, then default.
func (app *App) options(cmd *cobra.Command) (Options, error) {
	server, _ := cmd.Flags().GetString("server")
	token, _ := cmd.Flags().GetString("token")
	configFile, _ := cmd.Flags().GetString("config-file")

	file := &FileConfig{}
	if configFile != "" {
		loaded, err := LoadConfigFile(configFile)
		if err != nil {
			return Options{}, err
		}
		file = loaded
	}

	return Options{
		Server:       firstNonEmpty(server, os.Getenv("EXPENSES_SERVER"), file.Server, defaultServer),
		Token:        firstNonEmpty(token, os.Getenv("EXPENSES_TOKEN"), file.Token),
		ReportDir:    file.ReportDir,
		ReportFormat: file.ReportFormat,
	}, nil
}

// session is one application session: a seeded store and its remote client.
type session struct {
	store  *expenses.Store
	client Client
}

// openSession fetches the expense list into a fresh store.
func (app *App) openSession(ctx context.Context, opts Options) (*session, error) {
	client := app.newClient(opts.Server, opts.Token)

	overlay := app.console.BlockingOverlay("Fetching expenses...")
	list, err := client.List(ctx)
	overlay.Stop()
	if err != nil {
		return nil, fmt.Errorf("could not fetch expenses: %w", err)
	}

	store := expenses.New()
	store.Set(list)
	return &session{store: store, client: client}, nil
}
