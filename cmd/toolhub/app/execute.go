package app

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	analyticscmd "github.com/agentstation/toolhub/cmd/toolhub/cmd/analytics"
	enrichcmd "github.com/agentstation/toolhub/cmd/toolhub/cmd/enrich"
	"github.com/agentstation/toolhub/cmd/toolhub/cmd/search"
	"github.com/agentstation/toolhub/cmd/toolhub/cmd/serve"
	transfercmd "github.com/agentstation/toolhub/cmd/toolhub/cmd/transfer"
	"github.com/agentstation/toolhub/cmd/toolhub/cmd/version"
	"github.com/agentstation/toolhub/internal/cmd/cmdutil"
	"github.com/agentstation/toolhub/internal/cmd/output"
)

// Execute runs the CLI with args.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "toolhub",
		Short:   "AI tools and guides directory",
		Version: a.version,
		Long: `Toolhub manages a directory of AI tools and guides: search and facet
queries, spreadsheet import and export, view and click counters,
page-view analytics, and a REST API with live updates.`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	rootCmd.AddGroup(&cobra.Group{ID: "core", Title: "Core Commands:"})
	rootCmd.AddGroup(&cobra.Group{ID: "management", Title: "Management Commands:"})

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.config.ConfigFile, "config", "", "config file (default is $HOME/.toolhub.yaml)")
	flags.BoolVarP(&a.config.Verbose, "verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	flags.BoolVarP(&a.config.Quiet, "quiet", "q", false, "minimal output (shortcut for --log-level=warn)")
	flags.BoolVar(&a.config.NoColor, "no-color", false, "disable colored output")
	flags.StringVarP(&a.config.Format, "format", "o", a.config.Format, "output format: table, json, yaml, wide")
	flags.StringVar(&a.config.LogLevel, "log-level", a.config.LogLevel, "log level: trace, debug, info, warn, error (overrides -v/-q)")
	flags.String("db", "", "database file (default $TOOLHUB_DB or ~/.toolhub/toolhub.db)")

	rootCmd.SetVersionTemplate("toolhub {{.Version}}\n")

	a.registerCommands(rootCmd)
	return rootCmd
}

// setupCommand applies parsed persistent flags before any command runs.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	if cmd.Flags().Changed("config") {
		config, err := loadConfig(cmdutil.MustGetString(cmd, "config"))
		if err != nil {
			return err
		}
		a.config = config
	}

	format := cmdutil.MustGetString(cmd, "format")
	if _, err := output.ParseFormat(format); err != nil {
		return err
	}

	a.config.UpdateFromFlags(
		cmdutil.MustGetBool(cmd, "verbose"),
		cmdutil.MustGetBool(cmd, "quiet"),
		cmdutil.MustGetBool(cmd, "no-color"),
		format,
		cmdutil.MustGetString(cmd, "log-level"),
		cmdutil.MustGetString(cmd, "db"),
	)

	logger := NewLogger(a.config)
	a.logger = &logger
	return nil
}

func (a *App) registerCommands(rootCmd *cobra.Command) {
	// Core commands
	rootCmd.AddCommand(search.NewCommand(a))
	rootCmd.AddCommand(search.NewFacetsCommand(a))
	rootCmd.AddCommand(search.NewGetCommand(a))
	rootCmd.AddCommand(serve.NewCommand(a))

	// Management commands
	rootCmd.AddCommand(transfercmd.NewImportCommand(a))
	rootCmd.AddCommand(transfercmd.NewExportCommand(a))
	rootCmd.AddCommand(transfercmd.NewTemplateCommand(a))
	rootCmd.AddCommand(analyticscmd.NewCommand(a))
	rootCmd.AddCommand(enrichcmd.NewCommand(a))

	rootCmd.AddCommand(version.NewCommand(a))
}

// ExitOnError prints err to stderr and exits with status 1.
func ExitOnError(err error) {
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}
