package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	figmatextstyle "github.com/kataras/figma-textstyle"
	"github.com/kataras/figma-textstyle/pkg/logging"
	"github.com/kataras/figma-textstyle/pkg/settings"

	"github.com/fatih/color"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const version = figmatextstyle.Version

var (
	accessToken string
	verbosity   int
	jsonOutput  bool
	noColor     bool
	configDir   string
	dataDir     string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil && !errors.Is(err, context.Canceled) {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	defaults := settings.DefaultPaths()

	rootCmd := &cobra.Command{
		Use:   "figma-textstyle",
		Short: "Export Figma text styles as SASS/SCSS snippets",
		Long: `A tool to read the typography of Figma text elements via the Figma API and
render it through a user-editable template into a SASS/SCSS-like snippet,
ready to be pasted into a stylesheet.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Setup(verbosity, os.Stderr)
			if noColor || jsonOutput {
				color.NoColor = true
			}
			if accessToken == "" {
				accessToken = os.Getenv("FIGMA_TOKEN")
			}
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&accessToken, "token", "t", "", "Figma Personal Access Token (default $FIGMA_TOKEN)")
	flags.CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")
	flags.BoolVar(&jsonOutput, "json", false, "Print machine readable JSON lines")
	flags.BoolVar(&noColor, "no-color", false, "Disable colored output")
	flags.StringVar(&configDir, "config-dir", defaults.ConfigDir, "Directory of config.toml")
	flags.StringVar(&dataDir, "data-dir", defaults.DataDir, "Directory of the persisted settings and aliases")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "figma-textstyle version %s\n", version)
		},
	}

	rootCmd.AddCommand(
		newExportCmd(),
		newWatchCmd(),
		newRenderCmd(),
		newAliasesCmd(),
		newSettingsCmd(),
		newScopeCmd(),
		versionCmd,
	)
	return rootCmd
}

// cliLogger implements figmatextstyle.Logger with colored terminal output on stderr.
type cliLogger struct{}

func (l *cliLogger) Infof(format string, args ...any) {
	color.New(color.FgYellow).Fprintf(os.Stderr, format+"\n", args...)
}

func (l *cliLogger) Warnf(format string, args ...any) {
	color.New(color.FgYellow).Fprintf(os.Stderr, "⚠ "+format+"\n", args...)
}

func (l *cliLogger) Errorf(format string, args ...any) {
	color.New(color.FgRed).Fprintf(os.Stderr, "✗ "+format+"\n", args...)
}
