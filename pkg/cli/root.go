// Package cli is the cobra command layer: flag parsing, per-invocation
// wiring (settings, client, run cache), output/diagnostic channel
// separation, and exit-code mapping. All pipeline logic lives below
// this package.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/SZRabinowitz/slackscope/pkg/cache"
	"github.com/SZRabinowitz/slackscope/pkg/config"
	"github.com/SZRabinowitz/slackscope/pkg/logger"
	"github.com/SZRabinowitz/slackscope/pkg/render"
	"github.com/SZRabinowitz/slackscope/pkg/resolve"
	"github.com/SZRabinowitz/slackscope/pkg/slack"
)

var (
	version = "dev"
	commit  = "unknown"
)

// Process exit codes per error class.
const (
	exitOK      = 0
	exitGeneral = 1
	exitConfig  = 2
	exitResolve = 3
	exitNetwork = 4
)

// app holds the per-invocation runtime objects. Built fresh in
// PersistentPreRunE and discarded with the process; in particular the
// run cache never outlives one invocation.
type appState struct {
	settings *config.Settings
	client   *slack.Client
	run      *cache.Run
	format   render.Format
	fields   []string
	runID    string
}

var app appState

var (
	flagFormat  string
	flagFields  string
	flagVerbose bool
	flagConfig  string
)

var rootCmd = &cobra.Command{
	Use:   "slackscope",
	Short: "Fast read-only Slack CLI",
	Long: `slackscope turns Slack conversation history into fast, scriptable
terminal output: day-grouped human views or flat json/jsonl/tsv records.`,
	Version:       fmt.Sprintf("%s (commit: %s)", version, commit),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger.Init(flagVerbose)

		settings, err := config.Load(flagConfig)
		if err != nil {
			return err
		}
		app.settings = settings
		app.client = slack.New(slack.Options{
			BaseURL: settings.APIBase(),
			Token:   settings.Token,
			DCookie: settings.DCookie,
			Timeout: settings.Timeout,
		})
		app.run = cache.New(app.client)

		format := render.Format(flagFormat)
		if format == "" {
			if term.IsTerminal(int(os.Stdout.Fd())) {
				format = render.FormatPretty
			} else {
				format = render.FormatJSON
			}
		}
		switch format {
		case render.FormatPretty, render.FormatJSON, render.FormatJSONL, render.FormatTSV:
		default:
			return fmt.Errorf("invalid --format %q (use pretty, json, jsonl or tsv)", flagFormat)
		}
		app.format = format

		app.fields = nil
		if flagFields != "" {
			for _, f := range strings.Split(flagFields, ",") {
				if f = strings.TrimSpace(f); f != "" {
					app.fields = append(app.fields, f)
				}
			}
		}

		app.runID = uuid.NewString()
		logger.Log.Debug("invocation start",
			"run_id", app.runID,
			"command", cmd.Name(),
			"workspace", settings.Workspace,
			"format", string(format))
		return nil
	},
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.PersistentFlags().StringVar(&flagFormat, "format", "", "output format: pretty, json, jsonl, tsv (default: pretty on a TTY, json otherwise)")
	rootCmd.PersistentFlags().StringVar(&flagFields, "fields", "", "comma-separated field selection for machine formats")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable verbose diagnostics on stderr")
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "config file path (default is $HOME/.slackscope.yaml)")
}

// Execute runs the CLI and returns the process exit code. Rendered
// data goes to stdout; errors and candidates go to stderr.
func Execute(ctx context.Context) int {
	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return exitOK
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	var amb *resolve.AmbiguousError
	if errors.As(err, &amb) {
		render.NewPretty(os.Stderr, 0, true).Candidates(amb.Candidates)
	}
	return exitCode(err)
}

func exitCode(err error) int {
	var cfgErr *config.Error
	if errors.As(err, &cfgErr) {
		return exitConfig
	}
	var nf *resolve.NotFoundError
	var amb *resolve.AmbiguousError
	if errors.As(err, &nf) || errors.As(err, &amb) {
		return exitResolve
	}
	var apiErr *slack.APIError
	var trErr *slack.TransientError
	if errors.As(err, &apiErr) || errors.As(err, &trErr) {
		return exitNetwork
	}
	return exitGeneral
}
