package cli

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var (
	apiMethod string
	apiParams []string
)

func init() {
	apiCallCmd.Flags().StringVarP(&apiMethod, "method", "X", "POST", "HTTP method")
	apiCallCmd.Flags().StringArrayVarP(&apiParams, "param", "p", nil, "request parameter key=value (repeatable)")
	apiCmd.AddCommand(apiCallCmd)
	rootCmd.AddCommand(apiCmd)
}

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Raw Slack Web API access",
}

// apiCallCmd is a passthrough around the fetch client: no envelope
// validation, no normalization, raw body to stdout.
var apiCallCmd = &cobra.Command{
	Use:   "call <endpoint>",
	Short: "Call a Slack API endpoint and print the raw response",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		params := url.Values{}
		for _, kv := range apiParams {
			key, value, ok := strings.Cut(kv, "=")
			if !ok {
				return fmt.Errorf("invalid --param %q (expected key=value)", kv)
			}
			params.Add(key, value)
		}

		body, err := app.client.CallRaw(cmd.Context(), args[0], apiMethod, params)
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, body)
		return nil
	},
}
