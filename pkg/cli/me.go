package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/SZRabinowitz/slackscope/pkg/normalize"
	"github.com/SZRabinowitz/slackscope/pkg/render"
	"github.com/SZRabinowitz/slackscope/pkg/slack"
)

func init() {
	rootCmd.AddCommand(meCmd)
}

var meCmd = &cobra.Command{
	Use:   "me",
	Short: "Show authenticated user and workspace information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		auth, err := app.client.AuthTest(ctx)
		if err != nil {
			return err
		}
		var user slack.RawUser
		if auth.UserID != "" {
			user, err = app.client.UserInfo(ctx, auth.UserID)
			if err != nil {
				return err
			}
		}

		me := normalize.Me(auth, user, app.settings.Workspace)
		if app.format == render.FormatPretty {
			render.NewPretty(os.Stdout, 0, true).Me(me)
			return nil
		}
		return render.EmitOne(os.Stdout, app.format, render.RowOf(me), app.fields, render.MeFields)
	},
}
