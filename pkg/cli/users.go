package cli

import (
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/SZRabinowitz/slackscope/pkg/models"
	"github.com/SZRabinowitz/slackscope/pkg/normalize"
	"github.com/SZRabinowitz/slackscope/pkg/render"
)

var (
	usersQuery string
	usersLimit int
)

func init() {
	usersListCmd.Flags().StringVar(&usersQuery, "query", "", "filter users by id, handle, name, or email")
	usersListCmd.Flags().IntVar(&usersLimit, "limit", 50, "maximum users to show")
	usersCmd.AddCommand(usersListCmd)
	rootCmd.AddCommand(usersCmd)
}

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "List and inspect users",
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List workspace users",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := app.run.Users(cmd.Context())
		if err != nil {
			return err
		}

		var users []models.User
		for _, u := range raw {
			if u.Deleted {
				continue
			}
			users = append(users, normalize.User(u))
		}
		sort.SliceStable(users, func(i, j int) bool {
			return strings.ToLower(users[i].Handle) < strings.ToLower(users[j].Handle)
		})

		if usersQuery != "" {
			needle := strings.ToLower(strings.TrimSpace(usersQuery))
			var filtered []models.User
			for _, u := range users {
				haystack := strings.ToLower(strings.Join([]string{u.ID, u.Handle, u.Name, u.Email}, " "))
				if strings.Contains(haystack, needle) {
					filtered = append(filtered, u)
				}
			}
			users = filtered
		}

		total := len(users)
		shown := users
		if usersLimit > 0 && len(shown) > usersLimit {
			shown = shown[:usersLimit]
		}

		if app.format == render.FormatPretty {
			render.NewPretty(os.Stdout, 0, true).Users(shown, len(shown), total)
			return nil
		}
		return render.EmitList(os.Stdout, app.format, render.RowsOf(shown), app.fields, render.UserFields)
	},
}
