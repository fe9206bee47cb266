package cli

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/SZRabinowitz/slackscope/pkg/history"
	"github.com/SZRabinowitz/slackscope/pkg/models"
	"github.com/SZRabinowitz/slackscope/pkg/normalize"
	"github.com/SZRabinowitz/slackscope/pkg/render"
	"github.com/SZRabinowitz/slackscope/pkg/resolve"
	"github.com/SZRabinowitz/slackscope/pkg/slack"
)

var (
	threadMaxText  int
	threadFullText bool
)

func init() {
	threadShowCmd.Flags().IntVar(&threadMaxText, "max-text", 180, "message truncation length in pretty output")
	threadShowCmd.Flags().BoolVar(&threadFullText, "full-text", false, "disable truncation in pretty output")
	threadCmd.AddCommand(threadShowCmd)
	rootCmd.AddCommand(threadCmd)
}

var threadCmd = &cobra.Command{
	Use:   "thread",
	Short: "Read thread replies",
}

var threadShowCmd = &cobra.Command{
	Use:   "show <chat> <ts>",
	Short: "Show one full thread (root + replies)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		conversationID, err := resolve.Conversation(ctx, app.run, args[0])
		if err != nil {
			return err
		}
		conversation, err := app.run.Conversation(ctx, conversationID)
		if err != nil {
			return err
		}
		users, err := app.run.UserIndex(ctx)
		if err != nil {
			return err
		}

		raw, err := app.client.ConversationReplies(ctx, conversationID, args[1], slack.ReplyOptions{})
		if err != nil {
			return err
		}
		if len(raw) == 0 {
			if app.format == render.FormatPretty {
				fmt.Fprintln(os.Stdout, "No thread messages found.")
				return nil
			}
			return render.EmitList(os.Stdout, app.format, nil, app.fields, render.HistoryFields)
		}

		root := normalize.Message(raw[0], conversationID, users)
		var replies []models.Message
		for _, m := range raw[1:] {
			replies = append(replies, normalize.Message(m, conversationID, users))
		}
		sort.SliceStable(replies, func(i, j int) bool {
			return models.TsFloat(replies[i].TS) < models.TsFloat(replies[j].TS)
		})

		entry := history.Entry{Message: root, Replies: replies, Enriched: true}
		if app.format == render.FormatPretty {
			label := normalize.ConversationLabel(conversation, users)
			header := fmt.Sprintf("THREAD %s %s replies:%d", label, args[1], len(replies))
			render.NewPretty(os.Stdout, threadMaxText, threadFullText).History(header, []history.Entry{entry})
			return nil
		}
		return render.EmitList(os.Stdout, app.format, render.HistoryRows([]history.Entry{entry}), app.fields, render.HistoryFields)
	},
}
