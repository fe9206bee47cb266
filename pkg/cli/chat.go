package cli

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/SZRabinowitz/slackscope/pkg/history"
	"github.com/SZRabinowitz/slackscope/pkg/logger"
	"github.com/SZRabinowitz/slackscope/pkg/models"
	"github.com/SZRabinowitz/slackscope/pkg/normalize"
	"github.com/SZRabinowitz/slackscope/pkg/render"
	"github.com/SZRabinowitz/slackscope/pkg/resolve"
	"github.com/SZRabinowitz/slackscope/pkg/timeparse"
)

// chatTypes maps the --type flag onto API conversation types.
var chatTypes = map[string][]string{
	"channel": {"public_channel"},
	"private": {"private_channel"},
	"dm":      {"im"},
	"mpim":    {"mpim"},
	"all":     {"public_channel", "private_channel", "im", "mpim"},
}

var (
	chatListType     string
	chatListUnread   bool
	chatListLimit    int
	chatListMaxText  int
	chatListFullText bool

	historyLimit      int
	historySince      string
	historyUntil      string
	historyInline     int
	historyMaxThreads int
	historyMaxText    int
	historyFullText   bool
)

func init() {
	chatListCmd.Flags().StringVar(&chatListType, "type", "all", "conversation type: channel, private, dm, mpim, all")
	chatListCmd.Flags().BoolVar(&chatListUnread, "unread", false, "show only chats with unread messages")
	chatListCmd.Flags().IntVar(&chatListLimit, "limit", 30, "maximum chats to show")
	chatListCmd.Flags().IntVar(&chatListMaxText, "max-text", 100, "preview truncation length in pretty output")
	chatListCmd.Flags().BoolVar(&chatListFullText, "full-text", false, "disable truncation in pretty output")

	chatHistoryCmd.Flags().IntVar(&historyLimit, "limit", 30, "maximum top-level messages")
	chatHistoryCmd.Flags().StringVar(&historySince, "since", "", "oldest bound: unix ts or duration (e.g. 2h, 1d)")
	chatHistoryCmd.Flags().StringVar(&historyUntil, "until", "", "latest bound: unix ts or duration (e.g. 30m)")
	chatHistoryCmd.Flags().IntVar(&historyInline, "inline-replies", 2, "inline replies shown per thread parent")
	chatHistoryCmd.Flags().IntVar(&historyMaxThreads, "max-inline-threads", 8, "maximum thread parents enriched per call")
	chatHistoryCmd.Flags().IntVar(&historyMaxText, "max-text", 180, "message truncation length in pretty output")
	chatHistoryCmd.Flags().BoolVar(&historyFullText, "full-text", false, "disable truncation in pretty output")

	chatCmd.AddCommand(chatListCmd, chatShowCmd, chatHistoryCmd, chatMessageCmd)
	rootCmd.AddCommand(chatCmd)
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "List and read conversations",
}

var chatListCmd = &cobra.Command{
	Use:   "list",
	Short: "List chats with unread-first sorting",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		types, ok := chatTypes[chatListType]
		if !ok {
			return fmt.Errorf("invalid --type %q (use channel, private, dm, mpim or all)", chatListType)
		}

		// Scan a few pages beyond the display limit so unread-first
		// sorting has something to work with.
		scanItems := chatListLimit * 8
		if scanItems < 120 {
			scanItems = 120
		}
		if scanItems > 1200 {
			scanItems = 1200
		}
		scanPages := chatListLimit/5 + 8
		if scanPages < 8 {
			scanPages = 8
		}
		if scanPages > 30 {
			scanPages = 30
		}

		conversations, err := app.run.NameIndex(ctx, types, true, scanItems, scanPages)
		if err != nil {
			return err
		}
		users, err := app.run.UserIndex(ctx)
		if err != nil {
			return err
		}

		var records []models.Conversation
		for _, ch := range conversations {
			snapshot, err := app.run.Snapshot(ctx, ch.ID)
			if err != nil {
				logger.Log.Warn("snapshot failed", "conversation", ch.ID, "error", err)
				snapshot = ch
			}
			record := normalize.Conversation(snapshot, users)
			if (record.Kind == models.KindChannel || record.Kind == models.KindPrivate) && !record.IsMember {
				continue
			}
			if chatListUnread && record.Unread <= 0 {
				continue
			}
			records = append(records, record)
		}

		sort.SliceStable(records, func(i, j int) bool {
			ui, uj := records[i].Unread > 0, records[j].Unread > 0
			if ui != uj {
				return ui
			}
			return models.TsFloat(records[i].LastTS) > models.TsFloat(records[j].LastTS)
		})

		total := len(records)
		shown := records
		if chatListLimit > 0 && len(shown) > chatListLimit {
			shown = shown[:chatListLimit]
		}

		if app.format == render.FormatPretty {
			render.NewPretty(os.Stdout, chatListMaxText, chatListFullText).ChatList(shown, len(shown), total, chatListType)
			return nil
		}
		return render.EmitList(os.Stdout, app.format, render.RowsOf(shown), app.fields, render.ChatFields)
	},
}

var chatShowCmd = &cobra.Command{
	Use:   "show <chat>",
	Short: "Show metadata for a conversation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		conversationID, err := resolve.Conversation(ctx, app.run, args[0])
		if err != nil {
			return err
		}
		snapshot, err := app.run.Snapshot(ctx, conversationID)
		if err != nil {
			return err
		}
		users, err := app.run.UserIndex(ctx)
		if err != nil {
			return err
		}

		record := normalize.Conversation(snapshot, users)
		row := render.RowOf(record)
		if app.format == render.FormatPretty {
			render.NewPretty(os.Stdout, 0, true).ChatShow(row)
			return nil
		}
		return render.EmitOne(os.Stdout, app.format, row, app.fields, render.ChatShowFields)
	},
}

var chatHistoryCmd = &cobra.Command{
	Use:   "history <chat>",
	Short: "Show messages from a chat with inline thread previews",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		oldest, latest, err := timeparse.Bounds(historySince, historyUntil)
		if err != nil {
			return err
		}
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

		entries, err := history.Assemble(ctx, app.client, conversationID, users, history.Params{
			Limit:            historyLimit,
			Oldest:           oldest,
			Latest:           latest,
			InlineReplies:    historyInline,
			MaxInlineThreads: historyMaxThreads,
		})
		if err != nil {
			return err
		}

		if app.format == render.FormatPretty {
			label := normalize.ConversationLabel(conversation, users)
			header := fmt.Sprintf("%s (%s) latest %d", label, conversationID, len(entries))
			render.NewPretty(os.Stdout, historyMaxText, historyFullText).History(header, entries)
			return nil
		}
		return render.EmitList(os.Stdout, app.format, render.HistoryRows(entries), app.fields, render.HistoryFields)
	},
}

var chatMessageCmd = &cobra.Command{
	Use:   "message <chat> <ts>",
	Short: "Fetch one specific message with full text",
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

		raw, err := app.client.ConversationMessage(ctx, conversationID, args[1])
		if err != nil {
			return err
		}
		message := normalize.Message(raw, conversationID, users)

		if app.format == render.FormatPretty {
			label := normalize.ConversationLabel(conversation, users)
			header := fmt.Sprintf("%s (%s)", label, conversationID)
			render.NewPretty(os.Stdout, 0, true).MessageDetail(header, message)
			return nil
		}
		return render.EmitOne(os.Stdout, app.format, render.RowOf(message), app.fields, render.MessageFields)
	},
}
