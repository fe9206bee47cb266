// Package history drives the paginated history fetch and bounded
// inline thread enrichment. Worst-case network cost per call is one
// history scan plus MaxInlineThreads reply fetches, no matter how many
// threaded parents the window contains.
package history

import (
	"context"
	"errors"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/SZRabinowitz/slackscope/pkg/logger"
	"github.com/SZRabinowitz/slackscope/pkg/models"
	"github.com/SZRabinowitz/slackscope/pkg/normalize"
	"github.com/SZRabinowitz/slackscope/pkg/slack"
)

// API is the fetch surface the assembler needs.
type API interface {
	ConversationHistory(ctx context.Context, channelID string, limit int, oldest, latest float64) ([]slack.RawMessage, error)
	ConversationReplies(ctx context.Context, channelID, threadTS string, opts slack.ReplyOptions) ([]slack.RawMessage, error)
}

// Params bound one assembly run.
type Params struct {
	Limit            int
	Oldest           float64 // zero = unbounded
	Latest           float64 // zero = unbounded
	InlineReplies    int
	MaxInlineThreads int
}

// Entry is one top-level message with its inline reply preview.
// Overflow counts replies beyond the preview. Enriched distinguishes
// "fetched, zero replies" from "skipped by the thread cap" — both
// render identically but behave differently under test.
type Entry struct {
	Message  models.Message
	Replies  []models.Message
	Overflow int
	Enriched bool
}

// Assemble fetches the window oldest-first and enriches the first
// MaxInlineThreads thread parents, in parent order, with up to
// InlineReplies replies each. A failed reply fetch degrades that one
// parent and logs a diagnostic; it never fails the whole run.
func Assemble(ctx context.Context, api API, conversationID string, users normalize.UserIndex, p Params) ([]Entry, error) {
	raw, err := api.ConversationHistory(ctx, conversationID, p.Limit, p.Oldest, p.Latest)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(raw))
	for _, m := range raw {
		msg := normalize.Message(m, conversationID, users)
		e := Entry{Message: msg}
		if msg.IsThreadParent {
			// Default presentation for an unenriched parent: the whole
			// thread is overflow.
			e.Overflow = msg.ReplyCount
		}
		entries = append(entries, e)
	}
	// The API returns newest-first; display order is oldest-first.
	sort.SliceStable(entries, func(i, j int) bool {
		return models.TsFloat(entries[i].Message.TS) < models.TsFloat(entries[j].Message.TS)
	})

	if p.InlineReplies <= 0 || p.MaxInlineThreads <= 0 {
		return entries, nil
	}

	var parents []int
	for i := range entries {
		if !entries[i].Message.IsThreadParent {
			continue
		}
		parents = append(parents, i)
		if len(parents) >= p.MaxInlineThreads {
			break
		}
	}
	if len(parents) == 0 {
		return entries, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.MaxInlineThreads)
	for _, idx := range parents {
		idx := idx
		g.Go(func() error {
			// Each task owns exactly one entry slot; no shared writes.
			err := enrich(gctx, api, conversationID, users, p.InlineReplies, &entries[idx])
			if err == nil {
				return nil
			}
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			logger.Log.Warn("thread enrichment failed",
				"conversation", conversationID,
				"thread_ts", entries[idx].Message.ThreadTS,
				"error", err)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return entries, nil
}

func enrich(ctx context.Context, api API, conversationID string, users normalize.UserIndex, inlineReplies int, e *Entry) error {
	parent := e.Message
	raw, err := api.ConversationReplies(ctx, conversationID, parent.ThreadTS, slack.ReplyOptions{
		// +1 covers the root, which the inclusive fetch returns first.
		Limit:     inlineReplies + 1,
		Oldest:    parent.ThreadTS,
		Inclusive: true,
	})
	if err != nil {
		return err
	}

	replies := make([]models.Message, 0, inlineReplies)
	for _, m := range raw {
		if m.TS == parent.TS {
			continue
		}
		replies = append(replies, normalize.Message(m, conversationID, users))
		if len(replies) >= inlineReplies {
			break
		}
	}
	sort.SliceStable(replies, func(i, j int) bool {
		return models.TsFloat(replies[i].TS) < models.TsFloat(replies[j].TS)
	})

	e.Replies = replies
	e.Overflow = overflow(parent.ReplyCount, len(replies))
	e.Enriched = true
	return nil
}

// overflow subtracts the root (already counted in reply_count) and the
// shown preview from the thread total.
func overflow(replyCount, shown int) int {
	n := replyCount - 1 - shown
	if n < 0 {
		return 0
	}
	return n
}
