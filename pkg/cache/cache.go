// Package cache holds the run-scoped memoization layer. A Run is
// constructed at invocation start, shared by everything in that
// invocation, and discarded with the process; nothing persists.
package cache

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/SZRabinowitz/slackscope/pkg/models"
	"github.com/SZRabinowitz/slackscope/pkg/slack"
)

// Run memoizes metadata lookups for one command invocation.
// Single-flight per key: concurrent callers of the same (kind, id)
// share one fetch instead of issuing duplicates.
type Run struct {
	client *slack.Client

	flight  singleflight.Group
	mu      sync.Mutex
	results map[string]any
}

func New(client *slack.Client) *Run {
	return &Run{
		client:  client,
		results: map[string]any{},
	}
}

// get is the get_or_fetch primitive: return a memoized result or run
// fetch exactly once for the key, even under concurrent access.
func get[T any](r *Run, kind, id string, fetch func() (T, error)) (T, error) {
	key := kind + ":" + id
	r.mu.Lock()
	if v, ok := r.results[key]; ok {
		r.mu.Unlock()
		return v.(T), nil
	}
	r.mu.Unlock()

	v, err, _ := r.flight.Do(key, func() (any, error) {
		v, err := fetch()
		if err != nil {
			return nil, err
		}
		r.mu.Lock()
		r.results[key] = v
		r.mu.Unlock()
		return v, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// Users returns the full member roster, fetched at most once per run.
func (r *Run) Users(ctx context.Context) ([]slack.RawUser, error) {
	return get(r, "users", "all", func() ([]slack.RawUser, error) {
		return r.client.UsersList(ctx)
	})
}

// UserIndex returns the roster keyed by user id.
func (r *Run) UserIndex(ctx context.Context) (map[string]slack.RawUser, error) {
	return get(r, "users", "index", func() (map[string]slack.RawUser, error) {
		users, err := r.Users(ctx)
		if err != nil {
			return nil, err
		}
		index := make(map[string]slack.RawUser, len(users))
		for _, u := range users {
			if u.ID != "" {
				index[u.ID] = u
			}
		}
		return index, nil
	})
}

// Conversation returns conversations.info metadata for id.
func (r *Run) Conversation(ctx context.Context, id string) (slack.RawChannel, error) {
	return get(r, "conversation", id, func() (slack.RawChannel, error) {
		return r.client.ConversationInfo(ctx, id)
	})
}

// Snapshot returns a conversation enriched with its latest message and
// an unread count, filling both from a one-message history fetch when
// the API omits them.
func (r *Run) Snapshot(ctx context.Context, id string) (slack.RawChannel, error) {
	return get(r, "snapshot", id, func() (slack.RawChannel, error) {
		ch, err := r.Conversation(ctx, id)
		if err != nil {
			return slack.RawChannel{}, err
		}
		if ch.Latest == nil || ch.Latest.TS == "" {
			history, err := r.client.ConversationHistory(ctx, id, 1, 0, 0)
			if err == nil && len(history) > 0 {
				latest := history[0]
				ch.Latest = &latest
			}
		}
		if ch.UnreadCount == nil && ch.UnreadCountDisplay == nil {
			unread := unreadFallback(ch)
			ch.UnreadCount = &unread
		}
		return ch, nil
	})
}

// NameIndex returns a bounded scan of joined conversations used for
// name resolution and listing.
func (r *Run) NameIndex(ctx context.Context, types []string, excludeArchived bool, maxItems, maxPages int) ([]slack.RawChannel, error) {
	key := "join:" + joinTypes(types, excludeArchived)
	return get(r, "conversations", key, func() ([]slack.RawChannel, error) {
		return r.client.ConversationsList(ctx, types, excludeArchived, maxItems, maxPages)
	})
}

// DMForUser finds the direct-message conversation for a user id, if
// one exists.
func (r *Run) DMForUser(ctx context.Context, userID string) (slack.RawChannel, bool, error) {
	dms, err := r.NameIndex(ctx, []string{"im"}, false, 0, 20)
	if err != nil {
		return slack.RawChannel{}, false, err
	}
	for _, ch := range dms {
		if ch.User == userID {
			return ch, true, nil
		}
	}
	return slack.RawChannel{}, false, nil
}

func unreadFallback(ch slack.RawChannel) int {
	if ch.Latest == nil {
		return 0
	}
	latest := models.TsFloat(ch.Latest.TS)
	lastRead := models.TsFloat(ch.LastRead)
	if latest > 0 && lastRead > 0 && latest > lastRead {
		return 1
	}
	return 0
}

func joinTypes(types []string, excludeArchived bool) string {
	key := ""
	for i, t := range types {
		if i > 0 {
			key += ","
		}
		key += t
	}
	if excludeArchived {
		key += "|no-archived"
	}
	return key
}
