package slack

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// High-level wrappers over the Web API methods the pipeline uses.

func (c *Client) AuthTest(ctx context.Context) (RawAuth, error) {
	var out RawAuth
	_, err := c.Call(ctx, "auth.test", nil, &out)
	return out, err
}

func (c *Client) UserInfo(ctx context.Context, userID string) (RawUser, error) {
	var out struct {
		User RawUser `json:"user"`
	}
	_, err := c.Call(ctx, "users.info", url.Values{"user": {userID}}, &out)
	return out.User, err
}

// UsersList fetches the full member roster, one page at a time.
func (c *Client) UsersList(ctx context.Context) ([]RawUser, error) {
	pager := c.Pages("users.list", url.Values{"limit": {"200"}})
	var users []RawUser
	for {
		var page struct {
			Members []RawUser `json:"members"`
		}
		ok, err := pager.Next(ctx, &page)
		if err != nil {
			return nil, err
		}
		if !ok {
			return users, nil
		}
		users = append(users, page.Members...)
	}
}

// ConversationsList scans joined conversations of the given types.
// maxItems and maxPages bound the scan; zero means unbounded. The scan
// stops as soon as either budget is met.
func (c *Client) ConversationsList(ctx context.Context, types []string, excludeArchived bool, maxItems, maxPages int) ([]RawChannel, error) {
	if len(types) == 0 {
		return nil, nil
	}
	archived := "0"
	if excludeArchived {
		archived = "1"
	}
	pager := c.Pages("users.conversations", url.Values{
		"types":            {strings.Join(types, ",")},
		"exclude_archived": {archived},
		"limit":            {"200"},
	})
	if maxPages > 0 {
		pager.SetMaxPages(maxPages)
	}

	var channels []RawChannel
	for {
		var page struct {
			Channels []RawChannel `json:"channels"`
		}
		ok, err := pager.Next(ctx, &page)
		if err != nil {
			return nil, err
		}
		if !ok {
			return channels, nil
		}
		channels = append(channels, page.Channels...)
		if maxItems > 0 && len(channels) >= maxItems {
			return channels[:maxItems], nil
		}
	}
}

func (c *Client) ConversationInfo(ctx context.Context, channelID string) (RawChannel, error) {
	var out struct {
		Channel RawChannel `json:"channel"`
	}
	_, err := c.Call(ctx, "conversations.info", url.Values{"channel": {channelID}}, &out)
	if err != nil {
		return RawChannel{}, err
	}
	if out.Channel.ID == "" {
		out.Channel.ID = channelID
	}
	return out.Channel, nil
}

// ConversationHistory collects up to limit messages inside the
// oldest/latest window (zero bound = unset). Pages arrive newest-first
// from the API; ordering is the assembler's concern.
func (c *Client) ConversationHistory(ctx context.Context, channelID string, limit int, oldest, latest float64) ([]RawMessage, error) {
	var messages []RawMessage
	cursor := ""
	for len(messages) < limit {
		batch := limit - len(messages)
		if batch > 200 {
			batch = 200
		}
		params := url.Values{
			"channel": {channelID},
			"limit":   {strconv.Itoa(batch)},
		}
		if oldest > 0 {
			params.Set("oldest", FmtTs(oldest))
		}
		if latest > 0 {
			params.Set("latest", FmtTs(latest))
		}
		if cursor != "" {
			params.Set("cursor", cursor)
		}

		var page struct {
			Messages []RawMessage `json:"messages"`
			HasMore  bool         `json:"has_more"`
		}
		env, err := c.Call(ctx, "conversations.history", params, &page)
		if err != nil {
			return nil, err
		}
		messages = append(messages, page.Messages...)

		cursor = env.ResponseMetadata.NextCursor
		if cursor == "" && !page.HasMore {
			break
		}
		if len(page.Messages) == 0 {
			break
		}
	}
	if len(messages) > limit {
		messages = messages[:limit]
	}
	return messages, nil
}

// ConversationMessage fetches one message by its exact ts.
func (c *Client) ConversationMessage(ctx context.Context, channelID, ts string) (RawMessage, error) {
	var page struct {
		Messages []RawMessage `json:"messages"`
	}
	_, err := c.Call(ctx, "conversations.history", url.Values{
		"channel":   {channelID},
		"latest":    {ts},
		"oldest":    {ts},
		"inclusive": {"true"},
		"limit":     {"1"},
	}, &page)
	if err != nil {
		return RawMessage{}, err
	}
	for _, m := range page.Messages {
		if m.TS == ts {
			return m, nil
		}
	}
	if len(page.Messages) > 0 {
		return page.Messages[0], nil
	}
	return RawMessage{}, fmt.Errorf("message not found in %s at ts=%s", channelID, ts)
}

// ReplyOptions bound a thread-reply fetch. Zero Limit means the full
// thread.
type ReplyOptions struct {
	Limit     int
	Oldest    string
	Inclusive bool
}

// ConversationReplies fetches a thread's messages (root included when
// Inclusive is set with Oldest at the root ts).
func (c *Client) ConversationReplies(ctx context.Context, channelID, threadTS string, opts ReplyOptions) ([]RawMessage, error) {
	params := url.Values{
		"channel": {channelID},
		"ts":      {threadTS},
	}
	if opts.Limit > 0 {
		params.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Oldest != "" {
		params.Set("oldest", opts.Oldest)
	}
	if opts.Inclusive {
		params.Set("inclusive", "true")
	}
	var page struct {
		Messages []RawMessage `json:"messages"`
	}
	_, err := c.Call(ctx, "conversations.replies", params, &page)
	if err != nil {
		return nil, err
	}
	return page.Messages, nil
}
