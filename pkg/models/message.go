package models

import (
	"strconv"
	"time"
)

// Message is the normalized form of one chat event. TS doubles as the
// message id: Slack timestamps are "seconds.micros" strings that sort
// the same lexicographically and numerically within a conversation.
type Message struct {
	ChatID   string `json:"chat_id"`
	TS       string `json:"ts"`
	ThreadTS string `json:"thread_ts,omitempty"`
	// Author is a display label ("@handle", "bot:B123" or "@U123" when
	// the user is unknown). AuthorID is empty for system/file events.
	Author   string `json:"author"`
	AuthorID string `json:"author_id,omitempty"`
	Text     string `json:"text"`
	Subtype  string `json:"subtype,omitempty"`
	// ReplyCount is set on thread parents only.
	ReplyCount     int          `json:"reply_count,omitempty"`
	IsThreadParent bool         `json:"is_thread_parent,omitempty"`
	Edited         bool         `json:"edited,omitempty"`
	Attachments    []Attachment `json:"attachments,omitempty"`
}

// Attachment is one file carried by a message.
type Attachment struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
	Size int64  `json:"size"`
}

// TsFloat parses a Slack ts string into epoch seconds. Unparseable
// values sort first.
func TsFloat(ts string) float64 {
	v, err := strconv.ParseFloat(ts, 64)
	if err != nil {
		return 0
	}
	return v
}

// TsTime converts a Slack ts string into local time.
func TsTime(ts string) (time.Time, bool) {
	v, err := strconv.ParseFloat(ts, 64)
	if err != nil {
		return time.Time{}, false
	}
	sec := int64(v)
	nsec := int64((v - float64(sec)) * 1e9)
	return time.Unix(sec, nsec), true
}
