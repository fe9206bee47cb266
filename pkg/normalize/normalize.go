// Package normalize converts raw API payloads into the stable records
// in pkg/models. It is tolerant of missing optional fields: an absent
// author marks a system/file-only message, and attachments synthesize
// fallback text when no human text exists. Multiline text survives
// verbatim; collapsing and truncation belong to rendering.
package normalize

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/SZRabinowitz/slackscope/pkg/models"
	"github.com/SZRabinowitz/slackscope/pkg/slack"
)

// UserIndex maps user id to raw user for label lookups.
type UserIndex map[string]slack.RawUser

// UserLabel renders "@handle", falling back to the raw id when the
// user is unknown.
func UserLabel(userID string, users UserIndex) string {
	if userID == "" {
		return "@unknown"
	}
	u, ok := users[userID]
	if !ok {
		return "@" + userID
	}
	handle := u.Name
	if handle == "" {
		handle = userID
	}
	return "@" + handle
}

// ConversationKind classifies a raw channel.
func ConversationKind(ch slack.RawChannel) string {
	switch {
	case ch.IsIM:
		return models.KindDM
	case ch.IsMpim:
		return models.KindMPDM
	case ch.IsPrivate:
		return models.KindPrivate
	default:
		return models.KindChannel
	}
}

// ConversationLabel renders the display name: "#name" for channels,
// the counterpart user label for DMs.
func ConversationLabel(ch slack.RawChannel, users UserIndex) string {
	kind := ConversationKind(ch)
	if kind == models.KindDM {
		return UserLabel(ch.User, users)
	}
	name := ch.Name
	if name == "" {
		name = ch.ID
	}
	if kind == models.KindChannel || kind == models.KindPrivate {
		return "#" + name
	}
	return name
}

// ExtractText returns the best textual content of a message: the text
// field, then block text, then an attachment fallback line. Multiline
// content is preserved.
func ExtractText(m slack.RawMessage) string {
	fallback := fileFallback(m.Files)

	if strings.TrimSpace(m.Text) != "" {
		if fallback != "" {
			return m.Text + "\n" + fallback
		}
		return m.Text
	}

	var parts []string
	for _, b := range m.Blocks {
		if t := blockText(b); t != "" {
			parts = append(parts, t)
		}
	}
	if len(parts) > 0 {
		body := strings.Join(parts, "\n")
		if fallback != "" {
			return body + "\n" + fallback
		}
		return body
	}
	return fallback
}

func blockText(b slack.RawBlock) string {
	if t := b.BlockText(); t != "" {
		return t
	}
	var pieces []string
	for _, f := range b.Fields {
		if f.Text != "" {
			pieces = append(pieces, f.Text)
		}
	}
	return strings.Join(pieces, " ")
}

// fileFallback renders "<icon> <name> (<type>, <size>)" for the first
// file, with a "+N more" suffix for the rest.
func fileFallback(files []slack.RawFile) string {
	if len(files) == 0 {
		return ""
	}
	first := files[0]
	title := first.Title
	if title == "" {
		title = first.Name
	}
	if title == "" {
		title = "file"
	}
	kind := first.PrettyType
	if kind == "" {
		kind = first.Filetype
	}
	if kind == "" {
		kind = "file"
	}
	details := kind
	if first.Size > 0 {
		details = fmt.Sprintf("%s, %s", kind, humanize.Bytes(uint64(first.Size)))
	}

	suffix := ""
	if extra := len(files) - 1; extra > 0 {
		plural := ""
		if extra != 1 {
			plural = "s"
		}
		suffix = fmt.Sprintf(" +%d more file%s", extra, plural)
	}
	return fmt.Sprintf("📎 %s (%s)%s", title, details, suffix)
}

// Attachments projects the file list into stable attachment records.
func Attachments(files []slack.RawFile) []models.Attachment {
	if len(files) == 0 {
		return nil
	}
	out := make([]models.Attachment, 0, len(files))
	for _, f := range files {
		name := f.Title
		if name == "" {
			name = f.Name
		}
		kind := f.PrettyType
		if kind == "" {
			kind = f.Filetype
		}
		out = append(out, models.Attachment{Name: name, Kind: kind, Size: f.Size})
	}
	return out
}

// Message normalizes one raw message within chatID.
func Message(m slack.RawMessage, chatID string, users UserIndex) models.Message {
	threadTS := m.ThreadTS
	if threadTS == "" {
		threadTS = m.TS
	}

	author := UserLabel(m.User, users)
	if m.User == "" && m.BotID != "" {
		author = "bot:" + m.BotID
	}
	authorID := m.User
	if authorID == "" {
		authorID = m.BotID
	}

	return models.Message{
		ChatID:         chatID,
		TS:             m.TS,
		ThreadTS:       threadTS,
		Author:         author,
		AuthorID:       authorID,
		Text:           ExtractText(m),
		Subtype:        m.Subtype,
		ReplyCount:     m.ReplyCount,
		IsThreadParent: m.ReplyCount > 0 && m.TS == threadTS,
		Edited:         m.Edited != nil,
		Attachments:    Attachments(m.Files),
	}
}

// Conversation normalizes a raw channel (ideally a snapshot carrying
// latest/unread).
func Conversation(ch slack.RawChannel, users UserIndex) models.Conversation {
	unread := 0
	switch {
	case ch.UnreadCountDisplay != nil:
		unread = *ch.UnreadCountDisplay
	case ch.UnreadCount != nil:
		unread = *ch.UnreadCount
	}

	isMember := true
	if ch.IsMember != nil {
		isMember = *ch.IsMember
	}

	lastTS := ch.LastRead
	lastText := ""
	lastAuthor := ""
	if ch.Latest != nil {
		if ch.Latest.TS != "" {
			lastTS = ch.Latest.TS
		}
		lastText = ExtractText(*ch.Latest)
		lastAuthor = UserLabel(ch.Latest.User, users)
	}

	return models.Conversation{
		ID:         ch.ID,
		Kind:       ConversationKind(ch),
		Name:       ConversationLabel(ch, users),
		IsMember:   isMember,
		IsArchived: ch.IsArchived,
		Unread:     unread,
		LastTS:     lastTS,
		LastAuthor: lastAuthor,
		LastText:   lastText,
		Members:    ch.NumMembers,
		Topic:      ch.Topic.Value,
		Purpose:    ch.Purpose.Value,
	}
}

// User normalizes a raw user.
func User(u slack.RawUser) models.User {
	name := u.Profile.RealName
	if name == "" {
		name = u.Profile.DisplayName
	}
	if name == "" {
		name = u.Name
	}

	handle := u.Name
	if handle == "" {
		handle = u.ID
	}

	status := models.StatusActive
	switch {
	case u.Deleted:
		status = models.StatusDeleted
	case u.IsBot:
		status = models.StatusBot
	case u.Presence == "away":
		status = models.StatusAway
	}

	return models.User{
		ID:     u.ID,
		Handle: "@" + handle,
		Name:   name,
		Email:  u.Profile.Email,
		Status: status,
	}
}

// Me combines auth.test and users.info payloads into the identity
// record.
func Me(auth slack.RawAuth, user slack.RawUser, workspace string) models.Me {
	handle := user.Name
	if handle == "" {
		handle = auth.User
	}
	if handle == "" {
		handle = auth.UserID
	}
	return models.Me{
		Workspace: workspace,
		Team:      auth.Team,
		TeamID:    auth.TeamID,
		User:      "@" + handle,
		UserID:    auth.UserID,
		Email:     user.Profile.Email,
		TZ:        user.TZ,
		TokenOK:   true,
		CookieOK:  true,
	}
}
