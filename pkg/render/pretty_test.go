package render

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SZRabinowitz/slackscope/pkg/history"
	"github.com/SZRabinowitz/slackscope/pkg/models"
	"github.com/SZRabinowitz/slackscope/pkg/resolve"
)

func tsAt(t time.Time) string {
	return fmt.Sprintf("%d.000100", t.Unix())
}

func TestHistoryDayGrouping(t *testing.T) {
	now := time.Now()
	entries := []history.Entry{
		{Message: models.Message{TS: tsAt(now.AddDate(0, 0, -3)), Author: "@jane", Text: "old one"}},
		{Message: models.Message{TS: tsAt(now.AddDate(0, 0, -1)), Author: "@jane", Text: "from yesterday"}},
		{Message: models.Message{TS: tsAt(now.Add(-2 * time.Minute)), Author: "@jane", Text: "first today"}},
		{Message: models.Message{TS: tsAt(now.Add(-time.Minute)), Author: "@jane", Text: "second today"}},
	}

	var buf bytes.Buffer
	NewPretty(&buf, 180, false).History("#general", entries)
	out := buf.String()

	assert.Contains(t, out, "Yesterday")
	assert.Equal(t, 1, strings.Count(out, "Today"), "consecutive same-day messages share one header")
	assert.Contains(t, out, now.AddDate(0, 0, -3).Format("Jan 02"))
	assert.Contains(t, out, "first today")
	assert.Contains(t, out, "second today")
}

func TestHistoryInlineReplies(t *testing.T) {
	now := time.Now()
	rootTS := tsAt(now.Add(-time.Hour))
	entries := []history.Entry{{
		Message: models.Message{
			TS: rootTS, ThreadTS: rootTS, Author: "@jane", Text: "root message",
			ReplyCount: 5, IsThreadParent: true,
		},
		Replies: []models.Message{
			{TS: tsAt(now.Add(-50 * time.Minute)), ThreadTS: rootTS, Author: "@omar", Text: "first reply"},
			{TS: tsAt(now.Add(-40 * time.Minute)), ThreadTS: rootTS, Author: "@omar", Text: "second reply"},
		},
		Overflow: 2,
		Enriched: true,
	}}

	var buf bytes.Buffer
	NewPretty(&buf, 180, false).History("#general", entries)
	out := buf.String()

	assert.Contains(t, out, "(5 replies)")
	assert.Contains(t, out, "↳")
	assert.Contains(t, out, "first reply")
	assert.Contains(t, out, "... +2 more (use thread show)")
}

func TestHistoryNoOverflowMarkerWhenFullyShown(t *testing.T) {
	now := time.Now()
	rootTS := tsAt(now.Add(-time.Hour))
	entries := []history.Entry{{
		Message: models.Message{TS: rootTS, ThreadTS: rootTS, Author: "@jane", Text: "root", ReplyCount: 1, IsThreadParent: true},
		Replies: []models.Message{
			{TS: tsAt(now.Add(-50 * time.Minute)), ThreadTS: rootTS, Author: "@omar", Text: "only reply"},
		},
		Enriched: true,
	}}

	var buf bytes.Buffer
	NewPretty(&buf, 180, false).History("#general", entries)
	assert.NotContains(t, buf.String(), "more (use thread show)")
}

func TestHistoryTruncatesLongText(t *testing.T) {
	entries := []history.Entry{{Message: models.Message{
		TS: tsAt(time.Now()), Author: "@jane", Text: strings.Repeat("x", 300),
	}}}

	var buf bytes.Buffer
	NewPretty(&buf, 50, false).History("", entries)
	out := buf.String()
	assert.Contains(t, out, strings.Repeat("x", 50)+"...")
	assert.NotContains(t, out, strings.Repeat("x", 51))
}

func TestHistoryFullTextKeepsNewlines(t *testing.T) {
	entries := []history.Entry{{Message: models.Message{
		TS: tsAt(time.Now()), Author: "@jane", Text: "line one\nline two",
	}}}

	var buf bytes.Buffer
	NewPretty(&buf, 50, true).History("", entries)
	assert.Contains(t, buf.String(), "line one\nline two")
}

func TestHistoryFlattensMarkup(t *testing.T) {
	entries := []history.Entry{{Message: models.Message{
		TS: tsAt(time.Now()), Author: "@jane", Text: "see <https://a.io|the docs> in <#C123|general>",
	}}}

	var buf bytes.Buffer
	NewPretty(&buf, 180, false).History("", entries)
	out := buf.String()
	assert.Contains(t, out, "see the docs in #general")
	assert.NotContains(t, out, "<https://a.io|the docs>")
}

func TestHistoryEmpty(t *testing.T) {
	var buf bytes.Buffer
	NewPretty(&buf, 180, false).History("#general", nil)
	assert.Contains(t, buf.String(), "No messages found.")
}

func TestMeCard(t *testing.T) {
	var buf bytes.Buffer
	NewPretty(&buf, 0, true).Me(models.Me{
		Workspace: "acme", Team: "Acme Inc", TeamID: "T1",
		User: "@jane", UserID: "U1", Email: "jane@acme.io", TZ: "Europe/Berlin",
	})
	out := buf.String()
	assert.Contains(t, out, "acme")
	assert.Contains(t, out, "@jane (U1)")
	assert.Contains(t, out, "token:ok cookie_d:ok")
}

func TestUsersListing(t *testing.T) {
	var buf bytes.Buffer
	NewPretty(&buf, 0, true).Users([]models.User{
		{ID: "U1", Handle: "@jane", Name: "Jane Doe", Status: models.StatusActive},
		{ID: "U2", Handle: "@deploybot", Name: "Deploy Bot", Status: models.StatusBot},
	}, 2, 40)
	out := buf.String()
	assert.Contains(t, out, "(showing 2 of 40)")
	assert.Contains(t, out, "@jane")
	assert.Contains(t, out, models.StatusBot)
}

func TestChatListUnreadMarker(t *testing.T) {
	var buf bytes.Buffer
	NewPretty(&buf, 100, false).ChatList([]models.Conversation{
		{ID: "C1", Kind: models.KindChannel, Name: "#general", Unread: 3, LastTS: tsAt(time.Now()), LastText: "newest message"},
		{ID: "C2", Kind: models.KindChannel, Name: "#quiet", Unread: 0, LastTS: tsAt(time.Now().Add(-time.Hour))},
	}, 2, 2, "all")
	out := buf.String()
	assert.Contains(t, out, "!")
	assert.Contains(t, out, "u: 3")
	assert.Contains(t, out, "newest message")
}

func TestCandidates(t *testing.T) {
	var buf bytes.Buffer
	NewPretty(&buf, 0, true).Candidates([]resolve.Candidate{
		{ID: "C1", Name: "#dev", Kind: "channel"},
		{ID: "C2", Name: "#dev", Kind: "private"},
	})
	out := buf.String()
	require.Contains(t, out, "Candidates:")
	assert.Contains(t, out, "C1")
	assert.Contains(t, out, "C2")
}

func TestDayLabel(t *testing.T) {
	now := time.Now()
	assert.Equal(t, "Today", dayLabel(tsAt(now)))
	assert.Equal(t, "Yesterday", dayLabel(tsAt(now.AddDate(0, 0, -1))))
	old := now.AddDate(0, 0, -10)
	assert.Equal(t, old.Format("Jan 02"), dayLabel(tsAt(old)))
	assert.Equal(t, "Unknown Day", dayLabel("not-a-ts"))
}
