package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/SZRabinowitz/slackscope/pkg/history"
	"github.com/SZRabinowitz/slackscope/pkg/models"
	"github.com/SZRabinowitz/slackscope/pkg/normalize"
	"github.com/SZRabinowitz/slackscope/pkg/resolve"
)

var (
	boldStyle    = lipgloss.NewStyle().Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	idStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	kindStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("170"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	alertStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	headerStyle  = lipgloss.NewStyle().Bold(true)
	dayStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("69"))
)

// Pretty renders the human-readable branch: day-grouped, truncated,
// column-aligned terminal output.
type Pretty struct {
	w        io.Writer
	maxText  int
	fullText bool
}

func NewPretty(w io.Writer, maxText int, fullText bool) *Pretty {
	return &Pretty{w: w, maxText: maxText, fullText: fullText}
}

func (p *Pretty) printf(format string, args ...any) {
	fmt.Fprintf(p.w, format+"\n", args...)
}

func (p *Pretty) preview(text string) string {
	return Preview(normalize.PlainText(text), p.maxText, p.fullText)
}

// Me renders the identity card.
func (p *Pretty) Me(me models.Me) {
	p.printf("%s  %s (%s)", boldStyle.Render("WORKSPACE"), idStyle.Render(me.Workspace), me.TeamID)
	p.printf("%s       %s", boldStyle.Render("TEAM"), me.Team)
	p.printf("%s       %s (%s)", boldStyle.Render("USER"), okStyle.Render(me.User), me.UserID)
	if me.Email != "" {
		p.printf("%s      %s", boldStyle.Render("EMAIL"), me.Email)
	}
	if me.TZ != "" {
		p.printf("%s         %s", boldStyle.Render("TZ"), me.TZ)
	}
	p.printf("%s       token:ok cookie_d:ok", boldStyle.Render("AUTH"))
}

// Users renders the member listing.
func (p *Pretty) Users(users []models.User, shown, total int) {
	p.printf("%s %s", headerStyle.Render("USERS"), dimStyle.Render(fmt.Sprintf("(showing %d of %d)", shown, total)))
	if len(users) == 0 {
		p.printf("%s", dimStyle.Render("No users found."))
		return
	}
	for _, u := range users {
		style := alertStyle
		switch u.Status {
		case models.StatusActive:
			style = okStyle
		case models.StatusAway:
			style = warnStyle
		}
		p.printf("%s  %s  %s  %s",
			idStyle.Render(u.ID),
			boldStyle.Render(clipPad(u.Handle, 20)),
			clipPad(u.Name, 24),
			style.Render(u.Status))
	}
}

// ChatList renders the conversation listing, unread-first.
func (p *Pretty) ChatList(chats []models.Conversation, shown, total int, kind string) {
	p.printf("%s %s", headerStyle.Render("CHATS"),
		dimStyle.Render(fmt.Sprintf("(showing %d of %d, type=%s, archived=no)", shown, total, kind)))
	if len(chats) == 0 {
		p.printf("%s", dimStyle.Render("No conversations found."))
		return
	}

	nameWidth := 18
	for _, c := range chats {
		if n := len([]rune(c.Name)); n > nameWidth {
			nameWidth = n
		}
	}
	if nameWidth > 34 {
		nameWidth = 34
	}

	for _, c := range chats {
		marker := " "
		unreadStyle := okStyle
		if c.Unread > 0 {
			marker = alertStyle.Render("!")
			unreadStyle = alertStyle
		}
		line := fmt.Sprintf("%s %s %s %s %s %s",
			marker,
			kindStyle.Render(clipPad(c.Kind, 7)),
			idStyle.Render(clipPad(c.ID, 11)),
			boldStyle.Render(clipPad(c.Name, nameWidth)),
			unreadStyle.Render(fmt.Sprintf("u:%2d", c.Unread)),
			dimStyle.Render(activityTime(c.LastTS)))
		if text := p.preview(c.LastText); text != "" {
			line += "    " + text
		}
		p.printf("%s", line)
	}
}

// ChatShow renders conversation metadata as a key/value card.
func (p *Pretty) ChatShow(row Row) {
	for _, key := range ChatShowFields {
		v, ok := row[key]
		if !ok || v == nil || v == "" {
			continue
		}
		p.printf("%s %s", boldStyle.Render(clipPad(key, 11)), tsvCell(v))
	}
}

// History renders the day-grouped message stream with inline thread
// previews.
func (p *Pretty) History(header string, entries []history.Entry) {
	if header != "" {
		p.printf("%s", headerStyle.Render(header))
	}
	if len(entries) == 0 {
		p.printf("%s", dimStyle.Render("No messages found."))
		return
	}

	tsWidth, authorWidth := historyColumnWidths(entries)
	metaWidth := 5 + 1 + tsWidth + 1 + authorWidth
	var currentDay string
	haveDay := false

	for _, e := range entries {
		day := dayLabel(e.Message.TS)
		if !haveDay || day != currentDay {
			if haveDay {
				p.printf("")
			}
			p.printf("%s", dayStyle.Render(day))
			currentDay = day
			haveDay = true
		}

		text := p.preview(e.Message.Text)
		suffix := messageSuffix(e.Message, text)
		p.printf("  %s    %s%s", p.meta(e.Message, tsWidth, authorWidth), text, suffix)

		for _, reply := range e.Replies {
			p.printf("     %s %s %s    %s",
				dimStyle.Render("┃"), dimStyle.Render("↳"),
				p.meta(reply, tsWidth, authorWidth),
				p.preview(reply.Text))
		}
		if e.Overflow > 0 {
			p.printf("     %s %s %s    %s",
				dimStyle.Render("┃"), dimStyle.Render("↳"),
				strings.Repeat(" ", metaWidth),
				dimStyle.Render(fmt.Sprintf("... +%d more (use thread show)", e.Overflow)))
		}
	}
}

// MessageDetail renders one message with full text.
func (p *Pretty) MessageDetail(header string, m models.Message) {
	p.printf("%s", headerStyle.Render(header))
	p.printf("  %s", p.meta(m, max(16, len(m.TS)), max(16, min(30, len([]rune(m.Author))))))
	if m.ThreadTS != "" && m.ThreadTS != m.TS {
		p.printf("%s %s", boldStyle.Render("thread_ts"), m.ThreadTS)
	}
	if m.Subtype != "" {
		p.printf("%s %s", boldStyle.Render("subtype"), m.Subtype)
	}
	if m.Edited {
		p.printf("%s true", boldStyle.Render("edited"))
	}
	p.printf("")
	if m.Text != "" {
		p.printf("%s", normalize.PlainText(m.Text))
	} else {
		p.printf("%s", dimStyle.Render("(no text content)"))
	}
}

// Candidates lists ambiguous resolution matches on the diagnostic
// surface.
func (p *Pretty) Candidates(candidates []resolve.Candidate) {
	p.printf("%s", boldStyle.Render("Candidates:"))
	for _, c := range candidates {
		bits := []string{c.ID, c.Name, c.Kind}
		var cleaned []string
		for _, b := range bits {
			if b != "" {
				cleaned = append(cleaned, b)
			}
		}
		p.printf("  - %s", strings.Join(cleaned, "  "))
	}
}

func (p *Pretty) meta(m models.Message, tsWidth, authorWidth int) string {
	return fmt.Sprintf("%s %s %s",
		dimStyle.Render(fmt.Sprintf("%5s", clockTime(m.TS))),
		idStyle.Render(clipPad(m.TS, tsWidth)),
		boldStyle.Render(clipPad(m.Author, authorWidth)))
}

func messageSuffix(m models.Message, shownText string) string {
	var bits []string
	if m.IsThreadParent && m.ReplyCount > 0 {
		bits = append(bits, fmt.Sprintf("%d replies", m.ReplyCount))
	}
	if m.Edited {
		bits = append(bits, "edited")
	}
	if m.Subtype != "" && (shownText == "" || m.Subtype != "bot_message") {
		bits = append(bits, m.Subtype)
	}
	if len(bits) == 0 {
		return ""
	}
	return " " + dimStyle.Render("("+strings.Join(bits, " | ")+")")
}

func historyColumnWidths(entries []history.Entry) (tsWidth, authorWidth int) {
	tsLen, authorLen := 16, 16
	observe := func(m models.Message) {
		if n := len(m.TS); n > tsLen {
			tsLen = n
		}
		if n := len([]rune(m.Author)); n > authorLen {
			authorLen = n
		}
	}
	for _, e := range entries {
		observe(e.Message)
		for _, r := range e.Replies {
			observe(r)
		}
	}
	return min(tsLen, 20), min(authorLen, 28)
}

// dayLabel buckets a ts by local calendar date: Today, Yesterday, or
// the date itself.
func dayLabel(ts string) string {
	t, ok := models.TsTime(ts)
	if !ok {
		return "Unknown Day"
	}
	now := time.Now()
	today := now.Format("2006-01-02")
	yesterday := now.AddDate(0, 0, -1).Format("2006-01-02")
	switch t.Format("2006-01-02") {
	case today:
		return "Today"
	case yesterday:
		return "Yesterday"
	}
	return t.Format("Jan 02")
}

func clockTime(ts string) string {
	t, ok := models.TsTime(ts)
	if !ok {
		return "--:--"
	}
	return t.Format("15:04")
}

func activityTime(ts string) string {
	t, ok := models.TsTime(ts)
	if !ok {
		return "-- -- --:--"
	}
	if t.Format("2006-01-02") == time.Now().Format("2006-01-02") {
		return "Today " + t.Format("15:04")
	}
	return t.Format("01-02 15:04")
}
