package normalize

import (
	"html"
	"regexp"
	"strings"
)

// Slack message markup tokens.
var (
	channelRe       = regexp.MustCompile(`<#([A-Z0-9]+)\|([^>]+)>`)
	linkWithLabelRe = regexp.MustCompile(`<([^|>]+)\|([^>]+)>`)
	plainLinkRe     = regexp.MustCompile(`<(https?://[^>]+)>`)
	mentionRe       = regexp.MustCompile(`<@([A-Z0-9]+)>`)
	specialRe       = regexp.MustCompile(`<!([a-zA-Z0-9_^]+)>`)
)

// PlainText flattens Slack markup (<@U..>, <#C..|name>, <url|label>,
// <!here>) into readable plain text for terminal display. Machine
// formats keep the raw text untouched.
func PlainText(text string) string {
	if text == "" {
		return ""
	}
	out := html.UnescapeString(text)
	out = channelRe.ReplaceAllString(out, "#$2")
	out = linkWithLabelRe.ReplaceAllString(out, "$2")
	out = plainLinkRe.ReplaceAllString(out, "$1")
	out = mentionRe.ReplaceAllString(out, "@$1")
	out = specialRe.ReplaceAllStringFunc(out, replaceSpecial)
	return out
}

func replaceSpecial(match string) string {
	token := strings.ToLower(strings.Trim(match, "<!>"))
	switch {
	case token == "here" || token == "channel" || token == "everyone":
		return "@" + token
	case strings.HasPrefix(token, "subteam^"):
		return "@group"
	}
	return "!" + token
}
