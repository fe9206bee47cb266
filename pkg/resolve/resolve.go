// Package resolve turns user-supplied targets (#channel, @handle, raw
// IDs) into canonical conversation or user IDs. Raw ID shapes are
// accepted without any lookup call; names go through an exact
// case-sensitive match first and a normalized (case-insensitive,
// punctuation-insensitive) match second. Ambiguity is an error
// carrying the candidate list, never a silent first pick.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/SZRabinowitz/slackscope/pkg/models"
	"github.com/SZRabinowitz/slackscope/pkg/slack"
)

var (
	conversationIDRe = regexp.MustCompile(`^[CDG][A-Z0-9]+$`)
	userIDRe         = regexp.MustCompile(`^U[A-Z0-9]+$`)
	nonAlnumRe       = regexp.MustCompile(`[^a-z0-9]+`)
)

// nameScanTypes are the conversation types scanned for name matches.
var nameScanTypes = []string{"public_channel", "private_channel"}

// Candidate describes one match surfaced on ambiguity.
type Candidate struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Kind string `json:"type"`
}

type NotFoundError struct {
	Target string
	Reason string
}

func (e *NotFoundError) Error() string {
	if e.Reason != "" {
		return e.Reason
	}
	return fmt.Sprintf("no match found for target: %s", e.Target)
}

type AmbiguousError struct {
	Target     string
	Candidates []Candidate
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("multiple matches for %q; use an ID", e.Target)
}

// Directory is the lookup surface the resolver needs, served by the
// run cache so repeated resolutions never duplicate network calls.
type Directory interface {
	NameIndex(ctx context.Context, types []string, excludeArchived bool, maxItems, maxPages int) ([]slack.RawChannel, error)
	Users(ctx context.Context) ([]slack.RawUser, error)
	DMForUser(ctx context.Context, userID string) (slack.RawChannel, bool, error)
}

// Conversation resolves #channel, @user DM, or a raw conversation ID
// into a conversation ID.
func Conversation(ctx context.Context, dir Directory, target string) (string, error) {
	raw := strings.TrimSpace(target)
	if conversationIDRe.MatchString(raw) {
		return raw, nil
	}
	if strings.HasPrefix(raw, "@") {
		return DM(ctx, dir, raw)
	}

	needle := strings.TrimSpace(strings.TrimPrefix(raw, "#"))
	if needle == "" {
		return "", &NotFoundError{Target: target, Reason: "conversation name cannot be empty"}
	}

	channels, err := dir.NameIndex(ctx, nameScanTypes, false, 0, 20)
	if err != nil {
		return "", err
	}

	id, err := matchConversation(target, needle, channels)
	if err == nil {
		return id, nil
	}
	var nf *NotFoundError
	if errors.As(err, &nf) {
		// Bare names may be DM targets without a sigil.
		if id, dmErr := DM(ctx, dir, raw); dmErr == nil {
			return id, nil
		}
	}
	return "", err
}

func matchConversation(target, needle string, channels []slack.RawChannel) (string, error) {
	var exact []slack.RawChannel
	for _, ch := range channels {
		if ch.Name == needle {
			exact = append(exact, ch)
		}
	}
	if len(exact) == 1 {
		return exact[0].ID, nil
	}
	if len(exact) > 1 {
		return "", &AmbiguousError{Target: target, Candidates: conversationCandidates(exact)}
	}

	norm := normalizeName(needle)
	if norm != "" {
		var loose []slack.RawChannel
		for _, ch := range channels {
			if normalizeName(ch.Name) == norm {
				loose = append(loose, ch)
			}
		}
		if len(loose) == 1 {
			return loose[0].ID, nil
		}
		if len(loose) > 1 {
			return "", &AmbiguousError{Target: target, Candidates: conversationCandidates(loose)}
		}
	}
	return "", &NotFoundError{Target: target}
}

// User resolves @handle or a raw user ID into a user ID.
func User(ctx context.Context, dir Directory, target string) (string, error) {
	raw := strings.TrimSpace(target)
	if userIDRe.MatchString(raw) {
		return raw, nil
	}

	needle := strings.TrimSpace(strings.TrimPrefix(raw, "@"))
	if needle == "" {
		return "", &NotFoundError{Target: target, Reason: "user handle cannot be empty"}
	}

	users, err := dir.Users(ctx)
	if err != nil {
		return "", err
	}

	var exact []slack.RawUser
	for _, u := range users {
		if u.Deleted {
			continue
		}
		if u.Name == needle || u.Profile.DisplayName == needle || u.Profile.RealName == needle {
			exact = append(exact, u)
		}
	}
	if len(exact) == 0 {
		norm := normalizeName(needle)
		for _, u := range users {
			if u.Deleted {
				continue
			}
			if normalizeName(u.Name) == norm ||
				normalizeName(u.Profile.DisplayName) == norm ||
				normalizeName(u.Profile.RealName) == norm {
				exact = append(exact, u)
			}
		}
	}

	if len(exact) == 0 {
		return "", &NotFoundError{Target: target, Reason: fmt.Sprintf("no user found for target: %s", target)}
	}
	if len(exact) > 1 {
		candidates := make([]Candidate, 0, len(exact))
		for i, u := range exact {
			if i >= 8 {
				break
			}
			candidates = append(candidates, Candidate{
				ID:   u.ID,
				Name: "@" + u.Name,
				Kind: "user",
			})
		}
		return "", &AmbiguousError{Target: target, Candidates: candidates}
	}
	return exact[0].ID, nil
}

// DM resolves @user, U*, or D* into a DM conversation ID.
func DM(ctx context.Context, dir Directory, target string) (string, error) {
	raw := strings.TrimSpace(target)
	if strings.HasPrefix(raw, "D") && conversationIDRe.MatchString(raw) {
		return raw, nil
	}

	userID, err := User(ctx, dir, raw)
	if err != nil {
		return "", err
	}
	dm, ok, err := dir.DMForUser(ctx, userID)
	if err != nil {
		return "", err
	}
	if !ok || dm.ID == "" {
		return "", &NotFoundError{Target: target, Reason: fmt.Sprintf("no DM conversation found for user: %s", target)}
	}
	return dm.ID, nil
}

func conversationCandidates(channels []slack.RawChannel) []Candidate {
	out := make([]Candidate, 0, len(channels))
	for i, ch := range channels {
		if i >= 8 {
			break
		}
		kind := models.KindChannel
		if ch.IsPrivate {
			kind = models.KindPrivate
		}
		name := ch.Name
		if name == "" {
			name = ch.ID
		}
		out = append(out, Candidate{ID: ch.ID, Name: "#" + name, Kind: kind})
	}
	return out
}

// normalizeName lowers and strips punctuation so "Eng-Private" and
// "engprivate" compare equal.
func normalizeName(name string) string {
	return nonAlnumRe.ReplaceAllString(strings.ToLower(name), "")
}
