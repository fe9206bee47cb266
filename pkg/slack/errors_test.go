package slack

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAPIErrorAuthRelated(t *testing.T) {
	for code, want := range map[string]bool{
		"invalid_auth":      true,
		"not_authed":        true,
		"token_revoked":     true,
		"token_expired":     true,
		"account_inactive":  true,
		"channel_not_found": false,
		"ratelimited":       false,
	} {
		err := &APIError{Method: "auth.test", Code: code}
		assert.Equal(t, want, err.AuthRelated(), code)
	}
}

func TestAPIErrorMessage(t *testing.T) {
	byCode := &APIError{Method: "users.list", Code: "invalid_auth"}
	assert.Contains(t, byCode.Error(), "users.list")
	assert.Contains(t, byCode.Error(), "invalid_auth")

	byStatus := &APIError{Method: "users.list", Status: 404}
	assert.Contains(t, byStatus.Error(), "404")
}

func TestTransientErrorUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := &TransientError{Method: "conversations.history", Attempts: 3, Err: cause}
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "conversations.history")
	assert.Contains(t, err.Error(), "3")
}
