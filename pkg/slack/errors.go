package slack

import "fmt"

// authErrors are the ok:false codes that indicate a credential or
// permission problem rather than a bad request. Never retried.
var authErrors = map[string]struct{}{
	"invalid_auth":      {},
	"not_authed":        {},
	"account_inactive":  {},
	"token_revoked":     {},
	"token_expired":     {},
	"missing_scope":     {},
	"access_denied":     {},
	"not_allowed":       {},
	"ekm_access_denied": {},
}

// APIError is a definitive API failure: a non-transient HTTP status or
// an ok:false envelope. Carries enough context for a concise user
// message; never retried.
type APIError struct {
	Method string
	Code   string // Slack error string, e.g. "channel_not_found"
	Status int    // HTTP status, 0 when the envelope carried the error
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("slack API error for %s: %s", e.Method, e.Code)
	}
	return fmt.Sprintf("slack HTTP error for %s: status %d", e.Method, e.Status)
}

// AuthRelated reports whether the failure is a credential/permission
// class error (distinct exit-code surface for the command layer).
func (e *APIError) AuthRelated() bool {
	if e.Status == 401 || e.Status == 403 {
		return true
	}
	_, ok := authErrors[e.Code]
	return ok
}

// TransientError wraps a 5xx or transport failure that survived the
// full retry budget.
type TransientError struct {
	Method   string
	Attempts int
	Err      error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("slack request for %s failed after %d attempts: %v", e.Method, e.Attempts, e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }
