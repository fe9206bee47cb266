package models

// User statuses.
const (
	StatusActive  = "active"
	StatusAway    = "away"
	StatusBot     = "bot"
	StatusDeleted = "deleted"
)

type User struct {
	ID     string `json:"id"`
	Handle string `json:"handle"`
	Name   string `json:"name"`
	Email  string `json:"email,omitempty"`
	Status string `json:"status"`
}

// Me is the identity record produced by the auth check.
type Me struct {
	Workspace string `json:"workspace"`
	Team      string `json:"team"`
	TeamID    string `json:"team_id"`
	User      string `json:"user"`
	UserID    string `json:"user_id"`
	Email     string `json:"email,omitempty"`
	TZ        string `json:"tz,omitempty"`
	TokenOK   bool   `json:"token_ok"`
	CookieOK  bool   `json:"cookie_ok"`
}
