package models

// Conversation kinds.
const (
	KindChannel = "channel"
	KindPrivate = "private"
	KindDM      = "dm"
	KindMPDM    = "mpdm"
)

// Conversation is the normalized form of a channel, private channel,
// DM or multi-person DM. Name for DMs is derived from the counterpart
// user, never stored by the API.
type Conversation struct {
	ID         string `json:"id"`
	Kind       string `json:"type"`
	Name       string `json:"name"`
	IsMember   bool   `json:"is_member"`
	IsArchived bool   `json:"is_archived"`
	Unread     int    `json:"unread"`
	LastTS     string `json:"last_ts"`
	LastAuthor string `json:"last_user,omitempty"`
	LastText   string `json:"last_text,omitempty"`
	Members    int    `json:"members,omitempty"`
	Topic      string `json:"topic,omitempty"`
	Purpose    string `json:"purpose,omitempty"`
}
