package slack

import "encoding/json"

// Raw payload shapes as the Web API returns them. Decoding is
// tolerant: every field is optional and unknown fields are ignored.
// Normalization into stable records happens in pkg/normalize.

type Envelope struct {
	OK               bool   `json:"ok"`
	Error            string `json:"error"`
	ResponseMetadata struct {
		NextCursor string `json:"next_cursor"`
	} `json:"response_metadata"`
}

type RawAuth struct {
	Team   string `json:"team"`
	TeamID string `json:"team_id"`
	User   string `json:"user"`
	UserID string `json:"user_id"`
	URL    string `json:"url"`
}

type RawProfile struct {
	RealName    string `json:"real_name"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
}

type RawUser struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Deleted  bool       `json:"deleted"`
	IsBot    bool       `json:"is_bot"`
	TZ       string     `json:"tz"`
	Presence string     `json:"presence"`
	Profile  RawProfile `json:"profile"`
}

type RawTopic struct {
	Value string `json:"value"`
}

type RawChannel struct {
	ID                 string      `json:"id"`
	Name               string      `json:"name"`
	IsPrivate          bool        `json:"is_private"`
	IsIM               bool        `json:"is_im"`
	IsMpim             bool        `json:"is_mpim"`
	IsArchived         bool        `json:"is_archived"`
	IsMember           *bool       `json:"is_member"`
	User               string      `json:"user"` // DM counterpart
	NumMembers         int         `json:"num_members"`
	UnreadCount        *int        `json:"unread_count"`
	UnreadCountDisplay *int        `json:"unread_count_display"`
	LastRead           string      `json:"last_read"`
	Latest             *RawMessage `json:"latest"`
	Topic              RawTopic    `json:"topic"`
	Purpose            RawTopic    `json:"purpose"`
}

type RawBlockText struct {
	Text string `json:"text"`
}

type RawBlock struct {
	Type   string          `json:"type"`
	Text   json.RawMessage `json:"text"`
	Fields []RawBlockText  `json:"fields"`
}

// BlockText unwraps the text object of a block; blocks carry either a
// {type,text} object or nothing.
func (b RawBlock) BlockText() string {
	if len(b.Text) == 0 {
		return ""
	}
	var t RawBlockText
	if err := json.Unmarshal(b.Text, &t); err != nil {
		return ""
	}
	return t.Text
}

type RawFile struct {
	Name       string `json:"name"`
	Title      string `json:"title"`
	Filetype   string `json:"filetype"`
	PrettyType string `json:"pretty_type"`
	Size       int64  `json:"size"`
}

type RawEdited struct {
	User string `json:"user"`
	TS   string `json:"ts"`
}

type RawMessage struct {
	TS         string     `json:"ts"`
	ThreadTS   string     `json:"thread_ts"`
	User       string     `json:"user"`
	BotID      string     `json:"bot_id"`
	Subtype    string     `json:"subtype"`
	Text       string     `json:"text"`
	ReplyCount int        `json:"reply_count"`
	Edited     *RawEdited `json:"edited"`
	Blocks     []RawBlock `json:"blocks"`
	Files      []RawFile  `json:"files"`
}
