package telegram

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ChatID identifies a target conversation. Telegram accepts either the
// numeric chat id or the @username of a public channel/supergroup.
type ChatID struct {
	id       int64
	username string
}

// ChatIDFromInt returns a numeric chat target.
func ChatIDFromInt(id int64) ChatID {
	return ChatID{id: id}
}

// ChatUsername returns a chat target addressed by @username.
// The leading @ is added when missing.
func ChatUsername(name string) ChatID {
	name = strings.TrimSpace(name)
	if name != "" && !strings.HasPrefix(name, "@") {
		name = "@" + name
	}
	return ChatID{username: name}
}

// ParseChatID maps "123" or "-100123" to a numeric id and anything else to
// the username form.
func ParseChatID(s string) (ChatID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ChatID{}, fmt.Errorf("chat id is empty")
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return ChatIDFromInt(n), nil
	}
	return ChatUsername(s), nil
}

// IsZero reports whether the chat id was never set.
func (c ChatID) IsZero() bool {
	return c.id == 0 && c.username == ""
}

// String returns the form sent over the wire.
func (c ChatID) String() string {
	if c.username != "" {
		return c.username
	}
	return strconv.FormatInt(c.id, 10)
}

// MarshalJSON encodes numeric ids as JSON numbers and usernames as strings.
func (c ChatID) MarshalJSON() ([]byte, error) {
	if c.username != "" {
		return json.Marshal(c.username)
	}
	return []byte(strconv.FormatInt(c.id, 10)), nil
}
