package telegram

import "encoding/json"

// Update represents one inbound event returned by getUpdates.
type Update struct {
	UpdateID      int64    `json:"update_id" yaml:"update_id"`
	Message       *Message `json:"message,omitempty" yaml:"message,omitempty"`
	EditedMessage *Message `json:"edited_message,omitempty" yaml:"edited_message,omitempty"`
	ChannelPost   *Message `json:"channel_post,omitempty" yaml:"channel_post,omitempty"`
}

// EffectiveMessage returns whichever message payload the update carries, or nil.
func (u Update) EffectiveMessage() *Message {
	switch {
	case u.Message != nil:
		return u.Message
	case u.EditedMessage != nil:
		return u.EditedMessage
	default:
		return u.ChannelPost
	}
}

// Message represents a sent or received Telegram message.
type Message struct {
	MessageID int64      `json:"message_id" yaml:"message_id"`
	From      *User      `json:"from,omitempty" yaml:"from,omitempty"`
	Chat      Chat       `json:"chat" yaml:"chat"`
	Date      int64      `json:"date" yaml:"date"`
	Text      string     `json:"text,omitempty" yaml:"text,omitempty"`
	Caption   string     `json:"caption,omitempty" yaml:"caption,omitempty"`
	Animation *Animation `json:"animation,omitempty" yaml:"animation,omitempty"`
}

// Chat represents a Telegram chat.
type Chat struct {
	ID        int64  `json:"id" yaml:"id"`
	Type      string `json:"type" yaml:"type"`
	Title     string `json:"title,omitempty" yaml:"title,omitempty"`
	Username  string `json:"username,omitempty" yaml:"username,omitempty"`
	FirstName string `json:"first_name,omitempty" yaml:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty" yaml:"last_name,omitempty"`
}

// User represents a Telegram user or bot.
type User struct {
	ID        int64  `json:"id" yaml:"id"`
	IsBot     bool   `json:"is_bot" yaml:"is_bot"`
	FirstName string `json:"first_name" yaml:"first_name"`
	LastName  string `json:"last_name,omitempty" yaml:"last_name,omitempty"`
	Username  string `json:"username,omitempty" yaml:"username,omitempty"`
}

// Animation is a GIF or H.264/MPEG-4 AVC video without sound.
type Animation struct {
	FileID       string     `json:"file_id" yaml:"file_id"`
	FileUniqueID string     `json:"file_unique_id" yaml:"file_unique_id"`
	Width        int        `json:"width" yaml:"width"`
	Height       int        `json:"height" yaml:"height"`
	Duration     int        `json:"duration" yaml:"duration"`
	Thumbnail    *PhotoSize `json:"thumbnail,omitempty" yaml:"thumbnail,omitempty"`
	FileName     string     `json:"file_name,omitempty" yaml:"file_name,omitempty"`
	MimeType     string     `json:"mime_type,omitempty" yaml:"mime_type,omitempty"`
	FileSize     int64      `json:"file_size,omitempty" yaml:"file_size,omitempty"`
}

// PhotoSize is one size of a photo or a thumbnail.
type PhotoSize struct {
	FileID       string `json:"file_id" yaml:"file_id"`
	FileUniqueID string `json:"file_unique_id" yaml:"file_unique_id"`
	Width        int    `json:"width" yaml:"width"`
	Height       int    `json:"height" yaml:"height"`
	FileSize     int64  `json:"file_size,omitempty" yaml:"file_size,omitempty"`
}

// sendMessageRequest is the request body for sendMessage.
type sendMessageRequest struct {
	ChatID ChatID `json:"chat_id"`
	Text   string `json:"text"`
}

// sendAnimationRequest is the request body for sendAnimation.
type sendAnimationRequest struct {
	ChatID    ChatID `json:"chat_id"`
	Animation string `json:"animation"`
	Caption   string `json:"caption,omitempty"`
}

// APIResponse is the generic Telegram API response envelope.
type APIResponse struct {
	OK          bool                `json:"ok"`
	Description string              `json:"description,omitempty"`
	ErrorCode   int                 `json:"error_code,omitempty"`
	Parameters  *ResponseParameters `json:"parameters,omitempty"`
	Result      json.RawMessage     `json:"result,omitempty"`
}

// ResponseParameters describes why a request was unsuccessful.
type ResponseParameters struct {
	MigrateToChatID int64 `json:"migrate_to_chat_id,omitempty"`
	RetryAfter      int   `json:"retry_after,omitempty"`
}
