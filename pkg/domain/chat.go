package domain

import "time"

type Chat struct {
	ID          string    `json:"id"`
	UserID      *string   `json:"userID,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	Modifiable  bool      `json:"modifiable"`
}

// OwnedBy reports whether the chat belongs to userID. Anonymous chats belong
// to the anonymous caller only.
func (c *Chat) OwnedBy(userID string) bool {
	if c.UserID == nil {
		return userID == ""
	}
	return *c.UserID == userID
}

// Message is a stored turn message.
type Message struct {
	ID        string    `json:"id"`
	ChatID    string    `json:"chatID"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

func (m Message) ChatMessage() ChatMessage {
	return ChatMessage{Role: m.Role, Content: m.Content}
}

// UserInfo optionally seeds a new chat with summaries of earlier sessions.
type UserInfo struct {
	UserID               string   `json:"userID"`
	PastSessionSummaries []string `json:"pastSessionSummaries"`
}
