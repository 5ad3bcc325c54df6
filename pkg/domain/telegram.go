package domain

// Response is a reply queued for delivery to a Telegram chat.
type Response struct {
	ChatID int64
	Text   string
	Err    error
}
