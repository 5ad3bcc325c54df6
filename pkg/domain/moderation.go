package domain

const DefaultRejectionMessage = "Sorry that message couldn't be parsed. Please try again."

type ModerationVerdict struct {
	IsMalicious     bool   `json:"isMalicious"`
	MessageResponse string `json:"messageResponse"`
}

// FailClosedVerdict is returned whenever the moderation model cannot be
// reached or its output cannot be parsed.
func FailClosedVerdict() ModerationVerdict {
	return ModerationVerdict{IsMalicious: true, MessageResponse: DefaultRejectionMessage}
}
