package entities

// ChatMessage is an inbound message received from the chat platform.
type ChatMessage struct {
	Channel   string
	User      string
	Text      string
	Timestamp string
	ThreadTS  string
}

// Ref points at the message, e.g. to react to it.
func (m ChatMessage) Ref() MessageRef {
	return MessageRef{Channel: m.Channel, Timestamp: m.Timestamp}
}

// MessageRef identifies a message already posted in a channel.
type MessageRef struct {
	Channel   string
	Timestamp string
}

// Notification is a structured message ready to be posted.
type Notification struct {
	Channel      string
	Blocks       Payload
	FallbackText string // required by the platform, shown where blocks cannot be rendered
	ThreadTS     string // optional, replies in a thread when set
}

// PostResult is what the chat platform answered for an accepted message.
type PostResult struct {
	Channel   string
	Timestamp string
}
