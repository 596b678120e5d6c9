package entities

import "fmt"

const (
	APIOctopus = "octopus"
	APISlack   = "slack"
)

// TransportError is a non-success HTTP status returned by an upstream API.
type TransportError struct {
	API        string
	StatusCode int
	Body       string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s API error (status %d): %s", e.API, e.StatusCode, e.Body)
}

// UpstreamError is a well-formed response that carries an application-level error message.
type UpstreamError struct {
	API     string
	Message string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s returned an error: %s", e.API, e.Message)
}

// NotificationError means the chat platform accepted the request but refused the message.
type NotificationError struct {
	Channel string
	Reason  string
}

func (e *NotificationError) Error() string {
	return fmt.Sprintf("a problem happened to post to channel %q: %s", e.Channel, e.Reason)
}
