package repositories

import (
	"context"

	"github.com/rios0rios0/driftbot/internal/domain/entities"
)

// NotificationRepository writes to the chat platform.
type NotificationRepository interface {
	// Post submits a block message. A refusal by the platform is an *entities.NotificationError.
	Post(ctx context.Context, notification entities.Notification) (entities.PostResult, error)

	// Reply posts plain text in a channel, threaded when threadTS is set.
	Reply(ctx context.Context, channel, text, threadTS string) error

	AddReaction(ctx context.Context, ref entities.MessageRef, name string) error
	RemoveReaction(ctx context.Context, ref entities.MessageRef, name string) error

	// ChannelTopic returns the current topic of a channel.
	ChannelTopic(ctx context.Context, channel string) (string, error)

	// BotUserID returns the user ID the token authenticates as.
	BotUserID(ctx context.Context) (string, error)
}

// ChatEventSource delivers inbound chat messages until ctx is done.
type ChatEventSource interface {
	Listen(ctx context.Context, handle func(ctx context.Context, message entities.ChatMessage)) error
}
