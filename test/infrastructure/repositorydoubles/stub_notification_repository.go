//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"sync"

	"github.com/rios0rios0/driftbot/internal/domain/entities"
	"github.com/rios0rios0/driftbot/internal/domain/repositories"
)

// ReplyCall records a Reply invocation.
type ReplyCall struct {
	Channel  string
	Text     string
	ThreadTS string
}

// ReactionCall records an AddReaction (Added) or RemoveReaction invocation.
type ReactionCall struct {
	Ref   entities.MessageRef
	Name  string
	Added bool
}

// SpyNotificationRepository implements repositories.NotificationRepository as a configurable spy.
type SpyNotificationRepository struct {
	mu sync.Mutex

	// --- Post ---
	PostResult entities.PostResult
	PostErr    error
	Posted     []entities.Notification

	// --- Reply ---
	ReplyErr error
	Replies  []ReplyCall

	// --- AddReaction / RemoveReaction ---
	ReactionErr error
	Reactions   []ReactionCall

	// --- ChannelTopic ---
	Topic         string
	TopicErr      error
	TopicChannels []string

	// --- BotUserID ---
	UserID    string
	UserIDErr error
}

var _ repositories.NotificationRepository = (*SpyNotificationRepository)(nil)

func (s *SpyNotificationRepository) Post(
	_ context.Context,
	notification entities.Notification,
) (entities.PostResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Posted = append(s.Posted, notification)
	if s.PostErr != nil {
		return entities.PostResult{}, s.PostErr
	}
	return s.PostResult, nil
}

func (s *SpyNotificationRepository) Reply(_ context.Context, channel, text, threadTS string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Replies = append(s.Replies, ReplyCall{Channel: channel, Text: text, ThreadTS: threadTS})
	return s.ReplyErr
}

func (s *SpyNotificationRepository) AddReaction(_ context.Context, ref entities.MessageRef, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Reactions = append(s.Reactions, ReactionCall{Ref: ref, Name: name, Added: true})
	return s.ReactionErr
}

func (s *SpyNotificationRepository) RemoveReaction(_ context.Context, ref entities.MessageRef, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Reactions = append(s.Reactions, ReactionCall{Ref: ref, Name: name, Added: false})
	return s.ReactionErr
}

func (s *SpyNotificationRepository) ChannelTopic(_ context.Context, channel string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.TopicChannels = append(s.TopicChannels, channel)
	return s.Topic, s.TopicErr
}

func (s *SpyNotificationRepository) BotUserID(_ context.Context) (string, error) {
	return s.UserID, s.UserIDErr
}

// AddedReactions returns the names of the reactions added, in order.
func (s *SpyNotificationRepository) AddedReactions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var names []string
	for _, call := range s.Reactions {
		if call.Added {
			names = append(names, call.Name)
		}
	}
	return names
}
