package services

import (
	"context"

	"emberly_server/models"
)

// The core services talk to storage through these interfaces. Production
// implementations live in dynamo_stores.go; tests inject in-memory fakes.
// Every write is an idempotent upsert, so callers may retry safely.

// InteractionStore persists interaction records keyed by the full
// (actor, target, type, context) tuple.
type InteractionStore interface {
	// Get returns nil, nil when no record exists for the tuple.
	Get(ctx context.Context, actor, target string, t models.InteractionType, c models.InteractionContext) (*models.Interaction, error)
	Put(ctx context.Context, rec *models.Interaction) error
	// ListByActor returns every record the actor created, any type.
	ListByActor(ctx context.Context, actor string) ([]models.Interaction, error)
	// ListByTarget returns every record aimed at target, any actor.
	ListByTarget(ctx context.Context, target string) ([]models.Interaction, error)
}

// MatchStore persists directional match records.
type MatchStore interface {
	// Get returns nil, nil when the owner has no record about partner.
	Get(ctx context.Context, owner, partner string) (*models.Match, error)
	Put(ctx context.Context, m *models.Match) error
	// PutPair writes both directions together.
	PutPair(ctx context.Context, a, b *models.Match) error
	ListByOwner(ctx context.Context, owner string) ([]models.Match, error)
}

// ConversationStore persists two-party conversations.
type ConversationStore interface {
	// Get returns nil, nil when the conversation does not exist.
	Get(ctx context.Context, conversationID string) (*models.Conversation, error)
	// GetByPair looks a conversation up by its canonical pair key.
	GetByPair(ctx context.Context, pairKey string) (*models.Conversation, error)
	Put(ctx context.Context, conv *models.Conversation) error
	ListByParticipant(ctx context.Context, userID string) ([]models.Conversation, error)
}

// MessageStore persists messages keyed by (conversationId, messageId).
type MessageStore interface {
	// Get returns nil, nil when the message does not exist.
	Get(ctx context.Context, conversationID, messageID string) (*models.Message, error)
	Put(ctx context.Context, msg *models.Message) error
	// ListByConversation returns messages sorted oldest-first, soft-deleted
	// included; callers filter.
	ListByConversation(ctx context.Context, conversationID string, limit int) ([]models.Message, error)
}

// ProfileDirectory is the read-mostly view onto the externally-owned user
// directory.
type ProfileDirectory interface {
	// GetProfile returns nil, nil when the user does not exist.
	GetProfile(ctx context.Context, userID string) (*models.UserProfile, error)
	// ListProfiles returns every directory record; discovery filters in-process.
	ListProfiles(ctx context.Context) ([]models.UserProfile, error)
}

// NotificationSink accepts fire-and-forget outbound events. Implementations
// must never block the calling operation on delivery.
type NotificationSink interface {
	CreateNotification(ctx context.Context, recipient, sender, notificationType string, payload map[string]string) error
}

// RealtimePublisher fans events out to live clients, at-most-once.
type RealtimePublisher interface {
	PublishToConversation(conversationID, event string, payload interface{})
	PublishToUser(userID, event string, payload interface{})
}
