package models

import "strings"

// Conversation is a two-party thread. Exactly two distinct participants; at
// most one active conversation exists per unordered pair, enforced by looking
// the pair up through PairKey before creating.
//
// UnreadCount and PinnedMessages are single shared values for the pair, not
// per-participant. Known limitation, kept deliberately.
type Conversation struct {
	ConversationID string   `dynamodbav:"conversationId" json:"conversationId"`
	PairKey        string   `dynamodbav:"pairKey" json:"-"` // canonical sorted pair
	ParticipantA   string   `dynamodbav:"participantA" json:"participantA"`
	ParticipantB   string   `dynamodbav:"participantB" json:"participantB"`
	IsApproved     bool     `dynamodbav:"isApproved" json:"isApproved"`
	PinnedMessages []string `dynamodbav:"pinnedMessages,omitempty" json:"pinnedMessages,omitempty"`
	LastMessageID  string   `dynamodbav:"lastMessageId,omitempty" json:"lastMessageId,omitempty"`
	LastMessage    string   `dynamodbav:"lastMessage,omitempty" json:"lastMessage,omitempty"`
	LastActivity   string   `dynamodbav:"lastActivity,omitempty" json:"lastActivity,omitempty"`
	UnreadCount    int      `dynamodbav:"unreadCount" json:"unreadCount"`
	// LegacyPin is a vestigial secondary-access PIN carried over from an older
	// client. Stored, never enforced.
	LegacyPin string `dynamodbav:"legacyPin,omitempty" json:"-"`
	CreatedAt string `dynamodbav:"createdAt" json:"createdAt"`
	UpdatedAt string `dynamodbav:"updatedAt" json:"updatedAt"`
}

// HasParticipant reports whether userID is one of the two participants.
func (c *Conversation) HasParticipant(userID string) bool {
	return c.ParticipantA == userID || c.ParticipantB == userID
}

// PeerOf returns the other participant, or "" if userID is not in the pair.
func (c *Conversation) PeerOf(userID string) string {
	switch userID {
	case c.ParticipantA:
		return c.ParticipantB
	case c.ParticipantB:
		return c.ParticipantA
	}
	return ""
}

// CanonicalPairKey addresses shared pair resources independent of direction.
func CanonicalPairKey(a, b string) string {
	if strings.Compare(a, b) > 0 {
		a, b = b, a
	}
	return a + "#" + b
}

const ConversationsTable = "Conversations"

// GSI keyed by pairKey, used to find the conversation for an unordered pair.
const ConversationPairIndex = "pairKey-index"
