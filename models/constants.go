package models

// InteractionType is the closed set of unilateral actions a user can take on
// another user. Weights live in WeightFor, not on the records themselves.
type InteractionType string

const (
	InteractionLike         InteractionType = "like"
	InteractionSuperlike    InteractionType = "superlike"
	InteractionDislike      InteractionType = "dislike"
	InteractionPass         InteractionType = "pass"
	InteractionBlock        InteractionType = "block"
	InteractionUnblock      InteractionType = "unblock"
	InteractionFollow       InteractionType = "follow"
	InteractionUnfollow     InteractionType = "unfollow"
	InteractionView         InteractionType = "view"
	InteractionMessage      InteractionType = "message"
	InteractionGift         InteractionType = "gift"
	InteractionSubscription InteractionType = "subscription"
)

// InteractionContext records the surface an interaction happened on.
type InteractionContext string

const (
	ContextMatching InteractionContext = "matching"
	ContextProfile  InteractionContext = "profile"
	ContextFeed     InteractionContext = "feed"
	ContextStream   InteractionContext = "stream"
	ContextChat     InteractionContext = "chat"
	ContextSearch   InteractionContext = "search"
)

// interactionWeights scores each action for match ranking and analytics.
var interactionWeights = map[InteractionType]float64{
	InteractionSuperlike:    3,
	InteractionLike:         1,
	InteractionFollow:       1,
	InteractionGift:         2,
	InteractionSubscription: 2.5,
	InteractionMessage:      0.5,
	InteractionView:         0.1,
	InteractionPass:         0,
	InteractionDislike:      -1,
	InteractionBlock:        -3,
	InteractionUnblock:      0,
	InteractionUnfollow:     0,
}

// WeightFor returns the ranking weight for an interaction type. Unknown types
// weigh zero.
func WeightFor(t InteractionType) float64 {
	return interactionWeights[t]
}

// IsKnownInteraction reports whether t is part of the closed enum.
func IsKnownInteraction(t InteractionType) bool {
	_, ok := interactionWeights[t]
	return ok
}

// MatchableInteraction reports whether a reciprocal pair of this type forms a
// mutual match.
func MatchableInteraction(t InteractionType) bool {
	return t == InteractionLike || t == InteractionSuperlike || t == InteractionFollow
}

// SwipeInteraction reports whether t consumes a discovery candidate. A user
// swiped on in matching context is never surfaced again, whatever the outcome.
func SwipeInteraction(t InteractionType) bool {
	switch t {
	case InteractionLike, InteractionSuperlike, InteractionDislike, InteractionPass:
		return true
	}
	return false
}

// SingletonInteraction reports whether at most one active record may exist per
// (actor, target, type, context) tuple.
func SingletonInteraction(t InteractionType) bool {
	return t == InteractionBlock || t == InteractionFollow
}

// Message content types
const (
	MessageTypeText  = "text"
	MessageTypeImage = "image"
	MessageTypeGift  = "gift"
	MessageTypeAudio = "audio"
)

// AllowMessagesFrom privacy values on the user directory record.
const (
	AllowMessagesEveryone = "everyone"
	AllowMessagesFriends  = "friends"
	AllowMessagesNone     = "none"
)

// Notification types emitted by the core.
const (
	NotificationNewMatch       = "new_match"
	NotificationNewMessage     = "new_message"
	NotificationMessageRequest = "message_request"
)
