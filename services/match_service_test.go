package services

import (
	"context"
	"testing"

	"emberly_server/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureMatchPairIdempotent(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.addUser("alice", "Alice")
	env.addUser("bob", "Bob")

	require.NoError(t, env.registry.EnsureMatchPair(ctx, "alice", "bob", string(models.InteractionLike), 2))

	first, err := env.matchRecords.Get(ctx, "alice", "bob")
	require.NoError(t, err)
	require.NotNil(t, first)

	// Stamp state a refresh must not clobber.
	first.ChatID = "chat-1"
	first.UnreadCount = 3
	require.NoError(t, env.matchRecords.Put(ctx, first))

	require.NoError(t, env.registry.EnsureMatchPair(ctx, "alice", "bob", string(models.InteractionSuperlike), 6))

	refreshed, err := env.matchRecords.Get(ctx, "alice", "bob")
	require.NoError(t, err)
	require.NotNil(t, refreshed)
	assert.Equal(t, first.MatchDate, refreshed.MatchDate, "matchDate survives a refresh")
	assert.Equal(t, "chat-1", refreshed.ChatID)
	assert.Equal(t, 3, refreshed.UnreadCount)
	assert.Equal(t, string(models.InteractionSuperlike), refreshed.InteractionType)
	assert.Equal(t, 6.0, refreshed.MatchScore)
}

func TestEnsureMatchPairUnknownUser(t *testing.T) {
	env := newTestEnv()
	env.addUser("alice", "Alice")

	err := env.registry.EnsureMatchPair(context.Background(), "alice", "ghost", string(models.InteractionLike), 2)
	appErr, ok := models.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, models.CodeNotFound, appErr.Code)
}

func TestReconciliationSweepRebuildsMissingPair(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.addUser("alice", "Alice")
	env.addUser("bob", "Bob")

	// Reciprocal likes written straight to the ledger, as if the match
	// creation step was lost to a crash.
	ts := now()
	for _, rec := range []*models.Interaction{
		{ActorID: "alice", TargetID: "bob", Type: models.InteractionLike, Context: models.ContextMatching, IsActive: true, Weight: 1, CreatedAt: ts, UpdatedAt: ts},
		{ActorID: "bob", TargetID: "alice", Type: models.InteractionLike, Context: models.ContextMatching, IsActive: true, Weight: 1, CreatedAt: ts, UpdatedAt: ts},
	} {
		require.NoError(t, env.interactions.Put(ctx, rec))
	}

	matches, err := env.registry.GetMatches(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "bob", matches[0].PartnerID)

	// Repair covers both directions and the mutual flags.
	theirs, err := env.matchRecords.Get(ctx, "bob", "alice")
	require.NoError(t, err)
	require.NotNil(t, theirs)
	assert.True(t, theirs.IsActive)

	mine, err := env.interactions.Get(ctx, "alice", "bob", models.InteractionLike, models.ContextMatching)
	require.NoError(t, err)
	assert.True(t, mine.IsMutual)
	assert.NotEmpty(t, mine.MutualAt)
}

func TestReconciliationSweepIsIdempotent(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.addUser("alice", "Alice")
	env.addUser("bob", "Bob")

	rec, err := env.ledger.RecordInteraction(ctx, "alice", "bob", models.InteractionLike, models.ContextMatching, nil)
	require.NoError(t, err)
	_, err = env.ledger.RecordInteraction(ctx, "bob", "alice", models.InteractionLike, models.ContextMatching, nil)
	require.NoError(t, err)
	_, err = env.ledger.CheckForMatch(ctx, rec)
	require.NoError(t, err)

	repaired, err := env.registry.ReconciliationSweep(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 0, repaired, "a healthy pair needs no repair")
}

func TestSweepDoesNotResurrectRemovedMatch(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.addUser("alice", "Alice")
	env.addUser("bob", "Bob")

	rec, err := env.ledger.RecordInteraction(ctx, "alice", "bob", models.InteractionLike, models.ContextMatching, nil)
	require.NoError(t, err)
	_, err = env.ledger.RecordInteraction(ctx, "bob", "alice", models.InteractionLike, models.ContextMatching, nil)
	require.NoError(t, err)
	_, err = env.ledger.CheckForMatch(ctx, rec)
	require.NoError(t, err)

	require.NoError(t, env.registry.RemoveMatch(ctx, "alice", "bob"))

	matches, err := env.registry.GetMatches(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, matches, "unfriended pair must stay unfriended through the sweep")
}

func TestRemoveMatchResetsBothSidesAndConversation(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.addUser("alice", "Alice")
	env.addUser("bob", "Bob")

	require.NoError(t, env.registry.EnsureMatchPair(ctx, "alice", "bob", string(models.InteractionLike), 2))

	conv, err := env.chat.GetOrCreateConversation(ctx, "alice", "bob")
	require.NoError(t, err)
	outcome, err := env.chat.SendMessage(ctx, conv.ConversationID, "alice", "hey", "")
	require.NoError(t, err)
	require.NotNil(t, outcome.Message)

	require.NoError(t, env.registry.RemoveMatch(ctx, "alice", "bob"))

	for _, pair := range [][2]string{{"alice", "bob"}, {"bob", "alice"}} {
		rec, err := env.matchRecords.Get(ctx, pair[0], pair[1])
		require.NoError(t, err)
		require.NotNil(t, rec, "history survives, record is only deactivated")
		assert.False(t, rec.IsActive)
		assert.False(t, rec.MessageRequestPending)
		assert.False(t, rec.MessagingApproved)
		assert.Equal(t, 0, rec.UnreadCount)
		assert.NotEmpty(t, rec.MatchDate)
	}

	after, err := env.conversations.Get(ctx, conv.ConversationID)
	require.NoError(t, err)
	require.NotNil(t, after)
	assert.False(t, after.IsApproved)
	assert.Empty(t, after.LastMessage)

	msgs, err := env.chat.GetMessages(ctx, conv.ConversationID, 1, 50)
	require.NoError(t, err)
	assert.Empty(t, msgs, "messages are soft-deleted on unfriend")

	stored, err := env.messages.ListByConversation(ctx, conv.ConversationID, 0)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.True(t, stored[0].IsDeleted, "soft delete keeps the row")
}

func TestRemoveMatchUnknownPair(t *testing.T) {
	env := newTestEnv()

	err := env.registry.RemoveMatch(context.Background(), "alice", "bob")
	appErr, ok := models.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, models.CodeNotFound, appErr.Code)
}

func TestFlagMessageRequestCreatesStub(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.addUser("alice", "Alice")
	env.addUser("bob", "Bob")

	require.NoError(t, env.registry.FlagMessageRequest(ctx, "bob", "alice"))

	rec, err := env.matchRecords.Get(ctx, "bob", "alice")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.False(t, rec.IsActive, "a request stub is not an active match")
	assert.True(t, rec.MessageRequestPending)
	assert.Equal(t, "alice", rec.MessageRequestFrom)
	assert.Equal(t, "Alice", rec.PartnerName)

	requests, err := env.registry.GetMessageRequests(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, requests, 1)
	assert.Equal(t, "alice", requests[0].PartnerID)
}

func TestApproveMessagingClearsFlags(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.addUser("alice", "Alice")
	env.addUser("bob", "Bob")

	require.NoError(t, env.registry.FlagMessageRequest(ctx, "bob", "alice"))
	require.NoError(t, env.registry.ApproveMessaging(ctx, "alice", "bob"))

	rec, err := env.matchRecords.Get(ctx, "bob", "alice")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.False(t, rec.MessageRequestPending)
	assert.Empty(t, rec.MessageRequestFrom)
	assert.True(t, rec.MessagingApproved)

	requests, err := env.registry.GetMessageRequests(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, requests)
}

func TestRecordLastMessageBumpsRecipientUnread(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.addUser("alice", "Alice")
	env.addUser("bob", "Bob")

	require.NoError(t, env.registry.EnsureMatchPair(ctx, "alice", "bob", string(models.InteractionLike), 2))
	require.NoError(t, env.registry.RecordLastMessage(ctx, "alice", "bob", "hello", now()))

	mine, err := env.matchRecords.Get(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.Equal(t, "hello", mine.LastMessage)
	assert.Equal(t, 0, mine.UnreadCount, "sender side does not gain unread")

	theirs, err := env.matchRecords.Get(ctx, "bob", "alice")
	require.NoError(t, err)
	assert.Equal(t, "hello", theirs.LastMessage)
	assert.Equal(t, 1, theirs.UnreadCount)
}
