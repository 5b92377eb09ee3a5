package services

import (
	"context"
	"log"

	"emberly_server/models"

	"github.com/google/uuid"
)

// ChatService is the conversation gate. It owns two-party conversations and
// their messages, re-evaluates consent on every send, and flips the
// message-request flags on the match registry when policy demands approval.
type ChatService struct {
	Conversations ConversationStore
	Messages      MessageStore
	Matches       *MatchService
	Profiles      ProfileDirectory
	Notifier      NotificationSink
	Realtime      RealtimePublisher
}

// SendOutcome is the result of a send attempt. Exactly one of Message or
// RequestPending is meaningful: a pending request persists no message.
type SendOutcome struct {
	RequestPending bool            `json:"requestPending"`
	Message        *models.Message `json:"message,omitempty"`
}

// GetOrCreateConversation returns the conversation for the unordered pair,
// creating it on first contact. Consent is evaluated at creation to seed
// isApproved; a denial (block) refuses creation outright.
func (s *ChatService) GetOrCreateConversation(ctx context.Context, a, b string) (*models.Conversation, error) {
	if err := validatePair(a, b); err != nil {
		return nil, err
	}

	pairKey := models.CanonicalPairKey(a, b)
	existing, err := s.Conversations.GetByPair(ctx, pairKey)
	if err != nil {
		return nil, models.NewStoreError(err)
	}
	if existing != nil {
		return existing, nil
	}

	senderProfile, recipientProfile, err := s.profilePair(ctx, a, b)
	if err != nil {
		return nil, err
	}

	decision := EvaluateConsent(senderProfile, recipientProfile)
	if !decision.Allowed {
		return nil, models.NewPermissionDenied(decision.Reason)
	}

	ts := now()
	conv := &models.Conversation{
		ConversationID: uuid.NewString(),
		PairKey:        pairKey,
		ParticipantA:   a,
		ParticipantB:   b,
		IsApproved:     !decision.RequiresApproval,
		CreatedAt:      ts,
		UpdatedAt:      ts,
	}
	if err := s.Conversations.Put(ctx, conv); err != nil {
		return nil, models.NewStoreError(err)
	}

	if err := s.Matches.SetChatID(ctx, a, b, conv.ConversationID); err != nil {
		log.Printf("⚠️ Failed to stamp chatId on match records for %s/%s: %v", a, b, err)
	}
	return conv, nil
}

// SendMessage delivers content into a conversation. Consent runs fresh on
// every call; block and privacy state are never cached. When approval is
// required and not yet granted, no message is persisted: the recipient-owned
// match record gets the pending-request flags and the outcome says so.
func (s *ChatService) SendMessage(ctx context.Context, conversationID, senderID, content, messageType string) (*SendOutcome, error) {
	if conversationID == "" || senderID == "" {
		return nil, models.NewValidationError("conversationId and senderId are required")
	}
	if content == "" {
		return nil, models.NewValidationError("content is required")
	}
	if messageType == "" {
		messageType = models.MessageTypeText
	}

	conv, err := s.Conversations.Get(ctx, conversationID)
	if err != nil {
		return nil, models.NewStoreError(err)
	}
	if conv == nil {
		return nil, models.NewNotFoundError("conversation", conversationID)
	}
	if !conv.HasParticipant(senderID) {
		return nil, models.NewPermissionDenied(models.ReasonNotParticipant)
	}
	recipientID := conv.PeerOf(senderID)

	senderProfile, recipientProfile, err := s.profilePair(ctx, senderID, recipientID)
	if err != nil {
		return nil, err
	}

	// Defense in depth ahead of the policy: block state denies with its
	// precise code even if the conversation was approved long ago.
	if recipientProfile.HasBlocked(senderID) {
		return nil, models.NewPermissionDenied(models.ReasonBlockedByPeer)
	}
	if senderProfile.HasBlocked(recipientID) {
		return nil, models.NewPermissionDenied(models.ReasonIBlocked)
	}

	decision := EvaluateConsent(senderProfile, recipientProfile)
	if !decision.Allowed {
		return nil, models.NewPermissionDenied(decision.Reason)
	}

	if decision.RequiresApproval && !conv.IsApproved {
		if err := s.Matches.FlagMessageRequest(ctx, recipientID, senderID); err != nil {
			return nil, err
		}
		s.notify(ctx, recipientID, senderID, models.NotificationMessageRequest, map[string]string{
			"conversationId": conv.ConversationID,
		})
		log.Printf("⏳ Message from %s to %s held pending approval", senderID, recipientID)
		return &SendOutcome{RequestPending: true}, nil
	}

	if !conv.IsApproved {
		// First send with an open policy approves the conversation.
		conv.IsApproved = true
	}

	ts := now()
	msg := &models.Message{
		ConversationID: conv.ConversationID,
		MessageID:      uuid.NewString(),
		SenderID:       senderID,
		Content:        content,
		Type:           messageType,
		ReadBy:         map[string]bool{senderID: true},
		CreatedAt:      ts,
		UpdatedAt:      ts,
	}
	if err := s.Messages.Put(ctx, msg); err != nil {
		return nil, models.NewStoreError(err)
	}

	conv.LastMessageID = msg.MessageID
	conv.LastMessage = content
	conv.LastActivity = ts
	conv.UnreadCount++ // single shared counter for the pair
	conv.UpdatedAt = ts
	if err := s.Conversations.Put(ctx, conv); err != nil {
		return nil, models.NewStoreError(err)
	}

	// Best-effort side effects; the persisted message is the durable truth a
	// reconnecting client falls back on.
	if err := s.Matches.RecordLastMessage(ctx, senderID, recipientID, content, ts); err != nil {
		log.Printf("⚠️ Failed to denormalize last message for %s/%s: %v", senderID, recipientID, err)
	}
	if s.Realtime != nil {
		s.Realtime.PublishToConversation(conv.ConversationID, "newMessage", msg)
		s.Realtime.PublishToUser(recipientID, "newMessage", msg)
	}
	s.notify(ctx, recipientID, senderID, models.NotificationNewMessage, map[string]string{
		"conversationId": conv.ConversationID,
		"messageId":      msg.MessageID,
	})

	return &SendOutcome{Message: msg}, nil
}

// ApproveConversation grants messaging: the conversation is approved and the
// request flags cleared on both match records.
func (s *ChatService) ApproveConversation(ctx context.Context, conversationID, approverID string) (*models.Conversation, error) {
	conv, err := s.participantConversation(ctx, conversationID, approverID)
	if err != nil {
		return nil, err
	}

	conv.IsApproved = true
	conv.UpdatedAt = now()
	if err := s.Conversations.Put(ctx, conv); err != nil {
		return nil, models.NewStoreError(err)
	}

	if err := s.Matches.ApproveMessaging(ctx, conv.ParticipantA, conv.ParticipantB); err != nil {
		return nil, err
	}
	log.Printf("✅ Conversation %s approved by %s", conversationID, approverID)
	return conv, nil
}

// ListConversations returns every conversation the user participates in.
func (s *ChatService) ListConversations(ctx context.Context, userID string) ([]models.Conversation, error) {
	if userID == "" {
		return nil, models.NewValidationError("userId is required")
	}
	conversations, err := s.Conversations.ListByParticipant(ctx, userID)
	if err != nil {
		return nil, models.NewStoreError(err)
	}
	return conversations, nil
}

// GetMessages pages through a conversation oldest-first. Soft-deleted
// messages stay in the store but are not returned here.
func (s *ChatService) GetMessages(ctx context.Context, conversationID string, page, pageSize int) ([]models.Message, error) {
	if conversationID == "" {
		return nil, models.NewValidationError("conversationId is required")
	}
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 50
	}

	all, err := s.Messages.ListByConversation(ctx, conversationID, 0)
	if err != nil {
		return nil, models.NewStoreError(err)
	}

	visible := make([]models.Message, 0, len(all))
	for _, m := range all {
		if !m.IsDeleted {
			visible = append(visible, m)
		}
	}

	start := (page - 1) * pageSize
	if start >= len(visible) {
		return []models.Message{}, nil
	}
	end := start + pageSize
	if end > len(visible) {
		end = len(visible)
	}
	return visible[start:end], nil
}

// PinMessage adds a message to the conversation's shared pinned list.
func (s *ChatService) PinMessage(ctx context.Context, conversationID, messageID string) error {
	conv, msg, err := s.conversationMessage(ctx, conversationID, messageID)
	if err != nil {
		return err
	}

	for _, id := range conv.PinnedMessages {
		if id == messageID {
			return nil // already pinned
		}
	}
	conv.PinnedMessages = append(conv.PinnedMessages, messageID)
	conv.UpdatedAt = now()
	if err := s.Conversations.Put(ctx, conv); err != nil {
		return models.NewStoreError(err)
	}

	msg.IsPinned = true
	msg.UpdatedAt = now()
	if err := s.Messages.Put(ctx, msg); err != nil {
		return models.NewStoreError(err)
	}
	return nil
}

// UnpinMessage removes a message from the shared pinned list.
func (s *ChatService) UnpinMessage(ctx context.Context, conversationID, messageID string) error {
	conv, msg, err := s.conversationMessage(ctx, conversationID, messageID)
	if err != nil {
		return err
	}

	kept := conv.PinnedMessages[:0]
	for _, id := range conv.PinnedMessages {
		if id != messageID {
			kept = append(kept, id)
		}
	}
	conv.PinnedMessages = kept
	conv.UpdatedAt = now()
	if err := s.Conversations.Put(ctx, conv); err != nil {
		return models.NewStoreError(err)
	}

	msg.IsPinned = false
	msg.UpdatedAt = now()
	if err := s.Messages.Put(ctx, msg); err != nil {
		return models.NewStoreError(err)
	}
	return nil
}

// MarkRead resets the conversation's shared unread counter and the reader's
// own match-record counter, and stamps read receipts on the peer's messages.
func (s *ChatService) MarkRead(ctx context.Context, conversationID, userID string) error {
	conv, err := s.participantConversation(ctx, conversationID, userID)
	if err != nil {
		return err
	}

	conv.UnreadCount = 0
	conv.UpdatedAt = now()
	if err := s.Conversations.Put(ctx, conv); err != nil {
		return models.NewStoreError(err)
	}

	messages, err := s.Messages.ListByConversation(ctx, conversationID, 0)
	if err != nil {
		return models.NewStoreError(err)
	}
	for i := range messages {
		msg := &messages[i]
		if msg.IsDeleted || msg.SenderID == userID || msg.ReadBy[userID] {
			continue
		}
		if msg.ReadBy == nil {
			msg.ReadBy = map[string]bool{}
		}
		msg.ReadBy[userID] = true
		msg.UpdatedAt = now()
		if err := s.Messages.Put(ctx, msg); err != nil {
			return models.NewStoreError(err)
		}
	}

	rec, err := s.Matches.Store.Get(ctx, userID, conv.PeerOf(userID))
	if err != nil {
		return models.NewStoreError(err)
	}
	if rec != nil && rec.UnreadCount != 0 {
		rec.UnreadCount = 0
		rec.UpdatedAt = now()
		if err := s.Matches.Store.Put(ctx, rec); err != nil {
			return models.NewStoreError(err)
		}
	}
	return nil
}

// ReactToMessage sets (or clears, with an empty emoji) the user's reaction.
func (s *ChatService) ReactToMessage(ctx context.Context, conversationID, messageID, userID, emoji string) error {
	conv, msg, err := s.conversationMessage(ctx, conversationID, messageID)
	if err != nil {
		return err
	}
	if !conv.HasParticipant(userID) {
		return models.NewPermissionDenied(models.ReasonNotParticipant)
	}

	if emoji == "" {
		delete(msg.Reactions, userID)
	} else {
		if msg.Reactions == nil {
			msg.Reactions = map[string]string{}
		}
		msg.Reactions[userID] = emoji
	}
	msg.UpdatedAt = now()
	if err := s.Messages.Put(ctx, msg); err != nil {
		return models.NewStoreError(err)
	}

	if s.Realtime != nil {
		s.Realtime.PublishToConversation(conversationID, "messageReaction", msg)
	}
	return nil
}

// EditMessage replaces the content of the sender's own message.
func (s *ChatService) EditMessage(ctx context.Context, conversationID, messageID, senderID, content string) (*models.Message, error) {
	if content == "" {
		return nil, models.NewValidationError("content is required")
	}
	_, msg, err := s.conversationMessage(ctx, conversationID, messageID)
	if err != nil {
		return nil, err
	}
	if msg.SenderID != senderID {
		return nil, models.NewPermissionDenied(models.ReasonNotParticipant)
	}

	msg.Content = content
	msg.IsEdited = true
	msg.UpdatedAt = now()
	if err := s.Messages.Put(ctx, msg); err != nil {
		return nil, models.NewStoreError(err)
	}

	if s.Realtime != nil {
		s.Realtime.PublishToConversation(conversationID, "messageEdited", msg)
	}
	return msg, nil
}

// DeleteMessage soft-deletes the sender's own message.
func (s *ChatService) DeleteMessage(ctx context.Context, conversationID, messageID, senderID string) error {
	_, msg, err := s.conversationMessage(ctx, conversationID, messageID)
	if err != nil {
		return err
	}
	if msg.SenderID != senderID {
		return models.NewPermissionDenied(models.ReasonNotParticipant)
	}

	msg.IsDeleted = true
	msg.UpdatedAt = now()
	if err := s.Messages.Put(ctx, msg); err != nil {
		return models.NewStoreError(err)
	}
	return nil
}

// ResetPair flips the pair's conversation back to unapproved and soft-deletes
// its messages. Invoked by the match registry on unfriend. Messages stay
// queryable in the store, only flagged.
func (s *ChatService) ResetPair(ctx context.Context, a, b string) error {
	conv, err := s.Conversations.GetByPair(ctx, models.CanonicalPairKey(a, b))
	if err != nil {
		return models.NewStoreError(err)
	}
	if conv == nil {
		return nil
	}

	ts := now()
	conv.IsApproved = false
	conv.LastMessageID = ""
	conv.LastMessage = ""
	conv.UnreadCount = 0
	conv.PinnedMessages = nil
	conv.UpdatedAt = ts
	if err := s.Conversations.Put(ctx, conv); err != nil {
		return models.NewStoreError(err)
	}

	messages, err := s.Messages.ListByConversation(ctx, conv.ConversationID, 0)
	if err != nil {
		return models.NewStoreError(err)
	}
	for i := range messages {
		msg := &messages[i]
		if msg.IsDeleted {
			continue
		}
		msg.IsDeleted = true
		msg.IsPinned = false
		msg.UpdatedAt = ts
		if err := s.Messages.Put(ctx, msg); err != nil {
			return models.NewStoreError(err)
		}
	}
	log.Printf("🔄 Conversation for %s/%s reset to unapproved", a, b)
	return nil
}

func (s *ChatService) profilePair(ctx context.Context, senderID, recipientID string) (*models.UserProfile, *models.UserProfile, error) {
	senderProfile, err := s.Profiles.GetProfile(ctx, senderID)
	if err != nil {
		return nil, nil, models.NewStoreError(err)
	}
	if senderProfile == nil {
		return nil, nil, models.NewNotFoundError("user", senderID)
	}
	recipientProfile, err := s.Profiles.GetProfile(ctx, recipientID)
	if err != nil {
		return nil, nil, models.NewStoreError(err)
	}
	if recipientProfile == nil {
		return nil, nil, models.NewNotFoundError("user", recipientID)
	}
	return senderProfile, recipientProfile, nil
}

func (s *ChatService) participantConversation(ctx context.Context, conversationID, userID string) (*models.Conversation, error) {
	if conversationID == "" || userID == "" {
		return nil, models.NewValidationError("conversationId and userId are required")
	}
	conv, err := s.Conversations.Get(ctx, conversationID)
	if err != nil {
		return nil, models.NewStoreError(err)
	}
	if conv == nil {
		return nil, models.NewNotFoundError("conversation", conversationID)
	}
	if !conv.HasParticipant(userID) {
		return nil, models.NewPermissionDenied(models.ReasonNotParticipant)
	}
	return conv, nil
}

func (s *ChatService) conversationMessage(ctx context.Context, conversationID, messageID string) (*models.Conversation, *models.Message, error) {
	if conversationID == "" || messageID == "" {
		return nil, nil, models.NewValidationError("conversationId and messageId are required")
	}
	conv, err := s.Conversations.Get(ctx, conversationID)
	if err != nil {
		return nil, nil, models.NewStoreError(err)
	}
	if conv == nil {
		return nil, nil, models.NewNotFoundError("conversation", conversationID)
	}
	msg, err := s.Messages.Get(ctx, conversationID, messageID)
	if err != nil {
		return nil, nil, models.NewStoreError(err)
	}
	if msg == nil {
		return nil, nil, models.NewNotFoundError("message", messageID)
	}
	return conv, msg, nil
}

func (s *ChatService) notify(ctx context.Context, recipient, sender, notificationType string, payload map[string]string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.CreateNotification(ctx, recipient, sender, notificationType, payload); err != nil {
		log.Printf("⚠️ Failed to enqueue %s notification for %s: %v", notificationType, recipient, err)
	}
}
