package services

import (
	"context"
	"log"

	"emberly_server/models"
)

// ConversationResetter is the slice of the conversation gate the registry
// needs for unfriend: flip the pair's conversation back to unapproved and
// soft-delete its messages. Wired after construction to avoid a cycle.
type ConversationResetter interface {
	ResetPair(ctx context.Context, a, b string) error
}

// MatchService is the registry of directional match records. Records are
// created lazily on mutual detection or repaired later by the reconciliation
// sweep; they are never hard-deleted.
type MatchService struct {
	Store        MatchStore
	Interactions InteractionStore
	Profiles     ProfileDirectory

	Conversations ConversationResetter
}

// EnsureMatch is an idempotent create-or-refresh of one directional record.
// An existing record keeps its matchDate, chatId, unread count and request
// flags; only the denormalized partner fields, score and activity change.
func (s *MatchService) EnsureMatch(ctx context.Context, owner, partner, partnerName, partnerAvatar, interactionType string, score float64) (*models.Match, error) {
	if err := validatePair(owner, partner); err != nil {
		return nil, err
	}

	ts := now()
	existing, err := s.Store.Get(ctx, owner, partner)
	if err != nil {
		return nil, models.NewStoreError(err)
	}
	if existing != nil {
		existing.IsActive = true
		existing.PartnerName = partnerName
		existing.PartnerAvatar = partnerAvatar
		existing.InteractionType = interactionType
		existing.MatchScore = score
		existing.UpdatedAt = ts
		if err := s.Store.Put(ctx, existing); err != nil {
			return nil, models.NewStoreError(err)
		}
		return existing, nil
	}

	match := &models.Match{
		OwnerID:         owner,
		PartnerID:       partner,
		PartnerName:     partnerName,
		PartnerAvatar:   partnerAvatar,
		InteractionType: interactionType,
		MatchScore:      score,
		IsActive:        true,
		MatchDate:       ts,
		UpdatedAt:       ts,
	}
	if err := s.Store.Put(ctx, match); err != nil {
		return nil, models.NewStoreError(err)
	}
	return match, nil
}

// EnsureMatchPair refreshes or creates both directional records in one store
// transaction, pulling display fields from the directory.
func (s *MatchService) EnsureMatchPair(ctx context.Context, a, b, interactionType string, score float64) error {
	if err := validatePair(a, b); err != nil {
		return err
	}

	profileA, err := s.Profiles.GetProfile(ctx, a)
	if err != nil {
		return models.NewStoreError(err)
	}
	profileB, err := s.Profiles.GetProfile(ctx, b)
	if err != nil {
		return models.NewStoreError(err)
	}
	if profileA == nil {
		return models.NewNotFoundError("user", a)
	}
	if profileB == nil {
		return models.NewNotFoundError("user", b)
	}

	forward, err := s.prepareDirection(ctx, a, b, profileB, interactionType, score)
	if err != nil {
		return err
	}
	backward, err := s.prepareDirection(ctx, b, a, profileA, interactionType, score)
	if err != nil {
		return err
	}

	if err := s.Store.PutPair(ctx, forward, backward); err != nil {
		return models.NewStoreError(err)
	}
	return nil
}

func (s *MatchService) prepareDirection(ctx context.Context, owner, partner string, partnerProfile *models.UserProfile, interactionType string, score float64) (*models.Match, error) {
	ts := now()
	existing, err := s.Store.Get(ctx, owner, partner)
	if err != nil {
		return nil, models.NewStoreError(err)
	}
	if existing != nil {
		existing.IsActive = true
		existing.PartnerName = partnerProfile.DisplayName
		existing.PartnerAvatar = partnerProfile.Avatar
		existing.InteractionType = interactionType
		existing.MatchScore = score
		existing.UpdatedAt = ts
		return existing, nil
	}
	return &models.Match{
		OwnerID:         owner,
		PartnerID:       partner,
		PartnerName:     partnerProfile.DisplayName,
		PartnerAvatar:   partnerProfile.Avatar,
		InteractionType: interactionType,
		MatchScore:      score,
		IsActive:        true,
		MatchDate:       ts,
		UpdatedAt:       ts,
	}, nil
}

// GetMatches lists the user's active matches. The reconciliation sweep runs
// first so reciprocal likes whose match creation was skipped by a crash or
// race still surface; the sweep itself stays an independent operation.
func (s *MatchService) GetMatches(ctx context.Context, userID string) ([]models.Match, error) {
	if userID == "" {
		return nil, models.NewValidationError("userId is required")
	}

	if _, err := s.ReconciliationSweep(ctx, userID); err != nil {
		// A failed repair must not hide matches that already exist.
		log.Printf("⚠️ Reconciliation sweep failed for %s: %v", userID, err)
	}

	records, err := s.Store.ListByOwner(ctx, userID)
	if err != nil {
		return nil, models.NewStoreError(err)
	}

	active := records[:0]
	for _, m := range records {
		if m.IsActive {
			active = append(active, m)
		}
	}
	return active, nil
}

// ReconciliationSweep scans the ledger for reciprocal matchable pairs
// involving userID whose MatchRecord pair is missing and creates it. Records
// that exist but were deactivated by an unfriend are left alone; only a truly
// absent record counts as divergence. Returns how many pairs were repaired.
func (s *MatchService) ReconciliationSweep(ctx context.Context, userID string) (int, error) {
	if userID == "" {
		return 0, models.NewValidationError("userId is required")
	}

	sent, err := s.Interactions.ListByActor(ctx, userID)
	if err != nil {
		return 0, models.NewStoreError(err)
	}

	repaired := 0
	for i := range sent {
		rec := &sent[i]
		if !rec.IsActive || !models.MatchableInteraction(rec.Type) {
			continue
		}

		reciprocal, err := s.Interactions.Get(ctx, rec.TargetID, rec.ActorID, rec.Type, rec.Context)
		if err != nil {
			return repaired, models.NewStoreError(err)
		}
		if reciprocal == nil || !reciprocal.IsActive {
			continue
		}

		// Repair mutual flags skipped by the original write.
		if !rec.IsMutual || !reciprocal.IsMutual {
			ts := now()
			rec.IsMutual = true
			reciprocal.IsMutual = true
			if rec.MutualAt == "" {
				rec.MutualAt = ts
			}
			reciprocal.MutualAt = rec.MutualAt
			rec.UpdatedAt = ts
			reciprocal.UpdatedAt = ts
			if err := s.Interactions.Put(ctx, rec); err != nil {
				return repaired, models.NewStoreError(err)
			}
			if err := s.Interactions.Put(ctx, reciprocal); err != nil {
				return repaired, models.NewStoreError(err)
			}
		}

		mine, err := s.Store.Get(ctx, rec.ActorID, rec.TargetID)
		if err != nil {
			return repaired, models.NewStoreError(err)
		}
		theirs, err := s.Store.Get(ctx, rec.TargetID, rec.ActorID)
		if err != nil {
			return repaired, models.NewStoreError(err)
		}
		if mine != nil && theirs != nil {
			continue
		}

		score := rec.Weight + reciprocal.Weight
		if err := s.EnsureMatchPair(ctx, rec.ActorID, rec.TargetID, string(rec.Type), score); err != nil {
			return repaired, err
		}
		repaired++
		log.Printf("🔧 Rebuilt missing match pair %s / %s", rec.ActorID, rec.TargetID)
	}
	return repaired, nil
}

// RemoveMatch is "unfriend": both directional records are deactivated and
// their messaging flags reset, match history survives, and the shared
// conversation is flipped back to unapproved with its messages soft-deleted.
// Distinct from blocking; the pair can rediscover and re-request each other.
func (s *MatchService) RemoveMatch(ctx context.Context, owner, partner string) error {
	if err := validatePair(owner, partner); err != nil {
		return err
	}

	mine, err := s.Store.Get(ctx, owner, partner)
	if err != nil {
		return models.NewStoreError(err)
	}
	if mine == nil {
		return models.NewNotFoundError("match", owner+"/"+partner)
	}
	theirs, err := s.Store.Get(ctx, partner, owner)
	if err != nil {
		return models.NewStoreError(err)
	}

	ts := now()
	resetDirection := func(m *models.Match) {
		m.IsActive = false
		m.MessageRequestPending = false
		m.MessageRequestFrom = ""
		m.MessagingApproved = false
		m.UnreadCount = 0
		m.UpdatedAt = ts
	}
	resetDirection(mine)
	if theirs != nil {
		resetDirection(theirs)
		if err := s.Store.PutPair(ctx, mine, theirs); err != nil {
			return models.NewStoreError(err)
		}
	} else if err := s.Store.Put(ctx, mine); err != nil {
		return models.NewStoreError(err)
	}

	if s.Conversations != nil {
		if err := s.Conversations.ResetPair(ctx, owner, partner); err != nil {
			return err
		}
	}
	log.Printf("💔 %s removed match with %s", owner, partner)
	return nil
}

// FlagMessageRequest marks a pending message request from sender on the
// recipient-owned record, creating an inactive stub when no record exists yet.
func (s *MatchService) FlagMessageRequest(ctx context.Context, recipient, sender string) error {
	if err := validatePair(recipient, sender); err != nil {
		return err
	}

	ts := now()
	rec, err := s.Store.Get(ctx, recipient, sender)
	if err != nil {
		return models.NewStoreError(err)
	}
	if rec == nil {
		senderProfile, err := s.Profiles.GetProfile(ctx, sender)
		if err != nil {
			return models.NewStoreError(err)
		}
		if senderProfile == nil {
			return models.NewNotFoundError("user", sender)
		}
		rec = &models.Match{
			OwnerID:         recipient,
			PartnerID:       sender,
			PartnerName:     senderProfile.DisplayName,
			PartnerAvatar:   senderProfile.Avatar,
			InteractionType: string(models.InteractionMessage),
			IsActive:        false, // a request stub, not a match
			MatchDate:       ts,
		}
	}
	rec.MessageRequestPending = true
	rec.MessageRequestFrom = sender
	rec.UpdatedAt = ts
	if err := s.Store.Put(ctx, rec); err != nil {
		return models.NewStoreError(err)
	}
	return nil
}

// ApproveMessaging clears request flags and marks messaging approved on both
// directional records where they exist.
func (s *MatchService) ApproveMessaging(ctx context.Context, a, b string) error {
	ts := now()
	for _, pair := range [][2]string{{a, b}, {b, a}} {
		rec, err := s.Store.Get(ctx, pair[0], pair[1])
		if err != nil {
			return models.NewStoreError(err)
		}
		if rec == nil {
			continue
		}
		rec.MessageRequestPending = false
		rec.MessageRequestFrom = ""
		rec.MessagingApproved = true
		rec.UpdatedAt = ts
		if err := s.Store.Put(ctx, rec); err != nil {
			return models.NewStoreError(err)
		}
	}
	return nil
}

// SetChatID stamps the conversation id on both directional records if present.
func (s *MatchService) SetChatID(ctx context.Context, a, b, chatID string) error {
	ts := now()
	for _, pair := range [][2]string{{a, b}, {b, a}} {
		rec, err := s.Store.Get(ctx, pair[0], pair[1])
		if err != nil {
			return models.NewStoreError(err)
		}
		if rec == nil || rec.ChatID == chatID {
			continue
		}
		rec.ChatID = chatID
		rec.UpdatedAt = ts
		if err := s.Store.Put(ctx, rec); err != nil {
			return models.NewStoreError(err)
		}
	}
	return nil
}

// RecordLastMessage denormalizes the latest message preview onto both
// directional records and bumps the recipient-side unread count.
func (s *MatchService) RecordLastMessage(ctx context.Context, sender, recipient, preview, sentAt string) error {
	for _, pair := range [][2]string{{sender, recipient}, {recipient, sender}} {
		rec, err := s.Store.Get(ctx, pair[0], pair[1])
		if err != nil {
			return models.NewStoreError(err)
		}
		if rec == nil {
			continue
		}
		rec.LastMessage = preview
		rec.LastMessageDate = sentAt
		if rec.OwnerID == recipient {
			rec.UnreadCount++
		}
		rec.UpdatedAt = now()
		if err := s.Store.Put(ctx, rec); err != nil {
			return models.NewStoreError(err)
		}
	}
	return nil
}

// GetMessageRequests lists records carrying a pending message request for the
// owner.
func (s *MatchService) GetMessageRequests(ctx context.Context, userID string) ([]models.Match, error) {
	if userID == "" {
		return nil, models.NewValidationError("userId is required")
	}
	records, err := s.Store.ListByOwner(ctx, userID)
	if err != nil {
		return nil, models.NewStoreError(err)
	}
	pending := records[:0]
	for _, m := range records {
		if m.MessageRequestPending {
			pending = append(pending, m)
		}
	}
	return pending, nil
}
