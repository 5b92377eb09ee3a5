package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"emberly_server/models"
)

// InteractionService is the ledger of unilateral actions. It owns interaction
// records, detects reciprocity, and cascades deactivation on block. Match
// creation is NOT triggered here; callers invoke CheckForMatch explicitly
// after recording a swipe.
type InteractionService struct {
	Interactions InteractionStore
	MatchRecords MatchStore
	Profiles     ProfileDirectory

	// Matches is set after construction to break the ledger/registry cycle.
	Matches *MatchService
}

// InteractionFilter narrows GetUserInteractions results.
type InteractionFilter struct {
	Direction string // "sent", "received" or "" for both
	Type      models.InteractionType
	Context   models.InteractionContext
	Since     time.Time
	Until     time.Time
}

// UserStats summarizes a user's ledger activity.
type UserStats struct {
	UserID         string                         `json:"userId"`
	Sent           int                            `json:"sent"`
	Received       int                            `json:"received"`
	SentByType     map[models.InteractionType]int `json:"sentByType"`
	ReceivedByType map[models.InteractionType]int `json:"receivedByType"`
	MutualMatches  int                            `json:"mutualMatches"`
}

// Analytics aggregates ledger activity inside a time window.
type Analytics struct {
	UserID      string                            `json:"userId"`
	WindowStart string                            `json:"windowStart,omitempty"`
	ByType      map[models.InteractionType]int    `json:"byType"`
	ByContext   map[models.InteractionContext]int `json:"byContext"`
	TotalWeight float64                           `json:"totalWeight"`
}

// RelationshipStatus reports block state between an ordered pair.
type RelationshipStatus struct {
	IBlocked      bool `json:"iBlocked"`
	BlockedByPeer bool `json:"blockedByPeer"`
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

func validatePair(actor, target string) error {
	if actor == "" || target == "" {
		return models.NewValidationError("actor and target are required")
	}
	if actor == target {
		return models.NewValidationError("cannot target yourself")
	}
	return nil
}

// RecordInteraction is an idempotent upsert. A repeat of the same
// (actor, target, type, context) while the prior record is active refreshes
// metadata on the existing record instead of duplicating it.
//
// A block deactivates every active record between the pair, both directions,
// before the block record itself is written. Matchable types are checked for
// an active reciprocal record and both sides flagged mutual with a shared
// timestamp. No cross-component call happens here.
func (s *InteractionService) RecordInteraction(ctx context.Context, actor, target string, t models.InteractionType, c models.InteractionContext, metadata map[string]string) (*models.Interaction, error) {
	if err := validatePair(actor, target); err != nil {
		return nil, err
	}
	if !models.IsKnownInteraction(t) {
		return nil, models.NewValidationError(fmt.Sprintf("unknown interaction type %q", t))
	}
	if c == "" {
		c = models.ContextMatching
	}

	if t == models.InteractionUnblock {
		return s.recordUnblock(ctx, actor, target, c, metadata)
	}

	existing, err := s.Interactions.Get(ctx, actor, target, t, c)
	if err != nil {
		return nil, models.NewStoreError(err)
	}
	if existing != nil && existing.IsActive {
		existing.Metadata = mergeMetadata(existing.Metadata, metadata)
		existing.UpdatedAt = now()
		if err := s.Interactions.Put(ctx, existing); err != nil {
			return nil, models.NewStoreError(err)
		}
		return existing, nil
	}

	if t == models.InteractionBlock {
		if err := s.deactivatePair(ctx, actor, target); err != nil {
			return nil, err
		}
	}

	ts := now()
	rec := &models.Interaction{
		ActorID:   actor,
		TargetID:  target,
		Type:      t,
		Context:   c,
		IsActive:  true,
		Weight:    models.WeightFor(t),
		Metadata:  metadata,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	if existing != nil {
		// Reactivating a previously deactivated tuple keeps its history.
		rec.CreatedAt = existing.CreatedAt
	}

	if models.MatchableInteraction(t) {
		reciprocal, err := s.Interactions.Get(ctx, target, actor, t, c)
		if err != nil {
			return nil, models.NewStoreError(err)
		}
		if reciprocal != nil && reciprocal.IsActive {
			mutualAt := ts
			rec.IsMutual = true
			rec.MutualAt = mutualAt
			reciprocal.IsMutual = true
			reciprocal.MutualAt = mutualAt
			reciprocal.UpdatedAt = ts
			if err := s.Interactions.Put(ctx, reciprocal); err != nil {
				return nil, models.NewStoreError(err)
			}
		}
	}

	if err := s.Interactions.Put(ctx, rec); err != nil {
		return nil, models.NewStoreError(err)
	}
	return rec, nil
}

func (s *InteractionService) recordUnblock(ctx context.Context, actor, target string, c models.InteractionContext, metadata map[string]string) (*models.Interaction, error) {
	blocks, err := s.activeBlocks(ctx, actor, target)
	if err != nil {
		return nil, err
	}
	if len(blocks) == 0 {
		return nil, models.NewConflictError("no active block to remove")
	}
	ts := now()
	for i := range blocks {
		blocks[i].IsActive = false
		blocks[i].UpdatedAt = ts
		if err := s.Interactions.Put(ctx, &blocks[i]); err != nil {
			return nil, models.NewStoreError(err)
		}
	}

	rec := &models.Interaction{
		ActorID:   actor,
		TargetID:  target,
		Type:      models.InteractionUnblock,
		Context:   c,
		IsActive:  true,
		Weight:    models.WeightFor(models.InteractionUnblock),
		Metadata:  metadata,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	if err := s.Interactions.Put(ctx, rec); err != nil {
		return nil, models.NewStoreError(err)
	}
	log.Printf("✅ %s unblocked %s", actor, target)
	return rec, nil
}

// deactivatePair turns off every active record between the two users in both
// directions. Runs ahead of a block write.
func (s *InteractionService) deactivatePair(ctx context.Context, a, b string) error {
	ts := now()
	for _, pair := range [][2]string{{a, b}, {b, a}} {
		records, err := s.Interactions.ListByActor(ctx, pair[0])
		if err != nil {
			return models.NewStoreError(err)
		}
		for i := range records {
			if records[i].TargetID != pair[1] || !records[i].IsActive {
				continue
			}
			records[i].IsActive = false
			records[i].IsMutual = false
			records[i].UpdatedAt = ts
			if err := s.Interactions.Put(ctx, &records[i]); err != nil {
				return models.NewStoreError(err)
			}
		}
	}
	return nil
}

// CheckForMatch re-queries the reciprocal record for a freshly recorded
// like/superlike and, if present and active, delegates to the match registry
// for both directions. Callers invoke this explicitly after RecordInteraction.
func (s *InteractionService) CheckForMatch(ctx context.Context, rec *models.Interaction) (bool, error) {
	if rec == nil || !models.MatchableInteraction(rec.Type) || !rec.IsActive {
		return false, nil
	}

	reciprocal, err := s.Interactions.Get(ctx, rec.TargetID, rec.ActorID, rec.Type, rec.Context)
	if err != nil {
		return false, models.NewStoreError(err)
	}
	if reciprocal == nil || !reciprocal.IsActive {
		return false, nil
	}

	score := rec.Weight + reciprocal.Weight
	if err := s.Matches.EnsureMatchPair(ctx, rec.ActorID, rec.TargetID, string(rec.Type), score); err != nil {
		return false, err
	}
	log.Printf("🎉 Mutual %s confirmed: %s and %s", rec.Type, rec.ActorID, rec.TargetID)
	return true, nil
}

// GetPotentialMatches returns discovery candidates for userID: everyone except
// the user themselves, users they blocked, users already matched, and anyone
// already swiped on in matching context, whatever the outcome of that swipe.
func (s *InteractionService) GetPotentialMatches(ctx context.Context, userID string, limit int) ([]models.UserProfile, error) {
	if userID == "" {
		return nil, models.NewValidationError("userId is required")
	}

	exclude := map[string]struct{}{userID: {}}

	sent, err := s.Interactions.ListByActor(ctx, userID)
	if err != nil {
		return nil, models.NewStoreError(err)
	}
	for _, rec := range sent {
		if !rec.IsActive {
			continue
		}
		if rec.Type == models.InteractionBlock {
			exclude[rec.TargetID] = struct{}{}
		}
		if models.SwipeInteraction(rec.Type) && rec.Context == models.ContextMatching {
			exclude[rec.TargetID] = struct{}{}
		}
	}
	// Users who blocked this user are NOT excluded here; they filter the
	// candidate out on their own side. Intentionally asymmetric.

	matches, err := s.MatchRecords.ListByOwner(ctx, userID)
	if err != nil {
		return nil, models.NewStoreError(err)
	}
	for _, m := range matches {
		if m.IsActive {
			exclude[m.PartnerID] = struct{}{}
		}
	}

	profiles, err := s.Profiles.ListProfiles(ctx)
	if err != nil {
		return nil, models.NewStoreError(err)
	}

	candidates := make([]models.UserProfile, 0, limit)
	for _, p := range profiles {
		if _, skip := exclude[p.UserID]; skip {
			continue
		}
		candidates = append(candidates, p)
		if limit > 0 && len(candidates) >= limit {
			break
		}
	}
	return candidates, nil
}

// GetUserInteractions returns ledger records involving userID, filtered.
func (s *InteractionService) GetUserInteractions(ctx context.Context, userID string, filter InteractionFilter) ([]models.Interaction, error) {
	if userID == "" {
		return nil, models.NewValidationError("userId is required")
	}

	var records []models.Interaction
	if filter.Direction == "" || filter.Direction == "sent" {
		sent, err := s.Interactions.ListByActor(ctx, userID)
		if err != nil {
			return nil, models.NewStoreError(err)
		}
		records = append(records, sent...)
	}
	if filter.Direction == "" || filter.Direction == "received" {
		received, err := s.Interactions.ListByTarget(ctx, userID)
		if err != nil {
			return nil, models.NewStoreError(err)
		}
		records = append(records, received...)
	}

	filtered := records[:0]
	for _, rec := range records {
		if filter.Type != "" && rec.Type != filter.Type {
			continue
		}
		if filter.Context != "" && rec.Context != filter.Context {
			continue
		}
		if !filter.Since.IsZero() && rec.CreatedAt < filter.Since.UTC().Format(time.RFC3339Nano) {
			continue
		}
		if !filter.Until.IsZero() && rec.CreatedAt > filter.Until.UTC().Format(time.RFC3339Nano) {
			continue
		}
		filtered = append(filtered, rec)
	}
	return filtered, nil
}

// GetUserStats aggregates the user's ledger both directions.
func (s *InteractionService) GetUserStats(ctx context.Context, userID string) (*UserStats, error) {
	if userID == "" {
		return nil, models.NewValidationError("userId is required")
	}

	stats := &UserStats{
		UserID:         userID,
		SentByType:     map[models.InteractionType]int{},
		ReceivedByType: map[models.InteractionType]int{},
	}

	sent, err := s.Interactions.ListByActor(ctx, userID)
	if err != nil {
		return nil, models.NewStoreError(err)
	}
	for _, rec := range sent {
		if !rec.IsActive {
			continue
		}
		stats.Sent++
		stats.SentByType[rec.Type]++
		if rec.IsMutual && models.MatchableInteraction(rec.Type) {
			stats.MutualMatches++
		}
	}

	received, err := s.Interactions.ListByTarget(ctx, userID)
	if err != nil {
		return nil, models.NewStoreError(err)
	}
	for _, rec := range received {
		if !rec.IsActive {
			continue
		}
		stats.Received++
		stats.ReceivedByType[rec.Type]++
	}

	return stats, nil
}

// GetAnalytics aggregates activity since the window start (zero = all time).
func (s *InteractionService) GetAnalytics(ctx context.Context, userID string, since time.Time) (*Analytics, error) {
	filter := InteractionFilter{Since: since}
	records, err := s.GetUserInteractions(ctx, userID, filter)
	if err != nil {
		return nil, err
	}

	analytics := &Analytics{
		UserID:    userID,
		ByType:    map[models.InteractionType]int{},
		ByContext: map[models.InteractionContext]int{},
	}
	if !since.IsZero() {
		analytics.WindowStart = since.UTC().Format(time.RFC3339Nano)
	}
	for _, rec := range records {
		if !rec.IsActive {
			continue
		}
		analytics.ByType[rec.Type]++
		analytics.ByContext[rec.Context]++
		analytics.TotalWeight += rec.Weight
	}
	return analytics, nil
}

// ResetSwipeHistory deactivates the user's matching-context swipes so
// previously passed candidates surface again. Returns how many were reset.
func (s *InteractionService) ResetSwipeHistory(ctx context.Context, userID string) (int, error) {
	if userID == "" {
		return 0, models.NewValidationError("userId is required")
	}

	records, err := s.Interactions.ListByActor(ctx, userID)
	if err != nil {
		return 0, models.NewStoreError(err)
	}

	ts := now()
	reset := 0
	for i := range records {
		rec := &records[i]
		if !rec.IsActive || rec.Context != models.ContextMatching || !models.SwipeInteraction(rec.Type) {
			continue
		}
		rec.IsActive = false
		rec.IsMutual = false
		rec.UpdatedAt = ts
		if err := s.Interactions.Put(ctx, rec); err != nil {
			return reset, models.NewStoreError(err)
		}
		reset++
	}
	log.Printf("🔄 Reset %d swipes for %s", reset, userID)
	return reset, nil
}

// Relationship reports block state for the ordered (actor, target) pair.
func (s *InteractionService) Relationship(ctx context.Context, actor, target string) (*RelationshipStatus, error) {
	if err := validatePair(actor, target); err != nil {
		return nil, err
	}

	mine, err := s.activeBlocks(ctx, actor, target)
	if err != nil {
		return nil, err
	}
	theirs, err := s.activeBlocks(ctx, target, actor)
	if err != nil {
		return nil, err
	}
	return &RelationshipStatus{
		IBlocked:      len(mine) > 0,
		BlockedByPeer: len(theirs) > 0,
	}, nil
}

// activeBlocks finds active block records actor -> target across contexts.
func (s *InteractionService) activeBlocks(ctx context.Context, actor, target string) ([]models.Interaction, error) {
	records, err := s.Interactions.ListByActor(ctx, actor)
	if err != nil {
		return nil, models.NewStoreError(err)
	}
	var blocks []models.Interaction
	for _, rec := range records {
		if rec.Type == models.InteractionBlock && rec.TargetID == target && rec.IsActive {
			blocks = append(blocks, rec)
		}
	}
	return blocks, nil
}

func mergeMetadata(dst, src map[string]string) map[string]string {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string]string, len(src))
	}
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
