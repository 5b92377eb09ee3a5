package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"emberly_server/models"
	"emberly_server/utils"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// DynamoDB-backed store implementations. Table names come from models; key
// schemes are documented on the record types.

// DynamoInteractionStore implements InteractionStore.
type DynamoInteractionStore struct {
	Dynamo *DynamoService
}

func (s *DynamoInteractionStore) Get(ctx context.Context, actor, target string, t models.InteractionType, c models.InteractionContext) (*models.Interaction, error) {
	key := map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: models.InteractionPK(actor)},
		"SK": &types.AttributeValueMemberS{Value: models.InteractionSK(target, t, c)},
	}

	item, err := s.Dynamo.GetItem(ctx, models.InteractionsTable, key)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}

	var rec models.Interaction
	if err := attributevalue.UnmarshalMap(item, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal interaction: %w", err)
	}
	return &rec, nil
}

func (s *DynamoInteractionStore) Put(ctx context.Context, rec *models.Interaction) error {
	rec.PK = models.InteractionPK(rec.ActorID)
	rec.SK = models.InteractionSK(rec.TargetID, rec.Type, rec.Context)
	return s.Dynamo.PutItem(ctx, models.InteractionsTable, rec)
}

func (s *DynamoInteractionStore) ListByActor(ctx context.Context, actor string) ([]models.Interaction, error) {
	keyCondition := "PK = :user"
	expressionValues := map[string]types.AttributeValue{
		":user": &types.AttributeValueMemberS{Value: models.InteractionPK(actor)},
	}

	items, err := s.Dynamo.QueryItems(ctx, models.InteractionsTable, keyCondition, expressionValues, nil, 0)
	if err != nil {
		return nil, err
	}

	var interactions []models.Interaction
	if err := attributevalue.UnmarshalListOfMaps(items, &interactions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal interactions: %w", err)
	}
	return interactions, nil
}

func (s *DynamoInteractionStore) ListByTarget(ctx context.Context, target string) ([]models.Interaction, error) {
	keyCondition := "targetId = :target"
	expressionValues := map[string]types.AttributeValue{
		":target": &types.AttributeValueMemberS{Value: target},
	}

	items, err := s.Dynamo.QueryItemsWithIndex(ctx, models.InteractionsTable, models.InteractionTargetIndex, keyCondition, expressionValues, nil, 0)
	if err != nil {
		return nil, err
	}

	var interactions []models.Interaction
	if err := attributevalue.UnmarshalListOfMaps(items, &interactions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal interactions: %w", err)
	}
	return interactions, nil
}

// DynamoMatchStore implements MatchStore.
type DynamoMatchStore struct {
	Dynamo *DynamoService
}

func (s *DynamoMatchStore) Get(ctx context.Context, owner, partner string) (*models.Match, error) {
	key := map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: models.MatchPK(owner)},
		"SK": &types.AttributeValueMemberS{Value: models.MatchSK(partner)},
	}

	item, err := s.Dynamo.GetItem(ctx, models.MatchesTable, key)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}

	var match models.Match
	if err := attributevalue.UnmarshalMap(item, &match); err != nil {
		return nil, fmt.Errorf("failed to unmarshal match: %w", err)
	}
	return &match, nil
}

func (s *DynamoMatchStore) Put(ctx context.Context, m *models.Match) error {
	m.PK = models.MatchPK(m.OwnerID)
	m.SK = models.MatchSK(m.PartnerID)
	return s.Dynamo.PutItem(ctx, models.MatchesTable, m)
}

// PutPair writes both directions in one transaction so a crash cannot leave a
// half-written match.
func (s *DynamoMatchStore) PutPair(ctx context.Context, a, b *models.Match) error {
	a.PK = models.MatchPK(a.OwnerID)
	a.SK = models.MatchSK(a.PartnerID)
	b.PK = models.MatchPK(b.OwnerID)
	b.SK = models.MatchSK(b.PartnerID)
	return s.Dynamo.TransactPutItems(ctx, models.MatchesTable, []interface{}{a, b})
}

func (s *DynamoMatchStore) ListByOwner(ctx context.Context, owner string) ([]models.Match, error) {
	keyCondition := "PK = :user"
	expressionValues := map[string]types.AttributeValue{
		":user": &types.AttributeValueMemberS{Value: models.MatchPK(owner)},
	}

	items, err := s.Dynamo.QueryItems(ctx, models.MatchesTable, keyCondition, expressionValues, nil, 0)
	if err != nil {
		return nil, err
	}

	var matches []models.Match
	if err := attributevalue.UnmarshalListOfMaps(items, &matches); err != nil {
		return nil, fmt.Errorf("failed to unmarshal matches: %w", err)
	}
	return matches, nil
}

// DynamoConversationStore implements ConversationStore.
type DynamoConversationStore struct {
	Dynamo *DynamoService
}

func (s *DynamoConversationStore) Get(ctx context.Context, conversationID string) (*models.Conversation, error) {
	key := map[string]types.AttributeValue{
		"conversationId": &types.AttributeValueMemberS{Value: conversationID},
	}

	item, err := s.Dynamo.GetItem(ctx, models.ConversationsTable, key)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}

	var conv models.Conversation
	if err := attributevalue.UnmarshalMap(item, &conv); err != nil {
		return nil, fmt.Errorf("failed to unmarshal conversation: %w", err)
	}
	return &conv, nil
}

func (s *DynamoConversationStore) GetByPair(ctx context.Context, pairKey string) (*models.Conversation, error) {
	keyCondition := "pairKey = :pair"
	expressionValues := map[string]types.AttributeValue{
		":pair": &types.AttributeValueMemberS{Value: pairKey},
	}

	items, err := s.Dynamo.QueryItemsWithIndex(ctx, models.ConversationsTable, models.ConversationPairIndex, keyCondition, expressionValues, nil, 1)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}

	var conv models.Conversation
	if err := attributevalue.UnmarshalMap(items[0], &conv); err != nil {
		return nil, fmt.Errorf("failed to unmarshal conversation: %w", err)
	}
	return &conv, nil
}

func (s *DynamoConversationStore) Put(ctx context.Context, conv *models.Conversation) error {
	return s.Dynamo.PutItem(ctx, models.ConversationsTable, conv)
}

func (s *DynamoConversationStore) ListByParticipant(ctx context.Context, userID string) ([]models.Conversation, error) {
	var conversations []models.Conversation
	err := s.Dynamo.ScanWithFilter(ctx, models.ConversationsTable, func(item map[string]types.AttributeValue) bool {
		return utils.ExtractString(item, "participantA") == userID ||
			utils.ExtractString(item, "participantB") == userID
	}, &conversations)
	if err != nil {
		return nil, err
	}
	return conversations, nil
}

// DynamoMessageStore implements MessageStore.
type DynamoMessageStore struct {
	Dynamo *DynamoService
}

func (s *DynamoMessageStore) Get(ctx context.Context, conversationID, messageID string) (*models.Message, error) {
	key := map[string]types.AttributeValue{
		"conversationId": &types.AttributeValueMemberS{Value: conversationID},
		"messageId":      &types.AttributeValueMemberS{Value: messageID},
	}

	item, err := s.Dynamo.GetItem(ctx, models.MessagesTable, key)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}

	var msg models.Message
	if err := attributevalue.UnmarshalMap(item, &msg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal message: %w", err)
	}
	return &msg, nil
}

func (s *DynamoMessageStore) Put(ctx context.Context, msg *models.Message) error {
	return s.Dynamo.PutItem(ctx, models.MessagesTable, msg)
}

func (s *DynamoMessageStore) ListByConversation(ctx context.Context, conversationID string, limit int) ([]models.Message, error) {
	keyCondition := "conversationId = :conv"
	expressionValues := map[string]types.AttributeValue{
		":conv": &types.AttributeValueMemberS{Value: conversationID},
	}

	items, err := s.Dynamo.QueryItems(ctx, models.MessagesTable, keyCondition, expressionValues, nil, int32(limit))
	if err != nil {
		return nil, err
	}

	var messages []models.Message
	if err := attributevalue.UnmarshalListOfMaps(items, &messages); err != nil {
		return nil, fmt.Errorf("failed to unmarshal messages: %w", err)
	}

	// Sort key is messageId, so order by createdAt here.
	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].CreatedAt < messages[j].CreatedAt
	})
	return messages, nil
}

// DynamoProfileDirectory implements ProfileDirectory over the externally-owned
// UserProfiles table.
type DynamoProfileDirectory struct {
	Dynamo *DynamoService
}

func (s *DynamoProfileDirectory) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	key := map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}

	item, err := s.Dynamo.GetItem(ctx, models.UserProfilesTable, key)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}

	var profile models.UserProfile
	if err := attributevalue.UnmarshalMap(item, &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	return &profile, nil
}

func (s *DynamoProfileDirectory) ListProfiles(ctx context.Context) ([]models.UserProfile, error) {
	var profiles []models.UserProfile
	if err := s.Dynamo.ScanWithFilter(ctx, models.UserProfilesTable, nil, &profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}

// DynamoNotificationSink implements NotificationSink by persisting the event.
// Failures are logged by callers, never propagated into the triggering send.
type DynamoNotificationSink struct {
	Dynamo *DynamoService
}

func (s *DynamoNotificationSink) CreateNotification(ctx context.Context, recipient, sender, notificationType string, payload map[string]string) error {
	notification := models.Notification{
		RecipientID:    recipient,
		NotificationID: uuid.NewString(),
		SenderID:       sender,
		Type:           notificationType,
		Payload:        payload,
		IsRead:         false,
		CreatedAt:      time.Now().UTC().Format(time.RFC3339Nano),
	}
	return s.Dynamo.PutItem(ctx, models.NotificationsTable, notification)
}
