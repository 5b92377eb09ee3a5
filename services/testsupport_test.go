package services

import (
	"context"
	"sync"

	"emberly_server/models"
)

// In-memory store fakes. These exist only for tests; production code always
// runs against the DynamoDB-backed stores.

func interactionKey(actor, target string, t models.InteractionType, c models.InteractionContext) string {
	return actor + "|" + target + "|" + string(t) + "|" + string(c)
}

type memInteractionStore struct {
	mu      sync.Mutex
	records map[string]models.Interaction
}

func newMemInteractionStore() *memInteractionStore {
	return &memInteractionStore{records: map[string]models.Interaction{}}
}

func (s *memInteractionStore) Get(_ context.Context, actor, target string, t models.InteractionType, c models.InteractionContext) (*models.Interaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[interactionKey(actor, target, t, c)]
	if !ok {
		return nil, nil
	}
	cp := rec
	return &cp, nil
}

func (s *memInteractionStore) Put(_ context.Context, rec *models.Interaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[interactionKey(rec.ActorID, rec.TargetID, rec.Type, rec.Context)] = *rec
	return nil
}

func (s *memInteractionStore) ListByActor(_ context.Context, actor string) ([]models.Interaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Interaction
	for _, rec := range s.records {
		if rec.ActorID == actor {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (s *memInteractionStore) ListByTarget(_ context.Context, target string) ([]models.Interaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Interaction
	for _, rec := range s.records {
		if rec.TargetID == target {
			out = append(out, rec)
		}
	}
	return out, nil
}

type memMatchStore struct {
	mu      sync.Mutex
	records map[string]models.Match
}

func newMemMatchStore() *memMatchStore {
	return &memMatchStore{records: map[string]models.Match{}}
}

func (s *memMatchStore) Get(_ context.Context, owner, partner string) (*models.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[owner+"|"+partner]
	if !ok {
		return nil, nil
	}
	cp := rec
	return &cp, nil
}

func (s *memMatchStore) Put(_ context.Context, m *models.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[m.OwnerID+"|"+m.PartnerID] = *m
	return nil
}

func (s *memMatchStore) PutPair(_ context.Context, a, b *models.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[a.OwnerID+"|"+a.PartnerID] = *a
	s.records[b.OwnerID+"|"+b.PartnerID] = *b
	return nil
}

func (s *memMatchStore) ListByOwner(_ context.Context, owner string) ([]models.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Match
	for _, rec := range s.records {
		if rec.OwnerID == owner {
			out = append(out, rec)
		}
	}
	return out, nil
}

type memConversationStore struct {
	mu      sync.Mutex
	records map[string]models.Conversation // by conversationId
}

func newMemConversationStore() *memConversationStore {
	return &memConversationStore{records: map[string]models.Conversation{}}
}

func (s *memConversationStore) Get(_ context.Context, conversationID string) (*models.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[conversationID]
	if !ok {
		return nil, nil
	}
	cp := rec
	return &cp, nil
}

func (s *memConversationStore) GetByPair(_ context.Context, pairKey string) (*models.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range s.records {
		if rec.PairKey == pairKey {
			cp := rec
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *memConversationStore) Put(_ context.Context, conv *models.Conversation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[conv.ConversationID] = *conv
	return nil
}

func (s *memConversationStore) ListByParticipant(_ context.Context, userID string) ([]models.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Conversation
	for _, rec := range s.records {
		if rec.HasParticipant(userID) {
			out = append(out, rec)
		}
	}
	return out, nil
}

type memMessageStore struct {
	mu      sync.Mutex
	records map[string][]models.Message // by conversationId, insertion order
}

func newMemMessageStore() *memMessageStore {
	return &memMessageStore{records: map[string][]models.Message{}}
}

func (s *memMessageStore) Get(_ context.Context, conversationID, messageID string) (*models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, msg := range s.records[conversationID] {
		if msg.MessageID == messageID {
			cp := msg
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *memMessageStore) Put(_ context.Context, msg *models.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	msgs := s.records[msg.ConversationID]
	for i := range msgs {
		if msgs[i].MessageID == msg.MessageID {
			msgs[i] = *msg
			return nil
		}
	}
	s.records[msg.ConversationID] = append(msgs, *msg)
	return nil
}

func (s *memMessageStore) ListByConversation(_ context.Context, conversationID string, limit int) ([]models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	msgs := s.records[conversationID]
	out := make([]models.Message, len(msgs))
	copy(out, msgs)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type memDirectory struct {
	mu       sync.Mutex
	order    []string
	profiles map[string]models.UserProfile
}

func newMemDirectory() *memDirectory {
	return &memDirectory{profiles: map[string]models.UserProfile{}}
}

func (d *memDirectory) put(p models.UserProfile) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.profiles[p.UserID]; !ok {
		d.order = append(d.order, p.UserID)
	}
	d.profiles[p.UserID] = p
}

func (d *memDirectory) GetProfile(_ context.Context, userID string) (*models.UserProfile, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, ok := d.profiles[userID]
	if !ok {
		return nil, nil
	}
	cp := p
	return &cp, nil
}

func (d *memDirectory) ListProfiles(_ context.Context) ([]models.UserProfile, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]models.UserProfile, 0, len(d.order))
	for _, id := range d.order {
		out = append(out, d.profiles[id])
	}
	return out, nil
}

type sentNotification struct {
	Recipient string
	Sender    string
	Type      string
	Payload   map[string]string
}

type memNotifier struct {
	mu   sync.Mutex
	sent []sentNotification
}

func (n *memNotifier) CreateNotification(_ context.Context, recipient, sender, notificationType string, payload map[string]string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentNotification{Recipient: recipient, Sender: sender, Type: notificationType, Payload: payload})
	return nil
}

type publishedEvent struct {
	Channel string
	Event   string
}

type memPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *memPublisher) PublishToConversation(conversationID, event string, _ interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{Channel: "conversation:" + conversationID, Event: event})
}

func (p *memPublisher) PublishToUser(userID, event string, _ interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{Channel: "user:" + userID, Event: event})
}

// testEnv wires the full core against the fakes the way main.go wires it
// against DynamoDB.
type testEnv struct {
	interactions  *memInteractionStore
	matchRecords  *memMatchStore
	conversations *memConversationStore
	messages      *memMessageStore
	directory     *memDirectory
	notifier      *memNotifier
	realtime      *memPublisher

	ledger   *InteractionService
	registry *MatchService
	chat     *ChatService
}

func newTestEnv() *testEnv {
	env := &testEnv{
		interactions:  newMemInteractionStore(),
		matchRecords:  newMemMatchStore(),
		conversations: newMemConversationStore(),
		messages:      newMemMessageStore(),
		directory:     newMemDirectory(),
		notifier:      &memNotifier{},
		realtime:      &memPublisher{},
	}

	env.registry = &MatchService{
		Store:        env.matchRecords,
		Interactions: env.interactions,
		Profiles:     env.directory,
	}
	env.ledger = &InteractionService{
		Interactions: env.interactions,
		MatchRecords: env.matchRecords,
		Profiles:     env.directory,
		Matches:      env.registry,
	}
	env.chat = &ChatService{
		Conversations: env.conversations,
		Messages:      env.messages,
		Matches:       env.registry,
		Profiles:      env.directory,
		Notifier:      env.notifier,
		Realtime:      env.realtime,
	}
	env.registry.Conversations = env.chat
	return env
}

func (e *testEnv) addUser(userID, displayName string) {
	e.directory.put(models.UserProfile{UserID: userID, DisplayName: displayName})
}

func (e *testEnv) addUserWithPrivacy(userID, displayName, allowFrom string, followers ...string) {
	e.directory.put(models.UserProfile{
		UserID:      userID,
		DisplayName: displayName,
		Followers:   followers,
		Privacy:     models.Privacy{AllowMessagesFrom: allowFrom},
	})
}

func (e *testEnv) setBlocked(userID string, blocked ...string) {
	p, _ := e.directory.GetProfile(context.Background(), userID)
	p.BlockedUsers = blocked
	e.directory.put(*p)
}
