package models

import "fmt"

// Interaction is one unilateral action by Actor on Target. A record is keyed
// by the full (actor, target, type, context) tuple, so a repeated action lands
// on the same item and updates it in place instead of duplicating.
type Interaction struct {
	PK        string             `dynamodbav:"PK" json:"-"` // USER#<actor>
	SK        string             `dynamodbav:"SK" json:"-"` // INTERACTION#<target>#<type>#<context>
	ActorID   string             `dynamodbav:"actorId" json:"actorId"`
	TargetID  string             `dynamodbav:"targetId" json:"targetId"`
	Type      InteractionType    `dynamodbav:"interactionType" json:"interactionType"`
	Context   InteractionContext `dynamodbav:"context" json:"context"`
	IsActive  bool               `dynamodbav:"isActive" json:"isActive"`
	IsMutual  bool               `dynamodbav:"isMutual" json:"isMutual"`
	MutualAt  string             `dynamodbav:"mutualAt,omitempty" json:"mutualAt,omitempty"`
	Weight    float64            `dynamodbav:"weight" json:"weight"`
	Metadata  map[string]string  `dynamodbav:"metadata,omitempty" json:"metadata,omitempty"`
	CreatedAt string             `dynamodbav:"createdAt" json:"createdAt"`
	UpdatedAt string             `dynamodbav:"updatedAt" json:"updatedAt"`
}

// InteractionPK builds the partition key for a user's outgoing interactions.
func InteractionPK(actorID string) string {
	return "USER#" + actorID
}

// InteractionSK builds the sort key for one (target, type, context) tuple.
func InteractionSK(targetID string, t InteractionType, c InteractionContext) string {
	return fmt.Sprintf("INTERACTION#%s#%s#%s", targetID, t, c)
}

const InteractionsTable = "Interactions"

// GSI keyed by targetId, used for reciprocal lookups ("who acted on me").
const InteractionTargetIndex = "targetId-index"
