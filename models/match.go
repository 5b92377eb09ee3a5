package models

// Match is one direction of a mutual match: the record the Owner sees about
// the Partner. Both directions are always written together. Matches are never
// hard-deleted; unfriending deactivates them and resets the messaging flags.
type Match struct {
	PK                    string  `dynamodbav:"PK" json:"-"` // USER#<owner>
	SK                    string  `dynamodbav:"SK" json:"-"` // MATCH#<partner>
	OwnerID               string  `dynamodbav:"ownerId" json:"ownerId"`
	PartnerID             string  `dynamodbav:"partnerId" json:"partnerId"`
	PartnerName           string  `dynamodbav:"partnerName" json:"partnerName"`
	PartnerAvatar         string  `dynamodbav:"partnerAvatar,omitempty" json:"partnerAvatar,omitempty"`
	MatchScore            float64 `dynamodbav:"matchScore" json:"matchScore"`
	InteractionType       string  `dynamodbav:"interactionType" json:"interactionType"`
	IsActive              bool    `dynamodbav:"isActive" json:"isActive"`
	MessageRequestPending bool    `dynamodbav:"messageRequestPending" json:"messageRequestPending"`
	MessageRequestFrom    string  `dynamodbav:"messageRequestFrom,omitempty" json:"messageRequestFrom,omitempty"`
	MessagingApproved     bool    `dynamodbav:"messagingApproved" json:"messagingApproved"`
	ChatID                string  `dynamodbav:"chatId,omitempty" json:"chatId,omitempty"`
	UnreadCount           int     `dynamodbav:"unreadCount" json:"unreadCount"`
	LastMessage           string  `dynamodbav:"lastMessage,omitempty" json:"lastMessage,omitempty"`
	LastMessageDate       string  `dynamodbav:"lastMessageDate,omitempty" json:"lastMessageDate,omitempty"`
	MatchDate             string  `dynamodbav:"matchDate" json:"matchDate"`
	UpdatedAt             string  `dynamodbav:"updatedAt" json:"updatedAt"`
}

// MatchPK builds the partition key for a user's matches.
func MatchPK(ownerID string) string {
	return "USER#" + ownerID
}

// MatchSK builds the sort key for the directional record about one partner.
func MatchSK(partnerID string) string {
	return "MATCH#" + partnerID
}

const MatchesTable = "Matches"
