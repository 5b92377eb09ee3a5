package models

// Message is one message inside a conversation. Messages are soft-deleted on
// unfriend/reset and never physically erased.
type Message struct {
	ConversationID string            `dynamodbav:"conversationId" json:"conversationId"`
	MessageID      string            `dynamodbav:"messageId" json:"messageId"`
	SenderID       string            `dynamodbav:"senderId" json:"senderId"`
	Content        string            `dynamodbav:"content" json:"content"`
	Type           string            `dynamodbav:"messageType" json:"messageType"`
	IsEdited       bool              `dynamodbav:"isEdited" json:"isEdited"`
	IsDeleted      bool              `dynamodbav:"isDeleted" json:"isDeleted"`
	IsPinned       bool              `dynamodbav:"isPinned" json:"isPinned"`
	ReadBy         map[string]bool   `dynamodbav:"readBy,omitempty" json:"readBy,omitempty"`
	Reactions      map[string]string `dynamodbav:"reactions,omitempty" json:"reactions,omitempty"`
	ReplyTo        string            `dynamodbav:"replyTo,omitempty" json:"replyTo,omitempty"`
	CreatedAt      string            `dynamodbav:"createdAt" json:"createdAt"`
	UpdatedAt      string            `dynamodbav:"updatedAt" json:"updatedAt"`
}

const MessagesTable = "Messages"
