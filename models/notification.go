package models

// Notification is a fire-and-forget outbound event persisted for clients that
// missed the realtime broadcast.
type Notification struct {
	RecipientID    string            `dynamodbav:"recipientId" json:"recipientId"`
	NotificationID string            `dynamodbav:"notificationId" json:"notificationId"`
	SenderID       string            `dynamodbav:"senderId" json:"senderId"`
	Type           string            `dynamodbav:"notificationType" json:"notificationType"`
	Payload        map[string]string `dynamodbav:"payload,omitempty" json:"payload,omitempty"`
	IsRead         bool              `dynamodbav:"isRead" json:"isRead"`
	CreatedAt      string            `dynamodbav:"createdAt" json:"createdAt"`
}

const NotificationsTable = "Notifications"
