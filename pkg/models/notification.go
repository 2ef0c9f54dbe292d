package models

import "time"

// NotificationType categorizes dashboard notifications
type NotificationType string

const (
	NotificationNewJob         NotificationType = "new_job"
	NotificationApproval       NotificationType = "approval"
	NotificationRejection      NotificationType = "rejection"
	NotificationApplication    NotificationType = "application"
	NotificationRecommendation NotificationType = "recommendation"
)

// Notification represents a dashboard notification entry
type Notification struct {
	ID        string           `json:"id"`
	Message   string           `json:"message"`
	Type      NotificationType `json:"notification_type"`
	Read      bool             `json:"is_read"`
	CreatedAt time.Time        `json:"created_at"`
}
