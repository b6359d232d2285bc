package domain

import "time"

type NotificationType string

const (
	NotificationLowStock   NotificationType = "low_stock"
	NotificationOutOfStock NotificationType = "out_of_stock"
	NotificationSystem     NotificationType = "system"
	NotificationCustom     NotificationType = "custom"
)

type Notification struct {
	ID        string           `json:"id"`
	Type      NotificationType `json:"type"`
	Message   string           `json:"message"`
	ItemID    string           `json:"itemId,omitempty"`
	Read      bool             `json:"read"`
	CreatedAt time.Time        `json:"createdAt"`
}
