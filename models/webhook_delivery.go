package models

import "time"

// WebhookDelivery records one received delivery id. The unique index is the
// dedup gate: the insert happens before any processing, and a duplicate-key
// failure means the delivery was already handled. HandledAt is bookkeeping
// only, never consulted for correctness.
type WebhookDelivery struct {
	ID         string `gorm:"primaryKey"`
	DeliveryID string `gorm:"uniqueIndex"` // X-GitHub-Delivery header
	EventType  string
	ReceivedAt time.Time
	HandledAt  *time.Time
}
