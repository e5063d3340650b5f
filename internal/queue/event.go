// Package queue defines message payloads exchanged over the message broker.
package queue

// OrderPlacedEvent is published when a user submits a new reservation order.
// It contains enough information for downstream consumers to log, notify, or
// trigger analytics without querying the primary database.
type OrderPlacedEvent struct {
	OrderID    uint64 `json:"order_id"`
	UserID     uint64 `json:"user_id"`
	VenueID    uint64 `json:"venue_id"`
	VenueName  string `json:"venue_name"`
	StartsAt   string `json:"starts_at"`
	Hours      int    `json:"hours"`
	TotalPrice uint64 `json:"total_price"`
	PlacedAt   string `json:"placed_at"`
}

// OrderAuditedEvent is published when an administrator confirms or rejects a
// pending order.  Outcome is "confirmed" or "rejected".
type OrderAuditedEvent struct {
	OrderID   uint64 `json:"order_id"`
	UserID    uint64 `json:"user_id"`
	VenueID   uint64 `json:"venue_id"`
	Outcome   string `json:"outcome"`
	AuditedAt string `json:"audited_at"`
}
