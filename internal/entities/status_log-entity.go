package entities

import "time"

// StatusLogEntry is the append-only audit record written on every status
// transition. Entries are never mutated or deleted.
type StatusLogEntry struct {
	ID        int64     `json:"id"`
	OrderID   int64     `json:"order_id"`
	OldStatus string    `json:"old_status"`
	NewStatus string    `json:"new_status"`
	Comment   string    `json:"comment"`
	Actor     string    `json:"actor"`
	ChangedAt time.Time `json:"changed_at"`
}
