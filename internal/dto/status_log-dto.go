package dto

type StatusLogEntryDTO struct {
	ID        int64  `json:"id"`
	OrderID   int64  `json:"order_id"`
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
	Comment   string `json:"comment"`
	Actor     string `json:"actor"`
	ChangedAt string `json:"changed_at"`
}
