package dto

// QueueEntryDTO is one row of the scored priority queue. The flags are
// rendered as badges by the caller.
type QueueEntryDTO struct {
	OrderID           int64  `json:"order_id"`
	OrderNumber       string `json:"order_number"`
	CustomerName      string `json:"customer_name"`
	DeliveryRegion    string `json:"delivery_region"`
	Status            string `json:"status"`
	PrimaryMaterial   string `json:"primary_material"`
	DueDate           string `json:"due_date,omitempty"`
	DaysRemaining     int    `json:"days_remaining"`
	Tier              string `json:"tier"`
	Score             int64  `json:"score"`
	IsCanariasUrgent  bool   `json:"is_canarias_urgent"`
	IsGroupedMaterial bool   `json:"is_grouped_material"`
}
