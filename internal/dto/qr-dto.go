package dto

type ReconcileRequestDTO struct {
	Payload string `json:"payload" validate:"required"`
}

type LineDiscrepancyDTO struct {
	Position int    `json:"position"`
	Field    string `json:"field"`
	Expected string `json:"expected"`
	Scanned  string `json:"scanned"`
}

type ReconcileResultDTO struct {
	IsValid           bool                 `json:"is_valid"`
	IsLegacyFormat    bool                 `json:"is_legacy_format"`
	Discrepancies     []string             `json:"discrepancies"`
	LineDiscrepancies []LineDiscrepancyDTO `json:"line_discrepancies"`
	OrderID           int64                `json:"order_id,omitempty"`
	OrderNumber       string               `json:"order_number,omitempty"`
}
