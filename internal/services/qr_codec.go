package services

import (
	"fmt"
	"strings"

	"fulfillment-system/internal/entities"
)

// QR payload wire format: a single delimited string binding a printed label
// to an order-and-line-item snapshot. Field order is fixed so a label is
// human-diffable:
//
//	order_number|customer_or_company|region|DD/MM/YYYY|material_summary|status
const (
	qrSeparator  = "|"
	qrFieldCount = 6
	qrDateLayout = "02/01/2006"
)

// QRPayload is the decoded form of a scanned label.
type QRPayload struct {
	OrderNumber     string
	CustomerName    string
	Region          string
	DeliveryDate    string
	MaterialSummary string
	Status          string
	// IsLegacyFormat marks an older, shorter payload whose missing
	// trailing fields were defaulted.
	IsLegacyFormat bool
}

// LineDiscrepancy flags one authoritative line whose quantity or material
// diverges from what the label encodes.
type LineDiscrepancy struct {
	Position int
	Field    string
	Expected string
	Scanned  string
}

// ReconcileResult reports a label-vs-record comparison. Discrepancies are
// warnings: the authoritative record always wins and is never auto-corrected
// from a label.
type ReconcileResult struct {
	IsValid           bool
	Discrepancies     []string
	LineDiscrepancies []LineDiscrepancy
}

// EncodeQR produces the label payload for an order.
func EncodeQR(order *entities.Order) string {
	deliveryDate := ""
	if order.DeliveryDate.Valid {
		deliveryDate = order.DeliveryDate.Time.Format(qrDateLayout)
	}
	fields := []string{
		order.OrderNumber,
		order.CustomerOrCompany(),
		order.DeliveryRegion,
		deliveryDate,
		order.MaterialSummary(),
		order.Status,
	}
	return strings.Join(fields, qrSeparator)
}

// DecodeQR splits a scanned payload. Older labels carry fewer fields; the
// missing trailing ones default to empty and the result is tagged legacy.
// Decoding never fails: reconciliation reports an unusable payload as
// invalid instead.
func DecodeQR(payload string) QRPayload {
	parts := strings.Split(payload, qrSeparator)
	for len(parts) < qrFieldCount {
		parts = append(parts, "")
	}
	return QRPayload{
		OrderNumber:     strings.TrimSpace(parts[0]),
		CustomerName:    strings.TrimSpace(parts[1]),
		Region:          strings.TrimSpace(parts[2]),
		DeliveryDate:    strings.TrimSpace(parts[3]),
		MaterialSummary: strings.TrimSpace(parts[4]),
		Status:          strings.TrimSpace(parts[5]),
		IsLegacyFormat:  len(strings.Split(payload, qrSeparator)) < qrFieldCount,
	}
}

// ReconcileQR compares a decoded payload against the authoritative order.
// An order-number mismatch means the wrong label was scanned and is
// non-recoverable; everything else is a warning.
func ReconcileQR(decoded QRPayload, order *entities.Order) ReconcileResult {
	result := ReconcileResult{
		Discrepancies:     []string{},
		LineDiscrepancies: []LineDiscrepancy{},
	}

	if decoded.OrderNumber == "" || decoded.OrderNumber != order.OrderNumber {
		result.IsValid = false
		result.Discrepancies = append(result.Discrepancies,
			fmt.Sprintf("order number mismatch: label %q, record %q", decoded.OrderNumber, order.OrderNumber))
		return result
	}
	result.IsValid = true

	compare := func(field, scanned, authoritative string) {
		if scanned != authoritative {
			result.Discrepancies = append(result.Discrepancies,
				fmt.Sprintf("%s mismatch: label %q, record %q", field, scanned, authoritative))
		}
	}
	compare("customer", decoded.CustomerName, order.CustomerOrCompany())
	compare("region", decoded.Region, order.DeliveryRegion)
	compare("material summary", decoded.MaterialSummary, order.MaterialSummary())
	compare("status", decoded.Status, order.Status)

	if decoded.DeliveryDate != "" && order.DeliveryDate.Valid {
		compare("delivery date", decoded.DeliveryDate, order.DeliveryDate.Time.Format(qrDateLayout))
	}

	// Line-level check: recompute the expected per-material quantities from
	// the authoritative lines and flag lines whose material the label does
	// not carry.
	if decoded.MaterialSummary != "" {
		labelMaterials := make(map[string]bool)
		for _, m := range strings.Split(decoded.MaterialSummary, ",") {
			labelMaterials[strings.TrimSpace(m)] = true
		}
		for _, line := range order.Lines {
			if line.Material == "" || labelMaterials[line.Material] {
				continue
			}
			result.LineDiscrepancies = append(result.LineDiscrepancies, LineDiscrepancy{
				Position: line.Position,
				Field:    "material",
				Expected: line.Material,
				Scanned:  decoded.MaterialSummary,
			})
		}
	}

	return result
}
