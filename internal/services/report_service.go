package services

import (
	"bytes"
	"context"
	"fmt"
	"strconv"

	"fulfillment-system/internal/entities"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

type ReportServiceInterface interface {
	QueueReportXLSX(ctx context.Context) (*bytes.Buffer, error)
}

// ReportService renders the scored queue as a spreadsheet for the
// production floor printout.
type ReportService struct {
	queueService QueueServiceInterface
	logger       *zap.Logger
}

func NewReportService(queueService QueueServiceInterface, logger *zap.Logger) ReportServiceInterface {
	return &ReportService{queueService: queueService, logger: logger}
}

var queueReportHeaders = []string{
	"Order", "Customer", "Region", "Status", "Material",
	"Due date", "Days left", "Tier", "Canarias urgent", "Grouped material",
}

func (s *ReportService) QueueReportXLSX(ctx context.Context) (*bytes.Buffer, error) {
	entries, err := s.queueService.GetQueue(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	style, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	for i, header := range queueReportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, fmt.Errorf("failed to write report header: %w", err)
		}
		_ = f.SetCellStyle(sheet, cell, cell, style)
	}

	for row, e := range entries {
		values := []interface{}{
			e.OrderNumber, e.CustomerName, e.DeliveryRegion, e.Status, e.PrimaryMaterial,
			e.DueDate, daysLabel(e.DaysRemaining), e.Tier,
			boolLabel(e.IsCanariasUrgent), boolLabel(e.IsGroupedMaterial),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, fmt.Errorf("failed to write report row %d: %w", row+2, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}
	return buf, nil
}

func daysLabel(days int) string {
	if days == entities.NoDueDateSentinel {
		return "-"
	}
	return strconv.Itoa(days)
}

func boolLabel(b bool) string {
	if b {
		return "yes"
	}
	return ""
}
