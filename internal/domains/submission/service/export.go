package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"editorial-backend/internal/domains/submission/model"
	"editorial-backend/internal/domains/submission/repository"
)

const exportSheet = "Submissions"

var exportHeaders = []string{
	"ID",
	"Status",
	"Title",
	"Author",
	"Email",
	"Institution",
	"Category",
	"Keywords",
	"Created At",
	"Submitted At",
	"Reviewed At",
	"Expires At",
}

// Export writes the filtered submission list (without paging) to an XLSX workbook.
func (s *reviewService) Export(ctx context.Context, req model.ListSubmissionsRequest) (*bytes.Buffer, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewValidationError(err)
	}

	subs, _, err := s.repo.List(ctx, repository.ListFilter{
		Status: model.Status(req.Status),
		Search: req.Search,
		Limit:  model.ExportMaxRows,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}

	f, err := buildSubmissionsWorkbook(subs)
	if err != nil {
		return nil, fmt.Errorf("failed to build excel file: %w", err)
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write excel file: %w", err)
	}
	return buf, nil
}

func buildSubmissionsWorkbook(subs []*model.Submission) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, err
	}

	for colIdx, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(colIdx+1, 1)
		if err := f.SetCellValue(exportSheet, cell, header); err != nil {
			return nil, err
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		last, _ := excelize.CoordinatesToCellName(len(exportHeaders), 1)
		_ = f.SetCellStyle(exportSheet, "A1", last, headerStyle)
	}

	for i, sub := range subs {
		row := []interface{}{
			sub.ID.String(),
			string(sub.Status),
			sub.Title,
			sub.AuthorName,
			sub.AuthorEmail,
			deref(sub.AuthorInstitution),
			sub.Category,
			strings.Join(sub.Keywords, ", "),
			formatTime(&sub.CreatedAt),
			formatTime(sub.SubmittedAt),
			formatTime(sub.ReviewedAt),
			formatTime(sub.ExpiresAt),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, err
		}
	}

	return f, nil
}

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
