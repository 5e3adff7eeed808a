// Package export produces XLSX summaries of processed claims for the back
// office.
package export

import (
	"bytes"
	"context"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/medbridge/claimflow/internal/common"
	"github.com/medbridge/claimflow/internal/repository"
)

// Service is a thin façade over the claim repository that renders workbooks.
type Service struct {
	claims repository.ClaimRepository
	logger *slog.Logger
}

func NewService(claims repository.ClaimRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{claims: claims, logger: logger}
}

var claimHeaders = []string{
	"File Name",
	"Insured Name",
	"National ID",
	"Insurance Company",
	"Visit Date",
	"Services",
	"Approved Cost",
	"Status",
	"Unresolved Fields",
	"Created At",
	"Uploaded At",
}

// ExportClaimsXLSX renders the most recent claims into a workbook.
func (s *Service) ExportClaimsXLSX(ctx context.Context, limit int) ([]byte, error) {
	start := time.Now()

	recs, err := s.claims.ListRecent(ctx, limit)
	if err != nil {
		return nil, common.WrapError(err, "query claims")
	}

	f := excelize.NewFile()
	const sheet = "Claims"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	for i, h := range claimHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, sc := range recs {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		c := sc.Record.Contents
		insuredName, nationalID := "", ""
		if c.Insured != nil {
			insuredName = c.Insured.InsuredName
			nationalID = c.Insured.NationalID
		}
		company, visitDate := "", ""
		if c.Provider != nil {
			company = c.Provider.InsuranceCompanyName
			visitDate = c.Provider.DateOfVisit
		}
		approved := 0.0
		for _, svc := range c.SuggestedServices {
			if svc.ApprovedCost != nil {
				approved += *svc.ApprovedCost
			}
		}

		write(1, sc.FileName)
		write(2, insuredName)
		write(3, nationalID)
		write(4, company)
		write(5, visitDate)
		write(6, len(c.SuggestedServices))
		write(7, approved)
		write(8, sc.Status)
		write(9, sc.Unresolved)
		write(10, sc.CreatedAt.Format("2006-01-02 15:04"))
		if sc.UploadedAt != nil {
			write(11, sc.UploadedAt.Format("2006-01-02 15:04"))
		}
		row++
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, common.WrapError(err, "write workbook")
	}

	s.logger.Info("export.claims.done",
		"rows", len(recs),
		"bytes", buf.Len(),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}
