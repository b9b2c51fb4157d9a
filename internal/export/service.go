package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"resumeline/internal/repository"
)

// Service is a tiny façade over the resume repository that produces XLSX
// bytes for a resume snapshot, enrichment included.
type Service struct {
	resumes repository.ResumeRepository
	logger  *slog.Logger
}

func NewService(resumes repository.ResumeRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{resumes: resumes, logger: logger}
}

// ExportResumeXLSX returns an XLSX workbook (as bytes) with one row per role,
// in ordinal order. Unenriched slots come out as empty cells.
func (s *Service) ExportResumeXLSX(ctx context.Context, resumeID string) ([]byte, error) {
	start := time.Now()

	snap, err := s.resumes.Snapshot(ctx, resumeID)
	if err != nil {
		return nil, fmt.Errorf("query snapshot: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Roles"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"Ordinal",
		"Company",
		"Title",
		"Seniority",
		"Duration (months)",
		"Description",
		"STAR Story 1",
		"STAR Story 2",
		"STAR Story 3",
		"Metric 1",
		"Metric 2",
		"Metric 3",
		"Enriched At",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, r := range snap.Roles {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		write(1, r.Ordinal)
		write(2, r.CompanyName)
		write(3, r.RoleTitle)
		write(4, strOrEmpty(r.RoleSeniority))
		if r.RoleDuration != nil {
			write(5, *r.RoleDuration)
		}
		write(6, truncate(r.RoleDescription, 500))
		write(7, strOrEmpty(r.RoleStar1))
		write(8, strOrEmpty(r.RoleStar2))
		write(9, strOrEmpty(r.RoleStar3))
		write(10, strOrEmpty(r.Metric1))
		write(11, strOrEmpty(r.Metric2))
		write(12, strOrEmpty(r.Metric3))
		if r.EnrichedAt != nil {
			write(13, r.EnrichedAt.UTC().Format("2006-01-02 15:04:05"))
		}

		row++
	}

	// Widen a few columns
	_ = f.SetColWidth(sheet, "B", "C", 24) // company, title
	_ = f.SetColWidth(sheet, "F", "F", 60) // description
	_ = f.SetColWidth(sheet, "G", "L", 44) // stories + metrics
	_ = f.SetColWidth(sheet, "M", "M", 20) // enriched at

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("resume exported",
		"resume_id", resumeID, "roles", len(snap.Roles),
		"bytes", buf.Len(), "elapsed_ms", time.Since(start).Milliseconds())
	return buf.Bytes(), nil
}

func strOrEmpty(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "…"
}
