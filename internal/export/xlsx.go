package export

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"mcqforge/internal/mcq"
)

// QuestionSetXLSX returns an XLSX workbook (as bytes) for a validated
// question set, one row per question.
func QuestionSetXLSX(set mcq.Set, source string, logger *slog.Logger) ([]byte, error) {
	if logger == nil {
		logger = slog.Default()
	}
	start := time.Now()

	f := excelize.NewFile()
	const sheet = "Questions"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)
	// Drop the default sheet excelize creates.
	if sheet != "Sheet1" {
		_ = f.DeleteSheet("Sheet1")
	}

	headers := []string{
		"#",
		"Question",
		"Option A",
		"Option B",
		"Option C",
		"Option D",
		"Correct Answer",
		"Explanation",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	for row, q := range set {
		values := []any{row + 1, q.Question}
		for i := 0; i < 4; i++ {
			if i < len(q.Options) {
				values = append(values, q.Options[i])
			} else {
				values = append(values, "")
			}
		}
		values = append(values, q.CorrectAnswer, q.Explanation)

		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}

	logger.Info("export.xlsx.ok",
		"source", source,
		"questions", len(set),
		"bytes", buf.Len(),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}
