package export

import (
	"fmt"

	"github.com/riskibarqy/federation-awards/internal/domain/results"
	"github.com/xuri/excelize/v2"
)

const (
	XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	XLSXSheetName   = "Results"
)

// XLSXEncoder writes the same layout as the CSV export into one sheet, with
// category names and column headers in bold.
type XLSXEncoder struct{}

func NewXLSXEncoder() XLSXEncoder {
	return XLSXEncoder{}
}

func (XLSXEncoder) ContentType() string {
	return XLSXContentType
}

func (XLSXEncoder) Encode(res results.CompetitionResults) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), XLSXSheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create bold style: %w", err)
	}
	if err := f.SetColWidth(XLSXSheetName, "A", "A", 60); err != nil {
		return nil, fmt.Errorf("set column width: %w", err)
	}
	if err := f.SetColWidth(XLSXSheetName, "B", "B", 22); err != nil {
		return nil, fmt.Errorf("set column width: %w", err)
	}

	records := Records(res)
	for i, record := range records {
		rowNum := i + 1
		if isBlank(record) {
			continue
		}
		for col, value := range record {
			cell, err := excelize.CoordinatesToCellName(col+1, rowNum)
			if err != nil {
				return nil, fmt.Errorf("cell name: %w", err)
			}
			if err := f.SetCellValue(XLSXSheetName, cell, value); err != nil {
				return nil, fmt.Errorf("set cell %s: %w", cell, err)
			}
		}
		if isEmphasized(records, i) {
			first, _ := excelize.CoordinatesToCellName(1, rowNum)
			last, _ := excelize.CoordinatesToCellName(len(record), rowNum)
			if err := f.SetCellStyle(XLSXSheetName, first, last, bold); err != nil {
				return nil, fmt.Errorf("style row %d: %w", rowNum, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// isEmphasized marks summary labels, category names and the rows header.
func isEmphasized(records [][]string, i int) bool {
	record := records[i]
	if i < 3 {
		return true
	}
	if len(record) == 2 && record[0] == RowsHeaderName && record[1] == RowsHeaderRank {
		return true
	}
	// Category names are single-cell rows following a blank separator.
	return len(record) == 1 && i > 0 && isBlank(records[i-1])
}
