package export

import (
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/riskibarqy/federation-awards/internal/domain/results"
	"github.com/valyala/bytebufferpool"
)

const (
	CSVContentType = "text/csv; charset=utf-8"
	RowsHeaderName = "Athlete/Team Name"
	RowsHeaderRank = "Placement"
)

// CSVEncoder writes the competition summary followed by one block per category.
type CSVEncoder struct{}

func NewCSVEncoder() CSVEncoder {
	return CSVEncoder{}
}

func (CSVEncoder) ContentType() string {
	return CSVContentType
}

func (CSVEncoder) Encode(res results.CompetitionResults) ([]byte, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	w := csv.NewWriter(buf)
	for _, record := range Records(res) {
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("write csv record: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}

	out := make([]byte, buf.Len())
	copy(out, buf.B)
	return out, nil
}

// Records lays out the export as rows shared by the CSV and XLSX encoders.
// A nil record is a blank separator line.
func Records(res results.CompetitionResults) [][]string {
	out := make([][]string, 0, 4+len(res.Categories)*6)
	out = append(out,
		[]string{"Competition", res.Competition.Name},
		[]string{"Total Athletes", strconv.Itoa(res.TotalAthletes())},
		[]string{"Total Categories", strconv.Itoa(res.TotalCategories())},
		nil,
	)

	for _, cat := range res.Categories {
		out = append(out,
			[]string{cat.Category.Name},
			[]string{"Type: " + cat.Category.Type.Label(), "Gender: " + cat.Category.Gender.Label()},
			nil,
			[]string{RowsHeaderName, RowsHeaderRank},
		)
		for _, row := range cat.Sorted() {
			out = append(out, []string{row.DisplayName, row.Placement.String()})
		}
		out = append(out, nil)
	}
	return out
}

func isBlank(record []string) bool {
	return len(record) == 0
}
