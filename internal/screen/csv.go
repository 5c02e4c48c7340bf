package screen

import (
	"encoding/csv"
	"os"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/evolute-hq/invscreen/internal/model"
)

// ParseInvestorCSV reads an investor list CSV. The header row is matched
// case-insensitively; "name" is required, "website" and "hq" are optional.
// Rows with an empty name are skipped.
func ParseInvestorCSV(path string) ([]model.InvestorInput, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "screen: open investor csv")
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	rows, err := r.ReadAll()
	if err != nil {
		return nil, eris.Wrap(err, "screen: read investor csv")
	}
	if len(rows) < 2 {
		return nil, eris.New("screen: investor csv has no data rows")
	}

	cols := map[string]int{}
	for i, h := range rows[0] {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	nameIdx, ok := cols["name"]
	if !ok {
		return nil, eris.New(`screen: investor csv missing "name" column`)
	}

	cell := func(row []string, col string) string {
		idx, ok := cols[col]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	var investors []model.InvestorInput
	for _, row := range rows[1:] {
		if nameIdx >= len(row) || strings.TrimSpace(row[nameIdx]) == "" {
			continue
		}
		investors = append(investors, model.InvestorInput{
			Name:    strings.TrimSpace(row[nameIdx]),
			Website: cell(row, "website"),
			HQ:      cell(row, "hq"),
		})
	}
	if len(investors) == 0 {
		return nil, eris.New("screen: investor csv has no usable rows")
	}
	return investors, nil
}
