package ingest

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/AngelCh415/weekly-pulse/internal/models"
)

// readCSV decodes a headered CSV stream into raw field-name-to-value rows.
// Ragged rows are tolerated; missing cells simply stay absent from the map.
func readCSV(r io.Reader) ([]models.RawRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return []models.RawRecord{}, nil
	}
	if err != nil {
		return nil, err
	}
	for i := range header {
		header[i] = strings.ToLower(strings.TrimSpace(header[i]))
	}

	var rows []models.RawRecord
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		row := make(models.RawRecord, len(header))
		for i, name := range header {
			if i < len(rec) {
				row[name] = rec[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
