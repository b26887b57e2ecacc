package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Veraticus/cooccur/internal/common"
	"github.com/Veraticus/cooccur/internal/model"
)

// LoadCSV reads the CSV file at path.
func LoadCSV(path string) ([]model.Record, error) {
	f, err := os.Open(path) // #nosec G304 - path is supplied by the user on purpose
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer f.Close()

	records, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return records, nil
}

// ReadCSV parses CSV data with a header row into records. Every row must
// have as many fields as the header; header names must be unique.
func ReadCSV(r io.Reader) ([]model.Record, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	seen := make(map[string]bool, len(headers))
	for i, h := range headers {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		h = strings.TrimSpace(h)
		if h == "" {
			return nil, fmt.Errorf("CSV header column %d is empty", i+1)
		}
		if seen[h] {
			return nil, fmt.Errorf("CSV header repeats column %q", h)
		}
		seen[h] = true
		headers[i] = h
	}

	var records []model.Record
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}

		rec := make(model.Record, len(headers))
		for i, raw := range row {
			rec[headers[i]] = ParseValue(raw)
		}
		records = append(records, rec)
	}

	common.LogDebug("Loaded CSV records", common.Fields{
		"columns": len(headers),
		"records": len(records),
	})

	return records, nil
}
