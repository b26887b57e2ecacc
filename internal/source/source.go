// Package source loads observation records from CSV files and SQLite
// databases.
package source

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Veraticus/cooccur/internal/common"
	"github.com/Veraticus/cooccur/internal/model"
)

// Options selects what to read from a source.
type Options struct {
	// Table names the SQLite table or view. When empty, a database with a
	// single table uses that table.
	Table string
}

// Open loads every record from path, picking the reader from the file
// extension: .csv for CSV, .db, .sqlite and .sqlite3 for SQLite.
func Open(ctx context.Context, path string, opts Options) ([]model.Record, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return LoadCSV(path)
	case ".db", ".sqlite", ".sqlite3":
		return LoadSQLite(ctx, path, opts.Table)
	default:
		return nil, fmt.Errorf("%w: %q (want .csv, .db, .sqlite or .sqlite3)", common.ErrUnsupportedSource, path)
	}
}

// ParseValue converts one raw text cell into a Value. Blank cells and the
// usual missing markers (NA, N/A, NaN, null, None) are missing; anything that
// parses as a float is a number; everything else is text.
func ParseValue(raw string) model.Value {
	s := strings.TrimSpace(raw)
	switch strings.ToLower(s) {
	case "", "na", "n/a", "nan", "null", "none":
		return model.Missing()
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return model.Number(f)
	}
	return model.Text(s)
}
