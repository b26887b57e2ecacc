package source

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Veraticus/cooccur/internal/common"
	"github.com/Veraticus/cooccur/internal/model"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// LoadSQLite opens the database at path read-only and loads table.
func LoadSQLite(ctx context.Context, path, table string) ([]model.Record, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return ReadTable(ctx, db, table)
}

// ReadTable loads every row of table from db. NULL cells are missing, numeric
// cells are numbers and text cells go through ParseValue.
func ReadTable(ctx context.Context, db *sql.DB, table string) ([]model.Record, error) {
	name, err := resolveTable(ctx, db, table)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT * FROM "%s"`, strings.ReplaceAll(name, `"`, `""`)) // #nosec G201 - name was checked against sqlite_master
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query table %q: %w", name, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns of %q: %w", name, err)
	}

	var records []model.Record
	cells := make([]any, len(columns))
	ptrs := make([]any, len(columns))
	for i := range cells {
		ptrs[i] = &cells[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		rec := make(model.Record, len(columns))
		for i, c := range columns {
			rec[c] = cellValue(cells[i])
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	common.LogDebug("Loaded SQLite records", common.Fields{
		"table":   name,
		"columns": len(columns),
		"records": len(records),
	})

	return records, nil
}

// resolveTable checks that table exists, or picks the only table when
// table is empty.
func resolveTable(ctx context.Context, db *sql.DB, table string) (string, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT name FROM sqlite_master WHERE type IN ('table', 'view') AND name NOT LIKE 'sqlite_%' ORDER BY name`)
	if err != nil {
		return "", fmt.Errorf("failed to list tables: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return "", fmt.Errorf("failed to scan table name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("error iterating tables: %w", err)
	}

	if table == "" {
		switch len(names) {
		case 0:
			return "", fmt.Errorf("%w: database has no tables", common.ErrUnsupportedSource)
		case 1:
			return names[0], nil
		default:
			return "", common.InvalidConfigf("database has %d tables (%s), choose one with --table",
				len(names), strings.Join(names, ", "))
		}
	}

	for _, name := range names {
		if name == table {
			return name, nil
		}
	}
	return "", common.InvalidConfigf("table %q not found", table)
}

func cellValue(cell any) model.Value {
	switch v := cell.(type) {
	case nil:
		return model.Missing()
	case int64:
		return model.Number(float64(v))
	case float64:
		return model.Number(v)
	case bool:
		if v {
			return model.Number(1)
		}
		return model.Number(0)
	case []byte:
		return ParseValue(string(v))
	case string:
		return ParseValue(v)
	case time.Time:
		return model.Text(v.Format(time.RFC3339))
	default:
		return model.Text(fmt.Sprint(v))
	}
}
