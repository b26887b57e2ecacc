package testutil

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Veraticus/cooccur/internal/model"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// ObservationDB is a throwaway SQLite database holding one observation table.
type ObservationDB struct {
	DB    *sql.DB
	t     *testing.T
	Path  string
	Table string
}

// SetupObservationDB creates a SQLite file under t.TempDir with a table
// holding records, one column per entry of columns. Missing values are
// stored as NULL. The database is closed on cleanup.
//
// Example:
//
//	db := testutil.SetupObservationDB(t, "observations",
//		testutil.PowerColumns, testutil.PowerRecords())
func SetupObservationDB(t *testing.T, table string, columns []string, records []model.Record) *ObservationDB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "observations.db")
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
	})

	quoted := make([]string, len(columns))
	marks := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = quoteIdent(c)
		marks[i] = "?"
	}

	create := fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(table), strings.Join(quoted, ", "))
	if _, err := db.Exec(create); err != nil {
		t.Fatalf("failed to create table %q: %v", table, err)
	}

	insert := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(table), strings.Join(quoted, ", "), strings.Join(marks, ", "))
	for i, rec := range records {
		args := make([]any, len(columns))
		for j, c := range columns {
			args[j] = sqlValue(rec.Get(c))
		}
		if _, err := db.Exec(insert, args...); err != nil {
			t.Fatalf("failed to insert record %d: %v", i, err)
		}
	}

	return &ObservationDB{
		DB:    db,
		Path:  path,
		Table: table,
		t:     t,
	}
}

// Exec runs a statement against the database, failing the test on error.
func (o *ObservationDB) Exec(query string, args ...any) {
	o.t.Helper()
	if _, err := o.DB.Exec(query, args...); err != nil {
		o.t.Fatalf("failed to exec %q: %v", query, err)
	}
}

func sqlValue(v model.Value) any {
	switch v.Kind {
	case model.ValueNumber:
		return v.Number
	case model.ValueText:
		return v.Text
	default:
		return nil
	}
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
