package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/Veraticus/cooccur/internal/common"
	"github.com/Veraticus/cooccur/internal/testutil"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the CLI with args against fresh viper state and returns
// stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	stdout, _, err := executeAll(t, args...)
	return stdout, err
}

// executeAll is execute that also returns stderr.
func executeAll(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)

	var stdout, stderr bytes.Buffer
	root := newRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append(args, "--log-level", "error"))

	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func powerCSV(t *testing.T) string {
	return writeFile(t, "power_load_hourly.csv", testutil.PowerCSV)
}

type jsonOutput struct {
	Outcome string `json:"outcome"`
	Message string `json:"message"`
	Rules   []struct {
		Rank int     `json:"rank"`
		Lift float64 `json:"lift"`
	} `json:"rules"`
	Summary struct {
		Transactions          int `json:"transactions"`
		RulesBeforeTruncation int `json:"rules_before_truncation"`
	} `json:"summary"`
}

func mineJSON(t *testing.T, args ...string) jsonOutput {
	t.Helper()
	out, err := execute(t, append([]string{"mine", "--format", "json"}, args...)...)
	require.NoError(t, err)

	var doc jsonOutput
	require.NoError(t, json.Unmarshal([]byte(out), &doc), out)
	return doc
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "cooccur dev\n", out)
}

func TestMine_Text(t *testing.T) {
	out, err := execute(t, "mine", powerCSV(t))
	require.NoError(t, err)

	assert.Contains(t, out, "Association rules (top 20 of")
	assert.Contains(t, out, "→")
	assert.Contains(t, out, "support=")
	assert.Contains(t, out, "8 transactions")
}

func TestMine_JSON(t *testing.T) {
	doc := mineJSON(t, powerCSV(t), "--top", "5")

	assert.Equal(t, "rules", doc.Outcome)
	require.Len(t, doc.Rules, 5)
	assert.Greater(t, doc.Summary.RulesBeforeTruncation, 5)
	assert.Equal(t, 8, doc.Summary.Transactions)
	for i := 1; i < len(doc.Rules); i++ {
		assert.GreaterOrEqual(t, doc.Rules[i-1].Lift, doc.Rules[i].Lift)
	}
}

func TestMine_TableFromSQLite(t *testing.T) {
	db := testutil.SetupObservationDB(t, "observations", testutil.PowerColumns, testutil.PowerRecords())

	out, err := execute(t, "mine", db.Path, "--format", "table", "--table", "observations", "--workers", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "ANTECEDENTS")
	assert.Contains(t, out, "CONFIDENCE")
}

func TestMine_SQLiteMatchesCSV(t *testing.T) {
	db := testutil.SetupObservationDB(t, "observations", testutil.PowerColumns, testutil.PowerRecords())

	fromCSV := mineJSON(t, powerCSV(t), "--top", "0")
	fromDB := mineJSON(t, db.Path, "--top", "0")
	assert.Equal(t, fromCSV.Rules, fromDB.Rules)
}

func TestMine_NoFrequentItemsets(t *testing.T) {
	out, err := execute(t, "mine", powerCSV(t), "--min-support", "1")
	require.NoError(t, err, "an empty outcome is not an error")
	assert.Contains(t, out, "No frequent itemsets")
	assert.NotContains(t, out, "Association rules")
}

func TestMine_Relax(t *testing.T) {
	doc := mineJSON(t, powerCSV(t), "--min-support", "1", "--relax", "3")
	assert.Equal(t, "rules", doc.Outcome)
	assert.NotEmpty(t, doc.Rules)
}

func TestMine_PartialOutcome(t *testing.T) {
	doc := mineJSON(t, powerCSV(t), "--max-levels", "1")
	assert.Equal(t, "partial", doc.Outcome)
	assert.Empty(t, doc.Rules)
	assert.Contains(t, doc.Message, "--allow-partial")

	doc = mineJSON(t, powerCSV(t), "--max-levels", "2", "--allow-partial")
	assert.Equal(t, "partial", doc.Outcome)
	assert.NotEmpty(t, doc.Rules)
}

func TestMine_Faults(t *testing.T) {
	tests := []struct {
		wantIs  error
		name    string
		wantMsg string
		args    []string
	}{
		{
			name:   "support out of range",
			args:   []string{"--min-support", "0"},
			wantIs: common.ErrInvalidConfig,
		},
		{
			name:   "confidence out of range",
			args:   []string{"--min-confidence", "2"},
			wantIs: common.ErrInvalidConfig,
		},
		{
			name:   "unknown format",
			args:   []string{"--format", "xml"},
			wantIs: common.ErrInvalidConfig,
		},
		{
			name:   "negative relax",
			args:   []string{"--relax", "-1"},
			wantIs: common.ErrInvalidConfig,
		},
		{
			name:    "bad relax factor",
			args:    []string{"--relax", "2", "--relax-factor", "1.5"},
			wantMsg: "--relax-factor",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, append([]string{"mine", powerCSV(t)}, tt.args...)...)
			require.Error(t, err)
			if tt.wantIs != nil {
				assert.ErrorIs(t, err, tt.wantIs)
			}
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestMine_UnsupportedSource(t *testing.T) {
	path := writeFile(t, "power.parquet", "PAR1")

	_, err := execute(t, "mine", path)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrUnsupportedSource)
	assert.Contains(t, err.Error(), "Failed to load data")
}

func TestMine_RequiresOneArgument(t *testing.T) {
	_, err := execute(t, "mine")
	require.Error(t, err)
}

func TestMine_EnvironmentOverride(t *testing.T) {
	t.Setenv("COOCCUR_MINING_TOP_N", "3")

	doc := mineJSON(t, powerCSV(t))
	assert.Len(t, doc.Rules, 3)
}

func TestMine_ConfigFile(t *testing.T) {
	cfg := writeFile(t, "config.yaml", "mining:\n  top_n: 2\n  min_confidence: 0.9\n")

	doc := mineJSON(t, powerCSV(t), "--config", cfg)
	assert.Len(t, doc.Rules, 2)

	// flags win over the file
	doc = mineJSON(t, powerCSV(t), "--config", cfg, "--top", "4")
	assert.Len(t, doc.Rules, 4)
}

func TestMine_CustomDiscretization(t *testing.T) {
	disc := writeFile(t, "disc.yaml", `features:
  - name: Cold
    column: temp_c
    bins:
      edges: [-100, 0, 100]
      labels: ["yes", "no"]
  - name: Load
    column: load_mw
    threshold:
      statistic: median
      above: high
      below: low
`)

	out, err := execute(t, "mine", powerCSV(t), "--discretization", disc, "--format", "table", "--top", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "Cold = yes")
	assert.NotContains(t, out, "Wind")
}

func TestMine_LogFormatInvalid(t *testing.T) {
	_, err := execute(t, "mine", powerCSV(t), "--log-format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log format")
}
