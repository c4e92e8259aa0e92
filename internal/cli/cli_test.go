package cli_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"posrecon-backend/internal/cli"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := cli.NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func decodeTable(t *testing.T, s string) []map[string]any {
	t.Helper()
	var rows []map[string]any
	require.NoError(t, json.Unmarshal([]byte(s), &rows))
	return rows
}

func TestNormalize(t *testing.T) {
	dir := t.TempDir()
	cash := writeFile(t, dir, "cash.csv", "Date,Amount,Ref\n2024-01-01,\"1,250.50\",A\n\n2024-01-02,10,B\n")

	out, err := run(t, "normalize", cash, "--method", "cash")
	require.NoError(t, err)

	rows := decodeTable(t, out)
	require.Len(t, rows, 2)
	assert.Equal(t, "2024-01-01", rows[0]["date"])
	assert.Equal(t, 1250.5, rows[0]["amount"])
	assert.Equal(t, "USD", rows[0]["currency"])
}

func TestNormalize_BankNeedsKnownBank(t *testing.T) {
	dir := t.TempDir()
	stmt := writeFile(t, dir, "stmt.csv", "Txn Date,Credit,Debit\n2024-01-01,100,\n")

	_, err := run(t, "normalize", stmt, "--method", "bank", "--bank", "Nowhere Bank")
	assert.Error(t, err)

	out, err := run(t, "normalize", stmt, "--method", "bank", "--bank", "Steward Bank", "--pos", "POS-7")
	require.NoError(t, err)
	rows := decodeTable(t, out)
	require.Len(t, rows, 1)
	assert.Equal(t, "Steward Bank", rows[0]["Bank"])
	assert.Equal(t, "POS-7", rows[0]["posId"])
	assert.Equal(t, 100.0, rows[0]["balance"])
}

func TestNormalize_UnknownMethod(t *testing.T) {
	dir := t.TempDir()
	cash := writeFile(t, dir, "cash.csv", "Date,Amount\n2024-01-01,5\n")

	_, err := run(t, "normalize", cash, "--method", "cheque")
	assert.Error(t, err)
}

func TestSummary(t *testing.T) {
	dir := t.TempDir()
	cash := writeFile(t, dir, "cash.csv", "Date,Amount\n2024-01-01,50\n2024-01-01,20\n2024-01-02,10\n")
	eco := writeFile(t, dir, "eco.csv", "Date,Amount\n2024-01-02,5\n")

	out, err := run(t, "summary", "cash="+cash, "ecocash="+eco)
	require.NoError(t, err)

	rows := decodeTable(t, out)
	require.Len(t, rows, 2)
	assert.Equal(t, "2024-01-01", rows[0]["date"])
	assert.Equal(t, 70.0, rows[0]["total"])
	assert.Equal(t, 15.0, rows[1]["total"])

	_, err = run(t, "summary", cash)
	assert.Error(t, err)
}

func TestCashbook(t *testing.T) {
	dir := t.TempDir()
	cash := writeFile(t, dir, "cash.csv", "Date,Amount\n2024-01-01,50\n2024-01-01,20\n")

	out, err := run(t, "cashbook", "cash="+cash, "--commission-pct", "10")
	require.NoError(t, err)

	rows := decodeTable(t, out)
	require.Len(t, rows, 1)
	assert.Equal(t, 70.0, rows[0]["grossPremium"])
	assert.Equal(t, 7.0, rows[0]["commission"])
	assert.Equal(t, 63.0, rows[0]["netPremium"])
	assert.Equal(t, 63.0, rows[0]["remittances"])
}

func TestSummary_WritesWorkbook(t *testing.T) {
	dir := t.TempDir()
	cash := writeFile(t, dir, "cash.csv", "Date,Amount\n2024-01-01,50\n")
	dest := filepath.Join(dir, "summary.xlsx")

	out, err := run(t, "summary", "cash="+cash, "-o", dest, "--pos", "POS-1", "--name", "Agent A")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote 1 rows")

	f, err := excelize.OpenFile(dest)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Report"}, f.GetSheetList())
}
