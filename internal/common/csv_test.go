package common

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"fjacquet/ledger-import/internal/logging"
	"fjacquet/ledger-import/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleLedger() []models.Transaction {
	return []models.Transaction{
		{
			ID:          1,
			Date:        time.Date(2025, 7, 11, 0, 0, 0, 0, time.UTC),
			Amount:      decimal.RequireFromString("-4.5"),
			Description: "STARBUCKS 123",
			Account:     "CHK-3607",
			Category:    "Food",
			Subcategory: "Coffee",
			Payoree:     "Starbucks",
			Source:      "b-1",
		},
	}
}

func TestWriteTransactionsCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTransactionsCSV(&buf, sampleLedger(), 0))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "id,date,amount,description,account,category,subcategory,payoree,memo,check_number,source,categorization_error", lines[0])
	assert.Equal(t, "1,2025-07-11,-4.50,STARBUCKS 123,CHK-3607,Food,Coffee,Starbucks,,,b-1,", lines[1])

	assert.Error(t, WriteTransactionsCSV(&buf, nil, 0))
}

func TestWriteTransactionsToCSV_AndReadBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "ledger.csv")
	require.NoError(t, WriteTransactionsToCSV(sampleLedger(), path, ';', logging.NewMockLogger()))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "1;2025-07-11;-4.50;")
}

func TestReadCSVFile_Corrections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrections.csv")
	data := "merchant_key,description,kind,target\nSTARBUCKS,,subcategory,Coffee\n,SHELL OIL 123,payoree,Shell\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0600))

	rows, err := ReadCSVFile[CorrectionCSVRow](path, logging.NewMockLogger())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, CorrectionCSVRow{MerchantKey: "STARBUCKS", Kind: "subcategory", Target: "Coffee"}, rows[0])
	assert.Equal(t, "SHELL OIL 123", rows[1].Description)

	_, err = ReadCSVFile[CorrectionCSVRow](filepath.Join(t.TempDir(), "missing.csv"), nil)
	assert.Error(t, err)
}

func TestAccountFromFilename(t *testing.T) {
	tests := []struct {
		file   string
		id     string
		source string
	}{
		{"Chase3607_Activity_20250711.CSV", "CHK-3607", "filename"},
		{"/tmp/checking-3607.csv", "CHK-3607", "filename"},
		{"my_savings_1234.csv", "SAV-1234", "filename"},
		{"card xxxx9876.xlsx", "CC-9876", "filename"},
		{"statement july.csv", "statement_july", "default"},
		{"...csv", "UNKNOWN", "default"},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			got := AccountFromFilename(tt.file)
			assert.Equal(t, tt.id, got.ID)
			assert.Equal(t, tt.source, got.Source)
		})
	}
}

func TestSanitizeAccountID(t *testing.T) {
	assert.Equal(t, "CHK-3607", SanitizeAccountID(" CHK-3607 "))
	assert.Equal(t, "a_b", SanitizeAccountID("a/../b"))
	assert.Equal(t, "UNKNOWN", SanitizeAccountID("  "))
}
