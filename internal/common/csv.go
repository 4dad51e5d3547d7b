package common

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"fjacquet/ledger-import/internal/dateutils"
	"fjacquet/ledger-import/internal/logging"
	"fjacquet/ledger-import/internal/models"

	"github.com/gocarina/gocsv"
)

// LedgerCSVRow is the exported shape of a ledger record.
type LedgerCSVRow struct {
	ID                  int64  `csv:"id"`
	Date                string `csv:"date"`
	Amount              string `csv:"amount"`
	Description         string `csv:"description"`
	Account             string `csv:"account"`
	Category            string `csv:"category"`
	Subcategory         string `csv:"subcategory"`
	Payoree             string `csv:"payoree"`
	Memo                string `csv:"memo"`
	CheckNumber         string `csv:"check_number"`
	Source              string `csv:"source"`
	CategorizationError string `csv:"categorization_error"`
}

// CorrectionCSVRow is one line of a bulk correction file. Either MerchantKey
// or Description must be set; Kind is "subcategory" or "payoree".
type CorrectionCSVRow struct {
	MerchantKey string `csv:"merchant_key"`
	Description string `csv:"description"`
	Kind        string `csv:"kind"`
	Target      string `csv:"target"`
}

// ToLedgerCSVRow converts a ledger record to its export shape.
func ToLedgerCSVRow(tx models.Transaction) LedgerCSVRow {
	return LedgerCSVRow{
		ID:                  tx.ID,
		Date:                dateutils.ToISODate(tx.Date),
		Amount:              models.FormatAmount(tx.Amount),
		Description:         tx.Description,
		Account:             tx.Account,
		Category:            tx.Category,
		Subcategory:         tx.Subcategory,
		Payoree:             tx.Payoree,
		Memo:                tx.Memo,
		CheckNumber:         tx.CheckNumber,
		Source:              tx.Source,
		CategorizationError: tx.CategorizationError,
	}
}

// ReadCSVFile reads CSV data into a slice of structs using gocsv.
func ReadCSVFile[TCSVRow any](filePath string, logger logging.Logger) ([]TCSVRow, error) {
	logger = logging.OrDefault(logger).WithField(logging.FieldFile, filePath)
	logger.Info("Reading CSV file")

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("error opening CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close file")
		}
	}()

	var rows []TCSVRow
	if err := gocsv.UnmarshalFile(file, &rows); err != nil {
		return nil, fmt.Errorf("error parsing CSV file: %w", err)
	}

	logger.Info("Successfully read CSV data", logging.Field{Key: logging.FieldCount, Value: len(rows)})
	return rows, nil
}

// WriteTransactionsCSV writes ledger records to w. delimiter zero means ','.
func WriteTransactionsCSV(w io.Writer, transactions []models.Transaction, delimiter rune) error {
	if transactions == nil {
		return fmt.Errorf("cannot write nil transactions to CSV")
	}

	rows := make([]LedgerCSVRow, 0, len(transactions))
	for _, tx := range transactions {
		rows = append(rows, ToLedgerCSVRow(tx))
	}

	csvWriter := csv.NewWriter(w)
	if delimiter != 0 {
		csvWriter.Comma = delimiter
	}
	if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		return fmt.Errorf("error writing CSV data: %w", err)
	}
	return nil
}

// WriteTransactionsToCSV writes ledger records to a CSV file, creating the
// parent directory when needed.
func WriteTransactionsToCSV(transactions []models.Transaction, csvFile string, delimiter rune, logger logging.Logger) error {
	logger = logging.OrDefault(logger).WithFields(
		logging.Field{Key: logging.FieldFile, Value: csvFile},
		logging.Field{Key: logging.FieldCount, Value: len(transactions)},
	)

	if err := os.MkdirAll(filepath.Dir(csvFile), 0750); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	file, err := os.Create(csvFile) // #nosec G304 -- path comes from the operator
	if err != nil {
		return fmt.Errorf("error creating CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close file")
		}
	}()

	if err := WriteTransactionsCSV(file, transactions, delimiter); err != nil {
		return err
	}

	logger.Info("Successfully wrote transactions to CSV file")
	return nil
}
