package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cashcopilot-dev/cashcopilot/internal/model"
)

// Required ledger columns, matched case-insensitively after trimming.
const (
	colDate        = "date"
	colDescription = "description"
	colAmount      = "amount"
)

// dateFormats are tried in order when parsing the date column.
var dateFormats = []string{
	"2006-01-02",
	"2006-01-02T15:04:05",
	"01/02/2006",
	"1/2/2006",
	"2006/01/02",
}

// ReadTransactions reads a bank ledger CSV with columns date, description
// and amount (any order, case-insensitive headers). Rows with an
// unparseable date are kept with a zero Date so they still appear in the
// categorized table; rows with an unparseable amount are skipped. A
// missing required column is a contract violation and fails fast.
func ReadTransactions(r io.Reader) ([]model.Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading ledger CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("ledger CSV is empty")
	}

	cols, err := mapColumns(records[0])
	if err != nil {
		return nil, err
	}

	var txns []model.Transaction
	for i, rec := range records[1:] {
		txn, ok, err := parseRow(rec, cols)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		if ok {
			txns = append(txns, txn)
		}
	}
	return txns, nil
}

type columnIndex struct {
	date        int
	description int
	amount      int
}

func mapColumns(header []string) (columnIndex, error) {
	idx := columnIndex{date: -1, description: -1, amount: -1}
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case colDate:
			idx.date = i
		case colDescription:
			idx.description = i
		case colAmount:
			idx.amount = i
		}
	}
	if idx.date < 0 || idx.description < 0 || idx.amount < 0 {
		return idx, fmt.Errorf("ledger CSV must have date, description and amount columns, got %v", header)
	}
	return idx, nil
}

func parseRow(rec []string, cols columnIndex) (model.Transaction, bool, error) {
	max := cols.date
	if cols.description > max {
		max = cols.description
	}
	if cols.amount > max {
		max = cols.amount
	}
	if len(rec) <= max {
		return model.Transaction{}, false, fmt.Errorf("expected at least %d fields, got %d", max+1, len(rec))
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(rec[cols.amount]))
	if err != nil {
		// Unparseable amounts make the row unusable everywhere; drop it.
		return model.Transaction{}, false, nil
	}

	return model.Transaction{
		Date:        parseDate(rec[cols.date]),
		Description: rec[cols.description],
		Amount:      amount,
	}, true, nil
}

// parseDate returns the zero time when no format matches.
func parseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range dateFormats {
		if d, err := time.Parse(layout, s); err == nil {
			return d
		}
	}
	return time.Time{}
}
