package provider

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"
)

// indexRow is one CSV row of a volatility-index export, oldest-first
// as downloaded from most data vendors.
type indexRow struct {
	Date  string  `csv:"date"`
	Close float64 `csv:"close"`
}

// LoadIndexHistoryCSV reads a volatility-index series from a CSV file
// with "date,close" columns and returns it most-recent-first, suitable
// for PaperConfig.IndexHistory.
func LoadIndexHistoryCSV(path string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening index history: %w", err)
	}
	defer f.Close()

	var rows []indexRow
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, fmt.Errorf("parsing index history: %w", err)
	}

	history := make([]float64, 0, len(rows))
	for i := len(rows) - 1; i >= 0; i-- {
		history = append(history, rows[i].Close)
	}
	return history, nil
}
