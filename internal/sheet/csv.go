package sheet

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// ReadCSV loads a CSV export into a raw grid. Rows may have ragged
// lengths; the header layout deals with that.
func ReadCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	grid, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return grid, nil
}

// ReadCSVFile loads a CSV export from disk
func ReadCSVFile(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sheet file: %w", err)
	}
	defer f.Close()

	return ReadCSV(f)
}
