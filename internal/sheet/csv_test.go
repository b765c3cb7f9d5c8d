package sheet

import (
	"strings"
	"testing"
)

func TestReadCSVRaggedRows(t *testing.T) {
	input := "a,b,c\n1,2\nx,y,z,extra\n"

	grid, err := ReadCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}

	if len(grid) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(grid))
	}
	if len(grid[1]) != 2 || len(grid[2]) != 4 {
		t.Errorf("ragged rows must keep their own widths: %d and %d", len(grid[1]), len(grid[2]))
	}
}

func TestReadCSVFileMissing(t *testing.T) {
	if _, err := ReadCSVFile("does/not/exist.csv"); err == nil {
		t.Fatal("expected error for a missing file")
	}
}
