package sheet

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/lightnsw21/fantasy-v4/internal/cards"
	"github.com/lightnsw21/fantasy-v4/pkg/logger"
)

func testNormalizer(now time.Time) *Normalizer {
	return NewNormalizer(logger.NewNop()).WithClock(func() time.Time { return now })
}

// grid builds a raw sheet export: two banner rows, then header, then data
func grid(header []string, rows ...[]string) [][]string {
	g := [][]string{
		{"Fantasy Sheets"},
		{""},
		header,
	}
	return append(g, rows...)
}

func TestNormalizeMissingAnchorColumn(t *testing.T) {
	n := testNormalizer(time.Now())

	_, err := n.Normalize(grid([]string{"Name", "Handle", "Floor"}, []string{"Alice", "@alice", "5"}))

	var schemaErr *cards.SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
	if schemaErr.Column != "median_(last_4)" {
		t.Errorf("expected anchor column in error, got %q", schemaErr.Column)
	}
}

func TestNormalizeEmptyGrid(t *testing.T) {
	n := testNormalizer(time.Now())

	_, err := n.Normalize([][]string{{"banner"}, {"banner"}})

	var schemaErr *cards.SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected SchemaError for grid without header, got %v", err)
	}
}

func TestNormalizeDropsRowsWithoutName(t *testing.T) {
	n := testNormalizer(time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC))

	records, err := n.Normalize(grid(
		[]string{"Name", "Median (Last 4)", "03-01", "03-08"},
		[]string{"Alice", "12", "10", "14"},
		[]string{"", "9", "8", "7"},
		[]string{"Bob", "5", "4", "6"},
	))
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Name != "Alice" || records[1].Name != "Bob" {
		t.Errorf("unexpected names: %s, %s", records[0].Name, records[1].Name)
	}
}

func TestNormalizeAverageLast2(t *testing.T) {
	n := testNormalizer(time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC))

	records, err := n.Normalize(grid(
		[]string{"Name", "Median (Last 4)", "03-01", "03-08"},
		[]string{"Both", "12", "10", "20"},
		[]string{"OnlyFirst", "12", "10", ""},
		[]string{"Neither", "12", "", ""},
	))
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}

	if records[0].AverageLast2 == nil || *records[0].AverageLast2 != 15.0 {
		t.Errorf("expected averageLast2=15.0 with both scores, got %v", records[0].AverageLast2)
	}
	// A missing score is omitted from the mean, not zero-filled.
	if records[1].AverageLast2 == nil || *records[1].AverageLast2 != 10.0 {
		t.Errorf("expected averageLast2=10.0 with one score, got %v", records[1].AverageLast2)
	}
	if records[2].AverageLast2 != nil {
		t.Errorf("expected no averageLast2 without scores, got %v", *records[2].AverageLast2)
	}
}

func TestNormalizeSkipsRowsWithBadNumbers(t *testing.T) {
	n := testNormalizer(time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC))

	records, err := n.Normalize(grid(
		[]string{"Name", "Median (Last 4)", "03-01", "03-08"},
		[]string{"Good", "12", "10", "14"},
		[]string{"BadScore", "12", "not-a-number", "14"},
	))
	if err != nil {
		t.Fatalf("row-level failures must not abort the batch: %v", err)
	}

	if len(records) != 1 {
		t.Fatalf("expected bad row to be skipped, got %d records", len(records))
	}
	if records[0].Name != "Good" {
		t.Errorf("expected the good row to survive, got %s", records[0].Name)
	}
}

func TestNormalizeEndToEnd(t *testing.T) {
	n := testNormalizer(time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC))

	records, err := n.Normalize(grid(
		[]string{"Hero ID", "Name", "Handle", "Median (Last 4)", "03-01", "03-08", "Floor", "Floor.1", "Floor.2", "Floor.3", "⭐Stars"},
		[]string{"42", "Alice", "@alice", "12", "10", "14", "5", "3", "2", "1", "4"},
	))
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}

	card := records[0]
	if card.Name != "Alice" {
		t.Errorf("name = %q", card.Name)
	}
	if card.HeroID == nil || *card.HeroID != "42" {
		t.Errorf("hero_id = %v, want 42 as string", card.HeroID)
	}
	if card.MedianLast4 == nil || *card.MedianLast4 != 12 {
		t.Errorf("medianLast4 = %v, want 12", card.MedianLast4)
	}
	if card.LastTournament1 == nil || *card.LastTournament1 != 10 {
		t.Errorf("lastTournament1 = %v, want 10", card.LastTournament1)
	}
	if card.LastTournament2 == nil || *card.LastTournament2 != 14 {
		t.Errorf("lastTournament2 = %v, want 14", card.LastTournament2)
	}
	if card.AverageLast2 == nil || *card.AverageLast2 != 12.0 {
		t.Errorf("averageLast2 = %v, want 12.0", card.AverageLast2)
	}
	if card.FloorLegendary == nil || *card.FloorLegendary != 5 {
		t.Errorf("floorLegendary = %v, want 5", card.FloorLegendary)
	}
	if card.FloorEpic == nil || *card.FloorEpic != 3 {
		t.Errorf("floorEpic = %v, want 3", card.FloorEpic)
	}
	if card.FloorRare == nil || *card.FloorRare != 2 {
		t.Errorf("floorRare = %v, want 2", card.FloorRare)
	}
	if card.FloorCommon == nil || *card.FloorCommon != 1 {
		t.Errorf("floorCommon = %v, want 1", card.FloorCommon)
	}
	if card.Stars == nil || *card.Stars != 4 {
		t.Errorf("stars = %v, want 4", card.Stars)
	}

	wantScores := map[string]float64{
		"2024-03-01": 10.0,
		"2024-03-08": 14.0,
	}
	if !reflect.DeepEqual(card.HistoricalScores, wantScores) {
		t.Errorf("historical_scores = %v, want %v", card.HistoricalScores, wantScores)
	}
}

func TestNormalizeHistoricalDateColumns(t *testing.T) {
	n := testNormalizer(time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC))

	// Date columns beyond the tournament pair join the series; a
	// plain-text trailing column does not.
	records, err := n.Normalize(grid(
		[]string{"Name", "Median (Last 4)", "03-01", "03-08", "2024-02-15", "02/01/2024", "notes"},
		[]string{"Alice", "12", "10", "14", "8", "6", "solid"},
	))
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	wantScores := map[string]float64{
		"2024-03-01": 10.0,
		"2024-03-08": 14.0,
		"2024-02-15": 8.0,
		"2024-02-01": 6.0,
	}
	if !reflect.DeepEqual(records[0].HistoricalScores, wantScores) {
		t.Errorf("historical_scores = %v, want %v", records[0].HistoricalScores, wantScores)
	}
}

func TestNormalizeIsDeterministic(t *testing.T) {
	n := testNormalizer(time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC))

	source := grid(
		[]string{"Name", "Median (Last 4)", "03-01", "03-08", "Floor"},
		[]string{"Alice", "12", "10", "14", "5"},
		[]string{"Bob", "9", "8", "7", "3"},
	)

	first, err := n.Normalize(source)
	if err != nil {
		t.Fatalf("first Normalize failed: %v", err)
	}
	second, err := n.Normalize(source)
	if err != nil {
		t.Fatalf("second Normalize failed: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Error("normalizing the same source twice produced different records")
	}
}

func TestNormalizeHeader(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Median (Last 4)", "median_(last_4)"},
		{"  Hero ID  ", "hero_id"},
		{"Floor.1", "floor_1"},
		{"NAME", "name"},
		{"⭐Stars", "⭐stars"},
	}

	for _, tt := range tests {
		if got := normalizeHeader(tt.in); got != tt.want {
			t.Errorf("normalizeHeader(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
