package sheet

import (
	"strconv"
	"strings"
	"time"

	"github.com/lightnsw21/fantasy-v4/internal/cards"
	"github.com/lightnsw21/fantasy-v4/pkg/logger"
)

// The sheet export prepends two banner rows before the header row.
const bannerRows = 2

// anchorColumn is the normalized header of the "median of last 4"
// column. The two columns to its right carry the two most recent
// tournament scores; their own headers are arbitrary.
const anchorColumn = "median_(last_4)"

// Normalizer converts the semi-structured sheet export into canonical
// card records. Column classification happens in two phases: first
// structural (anchor position, date-parseable headers), then field
// mapping by normalized name.
type Normalizer struct {
	logger *logger.Logger
	now    func() time.Time
}

// NewNormalizer creates a normalizer using the wall clock for
// month-day year resolution.
func NewNormalizer(log *logger.Logger) *Normalizer {
	return &Normalizer{
		logger: log,
		now:    time.Now,
	}
}

// WithClock overrides the clock used for header-date resolution
func (n *Normalizer) WithClock(now func() time.Time) *Normalizer {
	n.now = now
	return n
}

// normalizeHeader lowercases, trims, and replaces spaces and dots
// with underscores, matching the export's loose header conventions.
func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.ReplaceAll(h, " ", "_")
	h = strings.ReplaceAll(h, ".", "_")
	return h
}

// columnLayout is the structural classification of one export
type columnLayout struct {
	anchor      int
	tournament1 int
	tournament2 int

	// named maps a canonical field name to its column index
	named map[string]int

	// dates maps a column index to its resolved ISO date key
	dates map[int]string
}

// canonicalHeaders maps normalized sheet headers to canonical fields.
// The four floor columns appear in Legendary, Epic, Rare, Common order
// in the export; pandas-style deduplication names them floor..floor_3.
var canonicalHeaders = map[string]string{
	"fantasy_top_hero_page": "hero_page",
	"hero_id":               "hero_id",
	"name":                  "name",
	"handle":                "handle",
	"flags":                 "flags",
	"new_hero_yn":           "new_hero_yn",
	anchorColumn:            "median_last4",
	"floor":                 "floor_legendary",
	"floor_1":               "floor_epic",
	"floor_2":               "floor_rare",
	"floor_3":               "floor_common",
	"⭐stars":                "stars",
	"stars":                 "stars",
}

// classify builds the column layout from the header row
func (n *Normalizer) classify(header []string) (*columnLayout, error) {
	layout := &columnLayout{
		anchor: -1,
		named:  make(map[string]int),
		dates:  make(map[int]string),
	}

	normalized := make([]string, len(header))
	for i, h := range header {
		normalized[i] = normalizeHeader(h)
	}

	for i, h := range normalized {
		if h == anchorColumn {
			layout.anchor = i
			break
		}
	}
	if layout.anchor < 0 {
		return nil, &cards.SchemaError{Column: anchorColumn}
	}

	layout.tournament1 = layout.anchor + 1
	layout.tournament2 = layout.anchor + 2

	now := n.now()
	for i, h := range normalized {
		if field, ok := canonicalHeaders[h]; ok {
			layout.named[field] = i
			continue
		}

		// Anything after the anchor without a known header is a
		// candidate date column. The two tournament columns usually
		// carry date headers themselves, so their scores land in the
		// historical series as well as the tournament fields.
		if i > layout.anchor {
			if key, ok := parseHeaderDate(header[i], now); ok {
				layout.dates[i] = key
			}
		}
	}

	return layout, nil
}

// Normalize converts a raw grid into canonical card records. The
// first two rows are skipped, the third is the header. Rows without a
// name and rows with unparseable numeric cells are dropped; only a
// missing anchor column is fatal.
func (n *Normalizer) Normalize(grid [][]string) ([]cards.Card, error) {
	if len(grid) <= bannerRows {
		return nil, &cards.SchemaError{Column: anchorColumn}
	}

	layout, err := n.classify(grid[bannerRows])
	if err != nil {
		return nil, err
	}

	records := make([]cards.Card, 0, len(grid)-bannerRows-1)
	skipped := 0

	for rowIdx, row := range grid[bannerRows+1:] {
		card, err := n.buildCard(layout, row)
		if err != nil {
			skipped++
			n.logger.WithError(err).WithFields(map[string]interface{}{
				"row": rowIdx + bannerRows + 2,
			}).Warn("Skipping sheet row")
			continue
		}
		if card == nil {
			// No name: silently dropped
			continue
		}
		records = append(records, *card)
	}

	n.logger.WithFields(map[string]interface{}{
		"records": len(records),
		"skipped": skipped,
	}).Info("Sheet normalized")

	return records, nil
}

// buildCard converts one data row. Returns (nil, nil) for rows
// without a name.
func (n *Normalizer) buildCard(layout *columnLayout, row []string) (*cards.Card, error) {
	name := cellAt(row, layout.named["name"], hasColumn(layout, "name"))
	if name == "" {
		return nil, nil
	}

	card := &cards.Card{
		Name:             name,
		HistoricalScores: map[string]float64{},
	}

	// Identifier-ish fields are stored as strings even when the
	// source has them numeric.
	card.HeroID = stringField(layout, row, "hero_id")
	card.Handle = stringField(layout, row, "handle")
	card.Flags = stringField(layout, row, "flags")
	card.NewHero = stringField(layout, row, "new_hero_yn")
	card.HeroPage = stringField(layout, row, "hero_page")

	var err error
	if card.MedianLast4, err = floatField(layout, row, "median_last4"); err != nil {
		return nil, err
	}
	if card.FloorLegendary, err = floatField(layout, row, "floor_legendary"); err != nil {
		return nil, err
	}
	if card.FloorEpic, err = floatField(layout, row, "floor_epic"); err != nil {
		return nil, err
	}
	if card.FloorRare, err = floatField(layout, row, "floor_rare"); err != nil {
		return nil, err
	}
	if card.FloorCommon, err = floatField(layout, row, "floor_common"); err != nil {
		return nil, err
	}
	if card.Stars, err = floatField(layout, row, "stars"); err != nil {
		return nil, err
	}

	if card.LastTournament1, err = floatAt(row, layout.tournament1, "last_tournament_1", true); err != nil {
		return nil, err
	}
	if card.LastTournament2, err = floatAt(row, layout.tournament2, "last_tournament_2", true); err != nil {
		return nil, err
	}
	card.AverageLast2 = meanOfPresent(card.LastTournament1, card.LastTournament2)

	for idx, dateKey := range layout.dates {
		raw := cellAt(row, idx, true)
		if raw == "" {
			continue
		}
		score, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, &cards.ValidationError{Field: dateKey, Reason: "historical score is not numeric"}
		}
		card.HistoricalScores[dateKey] = score
	}

	return card, nil
}

// meanOfPresent averages the tournament scores that exist. A missing
// score is omitted from the mean, never treated as zero.
func meanOfPresent(values ...*float64) *float64 {
	sum := 0.0
	count := 0
	for _, v := range values {
		if v != nil {
			sum += *v
			count++
		}
	}
	if count == 0 {
		return nil
	}
	mean := sum / float64(count)
	return &mean
}

func hasColumn(layout *columnLayout, field string) bool {
	_, ok := layout.named[field]
	return ok
}

func cellAt(row []string, idx int, present bool) string {
	if !present || idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func stringField(layout *columnLayout, row []string, field string) *string {
	idx, ok := layout.named[field]
	value := cellAt(row, idx, ok)
	if value == "" {
		return nil
	}
	return &value
}

func floatField(layout *columnLayout, row []string, field string) (*float64, error) {
	idx, ok := layout.named[field]
	return floatAt(row, idx, field, ok)
}

func floatAt(row []string, idx int, field string, present bool) (*float64, error) {
	raw := cellAt(row, idx, present)
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, &cards.ValidationError{Field: field, Reason: "value is not numeric"}
	}
	return &value, nil
}
