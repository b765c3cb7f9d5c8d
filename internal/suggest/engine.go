package suggest

import (
	"context"
	"math"
	"sort"

	"github.com/lightnsw21/fantasy-v4/internal/cards"
	"github.com/lightnsw21/fantasy-v4/pkg/logger"
)

// Source is the read side of the card store the engine snapshots.
// The engine never writes through it.
type Source interface {
	ListAll(ctx context.Context) ([]cards.Card, error)
}

// Params holds the suggestion query. Zero values get defaults from
// Normalize.
type Params struct {
	// MaxPrice filters by floor price. When Rarity is set only that
	// tier's floor is compared; otherwise a card passes when any of
	// its four floors is at or under MaxPrice.
	MaxPrice *float64

	// MinHistoricalGames is the minimum number of dated scores a
	// card needs to be ranked. nil means the default of 3; an
	// explicit 0 disables the filter.
	MinHistoricalGames *int

	// Rarity selects which floor field prices the card. When unset,
	// the common floor is used.
	Rarity *cards.Rarity

	// Limit caps the result length. Default 10.
	Limit int
}

const defaultMinGames = 3

// Normalize fills in defaults. An explicitly supplied zero for
// MinHistoricalGames is kept; only an absent value gets the default.
func (p *Params) Normalize() {
	if p.MinHistoricalGames == nil {
		games := defaultMinGames
		p.MinHistoricalGames = &games
	}
	if p.Limit <= 0 {
		p.Limit = 10
	}
}

// Engine computes ranked investment suggestions over a snapshot of
// the card collection. Pure and stateless between calls: concurrent
// requests against the same snapshot produce identical results.
type Engine struct {
	source Source
	logger *logger.Logger
}

// NewEngine creates a new suggestion engine
func NewEngine(source Source, log *logger.Logger) *Engine {
	return &Engine{
		source: source,
		logger: log,
	}
}

// Suggest returns up to params.Limit cards ranked by investment
// score, descending. Ties keep the stored collection order.
func (e *Engine) Suggest(ctx context.Context, params Params) ([]cards.Suggestion, error) {
	params.Normalize()

	snapshot, err := e.source.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	suggestions := make([]cards.Suggestion, 0, len(snapshot))
	for i := range snapshot {
		card := &snapshot[i]

		if !eligible(card, params) {
			continue
		}

		floorPrice := resolveFloor(card, params.Rarity)
		efficiency := scoreEfficiency(card.AverageLast2, floorPrice)

		// The games filter runs after efficiency is computed but
		// before any ranking.
		games := len(card.HistoricalScores)
		if games < *params.MinHistoricalGames {
			continue
		}

		average, consistency := historicalStats(card.HistoricalScores)

		suggestions = append(suggestions, cards.Suggestion{
			HeroID:            card.HeroID,
			Name:              card.Name,
			Handle:            card.Handle,
			FloorPrice:        floorPrice,
			ScoreEfficiency:   efficiency,
			HistoricalAverage: average,
			ScoreConsistency:  consistency,
			InvestmentScore:   investmentScore(efficiency, average, consistency),
			HistoricalGames:   games,
		})
	}

	// Stable sort keeps insertion order on ties, which makes the
	// ranking deterministic without a secondary key.
	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].InvestmentScore > suggestions[j].InvestmentScore
	})

	if len(suggestions) > params.Limit {
		suggestions = suggestions[:params.Limit]
	}

	e.logger.WithFields(map[string]interface{}{
		"snapshot": len(snapshot),
		"returned": len(suggestions),
	}).Debug("Suggestions computed")

	return suggestions, nil
}

// eligible applies the price filter. Cards without any historical
// scores never qualify.
func eligible(card *cards.Card, params Params) bool {
	if len(card.HistoricalScores) == 0 {
		return false
	}

	if params.MaxPrice == nil {
		return true
	}
	maxPrice := *params.MaxPrice

	if params.Rarity != nil {
		floor := card.Floor(*params.Rarity)
		return floor != nil && *floor <= maxPrice
	}

	// No rarity: a card qualifies when any tier is affordable.
	for _, floor := range []*float64{card.FloorCommon, card.FloorRare, card.FloorEpic, card.FloorLegendary} {
		if floor != nil && *floor <= maxPrice {
			return true
		}
	}
	return false
}

// resolveFloor picks the floor price field for the requested rarity,
// falling back to the common floor when no rarity is given. The
// fallback is asymmetric with the eligibility filter's OR across
// tiers; that asymmetry is intentional.
func resolveFloor(card *cards.Card, rarity *cards.Rarity) float64 {
	var floor *float64
	if rarity != nil {
		floor = card.Floor(*rarity)
	} else {
		floor = card.FloorCommon
	}
	if floor == nil {
		return 0
	}
	return *floor
}

// scoreEfficiency is recent performance per unit of price. Guarded to
// 0 when either side is missing or non-positive.
func scoreEfficiency(averageLast2 *float64, floorPrice float64) float64 {
	if averageLast2 == nil || *averageLast2 <= 0 || floorPrice <= 0 {
		return 0
	}
	return *averageLast2 / floorPrice
}

// historicalStats returns the arithmetic mean and population standard
// deviation of the score map values.
func historicalStats(scores map[string]float64) (mean, stddev float64) {
	n := float64(len(scores))
	if n == 0 {
		return 0, 0
	}

	sum := 0.0
	for _, s := range scores {
		sum += s
	}
	mean = sum / n

	variance := 0.0
	for _, s := range scores {
		d := s - mean
		variance += d * d
	}
	variance /= n

	return mean, math.Sqrt(variance)
}

// investmentScore combines efficiency, historical performance and a
// volatility penalty. The 1+consistency denominator smooths: higher
// volatility monotonically lowers the score, zero volatility leaves
// the average unscaled.
func investmentScore(efficiency, average, consistency float64) float64 {
	if efficiency <= 0 || average <= 0 {
		return 0
	}
	return efficiency * (average / (1 + consistency))
}
