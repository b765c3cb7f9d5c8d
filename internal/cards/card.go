package cards

import (
	"strings"
	"time"
)

// Rarity identifies a card rarity tier
type Rarity string

const (
	RarityLegendary Rarity = "legendary"
	RarityEpic      Rarity = "epic"
	RarityRare      Rarity = "rare"
	RarityCommon    Rarity = "common"
)

// ParseRarity parses a rarity string, case-insensitively mapped by
// the four known tiers. Returns false for anything else.
func ParseRarity(s string) (Rarity, bool) {
	switch Rarity(strings.ToLower(s)) {
	case RarityLegendary:
		return RarityLegendary, true
	case RarityEpic:
		return RarityEpic, true
	case RarityRare:
		return RarityRare, true
	case RarityCommon:
		return RarityCommon, true
	}
	return "", false
}

// Card is the canonical persisted player-card record. Optional fields
// are pointers: nil means the source had no value, which is distinct
// from zero. A Card is immutable once inserted; re-import replaces the
// whole collection.
type Card struct {
	ID       string  `json:"id,omitempty"`
	HeroID   *string `json:"hero_id,omitempty"`
	Name     string  `json:"name"`
	Handle   *string `json:"handle,omitempty"`
	Flags    *string `json:"flags,omitempty"`
	NewHero  *string `json:"new_hero_yn,omitempty"`
	HeroPage *string `json:"fantasy_top_hero_page,omitempty"`

	MedianLast4     *float64 `json:"medianLast4,omitempty"`
	LastTournament1 *float64 `json:"lastTournament1,omitempty"`
	LastTournament2 *float64 `json:"lastTournament2,omitempty"`
	AverageLast2    *float64 `json:"averageLast2,omitempty"`

	FloorCommon    *float64 `json:"floorCommon,omitempty"`
	FloorRare      *float64 `json:"floorRare,omitempty"`
	FloorEpic      *float64 `json:"floorEpic,omitempty"`
	FloorLegendary *float64 `json:"floorLegendary,omitempty"`

	Stars *float64 `json:"stars,omitempty"`

	// HistoricalScores maps ISO date strings to tournament scores.
	// Sparse: a card may have zero or many dated entries.
	HistoricalScores map[string]float64 `json:"historical_scores"`

	CreatedAt time.Time `json:"created_at"`
}

// Floor returns the floor price for a rarity tier, or nil when the
// source had no price for that tier.
func (c *Card) Floor(r Rarity) *float64 {
	switch r {
	case RarityLegendary:
		return c.FloorLegendary
	case RarityEpic:
		return c.FloorEpic
	case RarityRare:
		return c.FloorRare
	case RarityCommon:
		return c.FloorCommon
	}
	return nil
}

// Validate checks the canonical schema rules for a persisted card
func (c *Card) Validate() error {
	if c.Name == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	return nil
}

// Suggestion is the per-card computed view produced by the investment
// scoring engine. It is derived, never persisted; it lives only for
// the duration of one scoring request.
type Suggestion struct {
	HeroID *string `json:"hero_id,omitempty"`
	Name   string  `json:"name"`
	Handle *string `json:"handle,omitempty"`

	FloorPrice        float64 `json:"floor_price"`
	ScoreEfficiency   float64 `json:"score_efficiency"`
	HistoricalAverage float64 `json:"historical_average"`
	ScoreConsistency  float64 `json:"score_consistency"`
	InvestmentScore   float64 `json:"investment_score"`
	HistoricalGames   int     `json:"historical_games"`
}

// PlayerCard is a card extracted from a captured network-traffic
// archive. It carries marketplace identity only; scores come from the
// sheet import.
type PlayerCard struct {
	ID          string   `json:"id,omitempty"`
	HeroRarity  int      `json:"hero_rarity_index"`
	HeroID      string   `json:"hero_id"`
	Count       int      `json:"count"`
	Picture     string   `json:"picture"`
	Handle      string   `json:"handle"`
	Name        string   `json:"name"`
	HighestBid  *float64 `json:"highest_bid,omitempty"`
	Stars       float64  `json:"stars"`
	MedianLast4 float64  `json:"medianLast4"`
}
