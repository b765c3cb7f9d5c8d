package har

import (
	"encoding/json"
	"fmt"

	"github.com/lightnsw21/fantasy-v4/internal/cards"
)

// URL substrings that identify the interesting captured calls
const (
	playerCardsURL = "card/player"
	marketplaceURL = "sell"
)

// Bid amounts in the capture are wei-scaled integers
const bidScale = 1e18

// flexString accepts a JSON string or number. The capture is not
// consistent about identifier types.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

type cardEnvelope struct {
	Data []cardDoc `json:"data"`
}

type cardDoc struct {
	MinID           flexString `json:"min_id"`
	HeroRarityIndex int        `json:"hero_rarity_index"`
	HeroID          flexString `json:"hero_id"`
	CardNumber      int        `json:"card_number"`
	Picture         string     `json:"picture"`
	Heroes          struct {
		Handle     string   `json:"handle"`
		Name       string   `json:"name"`
		HighestBid *float64 `json:"highest_bid"`
	} `json:"heroes"`
}

// PlayerCards extracts the player-card documents from an archive,
// deduplicated by min_id with the first occurrence winning. Stars
// default to 1 and the median score to 0 until the sheet import
// fills them in.
func PlayerCards(entries []Entry) ([]cards.PlayerCard, error) {
	seen := make(map[string]bool)
	var result []cards.PlayerCard

	for _, body := range Filter(entries, playerCardsURL) {
		var envelope cardEnvelope
		if err := json.Unmarshal([]byte(body), &envelope); err != nil {
			return nil, fmt.Errorf("decode player cards body: %w", err)
		}

		for _, doc := range envelope.Data {
			minID := string(doc.MinID)
			if seen[minID] {
				continue
			}
			seen[minID] = true

			result = append(result, cards.PlayerCard{
				HeroRarity:  doc.HeroRarityIndex,
				HeroID:      string(doc.HeroID),
				Count:       doc.CardNumber,
				Picture:     doc.Picture,
				Handle:      doc.Heroes.Handle,
				Name:        doc.Heroes.Name,
				HighestBid:  doc.Heroes.HighestBid,
				Stars:       1,
				MedianLast4: 0,
			})
		}
	}

	return result, nil
}

// PortfolioValue sums highest bid times held count over the player
// cards, converted out of wei scale. Cards without a bid count as 0.
func PortfolioValue(entries []Entry) (float64, error) {
	playerCards, err := PlayerCards(entries)
	if err != nil {
		return 0, err
	}

	total := 0.0
	for _, pc := range playerCards {
		if pc.HighestBid != nil {
			total += *pc.HighestBid * float64(pc.Count)
		}
	}
	return total / bidScale, nil
}

// Marketplace extracts the raw marketplace listing documents from the
// capture's sell entries.
func Marketplace(entries []Entry) ([]json.RawMessage, error) {
	var listings []json.RawMessage

	for _, body := range Filter(entries, marketplaceURL) {
		var envelope struct {
			Data []json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal([]byte(body), &envelope); err != nil {
			return nil, fmt.Errorf("decode marketplace body: %w", err)
		}
		listings = append(listings, envelope.Data...)
	}

	return listings, nil
}
