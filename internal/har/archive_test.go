package har

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func harDocument(entries ...string) string {
	return `{"log":{"entries":[` + strings.Join(entries, ",") + `]}}`
}

func harEntry(url, bodyText string) string {
	return `{"request":{"url":"` + url + `"},"response":{"content":{"text":` + bodyText + `}}}`
}

func TestParseDecodesBase64Bodies(t *testing.T) {
	plain := `{"data":[]}`
	encoded := base64.StdEncoding.EncodeToString([]byte(plain))

	doc := harDocument(
		harEntry("https://example.com/api/card/player", `"`+encoded+`"`),
		harEntry("https://example.com/api/other", `"not base64!!"`),
	)

	entries, err := Parse(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, plain, entries[0].Body, "base64 body should decode")
	assert.Equal(t, "not base64!!", entries[1].Body, "non-base64 body should pass through unchanged")
}

func TestParseKeepsBinaryBodiesEncoded(t *testing.T) {
	// Valid base64 of bytes that are not valid UTF-8, like an image
	// response. The decode must not replace the body with garbage.
	binary := base64.StdEncoding.EncodeToString([]byte{0xff, 0xfe, 0x89, 0x50})

	doc := harDocument(harEntry("https://example.com/img/logo.png", `"`+binary+`"`))

	entries, err := Parse(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, entries, 1)

	assert.Equal(t, binary, entries[0].Body, "non-UTF-8 decode result must keep the original text")
}

func TestParseRejectsInvalidJSON(t *testing.T) {
	_, err := Parse(strings.NewReader("not json"))
	assert.Error(t, err)
}

func TestFilterMatchesURLSubstring(t *testing.T) {
	entries := []Entry{
		{URL: "https://example.com/api/card/player?page=1", Body: "players-1"},
		{URL: "https://example.com/api/sell", Body: "listings"},
		{URL: "https://example.com/api/card/player?page=2", Body: "players-2"},
	}

	assert.Equal(t, []string{"players-1", "players-2"}, Filter(entries, "card/player"))
	assert.Equal(t, []string{"listings"}, Filter(entries, "sell"))
	assert.Empty(t, Filter(entries, "portfolio"))
}

func TestPlayerCardsDeduplicatesByMinID(t *testing.T) {
	page1 := `{"data":[
		{"min_id":"1001","hero_rarity_index":2,"hero_id":42,"card_number":3,"picture":"a.png","heroes":{"handle":"alpha","name":"Alpha","highest_bid":2e18}},
		{"min_id":1002,"hero_rarity_index":1,"hero_id":"43","card_number":1,"picture":"b.png","heroes":{"handle":"beta","name":"Beta"}}
	]}`
	page2 := `{"data":[
		{"min_id":"1001","hero_rarity_index":9,"hero_id":"999","card_number":99,"picture":"dupe.png","heroes":{"handle":"dupe","name":"Dupe"}}
	]}`

	entries := []Entry{
		{URL: "https://example.com/api/card/player?page=1", Body: page1},
		{URL: "https://example.com/api/card/player?page=2", Body: page2},
		{URL: "https://example.com/api/unrelated", Body: "ignored"},
	}

	playerCards, err := PlayerCards(entries)
	require.NoError(t, err)
	require.Len(t, playerCards, 2, "duplicate min_id must be dropped")

	first := playerCards[0]
	assert.Equal(t, "Alpha", first.Name, "first occurrence wins the dedupe")
	assert.Equal(t, "alpha", first.Handle)
	assert.Equal(t, "42", first.HeroID, "numeric hero_id normalizes to string")
	assert.Equal(t, float64(1), first.Stars)
	assert.Equal(t, float64(0), first.MedianLast4)

	second := playerCards[1]
	assert.Equal(t, "43", second.HeroID)
	assert.Equal(t, 1, second.Count)
	assert.Nil(t, second.HighestBid, "missing bid stays nil")
}

func TestPlayerCardsRejectsInvalidBody(t *testing.T) {
	entries := []Entry{
		{URL: "https://example.com/api/card/player", Body: "not json"},
	}
	_, err := PlayerCards(entries)
	assert.Error(t, err)
}

func TestPortfolioValue(t *testing.T) {
	// 2e18 * 3 + 1e18 * 2 = 8e18 wei = 8.0
	body := `{"data":[
		{"min_id":"1","card_number":3,"heroes":{"highest_bid":2e18}},
		{"min_id":"2","card_number":2,"heroes":{"highest_bid":1e18}},
		{"min_id":"3","card_number":5,"heroes":{}}
	]}`

	entries := []Entry{{URL: "https://example.com/api/card/player", Body: body}}

	total, err := PortfolioValue(entries)
	require.NoError(t, err)
	assert.Equal(t, 8.0, total)
}

func TestMarketplace(t *testing.T) {
	entries := []Entry{
		{URL: "https://example.com/api/sell?page=1", Body: `{"data":[{"id":1},{"id":2}]}`},
		{URL: "https://example.com/api/sell?page=2", Body: `{"data":[{"id":3}]}`},
		{URL: "https://example.com/api/card/player", Body: `{"data":[{"min_id":"1"}]}`},
	}

	listings, err := Marketplace(entries)
	require.NoError(t, err)
	assert.Len(t, listings, 3)
}
