package har

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"
)

// Entry is one captured request/response pair: the request URL and
// the decoded response body.
type Entry struct {
	URL  string
	Body string
}

// archive mirrors the subset of the HAR format this service reads
type archive struct {
	Log struct {
		Entries []struct {
			Request struct {
				URL string `json:"url"`
			} `json:"request"`
			Response struct {
				Content struct {
					Text string `json:"text"`
				} `json:"content"`
			} `json:"response"`
		} `json:"entries"`
	} `json:"log"`
}

// Parse reads a HAR archive and returns its entries with decoded
// bodies.
func Parse(r io.Reader) ([]Entry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read har: %w", err)
	}

	var a archive
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("decode har: %w", err)
	}

	entries := make([]Entry, 0, len(a.Log.Entries))
	for _, e := range a.Log.Entries {
		entries = append(entries, Entry{
			URL:  e.Request.URL,
			Body: decodeBody(e.Response.Content.Text),
		})
	}
	return entries, nil
}

// ParseFile reads a HAR archive from disk
func ParseFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open har file: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

// decodeBody base64-decodes a response body. Bodies that are not
// valid base64 (or not valid UTF-8 after decoding) are kept as-is;
// capture tools mix encoded and plain entries freely.
func decodeBody(text string) string {
	decoded, err := base64.StdEncoding.DecodeString(text)
	if err != nil || !utf8.Valid(decoded) {
		return text
	}
	return string(decoded)
}

// Filter returns the decoded bodies of entries whose URL contains
// substr.
func Filter(entries []Entry, substr string) []string {
	var bodies []string
	for _, e := range entries {
		if strings.Contains(e.URL, substr) {
			bodies = append(bodies, e.Body)
		}
	}
	return bodies
}
