package sheets

import (
	"context"
	"fmt"
	"net/http"

	"github.com/lightnsw21/fantasy-v4/internal/sheet"
	"github.com/lightnsw21/fantasy-v4/pkg/config"
	"github.com/lightnsw21/fantasy-v4/pkg/httputil"
	"github.com/lightnsw21/fantasy-v4/pkg/logger"
)

// Client fetches the published sheet export. When no export URL is
// configured it falls back to the local CSV path.
type Client struct {
	http   *httputil.Client
	cfg    config.SheetConfig
	logger *logger.Logger
}

// NewClient creates a new sheet export client
func NewClient(httpClient *httputil.Client, cfg config.SheetConfig, log *logger.Logger) *Client {
	httpClient.WithRateLimit(cfg.FetchRatePerMin)
	return &Client{
		http:   httpClient,
		cfg:    cfg,
		logger: log,
	}
}

// FetchGrid loads the current sheet export as a raw grid
func (c *Client) FetchGrid(ctx context.Context) ([][]string, error) {
	if c.cfg.ExportURL == "" {
		c.logger.WithField("path", c.cfg.Path).Debug("Loading sheet from local file")
		return sheet.ReadCSVFile(c.cfg.Path)
	}

	resp, err := c.http.Get(ctx, c.cfg.ExportURL)
	if err != nil {
		return nil, fmt.Errorf("fetch sheet export: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch sheet export: unexpected status %d", resp.StatusCode)
	}

	return sheet.ReadCSV(resp.Body)
}
