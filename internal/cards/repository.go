package cards

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository is the store adapter for the durable card collections.
// It owns the cards and player_cards tables; everything else only
// reads through it.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new card repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Pool returns the underlying database pool
func (r *Repository) Pool() *pgxpool.Pool {
	return r.pool
}

// EnsureSchema creates the card tables when they do not exist yet
func (r *Repository) EnsureSchema(ctx context.Context) error {
	ddl := `
		CREATE TABLE IF NOT EXISTS cards (
			id UUID PRIMARY KEY,
			hero_id TEXT,
			name TEXT NOT NULL,
			handle TEXT,
			flags TEXT,
			new_hero_yn TEXT,
			hero_page TEXT,
			median_last4 DOUBLE PRECISION,
			last_tournament1 DOUBLE PRECISION,
			last_tournament2 DOUBLE PRECISION,
			average_last2 DOUBLE PRECISION,
			floor_common DOUBLE PRECISION,
			floor_rare DOUBLE PRECISION,
			floor_epic DOUBLE PRECISION,
			floor_legendary DOUBLE PRECISION,
			stars DOUBLE PRECISION,
			historical_scores JSONB NOT NULL DEFAULT '{}',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS player_cards (
			id UUID PRIMARY KEY,
			hero_rarity_index INT NOT NULL,
			hero_id TEXT NOT NULL,
			card_count INT NOT NULL,
			picture TEXT,
			handle TEXT,
			name TEXT NOT NULL,
			highest_bid DOUBLE PRECISION,
			stars DOUBLE PRECISION NOT NULL,
			median_last4 DOUBLE PRECISION NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
	`

	if _, err := r.pool.Exec(ctx, ddl); err != nil {
		return storeErr("ensure schema", err)
	}
	return nil
}

const cardColumns = `
	id, hero_id, name, handle, flags, new_hero_yn, hero_page,
	median_last4, last_tournament1, last_tournament2, average_last2,
	floor_common, floor_rare, floor_epic, floor_legendary,
	stars, historical_scores, created_at
`

// validateRecords checks the whole batch against the canonical
// schema before any write happens.
func validateRecords(records []Card) error {
	for i := range records {
		if err := records[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// InsertMany bulk-inserts card records and returns the generated IDs.
// Fails with ErrEmptyBatch when records is empty.
func (r *Repository) InsertMany(ctx context.Context, records []Card) ([]string, error) {
	if len(records) == 0 {
		return nil, ErrEmptyBatch
	}
	if err := validateRecords(records); err != nil {
		return nil, err
	}

	query := `
		INSERT INTO cards (` + cardColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`

	batch := &pgx.Batch{}
	ids := make([]string, 0, len(records))
	now := time.Now().UTC()

	for _, card := range records {
		id := uuid.NewString()
		ids = append(ids, id)

		createdAt := card.CreatedAt
		if createdAt.IsZero() {
			createdAt = now
		}

		scores := card.HistoricalScores
		if scores == nil {
			scores = map[string]float64{}
		}
		scoresJSON, err := json.Marshal(scores)
		if err != nil {
			return nil, fmt.Errorf("marshal historical scores: %w", err)
		}

		batch.Queue(query,
			id, card.HeroID, card.Name, card.Handle, card.Flags, card.NewHero, card.HeroPage,
			card.MedianLast4, card.LastTournament1, card.LastTournament2, card.AverageLast2,
			card.FloorCommon, card.FloorRare, card.FloorEpic, card.FloorLegendary,
			card.Stars, scoresJSON, createdAt,
		)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range records {
		if _, err := results.Exec(); err != nil {
			return nil, storeErr("insert cards", err)
		}
	}

	return ids, nil
}

// ReplaceAll drops the whole card collection and re-inserts records.
// Not atomic with respect to concurrent readers: a reader racing an
// import may observe an empty collection between truncate and insert.
func (r *Repository) ReplaceAll(ctx context.Context, records []Card) ([]string, error) {
	if len(records) == 0 {
		return nil, ErrEmptyBatch
	}

	// Validate before the truncate so a bad batch never empties the
	// collection.
	if err := validateRecords(records); err != nil {
		return nil, err
	}

	if _, err := r.pool.Exec(ctx, `TRUNCATE TABLE cards`); err != nil {
		return nil, storeErr("truncate cards", err)
	}

	return r.InsertMany(ctx, records)
}

// ScanAll returns a page of the card collection
func (r *Repository) ScanAll(ctx context.Context, skip, limit int) ([]Card, error) {
	query := `
		SELECT ` + cardColumns + `
		FROM cards
		ORDER BY created_at, id
		OFFSET $1 LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, skip, limit)
	if err != nil {
		return nil, storeErr("scan cards", err)
	}
	defer rows.Close()

	return collectCards(rows)
}

// ListAll returns the full card collection in insertion order.
// The scoring engine snapshots the collection through this.
func (r *Repository) ListAll(ctx context.Context) ([]Card, error) {
	query := `
		SELECT ` + cardColumns + `
		FROM cards
		ORDER BY created_at, id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, storeErr("list cards", err)
	}
	defer rows.Close()

	return collectCards(rows)
}

// FindByName returns the card with the given name, or ErrNotFound
func (r *Repository) FindByName(ctx context.Context, name string) (*Card, error) {
	query := `
		SELECT ` + cardColumns + `
		FROM cards
		WHERE name = $1
		LIMIT 1
	`

	row := r.pool.QueryRow(ctx, query, name)
	card, err := scanCard(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, storeErr("find card by name", err)
	}
	return card, nil
}

// FindByHeroID returns the card with the given hero_id, or ErrNotFound
func (r *Repository) FindByHeroID(ctx context.Context, heroID string) (*Card, error) {
	query := `
		SELECT ` + cardColumns + `
		FROM cards
		WHERE hero_id = $1
		LIMIT 1
	`

	row := r.pool.QueryRow(ctx, query, heroID)
	card, err := scanCard(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, storeErr("find card by hero_id", err)
	}
	return card, nil
}

// Count returns the number of stored cards
func (r *Repository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM cards`).Scan(&count)
	if err != nil {
		return 0, storeErr("count cards", err)
	}
	return count, nil
}

// ReplacePlayerCards replaces the player-card collection with cards
// extracted from a traffic archive. Same replace-all semantics as the
// sheet import.
func (r *Repository) ReplacePlayerCards(ctx context.Context, records []PlayerCard) ([]string, error) {
	if len(records) == 0 {
		return nil, ErrEmptyBatch
	}

	if _, err := r.pool.Exec(ctx, `TRUNCATE TABLE player_cards`); err != nil {
		return nil, storeErr("truncate player cards", err)
	}

	query := `
		INSERT INTO player_cards (
			id, hero_rarity_index, hero_id, card_count, picture, handle, name,
			highest_bid, stars, median_last4, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	batch := &pgx.Batch{}
	ids := make([]string, 0, len(records))
	now := time.Now().UTC()

	for _, pc := range records {
		id := uuid.NewString()
		ids = append(ids, id)

		batch.Queue(query,
			id, pc.HeroRarity, pc.HeroID, pc.Count, pc.Picture, pc.Handle, pc.Name,
			pc.HighestBid, pc.Stars, pc.MedianLast4, now,
		)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range records {
		if _, err := results.Exec(); err != nil {
			return nil, storeErr("insert player cards", err)
		}
	}

	return ids, nil
}

// ListPlayerCards returns all stored player cards
func (r *Repository) ListPlayerCards(ctx context.Context) ([]PlayerCard, error) {
	query := `
		SELECT id, hero_rarity_index, hero_id, card_count, picture, handle, name,
		       highest_bid, stars, median_last4
		FROM player_cards
		ORDER BY created_at, id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, storeErr("list player cards", err)
	}
	defer rows.Close()

	var result []PlayerCard
	for rows.Next() {
		var pc PlayerCard
		if err := rows.Scan(
			&pc.ID, &pc.HeroRarity, &pc.HeroID, &pc.Count, &pc.Picture, &pc.Handle, &pc.Name,
			&pc.HighestBid, &pc.Stars, &pc.MedianLast4,
		); err != nil {
			return nil, storeErr("scan player card", err)
		}
		result = append(result, pc)
	}
	return result, rows.Err()
}

// rowScanner covers both pgx.Row and pgx.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanCard(row rowScanner) (*Card, error) {
	var c Card
	var scoresJSON []byte

	err := row.Scan(
		&c.ID, &c.HeroID, &c.Name, &c.Handle, &c.Flags, &c.NewHero, &c.HeroPage,
		&c.MedianLast4, &c.LastTournament1, &c.LastTournament2, &c.AverageLast2,
		&c.FloorCommon, &c.FloorRare, &c.FloorEpic, &c.FloorLegendary,
		&c.Stars, &scoresJSON, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	c.HistoricalScores = map[string]float64{}
	if len(scoresJSON) > 0 {
		if err := json.Unmarshal(scoresJSON, &c.HistoricalScores); err != nil {
			return nil, fmt.Errorf("unmarshal historical scores: %w", err)
		}
	}

	return &c, nil
}

func collectCards(rows pgx.Rows) ([]Card, error) {
	var result []Card
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, storeErr("scan card", err)
		}
		result = append(result, *card)
	}
	return result, rows.Err()
}

// storeErr tags store-layer failures so callers can match them with
// errors.Is(err, ErrStoreUnavailable)
func storeErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, ErrStoreUnavailable, err)
}
