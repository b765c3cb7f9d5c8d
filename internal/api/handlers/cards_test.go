package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"

	"github.com/lightnsw21/fantasy-v4/internal/cards"
	"github.com/lightnsw21/fantasy-v4/pkg/logger"
)

type fakeCardStore struct {
	cards []cards.Card
	err   error
}

func (s *fakeCardStore) ScanAll(ctx context.Context, skip, limit int) ([]cards.Card, error) {
	return s.cards, s.err
}

func (s *fakeCardStore) FindByHeroID(ctx context.Context, heroID string) (*cards.Card, error) {
	if s.err != nil {
		return nil, s.err
	}
	for i := range s.cards {
		if s.cards[i].HeroID != nil && *s.cards[i].HeroID == heroID {
			return &s.cards[i], nil
		}
	}
	return nil, cards.ErrNotFound
}

func (s *fakeCardStore) FindByName(ctx context.Context, name string) (*cards.Card, error) {
	if s.err != nil {
		return nil, s.err
	}
	for i := range s.cards {
		if s.cards[i].Name == name {
			return &s.cards[i], nil
		}
	}
	return nil, cards.ErrNotFound
}

func storeDown() error {
	return fmt.Errorf("scan cards: %w: connection refused", cards.ErrStoreUnavailable)
}

func TestCardListReturnsStoredCards(t *testing.T) {
	heroID := "42"
	store := &fakeCardStore{cards: []cards.Card{{Name: "Alice", HeroID: &heroID}}}
	handler := NewCardHandler(store, logger.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/cards", nil)
	rec := httptest.NewRecorder()
	handler.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Count int          `json:"count"`
			Cards []cards.Card `json:"cards"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success || resp.Data.Count != 1 || resp.Data.Cards[0].Name != "Alice" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestCardListStoreUnavailable(t *testing.T) {
	handler := NewCardHandler(&fakeCardStore{err: storeDown()}, logger.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/cards", nil)
	rec := httptest.NewRecorder()
	handler.List(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

func TestCardGetByHeroID(t *testing.T) {
	heroID := "42"
	store := &fakeCardStore{cards: []cards.Card{{Name: "Alice", HeroID: &heroID}}}
	handler := NewCardHandler(store, logger.NewNop())

	tests := []struct {
		name       string
		heroID     string
		storeErr   error
		wantStatus int
	}{
		{"found", "42", nil, http.StatusOK},
		{"not found", "99", nil, http.StatusNotFound},
		{"store unavailable", "42", storeDown(), http.StatusServiceUnavailable},
		{"other failure", "42", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store.err = tt.storeErr

			req := httptest.NewRequest(http.MethodGet, "/api/cards/"+tt.heroID, nil)
			req = mux.SetURLVars(req, map[string]string{"hero_id": tt.heroID})
			rec := httptest.NewRecorder()
			handler.GetByHeroID(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestCardGetByName(t *testing.T) {
	store := &fakeCardStore{cards: []cards.Card{{Name: "Alice"}}}
	handler := NewCardHandler(store, logger.NewNop())

	tests := []struct {
		name       string
		cardName   string
		storeErr   error
		wantStatus int
	}{
		{"found", "Alice", nil, http.StatusOK},
		{"not found", "Bob", nil, http.StatusNotFound},
		{"store unavailable", "Alice", storeDown(), http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store.err = tt.storeErr

			req := httptest.NewRequest(http.MethodGet, "/api/cards/by-name/"+tt.cardName, nil)
			req = mux.SetURLVars(req, map[string]string{"name": tt.cardName})
			rec := httptest.NewRecorder()
			handler.GetByName(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}
