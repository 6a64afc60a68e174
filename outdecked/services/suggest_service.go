package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/sahilm/fuzzy"

	"github.com/outdecked/outdecked/outdecked/config"
	"github.com/outdecked/outdecked/outdecked/database/repositories"
)

// cardNames implements fuzzy.Source over a name list.
type cardNames []string

func (n cardNames) Len() int            { return len(n) }
func (n cardNames) String(i int) string { return n[i] }

// SuggestService offers fuzzy card-name completion for the search box.
// The name list is loaded lazily per game and refreshed on expiry; card
// names change only on catalog ingest, so a short TTL is plenty.
type SuggestService struct {
	cardRepo repositories.CardRepository

	mu       sync.Mutex
	names    map[string]cardNames
	loadedAt map[string]time.Time
}

func NewSuggestService(cardRepo repositories.CardRepository) *SuggestService {
	return &SuggestService{
		cardRepo: cardRepo,
		names:    make(map[string]cardNames),
		loadedAt: make(map[string]time.Time),
	}
}

// Suggest returns up to limit card names ranked by fuzzy match quality.
func (s *SuggestService) Suggest(ctx context.Context, game, query string, limit int) ([]string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	if limit <= 0 || limit > config.MaxSuggestions {
		limit = config.MaxSuggestions
	}

	names, err := s.namesFor(ctx, game)
	if err != nil {
		return nil, err
	}

	matches := fuzzy.FindFrom(query, names)
	if len(matches) > limit {
		matches = matches[:limit]
	}

	results := make([]string, 0, len(matches))
	for _, m := range matches {
		results = append(results, names[m.Index])
	}
	return results, nil
}

func (s *SuggestService) namesFor(ctx context.Context, game string) (cardNames, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if names, ok := s.names[game]; ok && time.Since(s.loadedAt[game]) < config.CacheExpiration {
		return names, nil
	}

	loaded, err := s.cardRepo.ListNames(ctx, game)
	if err != nil {
		return nil, err
	}

	names := cardNames(loaded)
	s.names[game] = names
	s.loadedAt[game] = time.Now()
	return names, nil
}
