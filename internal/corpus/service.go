// Package corpus reads the vocabulary collection. The challenge flow only
// ever reads it: words are resolved by key, and the maintained word count
// bounds random key generation.
package corpus

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"lexiquiz/internal/domain"
	"lexiquiz/internal/errors"
)

const defaultCountTTL = time.Minute

type Config struct {
	DB    *pgxpool.Pool
	Redis redis.UniversalClient
	// Prefix namespaces the cache keys.
	Prefix string
	// CountTTL bounds how stale the cached corpus count may be.
	CountTTL time.Duration
	// Store overrides the pgx-backed store built from DB.
	Store Store
}

// Store reads the raw corpus records.
type Store interface {
	WordCount(ctx context.Context) (int, error)
	GetWords(ctx context.Context, keys []string) (map[string]domain.Word, error)
}

type Service struct {
	store  Store
	redis  redis.UniversalClient
	prefix string
	ttl    time.Duration
}

func NewService(c Config) *Service {
	ttl := c.CountTTL
	if ttl <= 0 {
		ttl = defaultCountTTL
	}

	store := c.Store
	if store == nil {
		store = &pgStore{db: c.DB}
	}

	return &Service{
		store:  store,
		redis:  c.Redis,
		prefix: c.Prefix,
		ttl:    ttl,
	}
}

// Key returns the corpus key of the 1-based index i.
func Key(i int) string {
	return fmt.Sprintf("Word%d", i)
}

// Count returns the maintained number of words in the corpus. The value is
// read through a short-lived cache; corpus maintenance owns its accuracy.
func (s *Service) Count(ctx context.Context) (int, error) {
	key := s.countKey()

	if cached, err := s.redis.Get(ctx, key).Result(); err == nil {
		if n, err := strconv.Atoi(cached); err == nil {
			return n, nil
		}
	}

	n, err := s.store.WordCount(ctx)
	if err != nil {
		return 0, fmt.Errorf("corpus: read word count: %w", err)
	}

	// A failed cache fill only costs the next caller a DB read.
	s.redis.Set(ctx, key, strconv.Itoa(n), s.ttl)

	return n, nil
}

// Resolve looks up every key and returns the words in the order the keys
// were given. Any key missing from the corpus fails the whole batch; the
// caller must not silently receive a smaller sample than requested.
func (s *Service) Resolve(ctx context.Context, keys []string) ([]domain.Word, error) {
	if len(keys) == 0 {
		return nil, nil
	}

	found, err := s.store.GetWords(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("corpus: get words: %w", err)
	}

	words := make([]domain.Word, 0, len(keys))
	for _, key := range keys {
		w, ok := found[key]
		if !ok {
			return nil, errors.New(errors.CodeNotFound,
				errors.WithMessagef("word %q missing from corpus", key))
		}
		words = append(words, w)
	}

	return words, nil
}

func (s *Service) countKey() string {
	return fmt.Sprintf("%s:corpus:count", s.prefix)
}
