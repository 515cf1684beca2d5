package corpus

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"lexiquiz/internal/domain"
)

type pgStore struct {
	db *pgxpool.Pool
}

func (s *pgStore) WordCount(ctx context.Context) (int, error) {
	const stmt = `SELECT word_count FROM corpus_meta;`

	var n int
	if err := s.db.QueryRow(ctx, stmt).Scan(&n); err != nil {
		return 0, err
	}

	return n, nil
}

func (s *pgStore) GetWords(ctx context.Context, keys []string) (map[string]domain.Word, error) {
	const stmt = `SELECT word_key, entry FROM words WHERE word_key = ANY($1);`

	rows, err := s.db.Query(ctx, stmt, keys)
	if err != nil {
		return nil, err
	}

	words, err := pgx.CollectRows(rows, func(r pgx.CollectableRow) (domain.Word, error) {
		var w domain.Word
		if err := r.Scan(&w.Key, &w.Translations); err != nil {
			return domain.Word{}, err
		}
		return w, nil
	})
	if err != nil {
		return nil, err
	}

	found := make(map[string]domain.Word, len(words))
	for _, w := range words {
		found[w.Key] = w
	}

	return found, nil
}
