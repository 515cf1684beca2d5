package challenge

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"lexiquiz/internal/domain"
	"lexiquiz/internal/errors"
	"lexiquiz/internal/seen"
)

// PostgresStore is the pgx-backed Store. Timestamps come from the database
// clock (now()), never from the caller.
type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	const stmt = `SELECT for_lang, COALESCE(seen, '{}'::jsonb) FROM users WHERE user_id = $1;`

	p := domain.Profile{UserID: userID}
	err := s.db.QueryRow(ctx, stmt, userID).Scan(&p.ForLang, &p.Seen)
	if stderrors.Is(err, pgx.ErrNoRows) {
		return nil, errors.New(errors.CodeNotFound,
			errors.WithMessagef("no profile for user %s", userID))
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}

	return &p, nil
}

// MergeSeenWords runs the read-merge-write of the seen history inside a
// transaction with the profile row locked, so two concurrent starts for the
// same user cannot lose each other's updates.
func (s *PostgresStore) MergeSeenWords(ctx context.Context, userID, lang string, keys []string) (novel int, err error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			err = stderrors.Join(err, tx.Rollback(ctx))
		}
	}()

	const (
		selStmt = `SELECT COALESCE(seen->$2, '[]'::jsonb) FROM users WHERE user_id = $1 FOR UPDATE;`
		updStmt = `UPDATE users SET seen = jsonb_set(COALESCE(seen, '{}'::jsonb), ARRAY[$2], $3::jsonb) WHERE user_id = $1;`
	)

	var history []string
	err = tx.QueryRow(ctx, selStmt, userID, lang).Scan(&history)
	if stderrors.Is(err, pgx.ErrNoRows) {
		return 0, errors.New(errors.CodeNotFound,
			errors.WithMessagef("no profile for user %s", userID))
	}
	if err != nil {
		return 0, fmt.Errorf("read seen history: %w", err)
	}

	updated, flags := seen.Merge(history, keys)
	novel = seen.CountNovel(flags)

	encoded, err := json.Marshal(updated)
	if err != nil {
		return 0, fmt.Errorf("encode seen history: %w", err)
	}
	if _, err = tx.Exec(ctx, updStmt, userID, lang, encoded); err != nil {
		return 0, fmt.Errorf("write seen history: %w", err)
	}

	return novel, tx.Commit(ctx)
}

func (s *PostgresStore) CreateChallenge(ctx context.Context, userID string) (*domain.Challenge, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate challenge ID: %w", err)
	}

	const stmt = `INSERT INTO challenges (challenge_id, user_id) VALUES ($1, $2) RETURNING start_time;`

	ch := domain.Challenge{
		ChallengeID: id.String(),
		UserID:      userID,
	}
	if err := s.db.QueryRow(ctx, stmt, id, userID).Scan(&ch.StartTime); err != nil {
		return nil, fmt.Errorf("insert challenge: %w", err)
	}

	return &ch, nil
}

func (s *PostgresStore) FinishChallenge(ctx context.Context, userID, challengeID string, correct, incorrect int32, score *decimal.Decimal) error {
	const stmt = `
UPDATE challenges
SET end_time = now(), correct = $3, incorrect = $4, score = $5
WHERE challenge_id = $1 AND user_id = $2 AND end_time IS NULL;`

	var sc decimal.NullDecimal
	if score != nil {
		sc = decimal.NullDecimal{Decimal: *score, Valid: true}
	}

	tag, err := s.db.Exec(ctx, stmt, challengeID, userID, correct, incorrect, sc)
	if err != nil {
		return fmt.Errorf("finish challenge: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	// Nothing updated: either the challenge is already closed or it never
	// existed under this user.
	const existsStmt = `SELECT EXISTS (SELECT 1 FROM challenges WHERE challenge_id = $1 AND user_id = $2);`

	var exists bool
	if err := s.db.QueryRow(ctx, existsStmt, challengeID, userID).Scan(&exists); err != nil {
		return fmt.Errorf("finish challenge: %w", err)
	}
	if exists {
		return errors.New(errors.CodeFailedPrecondition,
			errors.WithMessagef("challenge %s is already finished", challengeID))
	}

	return errors.New(errors.CodeNotFound,
		errors.WithMessagef("no challenge %s for user %s", challengeID, userID))
}

func (s *PostgresStore) ListChallenges(ctx context.Context, userID string) ([]domain.Challenge, error) {
	const stmt = `
SELECT challenge_id, start_time, end_time, correct, incorrect, score
FROM challenges
WHERE user_id = $1
ORDER BY start_time DESC;`

	rows, err := s.db.Query(ctx, stmt, userID)
	if err != nil {
		return nil, fmt.Errorf("list challenges: %w", err)
	}

	return pgx.CollectRows(rows, func(r pgx.CollectableRow) (domain.Challenge, error) {
		ch := domain.Challenge{UserID: userID}
		var sc decimal.NullDecimal
		if err := r.Scan(&ch.ChallengeID, &ch.StartTime, &ch.EndTime, &ch.Correct, &ch.Incorrect, &sc); err != nil {
			return domain.Challenge{}, err
		}
		if sc.Valid {
			ch.Score = &sc.Decimal
		}
		return ch, nil
	})
}
