// Package challenge implements the quiz-session lifecycle: a challenge is
// started with a random batch of unseen-biased words, finished once with a
// score, and listed per user.
package challenge

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"lexiquiz/internal/corpus"
	"lexiquiz/internal/domain"
	"lexiquiz/internal/errors"
	"lexiquiz/internal/event"
	"lexiquiz/internal/sampler"
)

// Corpus resolves vocabulary items and bounds random key generation.
type Corpus interface {
	Count(ctx context.Context) (int, error)
	Resolve(ctx context.Context, keys []string) ([]domain.Word, error)
}

// Store persists profiles and challenge records. Implementations assign
// start and end timestamps from their own clock, so a challenge's end is
// always after its start regardless of client clocks.
type Store interface {
	GetProfile(ctx context.Context, userID string) (*domain.Profile, error)
	// MergeSeenWords atomically folds keys into the user's seen history for
	// lang and returns how many of them were novel.
	MergeSeenWords(ctx context.Context, userID, lang string, keys []string) (int, error)
	CreateChallenge(ctx context.Context, userID string) (*domain.Challenge, error)
	// FinishChallenge closes an open challenge. It fails with
	// CodeFailedPrecondition if the challenge is already closed and
	// CodeNotFound if no such challenge exists under the user.
	FinishChallenge(ctx context.Context, userID, challengeID string, correct, incorrect int32, score *decimal.Decimal) error
	ListChallenges(ctx context.Context, userID string) ([]domain.Challenge, error)
}

type Config struct {
	Store    Store
	Corpus   Corpus
	Sampler  *sampler.Sampler
	EventBus *event.Bus
}

type Service struct {
	store   Store
	corpus  Corpus
	sampler *sampler.Sampler
	eb      *event.Bus
}

func NewService(c Config) *Service {
	s := &Service{
		store:   c.Store,
		corpus:  c.Corpus,
		sampler: c.Sampler,
		eb:      c.EventBus,
	}
	if s.sampler == nil {
		s.sampler = sampler.New(nil)
	}

	return s
}

type StartChallengeRequest struct {
	UserID string
	// Count is the number of quiz words requested.
	Count int
}

type StartChallengeResponse struct {
	ChallengeID string
	// Lang is the user's target learning language.
	Lang string
	// Words are the sampled items, in draw order.
	Words []domain.Word
}

// StartChallenge samples Count distinct corpus words, records which of them
// the user sees for the first time, and opens a new challenge with a
// store-assigned start timestamp.
//
// The challenge insert and the seen-history update are two separate writes;
// a failure between them leaves an open challenge whose words were never
// merged into the history. There is no rollback across the two.
//
// Every sampling, corpus or storage failure surfaces as CodeInternal: the
// caller must not be able to tell a corpus gap from a missing profile or a
// network failure.
func (s *Service) StartChallenge(ctx context.Context, req StartChallengeRequest) (*StartChallengeResponse, error) {
	if req.Count < 0 {
		return nil, errors.InvalidArgumentf("count %d must be non-negative", req.Count)
	}

	max, err := s.corpus.Count(ctx)
	if err != nil {
		return nil, errors.Internal(err)
	}
	if req.Count >= max {
		return nil, errors.InvalidArgumentf("count %d must be smaller than the corpus size %d", req.Count, max)
	}

	indices, err := s.sampler.Sample(max, req.Count)
	if err != nil {
		return nil, errors.Internal(err)
	}

	keys := make([]string, len(indices))
	for i, n := range indices {
		keys[i] = corpus.Key(n)
	}

	words, err := s.corpus.Resolve(ctx, keys)
	if err != nil {
		return nil, errors.Internal(err)
	}

	profile, err := s.store.GetProfile(ctx, req.UserID)
	if err != nil {
		return nil, errors.Internal(err)
	}

	ch, err := s.store.CreateChallenge(ctx, req.UserID)
	if err != nil {
		return nil, errors.Internal(err)
	}

	novel, err := s.store.MergeSeenWords(ctx, req.UserID, profile.ForLang, keys)
	if err != nil {
		return nil, errors.Internal(err)
	}

	slog.InfoContext(ctx, "challenge: started",
		"user", req.UserID,
		"challenge", ch.ChallengeID,
		"lang", profile.ForLang,
		"words", len(words),
		"novel", novel,
	)

	s.publish(ctx, domain.EventChallengeStarted{
		UserID: req.UserID,
		Lang:   profile.ForLang,
		Words:  len(words),
		Novel:  novel,
	})

	return &StartChallengeResponse{
		ChallengeID: ch.ChallengeID,
		Lang:        profile.ForLang,
		Words:       words,
	}, nil
}

type FinishChallengeRequest struct {
	UserID      string
	ChallengeID string
	Correct     *int32
	Incorrect   *int32
	// Score is stored as the client computed it. It is not required; a
	// finished challenge may carry no score.
	Score *decimal.Decimal
}

// FinishChallenge closes an open challenge with the submitted counts and a
// store-assigned end timestamp. Finishing twice fails on the second call;
// prior results are never overwritten.
func (s *Service) FinishChallenge(ctx context.Context, req FinishChallengeRequest) error {
	if req.ChallengeID == "" {
		return errors.InvalidArgumentf("challenge id is required")
	}
	if req.Correct == nil || req.Incorrect == nil {
		return errors.InvalidArgumentf("correct and incorrect counts are required")
	}
	if *req.Correct < 0 || *req.Incorrect < 0 {
		return errors.InvalidArgumentf("correct and incorrect counts must be non-negative")
	}

	if err := s.store.FinishChallenge(ctx, req.UserID, req.ChallengeID, *req.Correct, *req.Incorrect, req.Score); err != nil {
		return err
	}

	slog.InfoContext(ctx, "challenge: finished",
		"user", req.UserID,
		"challenge", req.ChallengeID,
	)

	s.publish(ctx, domain.EventChallengeFinished{
		UserID:    req.UserID,
		Correct:   *req.Correct,
		Incorrect: *req.Incorrect,
	})

	return nil
}

type ListChallengesRequest struct {
	UserID string
}

// ListChallenges returns every challenge owned by the user, newest first.
func (s *Service) ListChallenges(ctx context.Context, req ListChallengesRequest) ([]domain.Challenge, error) {
	return s.store.ListChallenges(ctx, req.UserID)
}

func (s *Service) publish(ctx context.Context, e event.Event) {
	if s.eb != nil {
		s.eb.Publish(ctx, e)
	}
}
