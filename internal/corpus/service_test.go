package corpus_test

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lexiquiz/internal/corpus"
	"lexiquiz/internal/domain"
	"lexiquiz/internal/errors"
)

type fakeStore struct {
	count      int
	countCalls int
	countErr   error
	words      map[string]domain.Word
}

func (f *fakeStore) WordCount(context.Context) (int, error) {
	f.countCalls++
	return f.count, f.countErr
}

func (f *fakeStore) GetWords(_ context.Context, keys []string) (map[string]domain.Word, error) {
	found := make(map[string]domain.Word, len(keys))
	for _, key := range keys {
		if w, ok := f.words[key]; ok {
			found[key] = w
		}
	}
	return found, nil
}

func makeService(t *testing.T, fs *fakeStore) (*corpus.Service, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rc := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs: []string{mr.Addr()},
	})
	require.NoError(t, rc.Ping(context.Background()).Err(), "should be able to ping redis")

	s := corpus.NewService(corpus.Config{
		Redis:    rc,
		Prefix:   "test",
		CountTTL: time.Minute,
		Store:    fs,
	})

	return s, mr
}

func TestService_Count_CachesReads(t *testing.T) {
	fs := &fakeStore{count: 42}
	s, _ := makeService(t, fs)

	for i := 0; i < 3; i++ {
		n, err := s.Count(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 42, n)
	}

	assert.Equal(t, 1, fs.countCalls, "repeated reads within the TTL should hit the cache")
}

func TestService_Count_RefreshesAfterTTL(t *testing.T) {
	fs := &fakeStore{count: 42}
	s, mr := makeService(t, fs)

	_, err := s.Count(context.Background())
	require.NoError(t, err)

	fs.count = 43
	mr.FastForward(2 * time.Minute)

	n, err := s.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 43, n)
	assert.Equal(t, 2, fs.countCalls)
}

func TestService_Count_StoreError(t *testing.T) {
	fs := &fakeStore{countErr: stderrors.New("boom")}
	s, _ := makeService(t, fs)

	_, err := s.Count(context.Background())
	require.Error(t, err)
}

func TestService_Resolve(t *testing.T) {
	fs := &fakeStore{words: map[string]domain.Word{
		"Word1": {Key: "Word1", Translations: map[string]string{"EN": "house", "FR": "maison"}},
		"Word2": {Key: "Word2", Translations: map[string]string{"EN": "dog", "FR": "chien"}},
		"Word3": {Key: "Word3", Translations: map[string]string{"EN": "sun", "FR": "soleil"}},
	}}
	s, _ := makeService(t, fs)

	t.Run("returns words in request order", func(t *testing.T) {
		words, err := s.Resolve(context.Background(), []string{"Word3", "Word1"})
		require.NoError(t, err)
		require.Len(t, words, 2)
		assert.Equal(t, "Word3", words[0].Key)
		assert.Equal(t, "Word1", words[1].Key)
	})

	t.Run("missing key fails the whole batch", func(t *testing.T) {
		_, err := s.Resolve(context.Background(), []string{"Word1", "Word99"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.CodeNotFound))
	})

	t.Run("empty key list", func(t *testing.T) {
		words, err := s.Resolve(context.Background(), nil)
		require.NoError(t, err)
		assert.Empty(t, words)
	})
}

func TestKey(t *testing.T) {
	assert.Equal(t, "Word1", corpus.Key(1))
	assert.Equal(t, "Word120", corpus.Key(120))
}
