package geocode

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// CachedSearcher memoizes search results in Redis. Cache failures are logged
// and fall through to the wrapped searcher.
type CachedSearcher struct {
	Next   Searcher
	Redis  *redis.Client
	TTL    time.Duration
	Prefix string
	Log    zerolog.Logger
}

func (s *CachedSearcher) Search(ctx context.Context, term string) ([]Place, error) {
	key := s.Prefix + ":" + strings.ToLower(strings.TrimSpace(term))

	cached, err := s.Redis.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var places []Place
		if err := json.Unmarshal(cached, &places); err == nil {
			return places, nil
		}
	case err != redis.Nil:
		s.Log.Warn().Err(err).Str("key", key).Msg("geocode cache read failed")
	}

	places, err := s.Next.Search(ctx, term)
	if err != nil {
		return nil, err
	}

	if b, err := json.Marshal(places); err == nil {
		if err := s.Redis.Set(ctx, key, b, s.TTL).Err(); err != nil {
			s.Log.Warn().Err(err).Str("key", key).Msg("geocode cache write failed")
		}
	}
	return places, nil
}
