package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newNominatim(t *testing.T, hits *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.True(t, strings.EqualFold("connaught place", r.URL.Query().Get("q")))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"place_id":42,"lat":"28.6315","lon":"77.2167","display_name":"Connaught Place, New Delhi"}]`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClientSearch(t *testing.T) {
	var hits int32
	srv := newNominatim(t, &hits)
	c := NewClient(srv.URL+"/", "civictrack-test")

	places, err := c.Search(context.Background(), "  connaught place ")
	require.NoError(t, err)
	require.Len(t, places, 1)
	assert.Equal(t, int64(42), places[0].PlaceID)

	lat, lon, err := places[0].Coordinates()
	require.NoError(t, err)
	assert.Equal(t, 28.6315, lat)
	assert.Equal(t, 77.2167, lon)

	short, err := c.Search(context.Background(), "ab")
	require.NoError(t, err)
	assert.Empty(t, short)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestClientSearchUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "").Search(context.Background(), "somewhere")
	assert.Error(t, err)
}

func TestPlaceCoordinatesInvalid(t *testing.T) {
	_, _, err := Place{Lat: "north", Lon: "1"}.Coordinates()
	assert.Error(t, err)
}

func TestCachedSearcher(t *testing.T) {
	var hits int32
	srv := newNominatim(t, &hits)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	s := &CachedSearcher{
		Next:   NewClient(srv.URL, ""),
		Redis:  rdb,
		TTL:    time.Hour,
		Prefix: "geocode",
		Log:    zerolog.Nop(),
	}

	for i := 0; i < 3; i++ {
		places, err := s.Search(context.Background(), "Connaught Place")
		require.NoError(t, err)
		require.Len(t, places, 1)
		assert.Equal(t, "Connaught Place, New Delhi", places[0].DisplayName)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
	assert.True(t, mr.Exists("geocode:connaught place"))
	assert.Equal(t, time.Hour, mr.TTL("geocode:connaught place"))
}
