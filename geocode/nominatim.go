// Package geocode resolves free-text place names to coordinates using a
// Nominatim-compatible search endpoint.
package geocode

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// MinQueryLength is the shortest term worth sending to the geocoder.
const MinQueryLength = 3

// Place is one search candidate. Lat and Lon are decimal strings as returned
// by Nominatim.
type Place struct {
	PlaceID     int64  `json:"place_id"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Coordinates parses the candidate's latitude and longitude.
func (p Place) Coordinates() (lat, lon float64, err error) {
	lat, err = strconv.ParseFloat(p.Lat, 64)
	if err != nil {
		return 0, 0, errors.Wrapf(err, "parse lat %q", p.Lat)
	}
	lon, err = strconv.ParseFloat(p.Lon, 64)
	if err != nil {
		return 0, 0, errors.Wrapf(err, "parse lon %q", p.Lon)
	}
	return lat, lon, nil
}

type Searcher interface {
	Search(ctx context.Context, term string) ([]Place, error)
}

// Client talks to a Nominatim server.
type Client struct {
	BaseURL   string
	UserAgent string
	HTTP      *http.Client
}

func NewClient(baseURL, userAgent string) *Client {
	return &Client{
		BaseURL:   strings.TrimRight(baseURL, "/"),
		UserAgent: userAgent,
		HTTP:      &http.Client{Timeout: 10 * time.Second},
	}
}

// Search returns candidates for term. Terms shorter than MinQueryLength
// yield no candidates and no request.
func (c *Client) Search(ctx context.Context, term string) ([]Place, error) {
	term = strings.TrimSpace(term)
	if utf8.RuneCountInString(term) < MinQueryLength {
		return []Place{}, nil
	}

	q := url.Values{}
	q.Set("format", "json")
	q.Set("q", term)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "build geocode request")
	}
	req.Header.Set("Accept", "application/json")
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "geocode request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("geocoder returned %s", resp.Status)
	}

	places := []Place{}
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return nil, errors.Wrap(err, "decode geocode response")
	}
	return places, nil
}
