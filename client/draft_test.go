package client

import (
	"context"
	"errors"
	"testing"

	"civictrack/geocode"
	"civictrack/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type locatorFunc func(ctx context.Context) (float64, float64, error)

func (f locatorFunc) Locate(ctx context.Context) (float64, float64, error) { return f(ctx) }

func completeDraft() *Draft {
	d := NewDraft()
	d.Title = "Broken streetlight"
	d.Description = "Dark for a week"
	d.Category = models.Streetlight
	d.Image = &Image{Filename: "a.png", ContentType: "image/png", Data: []byte("png")}
	return d
}

func TestNewDraft(t *testing.T) {
	d := NewDraft()
	require.NotNil(t, d.Location)
	assert.Equal(t, DefaultCenter, *d.Location)
	assert.Equal(t, models.Garbage, d.Category)
	assert.Equal(t, SourceDefault, d.Source)
}

func TestCoordinateSourcesLastWriteWins(t *testing.T) {
	ctx := context.Background()
	d := NewDraft()

	require.NoError(t, d.UsePlace(geocode.Place{Lat: "28.6315", Lon: "77.2167", DisplayName: "Connaught Place"}))
	assert.Equal(t, SourceSearch, d.Source)
	assert.Equal(t, "Connaught Place", d.Location.Address)

	require.NoError(t, d.SetCoordinates(SourceMap, 28.7, 77.1))
	assert.Equal(t, models.Location{Latitude: 28.7, Longitude: 77.1}, *d.Location)
	assert.Equal(t, SourceMap, d.Source)

	require.NoError(t, d.UseGeolocation(ctx, locatorFunc(func(context.Context) (float64, float64, error) {
		return 12.97, 77.59, nil
	})))
	assert.Equal(t, models.Location{Latitude: 12.97, Longitude: 77.59}, *d.Location)

	denied := errors.New("permission denied")
	err := d.UseGeolocation(ctx, locatorFunc(func(context.Context) (float64, float64, error) {
		return 0, 0, denied
	}))
	assert.ErrorIs(t, err, denied)
	assert.Equal(t, models.Location{Latitude: 12.97, Longitude: 77.59}, *d.Location)
	assert.Equal(t, SourceGeolocation, d.Source)

	assert.ErrorIs(t, d.UseGeolocation(ctx, nil), ErrGeolocationUnsupported)
	assert.Error(t, d.SetCoordinates(SourceMap, 120, 0))
	assert.Equal(t, 12.97, d.Location.Latitude)

	assert.Error(t, d.UsePlace(geocode.Place{Lat: "north", Lon: "1"}))
	assert.Equal(t, 12.97, d.Location.Latitude)
}

func TestDraftValidate(t *testing.T) {
	require.NoError(t, completeDraft().Validate())

	tests := []struct {
		name   string
		mutate func(*Draft)
		fields []string
	}{
		{"title", func(d *Draft) { d.Title = "  " }, []string{"title"}},
		{"description", func(d *Draft) { d.Description = "" }, []string{"description"}},
		{"category", func(d *Draft) { d.Category = "" }, []string{"category"}},
		{"unknown category", func(d *Draft) { d.Category = "Graffiti" }, []string{"category"}},
		{"image", func(d *Draft) { d.Image = nil }, []string{"image"}},
		{"empty image", func(d *Draft) { d.Image.Data = nil }, []string{"image"}},
		{"location", func(d *Draft) { d.Location = nil }, []string{"location"}},
		{"everything", func(d *Draft) { *d = Draft{} }, []string{"title", "description", "category", "image", "location"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := completeDraft()
			tt.mutate(d)
			err := d.Validate()
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.fields, verr.Fields)
			assert.True(t, verr.Has(tt.fields[0]))
		})
	}
}
