package client

import (
	"context"
	"strings"

	"civictrack/geocode"
	"civictrack/models"

	"github.com/pkg/errors"
)

// DefaultCenter is where the report map opens.
var DefaultCenter = models.Location{Latitude: 28.6448, Longitude: 77.216721}

// CoordinateSource records which input last set a draft's coordinates.
type CoordinateSource int

const (
	SourceDefault CoordinateSource = iota
	SourceMap
	SourceGeolocation
	SourceSearch
)

var ErrGeolocationUnsupported = errors.New("geolocation is not supported")

// Locator reports the device position.
type Locator interface {
	Locate(ctx context.Context) (lat, lon float64, err error)
}

type Image struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Draft is an issue report being filled in. A nil Location means no
// coordinates are set.
type Draft struct {
	Title       string
	Description string
	Category    models.IssueCategory
	Image       *Image
	Location    *models.Location
	Source      CoordinateSource
}

func NewDraft() *Draft {
	loc := DefaultCenter
	return &Draft{
		Category: models.Garbage,
		Location: &loc,
		Source:   SourceDefault,
	}
}

// SetCoordinates overwrites both coordinates at once; the last call wins.
// The address is cleared because it no longer describes the point.
// Out-of-range coordinates are rejected and leave the draft unchanged.
func (d *Draft) SetCoordinates(source CoordinateSource, lat, lon float64) error {
	loc := models.Location{Latitude: lat, Longitude: lon}
	if !loc.Valid() {
		return errors.Errorf("coordinates out of range: %f,%f", lat, lon)
	}
	d.Location = &loc
	d.Source = source
	return nil
}

// UseGeolocation asks the locator for the device position. On failure the
// prior coordinates are kept and the error is returned.
func (d *Draft) UseGeolocation(ctx context.Context, l Locator) error {
	if l == nil {
		return ErrGeolocationUnsupported
	}
	lat, lon, err := l.Locate(ctx)
	if err != nil {
		return err
	}
	return d.SetCoordinates(SourceGeolocation, lat, lon)
}

// UsePlace applies a picked search result. It is the only way a draft gets
// an address.
func (d *Draft) UsePlace(p geocode.Place) error {
	lat, lon, err := p.Coordinates()
	if err != nil {
		return err
	}
	if err := d.SetCoordinates(SourceSearch, lat, lon); err != nil {
		return err
	}
	d.Location.Address = p.DisplayName
	return nil
}

// ValidationError names every draft field that is missing or invalid.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "invalid issue: " + strings.Join(e.Fields, ", ")
}

func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f == field {
			return true
		}
	}
	return false
}

// Validate returns a *ValidationError when the draft cannot be submitted.
func (d *Draft) Validate() error {
	var fields []string
	if strings.TrimSpace(d.Title) == "" {
		fields = append(fields, "title")
	}
	if strings.TrimSpace(d.Description) == "" {
		fields = append(fields, "description")
	}
	if !d.Category.Valid() {
		fields = append(fields, "category")
	}
	if d.Image == nil || len(d.Image.Data) == 0 {
		fields = append(fields, "image")
	}
	if d.Location == nil || !d.Location.Valid() {
		fields = append(fields, "location")
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
