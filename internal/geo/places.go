package geo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"contacts-crm/internal/models"
)

var ErrPlaceNotFound = errors.New("place not found")

// Lookup resolves an opaque place identifier to coordinates and administrative metadata
type Lookup interface {
	Resolve(ctx context.Context, placeID string) (models.Place, error)
}

type placeDetailsResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Result       struct {
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
		AddressComponents []struct {
			LongName string   `json:"long_name"`
			Types    []string `json:"types"`
		} `json:"address_components"`
	} `json:"result"`
}

// GooglePlaces resolves place ids through the Google Place Details API
type GooglePlaces struct {
	httpClient *resty.Client
	apiKey     string
	log        zerolog.Logger
}

// NewGooglePlaces creates a Place Details client rooted at baseURL
// (normally https://maps.googleapis.com/maps/api/place).
func NewGooglePlaces(baseURL, apiKey string, timeout time.Duration, log zerolog.Logger) *GooglePlaces {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	return &GooglePlaces{
		httpClient: client,
		apiKey:     apiKey,
		log:        log.With().Str("component", "GooglePlaces").Logger(),
	}
}

// Resolve fetches the coordinates, country and district of a place
func (g *GooglePlaces) Resolve(ctx context.Context, placeID string) (models.Place, error) {
	if placeID == "" {
		return models.Place{}, ErrPlaceNotFound
	}

	var body placeDetailsResponse
	resp, err := g.httpClient.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"place_id": placeID,
			"fields":   "geometry,address_component",
			"key":      g.apiKey,
		}).
		SetResult(&body).
		Get("/details/json")
	if err != nil {
		return models.Place{}, fmt.Errorf("failed to call place details: %w", err)
	}
	if resp.IsError() {
		return models.Place{}, fmt.Errorf("place details returned HTTP %d", resp.StatusCode())
	}

	switch body.Status {
	case "OK":
	case "NOT_FOUND", "ZERO_RESULTS", "INVALID_REQUEST":
		return models.Place{}, fmt.Errorf("%w: %s", ErrPlaceNotFound, placeID)
	default:
		return models.Place{}, fmt.Errorf("place details error: %s %s", body.Status, body.ErrorMessage)
	}

	place := models.Place{
		PlaceID:   placeID,
		Latitude:  body.Result.Geometry.Location.Lat,
		Longitude: body.Result.Geometry.Location.Lng,
	}
	for _, comp := range body.Result.AddressComponents {
		for _, t := range comp.Types {
			switch t {
			case "country":
				place.Country = comp.LongName
			case "administrative_area_level_2":
				place.District = comp.LongName
			case "administrative_area_level_1", "locality":
				if place.District == "" {
					place.District = comp.LongName
				}
			}
		}
	}

	g.log.Debug().Str("place_id", placeID).Str("country", place.Country).Str("district", place.District).Msg("Resolved place")
	return place, nil
}
