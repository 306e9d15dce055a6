package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistance_Equator(t *testing.T) {
	origin := Coordinate{Latitude: 0, Longitude: 0}

	d, err := Distance(origin, Coordinate{Latitude: 0, Longitude: 1}, 1)
	require.NoError(t, err)
	assert.Equal(t, 111319.0, d)

	d, err = Distance(origin, Coordinate{Latitude: 0, Longitude: 0.5}, 1)
	require.NoError(t, err)
	assert.Equal(t, 55660.0, d)
}

func TestDistance_LondonParis(t *testing.T) {
	d, err := Distance(Coordinate{51.5, 0}, Coordinate{48.85, 2.35}, 1)
	require.NoError(t, err)
	assert.InDelta(t, 339174, d, 1)
}

func TestDistance_Symmetric(t *testing.T) {
	a := Coordinate{Latitude: 0.3476, Longitude: 32.5825}
	b := Coordinate{Latitude: 0.3136, Longitude: 32.5811}

	ab, err := Distance(a, b, 1)
	require.NoError(t, err)
	ba, err := Distance(b, a, 1)
	require.NoError(t, err)
	assert.Equal(t, ab, ba)
	assert.InDelta(t, 3763, ab, 1)
}

func TestDistance_Precision(t *testing.T) {
	d, err := Distance(Coordinate{0, 0}, Coordinate{0, 1}, 100)
	require.NoError(t, err)
	assert.Equal(t, 111300.0, d)

	d, err = Distance(Coordinate{0, 0}, Coordinate{0, 1}, 0)
	require.NoError(t, err)
	assert.Equal(t, 111319.0, d)
}

func TestDistance_SamePoint(t *testing.T) {
	d, err := Distance(Coordinate{12.5, -7.25}, Coordinate{12.5, -7.25}, 1)
	require.NoError(t, err)
	assert.Zero(t, d)
}

func TestDistance_InvalidCoordinates(t *testing.T) {
	_, err := Distance(Coordinate{91, 0}, Coordinate{0, 0}, 1)
	assert.ErrorIs(t, err, ErrInvalidCoordinate)

	_, err = Distance(Coordinate{0, 0}, Coordinate{0, 181}, 1)
	assert.ErrorIs(t, err, ErrInvalidCoordinate)

	_, err = Distance(Coordinate{math.NaN(), 0}, Coordinate{0, 0}, 1)
	assert.ErrorIs(t, err, ErrInvalidCoordinate)
}

func TestDistance_NearAntipodal(t *testing.T) {
	_, err := Distance(Coordinate{0, 0}, Coordinate{0.5, 179.7}, 1)
	assert.ErrorIs(t, err, ErrNoConvergence)
}
