package geo

import (
	"errors"
	"math"
)

var (
	ErrInvalidCoordinate = errors.New("invalid coordinate")
	ErrNoConvergence     = errors.New("distance formula failed to converge")
)

// WGS-84 ellipsoid
const (
	semiMajorAxis = 6378137.0
	semiMinorAxis = 6356752.314245
	flattening    = 1 / 298.257223563

	maxIterations = 200
)

// Coordinate is a latitude/longitude pair in decimal degrees
type Coordinate struct {
	Latitude  float64
	Longitude float64
}

// Valid reports whether the coordinate lies within the usual degree ranges
func (c Coordinate) Valid() bool {
	if math.IsNaN(c.Latitude) || math.IsNaN(c.Longitude) {
		return false
	}
	return c.Latitude >= -90 && c.Latitude <= 90 && c.Longitude >= -180 && c.Longitude <= 180
}

// Distance returns the great-circle distance in meters between a and b on the
// WGS-84 ellipsoid (Vincenty inverse formula), rounded to the given precision.
// A precision <= 0 means 1 meter.
func Distance(a, b Coordinate, precisionMeters float64) (float64, error) {
	if !a.Valid() || !b.Valid() {
		return 0, ErrInvalidCoordinate
	}
	if precisionMeters <= 0 {
		precisionMeters = 1
	}

	l := toRadians(b.Longitude - a.Longitude)
	u1 := math.Atan((1 - flattening) * math.Tan(toRadians(a.Latitude)))
	u2 := math.Atan((1 - flattening) * math.Tan(toRadians(b.Latitude)))
	sinU1, cosU1 := math.Sin(u1), math.Cos(u1)
	sinU2, cosU2 := math.Sin(u2), math.Cos(u2)

	lambda := l
	var sinSigma, cosSigma, sigma, cosSqAlpha, cos2SigmaM float64
	converged := false
	for i := 0; i < maxIterations; i++ {
		sinLambda, cosLambda := math.Sin(lambda), math.Cos(lambda)
		sinSigma = math.Sqrt((cosU2*sinLambda)*(cosU2*sinLambda) +
			(cosU1*sinU2-sinU1*cosU2*cosLambda)*(cosU1*sinU2-sinU1*cosU2*cosLambda))
		if sinSigma == 0 {
			// coincident points
			return 0, nil
		}
		cosSigma = sinU1*sinU2 + cosU1*cosU2*cosLambda
		sigma = math.Atan2(sinSigma, cosSigma)
		sinAlpha := cosU1 * cosU2 * sinLambda / sinSigma
		cosSqAlpha = 1 - sinAlpha*sinAlpha
		if cosSqAlpha != 0 {
			cos2SigmaM = cosSigma - 2*sinU1*sinU2/cosSqAlpha
		} else {
			// both points on the equator
			cos2SigmaM = 0
		}
		c := flattening / 16 * cosSqAlpha * (4 + flattening*(4-3*cosSqAlpha))
		prev := lambda
		lambda = l + (1-c)*flattening*sinAlpha*
			(sigma+c*sinSigma*(cos2SigmaM+c*cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)))
		if math.Abs(lambda-prev) < 1e-12 {
			converged = true
			break
		}
	}
	if !converged {
		return 0, ErrNoConvergence
	}

	uSq := cosSqAlpha * (semiMajorAxis*semiMajorAxis - semiMinorAxis*semiMinorAxis) / (semiMinorAxis * semiMinorAxis)
	bigA := 1 + uSq/16384*(4096+uSq*(-768+uSq*(320-175*uSq)))
	bigB := uSq / 1024 * (256 + uSq*(-128+uSq*(74-47*uSq)))
	deltaSigma := bigB * sinSigma * (cos2SigmaM + bigB/4*(cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)-
		bigB/6*cos2SigmaM*(-3+4*sinSigma*sinSigma)*(-3+4*cos2SigmaM*cos2SigmaM)))
	meters := semiMinorAxis * bigA * (sigma - deltaSigma)

	return math.Round(meters/precisionMeters) * precisionMeters, nil
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
