package astroreturn

import (
	"fmt"
	"strings"

	"github.com/thurmanmarka/astroreturn/internal/moon"
	"github.com/thurmanmarka/astroreturn/internal/planets"
	"github.com/thurmanmarka/astroreturn/internal/sun"
	"github.com/thurmanmarka/astroreturn/internal/timeutil"
)

// Ephemeris is the built-in LongitudeProvider. It knows the IDs of the
// built-in bodies (sun, moon, mercury … pluto, phase) and nothing else.
//
// Positions are geocentric, mean equinox of date, from low-precision
// analytic models. It is stateless and safe for concurrent use.
type Ephemeris struct{}

// Longitude implements LongitudeProvider.
func (Ephemeris) Longitude(bodyID string, at Instant) (float64, error) {
	jd := float64(at)

	switch id := strings.ToLower(bodyID); id {
	case Sun.ID:
		return sun.EclipticLongitude(jd), nil
	case Moon.ID:
		return moon.EclipticLongitude(jd), nil
	case LunarPhase.ID:
		return timeutil.Normalize360(moon.EclipticLongitude(jd) - sun.EclipticLongitude(jd)), nil
	default:
		if p, ok := planets.Lookup(id); ok {
			return planets.GeocentricLongitude(p, jd), nil
		}
		return 0, fmt.Errorf("no built-in ephemeris for body %q", bodyID)
	}
}
