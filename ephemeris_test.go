package astroreturn

import (
	"math"
	"testing"
	"time"
)

func TestEphemeris_KnownBodies(t *testing.T) {
	eph := Ephemeris{}
	at := InstantOf(time.Date(2025, time.June, 21, 2, 42, 0, 0, time.UTC)) // June solstice

	for _, b := range DefaultCatalog().Bodies() {
		lon, err := eph.Longitude(b.ID, at)
		if err != nil {
			t.Errorf("%s: %v", b.ID, err)
			continue
		}
		if lon < 0 || lon >= 360 || math.IsNaN(lon) {
			t.Errorf("%s: longitude %v out of range", b.ID, lon)
		}
	}

	sun, _ := eph.Longitude("SUN", at)
	if math.Abs(AngularDelta(sun, 90)) > 0.05 {
		t.Errorf("sun at solstice = %.4f, want 90", sun)
	}
}

func TestEphemeris_PhaseIsElongation(t *testing.T) {
	eph := Ephemeris{}
	at := jan1(2025)

	sun, _ := eph.Longitude("sun", at)
	moon, _ := eph.Longitude("moon", at)
	phase, err := eph.Longitude("phase", at)
	if err != nil {
		t.Fatal(err)
	}
	if d := math.Abs(AngularDelta(moon-sun, phase)); d > 1e-9 {
		t.Errorf("phase %.6f, moon-sun %.6f", phase, moon-sun)
	}
}

func TestEphemeris_Unknown(t *testing.T) {
	if _, err := (Ephemeris{}).Longitude("earth", jan1(2025)); err == nil {
		t.Error("earth is not a geocentric body and should be unknown")
	}
	if _, err := (Ephemeris{}).Longitude("ceres", jan1(2025)); err == nil {
		t.Error("ceres has no built-in model")
	}
}
