package geo

import (
	"errors"
	"math"
	"testing"
)

func TestDistanceKm_ZeroDistance(t *testing.T) {
	d := DistanceKm(10, 20, 10, 20)
	if d != 0 {
		t.Fatalf("zero distance expected, got %v", d)
	}
}

func TestDistanceKm_Symmetric(t *testing.T) {
	a := DistanceKm(-6.2088, 106.8456, -6.9175, 107.6191)
	b := DistanceKm(-6.9175, 107.6191, -6.2088, 106.8456)
	if math.Abs(a-b) > 1e-9 {
		t.Fatalf("distance not symmetric: %v vs %v", a, b)
	}
}

func TestDistanceKm_OneDegreeOfLatitude(t *testing.T) {
	// One degree along a meridian is 2*pi*R/360 on a sphere.
	want := 2 * math.Pi * EarthRadiusKm / 360
	got := DistanceKm(0, 0, 1, 0)
	if math.Abs(got-want) > 1e-6 {
		t.Fatalf("DistanceKm(0,0,1,0) = %v, want %v", got, want)
	}
}

func TestETAMinutes(t *testing.T) {
	cases := []struct {
		dist, speed float64
		want        int
	}{
		{0, 50, 0},
		{50, 50, 60},
		{10, 50, 12},
		{10.01, 50, 13},
		{1, 60, 1},
	}
	for _, c := range cases {
		got, err := ETAMinutes(c.dist, c.speed)
		if err != nil {
			t.Fatalf("ETAMinutes(%v, %v): %v", c.dist, c.speed, err)
		}
		if got != c.want {
			t.Fatalf("ETAMinutes(%v, %v) = %d, want %d", c.dist, c.speed, got, c.want)
		}
	}
}

func TestETAMinutes_RejectsNonPositiveSpeed(t *testing.T) {
	for _, speed := range []float64{0, -10} {
		if _, err := ETAMinutes(5, speed); !errors.Is(err, ErrInvalidSpeed) {
			t.Fatalf("speed %v: expected ErrInvalidSpeed, got %v", speed, err)
		}
	}
}

func TestETAMinutesDefault_Uses50Kmh(t *testing.T) {
	if got := ETAMinutesDefault(25); got != 30 {
		t.Fatalf("ETAMinutesDefault(25) = %d, want 30", got)
	}
}

func TestBatteryConsumption(t *testing.T) {
	if got := BatteryConsumption(10, 2); got != 21 {
		t.Fatalf("BatteryConsumption(10, 2) = %v, want 21", got)
	}
	if got := BatteryConsumption(0, 0); got != 0 {
		t.Fatalf("BatteryConsumption(0, 0) = %v, want 0", got)
	}
}

func TestWithinRadiusKm_Boundary(t *testing.T) {
	a := Point{Lat: 0, Lng: 0}
	near := Point{Lat: 0, Lng: 0.0001} // ~11 m
	far := Point{Lat: 0, Lng: 0.01}    // ~1.1 km
	if !WithinRadiusKm(a, near, ArrivalRadiusKm) {
		t.Fatalf("expected points to be within radius")
	}
	if WithinRadiusKm(a, far, ArrivalRadiusKm) {
		t.Fatalf("expected points to be outside radius")
	}
}

func TestPointValid(t *testing.T) {
	if !(Point{Lat: 45, Lng: -120}).Valid() {
		t.Fatalf("expected valid point")
	}
	for _, p := range []Point{{Lat: 91}, {Lng: 181}, {Lat: math.NaN()}, {Lng: math.Inf(1)}} {
		if p.Valid() {
			t.Fatalf("expected %+v to be invalid", p)
		}
	}
}
