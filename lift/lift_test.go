package lift

import (
	"math"
	"math/rand"
	"testing"
)

func mustNew(t *testing.T, p Params) *Machine {
	t.Helper()
	m, err := New(p, true)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return m
}

func TestRampIsLinearAndCapped(t *testing.T) {
	p := Params{Max: 100, Speed: 7, Decay: 0.99}
	for n := 0; n <= 30; n++ {
		m := mustNew(t, p)
		for i := 0; i < n; i++ {
			m.Step(true)
		}
		want := math.Min(p.Max, float64(n)*p.Speed)
		if math.Abs(m.Value()-want) > 1e-9 {
			t.Errorf("after %d pressed frames: got %f, want %f", n, m.Value(), want)
		}
	}
}

func TestDecayIsExponential(t *testing.T) {
	p := Params{Max: 100, Speed: 100, Decay: 0.95}
	m := mustNew(t, p)
	m.Step(true)
	start := m.Value()

	for n := 1; n <= 200; n++ {
		m.Step(false)
		want := start * math.Pow(p.Decay, float64(n))
		if math.Abs(m.Value()-want) > 1e-9 {
			t.Fatalf("after %d released frames: got %g, want %g", n, m.Value(), want)
		}
	}
}

func TestAlwaysWithinBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for trial := 0; trial < 50; trial++ {
		p := Params{
			Max:   rng.Float64() * 500,
			Speed: 0.01 + rng.Float64()*50,
			Decay: 0.01 + rng.Float64()*0.98,
		}
		m := mustNew(t, p)
		for i := 0; i < 500; i++ {
			v := m.Step(rng.Intn(2) == 0)
			if v < 0 || v > p.Max {
				t.Fatalf("lift %f outside [0,%f] with params %+v", v, p.Max, p)
			}
		}
	}
}

func TestDisabledPinnedAtZero(t *testing.T) {
	m, err := New(Params{Max: 100, Speed: 10, Decay: 0.9}, false)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10; i++ {
		if v := m.Step(true); v != 0 {
			t.Fatalf("disabled machine returned %f", v)
		}
	}
}

func TestValidate(t *testing.T) {
	bad := []Params{
		{Max: -1, Speed: 1, Decay: 0.5},
		{Max: 1, Speed: 0, Decay: 0.5},
		{Max: 1, Speed: 1, Decay: 0},
		{Max: 1, Speed: 1, Decay: 1},
	}
	for _, p := range bad {
		if _, err := New(p, true); err == nil {
			t.Errorf("expected error for %+v", p)
		}
	}
}
