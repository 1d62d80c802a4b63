package seqengine

import "testing"

func turns(degrees float64) uint32 {
	return uint32(int64(degrees / 360 * (1 << 32)))
}

func TestCordicRotateKnownAngles(t *testing.T) {
	const xi = 10000
	cases := []struct {
		degrees float64
		wantX   int16
	}{
		{0, 16468},
		{45, 11644},
		{90, 0},
		{180, -16468},
		{-90, 0},
		{-45, 11644},
	}
	for _, c := range cases {
		got := cordicRotate(xi, 0, turns(c.degrees))
		if diff := int(got) - int(c.wantX); diff < -2 || diff > 2 {
			t.Fatalf("cordicRotate(%d, 0, %g deg) = %d, want ~%d", xi, c.degrees, got, c.wantX)
		}
	}
}

func TestCordicRotateZeroAmplitude(t *testing.T) {
	if got := cordicRotate(0, 0, turns(37)); got != 0 {
		t.Fatalf("cordicRotate(0, 0, ...) = %d, want 0", got)
	}
}
