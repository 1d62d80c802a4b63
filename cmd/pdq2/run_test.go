package main

import "testing"

func TestQuantizeTimesRoundsAndChecksMonotonic(t *testing.T) {
	ticks, err := quantizeTimes([]float64{0, 1e-6, 2e-6}, 50e6)
	if err != nil {
		t.Fatalf("quantizeTimes: %v", err)
	}
	want := []int64{0, 50, 100}
	for i := range want {
		if ticks[i] != want[i] {
			t.Fatalf("ticks[%d] = %d, want %d", i, ticks[i], want[i])
		}
	}
}

func TestQuantizeTimesRejectsNonMonotonic(t *testing.T) {
	if _, err := quantizeTimes([]float64{0, 1e-9, 1e-9}, 50e6); err == nil {
		t.Fatal("expected error: two samples quantize to the same tick")
	}
}

func TestScaleVoltagesClipsToFullScale(t *testing.T) {
	got := scaleVoltages([]float64{0, 10, -10, 20, -20}, 10)
	want := []float64{0, 1 << 15, -(1 << 15), 1 << 15, -(1 << 15)}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got[%d] = %g, want %g", i, got[i], want[i])
		}
	}
}

func TestParseRunFlagsDefaults(t *testing.T) {
	rf, err := parseRunFlags([]string{"--serial", "tcp://localhost:9999"})
	if err != nil {
		t.Fatalf("parseRunFlags: %v", err)
	}
	if rf.order != 3 {
		t.Fatalf("default order = %d, want 3", rf.order)
	}
	if rf.channel != 0 || rf.frame != 0 {
		t.Fatalf("default channel/frame = %d/%d, want 0/0", rf.channel, rf.frame)
	}
}

func TestParseRunFlagsOverrides(t *testing.T) {
	rf, err := parseRunFlags([]string{"--channel", "4", "--frame", "2", "--order", "1", "--disarm", "--free"})
	if err != nil {
		t.Fatalf("parseRunFlags: %v", err)
	}
	if rf.channel != 4 || rf.frame != 2 || rf.order != 1 {
		t.Fatalf("rf = %+v", rf)
	}
	if !rf.disarm || !rf.free {
		t.Fatalf("rf = %+v, want disarm and free set", rf)
	}
}
