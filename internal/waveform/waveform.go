// Package waveform implements the host-side half of spec.md §4.7: it
// turns (t, v[, phase, frequency]) sample arrays into the Line
// sequences a channel memory holds, using internal/spline for the
// derivative fit and internal/lineformat for the wire layout.
//
// Grounded on original_source/host/pdq2.py's Segment class (line,
// pack, lines, interpolate, dac, dds): the same per-line first/mid/last
// flag overrides, the same widths-per-coefficient packing, and the
// same terminating "stop" line holding the final sample so playback
// does not drift once the spline runs out.
package waveform

import (
	"fmt"
	"math"

	"github.com/nist-ionstorage/pdq2/internal/lineformat"
	"github.com/nist-ionstorage/pdq2/internal/seqengine"
	"github.com/nist-ionstorage/pdq2/internal/spline"
)

// LineOptions mirrors pdq2.py's first={}/mid={}/last={} dicts: the
// per-line flag overrides applied to the first, interior, and final
// Line of a segment.
type LineOptions struct {
	Trigger bool
	Silence bool
	Aux     bool
	End     bool
	Clear   bool
	Wait    bool
}

func (o LineOptions) apply(h *lineformat.Header) {
	h.Trigger = o.Trigger
	h.Silence = o.Silence
	h.Aux = o.Aux
	h.End = o.End
	h.Clear = o.Clear
	h.Wait = o.Wait
}

// biasWidths/ddsPhaseWidths are the coefficient widths, in 16-bit
// words, packed into a Line's data — these must match the Sequencer's
// load order exactly (internal/seqengine/coeffs.go's coeffWidths and
// loadPhase): the constant term is 1 word, the first derivative 2, the
// second and third 3 each; the DDS phase chain is 1+2+2 words.
var (
	biasWidths     = [4]int{1, 2, 3, 3}
	ddsPhaseWidths = [3]int{1, 2, 2}
)

const maxDt = 1<<16 - 1

// Segment is the ordered sequence of Lines implementing one waveform
// stretch on one channel.
type Segment struct {
	Lines []lineformat.Line
}

// Bias builds a typ=0 (bias spline) Segment through sample times t
// (strictly increasing, in dilated ticks) and values v, order in 0..3.
// first/mid/last are applied to the first, interior, and final Line;
// when stop is true a terminating Line holding v's last value is
// appended and takes the last flags instead.
func Bias(t []int64, v []float64, order int, shift uint8, first, mid, last LineOptions, stop bool) (*Segment, error) {
	tf := make([]float64, len(t))
	for i, ti := range t {
		tf[i] = float64(ti)
	}
	derivs, err := spline.Fit(tf, v, order)
	if err != nil {
		return nil, fmt.Errorf("waveform: bias segment: %w", err)
	}

	seg := &Segment{}
	n := len(derivs)
	for i, d := range derivs {
		dt := t[i+1] - t[i]
		if dt < 1 || dt > maxDt {
			return nil, fmt.Errorf("waveform: line %d duration %d out of range 1..%d", i, dt, maxDt)
		}
		scaled := scale(d, order, biasWidths[:])
		data := packWords(scaled, biasWidths[:order+1])

		opts := mid
		if i == 0 {
			opts = first
		} else if i == n-1 && !stop {
			opts = last
		}
		seg.Lines = append(seg.Lines, buildLine(lineformat.TypBias, uint16(dt), shift, data, opts))
	}
	if stop {
		data := packWords([]int64{int64(math.Round(v[len(v)-1]))}, []int{1})
		seg.Lines = append(seg.Lines, buildLine(lineformat.TypBias, 2, shift, data, last))
	}
	return seg, nil
}

// DDS builds a typ=1 (quadrature spline) Segment: an amplitude spline
// identical in structure to Bias, plus an optional phase series p and
// frequency series f evaluated with a first-order (value + rate) fit,
// matching pdq2.py's dds().
func DDS(t []int64, v, p, f []float64, order int, shift uint8, first, mid, last LineOptions, stop bool) (*Segment, error) {
	if order < 3 && p != nil {
		return nil, fmt.Errorf("waveform: dds segment: phase series requires order 3, got %d", order)
	}
	tf := make([]float64, len(t))
	for i, ti := range t {
		tf[i] = float64(ti)
	}
	// Amplitudes are pre-divided by the CORDIC rotator's gain so the
	// device's rotated output lands on the commanded value.
	amp := make([]float64, len(v))
	for i, vi := range v {
		amp[i] = vi / seqengine.CordicGain
	}
	ampDerivs, err := spline.Fit(tf, amp, order)
	if err != nil {
		return nil, fmt.Errorf("waveform: dds segment: amplitude: %w", err)
	}

	var phaseDerivs, freqDerivs []spline.Derivs
	if p != nil {
		phaseDerivs, err = spline.Fit(tf[:len(p)], p, 1)
		if err != nil {
			return nil, fmt.Errorf("waveform: dds segment: phase: %w", err)
		}
		if f != nil {
			freqDerivs, err = spline.Fit(tf[:len(f)], f, 1)
			if err != nil {
				return nil, fmt.Errorf("waveform: dds segment: frequency: %w", err)
			}
		}
	}

	seg := &Segment{}
	n := len(ampDerivs)
	for i, d := range ampDerivs {
		dt := t[i+1] - t[i]
		if dt < 1 || dt > maxDt {
			return nil, fmt.Errorf("waveform: line %d duration %d out of range 1..%d", i, dt, maxDt)
		}
		scaled := scale(d, order, biasWidths[:])
		data := packWords(scaled, biasWidths[:order+1])

		if p != nil {
			// phase is carried as a value only (the accumulator's
			// initial offset), not a rate: one word, width 1.
			phaseVal := round1(phaseDerivs[i][0], ddsPhaseWidths[0])
			data = append(data, packWords([]int64{phaseVal}, []int{ddsPhaseWidths[0]})...)
			if f != nil {
				freqVal := round1(freqDerivs[i][0], ddsPhaseWidths[1])
				chirpVal := round1(freqDerivs[i][1], ddsPhaseWidths[2])
				data = append(data, packWords([]int64{freqVal}, []int{ddsPhaseWidths[1]})...)
				data = append(data, packWords([]int64{chirpVal}, []int{ddsPhaseWidths[2]})...)
			}
		}
		if len(data) > lineformat.MaxDataWords {
			return nil, fmt.Errorf("waveform: line %d needs %d data words, max %d", i, len(data), lineformat.MaxDataWords)
		}

		opts := mid
		if i == 0 {
			opts = first
		} else if i == n-1 && !stop {
			opts = last
		}
		seg.Lines = append(seg.Lines, buildLine(lineformat.TypDDS, uint16(dt), shift, data, opts))
	}
	if stop {
		data := packWords([]int64{int64(math.Round(amp[len(amp)-1]))}, []int{1})
		seg.Lines = append(seg.Lines, buildLine(lineformat.TypDDS, 2, shift, data, last))
	}
	return seg, nil
}

func buildLine(typ lineformat.Typ, dt uint16, shift uint8, data []uint16, opts LineOptions) lineformat.Line {
	h := lineformat.Header{Length: uint8(len(data)), Typ: typ, Shift: shift}
	opts.apply(&h)
	var l lineformat.Line
	l.Header = h
	l.Dt = dt
	copy(l.Data[:], data)
	return l
}

// scale applies spec.md §4.7 step 4: each derivative is scaled by
// 2^(16*(w-1)) where w is its word width, then rounded (step 5).
func scale(d spline.Derivs, order int, widths []int) []int64 {
	out := make([]int64, order+1)
	for i := 0; i <= order; i++ {
		out[i] = round1(d[i], widths[i])
	}
	return out
}

func round1(value float64, width int) int64 {
	return int64(math.Round(value * math.Pow(2, float64(16*(width-1)))))
}

// packWords splits each value into its two's-complement 16-bit little-
// endian words, matching the Sequencer's coefficient load order
// exactly (internal/seqengine/coeffs.go reconstructs the same value by
// OR-ing words back together at 16*j bit offsets).
func packWords(values []int64, widths []int) []uint16 {
	var out []uint16
	for i, v := range values {
		uv := uint64(v)
		for j := 0; j < widths[i]; j++ {
			out = append(out, uint16(uv))
			uv >>= 16
		}
	}
	return out
}
