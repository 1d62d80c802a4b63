package seqengine

import "github.com/nist-ionstorage/pdq2/internal/lineformat"

// DdsEngine is the quadrature-sine spline engine: a cubic amplitude
// spline (x[0..3], identical in structure to VoltEngine) driving a
// CORDIC rotator at a frequency/chirp phase evolved by z[0..2] plus a
// free-running instantaneous-frequency accumulator za, per spec.md
// §4.6.2.
type DdsEngine struct {
	x  [4]uint64
	z  [3]uint32
	za uint32
}

// Load reloads the amplitude and phase accumulators from a newly
// accepted Line's data words, on `stb`. If clear is set (the Line
// header's `clear` bit), the free-running za accumulator is zeroed
// too, producing bit-identical phase across consecutive identical
// Lines (spec.md §8 scenario 6).
func (e *DdsEngine) Load(data [lineformat.MaxDataWords]uint16, length uint8, clear bool) {
	x, consumed := loadCoeffs(data, length)
	e.x = x
	e.z = loadPhase(data, length, consumed)
	if clear {
		e.za = 0
	}
}

// Advance evolves the amplitude spline and chirp rate by one dilated
// tick, on `inc`.
func (e *DdsEngine) Advance() {
	e.x[0] = (e.x[0] + e.x[1]) & mask48
	e.x[1] = (e.x[1] + e.x[2]) & mask48
	e.x[2] = (e.x[2] + e.x[3]) & mask48
	e.z[1] += e.z[2]
}

// Tick advances the free-running instantaneous-frequency accumulator.
// Call every raw cycle, independent of `inc`.
func (e *DdsEngine) Tick() {
	e.za += e.z[1]
}

// Output evaluates the CORDIC rotator at the engine's current
// amplitude and phase. Per spec.md §4.6.2, zi is the sum of the
// free-running frequency phase and the chirp phase, each truncated to
// their register's high 16 bits before summing; the result is
// re-aligned to the rotator's full-width angle representation by
// restoring the truncated low bits as zero.
func (e *DdsEngine) Output() int16 {
	xi := int32(int16(uint16(e.x[0] >> 32)))
	coarse := (e.za >> 16) + (e.z[0] >> 16)
	zi := coarse << 16
	return cordicRotate(xi, 0, zi)
}
