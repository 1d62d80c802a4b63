package seqengine

import "github.com/nist-ionstorage/pdq2/internal/lineformat"

// VoltEngine is the bias-DC spline engine: four 48-bit accumulators
// implementing a cubic Taylor expansion via repeated addition, per
// spec.md §4.6.1.
type VoltEngine struct {
	v [4]uint64
}

// Load reloads the engine's accumulators from a newly-accepted Line's
// data words, on `stb`.
func (e *VoltEngine) Load(data [lineformat.MaxDataWords]uint16, length uint8) {
	e.v, _ = loadCoeffs(data, length)
}

// Advance evolves the accumulators by one dilated tick, on `inc`.
func (e *VoltEngine) Advance() {
	e.v[0] = (e.v[0] + e.v[1]) & mask48
	e.v[1] = (e.v[1] + e.v[2]) & mask48
	e.v[2] = (e.v[2] + e.v[3]) & mask48
}

// Output returns the current sample: the high 16 bits of v[0],
// reinterpreted as a signed value.
func (e *VoltEngine) Output() int16 {
	return int16(uint16(e.v[0] >> 32))
}
