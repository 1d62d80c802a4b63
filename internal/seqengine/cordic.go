// Package seqengine implements the per-channel Sequencer: the Volt
// (bias spline) and Dds (quadrature spline) engines it owns, and the
// CORDIC rotator the Dds engine drives.
//
// Grounded on spec.md §4.6 and §9, a redesign of the original gateware
// Sequencer in original_source/dac.py (its Volt/Dds submodules) onto
// the CORDIC primitive from the same file's migen.genlib.cordic import
// — reimplemented here as a fixed-point rotation-mode circular CORDIC
// rather than imported, since no Go CORDIC library appears anywhere in
// the retrieval pack.
package seqengine

// cordicIterations is both the rotator's pipeline depth and its output
// width in bits, per spec.md §9 ("16-bit pipelined CORDIC rotator").
const cordicIterations = 16

// atanTable holds atan(2^-i) in Q0.32 turns (a full turn is 1<<32) for
// i in 0..cordicIterations-1, precomputed offline.
var atanTable = [cordicIterations]uint32{
	0x20000000,
	0x12E4051E,
	0x09FB385B,
	0x051111D4,
	0x028B0D43,
	0x0145D7E1,
	0x00A2F61E,
	0x00517C55,
	0x0028BE53,
	0x00145F2F,
	0x000A2F98,
	0x000517CC,
	0x00028BE6,
	0x000145F3,
	0x0000A2FA,
	0x0000517D,
}

// CordicGain is the rotator's intrinsic magnitude gain after
// cordicIterations iterations. The host serializer pre-scales Dds
// amplitude coefficients by 1/CordicGain so the device's commanded
// amplitude is bit-accurate; see internal/waveform's DDS.
const CordicGain = 1.6467602578654548

// cordicRotate evaluates one pipelined CORDIC rotation: xi, yi rotated
// by angle zi (Q0.32 turns), scaled by CordicGain. Returns the rotated
// x component as a signed 16-bit value, matching the Dds engine's only
// observable output (yo is never consumed per spec.md §4.6.2).
func cordicRotate(xi, yi int32, zi uint32) int16 {
	// The rotation runs with cordicGuardBits extra fraction bits and the
	// result is rounded back, so the per-iteration shift truncation does
	// not accumulate into the 16-bit output.
	const cordicGuardBits = 16
	x, y := int64(xi)<<cordicGuardBits, int64(yi)<<cordicGuardBits
	z := int32(zi)

	// The iterative loop below only converges for |z| <= ~100 degrees
	// (the sum of the atan table). Pre-rotate by a quadrant so the
	// residual angle always falls within that range, letting the
	// rotator cover the full circle.
	const quarterTurn int32 = 1 << 30 // +90 degrees in Q0.32 turns
	const halfTurn int32 = -1 << 31   // +-180 degrees: self-inverse mod 2^32
	if z > quarterTurn || z < -quarterTurn {
		x, y = -x, -y
		z += halfTurn
	}

	for i := 0; i < cordicIterations; i++ {
		dx := x >> uint(i)
		dy := y >> uint(i)
		if z >= 0 {
			x -= dy
			y += dx
			z -= int32(atanTable[i])
		} else {
			x += dy
			y -= dx
			z += int32(atanTable[i])
		}
	}
	return int16((x + 1<<(cordicGuardBits-1)) >> cordicGuardBits)
}
