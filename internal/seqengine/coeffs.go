package seqengine

import "github.com/nist-ionstorage/pdq2/internal/lineformat"

const mask48 = (uint64(1) << 48) - 1

// coeffWidths is the number of consecutive 16-bit words each of the
// four spline coefficients occupies on the wire: the constant term is
// 16 bits, the first derivative 32, the second and third 48 each. Per
// spec.md §4.6.1/§4.6.2, the combined coefficient words land in the
// high bits of v[0..3] (or x[0..3]) respectively.
var coeffWidths = [4]int{1, 2, 3, 3}

// loadCoeffs reads up to four spline coefficients packed back-to-back
// starting at data[0], stopping when fewer words than a coefficient
// needs remain in length — a Line need not carry every derivative.
// Each returned value occupies the high bits of a 48-bit accumulator,
// per the coefficient's wire width (16/32/48/48 bits).
func loadCoeffs(data [lineformat.MaxDataWords]uint16, length uint8) ([4]uint64, int) {
	var coeffs [4]uint64
	pos := 0
	shiftInto48 := [4]uint{32, 16, 0, 0}
	for i := 0; i < 4; i++ {
		w := coeffWidths[i]
		if pos+w > int(length) {
			break
		}
		var raw uint64
		for j := 0; j < w; j++ {
			raw |= uint64(data[pos+j]) << uint(16*j)
		}
		coeffs[i] = (raw << shiftInto48[i]) & mask48
		pos += w
	}
	return coeffs, pos
}

// loadPhase reads the Dds engine's three phase-accumulator coefficients
// (z[0] shifted into the high 16 bits of its 32-bit register, z[1] and
// z[2] occupying their full 32-bit registers) from the words following
// the amplitude coefficients loadCoeffs already consumed.
func loadPhase(data [lineformat.MaxDataWords]uint16, length uint8, start int) [3]uint32 {
	var z [3]uint32
	pos := start
	if pos+1 <= int(length) {
		z[0] = uint32(data[pos]) << 16
		pos++
	}
	if pos+2 <= int(length) {
		z[1] = uint32(data[pos]) | uint32(data[pos+1])<<16
		pos += 2
	}
	if pos+2 <= int(length) {
		z[2] = uint32(data[pos]) | uint32(data[pos+1])<<16
		pos += 2
	}
	return z
}
