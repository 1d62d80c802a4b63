package waveio

// Packer accumulates data-lane bytes two at a time into 16-bit words,
// least-significant byte first. It carries exactly one byte of state
// (the pending low byte) between calls.
type Packer struct {
	havePending bool
	pending     byte
}

// Feed consumes one data-lane byte, returning a completed word every
// second call.
func (p *Packer) Feed(b byte) (word uint16, ok bool) {
	if !p.havePending {
		p.pending = b
		p.havePending = true
		return 0, false
	}
	word = uint16(p.pending) | uint16(b)<<8
	p.havePending = false
	return word, true
}

// PackWords packs a data-lane byte slice into 16-bit words. An odd
// trailing byte is dropped; this never happens for host-generated
// streams, which always emit an even number of data bytes.
func PackWords(data []byte) []uint16 {
	out := make([]uint16, 0, len(data)/2)
	var p Packer
	for _, b := range data {
		if w, ok := p.Feed(b); ok {
			out = append(out, w)
		}
	}
	return out
}

// UnpackWords is the inverse of PackWords, used by the host serializer
// to turn 16-bit words back into little-endian bytes before escaping.
func UnpackWords(words []uint16) []byte {
	out := make([]byte, 0, len(words)*2)
	for _, w := range words {
		out = append(out, byte(w), byte(w>>8))
	}
	return out
}
