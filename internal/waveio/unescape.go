// Package waveio implements the framing / escape demultiplexer that
// separates a single inbound byte stream into a bulk-data lane and a
// control-command lane, plus the little-endian byte-to-word packer that
// follows it on the data lane.
//
// Grounded on the PDQ gateware's Unescaper (original_source/escape.py):
// a byte equal to the escape value toggles a one-bit "was escape" state;
// the byte is routed to the data lane when is-escape equals was-escape
// (a literal byte, or the second half of a doubled escape), and to the
// command lane when the previous byte was an unmatched escape.
package waveio

// DefaultEscape is the escape byte used by the PDQ wire protocol.
const DefaultEscape = 0xA5

// Unescaper splits a byte stream into a data lane and a command lane.
// It holds exactly one bit of state (whether the previous byte was an
// unmatched escape byte) and is therefore self-synchronizing: feeding it
// any byte sequence never leaves it in an unrecoverable state.
type Unescaper struct {
	escape    byte
	wasEscape bool
}

// NewUnescaper returns an Unescaper using the given escape byte.
func NewUnescaper(escape byte) *Unescaper {
	return &Unescaper{escape: escape}
}

// Feed processes one inbound byte, reporting whether it produced a data
// byte, a command byte, or neither (the first half of an escape pair).
func (u *Unescaper) Feed(b byte) (data byte, dataOK bool, cmd byte, cmdOK bool) {
	isEscape := b == u.escape
	wasEscape := u.wasEscape

	switch {
	case isEscape == wasEscape:
		// Literal byte on the data lane: either b isn't the escape byte
		// and the previous byte wasn't an unmatched escape, or b is the
		// second escape of a doubled-escape pair (E E -> literal E).
		data, dataOK = b, true
	case isEscape:
		// First byte of a possible escape pair; nothing emitted yet.
	default:
		// Previous byte was an unmatched escape: b is the opcode.
		cmd, cmdOK = b, true
	}

	u.wasEscape = isEscape && !wasEscape
	return data, dataOK, cmd, cmdOK
}

// Split consumes an entire byte stream at once and returns the data lane
// and command lane in full. It is a convenience wrapper around Feed for
// hosts and tests that do not need to interleave with other I/O; the
// device itself processes one byte per clock via Feed.
func Split(escape byte, in []byte) (data []byte, cmd []byte) {
	u := NewUnescaper(escape)
	data = make([]byte, 0, len(in))
	cmd = make([]byte, 0)
	for _, b := range in {
		if d, ok, c, cok := u.Feed(b); ok {
			data = append(data, d)
		} else if cok {
			cmd = append(cmd, c)
		}
	}
	return data, cmd
}

// Escape doubles every occurrence of the escape byte in data so it
// round-trips through Unescaper as literal data. Used by the host
// serializer, never by the device.
func Escape(escape byte, data []byte) []byte {
	out := make([]byte, 0, len(data))
	for _, b := range data {
		if b == escape {
			out = append(out, escape, escape)
		} else {
			out = append(out, b)
		}
	}
	return out
}
