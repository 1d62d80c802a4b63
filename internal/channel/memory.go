// Package channel implements one channel's waveform memory and its
// Parser: the state machine that walks the jump table and frame table
// and hands fully-assembled Lines to the Sequencer.
//
// Grounded on spec.md §3 and §4.5, redesigned from the jump-table
// walk in original_source/dac.py's Parser module (including its
// separate DT read state, absent from the prose FSM description but
// present in the wire layout of spec.md §6 and in the original
// gateware — see the DESIGN.md entry for this package).
package channel

// JumpTableSize is the fixed number of frame-select entries at the
// start of every channel memory.
const JumpTableSize = 8

// Standard per-channel memory sizes, one per DAC channel, matching the
// original hardware's three distinct memory depths.
const (
	MemorySizeChannel0 = 8192
	MemorySizeChannel1 = 8192
	MemorySizeChannel2 = 4096
)

// Memory is a flat word-addressable waveform memory. It implements
// memwriter.Memory so a MemWriter can steer writes into it, and
// exposes ReadWord for the Parser's exclusive read port.
type Memory struct {
	words []uint16
}

// NewMemory allocates a channel memory of the given size in words.
func NewMemory(size int) *Memory {
	return &Memory{words: make([]uint16, size)}
}

// WriteWord implements memwriter.Memory. Out-of-range addresses are
// silently dropped, matching real hardware where the address lines
// simply don't decode to anything.
func (m *Memory) WriteWord(addr uint16, value uint16) {
	if int(addr) < len(m.words) {
		m.words[addr] = value
	}
}

// ReadWord reads one word from the Parser's exclusive read port.
func (m *Memory) ReadWord(addr uint16) uint16 {
	if int(addr) >= len(m.words) {
		return 0
	}
	return m.words[addr]
}

// Len reports the memory's size in words.
func (m *Memory) Len() int { return len(m.words) }
