package channel

import "github.com/nist-ionstorage/pdq2/internal/lineformat"

type parserState int

const (
	parserJump parserState = iota
	parserFrame
	parserHeader
	parserDT
	parserLine
	parserSTB
)

// Parser walks one channel's jump table and frame table and emits
// fully-assembled Lines into a FIFO, per spec.md §4.5.
//
// States: JUMP waits for `start` with the read address following the
// external `frame` selector; FRAME latches the jump-table entry (or
// bounces back to JUMP if it's the sentinel 0); HEADER latches the Line
// header word; DT latches the dt word — a state the prose FSM omits
// but the wire layout (header, dt, data...) and the original gateware's
// dedicated DT read both require; LINE reads the header's declared
// number of data words; STB holds the assembled Line for the Sequencer
// to acknowledge via FIFO pop.
type Parser struct {
	mem *Memory
	out *LineFIFO

	state    parserState
	readAddr uint16

	header   lineformat.Header
	dt       uint16
	dataRead int
	pending  lineformat.Line
}

// NewParser returns a Parser reading from mem and emitting into out.
func NewParser(mem *Memory, out *LineFIFO) *Parser {
	return &Parser{mem: mem, out: out}
}

// Reset returns the Parser to JUMP, as happens on the device-wide
// reset pulse. In-flight Lines are dropped, matching spec.md §7's
// recovery policy.
func (p *Parser) Reset() {
	p.state = parserJump
	p.readAddr = 0
	p.dataRead = 0
	p.pending = lineformat.Line{}
}

// Step advances the Parser by one clock cycle given the current
// external arm/start/frame levels. frame selects a jump-table index in
// 0..JumpTableSize-1.
func (p *Parser) Step(arm, start bool, frame int) {
	switch p.state {
	case parserJump:
		p.readAddr = uint16(frame)
		if start {
			p.state = parserFrame
		}

	case parserFrame:
		entry := p.mem.ReadWord(p.readAddr)
		if entry == 0 {
			p.state = parserJump
			return
		}
		p.readAddr = entry
		p.state = parserHeader

	case parserHeader:
		p.header = lineformat.DecodeHeader(p.mem.ReadWord(p.readAddr))
		p.readAddr++
		p.state = parserDT

	case parserDT:
		p.dt = p.mem.ReadWord(p.readAddr)
		p.readAddr++
		p.dataRead = 0
		if p.header.Length == 0 {
			p.state = parserSTB
			return
		}
		p.state = parserLine

	case parserLine:
		p.pending.Data[p.dataRead] = p.mem.ReadWord(p.readAddr)
		p.readAddr++
		p.dataRead++
		if p.dataRead == int(p.header.Length) {
			p.state = parserSTB
		}

	case parserSTB:
		if !arm {
			p.state = parserJump
			return
		}
		p.pending.Header = p.header
		p.pending.Dt = p.dt
		if p.out.TryPush(p.pending) {
			p.pending = lineformat.Line{}
			if p.header.End {
				p.state = parserJump
			} else {
				p.state = parserHeader
			}
		}
		// FIFO full: hold in STB and retry next cycle (back-pressure).
	}
}

// Strobing reports whether the Parser currently holds an assembled
// Line pending Sequencer acknowledgment.
func (p *Parser) Strobing() bool { return p.state == parserSTB }
