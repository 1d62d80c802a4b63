package seqengine

import "github.com/nist-ionstorage/pdq2/internal/lineformat"

// LineSource is the narrow pull interface the Sequencer needs from a
// channel's Parser FIFO: pop the next Line, or peek at it without
// consuming it (needed to inspect an incoming Line's trigger flag
// before deciding whether to accept it).
type LineSource interface {
	TryPop() (lineformat.Line, bool)
	Peek() (lineformat.Line, bool)
}

// Sequencer drives one channel's DAC output, one sample per clock, by
// walking the dt/dt_dec timing registers of spec.md §4.6 and summing
// the Volt and Dds engines' outputs.
type Sequencer struct {
	in LineSource

	line     lineformat.Line
	dt       uint16 // elapsed dilated ticks within the current line
	dtDec    uint16 // elapsed raw cycles within the current dilated tick
	dtEnd    uint16 // dt_dec wraps at this value: 2^shift - 1
	toc0     bool   // registered previous value of toc

	volt VoltEngine
	dds  DdsEngine

	sample int16 // registered output, one cycle of latency behind the engines
}

// New returns a Sequencer pulling Lines from in.
func New(in LineSource) *Sequencer {
	return &Sequencer{in: in}
}

// Reset returns the Sequencer to its post-RESET state: no Line loaded,
// both engines' accumulators at zero, matching spec.md §7's recovery
// policy (RESET drops all Lines in flight).
func (s *Sequencer) Reset() {
	*s = Sequencer{in: s.in}
}

// Step advances the Sequencer by one clock cycle. arm and trigger are
// the global Ctrl levels. The Dds free-running accumulator runs every
// cycle regardless of arm, per spec.md §4.6.2; the dt/dt_dec counters
// and the spline engines only evolve while armed.
func (s *Sequencer) Step(arm, trigger bool) {
	s.dds.Tick()

	tic := s.dtDec == s.dtEnd
	toc := s.dt == s.line.Dt

	nextLine, havePeek := s.in.Peek()
	adv := arm && havePeek && (trigger || !(s.line.Header.Wait || nextLine.Header.Trigger))
	stb := tic && toc && adv
	inc := arm && tic && (!toc || (!s.toc0 && !adv))

	out := s.volt.Output() + s.dds.Output()
	s.sample = out

	if inc {
		s.volt.Advance()
		s.dds.Advance()
	}

	if arm {
		if tic {
			s.dtDec = 0
		} else {
			s.dtDec++
		}
		switch {
		case stb:
			s.dt = 0
		case tic && !toc:
			s.dt++
		}
		s.toc0 = toc
	}

	if stb {
		line, _ := s.in.TryPop()
		s.loadLine(line)
	}
}

func (s *Sequencer) loadLine(line lineformat.Line) {
	// dt is internally counted from 0, and toc fires when dt reaches
	// the stored target; the wire dt is the number of dilated ticks to
	// run, so the target must be dt-1 to make toc fire after exactly
	// wire-dt ticks, matching the gateware's `line.dt.eq(lp.dt - 1)`.
	line.Dt--
	s.line = line
	s.dt = 0
	s.dtDec = 0
	s.dtEnd = uint16(1<<line.Header.Shift) - 1
	s.toc0 = false

	// typ selects exactly one engine; the other's accumulators are
	// zeroed so the unconditional sum in Step's Output computation
	// reflects only the active engine, per spec.md §4.6.
	voltLength, ddsLength := uint8(0), uint8(0)
	switch line.Header.Typ {
	case lineformat.TypBias:
		voltLength = line.Header.Length
	case lineformat.TypDDS:
		ddsLength = line.Header.Length
	}
	s.volt.Load(line.Data, voltLength)
	s.dds.Load(line.Data, ddsLength, line.Header.Clear)
}

// Output returns the registered DAC sample for this cycle.
func (s *Sequencer) Output() int16 { return s.sample }

// Aux and Silence report the currently-loaded Line's header flags.
func (s *Sequencer) Aux() bool     { return s.line.Header.Aux }
func (s *Sequencer) Silence() bool { return s.line.Header.Silence }
