package channel

import "github.com/nist-ionstorage/pdq2/internal/lineformat"

// LineFIFO is the small, order-preserving queue spec.md §3/§4.5 puts
// between a channel's Parser and its Sequencer. Ownership of each Line
// transfers exclusively from producer to consumer: once popped, a Line
// is never touched by the Parser again.
type LineFIFO struct {
	buf   []lineformat.Line
	depth int
}

// NewLineFIFO returns an empty FIFO with the given capacity.
func NewLineFIFO(depth int) *LineFIFO {
	return &LineFIFO{depth: depth}
}

// TryPush attempts to enqueue a Line, reporting whether there was room.
// A full FIFO is the mechanism by which the Sequencer back-pressures
// the Parser's STB state.
func (f *LineFIFO) TryPush(l lineformat.Line) bool {
	if len(f.buf) >= f.depth {
		return false
	}
	f.buf = append(f.buf, l)
	return true
}

// TryPop dequeues the oldest Line, reporting whether one was available.
func (f *LineFIFO) TryPop() (lineformat.Line, bool) {
	if len(f.buf) == 0 {
		return lineformat.Line{}, false
	}
	l := f.buf[0]
	f.buf = f.buf[1:]
	return l, true
}

// Peek reports the oldest queued Line without dequeuing it. The
// Sequencer uses this to inspect an incoming Line's trigger flag
// before it decides whether to accept it.
func (f *LineFIFO) Peek() (lineformat.Line, bool) {
	if len(f.buf) == 0 {
		return lineformat.Line{}, false
	}
	return f.buf[0], true
}

// Len reports the number of Lines currently queued.
func (f *LineFIFO) Len() int { return len(f.buf) }
