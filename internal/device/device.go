// Package device assembles the per-channel pipelines (Memory -> Parser
// -> LineFIFO -> Sequencer) plus the shared Ctrl block into the
// "faithful software simulator" spec.md §5 calls for: a sequence of
// atomic cycle steps, one per the core's single clock domain, used by
// the test suite to validate spec.md §8's end-to-end properties
// without real hardware.
//
// Each channel is, per spec.md §5, "an independent self-synchronized
// pipeline" with no cross-channel ordering guarantee; this package
// fans each channel's per-cycle Step out across goroutines with
// golang.org/x/sync/errgroup and barriers them before advancing the
// shared Ctrl state, mirroring the concurrent-subsystem wiring style
// the teacher uses for its own independent backends (and the same
// errgroup-fan-out-per-unit pattern other_examples' go-lpc/mim eda
// device driver uses to send per-RFM DAQ buffers concurrently).
package device

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/nist-ionstorage/pdq2/internal/channel"
	"github.com/nist-ionstorage/pdq2/internal/ctrlbus"
	"github.com/nist-ionstorage/pdq2/internal/memwriter"
	"github.com/nist-ionstorage/pdq2/internal/seqengine"
)

// NumChannels is the device's fixed channel count (three DACs).
const NumChannels = 3

// MemorySizes holds the per-channel memory depth, matching the
// original hardware's three distinct sizes (spec.md §3).
var MemorySizes = [NumChannels]int{
	channel.MemorySizeChannel0,
	channel.MemorySizeChannel1,
	channel.MemorySizeChannel2,
}

// chanPipeline bundles one channel's exclusively-owned resources: its
// memory, Parser, LineFIFO, and Sequencer.
type chanPipeline struct {
	mem  *channel.Memory
	fifo *channel.LineFIFO
	p    *channel.Parser
	s    *seqengine.Sequencer
}

// FIFODepth is the LineFIFO capacity between a channel's Parser and
// its Sequencer.
const FIFODepth = 4

// Device is the whole-system simulator: three independent channel
// pipelines sharing one Ctrl block and one MemWriter write capability.
type Device struct {
	Ctrl *ctrlbus.Ctrl
	MW   *memwriter.MemWriter

	chans [NumChannels]chanPipeline

	frameSync   [3]ctrlbus.TwoFlopSync
	triggerSync ctrlbus.TwoFlopSync

	samples [NumChannels]int16
}

// New builds a Device with fresh, zeroed channel memories, listening
// on MemWriter board address `listen` (boardBits wide).
func New(listen uint8, boardBits uint) *Device {
	d := &Device{Ctrl: ctrlbus.New()}

	memories := make([]memwriter.Memory, NumChannels)
	for i := range d.chans {
		mem := channel.NewMemory(MemorySizes[i])
		fifo := channel.NewLineFIFO(FIFODepth)
		d.chans[i] = chanPipeline{
			mem:  mem,
			fifo: fifo,
			p:    channel.NewParser(mem, fifo),
			s:    seqengine.New(fifo),
		}
		memories[i] = mem
	}
	d.MW = memwriter.New(listen, boardBits, memories)
	return d
}

// Memory returns channel ch's waveform memory, for the host-side test
// harness to inspect or pre-load directly.
func (d *Device) Memory(ch int) *channel.Memory { return d.chans[ch].mem }

// WriteWords feeds a flat stream of 16-bit write-message words (as
// internal/hostproto.WriteMessage produces, unescaped and unpacked)
// through the device's single MemWriter.
func (d *Device) WriteWords(words []uint16) error {
	return d.MW.FeedAll(words)
}

// Dispatch processes one command-lane opcode through Ctrl.
func (d *Device) Dispatch(op byte) { d.Ctrl.Dispatch(op) }

// Step advances the whole device by one clock cycle. rawFrame and
// rawTrigger are the external frame-select and trigger pad levels,
// resynchronized through two-flop synchronizers before use, per
// spec.md §4.4.
func (d *Device) Step(rawFrame [3]bool, rawTrigger bool) error {
	d.Ctrl.Tick()

	frame := 0
	for i, raw := range rawFrame {
		if d.frameSync[i].Sample(raw) {
			frame |= 1 << i
		}
	}
	trigger := d.triggerSync.Sample(rawTrigger)

	arm := d.Ctrl.Arm() && !d.Ctrl.ResetAsserted()
	start := d.Ctrl.Start() && !d.Ctrl.ResetAsserted()
	trig := trigger || d.Ctrl.Trigger()

	if d.Ctrl.ResetAsserted() {
		for i := range d.chans {
			d.chans[i].p.Reset()
			d.chans[i].s.Reset()
		}
		for i := range d.samples {
			d.samples[i] = 0
		}
		return nil
	}

	var g errgroup.Group
	for i := range d.chans {
		i := i
		g.Go(func() error {
			d.chans[i].p.Step(arm, start, frame)
			d.chans[i].s.Step(arm, trig)
			d.samples[i] = d.chans[i].s.Output()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("device: cycle step: %w", err)
	}
	return nil
}

// Samples returns the registered DAC output of every channel for the
// cycle just stepped.
func (d *Device) Samples() [NumChannels]int16 { return d.samples }
