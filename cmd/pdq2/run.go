package main

import (
	"bytes"
	"fmt"
	"log"
	"math"
	"os"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/nist-ionstorage/pdq2/internal/device"
	"github.com/nist-ionstorage/pdq2/internal/exprlang"
	"github.com/nist-ionstorage/pdq2/internal/hostproto"
	"github.com/nist-ionstorage/pdq2/internal/transport"
	"github.com/nist-ionstorage/pdq2/internal/waveform"
	"github.com/nist-ionstorage/pdq2/internal/waveio"
)

// dacsPerBoard matches the original tool's channel numbering: channel
// = 3*board_num + dac_num (original_source/host/cli.py: "-c, --channel
// ... channel: 3*board_num+dac_num").
const dacsPerBoard = 3

const boardFieldBits = 4

const (
	baseFreqHz = 50e6
	fastFreqHz = 100e6
	maxOutV    = 10.0
)

type runFlags struct {
	serial     string
	channel    int
	frame      int
	times      string
	voltages   string
	order      int
	reset      bool
	multiplier bool
	disarm     bool
	free       bool
	dump       string
}

func parseRunFlags(args []string) (*runFlags, error) {
	fs := pflag.NewFlagSet("run", pflag.ContinueOnError)
	rf := &runFlags{}
	fs.StringVarP(&rf.serial, "serial", "s", "", "device URL")
	fs.IntVarP(&rf.channel, "channel", "c", 0, "channel: 3*board_num+dac_num")
	fs.IntVarP(&rf.frame, "frame", "f", 0, "frame")
	fs.StringVarP(&rf.times, "times", "t", "scale(range(5), 1e-6)", "sample times (s)")
	fs.StringVarP(&rf.voltages, "voltages", "v", "map(t, function(x) return 0 end)", "sample voltages (V)")
	fs.IntVarP(&rf.order, "order", "o", 3, "interpolation (0: const, 1: lin, 2: quad, 3: cubic)")
	fs.BoolVarP(&rf.reset, "reset", "r", false, "do reset before")
	fs.BoolVarP(&rf.multiplier, "multiplier", "m", false, "choose fast 100MHz clock")
	fs.BoolVarP(&rf.disarm, "disarm", "n", false, "disarm group")
	fs.BoolVarP(&rf.free, "free", "e", false, "software trigger")
	fs.StringVar(&rf.dump, "dump", "", "write the exact on-wire bytes to PATH instead of a serial port")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return rf, nil
}

// runCommand implements spec.md §6's `run` subcommand: evaluate
// --times/--voltages, spline-fit them into a Line sequence, and write
// the resulting byte stream to --dump or --serial.
func runCommand(args []string) error {
	rf, err := parseRunFlags(args)
	if err != nil {
		return err
	}
	if rf.channel < 0 {
		return fmt.Errorf("channel must be >= 0, got %d", rf.channel)
	}
	if rf.frame < 0 {
		return fmt.Errorf("frame must be >= 0, got %d", rf.frame)
	}

	times, err := exprlang.Eval(rf.times, nil)
	if err != nil {
		return fmt.Errorf("evaluating --times: %w", err)
	}
	voltages, err := exprlang.Eval(rf.voltages, map[string][]float64{"t": times})
	if err != nil {
		return fmt.Errorf("evaluating --voltages: %w", err)
	}
	if len(times) != len(voltages) {
		return fmt.Errorf("--times produced %d samples, --voltages produced %d", len(times), len(voltages))
	}
	if len(times) < 2 {
		return fmt.Errorf("need at least 2 sample points, got %d", len(times))
	}

	freq := baseFreqHz
	if rf.multiplier {
		freq = fastFreqHz
	}
	ticks, err := quantizeTimes(times, freq)
	if err != nil {
		return fmt.Errorf("malformed --times: %w", err)
	}
	scaled := scaleVoltages(voltages, maxOutV)

	seg, err := waveform.Bias(ticks, scaled, rf.order, 0,
		waveform.LineOptions{Trigger: true, Clear: true},
		waveform.LineOptions{},
		waveform.LineOptions{End: true},
		true)
	if err != nil {
		return fmt.Errorf("building waveform: %w", err)
	}

	board, dac := rf.channel/dacsPerBoard, rf.channel%dacsPerBoard
	memSize := device.MemorySizes[dac%len(device.MemorySizes)]
	ch := &waveform.Channel{}
	ch.Frames[rf.frame] = seg
	image, _, err := ch.Place(memSize)
	if err != nil {
		return fmt.Errorf("placing channel memory image: %w", err)
	}

	var out bytes.Buffer
	writeOpcode := func(name string, enable bool) error {
		op, err := hostproto.Opcode(name, enable)
		if err != nil {
			return err
		}
		out.Write(hostproto.OpcodeFrame(waveio.DefaultEscape, op))
		return nil
	}

	if rf.reset {
		if err := writeOpcode("RESET", true); err != nil {
			return err
		}
	}
	if rf.multiplier {
		if err := writeOpcode("DCM", true); err != nil {
			return err
		}
	}
	if err := writeOpcode("START", false); err != nil {
		return err
	}

	msg, err := hostproto.WriteMessage(waveio.DefaultEscape, uint8(dac), uint8(board), boardFieldBits, 0, image)
	if err != nil {
		return fmt.Errorf("building write message: %w", err)
	}
	out.Write(msg)

	if err := writeOpcode("START", true); err != nil {
		return err
	}
	if !rf.disarm {
		if err := writeOpcode("ARM", true); err != nil {
			return err
		}
	}
	if rf.free {
		if err := writeOpcode("TRIGGER", true); err != nil {
			return err
		}
	}

	dest := rf.serial
	if rf.dump != "" {
		dest = "file://" + rf.dump
	}
	if dest == "" {
		return fmt.Errorf("one of --serial or --dump must be set")
	}

	conn, err := transport.Dial(dest)
	if err != nil {
		return fmt.Errorf("dialing %s: %w", dest, err)
	}
	defer conn.Close()

	n, err := conn.Write(out.Bytes())
	if err != nil {
		return fmt.Errorf("writing to %s: %w", dest, err)
	}

	report(n, len(out.Bytes()), rf.channel, rf.frame)
	return nil
}

// report prints a short upload summary, degrading from a single status
// line on an interactive terminal to a plain log line when stdout is
// redirected or piped, matching the teacher's own terminal-vs-redirect
// handling in terminal_host.go.
func report(written, total, channel, frame int) {
	if term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Printf("uploaded %d/%d bytes to channel %d, frame %d\n", written, total, channel, frame)
		return
	}
	log.Printf("pdq2: uploaded %d/%d bytes to channel %d frame %d", written, total, channel, frame)
}

// quantizeTimes rounds sample times (seconds) to integer dilated-tick
// counts at the given sample rate, matching
// original_source/host/pdq2.py's "t = (t*(self.freq/2**shift))
// .astype(np.int)" with shift fixed at 0.
func quantizeTimes(times []float64, freqHz float64) ([]int64, error) {
	out := make([]int64, len(times))
	for i, t := range times {
		out[i] = int64(math.Round(t * freqHz))
	}
	for i := 1; i < len(out); i++ {
		if out[i] <= out[i-1] {
			return nil, fmt.Errorf("sample %d time %d ticks does not strictly follow sample %d's %d ticks", i, out[i], i-1, out[i-1])
		}
	}
	return out, nil
}

// scaleVoltages clips each sample to +/-maxOut volts and scales it to
// the DAC's signed 16-bit full-scale range, matching pdq2.py's
// "np.clip(v/self.max_out, -1, 1)*segment.max_val".
func scaleVoltages(v []float64, maxOut float64) []float64 {
	const maxVal = 1 << 15
	out := make([]float64, len(v))
	for i, vi := range v {
		frac := vi / maxOut
		if frac > 1 {
			frac = 1
		} else if frac < -1 {
			frac = -1
		}
		out[i] = frac * maxVal
	}
	return out
}
