// Command pdq2 is the host-side CLI for the PDQ waveform generator:
// it evaluates --times/--voltages expressions, spline-fits them into
// Line sequences, and uploads the resulting memory image to a device
// over a serial link (or dumps the exact on-wire bytes to a file).
//
// Grounded on original_source/host/cli.py, redesigned onto Go flags
// (github.com/spf13/pflag, per the retrieval pack's
// doismellburning/samoyed serial-instrument CLIs) and an embedded Lua
// expression language (internal/exprlang) in place of Python's eval().
package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 || os.Args[1] != "run" {
		fmt.Fprintln(os.Stderr, "usage: pdq2 run [flags]")
		os.Exit(2)
	}
	if err := runCommand(os.Args[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "pdq2: %v\n", err)
		os.Exit(1)
	}
}
