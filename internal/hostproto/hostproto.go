// Package hostproto assembles the final on-wire byte stream the
// device's Unescaper/MemWriter/Ctrl chain consumes: per-channel write
// messages wrapping a waveform.Channel's memory image, and escape-
// framed Ctrl opcodes.
//
// Grounded on original_source/host/pdq2.py's Pdq2.write_mem/cmd: word 0
// of a write message carries (board<<ChannelNibbleWidth)|channel in its low
// bits, words 1/2 are the inclusive start/end address, and the escape
// byte is doubled in the payload before the whole message is written
// — the exact inverse of internal/waveio.Unescaper and
// internal/memwriter.MemWriter on the device side.
package hostproto

import (
	"fmt"

	"github.com/nist-ionstorage/pdq2/internal/ctrlbus"
	"github.com/nist-ionstorage/pdq2/internal/waveio"
)

// ChannelNibbleWidth is the width, in bits, of the channel field at
// the bottom of a write message's word 0, matching
// internal/memwriter's channelNibbleWidth.
const ChannelNibbleWidth = 4

// WriteMessage builds the escaped byte stream for a single memory
// write: channel selects the destination channel index (its low
// nibble of word 0), board the board address compared against a
// MemWriter's configured listen address, boardBits the width of that
// field, and payload the words to write starting at startAddr.
func WriteMessage(escape byte, channel uint8, board uint8, boardBits uint, startAddr uint16, payload []uint16) ([]byte, error) {
	if channel >= 1<<ChannelNibbleWidth {
		return nil, fmt.Errorf("hostproto: channel %d does not fit in a %d-bit nibble", channel, ChannelNibbleWidth)
	}
	if board >= 1<<boardBits {
		return nil, fmt.Errorf("hostproto: board %d does not fit in %d bits", board, boardBits)
	}
	if len(payload) == 0 {
		return nil, fmt.Errorf("hostproto: write message needs at least one payload word")
	}
	endAddr := startAddr + uint16(len(payload)) - 1

	word0 := uint16(channel) | uint16(board)<<ChannelNibbleWidth
	words := make([]uint16, 0, 3+len(payload))
	words = append(words, word0, startAddr, endAddr)
	words = append(words, payload...)

	raw := waveio.UnpackWords(words)
	return waveio.Escape(escape, raw), nil
}

// OpcodeFrame returns the escape-framed bytes for one Ctrl opcode
// (RESET, TRIGGER on/off, ARM on/off, DCM on/off, START on/off).
func OpcodeFrame(escape byte, op byte) []byte {
	return []byte{escape, op}
}

// Opcode resolves a named command and enable level to the wire opcode
// spec.md §6 defines, matching pdq2.py's Pdq2.cmd() dispatch table.
func Opcode(name string, enable bool) (byte, error) {
	switch name {
	case "RESET":
		return ctrlbus.OpReset, nil
	case "TRIGGER":
		if enable {
			return ctrlbus.OpTriggerOn, nil
		}
		return ctrlbus.OpTriggerOff, nil
	case "ARM":
		if enable {
			return ctrlbus.OpArmOn, nil
		}
		return ctrlbus.OpArmOff, nil
	case "DCM":
		if enable {
			return ctrlbus.OpDCMOn, nil
		}
		return ctrlbus.OpDCMOff, nil
	case "START":
		if enable {
			return ctrlbus.OpStartOn, nil
		}
		return ctrlbus.OpStartOff, nil
	default:
		return 0, fmt.Errorf("hostproto: unknown command %q", name)
	}
}
