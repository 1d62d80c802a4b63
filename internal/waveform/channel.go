package waveform

import (
	"fmt"

	"github.com/nist-ionstorage/pdq2/internal/channel"
)

// Channel holds the (up to 8) Segments assigned to one channel's jump
// table slots and places them into a flat memory image, matching
// pdq2.py's Channel.place/table/serialize.
type Channel struct {
	Frames [channel.JumpTableSize]*Segment
}

// Place lays the configured Segments out after the jump table and
// returns the full memory image (jump table followed by concatenated
// Line bodies) plus the address each frame's entry point landed at.
// size is the destination channel memory's word count.
func (c *Channel) Place(size int) (image []uint16, frameAddrs [channel.JumpTableSize]uint16, err error) {
	addr := uint16(channel.JumpTableSize)
	body := make([]uint16, 0, size)
	for i, seg := range c.Frames {
		if seg == nil {
			continue
		}
		frameAddrs[i] = addr
		for _, line := range seg.Lines {
			words := line.Words()
			body = append(body, words...)
			addr += uint16(len(words))
		}
	}
	if int(addr) > size {
		return nil, frameAddrs, fmt.Errorf("waveform: memory image needs %d words, channel memory holds %d", addr, size)
	}

	image = make([]uint16, channel.JumpTableSize, addr)
	copy(image, frameAddrs[:])
	image = append(image, body...)
	return image, frameAddrs, nil
}
