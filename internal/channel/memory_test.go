package channel

import (
	"testing"

	"github.com/nist-ionstorage/pdq2/internal/lineformat"
)

func TestMemoryOutOfRangeWriteIsDropped(t *testing.T) {
	m := NewMemory(4)
	m.WriteWord(10, 0xFFFF) // out of range, must not panic or wrap
	if got := m.ReadWord(10); got != 0 {
		t.Fatalf("ReadWord(10) = %#04x, want 0 (out-of-range read)", got)
	}
}

func TestMemoryReadWrite(t *testing.T) {
	m := NewMemory(4)
	m.WriteWord(2, 0xBEEF)
	if got := m.ReadWord(2); got != 0xBEEF {
		t.Fatalf("ReadWord(2) = %#04x, want 0xBEEF", got)
	}
}

func TestFIFOOrderPreserved(t *testing.T) {
	f := NewLineFIFO(3)
	for i := 0; i < 3; i++ {
		f.TryPush(lineformat.Line{Dt: uint16(i)})
	}
	if f.TryPush(lineformat.Line{Dt: 99}) {
		t.Fatalf("push past capacity should fail")
	}
	for i := 0; i < 3; i++ {
		l, ok := f.TryPop()
		if !ok || l.Dt != uint16(i) {
			t.Fatalf("pop %d = %+v, ok=%v, want Dt=%d", i, l, ok, i)
		}
	}
	if _, ok := f.TryPop(); ok {
		t.Fatalf("pop from empty FIFO should fail")
	}
}
