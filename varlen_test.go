package ipfix

import (
	"bytes"
	"testing"
)

func TestEncodeVarlenShortForm(t *testing.T) {
	var buf bytes.Buffer
	n, err := encodeVarlen(&buf, 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 octet written, got %d", n)
	}
	if buf.Bytes()[0] != 42 {
		t.Fatalf("expected length octet 42, got %d", buf.Bytes()[0])
	}
}

func TestEncodeVarlenLongForm(t *testing.T) {
	var buf bytes.Buffer
	n, err := encodeVarlen(&buf, 1000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 octets written, got %d", n)
	}
	if buf.Bytes()[0] != 0xFF {
		t.Fatalf("expected extended marker 0xFF, got %#x", buf.Bytes()[0])
	}
}

func TestVarlenRoundTrip(t *testing.T) {
	for _, length := range []int{0, 1, 254, 255, 256, 65535} {
		var buf bytes.Buffer
		if _, err := encodeVarlen(&buf, length); err != nil {
			t.Fatalf("encode(%d): %v", length, err)
		}
		got, _, err := decodeVarlen(&buf)
		if err != nil {
			t.Fatalf("decode(%d): %v", length, err)
		}
		if got != length {
			t.Fatalf("round trip mismatch: wrote %d, read %d", length, got)
		}
	}
}

func TestEncodeVarlenTooLarge(t *testing.T) {
	var buf bytes.Buffer
	if _, err := encodeVarlen(&buf, 0x10000); err == nil {
		t.Fatal("expected error for length exceeding 65535")
	}
}
