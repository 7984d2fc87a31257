package ipfix

import (
	"bytes"
	"testing"
	"time"
)

type nopWriteCloser struct {
	*bytes.Buffer
}

func (nopWriteCloser) Close() error { return nil }

func buildTestMessage(t *testing.T, odid uint32, value uint64) []byte {
	restore := exportTimeNow
	exportTimeNow = func() time.Time { return time.Unix(1700000000, 0) }
	defer func() { exportTimeNow = restore }()

	mb := NewMessageBuffer(DefaultMTU)
	if err := mb.BeginExport(odid); err != nil {
		t.Fatalf("begin export failed: %v", err)
	}
	if err := mb.AddTemplate(fixtureTemplate(), true); err != nil {
		t.Fatalf("add template failed: %v", err)
	}
	if err := mb.ExportEnsureSet(MinDataTemplateID); err != nil {
		t.Fatalf("ensure set failed: %v", err)
	}
	if _, err := mb.ExportRecord(fixtureValues(value)); err != nil {
		t.Fatalf("export record failed: %v", err)
	}
	msg, err := mb.ToBytes()
	if err != nil {
		t.Fatalf("to bytes failed: %v", err)
	}
	return msg
}

func TestIPFIXFileWriterReaderRoundTrip(t *testing.T) {
	messages := [][]byte{
		buildTestMessage(t, 1, 10),
		buildTestMessage(t, 1, 20),
		buildTestMessage(t, 2, 30),
	}

	out := &bytes.Buffer{}
	w := NewIPFIXFileWriter(nopWriteCloser{out})
	for _, m := range messages {
		if _, err := w.WriteMessage(m); err != nil {
			t.Fatalf("write message failed: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	read, err := ReadFull(bytes.NewReader(out.Bytes()))
	if err != nil {
		t.Fatalf("read full failed: %v", err)
	}
	if len(read) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(read))
	}

	for i, raw := range read {
		mb := NewMessageBuffer(DefaultMTU)
		if err := mb.FromBytes(raw); err != nil {
			t.Fatalf("message %d: from bytes failed: %v", i, err)
		}
		if err := mb.ApplyTemplateSets(); err != nil {
			t.Fatalf("message %d: apply template sets failed: %v", i, err)
		}
	}
}

func TestWriteFullThenReadFull(t *testing.T) {
	messages := []RawMessage{
		buildTestMessage(t, 1, 1),
		buildTestMessage(t, 1, 2),
	}

	var buf bytes.Buffer
	if err := WriteFull(&buf, messages); err != nil {
		t.Fatalf("write full failed: %v", err)
	}

	read, err := ReadFull(&buf)
	if err != nil {
		t.Fatalf("read full failed: %v", err)
	}
	if len(read) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(read))
	}
	if !bytes.Equal(read[0], messages[0]) || !bytes.Equal(read[1], messages[1]) {
		t.Fatal("round-tripped messages do not match originals")
	}
}

func TestReadFullStopsCleanlyAtEOF(t *testing.T) {
	msg := buildTestMessage(t, 1, 5)
	read, err := ReadFull(bytes.NewReader(msg))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(read) != 1 {
		t.Fatalf("expected exactly 1 message, got %d", len(read))
	}
	if !bytes.Equal(read[0], msg) {
		t.Fatal("message bytes do not match")
	}
}
