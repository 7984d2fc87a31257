package ipfix

import (
	"bytes"
	"testing"
)

func TestSubTemplateMultiListEncodeDecodeMixedEntries(t *testing.T) {
	knownTmpl := innerTemplate()
	prev := activeTemplateResolver
	activeTemplateResolver = func(tid uint16) (*Template, bool) {
		if tid == knownTmpl.Id() {
			return knownTmpl, true
		}
		return nil, false
	}
	defer func() { activeTemplateResolver = prev }()

	stml := NewSubTemplateMultiList().(*SubTemplateMultiList)
	stml.semantic = SemanticAllOf
	stml.entries = []subTemplateMultiListEntry{
		{
			templateId: knownTmpl.Id(),
			records: [][]DataType{
				{NewUnsigned32().SetValue(9)},
			},
		},
		{
			templateId: 9999, // unknown to the resolver
			raw:        []byte{0x01, 0x02, 0x03},
		},
	}

	var buf bytes.Buffer
	n, err := stml.Encode(&buf)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	decoded := NewSubTemplateMultiList().(*SubTemplateMultiList)
	decoded.SetLength(uint16(n))
	if _, err := decoded.Decode(&buf); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(decoded.entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(decoded.entries))
	}
	if decoded.entries[0].templateId != knownTmpl.Id() || len(decoded.entries[0].records) != 1 {
		t.Fatalf("unexpected first entry: %+v", decoded.entries[0])
	}
	if decoded.entries[0].records[0][0].Value().(uint32) != 9 {
		t.Fatalf("unexpected decoded inner value: %+v", decoded.entries[0].records[0])
	}
	if decoded.entries[1].templateId != 9999 || !bytes.Equal(decoded.entries[1].raw, []byte{0x01, 0x02, 0x03}) {
		t.Fatalf("unexpected second (raw fallback) entry: %+v", decoded.entries[1])
	}
}

func TestSubTemplateMultiListEmptyListRoundTrip(t *testing.T) {
	prev := activeTemplateResolver
	activeTemplateResolver = nil
	defer func() { activeTemplateResolver = prev }()

	stml := NewSubTemplateMultiList().(*SubTemplateMultiList)
	stml.semantic = SemanticUndefined

	var buf bytes.Buffer
	n, err := stml.Encode(&buf)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected only the semantic octet for an empty list, got %d octets", n)
	}

	decoded := NewSubTemplateMultiList().(*SubTemplateMultiList)
	decoded.SetLength(uint16(n))
	if _, err := decoded.Decode(&buf); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(decoded.entries) != 0 {
		t.Fatalf("expected no entries, got %+v", decoded.entries)
	}
}
