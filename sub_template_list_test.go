package ipfix

import (
	"bytes"
	"testing"
)

func innerTemplate() *Template {
	return FromIEList(300, InformationElementList{
		{Id: 1, Name: "innerValue", Constructor: NewUnsigned32},
	}, 0)
}

func TestSubTemplateListEncodeDecodeWithResolver(t *testing.T) {
	tmpl := innerTemplate()
	prev := activeTemplateResolver
	activeTemplateResolver = func(tid uint16) (*Template, bool) {
		if tid == tmpl.Id() {
			return tmpl, true
		}
		return nil, false
	}
	defer func() { activeTemplateResolver = prev }()

	stl := NewSubTemplateList().(*SubTemplateList)
	stl.semantic = SemanticOrdered
	stl.templateId = tmpl.Id()
	stl.records = [][]DataType{
		{NewUnsigned32().SetValue(1)},
		{NewUnsigned32().SetValue(2)},
	}

	var buf bytes.Buffer
	n, err := stl.Encode(&buf)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	decoded := NewSubTemplateList().(*SubTemplateList)
	decoded.SetLength(uint16(n))
	if _, err := decoded.Decode(&buf); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(decoded.records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(decoded.records))
	}
	if decoded.records[0][0].Value().(uint32) != 1 || decoded.records[1][0].Value().(uint32) != 2 {
		t.Fatalf("unexpected decoded records: %+v", decoded.records)
	}
}

func TestSubTemplateListFallsBackToRawWithoutResolver(t *testing.T) {
	prev := activeTemplateResolver
	activeTemplateResolver = nil
	defer func() { activeTemplateResolver = prev }()

	// Build a well-formed wire encoding without going through Encode (which
	// would also lack a resolver and take the raw path), to simulate a list
	// referencing a template the decoder genuinely never learned.
	var buf bytes.Buffer
	buf.WriteByte(byte(SemanticOrdered))
	buf.Write([]byte{0x01, 0x2c}) // template ID 300
	buf.Write([]byte{0xAA, 0xBB, 0xCC})

	decoded := NewSubTemplateList().(*SubTemplateList)
	decoded.SetLength(uint16(3 + 3))
	if _, err := decoded.Decode(&buf); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(decoded.raw) != 1 || !bytes.Equal(decoded.raw[0], []byte{0xAA, 0xBB, 0xCC}) {
		t.Fatalf("expected raw fallback payload, got %+v", decoded.raw)
	}
	if decoded.templateId != 300 {
		t.Fatalf("expected template id 300, got %d", decoded.templateId)
	}
}
