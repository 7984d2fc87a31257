package ipfix

import (
	"bytes"
	"testing"
)

func TestBasicListEncodeDecodeFixedLength(t *testing.T) {
	bl := NewBasicList().(*BasicList)
	bl.semantic = SemanticAllOf
	bl.element = InformationElement{Id: 4, Name: "protocolIdentifier", Constructor: NewUnsigned32}
	bl.values = []DataType{
		NewUnsigned32().SetValue(6),
		NewUnsigned32().SetValue(17),
	}

	var buf bytes.Buffer
	n, err := bl.Encode(&buf)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	// the decoder resolves the list element's type through the default registry
	defaultRegistry.Add(bl.element)
	decoded := NewBasicList().(*BasicList)
	decoded.SetLength(uint16(n))
	if _, err := decoded.Decode(&buf); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if decoded.semantic != SemanticAllOf {
		t.Fatalf("expected semantic allOf, got %v", decoded.semantic)
	}
	if len(decoded.values) != 2 {
		t.Fatalf("expected 2 values, got %d", len(decoded.values))
	}
	if decoded.values[0].Value().(uint32) != 6 || decoded.values[1].Value().(uint32) != 17 {
		t.Fatalf("unexpected decoded values: %+v", decoded.values)
	}
}

func TestBasicListEncodeDecodeVariableLength(t *testing.T) {
	bl := NewBasicList().(*BasicList)
	bl.semantic = SemanticOrdered
	bl.element = InformationElement{Id: 4900, Name: "someString", Constructor: NewString, Length: VariableLength}
	bl.values = []DataType{
		NewString().SetValue("a"),
		NewString().SetValue("longer value"),
	}

	var buf bytes.Buffer
	n, err := bl.Encode(&buf)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	// the decoder resolves the list element's type through the default registry
	defaultRegistry.Add(bl.element)
	decoded := NewBasicList().(*BasicList)
	decoded.SetLength(uint16(n))
	if _, err := decoded.Decode(&buf); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(decoded.values) != 2 {
		t.Fatalf("expected 2 values, got %d", len(decoded.values))
	}
	if decoded.values[0].Value().(string) != "a" || decoded.values[1].Value().(string) != "longer value" {
		t.Fatalf("unexpected decoded values: %+v", decoded.values)
	}
}

func TestBasicListMarshalJSON(t *testing.T) {
	bl := NewBasicList().(*BasicList)
	bl.semantic = SemanticAllOf
	bl.element = InformationElement{Id: 4, Name: "protocolIdentifier", Constructor: NewUnsigned32}
	bl.values = []DataType{NewUnsigned32().SetValue(6)}

	b, err := bl.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if len(b) == 0 {
		t.Fatal("expected non-empty JSON output")
	}
}
