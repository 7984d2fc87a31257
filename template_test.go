package ipfix

import (
	"bytes"
	"testing"
)

func testIElist() InformationElementList {
	return InformationElementList{
		{Id: 8, Name: "sourceIPv4Address", Constructor: NewIPv4Address},
		{Id: 12, Name: "destinationIPv4Address", Constructor: NewIPv4Address},
		{Id: 2, Name: "packetDeltaCount", Constructor: NewUnsigned64},
		{Id: 96, Name: "applicationName", Constructor: NewString, Length: VariableLength},
	}
}

func testValues() []DataType {
	return []DataType{
		NewIPv4Address().SetValue("192.0.2.1"),
		NewIPv4Address().SetValue("192.0.2.2"),
		NewUnsigned64().SetValue(42),
		NewString().SetValue("curl/8.0"),
	}
}

func TestTemplateEncodeDecodeRecordRoundTrip(t *testing.T) {
	tmpl := FromIEList(256, testIElist(), 0)

	var buf bytes.Buffer
	if _, err := tmpl.EncodeRecord(&buf, testValues()); err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	values, n, err := tmpl.DecodeRecord(&buf)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if n != buf.Cap()-buf.Len() && buf.Len() != 0 {
		t.Fatalf("expected decode to consume entire buffer, %d octets remain", buf.Len())
	}
	if values[2].Value().(uint64) != 42 {
		t.Fatalf("expected packetDeltaCount 42, got %v", values[2].Value())
	}
	if values[3].Value().(string) != "curl/8.0" {
		t.Fatalf("expected applicationName curl/8.0, got %v", values[3].Value())
	}
}

func TestTemplateEncodeDecodeNameDict(t *testing.T) {
	tmpl := FromIEList(257, testIElist(), 0)

	rec := map[string]DataType{
		"sourceIPv4Address":      NewIPv4Address().SetValue("10.0.0.1"),
		"destinationIPv4Address": NewIPv4Address().SetValue("10.0.0.2"),
		"packetDeltaCount":       NewUnsigned64().SetValue(7),
		"applicationName":        NewString().SetValue("ssh"),
		"extraFieldIgnoredByTemplate": NewUnsigned8().SetValue(1),
	}

	var buf bytes.Buffer
	if _, err := tmpl.EncodeNameDict(&buf, rec); err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	decoded, _, err := tmpl.DecodeNameDict(&buf)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if decoded["packetDeltaCount"].Value().(uint64) != 7 {
		t.Fatalf("unexpected roundtrip value: %+v", decoded)
	}
}

func TestTemplateEncodeNameDictMissingFieldFails(t *testing.T) {
	tmpl := FromIEList(258, testIElist(), 0)
	rec := map[string]DataType{
		"sourceIPv4Address": NewIPv4Address().SetValue("10.0.0.1"),
	}
	var buf bytes.Buffer
	if _, err := tmpl.EncodeNameDict(&buf, rec); err == nil {
		t.Fatal("expected missing-field error")
	}
}

func TestTemplateDecodeTupleProjection(t *testing.T) {
	tmpl := FromIEList(259, testIElist(), 0)
	var buf bytes.Buffer
	if _, err := tmpl.EncodeRecord(&buf, testValues()); err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	projection := InformationElementList{
		{Id: 2, Name: "packetDeltaCount"},
	}
	tuple, _, err := tmpl.DecodeTuple(&buf, projection)
	if err != nil {
		t.Fatalf("decode tuple failed: %v", err)
	}
	if len(tuple) != 1 || tuple[0].Value().(uint64) != 42 {
		t.Fatalf("unexpected tuple: %+v", tuple)
	}
}

func TestTemplateCovers(t *testing.T) {
	tmpl := FromIEList(260, testIElist(), 0)

	if !tmpl.Covers(InformationElementList{{Id: 2}, {Id: 8}}) {
		t.Fatal("expected template to cover its own fields")
	}
	if tmpl.Covers(InformationElementList{{Id: 999}}) {
		t.Fatal("expected template to not cover an unknown field")
	}
}

func TestTemplateEncodeTemplateToAndDecode(t *testing.T) {
	tmpl := FromIEList(261, testIElist(), 0)

	var buf bytes.Buffer
	if _, err := tmpl.EncodeTemplateTo(&buf); err != nil {
		t.Fatalf("encode template failed: %v", err)
	}

	decoded, _, err := decodeTemplateRecord(&buf, TemplateSetID)
	if err != nil {
		t.Fatalf("decode template record failed: %v", err)
	}
	if decoded.Id() != 261 || len(decoded.IEs()) != 4 {
		t.Fatalf("unexpected decoded template: %+v", decoded)
	}
}

func TestOptionsTemplateScopeCountRoundTrip(t *testing.T) {
	ies := InformationElementList{
		{Id: 148, Name: "flowId", Constructor: NewUnsigned64},
		{Id: 2, Name: "packetDeltaCount", Constructor: NewUnsigned64},
	}
	tmpl := FromIEList(263, ies, 1)
	if !tmpl.IsOptionsTemplate() {
		t.Fatal("expected a non-zero scope count to mark an Options Template")
	}

	var buf bytes.Buffer
	if _, err := tmpl.EncodeTemplateTo(&buf); err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	decoded, _, err := decodeTemplateRecord(&buf, OptionsTemplateSetID)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if !decoded.IsOptionsTemplate() || decoded.scopeCount != 1 {
		t.Fatalf("expected scope count 1 to round-trip, got %+v", decoded)
	}
}

func TestOptionsTemplateRejectsScopeCountExceedingFieldCount(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{0x01, 0x08, 0x00, 0x01}) // template id 264, 1 field
	buf.Write([]byte{0x00, 0x02})             // scope count 2 > field count 1

	if _, _, err := decodeTemplateRecord(&buf, OptionsTemplateSetID); err == nil {
		t.Fatal("expected an error for a scope count exceeding the field count")
	}
}

func TestTemplateWithdrawalRoundTrip(t *testing.T) {
	withdrawal := FromIEList(262, nil, 0)

	var buf bytes.Buffer
	if _, err := withdrawal.EncodeTemplateTo(&buf); err != nil {
		t.Fatalf("encode withdrawal failed: %v", err)
	}

	decoded, _, err := decodeTemplateRecord(&buf, TemplateSetID)
	if err != nil {
		t.Fatalf("decode withdrawal failed: %v", err)
	}
	if !decoded.IsWithdrawal() {
		t.Fatal("expected decoded template to be a withdrawal")
	}
}
