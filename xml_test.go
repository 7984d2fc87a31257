package ipfix

import (
	"bytes"
	"os"
	"testing"
)

var sampleIANAXML = []byte(`
<registry id="ipfix"
          xmlns="http://www.iana.org/assignments">
<title>IP Flow Information Export (IPFIX) Entities</title>
<registry id="ipfix-information-elements">

  <title>IPFIX Information Elements</title>
  <created>2023-01-01</created>
  <updated>2023-01-01</updated>

  <record>
    <name>packetDeltaCount</name>
    <dataType>unsigned64</dataType>
    <group>count</group>
    <elementId>2</elementId>
    <status>current</status>
    <revision>0</revision>
  </record>
  <record>
    <name>sourceIPv4Address</name>
    <dataType>ipv4Address</dataType>
    <group>minorPath</group>
    <elementId>8</elementId>
    <status>current</status>
    <revision>0</revision>
  </record>
  <record>
    <name>unassignedBlock</name>
    <elementId>26 - 127</elementId>
    <status>unassigned</status>
  </record>
</registry>
</registry>
`)

func TestReadXML(t *testing.T) {
	m, err := ReadXML(bytes.NewReader(sampleIANAXML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	pdc, ok := m[2]
	if !ok || pdc.Name != "packetDeltaCount" || pdc.Constructor == nil {
		t.Fatalf("expected packetDeltaCount to be parsed, got %+v", pdc)
	}
	src, ok := m[8]
	if !ok || src.Name != "sourceIPv4Address" {
		t.Fatalf("expected sourceIPv4Address to be parsed, got %+v", src)
	}
	if _, ok := m[26]; ok {
		t.Fatal("expected the unassigned range record to be skipped")
	}
}

func TestRegistryUseSpecfileXML(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/seed.xml"
	if err := os.WriteFile(path, sampleIANAXML, 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	r := NewRegistry()
	if err := r.UseSpecfile(path); err != nil {
		t.Fatalf("UseSpecfile failed: %v", err)
	}

	ie, ok := r.Get(0, 2)
	if !ok || ie.Name != "packetDeltaCount" {
		t.Fatalf("expected packetDeltaCount to be registered, got %+v", ie)
	}
}
