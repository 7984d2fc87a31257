package ipfix

import "testing"

func TestParseIESpecNameOnly(t *testing.T) {
	s, err := parseIESpec("sourceIPv4Address")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !s.hasName || s.name != "sourceIPv4Address" {
		t.Fatalf("expected name sourceIPv4Address, got %+v", s)
	}
	if s.hasNum || s.hasType || s.hasSize {
		t.Fatalf("expected only name to be set, got %+v", s)
	}
}

func TestParseIESpecFull(t *testing.T) {
	s, err := parseIESpec("flowLabel(29305/12345)<unsigned32>[4]")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.name != "flowLabel" || s.pen != 29305 || s.num != 12345 || s.typeName != "unsigned32" || s.size != 4 {
		t.Fatalf("unexpected parse result: %+v", s)
	}
}

func TestParseIESpecNumberOnly(t *testing.T) {
	s, err := parseIESpec("(12345)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.hasName || !s.hasNum || s.num != 12345 {
		t.Fatalf("unexpected parse result: %+v", s)
	}
}

func TestParseIESpecRejectsEmpty(t *testing.T) {
	if _, err := parseIESpec("<unsigned32>[4]"); err == nil {
		t.Fatal("expected error for a spec naming neither an identifier nor a number")
	}
}

func TestParseIESpecRejectsGarbage(t *testing.T) {
	if _, err := parseIESpec("not a valid spec!!"); err == nil {
		t.Fatal("expected error for malformed spec")
	}
}
