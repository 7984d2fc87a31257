package ipfix

import "testing"

func TestRegistryForSpecRegistersNewEntry(t *testing.T) {
	r := NewRegistry()

	ie, err := r.ForSpec("testElement(0/12345)<unsigned32>")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ie.Name != "testElement" || ie.Id != 12345 || ie.Constructor == nil {
		t.Fatalf("unexpected registered element: %+v", ie)
	}

	again, err := r.ForSpec("testElement")
	if err != nil {
		t.Fatalf("lookup by name after registration failed: %v", err)
	}
	if again.Id != 12345 {
		t.Fatalf("expected lookup to return the same element, got %+v", again)
	}
}

func TestRegistryForSpecLookupOnlyFailsWhenAbsent(t *testing.T) {
	r := NewRegistry()
	if _, err := r.ForSpec("doesNotExist"); err == nil {
		t.Fatal("expected error looking up an unregistered name")
	}
	if _, err := r.ForSpec("(999)"); err == nil {
		t.Fatal("expected error looking up an unregistered number")
	}
}

func TestRegistryForTemplateEntrySynthesizesPlaceholder(t *testing.T) {
	r := NewRegistry()
	ie := r.ForTemplateEntry(0, 54321, 4)
	if ie.Name != "_ipfix_0_54321" {
		t.Fatalf("expected synthesized placeholder name, got %q", ie.Name)
	}
	if ie.Type == nil || *ie.Type != "octetArray" {
		t.Fatalf("expected placeholder type octetArray, got %+v", ie.Type)
	}

	again, ok := r.Get(0, 54321)
	if !ok || again.Name != ie.Name {
		t.Fatal("expected placeholder to be registered for subsequent lookups")
	}
}

func TestRegistryForTemplateEntryReturnsLengthAdjustedKnownIE(t *testing.T) {
	r := NewRegistry()
	if err := r.UseIANADefault(); err != nil {
		t.Fatalf("failed to load iana default: %v", err)
	}

	ie := r.ForTemplateEntry(0, 2, 4) // packetDeltaCount, natively unsigned64
	if ie.Length != 4 {
		t.Fatalf("expected occurrence length 4, got %d", ie.Length)
	}

	canonical, ok := r.Get(0, 2)
	if !ok || canonical.Length != 0 {
		t.Fatalf("expected registry entry to remain unmodified, got %+v", canonical)
	}
}

func TestRegistryUse5103DefaultDerivesReverseIEs(t *testing.T) {
	r := NewRegistry()
	if err := r.UseIANADefault(); err != nil {
		t.Fatalf("failed to load iana default: %v", err)
	}
	if err := r.Use5103Default(); err != nil {
		t.Fatalf("failed to derive rfc5103 default: %v", err)
	}

	rev, ok := r.GetByName("reversePacketDeltaCount")
	if !ok {
		t.Fatal("expected reverse IE for packetDeltaCount to be derived")
	}
	if rev.EnterpriseId != ReversePEN {
		t.Fatalf("expected reverse IE to carry PEN %d, got %d", ReversePEN, rev.EnterpriseId)
	}

	if _, ok := r.GetByName("reverseBiflowDirection"); ok {
		t.Fatal("biflowDirection is non-reversible and must not get a reverse counterpart")
	}
}
