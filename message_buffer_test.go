package ipfix

import (
	"testing"
	"time"
)

func fixtureTemplate() *Template {
	return FromIEList(MinDataTemplateID, InformationElementList{
		{Id: 8, Name: "sourceIPv4Address", Constructor: NewIPv4Address},
		{Id: 2, Name: "packetDeltaCount", Constructor: NewUnsigned64},
	}, 0)
}

func fixtureValues(n uint64) []DataType {
	return []DataType{
		NewIPv4Address().SetValue("198.51.100.7"),
		NewUnsigned64().SetValue(n),
	}
}

func TestMessageBufferExportRoundTrip(t *testing.T) {
	// decoded templates resolve their IEs through the default registry
	if err := UseIANADefault(); err != nil {
		t.Fatalf("loading the IANA registry failed: %v", err)
	}
	restore := exportTimeNow
	exportTimeNow = func() time.Time { return time.Unix(1700000000, 0) }
	defer func() { exportTimeNow = restore }()

	mb := NewMessageBuffer(DefaultMTU)
	if err := mb.BeginExport(1); err != nil {
		t.Fatalf("begin export failed: %v", err)
	}
	if err := mb.AddTemplate(fixtureTemplate(), true); err != nil {
		t.Fatalf("add template failed: %v", err)
	}
	if err := mb.ExportEnsureSet(MinDataTemplateID); err != nil {
		t.Fatalf("ensure set failed: %v", err)
	}
	for i := uint64(0); i < 3; i++ {
		if _, err := mb.ExportRecord(fixtureValues(i)); err != nil {
			t.Fatalf("export record %d failed: %v", i, err)
		}
	}

	msg, err := mb.ToBytes()
	if err != nil {
		t.Fatalf("to bytes failed: %v", err)
	}
	if len(msg) == 0 {
		t.Fatal("expected a non-empty message")
	}

	decoder := NewMessageBuffer(DefaultMTU)
	if err := decoder.FromBytes(msg); err != nil {
		t.Fatalf("from bytes failed: %v", err)
	}
	if decoder.Header().ExportTime != 1700000000 {
		t.Fatalf("unexpected export time: %d", decoder.Header().ExportTime)
	}
	if decoder.ObservationDomainId() != 1 {
		t.Fatalf("unexpected observation domain: %d", decoder.ObservationDomainId())
	}
	if err := decoder.ApplyTemplateSets(); err != nil {
		t.Fatalf("apply template sets failed: %v", err)
	}

	var got []uint64
	err = decoder.VisitRecords(func(tid uint16, values []DataType) error {
		got = append(got, values[1].Value().(uint64))
		return nil
	})
	if err != nil {
		t.Fatalf("visit records failed: %v", err)
	}
	if len(got) != 3 || got[0] != 0 || got[1] != 1 || got[2] != 2 {
		t.Fatalf("unexpected decoded sequence: %+v", got)
	}
}

func TestMessageBufferSequenceNumberMonotonic(t *testing.T) {
	mb := NewMessageBuffer(DefaultMTU)
	if err := mb.BeginExport(1); err != nil {
		t.Fatalf("begin export failed: %v", err)
	}
	if err := mb.AddTemplate(fixtureTemplate(), true); err != nil {
		t.Fatalf("add template failed: %v", err)
	}
	if err := mb.ExportEnsureSet(MinDataTemplateID); err != nil {
		t.Fatalf("ensure set failed: %v", err)
	}
	if _, err := mb.ExportRecord(fixtureValues(1)); err != nil {
		t.Fatalf("export record failed: %v", err)
	}
	if _, err := mb.ToBytes(); err != nil {
		t.Fatalf("to bytes failed: %v", err)
	}

	if err := mb.BeginExport(1); err != nil {
		t.Fatalf("second begin export failed: %v", err)
	}
	if mb.sequence != 1 {
		t.Fatalf("expected sequence to carry over across messages, got %d", mb.sequence)
	}
}

func TestMessageBufferExportRecordRollsBackOnOverflow(t *testing.T) {
	mb := NewMessageBuffer(int(messageHeaderLength) + int(setHeaderLength) + 4)
	if err := mb.BeginExport(1); err != nil {
		t.Fatalf("begin export failed: %v", err)
	}
	if err := mb.AddTemplate(fixtureTemplate(), false); err != nil {
		t.Fatalf("add template failed: %v", err)
	}
	if err := mb.ExportNewSet(MinDataTemplateID); err != nil {
		t.Fatalf("new set failed: %v", err)
	}

	before := mb.buf.Len()
	if _, err := mb.ExportRecord(fixtureValues(1)); err == nil {
		t.Fatal("expected end-of-message error when record exceeds remaining MTU")
	}
	if mb.buf.Len() != before {
		t.Fatalf("expected buffer to be rolled back to %d octets, got %d", before, mb.buf.Len())
	}
}

func TestMessageBufferExportRecordWithoutOpenDataSetFails(t *testing.T) {
	mb := NewMessageBuffer(DefaultMTU)
	if err := mb.BeginExport(1); err != nil {
		t.Fatalf("begin export failed: %v", err)
	}
	if _, err := mb.ExportRecord(fixtureValues(1)); err == nil {
		t.Fatal("expected wrong-state error exporting a record with no open data set")
	}
}

func TestMessageBufferExportEnsureSetUnknownTemplateFails(t *testing.T) {
	mb := NewMessageBuffer(DefaultMTU)
	if err := mb.BeginExport(1); err != nil {
		t.Fatalf("begin export failed: %v", err)
	}
	if err := mb.ExportEnsureSet(MinDataTemplateID); err == nil {
		t.Fatal("expected template-not-found error for an unregistered template ID")
	}
}

func TestMessageBufferTemplateWithdrawal(t *testing.T) {
	mb := NewMessageBuffer(DefaultMTU)
	if err := mb.BeginExport(1); err != nil {
		t.Fatalf("begin export failed: %v", err)
	}
	if err := mb.AddTemplate(fixtureTemplate(), true); err != nil {
		t.Fatalf("add template failed: %v", err)
	}
	if err := mb.DeleteTemplate(MinDataTemplateID, true); err != nil {
		t.Fatalf("delete template failed: %v", err)
	}
	if _, ok := mb.Template(1, MinDataTemplateID); ok {
		t.Fatal("expected template to be removed from the live table immediately")
	}

	msg, err := mb.ToBytes()
	if err != nil {
		t.Fatalf("to bytes failed: %v", err)
	}

	decoder := NewMessageBuffer(DefaultMTU)
	if err := decoder.FromBytes(msg); err != nil {
		t.Fatalf("from bytes failed: %v", err)
	}
	// prime the decoder's table with the template, as a prior message would have.
	decoder.templatesFor(1)[MinDataTemplateID] = fixtureTemplate()
	if err := decoder.ApplyTemplateSets(); err != nil {
		t.Fatalf("apply template sets failed: %v", err)
	}
	if _, ok := decoder.Template(1, MinDataTemplateID); ok {
		t.Fatal("expected withdrawal to remove the template from the decoder's table")
	}
}

func TestMessageBufferVisitRecordsSkipsUnknownTemplate(t *testing.T) {
	mb := NewMessageBuffer(DefaultMTU)
	if err := mb.BeginExport(1); err != nil {
		t.Fatalf("begin export failed: %v", err)
	}
	if err := mb.AddTemplate(fixtureTemplate(), true); err != nil {
		t.Fatalf("add template failed: %v", err)
	}
	if err := mb.ExportEnsureSet(MinDataTemplateID); err != nil {
		t.Fatalf("ensure set failed: %v", err)
	}
	if _, err := mb.ExportRecord(fixtureValues(1)); err != nil {
		t.Fatalf("export record failed: %v", err)
	}
	msg, err := mb.ToBytes()
	if err != nil {
		t.Fatalf("to bytes failed: %v", err)
	}

	// A fresh decoder that never learns the template (e.g. it arrived in an
	// earlier message this decoder didn't see) must skip the set quietly.
	decoder := NewMessageBuffer(DefaultMTU)
	if err := decoder.FromBytes(msg); err != nil {
		t.Fatalf("from bytes failed: %v", err)
	}

	var visited int
	if err := decoder.VisitRecords(func(tid uint16, values []DataType) error {
		visited++
		return nil
	}); err != nil {
		t.Fatalf("visit records failed: %v", err)
	}
	if visited != 0 {
		t.Fatalf("expected zero records visited for an unknown template, got %d", visited)
	}
}

func TestMessageBufferVisitTuplesSkipsSetsNotCoveringProjection(t *testing.T) {
	// decoded templates resolve their IEs through the default registry
	if err := UseIANADefault(); err != nil {
		t.Fatalf("loading the IANA registry failed: %v", err)
	}
	mb := NewMessageBuffer(DefaultMTU)
	if err := mb.BeginExport(1); err != nil {
		t.Fatalf("begin export failed: %v", err)
	}
	if err := mb.AddTemplate(fixtureTemplate(), true); err != nil {
		t.Fatalf("add template failed: %v", err)
	}
	if err := mb.ExportEnsureSet(MinDataTemplateID); err != nil {
		t.Fatalf("ensure set failed: %v", err)
	}
	if _, err := mb.ExportRecord(fixtureValues(5)); err != nil {
		t.Fatalf("export record failed: %v", err)
	}
	msg, err := mb.ToBytes()
	if err != nil {
		t.Fatalf("to bytes failed: %v", err)
	}

	decoder := NewMessageBuffer(DefaultMTU)
	if err := decoder.FromBytes(msg); err != nil {
		t.Fatalf("from bytes failed: %v", err)
	}
	if err := decoder.ApplyTemplateSets(); err != nil {
		t.Fatalf("apply template sets failed: %v", err)
	}

	var visited int
	projection := InformationElementList{{Id: 999, Name: "notCarriedByAnyTemplate"}}
	if err := decoder.VisitTuples(projection, func(tid uint16, tuple []DataType) error {
		visited++
		return nil
	}); err != nil {
		t.Fatalf("visit tuples failed: %v", err)
	}
	if visited != 0 {
		t.Fatalf("expected the data set to be skipped entirely, got %d visits", visited)
	}

	var values []uint64
	covering := InformationElementList{{Id: 2, Name: "packetDeltaCount"}}
	if err := decoder.VisitTuples(covering, func(tid uint16, tuple []DataType) error {
		values = append(values, tuple[0].Value().(uint64))
		return nil
	}); err != nil {
		t.Fatalf("visit tuples failed: %v", err)
	}
	if len(values) != 1 || values[0] != 5 {
		t.Fatalf("unexpected projected tuple values: %+v", values)
	}
}
