/*
Copyright 2023 Alexander Bartolomey (github@alexanderbartolomey.de)

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package ipfix

import (
	"bytes"
	"io"
	"time"
)

// exportState is the exporting state machine of a MessageBuffer, per
// RFC 7011 §3.1/§3.3. A MessageBuffer is single-threaded and cooperative: its
// methods never run concurrently with each other, so this small integer is
// sufficient state, no locking required.
type exportState int

const (
	stateIdle exportState = iota
	stateWritingMessage
	stateWritingSet
	stateFinalized
)

func (s exportState) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case stateWritingMessage:
		return "writing message"
	case stateWritingSet:
		return "writing set"
	case stateFinalized:
		return "finalized"
	default:
		return "unknown state"
	}
}

// setEntry records where one Set begins in a decoded message and how long
// its body is, per the scan performed by decode.
type setEntry struct {
	setId      uint16
	bodyOffset int
	bodyLength int
}

// MessageBuffer is the stateful, MTU-bounded byte buffer used both to build
// an outgoing IPFIX message (the exporting state machine) and to index an
// incoming one for record iteration (the decoding state machine). It owns a
// per-observation-domain Template table, matching the single Template
// namespace an Exporting/Collecting Process pair maintains per RFC 7011 §8.
type MessageBuffer struct {
	mtu int

	buf bytes.Buffer

	state        exportState
	currentSetId uint16
	setOffset    int // offset of the current set's header within buf

	odid       uint32
	exportTime uint32
	sequence   uint32

	// templates is keyed by observation domain ID, then by Template ID.
	templates map[uint32]map[uint16]*Template

	// decode-side state, populated by FromBytes
	header  MessageHeader
	sets    []setEntry
	decoded []byte
}

// DefaultMTU stays below the common 1500-octet Ethernet MTU minus IP/UDP
// headers, a conservative default for UDP export; TCP and file export have no
// transport-imposed ceiling but still benefit from a bound.
const DefaultMTU = 1428

// NewMessageBuffer returns an empty MessageBuffer with the given MTU, in the
// Idle state.
func NewMessageBuffer(mtu int) *MessageBuffer {
	return &MessageBuffer{
		mtu:       mtu,
		templates: make(map[uint32]map[uint16]*Template),
	}
}

func (m *MessageBuffer) templatesFor(odid uint32) map[uint16]*Template {
	t, ok := m.templates[odid]
	if !ok {
		t = make(map[uint16]*Template)
		m.templates[odid] = t
	}
	return t
}

// Template looks up a previously added or decoded Template by observation
// domain and Template ID.
func (m *MessageBuffer) Template(odid uint32, tid uint16) (*Template, bool) {
	t, ok := m.templates[odid][tid]
	return t, ok
}

// BeginExport implements exporting operation `begin_export`: it clears the
// buffer, writes a stub message header, and transitions to WritingMessage.
func (m *MessageBuffer) BeginExport(odid uint32) error {
	m.buf.Reset()
	m.odid = odid
	m.exportTime = uint32(exportTimeNow().Unix())
	m.currentSetId = 0
	m.setOffset = 0

	if _, err := (MessageHeader{
		Version:             ipfixVersion,
		ExportTime:          m.exportTime,
		SequenceNumber:      m.sequence,
		ObservationDomainId: odid,
	}).Encode(&m.buf); err != nil {
		return err
	}
	m.state = stateWritingMessage
	return nil
}

// exportTimeNow is a seam so tests can observe that ExportTime is populated
// without depending on wall-clock time elsewhere in the package.
var exportTimeNow = time.Now

func (m *MessageBuffer) remaining() int {
	return m.mtu - m.buf.Len()
}

func (m *MessageBuffer) ensureWriting(op string) error {
	if m.state != stateWritingMessage && m.state != stateWritingSet {
		return wrongState(op, m.state)
	}
	return nil
}

// closeCurrentSet patches the open set header's length field to span from
// its offset to the buffer's current length, per "closing a set means
// patching its length field".
func (m *MessageBuffer) closeCurrentSet() {
	if m.state != stateWritingSet {
		return
	}
	length := uint16(m.buf.Len() - m.setOffset)
	b := m.buf.Bytes()
	b[m.setOffset+2] = byte(length >> 8)
	b[m.setOffset+3] = byte(length)
}

// openSet writes a fresh Set header for setId, unconditionally closing
// whatever set was previously open.
func (m *MessageBuffer) openSet(setId uint16) error {
	if m.remaining() < int(setHeaderLength) {
		return endOfMessage(int(setHeaderLength), m.remaining())
	}
	m.closeCurrentSet()

	m.setOffset = m.buf.Len()
	if _, err := (SetHeader{Id: setId, Length: setHeaderLength}).Encode(&m.buf); err != nil {
		return err
	}
	m.currentSetId = setId
	m.state = stateWritingSet
	return nil
}

// ExportNewSet implements exporting operation `export_new_set`: it always
// closes the current set (if any) and opens a fresh one for setId.
func (m *MessageBuffer) ExportNewSet(setId uint16) error {
	if err := m.ensureWriting("export_new_set"); err != nil {
		return err
	}
	return m.openSet(setId)
}

// ExportEnsureSet implements exporting operation `export_ensure_set`: if the
// currently open set already has this ID, it is a no-op; otherwise behaves
// like ExportNewSet. setId must name a Template already known in the current
// observation domain when setId addresses a Data Set.
func (m *MessageBuffer) ExportEnsureSet(setId uint16) error {
	if err := m.ensureWriting("export_ensure_set"); err != nil {
		return err
	}
	if m.state == stateWritingSet && m.currentSetId == setId {
		return nil
	}
	if setId >= MinDataTemplateID {
		if _, ok := m.Template(m.odid, setId); !ok {
			return templateNotFound(m.odid, setId)
		}
	}
	return m.openSet(setId)
}

// AddTemplate implements exporting operation `add_template`: it registers
// tmpl in the buffer's template table for the current observation domain,
// and, if export is true, ensures the matching Template Set is open and
// appends the template's wire encoding to it.
func (m *MessageBuffer) AddTemplate(tmpl *Template, export bool) error {
	if err := m.ensureWriting("add_template"); err != nil {
		return err
	}
	m.templatesFor(m.odid)[tmpl.Id()] = tmpl

	if !export {
		return nil
	}

	setId := TemplateSetID
	if tmpl.IsOptionsTemplate() {
		setId = OptionsTemplateSetID
	}

	var encoded bytes.Buffer
	if _, err := tmpl.EncodeTemplateTo(&encoded); err != nil {
		return err
	}
	needed := encoded.Len()
	newSet := m.state != stateWritingSet || m.currentSetId != setId
	if newSet {
		needed += int(setHeaderLength)
	}
	if needed > m.remaining() {
		return endOfMessage(needed, m.remaining())
	}

	if newSet {
		if err := m.openSet(setId); err != nil {
			return err
		}
	}
	if _, err := m.buf.Write(encoded.Bytes()); err != nil {
		return err
	}
	return nil
}

// DeleteTemplate implements exporting operation `delete_template`: it
// removes tid from the current observation domain's template table, and, if
// export is true, emits a Template Withdrawal (a Template Record with
// field-count 0) into the Template Set.
func (m *MessageBuffer) DeleteTemplate(tid uint16, export bool) error {
	if err := m.ensureWriting("delete_template"); err != nil {
		return err
	}
	delete(m.templatesFor(m.odid), tid)

	if !export {
		return nil
	}
	withdrawal := FromIEList(tid, nil, 0)
	var encoded bytes.Buffer
	if _, err := withdrawal.EncodeTemplateTo(&encoded); err != nil {
		return err
	}
	needed := encoded.Len()
	newSet := m.state != stateWritingSet || m.currentSetId != TemplateSetID
	if newSet {
		needed += int(setHeaderLength)
	}
	if needed > m.remaining() {
		return endOfMessage(needed, m.remaining())
	}
	if newSet {
		if err := m.openSet(TemplateSetID); err != nil {
			return err
		}
	}
	_, err := m.buf.Write(encoded.Bytes())
	return err
}

// ExportRecord implements exporting operation `export_record`: it encodes
// values against the Template bound to the currently open Data Set. If
// encoding would exceed the MTU, the buffer is rolled back to exactly its
// pre-call state and ErrEndOfMessage is returned.
func (m *MessageBuffer) ExportRecord(values []DataType) (int, error) {
	if m.state != stateWritingSet || m.currentSetId < MinDataTemplateID {
		return 0, wrongState("export_record", m.state)
	}
	tmpl, ok := m.Template(m.odid, m.currentSetId)
	if !ok {
		return 0, templateNotFound(m.odid, m.currentSetId)
	}

	var encoded bytes.Buffer
	if _, err := tmpl.EncodeRecord(&encoded, values); err != nil {
		return 0, err
	}
	if encoded.Len() > m.remaining() {
		return 0, endOfMessage(encoded.Len(), m.remaining())
	}

	snapshot := m.buf.Len()
	n, err := m.buf.Write(encoded.Bytes())
	if err != nil {
		m.buf.Truncate(snapshot)
		return 0, err
	}
	m.sequence++
	return n, nil
}

// ToBytes implements exporting operation `to_bytes`: it closes the current
// set, rewrites the message header's length, transitions to Finalized, and
// returns the finished message. Export time and sequence number are left as
// BeginExport wrote them; the sequence number is the count of Data Records
// exported before this message.
func (m *MessageBuffer) ToBytes() ([]byte, error) {
	if m.state == stateIdle {
		return nil, wrongState("to_bytes", m.state)
	}
	m.closeCurrentSet()

	b := m.buf.Bytes()
	length := uint16(len(b))
	b[2] = byte(length >> 8)
	b[3] = byte(length)

	m.state = stateFinalized
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}

// WriteMessage finalizes the buffer via ToBytes and writes the result to w.
func (m *MessageBuffer) WriteMessage(w io.Writer) (int, error) {
	b, err := m.ToBytes()
	if err != nil {
		return 0, err
	}
	return w.Write(b)
}

// FromBytes implements the decoding state machine's `from_bytes`: it
// verifies the message header, then scans the Sets it contains without
// decoding record bodies, so that record iteration can be done lazily and,
// for Data Sets of uninteresting templates, skipped outright.
func (m *MessageBuffer) FromBytes(b []byte) error {
	if len(b) < int(messageHeaderLength) {
		return malformedMessage("message shorter than its own header: %d octets", len(b))
	}
	header, _, err := decodeMessageHeader(bytes.NewReader(b))
	if err != nil {
		return err
	}
	if int(header.Length) > len(b) {
		return malformedMessage("message declares length %d, only %d octets available", header.Length, len(b))
	}

	m.header = header
	m.odid = header.ObservationDomainId
	m.exportTime = header.ExportTime
	m.sequence = header.SequenceNumber
	m.decoded = b[:header.Length]
	m.sets = m.sets[:0]

	offset := int(messageHeaderLength)
	for offset+int(setHeaderLength) <= len(m.decoded) {
		sh, _, err := decodeSetHeader(bytes.NewReader(m.decoded[offset:]))
		if err != nil {
			return err
		}
		if offset+int(sh.Length) > len(m.decoded) {
			return malformedMessage("set at offset %d declares length %d past end of message", offset, sh.Length)
		}
		m.sets = append(m.sets, setEntry{
			setId:      sh.Id,
			bodyOffset: offset + int(setHeaderLength),
			bodyLength: int(sh.Length) - int(setHeaderLength),
		})
		offset += int(sh.Length)
	}
	return nil
}

// ReadMessage reads exactly len(raw) octets from r into raw and decodes them
// with FromBytes. Knowing the message length up front (the framing) is the
// caller's responsibility (see the TCP/UDP adapters).
func (m *MessageBuffer) ReadMessage(r io.Reader, raw []byte) error {
	n, err := io.ReadFull(r, raw)
	if err != nil {
		return err
	}
	return m.FromBytes(raw[:n])
}

// Header returns the header of the most recently decoded message.
func (m *MessageBuffer) Header() MessageHeader {
	return m.header
}

// ObservationDomainId returns the observation domain of the most recently
// decoded (or currently exporting) message.
func (m *MessageBuffer) ObservationDomainId() uint32 {
	return m.odid
}

// ApplyTemplateSets walks every Template Set and Options Template Set found
// by FromBytes and inserts (or, for a Template Withdrawal, removes) the
// templates they describe into the observation domain's template table. It
// must be called before iterating Data Sets that rely on templates carried
// in the same message.
func (m *MessageBuffer) ApplyTemplateSets() error {
	table := m.templatesFor(m.odid)
	for _, se := range m.sets {
		if se.setId != TemplateSetID && se.setId != OptionsTemplateSetID {
			continue
		}
		r := bytes.NewReader(m.decoded[se.bodyOffset : se.bodyOffset+se.bodyLength])
		for r.Len() > 0 {
			tmpl, _, err := decodeTemplateRecord(r, se.setId)
			if err != nil {
				return err
			}
			if tmpl.IsWithdrawal() {
				delete(table, tmpl.Id())
				continue
			}
			table[tmpl.Id()] = tmpl
		}
		DecodedSets.WithLabelValues("template").Inc()
	}
	return nil
}

// RecordVisitor is called once per decoded Data Record during Visit*.
// Returning a non-nil error aborts iteration with that error.
type RecordVisitor func(tid uint16, values []DataType) error

// VisitRecords implements decoding operation "record iteration": for every
// Data Set (set ID in [MinDataTemplateID, MaxTemplateID]) whose Template is
// known in the current observation domain, it decodes each record in turn
// and calls visit. Sets referencing an unknown Template are skipped, per
// §4.4: "this is reported by the iterator as zero records rather than a
// failure." Structured-data ADTs nested in these records can resolve
// sibling templates in this same message via activeTemplateResolver.
func (m *MessageBuffer) VisitRecords(visit RecordVisitor) error {
	table := m.templatesFor(m.odid)

	prevResolver := activeTemplateResolver
	activeTemplateResolver = func(tid uint16) (*Template, bool) {
		t, ok := table[tid]
		return t, ok
	}
	defer func() { activeTemplateResolver = prevResolver }()

	for _, se := range m.sets {
		if se.setId < MinDataTemplateID {
			continue
		}
		tmpl, ok := table[se.setId]
		if !ok {
			continue
		}

		r := bytes.NewReader(m.decoded[se.bodyOffset : se.bodyOffset+se.bodyLength])
		recordLen := fixedRecordLength(tmpl)
		for r.Len() > 0 {
			if recordLen > 0 && r.Len() < recordLen {
				break // tail padding shorter than one record
			}
			values, _, err := tmpl.DecodeRecord(r)
			if err != nil {
				return err
			}
			DecodedRecords.WithLabelValues("data").Inc()
			if err := visit(se.setId, values); err != nil {
				return err
			}
		}
		DecodedSets.WithLabelValues("data").Inc()
	}
	return nil
}

// VisitTuples behaves like VisitRecords, but projects each record onto
// ielist and skips entire Data Sets whose Template does not cover it, per
// §4.4: "If the caller is using a tuple projection and the template does not
// cover the projection, skip the set entirely."
func (m *MessageBuffer) VisitTuples(ielist InformationElementList, visit func(tid uint16, tuple []DataType) error) error {
	table := m.templatesFor(m.odid)

	prevResolver := activeTemplateResolver
	activeTemplateResolver = func(tid uint16) (*Template, bool) {
		t, ok := table[tid]
		return t, ok
	}
	defer func() { activeTemplateResolver = prevResolver }()

	for _, se := range m.sets {
		if se.setId < MinDataTemplateID {
			continue
		}
		tmpl, ok := table[se.setId]
		if !ok || !tmpl.Covers(ielist) {
			continue
		}

		r := bytes.NewReader(m.decoded[se.bodyOffset : se.bodyOffset+se.bodyLength])
		recordLen := fixedRecordLength(tmpl)
		for r.Len() > 0 {
			if recordLen > 0 && r.Len() < recordLen {
				break
			}
			tuple, _, err := tmpl.DecodeTuple(r, ielist)
			if err != nil {
				return err
			}
			DecodedRecords.WithLabelValues("data").Inc()
			if err := visit(se.setId, tuple); err != nil {
				return err
			}
		}
		DecodedSets.WithLabelValues("data").Inc()
	}
	return nil
}

// fixedRecordLength returns the wire length of one record of tmpl when every
// field is fixed-length, or 0 if any field is variable-length (in which case
// the tail-padding short-circuit in VisitRecords/VisitTuples does not apply).
func fixedRecordLength(tmpl *Template) int {
	var total int
	for _, ie := range tmpl.IEs() {
		length := ie.EffectiveLength()
		if IsVariableLength(length) {
			return 0
		}
		total += int(length)
	}
	return total
}
