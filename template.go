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
	"encoding/binary"
	"fmt"
	"io"
	"sync"
)

// TemplateMetadata carries the descriptive, non-wire-format attributes of a
// Template: the things an operator attaches to it rather than the things
// that go on the wire.
type TemplateMetadata struct {
	Name   string            `json:"name,omitempty"`
	Labels map[string]string `json:"labels,omitempty"`
}

// Template holds an ordered list of Information Elements bound to a Template
// ID, and knows how to encode and decode records against itself. A Template
// built with a non-zero scopeCount is an Options Template.
type Template struct {
	*TemplateMetadata `json:"metadata,omitempty"`

	tid        uint16
	scopeCount uint16
	ies        InformationElementList

	mu       sync.Mutex
	packlans map[string]*TemplatePackingPlan
}

// FromIEList implements template operation `from_ielist`: it returns a
// finalized Template bound to tid, with the first scopeCount Information
// Elements treated as scope fields (scopeCount == 0 for an ordinary Template,
// non-zero for an Options Template).
func FromIEList(tid uint16, ies InformationElementList, scopeCount uint16) *Template {
	return &Template{
		TemplateMetadata: &TemplateMetadata{},
		tid:              tid,
		scopeCount:       scopeCount,
		ies:              ies,
		packlans:         make(map[string]*TemplatePackingPlan),
	}
}

// Id returns the Template ID this template is bound to.
func (t *Template) Id() uint16 {
	return t.tid
}

// IsOptionsTemplate reports whether this template carries scope fields.
func (t *Template) IsOptionsTemplate() bool {
	return t.scopeCount > 0
}

// IEs returns the ordered field list this template was constructed from.
func (t *Template) IEs() InformationElementList {
	return t.ies
}

// IsWithdrawal reports whether this template carries no fields, the wire
// representation of a Template Withdrawal (RFC 7011 §8.1).
func (t *Template) IsWithdrawal() bool {
	return len(t.ies) == 0
}

// EncodeRecord implements template operation `encode_record`: values must be
// ordered parallel to the template's own field list.
func (t *Template) EncodeRecord(w io.Writer, values []DataType) (int, error) {
	if len(values) != len(t.ies) {
		return 0, malformedMessage("record has %d values, template %d has %d fields", len(values), t.tid, len(t.ies))
	}
	var total int
	for i, ie := range t.ies {
		n, err := encodeField(w, ie, values[i])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// DecodeRecord implements template operation `decode_record`: it returns one
// value per field, in template order.
func (t *Template) DecodeRecord(r io.Reader) ([]DataType, int, error) {
	values := make([]DataType, len(t.ies))
	var total int
	for i, ie := range t.ies {
		v, n, err := decodeField(r, ie)
		total += n
		if err != nil {
			return nil, total, err
		}
		values[i] = v
	}
	return values, total, nil
}

// EncodeNameDict implements template operation `encode_namedict_to`: rec maps
// IE name to value. A field the template requires but rec lacks fails with
// ErrMissingField; keys in rec that name no field of this template are
// ignored.
func (t *Template) EncodeNameDict(w io.Writer, rec map[string]DataType) (int, error) {
	var total int
	for _, ie := range t.ies {
		v, ok := rec[ie.Name]
		if !ok {
			return total, missingField(ie.Name)
		}
		n, err := encodeField(w, ie, v)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// DecodeNameDict implements template operation `decode_namedict_from`.
func (t *Template) DecodeNameDict(r io.Reader) (map[string]DataType, int, error) {
	rec := make(map[string]DataType, len(t.ies))
	var total int
	for _, ie := range t.ies {
		v, n, err := decodeField(r, ie)
		total += n
		if err != nil {
			return nil, total, err
		}
		rec[ie.Name] = v
	}
	return rec, total, nil
}

// DecodeIEDict implements template operation `decode_iedict_from`, keying the
// decoded record by FieldKey instead of by name, so records containing
// synthesized placeholder IEs (unknown at decode time) remain addressable.
func (t *Template) DecodeIEDict(r io.Reader) (map[FieldKey]DataType, int, error) {
	rec := make(map[FieldKey]DataType, len(t.ies))
	var total int
	for _, ie := range t.ies {
		v, n, err := decodeField(r, ie)
		total += n
		if err != nil {
			return nil, total, err
		}
		rec[ie.FieldKey()] = v
	}
	return rec, total, nil
}

// EncodeTuple implements template operation `encode_tuple_to`: rec[i]
// corresponds to ielist[i]. Fields of ielist absent from the template are
// ignored; fields of the template absent from ielist fail with
// ErrMissingField.
func (t *Template) EncodeTuple(w io.Writer, rec []DataType, ielist InformationElementList) (int, error) {
	byKey := make(map[FieldKey]DataType, len(rec))
	for i, ie := range ielist {
		if i >= len(rec) {
			break
		}
		byKey[ie.FieldKey()] = rec[i]
	}

	var total int
	for _, ie := range t.ies {
		v, ok := byKey[ie.FieldKey()]
		if !ok {
			return total, missingField(ie.Name)
		}
		n, err := encodeField(w, ie, v)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// DecodeTuple implements template operation `decode_tuple_from`: it decodes
// every field of the template (to stay correctly positioned on the wire),
// but returns only the values requested by ielist, in ielist order. Fields
// of ielist that the template does not carry are simply absent from the
// result.
func (t *Template) DecodeTuple(r io.Reader, ielist InformationElementList) ([]DataType, int, error) {
	all := make(map[FieldKey]DataType, len(t.ies))
	var total int
	for _, ie := range t.ies {
		v, n, err := decodeField(r, ie)
		total += n
		if err != nil {
			return nil, total, err
		}
		all[ie.FieldKey()] = v
	}

	out := make([]DataType, 0, len(ielist))
	for _, ie := range ielist {
		if v, ok := all[ie.FieldKey()]; ok {
			out = append(out, v)
		}
	}
	return out, total, nil
}

// Covers reports whether every Information Element in ielist is present in
// this template, by (pen, num). MessageBuffer uses this to skip entire Data
// Sets that cannot satisfy a caller's tuple projection.
func (t *Template) Covers(ielist InformationElementList) bool {
	for _, want := range ielist {
		if t.ies.IndexOf(want.EnterpriseId, want.Id) < 0 {
			return false
		}
	}
	return true
}

// EncodeTemplateTo implements template operation `encode_template_to`: it
// serializes the Template Record header and field descriptors, per RFC 7011
// §3.4. A template with scope fields is written as an Options Template
// Record, with the scope field count after the field count.
func (t *Template) EncodeTemplateTo(w io.Writer) (int, error) {
	var total int

	header := make([]byte, 4)
	binary.BigEndian.PutUint16(header[0:2], t.tid)
	binary.BigEndian.PutUint16(header[2:4], uint16(len(t.ies)))
	n, err := w.Write(header)
	total += n
	if err != nil {
		return total, err
	}

	if t.scopeCount > 0 {
		sc := make([]byte, 2)
		binary.BigEndian.PutUint16(sc, t.scopeCount)
		n, err = w.Write(sc)
		total += n
		if err != nil {
			return total, err
		}
	}

	for _, ie := range t.ies {
		n, err := encodeFieldSpecifier(w, fieldSpecifier{
			enterpriseId: ie.EnterpriseId,
			elementId:    ie.Id,
			fieldLength:  ie.EffectiveLength(),
		})
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// decodeTemplateRecord decodes one Template Record or Options Template
// Record body, immediately following its Set header, returning the template
// it describes (or an empty template for a Template Withdrawal, whose
// field-count is 0).
func decodeTemplateRecord(r io.Reader, setId uint16) (*Template, int, error) {
	header := make([]byte, 4)
	total, err := io.ReadFull(r, header)
	if err != nil {
		return nil, total, fmt.Errorf("failed to read template record header, %w", err)
	}
	tid := binary.BigEndian.Uint16(header[0:2])
	fieldCount := binary.BigEndian.Uint16(header[2:4])

	if fieldCount == 0 {
		return FromIEList(tid, nil, 0), total, nil
	}

	var scopeCount uint16
	if setId == OptionsTemplateSetID {
		sc := make([]byte, 2)
		n, err := io.ReadFull(r, sc)
		total += n
		if err != nil {
			return nil, total, fmt.Errorf("failed to read options template scope count, %w", err)
		}
		scopeCount = binary.BigEndian.Uint16(sc)
		if scopeCount == 0 || scopeCount > fieldCount {
			return nil, total, malformedMessage("options template %d has invalid scope count %d for %d fields", tid, scopeCount, fieldCount)
		}
	}

	ies := make(InformationElementList, fieldCount)
	for i := uint16(0); i < fieldCount; i++ {
		fs, n, err := decodeFieldSpecifier(r)
		total += n
		if err != nil {
			return nil, total, err
		}
		ies[i] = ForTemplateEntry(fs.enterpriseId, fs.elementId, fs.fieldLength)
	}

	return FromIEList(tid, ies, scopeCount), total, nil
}

// PackPlanForIEList implements template operation `packplan_for_ielist`: it
// returns a cached TemplatePackingPlan describing which of this template's
// fields to retain for projection onto ielist.
func (t *Template) PackPlanForIEList(ielist InformationElementList) *TemplatePackingPlan {
	key := ielist.Key()

	t.mu.Lock()
	defer t.mu.Unlock()
	if plan, ok := t.packlans[key]; ok {
		return plan
	}

	plan := &TemplatePackingPlan{keep: make([]bool, len(t.ies))}
	for i, ie := range t.ies {
		plan.keep[i] = ielist.IndexOf(ie.EnterpriseId, ie.Id) >= 0
	}
	t.packlans[key] = plan
	return plan
}

// TemplatePackingPlan marks, for each of a template's fields in order,
// whether it belongs to a given projection. Decoding still walks every field
// of the template in order (a field's own encoding is the only thing that
// tells the decoder how many octets it occupies on the wire), but fields
// with Keep(i) == false need not be retained by the caller past that point.
type TemplatePackingPlan struct {
	keep []bool
}

// Keep reports whether the i-th field of the owning template belongs to the
// projection this plan was built for.
func (p *TemplatePackingPlan) Keep(i int) bool {
	if i < 0 || i >= len(p.keep) {
		return false
	}
	return p.keep[i]
}

func encodeField(w io.Writer, ie InformationElement, v DataType) (int, error) {
	length := ie.EffectiveLength()
	if !IsVariableLength(length) {
		return v.Encode(w)
	}

	var buf bytes.Buffer
	if _, err := v.Encode(&buf); err != nil {
		return 0, err
	}
	var total int
	n, err := encodeVarlen(w, buf.Len())
	total += n
	if err != nil {
		return total, err
	}
	n, err = w.Write(buf.Bytes())
	total += n
	return total, err
}

func decodeField(r io.Reader, ie InformationElement) (DataType, int, error) {
	length := ie.EffectiveLength()
	if !IsVariableLength(length) {
		v := ie.newValue()
		n, err := v.Decode(r)
		return v, n, err
	}

	vlen, total, err := decodeVarlen(r)
	if err != nil {
		return nil, total, err
	}
	v := ie.Constructor().WithLength(uint16(vlen))()
	n, err := v.Decode(r)
	total += n
	return v, total, err
}
