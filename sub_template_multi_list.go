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
	"encoding/json"
	"fmt"
	"io"
)

// subTemplateMultiListEntry is one (Template ID, records) group within a
// subTemplateMultiList, per RFC 6313 §4.3.
type subTemplateMultiListEntry struct {
	templateId uint16
	records    [][]DataType
	raw        []byte
}

// SubTemplateMultiList implements the subTemplateMultiList abstract data
// type: a Semantic octet followed by a sequence of sub-list entries, each
// framed with its own two-octet Template ID and two-octet length, unlike
// subTemplateList which shares one Template ID for the whole list.
type SubTemplateMultiList struct {
	semantic ListSemantic
	entries  []subTemplateMultiListEntry
	length   uint16
}

func NewSubTemplateMultiList() DataType {
	return &SubTemplateMultiList{semantic: SemanticUndefined}
}

func (s *SubTemplateMultiList) Type() string {
	return "subTemplateMultiList"
}

func (s *SubTemplateMultiList) String() string {
	return fmt.Sprintf("subTemplateMultiList(%d)[%d entries]", s.semantic, len(s.entries))
}

func (s *SubTemplateMultiList) Value() interface{} {
	return s.entries
}

func (s *SubTemplateMultiList) SetValue(v any) DataType {
	if t, ok := v.(SubTemplateMultiList); ok {
		*s = t
	}
	return s
}

func (s *SubTemplateMultiList) Length() uint16 {
	return s.length
}

func (s *SubTemplateMultiList) DefaultLength() uint16 {
	return VariableLength
}

func (s *SubTemplateMultiList) SetLength(length uint16) DataType {
	s.length = length
	return s
}

func (s *SubTemplateMultiList) IsReducedLength() bool {
	return false
}

func (s *SubTemplateMultiList) Clone() DataType {
	clone := *s
	clone.entries = append([]subTemplateMultiListEntry{}, s.entries...)
	return &clone
}

func (s *SubTemplateMultiList) WithLength(length uint16) DataTypeConstructor {
	return func() DataType {
		return &SubTemplateMultiList{semantic: SemanticUndefined, length: length}
	}
}

func (s *SubTemplateMultiList) Decode(r io.Reader) (int, error) {
	var total int

	sem := make([]byte, 1)
	n, err := io.ReadFull(r, sem)
	total += n
	if err != nil {
		return total, fmt.Errorf("failed to read subTemplateMultiList semantic, %w", err)
	}
	s.semantic = ListSemantic(sem[0])

	for total < int(s.length) {
		eh := make([]byte, 4)
		n, err := io.ReadFull(r, eh)
		total += n
		if err != nil {
			return total, fmt.Errorf("failed to read subTemplateMultiList entry header, %w", err)
		}
		tid := binary.BigEndian.Uint16(eh[0:2])
		elen := int(binary.BigEndian.Uint16(eh[2:4]))

		body := make([]byte, elen)
		n, err = io.ReadFull(r, body)
		total += n
		if err != nil {
			return total, fmt.Errorf("failed to read subTemplateMultiList entry body, %w", err)
		}

		entry := subTemplateMultiListEntry{templateId: tid}
		if tmpl, ok := resolveTemplate(tid); ok {
			br := bytes.NewReader(body)
			for br.Len() > 0 {
				rec, _, err := tmpl.DecodeRecord(br)
				if err != nil {
					return total, err
				}
				entry.records = append(entry.records, rec)
			}
		} else {
			entry.raw = body
		}
		s.entries = append(s.entries, entry)
	}

	return total, nil
}

func resolveTemplate(tid uint16) (*Template, bool) {
	if activeTemplateResolver == nil {
		return nil, false
	}
	return activeTemplateResolver(tid)
}

func (s *SubTemplateMultiList) Encode(w io.Writer) (int, error) {
	var total int

	n, err := w.Write([]byte{byte(s.semantic)})
	total += n
	if err != nil {
		return total, err
	}

	for _, entry := range s.entries {
		var buf bytes.Buffer
		if tmpl, ok := resolveTemplate(entry.templateId); ok && len(entry.records) > 0 {
			for _, rec := range entry.records {
				if _, err := tmpl.EncodeRecord(&buf, rec); err != nil {
					return total, err
				}
			}
		} else {
			buf.Write(entry.raw)
		}

		eh := make([]byte, 4)
		binary.BigEndian.PutUint16(eh[0:2], entry.templateId)
		binary.BigEndian.PutUint16(eh[2:4], uint16(buf.Len()))
		n, err := w.Write(eh)
		total += n
		if err != nil {
			return total, err
		}
		n, err = w.Write(buf.Bytes())
		total += n
		if err != nil {
			return total, err
		}
	}

	s.length = uint16(total)
	return total, nil
}

func (s *SubTemplateMultiList) MarshalJSON() ([]byte, error) {
	type entryJSON struct {
		TemplateId uint16 `json:"templateId"`
		Records    int    `json:"records"`
	}
	out := make([]entryJSON, len(s.entries))
	for i, e := range s.entries {
		out[i] = entryJSON{e.templateId, len(e.records)}
	}
	return json.Marshal(struct {
		Semantic ListSemantic `json:"semantic"`
		Entries  []entryJSON  `json:"entries"`
	}{s.semantic, out})
}

func (s *SubTemplateMultiList) UnmarshalJSON(data []byte) error {
	return fmt.Errorf("subTemplateMultiList: unmarshalling from JSON is not supported")
}
