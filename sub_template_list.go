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

// SubTemplateList implements the subTemplateList abstract data type of
// RFC 6313 §4.2: a Semantic octet, a Template ID, and a back-to-back sequence
// of records encoded against that Template. The referenced Template is
// resolved through activeTemplateResolver, which MessageBuffer installs for
// the duration of a decode so that nested records see the same
// per-observation-domain template table as the record they are nested in.
// When no resolver is installed, or the Template ID is unknown, the entries
// are kept as undissected raw record bytes instead of failing the decode.
type SubTemplateList struct {
	semantic   ListSemantic
	templateId uint16
	records    [][]DataType
	raw        [][]byte
	length     uint16
}

func NewSubTemplateList() DataType {
	return &SubTemplateList{semantic: SemanticUndefined}
}

func (s *SubTemplateList) Type() string {
	return "subTemplateList"
}

func (s *SubTemplateList) String() string {
	return fmt.Sprintf("subTemplateList<%d>(%d)[%d]", s.templateId, s.semantic, len(s.records)+len(s.raw))
}

func (s *SubTemplateList) Value() interface{} {
	if len(s.raw) > 0 {
		return s.raw
	}
	return s.records
}

func (s *SubTemplateList) SetValue(v any) DataType {
	switch t := v.(type) {
	case [][]DataType:
		s.records = t
	case SubTemplateList:
		*s = t
	}
	return s
}

func (s *SubTemplateList) Length() uint16 {
	return s.length
}

func (s *SubTemplateList) DefaultLength() uint16 {
	return VariableLength
}

func (s *SubTemplateList) SetLength(length uint16) DataType {
	s.length = length
	return s
}

func (s *SubTemplateList) IsReducedLength() bool {
	return false
}

func (s *SubTemplateList) Clone() DataType {
	clone := *s
	clone.records = append([][]DataType{}, s.records...)
	clone.raw = append([][]byte{}, s.raw...)
	return &clone
}

func (s *SubTemplateList) WithLength(length uint16) DataTypeConstructor {
	return func() DataType {
		return &SubTemplateList{semantic: SemanticUndefined, length: length}
	}
}

func (s *SubTemplateList) Decode(r io.Reader) (int, error) {
	var total int

	header := make([]byte, 3)
	n, err := io.ReadFull(r, header)
	total += n
	if err != nil {
		return total, fmt.Errorf("failed to read subTemplateList header, %w", err)
	}
	s.semantic = ListSemantic(header[0])
	s.templateId = binary.BigEndian.Uint16(header[1:3])

	remaining := int(s.length) - total
	if remaining < 0 {
		return total, malformedMessage("subTemplateList header longer than declared envelope")
	}
	body := make([]byte, remaining)
	n, err = io.ReadFull(r, body)
	total += n
	if err != nil {
		return total, fmt.Errorf("failed to read subTemplateList payload, %w", err)
	}

	if activeTemplateResolver == nil {
		s.raw = [][]byte{body}
		return total, nil
	}
	tmpl, ok := activeTemplateResolver(s.templateId)
	if !ok {
		s.raw = [][]byte{body}
		return total, nil
	}

	br := bytes.NewReader(body)
	for br.Len() > 0 {
		rec, _, err := tmpl.DecodeRecord(br)
		if err != nil {
			return total, err
		}
		s.records = append(s.records, rec)
	}
	return total, nil
}

func (s *SubTemplateList) Encode(w io.Writer) (int, error) {
	var total int

	header := make([]byte, 3)
	header[0] = byte(s.semantic)
	binary.BigEndian.PutUint16(header[1:3], s.templateId)
	n, err := w.Write(header)
	total += n
	if err != nil {
		return total, err
	}

	if activeTemplateResolver != nil {
		if tmpl, ok := activeTemplateResolver(s.templateId); ok {
			for _, rec := range s.records {
				n, err := tmpl.EncodeRecord(w, rec)
				total += n
				if err != nil {
					return total, err
				}
			}
			s.length = uint16(total)
			return total, nil
		}
	}

	for _, raw := range s.raw {
		n, err := w.Write(raw)
		total += n
		if err != nil {
			return total, err
		}
	}
	s.length = uint16(total)
	return total, nil
}

func (s *SubTemplateList) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Semantic   ListSemantic `json:"semantic"`
		TemplateId uint16       `json:"templateId"`
		Records    int          `json:"records"`
	}{s.semantic, s.templateId, len(s.records) + len(s.raw)})
}

func (s *SubTemplateList) UnmarshalJSON(data []byte) error {
	return fmt.Errorf("subTemplateList: unmarshalling from JSON is not supported")
}
