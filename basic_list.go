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
	"encoding/json"
	"fmt"
	"io"
)

// BasicList implements the basicList abstract data type of RFC 6313 §4.1: a
// Semantic octet, a Field Specifier naming the element type of every entry,
// and a back-to-back sequence of values of that type.
type BasicList struct {
	semantic ListSemantic
	element  InformationElement
	values   []DataType
	length   uint16
}

func NewBasicList() DataType {
	return &BasicList{semantic: SemanticUndefined}
}

func (b *BasicList) Type() string {
	return "basicList"
}

func (b *BasicList) String() string {
	return fmt.Sprintf("basicList<%s>(%d)[%d]", b.element.Name, b.semantic, len(b.values))
}

func (b *BasicList) Value() interface{} {
	return b.values
}

func (b *BasicList) SetValue(v any) DataType {
	switch t := v.(type) {
	case []DataType:
		b.values = t
	case BasicList:
		*b = t
	}
	return b
}

func (b *BasicList) Length() uint16 {
	return b.length
}

func (b *BasicList) DefaultLength() uint16 {
	return VariableLength
}

func (b *BasicList) SetLength(length uint16) DataType {
	b.length = length
	return b
}

func (b *BasicList) IsReducedLength() bool {
	return false
}

func (b *BasicList) Clone() DataType {
	clone := *b
	clone.values = append([]DataType{}, b.values...)
	return &clone
}

func (b *BasicList) WithLength(length uint16) DataTypeConstructor {
	return func() DataType {
		return &BasicList{semantic: SemanticUndefined, length: length}
	}
}

// Decode reads the basicList body. b.length must already carry the total
// envelope length, supplied by Template's variable-length decode path via
// WithLength, since the wire format has no inner length of its own.
func (b *BasicList) Decode(r io.Reader) (int, error) {
	var total int

	sem := make([]byte, 1)
	n, err := io.ReadFull(r, sem)
	total += n
	if err != nil {
		return total, fmt.Errorf("failed to read basicList semantic, %w", err)
	}
	b.semantic = ListSemantic(sem[0])

	fs, n, err := decodeFieldSpecifier(r)
	total += n
	if err != nil {
		return total, err
	}
	b.element = ForTemplateEntry(fs.enterpriseId, fs.elementId, fs.fieldLength)

	remaining := int(b.length) - total
	if remaining < 0 {
		return total, malformedMessage("basicList header longer than declared envelope")
	}
	payload := make([]byte, remaining)
	n, err = io.ReadFull(r, payload)
	total += n
	if err != nil {
		return total, fmt.Errorf("failed to read basicList payload, %w", err)
	}

	pr := bytes.NewReader(payload)
	b.values = nil
	for pr.Len() > 0 {
		if IsVariableLength(fs.fieldLength) {
			vlen, _, err := decodeVarlen(pr)
			if err != nil {
				return total, err
			}
			v := b.element.Constructor().WithLength(uint16(vlen))()
			if _, err := v.Decode(pr); err != nil {
				return total, err
			}
			b.values = append(b.values, v)
		} else {
			v := b.element.Constructor().WithLength(fs.fieldLength)()
			if _, err := v.Decode(pr); err != nil {
				return total, err
			}
			b.values = append(b.values, v)
		}
	}

	return total, nil
}

func (b *BasicList) Encode(w io.Writer) (int, error) {
	var total int

	n, err := w.Write([]byte{byte(b.semantic)})
	total += n
	if err != nil {
		return total, err
	}

	fieldLength := b.element.EffectiveLength()
	n, err = encodeFieldSpecifier(w, fieldSpecifier{
		enterpriseId: b.element.EnterpriseId,
		elementId:    b.element.Id,
		fieldLength:  fieldLength,
	})
	total += n
	if err != nil {
		return total, err
	}

	for _, v := range b.values {
		if IsVariableLength(fieldLength) {
			var buf bytes.Buffer
			if _, err := v.Encode(&buf); err != nil {
				return total, err
			}
			n, err = encodeVarlen(w, buf.Len())
			total += n
			if err != nil {
				return total, err
			}
			n, err = w.Write(buf.Bytes())
			total += n
			if err != nil {
				return total, err
			}
		} else {
			n, err = v.Encode(w)
			total += n
			if err != nil {
				return total, err
			}
		}
	}

	b.length = uint16(total)
	return total, nil
}

func (b *BasicList) MarshalJSON() ([]byte, error) {
	out := make([]interface{}, len(b.values))
	for i, v := range b.values {
		out[i] = v.Value()
	}
	return json.Marshal(struct {
		Semantic ListSemantic  `json:"semantic"`
		Element  string        `json:"element"`
		Values   []interface{} `json:"values"`
	}{b.semantic, b.element.Name, out})
}

func (b *BasicList) UnmarshalJSON(data []byte) error {
	return fmt.Errorf("basicList: unmarshalling from JSON is not supported")
}
