package ipfix

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/flowfix/go-ipfix/iana/semantics"
	"github.com/flowfix/go-ipfix/iana/status"
)

type InformationElementRange struct {
	Low  int `json:"low,omitempty" yaml:"low,omitempty"`
	High int `json:"high,omitempty" yaml:"high,omitempty"`
}

func (i *InformationElementRange) Clone() *InformationElementRange {
	return &InformationElementRange{
		Low:  i.Low,
		High: i.High,
	}
}

type InformationElement struct {
	Constructor DataTypeConstructor `json:"-" yaml:"-"`

	Id           uint16 `json:"id,omitempty" yaml:"id,omitempty"`
	Name         string `json:"name,omitempty" yaml:"name,omitempty"`
	EnterpriseId uint32 `json:"pen,omitempty" yaml:"pen,omitempty"`

	// Length is the occurrence length in octets, as used by a specific template.
	// Zero means "use the ADT's default length". VariableLength (0xFFFF) marks a
	// variable-length field. Any other value smaller than the ADT's default length
	// is a reduced-length encoding.
	Length uint16 `json:"length,omitempty" yaml:"length,omitempty"`

	Semantics semantics.Semantic `json:"semantics,omitempty" yaml:"semantics,omitempty"`
	Status    status.Status      `json:"status,omitempty" yaml:"status,omitempty"`

	Type                  *string                  `json:"type,omitempty" yaml:"type,omitempty"`
	Description           *string                  `json:"description,omitempty" yaml:"description,omitempty"`
	Units                 *string                  `json:"units,omitempty" yaml:"units,omitempty"`
	Range                 *InformationElementRange `json:"range,omitempty" yaml:"range,omitempty"`
	AdditionalInformation *string                  `json:"additional_information,omitempty" yaml:"additionalInformation,omitempty"`
	Reference             *string                  `json:"reference,omitempty" yaml:"reference,omitempty"`
	Revision              *int                     `json:"revision,omitempty" yaml:"revision,omitempty"`
	Date                  *string                  `json:"date,omitempty" yaml:"date,omitempty"`
}

func (i InformationElement) String() string {
	if i.Type == nil && i.Constructor != nil {
		typ := i.Constructor().Type()
		i.Type = &typ
	}

	b, err := json.Marshal(i)
	if err != nil {
		panic(err)
	}
	return string(b)
}

// EffectiveLength returns the occurrence length to use on the wire: the
// explicit Length if set, else the ADT's natural default length.
func (i InformationElement) EffectiveLength() uint16 {
	if i.Length != 0 {
		return i.Length
	}
	if i.Constructor != nil {
		return i.Constructor().DefaultLength()
	}
	return 0
}

// newValue constructs a fresh DataType instance for decoding or encoding one
// occurrence of this Information Element, curried with its occurrence length.
func (i InformationElement) newValue() DataType {
	length := i.Length
	if IsVariableLength(length) {
		length = 0
	}
	return i.Constructor().WithLength(length)()
}

// FieldKey uniquely identifies an Information Element by enterprise number
// and element number, independent of its name or occurrence length.
func (i InformationElement) FieldKey() FieldKey {
	return FieldKey{EnterpriseId: i.EnterpriseId, Id: i.Id}
}

func (i *InformationElement) Clone() InformationElement {
	ie := InformationElement{
		Id:           i.Id,
		Name:         i.Name,
		EnterpriseId: i.EnterpriseId,
		Length:       i.Length,
		Semantics:    i.Semantics,
		Status:       i.Status,
	}

	if i.Constructor != nil {
		ie.Constructor = i.Constructor
	}
	if i.Range != nil {
		ie.Range = i.Range.Clone()
	}
	if i.Type != nil {
		typ := *i.Type
		ie.Type = &typ
	}
	if i.Description != nil {
		desc := *i.Description
		ie.Description = &desc
	}
	if i.AdditionalInformation != nil {
		ai := *i.AdditionalInformation
		ie.AdditionalInformation = &ai
	}
	if i.Units != nil {
		u := *i.Units
		ie.Units = &u
	}
	if i.Reference != nil {
		r := *i.Reference
		ie.Reference = &r
	}
	if i.Revision != nil {
		r := *i.Revision
		ie.Revision = &r
	}
	if i.Date != nil {
		d := *i.Date
		ie.Date = &d
	}

	return ie
}

func (i *InformationElement) UnmarshalJSON(in []byte) error {
	type serializableInformationElement struct {
		Id           uint16 `json:"id,omitempty" yaml:"id,omitempty"`
		EnterpriseId uint32 `json:"pen,omitempty" yaml:"pen,omitempty"`
		Name         string `json:"name,omitempty" yaml:"name,omitempty"`
		Length       uint16 `json:"length,omitempty" yaml:"length,omitempty"`

		Semantics semantics.Semantic `json:"semantics,omitempty" yaml:"semantics,omitempty"`
		Status    status.Status      `json:"status,omitempty" yaml:"status,omitempty"`

		Type                  *string                  `json:"type,omitempty" yaml:"type,omitempty"`
		Description           *string                  `json:"description,omitempty" yaml:"description,omitempty"`
		Units                 *string                  `json:"units,omitempty" yaml:"units,omitempty"`
		Range                 *InformationElementRange `json:"range,omitempty" yaml:"range,omitempty"`
		AdditionalInformation *string                  `json:"additional_information,omitempty" yaml:"additionalInformation,omitempty"`
		Reference             *string                  `json:"reference,omitempty" yaml:"reference,omitempty"`
		Revision              *int                     `json:"revision,omitempty" yaml:"revision,omitempty"`
		Date                  *string                  `json:"date,omitempty" yaml:"date,omitempty"`
	}

	ii := serializableInformationElement{}
	err := json.Unmarshal(in, &ii)
	if err != nil {
		return err
	}

	i.Id = ii.Id
	i.Name = ii.Name
	i.Length = ii.Length
	i.Description = ii.Description
	i.Semantics = ii.Semantics
	i.Status = ii.Status
	i.Type = ii.Type
	i.Range = ii.Range
	i.Date = ii.Date
	i.Units = ii.Units
	i.Reference = ii.Reference
	i.AdditionalInformation = ii.AdditionalInformation
	i.Revision = ii.Revision
	i.EnterpriseId = ii.EnterpriseId

	// if type is not defined for field, exit here
	if i.Type == nil {
		return nil
	}

	i.Constructor = LookupConstructor(*i.Type)
	return nil
}

// InformationElementList is an ordered sequence of Information Elements, used
// both as a template's field list and as a caller-supplied tuple projection.
type InformationElementList []InformationElement

// Key returns a string uniquely identifying this list's (pen, num, length)
// sequence, suitable as a cache key for packing plans.
func (l InformationElementList) Key() string {
	var b strings.Builder
	for _, ie := range l {
		fmt.Fprintf(&b, "%d/%d:%d,", ie.EnterpriseId, ie.Id, ie.Length)
	}
	return b.String()
}

// IndexOf returns the position of the Information Element matching pen/num
// in the list, or -1 if absent.
func (l InformationElementList) IndexOf(pen uint32, id uint16) int {
	for i, ie := range l {
		if ie.EnterpriseId == pen && ie.Id == id {
			return i
		}
	}
	return -1
}

// IndexOfName returns the position of the Information Element matching name
// in the list, or -1 if absent.
func (l InformationElementList) IndexOfName(name string) int {
	for i, ie := range l {
		if ie.Name == name {
			return i
		}
	}
	return -1
}
