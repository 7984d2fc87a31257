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
	"encoding/json"
	"fmt"
	"io"
)

// DataType is the common interface implemented by every IPFIX abstract data
// type (ADT). Values carry their own wire-encoded length, so reduced-length
// and variable-length fields are represented by the WithLength/SetLength
// machinery rather than by a separate descriptor type.
type DataType interface {
	fmt.Stringer
	json.Marshaler
	json.Unmarshaler

	Type() string
	Value() interface{}
	SetValue(v any) DataType

	Length() uint16
	DefaultLength() uint16
	SetLength(length uint16) DataType
	IsReducedLength() bool

	Clone() DataType

	// WithLength returns a constructor curried with length, used when a
	// template instantiates a field at other than its default length.
	WithLength(length uint16) DataTypeConstructor

	Decode(in io.Reader) (int, error)
	Encode(w io.Writer) (int, error)
}

// DataTypeConstructor creates a new, zero-valued instance of a DataType.
type DataTypeConstructor func() DataType

var constructors = map[string]DataTypeConstructor{
	"octetArray":           NewOctetArray,
	"unsigned8":            NewUnsigned8,
	"unsigned16":           NewUnsigned16,
	"unsigned32":           NewUnsigned32,
	"unsigned64":           NewUnsigned64,
	"signed8":              NewSigned8,
	"signed16":             NewSigned16,
	"signed32":             NewSigned32,
	"signed64":             NewSigned64,
	"float32":              NewFloat32,
	"float64":              NewFloat64,
	"boolean":              NewBoolean,
	"macAddress":           NewMacAddress,
	"string":               NewString,
	"dateTimeSeconds":      NewDateTimeSeconds,
	"dateTimeMilliseconds": NewDateTimeMilliseconds,
	"dateTimeMicroseconds": NewDateTimeMicroseconds,
	"dateTimeNanoseconds":  NewDateTimeNanoseconds,
	"ipv4Address":          NewIPv4Address,
	"ipv6Address":          NewIPv6Address,
	"basicList":            NewBasicList,
	"subTemplateList":      NewSubTemplateList,
	"subTemplateMultiList": NewSubTemplateMultiList,
}

// LookupConstructor resolves an ADT's canonical name to its constructor.
// It returns nil if the name is not a known ADT.
func LookupConstructor(name string) DataTypeConstructor {
	return constructors[name]
}

// SupportedTypes lists all ADT names known to the type system.
func SupportedTypes() []string {
	types := make([]string, 0, len(constructors))
	for name := range constructors {
		types = append(types, name)
	}
	return types
}

// DataTypeFromNumber resolves the IANA-assigned numeric data type identifier
// (RFC 7012 / the IANA IPFIX "dataType" registry) to a constructor.
func DataTypeFromNumber(id uint8) DataTypeConstructor {
	switch id {
	case 0:
		return NewOctetArray
	case 1:
		return NewUnsigned8
	case 2:
		return NewUnsigned16
	case 3:
		return NewUnsigned32
	case 4:
		return NewUnsigned64
	case 5:
		return NewSigned8
	case 6:
		return NewSigned16
	case 7:
		return NewSigned32
	case 8:
		return NewSigned64
	case 9:
		return NewFloat32
	case 10:
		return NewFloat64
	case 11:
		return NewBoolean
	case 12:
		return NewMacAddress
	case 13:
		return NewString
	case 14:
		return NewDateTimeSeconds
	case 15:
		return NewDateTimeMilliseconds
	case 16:
		return NewDateTimeMicroseconds
	case 17:
		return NewDateTimeNanoseconds
	case 18:
		return NewIPv4Address
	case 19:
		return NewIPv6Address
	case 20:
		return NewBasicList
	case 21:
		return NewSubTemplateList
	case 22:
		return NewSubTemplateMultiList
	default:
		return nil
	}
}
