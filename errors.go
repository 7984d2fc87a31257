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
	"errors"
	"fmt"
)

var (
	// ErrTemplateNotFound is the base error used for indicating missing templates in caches.
	// It may be used in errors.Is() checks for error type, whereas compound errors constructed
	// with templateNotFound(...) cannot be compared with == due to including more information
	ErrTemplateNotFound error = errors.New("template not found")

	// ErrUnknownVersion indicates an illegal version number for IPFIX in the header of the message.
	ErrUnknownVersion error = errors.New("unknown version")

	// ErrUnknownFlowId is used for indicating usage of a set ID unassigned in IPFIX, which is specifically
	// the interval [4, 255], which is reserved.
	ErrUnknownFlowId error = errors.New("unknown flow id")

	// ErrIllegalDataTypeEncoding is used in Decode of certain data types that explicitly define illegal formats
	// such as boolean (1 and 2 encoding true and false and all other values being illegal) or strings
	// only allowing utf8 sequences.
	ErrIllegalDataTypeEncoding = errors.New("illegal data type encoding")

	// ErrUndefinedEncoding is raised by ADTs that encountered a byte pattern that has no
	// assigned meaning, such as a boolean octet other than 1 or 2.
	ErrUndefinedEncoding = errors.New("undefined encoding")

	// ErrMalformedMessage covers every structural violation of the wire format: a version
	// other than 10, a buffer shorter than its own header claims, a set or record that runs
	// past the message it is contained in, or a template with an inconsistent scope count.
	ErrMalformedMessage = errors.New("malformed message")

	// ErrEndOfMessage is returned when writing the next set header, template, or record would
	// exceed the message buffer's MTU. The buffer is left exactly as it was before the call.
	ErrEndOfMessage = errors.New("end of message")

	// ErrInvalidSpec is returned by the registry when an IESpec fails to parse, or a partial
	// spec (by name or number alone) does not resolve to any registered Information Element.
	ErrInvalidSpec = errors.New("invalid information element spec")

	// ErrMissingField is returned when encoding a record that lacks a value for an
	// Information Element the template requires.
	ErrMissingField = errors.New("missing field")

	// ErrNotFound is returned by template and registry lookups that find no matching entry.
	ErrNotFound = errors.New("not found")

	// ErrWrongState is returned when a MessageBuffer operation is attempted from a state
	// that does not support it, e.g. exporting a record before begin_export.
	ErrWrongState = errors.New("wrong state")
)

// templateNotFound wraps ErrTemplateNotFound to provide more information about _where_ the template
// was expected to be
func templateNotFound(observationDomainId uint32, templateId uint16) error {
	return fmt.Errorf("%w for %d in observation domain %d", ErrTemplateNotFound, templateId, observationDomainId)
}

// malformedMessage wraps ErrMalformedMessage with a description of the specific structural
// violation encountered while decoding.
func malformedMessage(reason string, args ...interface{}) error {
	return fmt.Errorf("%w: "+reason, append([]interface{}{ErrMalformedMessage}, args...)...)
}

// endOfMessage wraps ErrEndOfMessage with the number of octets that would have been needed
// versus the octets actually remaining before the buffer's MTU.
func endOfMessage(needed, remaining int) error {
	return fmt.Errorf("%w: needed %d octets, %d remaining before mtu", ErrEndOfMessage, needed, remaining)
}

// invalidSpec wraps ErrInvalidSpec with the offending spec string.
func invalidSpec(spec string, reason string) error {
	return fmt.Errorf("%w %q: %s", ErrInvalidSpec, spec, reason)
}

// missingField wraps ErrMissingField with the name of the absent Information Element.
func missingField(name string) error {
	return fmt.Errorf("%w: %s", ErrMissingField, name)
}

// notFound wraps ErrNotFound with a description of what was being looked up.
func notFound(what string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, what)
}

// wrongState wraps ErrWrongState with the operation attempted and the state it was attempted in.
func wrongState(op string, state exportState) error {
	return fmt.Errorf("%w: cannot %s while %s", ErrWrongState, op, state)
}
