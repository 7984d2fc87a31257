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
	"regexp"
	"strconv"
)

// iespecPattern implements the grammar
//
//	spec := name? ( '(' (pen '/')? num ')' )? ( '<' typename '>' )? ( '[' size ']' )?
//
// as used by registry.ForSpec.
var iespecPattern = regexp.MustCompile(
	`^(?P<name>[A-Za-z_][A-Za-z0-9_]*)?` +
		`(?:\((?:(?P<pen>[0-9]+)/)?(?P<num>[0-9]+)\))?` +
		`(?:<(?P<type>[A-Za-z][A-Za-z0-9]*)>)?` +
		`(?:\[(?P<size>[0-9]+)\])?$`,
)

// ieSpec is the parsed, partial form of an IESpec string. Any field may be
// absent (zero value); absence is meaningful to ForSpec, which decides
// between looking up an existing Information Element and registering a new
// one based on which fields were actually present in the spec text.
type ieSpec struct {
	name       string
	hasName    bool
	pen        uint32
	hasPen     bool
	num        uint16
	hasNum     bool
	typeName   string
	hasType    bool
	size       uint16
	hasSize    bool
}

// parseIESpec parses an IESpec string of the form
// `name(pen/num)<typename>[size]`, with any subset of the parenthesized,
// angle-bracketed, and bracketed groups present.
func parseIESpec(spec string) (ieSpec, error) {
	m := iespecPattern.FindStringSubmatch(spec)
	if m == nil {
		return ieSpec{}, invalidSpec(spec, "does not match name(pen/num)<type>[size] grammar")
	}

	names := iespecPattern.SubexpNames()
	groups := make(map[string]string, len(names))
	for i, name := range names {
		if i == 0 || name == "" {
			continue
		}
		groups[name] = m[i]
	}

	s := ieSpec{}

	if v := groups["name"]; v != "" {
		s.name = v
		s.hasName = true
	}
	if v := groups["pen"]; v != "" {
		pen, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return ieSpec{}, invalidSpec(spec, "pen is not a valid uint32")
		}
		s.pen = uint32(pen)
		s.hasPen = true
	}
	if v := groups["num"]; v != "" {
		num, err := strconv.ParseUint(v, 10, 16)
		if err != nil {
			return ieSpec{}, invalidSpec(spec, "num is not a valid uint16")
		}
		s.num = uint16(num)
		s.hasNum = true
	}
	if v := groups["type"]; v != "" {
		s.typeName = v
		s.hasType = true
	}
	if v := groups["size"]; v != "" {
		size, err := strconv.ParseUint(v, 10, 16)
		if err != nil {
			return ieSpec{}, invalidSpec(spec, "size is not a valid uint16")
		}
		s.size = uint16(size)
		s.hasSize = true
	}

	if !s.hasName && !s.hasNum {
		return ieSpec{}, invalidSpec(spec, "spec names neither an identifier nor an element number")
	}

	return s, nil
}
