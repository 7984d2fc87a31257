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

import "embed"

const (
	// TemplateSetID is the reserved Set ID for Template Sets.
	TemplateSetID uint16 = 2
	// OptionsTemplateSetID is the reserved Set ID for Options Template Sets.
	OptionsTemplateSetID uint16 = 3

	// MinDataTemplateID is the lowest Template ID usable for Data Sets; IDs
	// below this are reserved for Template/Options Template Sets.
	MinDataTemplateID uint16 = 256
	// MaxTemplateID is the highest assignable Template ID.
	MaxTemplateID uint16 = 65535

	// EnterpriseBit flags an element ID on the wire as belonging to a
	// non-IANA, enterprise-specific Information Element, per RFC 7011#3.2.
	EnterpriseBit uint16 = 0x8000

	// ipfixVersion is the value of the Version field of every IPFIX message
	// header, per RFC 7011#3.1.
	ipfixVersion uint16 = 10

	// messageHeaderLength is the fixed length, in octets, of the IPFIX
	// message header.
	messageHeaderLength uint16 = 16

	// setHeaderLength is the fixed length, in octets, of a Set header.
	setHeaderLength uint16 = 4
)

//go:embed hack/ipfix-information-elements.csv
var seedRegistryFS embed.FS

// seedRegistryCSV is a small, explicitly non-exhaustive seed of well-known
// IANA Information Elements, sufficient to exercise the type system and the
// example flows of this package without claiming to reproduce the full IANA
// registry, which is external bundled data per the scope of this package.
var seedRegistryCSV = func() string {
	b, err := seedRegistryFS.ReadFile("hack/ipfix-information-elements.csv")
	if err != nil {
		panic(err)
	}
	return string(b)
}()
