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

/*
Package for working with IPFIX messages. Supports decoding and encoding from and to IPFIX according
to RFC 7011. Additionally, also supports most other major IPFIX RFCs, namely

- RFC 5103: Bidirectional Flow Export Using IP Flow Information Export (IPFIX)

- RFC 5655: Specification of the IP Flow Information Export (IPFIX) File Format

- RFC 6313: Export of Structured Data in IP Flow Information Export (IPFIX)

The sections below describe how the package is organised.

# Architecture

The package is layered bottom-up:

  - The type system (one file per abstract data type, e.g. unsigned32.go,
    ipv4_address.go) encodes and decodes the IPFIX abstract data types
    against an io.Writer/io.Reader, including reduced-length and
    variable-length encodings.

  - The Information Element registry (registry.go) is process-wide state
    mapping (PEN, element number) and canonical name to InformationElement
    definitions. It is bulk-loaded from CSV, YAML, or the IANA XML registry
    export format, and synthesizes
    placeholder IEs for unknown fields encountered while decoding templates.

  - Template (template.go) holds an ordered list of Information Elements
    bound to a 16-bit Template ID, and knows how to encode/decode records
    against itself, including a cached packing plan for tuple projections.

  - MessageBuffer (message_buffer.go) is the stateful, MTU-bounded byte
    buffer used both for exporting (a small state machine tracking the
    currently open set) and for decoding (indexing sets by scanning the
    message once up front). It owns a per-observation-domain template table.

  - TCP and UDP collecting adapters (tcp.go, udp.go) and an IPFIX File
    reader/writer (ipfix_file_format.go) are thin stream-framing loops that
    deliver whole raw messages for decoding with MessageBuffer; they do not
    call MessageBuffer themselves and hold no codec state of their own, matching
    this package's historical split between the codec core and the
    listeners that were added when it was factored out of a flow collector.
*/
package ipfix
