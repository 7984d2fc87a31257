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
	"encoding/binary"
	"fmt"
	"io"
)

// VariableLength is the sentinel field length (0xFFFF) marking an
// InformationElement as variable-length per RFC 7011#7.
const VariableLength uint16 = 0xFFFF

// encodeVarlen writes the two-tier length prefix defined in RFC 7011#7.1:
// a single octet if length < 255, else 0xFF followed by the big-endian
// 16-bit length.
func encodeVarlen(w io.Writer, length int) (int, error) {
	if length < 0 || length > 0xFFFF {
		return 0, fmt.Errorf("%w: variable-length value of %d octets exceeds 65535", ErrMalformedMessage, length)
	}
	if length < 255 {
		return w.Write([]byte{byte(length)})
	}
	b := make([]byte, 3)
	b[0] = 0xFF
	binary.BigEndian.PutUint16(b[1:], uint16(length))
	return w.Write(b)
}

// decodeVarlen reads the two-tier length prefix, returning the decoded
// value length and the number of prefix octets consumed.
func decodeVarlen(r io.Reader) (length int, n int, err error) {
	b := make([]byte, 1)
	nn, err := r.Read(b)
	if err != nil {
		return 0, nn, fmt.Errorf("failed to read varlen prefix, %w", err)
	}
	if b[0] < 255 {
		return int(b[0]), nn, nil
	}
	ext := make([]byte, 2)
	nn2, err := r.Read(ext)
	if err != nil {
		return 0, nn + nn2, fmt.Errorf("failed to read extended varlen prefix, %w", err)
	}
	return int(binary.BigEndian.Uint16(ext)), nn + nn2, nil
}
