package ipfix

import (
	"encoding/binary"
	"fmt"
	"io"
)

// MessageHeader is the fixed 16-octet header prefixing every IPFIX message,
// per RFC 7011 §3.1.
type MessageHeader struct {
	Version             uint16 `json:"version"`
	Length              uint16 `json:"length"`
	ExportTime          uint32 `json:"exportTime"`
	SequenceNumber      uint32 `json:"sequenceNumber"`
	ObservationDomainId uint32 `json:"observationDomainId"`
}

func (h MessageHeader) Encode(w io.Writer) (int, error) {
	b := make([]byte, messageHeaderLength)
	binary.BigEndian.PutUint16(b[0:2], h.Version)
	binary.BigEndian.PutUint16(b[2:4], h.Length)
	binary.BigEndian.PutUint32(b[4:8], h.ExportTime)
	binary.BigEndian.PutUint32(b[8:12], h.SequenceNumber)
	binary.BigEndian.PutUint32(b[12:16], h.ObservationDomainId)
	return w.Write(b)
}

func decodeMessageHeader(r io.Reader) (MessageHeader, int, error) {
	b := make([]byte, messageHeaderLength)
	n, err := io.ReadFull(r, b)
	if err != nil {
		return MessageHeader{}, n, fmt.Errorf("failed to read message header, %w", err)
	}
	h := MessageHeader{
		Version:             binary.BigEndian.Uint16(b[0:2]),
		Length:              binary.BigEndian.Uint16(b[2:4]),
		ExportTime:          binary.BigEndian.Uint32(b[4:8]),
		SequenceNumber:      binary.BigEndian.Uint32(b[8:12]),
		ObservationDomainId: binary.BigEndian.Uint32(b[12:16]),
	}
	if h.Version != ipfixVersion {
		return h, n, fmt.Errorf("%w: %w: version %d, want %d", ErrMalformedMessage, ErrUnknownVersion, h.Version, ipfixVersion)
	}
	return h, n, nil
}

// SetHeader is the fixed 4-octet header prefixing every Set, per RFC 7011
// §3.3.2. Id is either TemplateSetID, OptionsTemplateSetID, or a Template ID
// in [MinDataTemplateID, MaxTemplateID] for a Data Set. Length includes this
// header.
type SetHeader struct {
	Id     uint16 `json:"id,omitempty"`
	Length uint16 `json:"length,omitempty"`
}

func (h SetHeader) Encode(w io.Writer) (int, error) {
	b := make([]byte, setHeaderLength)
	binary.BigEndian.PutUint16(b[0:2], h.Id)
	binary.BigEndian.PutUint16(b[2:4], h.Length)
	return w.Write(b)
}

func decodeSetHeader(r io.Reader) (SetHeader, int, error) {
	b := make([]byte, setHeaderLength)
	n, err := io.ReadFull(r, b)
	if err != nil {
		return SetHeader{}, n, fmt.Errorf("failed to read set header, %w", err)
	}
	h := SetHeader{
		Id:     binary.BigEndian.Uint16(b[0:2]),
		Length: binary.BigEndian.Uint16(b[2:4]),
	}
	if h.Length < setHeaderLength {
		return h, n, malformedMessage("set %d declares length %d shorter than its own header", h.Id, h.Length)
	}
	return h, n, nil
}
