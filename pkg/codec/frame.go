package codec

import (
	"encoding/binary"
	"errors"
	"hash/crc32"
)

// ErrTruncated is returned by Decode when fewer bytes were supplied than
// the frame header declares.
var ErrTruncated = errors.New("codec: truncated frame")

// ErrChecksum is returned by Decode when the payload's CRC32 does not match
// the checksum stored in the frame.
var ErrChecksum = errors.New("codec: checksum mismatch")

const headerLen = 4 // PayloadLen
const trailerLen = 4 // CRC32

// FrameCodec encodes and decodes length-prefixed, CRC32-checked byte
// frames. It carries no state and is safe for concurrent use.
type FrameCodec struct{}

// NewFrameCodec creates a new frame codec instance.
func NewFrameCodec() *FrameCodec {
	return &FrameCodec{}
}

// EncodedLen returns the number of bytes Encode will produce for a payload
// of length n.
func (FrameCodec) EncodedLen(n int) int {
	return headerLen + n + trailerLen
}

// Encode wraps payload in a length-prefixed, checksummed frame.
func (c FrameCodec) Encode(payload []byte) []byte {
	out := make([]byte, c.EncodedLen(len(payload)))
	binary.LittleEndian.PutUint32(out[0:4], uint32(len(payload)))
	copy(out[4:4+len(payload)], payload)
	crc := crc32.ChecksumIEEE(out[0 : 4+len(payload)])
	binary.LittleEndian.PutUint32(out[4+len(payload):], crc)
	return out
}

// Decode reads one frame from the start of data, returning its payload and
// the number of bytes consumed. It returns ErrTruncated if data is shorter
// than the frame it describes, and ErrChecksum if the payload fails its
// CRC32 check.
func (c FrameCodec) Decode(data []byte) (payload []byte, consumed int, err error) {
	if len(data) < headerLen {
		return nil, 0, ErrTruncated
	}
	n := int(binary.LittleEndian.Uint32(data[0:4]))
	if n < 0 || len(data) < headerLen+n+trailerLen {
		return nil, 0, ErrTruncated
	}
	body := data[0 : headerLen+n]
	wantCRC := binary.LittleEndian.Uint32(data[headerLen+n : headerLen+n+trailerLen])
	gotCRC := crc32.ChecksumIEEE(body)
	if gotCRC != wantCRC {
		return nil, 0, ErrChecksum
	}
	payload = make([]byte, n)
	copy(payload, data[headerLen:headerLen+n])
	return payload, headerLen + n + trailerLen, nil
}
