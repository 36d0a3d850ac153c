// Package codec provides CRC32-guarded binary framing for arbitrary byte
// payloads.
//
// A frame is the foundation gobtree builds its node-slot serialization on:
// each encoded node (its key values, flags and child Positions together) is
// wrapped in one frame before it lands in a fixed-size slot, and so is the
// tree's metadata record, so a truncated write or a bit flip on disk is
// caught on load instead of silently corrupting a tree.
//
// # Frame Format
//
// A frame is serialized as:
//
//	[PayloadLen(4)][Payload][CRC32(4)]
//
// Fields:
//   - PayloadLen: 32-bit unsigned length of Payload, little-endian
//   - Payload: the raw bytes being framed
//   - CRC32: IEEE CRC32 over PayloadLen and Payload, little-endian
//
// # Usage
//
//	fc := codec.NewFrameCodec()
//	framed := fc.Encode(payload)
//	got, n, err := fc.Decode(framed)
//	if err != nil {
//	    return err // truncated or corrupted frame
//	}
//
// Decode reports how many bytes it consumed so callers can decode a
// sequence of frames packed back to back inside one larger buffer; a node
// slot holds a single frame followed by zero padding.
package codec
