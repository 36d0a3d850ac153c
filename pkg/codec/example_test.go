package codec_test

import (
	"fmt"
	"log"

	"github.com/ssargent/gobtree/pkg/codec"
)

// ExampleFrameCodec_basic demonstrates basic frame encoding and decoding.
func ExampleFrameCodec_basic() {
	fc := codec.NewFrameCodec()

	payload := []byte("user:123")

	encoded := fc.Encode(payload)
	fmt.Printf("Encoded %d bytes\n", len(encoded))

	got, consumed, err := fc.Decode(encoded)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Payload: %s\n", got)
	fmt.Printf("Consumed: %d\n", consumed)

	// Output:
	// Encoded 16 bytes
	// Payload: user:123
	// Consumed: 16
}

// ExampleFrameCodec_errorHandling demonstrates error handling on malformed
// frames.
func ExampleFrameCodec_errorHandling() {
	fc := codec.NewFrameCodec()

	malformed := []byte{0x01, 0x02}

	_, _, err := fc.Decode(malformed)
	if err != nil {
		fmt.Printf("Decode error: %v\n", err)
	}

	// Output:
	// Decode error: codec: truncated frame
}
