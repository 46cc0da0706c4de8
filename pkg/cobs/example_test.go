package cobs_test

import (
	"bytes"
	"fmt"

	"github.com/yap-protocol/yap/pkg/cobs"
)

func ExampleEncode() {
	frame := cobs.Encode([]byte{0x01, 0x01, 0x00, 0x02, 0x01})
	fmt.Printf("% x\n", frame)
	// Output: 03 01 01 03 02 01 00
}

func ExampleDecode() {
	payload := cobs.Decode([]byte{0x0B, 'A', 'F', 'G', '4', '3', '8', '7', 'X', '0', '1', 0x00})
	fmt.Printf("%s\n", payload)
	// Output: AFG4387X01
}

func ExampleDecoder_Decode() {
	var buf bytes.Buffer
	enc := cobs.NewEncoder(&buf)
	enc.Encode([]byte{0x00, 0x00, 0x00, 0x01})
	enc.Encode([]byte{0x00, 0x00, 0x04, 0x01})

	dec := cobs.NewDecoder(&buf)
	for {
		payload, err := dec.Decode()
		if err != nil {
			break
		}
		fmt.Printf("% x\n", payload)
	}
	// Output:
	// 00 00 00 01
	// 00 00 04 01
}
