// Package cobs implements the byte-stuffing frame codec used on the yap wire.
//
// A frame carries an arbitrary binary payload over a stream in which the
// value 0x00 marks the end of a frame. Zero bytes inside the payload are
// removed and replaced by control bytes that record the distance to the
// next removed zero. The format is:
//
//	<control> <payload bytes without zeros...> 0x00
//
// # Examples
//
//	01 01 02 01     ->  05 01 01 02 01 00
//	01 01 00 02 01  ->  03 01 01 03 02 01 00
//	00 01 03        ->  01 03 01 03 00
//
// # Basic Usage
//
// Whole frames held in memory:
//
//	frame := cobs.Encode([]byte{0x00, 0x00, 0x01, 0x01})
//	payload := cobs.Decode(frame)
//
// Streams:
//
//	enc := cobs.NewEncoder(conn)
//	enc.Encode(id)
//
//	dec := cobs.NewDecoder(bufio.NewReader(conn))
//	payload, err := dec.Decode()
//
// # Run Limit
//
// A control byte holds at most 0xFF, so a zero-free run in the payload must
// not exceed MaxRun (254) bytes, and a run of exactly MaxRun bytes may only
// end the payload. Encode and Decode do not split longer runs; CheckRuns
// reports payloads outside the limit and the stream Encoder refuses them.
//
// Decode is total: any input, including truncated or malformed frames,
// yields a (possibly empty or truncated) payload rather than an error.
package cobs
