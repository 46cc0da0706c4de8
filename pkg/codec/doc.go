// Package codec converts between raw bytes and the value kinds carried by
// data points: unsigned 32-bit integers, IEEE-754 single precision floats
// and UTF-8 strings.
//
// Byte order is an explicit argument to every conversion and is never
// taken from the host platform. All functions are pure.
package codec
