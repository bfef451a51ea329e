// Package protocol owns the DVRIP wire contract and parsing primitives.
//
// Ownership boundary:
// - fixed frame header encode/decode
// - framed read/write over a byte stream
// - device status codes
// - decode vs request error split
//
// Bodies are opaque JSON at this layer; package command interprets them.
package protocol
