// Package command owns the DVRIP command catalog.
//
// Ownership boundary:
// - request body builders for the closed set of control commands
// - strict reply parsing into typed records
// - the device timestamp and hex-number codecs
//
// Builders and parsers are pure; framing and sockets live in protocol
// and transport respectively.
package command
