// Package client owns the DVRIP session lifecycle.
//
// Ownership boundary:
// - connect/login/call/logout state machine
// - sequence number assignment and token storage
// - mapping transport and codec failures into the error taxonomy
//
// A session is half-duplex: one outstanding request at a time, enforced
// with a mutex around the call boundary. Retry policy belongs to callers;
// the session never retries anything.
package client
