// Package transport owns the session socket.
//
// Ownership boundary:
// - TCP dial and idempotent close
// - framed send/receive with partial-read handling
// - socket deadlines per the reliability config
//
// It never interprets bodies and never retries; sequence numbers pass
// through opaquely from the client session.
package transport
