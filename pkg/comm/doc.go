// Package comm runs commands against a device over a line transport.
package comm

// The protocol is half-duplex: a Session writes one frame and reads lines
// until a reply arrives. Replies are matched to requests by arrival order
// only, so a Session holds its lock for the whole exchange.
//
// Status codes in the reply:
//
//	0   success, the reply is returned
//	<0  transient, the command is encoded again (new counter) and resent
//	>0  fatal, RemoteError with the message from the reply
//
// There are no timeouts in this package. A transport read that never
// returns blocks the Session; configure timeouts on the transport.
