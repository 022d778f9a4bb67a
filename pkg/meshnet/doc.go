// Package meshnet implements the wire format, per-strategy forwarding
// rules, and transmit/receive session protocol for an opportunistic,
// delay-tolerant notification mesh. It does not open a radio, a socket,
// or any other transport — callers supply a Transport (see transport.go)
// and a Store (see store.go) and drive the Engine from those callbacks.
package meshnet
