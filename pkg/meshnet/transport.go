package meshnet

// Transport is the external collaborator the engine drives to move bytes
// over the radio link. Implementations own connection establishment,
// advertisement, MTU negotiation, and link-layer retransmits — none of
// which are part of this package. See internal/simtransport for an
// in-process implementation used by tests and the demo CLI.
type Transport interface {
	// MaxNotificationLength is the MTU for a single frame; must be >= 105.
	MaxNotificationLength() int

	// Send attempts to deliver one frame to the currently connected peer.
	// It returns true if the frame was accepted by the link, false if the
	// link is back-pressured (the engine will suspend and retry on the
	// next readiness signal).
	Send(frame []byte) bool

	// Acknowledge fire-and-forgets a 32-byte hashedID acknowledgement back
	// to the current peer.
	Acknowledge(hashedID [HashSize]byte)

	// Disconnect tears down the current peer session.
	Disconnect()

	// Advertise republishes presence using a fresh tag, called after
	// every store insertion.
	Advertise(tag string)
}
