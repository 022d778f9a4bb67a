package meshnet

import "time"

// Strategy is the per-protocol capability surface: the three operations
// that differ between Direct, Epidemic, and Spray-and-Wait. The engine
// holds exactly one Strategy, fixed at construction (§4.3 "Changing
// strategy requires constructing a new engine").
type Strategy interface {
	// Protocol returns the strategy's protocol tag, used to populate new
	// notifications' control bytes and to reject mismatched incoming
	// frames in the receive pipeline.
	Protocol() Protocol

	// Create builds a freshly-originated notification addressed to dest.
	Create(src, dest Address, msg string, sentAt time.Time) (Notification, error)

	// Accept decides whether a received notification should be stored,
	// given the engine's own address. It never mutates n.
	Accept(n Notification, self Address) bool

	// TransmitMutate computes the control byte to place on the wire for
	// this hop. It never mutates the stored record; only an
	// acknowledgement (HandleAcknowledgement) does that.
	TransmitMutate(n Notification) (ControlByte, error)

	// HandleAcknowledgement applies a received acknowledgement to the
	// stored notification's control byte. ok is false for strategies that
	// do not support acknowledgements (Direct, Epidemic), in which case
	// the caller should drop the ack without treating it as an error.
	HandleAcknowledgement(n *Notification) (ok bool, err error)

	// AcknowledgesOnAccept reports whether accepting a notification
	// should cause the engine to emit an acknowledgement back to the
	// sender (Spray-and-Wait only).
	AcknowledgesOnAccept() bool
}
