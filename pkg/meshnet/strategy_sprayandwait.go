package meshnet

import (
	"fmt"
	"time"
)

// MaxCopies is the largest copy budget a ControlByte's 4-bit sequence
// number field can carry.
const MaxCopies = 15

// SprayAndWaitStrategy implements Binary Spray-and-Wait: an originator
// hands out halves of its copy budget until it can no longer halve, at
// which point the last copy must reach the destination directly.
type SprayAndWaitStrategy struct {
	// copies is the initial budget L handed to newly-created
	// notifications. Guarded by the engine's single mutex; there is no
	// internal locking here because the engine never calls into a
	// Strategy concurrently with itself (§5).
	copies byte
}

// NewSprayAndWaitStrategy constructs the strategy with an initial copy
// budget L in [1, MaxCopies].
func NewSprayAndWaitStrategy(l byte) (*SprayAndWaitStrategy, error) {
	s := &SprayAndWaitStrategy{}
	if err := s.SetCopies(l); err != nil {
		return nil, err
	}
	return s, nil
}

// SetCopies updates the copy budget used by future Create calls. It fails
// with ErrInvalidControlByte if l is 0 or exceeds MaxCopies, mirroring the
// embedder-facing setNumberOfCopies contract (§6.2).
func (s *SprayAndWaitStrategy) SetCopies(l byte) error {
	if l < 1 || l > MaxCopies {
		return fmt.Errorf("%w: copies %d out of range [1,%d]", ErrInvalidControlByte, l, MaxCopies)
	}
	s.copies = l
	return nil
}

// Copies returns the currently configured initial copy budget.
func (s *SprayAndWaitStrategy) Copies() byte { return s.copies }

func (s *SprayAndWaitStrategy) Protocol() Protocol { return ProtocolSprayAndWait }

func (s *SprayAndWaitStrategy) Create(src, dest Address, msg string, sentAt time.Time) (Notification, error) {
	cb, err := NewControlByte(ProtocolSprayAndWait, DCFlood, s.copies)
	if err != nil {
		return Notification{}, err
	}
	return newNotification(cb, dest, src, msg, sentAt), nil
}

func (s *SprayAndWaitStrategy) Accept(n Notification, self Address) bool {
	return n.Control.DestinationControl == DCFlood || n.HashedDestinationAddress == self.Hashed
}

// TransmitMutate halves the sequence number for the wire copy. If the
// halved value is still a valid spray-phase budget (>=1), the hop carries
// that half onward with dc unchanged. If halving would produce 0 — the
// budget was already 0 or 1 — the wire copy instead transitions to
// Direct-mode (dc=2) carrying the unhalved sequence number, and the
// stored record is left untouched; only a later acknowledgement mutates
// it (§4.3, later revision).
func (s *SprayAndWaitStrategy) TransmitMutate(n Notification) (ControlByte, error) {
	half := n.Control.SequenceNumber / 2
	if cb, err := NewControlByte(n.Control.Protocol, n.Control.DestinationControl, half); err == nil && half >= 1 {
		return cb, nil
	}
	return NewControlByte(n.Control.Protocol, DCDirectOnly, n.Control.SequenceNumber)
}

// HandleAcknowledgement implements the later revision: receiving an ack
// means the peer now holds a copy, so the sender halves its remaining
// budget. When the budget can no longer be halved (it is 0 or 1), the
// sender instead promotes its stored record to Direct-mode, keeping the
// single remaining copy for hand delivery.
func (s *SprayAndWaitStrategy) HandleAcknowledgement(n *Notification) (bool, error) {
	half := n.Control.SequenceNumber / 2
	if half >= 1 {
		if err := n.SetSequenceNumber(half); err != nil {
			return false, err
		}
		return true, nil
	}
	if err := n.SetDestinationControl(DCDirectOnly); err != nil {
		return false, err
	}
	return true, nil
}

func (s *SprayAndWaitStrategy) AcknowledgesOnAccept() bool { return true }
