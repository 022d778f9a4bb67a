package meshnet

import "fmt"

// Protocol identifies which forwarding strategy produced a notification.
type Protocol byte

const (
	ProtocolDirect       Protocol = 0
	ProtocolEpidemic     Protocol = 1
	ProtocolSprayAndWait Protocol = 2

	maxProtocolValue       = 2
	maxDestinationControl  = 2
	maxSequenceNumber      = 15
)

// DestinationControl values. Zero doubles as both "end-of-session
// sentinel" (on an otherwise-empty frame) and "terminal, no longer
// transmittable" (on a stored notification) — the two meanings never
// collide because a sentinel is never inserted into the store.
const (
	DCTerminal   byte = 0 // delivered to us, or sentinel
	DCFlood      byte = 1 // forward to anyone (Epidemic, Spray spray-phase)
	DCDirectOnly byte = 2 // deliver only by direct contact with the destination
)

// ControlByte packs protocol, destinationControl, and sequenceNumber into
// a single wire octet. The bit layout is a private convention of this
// implementation (see SPEC_FULL.md "Bit layout resolution"): bits [7:6]
// protocol, bits [5:4] destinationControl, bits [3:0] sequenceNumber.
type ControlByte struct {
	Protocol           Protocol
	DestinationControl byte
	SequenceNumber     byte
}

// NewControlByte validates and constructs a ControlByte. It fails with
// ErrInvalidControlByte if any field is out of its documented range.
func NewControlByte(protocol Protocol, dc byte, seq byte) (ControlByte, error) {
	if protocol > maxProtocolValue {
		return ControlByte{}, fmt.Errorf("%w: protocol %d out of range [0,%d]", ErrInvalidControlByte, protocol, maxProtocolValue)
	}
	if dc > maxDestinationControl {
		return ControlByte{}, fmt.Errorf("%w: destinationControl %d out of range [0,%d]", ErrInvalidControlByte, dc, maxDestinationControl)
	}
	if seq > maxSequenceNumber {
		return ControlByte{}, fmt.Errorf("%w: sequenceNumber %d out of range [0,%d]", ErrInvalidControlByte, seq, maxSequenceNumber)
	}
	return ControlByte{Protocol: protocol, DestinationControl: dc, SequenceNumber: seq}, nil
}

// Pack encodes the ControlByte into its single-octet wire form.
func (c ControlByte) Pack() byte {
	return byte(c.Protocol)<<6 | (c.DestinationControl&0x3)<<4 | (c.SequenceNumber & 0xF)
}

// UnpackControlByte decodes a wire octet into its three fields. It never
// fails and does not validate: the 2-bit protocol and destinationControl
// fields can decode to 3, which is outside their valid range [0,2]. Every
// byte value still round-trips exactly through Pack.
func UnpackControlByte(b byte) ControlByte {
	return ControlByte{
		Protocol:           Protocol(b >> 6),
		DestinationControl: (b >> 4) & 0x3,
		SequenceNumber:     b & 0xF,
	}
}

// IsSentinel reports whether this control byte marks an end-of-session
// sentinel frame: destinationControl == 0.
func (c ControlByte) IsSentinel() bool {
	return c.DestinationControl == DCTerminal
}
