package meshnet

import (
	"encoding/binary"
	"fmt"
	"time"
)

// minNotificationLength is the size of a frame carrying an empty message
// body: 1 (control) + 32 (hashedID) + 32 (dest) + 32 (src) + 8 (timestamp).
const minNotificationLength = 105

// Notification is the in-memory and persisted record of one message
// moving through the mesh.
type Notification struct {
	Control                  ControlByte
	HashedID                 [HashSize]byte
	HashedDestinationAddress [HashSize]byte
	HashedSourceAddress      [HashSize]byte
	SentAt                   time.Time
	Message                  string
}

// newNotification builds a Notification and derives its HashedID from
// (hashedSourceAddress, sentTimestamp, message), per the data model.
// sentAt is truncated to second precision before encoding so HashedID and
// the wire timestamp bytes stay consistent across a round trip.
func newNotification(control ControlByte, dest, src Address, msg string, sentAt time.Time) Notification {
	sentAt = sentAt.Truncate(time.Second)
	ts := encodeTimestamp(sentAt)
	id := Hash256(src.Hashed[:], ts[:], []byte(msg))
	return Notification{
		Control:                  control,
		HashedID:                 id,
		HashedDestinationAddress: dest.Hashed,
		HashedSourceAddress:      src.Hashed,
		SentAt:                   sentAt,
		Message:                  msg,
	}
}

// MaxMessageLength returns the longest message body that fits in a single
// frame under the given transport MTU.
func MaxMessageLength(maxNotificationLength int) int {
	n := maxNotificationLength - minNotificationLength
	if n < 0 {
		return 0
	}
	return n
}

// Transmittable reports whether this notification still belongs in a
// transmit queue: its destinationControl has not reached the terminal
// value 0.
func (n *Notification) Transmittable() bool {
	return n.Control.DestinationControl != DCTerminal
}

// SetDestinationControl validates and mutates the destinationControl
// field in place.
func (n *Notification) SetDestinationControl(dc byte) error {
	c, err := NewControlByte(n.Control.Protocol, dc, n.Control.SequenceNumber)
	if err != nil {
		return err
	}
	n.Control = c
	return nil
}

// SetSequenceNumber validates and mutates the sequenceNumber field in
// place.
func (n *Notification) SetSequenceNumber(seq byte) error {
	c, err := NewControlByte(n.Control.Protocol, n.Control.DestinationControl, seq)
	if err != nil {
		return err
	}
	n.Control = c
	return nil
}

func encodeTimestamp(t time.Time) [8]byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(t.Unix()))
	return b
}

func decodeTimestamp(b [8]byte) time.Time {
	return time.Unix(int64(binary.BigEndian.Uint64(b[:])), 0).UTC()
}

func (n Notification) String() string {
	return fmt.Sprintf("notification{id=%x dc=%d seq=%d len=%d}",
		n.HashedID[:4], n.Control.DestinationControl, n.Control.SequenceNumber, len(n.Message))
}
