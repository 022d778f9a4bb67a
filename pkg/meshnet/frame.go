package meshnet

import "unicode/utf8"

// Sentinel builds the 105-byte end-of-session frame: a control byte with
// destinationControl 0, every other byte zero.
func Sentinel() []byte {
	return make([]byte, minNotificationLength)
}

// Serialize encodes a Notification into its wire frame.
func Serialize(n *Notification) []byte {
	buf := make([]byte, minNotificationLength+len(n.Message))
	buf[0] = n.Control.Pack()
	copy(buf[1:33], n.HashedID[:])
	copy(buf[33:65], n.HashedDestinationAddress[:])
	copy(buf[65:97], n.HashedSourceAddress[:])
	ts := encodeTimestamp(n.SentAt)
	copy(buf[97:105], ts[:])
	copy(buf[105:], n.Message)
	return buf
}

// ParseResult is the outcome of Parse: either a sentinel, a notification,
// or neither (the frame was too short and must be silently dropped).
type ParseResult struct {
	Sentinel     bool
	Notification Notification
}

// Parse decodes a raw frame per §4.1. Frames shorter than
// minNotificationLength yield ok=false (silent drop, per the receive
// pipeline). A control byte with destinationControl == 0 decodes as the
// end-of-session sentinel; the rest of the frame is ignored. Invalid
// UTF-8 in the message bytes is replaced with an empty string rather than
// rejecting the frame.
func Parse(b []byte) (ParseResult, bool) {
	if len(b) < minNotificationLength {
		return ParseResult{}, false
	}
	cb := UnpackControlByte(b[0])
	if cb.IsSentinel() {
		return ParseResult{Sentinel: true}, true
	}

	var n Notification
	n.Control = cb
	copy(n.HashedID[:], b[1:33])
	copy(n.HashedDestinationAddress[:], b[33:65])
	copy(n.HashedSourceAddress[:], b[65:97])
	var ts [8]byte
	copy(ts[:], b[97:105])
	n.SentAt = decodeTimestamp(ts)

	msg := b[105:]
	if utf8.Valid(msg) {
		n.Message = string(msg)
	} else {
		n.Message = ""
	}

	return ParseResult{Notification: n}, true
}
