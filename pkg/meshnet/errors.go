package meshnet

import "errors"

var (
	// ErrInvalidControlByte is returned when a (protocol, destinationControl,
	// sequenceNumber) triple cannot be packed into a valid ControlByte.
	ErrInvalidControlByte = errors.New("invalid control byte field")

	// ErrMessageTooLong is returned when a notification body would not fit
	// in a single frame under the transport's maxNotificationLength.
	ErrMessageTooLong = errors.New("message exceeds max notification length")

	// ErrUnknownHashedID is returned when an acknowledgement or mutation
	// refers to a hashedID the store has never seen.
	ErrUnknownHashedID = errors.New("unknown hashed id")

	// ErrUnsupportedAcknowledgement names the condition of a strategy
	// (Direct, Epidemic) that does not implement acknowledgement handling.
	// Those strategies report it by returning ok=false and a nil error from
	// HandleAcknowledgement; no code path returns this value.
	ErrUnsupportedAcknowledgement = errors.New("strategy does not support acknowledgements")
)

// errProtocolMismatch names the receive-path drop of a frame whose
// protocol field does not match the engine's configured strategy. The
// engine neither returns nor logs it; such a drop is observable only via
// the dropped_protocol result of the received-notifications metric.
var errProtocolMismatch = errors.New("protocol mismatch")
