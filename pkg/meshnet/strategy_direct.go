package meshnet

import "time"

// DirectStrategy delivers a notification only by direct contact with its
// destination: it is never forwarded by an intermediary.
type DirectStrategy struct{}

func (DirectStrategy) Protocol() Protocol { return ProtocolDirect }

func (DirectStrategy) Create(src, dest Address, msg string, sentAt time.Time) (Notification, error) {
	cb, err := NewControlByte(ProtocolDirect, DCDirectOnly, 0)
	if err != nil {
		return Notification{}, err
	}
	return newNotification(cb, dest, src, msg, sentAt), nil
}

func (DirectStrategy) Accept(n Notification, self Address) bool {
	return n.Control.DestinationControl == DCDirectOnly && n.HashedDestinationAddress == self.Hashed
}

func (DirectStrategy) TransmitMutate(n Notification) (ControlByte, error) {
	return n.Control, nil
}

func (DirectStrategy) HandleAcknowledgement(*Notification) (bool, error) {
	return false, nil
}

func (DirectStrategy) AcknowledgesOnAccept() bool { return false }
