package meshnet

import "time"

// EpidemicStrategy floods a notification to every peer encountered until
// it reaches its destination.
type EpidemicStrategy struct{}

func (EpidemicStrategy) Protocol() Protocol { return ProtocolEpidemic }

func (EpidemicStrategy) Create(src, dest Address, msg string, sentAt time.Time) (Notification, error) {
	cb, err := NewControlByte(ProtocolEpidemic, DCFlood, 0)
	if err != nil {
		return Notification{}, err
	}
	return newNotification(cb, dest, src, msg, sentAt), nil
}

func (EpidemicStrategy) Accept(n Notification, self Address) bool {
	return n.Control.DestinationControl == DCFlood
}

func (EpidemicStrategy) TransmitMutate(n Notification) (ControlByte, error) {
	return n.Control, nil
}

func (EpidemicStrategy) HandleAcknowledgement(*Notification) (bool, error) {
	return false, nil
}

func (EpidemicStrategy) AcknowledgesOnAccept() bool { return false }
