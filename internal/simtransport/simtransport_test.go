package simtransport

import "testing"

type fakeReceiver struct {
	notifications [][]byte
	acks          [][]byte
}

func (f *fakeReceiver) ReceiveNotification(b []byte)    { f.notifications = append(f.notifications, b) }
func (f *fakeReceiver) ReceiveAcknowledgement(b []byte) { f.acks = append(f.acks, b) }

func TestSend_DeliversToLinkedPartnerAfterPump(t *testing.T) {
	a := New("a", 200)
	b := New("b", 200)
	Link(a, b)

	rb := &fakeReceiver{}
	b.Attach(rb)

	ok := a.Send([]byte("hello"))
	if !ok {
		t.Fatal("expected Send to succeed")
	}
	if len(rb.notifications) != 0 {
		t.Fatal("Send must queue, not deliver synchronously")
	}

	b.Pump()
	if len(rb.notifications) != 1 || string(rb.notifications[0]) != "hello" {
		t.Fatalf("partner did not receive frame after pump: %+v", rb.notifications)
	}
}

func TestSend_BackPressure(t *testing.T) {
	a := New("a", 200)
	b := New("b", 200)
	Link(a, b)
	rb := &fakeReceiver{}
	b.Attach(rb)

	a.RejectNextSends(1)
	if a.Send([]byte("f1")) {
		t.Fatal("expected first send to be rejected")
	}
	b.Pump()
	if len(rb.notifications) != 0 {
		t.Fatal("rejected send must not reach partner")
	}
	if !a.Send([]byte("f2")) {
		t.Fatal("expected second send to succeed")
	}
	b.Pump()
	if len(rb.notifications) != 1 {
		t.Fatal("expected exactly one delivered frame")
	}
}

func TestDisconnect_StopsDelivery(t *testing.T) {
	a := New("a", 200)
	b := New("b", 200)
	Link(a, b)
	rb := &fakeReceiver{}
	b.Attach(rb)

	a.Disconnect()
	if !a.Send([]byte("x")) {
		t.Fatal("Send after Disconnect should still report accepted by the link")
	}
	b.Pump()
	if len(rb.notifications) != 0 {
		t.Fatal("disconnected peer must not deliver frames")
	}
}

func TestAcknowledge_DeliversToPartnerAfterPump(t *testing.T) {
	a := New("a", 200)
	b := New("b", 200)
	Link(a, b)
	ra := &fakeReceiver{}
	a.Attach(ra)

	var id [32]byte
	id[0] = 0xAB
	b.Acknowledge(id)

	if len(ra.acks) != 0 {
		t.Fatal("Acknowledge must queue, not deliver synchronously")
	}
	a.Pump()
	if len(ra.acks) != 1 {
		t.Fatal("expected ack to reach partner after pump")
	}
}

func TestPump_ReturnsDeliveredCount(t *testing.T) {
	a := New("a", 200)
	b := New("b", 200)
	Link(a, b)
	rb := &fakeReceiver{}
	b.Attach(rb)

	a.Send([]byte("one"))
	a.Send([]byte("two"))
	if n := b.Pump(); n != 2 {
		t.Fatalf("expected 2 delivered, got %d", n)
	}
	if n := b.Pump(); n != 0 {
		t.Fatalf("expected an empty queue to pump 0, got %d", n)
	}
}
