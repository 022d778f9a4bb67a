package meshnet

import (
	"testing"
	"time"
)

func TestDirectStrategy_AcceptOnlyForDestination(t *testing.T) {
	src, _ := NewRandomAddress()
	dest, _ := NewRandomAddress()
	other, _ := NewRandomAddress()

	n, err := DirectStrategy{}.Create(src, dest, "hi", time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if !DirectStrategy{}.Accept(n, dest) {
		t.Fatal("expected destination to accept")
	}
	if DirectStrategy{}.Accept(n, other) {
		t.Fatal("expected non-destination to reject")
	}
}

func TestDirectStrategy_TransmitUnchanged(t *testing.T) {
	src, _ := NewRandomAddress()
	dest, _ := NewRandomAddress()
	n, _ := DirectStrategy{}.Create(src, dest, "hi", time.Now())

	cb, err := DirectStrategy{}.TransmitMutate(n)
	if err != nil {
		t.Fatal(err)
	}
	if cb != n.Control {
		t.Fatal("Direct must emit the control byte unchanged")
	}
}

func TestDirectStrategy_NoAcknowledgements(t *testing.T) {
	n := Notification{}
	ok, err := DirectStrategy{}.HandleAcknowledgement(&n)
	if ok || err != nil {
		t.Fatal("Direct must not support acknowledgements")
	}
	if DirectStrategy{}.AcknowledgesOnAccept() {
		t.Fatal("Direct must not ack on accept")
	}
}

func TestEpidemicStrategy_AcceptsAnyFlood(t *testing.T) {
	src, _ := NewRandomAddress()
	dest, _ := NewRandomAddress()
	bystander, _ := NewRandomAddress()

	n, err := EpidemicStrategy{}.Create(src, dest, "hi", time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if !EpidemicStrategy{}.Accept(n, bystander) {
		t.Fatal("epidemic flood must be accepted by an intermediary")
	}
}

func TestSprayAndWait_Create_UsesConfiguredCopies(t *testing.T) {
	sw, err := NewSprayAndWaitStrategy(4)
	if err != nil {
		t.Fatal(err)
	}
	src, _ := NewRandomAddress()
	dest, _ := NewRandomAddress()

	n, err := sw.Create(src, dest, "hi", time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if n.Control.SequenceNumber != 4 {
		t.Fatalf("expected seq=4, got %d", n.Control.SequenceNumber)
	}
	if n.Control.DestinationControl != DCFlood {
		t.Fatalf("expected dc=flood at creation, got %d", n.Control.DestinationControl)
	}
}

func TestSprayAndWait_SetCopies_Boundaries(t *testing.T) {
	sw, _ := NewSprayAndWaitStrategy(1)
	if err := sw.SetCopies(MaxCopies); err != nil {
		t.Fatalf("expected copies=%d to succeed, got %v", MaxCopies, err)
	}
	if err := sw.SetCopies(MaxCopies + 1); err == nil {
		t.Fatalf("expected copies=%d to fail", MaxCopies+1)
	}
	if err := sw.SetCopies(0); err == nil {
		t.Fatal("expected copies=0 to fail")
	}
}

func TestSprayAndWait_Accept_FloodOrOwnDestination(t *testing.T) {
	sw, _ := NewSprayAndWaitStrategy(4)
	src, _ := NewRandomAddress()
	dest, _ := NewRandomAddress()
	bystander, _ := NewRandomAddress()

	n, _ := sw.Create(src, dest, "hi", time.Now())
	if !sw.Accept(n, bystander) {
		t.Fatal("flood copy must be accepted by any intermediary")
	}
	if !sw.Accept(n, dest) {
		t.Fatal("destination must always accept")
	}

	direct, _ := NewControlByte(ProtocolSprayAndWait, DCDirectOnly, 1)
	n.Control = direct
	if sw.Accept(n, bystander) {
		t.Fatal("direct-mode copy must not be accepted by a non-destination")
	}
	if !sw.Accept(n, dest) {
		t.Fatal("destination must accept a direct-mode copy")
	}
}

// TestSprayAndWait_TransmitMutate_Halving walks scenario 3 of §8: L=4
// halves to 2, then 1, then transitions to direct-mode on the hop where
// halving would yield 0, all without mutating the stored record.
func TestSprayAndWait_TransmitMutate_Halving(t *testing.T) {
	sw, _ := NewSprayAndWaitStrategy(4)
	src, _ := NewRandomAddress()
	dest, _ := NewRandomAddress()
	n, _ := sw.Create(src, dest, "hi", time.Now())

	cb, err := sw.TransmitMutate(n)
	if err != nil {
		t.Fatal(err)
	}
	if cb.SequenceNumber != 2 || cb.DestinationControl != DCFlood {
		t.Fatalf("hop 1: got %+v, want seq=2 dc=flood", cb)
	}
	if n.Control.SequenceNumber != 4 {
		t.Fatal("TransmitMutate must not mutate the stored record")
	}

	n.Control.SequenceNumber = 2
	cb, err = sw.TransmitMutate(n)
	if err != nil {
		t.Fatal(err)
	}
	if cb.SequenceNumber != 1 || cb.DestinationControl != DCFlood {
		t.Fatalf("hop 2: got %+v, want seq=1 dc=flood", cb)
	}

	n.Control.SequenceNumber = 1
	cb, err = sw.TransmitMutate(n)
	if err != nil {
		t.Fatal(err)
	}
	if cb.DestinationControl != DCDirectOnly || cb.SequenceNumber != 1 {
		t.Fatalf("hop 3: got %+v, want dc=direct seq=1 (promoted for this hop)", cb)
	}
}

// TestSprayAndWait_HandleAcknowledgement_Halving walks the sender-side
// state machine of §4.7: each ack halves the stored seq, until it can no
// longer halve, at which point dc is promoted to direct instead.
func TestSprayAndWait_HandleAcknowledgement_Halving(t *testing.T) {
	sw, _ := NewSprayAndWaitStrategy(4)
	src, _ := NewRandomAddress()
	dest, _ := NewRandomAddress()
	n, _ := sw.Create(src, dest, "hi", time.Now())

	ok, err := sw.HandleAcknowledgement(&n)
	if err != nil || !ok {
		t.Fatalf("ack 1 failed: ok=%v err=%v", ok, err)
	}
	if n.Control.SequenceNumber != 2 {
		t.Fatalf("expected seq=2 after first ack, got %d", n.Control.SequenceNumber)
	}

	ok, err = sw.HandleAcknowledgement(&n)
	if err != nil || !ok {
		t.Fatalf("ack 2 failed: ok=%v err=%v", ok, err)
	}
	if n.Control.SequenceNumber != 1 {
		t.Fatalf("expected seq=1 after second ack, got %d", n.Control.SequenceNumber)
	}

	ok, err = sw.HandleAcknowledgement(&n)
	if err != nil || !ok {
		t.Fatalf("ack 3 failed: ok=%v err=%v", ok, err)
	}
	if n.Control.DestinationControl != DCDirectOnly {
		t.Fatalf("expected promotion to direct-mode, got dc=%d", n.Control.DestinationControl)
	}
	if n.Control.SequenceNumber != 1 {
		t.Fatalf("expected seq to stay at 1 on promotion, got %d", n.Control.SequenceNumber)
	}
}

func TestSprayAndWait_AcknowledgesOnAccept(t *testing.T) {
	sw, _ := NewSprayAndWaitStrategy(4)
	if !sw.AcknowledgesOnAccept() {
		t.Fatal("Spray-and-Wait must acknowledge on accept")
	}
}
