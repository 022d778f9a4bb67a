package meshnet

import (
	"testing"

	"pgregory.net/rapid"
)

func TestNewControlByte_Boundaries(t *testing.T) {
	cases := []struct {
		name     string
		protocol Protocol
		dc, seq  byte
		wantErr  bool
	}{
		{"direct valid", ProtocolDirect, DCDirectOnly, 0, false},
		{"epidemic valid", ProtocolEpidemic, DCFlood, 0, false},
		{"spray max copies", ProtocolSprayAndWait, DCFlood, 15, false},
		{"seq out of range", ProtocolSprayAndWait, DCFlood, 16, true},
		{"protocol out of range", Protocol(3), DCFlood, 0, true},
		{"dc out of range", ProtocolEpidemic, 3, 0, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := NewControlByte(c.protocol, c.dc, c.seq)
			if (err != nil) != c.wantErr {
				t.Fatalf("NewControlByte(%d,%d,%d) err=%v, wantErr=%v", c.protocol, c.dc, c.seq, err, c.wantErr)
			}
		})
	}
}

func TestControlByte_IsSentinel(t *testing.T) {
	cb, err := NewControlByte(ProtocolEpidemic, DCTerminal, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !cb.IsSentinel() {
		t.Fatal("expected dc=0 to be a sentinel")
	}

	cb2, err := NewControlByte(ProtocolEpidemic, DCFlood, 0)
	if err != nil {
		t.Fatal(err)
	}
	if cb2.IsSentinel() {
		t.Fatal("expected dc=1 to not be a sentinel")
	}
}

// TestControlByte_PackUnpackRoundTrip checks the round-trip law from §8:
// ControlByte.pack(unpack(b)) == b for every b whose unpacked fields are
// in range. Since the 2/2/4 encoding uses every bit of the byte, the
// round trip holds for every possible byte value, including those whose
// protocol or destinationControl bits decode to the out-of-range value 3.
func TestControlByte_PackUnpackRoundTrip(t *testing.T) {
	for b := 0; b <= 0xFF; b++ {
		got := UnpackControlByte(byte(b)).Pack()
		if got != byte(b) {
			t.Fatalf("round trip failed for byte %#02x: got %#02x", b, got)
		}
	}
}

func TestControlByte_PackUnpackRoundTrip_Rapid(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		protocol := Protocol(rapid.IntRange(0, maxProtocolValue).Draw(t, "protocol"))
		dc := byte(rapid.IntRange(0, maxDestinationControl).Draw(t, "dc"))
		seq := byte(rapid.IntRange(0, maxSequenceNumber).Draw(t, "seq"))

		cb, err := NewControlByte(protocol, dc, seq)
		if err != nil {
			t.Fatalf("NewControlByte: %v", err)
		}
		got := UnpackControlByte(cb.Pack())
		if got != cb {
			t.Fatalf("round trip mismatch: got %+v, want %+v", got, cb)
		}
	})
}
