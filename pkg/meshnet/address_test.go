package meshnet

import "testing"

func TestNewAddress_HashIsDeterministic(t *testing.T) {
	var value [AddressSize]byte
	for i := range value {
		value[i] = byte(i)
	}

	a1 := NewAddress(value)
	a2 := NewAddress(value)

	if a1.Hashed != a2.Hashed {
		t.Fatal("hashed address must be a deterministic function of value")
	}
}

func TestNewRandomAddress_Distinct(t *testing.T) {
	a1, err := NewRandomAddress()
	if err != nil {
		t.Fatal(err)
	}
	a2, err := NewRandomAddress()
	if err != nil {
		t.Fatal(err)
	}
	if a1.Value == a2.Value {
		t.Fatal("two random addresses collided")
	}
}
