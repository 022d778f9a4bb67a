package meshnet

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// AddressSize is the width in bytes of an Address's raw value.
const AddressSize = 32

// Address is a 32-byte opaque peer identifier plus its cached hash. Hashed
// is the only form of an address ever placed on the wire; Value never
// leaves the device it belongs to except to derive Hashed.
type Address struct {
	Value  [AddressSize]byte
	Hashed [HashSize]byte
	IsOwn  bool
	// Name is an optional display name resolved from an external address
	// book. It is never part of the wire format.
	Name string
}

// NewAddress derives an Address from a raw 32-byte value, computing the
// wire-visible hash. Use this for peer addresses learned from an address
// book; for the device's own address, identity.OwnAddress derives Value from a
// persisted keypair instead of random bytes.
func NewAddress(value [AddressSize]byte) Address {
	return Address{
		Value:  value,
		Hashed: Hash256(value[:]),
	}
}

// NewRandomAddress generates a uniformly random 32-byte address value.
// Used to mint the throwaway address behind each advertise tag (§6.1) and
// in tests that need a peer identity with no backing keypair.
func NewRandomAddress() (Address, error) {
	var value [AddressSize]byte
	if _, err := rand.Read(value[:]); err != nil {
		return Address{}, fmt.Errorf("generate random address: %w", err)
	}
	return NewAddress(value), nil
}

func (a Address) String() string {
	if a.Name != "" {
		return a.Name
	}
	return hex.EncodeToString(a.Hashed[:8])
}
