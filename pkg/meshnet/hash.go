package meshnet

import "github.com/zeebo/blake3"

// HashSize is the width in bytes of every hashed value placed on the wire
// (address hashes and notification hashedIDs).
const HashSize = 32

// Hash256 is the cryptographic hash function H referenced throughout the
// data model: a fixed, peer-agreed digest used to derive the wire form of
// an address and the primary key of a notification. It carries no
// confidentiality or authenticity guarantee on its own — consistent with
// the Non-goals, nothing is layered on top of it.
func Hash256(parts ...[]byte) [HashSize]byte {
	h := blake3.New()
	for _, p := range parts {
		h.Write(p)
	}
	var out [HashSize]byte
	copy(out[:], h.Sum(nil))
	return out
}
