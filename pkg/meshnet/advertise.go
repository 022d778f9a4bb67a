package meshnet

import (
	"fmt"

	"github.com/mr-tron/base58"
)

// advertiseTagBytes is the number of bytes of the fresh random address
// fed into the base58 encoder. 5 bytes base58-encode to at most 7
// characters; padding to exactly 8 gives a fixed-width tag.
const advertiseTagBytes = 5

// newAdvertiseTag mints a fresh 8-character base58 tag derived from a
// fresh random address, per §6.1. The tag carries no meaning beyond
// "something changed, re-announce me" — it is not tied back to the
// notification that triggered it.
func newAdvertiseTag() (string, error) {
	addr, err := NewRandomAddress()
	if err != nil {
		return "", fmt.Errorf("generate advertise tag: %w", err)
	}
	return padTag(base58.Encode(addr.Value[:advertiseTagBytes])), nil
}

// base58Pad is the base58 alphabet's first character, used to pad a short
// encoding out to the fixed 8-character tag width.
const base58Pad = '1'

func padTag(tag string) string {
	for len(tag) < 8 {
		tag += string(base58Pad)
	}
	return tag[:8]
}
