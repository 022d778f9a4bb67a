// Package identity loads or creates the device's long-lived Ed25519
// keypair and derives its mesh address from it, so restarting the
// daemon never changes which address a peer's address book points at.
package identity

import (
	"fmt"
	"os"
	"runtime"

	"github.com/libp2p/go-libp2p/core/crypto"

	"github.com/oppnet/oppnet/pkg/meshnet"
)

// CheckKeyFilePermissions verifies that a key file is not readable by group or others.
func CheckKeyFilePermissions(path string) error {
	if runtime.GOOS == "windows" {
		return nil // Windows file permissions work differently
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot stat key file %s: %w", path, err)
	}
	mode := info.Mode().Perm()
	if mode&0077 != 0 {
		return fmt.Errorf("key file %s has insecure permissions %04o (expected 0600); fix with: chmod 600 %s", path, mode, path)
	}
	return nil
}

// OwnAddress loads the identity key file at path — generating and
// persisting a fresh Ed25519 keypair on first run — and derives the
// device's own mesh address from the public half. An Ed25519 public key
// is exactly meshnet.AddressSize (32) bytes, so the raw public key
// doubles directly as the address value — no truncation or padding
// needed. The private key itself never leaves this function; it exists
// only to make the address derivation reproducible across restarts.
func OwnAddress(path string) (meshnet.Address, error) {
	var priv crypto.PrivKey
	if data, err := os.ReadFile(path); err == nil {
		if err := CheckKeyFilePermissions(path); err != nil {
			return meshnet.Address{}, err
		}
		priv, err = crypto.UnmarshalPrivateKey(data)
		if err != nil {
			return meshnet.Address{}, fmt.Errorf("failed to unmarshal key from %s: %w", path, err)
		}
	} else {
		priv, _, err = crypto.GenerateKeyPair(crypto.Ed25519, -1)
		if err != nil {
			return meshnet.Address{}, fmt.Errorf("failed to generate keypair: %w", err)
		}
		data, err := crypto.MarshalPrivateKey(priv)
		if err != nil {
			return meshnet.Address{}, fmt.Errorf("failed to marshal private key: %w", err)
		}
		if err := os.WriteFile(path, data, 0600); err != nil {
			return meshnet.Address{}, fmt.Errorf("failed to save key to %s: %w", path, err)
		}
	}

	pub := priv.GetPublic()
	raw, err := pub.Raw()
	if err != nil {
		return meshnet.Address{}, fmt.Errorf("failed to extract raw public key: %w", err)
	}
	if len(raw) != meshnet.AddressSize {
		return meshnet.Address{}, fmt.Errorf("unexpected public key length %d, want %d", len(raw), meshnet.AddressSize)
	}
	var value [meshnet.AddressSize]byte
	copy(value[:], raw)
	addr := meshnet.NewAddress(value)
	addr.IsOwn = true
	return addr, nil
}
