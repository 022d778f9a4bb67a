package identity

import (
	"path/filepath"
	"testing"
)

func TestOwnAddress_StableAcrossReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "identity.key")

	a1, err := OwnAddress(path)
	if err != nil {
		t.Fatalf("OwnAddress (create): %v", err)
	}
	if !a1.IsOwn {
		t.Fatal("expected IsOwn to be true")
	}

	a2, err := OwnAddress(path)
	if err != nil {
		t.Fatalf("OwnAddress (reload): %v", err)
	}

	if a1.Value != a2.Value {
		t.Fatalf("address value changed across reload: %x != %x", a1.Value, a2.Value)
	}
	if a1.Hashed != a2.Hashed {
		t.Fatalf("hashed address changed across reload: %x != %x", a1.Hashed, a2.Hashed)
	}
}

func TestOwnAddress_DistinctPerKeyFile(t *testing.T) {
	dir := t.TempDir()

	a1, err := OwnAddress(filepath.Join(dir, "a.key"))
	if err != nil {
		t.Fatalf("OwnAddress a: %v", err)
	}
	a2, err := OwnAddress(filepath.Join(dir, "b.key"))
	if err != nil {
		t.Fatalf("OwnAddress b: %v", err)
	}

	if a1.Value == a2.Value {
		t.Fatal("two freshly generated identities produced the same address")
	}
}
