package config

import (
	"path/filepath"
	"testing"
)

func TestLoadSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "oppnet.yaml")

	want := Default()
	if err := Save(path, want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Protocol.Kind != want.Protocol.Kind || got.Protocol.Copies != want.Protocol.Copies {
		t.Fatalf("protocol mismatch: got %+v, want %+v", got.Protocol, want.Protocol)
	}
}

func TestValidate_CopiesOutOfRange(t *testing.T) {
	cfg := Default()
	cfg.Protocol.Copies = 16
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for copies=16")
	}
}

func TestValidate_CopiesInRange(t *testing.T) {
	cfg := Default()
	cfg.Protocol.Copies = 15
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected copies=15 to validate, got %v", err)
	}
}

func TestValidate_UnknownProtocol(t *testing.T) {
	cfg := Default()
	cfg.Protocol.Kind = "quantum-teleport"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown protocol kind")
	}
}

func TestValidate_VersionTooNew(t *testing.T) {
	cfg := Default()
	cfg.Version = CurrentConfigVersion + 1
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for config version too new")
	}
}

func TestBuildStrategy_Direct(t *testing.T) {
	cfg := Default()
	cfg.Protocol.Kind = ProtocolKindDirect
	s, err := cfg.BuildStrategy()
	if err != nil {
		t.Fatalf("BuildStrategy: %v", err)
	}
	if s.Protocol() != 0 {
		t.Fatalf("expected protocol 0, got %d", s.Protocol())
	}
}
