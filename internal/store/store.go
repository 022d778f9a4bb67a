// Package store implements meshnet.Store as a durable, single-writer
// JSON file, following the same load-mutate-save pattern as the
// teacher's peer-history and vault files: an in-memory index guarded by
// a mutex, loaded once at startup, atomically rewritten on every
// mutation.
package store

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/oppnet/oppnet/pkg/meshnet"
)

// CurrentSchemaVersion is the store file's schema tag (§6.3: "embed a
// version tag to allow future migration"). Bump when the on-disk
// representation changes in an incompatible way.
const CurrentSchemaVersion = 1

// record is the JSON-serializable form of a meshnet.Notification. Binary
// fields are hex-encoded for readability and round-trip exactness.
type record struct {
	ControlByte              byte   `json:"control_byte"`
	HashedID                 string `json:"hashed_id"`
	HashedDestinationAddress string `json:"hashed_destination_address"`
	HashedSourceAddress      string `json:"hashed_source_address"`
	SentAtUnix               int64  `json:"sent_at_unix"`
	Message                  string `json:"message"`
}

type addressRecord struct {
	Value  string `json:"value"`
	Hashed string `json:"hashed"`
	IsOwn  bool   `json:"is_own"`
	Name   string `json:"name,omitempty"`
}

type fileFormat struct {
	SchemaVersion int             `json:"schema_version"`
	Notifications []record        `json:"notifications"`
	Addresses     []addressRecord `json:"addresses"`
}

// Store is the file-backed implementation of meshnet.Store.
type Store struct {
	mu            sync.RWMutex
	path          string
	notifications map[[meshnet.HashSize]byte]meshnet.Notification
	addresses     map[[meshnet.HashSize]byte]meshnet.Address
}

// Open loads path if it exists, or starts with empty state if it does
// not (mirroring the teacher's NewPeerHistory: best-effort load, never
// fatal on a missing file).
func Open(path string) (*Store, error) {
	s := &Store{
		path:          path,
		notifications: make(map[[meshnet.HashSize]byte]meshnet.Notification),
		addresses:     make(map[[meshnet.HashSize]byte]meshnet.Address),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read store file: %w", err)
	}

	var ff fileFormat
	if err := json.Unmarshal(data, &ff); err != nil {
		return fmt.Errorf("parse store file: %w", err)
	}
	if ff.SchemaVersion > CurrentSchemaVersion {
		return fmt.Errorf("store file schema version %d is newer than supported version %d", ff.SchemaVersion, CurrentSchemaVersion)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range ff.Notifications {
		n, err := r.toNotification()
		if err != nil {
			return fmt.Errorf("decode stored notification: %w", err)
		}
		s.notifications[n.HashedID] = n
	}
	for _, r := range ff.Addresses {
		a, err := r.toAddress()
		if err != nil {
			return fmt.Errorf("decode stored address: %w", err)
		}
		s.addresses[a.Hashed] = a
	}
	return nil
}

// save rewrites the store file atomically via a temp file + rename,
// mirroring the teacher's PeerHistory.Save. Caller must hold s.mu for
// reading (RLock acceptable, since this only marshals the in-memory
// index).
func (s *Store) save() error {
	ff := fileFormat{SchemaVersion: CurrentSchemaVersion}
	for _, n := range s.notifications {
		ff.Notifications = append(ff.Notifications, fromNotification(n))
	}
	for _, a := range s.addresses {
		ff.Addresses = append(ff.Addresses, fromAddress(a))
	}

	data, err := json.MarshalIndent(ff, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal store: %w", err)
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("write temp store file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("rename temp store file: %w", err)
	}
	return nil
}

// InsertNotification upserts by HashedID and auto-saves.
func (s *Store) InsertNotification(n meshnet.Notification) error {
	s.mu.Lock()
	s.notifications[n.HashedID] = n
	err := s.save()
	s.mu.Unlock()
	return err
}

func (s *Store) FetchByHashedID(id [meshnet.HashSize]byte) (meshnet.Notification, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.notifications[id]
	return n, ok, nil
}

func (s *Store) FetchAllHashedIDs() (map[[meshnet.HashSize]byte]struct{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[[meshnet.HashSize]byte]struct{}, len(s.notifications))
	for id := range s.notifications {
		out[id] = struct{}{}
	}
	return out, nil
}

func (s *Store) FetchAllTransmittable() ([]meshnet.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []meshnet.Notification
	for _, n := range s.notifications {
		if n.Transmittable() {
			out = append(out, n)
		}
	}
	return out, nil
}

func (s *Store) FetchAllFor(hashedAddr [meshnet.HashSize]byte) ([]meshnet.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []meshnet.Notification
	for _, n := range s.notifications {
		if n.HashedDestinationAddress == hashedAddr {
			out = append(out, n)
		}
	}
	return out, nil
}

func (s *Store) SetDestinationControl(id [meshnet.HashSize]byte, dc byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notifications[id]
	if !ok {
		return meshnet.ErrUnknownHashedID
	}
	if err := n.SetDestinationControl(dc); err != nil {
		return err
	}
	s.notifications[id] = n
	return s.save()
}

func (s *Store) SetSequenceNumber(id [meshnet.HashSize]byte, seq byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notifications[id]
	if !ok {
		return meshnet.ErrUnknownHashedID
	}
	if err := n.SetSequenceNumber(seq); err != nil {
		return err
	}
	s.notifications[id] = n
	return s.save()
}

func (s *Store) InsertAddress(a meshnet.Address) error {
	s.mu.Lock()
	s.addresses[a.Hashed] = a
	err := s.save()
	s.mu.Unlock()
	return err
}

func (s *Store) OwnAddress() (meshnet.Address, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.addresses {
		if a.IsOwn {
			return a, true, nil
		}
	}
	return meshnet.Address{}, false, nil
}

func (s *Store) Addresses() ([]meshnet.Address, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]meshnet.Address, 0, len(s.addresses))
	for _, a := range s.addresses {
		out = append(out, a)
	}
	return out, nil
}

func (s *Store) Size() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.notifications), nil
}

func fromNotification(n meshnet.Notification) record {
	return record{
		ControlByte:              n.Control.Pack(),
		HashedID:                 hex.EncodeToString(n.HashedID[:]),
		HashedDestinationAddress: hex.EncodeToString(n.HashedDestinationAddress[:]),
		HashedSourceAddress:      hex.EncodeToString(n.HashedSourceAddress[:]),
		SentAtUnix:               n.SentAt.Unix(),
		Message:                  n.Message,
	}
}

func (r record) toNotification() (meshnet.Notification, error) {
	var n meshnet.Notification
	n.Control = meshnet.UnpackControlByte(r.ControlByte)
	if err := decodeHash(r.HashedID, n.HashedID[:]); err != nil {
		return n, fmt.Errorf("hashed_id: %w", err)
	}
	if err := decodeHash(r.HashedDestinationAddress, n.HashedDestinationAddress[:]); err != nil {
		return n, fmt.Errorf("hashed_destination_address: %w", err)
	}
	if err := decodeHash(r.HashedSourceAddress, n.HashedSourceAddress[:]); err != nil {
		return n, fmt.Errorf("hashed_source_address: %w", err)
	}
	n.SentAt = time.Unix(r.SentAtUnix, 0).UTC()
	n.Message = r.Message
	return n, nil
}

func fromAddress(a meshnet.Address) addressRecord {
	return addressRecord{
		Value:  hex.EncodeToString(a.Value[:]),
		Hashed: hex.EncodeToString(a.Hashed[:]),
		IsOwn:  a.IsOwn,
		Name:   a.Name,
	}
}

func (r addressRecord) toAddress() (meshnet.Address, error) {
	var a meshnet.Address
	if err := decodeHash(r.Value, a.Value[:]); err != nil {
		return a, fmt.Errorf("value: %w", err)
	}
	if err := decodeHash(r.Hashed, a.Hashed[:]); err != nil {
		return a, fmt.Errorf("hashed: %w", err)
	}
	a.IsOwn = r.IsOwn
	a.Name = r.Name
	return a, nil
}

func decodeHash(s string, out []byte) error {
	b, err := hex.DecodeString(s)
	if err != nil {
		return err
	}
	if len(b) != len(out) {
		return fmt.Errorf("expected %d bytes, got %d", len(out), len(b))
	}
	copy(out, b)
	return nil
}
