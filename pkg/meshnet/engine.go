package meshnet

import (
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Engine drives one device's participation in the mesh: the receive
// pipeline, the transmit session driver, and the embedder-facing API.
// All public methods serialize on a single mutex, realizing the
// single-logical-thread model of §5 without requiring callers to run
// their own event loop.
type Engine struct {
	mu sync.Mutex

	store     Store
	strategy  Strategy
	transport Transport
	self      Address
	contacts  func() []Address
	metrics   *Metrics
	log       *slog.Logger

	receivedIDs   map[[HashSize]byte]struct{}
	inbox         []Notification
	transmitQueue []queueEntry
	rssiThreshold int8
}

// queueEntry is one pending notification in a single peer session's
// transmit queue (§3 "Transmit queue"). Kept as an ordered slice, not a
// map, so iteration order is stable across re-entrant calls to
// TransmitNotifications — back-pressure must resume from the first
// unsent entry, not an arbitrary one.
type queueEntry struct {
	id   [HashSize]byte
	sent bool
}

// Config holds the dependencies an Engine is constructed with.
type Config struct {
	Store     Store
	Strategy  Strategy
	Transport Transport
	Self      Address
	// Contacts resolves the known address book (minus self) for the
	// Contacts() accessor. Optional; nil yields an empty list.
	Contacts func() []Address
	Metrics  *Metrics
	Logger   *slog.Logger
}

// NewEngine constructs an Engine and loads the receive set and inbox from
// the store, per "populated at startup from the store" (§3).
func NewEngine(cfg Config) (*Engine, error) {
	if cfg.Store == nil || cfg.Strategy == nil || cfg.Transport == nil {
		return nil, fmt.Errorf("meshnet: Store, Strategy, and Transport are required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ids, err := cfg.Store.FetchAllHashedIDs()
	if err != nil {
		return nil, fmt.Errorf("load receive set: %w", err)
	}
	inbox, err := cfg.Store.FetchAllFor(cfg.Self.Hashed)
	if err != nil {
		return nil, fmt.Errorf("load inbox: %w", err)
	}

	e := &Engine{
		store:         cfg.Store,
		strategy:      cfg.Strategy,
		transport:     cfg.Transport,
		self:          cfg.Self,
		contacts:      cfg.Contacts,
		metrics:       cfg.Metrics,
		log:           logger,
		receivedIDs:   ids,
		inbox:         inbox,
		rssiThreshold: -128,
	}
	return e, nil
}

// Address returns the device's own address.
func (e *Engine) Address() Address {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.self
}

// Contacts returns the known address book, excluding self.
func (e *Engine) Contacts() []Address {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.contacts == nil {
		return nil
	}
	all := e.contacts()
	out := make([]Address, 0, len(all))
	for _, a := range all {
		if a.Hashed != e.self.Hashed {
			out = append(out, a)
		}
	}
	return out
}

// Inbox returns notifications ever delivered to this device.
func (e *Engine) Inbox() []Notification {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Notification, len(e.inbox))
	copy(out, e.inbox)
	return out
}

// ReceivedHashedIDs returns the set of every hashedID ever accepted.
func (e *Engine) ReceivedHashedIDs() map[[HashSize]byte]struct{} {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make(map[[HashSize]byte]struct{}, len(e.receivedIDs))
	for k := range e.receivedIDs {
		out[k] = struct{}{}
	}
	return out
}

// MaxMessageLength returns the longest message body the transport's MTU
// allows.
func (e *Engine) MaxMessageLength() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return MaxMessageLength(e.transport.MaxNotificationLength())
}

// SetRssiThreshold updates the transport hint; default -128 (accept all).
func (e *Engine) SetRssiThreshold(v int8) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rssiThreshold = v
}

// RssiThreshold returns the current transport hint.
func (e *Engine) RssiThreshold() int8 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rssiThreshold
}

// SetNumberOfCopies updates the Spray-and-Wait copy budget L. It fails
// with ErrInvalidControlByte if the strategy is not Spray-and-Wait, or if
// l is out of [1, MaxCopies].
func (e *Engine) SetNumberOfCopies(l byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	sw, ok := e.strategy.(*SprayAndWaitStrategy)
	if !ok {
		return fmt.Errorf("%w: active strategy does not use a copy budget", ErrInvalidControlByte)
	}
	return sw.SetCopies(l)
}

// Send constructs a notification via the active strategy's create rule,
// inserts it into the store, and re-advertises. This is the
// embedder-facing counterpart of §6.2 "send".
func (e *Engine) Send(message string, to Address) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(message) > MaxMessageLength(e.transport.MaxNotificationLength()) {
		return ErrMessageTooLong
	}

	n, err := e.strategy.Create(e.self, to, message, time.Now())
	if err != nil {
		return err
	}
	if err := e.insertLocked(n); err != nil {
		return err
	}
	e.log.Info("notification created", "dest", to.String(), "id", fmt.Sprintf("%x", n.HashedID[:4]))
	return nil
}

// insertLocked persists n and re-advertises. Caller must hold e.mu.
func (e *Engine) insertLocked(n Notification) error {
	if err := e.store.InsertNotification(n); err != nil {
		e.log.Error("store persistence failure", "err", err)
		return fmt.Errorf("insert notification: %w", err)
	}
	if size, err := e.store.Size(); err == nil {
		e.metrics.setStoreSize(size)
	}
	tag, err := newAdvertiseTag()
	if err != nil {
		return fmt.Errorf("advertise: %w", err)
	}
	e.transport.Advertise(tag)
	return nil
}

// ReceiveNotification runs the receive pipeline (§4.2) on one raw frame.
func (e *Engine) ReceiveNotification(raw []byte) {
	e.mu.Lock()
	defer e.mu.Unlock()

	result, ok := Parse(raw)
	if !ok {
		e.log.Warn("dropped frame: too short", "len", len(raw))
		e.metrics.recvResult("dropped_short")
		return
	}
	if result.Sentinel {
		e.transport.Disconnect()
		return
	}
	n := result.Notification

	if n.Control.Protocol != e.strategy.Protocol() {
		e.metrics.recvResult("dropped_protocol")
		return
	}
	if _, seen := e.receivedIDs[n.HashedID]; seen {
		e.metrics.recvResult("dropped_duplicate")
		return
	}
	if !e.strategy.Accept(n, e.self) {
		e.metrics.recvResult("dropped_strategy")
		return
	}

	e.receivedIDs[n.HashedID] = struct{}{}

	if e.strategy.AcknowledgesOnAccept() {
		e.transport.Acknowledge(n.HashedID)
	}

	if n.HashedDestinationAddress == e.self.Hashed {
		if err := n.SetDestinationControl(DCTerminal); err != nil {
			e.log.Error("terminal transition failed", "err", err)
		}
		e.inbox = append(e.inbox, n)
		e.log.Info("notification delivered", "id", fmt.Sprintf("%x", n.HashedID[:4]), "from", fmt.Sprintf("%x", n.HashedSourceAddress[:4]))
	}

	if err := e.store.InsertNotification(n); err != nil {
		e.log.Error("store persistence failure", "err", err)
		return
	}
	if size, err := e.store.Size(); err == nil {
		e.metrics.setStoreSize(size)
	}
	e.metrics.recvResult("accepted")
}

// ReceiveAcknowledgement consumes a hashed-ID acknowledgement. Only
// Spray-and-Wait acts on it; other strategies drop it.
func (e *Engine) ReceiveAcknowledgement(raw []byte) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(raw) != HashSize {
		e.metrics.ackResult("dropped")
		return
	}
	var id [HashSize]byte
	copy(id[:], raw)

	n, found, err := e.store.FetchByHashedID(id)
	if err != nil {
		e.log.Error("store lookup failure", "err", err)
		e.metrics.ackResult("dropped")
		return
	}
	if !found {
		e.metrics.ackResult("dropped")
		return
	}

	applied, err := e.strategy.HandleAcknowledgement(&n)
	if err != nil {
		e.log.Error("acknowledgement handling failed", "err", err)
		e.metrics.ackResult("dropped")
		return
	}
	if !applied {
		e.metrics.ackResult("dropped")
		return
	}

	if err := e.store.SetDestinationControl(id, n.Control.DestinationControl); err != nil {
		e.log.Error("store persistence failure", "err", err)
		e.metrics.ackResult("dropped")
		return
	}
	if err := e.store.SetSequenceNumber(id, n.Control.SequenceNumber); err != nil {
		e.log.Error("store persistence failure", "err", err)
		e.metrics.ackResult("dropped")
		return
	}
	e.log.Debug("acknowledgement applied", "id", fmt.Sprintf("%x", id[:4]), "seq", n.Control.SequenceNumber, "dc", n.Control.DestinationControl)
	e.metrics.ackResult("applied")
}

// TransmitNotifications drives one transmit session per §4.5. It is safe
// to re-enter: each call either fully drains the queue or leaves it
// partially drained for the next readiness signal.
func (e *Engine) TransmitNotifications() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.transmitQueue) == 0 {
		pending, err := e.store.FetchAllTransmittable()
		if err != nil {
			e.log.Error("store read failure", "err", err)
			return
		}
		for _, n := range pending {
			e.transmitQueue = append(e.transmitQueue, queueEntry{id: n.HashedID})
		}
	}
	e.metrics.setQueueDepth(e.unsentCountLocked())

	for i := range e.transmitQueue {
		if e.transmitQueue[i].sent {
			continue
		}
		id := e.transmitQueue[i].id

		n, found, err := e.store.FetchByHashedID(id)
		if err != nil {
			e.log.Error("store read failure", "err", err)
			return
		}
		if !found {
			// Record vanished between enqueue and send; treat as sent so
			// the session can still complete.
			e.transmitQueue[i].sent = true
			continue
		}

		cb, err := e.strategy.TransmitMutate(n)
		if err != nil {
			e.log.Error("transmit mutate failed", "err", err)
			return
		}
		n.Control = cb
		frame := Serialize(&n)

		if !e.transport.Send(frame) {
			return // back-pressured: suspend, resume here next time
		}
		e.transmitQueue[i].sent = true
		e.metrics.sentOne()
		e.metrics.setQueueDepth(e.unsentCountLocked())
	}

	for _, entry := range e.transmitQueue {
		if !entry.sent {
			return
		}
	}

	if !e.transport.Send(Sentinel()) {
		return // sentinel retry on next readiness signal; data frames stay marked sent
	}
	e.metrics.sentinelSent()
	e.transmitQueue = nil
	e.metrics.setQueueDepth(0)
}

// unsentCountLocked counts queue entries not yet sent. Caller must hold
// e.mu.
func (e *Engine) unsentCountLocked() int {
	n := 0
	for _, entry := range e.transmitQueue {
		if !entry.sent {
			n++
		}
	}
	return n
}
