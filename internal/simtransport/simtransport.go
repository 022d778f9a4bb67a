// Package simtransport implements meshnet.Transport in-process, with no
// radio, socket, or goroutine of its own. Frames and acknowledgements
// handed to Send and Acknowledge are queued on the receiving side, not
// delivered into the partner engine's call stack: a real radio link
// delivers to the peer asynchronously, and an engine's acknowledgement
// path can itself call back into the very engine that is mid-send, which
// a synchronous callback would turn into a self-deadlock on the engine's
// single mutex. Call Pump on a peer to drain what it has received into
// its attached engine.
package simtransport

import (
	"github.com/oppnet/oppnet/pkg/meshnet"
)

// Peer is one simulated device's end of a link. It satisfies
// meshnet.Transport; construct one per device with New and connect pairs
// of them with Link.
type Peer struct {
	name    string
	maxLen  int
	partner *Peer
	engine  receiver

	rejectNextSends  int // back-pressure injection: next N Send calls return false
	sent             []Frame
	acks             [][32]byte
	disconnected     bool
	lastAdvertiseTag string

	inboundFrames [][]byte
	inboundAcks   [][32]byte
}

// receiver is the subset of *meshnet.Engine the simulator drives. Kept as
// an interface so tests can swap in a fake for unit-testing the
// simulator itself.
type receiver interface {
	ReceiveNotification(b []byte)
	ReceiveAcknowledgement(b []byte)
}

// Frame records one frame handed to Send, for test assertions.
type Frame struct {
	Bytes     []byte
	Delivered bool
}

// New constructs a named simulated peer with the given transport MTU.
func New(name string, maxNotificationLength int) *Peer {
	return &Peer{name: name, maxLen: maxNotificationLength}
}

// Attach binds the engine that receives frames and acks addressed to
// this peer. Call once per side after constructing both engines.
func (p *Peer) Attach(e receiver) {
	p.engine = e
}

// Link connects two peers bidirectionally, as if they had just come into
// radio range of each other.
func Link(a, b *Peer) {
	a.partner = b
	b.partner = a
	a.disconnected = false
	b.disconnected = false
}

// RejectNextSends makes the next n calls to Send return false, simulating
// back-pressure from the radio link.
func (p *Peer) RejectNextSends(n int) {
	p.rejectNextSends = n
}

// MaxNotificationLength implements meshnet.Transport.
func (p *Peer) MaxNotificationLength() int { return p.maxLen }

// Send implements meshnet.Transport: queues frame on the linked partner
// for later delivery via Pump, unless back-pressure was injected or no
// partner is linked.
func (p *Peer) Send(frame []byte) bool {
	if p.rejectNextSends > 0 {
		p.rejectNextSends--
		p.sent = append(p.sent, Frame{Bytes: frame, Delivered: false})
		return false
	}
	p.sent = append(p.sent, Frame{Bytes: frame, Delivered: true})
	if p.partner == nil || p.disconnected {
		return true
	}
	cp := make([]byte, len(frame))
	copy(cp, frame)
	p.partner.inboundFrames = append(p.partner.inboundFrames, cp)
	return true
}

// Acknowledge implements meshnet.Transport.
func (p *Peer) Acknowledge(hashedID [meshnet.HashSize]byte) {
	p.acks = append(p.acks, hashedID)
	if p.partner == nil || p.disconnected {
		return
	}
	p.partner.inboundAcks = append(p.partner.inboundAcks, hashedID)
}

// Disconnect implements meshnet.Transport.
func (p *Peer) Disconnect() {
	p.disconnected = true
}

// Advertise implements meshnet.Transport. The simulator has no discovery
// layer to republish to; it only records the tag for test assertions.
func (p *Peer) Advertise(tag string) {
	p.lastAdvertiseTag = tag
}

// Pump delivers every frame and acknowledgement this peer has queued into
// its attached engine, in the order they were queued (frames before
// acks queued in the same round are delivered first). It returns the
// number of items delivered. Call it after a Send/Acknowledge on the
// partner side, once the caller is no longer holding its own engine's
// lock, to avoid feeding an engine re-entrantly.
func (p *Peer) Pump() int {
	if p.engine == nil {
		return 0
	}
	delivered := 0
	for _, frame := range p.inboundFrames {
		p.engine.ReceiveNotification(frame)
		delivered++
	}
	p.inboundFrames = nil
	for _, id := range p.inboundAcks {
		p.engine.ReceiveAcknowledgement(id[:])
		delivered++
	}
	p.inboundAcks = nil
	return delivered
}

// LastAdvertiseTag returns the most recent tag passed to Advertise, for
// test assertions.
func (p *Peer) LastAdvertiseTag() string { return p.lastAdvertiseTag }

// SentFrames returns every frame this peer has handed to Send, in order,
// for test assertions on the back-pressure resume scenario.
func (p *Peer) SentFrames() []Frame { return p.sent }

// Acks returns every hashedID this peer has acknowledged, in order.
func (p *Peer) Acks() [][32]byte { return p.acks }

// ClearSentFrames discards the recorded send history, letting a caller
// that polls SentFrames between rounds see only what's new.
func (p *Peer) ClearSentFrames() { p.sent = nil }

// ClearAcks discards the recorded acknowledgement history, letting a
// caller that polls Acks between rounds see only what's new.
func (p *Peer) ClearAcks() { p.acks = nil }
