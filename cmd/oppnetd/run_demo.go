package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/oppnet/oppnet/internal/simtransport"
	"github.com/oppnet/oppnet/internal/store"
	"github.com/oppnet/oppnet/pkg/meshnet"
)

func runDemo(args []string) {
	if err := doDemo(args, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		osExit(1)
	}
}

// demoNode bundles an Engine with the simulated link endpoint driving it,
// for the three-hop scenario doDemo walks through.
type demoNode struct {
	name    string
	address meshnet.Address
	engine  *meshnet.Engine
	peer    *simtransport.Peer
}

func newDemoNode(dir, name string, copies byte) (*demoNode, error) {
	addr, err := meshnet.NewRandomAddress()
	if err != nil {
		return nil, err
	}
	addr.IsOwn = true
	addr.Name = name

	st, err := store.Open(filepath.Join(dir, name+".json"))
	if err != nil {
		return nil, fmt.Errorf("%s: open store: %w", name, err)
	}
	strategy, err := meshnet.NewSprayAndWaitStrategy(copies)
	if err != nil {
		return nil, err
	}
	peer := simtransport.New(name, 256)
	engine, err := meshnet.NewEngine(meshnet.Config{
		Store:     st,
		Strategy:  strategy,
		Transport: peer,
		Self:      addr,
		Metrics:   meshnet.NewMetrics(),
	})
	if err != nil {
		return nil, fmt.Errorf("%s: new engine: %w", name, err)
	}
	peer.Attach(engine)
	return &demoNode{name: name, address: addr, engine: engine, peer: peer}, nil
}

// doDemo walks a three-device Spray-and-Wait chain A -> B -> D entirely
// in-process, narrating each frame, acknowledgement, and sentinel as it
// crosses a simulated link.
func doDemo(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("demo", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	copiesFlag := fs.Uint("copies", 4, "Spray-and-Wait copy budget")
	if err := fs.Parse(args); err != nil {
		return err
	}
	copies := byte(*copiesFlag)

	dir, err := os.MkdirTemp("", "oppnetd-demo-")
	if err != nil {
		return fmt.Errorf("failed to create scratch directory: %w", err)
	}
	defer os.RemoveAll(dir)

	a, err := newDemoNode(dir, "A", copies)
	if err != nil {
		return err
	}
	b, err := newDemoNode(dir, "B", copies)
	if err != nil {
		return err
	}
	d, err := newDemoNode(dir, "D", copies)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "A=%x B=%x D=%x\n", a.address.Value[:4], b.address.Value[:4], d.address.Value[:4])
	fmt.Fprintln(stdout)

	if err := a.engine.Send("hello from A, relayed to D", d.address); err != nil {
		return fmt.Errorf("A: send: %w", err)
	}
	fmt.Fprintln(stdout, "A creates a notification for D and queues it")

	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "--- A meets B ---")
	simtransport.Link(a.peer, b.peer)
	a.engine.TransmitNotifications()
	reportFrames(stdout, a)
	b.peer.Pump()
	reportAcks(stdout, b)
	a.peer.Pump()
	fmt.Fprintln(stdout, "A: applies B's acknowledgement, halves its remaining copies")

	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "--- B meets D ---")
	simtransport.Link(b.peer, d.peer)
	b.engine.TransmitNotifications()
	reportFrames(stdout, b)
	d.peer.Pump()
	reportAcks(stdout, d)
	b.peer.Pump()
	fmt.Fprintln(stdout, "B: applies D's acknowledgement")

	fmt.Fprintln(stdout)
	inbox := d.engine.Inbox()
	fmt.Fprintf(stdout, "D's inbox: %d notification(s)\n", len(inbox))
	for _, n := range inbox {
		fmt.Fprintf(stdout, "  %q from %x\n", n.Message, n.HashedSourceAddress[:4])
	}
	return nil
}

// reportFrames prints one line per frame a node has sent since the last
// call, draining node.peer's recorded frames.
func reportFrames(stdout io.Writer, node *demoNode) {
	for _, f := range node.peer.SentFrames() {
		if !f.Delivered {
			fmt.Fprintf(stdout, "%s: send rejected (back-pressure)\n", node.name)
			continue
		}
		result, ok := meshnet.Parse(f.Bytes)
		if !ok {
			fmt.Fprintf(stdout, "%s: sent an unparseable frame\n", node.name)
			continue
		}
		if result.Sentinel {
			fmt.Fprintf(stdout, "%s: sends the end-of-session sentinel\n", node.name)
			continue
		}
		n := result.Notification
		fmt.Fprintf(stdout, "%s: sends frame %x (seq=%d dc=%d)\n", node.name, n.HashedID[:4], n.Control.SequenceNumber, n.Control.DestinationControl)
	}
	node.peer.ClearSentFrames()
}

// reportAcks prints one line per acknowledgement a node has sent since the
// last call.
func reportAcks(stdout io.Writer, node *demoNode) {
	for _, id := range node.peer.Acks() {
		fmt.Fprintf(stdout, "%s: acknowledges %x\n", node.name, id[:4])
	}
	node.peer.ClearAcks()
}
