package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/oppnet/oppnet/pkg/meshnet"
)

func runSend(args []string) {
	if err := doSend(args, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		osExit(1)
	}
}

func doSend(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("send", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	configFlag := fs.String("config", "", "path to config file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rest := fs.Args()
	if len(rest) != 2 {
		return fmt.Errorf("usage: oppnetd send [--config path] <hex-address> <message>")
	}
	destHex, message := rest[0], rest[1]

	raw, err := hex.DecodeString(destHex)
	if err != nil {
		return fmt.Errorf("invalid hex address: %w", err)
	}
	if len(raw) != meshnet.AddressSize {
		return fmt.Errorf("address must be %d bytes (%d hex characters), got %d bytes", meshnet.AddressSize, meshnet.AddressSize*2, len(raw))
	}
	var value [meshnet.AddressSize]byte
	copy(value[:], raw)
	dest := meshnet.NewAddress(value)

	engine, _, _, err := openNode(*configFlag)
	if err != nil {
		return err
	}

	if err := engine.Send(message, dest); err != nil {
		return fmt.Errorf("failed to queue notification: %w", err)
	}

	fmt.Fprintf(stdout, "Queued for %x (will deliver next time a link is available)\n", dest.Hashed[:8])
	return nil
}
