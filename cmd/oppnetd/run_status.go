package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/oppnet/oppnet/internal/config"
)

func runStatus(args []string) {
	if err := doStatus(args, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		osExit(1)
	}
}

func doStatus(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	configFlag := fs.String("config", "", "path to config file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	engine, cfg, st, err := openNode(*configFlag)
	if err != nil {
		return err
	}

	size, err := st.Size()
	if err != nil {
		return fmt.Errorf("failed to read store: %w", err)
	}

	fmt.Fprintf(stdout, "Address:  %x\n", engine.Address().Value)
	fmt.Fprintf(stdout, "Protocol: %s\n", cfg.Protocol.Kind)
	if cfg.Protocol.Kind == config.ProtocolKindSprayAndWait {
		fmt.Fprintf(stdout, "Copies:   %d\n", cfg.Protocol.Copies)
	}
	fmt.Fprintf(stdout, "Inbox:    %d notification(s)\n", len(engine.Inbox()))
	fmt.Fprintf(stdout, "Store:    %d notification(s)\n", size)
	return nil
}
