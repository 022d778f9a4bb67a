package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/oppnet/oppnet/internal/config"
	"github.com/oppnet/oppnet/internal/identity"
	"github.com/oppnet/oppnet/internal/store"
)

func runInit(args []string) {
	if err := doInit(args, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		osExit(1)
	}
}

func doInit(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	dirFlag := fs.String("dir", "", "config directory (default: ~/.config/oppnetd)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	configDir := *dirFlag
	if configDir == "" {
		d, err := config.DefaultConfigDir()
		if err != nil {
			return fmt.Errorf("cannot determine config directory: %w", err)
		}
		configDir = d
	}

	configFile := filepath.Join(configDir, "config.yaml")
	if _, err := os.Stat(configFile); err == nil {
		return fmt.Errorf("config already exists: %s\nDelete it first if you want to reinitialize", configFile)
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	// cfg keeps the short relative names the teacher's node configs use;
	// only the paths actually touched below are resolved against
	// configDir, mirroring ResolveConfigPaths applied at load time.
	cfg := config.Default()
	keyFile := filepath.Join(configDir, cfg.Identity.KeyFile)
	storeFile := filepath.Join(configDir, cfg.Store.NotificationsFile)

	addr, err := identity.OwnAddress(keyFile)
	if err != nil {
		return fmt.Errorf("failed to generate identity: %w", err)
	}

	st, err := store.Open(storeFile)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	if err := st.InsertAddress(addr); err != nil {
		return fmt.Errorf("failed to record own address: %w", err)
	}

	if err := config.Save(configFile, cfg); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	fmt.Fprintln(stdout, "Welcome to oppnetd!")
	fmt.Fprintln(stdout)
	fmt.Fprintf(stdout, "Your address: %x\n", addr.Value)
	fmt.Fprintf(stdout, "Config written to:  %s\n", configFile)
	fmt.Fprintf(stdout, "Identity saved to:  %s\n", keyFile)
	fmt.Fprintf(stdout, "Store created at:   %s\n", storeFile)
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Share your address with a contact so they can send to you.")
	fmt.Fprintln(stdout, "Next: oppnetd send <their-hex-address> \"hello\"")
	return nil
}
