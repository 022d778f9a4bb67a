package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"
)

// Set via -ldflags at build time:
//
//	go build -ldflags "-X main.version=0.1.0 -X main.commit=$(git rev-parse --short HEAD) -X main.buildDate=$(date -u +%Y-%m-%dT%H:%M:%SZ)" -o oppnetd ./cmd/oppnetd
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	if len(os.Args) < 2 {
		printUsage()
		osExit(1)
	}

	switch os.Args[1] {
	case "init":
		runInit(os.Args[2:])
	case "send":
		runSend(os.Args[2:])
	case "status":
		runStatus(os.Args[2:])
	case "demo":
		runDemo(os.Args[2:])
	case "version", "--version":
		printVersion()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		osExit(1)
	}
}

func printVersion() {
	fmt.Printf("oppnetd %s (%s) built %s\n", version, commit, buildDate)
	fmt.Printf("Go %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

func printUsage() {
	fmt.Println("Usage: oppnetd <command> [options]")
	fmt.Println()
	fmt.Println("  init [--dir <path>]                  Generate identity, store, and config")
	fmt.Println("  send <hex-address> <message>        Queue a notification for delivery")
	fmt.Println("  status                              Show address, protocol, inbox, store size")
	fmt.Println("  demo [--copies <n>]                  Run a simulated multi-hop delivery")
	fmt.Println("  version                             Show version information")
	fmt.Println()
	fmt.Println("send and status accept --config <path> to pick a config file directly.")
	fmt.Println("Without --config, oppnetd searches: ./oppnet.yaml, ~/.config/oppnetd/config.yaml")
	fmt.Println()
	fmt.Println("Get started:  oppnetd init")
}
