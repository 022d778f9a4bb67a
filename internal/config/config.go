// Package config loads and validates the daemon's YAML configuration
// document, following the same versioned-document convention as the
// teacher's node configs: a top-level version field checked against the
// newest version this binary understands, nested per-concern sections,
// and a loader that both parses and range-validates in one pass.
package config

import (
	"fmt"

	"github.com/oppnet/oppnet/pkg/meshnet"
)

// CurrentConfigVersion is the latest configuration schema version.
const CurrentConfigVersion = 1

// Config is the daemon's top-level configuration document.
type Config struct {
	Version   int             `yaml:"version,omitempty"`
	Identity  IdentityConfig  `yaml:"identity"`
	Store     StoreConfig     `yaml:"store"`
	Protocol  ProtocolConfig  `yaml:"protocol"`
	Telemetry TelemetryConfig `yaml:"telemetry,omitempty"`
}

// IdentityConfig names the persisted identity key file.
type IdentityConfig struct {
	KeyFile string `yaml:"key_file"`
}

// StoreConfig names the persisted store file, which holds both the
// notification records and the address book.
type StoreConfig struct {
	NotificationsFile string `yaml:"notifications_file"`
}

// ProtocolConfig selects the active forwarding strategy and its
// parameters.
type ProtocolConfig struct {
	Kind          string `yaml:"kind"` // direct | epidemic | spray-and-wait
	Copies        byte   `yaml:"copies,omitempty"`
	RssiThreshold int8   `yaml:"rssi_threshold,omitempty"`
}

// TelemetryConfig holds observability settings. Disabled by default.
type TelemetryConfig struct {
	Metrics MetricsConfig `yaml:"metrics,omitempty"`
}

// MetricsConfig holds the Prometheus metrics exposure settings. They are
// parsed and saved only; no oppnetd command reads them or starts a
// metrics listener.
type MetricsConfig struct {
	Enabled       bool   `yaml:"enabled"`
	ListenAddress string `yaml:"listen_address"`
}

const (
	ProtocolKindDirect       = "direct"
	ProtocolKindEpidemic     = "epidemic"
	ProtocolKindSprayAndWait = "spray-and-wait"
)

// Default returns the configuration a fresh `oppnetd init` writes out.
func Default() *Config {
	return &Config{
		Version:  CurrentConfigVersion,
		Identity: IdentityConfig{KeyFile: "identity.key"},
		Store:    StoreConfig{NotificationsFile: "notifications.json"},
		Protocol: ProtocolConfig{
			Kind:          ProtocolKindSprayAndWait,
			Copies:        6,
			RssiThreshold: -128,
		},
		Telemetry: TelemetryConfig{
			Metrics: MetricsConfig{Enabled: false, ListenAddress: "127.0.0.1:9091"},
		},
	}
}

// Validate range-checks the parsed document, using the same ControlByte
// construction rule the engine itself uses so a bad copies value is
// rejected at load time rather than at first send.
func (c *Config) Validate() error {
	if c.Version > CurrentConfigVersion {
		return fmt.Errorf("%w: version %d is newer than supported version %d", ErrConfigVersionTooNew, c.Version, CurrentConfigVersion)
	}
	switch c.Protocol.Kind {
	case ProtocolKindDirect, ProtocolKindEpidemic:
		// no parameters to validate
	case ProtocolKindSprayAndWait:
		if c.Protocol.Copies < 1 || c.Protocol.Copies > meshnet.MaxCopies {
			return fmt.Errorf("%w: copies %d out of range [1,%d]", meshnet.ErrInvalidControlByte, c.Protocol.Copies, meshnet.MaxCopies)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownProtocol, c.Protocol.Kind)
	}
	return nil
}

// BuildStrategy constructs the meshnet.Strategy named by Protocol.Kind.
func (c *Config) BuildStrategy() (meshnet.Strategy, error) {
	switch c.Protocol.Kind {
	case ProtocolKindDirect:
		return meshnet.DirectStrategy{}, nil
	case ProtocolKindEpidemic:
		return meshnet.EpidemicStrategy{}, nil
	case ProtocolKindSprayAndWait:
		return meshnet.NewSprayAndWaitStrategy(c.Protocol.Copies)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProtocol, c.Protocol.Kind)
	}
}
