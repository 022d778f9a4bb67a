package main

import (
	"fmt"
	"path/filepath"

	"github.com/oppnet/oppnet/internal/config"
	"github.com/oppnet/oppnet/internal/identity"
	"github.com/oppnet/oppnet/internal/store"
	"github.com/oppnet/oppnet/internal/transport"
	"github.com/oppnet/oppnet/pkg/meshnet"
)

// openNode loads the config at cfgFlag (resolving via the standard search
// path when empty), opens the store it names, and constructs an Engine
// around a Null transport. The send and status subcommands share this
// setup.
func openNode(cfgFlag string) (*meshnet.Engine, *config.Config, *store.Store, error) {
	cfgFile, err := config.FindConfigFile(cfgFlag)
	if err != nil {
		return nil, nil, nil, err
	}
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, nil, err
	}
	config.ResolveConfigPaths(cfg, filepath.Dir(cfgFile))

	self, err := identity.OwnAddress(cfg.Identity.KeyFile)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load identity: %w", err)
	}

	st, err := store.Open(cfg.Store.NotificationsFile)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to open store: %w", err)
	}

	strategy, err := cfg.BuildStrategy()
	if err != nil {
		return nil, nil, nil, err
	}

	engine, err := meshnet.NewEngine(meshnet.Config{
		Store:    st,
		Strategy: strategy,
		Transport: transport.Null{
			MTU: transport.DefaultMTU,
		},
		Self: self,
		Contacts: func() []meshnet.Address {
			all, err := st.Addresses()
			if err != nil {
				return nil
			}
			return all
		},
		Metrics: meshnet.NewMetrics(),
	})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to start engine: %w", err)
	}
	return engine, cfg, st, nil
}
