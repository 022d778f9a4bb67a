package config

import "errors"

var (
	// ErrConfigVersionTooNew is returned when a config file has a version
	// newer than what this binary supports.
	ErrConfigVersionTooNew = errors.New("config version too new")

	// ErrUnknownProtocol is returned when protocol.kind does not name one
	// of direct, epidemic, or spray-and-wait.
	ErrUnknownProtocol = errors.New("unknown protocol kind")

	// ErrConfigNotFound is returned when no config file can be located in
	// any of the standard search paths.
	ErrConfigNotFound = errors.New("config file not found")
)
