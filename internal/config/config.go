// Package config defines the top-level CLI grammar parsed by kong.
package config

import (
	"keybridge/internal/cmd"
)

// LogConfig holds the logging flags shared by all commands.
type LogConfig struct {
	Level   string `help:"Log level (trace, debug, info, warn, error)" default:"info" env:"KEYBRIDGE_LOG_LEVEL"`
	File    string `help:"Also write logs to this file" env:"KEYBRIDGE_LOG_FILE"`
	RawFile string `help:"Write a hex dump of raw event frames to this file" env:"KEYBRIDGE_LOG_RAW_FILE"`
}

// CLI is the root command structure.
type CLI struct {
	Config string    `help:"Path to a configuration file" type:"path" env:"KEYBRIDGE_CONFIG"`
	Log    LogConfig `embed:"" prefix:"log."`

	Serve         cmd.Serve         `cmd:"" help:"Run the keybridge daemon" default:"withargs"`
	ConfigCommand cmd.ConfigCommand `cmd:"" name:"config" help:"Manage configuration files"`

	Ping    cmd.Ping    `cmd:"" help:"Check connectivity to a running daemon"`
	Press   cmd.Press   `cmd:"" help:"Queue a virtual key press"`
	Release cmd.Release `cmd:"" help:"Queue a virtual key release"`
	Tap     cmd.Tap     `cmd:"" help:"Queue a press immediately followed by its release"`
	State   cmd.State   `cmd:"" help:"Show the injection state of a running daemon"`
	Depth   cmd.Depth   `cmd:"" help:"Show the pending event queue depth"`

	Version cmd.Version `cmd:"" help:"Print version and exit"`
}
