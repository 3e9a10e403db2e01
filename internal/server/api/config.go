package api

import "time"

// ServerConfig represents the serve subcommand API configuration.
type ServerConfig struct {
	Addr              string        `help:"API server listen address" default:":4810" env:"KEYBRIDGE_API_ADDR"`
	Password          string        `kong:"-"`
	ConnectionTimeout time.Duration `kong:"-"`
}
