package scan

import "time"

// EngineConfig represents the scan engine configuration.
type EngineConfig struct {
	TickInterval time.Duration `help:"Keypad scan tick interval; three ticks is the minimum visible duration of an injected press" default:"10ms" env:"KEYBRIDGE_SCAN_TICK_INTERVAL"`
}
