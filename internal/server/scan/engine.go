// Package scan drives the fixed-rate keypad scan loop. Each tick applies
// at most one queued remote event, reads the physical keypad and publishes
// the effective key, with the physical key taking precedence.
package scan

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"keybridge/keypad"
)

// KeySource supplies the currently pressed physical key once per tick.
// Implementations must not block; the scan cadence is the hold-timer unit.
type KeySource interface {
	Scan() keypad.KeyCode
}

// KeySourceFunc adapts a function to the KeySource interface.
type KeySourceFunc func() keypad.KeyCode

func (f KeySourceFunc) Scan() keypad.KeyCode { return f() }

// Sink receives the effective key computed for each tick.
type Sink func(keypad.KeyCode)

// Engine owns the single Injector instance and runs the scan loop.
type Engine struct {
	config    *EngineConfig
	logger    *slog.Logger
	injector  *keypad.Injector
	source    KeySource
	sink      Sink
	effective keypad.KeyCode
	mu        sync.Mutex
	ready     chan struct{}
	readyOnce sync.Once
}

// New creates an Engine. source may be nil when no physical keypad is
// attached; sink may be nil when no downstream consumer is wired.
func New(config EngineConfig, source KeySource, sink Sink, logger *slog.Logger) *Engine {
	if config.TickInterval <= 0 {
		config.TickInterval = 10 * time.Millisecond
	}
	return &Engine{
		config:    &config,
		logger:    logger,
		injector:  keypad.NewInjector(),
		source:    source,
		sink:      sink,
		effective: keypad.KeyInvalid,
		ready:     make(chan struct{}),
	}
}

// Injector returns the engine's injector for producer-side access.
func (e *Engine) Injector() *keypad.Injector { return e.injector }

// Ready is closed once the scan loop is running.
func (e *Engine) Ready() <-chan struct{} { return e.ready }

// EffectiveKey returns the key published on the most recent tick.
func (e *Engine) EffectiveKey() keypad.KeyCode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.effective
}

// Run drives the scan loop until ctx is cancelled. Returns nil on
// graceful shutdown.
func (e *Engine) Run(ctx context.Context) error {
	ticker := time.NewTicker(e.config.TickInterval)
	defer ticker.Stop()

	e.logger.Info("scan loop running", "tick", e.config.TickInterval)
	e.readyOnce.Do(func() { close(e.ready) })

	for {
		select {
		case <-ctx.Done():
			e.logger.Info("scan loop stopped")
			return nil
		case <-ticker.C:
			e.Tick()
		}
	}
}

// Tick performs one scan cycle: queue processing first, then the hardware
// scan, then the merge. Exposed so tests can step the loop deterministically.
func (e *Engine) Tick() {
	e.injector.ProcessQueue()

	hw := keypad.KeyInvalid
	if e.source != nil {
		hw = e.source.Scan()
	}
	eff := e.injector.MergeWithHardware(hw)

	e.mu.Lock()
	changed := eff != e.effective
	prev := e.effective
	e.effective = eff
	e.mu.Unlock()

	if changed {
		e.logger.Debug("effective key changed", "from", prev.String(), "to", eff.String())
	}
	if e.sink != nil {
		e.sink(eff)
	}
}
