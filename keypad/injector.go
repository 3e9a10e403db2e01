// Package keypad implements remote key event injection into the local
// key-scanning path. Remotely submitted press/release events are queued,
// validated against a predicted key state at admission time, and applied
// at most one per scan tick with a minimum hold on presses so the
// downstream consumer never observes an unstable sequence.
package keypad

import "sync"

const (
	// QueueSize is the capacity of the pending event ring. Power of two so
	// indices wrap with a mask.
	QueueSize = 16
	queueMask = QueueSize - 1

	// MinHoldTicks is the number of scan ticks an injected press stays
	// visible before a queued release may take effect.
	MinHoldTicks = 3
)

type event struct {
	key    KeyCode
	action Action
}

// Injector arbitrates remote key events against physical keypad input.
// One instance exists per physical keyboard; the scan loop owns it and
// calls ProcessQueue/MergeWithHardware once per tick, while producers may
// call Enqueue from other goroutines (thread-safe).
type Injector struct {
	mu    sync.Mutex
	queue [QueueSize]event
	head  uint32
	tail  uint32
	depth uint32

	// injected is the live virtual key exposed to the scan consumer;
	// mutated only by ProcessQueue.
	injected KeyCode

	// predicted is the key state implied by all accepted-but-unapplied
	// events, used for enqueue-time validation without draining the queue.
	predicted KeyCode

	// hold counts down the remaining ticks before a queued release may
	// be applied.
	hold uint8
}

// NewInjector returns an Injector with no queued events and no injected key.
func NewInjector() *Injector {
	return &Injector{
		injected:  KeyInvalid,
		predicted: KeyInvalid,
	}
}

func allowedKey(key KeyCode) bool {
	if key >= KeyInvalid {
		return false
	}
	// Virtual PTT would let a remote peer key the transmitter.
	if key == KeyPTT {
		return false
	}
	return true
}

// Enqueue validates and appends a key event. It returns StatusInvalid for
// malformed requests or sequences that could never apply cleanly (a second
// press before the predicted release, a release of an unpressed or
// mismatched key, the forbidden PTT code), StatusBusy when the queue is
// full, and StatusAccepted on success. A rejected call leaves all state
// unchanged.
func (in *Injector) Enqueue(key KeyCode, action Action) Status {
	if !allowedKey(key) {
		return StatusInvalid
	}
	if action != ActionPress && action != ActionRelease {
		return StatusInvalid
	}

	in.mu.Lock()
	defer in.mu.Unlock()

	if action == ActionPress {
		if in.predicted != KeyInvalid {
			return StatusInvalid
		}
	} else {
		if in.predicted != key {
			return StatusInvalid
		}
	}

	if in.depth >= QueueSize {
		return StatusBusy
	}

	in.queue[in.tail&queueMask] = event{key: key, action: action}
	in.tail++
	in.depth++

	if action == ActionPress {
		in.predicted = key
	} else {
		in.predicted = KeyInvalid
	}
	return StatusAccepted
}

// ProcessQueue applies at most one queued event. It must be called exactly
// once per scan tick, before the hardware scan result is merged for that
// tick. A press takes effect immediately and restarts the hold timer; a
// release stays queued until the hold timer has elapsed, so an injected
// press is observable for at least MinHoldTicks ticks.
func (in *Injector) ProcessQueue() {
	in.mu.Lock()
	defer in.mu.Unlock()

	if in.hold > 0 {
		in.hold--
	}
	if in.depth == 0 {
		return
	}

	ev := in.queue[in.head&queueMask]
	if ev.action == ActionPress {
		in.injected = ev.key
		in.hold = MinHoldTicks
	} else {
		if in.hold > 0 {
			// Release deferred; entry stays at the head.
			return
		}
		in.injected = KeyInvalid
	}
	in.head++
	in.depth--
}

// MergeWithHardware returns the effective key for this tick. A physical
// key always wins, so remote injection can never block local actuation.
func (in *Injector) MergeWithHardware(hardwareKey KeyCode) KeyCode {
	if hardwareKey != KeyInvalid {
		return hardwareKey
	}
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.injected
}

// InjectedKey returns the live virtual key currently exposed to the scan
// consumer.
func (in *Injector) InjectedKey() KeyCode {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.injected
}

// QueueDepth reports the number of accepted events not yet applied. It is
// intended as a backpressure signal for producers.
func (in *Injector) QueueDepth() int {
	in.mu.Lock()
	defer in.mu.Unlock()
	return int(in.depth)
}
