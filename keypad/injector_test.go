package keypad

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fillQueue(t *testing.T, in *Injector) {
	t.Helper()
	// Alternating press/release pairs are the only way to reach capacity,
	// since a second press is refused while one is predicted.
	for i := 0; i < QueueSize/2; i++ {
		require.Equal(t, StatusAccepted, in.Enqueue(Key5, ActionPress))
		require.Equal(t, StatusAccepted, in.Enqueue(Key5, ActionRelease))
	}
	require.Equal(t, QueueSize, in.QueueDepth())
}

func TestEnqueueValidation(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(in *Injector)
		key      KeyCode
		action   Action
		expected Status
	}{
		{
			name:     "press accepted",
			key:      KeyMenu,
			action:   ActionPress,
			expected: StatusAccepted,
		},
		{
			name:     "key at sentinel rejected",
			key:      KeyInvalid,
			action:   ActionPress,
			expected: StatusInvalid,
		},
		{
			name:     "key above sentinel rejected",
			key:      KeyCode(200),
			action:   ActionPress,
			expected: StatusInvalid,
		},
		{
			name:     "ptt press rejected",
			key:      KeyPTT,
			action:   ActionPress,
			expected: StatusInvalid,
		},
		{
			name:     "ptt release rejected",
			key:      KeyPTT,
			action:   ActionRelease,
			expected: StatusInvalid,
		},
		{
			name:     "unknown action rejected",
			key:      Key1,
			action:   Action(7),
			expected: StatusInvalid,
		},
		{
			name: "second press rejected while one predicted",
			setup: func(in *Injector) {
				require.Equal(t, StatusAccepted, in.Enqueue(Key1, ActionPress))
			},
			key:      Key2,
			action:   ActionPress,
			expected: StatusInvalid,
		},
		{
			name:     "release with nothing pressed rejected",
			key:      Key1,
			action:   ActionRelease,
			expected: StatusInvalid,
		},
		{
			name: "mismatched release rejected",
			setup: func(in *Injector) {
				require.Equal(t, StatusAccepted, in.Enqueue(Key1, ActionPress))
			},
			key:      Key2,
			action:   ActionRelease,
			expected: StatusInvalid,
		},
		{
			name: "matching release accepted",
			setup: func(in *Injector) {
				require.Equal(t, StatusAccepted, in.Enqueue(Key1, ActionPress))
			},
			key:      Key1,
			action:   ActionRelease,
			expected: StatusAccepted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := NewInjector()
			if tt.setup != nil {
				tt.setup(in)
			}
			depth := in.QueueDepth()
			got := in.Enqueue(tt.key, tt.action)
			assert.Equal(t, tt.expected, got)
			if tt.expected != StatusAccepted {
				assert.Equal(t, depth, in.QueueDepth(), "rejected call must not mutate the queue")
			}
		})
	}
}

func TestEnqueueBusyAtCapacity(t *testing.T) {
	in := NewInjector()
	fillQueue(t, in)

	// Well-formed request, no space.
	assert.Equal(t, StatusBusy, in.Enqueue(Key5, ActionPress))
	assert.Equal(t, QueueSize, in.QueueDepth())

	// One tick frees a slot (press applied immediately).
	in.ProcessQueue()
	assert.Equal(t, QueueSize-1, in.QueueDepth())
	assert.Equal(t, StatusAccepted, in.Enqueue(Key5, ActionPress))
}

func TestPressReleaseAhead(t *testing.T) {
	// Scenario A: a producer may queue a press and its release before
	// either is applied, but never a second press.
	in := NewInjector()
	assert.Equal(t, StatusAccepted, in.Enqueue(Key1, ActionPress))
	assert.Equal(t, StatusInvalid, in.Enqueue(Key1, ActionPress))
	assert.Equal(t, StatusAccepted, in.Enqueue(Key1, ActionRelease))
	assert.Equal(t, 2, in.QueueDepth())
}

func TestMinimumHoldDefersRelease(t *testing.T) {
	// Scenario B: the queued release must not apply until the injected
	// press has been visible for MinHoldTicks ticks.
	in := NewInjector()
	require.Equal(t, StatusAccepted, in.Enqueue(Key1, ActionPress))
	require.Equal(t, StatusAccepted, in.Enqueue(Key1, ActionRelease))

	in.ProcessQueue()
	assert.Equal(t, Key1, in.InjectedKey())
	assert.Equal(t, uint8(MinHoldTicks), in.hold)
	assert.Equal(t, 1, in.QueueDepth())

	for i := 0; i < MinHoldTicks-1; i++ {
		in.ProcessQueue()
		assert.Equal(t, Key1, in.InjectedKey(), "tick %d", i)
		assert.Equal(t, 1, in.QueueDepth(), "tick %d", i)
	}

	in.ProcessQueue()
	assert.Equal(t, KeyInvalid, in.InjectedKey())
	assert.Equal(t, 0, in.QueueDepth())
	assert.Equal(t, uint8(0), in.hold)
}

func TestRepeatedPressesNeverReachBusy(t *testing.T) {
	// Scenario C: capacity exhaustion is unreachable through presses alone.
	in := NewInjector()
	for i := 0; i < QueueSize; i++ {
		want := StatusInvalid
		if i == 0 {
			want = StatusAccepted
		}
		assert.Equal(t, want, in.Enqueue(Key9, ActionPress), "press %d", i)
	}
	assert.Equal(t, 1, in.QueueDepth())
}

func TestFreshPressNotDelayedByHold(t *testing.T) {
	in := NewInjector()
	require.Equal(t, StatusAccepted, in.Enqueue(Key1, ActionPress))
	require.Equal(t, StatusAccepted, in.Enqueue(Key1, ActionRelease))
	require.Equal(t, StatusAccepted, in.Enqueue(Key2, ActionPress))

	// Apply press, hold release through the minimum hold.
	for i := 0; i < MinHoldTicks+1; i++ {
		in.ProcessQueue()
	}
	require.Equal(t, KeyInvalid, in.InjectedKey())

	// The follow-up press applies on the very next tick even though the
	// hold timer was only just restarted by the previous press.
	in.ProcessQueue()
	assert.Equal(t, Key2, in.InjectedKey())
}

func TestRingWrapsAcrossManyEvents(t *testing.T) {
	in := NewInjector()
	// Push well past QueueSize total events so head and tail wrap several
	// times; every pair must still apply in order.
	for i := 0; i < 5*QueueSize; i++ {
		key := KeyCode(i % 10)
		require.Equal(t, StatusAccepted, in.Enqueue(key, ActionPress))

		in.ProcessQueue()
		require.Equal(t, key, in.InjectedKey(), "event %d", i)

		require.Equal(t, StatusAccepted, in.Enqueue(key, ActionRelease))
		for in.QueueDepth() > 0 {
			in.ProcessQueue()
		}
		require.Equal(t, KeyInvalid, in.InjectedKey(), "event %d", i)
	}
}

func TestMergeWithHardware(t *testing.T) {
	in := NewInjector()
	require.Equal(t, StatusAccepted, in.Enqueue(Key1, ActionPress))
	in.ProcessQueue()
	require.Equal(t, Key1, in.InjectedKey())

	assert.Equal(t, Key1, in.MergeWithHardware(KeyInvalid))
	// Physical input always wins, even over an active injection.
	assert.Equal(t, KeyPTT, in.MergeWithHardware(KeyPTT))
	assert.Equal(t, KeyExit, in.MergeWithHardware(KeyExit))
}

func TestProcessQueueIdleIsStable(t *testing.T) {
	in := NewInjector()
	for i := 0; i < 10; i++ {
		in.ProcessQueue()
	}
	assert.Equal(t, KeyInvalid, in.InjectedKey())
	assert.Equal(t, 0, in.QueueDepth())
}
