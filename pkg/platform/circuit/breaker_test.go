package circuit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type step struct {
	fail     bool
	wantOpen bool
}

func TestBreakerTransitions(t *testing.T) {
	tests := []struct {
		name  string
		opts  []Option
		steps []step
	}{
		{
			name: "opens on the threshold failure",
			opts: []Option{WithFailureThreshold(3)},
			steps: []step{
				{fail: true}, {fail: true}, {fail: true, wantOpen: true},
			},
		},
		{
			name: "success in between resets the failure run",
			opts: []Option{WithFailureThreshold(2)},
			steps: []step{
				{fail: true}, {fail: false}, {fail: true}, {fail: true, wantOpen: true},
			},
		},
		{
			name: "closes after the success threshold",
			opts: []Option{WithFailureThreshold(1), WithSuccessThreshold(2)},
			steps: []step{
				{fail: true, wantOpen: true}, {fail: false, wantOpen: true}, {fail: false},
			},
		},
		{
			name: "failure while open resets the success run",
			opts: []Option{WithFailureThreshold(1), WithSuccessThreshold(2)},
			steps: []step{
				{fail: true, wantOpen: true},
				{fail: false, wantOpen: true},
				{fail: true, wantOpen: true},
				{fail: false, wantOpen: true},
				{fail: false},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New("state", tt.opts...)
			for i, s := range tt.steps {
				if s.fail {
					b.RecordFailure()
				} else {
					b.RecordSuccess()
				}
				require.Equal(t, s.wantOpen, b.IsOpen(), "after step %d", i)
			}
		})
	}
}

func TestBreakerReportsStateChanges(t *testing.T) {
	b := New("user", WithFailureThreshold(1))
	assert.Equal(t, "user", b.Name())
	assert.Equal(t, "closed", b.State().String())

	useFallback, change := b.RecordFailure()
	assert.True(t, useFallback)
	assert.True(t, change.Opened)
	assert.Equal(t, "open", b.State().String())

	useFallback, change = b.RecordFailure()
	assert.True(t, useFallback)
	assert.False(t, change.Opened)

	usePrimary, change := b.RecordSuccess()
	assert.True(t, usePrimary)
	assert.True(t, change.Closed)
}

func TestBreakerCooldownGatesTrialCalls(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	b := New("address", WithFailureThreshold(1), WithCooldown(10*time.Second),
		WithClock(func() time.Time { return now }))

	assert.True(t, b.Allow())
	b.RecordFailure()
	assert.False(t, b.Allow())

	now = now.Add(11 * time.Second)
	assert.True(t, b.Allow())

	// failed trial call restarts the cooldown
	b.RecordFailure()
	assert.False(t, b.Allow())

	now = now.Add(11 * time.Second)
	_, change := b.RecordSuccess()
	assert.True(t, change.Closed)
	assert.True(t, b.Allow())
}

func TestNewIgnoresNonPositiveOptions(t *testing.T) {
	b := New("state", WithFailureThreshold(0), WithSuccessThreshold(-1), WithCooldown(0), WithClock(nil))
	for range 4 {
		b.RecordFailure()
	}
	assert.False(t, b.IsOpen())
	b.RecordFailure()
	assert.True(t, b.IsOpen())
}
