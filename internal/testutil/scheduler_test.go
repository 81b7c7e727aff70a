package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManualScheduler_StartsAtZero(t *testing.T) {
	s := NewManualScheduler()
	assert.Equal(t, time.Duration(0), s.Now())
	assert.Equal(t, 0, s.Pending())
}

func TestManualScheduler_FiresOnlyWhenDue(t *testing.T) {
	s := NewManualScheduler()
	fired := false
	s.AfterFunc(100*time.Millisecond, func() { fired = true })

	assert.Equal(t, 0, s.Advance(99*time.Millisecond))
	assert.False(t, fired)

	assert.Equal(t, 1, s.Advance(time.Millisecond))
	assert.True(t, fired)
	assert.Equal(t, 100*time.Millisecond, s.Now())
	assert.Equal(t, 0, s.Pending())
}

func TestManualScheduler_OrdersByDeadlineThenRegistration(t *testing.T) {
	s := NewManualScheduler()
	var order []string
	s.AfterFunc(20*time.Millisecond, func() { order = append(order, "b") })
	s.AfterFunc(10*time.Millisecond, func() { order = append(order, "a") })
	s.AfterFunc(20*time.Millisecond, func() { order = append(order, "c") })

	s.Advance(time.Second)
	assert.Equal(t, []string{"a", "b", "c"}, order)
}

func TestManualScheduler_ChainedTimersFireWithinWindow(t *testing.T) {
	s := NewManualScheduler()
	var at []time.Duration
	s.AfterFunc(10*time.Millisecond, func() {
		at = append(at, s.Now())
		s.AfterFunc(10*time.Millisecond, func() {
			at = append(at, s.Now())
		})
	})

	assert.Equal(t, 2, s.Advance(25*time.Millisecond))
	assert.Equal(t, []time.Duration{10 * time.Millisecond, 20 * time.Millisecond}, at)
	assert.Equal(t, 25*time.Millisecond, s.Now())
}

func TestManualScheduler_StopPreventsCallback(t *testing.T) {
	s := NewManualScheduler()
	fired := false
	timer := s.AfterFunc(10*time.Millisecond, func() { fired = true })

	assert.True(t, timer.Stop())
	assert.False(t, timer.Stop(), "second stop should report already stopped")
	assert.Equal(t, 0, s.Pending())

	s.Advance(time.Second)
	assert.False(t, fired)
}

func TestManualScheduler_StopAfterFire(t *testing.T) {
	s := NewManualScheduler()
	timer := s.AfterFunc(time.Millisecond, func() {})
	s.Advance(time.Millisecond)

	assert.False(t, timer.Stop())
}

func TestManualScheduler_Settle(t *testing.T) {
	s := NewManualScheduler()
	count := 0
	var tick func()
	tick = func() {
		count++
		if count < 5 {
			s.AfterFunc(time.Second, tick)
		}
	}
	s.AfterFunc(time.Second, tick)

	fired := s.Settle(100)
	assert.Equal(t, 5, fired)
	assert.Equal(t, 5*time.Second, s.Now())

	at, ok := s.NextDeadline()
	assert.False(t, ok)
	assert.Equal(t, time.Duration(0), at)
}

func TestManualScheduler_SettleLimit(t *testing.T) {
	s := NewManualScheduler()
	var forever func()
	forever = func() { s.AfterFunc(time.Millisecond, forever) }
	s.AfterFunc(time.Millisecond, forever)

	fired := s.Settle(10)
	require.Equal(t, 10, fired)
	assert.Equal(t, 1, s.Pending())
}
