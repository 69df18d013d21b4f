package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimer_Phases(t *testing.T) {
	clock := NewMockClock(time.Unix(1000, 0))
	timer := NewTimer("convert", WithClock(clock))

	pt := timer.Start("decode")
	clock.Advance(250 * time.Millisecond)
	d := pt.Stop()

	assert.Equal(t, 250*time.Millisecond, d)
	assert.Equal(t, 250*time.Millisecond, timer.GetDuration("decode"))
}

func TestTimer_StopTwice(t *testing.T) {
	clock := NewMockClock(time.Unix(1000, 0))
	timer := NewTimer("convert", WithClock(clock))

	pt := timer.Start("fold")
	clock.Advance(time.Second)
	first := pt.Stop()
	clock.Advance(time.Second)
	second := pt.Stop()

	assert.Equal(t, first, second)
}

func TestTimer_TotalDuration(t *testing.T) {
	clock := NewMockClock(time.Unix(1000, 0))
	timer := NewTimer("convert", WithClock(clock))

	clock.Advance(3 * time.Second)
	assert.Equal(t, 3*time.Second, timer.TotalDuration())
}

func TestTimer_UnknownPhase(t *testing.T) {
	timer := NewTimer("convert")
	assert.Equal(t, time.Duration(0), timer.StopPhase("missing"))
	assert.Equal(t, time.Duration(0), timer.GetDuration("missing"))
}

func TestClock_Mock(t *testing.T) {
	start := time.Unix(0, 0)
	clock := NewMockClock(start)
	clock.Advance(time.Minute)

	assert.Equal(t, time.Minute, clock.Since(start))
}
