package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("redis: connection refused")

// fakeClock 可控时钟
type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestBreaker(clock *fakeClock, transitions *[]string) *CircuitBreaker {
	cb := New(Settings{
		Name:        "report-cache",
		MaxRequests: 1,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(c Counts) bool { return c.ConsecutiveFailures >= 3 },
		OnStateChange: func(_ string, from, to State) {
			if transitions != nil {
				*transitions = append(*transitions, from.String()+"->"+to.String())
			}
		},
	})
	cb.now = clock.now
	return cb
}

func TestCircuitBreaker_TripsAfterConsecutiveFailures(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	var transitions []string
	cb := newTestBreaker(clock, &transitions)

	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, cb.Execute(func() error { return errBoom }), errBoom)
	}
	assert.Equal(t, StateOpen, cb.State())

	called := false
	err := cb.Execute(func() error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrOpenState)
	assert.False(t, called, "熔断器打开时不应调用实际函数")
	assert.Equal(t, []string{"CLOSED->OPEN"}, transitions)
}

func TestCircuitBreaker_HalfOpenRecovers(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	var transitions []string
	cb := newTestBreaker(clock, &transitions)

	for i := 0; i < 3; i++ {
		_ = cb.Execute(func() error { return errBoom })
	}
	require.Equal(t, StateOpen, cb.State())

	clock.advance(31 * time.Second)
	assert.Equal(t, StateHalfOpen, cb.State())

	require.NoError(t, cb.Execute(func() error { return nil }))
	assert.Equal(t, StateClosed, cb.State())
	assert.Equal(t, []string{"CLOSED->OPEN", "OPEN->HALF_OPEN", "HALF_OPEN->CLOSED"}, transitions)
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	cb := newTestBreaker(clock, nil)

	for i := 0; i < 3; i++ {
		_ = cb.Execute(func() error { return errBoom })
	}
	clock.advance(31 * time.Second)

	_ = cb.Execute(func() error { return errBoom })
	assert.Equal(t, StateOpen, cb.State())
}

func TestCircuitBreaker_IntervalResetsCounts(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	cb := newTestBreaker(clock, nil)

	_ = cb.Execute(func() error { return errBoom })
	_ = cb.Execute(func() error { return errBoom })
	clock.advance(11 * time.Second)
	_ = cb.Execute(func() error { return errBoom })

	assert.Equal(t, StateClosed, cb.State())
	assert.Equal(t, uint32(1), cb.Counts().ConsecutiveFailures)
}

func TestCircuitBreaker_IsSuccessful(t *testing.T) {
	errMiss := errors.New("cache miss")
	cb := New(Settings{
		Name:         "report-cache",
		ReadyToTrip:  func(c Counts) bool { return c.ConsecutiveFailures >= 1 },
		IsSuccessful: func(err error) bool { return err == nil || errors.Is(err, errMiss) },
	})

	for i := 0; i < 5; i++ {
		assert.ErrorIs(t, cb.Execute(func() error { return errMiss }), errMiss)
	}
	assert.Equal(t, StateClosed, cb.State())
	assert.Equal(t, uint32(5), cb.Counts().TotalSuccesses)
}

func TestCounts_FailureRate(t *testing.T) {
	assert.Zero(t, Counts{}.FailureRate())
	assert.InDelta(t, 0.25, Counts{Requests: 4, TotalFailures: 1}.FailureRate(), 1e-9)
}
