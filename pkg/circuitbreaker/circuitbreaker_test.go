package circuitbreaker_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mac0206/library-system/pkg/circuitbreaker"
)

func Test_circuitBreaker_Call(t *testing.T) {
	ok := func() error { return nil }
	fail := func() error { return errors.New("service error") }

	t.Run("stays closed on successes", func(t *testing.T) {
		cb := circuitbreaker.New(10, time.Second, 0.3, 2)
		for i := 0; i < 50; i++ {
			require.NoError(t, cb.Call(ok))
		}
	})

	t.Run("opens after exceeding failure percentile", func(t *testing.T) {
		cb := circuitbreaker.New(10, time.Minute, 0.3, 2)
		for i := 0; i < 4; i++ {
			require.Error(t, cb.Call(fail))
		}
		// breaker is open now: fails fast without calling the service
		err := cb.Call(ok)
		require.ErrorIs(t, err, circuitbreaker.ErrOpen)
	})

	t.Run("half-open recovers after timeout and successes", func(t *testing.T) {
		cb := circuitbreaker.New(10, 10*time.Millisecond, 0.3, 2)
		for i := 0; i < 4; i++ {
			require.Error(t, cb.Call(fail))
		}
		require.ErrorIs(t, cb.Call(ok), circuitbreaker.ErrOpen)

		time.Sleep(20 * time.Millisecond)
		cb.Reset()
		for i := 0; i < 5; i++ {
			require.NoError(t, cb.Call(ok))
		}
	})

	t.Run("half-open reopens on failure", func(t *testing.T) {
		cb := circuitbreaker.New(10, 10*time.Millisecond, 0.3, 2)
		for i := 0; i < 4; i++ {
			require.Error(t, cb.Call(fail))
		}
		time.Sleep(20 * time.Millisecond)
		require.Error(t, cb.Call(fail))
		require.ErrorIs(t, cb.Call(ok), circuitbreaker.ErrOpen)
	})
}
