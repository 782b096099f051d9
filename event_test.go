package wsbridge

import (
	"testing"
	"time"
)

func TestEvent(t *testing.T) {
	t.Parallel()

	t.Run("waitTimesOutWhenClear", func(t *testing.T) {
		t.Parallel()

		e := NewEvent()
		if e.Wait(10 * time.Millisecond) {
			t.Fatal("expected timeout on cleared event")
		}
	})

	t.Run("waitReturnsWhenSet", func(t *testing.T) {
		t.Parallel()

		e := NewEvent()
		e.Set()
		if !e.Wait(10 * time.Millisecond) {
			t.Fatal("expected wait to observe set event")
		}
		// Wait does not consume the signal.
		if !e.Wait(10 * time.Millisecond) {
			t.Fatal("expected set event to stay set")
		}
	})

	t.Run("setUnblocksConcurrentWait", func(t *testing.T) {
		t.Parallel()

		e := NewEvent()
		done := make(chan bool, 1)
		go func() {
			done <- e.Wait(5 * time.Second)
		}()
		time.Sleep(10 * time.Millisecond)
		e.Set()
		select {
		case set := <-done:
			if !set {
				t.Fatal("expected concurrent wait to observe set")
			}
		case <-time.After(time.Second):
			t.Fatal("wait did not unblock")
		}
	})

	t.Run("clearResets", func(t *testing.T) {
		t.Parallel()

		e := NewEvent()
		e.Set()
		e.Clear()
		if e.Wait(10 * time.Millisecond) {
			t.Fatal("expected timeout after clear")
		}
	})

	t.Run("clearedChannelTracksState", func(t *testing.T) {
		t.Parallel()

		e := NewEvent()
		select {
		case <-e.cleared():
		default:
			t.Fatal("expected new event to report cleared")
		}

		e.Set()
		select {
		case <-e.cleared():
			t.Fatal("expected set event to not report cleared")
		default:
		}

		e.Clear()
		select {
		case <-e.cleared():
		default:
			t.Fatal("expected cleared event to report cleared")
		}
	})

	t.Run("redundantTransitions", func(t *testing.T) {
		t.Parallel()

		e := NewEvent()
		e.Clear()
		e.Set()
		e.Set()
		e.Clear()
		e.Clear()
		if e.Wait(time.Millisecond) {
			t.Fatal("expected cleared event after redundant transitions")
		}
	})
}
