package waitflag

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFlag_SetClear(t *testing.T) {
	var f Flag
	require.False(t, f.IsSet())
	f.Set()
	require.True(t, f.IsSet())
	f.Clear()
	require.False(t, f.IsSet())
}

func TestFlag_SpinReturnsImmediatelyWhenClear(t *testing.T) {
	var f Flag
	done := make(chan struct{})
	go func() {
		f.Spin()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Spin did not return on an already-clear flag")
	}
}

func TestFlag_SpinWakesOnClear(t *testing.T) {
	var f Flag
	f.Set()

	done := make(chan struct{})
	go func() {
		f.Spin()
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("Spin returned before the flag was cleared")
	case <-time.After(20 * time.Millisecond):
	}

	f.Clear()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Spin did not return after the flag was cleared")
	}
}
