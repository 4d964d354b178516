package loom

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_DispatchRunsChainInOrder(t *testing.T) {
	e := NewEngine()

	var order []int
	var mu sync.Mutex
	record := func(n int) Callback {
		return func(arg any) {
			mu.Lock()
			defer mu.Unlock()
			order = append(order, n)
		}
	}

	resume := e.Evacuate(nil, nil)
	id2 := e.Prepend(Operation{Callback: record(2), SlotID: 7})
	_ = id2
	resume()

	resume = e.Evacuate(nil, nil)
	e.Prepend(Operation{Callback: record(1), SlotID: 7})
	resume()

	e.Dispatch(7)

	assert.Equal(t, []int{1, 2}, order)
}

func TestEngine_UnlinkRemovesOnlyTargetOperation(t *testing.T) {
	e := NewEngine()

	var fired []string
	op := func(name string) Callback {
		return func(arg any) { fired = append(fired, name) }
	}

	resume := e.Evacuate(nil, nil)
	idA := e.Prepend(Operation{Callback: op("a"), SlotID: 3})
	idB := e.Prepend(Operation{Callback: op("b"), SlotID: 3})
	resume()

	resume = e.Evacuate(nil, nil)
	e.Unlink(3, idA)
	resume()

	e.Dispatch(3)

	assert.Equal(t, []string{"b"}, fired)
	_ = idB
}

func TestEngine_CycleCheckBlocksUntilFlagCleared(t *testing.T) {
	e := NewEngine()

	// The goroutine holds the update-lock shared and keeps crossing back
	// edge 5, as an instrumented loop would.
	var stop atomic.Bool
	entered := make(chan struct{})
	done := make(chan struct{})
	go func() {
		e.EnterThread()
		close(entered)
		for !stop.Load() {
			e.CycleCheck(5)
		}
		e.ExitThread()
		close(done)
	}()
	<-entered

	// nil unsafeBackEdges means every back edge, including 5, is treated
	// as safe and gets its wait flag raised (spec §9's conservative
	// all-edges-safe default). Evacuate can only take the update-lock
	// exclusively once the goroutine has released its shared hold inside
	// CycleCheck(5), where it now spins.
	resume := e.Evacuate(nil, nil)
	stop.Store(true)

	select {
	case <-done:
		t.Fatal("CycleCheck returned before evacuation resumed")
	case <-time.After(20 * time.Millisecond):
	}

	resume()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("CycleCheck did not return after resume")
	}
}

func TestEnterProcessExitProcess(t *testing.T) {
	EnterProcess()
	require.NotNil(t, Global())
	ExitProcess()
	assert.Nil(t, Global())
}
