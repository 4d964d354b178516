// Package loom is the runtime core of a live-update engine: a daemon
// goroutine co-resident in a host process applies instrumentation updates
// to a running, multi-threaded application without restarting it.
//
// # Architecture
//
// Application code compiled with instrumentation hooks calls two families
// of entry points exposed by this package:
//
//   - Lifecycle: [EnterProcess], [ExitProcess], [EnterThread], [ExitThread]
//   - Fast path: [CycleCheck] at back edges, [BeforeBlocking]/[AfterBlocking]
//     around wrapped blocking calls
//
// A [daemon.Daemon] (package daemon) reads update commands from a
// controller over a line-oriented TCP protocol and drives the
// install/uninstall of filters in a [filter.Registry] (package filter)
// through the evacuation protocol in internal/evacuate, which quiesces the
// application before any hook-dispatch state is touched. The registry
// passes empty unsafe sets, so every back edge is waited on and no
// blocking call site is drained.
//
// # Thread Safety
//
// Every exported function in this package is safe to call concurrently
// from any number of goroutines; that is the entire point of the
// evacuation protocol. [EnterProcess] must be called exactly once, before
// any other function in this package, and before the host application
// spawns its first additional goroutine.
//
// # Usage
//
//	loom.EnterProcess()
//	defer loom.ExitProcess()
//
//	registry := filter.NewRegistry(loom.Global())
//	d, err := daemon.Start(context.Background(), registry, loom.DefaultControllerAddr)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer d.Stop()
//
//	// in instrumented code, at a loop back edge:
//	loom.CycleCheck(backEdgeID)
package loom
