package loom_test

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/columbia/loom"
	"github.com/columbia/loom/filter"
)

// Example_criticalRegion demonstrates installing a CriticalRegion filter
// and dispatching the hook site it binds, without a live controller
// connection (see daemon.Start for the networked control-channel path).
func Example_criticalRegion() {
	engine := loom.NewEngine()
	registry := filter.NewRegistry(engine)

	dir, err := os.MkdirTemp("", "loom-example")
	if err != nil {
		fmt.Println(err)
		return
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "mutex.filter")
	// kind 1 (CriticalRegion), 2 ops: entry at slot 7, exit at slot 7.
	if err := os.WriteFile(path, []byte("1 2\n0 7\n1 7\n"), 0o644); err != nil {
		fmt.Println(err)
		return
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		fmt.Println(err)
		return
	}
	if err := registry.Install(0, contents); err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println("before critical region")
	engine.Dispatch(7) // runs EnterCriticalRegion then ExitCriticalRegion
	fmt.Println("after critical region")

	if err := registry.Uninstall(0); err != nil {
		fmt.Println(err)
		return
	}

	// Output:
	// before critical region
	// after critical region
}
