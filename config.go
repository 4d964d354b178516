package loom

// Compile-time constants in the source implementation (MaxNumBackEdges,
// MaxNumInsts, MaxNumBlockingCS, MaxNumFilters, and the controller
// address) are exposed here as package variables instead, since Go has no
// preprocessor. They must be set, if at all, before [EnterProcess] is
// called. [NewEngine] (and so [EnterProcess]) reads the first three once
// to size the engine's tables; MaxNumFilters is read when a filter
// registry is created, and DefaultControllerAddr is only read by callers
// that pass it to the daemon.
var (
	// MaxNumBackEdges is B: the number of back edges an instrumented
	// application may raise via [CycleCheck].
	MaxNumBackEdges = 1024

	// MaxNumInsts is S: the number of hook sites an instrumented
	// application may dispatch via [Dispatch].
	MaxNumInsts = 1024

	// MaxNumBlockingCS is K: the number of blocking call sites an
	// instrumented application may wrap with [BeforeBlocking] /
	// [AfterBlocking].
	MaxNumBlockingCS = 256

	// MaxNumFilters is F: the number of concurrently installed filters.
	MaxNumFilters = 64

	// DefaultControllerAddr is the compile-time-configured controller
	// address the daemon dials as a client, equivalent to the source's
	// CONTROLLER_IP/CONTROLLER_PORT pair.
	DefaultControllerAddr = "127.0.0.1:17000"
)
