// Package filter implements the filter registry (spec §4.7): it parses
// the filter-file grammar (§6.2), and performs the evacuate → mutate →
// resume install/uninstall protocol against a [loom.Engine]'s hook-dispatch
// tables via [loom.Engine.Prepend] / [loom.Engine.Unlink] /
// [loom.Engine.Evacuate].
package filter

import (
	"fmt"
	"sync"

	"github.com/columbia/loom"
)

// Kind identifies what a Filter does. Unknown marks an empty registry
// slot; CriticalRegion is the only populated kind currently defined.
type Kind int

const (
	Unknown Kind = iota
	CriticalRegion
)

func (k Kind) String() string {
	switch k {
	case CriticalRegion:
		return "CriticalRegion"
	default:
		return "Unknown"
	}
}

// entryOrExit distinguishes the two CriticalRegion callbacks bound by a
// filter-file line (spec §6.2): 0 binds EnterCriticalRegion, anything
// else binds ExitCriticalRegion.
type entryOrExit int

const (
	entry entryOrExit = 0
	exit  entryOrExit = 1
)

// spec is a parsed filter file, prior to installation: a kind plus the
// ordered (entry_or_exit, slot_id) pairs read from it. Ops are kept in
// file order; install iterates them in reverse so the final chain order
// (front to back) matches file order once every op has been [Prepend]ed,
// since Prepend always splices onto the front of a site's chain.
type spec struct {
	kind Kind
	ops  []specOp
}

type specOp struct {
	kind   entryOrExit
	slotID int
}

// slot is one registry entry: the installed filter's kind, the handles
// returned by Prepend (needed to Unlink on uninstall), and, for
// CriticalRegion, the mutex the filter's Enter/ExitCriticalRegion
// callbacks serialize on.
type slot struct {
	kind    Kind
	handles []handle
	mu      *sync.Mutex
}

type handle struct {
	slotID int
	opID   uint64
}

// Registry is the filter registry (spec §4.7), fixed at F = [loom.MaxNumFilters]
// slots, keyed by filter id. The zero value is not usable; construct one
// with [NewRegistry].
type Registry struct {
	engine *loom.Engine

	mu    sync.Mutex
	slots []slot
}

// NewRegistry allocates a Registry of [loom.MaxNumFilters] slots bound to
// engine. engine must already have had [loom.EnterProcess] applied to it
// (or be a fresh [loom.NewEngine] used in isolation by a test).
func NewRegistry(engine *loom.Engine) *Registry {
	return &Registry{
		engine: engine,
		slots:  make([]slot, loom.MaxNumFilters),
	}
}

// Install parses contents per §6.2 and, if it is well formed and
// filterID's slot is empty, installs it: evacuates (with the empty unsafe
// sets from unsafeBackEdges/unsafeCallSites), links every operation into
// its target site's chain, and resumes. Returns [loom.ErrAlreadyExists] if the slot is occupied,
// or [loom.ErrMalformedFilter] if contents fails to parse.
func (r *Registry) Install(filterID int, contents []byte) error {
	if filterID < 0 || filterID >= len(r.slots) {
		return fmt.Errorf("filter: id %d out of range: %w", filterID, loom.ErrMalformedCommand)
	}

	parsed, err := parse(contents)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.slots[filterID].kind != Unknown {
		return loom.ErrAlreadyExists
	}

	var mu *sync.Mutex
	if parsed.kind == CriticalRegion {
		mu = new(sync.Mutex)
	}

	handles := make([]handle, 0, len(parsed.ops))

	resume := r.engine.Evacuate(unsafeBackEdges(parsed), unsafeCallSites(parsed))
	for i := len(parsed.ops) - 1; i >= 0; i-- {
		op := parsed.ops[i]
		id := r.engine.Prepend(loom.Operation{
			Callback: criticalRegionCallback(r, filterID, op.kind),
			Arg:      filterID,
			SlotID:   op.slotID,
		})
		handles = append(handles, handle{slotID: op.slotID, opID: id})
	}
	// Recorded before resume releases the update-lock: once application
	// threads can reach Dispatch again, criticalRegionCallback must
	// already be able to resolve this filter's mutex.
	r.slots[filterID] = slot{kind: parsed.kind, handles: handles, mu: mu}
	resume()

	return nil
}

// Uninstall reverses Install: evacuates, unlinks every operation the
// filter owns, destroys its mutex, and marks the slot Unknown. Returns
// [loom.ErrNotFound] if the slot is already empty.
func (r *Registry) Uninstall(filterID int) error {
	if filterID < 0 || filterID >= len(r.slots) {
		return fmt.Errorf("filter: id %d out of range: %w", filterID, loom.ErrMalformedCommand)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.slots[filterID]
	if s.kind == Unknown {
		return loom.ErrNotFound
	}

	// Mutex destruction below is safe even though EnterCriticalRegion
	// is not itself a counted blocking call site (§9's open question):
	// Dispatch holds the update-lock shared for its entire duration,
	// unlike BeforeBlocking/AfterBlocking which release it around the
	// wrapped call. Acquiring the update-lock exclusively inside
	// Evacuate therefore already excludes any goroutine mid-dispatch,
	// which is the only place EnterCriticalRegion/ExitCriticalRegion
	// run from.
	resume := r.engine.Evacuate(nil, nil)
	for _, h := range s.handles {
		r.engine.Unlink(h.slotID, h.opID)
	}
	resume()

	r.slots[filterID] = slot{}
	return nil
}

// ClearAll tears down every installed filter without evacuating, per
// spec §4.7 ("called only from ExitProcess, when no application threads
// remain"). Callers must ensure no application thread is active.
func (r *Registry) ClearAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, s := range r.slots {
		if s.kind == Unknown {
			continue
		}
		for _, h := range s.handles {
			r.engine.Unlink(h.slotID, h.opID)
		}
		r.slots[id] = slot{}
	}
}

// criticalRegionCallback returns the Operation.Callback bound for a
// CriticalRegion entry/exit op: it resolves the filter's mutex by id and
// locks or unlocks it, per spec §4.7's "CriticalRegion callback
// semantics".
func criticalRegionCallback(r *Registry, filterID int, kind entryOrExit) loom.Callback {
	return func(arg any) {
		r.mu.Lock()
		mu := r.slots[filterID].mu
		r.mu.Unlock()
		if mu == nil {
			return
		}
		if kind == entry {
			mu.Lock()
		} else {
			mu.Unlock()
		}
	}
}

// unsafeBackEdges and unsafeCallSites compute the evacuation inputs for
// an incoming filter spec. Per §9's open TODO, the source always passes
// the empty set (every back edge safe, no call site unsafe); the
// analysis that would derive a tighter set from the filter's slot ids is
// declared out of scope and left as the conservative default here too.
func unsafeBackEdges(s *spec) []int { return nil }
func unsafeCallSites(s *spec) []int { return nil }
