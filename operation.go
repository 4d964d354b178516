package loom

// Callback is the signature of an instrumentation primitive invoked when
// an Operation's hook site is dispatched. arg is the opaque token
// recorded on the Operation (in practice the owning filter id).
type Callback func(arg any)

// Operation is a (callback, arg, slot_id) triple describing one
// instrumentation action attached to one hook site, per spec §3.
//
// Unlike the source's intrusive linkage, Operation values carry no
// back-pointer to the site or filter that owns them; a site's chain
// holds id-addressed entries, each holding a copy of the Operation it
// was given (see site.go), and a filter tracks the handles [Prepend]
// returned so it can later [Unlink] exactly the operations it installed.
type Operation struct {
	Callback Callback
	Arg      any
	SlotID   int
}
