package evaluator

// Environment is a linked chain of frames, each a name-to-value map
// plus a pointer to its parent (§3, §4.4). Unlike the teacher's
// Environment (internal/evaluator/environment.go in the example
// pack), this one carries no mutex: the core spec rules out
// concurrency entirely (§5, "single-threaded, synchronous... no
// operation may suspend"), so a lock here would guard against
// something that cannot happen.
type Environment struct {
	vars   map[string]Value
	parent *Environment
}

// NewEnvironment creates a fresh frame parented to parent (nil for
// the global frame).
func NewEnvironment(parent *Environment) *Environment {
	return &Environment{vars: make(map[string]Value), parent: parent}
}

// Get scans the innermost frame outward and returns the first hit.
// The core spec describes this operation as returning "first hit or
// null" (§4.4); the evaluator's Ident rule is the layer that turns a
// miss into an "undefined variable" error (§4.3), so Get reports the
// miss via ok rather than returning NullValue itself — callers that
// want the spec's literal "or null" behavior (e.g. the module loader
// binding unresolved items) can do so explicitly.
func (e *Environment) Get(name string) (Value, bool) {
	for cur := e; cur != nil; cur = cur.parent {
		if v, ok := cur.vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Def binds name in the current frame, replacing any existing value.
func (e *Environment) Def(name string, v Value) {
	e.vars[name] = v
}

// Set replaces name in the nearest frame that already has it; if no
// frame has it, it behaves as Def in the current frame.
func (e *Environment) Set(name string, v Value) {
	for cur := e; cur != nil; cur = cur.parent {
		if _, ok := cur.vars[name]; ok {
			cur.vars[name] = v
			return
		}
	}
	e.vars[name] = v
}

// Parent returns the frame's parent, or nil at the global frame.
func (e *Environment) Parent() *Environment { return e.parent }
