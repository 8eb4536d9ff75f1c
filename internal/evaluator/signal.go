package evaluator

import "github.com/vesperlang/vesper/internal/diagnostics"

// SignalKind is the evaluator's non-value return channel (§3, §4.3,
// §9 Design Notes: "Control-flow signals").
type SignalKind int

const (
	SigNone SignalKind = iota
	SigReturn
	SigBreak
	SigYield
	SigError
)

// Signal carries a control-flow outcome alongside the value produced
// by eval. Every evaluator branch propagates on any non-SigNone
// signal and consumes on the ones it understands.
type Signal struct {
	Kind SignalKind
	Err  *diagnostics.Diagnostic // set only when Kind == SigError
	Bare bool                    // set only for a value-less `return` (§9 Open Question (b))
}

func none() Signal { return Signal{Kind: SigNone} }

func errSignal(d diagnostics.Diagnostic) Signal {
	return Signal{Kind: SigError, Err: &d}
}

func (s Signal) propagates() bool { return s.Kind != SigNone }
