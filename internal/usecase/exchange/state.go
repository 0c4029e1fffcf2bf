package exchange

import "log/slog"

// State is a step of one exchange run.
//
//	REQUESTED -> VALIDATED -> QUOTED
//	                       -> SETTLING -> COMMITTED
//	any non-terminal state -> REJECTED
type State string

const (
	StateRequested State = "REQUESTED"
	StateValidated State = "VALIDATED"
	StateQuoted    State = "QUOTED"
	StateSettling  State = "SETTLING"
	StateCommitted State = "COMMITTED"
	StateRejected  State = "REJECTED"
)

func (s State) Terminal() bool {
	return s == StateQuoted || s == StateCommitted || s == StateRejected
}

var transitions = map[State][]State{
	StateRequested: {StateValidated, StateRejected},
	StateValidated: {StateQuoted, StateSettling, StateRejected},
	StateSettling:  {StateCommitted, StateRejected},
}

func canTransition(from, to State) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// run tracks the state of a single Exchange call.
type run struct {
	ownerID string
	state   State
	hook    StateHook
}

func newRun(ownerID string, hook StateHook) *run {
	r := &run{ownerID: ownerID, state: StateRequested, hook: hook}
	r.notify()
	return r
}

func (r *run) to(next State) {
	if !canTransition(r.state, next) {
		// unreachable unless a new code path skips a state
		slog.Error("illegal exchange state transition", "owner_id", r.ownerID, "from", r.state, "to", next)
		return
	}
	r.state = next
	r.notify()
}

func (r *run) notify() {
	if r.hook != nil {
		r.hook(r.ownerID, r.state)
	}
}
