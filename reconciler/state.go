package reconciler

type State int

const (
	Idle State = iota
	Authenticating
	Deciding
	Updating
	Creating
	Interpreting
	Settled
	Failed
)

var stateNames = map[State]string{
	Idle:           "idle",
	Authenticating: "authenticating",
	Deciding:       "deciding",
	Updating:       "updating",
	Creating:       "creating",
	Interpreting:   "interpreting",
	Settled:        "settled",
	Failed:         "failed",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

type Action int

const (
	ActionNone Action = iota
	ActionCreated
	ActionUpdated
	ActionDeleted
)

func (a Action) String() string {
	switch a {
	case ActionCreated:
		return "created"
	case ActionUpdated:
		return "updated"
	case ActionDeleted:
		return "deleted"
	}
	return "none"
}
