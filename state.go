package persona

// State is the phase an invocation is in.
type State int

const (
	Idle State = iota
	ValidatingInput
	AwaitingProviderResponse
	ApplyingOutput
	Done
	Aborted
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case ValidatingInput:
		return "validating_input"
	case AwaitingProviderResponse:
		return "awaiting_provider_response"
	case ApplyingOutput:
		return "applying_output"
	case Done:
		return "done"
	case Aborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition can happen.
func (s State) Terminal() bool {
	return s == Done || s == Aborted
}
