package controller

// State is the controller lifecycle position.
type State int

const (
	StateIdle State = iota
	StateLoadingFeatures
	StateReady
	StateAnalyzing
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoadingFeatures:
		return "loading-features"
	case StateReady:
		return "ready"
	case StateAnalyzing:
		return "analyzing"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Busy reports whether a backend call is in flight.
func (s State) Busy() bool {
	return s == StateLoadingFeatures || s == StateAnalyzing
}
