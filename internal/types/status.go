package types

import (
	"encoding/json"
	"math"
)

// KeyState represents the display state of a single key instance
type KeyState int

const (
	// Possible key states. The numeric values are what the plugin stores
	// in the "state" field of the key settings.
	StateIdle            KeyState = 0
	StatePressed         KeyState = 1
	StateReleasedPending KeyState = 2
	StateUnknown         KeyState = -1
)

// StateKey is the reserved settings field holding the key state
const StateKey = "state"

// Valid reports whether s is one of the three cycle states
func (s KeyState) Valid() bool {
	return s == StateIdle || s == StatePressed || s == StateReleasedPending
}

// String returns a readable name for the state
func (s KeyState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePressed:
		return "pressed"
	case StateReleasedPending:
		return "released-pending"
	default:
		return "unknown"
	}
}

// Settings represents the persisted key/value data of one key instance
type Settings map[string]any

// State returns the key state stored in the settings. Missing or
// unrecognised values yield StateUnknown.
func (s Settings) State() KeyState {
	if s == nil {
		return StateUnknown
	}

	var n int64
	switch v := s[StateKey].(type) {
	case int:
		n = int64(v)
	case int64:
		n = v
	case float64:
		if v != math.Trunc(v) {
			return StateUnknown
		}
		n = int64(v)
	case json.Number:
		// 1, 1.0 and 1e0 all name the same state.
		f, err := v.Float64()
		if err != nil || f != math.Trunc(f) {
			return StateUnknown
		}
		n = int64(f)
	default:
		return StateUnknown
	}

	state := KeyState(n)
	if !state.Valid() {
		return StateUnknown
	}
	return state
}

// SetState stores state in the settings
func (s Settings) SetState(state KeyState) {
	s[StateKey] = int(state)
}

// Clone returns a shallow copy of the settings. A nil receiver yields an
// empty, non-nil map.
func (s Settings) Clone() Settings {
	out := make(Settings, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}
