package types

import (
	"encoding/json"
	"testing"
)

// TestSettingsState tests reading the key state from settings
func TestSettingsState(t *testing.T) {
	tests := []struct {
		name     string
		settings Settings
		want     KeyState
	}{
		{name: "nil settings", settings: nil, want: StateUnknown},
		{name: "missing state", settings: Settings{"other": "x"}, want: StateUnknown},
		{name: "int idle", settings: Settings{"state": 0}, want: StateIdle},
		{name: "float pressed", settings: Settings{"state": float64(1)}, want: StatePressed},
		{name: "json number released", settings: Settings{"state": json.Number("2")}, want: StateReleasedPending},
		{name: "json number decimal", settings: Settings{"state": json.Number("1.0")}, want: StatePressed},
		{name: "json number exponent", settings: Settings{"state": json.Number("1e0")}, want: StatePressed},
		{name: "json number fractional", settings: Settings{"state": json.Number("0.5")}, want: StateUnknown},
		{name: "fractional", settings: Settings{"state": 1.5}, want: StateUnknown},
		{name: "out of range", settings: Settings{"state": 7}, want: StateUnknown},
		{name: "negative", settings: Settings{"state": -1}, want: StateUnknown},
		{name: "string", settings: Settings{"state": "1"}, want: StateUnknown},
		{name: "bad json number", settings: Settings{"state": json.Number("1e3x")}, want: StateUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.settings.State(); got != tt.want {
				t.Errorf("State() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestSettingsSetState tests that SetState round-trips through JSON
func TestSettingsSetState(t *testing.T) {
	s := Settings{"name": "demo"}
	s.SetState(StateReleasedPending)

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var back Settings
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if got := back.State(); got != StateReleasedPending {
		t.Errorf("State() after round trip = %v, want %v", got, StateReleasedPending)
	}
	if back["name"] != "demo" {
		t.Errorf("name = %v, want demo", back["name"])
	}
}

// TestSettingsClone tests that clones do not alias the original
func TestSettingsClone(t *testing.T) {
	var empty Settings
	if c := empty.Clone(); c == nil {
		t.Fatal("Clone() of nil settings returned nil")
	}

	orig := Settings{"state": 0}
	clone := orig.Clone()
	clone.SetState(StatePressed)
	if orig.State() != StateIdle {
		t.Errorf("original state changed to %v", orig.State())
	}
}

// TestKeyStateString tests state names
func TestKeyStateString(t *testing.T) {
	tests := []struct {
		state KeyState
		want  string
		valid bool
	}{
		{StateIdle, "idle", true},
		{StatePressed, "pressed", true},
		{StateReleasedPending, "released-pending", true},
		{StateUnknown, "unknown", false},
		{KeyState(9), "unknown", false},
	}

	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("KeyState(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
		if got := tt.state.Valid(); got != tt.valid {
			t.Errorf("KeyState(%d).Valid() = %v, want %v", tt.state, got, tt.valid)
		}
	}
}
