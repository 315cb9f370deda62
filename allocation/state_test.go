package allocation

import (
	"testing"
	"time"
)

func TestStateOf(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name        string
		lockedAt    *time.Time
		finalizedAt *time.Time
		want        State
	}{
		{"no timestamps", nil, nil, StateOpen},
		{"locked only", &now, nil, StateLocked},
		{"locked and finalized", &now, &now, StateFinalized},
		{"finalized without locked treated as finalized", nil, &now, StateFinalized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StateOf(tt.lockedAt, tt.finalizedAt); got != tt.want {
				t.Errorf("StateOf() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to State
		want     bool
	}{
		{StateOpen, StateLocked, true},
		{StateLocked, StateFinalized, true},
		{StateLocked, StateOpen, true}, // явный админский unlock
		{StateOpen, StateFinalized, false},
		{StateOpen, StateOpen, false},
		{StateFinalized, StateOpen, false}, // finalized необратим
		{StateFinalized, StateLocked, false},
		{StateFinalized, StateFinalized, false},
	}

	for _, tt := range tests {
		if got := tt.from.CanTransition(tt.to); got != tt.want {
			t.Errorf("CanTransition(%s -> %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestStateGuards(t *testing.T) {
	if !StateOpen.PreferencesMutable() || StateLocked.PreferencesMutable() || StateFinalized.PreferencesMutable() {
		t.Error("preferences must be mutable only in open")
	}
	if !StateOpen.RecomputeAllowed() || StateLocked.RecomputeAllowed() || StateFinalized.RecomputeAllowed() {
		t.Error("recompute must be allowed only in open")
	}
	if !StateOpen.OverrideAllowed() || !StateLocked.OverrideAllowed() || StateFinalized.OverrideAllowed() {
		t.Error("override must be allowed in open and locked only")
	}
}
