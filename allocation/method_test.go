package allocation

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestByPreferenceRejectsNonPositiveRank(t *testing.T) {
	for _, rank := range []int{0, -1} {
		if _, err := ByPreference(rank); !errors.Is(err, ErrInvalidPreferenceRank) {
			t.Errorf("ByPreference(%d) error = %v, want ErrInvalidPreferenceRank", rank, err)
		}
	}
}

func TestPreferenceRankOnlyOnPreferenceVariant(t *testing.T) {
	if _, ok := ByDefault().PreferenceRank(); ok {
		t.Error("DEFAULT must not carry a preference rank")
	}
	if _, ok := ByOverride().PreferenceRank(); ok {
		t.Error("OVERRIDE must not carry a preference rank")
	}
	a, _ := ByPreference(3)
	if rank, ok := a.PreferenceRank(); !ok || rank != 3 {
		t.Errorf("PreferenceRank() = %d, %v; want 3, true", rank, ok)
	}
}

func TestColumnsRoundTrip(t *testing.T) {
	original, _ := ByPreference(2)
	method, rank := original.Columns()

	restored, err := FromColumns(&method, rank)
	if err != nil {
		t.Fatalf("FromColumns: %v", err)
	}
	if *restored != original {
		t.Errorf("round trip produced %s, want %s", restored, original)
	}

	if got, err := FromColumns(nil, nil); err != nil || got != nil {
		t.Errorf("FromColumns(nil, nil) = %v, %v; want nil, nil", got, err)
	}
}

func TestFromColumnsRejectsPreferenceWithoutRank(t *testing.T) {
	method := string(MethodPreference)
	if _, err := FromColumns(&method, nil); err == nil {
		t.Error("expected error for PREFERENCE stored without rank")
	}
}

func TestAssignmentJSON(t *testing.T) {
	a, _ := ByPreference(1)
	data, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded Assignment
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded != a {
		t.Errorf("round trip produced %s, want %s", decoded, a)
	}

	var bad Assignment
	if err := json.Unmarshal([]byte(`{"method":"PREFERENCE"}`), &bad); err == nil {
		t.Error("expected error for PREFERENCE without preference_rank")
	}
}
