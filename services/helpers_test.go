package services

import (
	"errors"
	"testing"
	"time"

	"github.com/gocongress/prizes-sub001/allocation"
	"github.com/gocongress/prizes-sub001/models"
)

func resultInState(locked, finalized bool) *models.Result {
	res := &models.Result{ID: 1, EventID: 1}
	now := time.Now()
	if locked || finalized {
		res.AllocationLockedAt = &now
	}
	if finalized {
		res.AllocationFinalizedAt = &now
	}
	return res
}

func TestGuardPreferenceWrite(t *testing.T) {
	tests := []struct {
		name    string
		res     *models.Result
		wantErr error
	}{
		{"no result yet", nil, nil},
		{"open", resultInState(false, false), nil},
		{"locked", resultInState(true, false), ErrResultLocked},
		{"finalized", resultInState(true, true), ErrResultFinalized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := guardPreferenceWrite(tt.res)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("guardPreferenceWrite() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestGuardRecompute(t *testing.T) {
	if err := guardRecompute(resultInState(false, false)); err != nil {
		t.Errorf("recompute in open should be allowed, got %v", err)
	}
	if err := guardRecompute(resultInState(true, false)); !errors.Is(err, ErrResultLocked) {
		t.Errorf("recompute in locked = %v, want ErrResultLocked", err)
	}
	if err := guardRecompute(resultInState(true, true)); !errors.Is(err, ErrResultFinalized) {
		t.Errorf("recompute in finalized = %v, want ErrResultFinalized", err)
	}
}

func TestGuardOverride(t *testing.T) {
	// Override разрешён и в open, и в locked.
	if err := guardOverride(resultInState(false, false)); err != nil {
		t.Errorf("override in open should be allowed, got %v", err)
	}
	if err := guardOverride(resultInState(true, false)); err != nil {
		t.Errorf("override in locked should be allowed, got %v", err)
	}
	if err := guardOverride(resultInState(true, true)); !errors.Is(err, ErrResultFinalized) {
		t.Errorf("override in finalized = %v, want ErrResultFinalized", err)
	}
}

func TestCheckTransition(t *testing.T) {
	tests := []struct {
		name    string
		res     *models.Result
		next    allocation.State
		wantErr error
	}{
		{"open to locked", resultInState(false, false), allocation.StateLocked, nil},
		{"locked to finalized", resultInState(true, false), allocation.StateFinalized, nil},
		{"locked to open", resultInState(true, false), allocation.StateOpen, nil},
		{"open to finalized", resultInState(false, false), allocation.StateFinalized, ErrResultNotLocked},
		{"double lock", resultInState(true, false), allocation.StateLocked, ErrResultLocked},
		{"finalized to open", resultInState(true, true), allocation.StateOpen, ErrResultFinalized},
		{"finalized to locked", resultInState(true, true), allocation.StateLocked, ErrResultFinalized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkTransition(tt.res, tt.next)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("checkTransition() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateWinners(t *testing.T) {
	valid := []models.Winner{
		{Place: 1, AgaID: "12345", Division: "Open"},
		{Place: 2, AgaID: "67890", Division: "Open"},
		{Place: 1, AgaID: "11111", Division: "Dan"},
	}
	if err := validateWinners(valid); err != nil {
		t.Fatalf("valid winners rejected: %v", err)
	}

	if err := validateWinners([]models.Winner{{Place: 0, AgaID: "1"}}); !errors.Is(err, ErrWinnersInvalid) {
		t.Errorf("zero place = %v, want ErrWinnersInvalid", err)
	}
	if err := validateWinners([]models.Winner{{Place: 1, AgaID: "  "}}); !errors.Is(err, ErrWinnersInvalid) {
		t.Errorf("blank aga id = %v, want ErrWinnersInvalid", err)
	}

	duplicate := []models.Winner{
		{Place: 1, AgaID: "12345", Division: "Open"},
		{Place: 2, AgaID: "12345", Division: "Open"},
	}
	if err := validateWinners(duplicate); !errors.Is(err, ErrWinnersInvalid) {
		t.Errorf("duplicate player in division = %v, want ErrWinnersInvalid", err)
	}

	if err := validateWinners(nil); err != nil {
		t.Errorf("empty winners should be accepted, got %v", err)
	}
}
