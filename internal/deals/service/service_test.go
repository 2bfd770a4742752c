package service

import (
	"testing"
	"time"

	"yuvna_backend/internal/intelligence"
	"yuvna_backend/platform/apperr"
)

func TestValidateTransition(t *testing.T) {
	cases := []struct {
		name     string
		from, to intelligence.Stage
		wantKind apperr.Kind
		ok       bool
	}{
		{"forward", intelligence.StageNew, intelligence.StageQualified, 0, true},
		{"skip ahead", intelligence.StageNew, intelligence.StageBooking, 0, true},
		{"backward", intelligence.StageSiteVisit, intelligence.StageQualified, 0, true},
		{"close won", intelligence.StageBooking, intelligence.StageClosedWon, 0, true},
		{"close lost anywhere", intelligence.StageNew, intelligence.StageClosedLost, 0, true},
		{"same stage", intelligence.StageAdvisory, intelligence.StageAdvisory, apperr.KindValidation, false},
		{"from closed-won", intelligence.StageClosedWon, intelligence.StageNew, apperr.KindConflict, false},
		{"from closed-lost", intelligence.StageClosedLost, intelligence.StageQualified, apperr.KindConflict, false},
		{"unknown target", intelligence.StageNew, intelligence.Stage("archived"), apperr.KindValidation, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := validateTransition(tc.from, tc.to)
			if tc.ok {
				if err != nil {
					t.Fatalf("%s -> %s: unexpected error %v", tc.from, tc.to, err)
				}
				return
			}
			if err == nil {
				t.Fatalf("%s -> %s: expected error", tc.from, tc.to)
			}
			if !apperr.Is(err, tc.wantKind) {
				t.Fatalf("%s -> %s: kind = %v, want %v", tc.from, tc.to, apperr.GetKind(err), tc.wantKind)
			}
		})
	}
}

func TestDaysSince(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

	if got := daysSince(now.Add(-49*time.Hour), now); got != 2 {
		t.Fatalf("49h = %d days, want 2", got)
	}
	if got := daysSince(now, now); got != 0 {
		t.Fatalf("same instant = %d, want 0", got)
	}
	if got := daysSince(now.Add(time.Hour), now); got != 0 {
		t.Fatalf("future entry = %d, want 0", got)
	}
}
