package intelligence

import (
	"testing"
	"time"
)

func testEngine() *Engine {
	return NewEngine(DefaultPolicy())
}

func TestApplySignalsDeltas(t *testing.T) {
	e := testEngine()

	got := e.ApplySignals(Scores{}, []Signal{SignalCallRequest})
	if got.Urgency != 25 {
		t.Fatalf("call_request urgency = %d, want 25", got.Urgency)
	}

	got = e.ApplySignals(Scores{}, []Signal{SignalPropertyInterest})
	if got.Urgency != 5 || got.Engagement != 5 {
		t.Fatalf("property_interest = %+v, want {5 5}", got)
	}
}

func TestApplySignalsClampsAtHundred(t *testing.T) {
	e := testEngine()
	got := e.ApplySignals(Scores{Urgency: 95}, []Signal{SignalCallRequest})
	if got.Urgency != 100 {
		t.Fatalf("urgency = %d, want clamp at 100", got.Urgency)
	}
}

func TestRepeatedEventsCompound(t *testing.T) {
	e := testEngine()

	once := e.ApplySignals(Scores{}, []Signal{SignalCallRequest})
	twice := e.ApplySignals(once, []Signal{SignalCallRequest})

	if twice.Urgency != 2*once.Urgency {
		t.Fatalf("expected compounding: once=%d twice=%d", once.Urgency, twice.Urgency)
	}
}

func TestApplyActivity(t *testing.T) {
	e := testEngine()

	cases := []struct {
		kind           ActivityKind
		wantEngagement int
	}{
		{ActivityROISimulationRun, 10},
		{ActivityRecommendationsViewed, 5},
		{ActivitySessionRecorded, 3},
		{ActivityOnboardingCompleted, 10},
	}
	for _, tc := range cases {
		got := e.ApplyActivity(Scores{}, tc.kind)
		if got.Engagement != tc.wantEngagement {
			t.Fatalf("%s engagement = %d, want %d", tc.kind, got.Engagement, tc.wantEngagement)
		}
		if got.Urgency != 0 {
			t.Fatalf("%s should not move urgency", tc.kind)
		}
	}

	unknown := e.ApplyActivity(Scores{Urgency: 10}, ActivityKind("bogus"))
	if unknown.Urgency != 10 || unknown.Engagement != 0 {
		t.Fatalf("unknown kind should be a no-op, got %+v", unknown)
	}
}

func TestDecayWithinGracePeriod(t *testing.T) {
	e := testEngine()
	lastActive := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	got := e.Decayed(Scores{Urgency: 50}, lastActive, lastActive.Add(48*time.Hour))
	if got.Urgency != 50 {
		t.Fatalf("no decay expected within grace period, got %d", got.Urgency)
	}
}

func TestDecayBeyondGracePeriod(t *testing.T) {
	e := testEngine()
	lastActive := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// 8 full days inactive: 5 days beyond the 3-day grace, -2 each.
	got := e.Decayed(Scores{Urgency: 50}, lastActive, lastActive.Add(8*24*time.Hour))
	if got.Urgency != 40 {
		t.Fatalf("urgency = %d, want 40", got.Urgency)
	}
}

func TestDecayFloorsAtZero(t *testing.T) {
	e := testEngine()
	lastActive := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	got := e.Decayed(Scores{Urgency: 4}, lastActive, lastActive.Add(400*24*time.Hour))
	if got.Urgency != 0 {
		t.Fatalf("urgency = %d, want floor 0", got.Urgency)
	}
}

func TestDecayMonotonicity(t *testing.T) {
	e := testEngine()
	lastActive := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	stored := Scores{Urgency: 80, Engagement: 40}

	prev := e.Decayed(stored, lastActive, lastActive)
	for day := 1; day <= 60; day++ {
		cur := e.Decayed(stored, lastActive, lastActive.Add(time.Duration(day)*24*time.Hour))
		if cur.Urgency > prev.Urgency {
			t.Fatalf("day %d: urgency rose from %d to %d with no new events", day, prev.Urgency, cur.Urgency)
		}
		prev = cur
	}
}

func TestDecayReproducible(t *testing.T) {
	e := testEngine()
	lastActive := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	now := lastActive.Add(10 * 24 * time.Hour)
	stored := Scores{Urgency: 63, Engagement: 20}

	first := e.Decayed(stored, lastActive, now)
	for i := 0; i < 10; i++ {
		if got := e.Decayed(stored, lastActive, now); got != first {
			t.Fatalf("same inputs produced %+v then %+v", first, got)
		}
	}
}
