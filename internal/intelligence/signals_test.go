package intelligence

import "testing"

func TestExtractSignals(t *testing.T) {
	cases := []struct {
		name    string
		message string
		want    []Signal
	}{
		{"call me", "Can you call me tomorrow?", []Signal{SignalCallRequest}},
		{"speak to someone", "I'd like to speak to someone about this", []Signal{SignalCallRequest}},
		{"booking", "I want to reserve a unit", []Signal{SignalBookingIntent}},
		{"visit", "I'm coming to Dubai next month", []Signal{SignalPlanningVisit}},
		{"purchase", "We're ready to buy", []Signal{SignalPurchaseIntent}},
		{"interest", "Which areas do you recommend?", []Signal{SignalPropertyInterest}},
		{"no match", "Thanks for the information", nil},
		{"empty", "", nil},
		{"whitespace only", "   ", nil},
		{
			"multiple signals",
			"Please call me, I want to book a visit",
			[]Signal{SignalPlanningVisit, SignalCallRequest, SignalBookingIntent},
		},
		{"case insensitive", "CALL ME NOW", []Signal{SignalCallRequest}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ExtractSignals(tc.message)
			if len(got) != len(tc.want) {
				t.Fatalf("ExtractSignals(%q) = %v, want %v", tc.message, got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("ExtractSignals(%q) = %v, want %v", tc.message, got, tc.want)
				}
			}
		})
	}
}

func TestExtractSignalsDeterministicOrder(t *testing.T) {
	msg := "book a call to visit"
	first := ExtractSignals(msg)
	for i := 0; i < 50; i++ {
		again := ExtractSignals(msg)
		if len(again) != len(first) {
			t.Fatalf("run %d: length changed", i)
		}
		for j := range again {
			if again[j] != first[j] {
				t.Fatalf("run %d: order changed: %v vs %v", i, again, first)
			}
		}
	}
}

func TestHasSignal(t *testing.T) {
	signals := []Signal{SignalCallRequest, SignalPropertyInterest}
	if !HasSignal(signals, SignalCallRequest) {
		t.Fatal("expected call_request present")
	}
	if HasSignal(signals, SignalBookingIntent) {
		t.Fatal("did not expect booking_intent")
	}
	if HasSignal(nil, SignalCallRequest) {
		t.Fatal("nil set should contain nothing")
	}
}
