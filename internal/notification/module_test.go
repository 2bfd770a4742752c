package notification

import (
	"strings"
	"testing"

	"yuvna_backend/internal/intelligence"
)

func TestHandoffOpener(t *testing.T) {
	tests := []struct {
		name    string
		signals []intelligence.Signal
		want    string
	}{
		{
			name:    "call request wins over booking",
			signals: []intelligence.Signal{intelligence.SignalBookingIntent, intelligence.SignalCallRequest},
			want:    "They asked to speak with someone. Offer a call slot today and confirm their preferred time.",
		},
		{
			name:    "booking intent",
			signals: []intelligence.Signal{intelligence.SignalBookingIntent},
			want:    "They are ready to book. Lead with two concrete viewing times this week.",
		},
		{
			name:    "visit planning",
			signals: []intelligence.Signal{intelligence.SignalPlanningVisit},
			want:    "They are planning a visit. Ask for their travel dates and propose an itinerary of viewings.",
		},
		{
			name:    "no escalation signal, no opener",
			signals: []intelligence.Signal{intelligence.SignalPropertyInterest},
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := handoffOpener(tt.signals); got != tt.want {
				t.Fatalf("handoffOpener() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderHandoffTemplate(t *testing.T) {
	content, err := renderTemplate("handoff.html", handoffEmailData{
		Title:        "Lead handoff",
		BuyerName:    "Ayesha Khan",
		BuyerEmail:   "ayesha@example.com",
		LeadScore:    "HOT",
		UrgencyScore: 85,
		Persona:      "yield-investor",
		Signals:      "call_request, booking_intent",
		LastMessage:  "Can someone call me about the marina apartment?",
		Opener:       "Offer a call slot today.",
		EscalatedAt:  "Mon 2 Mar 14:00 GST",
	})
	if err != nil {
		t.Fatalf("renderTemplate() error = %v", err)
	}
	for _, want := range []string{"Ayesha Khan", "HOT", "85", "call_request"} {
		if !strings.Contains(content, want) {
			t.Fatalf("rendered handoff missing %q", want)
		}
	}
}

func TestRenderOutreachTemplateEscapesHTML(t *testing.T) {
	content, err := renderTemplate("outreach.html", outreachEmailData{
		Title: "New launches",
		Name:  "Omar",
		Body:  "<script>alert(1)</script> Hi Omar",
	})
	if err != nil {
		t.Fatalf("renderTemplate() error = %v", err)
	}
	if strings.Contains(content, "<script>") {
		t.Fatal("template did not escape injected markup")
	}
}

