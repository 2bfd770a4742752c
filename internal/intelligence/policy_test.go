package intelligence

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadPolicyEmptyPath(t *testing.T) {
	policy, err := LoadPolicy("")
	if err != nil {
		t.Fatalf("LoadPolicy: %v", err)
	}
	if policy.Thresholds.ReadyToCall != 80 {
		t.Fatalf("ready_to_call = %d, want default 80", policy.Thresholds.ReadyToCall)
	}
}

func TestLoadPolicyOverlay(t *testing.T) {
	doc := `
thresholds:
  ready_to_call: 90
  hot: 70
  warm: 40
decay:
  grace_days: 5
  urgency_per_day: 1
`
	path := filepath.Join(t.TempDir(), "policy.yaml")
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatal(err)
	}

	policy, err := LoadPolicy(path)
	if err != nil {
		t.Fatalf("LoadPolicy: %v", err)
	}

	if policy.Thresholds.ReadyToCall != 90 || policy.Thresholds.Warm != 40 {
		t.Fatalf("thresholds not overlaid: %+v", policy.Thresholds)
	}
	if policy.Decay.GraceDays != 5 || policy.Decay.UrgencyPerDay != 1 {
		t.Fatalf("decay not overlaid: %+v", policy.Decay)
	}

	// Sections absent from the document keep their defaults.
	if policy.SignalDeltas[SignalCallRequest].Urgency != 25 {
		t.Fatalf("signal deltas lost defaults: %+v", policy.SignalDeltas)
	}
	if len(policy.Stages) == 0 || policy.RecentMessageWindow != 3 {
		t.Fatalf("stage policy lost defaults")
	}
}

func TestLoadPolicyMissingFile(t *testing.T) {
	if _, err := LoadPolicy(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadPolicyMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("thresholds: [not, a, map]"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadPolicy(path); err == nil {
		t.Fatal("expected error for malformed document")
	}
}
