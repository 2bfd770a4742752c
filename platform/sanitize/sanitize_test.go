package sanitize

import "testing"

func TestStripHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain text untouched", "Hi, I want a 2BR in the marina", "Hi, I want a 2BR in the marina"},
		{"tags removed", "<b>call me</b> today", "call me today"},
		{"script removed", "<script>alert(1)</script>hello", "alert(1)hello"},
		{"entity-encoded tags caught", "&lt;img src=x onerror=alert(1)&gt;", ""},
		{"whitespace trimmed", "  spaced out  ", "spaced out"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripHTML(tt.in); got != tt.want {
				t.Fatalf("StripHTML(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTextPtr(t *testing.T) {
	if TextPtr(nil) != nil {
		t.Fatal("expected nil for nil input")
	}
	in := "<i>Ayesha</i>"
	if got := TextPtr(&in); got == nil || *got != "Ayesha" {
		t.Fatalf("TextPtr() = %v", got)
	}
}
