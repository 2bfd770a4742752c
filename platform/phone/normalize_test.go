package phone

import "testing"

func TestNormalizeE164(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"uae national", "050 123 4567", "+971501234567"},
		{"already e164", "+447911123456", "+447911123456"},
		{"empty", "", ""},
		{"garbage passes through", "not-a-number", "not-a-number"},
		{"whitespace trimmed", "  +971501234567  ", "+971501234567"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NormalizeE164(tc.input)
			if got != tc.want {
				t.Fatalf("NormalizeE164(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}
