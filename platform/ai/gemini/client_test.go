package gemini

import (
	"testing"

	"google.golang.org/genai"
)

func TestTurnRole(t *testing.T) {
	tests := []struct {
		name string
		turn Turn
		want genai.Role
	}{
		{"buyer turn maps to user", Turn{Content: "hi"}, genai.RoleUser},
		{"model turn maps to model", Turn{Model: true, Content: "hello"}, genai.RoleModel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := turnRole(tt.turn); got != tt.want {
				t.Fatalf("turnRole() = %q, want %q", got, tt.want)
			}
		})
	}
}
