package agents

import (
	"testing"
	"time"

	"yuvna_backend/platform/httpkit"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type jwtConfig struct {
	secret string
	ttl    time.Duration
}

func (c jwtConfig) GetJWTSecret() string            { return c.secret }
func (c jwtConfig) GetAccessTokenTTL() time.Duration { return c.ttl }

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := hashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("hashPassword() error = %v", err)
	}
	if err := comparePassword(hash, "correct horse battery staple"); err != nil {
		t.Fatalf("comparePassword() rejected matching password: %v", err)
	}
	if err := comparePassword(hash, "wrong password"); err == nil {
		t.Fatal("comparePassword() accepted wrong password")
	}
}

func TestSignTokenClaims(t *testing.T) {
	cfg := jwtConfig{secret: "test-secret", ttl: 15 * time.Minute}
	svc := &Service{cfg: cfg}

	agent := Agent{ID: uuid.New(), Role: "agent"}
	tokenString, expiresAt, err := svc.signToken(agent)
	if err != nil {
		t.Fatalf("signToken() error = %v", err)
	}
	if remaining := time.Until(expiresAt); remaining < 14*time.Minute {
		t.Fatalf("token expires too soon: %v", remaining)
	}

	claims := &httpkit.AgentClaims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(cfg.secret), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("issued token failed to parse: %v", err)
	}
	if claims.Subject != agent.ID.String() {
		t.Fatalf("subject = %q, want %q", claims.Subject, agent.ID)
	}
	if claims.Role != "agent" {
		t.Fatalf("role = %q, want agent", claims.Role)
	}
}
