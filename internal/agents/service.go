package agents

import (
	"context"
	"strings"
	"time"

	"yuvna_backend/platform/apperr"
	"yuvna_backend/platform/config"
	"yuvna_backend/platform/httpkit"
	"yuvna_backend/platform/logger"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type Service struct {
	repo *Repository
	cfg  config.JWTConfig
	log  *logger.Logger
}

func NewService(repo *Repository, cfg config.JWTConfig, log *logger.Logger) *Service {
	return &Service{repo: repo, cfg: cfg, log: log}
}

// Login verifies credentials and issues a short-lived access token. Lookup
// and comparison failures collapse into one unauthorized error so the
// response does not reveal whether the email exists.
func (s *Service) Login(ctx context.Context, email, password string) (LoginResponse, error) {
	agent, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return LoginResponse{}, apperr.Unauthorized("invalid credentials")
	}
	if !agent.Active {
		return LoginResponse{}, apperr.Unauthorized("invalid credentials")
	}
	if err := comparePassword(agent.PasswordHash, password); err != nil {
		return LoginResponse{}, apperr.Unauthorized("invalid credentials")
	}

	token, expiresAt, err := s.signToken(agent)
	if err != nil {
		return LoginResponse{}, err
	}

	if err := s.repo.TouchLogin(ctx, agent.ID); err != nil {
		s.log.Warn("failed to record agent login time", "agent_id", agent.ID, "error", err)
	}
	s.log.Info("agent signed in", "agent_id", agent.ID)

	return LoginResponse{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		Agent:       mapAgent(agent),
	}, nil
}

func (s *Service) signToken(agent Agent) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.cfg.GetAccessTokenTTL())

	claims := httpkit.AgentClaims{
		Role: agent.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   agent.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.GetJWTSecret()))
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

func (s *Service) List(ctx context.Context) ([]AgentResponse, error) {
	agents, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]AgentResponse, 0, len(agents))
	for _, a := range agents {
		out = append(out, mapAgent(a))
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (AgentResponse, error) {
	agent, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return AgentResponse{}, err
	}
	return mapAgent(agent), nil
}

func mapAgent(a Agent) AgentResponse {
	return AgentResponse{
		ID:       a.ID,
		FullName: a.FullName,
		Email:    a.Email,
		Role:     a.Role,
	}
}
