package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/wadesk/wadesk/internal/domain/agent"
	"github.com/wadesk/wadesk/internal/domain/audit"
	"github.com/wadesk/wadesk/internal/port/cache"
	"github.com/wadesk/wadesk/internal/port/database"
)

// AgentService manages AI agent registrations and their credentials.
type AgentService struct {
	store    database.Store
	cache    cache.Cache
	cacheTTL time.Duration
}

// NewAgentService creates a new agent service. cache may be nil to disable
// agent caching on the webhook path.
func NewAgentService(store database.Store, c cache.Cache, cacheTTL time.Duration) *AgentService {
	return &AgentService{store: store, cache: c, cacheTTL: cacheTTL}
}

// Create registers a new agent, minting its API token, and records an audit entry.
func (s *AgentService) Create(ctx context.Context, orgID, actorID string, req *agent.CreateRequest) (*agent.Agent, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}

	// The caller may bring its own shared secret (e.g. a flow-engine token);
	// otherwise one is minted here.
	token := req.APIToken
	if token == "" {
		var err error
		if token, err = generateAgentToken(); err != nil {
			return nil, fmt.Errorf("generate token: %w", err)
		}
	}

	a := &agent.Agent{
		ID:         uuid.NewString(),
		OrgID:      orgID,
		Name:       req.Name,
		WebhookURL: req.WebhookURL,
		APIToken:   token,
		IsActive:   true,
	}
	if err := s.store.CreateAgent(ctx, a); err != nil {
		return nil, fmt.Errorf("create agent: %w", err)
	}

	s.audit(ctx, orgID, actorID, audit.ActionCreateAgent, a.ID, "")
	return a, nil
}

// Get returns an agent by ID, checking the local cache first.
func (s *AgentService) Get(ctx context.Context, id string) (*agent.Agent, error) {
	if s.cache != nil {
		if data, ok, err := s.cache.Get(ctx, agentCacheKey(id)); err == nil && ok {
			var a agent.Agent
			if err := json.Unmarshal(data, &a); err == nil {
				return &a, nil
			}
		}
	}

	a, err := s.store.GetAgent(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(a); err == nil {
			_ = s.cache.Set(ctx, agentCacheKey(id), data, s.cacheTTL)
		}
	}
	return a, nil
}

// List returns all agents of an organization.
func (s *AgentService) List(ctx context.Context, orgID string) ([]agent.Agent, error) {
	return s.store.ListAgents(ctx, orgID)
}

// Update modifies an agent's name, webhook URL, or active flag.
func (s *AgentService) Update(ctx context.Context, orgID, actorID, id string, req *agent.UpdateRequest) (*agent.Agent, error) {
	a, err := s.store.GetAgent(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireOrg(a.OrgID, orgID); err != nil {
		return nil, err
	}

	if req.Name != "" {
		a.Name = req.Name
	}
	if req.WebhookURL != "" {
		if err := agent.ValidateWebhookURL(req.WebhookURL); err != nil {
			return nil, err
		}
		a.WebhookURL = req.WebhookURL
	}
	if req.IsActive != nil {
		a.IsActive = *req.IsActive
	}

	if err := s.store.UpdateAgent(ctx, a); err != nil {
		return nil, fmt.Errorf("update agent: %w", err)
	}
	s.invalidate(ctx, id)

	s.audit(ctx, orgID, actorID, audit.ActionUpdateAgent, a.ID, "")
	return a, nil
}

// Delete removes an agent. Conversations that referenced it are detached,
// not deleted.
func (s *AgentService) Delete(ctx context.Context, orgID, actorID, id string) error {
	a, err := s.store.GetAgent(ctx, id)
	if err != nil {
		return err
	}
	if err := requireOrg(a.OrgID, orgID); err != nil {
		return err
	}

	if err := s.store.DeleteAgent(ctx, id); err != nil {
		return fmt.Errorf("delete agent: %w", err)
	}
	s.invalidate(ctx, id)

	s.audit(ctx, orgID, actorID, audit.ActionDeleteAgent, id, "")
	return nil
}

func (s *AgentService) invalidate(ctx context.Context, id string) {
	if s.cache != nil {
		_ = s.cache.Delete(ctx, agentCacheKey(id))
	}
}

func (s *AgentService) audit(ctx context.Context, orgID, actorID, action, agentID, conversationID string) {
	e := &audit.Entry{
		OrgID:          orgID,
		UserID:         actorID,
		Action:         action,
		AgentID:        agentID,
		ConversationID: conversationID,
	}
	if err := s.store.CreateAuditLog(ctx, e); err != nil {
		slog.Warn("audit log write failed", "action", action, "error", err)
	}
}

func agentCacheKey(id string) string {
	return "agent:" + id
}

// generateAgentToken mints the bearer credential an agent presents on the
// inbound webhook and wadesk presents back on outbound delivery.
func generateAgentToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return "wda_" + hex.EncodeToString(b), nil
}
