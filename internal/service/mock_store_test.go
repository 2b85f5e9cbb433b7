package service

import (
	"context"
	"fmt"
	"time"

	"github.com/wadesk/wadesk/internal/domain"
	"github.com/wadesk/wadesk/internal/domain/agent"
	"github.com/wadesk/wadesk/internal/domain/audit"
	"github.com/wadesk/wadesk/internal/domain/conversation"
	"github.com/wadesk/wadesk/internal/domain/org"
	"github.com/wadesk/wadesk/internal/domain/user"
)

// mockStore implements database.Store in memory for service tests.
type mockStore struct {
	orgs          []org.Organization
	users         []user.User
	agents        []agent.Agent
	conversations []conversation.Conversation
	messages      []conversation.Message
	auditLogs     []audit.Entry

	appendInboundErr  error
	appendInboundOnce bool // fail only the first AppendInbound call
	updateStatusErr   error
}

func (m *mockStore) CreateOrganization(_ context.Context, o *org.Organization) error {
	o.CreatedAt = time.Now()
	m.orgs = append(m.orgs, *o)
	return nil
}

func (m *mockStore) CreateUser(_ context.Context, u *user.User) error {
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return fmt.Errorf("email taken: %w", domain.ErrConflict)
		}
	}
	u.CreatedAt = time.Now()
	m.users = append(m.users, *u)
	return nil
}

func (m *mockStore) GetUser(_ context.Context, id string) (*user.User, error) {
	for i := range m.users {
		if m.users[i].ID == id {
			u := m.users[i]
			return &u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockStore) GetUserByEmail(_ context.Context, email string) (*user.User, error) {
	for i := range m.users {
		if m.users[i].Email == email {
			u := m.users[i]
			return &u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockStore) ListUsers(_ context.Context) ([]user.User, error) {
	return append([]user.User(nil), m.users...), nil
}

func (m *mockStore) UpdateUserPassword(_ context.Context, userID, passwordHash string) error {
	for i := range m.users {
		if m.users[i].ID == userID {
			m.users[i].PasswordHash = passwordHash
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *mockStore) CreateAgent(_ context.Context, a *agent.Agent) error {
	a.CreatedAt = time.Now()
	m.agents = append(m.agents, *a)
	return nil
}

func (m *mockStore) GetAgent(_ context.Context, id string) (*agent.Agent, error) {
	for i := range m.agents {
		if m.agents[i].ID == id {
			a := m.agents[i]
			return &a, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockStore) ListAgents(_ context.Context, orgID string) ([]agent.Agent, error) {
	var out []agent.Agent
	for _, a := range m.agents {
		if a.OrgID == orgID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *mockStore) UpdateAgent(_ context.Context, a *agent.Agent) error {
	for i := range m.agents {
		if m.agents[i].ID == a.ID {
			m.agents[i] = *a
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *mockStore) DeleteAgent(_ context.Context, id string) error {
	for i := range m.agents {
		if m.agents[i].ID == id {
			m.agents = append(m.agents[:i], m.agents[i+1:]...)
			for j := range m.conversations {
				if m.conversations[j].AgentID == id {
					m.conversations[j].AgentID = ""
				}
			}
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *mockStore) ListConversations(_ context.Context, orgID string) ([]conversation.Conversation, error) {
	var out []conversation.Conversation
	for _, c := range m.conversations {
		if c.OrgID == orgID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockStore) GetConversation(_ context.Context, id string) (*conversation.Conversation, error) {
	for i := range m.conversations {
		if m.conversations[i].ID == id {
			c := m.conversations[i]
			return &c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockStore) UpdateConversationStatus(_ context.Context, id, status, activeUserID string) (*conversation.Conversation, error) {
	if m.updateStatusErr != nil {
		return nil, m.updateStatusErr
	}
	for i := range m.conversations {
		if m.conversations[i].ID == id {
			m.conversations[i].Status = status
			m.conversations[i].ActiveUserID = activeUserID
			c := m.conversations[i]
			return &c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockStore) AppendInbound(_ context.Context, d conversation.Decision, in conversation.InboundAppend) (*conversation.Message, error) {
	if m.appendInboundErr != nil {
		err := m.appendInboundErr
		if m.appendInboundOnce {
			m.appendInboundErr = nil
		}
		return nil, err
	}

	now := time.Now()
	if d.IsNew {
		m.conversations = append(m.conversations, conversation.Conversation{
			ID:            d.ConversationID,
			OrgID:         in.OrgID,
			AgentID:       in.AgentID,
			ClientPhone:   in.ClientPhone,
			ClientName:    in.ClientName,
			Status:        conversation.StatusAIActive,
			LastMessageAt: now,
			CreatedAt:     now,
		})
	} else {
		for i := range m.conversations {
			if m.conversations[i].ID == d.ConversationID {
				m.conversations[i].LastMessageAt = now
				if d.AttachAgent {
					m.conversations[i].AgentID = in.AgentID
				}
			}
		}
	}

	msg := conversation.Message{
		ID:             in.MessageID,
		ConversationID: d.ConversationID,
		SenderType:     in.SenderType,
		SenderName:     in.SenderName,
		Content:        in.Content,
		CreatedAt:      now,
	}
	m.messages = append(m.messages, msg)
	return &msg, nil
}

func (m *mockStore) AppendOutbound(_ context.Context, conversationID string, msg *conversation.Message) error {
	now := time.Now()
	for i := range m.conversations {
		if m.conversations[i].ID == conversationID {
			m.conversations[i].LastMessageAt = now
			msg.CreatedAt = now
			m.messages = append(m.messages, *msg)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *mockStore) ListMessages(_ context.Context, conversationID string) ([]conversation.Message, error) {
	var out []conversation.Message
	for _, msg := range m.messages {
		if msg.ConversationID == conversationID {
			out = append(out, msg)
		}
	}
	return out, nil
}

func (m *mockStore) CreateAuditLog(_ context.Context, e *audit.Entry) error {
	e.CreatedAt = time.Now()
	m.auditLogs = append(m.auditLogs, *e)
	return nil
}

func (m *mockStore) ListAuditLogs(_ context.Context, orgID string) ([]audit.Entry, error) {
	var out []audit.Entry
	for _, e := range m.auditLogs {
		if e.OrgID == orgID {
			out = append(out, e)
		}
	}
	return out, nil
}

// conversationFixture builds an AI_ACTIVE conversation for tests.
func conversationFixture(id, orgID, agentID string) conversation.Conversation {
	now := time.Now()
	return conversation.Conversation{
		ID:            id,
		OrgID:         orgID,
		AgentID:       agentID,
		ClientPhone:   "+57 300-123 4567",
		ClientName:    "Client",
		Status:        conversation.StatusAIActive,
		LastMessageAt: now,
		CreatedAt:     now,
	}
}

// mockNotifier records broadcasts for assertions.
type mockNotifier struct {
	events []broadcastCall
}

type broadcastCall struct {
	orgID     string
	eventType string
	payload   any
}

func (n *mockNotifier) BroadcastToOrg(_ context.Context, orgID, eventType string, payload any) {
	n.events = append(n.events, broadcastCall{orgID, eventType, payload})
}

func (n *mockNotifier) eventTypes() []string {
	var out []string
	for _, e := range n.events {
		out = append(out, e.eventType)
	}
	return out
}
