package http_test

import (
	"context"
	"time"

	"github.com/wadesk/wadesk/internal/domain"
	"github.com/wadesk/wadesk/internal/domain/agent"
	"github.com/wadesk/wadesk/internal/domain/audit"
	"github.com/wadesk/wadesk/internal/domain/conversation"
	"github.com/wadesk/wadesk/internal/domain/org"
	"github.com/wadesk/wadesk/internal/domain/user"
)

// memStore implements database.Store for handler tests.
type memStore struct {
	orgs          []org.Organization
	users         []user.User
	agents        []agent.Agent
	conversations []conversation.Conversation
	messages      []conversation.Message
	auditLogs     []audit.Entry
}

func (m *memStore) CreateOrganization(_ context.Context, o *org.Organization) error {
	o.CreatedAt = time.Now()
	m.orgs = append(m.orgs, *o)
	return nil
}

func (m *memStore) CreateUser(_ context.Context, u *user.User) error {
	u.CreatedAt = time.Now()
	m.users = append(m.users, *u)
	return nil
}

func (m *memStore) GetUser(_ context.Context, id string) (*user.User, error) {
	for i := range m.users {
		if m.users[i].ID == id {
			u := m.users[i]
			return &u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memStore) GetUserByEmail(_ context.Context, email string) (*user.User, error) {
	for i := range m.users {
		if m.users[i].Email == email {
			u := m.users[i]
			return &u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memStore) ListUsers(_ context.Context) ([]user.User, error) {
	return append([]user.User(nil), m.users...), nil
}

func (m *memStore) UpdateUserPassword(_ context.Context, userID, passwordHash string) error {
	for i := range m.users {
		if m.users[i].ID == userID {
			m.users[i].PasswordHash = passwordHash
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *memStore) CreateAgent(_ context.Context, a *agent.Agent) error {
	a.CreatedAt = time.Now()
	m.agents = append(m.agents, *a)
	return nil
}

func (m *memStore) GetAgent(_ context.Context, id string) (*agent.Agent, error) {
	for i := range m.agents {
		if m.agents[i].ID == id {
			a := m.agents[i]
			return &a, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memStore) ListAgents(_ context.Context, orgID string) ([]agent.Agent, error) {
	var out []agent.Agent
	for _, a := range m.agents {
		if a.OrgID == orgID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memStore) UpdateAgent(_ context.Context, a *agent.Agent) error {
	for i := range m.agents {
		if m.agents[i].ID == a.ID {
			m.agents[i] = *a
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *memStore) DeleteAgent(_ context.Context, id string) error {
	for i := range m.agents {
		if m.agents[i].ID == id {
			m.agents = append(m.agents[:i], m.agents[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *memStore) ListConversations(_ context.Context, orgID string) ([]conversation.Conversation, error) {
	var out []conversation.Conversation
	for _, c := range m.conversations {
		if c.OrgID == orgID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memStore) GetConversation(_ context.Context, id string) (*conversation.Conversation, error) {
	for i := range m.conversations {
		if m.conversations[i].ID == id {
			c := m.conversations[i]
			return &c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memStore) UpdateConversationStatus(_ context.Context, id, status, activeUserID string) (*conversation.Conversation, error) {
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

func (m *memStore) AppendInbound(_ context.Context, d conversation.Decision, in conversation.InboundAppend) (*conversation.Message, error) {
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

func (m *memStore) AppendOutbound(_ context.Context, conversationID string, msg *conversation.Message) error {
	for i := range m.conversations {
		if m.conversations[i].ID == conversationID {
			m.conversations[i].LastMessageAt = time.Now()
			msg.CreatedAt = time.Now()
			m.messages = append(m.messages, *msg)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *memStore) ListMessages(_ context.Context, conversationID string) ([]conversation.Message, error) {
	var out []conversation.Message
	for _, msg := range m.messages {
		if msg.ConversationID == conversationID {
			out = append(out, msg)
		}
	}
	return out, nil
}

func (m *memStore) CreateAuditLog(_ context.Context, e *audit.Entry) error {
	e.CreatedAt = time.Now()
	m.auditLogs = append(m.auditLogs, *e)
	return nil
}

func (m *memStore) ListAuditLogs(_ context.Context, orgID string) ([]audit.Entry, error) {
	var out []audit.Entry
	for _, e := range m.auditLogs {
		if e.OrgID == orgID {
			out = append(out, e)
		}
	}
	return out, nil
}
