// Package database defines the port interface for persistence.
package database

import (
	"context"

	"github.com/wadesk/wadesk/internal/domain/agent"
	"github.com/wadesk/wadesk/internal/domain/audit"
	"github.com/wadesk/wadesk/internal/domain/conversation"
	"github.com/wadesk/wadesk/internal/domain/org"
	"github.com/wadesk/wadesk/internal/domain/user"
)

// Store is the persistence port. The Postgres adapter is the production
// implementation; tests use an in-memory mock.
type Store interface {
	// Organizations and users.
	CreateOrganization(ctx context.Context, o *org.Organization) error
	CreateUser(ctx context.Context, u *user.User) error
	GetUser(ctx context.Context, id string) (*user.User, error)
	GetUserByEmail(ctx context.Context, email string) (*user.User, error)
	ListUsers(ctx context.Context) ([]user.User, error)
	UpdateUserPassword(ctx context.Context, userID, passwordHash string) error

	// Agents.
	CreateAgent(ctx context.Context, a *agent.Agent) error
	GetAgent(ctx context.Context, id string) (*agent.Agent, error)
	ListAgents(ctx context.Context, orgID string) ([]agent.Agent, error)
	UpdateAgent(ctx context.Context, a *agent.Agent) error
	DeleteAgent(ctx context.Context, id string) error

	// Conversations and messages.
	//
	// ListConversations returns every conversation of the organization,
	// including records with a missing agent link; the resolver filters
	// in-process and does not rely on any particular ordering (the
	// Postgres adapter sorts by lastMessageAt for the dashboard's
	// benefit). AppendInbound applies the resolver decision and the
	// message as one atomic transaction. AppendOutbound records a human
	// message and touches lastMessageAt atomically; external delivery is
	// never part of that transaction.
	ListConversations(ctx context.Context, orgID string) ([]conversation.Conversation, error)
	GetConversation(ctx context.Context, id string) (*conversation.Conversation, error)
	UpdateConversationStatus(ctx context.Context, id, status, activeUserID string) (*conversation.Conversation, error)
	AppendInbound(ctx context.Context, d conversation.Decision, in conversation.InboundAppend) (*conversation.Message, error)
	AppendOutbound(ctx context.Context, conversationID string, m *conversation.Message) error
	ListMessages(ctx context.Context, conversationID string) ([]conversation.Message, error)

	// Audit log (append-only).
	CreateAuditLog(ctx context.Context, e *audit.Entry) error
	ListAuditLogs(ctx context.Context, orgID string) ([]audit.Entry, error)
}
