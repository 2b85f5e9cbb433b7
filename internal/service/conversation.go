package service

import (
	"context"

	"github.com/wadesk/wadesk/internal/domain/audit"
	"github.com/wadesk/wadesk/internal/domain/conversation"
	"github.com/wadesk/wadesk/internal/port/database"
)

// ConversationService serves the dashboard's read side.
type ConversationService struct {
	store database.Store
}

// NewConversationService creates a new conversation read service.
func NewConversationService(store database.Store) *ConversationService {
	return &ConversationService{store: store}
}

// List returns every conversation of the organization, most recent first.
func (s *ConversationService) List(ctx context.Context, orgID string) ([]conversation.Conversation, error) {
	return s.store.ListConversations(ctx, orgID)
}

// Get returns one conversation, scoped to the caller's organization.
func (s *ConversationService) Get(ctx context.Context, orgID, id string) (*conversation.Conversation, error) {
	c, err := s.store.GetConversation(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireOrg(c.OrgID, orgID); err != nil {
		return nil, err
	}
	return c, nil
}

// Messages returns a conversation's messages ordered by creation time.
func (s *ConversationService) Messages(ctx context.Context, orgID, id string) ([]conversation.Message, error) {
	if _, err := s.Get(ctx, orgID, id); err != nil {
		return nil, err
	}
	return s.store.ListMessages(ctx, id)
}

// AuditLogs returns the organization's audit trail, most recent first.
func (s *ConversationService) AuditLogs(ctx context.Context, orgID string) ([]audit.Entry, error) {
	return s.store.ListAuditLogs(ctx, orgID)
}
