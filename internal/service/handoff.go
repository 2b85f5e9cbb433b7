package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/wadesk/wadesk/internal/domain"
	"github.com/wadesk/wadesk/internal/domain/audit"
	"github.com/wadesk/wadesk/internal/domain/conversation"
	"github.com/wadesk/wadesk/internal/port/broadcast"
	"github.com/wadesk/wadesk/internal/port/database"
)

// HandoffService owns the AI/human control state machine of a conversation.
type HandoffService struct {
	store    database.Store
	notifier broadcast.Broadcaster
}

// NewHandoffService creates a new handoff service.
func NewHandoffService(store database.Store, notifier broadcast.Broadcaster) *HandoffService {
	return &HandoffService{store: store, notifier: notifier}
}

// TakeControl pauses the AI on a conversation and records the acting user as
// the active human. Taking control of a conversation that is already under
// human control is a no-op.
func (s *HandoffService) TakeControl(ctx context.Context, orgID, userID, conversationID string) (*conversation.Conversation, error) {
	c, err := s.store.GetConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if err := requireOrg(c.OrgID, orgID); err != nil {
		return nil, err
	}

	switch c.Status {
	case conversation.StatusHumanActive:
		return c, nil
	case conversation.StatusArchived:
		return nil, fmt.Errorf("conversation is archived: %w", domain.ErrInvalidTransition)
	}

	updated, err := s.store.UpdateConversationStatus(ctx, conversationID, conversation.StatusHumanActive, userID)
	if err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}

	s.audit(ctx, orgID, userID, audit.ActionTakeControl, updated)
	s.notifier.BroadcastToOrg(ctx, orgID, broadcast.EventConversationUpdated, updated)
	return updated, nil
}

// ReturnToAI hands a conversation back to the AI and clears the active human.
// Only a conversation under human control can be returned.
func (s *HandoffService) ReturnToAI(ctx context.Context, orgID, userID, conversationID string) (*conversation.Conversation, error) {
	c, err := s.store.GetConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if err := requireOrg(c.OrgID, orgID); err != nil {
		return nil, err
	}

	if c.Status != conversation.StatusHumanActive {
		return nil, fmt.Errorf("conversation is not under human control: %w", domain.ErrInvalidTransition)
	}

	updated, err := s.store.UpdateConversationStatus(ctx, conversationID, conversation.StatusAIActive, "")
	if err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}

	s.audit(ctx, orgID, userID, audit.ActionReturnToAI, updated)
	s.notifier.BroadcastToOrg(ctx, orgID, broadcast.EventConversationUpdated, updated)
	return updated, nil
}

// AuthorizeHuman checks that a human reply is allowed on the conversation.
// The conversation must be under human control; when another user holds
// control the reply is rejected.
func AuthorizeHuman(c *conversation.Conversation, userID string) error {
	if c.Status != conversation.StatusHumanActive {
		return fmt.Errorf("human control required: %w", domain.ErrNotAuthorized)
	}
	if c.ActiveUserID != "" && c.ActiveUserID != userID {
		return fmt.Errorf("conversation is controlled by another user: %w", domain.ErrNotAuthorized)
	}
	return nil
}

func (s *HandoffService) audit(ctx context.Context, orgID, userID, action string, c *conversation.Conversation) {
	e := &audit.Entry{
		OrgID:          orgID,
		UserID:         userID,
		Action:         action,
		ConversationID: c.ID,
		AgentID:        c.AgentID,
	}
	if err := s.store.CreateAuditLog(ctx, e); err != nil {
		slog.Warn("audit log write failed", "action", action, "error", err)
	}
}
