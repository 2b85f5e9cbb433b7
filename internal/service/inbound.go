package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	wdotel "github.com/wadesk/wadesk/internal/adapter/otel"
	"github.com/wadesk/wadesk/internal/domain"
	"github.com/wadesk/wadesk/internal/domain/conversation"
	"github.com/wadesk/wadesk/internal/domain/phone"
	"github.com/wadesk/wadesk/internal/port/broadcast"
	"github.com/wadesk/wadesk/internal/port/database"
)

// InboundResult is returned to the webhook caller after a message is applied.
type InboundResult struct {
	ConversationID string `json:"conversationId"`
	MessageID      string `json:"messageId"`
}

// InboundService ingests externally-originated messages: it authenticates
// the calling agent, resolves the conversation identity, applies the message
// atomically, and notifies dashboards.
type InboundService struct {
	store             database.Store
	agents            *AgentService
	notifier          broadcast.Broadcaster
	metrics           *wdotel.Metrics
	allowAIWhileHuman bool
}

// NewInboundService creates the inbound message service. metrics may be nil.
func NewInboundService(store database.Store, agents *AgentService, notifier broadcast.Broadcaster, metrics *wdotel.Metrics, allowAIWhileHuman bool) *InboundService {
	return &InboundService{
		store:             store,
		agents:            agents,
		notifier:          notifier,
		metrics:           metrics,
		allowAIWhileHuman: allowAIWhileHuman,
	}
}

// Handle processes one inbound webhook call.
func (s *InboundService) Handle(ctx context.Context, req *conversation.InboundRequest) (*InboundResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	a, err := s.agents.Get(ctx, req.AgentID)
	if err != nil {
		return nil, err
	}
	if !a.IsActive {
		return nil, fmt.Errorf("agent %s: %w", req.AgentID, domain.ErrNotFound)
	}
	if subtle.ConstantTimeCompare([]byte(req.APIToken), []byte(a.APIToken)) != 1 {
		return nil, fmt.Errorf("token mismatch: %w", domain.ErrUnauthorized)
	}

	ctx, span := wdotel.StartInboundSpan(ctx, a.OrgID, a.ID)
	defer span.End()

	normalized := phone.Normalize(req.ClientPhone)

	msg, decision, err := s.apply(ctx, a.OrgID, req, normalized)
	if errors.Is(err, domain.ErrConflict) {
		// A concurrent inbound call created the conversation first. Resolve
		// again; the second pass lands on the winner's record.
		slog.Info("conversation create raced, re-resolving",
			"org_id", a.OrgID, "agent_id", a.ID)
		msg, decision, err = s.apply(ctx, a.OrgID, req, normalized)
	}
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.MessagesInbound.Add(ctx, 1)
		if decision.IsNew {
			s.metrics.ConversationsCreated.Add(ctx, 1)
		}
	}

	s.notifier.BroadcastToOrg(ctx, a.OrgID, broadcast.EventNewMessage, map[string]any{
		"conversationId": decision.ConversationID,
		"message":        msg,
	})
	if decision.IsNew || decision.AttachAgent {
		if c, err := s.store.GetConversation(ctx, decision.ConversationID); err == nil {
			s.notifier.BroadcastToOrg(ctx, a.OrgID, broadcast.EventConversationUpdated, c)
		}
	}

	return &InboundResult{ConversationID: decision.ConversationID, MessageID: msg.ID}, nil
}

// apply resolves the conversation identity and folds the message into one
// store transaction.
func (s *InboundService) apply(ctx context.Context, orgID string, req *conversation.InboundRequest, normalized string) (*conversation.Message, conversation.Decision, error) {
	candidates, err := s.store.ListConversations(ctx, orgID)
	if err != nil {
		return nil, conversation.Decision{}, fmt.Errorf("list conversations: %w", err)
	}

	decision := ResolveConversation(candidates, req.AgentID, normalized)

	if !decision.IsNew && req.SenderType == conversation.SenderAI &&
		decision.Conversation.Status == conversation.StatusHumanActive {
		if !s.allowAIWhileHuman {
			return nil, decision, fmt.Errorf("conversation is under human control: %w", domain.ErrNotAuthorized)
		}
		slog.Warn("AI message posted while under human control",
			"conversation_id", decision.ConversationID, "agent_id", req.AgentID)
	}

	msg, err := s.store.AppendInbound(ctx, decision, conversation.InboundAppend{
		MessageID:       uuid.NewString(),
		OrgID:           orgID,
		AgentID:         req.AgentID,
		ClientPhone:     req.ClientPhone,
		NormalizedPhone: normalized,
		ClientName:      req.ClientName,
		SenderType:      req.SenderType,
		SenderName:      req.SenderName,
		Content:         req.Message,
	})
	if err != nil {
		return nil, decision, err
	}
	return msg, decision, nil
}
