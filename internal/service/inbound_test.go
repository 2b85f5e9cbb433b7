package service

import (
	"context"
	"errors"
	"testing"

	"github.com/wadesk/wadesk/internal/domain"
	"github.com/wadesk/wadesk/internal/domain/agent"
	"github.com/wadesk/wadesk/internal/domain/conversation"
	"github.com/wadesk/wadesk/internal/port/broadcast"
)

func newInboundFixture(t *testing.T, store *mockStore, allowAIWhileHuman bool) (*InboundService, *mockNotifier) {
	t.Helper()
	store.agents = append(store.agents, agent.Agent{
		ID:         "a1",
		OrgID:      "org-1",
		Name:       "Bot",
		WebhookURL: "https://example.com/hook",
		APIToken:   "T1",
		IsActive:   true,
	})
	notifier := &mockNotifier{}
	agents := NewAgentService(store, nil, 0)
	return NewInboundService(store, agents, notifier, nil, allowAIWhileHuman), notifier
}

func inboundReq(phone, msg string) *conversation.InboundRequest {
	return &conversation.InboundRequest{
		AgentID:     "a1",
		APIToken:    "T1",
		ClientPhone: phone,
		ClientName:  "Carlos",
		Message:     msg,
	}
}

func TestInboundCreatesConversation(t *testing.T) {
	store := &mockStore{}
	svc, notifier := newInboundFixture(t, store, true)

	res, err := svc.Handle(context.Background(), inboundReq("+57 300-123 4567", "hi"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(store.conversations) != 1 {
		t.Fatalf("expected 1 conversation, got %d", len(store.conversations))
	}
	c := store.conversations[0]
	if c.Status != conversation.StatusAIActive {
		t.Errorf("status = %q, want AI_ACTIVE", c.Status)
	}
	if c.ID != res.ConversationID {
		t.Errorf("conversation id mismatch: %q vs %q", c.ID, res.ConversationID)
	}
	if len(store.messages) != 1 || store.messages[0].ID != res.MessageID {
		t.Fatalf("expected the created message, got %+v", store.messages)
	}
	if store.messages[0].SenderType != conversation.SenderClient {
		t.Errorf("senderType = %q, want default CLIENT", store.messages[0].SenderType)
	}

	types := notifier.eventTypes()
	if len(types) != 2 || types[0] != broadcast.EventNewMessage || types[1] != broadcast.EventConversationUpdated {
		t.Errorf("broadcasts = %v, want [new_message conversation_updated]", types)
	}
	if notifier.events[0].orgID != "org-1" {
		t.Errorf("broadcast org = %q, want org-1", notifier.events[0].orgID)
	}
}

func TestInboundDeduplicatesOnNormalizedPhone(t *testing.T) {
	store := &mockStore{}
	svc, _ := newInboundFixture(t, store, true)

	first, err := svc.Handle(context.Background(), inboundReq("+57 300-123 4567", "hi"))
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, err := svc.Handle(context.Background(), inboundReq("573001234567", "hi again"))
	if err != nil {
		t.Fatalf("second: %v", err)
	}

	if first.ConversationID != second.ConversationID {
		t.Fatalf("conversation split: %q vs %q", first.ConversationID, second.ConversationID)
	}
	if len(store.conversations) != 1 {
		t.Fatalf("expected 1 conversation, got %d", len(store.conversations))
	}
	msgs, _ := store.ListMessages(context.Background(), first.ConversationID)
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
}

func TestInboundRepairsMissingAgentLink(t *testing.T) {
	store := &mockStore{}
	svc, _ := newInboundFixture(t, store, true)
	orphan := conversationFixture("orphan", "org-1", "")
	orphan.ClientPhone = "573001234567"
	store.conversations = append(store.conversations, orphan)

	res, err := svc.Handle(context.Background(), inboundReq("+57 300 123 4567", "hi"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.ConversationID != "orphan" {
		t.Fatalf("conversation = %q, want orphan", res.ConversationID)
	}
	if store.conversations[0].AgentID != "a1" {
		t.Error("expected agent link repair")
	}
}

func TestInboundBadToken(t *testing.T) {
	store := &mockStore{}
	svc, _ := newInboundFixture(t, store, true)

	req := inboundReq("573001234567", "hi")
	req.APIToken = "wrong"
	_, err := svc.Handle(context.Background(), req)
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
	if len(store.messages) != 0 {
		t.Error("no message may be recorded on auth failure")
	}
}

func TestInboundUnknownAgent(t *testing.T) {
	store := &mockStore{}
	svc, _ := newInboundFixture(t, store, true)

	req := inboundReq("573001234567", "hi")
	req.AgentID = "ghost"
	_, err := svc.Handle(context.Background(), req)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestInboundInactiveAgent(t *testing.T) {
	store := &mockStore{}
	svc, _ := newInboundFixture(t, store, true)
	store.agents[0].IsActive = false

	_, err := svc.Handle(context.Background(), inboundReq("573001234567", "hi"))
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestInboundMissingFields(t *testing.T) {
	store := &mockStore{}
	svc, _ := newInboundFixture(t, store, true)

	for name, req := range map[string]*conversation.InboundRequest{
		"no agent":   {APIToken: "T1", ClientPhone: "573001234567", Message: "hi"},
		"no token":   {AgentID: "a1", ClientPhone: "573001234567", Message: "hi"},
		"no phone":   {AgentID: "a1", APIToken: "T1", Message: "hi"},
		"no message": {AgentID: "a1", APIToken: "T1", ClientPhone: "573001234567"},
		"bad sender": {AgentID: "a1", APIToken: "T1", ClientPhone: "573001234567", Message: "hi", SenderType: "HUMAN"},
	} {
		if _, err := svc.Handle(context.Background(), req); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("%s: err = %v, want ErrValidation", name, err)
		}
	}
}

func TestInboundRetriesOnCreateRace(t *testing.T) {
	store := &mockStore{appendInboundErr: domain.ErrConflict, appendInboundOnce: true}
	svc, _ := newInboundFixture(t, store, true)

	res, err := svc.Handle(context.Background(), inboundReq("573001234567", "hi"))
	if err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if res.MessageID == "" {
		t.Error("expected message after retry")
	}
}

func TestInboundAIMessageWhileHumanActive(t *testing.T) {
	mk := func(allow bool) (*InboundService, *mockStore) {
		store := &mockStore{}
		svc, _ := newInboundFixture(t, store, allow)
		c := conversationFixture("c1", "org-1", "a1")
		c.ClientPhone = "573001234567"
		c.Status = conversation.StatusHumanActive
		c.ActiveUserID = "u1"
		store.conversations = append(store.conversations, c)
		return svc, store
	}

	aiReq := inboundReq("573001234567", "automated reply")
	aiReq.SenderType = conversation.SenderAI

	svc, store := mk(true)
	if _, err := svc.Handle(context.Background(), aiReq); err != nil {
		t.Fatalf("policy allow: unexpected error %v", err)
	}
	if len(store.messages) != 1 {
		t.Error("policy allow: message must be recorded")
	}

	svc, store = mk(false)
	if _, err := svc.Handle(context.Background(), aiReq); !errors.Is(err, domain.ErrNotAuthorized) {
		t.Fatalf("policy deny: err = %v, want ErrNotAuthorized", err)
	}
	if len(store.messages) != 0 {
		t.Error("policy deny: no message may be recorded")
	}

	// Client messages always pass regardless of control state.
	svc, _ = mk(false)
	if _, err := svc.Handle(context.Background(), inboundReq("573001234567", "hello?")); err != nil {
		t.Fatalf("client message: unexpected error %v", err)
	}
}
