package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	wdotel "github.com/wadesk/wadesk/internal/adapter/otel"
	"github.com/wadesk/wadesk/internal/config"
	"github.com/wadesk/wadesk/internal/domain"
	"github.com/wadesk/wadesk/internal/domain/conversation"
	"github.com/wadesk/wadesk/internal/port/broadcast"
	"github.com/wadesk/wadesk/internal/port/database"
)

// OutboundResult reports the recorded message and the agent endpoint's
// response status. WebhookStatus is zero when delivery never got a response.
type OutboundResult struct {
	MessageID     string `json:"messageId"`
	WebhookStatus int    `json:"webhookStatus"`
}

// OutboundService relays human replies from the dashboard to the agent's
// webhook endpoint. The message is recorded durably before delivery is
// attempted; a delivery failure is reported but never rolls the record back.
type OutboundService struct {
	store    database.Store
	agents   *AgentService
	notifier broadcast.Broadcaster
	metrics  *wdotel.Metrics
	client   *http.Client
	sem      *semaphore.Weighted
}

// NewOutboundService creates the outbound relay. cfg.Timeout bounds the
// single delivery attempt and cfg.MaxConcurrent caps in-flight deliveries.
// metrics may be nil.
func NewOutboundService(store database.Store, agents *AgentService, notifier broadcast.Broadcaster, metrics *wdotel.Metrics, cfg config.Relay) *OutboundService {
	limit := cfg.MaxConcurrent
	if limit < 1 {
		limit = 1
	}
	return &OutboundService{
		store:    store,
		agents:   agents,
		notifier: notifier,
		metrics:  metrics,
		client:   &http.Client{Timeout: cfg.Timeout},
		sem:      semaphore.NewWeighted(int64(limit)),
	}
}

// deliveryPayload is the body POSTed to the agent's webhook endpoint.
type deliveryPayload struct {
	ConversationID string `json:"conversationId"`
	ClientPhone    string `json:"clientPhone"`
	ClientName     string `json:"clientName,omitempty"`
	Message        string `json:"message"`
	SenderType     string `json:"senderType"`
}

// Send records a human reply and relays it to the agent endpoint.
func (s *OutboundService) Send(ctx context.Context, orgID, userID, userName string, req *conversation.OutboundRequest) (*OutboundResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	c, err := s.store.GetConversation(ctx, req.ConversationID)
	if err != nil {
		return nil, err
	}
	if err := requireOrg(c.OrgID, orgID); err != nil {
		return nil, err
	}
	if err := AuthorizeHuman(c, userID); err != nil {
		return nil, err
	}

	agentID := c.AgentID
	if agentID == "" {
		agentID = req.AgentID
	}
	if agentID == "" {
		return nil, fmt.Errorf("conversation has no agent: %w", domain.ErrNotFound)
	}
	a, err := s.agents.Get(ctx, agentID)
	if err != nil {
		return nil, err
	}
	if err := requireOrg(a.OrgID, orgID); err != nil {
		return nil, err
	}

	msg := &conversation.Message{
		ID:             uuid.NewString(),
		ConversationID: c.ID,
		SenderType:     conversation.SenderHuman,
		SenderName:     userName,
		Content:        req.Message,
	}
	if err := s.store.AppendOutbound(ctx, c.ID, msg); err != nil {
		return nil, fmt.Errorf("append outbound: %w", err)
	}

	if s.metrics != nil {
		s.metrics.MessagesOutbound.Add(ctx, 1)
	}
	s.notifier.BroadcastToOrg(ctx, orgID, broadcast.EventNewMessage, map[string]any{
		"conversationId": c.ID,
		"message":        msg,
	})

	status, err := s.deliver(ctx, a.ID, a.WebhookURL, a.APIToken, deliveryPayload{
		ConversationID: c.ID,
		ClientPhone:    c.ClientPhone,
		ClientName:     c.ClientName,
		Message:        req.Message,
		SenderType:     conversation.SenderHuman,
	})
	if err != nil {
		if s.metrics != nil {
			s.metrics.DeliveryFailures.Add(ctx, 1)
		}
		// The recorded message stands; the caller is told delivery failed so
		// the dashboard can offer a retry.
		return &OutboundResult{MessageID: msg.ID, WebhookStatus: status},
			fmt.Errorf("webhook delivery: %v: %w", err, domain.ErrDelivery)
	}

	return &OutboundResult{MessageID: msg.ID, WebhookStatus: status}, nil
}

// deliver performs the single best-effort POST to the agent endpoint,
// authenticated with the agent's token as a bearer header.
func (s *OutboundService) deliver(ctx context.Context, agentID, url, token string, payload deliveryPayload) (int, error) {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return 0, fmt.Errorf("acquire delivery slot: %w", err)
	}
	defer s.sem.Release(1)

	ctx, span := wdotel.StartDeliverySpan(ctx, payload.ConversationID, agentID)
	defer span.End()

	start := time.Now()
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("marshal delivery payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("create delivery request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+token)

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return 0, fmt.Errorf("post to agent endpoint: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	if s.metrics != nil {
		s.metrics.DeliveryDuration.Record(ctx, time.Since(start).Seconds())
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, fmt.Errorf("agent endpoint returned %d", resp.StatusCode)
	}
	return resp.StatusCode, nil
}
