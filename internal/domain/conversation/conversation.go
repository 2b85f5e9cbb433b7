// Package conversation defines conversations, messages, and the types the
// identity-resolution and handoff core exchanges.
package conversation

import (
	"fmt"
	"strings"
	"time"

	"github.com/wadesk/wadesk/internal/domain"
)

// Conversation status values. AI_ACTIVE is the initial state; ARCHIVED is
// terminal and reserved (no transition reaches it yet).
const (
	StatusAIActive    = "AI_ACTIVE"
	StatusHumanActive = "HUMAN_ACTIVE"
	StatusArchived    = "ARCHIVED"
)

// Message sender roles.
const (
	SenderAI     = "AI"
	SenderHuman  = "HUMAN"
	SenderClient = "CLIENT"
)

// ValidSenders is the set of sender roles accepted on the inbound webhook.
var ValidSenders = map[string]bool{
	SenderAI:     true,
	SenderClient: true,
}

// Conversation is the thread of messages with one client phone number,
// owned by one agent. ClientPhone is stored raw; comparisons always go
// through phone.Normalize. AgentID may be empty on records created before
// the agent link existed; the resolver repairs those on the next inbound
// message.
type Conversation struct {
	ID            string    `json:"id"`
	OrgID         string    `json:"org_id"`
	AgentID       string    `json:"agentId,omitempty"`
	ClientPhone   string    `json:"clientPhone"`
	ClientName    string    `json:"clientName,omitempty"`
	Status        string    `json:"status"`
	ActiveUserID  string    `json:"activeUserId,omitempty"`
	LastMessageAt time.Time `json:"lastMessageAt"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Message is one immutable unit of conversation content, ordered by
// CreatedAt within its conversation.
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversationId"`
	SenderType     string    `json:"senderType"`
	Content        string    `json:"content"`
	SenderName     string    `json:"senderName,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Decision is the resolver's verdict for one inbound message. It is a pure
// decision: the caller folds it into a single store transaction.
type Decision struct {
	// Conversation is the matched record; nil when IsNew.
	Conversation *Conversation
	// IsNew signals that no conversation matched and ConversationID was
	// freshly minted by the caller.
	IsNew bool
	// ConversationID is the id to append to (existing or minted).
	ConversationID string
	// AttachAgent signals a phone-only fallback match whose missing agent
	// link must be attached in the same transaction as the append.
	AttachAgent bool
}

// InboundRequest is the webhook body for externally-originated messages.
// SenderType defaults to CLIENT when omitted.
type InboundRequest struct {
	AgentID     string `json:"agentId"`
	APIToken    string `json:"apiToken"`
	ClientPhone string `json:"clientPhone"`
	ClientName  string `json:"clientName,omitempty"`
	Message     string `json:"message"`
	SenderType  string `json:"senderType,omitempty"`
	SenderName  string `json:"senderName,omitempty"`
}

// Validate checks required fields and normalizes the sender type.
func (r *InboundRequest) Validate() error {
	if r.AgentID == "" || r.APIToken == "" || r.Message == "" {
		return fmt.Errorf("%w: agentId, apiToken and message are required", domain.ErrValidation)
	}
	if strings.TrimSpace(r.ClientPhone) == "" {
		return fmt.Errorf("%w: clientPhone is required", domain.ErrValidation)
	}
	if r.SenderType == "" {
		r.SenderType = SenderClient
	}
	if !ValidSenders[r.SenderType] {
		return fmt.Errorf("%w: senderType must be CLIENT or AI", domain.ErrValidation)
	}
	return nil
}

// OutboundRequest is the dashboard body for a human reply.
type OutboundRequest struct {
	ConversationID string `json:"conversationId"`
	AgentID        string `json:"agentId"`
	Message        string `json:"message"`
}

// Validate checks required fields.
func (r *OutboundRequest) Validate() error {
	if r.ConversationID == "" || r.Message == "" {
		return fmt.Errorf("%w: conversationId and message are required", domain.ErrValidation)
	}
	return nil
}

// InboundAppend carries everything the store needs to apply an inbound
// message under a resolver decision.
type InboundAppend struct {
	MessageID       string
	OrgID           string
	AgentID         string
	ClientPhone     string // raw, stored as received
	NormalizedPhone string
	ClientName      string
	SenderType      string
	SenderName      string
	Content         string
}
