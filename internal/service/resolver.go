package service

import (
	"github.com/google/uuid"

	"github.com/wadesk/wadesk/internal/domain/conversation"
	"github.com/wadesk/wadesk/internal/domain/phone"
)

// ResolveConversation decides which conversation an inbound message belongs
// to. Matching is by normalized phone digits, never by raw string equality:
//
//  1. Primary: same phone and same agent. Duplicates can exist from the
//     pre-uniqueness era; the one with the greatest LastMessageAt wins so
//     resolution stays deterministic regardless of candidate order.
//  2. Fallback: same phone on a record with no agent link, again preferring
//     the freshest. The decision marks the record for agent attachment so the
//     link is repaired in the same transaction that appends the message.
//  3. Otherwise a new conversation ID is minted.
//
// The candidate slice is the organization's conversations; callers must not
// pass records from other organizations.
func ResolveConversation(candidates []conversation.Conversation, agentID, normalizedPhone string) conversation.Decision {
	var primary, fallback *conversation.Conversation

	for i := range candidates {
		c := &candidates[i]
		if phone.Normalize(c.ClientPhone) != normalizedPhone {
			continue
		}
		if c.AgentID == agentID {
			if primary == nil || c.LastMessageAt.After(primary.LastMessageAt) {
				primary = c
			}
			continue
		}
		if c.AgentID == "" {
			if fallback == nil || c.LastMessageAt.After(fallback.LastMessageAt) {
				fallback = c
			}
		}
	}

	if primary != nil {
		return conversation.Decision{
			Conversation:   primary,
			ConversationID: primary.ID,
		}
	}

	if fallback != nil {
		return conversation.Decision{
			Conversation:   fallback,
			ConversationID: fallback.ID,
			AttachAgent:    agentID != "",
		}
	}

	return conversation.Decision{
		IsNew:          true,
		ConversationID: uuid.NewString(),
	}
}
