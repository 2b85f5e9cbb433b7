// Package audit defines the append-only audit log entry.
package audit

import "time"

// Actions recorded in the audit log.
const (
	ActionTakeControl = "TAKE_CONTROL"
	ActionReturnToAI  = "RETURN_TO_AI"
	ActionCreateAgent = "CREATE_AGENT"
	ActionUpdateAgent = "UPDATE_AGENT"
	ActionDeleteAgent = "DELETE_AGENT"
)

// Entry is one append-only audit record. Entries are never mutated or
// deleted; ConversationID and AgentID are non-owning back-references.
type Entry struct {
	ID             string    `json:"id"`
	OrgID          string    `json:"org_id"`
	UserID         string    `json:"userId"`
	ConversationID string    `json:"conversationId,omitempty"`
	AgentID        string    `json:"agentId,omitempty"`
	Action         string    `json:"action"`
	Details        string    `json:"details,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}
