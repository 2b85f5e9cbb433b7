package postgres

import (
	"context"
	"fmt"

	"github.com/wadesk/wadesk/internal/domain"
	"github.com/wadesk/wadesk/internal/domain/conversation"
)

const conversationCols = `id, org_id, agent_id, client_phone, client_name, status, active_user_id, last_message_at, created_at`

func (s *Store) ListConversations(ctx context.Context, orgID string) ([]conversation.Conversation, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+conversationCols+`
		 FROM conversations WHERE org_id = $1 ORDER BY last_message_at DESC`, orgID)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	defer rows.Close()

	var result []conversation.Conversation
	for rows.Next() {
		c, err := scanConversation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan conversation: %w", err)
		}
		result = append(result, *c)
	}
	return result, rows.Err()
}

func (s *Store) GetConversation(ctx context.Context, id string) (*conversation.Conversation, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+conversationCols+` FROM conversations WHERE id = $1`, id)
	c, err := scanConversation(row)
	if err != nil {
		return nil, notFoundWrap(err, "get conversation %s", id)
	}
	return c, nil
}

// UpdateConversationStatus sets the handoff status and active-human
// reference. Pass an empty activeUserID to clear the reference.
func (s *Store) UpdateConversationStatus(ctx context.Context, id, status, activeUserID string) (*conversation.Conversation, error) {
	row := s.pool.QueryRow(ctx,
		`UPDATE conversations SET status = $2, active_user_id = $3
		 WHERE id = $1
		 RETURNING `+conversationCols,
		id, status, nullIfEmpty(activeUserID))
	c, err := scanConversation(row)
	if err != nil {
		return nil, notFoundWrap(err, "update conversation %s status", id)
	}
	return c, nil
}

// AppendInbound applies the resolver decision and the inbound message as one
// transaction: either create the conversation (new path) or touch
// lastMessageAt and repair a missing agent link (existing path), then insert
// the message. Postgres gives all-or-nothing semantics; an ambiguous commit
// failure is reported as domain.ErrPartialWrite so callers can trigger a
// deterministic retry, and a unique-index race on (agent, normalized phone)
// surfaces as domain.ErrConflict for a re-resolve.
func (s *Store) AppendInbound(ctx context.Context, d conversation.Decision, in conversation.InboundAppend) (*conversation.Message, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	if d.IsNew {
		_, err = tx.Exec(ctx,
			`INSERT INTO conversations (id, org_id, agent_id, client_phone, client_phone_key, client_name, status, last_message_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, now())`,
			d.ConversationID, in.OrgID, in.AgentID, in.ClientPhone, in.NormalizedPhone,
			nullIfEmpty(in.ClientName), conversation.StatusAIActive)
		if err != nil {
			if isUniqueViolation(err) {
				return nil, fmt.Errorf("insert conversation: %w", domain.ErrConflict)
			}
			return nil, fmt.Errorf("insert conversation: %w", err)
		}
	} else {
		tag, err := tx.Exec(ctx,
			`UPDATE conversations SET last_message_at = now() WHERE id = $1`,
			d.ConversationID)
		if uerr := execExpectOne(tag, err, "touch conversation %s", d.ConversationID); uerr != nil {
			return nil, uerr
		}
		if d.AttachAgent {
			_, err = tx.Exec(ctx,
				`UPDATE conversations SET agent_id = $2, client_phone_key = $3 WHERE id = $1`,
				d.ConversationID, in.AgentID, in.NormalizedPhone)
			if err != nil {
				if isUniqueViolation(err) {
					return nil, fmt.Errorf("attach agent link: %w", domain.ErrConflict)
				}
				return nil, fmt.Errorf("attach agent link: %w", err)
			}
		}
	}

	m := &conversation.Message{
		ID:             in.MessageID,
		ConversationID: d.ConversationID,
		SenderType:     in.SenderType,
		Content:        in.Content,
		SenderName:     in.SenderName,
	}
	err = tx.QueryRow(ctx,
		`INSERT INTO messages (id, conversation_id, sender_type, content, sender_name)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at`,
		m.ID, m.ConversationID, m.SenderType, m.Content, nullIfEmpty(m.SenderName),
	).Scan(&m.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit inbound append: %w", domain.ErrPartialWrite)
	}
	return m, nil
}

// AppendOutbound records a human-sent message and touches lastMessageAt in
// one transaction. External webhook delivery happens after, outside the
// transaction: the message stays durable even when delivery fails.
func (s *Store) AppendOutbound(ctx context.Context, conversationID string, m *conversation.Message) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	tag, err := tx.Exec(ctx,
		`UPDATE conversations SET last_message_at = now() WHERE id = $1`, conversationID)
	if uerr := execExpectOne(tag, err, "touch conversation %s", conversationID); uerr != nil {
		return uerr
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO messages (id, conversation_id, sender_type, content, sender_name)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at`,
		m.ID, conversationID, m.SenderType, m.Content, nullIfEmpty(m.SenderName),
	).Scan(&m.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit outbound append: %w", domain.ErrPartialWrite)
	}
	return nil
}

func (s *Store) ListMessages(ctx context.Context, conversationID string) ([]conversation.Message, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, conversation_id, sender_type, content, sender_name, created_at
		 FROM messages WHERE conversation_id = $1 ORDER BY created_at ASC`,
		conversationID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var result []conversation.Message
	for rows.Next() {
		var m conversation.Message
		var senderName *string
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.SenderType, &m.Content, &senderName, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		m.SenderName = orEmpty(senderName)
		result = append(result, m)
	}
	return result, rows.Err()
}

func scanConversation(row scannable) (*conversation.Conversation, error) {
	var c conversation.Conversation
	var agentID, clientName, activeUserID *string
	err := row.Scan(&c.ID, &c.OrgID, &agentID, &c.ClientPhone, &clientName,
		&c.Status, &activeUserID, &c.LastMessageAt, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	c.AgentID = orEmpty(agentID)
	c.ClientName = orEmpty(clientName)
	c.ActiveUserID = orEmpty(activeUserID)
	return &c, nil
}
