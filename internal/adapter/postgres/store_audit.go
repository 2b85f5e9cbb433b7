package postgres

import (
	"context"
	"fmt"

	"github.com/wadesk/wadesk/internal/domain/audit"
)

func (s *Store) CreateAuditLog(ctx context.Context, e *audit.Entry) error {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO audit_logs (org_id, user_id, conversation_id, agent_id, action, details)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		e.OrgID, e.UserID, nullIfEmpty(e.ConversationID), nullIfEmpty(e.AgentID),
		e.Action, nullIfEmpty(e.Details),
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return fmt.Errorf("create audit log: %w", err)
	}
	return nil
}

func (s *Store) ListAuditLogs(ctx context.Context, orgID string) ([]audit.Entry, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, org_id, user_id, conversation_id, agent_id, action, details, created_at
		 FROM audit_logs WHERE org_id = $1 ORDER BY created_at DESC`, orgID)
	if err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	defer rows.Close()

	var result []audit.Entry
	for rows.Next() {
		var e audit.Entry
		var convID, agentID, details *string
		if err := rows.Scan(&e.ID, &e.OrgID, &e.UserID, &convID, &agentID, &e.Action, &details, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit log: %w", err)
		}
		e.ConversationID = orEmpty(convID)
		e.AgentID = orEmpty(agentID)
		e.Details = orEmpty(details)
		result = append(result, e)
	}
	return result, rows.Err()
}
