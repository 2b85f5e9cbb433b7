package postgres

import (
	"context"
	"fmt"

	"github.com/wadesk/wadesk/internal/domain/agent"
)

func (s *Store) CreateAgent(ctx context.Context, a *agent.Agent) error {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO agents (org_id, name, webhook_url, api_token, is_active)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		a.OrgID, a.Name, a.WebhookURL, a.APIToken, a.IsActive,
	).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return fmt.Errorf("create agent: %w", err)
	}
	return nil
}

func (s *Store) GetAgent(ctx context.Context, id string) (*agent.Agent, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, org_id, name, webhook_url, api_token, is_active, created_at
		 FROM agents WHERE id = $1`, id)
	a, err := scanAgent(row)
	if err != nil {
		return nil, notFoundWrap(err, "get agent %s", id)
	}
	return a, nil
}

func (s *Store) ListAgents(ctx context.Context, orgID string) ([]agent.Agent, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, org_id, name, webhook_url, api_token, is_active, created_at
		 FROM agents WHERE org_id = $1 ORDER BY created_at DESC`, orgID)
	if err != nil {
		return nil, fmt.Errorf("list agents: %w", err)
	}
	defer rows.Close()

	var result []agent.Agent
	for rows.Next() {
		a, err := scanAgent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan agent: %w", err)
		}
		result = append(result, *a)
	}
	return result, rows.Err()
}

func (s *Store) UpdateAgent(ctx context.Context, a *agent.Agent) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE agents SET name = $2, webhook_url = $3, api_token = $4, is_active = $5
		 WHERE id = $1`,
		a.ID, a.Name, a.WebhookURL, a.APIToken, a.IsActive)
	return execExpectOne(tag, err, "update agent %s", a.ID)
}

func (s *Store) DeleteAgent(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM agents WHERE id = $1`, id)
	return execExpectOne(tag, err, "delete agent %s", id)
}

func scanAgent(row scannable) (*agent.Agent, error) {
	var a agent.Agent
	err := row.Scan(&a.ID, &a.OrgID, &a.Name, &a.WebhookURL, &a.APIToken, &a.IsActive, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
