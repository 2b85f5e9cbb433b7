// Package agent defines the automated integration (bot) entity.
package agent

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/wadesk/wadesk/internal/domain"
)

// Agent is one configured automation integration owned by an organization.
// Inbound webhook calls authenticate with the agent's APIToken; outbound
// relay calls POST to its WebhookURL with the same token as a bearer.
type Agent struct {
	ID         string    `json:"id"`
	OrgID      string    `json:"org_id"`
	Name       string    `json:"name"`
	WebhookURL string    `json:"webhookUrl"`
	APIToken   string    `json:"apiToken"`
	IsActive   bool      `json:"isActive"`
	CreatedAt  time.Time `json:"created_at"`
}

// CreateRequest is the body for creating or replacing an agent.
type CreateRequest struct {
	Name       string `json:"name"`
	WebhookURL string `json:"webhookUrl"`
	APIToken   string `json:"apiToken"`
}

// Validate checks required fields and that the webhook URL is absolute.
// APIToken is optional; when empty a token is minted on creation.
func (r CreateRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	return ValidateWebhookURL(r.WebhookURL)
}

// UpdateRequest carries partial agent updates. Zero values leave the
// corresponding field unchanged.
type UpdateRequest struct {
	Name       string `json:"name"`
	WebhookURL string `json:"webhookUrl"`
	IsActive   *bool  `json:"isActive"`
}

// ValidateWebhookURL checks that the URL is absolute with a host.
func ValidateWebhookURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("%w: webhookUrl must be an absolute URL", domain.ErrValidation)
	}
	return nil
}
