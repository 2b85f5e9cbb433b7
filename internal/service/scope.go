package service

import (
	"fmt"

	"github.com/wadesk/wadesk/internal/domain"
)

// requireOrg rejects access to a resource owned by a different organization.
// The mismatch is reported as a not-found so existence is not leaked across
// organizations.
func requireOrg(resourceOrgID, callerOrgID string) error {
	if resourceOrgID != callerOrgID {
		return fmt.Errorf("resource not in organization: %w", domain.ErrNotFound)
	}
	return nil
}
