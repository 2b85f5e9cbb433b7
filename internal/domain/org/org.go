// Package org defines the organization (tenant) entity.
package org

import "time"

// Organization is the tenant boundary: users, agents, conversations, and
// realtime broadcasts are all scoped to one organization.
type Organization struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
