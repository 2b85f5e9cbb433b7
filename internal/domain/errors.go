// Package domain provides shared domain-level sentinel errors.
package domain

import "errors"

// ErrNotFound indicates the requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrValidation indicates malformed or missing input. The wrapping error
// carries the field-level detail.
var ErrValidation = errors.New("validation failed")

// ErrUnauthorized indicates a credential failure (bad API token or JWT).
// Handlers must not reveal which part of the credential was wrong.
var ErrUnauthorized = errors.New("unauthorized")

// ErrNotAuthorized indicates a handoff-state violation: a message send was
// attempted on a conversation whose status does not permit the sender.
var ErrNotAuthorized = errors.New("human control required")

// ErrInvalidTransition indicates a handoff transition that is not legal
// from the conversation's current status.
var ErrInvalidTransition = errors.New("invalid status transition")

// ErrConflict indicates a concurrent-write conflict, e.g. two inbound
// messages racing to create the same (agent, phone) conversation.
var ErrConflict = errors.New("conflict: resource was modified by another request")

// ErrPartialWrite indicates a multi-record write that was only partially
// applied. The store attempts compensating rollback before reporting it.
var ErrPartialWrite = errors.New("partial write")

// ErrDelivery indicates the outbound webhook call failed or timed out.
// The recorded message is not rolled back.
var ErrDelivery = errors.New("webhook delivery failed")
