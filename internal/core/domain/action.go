package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ActionName tags a ledger operation.
type ActionName string

const (
	ActionCreate     ActionName = "create"
	ActionIssue      ActionName = "issue"
	ActionTransferIn ActionName = "transferin"
	ActionTransfer   ActionName = "transfer"
)

// PermissionActive is the permission every ledger action is signed with.
const PermissionActive = "active"

// PermissionLevel is an (actor, permission) pair granted to an action.
type PermissionLevel struct {
	Actor      Name   `json:"actor"`
	Permission string `json:"permission"`
}

// Active returns actor@active.
func Active(actor Name) PermissionLevel {
	return PermissionLevel{Actor: actor, Permission: PermissionActive}
}

type authorizationKey struct{}

// WithAuthorization returns a context carrying the permissions granted to the
// action executing under it. Any previously granted set is replaced.
func WithAuthorization(ctx context.Context, levels ...PermissionLevel) context.Context {
	granted := make([]PermissionLevel, len(levels))
	copy(granted, levels)
	return context.WithValue(ctx, authorizationKey{}, granted)
}

// AuthorizationFromContext returns the permissions granted to the current action.
func AuthorizationFromContext(ctx context.Context) []PermissionLevel {
	levels, _ := ctx.Value(authorizationKey{}).([]PermissionLevel)
	return levels
}

// TransferPayload is the argument tuple of a transferin action.
type TransferPayload struct {
	From     Name   `json:"from"`
	To       Name   `json:"to"`
	Quantity Asset  `json:"quantity"`
	Memo     string `json:"memo"`
}

// InlineAction is a step executed inside the transaction of the action that
// produced it, under its own declared authorization.
type InlineAction struct {
	Name          ActionName        `json:"name"`
	Authorization []PermissionLevel `json:"authorization"`
	Payload       TransferPayload   `json:"payload"`
}

// DeferredAction is a work item handed to the scheduler. It executes as an
// independent transaction no earlier than ExecuteAt.
type DeferredAction struct {
	ID            uuid.UUID         `json:"id"`
	Name          ActionName        `json:"name"`
	Authorization []PermissionLevel `json:"authorization"`
	Payload       TransferPayload   `json:"payload"`
	Payer         Name              `json:"payer"`
	SubmittedAt   time.Time         `json:"submitted_at"`
	ExecuteAt     time.Time         `json:"execute_at"`
}

// IsDue reports whether the item may run at now.
func (a *DeferredAction) IsDue(now time.Time) bool {
	return !now.Before(a.ExecuteAt)
}
