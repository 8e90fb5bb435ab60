package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditAction represents the type of audited action.
type AuditAction string

const (
	AuditActionCreate          AuditAction = "CREATE"
	AuditActionIssue           AuditAction = "ISSUE"
	AuditActionTransferIn      AuditAction = "TRANSFERIN"
	AuditActionTransfer        AuditAction = "TRANSFER"
	AuditActionRegisterAccount AuditAction = "REGISTER_ACCOUNT"
)

// AuditLog records a single audited request in the system.
type AuditLog struct {
	ID           uuid.UUID   `json:"id"`
	Actor        *Name       `json:"actor,omitempty"`
	Action       AuditAction `json:"action"`
	ResourceType string      `json:"resource_type"`
	ResourceID   string      `json:"resource_id,omitempty"`
	Details      string      `json:"details,omitempty"` // JSON string
	IPAddress    string      `json:"ip_address"`
	CreatedAt    time.Time   `json:"created_at"`
}
