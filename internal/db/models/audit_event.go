package models

import "time"

// AuditEvent records a security-relevant console action: login attempts from
// every path (with the failure message on denial) and SafeQ user
// administration. Rows are append-only.
type AuditEvent struct {
	// ID is the unique identifier for the event.
	ID uint64 `gorm:"primaryKey"`
	// Action names what happened (e.g. "login.entra", "user.create").
	Action string `gorm:"size:100;not null;index"`
	// Username is the acting identity, as known at the time of the event.
	Username string `gorm:"size:255;index"`
	// Source is the authentication source of the acting session.
	Source string `gorm:"size:20"`
	// Success indicates whether the action succeeded.
	Success bool
	// Detail carries the failure message or a short action summary.
	Detail string `gorm:"size:512"`
	// ClientIP is the remote address of the request.
	ClientIP string `gorm:"size:64"`
	// CreatedAt is the event timestamp (managed by GORM).
	CreatedAt time.Time `gorm:"index"`
}

// TableName overrides GORM's default pluralized table naming.
func (AuditEvent) TableName() string {
	return "audit_events"
}
