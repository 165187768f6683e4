// Package audit persists security-relevant console events. Recording is
// best-effort: a failed write is logged but never blocks the action being
// audited.
package audit

import (
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoSafeQ-Admin/GoSafeQ-Admin/internal/db/models"
)

// Action names for recorded events.
const (
	ActionLoginEntra      = "login.entra"
	ActionLoginEmergency  = "login.emergency"
	ActionLoginCloudLocal = "login.cloud-local"
	ActionLogout          = "logout"
	ActionUserCreate      = "user.create"
	ActionUserDelete      = "user.delete"
)

// Recorder writes audit events to the console database.
type Recorder struct {
	db *gorm.DB
}

// NewRecorder creates an audit recorder.
func NewRecorder(db *gorm.DB) *Recorder {
	return &Recorder{db: db}
}

// Record writes one audit event.
func (r *Recorder) Record(action, username, source string, success bool, detail, clientIP string) {
	event := models.AuditEvent{
		Action:   action,
		Username: username,
		Source:   source,
		Success:  success,
		Detail:   detail,
		ClientIP: clientIP,
	}

	if err := r.db.Create(&event).Error; err != nil {
		log.Error().Err(err).Str("action", action).Msg("failed to write audit event")
	}
}

// Recent returns the latest events, newest first.
func (r *Recorder) Recent(limit int) ([]models.AuditEvent, error) {
	var events []models.AuditEvent

	err := r.db.Order("created_at DESC").Limit(limit).Find(&events).Error
	if err != nil {
		return nil, err
	}

	return events, nil
}
