package services

import (
	"encoding/json"

	"nidhi/internal/logger"
	"nidhi/internal/models"

	"gorm.io/gorm"
)

const maxIPLength = 45

type auditService struct {
	db *gorm.DB
}

// NewAuditService creates a new AuditServicer.
func NewAuditService(db *gorm.DB) AuditServicer {
	return &auditService{db: db}
}

// Log records an audit event. Failures are logged and swallowed so a
// lifecycle operation that already committed is never reported as failed.
func (s *auditService) Log(ownerID string, action models.AuditAction, resourceType, resourceID, ipAddress string, changes map[string]any) {
	log := logger.Named("audit")

	if len(ipAddress) > maxIPLength {
		ipAddress = ipAddress[:maxIPLength]
	}

	entry := &models.AuditLog{
		OwnerID:      ownerID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		IPAddress:    ipAddress,
		Changes:      encodeChanges(changes),
	}
	if entry.Changes == "" && changes != nil {
		log.Errorw("failed to marshal audit changes", "action", action, "resource_id", resourceID)
		entry.Changes = "{}"
	}

	if err := s.db.Create(entry).Error; err != nil {
		log.Errorw("failed to create audit log entry",
			"error", err,
			"owner_id", ownerID,
			"action", action,
			"resource_type", resourceType,
			"resource_id", resourceID,
		)
	}
}

// encodeChanges renders changes as JSON, or "" when there is nothing to
// record or it cannot be encoded.
func encodeChanges(changes map[string]any) string {
	if len(changes) == 0 {
		return ""
	}
	data, err := json.Marshal(changes)
	if err != nil {
		return ""
	}
	return string(data)
}
