package models

// AuditAction names a mutating lifecycle operation.
type AuditAction string

const (
	AuditOpenPosition   AuditAction = "OPEN_POSITION"
	AuditUpdatePosition AuditAction = "UPDATE_POSITION"
	AuditRemovePosition AuditAction = "REMOVE_POSITION"
	AuditSellPosition   AuditAction = "SELL_POSITION"
	AuditMaturePosition AuditAction = "MATURE_POSITION"
	AuditContribute     AuditAction = "CONTRIBUTE"
	AuditTransfer       AuditAction = "TRANSFER"
	AuditStake          AuditAction = "STAKE"
	AuditUnstake        AuditAction = "UNSTAKE"
	AuditRecordSnapshot AuditAction = "RECORD_SNAPSHOT"
)

// AuditLog records every mutating lifecycle operation. ResourceType is an
// asset class for position operations.
type AuditLog struct {
	Base
	OwnerID      string      `gorm:"type:uuid;not null;index" json:"owner_id"`
	Action       AuditAction `gorm:"not null" json:"action"`
	ResourceType string      `gorm:"not null" json:"resource_type"`
	ResourceID   string      `json:"resource_id"`
	IPAddress    string      `json:"ip_address"`
	Changes      string      `json:"changes,omitempty"`
}
