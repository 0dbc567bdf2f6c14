package notification

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

const RoleAdmin = "admin"

const (
	TypeGuaranteeRequested = "guarantee_requested"
	TypeConsensusReached   = "guarantor_consensus_reached"
	TypeLoanSubmitted      = "loan_submitted"
	TypeLoanApproved       = "loan_approved"
	TypeLoanRejected       = "loan_rejected"
	TypeLoanDisbursed      = "loan_disbursed"
	TypeLoanCompleted      = "loan_completed"
	TypeRepaymentRecorded  = "repayment_recorded"
)

// Metadata persists as a JSON column.
type Metadata map[string]string

func (m Metadata) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

func (m *Metadata) Scan(src any) error {
	if src == nil {
		*m = nil
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return fmt.Errorf("metadata: unsupported scan type %T", src)
	}
}

// Notification is an outbox row: written in the same transaction as the
// state change it announces, delivered best-effort afterwards. Exactly
// one of MemberID / Role is set.
type Notification struct {
	ID             uint64     `gorm:"primaryKey;column:id" json:"-"`
	NotificationID string     `gorm:"size:32;uniqueIndex:ux_notifications_notification_id" json:"notification_id"`
	MemberID       string     `gorm:"size:32;index:idx_notifications_member" json:"member_id,omitempty"`
	Role           string     `gorm:"size:16" json:"role,omitempty"`
	Type           string     `gorm:"size:40" json:"type"`
	Title          string     `gorm:"size:190" json:"title"`
	Message        string     `gorm:"type:text" json:"message"`
	Metadata       Metadata   `gorm:"type:json" json:"metadata,omitempty"`
	SentAt         *time.Time `json:"sent_at,omitempty"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }
