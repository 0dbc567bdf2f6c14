package member

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrNotFound          = errors.New("member not found")
	ErrInactive          = errors.New("member is not active")
	ErrInsufficientFunds = errors.New("insufficient account balance")
)

type Status string

const (
	StatusActive    Status = "active"
	StatusInactive  Status = "inactive"
	StatusSuspended Status = "suspended"
)

// Member is a registered participant of the savings group. Members are
// never hard-deleted; Status tracks their standing instead.
type Member struct {
	ID                 uint64         `gorm:"primaryKey;column:id" json:"-"`
	MemberID           string         `gorm:"size:32;uniqueIndex:ux_members_member_id_active" json:"member_id"`
	FullName           string         `gorm:"size:120" json:"full_name"`
	Email              string         `gorm:"size:190" json:"email"`
	Status             Status         `gorm:"size:16;default:'active'" json:"status"`
	AccountBalance     float64        `gorm:"type:decimal(18,2)" json:"account_balance"`
	TotalContributions float64        `gorm:"type:decimal(18,2)" json:"total_contributions"`
	CreatedAt          time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Member) TableName() string { return "members" }

func (m *Member) IsActive() bool { return m.Status == StatusActive }
