package user

import (
	"time"

	"gorm.io/gorm"
)

// Roles a user can hold within a team.
const (
	RoleLeader = "leader"
	RoleMember = "member"
)

// Membership statuses. Leaders are created pre-approved and never transition.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

type User struct {
	gorm.Model
	Email      string     `gorm:"uniqueIndex;not null" json:"email"`
	Password   string     `gorm:"not null" json:"-"`
	Name       string     `gorm:"not null" json:"name"`
	Role       string     `gorm:"not null;index" json:"role"`
	TeamCode   string     `gorm:"size:6;index;not null" json:"team_code"`
	Status     string     `gorm:"not null;default:'pending';index" json:"status"`
	ApprovedBy *uint      `json:"approved_by,omitempty"`
	ApprovedAt *time.Time `json:"approved_at,omitempty"`
	RejectedBy *uint      `json:"rejected_by,omitempty"`
	RejectedAt *time.Time `json:"rejected_at,omitempty"`
}

// CanLogin reports whether membership status allows a login. Leaders are
// always allowed; members must be approved.
func (u *User) CanLogin() bool {
	return u.Role == RoleLeader || u.Status == StatusApproved
}
