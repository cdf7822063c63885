package auth

import (
	"time"

	"github.com/rohandevadiga3333/wiz/internal/user"
)

type RegisterLeaderRequest struct {
	Email    string `json:"email" binding:"required,email" example:"alice@example.com"`
	Password string `json:"password" binding:"required,min=8" example:"password123"`
	Name     string `json:"name" binding:"required" example:"Alice"`
	TeamName string `json:"team_name" binding:"required" example:"TeamA"`
}

type RegisterMemberRequest struct {
	Email    string `json:"email" binding:"required,email" example:"bob@example.com"`
	Password string `json:"password" binding:"required,min=8" example:"password123"`
	Name     string `json:"name" binding:"required" example:"Bob"`
	TeamCode string `json:"team_code" binding:"required,len=6" example:"AB12CD"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"alice@example.com"`
	Password string `json:"password" binding:"required" example:"password123"`
	TeamCode string `json:"team_code" binding:"required,len=6" example:"AB12CD"`
}

type CheckMemberStatusRequest struct {
	Email    string `json:"email" binding:"required,email" example:"bob@example.com"`
	TeamCode string `json:"team_code" binding:"required,len=6" example:"AB12CD"`
}

// MemberActionRequest identifies the member a leader wants to approve or reject.
type MemberActionRequest struct {
	UserID   uint   `json:"user_id" binding:"required" example:"42"`
	TeamCode string `json:"team_code" binding:"required,len=6" example:"AB12CD"`
}

type UserResponse struct {
	ID         uint       `json:"id"`
	Email      string     `json:"email"`
	Name       string     `json:"name"`
	Role       string     `json:"role"`
	TeamCode   string     `json:"team_code"`
	Status     string     `json:"status"`
	ApprovedAt *time.Time `json:"approved_at,omitempty"`
	RejectedAt *time.Time `json:"rejected_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

type RegisterLeaderResponse struct {
	TeamCode string       `json:"team_code"`
	User     UserResponse `json:"user"`
}

type RegisterMemberResponse struct {
	User UserResponse `json:"user"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type CheckMemberStatusResponse struct {
	CanLogin bool   `json:"can_login"`
	Status   string `json:"status"`
}

// FilterUserRecord maps a User row to its API shape, dropping the credential hash.
func FilterUserRecord(u *user.User) UserResponse {
	return UserResponse{
		ID:         u.ID,
		Email:      u.Email,
		Name:       u.Name,
		Role:       u.Role,
		TeamCode:   u.TeamCode,
		Status:     u.Status,
		ApprovedAt: u.ApprovedAt,
		RejectedAt: u.RejectedAt,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

// FilterUserRecords maps a slice of User rows to their API shape.
func FilterUserRecords(users []user.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, FilterUserRecord(&users[i]))
	}
	return out
}
