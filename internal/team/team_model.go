package team

import "gorm.io/gorm"

// Team binds a leader and their members under a shared team code. The row is
// created in the same transaction as its leader's user record, and LeaderID
// carries a unique index so no user can lead more than one team.
type Team struct {
	gorm.Model
	TeamCode string `json:"team_code" gorm:"uniqueIndex;size:6;not null"`
	TeamName string `json:"team_name" gorm:"not null"`
	LeaderID uint   `json:"leader_id" gorm:"uniqueIndex"`
}
