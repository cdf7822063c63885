package auth

import (
	"fmt"
	"time"

	"github.com/rohandevadiga3333/wiz/internal/task"
	"github.com/rohandevadiga3333/wiz/internal/team"
	"github.com/rohandevadiga3333/wiz/internal/user"
	"gorm.io/gorm"
)

type AuthRepository interface {
	CreateLeaderWithTeam(u *user.User, t *team.Team) error
	CreateUser(u *user.User) error
	GetUserByEmail(email string) (*user.User, error)
	GetUserByEmailAndTeam(email, teamCode string) (*user.User, error)
	GetUserByID(id uint) (*user.User, error)
	UpdateUser(u *user.User) error

	GetTeamByCode(code string) (*team.Team, error)
	TeamCodeExists(code string) (bool, error)
	IsTeamLeader(teamCode string, userID uint) (bool, error)

	ListTeamMembers(teamCode string) ([]user.User, error)
	ListTeamMembersByStatus(teamCode, status string) ([]user.User, error)

	// TransitionMemberStatus performs a guarded status transition as a single
	// conditional UPDATE. Zero rows affected means the member was not found,
	// belongs to another team, or was already processed.
	TransitionMemberStatus(userID uint, teamCode, from, to string, actorID uint) (int64, error)

	DeleteRejectedMember(userID uint) (int64, error)
	DeleteTeamMember(memberID uint) error
}

type authRepository struct {
	db *gorm.DB
}

func NewAuthRepository(db *gorm.DB) AuthRepository {
	return &authRepository{db: db}
}

// CreateLeaderWithTeam creates the approved leader row and its team row in
// one transaction: both succeed or neither does.
func (r *authRepository) CreateLeaderWithTeam(u *user.User, t *team.Team) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(u).Error; err != nil {
			return err
		}
		t.LeaderID = u.ID
		return tx.Create(t).Error
	})
}

func (r *authRepository) CreateUser(u *user.User) error {
	return r.db.Create(u).Error
}

func (r *authRepository) GetUserByEmail(email string) (*user.User, error) {
	var u user.User
	if err := r.db.Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *authRepository) GetUserByEmailAndTeam(email, teamCode string) (*user.User, error) {
	var u user.User
	if err := r.db.Where("email = ? AND team_code = ?", email, teamCode).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *authRepository) GetUserByID(id uint) (*user.User, error) {
	var u user.User
	if err := r.db.First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *authRepository) UpdateUser(u *user.User) error {
	return r.db.Save(u).Error
}

func (r *authRepository) GetTeamByCode(code string) (*team.Team, error) {
	var t team.Team
	if err := r.db.Where("team_code = ?", code).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *authRepository) TeamCodeExists(code string) (bool, error) {
	var count int64
	err := r.db.Model(&team.Team{}).Where("team_code = ?", code).Count(&count).Error
	return count > 0, err
}

func (r *authRepository) IsTeamLeader(teamCode string, userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&team.Team{}).Where("team_code = ? AND leader_id = ?", teamCode, userID).Count(&count).Error
	return count > 0, err
}

func (r *authRepository) ListTeamMembers(teamCode string) ([]user.User, error) {
	var users []user.User
	err := r.db.Where("team_code = ?", teamCode).Order("created_at asc").Find(&users).Error
	return users, err
}

func (r *authRepository) ListTeamMembersByStatus(teamCode, status string) ([]user.User, error) {
	var users []user.User
	err := r.db.Where("team_code = ? AND role = ? AND status = ?", teamCode, user.RoleMember, status).
		Order("created_at asc").Find(&users).Error
	return users, err
}

func (r *authRepository) TransitionMemberStatus(userID uint, teamCode, from, to string, actorID uint) (int64, error) {
	updates := map[string]interface{}{"status": to}
	now := time.Now()
	switch to {
	case user.StatusApproved:
		updates["approved_by"] = actorID
		updates["approved_at"] = now
	case user.StatusRejected:
		updates["rejected_by"] = actorID
		updates["rejected_at"] = now
	}

	result := r.db.Model(&user.User{}).
		Where("id = ? AND team_code = ? AND role = ? AND status = ?", userID, teamCode, user.RoleMember, from).
		Updates(updates)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to transition member status: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *authRepository) DeleteRejectedMember(userID uint) (int64, error) {
	result := r.db.Unscoped().
		Where("id = ? AND role = ? AND status = ?", userID, user.RoleMember, user.StatusRejected).
		Delete(&user.User{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete rejected member: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// DeleteTeamMember releases every subtask assigned to the member, then hard
// deletes the user row, all inside one transaction.
func (r *authRepository) DeleteTeamMember(memberID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		release := map[string]interface{}{
			"assigned_to": nil,
			"status":      task.StatusAvailable,
			"progress":    task.ProgressNotStarted,
		}
		if err := tx.Model(&task.Subtask{}).Where("assigned_to = ?", memberID).Updates(release).Error; err != nil {
			return fmt.Errorf("failed to release member subtasks: %w", err)
		}
		if err := tx.Unscoped().Delete(&user.User{}, memberID).Error; err != nil {
			return fmt.Errorf("failed to delete member: %w", err)
		}
		return nil
	})
}
