package task

import (
	"errors"
	"fmt"

	"github.com/rohandevadiga3333/wiz/internal/team"
	"github.com/rohandevadiga3333/wiz/internal/user"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrSubtaskUnavailable is returned when a claim races another claimant or
// targets a subtask that is not available.
var ErrSubtaskUnavailable = errors.New("subtask is no longer available")

// TaskRepository defines the interface for task and subtask data operations
type TaskRepository interface {
	// Task operations
	CreateTaskWithSubtasks(t *Task) error
	GetTaskByID(id uint) (*Task, error)
	GetTasksByTeam(teamCode string) ([]Task, error)
	GetTasksWithAvailableSubtasks(teamCode string) ([]Task, error)
	UpdateTask(t *Task) error
	DeleteTask(id uint) error

	// Subtask operations
	GetSubtaskByID(id uint) (*Subtask, error)
	GetSubtasksByUser(userID uint) ([]Subtask, error)
	UpdateSubtaskFields(id uint, fields map[string]interface{}) error
	DeleteSubtask(id uint) error
	ClaimSubtask(subtaskID, userID uint) (*Subtask, error)

	// Lookups shared with the authorization policy
	IsTeamLeader(teamCode string, userID uint) (bool, error)
	GetUserTeam(userID uint) (string, error)
}

type taskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new instance of TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

// --- Task Operations ---

// CreateTaskWithSubtasks inserts the task and all its subtasks in one
// transaction so a partial failure leaves no orphans.
func (r *taskRepository) CreateTaskWithSubtasks(t *Task) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(t).Error
	})
}

func (r *taskRepository) GetTaskByID(id uint) (*Task, error) {
	var t Task
	if err := r.db.Preload("Subtasks").First(&t, id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *taskRepository) GetTasksByTeam(teamCode string) ([]Task, error) {
	var tasks []Task
	err := r.db.Preload("Subtasks").
		Where("team_code = ?", teamCode).
		Order("created_at desc").
		Find(&tasks).Error
	return tasks, err
}

func (r *taskRepository) GetTasksWithAvailableSubtasks(teamCode string) ([]Task, error) {
	var tasks []Task
	err := r.db.
		Distinct("tasks.*").
		Joins("JOIN subtasks ON subtasks.task_id = tasks.id AND subtasks.status = ? AND subtasks.deleted_at IS NULL", StatusAvailable).
		Where("tasks.team_code = ?", teamCode).
		Preload("Subtasks", "status = ?", StatusAvailable).
		Order("tasks.created_at desc").
		Find(&tasks).Error
	return tasks, err
}

func (r *taskRepository) UpdateTask(t *Task) error {
	return r.db.Omit("Subtasks").Save(t).Error
}

// DeleteTask removes the subtasks and then the task inside one transaction.
func (r *taskRepository) DeleteTask(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("task_id = ?", id).Delete(&Subtask{}).Error; err != nil {
			return fmt.Errorf("failed to delete subtasks: %w", err)
		}
		return tx.Unscoped().Delete(&Task{}, id).Error
	})
}

// --- Subtask Operations ---

func (r *taskRepository) GetSubtaskByID(id uint) (*Subtask, error) {
	var st Subtask
	if err := r.db.Preload("Task").First(&st, id).Error; err != nil {
		return nil, err
	}
	return &st, nil
}

func (r *taskRepository) GetSubtasksByUser(userID uint) ([]Subtask, error) {
	var subtasks []Subtask
	err := r.db.Preload("Task").
		Where("assigned_to = ?", userID).
		Order("created_at desc").
		Find(&subtasks).Error
	return subtasks, err
}

func (r *taskRepository) UpdateSubtaskFields(id uint, fields map[string]interface{}) error {
	result := r.db.Model(&Subtask{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *taskRepository) DeleteSubtask(id uint) error {
	return r.db.Unscoped().Delete(&Subtask{}, id).Error
}

// ClaimSubtask implements the member claim protocol: lock the row, check it
// is still available inside the same transaction, then transition it. Two
// concurrent claimants cannot both succeed.
func (r *taskRepository) ClaimSubtask(subtaskID, userID uint) (*Subtask, error) {
	var st Subtask
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := r.lockForUpdate(tx).First(&st, subtaskID).Error; err != nil {
			return err
		}
		if st.Status != StatusAvailable {
			return ErrSubtaskUnavailable
		}
		st.Status = StatusTaken
		st.Progress = ProgressInProgress
		st.AssignedTo = &userID
		return tx.Save(&st).Error
	})
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func (r *taskRepository) lockForUpdate(tx *gorm.DB) *gorm.DB {
	// sqlite has no FOR UPDATE; its single writer serializes the claim anyway
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// --- Shared lookups ---

func (r *taskRepository) IsTeamLeader(teamCode string, userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&team.Team{}).Where("team_code = ? AND leader_id = ?", teamCode, userID).Count(&count).Error
	return count > 0, err
}

func (r *taskRepository) GetUserTeam(userID uint) (string, error) {
	var u user.User
	if err := r.db.Select("team_code").First(&u, userID).Error; err != nil {
		return "", err
	}
	return u.TeamCode, nil
}
