package task

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/rohandevadiga3333/wiz/internal/team"
	"github.com/rohandevadiga3333/wiz/internal/user"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&user.User{}, &team.Team{}, &Task{}, &Subtask{}))
	return db
}

func seedTask(t *testing.T, repo TaskRepository, subtasks ...Subtask) *Task {
	t.Helper()
	task := &Task{
		Title:     "Release 1.2",
		TeamCode:  "AB12CD",
		CreatedBy: 1,
		Status:    FilterActive,
		Subtasks:  subtasks,
	}
	require.NoError(t, repo.CreateTaskWithSubtasks(task))
	return task
}

func TestCreateTaskWithSubtasks(t *testing.T) {
	repo := NewTaskRepository(setupTestDB(t))

	created := seedTask(t, repo,
		Subtask{Title: "Write the parser", Status: StatusAvailable, Progress: ProgressNotStarted},
		Subtask{Title: "Write the docs", Status: StatusAvailable, Progress: ProgressNotStarted},
	)
	require.NotZero(t, created.ID)

	got, err := repo.GetTaskByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Release 1.2", got.Title)
	require.Len(t, got.Subtasks, 2)
	assert.Equal(t, created.ID, got.Subtasks[0].TaskID)
}

func TestClaimSubtask(t *testing.T) {
	repo := NewTaskRepository(setupTestDB(t))
	created := seedTask(t, repo,
		Subtask{Title: "Write the parser", Status: StatusAvailable, Progress: ProgressNotStarted},
	)
	subtaskID := created.Subtasks[0].ID

	st, err := repo.ClaimSubtask(subtaskID, 5)
	require.NoError(t, err)
	assert.Equal(t, StatusTaken, st.Status)
	assert.Equal(t, ProgressInProgress, st.Progress)
	require.NotNil(t, st.AssignedTo)
	assert.Equal(t, uint(5), *st.AssignedTo)

	// Second claim loses; the first claimant keeps the subtask.
	_, err = repo.ClaimSubtask(subtaskID, 6)
	require.ErrorIs(t, err, ErrSubtaskUnavailable)

	got, err := repo.GetSubtaskByID(subtaskID)
	require.NoError(t, err)
	assert.Equal(t, uint(5), *got.AssignedTo)
}

func TestClaimSubtask_NotFound(t *testing.T) {
	repo := NewTaskRepository(setupTestDB(t))
	_, err := repo.ClaimSubtask(999, 5)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestClaimSubtask_AssignedIsUnavailable(t *testing.T) {
	repo := NewTaskRepository(setupTestDB(t))
	assignee := uint(3)
	created := seedTask(t, repo,
		Subtask{Title: "Write the parser", AssignedTo: &assignee, Status: StatusAssigned, Progress: ProgressAssigned},
	)

	_, err := repo.ClaimSubtask(created.Subtasks[0].ID, 5)
	assert.ErrorIs(t, err, ErrSubtaskUnavailable)
}

func TestDeleteTask_RemovesSubtasks(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTaskRepository(db)
	created := seedTask(t, repo,
		Subtask{Title: "Write the parser", Status: StatusAvailable, Progress: ProgressNotStarted},
		Subtask{Title: "Write the docs", Status: StatusAvailable, Progress: ProgressNotStarted},
	)

	require.NoError(t, repo.DeleteTask(created.ID))

	_, err := repo.GetTaskByID(created.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var count int64
	require.NoError(t, db.Unscoped().Model(&Subtask{}).Where("task_id = ?", created.ID).Count(&count).Error)
	assert.Zero(t, count, "no orphaned subtask rows may survive, soft-deleted included")
}

func TestGetTasksWithAvailableSubtasks(t *testing.T) {
	repo := NewTaskRepository(setupTestDB(t))
	assignee := uint(3)

	withAvailable := seedTask(t, repo,
		Subtask{Title: "Write the parser", Status: StatusAvailable, Progress: ProgressNotStarted},
		Subtask{Title: "Write the docs", AssignedTo: &assignee, Status: StatusAssigned, Progress: ProgressAssigned},
	)
	seedTask(t, repo,
		Subtask{Title: "Fully assigned", AssignedTo: &assignee, Status: StatusAssigned, Progress: ProgressAssigned},
	)

	tasks, err := repo.GetTasksWithAvailableSubtasks("AB12CD")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, withAvailable.ID, tasks[0].ID)
	require.Len(t, tasks[0].Subtasks, 1, "only the available subtasks are preloaded")
	assert.Equal(t, StatusAvailable, tasks[0].Subtasks[0].Status)
}

func TestUpdateSubtaskFields_NotFound(t *testing.T) {
	repo := NewTaskRepository(setupTestDB(t))
	err := repo.UpdateSubtaskFields(999, map[string]interface{}{"title": "nope"})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestGetSubtasksByUser(t *testing.T) {
	repo := NewTaskRepository(setupTestDB(t))
	created := seedTask(t, repo,
		Subtask{Title: "Write the parser", Status: StatusAvailable, Progress: ProgressNotStarted},
	)

	_, err := repo.ClaimSubtask(created.Subtasks[0].ID, 5)
	require.NoError(t, err)

	mine, err := repo.GetSubtasksByUser(5)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Write the parser", mine[0].Title)

	none, err := repo.GetSubtasksByUser(6)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestIsTeamLeader(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTaskRepository(db)
	require.NoError(t, db.Create(&team.Team{TeamCode: "AB12CD", TeamName: "Platform", LeaderID: 1}).Error)

	isLeader, err := repo.IsTeamLeader("AB12CD", 1)
	require.NoError(t, err)
	assert.True(t, isLeader)

	isLeader, err = repo.IsTeamLeader("AB12CD", 2)
	require.NoError(t, err)
	assert.False(t, isLeader)
}
