package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/rohandevadiga3333/wiz/internal/task"
	"github.com/rohandevadiga3333/wiz/internal/team"
	"github.com/rohandevadiga3333/wiz/internal/user"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&user.User{}, &team.Team{}, &task.Task{}, &task.Subtask{}))
	return db
}

func seedLeader(t *testing.T, repo AuthRepository) *user.User {
	t.Helper()
	leader := &user.User{
		Email:    "leader@example.com",
		Password: "hashed",
		Name:     "Asha",
		Role:     user.RoleLeader,
		TeamCode: "AB12CD",
		Status:   user.StatusApproved,
	}
	tm := &team.Team{TeamCode: "AB12CD", TeamName: "Platform"}
	require.NoError(t, repo.CreateLeaderWithTeam(leader, tm))
	return leader
}

func seedMember(t *testing.T, repo AuthRepository, email, status string) *user.User {
	t.Helper()
	m := &user.User{
		Email:    email,
		Password: "hashed",
		Name:     "Ravi",
		Role:     user.RoleMember,
		TeamCode: "AB12CD",
		Status:   status,
	}
	require.NoError(t, repo.CreateUser(m))
	return m
}

func TestCreateLeaderWithTeam(t *testing.T) {
	repo := NewAuthRepository(setupTestDB(t))
	leader := seedLeader(t, repo)
	require.NotZero(t, leader.ID)

	tm, err := repo.GetTeamByCode("AB12CD")
	require.NoError(t, err)
	assert.Equal(t, leader.ID, tm.LeaderID)
	assert.Equal(t, "Platform", tm.TeamName)

	isLeader, err := repo.IsTeamLeader("AB12CD", leader.ID)
	require.NoError(t, err)
	assert.True(t, isLeader)
}

func TestCreateLeaderWithTeam_RollsBackOnDuplicateCode(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAuthRepository(db)
	seedLeader(t, repo)

	second := &user.User{
		Email:    "second@example.com",
		Password: "hashed",
		Name:     "Mira",
		Role:     user.RoleLeader,
		TeamCode: "AB12CD",
		Status:   user.StatusApproved,
	}
	err := repo.CreateLeaderWithTeam(second, &team.Team{TeamCode: "AB12CD", TeamName: "Clone"})
	require.Error(t, err)

	// The user insert must have been rolled back with the team insert.
	_, err = repo.GetUserByEmail("second@example.com")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestTransitionMemberStatus(t *testing.T) {
	repo := NewAuthRepository(setupTestDB(t))
	leader := seedLeader(t, repo)
	m := seedMember(t, repo, "member@example.com", user.StatusPending)

	rows, err := repo.TransitionMemberStatus(m.ID, "AB12CD", user.StatusPending, user.StatusApproved, leader.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	got, err := repo.GetUserByID(m.ID)
	require.NoError(t, err)
	assert.Equal(t, user.StatusApproved, got.Status)
	require.NotNil(t, got.ApprovedBy)
	assert.Equal(t, leader.ID, *got.ApprovedBy)
	assert.NotNil(t, got.ApprovedAt)

	// Approving again is a no-op: the status guard no longer matches.
	rows, err = repo.TransitionMemberStatus(m.ID, "AB12CD", user.StatusPending, user.StatusApproved, leader.ID)
	require.NoError(t, err)
	assert.Zero(t, rows)
}

func TestTransitionMemberStatus_WrongTeam(t *testing.T) {
	repo := NewAuthRepository(setupTestDB(t))
	leader := seedLeader(t, repo)
	m := seedMember(t, repo, "member@example.com", user.StatusPending)

	rows, err := repo.TransitionMemberStatus(m.ID, "ZZ99ZZ", user.StatusPending, user.StatusApproved, leader.ID)
	require.NoError(t, err)
	assert.Zero(t, rows)
}

func TestTransitionMemberStatus_NeverTouchesLeaders(t *testing.T) {
	repo := NewAuthRepository(setupTestDB(t))
	leader := seedLeader(t, repo)

	rows, err := repo.TransitionMemberStatus(leader.ID, "AB12CD", user.StatusApproved, user.StatusRejected, leader.ID)
	require.NoError(t, err)
	assert.Zero(t, rows)
}

func TestListTeamMembersByStatus(t *testing.T) {
	repo := NewAuthRepository(setupTestDB(t))
	seedLeader(t, repo)
	seedMember(t, repo, "pending@example.com", user.StatusPending)
	seedMember(t, repo, "approved@example.com", user.StatusApproved)
	seedMember(t, repo, "rejected@example.com", user.StatusRejected)

	pending, err := repo.ListTeamMembersByStatus("AB12CD", user.StatusPending)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "pending@example.com", pending[0].Email)

	// The leader never shows up in member listings.
	all, err := repo.ListTeamMembersByStatus("AB12CD", user.StatusApproved)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "approved@example.com", all[0].Email)
}

func TestDeleteRejectedMember(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAuthRepository(db)
	seedLeader(t, repo)
	rejected := seedMember(t, repo, "rejected@example.com", user.StatusRejected)
	pending := seedMember(t, repo, "pending@example.com", user.StatusPending)

	rows, err := repo.DeleteRejectedMember(rejected.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	var count int64
	require.NoError(t, db.Unscoped().Model(&user.User{}).Where("id = ?", rejected.ID).Count(&count).Error)
	assert.Zero(t, count, "a removed rejected member leaves no row behind")

	// Only rejected members qualify.
	rows, err = repo.DeleteRejectedMember(pending.ID)
	require.NoError(t, err)
	assert.Zero(t, rows)
}

func TestDeleteTeamMember_ReleasesSubtasks(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAuthRepository(db)
	seedLeader(t, repo)
	m := seedMember(t, repo, "member@example.com", user.StatusApproved)

	owned := task.Task{Title: "Release 1.2", TeamCode: "AB12CD", CreatedBy: 1, Status: "active"}
	require.NoError(t, db.Create(&owned).Error)
	st := task.Subtask{
		TaskID:     owned.ID,
		Title:      "Write the parser",
		AssignedTo: &m.ID,
		Status:     task.StatusTaken,
		Progress:   task.ProgressInProgress,
	}
	require.NoError(t, db.Create(&st).Error)

	require.NoError(t, repo.DeleteTeamMember(m.ID))

	var got task.Subtask
	require.NoError(t, db.First(&got, st.ID).Error)
	assert.Nil(t, got.AssignedTo)
	assert.Equal(t, task.StatusAvailable, got.Status)
	assert.Equal(t, task.ProgressNotStarted, got.Progress)

	var count int64
	require.NoError(t, db.Unscoped().Model(&user.User{}).Where("id = ?", m.ID).Count(&count).Error)
	assert.Zero(t, count)
}
