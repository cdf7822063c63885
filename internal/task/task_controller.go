package task

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rohandevadiga3333/wiz/config"
	"github.com/rohandevadiga3333/wiz/internal/middleware"
	"github.com/rohandevadiga3333/wiz/pkg/utils"
	"gorm.io/gorm"
)

type TaskController struct {
	repo   TaskRepository
	config *config.Config
}

func NewTaskController(repo TaskRepository, cfg *config.Config) *TaskController {
	return &TaskController{
		repo:   repo,
		config: cfg,
	}
}

type SubtaskInput struct {
	Title       string     `json:"title" binding:"required" example:"Write the parser"`
	Description string     `json:"description"`
	AssignedTo  *uint      `json:"assigned_to"`
	Deadline    *time.Time `json:"deadline"`
}

type CreateTaskRequest struct {
	Title          string         `json:"title" binding:"required" example:"Release 1.2"`
	Description    string         `json:"description"`
	TeamCode       string         `json:"team_code" binding:"required,len=6" example:"AB12CD"`
	Subtasks       []SubtaskInput `json:"subtasks"`
	AssignSpecific bool           `json:"assign_specific"`
}

type UpdateTaskRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

type EditSubtaskRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	AssignedTo  *uint      `json:"assigned_to"`
	Deadline    *time.Time `json:"deadline"`
}

type AssignSubtaskRequest struct {
	AssignedTo uint `json:"assigned_to" binding:"required" example:"42"`
}

type UpdateProgressRequest struct {
	Progress string `json:"progress" binding:"required" example:"in_progress"`
}

type UpdateDeadlineRequest struct {
	Deadline time.Time `json:"deadline" binding:"required"`
}

// loadSubtaskWithTask fetches the subtask, its parent task and the caller's
// leadership standing. Writes the error response itself on failure.
func (tc *TaskController) loadSubtaskWithTask(c *gin.Context) (*Subtask, *Task, uint, bool, bool) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		utils.ErrorJSON(c, http.StatusUnauthorized, "Unauthorized: "+err.Error())
		return nil, nil, 0, false, false
	}

	subtaskID, err := strconv.ParseUint(c.Param("subtaskId"), 10, 32)
	if err != nil {
		utils.ErrorJSON(c, http.StatusBadRequest, "Invalid subtask ID")
		return nil, nil, 0, false, false
	}

	st, err := tc.repo.GetSubtaskByID(uint(subtaskID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.ErrorJSON(c, http.StatusNotFound, "Subtask not found")
			return nil, nil, 0, false, false
		}
		utils.ErrorJSON(c, http.StatusInternalServerError, "Failed to retrieve subtask")
		return nil, nil, 0, false, false
	}
	if st.Task == nil {
		utils.ErrorJSON(c, http.StatusNotFound, "Parent task not found")
		return nil, nil, 0, false, false
	}

	isLeader, err := tc.repo.IsTeamLeader(st.Task.TeamCode, userID)
	if err != nil {
		utils.ErrorJSON(c, http.StatusInternalServerError, "Failed to verify team leadership")
		return nil, nil, 0, false, false
	}

	return st, st.Task, userID, isLeader, true
}

// loadTask is the task-level counterpart of loadSubtaskWithTask.
func (tc *TaskController) loadTask(c *gin.Context) (*Task, uint, bool, bool) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		utils.ErrorJSON(c, http.StatusUnauthorized, "Unauthorized: "+err.Error())
		return nil, 0, false, false
	}

	taskID, err := strconv.ParseUint(c.Param("taskId"), 10, 32)
	if err != nil {
		utils.ErrorJSON(c, http.StatusBadRequest, "Invalid task ID")
		return nil, 0, false, false
	}

	t, err := tc.repo.GetTaskByID(uint(taskID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.ErrorJSON(c, http.StatusNotFound, "Task not found")
			return nil, 0, false, false
		}
		utils.ErrorJSON(c, http.StatusInternalServerError, "Failed to retrieve task")
		return nil, 0, false, false
	}

	isLeader, err := tc.repo.IsTeamLeader(t.TeamCode, userID)
	if err != nil {
		utils.ErrorJSON(c, http.StatusInternalServerError, "Failed to verify team leadership")
		return nil, 0, false, false
	}

	return t, userID, isLeader, true
}

// @Summary      Create a task with subtasks
// @Description  Atomically creates a task and its subtasks. With assign_specific, subtasks carrying an assignee start assigned.
// @Tags         Tasks
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        task  body  CreateTaskRequest  true  "Task details"
// @Success      201   {object} Task
// @Failure      400   {object} utils.ErrorResponse "Validation error"
// @Failure      403   {object} utils.ErrorResponse "Caller does not belong to this team"
// @Failure      500   {object} utils.ErrorResponse "Internal server error"
// @Router       /tasks/create [post]
func (tc *TaskController) CreateTask(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		utils.ErrorJSON(c, http.StatusUnauthorized, "Unauthorized: "+err.Error())
		return
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorJSON(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	teamCode := strings.ToUpper(req.TeamCode)
	callerTeam, err := tc.repo.GetUserTeam(userID)
	if err != nil {
		utils.ErrorJSON(c, http.StatusInternalServerError, "Failed to look up caller")
		return
	}
	if callerTeam != teamCode {
		utils.ErrorJSON(c, http.StatusForbidden, "You can only create tasks for your own team")
		return
	}

	newTask := &Task{
		Title:       req.Title,
		Description: req.Description,
		TeamCode:    teamCode,
		CreatedBy:   userID,
		Status:      FilterActive,
	}
	for _, in := range req.Subtasks {
		assigned := req.AssignSpecific && in.AssignedTo != nil
		status, progress := InitialState(assigned)
		st := Subtask{
			Title:       in.Title,
			Description: in.Description,
			Status:      status,
			Progress:    progress,
			Deadline:    in.Deadline,
		}
		if assigned {
			st.AssignedTo = in.AssignedTo
		}
		newTask.Subtasks = append(newTask.Subtasks, st)
	}

	if err := tc.repo.CreateTaskWithSubtasks(newTask); err != nil {
		log.Printf("task creation failed: %v", err)
		utils.ErrorJSON(c, http.StatusInternalServerError, "Task creation failed")
		return
	}

	c.JSON(http.StatusCreated, newTask)
}

// @Summary      List a team's tasks
// @Tags         Tasks
// @Security     BearerAuth
// @Produce      json
// @Param        teamCode  path  string  true  "Team code"
// @Success      200 {array} Task
// @Router       /tasks/team/{teamCode} [get]
func (tc *TaskController) GetTeamTasks(c *gin.Context) {
	teamCode := strings.ToUpper(c.Param("teamCode"))
	tasks, err := tc.repo.GetTasksByTeam(teamCode)
	if err != nil {
		utils.ErrorJSON(c, http.StatusInternalServerError, "Failed to retrieve tasks")
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// @Summary      List tasks with available subtasks
// @Tags         Tasks
// @Security     BearerAuth
// @Produce      json
// @Param        teamCode  path  string  true  "Team code"
// @Success      200 {array} Task
// @Router       /tasks/team/{teamCode}/available [get]
func (tc *TaskController) GetAvailableTasks(c *gin.Context) {
	teamCode := strings.ToUpper(c.Param("teamCode"))
	tasks, err := tc.repo.GetTasksWithAvailableSubtasks(teamCode)
	if err != nil {
		utils.ErrorJSON(c, http.StatusInternalServerError, "Failed to retrieve tasks")
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// @Summary      List tasks filtered by completion
// @Description  A task is completed when it has at least one subtask and all of them are completed; everything else, including tasks with no subtasks, is active.
// @Tags         Tasks
// @Security     BearerAuth
// @Produce      json
// @Param        teamCode  path  string  true  "Team code"
// @Param        status    path  string  true  "active or completed"
// @Success      200 {array} Task
// @Failure      400 {object} utils.ErrorResponse "Unknown status filter"
// @Router       /tasks/team/{teamCode}/status/{status} [get]
func (tc *TaskController) GetTasksByStatus(c *gin.Context) {
	teamCode := strings.ToUpper(c.Param("teamCode"))
	status := c.Param("status")
	if status != FilterActive && status != FilterCompleted {
		utils.ErrorJSON(c, http.StatusBadRequest, "Status must be 'active' or 'completed'")
		return
	}

	tasks, err := tc.repo.GetTasksByTeam(teamCode)
	if err != nil {
		utils.ErrorJSON(c, http.StatusInternalServerError, "Failed to retrieve tasks")
		return
	}

	filtered := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if t.IsCompleted() == (status == FilterCompleted) {
			filtered = append(filtered, t)
		}
	}
	c.JSON(http.StatusOK, filtered)
}

// @Summary      Get a task
// @Tags         Tasks
// @Security     BearerAuth
// @Produce      json
// @Param        taskId  path  int  true  "Task ID"
// @Success      200 {object} Task
// @Failure      404 {object} utils.ErrorResponse "Task not found"
// @Router       /tasks/{taskId} [get]
func (tc *TaskController) GetTask(c *gin.Context) {
	taskID, err := strconv.ParseUint(c.Param("taskId"), 10, 32)
	if err != nil {
		utils.ErrorJSON(c, http.StatusBadRequest, "Invalid task ID")
		return
	}

	t, err := tc.repo.GetTaskByID(uint(taskID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.ErrorJSON(c, http.StatusNotFound, "Task not found")
			return
		}
		utils.ErrorJSON(c, http.StatusInternalServerError, "Failed to retrieve task")
		return
	}
	c.JSON(http.StatusOK, t)
}

// @Summary      Edit a task
// @Tags         Tasks
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        taskId  path  int  true  "Task ID"
// @Param        task    body  UpdateTaskRequest  true  "New task fields"
// @Success      200 {object} Task
// @Failure      403 {object} utils.ErrorResponse "Not the creator or team leader"
// @Failure      404 {object} utils.ErrorResponse "Task not found"
// @Router       /tasks/{taskId} [put]
func (tc *TaskController) UpdateTask(c *gin.Context) {
	t, userID, isLeader, ok := tc.loadTask(c)
	if !ok {
		return
	}

	if !CanModifyTask(userID, isLeader, t) {
		utils.ErrorJSON(c, http.StatusForbidden, "Only the task creator or team leader can modify this task")
		return
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorJSON(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	t.Title = req.Title
	t.Description = req.Description
	if err := tc.repo.UpdateTask(t); err != nil {
		log.Printf("task %d update failed: %v", t.ID, err)
		utils.ErrorJSON(c, http.StatusInternalServerError, "Failed to update task")
		return
	}
	c.JSON(http.StatusOK, t)
}

// @Summary      Delete a task and its subtasks
// @Tags         Tasks
// @Security     BearerAuth
// @Produce      json
// @Param        taskId  path  int  true  "Task ID"
// @Success      200 {object} utils.MessageResponse
// @Failure      403 {object} utils.ErrorResponse "Not the creator or team leader"
// @Failure      404 {object} utils.ErrorResponse "Task not found"
// @Router       /tasks/{taskId} [delete]
func (tc *TaskController) DeleteTask(c *gin.Context) {
	t, userID, isLeader, ok := tc.loadTask(c)
	if !ok {
		return
	}

	if !CanModifyTask(userID, isLeader, t) {
		utils.ErrorJSON(c, http.StatusForbidden, "Only the task creator or team leader can delete this task")
		return
	}

	if err := tc.repo.DeleteTask(t.ID); err != nil {
		log.Printf("task %d deletion failed: %v", t.ID, err)
		utils.ErrorJSON(c, http.StatusInternalServerError, "Failed to delete task")
		return
	}
	utils.MessageJSON(c, http.StatusOK, "Task deleted")
}

// @Summary      Take an available subtask
// @Description  Claim protocol: the row is locked, availability is re-checked inside the transaction, then the subtask becomes taken/in_progress for the caller.
// @Tags         Subtasks
// @Security     BearerAuth
// @Produce      json
// @Param        subtaskId  path  int  true  "Subtask ID"
// @Success      200 {object} Subtask
// @Failure      404 {object} utils.ErrorResponse "Subtask not found"
// @Failure      409 {object} utils.ErrorResponse "Subtask already claimed"
// @Router       /tasks/subtask/{subtaskId}/take [put]
func (tc *TaskController) TakeSubtask(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		utils.ErrorJSON(c, http.StatusUnauthorized, "Unauthorized: "+err.Error())
		return
	}

	subtaskID, err := strconv.ParseUint(c.Param("subtaskId"), 10, 32)
	if err != nil {
		utils.ErrorJSON(c, http.StatusBadRequest, "Invalid subtask ID")
		return
	}

	st, err := tc.repo.ClaimSubtask(uint(subtaskID), userID)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			utils.ErrorJSON(c, http.StatusNotFound, "Subtask not found")
		case errors.Is(err, ErrSubtaskUnavailable):
			utils.ErrorJSON(c, http.StatusConflict, "Subtask is no longer available")
		default:
			log.Printf("subtask %d claim failed: %v", subtaskID, err)
			utils.ErrorJSON(c, http.StatusInternalServerError, "Failed to take subtask")
		}
		return
	}
	c.JSON(http.StatusOK, st)
}

// @Summary      Assign a subtask to a member
// @Description  Leader-directed assignment: overwrites the current assignee without an availability check.
// @Tags         Subtasks
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        subtaskId  path  int  true  "Subtask ID"
// @Param        request    body  AssignSubtaskRequest  true  "Assignee"
// @Success      200 {object} utils.MessageResponse
// @Failure      403 {object} utils.ErrorResponse "Not the creator or team leader"
// @Failure      404 {object} utils.ErrorResponse "Subtask not found"
// @Router       /tasks/subtask/{subtaskId}/assign-to [put]
func (tc *TaskController) AssignSubtask(c *gin.Context) {
	st, t, userID, isLeader, ok := tc.loadSubtaskWithTask(c)
	if !ok {
		return
	}

	if !CanModifyTask(userID, isLeader, t) {
		utils.ErrorJSON(c, http.StatusForbidden, "Only the task creator or team leader can assign subtasks")
		return
	}

	var req AssignSubtaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorJSON(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	fields := map[string]interface{}{
		"assigned_to": req.AssignedTo,
		"status":      StatusAssigned,
		"progress":    ProgressAssigned,
	}
	if err := tc.repo.UpdateSubtaskFields(st.ID, fields); err != nil {
		log.Printf("subtask %d assignment failed: %v", st.ID, err)
		utils.ErrorJSON(c, http.StatusInternalServerError, "Failed to assign subtask")
		return
	}
	utils.MessageJSON(c, http.StatusOK, "Subtask assigned")
}

// @Summary      Update subtask progress
// @Description  Allowed for the assignee, the task creator or the team leader. The status follows the progress: completed completes the subtask, in_progress promotes an assigned subtask to taken.
// @Tags         Subtasks
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        subtaskId  path  int  true  "Subtask ID"
// @Param        request    body  UpdateProgressRequest  true  "New progress"
// @Success      200 {object} Subtask
// @Failure      400 {object} utils.ErrorResponse "Unknown progress value"
// @Failure      403 {object} utils.ErrorResponse "Not allowed to update this subtask"
// @Failure      404 {object} utils.ErrorResponse "Subtask not found"
// @Router       /tasks/subtask/{subtaskId}/progress [put]
func (tc *TaskController) UpdateProgress(c *gin.Context) {
	st, t, userID, isLeader, ok := tc.loadSubtaskWithTask(c)
	if !ok {
		return
	}

	if !CanUpdateProgress(userID, isLeader, t, st) {
		utils.ErrorJSON(c, http.StatusForbidden, "Only the assignee, task creator or team leader can update progress")
		return
	}

	var req UpdateProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorJSON(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if !ValidProgress(req.Progress) {
		utils.ErrorJSON(c, http.StatusBadRequest, "Unknown progress value")
		return
	}

	st.Progress = req.Progress
	st.Status = NextStatus(st.Status, req.Progress)
	fields := map[string]interface{}{
		"progress": st.Progress,
		"status":   st.Status,
	}
	if err := tc.repo.UpdateSubtaskFields(st.ID, fields); err != nil {
		log.Printf("subtask %d progress update failed: %v", st.ID, err)
		utils.ErrorJSON(c, http.StatusInternalServerError, "Failed to update progress")
		return
	}
	st.Task = nil
	c.JSON(http.StatusOK, st)
}

// @Summary      Update a subtask deadline
// @Tags         Subtasks
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        subtaskId  path  int  true  "Subtask ID"
// @Param        request    body  UpdateDeadlineRequest  true  "New deadline"
// @Success      200 {object} utils.MessageResponse
// @Failure      403 {object} utils.ErrorResponse "Not the creator or team leader"
// @Failure      404 {object} utils.ErrorResponse "Subtask not found"
// @Router       /tasks/subtask/{subtaskId}/deadline [put]
func (tc *TaskController) UpdateDeadline(c *gin.Context) {
	st, t, userID, isLeader, ok := tc.loadSubtaskWithTask(c)
	if !ok {
		return
	}

	if !CanModifyTask(userID, isLeader, t) {
		utils.ErrorJSON(c, http.StatusForbidden, "Only the task creator or team leader can set deadlines")
		return
	}

	var req UpdateDeadlineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorJSON(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if err := tc.repo.UpdateSubtaskFields(st.ID, map[string]interface{}{"deadline": req.Deadline}); err != nil {
		log.Printf("subtask %d deadline update failed: %v", st.ID, err)
		utils.ErrorJSON(c, http.StatusInternalServerError, "Failed to update deadline")
		return
	}
	utils.MessageJSON(c, http.StatusOK, "Deadline updated")
}

// @Summary      Edit a subtask
// @Description  Rewrites the subtask; status and progress are recomputed from the assignee exactly like creation, discarding any prior progress.
// @Tags         Subtasks
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        subtaskId  path  int  true  "Subtask ID"
// @Param        request    body  EditSubtaskRequest  true  "New subtask fields"
// @Success      200 {object} Subtask
// @Failure      403 {object} utils.ErrorResponse "Not the creator or team leader"
// @Failure      404 {object} utils.ErrorResponse "Subtask not found"
// @Router       /tasks/subtask/{subtaskId} [put]
func (tc *TaskController) EditSubtask(c *gin.Context) {
	st, t, userID, isLeader, ok := tc.loadSubtaskWithTask(c)
	if !ok {
		return
	}

	if !CanModifyTask(userID, isLeader, t) {
		utils.ErrorJSON(c, http.StatusForbidden, "Only the task creator or team leader can edit this subtask")
		return
	}

	var req EditSubtaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorJSON(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	status, progress := InitialState(req.AssignedTo != nil)
	fields := map[string]interface{}{
		"title":       req.Title,
		"description": req.Description,
		"assigned_to": req.AssignedTo,
		"status":      status,
		"progress":    progress,
		"deadline":    req.Deadline,
	}
	if err := tc.repo.UpdateSubtaskFields(st.ID, fields); err != nil {
		log.Printf("subtask %d edit failed: %v", st.ID, err)
		utils.ErrorJSON(c, http.StatusInternalServerError, "Failed to edit subtask")
		return
	}

	st.Title = req.Title
	st.Description = req.Description
	st.AssignedTo = req.AssignedTo
	st.Status = status
	st.Progress = progress
	st.Deadline = req.Deadline
	st.Task = nil
	c.JSON(http.StatusOK, st)
}

// @Summary      Delete a subtask
// @Tags         Subtasks
// @Security     BearerAuth
// @Produce      json
// @Param        subtaskId  path  int  true  "Subtask ID"
// @Success      200 {object} utils.MessageResponse
// @Failure      403 {object} utils.ErrorResponse "Not the creator or team leader"
// @Failure      404 {object} utils.ErrorResponse "Subtask not found"
// @Router       /tasks/subtask/{subtaskId} [delete]
func (tc *TaskController) DeleteSubtask(c *gin.Context) {
	st, t, userID, isLeader, ok := tc.loadSubtaskWithTask(c)
	if !ok {
		return
	}

	if !CanModifyTask(userID, isLeader, t) {
		utils.ErrorJSON(c, http.StatusForbidden, "Only the task creator or team leader can delete this subtask")
		return
	}

	if err := tc.repo.DeleteSubtask(st.ID); err != nil {
		log.Printf("subtask %d deletion failed: %v", st.ID, err)
		utils.ErrorJSON(c, http.StatusInternalServerError, "Failed to delete subtask")
		return
	}
	utils.MessageJSON(c, http.StatusOK, "Subtask deleted")
}

// @Summary      List subtasks assigned to a user
// @Tags         Subtasks
// @Security     BearerAuth
// @Produce      json
// @Param        userId  path  int  true  "User ID"
// @Success      200 {array} Subtask
// @Router       /tasks/user/{userId}/subtasks [get]
func (tc *TaskController) GetUserSubtasks(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("userId"), 10, 32)
	if err != nil {
		utils.ErrorJSON(c, http.StatusBadRequest, "Invalid user ID")
		return
	}

	subtasks, err := tc.repo.GetSubtasksByUser(uint(userID))
	if err != nil {
		utils.ErrorJSON(c, http.StatusInternalServerError, "Failed to retrieve subtasks")
		return
	}
	c.JSON(http.StatusOK, subtasks)
}
