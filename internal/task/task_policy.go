package task

// Authorization policy for task and subtask mutations, shared by every
// handler instead of re-deriving the checks per route.

// CanModifyTask reports whether the user may edit or delete the task: only
// the task's creator or the team's leader.
func CanModifyTask(userID uint, isLeader bool, t *Task) bool {
	return t.CreatedBy == userID || isLeader
}

// CanUpdateProgress additionally allows the subtask's current assignee.
func CanUpdateProgress(userID uint, isLeader bool, t *Task, st *Subtask) bool {
	if st.AssignedTo != nil && *st.AssignedTo == userID {
		return true
	}
	return CanModifyTask(userID, isLeader, t)
}
