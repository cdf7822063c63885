package task

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextStatus(t *testing.T) {
	cases := []struct {
		name     string
		current  string
		progress string
		want     string
	}{
		{"completed progress completes", StatusTaken, ProgressCompleted, StatusCompleted},
		{"completed progress completes assigned too", StatusAssigned, ProgressCompleted, StatusCompleted},
		{"in_progress promotes assigned to taken", StatusAssigned, ProgressInProgress, StatusTaken},
		{"in_progress leaves taken alone", StatusTaken, ProgressInProgress, StatusTaken},
		{"testing leaves status alone", StatusTaken, ProgressTesting, StatusTaken},
		{"not_started leaves status alone", StatusAvailable, ProgressNotStarted, StatusAvailable},
		{"assigned progress leaves status alone", StatusAssigned, ProgressAssigned, StatusAssigned},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NextStatus(tc.current, tc.progress))
		})
	}
}

func TestInitialState(t *testing.T) {
	status, progress := InitialState(true)
	assert.Equal(t, StatusAssigned, status)
	assert.Equal(t, ProgressAssigned, progress)

	status, progress = InitialState(false)
	assert.Equal(t, StatusAvailable, status)
	assert.Equal(t, ProgressNotStarted, progress)
}

func TestValidProgress(t *testing.T) {
	for _, p := range []string{ProgressNotStarted, ProgressAssigned, ProgressInProgress, ProgressTesting, ProgressCompleted} {
		assert.True(t, ValidProgress(p), p)
	}
	assert.False(t, ValidProgress("done"))
	assert.False(t, ValidProgress(""))
}

func TestTaskIsCompleted(t *testing.T) {
	empty := &Task{}
	assert.False(t, empty.IsCompleted(), "a task with no subtasks stays active")

	mixed := &Task{Subtasks: []Subtask{
		{Status: StatusCompleted},
		{Status: StatusTaken},
	}}
	assert.False(t, mixed.IsCompleted())

	done := &Task{Subtasks: []Subtask{
		{Status: StatusCompleted},
		{Status: StatusCompleted},
	}}
	assert.True(t, done.IsCompleted())
}
