package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"text2phenotype.com/postagger/redis"
)

type TaskStatus string

const (
	TaskStatusSubmitted        TaskStatus = "submitted"
	TaskStatusStarted          TaskStatus = "started"
	TaskStatusFailed           TaskStatus = "failed"
	TaskStatusCompletedSuccess TaskStatus = "completed - success"
	TaskStatusCompletedFailure TaskStatus = "completed - failure"
	TaskStatusCanceled         TaskStatus = "canceled"
)

func (s TaskStatus) Complete() bool {
	return s == TaskStatusCompletedSuccess || s == TaskStatusCompletedFailure || s == TaskStatusCanceled
}

const RFC3339Micro = "2006-01-02T15:04:05.000000-07:00"

// JobTask is the status document of one tagging job.
type JobTask struct {
	Tid            string     `json:"tid"`
	InputKey       string     `json:"input_key"`
	ResultsFileKey string     `json:"results_file_key"`
	UserCanceled   bool       `json:"user_canceled"`
	StartedAt      *string    `json:"started_at"`
	CompletedAt    *string    `json:"completed_at"`
	Attempts       int        `json:"attempts"`
	Status         TaskStatus `json:"status"`
	ErrorMessages  []string   `json:"error_messages"`
}

type JobTasks struct {
	client Store
}

func jobKey(tid string) string {
	return fmt.Sprintf("tagging:%s", tid)
}

// Get returns the job document, or a fresh submitted job when none exists yet.
func (tasks JobTasks) Get(ctx context.Context, tid string) (*JobTask, error) {
	task := JobTask{Tid: tid, Status: TaskStatusSubmitted}
	err := tasks.client.GetDoc(ctx, jobKey(tid), &task)
	if err != nil && !errors.Is(err, redis.ErrNotFound) {
		return nil, err
	}
	return &task, nil
}

func (tasks JobTasks) Update(ctx context.Context, tid string, updateFunc func(task *JobTask)) error {
	task := JobTask{Tid: tid, Status: TaskStatusSubmitted}
	return tasks.client.UpdateDoc(ctx, jobKey(tid), &task, func() {
		updateFunc(&task)
	})
}

func FormattedNow() *string {
	now := time.Now().UTC().Format(RFC3339Micro)
	return &now
}
