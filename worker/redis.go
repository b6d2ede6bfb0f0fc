package worker

import (
	"context"
	"fmt"

	"text2phenotype.com/postagger/tasks"
)

type redisTransactions interface {
	getJobTask(ctx context.Context, tid string) (*tasks.JobTask, error)
	onTaskStarted(ctx context.Context, task *Task) error
	onTaskCancelled(ctx context.Context, task *Task) error
	onTaskExceededRetries(ctx context.Context, task *Task, maxRetries int) error
	onTaskFailedWithError(ctx context.Context, task *Task, err error) error
	onTaskComplete(ctx context.Context, task *Task) error
	close()
}

type redisClientWrapper struct {
	tasksClient *tasks.Client
}

func (wrapper *redisClientWrapper) close() {
	wrapper.tasksClient.Close()
}

func (wrapper *redisClientWrapper) getJobTask(ctx context.Context, tid string) (*tasks.JobTask, error) {
	return wrapper.tasksClient.Jobs.Get(ctx, tid)
}

func (wrapper *redisClientWrapper) onTaskStarted(ctx context.Context, task *Task) error {
	return wrapper.tasksClient.Jobs.Update(ctx, task.tid, func(job *tasks.JobTask) {
		job.InputKey = task.message.InputKey
		job.Status = tasks.TaskStatusStarted
		job.Attempts += 1
		job.StartedAt = tasks.FormattedNow()
		job.CompletedAt = nil
	})
}

func (wrapper *redisClientWrapper) onTaskCancelled(ctx context.Context, task *Task) error {
	return wrapper.tasksClient.Jobs.Update(ctx, task.tid, func(job *tasks.JobTask) {
		job.Status = tasks.TaskStatusCanceled
		job.CompletedAt = tasks.FormattedNow()
	})
}

func (wrapper *redisClientWrapper) onTaskExceededRetries(ctx context.Context, task *Task, maxRetries int) error {
	return wrapper.tasksClient.Jobs.Update(ctx, task.tid, func(job *tasks.JobTask) {
		job.Status = tasks.TaskStatusCompletedFailure
		job.CompletedAt = tasks.FormattedNow()
		job.ErrorMessages = append(
			job.ErrorMessages,
			fmt.Sprintf("Task has exceeded retries. (Attempts: %d, max retries: %d )", job.Attempts, maxRetries),
		)
	})
}

func (wrapper *redisClientWrapper) onTaskFailedWithError(ctx context.Context, task *Task, err error) error {
	return wrapper.tasksClient.Jobs.Update(ctx, task.tid, func(job *tasks.JobTask) {
		job.Status = tasks.TaskStatusFailed
		job.CompletedAt = tasks.FormattedNow()
		job.ErrorMessages = append(job.ErrorMessages, err.Error())
	})
}

func (wrapper *redisClientWrapper) onTaskComplete(ctx context.Context, task *Task) error {
	return wrapper.tasksClient.Jobs.Update(ctx, task.tid, func(job *tasks.JobTask) {
		if !job.Status.Complete() {
			job.Status = tasks.TaskStatusCompletedSuccess
		}
		job.CompletedAt = tasks.FormattedNow()
		job.ResultsFileKey = getResultsFileKey(task)
	})
}
