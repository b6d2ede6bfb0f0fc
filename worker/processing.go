package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/streadway/amqp"
	"text2phenotype.com/postagger/pipeline"
	"text2phenotype.com/postagger/tasks"
	"text2phenotype.com/postagger/utils"
)

type Message struct {
	Tid      string `json:"tid"`
	InputKey string `json:"input_key"`
}

// Notification is published once a job leaves the worker, whatever its outcome.
type Notification struct {
	Tid            string           `json:"tid"`
	Status         tasks.TaskStatus `json:"status"`
	ResultsFileKey string           `json:"results_file_key,omitempty"`
	Sender         string           `json:"sender"`
}

type Task struct {
	delivery *amqp.Delivery
	job      *tasks.JobTask
	message  *Message
	tid      string
	log      *zerolog.Logger
}

func (worker *Worker) processMessage(ctx context.Context, delivery *amqp.Delivery) {
	rejectLogger := worker.log.With().Str("message_id", delivery.MessageId).Logger()
	task, err := worker.createTask(ctx, delivery)
	if err != nil {
		worker.log.Err(err).
			Str("message_id", delivery.MessageId).
			Str("body", string(delivery.Body)).
			Msg("Failed to create task for delivery")
		worker.rmq.rejectDelivery(delivery, &rejectLogger)
		return
	}
	status, err := worker.processTask(ctx, task)
	if err != nil {
		worker.rmq.rejectDelivery(delivery, &rejectLogger)
		return
	}
	notification := Notification{Tid: task.tid, Status: status, Sender: "tagger"}
	if status == tasks.TaskStatusCompletedSuccess {
		notification.ResultsFileKey = getResultsFileKey(task)
	}
	if err = worker.rmq.notify(task, notification); err != nil {
		task.log.Err(err).Msg("Got error while sending notification")
		worker.rmq.rejectDelivery(delivery, &rejectLogger)
		return
	}
	if err = worker.rmq.acknowledgeDelivery(delivery); err != nil {
		task.log.Err(err).Msg("Failed to acknowledge delivery")
	}
	task.log.Info().Msg("Finished processing RMQ message")
}

func (worker *Worker) createTask(ctx context.Context, delivery *amqp.Delivery) (*Task, error) {
	var message Message
	if err := json.Unmarshal(delivery.Body, &message); err != nil {
		return nil, fmt.Errorf("failed to unmarshal message, got error %w", err)
	}
	if message.Tid == "" {
		return nil, errors.New("message has no tid")
	}
	job, err := worker.redis.getJobTask(ctx, message.Tid)
	if err != nil {
		return nil, fmt.Errorf("failed to query job for message, got error %w", err)
	}
	taskLogger := worker.log.With().Str("tid", message.Tid).Logger()
	return &Task{
		delivery: delivery,
		job:      job,
		message:  &message,
		tid:      message.Tid,
		log:      &taskLogger,
	}, nil
}

// processTask runs the job and returns the status to notify with. An error
// means the job state could not be recorded and the delivery must be retried.
func (worker *Worker) processTask(ctx context.Context, task *Task) (tasks.TaskStatus, error) {
	if status, skip, err := worker.shouldSkipTask(ctx, task); skip || err != nil {
		if err != nil {
			task.log.Err(err).Msg("Got error while trying to decide whether to run task")
		}
		return status, err
	}
	if err := worker.redis.onTaskStarted(ctx, task); err != nil {
		task.log.Err(err).Msg("Failed to update job info")
		return "", fmt.Errorf("failed to update job info: %w", err)
	}
	if err := worker.runPipeline(ctx, task); err != nil {
		task.log.Err(err).Msg("Got error while running pipeline")
		if err = worker.redis.onTaskFailedWithError(ctx, task, err); err != nil {
			return "", err
		}
		return tasks.TaskStatusFailed, nil
	}
	task.log.Info().Msg("Saved results, marking job as complete")
	if err := worker.redis.onTaskComplete(ctx, task); err != nil {
		task.log.Err(err).Msg("Got error while trying to mark job as complete")
		return "", err
	}
	return tasks.TaskStatusCompletedSuccess, nil
}

func (worker *Worker) runPipeline(ctx context.Context, task *Task) (err error) {
	defer utils.RecoverWithError(&err)
	task.log.Info().Msgf("Processing message from RMQ, attempt # %d", task.job.Attempts+1)
	data, err := worker.s3.getInputText(ctx, task)
	if err != nil {
		task.log.Err(err).Caller().Msg("Could not fetch text data from s3")
		return fmt.Errorf("failed fetch data from s3: %w", err)
	}
	request := pipeline.Request{
		Tid:  task.tid,
		Text: string(data),
	}
	result, ok := <-worker.ppln(request)
	if !ok {
		task.log.Error().Msg("Pipeline channel was closed before returning anything")
		return errors.New("pipeline channel was closed before returning anything")
	}
	task.log.Info().Msg("Finished pipeline, saving results to s3")
	if err = worker.s3.saveResultsFile(ctx, task, result); err != nil {
		task.log.Err(err).Msg("Got error while trying to save results")
		return err
	}
	return nil
}

func (worker *Worker) shouldSkipTask(ctx context.Context, task *Task) (tasks.TaskStatus, bool, error) {
	job := task.job
	if job.Status.Complete() {
		task.log.Info().Msg("Job is already done (might indicate issue acking message with RMQ)")
		return job.Status, true, nil
	}
	if job.UserCanceled {
		task.log.Info().Msg("Job was canceled, no need to perform it")
		return tasks.TaskStatusCanceled, true, worker.redis.onTaskCancelled(ctx, task)
	}
	if job.Attempts >= worker.config.TaskMaxRetries {
		task.log.Info().Msg("Tagging job has exceeded retries")
		return tasks.TaskStatusCompletedFailure, true,
			worker.redis.onTaskExceededRetries(ctx, task, worker.config.TaskMaxRetries)
	}
	return "", false, nil
}
