package worker

import (
	"context"

	"text2phenotype.com/postagger/s3client"
)

type s3Transactions interface {
	saveResultsFile(ctx context.Context, task *Task, result string) error
	getInputText(ctx context.Context, task *Task) ([]byte, error)
	close()
}

type s3ClientWrapper struct {
	s3Client *s3client.Client
}

func (wrapper *s3ClientWrapper) close() {}

func (wrapper *s3ClientWrapper) saveResultsFile(ctx context.Context, task *Task, result string) error {
	return wrapper.s3Client.Upload(ctx, result, getResultsFileKey(task))
}

func (wrapper *s3ClientWrapper) getInputText(ctx context.Context, task *Task) ([]byte, error) {
	return wrapper.s3Client.Download(ctx, task.message.InputKey)
}
