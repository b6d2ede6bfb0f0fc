package worker

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/streadway/amqp"
	"text2phenotype.com/postagger/pipeline"
	"text2phenotype.com/postagger/tasks"
)

type failingMethod struct {
	fail bool
}

type withValue struct {
	fail          bool
	returnedValue interface{}
}

type pipelineMock struct {
	ppln    pipeline.Pipeline
	config  pipelineMockConfig
	calls   pipelineCall
	request pipeline.Request
}

type pipelineMockConfig struct {
	fail   bool
	panic  bool
	result string
}

type pipelineCall struct {
	pipeline bool
}

type redisMock struct {
	config redisMockConfig
	calls  redisMockCalls
}

type redisMockConfig struct {
	getJobTask            withValue
	onTaskCancelled       failingMethod
	onTaskStarted         failingMethod
	onTaskExceededRetries failingMethod
	onTaskFailedWithError failingMethod
	onTaskComplete        failingMethod
}

type redisMockCalls struct {
	getJobTask            bool
	onTaskCancelled       bool
	onTaskStarted         bool
	onTaskExceededRetries bool
	onTaskFailedWithError bool
	onTaskComplete        bool
}

type rmqMock struct {
	config       rmqMockConfig
	calls        rmqMockCalls
	notification Notification
}

type rmqMockConfig struct {
	notify              failingMethod
	acknowledgeDelivery failingMethod
}

type rmqMockCalls struct {
	notify              bool
	acknowledgeDelivery bool
	rejectDelivery      bool
}

type s3Mock struct {
	config    s3MockConfig
	calls     s3MockCalls
	savedKey  string
	savedData string
}

type s3MockConfig struct {
	getInputText    withValue
	saveResultsFile failingMethod
}

type s3MockCalls struct {
	getInputText    bool
	saveResultsFile bool
}

func (mock *s3Mock) close() {}

func (mock *rmqMock) close() {}

func (mock *redisMock) close() {}

func getPipelineMock(config pipelineMockConfig) *pipelineMock {
	mock := pipelineMock{config: config}
	mock.ppln = func(request pipeline.Request) <-chan string {
		mock.calls.pipeline = true
		mock.request = request
		if mock.config.panic {
			panic("pipeline exploded")
		}
		ch := make(chan string, 1)
		if !mock.config.fail {
			ch <- mock.config.result
		}
		close(ch)
		return ch
	}
	return &mock
}

func (mock *redisMock) getJobTask(_ context.Context, tid string) (*tasks.JobTask, error) {
	mock.calls.getJobTask = true
	if mock.config.getJobTask.fail {
		return nil, errors.New("failed to get job task")
	}
	switch job := mock.config.getJobTask.returnedValue.(type) {
	case tasks.JobTask:
		return &job, nil
	default:
		return &tasks.JobTask{Tid: tid, Status: tasks.TaskStatusSubmitted}, nil
	}
}

func (mock *redisMock) onTaskStarted(context.Context, *Task) error {
	mock.calls.onTaskStarted = true
	if mock.config.onTaskStarted.fail {
		return errors.New("failed to update job on start")
	}
	return nil
}

func (mock *redisMock) onTaskCancelled(context.Context, *Task) error {
	mock.calls.onTaskCancelled = true
	if mock.config.onTaskCancelled.fail {
		return errors.New("failed to update job on cancel")
	}
	return nil
}

func (mock *redisMock) onTaskExceededRetries(context.Context, *Task, int) error {
	mock.calls.onTaskExceededRetries = true
	if mock.config.onTaskExceededRetries.fail {
		return errors.New("failed to update job on exceeded retries")
	}
	return nil
}

func (mock *redisMock) onTaskFailedWithError(context.Context, *Task, error) error {
	mock.calls.onTaskFailedWithError = true
	if mock.config.onTaskFailedWithError.fail {
		return errors.New("failed to update job on fail with error")
	}
	return nil
}

func (mock *redisMock) onTaskComplete(context.Context, *Task) error {
	mock.calls.onTaskComplete = true
	if mock.config.onTaskComplete.fail {
		return errors.New("failed to update job on complete")
	}
	return nil
}

func (mock *rmqMock) rejectDelivery(*amqp.Delivery, *zerolog.Logger) {
	mock.calls.rejectDelivery = true
}

func (mock *rmqMock) getDeliveriesCh() <-chan amqp.Delivery {
	return nil
}

func (mock *rmqMock) getReqChanErrorsCh() <-chan *amqp.Error {
	return nil
}

func (mock *rmqMock) getRespChanErrorsCh() <-chan *amqp.Error {
	return nil
}

func (mock *rmqMock) notify(_ *Task, notification Notification) error {
	mock.calls.notify = true
	mock.notification = notification
	if mock.config.notify.fail {
		return errors.New("failed to notify")
	}
	return nil
}

func (mock *rmqMock) acknowledgeDelivery(*amqp.Delivery) error {
	mock.calls.acknowledgeDelivery = true
	if mock.config.acknowledgeDelivery.fail {
		return errors.New("failed to acknowledge delivery")
	}
	return nil
}

func (mock *s3Mock) getInputText(context.Context, *Task) ([]byte, error) {
	mock.calls.getInputText = true
	if mock.config.getInputText.fail {
		return nil, errors.New("mock: failed to load from s3")
	}
	if data, ok := mock.config.getInputText.returnedValue.([]byte); ok {
		return data, nil
	}
	return []byte("some input"), nil
}

func (mock *s3Mock) saveResultsFile(_ context.Context, task *Task, result string) error {
	mock.calls.saveResultsFile = true
	if mock.config.saveResultsFile.fail {
		return errors.New("failed to upload results")
	}
	mock.savedKey = getResultsFileKey(task)
	mock.savedData = result
	return nil
}
