package tasks

import (
	"context"

	"text2phenotype.com/postagger/redis"
)

// Store is the part of the redis client the job documents need.
type Store interface {
	GetDoc(ctx context.Context, key string, doc interface{}) error
	UpdateDoc(ctx context.Context, key string, doc interface{}, update func()) error
	Close() error
}

type Client struct {
	Jobs JobTasks
}

func NewClient() (Client, error) {
	jobsRedisClient, err := redis.NewClient(redis.JobsDB)
	if err != nil {
		return Client{}, err
	}
	return Client{Jobs: JobTasks{client: jobsRedisClient}}, nil
}

func NewClientWithStore(store Store) Client {
	return Client{Jobs: JobTasks{client: store}}
}

func (client *Client) Close() {
	_ = client.Jobs.client.Close()
}
