package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/go-redis/redis/v8"
	"github.com/kelseyhightower/envconfig"
)

type DB int

type ReleaseLock func() error

const (
	LexiconDB DB = 0
	JobsDB    DB = 1
)

// ErrNotFound is returned for a missing key.
var ErrNotFound = redis.Nil

type Client struct {
	client         redis.UniversalClient
	lockExpiration time.Duration
}

type Config struct {
	LockExpirationSeconds   int     `envconfig:"TAGGER_REDIS_LOCK_EXPIRATION" default:"3"`
	Host                    string  `envconfig:"TAGGER_REDIS_HOST" required:"true"`
	Port                    string  `envconfig:"TAGGER_REDIS_PORT" default:"6379"`
	HASentinelPort          string  `envconfig:"TAGGER_REDIS_HA_SENTINEL_PORT" default:"26379"`
	HASentinelMasterName    string  `envconfig:"TAGGER_REDIS_HA_MASTER_NAME" default:"mymaster"`
	Password                string  `envconfig:"TAGGER_REDIS_AUTH_PASSWORD" default:""`
	AuthRequired            bool    `envconfig:"TAGGER_REDIS_AUTH_REQUIRED" default:"false"`
	HAMode                  bool    `envconfig:"TAGGER_REDIS_HA_MODE" default:"false"`
	HASentinelSocketTimeout float32 `envconfig:"TAGGER_REDIS_SOCKET_TIMEOUT" default:"0.5"`
}

func NewClient(db DB) (*Client, error) {
	cfg, err := readEnvironment()
	if err != nil {
		return nil, err
	}
	return NewClientFromConfig(cfg, db), nil
}

func NewClientFromConfig(cfg *Config, db DB) *Client {
	var client redis.UniversalClient
	if cfg.HAMode {
		client = CreateFailoverClient(cfg, db)
	} else {
		client = CreateClient(cfg, db)
	}
	return &Client{
		client:         client,
		lockExpiration: time.Duration(cfg.LockExpirationSeconds) * time.Second,
	}
}

func CreateFailoverClient(cfg *Config, db DB) *redis.ClusterClient {
	addr := fmt.Sprintf("%s:%s", cfg.Host, cfg.HASentinelPort)
	timeout := time.Duration(float64(cfg.HASentinelSocketTimeout) * float64(time.Second))
	options := redis.FailoverOptions{
		SentinelAddrs: []string{addr},
		ReadTimeout:   timeout,
		WriteTimeout:  timeout,
		MaxRetries:    6,
		DB:            int(db),
		MasterName:    cfg.HASentinelMasterName,
	}
	if cfg.AuthRequired {
		options.Password = cfg.Password
	}
	return redis.NewFailoverClusterClient(&options)
}

func CreateClient(cfg *Config, db DB) *redis.Client {
	addr := fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)
	options := redis.Options{
		Addr:       addr,
		MaxRetries: 6,
		DB:         int(db),
	}
	if cfg.AuthRequired {
		options.Password = cfg.Password
	}
	return redis.NewClient(&options)
}

// GetDoc decodes the JSON document stored at key into doc.
func (client *Client) GetDoc(ctx context.Context, key string, doc interface{}) error {
	b, err := client.client.Get(ctx, key).Bytes()
	if err != nil {
		return err
	}
	return json.Unmarshal(b, doc)
}

func (client *Client) SaveDoc(ctx context.Context, key string, doc interface{}) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return client.client.Set(ctx, key, b, 0).Err()
}

// UpdateDoc reads the document at key under a lock, applies update and writes
// it back. A missing document starts from doc as given.
func (client *Client) UpdateDoc(ctx context.Context, key string, doc interface{}, update func()) (err error) {
	releaseLock, err := client.Lock(ctx, key)
	if err != nil {
		return err
	}
	defer func() {
		if releaseErr := releaseLock(); err == nil {
			err = releaseErr
		}
	}()
	if err = client.GetDoc(ctx, key, doc); err != nil && err != ErrNotFound {
		return err
	}
	update()
	return client.SaveDoc(ctx, key, doc)
}

func (client *Client) Lock(ctx context.Context, key string) (ReleaseLock, error) {
	lockCl := redislock.New(client.client)
	str := redislock.LimitRetry(redislock.LinearBackoff(time.Second), 20)
	lockKey := fmt.Sprintf("lock:%s", key)
	lock, err := lockCl.Obtain(ctx, lockKey, client.lockExpiration, &redislock.Options{RetryStrategy: str})
	if err != nil {
		return nil, err
	}
	return func() error {
		return lock.Release(ctx)
	}, nil
}

// HGetAllMany fetches several hashes in one round trip, results aligned with keys.
func (client *Client) HGetAllMany(ctx context.Context, keys []string) ([]map[string]string, error) {
	pipe := client.client.Pipeline()
	cmds := make([]*redis.StringStringMapCmd, len(keys))
	for i, key := range keys {
		cmds[i] = pipe.HGetAll(ctx, key)
	}
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, err
	}
	res := make([]map[string]string, len(keys))
	for i, cmd := range cmds {
		res[i] = cmd.Val()
	}
	return res, nil
}

// HIncrByFloatMany adds every field delta of every hash in one transaction.
func (client *Client) HIncrByFloatMany(ctx context.Context, deltas map[string]map[string]float64) error {
	_, err := client.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for key, fields := range deltas {
			for field, v := range fields {
				pipe.HIncrByFloat(ctx, key, field, v)
			}
		}
		return nil
	})
	return err
}

func (client *Client) Close() error {
	return client.client.Close()
}

func readEnvironment() (*Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}
