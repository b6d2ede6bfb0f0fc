package rmq

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
	"github.com/streadway/amqp"
	"text2phenotype.com/postagger/logger"
)

type Config struct {
	Host                    string `envconfig:"TAGGER_RMQ_HOST" required:"true"`
	Port                    string `envconfig:"TAGGER_RMQ_PORT" default:"5672"`
	Username                string `envconfig:"TAGGER_RMQ_USERNAME" required:"true"`
	Password                string `envconfig:"TAGGER_RMQ_PASSWORD" required:"true"`
	Exchange                string `envconfig:"TAGGER_RMQ_EXCHANGE" default:"tagger-exchange"`
	MaxParallelRequestCount int    `envconfig:"TAGGER_MQ_MAX_PARALLEL_REQUESTS" default:"5"`
	TaskQueue               string `envconfig:"TAGGER_TASK_QUEUE" default:"tagging-tasks"`
	NotificationQueue       string `envconfig:"TAGGER_NOTIFICATION_QUEUE" default:"tagging-results"`
}

// Client consumes tagging tasks on one connection and publishes job
// notifications on another, so a slow consumer never blocks publishing.
type Client struct {
	Deliveries     <-chan amqp.Delivery
	ReqChanErrors  <-chan *amqp.Error
	RespChanErrors <-chan *amqp.Error
	config         Config
	reqConn        *amqp.Connection
	respConn       *amqp.Connection
	respChannel    *amqp.Channel
	log            zerolog.Logger
}

func NewClient() (*Client, error) {
	rmqLogger := logger.NewLogger("RMQ client")
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		rmqLogger.Error().Err(err).Msg("Could not read env config")
		return nil, err
	}

	url := getURL(config)
	respConn, respChannel, err := setup(url)
	if err != nil {
		return nil, fmt.Errorf("failed connection: %w", err)
	}
	reqConn, reqChannel, err := setup(url)
	if err != nil {
		_ = respConn.Close()
		return nil, fmt.Errorf("failed connection: %w", err)
	}

	if err := declareQueue(reqChannel, config.Exchange, config.TaskQueue); err != nil {
		return nil, err
	}
	if err := declareQueue(respChannel, config.Exchange, config.NotificationQueue); err != nil {
		return nil, err
	}
	if err := reqChannel.Qos(config.MaxParallelRequestCount, 0, false); err != nil {
		return nil, fmt.Errorf("qos: %w", err)
	}

	deliveries, err := reqChannel.Consume(
		config.TaskQueue,
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("consume deliveries: %w", err)
	}
	rmqLogger.Info().
		Str("task_queue", config.TaskQueue).
		Str("notification_queue", config.NotificationQueue).
		Msg("Connected to RMQ")

	return &Client{
		Deliveries:     deliveries,
		ReqChanErrors:  reqChannel.NotifyClose(make(chan *amqp.Error)),
		RespChanErrors: respChannel.NotifyClose(make(chan *amqp.Error)),
		config:         config,
		reqConn:        reqConn,
		respConn:       respConn,
		respChannel:    respChannel,
		log:            rmqLogger,
	}, nil
}

// Notify publishes a job notification to the notification queue.
func (c *Client) Notify(msg amqp.Publishing) error {
	return c.respChannel.Publish(
		c.config.Exchange,
		c.config.NotificationQueue,
		false,
		false,
		msg)
}

func (c *Client) Close() {
	_ = c.reqConn.Close()
	_ = c.respConn.Close()
	c.log.Info().Msg("Closed RMQ connections")
}

func getURL(config Config) string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s", config.Username, config.Password, config.Host, config.Port)
}

func declareQueue(ch *amqp.Channel, exchange, name string) error {
	if _, err := ch.QueueDeclare(
		name,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	); err != nil {
		return fmt.Errorf("declare queue %s: %w", name, err)
	}
	if exchange == "" {
		return nil
	}
	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeDirect, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	if err := ch.QueueBind(name, name, exchange, false, nil); err != nil {
		return fmt.Errorf("bind queue %s: %w", name, err)
	}
	return nil
}

func setup(url string) (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, err
	}
	return conn, ch, nil
}
