package queue

import (
	"fmt"
	"strings"
	"time"

	"github.com/inkfolio-shop/internal/config"
	"github.com/inkfolio-shop/internal/constants"

	"github.com/hibiken/asynq"
)

// DefaultQueue is the queue tasks land on unless overridden.
const DefaultQueue = constants.QueueDefault

// Client wraps the asynq producer. A disabled client swallows enqueues so
// callers never need to branch on queue availability.
type Client struct {
	client       *asynq.Client
	defaultQueue string
}

// NewClient creates a queue client. With a nil or disabled config the client
// is inert.
func NewClient(cfg *config.QueueConfig) (*Client, error) {
	c := &Client{defaultQueue: DefaultQueue}
	if cfg != nil && cfg.Enabled {
		c.client = asynq.NewClient(buildRedisOpt(cfg))
	}
	return c, nil
}

// Enabled reports whether tasks actually reach a broker.
func (c *Client) Enabled() bool {
	return c != nil && c.client != nil
}

// Close shuts the producer down.
func (c *Client) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}

func (c *Client) enqueue(task *asynq.Task, err error, opts ...asynq.Option) error {
	if err != nil {
		return err
	}
	if !c.Enabled() {
		return nil
	}
	_, err = c.client.Enqueue(task, append([]asynq.Option{asynq.Queue(c.defaultQueue)}, opts...)...)
	return err
}

// EnqueueNotificationDispatch queues a notification write.
func (c *Client) EnqueueNotificationDispatch(payload NotificationDispatchPayload, opts ...asynq.Option) error {
	task, err := NewNotificationDispatchTask(payload)
	return c.enqueue(task, err, opts...)
}

// EnqueueCartExpire queues a delayed cart expiry.
func (c *Client) EnqueueCartExpire(payload CartExpirePayload, delay time.Duration) error {
	if delay < 0 {
		delay = 0
	}
	task, err := NewCartExpireTask(payload)
	return c.enqueue(task, err, asynq.ProcessIn(delay))
}

// BuildServerConfig builds the consumer-side asynq settings.
func BuildServerConfig(cfg *config.QueueConfig) (asynq.RedisClientOpt, asynq.Config) {
	serverCfg := asynq.Config{
		Concurrency: 10,
		Queues:      map[string]int{DefaultQueue: 1},
	}
	if cfg != nil {
		if cfg.Concurrency > 0 {
			serverCfg.Concurrency = cfg.Concurrency
		}
		if len(cfg.Queues) > 0 {
			serverCfg.Queues = cfg.Queues
		}
	}
	return buildRedisOpt(cfg), serverCfg
}

func buildRedisOpt(cfg *config.QueueConfig) asynq.RedisClientOpt {
	opt := asynq.RedisClientOpt{Addr: "127.0.0.1:6379"}
	if cfg == nil {
		return opt
	}
	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		host = "127.0.0.1"
	}
	port := cfg.Port
	if port <= 0 {
		port = 6379
	}
	opt.Addr = fmt.Sprintf("%s:%d", host, port)
	opt.Password = cfg.Password
	opt.DB = cfg.DB
	return opt
}
