package worker

import (
	"crypto/tls"
	"net/url"
	"strings"

	"github.com/hibiken/asynq"
)

// ParseRedisURL accepts redis://, rediss:// (TLS) or a bare host:port.
func ParseRedisURL(redisURL string) (asynq.RedisClientOpt, error) {
	if !strings.HasPrefix(redisURL, "redis://") && !strings.HasPrefix(redisURL, "rediss://") {
		return asynq.RedisClientOpt{Addr: redisURL}, nil
	}

	u, err := url.Parse(redisURL)
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}

	opt := asynq.RedisClientOpt{Addr: u.Host}

	if u.User != nil {
		opt.Username = u.User.Username()
		if password, ok := u.User.Password(); ok {
			opt.Password = password
		}
	}

	if u.Scheme == "rediss" {
		opt.TLSConfig = &tls.Config{ServerName: u.Hostname()}
	}

	return opt, nil
}

// NewClient creates an asynq client for enqueueing history tasks.
func NewClient(redisURL string) (*asynq.Client, error) {
	opt, err := ParseRedisURL(redisURL)
	if err != nil {
		return nil, err
	}
	return asynq.NewClient(opt), nil
}
