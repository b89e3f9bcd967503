package testkit

import (
	"context"
	"fmt"
	"net/url"

	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"
)

// RedisModule is the Redis the snapshot cache tests talk to.
type RedisModule struct {
	container testcontainers.Container // nil for an external instance
	addr      string
}

// Addr is the host:port handed to redis.Options.
func (r *RedisModule) Addr() string { return r.addr }

// Terminate removes the container. External instances are left alone.
func (r *RedisModule) Terminate(ctx context.Context) error {
	if r.container == nil {
		return nil
	}
	return r.container.Terminate(ctx)
}

// StartRedis uses cfg.RedisAddr when set and starts a container otherwise.
func StartRedis(ctx context.Context, cfg *Config) (*RedisModule, error) {
	if cfg.RedisAddr != "" {
		return &RedisModule{addr: cfg.RedisAddr}, nil
	}

	ctr, err := tcredis.Run(ctx, cfg.RedisImage,
		testcontainers.WithWaitStrategyAndDeadline(cfg.StartupTimeout,
			wait.ForLog("Ready to accept connections"),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("start redis container: %w", err)
	}

	addr, err := containerAddr(ctx, ctr)
	if err != nil {
		_ = ctr.Terminate(ctx)
		return nil, err
	}
	return &RedisModule{container: ctr, addr: addr}, nil
}

// containerAddr turns the module's redis:// URL into host:port.
func containerAddr(ctx context.Context, ctr *tcredis.RedisContainer) (string, error) {
	raw, err := ctr.ConnectionString(ctx)
	if err != nil {
		return "", fmt.Errorf("redis connection string: %w", err)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse redis url %q: %w", raw, err)
	}
	return u.Host, nil
}
