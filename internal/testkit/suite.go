package testkit

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
)

// Suite holds the Redis shared by every test in one integration binary.
type Suite struct {
	mu    sync.Mutex
	cfg   Config
	redis *RedisModule
}

var (
	globalSuite *Suite
	globalOnce  sync.Once
)

// Global returns the Suite configured from the environment.
func Global() *Suite {
	globalOnce.Do(func() {
		globalSuite = &Suite{cfg: LoadConfig()}
	})
	return globalSuite
}

// Setup brings Redis up. A second call before Shutdown fails.
func (s *Suite) Setup(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.redis != nil {
		return errors.New("testkit: redis already running")
	}
	rdb, err := StartRedis(ctx, &s.cfg)
	if err != nil {
		return err
	}
	s.redis = rdb
	return nil
}

// Shutdown stops Redis. With KEEP_CONTAINERS=true the container keeps running
// and its address is printed for debugging.
func (s *Suite) Shutdown(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.redis == nil {
		return
	}
	switch {
	case s.cfg.KeepContainers:
		fmt.Println("testkit: redis left running at", s.redis.Addr())
	default:
		if err := s.redis.Terminate(ctx); err != nil {
			fmt.Println("testkit: terminate redis:", err)
		}
	}
	s.redis = nil
}

// RedisAddr is "" until Setup succeeds.
func (s *Suite) RedisAddr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.redis == nil {
		return ""
	}
	return s.redis.Addr()
}

// Run is the body of TestMain: Setup, hooks, m.Run, Shutdown, exit.
func (s *Suite) Run(m *testing.M, afterSetup ...func() error) {
	ctx := context.Background()
	if err := s.Setup(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "testkit: setup:", err)
		os.Exit(1)
	}

	code := 1
	if err := runHooks(afterSetup); err != nil {
		fmt.Fprintln(os.Stderr, "testkit: after setup:", err)
	} else {
		code = m.Run()
	}
	s.Shutdown(ctx)
	os.Exit(code)
}

func runHooks(hooks []func() error) error {
	for _, fn := range hooks {
		if err := fn(); err != nil {
			return err
		}
	}
	return nil
}

// Run runs the global Suite.
func Run(m *testing.M, afterSetup ...func() error) {
	Global().Run(m, afterSetup...)
}
