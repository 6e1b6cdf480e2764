package suite

import (
	"context"
	"io"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/redis/go-redis/v9"
)

const (
	containerTTL = 120
	startTimeout = 120 * time.Second
)

const (
	redisPort  = "6379/tcp"
	redisImage = "redis"
	redisTag   = "alpine"
)

// Suite is a throwaway Redis server for pub/sub tests.
type Suite struct {
	*testing.T
	Logger *slog.Logger

	Redis     *redis.Client
	RedisHost string
	RedisPort string
}

// New starts a Redis container, waits until it answers PING and removes it when the test ends.
func New(t *testing.T) (context.Context, *Suite) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), startTimeout)
	t.Cleanup(cancel)

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("could not connect to docker: %v", err)
	}
	pool.MaxWait = startTimeout

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: redisImage,
		Tag:        redisTag,
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("could not start redis container: %v", err)
	}

	// hard kill in case cleanup never runs
	_ = resource.Expire(containerTTL)

	addr := resource.GetHostPort(redisPort)

	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		_ = pool.Purge(resource)
		t.Fatalf("unexpected redis address %q: %v", addr, err)
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	if err = pool.Retry(func() error {
		return client.Ping(ctx).Err()
	}); err != nil {
		_ = client.Close()
		_ = pool.Purge(resource)
		t.Fatalf("redis did not become ready: %v", err)
	}

	t.Cleanup(func() {
		_ = client.Close()

		if err := pool.Purge(resource); err != nil {
			t.Errorf("could not remove redis container: %v", err)
		}
	})

	return ctx, &Suite{
		T:         t,
		Logger:    slog.New(slog.NewJSONHandler(io.Discard, nil)),
		Redis:     client,
		RedisHost: host,
		RedisPort: port,
	}
}

// WaitForSubscribers blocks until channel has at least one subscriber.
func (that *Suite) WaitForSubscribers(ctx context.Context, channel string) {
	that.Helper()

	for {
		counts, err := that.Redis.PubSubNumSub(ctx, channel).Result()
		if err != nil {
			that.Fatalf("could not count subscribers of %s: %v", channel, err)
		}

		if counts[channel] > 0 {
			return
		}

		select {
		case <-ctx.Done():
			that.Fatalf("nobody subscribed to %s", channel)
		case <-time.After(50 * time.Millisecond):
		}
	}
}
