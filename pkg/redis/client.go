package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// defaultPingTimeout 시작 시 연결 확인 대기 시간
const defaultPingTimeout = 3 * time.Second

// Options Redis 연결 설정
type Options struct {
	Host        string
	Port        int
	Password    string
	DB          int
	PoolSize    int
	PingTimeout time.Duration // 0 이면 3초
}

// Addr host:port
func (o Options) Addr() string {
	return fmt.Sprintf("%s:%d", o.Host, o.Port)
}

// NewClient Redis 클라이언트 생성 후 PING 으로 연결 확인
// 실패하면 클라이언트를 닫고 에러 반환 (호출자는 캐시 없이 동작할 수 있다)
func NewClient(ctx context.Context, opts Options) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr(),
		Password: opts.Password,
		DB:       opts.DB,
		PoolSize: opts.PoolSize,
	})

	timeout := opts.PingTimeout
	if timeout <= 0 {
		timeout = defaultPingTimeout
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", opts.Addr(), err)
	}

	return client, nil
}
