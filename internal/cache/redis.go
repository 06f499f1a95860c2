package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vitrina-next/internal/config"

	"github.com/redis/go-redis/v9"
)

const (
	defaultPrefix = "vn"
	pingTimeout   = 3 * time.Second
)

// store 进程内唯一的 Redis 连接；client 为 nil 时所有缓存操作静默跳过
type store struct {
	client *redis.Client
	prefix string
}

var current = store{prefix: defaultPrefix}

// InitRedis 初始化 Redis 客户端并探活；探活失败时关闭缓存，定价退回数据库
func InitRedis(cfg *config.RedisConfig) error {
	if cfg == nil || !cfg.Enabled {
		current = store{prefix: defaultPrefix}
		return nil
	}
	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		host = "127.0.0.1"
	}
	port := cfg.Port
	if port <= 0 {
		port = 6379
	}
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		current = store{prefix: defaultPrefix}
		return fmt.Errorf("ping redis %s: %w", client.Options().Addr, err)
	}
	UseClient(client, cfg.Prefix)
	return nil
}

// UseClient 直接注入客户端（测试使用）
func UseClient(client *redis.Client, prefix string) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = defaultPrefix
	}
	current = store{client: client, prefix: prefix}
}

// Close 关闭连接
func Close() error {
	if current.client == nil {
		return nil
	}
	err := current.client.Close()
	current.client = nil
	return err
}

// Enabled 判断缓存是否可用
func Enabled() bool {
	return current.client != nil
}

// Client 获取 Redis 客户端，未启用时为 nil
func Client() *redis.Client {
	return current.client
}

// Prefix 返回当前 key 前缀
func Prefix() string {
	return current.prefix
}

// GetJSON 读取 JSON 缓存，未命中返回 false
func GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	if !Enabled() {
		return false, nil
	}
	raw, err := current.client.Get(ctx, buildKey(key)).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return false, nil
	case err != nil:
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("decode cache %s: %w", key, err)
	}
	return true, nil
}

// SetJSON 写入 JSON 缓存
func SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !Enabled() {
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode cache %s: %w", key, err)
	}
	return current.client.Set(ctx, buildKey(key), raw, ttl).Err()
}

// Del 删除缓存
func Del(ctx context.Context, keys ...string) error {
	if !Enabled() || len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, key := range keys {
		full[i] = buildKey(key)
	}
	return current.client.Del(ctx, full...).Err()
}

func buildKey(key string) string {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return current.prefix
	}
	return current.prefix + ":" + trimmed
}
