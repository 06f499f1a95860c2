package router

import (
	"context"
	"fmt"
	"strings"

	"github.com/vitrina-next/internal/http/handlers/shared"
	"github.com/vitrina-next/internal/http/response"
	"github.com/vitrina-next/internal/i18n"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimitKeyFunc 生成限流 key 的函数
type RateLimitKeyFunc func(*gin.Context) string

// RateLimitRule 限流规则；BlockSeconds > 0 时超限后封禁该 key 一段时间
type RateLimitRule struct {
	Prefix        string
	WindowSeconds int
	MaxRequests   int
	BlockSeconds  int
	MessageKey    string
}

func (r RateLimitRule) enabled() bool {
	return r.WindowSeconds > 0 && r.MaxRequests > 0
}

func (r RateLimitRule) key(raw string) string {
	if r.Prefix == "" {
		return raw
	}
	return fmt.Sprintf("%s:%s", r.Prefix, raw)
}

// 返回 {计数, 剩余秒数}，计数为 -1 表示处于封禁期
var rateLimitScript = redis.NewScript(`
local blocked = redis.call("TTL", KEYS[2])
if blocked > 0 then
	return {-1, blocked}
end
local current = redis.call("INCR", KEYS[1])
if current == 1 then
	redis.call("EXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("TTL", KEYS[1])
if current > tonumber(ARGV[2]) and tonumber(ARGV[3]) > 0 then
	redis.call("SET", KEYS[2], "1", "EX", ARGV[3])
	ttl = tonumber(ARGV[3])
end
return {current, ttl}
`)

// rateDecision 一次限流判定结果
type rateDecision struct {
	Allowed    bool
	RetryAfter int
}

// decide 根据脚本返回的 {计数, ttl} 得出判定
func decide(values []int64, rule RateLimitRule) (rateDecision, error) {
	if len(values) < 2 {
		return rateDecision{}, fmt.Errorf("unexpected rate limit reply %v", values)
	}
	count, ttl := values[0], values[1]
	if count >= 0 && count <= int64(rule.MaxRequests) {
		return rateDecision{Allowed: true}, nil
	}
	wait := int(ttl)
	if wait < 1 {
		wait = rule.WindowSeconds
	}
	if wait < 1 {
		wait = 1
	}
	return rateDecision{RetryAfter: wait}, nil
}

func checkRateLimit(ctx context.Context, client *redis.Client, rule RateLimitRule, key string) (rateDecision, error) {
	keys := []string{key, key + ":blocked"}
	values, err := rateLimitScript.Run(ctx, client, keys, rule.WindowSeconds, rule.MaxRequests, rule.BlockSeconds).Int64Slice()
	if err != nil {
		return rateDecision{}, err
	}
	return decide(values, rule)
}

// RateLimitMiddleware Redis 频率限制中间件；未配置 Redis 时放行，Redis 异常时拒绝
func RateLimitMiddleware(client *redis.Client, rule RateLimitRule, keyFunc RateLimitKeyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if client == nil || !rule.enabled() {
			c.Next()
			return
		}

		raw := ""
		if keyFunc != nil {
			raw = strings.TrimSpace(keyFunc(c))
		}
		if raw == "" {
			raw = c.ClientIP()
		}
		key := rule.key(raw)

		decision, err := checkRateLimit(c.Request.Context(), client, rule, key)
		if err != nil {
			shared.RequestLog(c).Errorw("rate_limit_check_failed", "key", key, "error", err)
			response.Error(c, response.CodeInternal, i18n.T(i18n.ResolveLocale(c), "error.rate_limit_unavailable"))
			c.Abort()
			return
		}
		if !decision.Allowed {
			msgKey := strings.TrimSpace(rule.MessageKey)
			if msgKey == "" {
				msgKey = "error.rate_limited"
			}
			shared.RequestLog(c).Infow("rate_limit_exceeded", "key", key, "retry_after", decision.RetryAfter)
			c.Header("Retry-After", fmt.Sprintf("%d", decision.RetryAfter))
			response.Error(c, response.CodeTooManyRequests, i18n.Sprintf(i18n.ResolveLocale(c), msgKey, decision.RetryAfter))
			c.Abort()
			return
		}

		c.Next()
	}
}

// KeyByUser 使用登录用户作为限流 key，未登录时退化为 IP
func KeyByUser(c *gin.Context) string {
	if userID := c.GetUint("user_id"); userID > 0 {
		return fmt.Sprintf("user:%d", userID)
	}
	return c.ClientIP()
}
