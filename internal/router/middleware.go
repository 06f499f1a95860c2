package router

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/vitrina-next/internal/authz"
	"github.com/vitrina-next/internal/config"
	"github.com/vitrina-next/internal/http/response"
	"github.com/vitrina-next/internal/i18n"
	"github.com/vitrina-next/internal/logger"
	"github.com/vitrina-next/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	requestIDHeader        = "X-Request-ID"
	maxRequestIDLength     = 64
	adminIsSuperContextKey = "admin_is_super"
)

var (
	defaultCORSMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	defaultCORSHeaders = []string{"Content-Type", "Authorization", "Accept-Language", "X-Requested-With", requestIDHeader}
)

// TokenVerifier 令牌校验能力，由认证中心签发的令牌在此仅做验签
type TokenVerifier interface {
	ParseUserToken(tokenString string) (*service.UserJWTClaims, error)
	ParseAdminToken(tokenString string) (*service.AdminJWTClaims, error)
}

// corsPolicy 启动时预计算好的跨域响应头
type corsPolicy struct {
	anyOrigin   bool
	origins     map[string]struct{}
	credentials bool
	methods     string
	headers     string
	maxAge      string
}

func newCORSPolicy(cfg config.CORSConfig) corsPolicy {
	p := corsPolicy{
		origins:     map[string]struct{}{},
		credentials: cfg.AllowCredentials,
		methods:     strings.Join(orDefault(cfg.AllowedMethods, defaultCORSMethods), ", "),
		headers:     strings.Join(orDefault(cfg.AllowedHeaders, defaultCORSHeaders), ", "),
	}
	for _, origin := range orDefault(cfg.AllowedOrigins, []string{"*"}) {
		origin = strings.TrimSpace(origin)
		if origin == "*" {
			p.anyOrigin = true
			continue
		}
		if origin != "" {
			p.origins[strings.ToLower(origin)] = struct{}{}
		}
	}
	if cfg.MaxAge > 0 {
		p.maxAge = strconv.Itoa(cfg.MaxAge)
	}
	return p
}

// allowOrigin 返回 Access-Control-Allow-Origin 的值，空串表示不放行
// 携带凭证时浏览器不接受 *，回显请求来源
func (p corsPolicy) allowOrigin(origin string) string {
	if p.anyOrigin {
		if p.credentials && origin != "" {
			return origin
		}
		return "*"
	}
	if _, ok := p.origins[strings.ToLower(origin)]; ok && origin != "" {
		return origin
	}
	return ""
}

// CORSMiddleware 跨域中间件
func CORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	policy := newCORSPolicy(cfg)
	return func(c *gin.Context) {
		header := c.Writer.Header()
		if allowed := policy.allowOrigin(c.GetHeader("Origin")); allowed != "" {
			header.Set("Access-Control-Allow-Origin", allowed)
			if allowed != "*" {
				header.Add("Vary", "Origin")
			}
		}
		if policy.credentials {
			header.Set("Access-Control-Allow-Credentials", "true")
		}
		header.Set("Access-Control-Allow-Methods", policy.methods)
		header.Set("Access-Control-Allow-Headers", policy.headers)
		if policy.maxAge != "" {
			header.Set("Access-Control-Max-Age", policy.maxAge)
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func orDefault(values, fallback []string) []string {
	if len(values) == 0 {
		return fallback
	}
	return values
}

// RequestIDMiddleware 请求 ID 中间件；沿用上游传入的 ID，过长或缺失时重新生成
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if requestID == "" || len(requestID) > maxRequestIDLength {
			requestID = uuid.NewString()
		}
		c.Set(response.RequestIDKey, requestID)
		c.Header(requestIDHeader, requestID)
		c.Next()
	}
}

// LoggerMiddleware 结构化请求日志中间件，5xx 或带 gin 错误的请求记为 error
func LoggerMiddleware(base *zap.Logger) gin.HandlerFunc {
	if base == nil {
		base = zap.L()
	}
	sugar := base.Sugar()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []interface{}{
			"request_id", response.RequestID(c),
			"method", c.Request.Method,
			"route", c.FullPath(),
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		if len(c.Errors) > 0 || c.Writer.Status() >= http.StatusInternalServerError {
			sugar.Errorw("http_request", append(fields, "errors", c.Errors.String())...)
			return
		}
		sugar.Infow("http_request", fields...)
	}
}

// bearerToken 读取 Authorization 头，返回空串时已写出 401
func bearerToken(c *gin.Context) string {
	raw := strings.TrimSpace(c.GetHeader("Authorization"))
	if raw == "" {
		abortUnauthorized(c, "error.auth_header_missing")
		return ""
	}
	scheme, token, found := strings.Cut(raw, " ")
	token = strings.TrimSpace(token)
	if !found || scheme != "Bearer" || token == "" {
		abortUnauthorized(c, "error.auth_header_invalid")
		return ""
	}
	return token
}

func abortUnauthorized(c *gin.Context, key string) {
	response.Unauthorized(c, i18n.T(i18n.ResolveLocale(c), key))
	c.Abort()
}

// tokenMiddleware 验签并把身份写入上下文；verifier 缺失时一律拒绝
func tokenMiddleware(event string, verifier TokenVerifier, bind func(*gin.Context, TokenVerifier, string) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if verifier == nil {
			abortUnauthorized(c, "error.token_invalid")
			return
		}
		token := bearerToken(c)
		if token == "" {
			return
		}
		if err := bind(c, verifier, token); err != nil {
			logger.Debugw(event, "request_id", response.RequestID(c), "error", err)
			abortUnauthorized(c, "error.token_invalid")
			return
		}
		c.Next()
	}
}

// JWTAuthMiddleware 管理员 JWT 鉴权中间件
func JWTAuthMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return tokenMiddleware("admin_token_rejected", verifier, func(c *gin.Context, v TokenVerifier, token string) error {
		claims, err := v.ParseAdminToken(token)
		if err != nil {
			return err
		}
		c.Set("admin_id", claims.AdminID)
		c.Set("username", claims.Username)
		c.Set(adminIsSuperContextKey, claims.IsSuper)
		return nil
	})
}

// UserJWTAuthMiddleware 用户 JWT 鉴权中间件
func UserJWTAuthMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return tokenMiddleware("user_token_rejected", verifier, func(c *gin.Context, v TokenVerifier, token string) error {
		claims, err := v.ParseUserToken(token)
		if err != nil {
			return err
		}
		c.Set("user_id", claims.UserID)
		c.Set("user_email", claims.Email)
		return nil
	})
}

// AdminRBACMiddleware 管理端 RBAC 鉴权中间件，超级管理员直接放行
func AdminRBACMiddleware(authzService *authz.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if authzService == nil {
			logger.Errorw("admin_rbac_service_unavailable")
			abortUnauthorized(c, "error.unauthorized")
			return
		}
		if c.GetBool(adminIsSuperContextKey) {
			c.Next()
			return
		}
		adminID := c.GetUint("admin_id")
		if adminID == 0 {
			abortUnauthorized(c, "error.unauthorized")
			return
		}

		resource := c.FullPath()
		if resource == "" {
			resource = c.Request.URL.Path
		}
		log := logger.SW(
			"request_id", response.RequestID(c),
			"admin_id", adminID,
			"method", c.Request.Method,
			"resource", authz.NormalizeObject(resource),
		)

		allowed, err := authzService.EnforceAdmin(adminID, resource, c.Request.Method)
		switch {
		case err != nil:
			log.Errorw("admin_rbac_enforce_failed", "error", err)
			abortUnauthorized(c, "error.unauthorized")
		case !allowed:
			log.Warnw("admin_rbac_permission_denied")
			response.Forbidden(c, i18n.T(i18n.ResolveLocale(c), "error.forbidden"))
			c.Abort()
		default:
			c.Next()
		}
	}
}
