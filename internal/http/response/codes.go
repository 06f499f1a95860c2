package response

// 响应体 status_code；HTTP 状态码始终为 200
const (
	// CodeOK 成功，也用于优惠码被拒绝这类业务软失败（data.success=false）
	CodeOK              = 0
	CodeBadRequest      = 400
	CodeUnauthorized    = 401
	CodeForbidden       = 403
	CodeNotFound        = 404
	CodeConflict        = 409
	CodeTooManyRequests = 429
	CodeInternal        = 500
)

// RequestIDKey gin 上下文中的请求 ID 键
const RequestIDKey = "request_id"
