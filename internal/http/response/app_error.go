package response

import "fmt"

// HandlerError 接口层错误：响应码 + 文案 key + 原始错误
type HandlerError struct {
	Code int
	Key  string
	Err  error
}

// NewHandlerError 构造接口层错误
func NewHandlerError(code int, key string, err error) *HandlerError {
	return &HandlerError{Code: code, Key: key, Err: err}
}

func (e *HandlerError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%d %s", e.Code, e.Key)
	}
	return fmt.Sprintf("%d %s: %v", e.Code, e.Key, e.Err)
}

func (e *HandlerError) Unwrap() error {
	return e.Err
}

// Internal 是否为需要记录堆栈的系统错误
func (e *HandlerError) Internal() bool {
	return e.Code >= CodeInternal
}
