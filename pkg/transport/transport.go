package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
)

// Request 发往提供商的请求
type Request struct {
	Method string
	URL    string
	Header http.Header
	Query  url.Values
	Body   []byte

	// Prepare 重试前调用，刷新 nonce、时间戳与签名
	Prepare func(r *Request) error
}

// NewRequest 创建请求
func NewRequest(method, rawURL string) *Request {
	return &Request{
		Method: method,
		URL:    rawURL,
		Header: make(http.Header),
		Query:  make(url.Values),
	}
}

// SetHeader 按原样大小写设置头部，提供商的签名校验依赖确切的头部名称
func (r *Request) SetHeader(key, value string) {
	for k := range r.Header {
		if strings.EqualFold(k, key) && k != key {
			delete(r.Header, k)
		}
	}
	r.Header[key] = []string{value}
}

// GetHeader 不区分大小写读取头部
func (r *Request) GetHeader(key string) string {
	if v, ok := r.Header[key]; ok && len(v) > 0 {
		return v[0]
	}
	for k, v := range r.Header {
		if strings.EqualFold(k, key) && len(v) > 0 {
			return v[0]
		}
	}
	return ""
}

// Host 返回请求目标主机
func (r *Request) Host() string {
	u, err := url.Parse(r.URL)
	if err != nil {
		return ""
	}
	return u.Host
}

// Path 返回请求路径，空路径视为 "/"
func (r *Request) Path() string {
	u, err := url.Parse(r.URL)
	if err != nil || u.Path == "" {
		return "/"
	}
	return u.EscapedPath()
}

// Response 提供商的原始响应
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// Transport 传输层协作者
type Transport interface {
	// Send 发送请求；非 2xx 响应返回 *StatusError，连接类失败返回 *NetworkError
	Send(ctx context.Context, req *Request) (*Response, error)
}

// Func 函数适配器
type Func func(ctx context.Context, req *Request) (*Response, error)

// Send 实现 Transport
func (f Func) Send(ctx context.Context, req *Request) (*Response, error) {
	return f(ctx, req)
}

// NetworkError 未拿到任何 HTTP 响应的失败
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

// Unwrap 返回原因错误
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Timeout 是否为超时
func (e *NetworkError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(e.Err, &netErr) {
		return netErr.Timeout()
	}
	return false
}

// StatusError 提供商返回了非 2xx 状态
type StatusError struct {
	Status int
	Body   []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d %s", e.Status, http.StatusText(e.Status))
}

// AsStatus 提取 *StatusError
func AsStatus(err error) (*StatusError, bool) {
	var se *StatusError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// AsNetwork 提取 *NetworkError
func AsNetwork(err error) (*NetworkError, bool) {
	var ne *NetworkError
	if errors.As(err, &ne) {
		return ne, true
	}
	return nil, false
}
