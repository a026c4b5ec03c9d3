package test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/nerdneilsfield/go-translator-services/pkg/transport"
)

// RecordedRequest 模拟服务器收到的请求
type RecordedRequest struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   []byte
}

// ResponderFunc 根据请求决定响应
type ResponderFunc func(r RecordedRequest) (int, string)

// MockProviderServer 模拟提供商接口，记录收到的请求
type MockProviderServer struct {
	*httptest.Server

	mu        sync.Mutex
	requests  []RecordedRequest
	responder ResponderFunc
	delay     time.Duration
}

// NewMockProviderServer 创建模拟服务器，测试结束时自动关闭
func NewMockProviderServer(t *testing.T) *MockProviderServer {
	t.Helper()

	m := &MockProviderServer{
		responder: func(RecordedRequest) (int, string) {
			return http.StatusOK, `{}`
		},
	}
	m.Server = httptest.NewServer(http.HandlerFunc(m.handle))
	t.Cleanup(m.Server.Close)
	return m
}

func (m *MockProviderServer) handle(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	rec := RecordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.Query(),
		Header: r.Header.Clone(),
		Body:   body,
	}

	m.mu.Lock()
	m.requests = append(m.requests, rec)
	responder := m.responder
	delay := m.delay
	m.mu.Unlock()

	// 模拟延迟
	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}
	}

	status, payload := responder(rec)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(payload))
}

// Respond 固定响应
func (m *MockProviderServer) Respond(status int, body string) {
	m.RespondFunc(func(RecordedRequest) (int, string) {
		return status, body
	})
}

// RespondFunc 自定义响应
func (m *MockProviderServer) RespondFunc(fn ResponderFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responder = fn
}

// SetDelay 设置响应延迟
func (m *MockProviderServer) SetDelay(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delay = d
}

// Requests 返回收到的全部请求
func (m *MockProviderServer) Requests() []RecordedRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]RecordedRequest(nil), m.requests...)
}

// Last 返回最近一次请求
func (m *MockProviderServer) Last(t *testing.T) RecordedRequest {
	t.Helper()

	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		t.Fatal("mock server received no requests")
	}
	return m.requests[len(m.requests)-1]
}

// Instant 测试用的固定时刻
var Instant = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

// FixedClock 返回固定时刻的时钟
func FixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

// NewTransport 不重试、短超时的 HTTP 传输
func NewTransport() transport.Transport {
	return NewRetryTransport(0)
}

// NewRetryTransport 毫秒级退避的重试传输
func NewRetryTransport(retries int) transport.Transport {
	cfg := transport.DefaultConfig()
	cfg.Timeout = 5 * time.Second
	cfg.Retry = transport.RetryConfig{
		MaxRetries:          retries,
		InitialDelay:        time.Millisecond,
		MaxDelay:            5 * time.Millisecond,
		BackoffFactor:       2,
		NetworkInitialDelay: time.Millisecond,
	}
	return transport.NewHTTP(cfg, nil)
}
