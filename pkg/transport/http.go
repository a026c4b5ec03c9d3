package transport

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Config HTTP 传输配置
type Config struct {
	Timeout   time.Duration     `json:"timeout" mapstructure:"timeout"`
	ProxyURL  string            `json:"proxy_url,omitempty" mapstructure:"proxy_url"`
	UserAgent string            `json:"user_agent,omitempty" mapstructure:"user_agent"`
	Headers   map[string]string `json:"headers,omitempty" mapstructure:"headers"`
	Retry     RetryConfig       `json:"retry" mapstructure:"retry"`
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		Timeout: 30 * time.Second,
		Headers: make(map[string]string),
		Retry:   DefaultRetryConfig(),
	}
}

// HTTPTransport 基于 resty 的传输实现
type HTTPTransport struct {
	client  *resty.Client
	retrier *NetworkRetrier
	headers map[string]string
	logger  *zap.Logger
}

var _ Transport = (*HTTPTransport)(nil)

// NewHTTP 创建 HTTP 传输
func NewHTTP(config Config, logger *zap.Logger) *HTTPTransport {
	if logger == nil {
		logger = zap.NewNop()
	}

	client := resty.New().SetTimeout(config.Timeout)
	if config.ProxyURL != "" {
		client.SetProxy(config.ProxyURL)
	}
	if config.UserAgent != "" {
		client.SetHeader("User-Agent", config.UserAgent)
	}

	return &HTTPTransport{
		client:  client,
		retrier: NewNetworkRetrier(config.Retry),
		headers: config.Headers,
		logger:  logger,
	}
}

// Send 发送请求
func (t *HTTPTransport) Send(ctx context.Context, req *Request) (*Response, error) {
	attempt := 0
	return t.retrier.Execute(ctx, func() (*Response, error) {
		attempt++
		if attempt > 1 {
			t.logger.Debug("retrying request",
				zap.String("method", req.Method),
				zap.String("host", req.Host()),
				zap.Int("attempt", attempt))
			if req.Prepare != nil {
				if err := req.Prepare(req); err != nil {
					return nil, fmt.Errorf("prepare retry: %w", err)
				}
			}
		}
		return t.do(ctx, req)
	})
}

func (t *HTTPTransport) do(ctx context.Context, req *Request) (*Response, error) {
	r := t.client.R().SetContext(ctx)

	for k, v := range t.headers {
		setHeader(r, k, v)
	}
	for k, values := range req.Header {
		for _, v := range values {
			setHeader(r, k, v)
		}
	}
	if len(req.Query) > 0 {
		r.SetQueryParamsFromValues(req.Query)
	}
	if req.Body != nil {
		r.SetBody(req.Body)
	}

	start := time.Now()
	resp, err := r.Execute(req.Method, req.URL)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}

	t.logger.Debug("provider responded",
		zap.String("method", req.Method),
		zap.String("host", req.Host()),
		zap.Int("status", resp.StatusCode()),
		zap.Duration("latency", time.Since(start)))

	out := &Response{
		Status: resp.StatusCode(),
		Header: resp.Header(),
		Body:   resp.Body(),
	}
	if resp.IsError() || out.Status >= 300 {
		return out, &StatusError{Status: out.Status, Body: out.Body}
	}
	return out, nil
}

// setHeader Content-Type 与 User-Agent 覆盖 resty 的默认值，其余头部保持原样大小写
func setHeader(r *resty.Request, key, value string) {
	switch http.CanonicalHeaderKey(key) {
	case "Content-Type", "User-Agent":
		r.SetHeader(key, value)
	default:
		r.SetHeaderVerbatim(key, value)
	}
}
