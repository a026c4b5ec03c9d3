package transport

import (
	"context"
	"errors"
	"math"
	"net"
	"net/url"
	"strings"
	"syscall"
	"time"
)

// RetryConfig 重试配置
type RetryConfig struct {
	// 最大重试次数，0 表示不重试
	MaxRetries int `json:"max_retries" mapstructure:"max_retries"`

	// 初始延迟时间
	InitialDelay time.Duration `json:"initial_delay" mapstructure:"initial_delay"`

	// 最大延迟时间
	MaxDelay time.Duration `json:"max_delay" mapstructure:"max_delay"`

	// 退避因子（指数退避）
	BackoffFactor float64 `json:"backoff_factor" mapstructure:"backoff_factor"`

	// 网络错误的初始延迟（通常更短）
	NetworkInitialDelay time.Duration `json:"network_initial_delay" mapstructure:"network_initial_delay"`
}

// DefaultRetryConfig 返回默认重试配置
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:          2,
		InitialDelay:        500 * time.Millisecond,
		MaxDelay:            10 * time.Second,
		BackoffFactor:       2.0,
		NetworkInitialDelay: 100 * time.Millisecond,
	}
}

// ErrorType 错误类型枚举
type ErrorType int

const (
	ErrorTypeNone          ErrorType = iota
	ErrorTypeNetwork                 // 网络瞬时错误
	ErrorTypeRetryableHTTP           // 可重试的HTTP错误（429）
	ErrorTypeClientError             // 客户端错误（4xx）
	ErrorTypeServerError             // 服务端错误（5xx）
	ErrorTypePermanent               // 永久性错误
)

// NetworkRetrier 网络重试器
type NetworkRetrier struct {
	config RetryConfig
	sleep  func(ctx context.Context, d time.Duration) error
}

// NewNetworkRetrier 创建网络重试器
func NewNetworkRetrier(config RetryConfig) *NetworkRetrier {
	return &NetworkRetrier{
		config: config,
		sleep:  sleepContext,
	}
}

// AttemptFunc 单次发送
type AttemptFunc func() (*Response, error)

// Execute 执行带重试的发送，返回最后一次的结果
func (nr *NetworkRetrier) Execute(ctx context.Context, fn AttemptFunc) (*Response, error) {
	var (
		resp *Response
		err  error
	)

	for attempt := 0; ; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, &NetworkError{Err: ctxErr}
		}

		resp, err = fn()
		if err == nil {
			return resp, nil
		}

		errorType := nr.classifyError(err)
		if !nr.shouldRetry(errorType, attempt) {
			return resp, err
		}

		delay := nr.calculateDelay(errorType == ErrorTypeNetwork, attempt)
		if sleepErr := nr.sleep(ctx, delay); sleepErr != nil {
			return nil, &NetworkError{Err: sleepErr}
		}
	}
}

// classifyError 分类错误
func (nr *NetworkRetrier) classifyError(err error) ErrorType {
	if err == nil {
		return ErrorTypeNone
	}

	if se, ok := AsStatus(err); ok {
		switch {
		case se.Status >= 500:
			return ErrorTypeServerError
		case se.Status == 429:
			return ErrorTypeRetryableHTTP
		case se.Status >= 400:
			return ErrorTypeClientError
		}
		return ErrorTypePermanent
	}

	// 调用方主动取消不重试
	if errors.Is(err, context.Canceled) {
		return ErrorTypePermanent
	}

	if isNetworkError(err) {
		return ErrorTypeNetwork
	}
	return ErrorTypePermanent
}

// shouldRetry 判断是否应该重试
func (nr *NetworkRetrier) shouldRetry(errorType ErrorType, attempt int) bool {
	if attempt >= nr.config.MaxRetries {
		return false
	}
	switch errorType {
	case ErrorTypeNetwork, ErrorTypeServerError, ErrorTypeRetryableHTTP:
		return true
	default:
		return false
	}
}

// calculateDelay 计算延迟时间
func (nr *NetworkRetrier) calculateDelay(isNetworkError bool, attempt int) time.Duration {
	delay := nr.config.InitialDelay
	if isNetworkError && nr.config.NetworkInitialDelay > 0 {
		delay = nr.config.NetworkInitialDelay
	}

	if attempt > 0 {
		backoffFactor := nr.config.BackoffFactor
		if backoffFactor <= 1.0 {
			backoffFactor = 2.0
		}
		delay = time.Duration(float64(delay) * math.Pow(backoffFactor, float64(attempt)))
	}

	if nr.config.MaxDelay > 0 && delay > nr.config.MaxDelay {
		delay = nr.config.MaxDelay
	}
	return delay
}

// isNetworkError 判断是否为网络错误
func isNetworkError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}

	if errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EPIPE) {
		return true
	}

	errStr := strings.ToLower(err.Error())
	networkPatterns := []string{
		"connection refused",
		"connection reset",
		"timeout",
		"temporary failure",
		"network is unreachable",
		"no such host",
		"broken pipe",
		"eof",
	}
	for _, pattern := range networkPatterns {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}

	return false
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
