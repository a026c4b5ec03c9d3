package providers

import (
	"bytes"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/nerdneilsfield/go-translator-services/pkg/languages"
	"github.com/nerdneilsfield/go-translator-services/pkg/signer"
	"github.com/nerdneilsfield/go-translator-services/pkg/translator"
	"github.com/nerdneilsfield/go-translator-services/pkg/transport"
)

// BaseConfig 基础配置
type BaseConfig struct {
	// Endpoint 覆盖默认接口地址，测试时指向本地服务
	Endpoint string `json:"endpoint,omitempty" mapstructure:"endpoint"`

	// 自定义头部
	Headers map[string]string `json:"headers,omitempty" mapstructure:"headers"`
}

// EndpointOr 返回配置的地址，未配置时返回默认地址
func (c BaseConfig) EndpointOr(fallback string) string {
	if c.Endpoint != "" {
		return c.Endpoint
	}
	return fallback
}

// Provider 提供商适配器（扩展 translator.Provider）
type Provider interface {
	translator.Provider

	// Capabilities 获取提供商能力
	Capabilities() Capabilities
}

// Capabilities 提供商能力
type Capabilities struct {
	Name string `json:"name"`

	// 鉴权方式
	Auth string `json:"auth"`

	// 支持的语言
	SupportedLanguages []languages.Language `json:"supported_languages"`

	// 是否需要凭据
	RequiresCredentials bool `json:"requires_credentials"`

	// 是否返回检测到的源语言
	DetectsSource bool `json:"detects_source"`

	// 是否生成朗读链接
	TTS bool `json:"tts"`
}

// Options 适配器的公共依赖
type Options struct {
	Transport transport.Transport
	Clock     func() time.Time
	Logger    *zap.Logger
	Detector  translator.Detector
}

// Option 定义适配器选项
type Option func(*Options)

// WithTransport 设置传输层
func WithTransport(t transport.Transport) Option {
	return func(o *Options) {
		o.Transport = t
	}
}

// WithClock 设置时钟，签名时间戳与盐值都来自这里
func WithClock(now func() time.Time) Option {
	return func(o *Options) {
		o.Clock = now
	}
}

// WithLogger 设置日志
func WithLogger(logger *zap.Logger) Option {
	return func(o *Options) {
		if logger != nil {
			o.Logger = logger
		}
	}
}

// WithDetector 设置源语言检测器
func WithDetector(d translator.Detector) Option {
	return func(o *Options) {
		o.Detector = d
	}
}

// NewOptions 应用选项并补齐默认值
func NewOptions(opts ...Option) Options {
	o := Options{
		Clock:  time.Now,
		Logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.Clock == nil {
		o.Clock = time.Now
	}
	if o.Transport == nil {
		o.Transport = transport.NewHTTP(transport.DefaultConfig(), o.Logger)
	}
	return o
}

// SignError 签名失败转为翻译错误，缺少凭据视为 AUTH_ERROR
func SignError(err error) *translator.Error {
	if errors.Is(err, signer.ErrMissingCredential) {
		return translator.WrapError(translator.ErrAuth, "missing credential", err)
	}
	return translator.WrapError(translator.ErrUnknown, "sign", err)
}

// DecodeError 响应无法解析时的错误
func DecodeError(err error) *translator.Error {
	return translator.WrapError(translator.ErrUnknown, "decode response", err)
}

// ApplyHeaders 写入配置中的自定义头部
func ApplyHeaders(req *transport.Request, headers map[string]string) {
	for k, v := range headers {
		req.SetHeader(k, v)
	}
}

// Code 兼容字符串与数字两种写法的错误码
type Code string

// UnmarshalJSON 实现 json.Unmarshaler
func (c *Code) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = Code(s)
		return nil
	}
	if string(data) == "null" {
		*c = ""
		return nil
	}
	*c = Code(data)
	return nil
}
