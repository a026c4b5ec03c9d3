package factory

import (
	"fmt"

	lingua "github.com/pemistahl/lingua-go"
	"go.uber.org/zap"

	"github.com/nerdneilsfield/go-translator-services/internal/config"
	"github.com/nerdneilsfield/go-translator-services/pkg/detect"
	"github.com/nerdneilsfield/go-translator-services/pkg/providers"
	"github.com/nerdneilsfield/go-translator-services/pkg/providers/aliyun"
	"github.com/nerdneilsfield/go-translator-services/pkg/providers/baidu"
	"github.com/nerdneilsfield/go-translator-services/pkg/providers/caiyun"
	"github.com/nerdneilsfield/go-translator-services/pkg/providers/stats"
	"github.com/nerdneilsfield/go-translator-services/pkg/providers/tencentsmart"
	"github.com/nerdneilsfield/go-translator-services/pkg/providers/volc"
	"github.com/nerdneilsfield/go-translator-services/pkg/translator"
	"github.com/nerdneilsfield/go-translator-services/pkg/transport"
)

// ProviderFactory 提供商工厂
type ProviderFactory struct {
	config    *config.Config
	logger    *zap.Logger
	transport transport.Transport
	detector  translator.Detector
	stats     *stats.StatsManager
}

// Option 定义工厂选项
type Option func(*ProviderFactory)

// WithLogger 设置日志
func WithLogger(logger *zap.Logger) Option {
	return func(f *ProviderFactory) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithTransport 替换传输层
func WithTransport(t transport.Transport) Option {
	return func(f *ProviderFactory) {
		f.transport = t
	}
}

// WithDetector 替换源语言检测器
func WithDetector(d translator.Detector) Option {
	return func(f *ProviderFactory) {
		f.detector = d
	}
}

// WithStats 为创建的引擎挂上统计中间件
func WithStats(sm *stats.StatsManager) Option {
	return func(f *ProviderFactory) {
		f.stats = sm
	}
}

// New 创建新的提供商工厂
func New(cfg *config.Config, opts ...Option) *ProviderFactory {
	if cfg == nil {
		cfg = config.NewDefaultConfig()
	}

	f := &ProviderFactory{
		config: cfg,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}

	if f.transport == nil {
		f.transport = transport.NewHTTP(cfg.TransportConfig(), f.logger)
	}
	if f.detector == nil {
		// 只需覆盖彩云支持的源语言
		f.detector = detect.NewLingua(lingua.Chinese, lingua.English, lingua.Japanese)
	}
	return f
}

// CreateProvider 根据配置创建提供商
func (f *ProviderFactory) CreateProvider(name string) (providers.Provider, error) {
	opts := []providers.Option{
		providers.WithTransport(f.transport),
		providers.WithLogger(f.logger),
	}
	p := f.config.Providers

	switch name {
	case aliyun.Name:
		return aliyun.New(p.Aliyun, opts...), nil
	case baidu.Name:
		return baidu.New(p.Baidu, opts...), nil
	case caiyun.Name:
		return caiyun.New(p.Caiyun, append(opts, providers.WithDetector(f.detector))...), nil
	case volc.Name:
		return volc.New(p.Volc, opts...), nil
	case tencentsmart.Name:
		return tencentsmart.New(p.TencentSmart, opts...), nil
	default:
		return nil, fmt.Errorf("unsupported provider type %q: %w", name, providers.ErrProviderNotFound)
	}
}

// CreateEngine 创建带统一错误处理的引擎
func (f *ProviderFactory) CreateEngine(name string) (translator.Engine, error) {
	provider, err := f.CreateProvider(name)
	if err != nil {
		return nil, err
	}

	var engine translator.Engine = translator.New(provider, translator.WithLogger(f.logger))
	if f.stats != nil {
		engine = stats.NewStatisticsMiddleware(engine, f.stats)
	}
	return engine, nil
}

// Registry 创建包含全部提供商的注册表
func (f *ProviderFactory) Registry() (*providers.Registry, error) {
	registry := providers.NewRegistry()
	for _, name := range config.KnownProviders {
		engine, err := f.CreateEngine(name)
		if err != nil {
			return nil, err
		}
		if err := registry.Register(name, engine); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

// Capabilities 按固定顺序返回全部提供商的能力
func (f *ProviderFactory) Capabilities() []providers.Capabilities {
	out := make([]providers.Capabilities, 0, len(config.KnownProviders))
	for _, name := range config.KnownProviders {
		provider, err := f.CreateProvider(name)
		if err != nil {
			continue
		}
		out = append(out, provider.Capabilities())
	}
	return out
}
