package translator

import "go.uber.org/zap"

// Option 定义翻译器选项
type Option func(*translatorOptions)

// translatorOptions 包含翻译器选项
type translatorOptions struct {
	logger *zap.Logger
	name   string
}

// WithLogger 设置诊断日志
func WithLogger(logger *zap.Logger) Option {
	return func(opts *translatorOptions) {
		if logger != nil {
			opts.logger = logger
		}
	}
}

// WithName 覆盖结果中的引擎名称
func WithName(name string) Option {
	return func(opts *translatorOptions) {
		opts.name = name
	}
}
